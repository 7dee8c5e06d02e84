// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Ryan Johnson

package vnc

import (
	"bytes"
	"testing"
)

func testPixelFormat32() PixelFormat {
	return PixelFormat{
		BPP: 32, Depth: 24, BigEndian: false, TrueColor: true,
		RedMax: 255, GreenMax: 255, BlueMax: 255,
		RedShift: 16, GreenShift: 8, BlueShift: 0,
	}
}

func TestMemGraphicsHost_CreateSurface(t *testing.T) {
	host := NewMemGraphicsHost(nil)

	surf, err := host.CreateSurface(4, 3, testPixelFormat32())
	if err != nil {
		t.Fatalf("CreateSurface failed: %v", err)
	}
	if surf.Width() != 4 || surf.Height() != 3 {
		t.Errorf("surface size = %dx%d, want 4x3", surf.Width(), surf.Height())
	}

	if _, err := host.CreateSurface(0, 3, testPixelFormat32()); err == nil {
		t.Error("expected error for zero width")
	}
}

func TestMemGraphicsHost_Blit(t *testing.T) {
	host := NewMemGraphicsHost(nil)
	surf, err := host.CreateSurface(4, 4, testPixelFormat32())
	if err != nil {
		t.Fatalf("CreateSurface failed: %v", err)
	}

	pixels := []byte{
		1, 2, 3, 4, 5, 6, 7, 8,
	}
	if err := host.Blit(surf, 1, 1, 2, 1, pixels); err != nil {
		t.Fatalf("Blit failed: %v", err)
	}

	mem := surf.(*MemSurface)
	buf := mem.Lock()
	defer mem.Unlock()

	stride := 4 * 4
	off := 1*stride + 1*4
	got := buf[off : off+8]
	if !bytes.Equal(got, pixels) {
		t.Errorf("blitted pixels = %v, want %v", got, pixels)
	}
}

func TestMemGraphicsHost_BlitOutOfBounds(t *testing.T) {
	host := NewMemGraphicsHost(nil)
	surf, _ := host.CreateSurface(2, 2, testPixelFormat32())

	pixels := make([]byte, 4*4)
	if err := host.Blit(surf, 1, 1, 2, 2, pixels); err == nil {
		t.Error("expected error for out-of-bounds blit")
	}
}

func TestMemGraphicsHost_BlitCopy_NonOverlapping(t *testing.T) {
	host := NewMemGraphicsHost(nil)
	surf, _ := host.CreateSurface(4, 4, testPixelFormat32())
	mem := surf.(*MemSurface)

	buf := mem.Lock()
	for i := range buf[:16] {
		buf[i] = byte(i + 1)
	}
	mem.Unlock()

	if err := host.BlitCopy(surf, 2, 2, 0, 0, 1, 1); err != nil {
		t.Fatalf("BlitCopy failed: %v", err)
	}

	buf = mem.Lock()
	defer mem.Unlock()
	stride := 4 * 4
	srcOff := 0
	dstOff := 2*stride + 2*4
	if !bytes.Equal(buf[dstOff:dstOff+4], buf[srcOff:srcOff+4]) {
		t.Error("copied pixel does not match source")
	}
}

func TestMemGraphicsHost_BlitCopy_OverlappingRowsSafe(t *testing.T) {
	host := NewMemGraphicsHost(nil)
	surf, _ := host.CreateSurface(1, 4, testPixelFormat32())
	mem := surf.(*MemSurface)

	buf := mem.Lock()
	for row := 0; row < 4; row++ {
		buf[row*4] = byte(row + 1)
	}
	mem.Unlock()

	// Shift all rows down by one: dst=(0,1) src=(0,0), height=3. Moving
	// down requires copying from the bottom row up so row 2 isn't
	// clobbered by row 1's write before it's read.
	if err := host.BlitCopy(surf, 0, 1, 0, 0, 1, 3); err != nil {
		t.Fatalf("BlitCopy failed: %v", err)
	}

	buf = mem.Lock()
	defer mem.Unlock()
	want := []byte{1, 1, 2, 3}
	for row := 0; row < 4; row++ {
		if buf[row*4] != want[row] {
			t.Errorf("row %d = %d, want %d", row, buf[row*4], want[row])
		}
	}
}

func TestMemGraphicsHost_ResizeWindow(t *testing.T) {
	var gotW, gotH uint16
	host := NewMemGraphicsHost(func(w, h uint16) error {
		gotW, gotH = w, h
		return nil
	})

	if err := host.ResizeWindow(640, 480); err != nil {
		t.Fatalf("ResizeWindow failed: %v", err)
	}
	if gotW != 640 || gotH != 480 {
		t.Errorf("onResize got (%d,%d), want (640,480)", gotW, gotH)
	}
}

func TestMemGraphicsHost_ResizeWindow_NilCallback(t *testing.T) {
	host := NewMemGraphicsHost(nil)
	if err := host.ResizeWindow(640, 480); err != nil {
		t.Errorf("expected nil error with no callback, got %v", err)
	}
}

func TestGraphicsHost_SatisfiesWindowResizer(t *testing.T) {
	var c ClientConn
	host := NewMemGraphicsHost(nil)
	c.AttachResizer(host)
	if c.resizer == nil {
		t.Error("expected GraphicsHost to satisfy Resizer/WindowResizer")
	}
}

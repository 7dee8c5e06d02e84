// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Ryan Johnson

package vnc

import "sync"

// MemSurface is an in-memory Surface storing pixels as a flat byte slice in
// row-major order, bytesPerPixel wide per pixel.
type MemSurface struct {
	mu     sync.Mutex
	width  int
	height int
	bpp    int
	pixels []byte
}

// NewMemSurface allocates a MemSurface sized for width x height pixels in
// the given format. Formats with a zero BPP (shouldn't occur post
// negotiation) default to 4 bytes per pixel.
func NewMemSurface(width, height int, format PixelFormat) *MemSurface {
	bpp := int(format.BPP / 8)
	if bpp == 0 {
		bpp = 4
	}
	return &MemSurface{
		width:  width,
		height: height,
		bpp:    bpp,
		pixels: make([]byte, width*height*bpp),
	}
}

// Width returns the surface width in pixels.
func (s *MemSurface) Width() int { return s.width }

// Height returns the surface height in pixels.
func (s *MemSurface) Height() int { return s.height }

// Lock acquires the surface's mutex and returns the backing pixel buffer.
func (s *MemSurface) Lock() []byte {
	s.mu.Lock()
	return s.pixels
}

// Unlock releases the lock acquired by Lock.
func (s *MemSurface) Unlock() {
	s.mu.Unlock()
}

// memGraphicsHost is the default in-memory GraphicsHost: it creates
// MemSurfaces, blits into them with bounds-checked copies, and forwards
// resize notifications to an optional callback without touching any real
// window.
type memGraphicsHost struct {
	onResize func(width, height uint16) error
}

// NewMemGraphicsHost returns a GraphicsHost backed by MemSurface, suitable
// for tests and headless callers with no real display toolkit. onResize, if
// non-nil, is invoked from ResizeWindow.
func NewMemGraphicsHost(onResize func(width, height uint16) error) GraphicsHost {
	return &memGraphicsHost{onResize: onResize}
}

// CreateSurface allocates a MemSurface.
func (h *memGraphicsHost) CreateSurface(width, height int, format PixelFormat) (Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, validationError("memGraphicsHost.CreateSurface", "surface dimensions must be positive", nil)
	}
	return NewMemSurface(width, height, format), nil
}

// Blit copies width x height pixels from pixels onto dst at (x, y).
func (h *memGraphicsHost) Blit(dst Surface, x, y, width, height int, pixels []byte) error {
	mem, ok := dst.(*MemSurface)
	if !ok {
		return validationError("memGraphicsHost.Blit", "dst is not a MemSurface", nil)
	}
	if x < 0 || y < 0 || width < 0 || height < 0 || x+width > mem.width || y+height > mem.height {
		return validationError("memGraphicsHost.Blit", "blit rectangle exceeds surface bounds", nil)
	}

	rowBytes := width * mem.bpp
	if len(pixels) < rowBytes*height {
		return validationError("memGraphicsHost.Blit", "insufficient pixel data for blit rectangle", nil)
	}

	buf := mem.Lock()
	defer mem.Unlock()

	stride := mem.width * mem.bpp
	for row := 0; row < height; row++ {
		dstOff := (y+row)*stride + x*mem.bpp
		srcOff := row * rowBytes
		copy(buf[dstOff:dstOff+rowBytes], pixels[srcOff:srcOff+rowBytes])
	}
	return nil
}

// BlitCopy implements the CopyRect encoding: copy one region of the surface
// onto another, correct even when source and destination rows overlap.
func (h *memGraphicsHost) BlitCopy(dst Surface, dstX, dstY, srcX, srcY, width, height int) error {
	mem, ok := dst.(*MemSurface)
	if !ok {
		return validationError("memGraphicsHost.BlitCopy", "dst is not a MemSurface", nil)
	}
	if srcX < 0 || srcY < 0 || width < 0 || height < 0 ||
		srcX+width > mem.width || srcY+height > mem.height ||
		dstX < 0 || dstY < 0 || dstX+width > mem.width || dstY+height > mem.height {
		return validationError("memGraphicsHost.BlitCopy", "copy-rect region exceeds surface bounds", nil)
	}

	buf := mem.Lock()
	defer mem.Unlock()

	stride := mem.width * mem.bpp
	rowBytes := width * mem.bpp

	// Overlapping source/destination regions must be copied in an order that
	// never overwrites a row before it has been read: bottom-up when moving
	// down, top-down otherwise.
	start, end, step := 0, height, 1
	if dstY > srcY {
		start, end, step = height-1, -1, -1
	}

	tmp := make([]byte, rowBytes)
	for row := start; row != end; row += step {
		srcOff := (srcY+row)*stride + srcX*mem.bpp
		dstOff := (dstY+row)*stride + dstX*mem.bpp
		copy(tmp, buf[srcOff:srcOff+rowBytes])
		copy(buf[dstOff:dstOff+rowBytes], tmp)
	}
	return nil
}

// ResizeWindow forwards to onResize, if one was supplied.
func (h *memGraphicsHost) ResizeWindow(width, height uint16) error {
	if h.onResize == nil {
		return nil
	}
	return h.onResize(width, height)
}

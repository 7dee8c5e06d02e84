// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Ryan Johnson

package vnc

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"testing"
	"time"
)

func TestResultCode_String(t *testing.T) {
	tests := []struct {
		code ResultCode
		want string
	}{
		{ResultOk, "ok"},
		{ResultOutOfMemory, "out of memory"},
		{ResultCouldNotCreateSocket, "could not create socket"},
		{ResultCouldNotConnect, "could not connect"},
		{ResultServerDisconnect, "server disconnect"},
		{ResultUnsupportedSecurityProtocols, "unsupported security protocols"},
		{ResultSecurityHandshakeFailed, "security handshake failed"},
		{ResultUnimplemented, "unimplemented"},
		{ResultCode(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.code.String(); got != tt.want {
			t.Errorf("ResultCode(%d).String() = %q, want %q", tt.code, got, tt.want)
		}
	}
}

// TestResultCode_WireValues pins the integer values crossing the host event
// contract; they are part of the external interface and must not drift.
func TestResultCode_WireValues(t *testing.T) {
	values := map[ResultCode]int{
		ResultOk:                           0,
		ResultOutOfMemory:                  1,
		ResultCouldNotCreateSocket:         2,
		ResultCouldNotConnect:              3,
		ResultServerDisconnect:             4,
		ResultUnsupportedSecurityProtocols: 5,
		ResultSecurityHandshakeFailed:      6,
		ResultUnimplemented:                7,
	}
	for code, want := range values {
		if int(code) != want {
			t.Errorf("%v = %d, want %d", code, int(code), want)
		}
	}
}

func TestWithDefaultPort(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"localhost:5901", "localhost:5901"},
		{"localhost", "localhost:5900"},
		{"192.0.2.1", "192.0.2.1:5900"},
		{"192.0.2.1:5901", "192.0.2.1:5901"},
	}
	for _, tt := range tests {
		if got := withDefaultPort(tt.in); got != tt.want {
			t.Errorf("withDefaultPort(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestConnect_DialsAndHandshakes(t *testing.T) {
	server := NewMockVNCServer()
	server.AcceptAuth = true
	if err := server.Start(); err != nil {
		t.Fatalf("failed to start mock server: %v", err)
	}
	defer server.Stop()

	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := Connect(ctx, "tcp", server.Addr(),
		WithAuth(&ClientAuthNone{}),
		WithLogger(&NoOpLogger{}),
	)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Close()

	if client.FrameBufferWidth == 0 {
		t.Error("expected non-zero framebuffer width after Connect")
	}
}

// TestConnect_SendsSetEncodingsAndInitialUpdateRequest asserts the bytes a
// freshly connected client emits right after the 3.8 no-auth handshake: a
// SetEncodings message advertising the five default encoding ids, then the
// non-incremental full-screen FramebufferUpdateRequest that kicks off the
// first server update.
func TestConnect_SendsSetEncodingsAndInitialUpdateRequest(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("error listening: %s", err)
	}
	defer ln.Close()

	type handshakeTail struct {
		setEnc []byte
		fbur   []byte
		err    error
	}
	tailCh := make(chan handshakeTail, 1)

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			tailCh <- handshakeTail{err: err}
			return
		}
		defer conn.Close()
		if err := conn.SetDeadline(time.Now().Add(5 * time.Second)); err != nil {
			tailCh <- handshakeTail{err: err}
			return
		}

		buf := make([]byte, 12)
		fmt.Fprintf(conn, "RFB 003.008\n")
		io.ReadFull(conn, buf)         // client version
		conn.Write([]byte{1, 1})       // one security type: None
		io.ReadFull(conn, buf[:1])     // client's selection
		conn.Write([]byte{0, 0, 0, 0}) // SecurityResult: OK
		io.ReadFull(conn, buf[:1])     // shared flag

		// ServerInit: 640x480, 32bpp little-endian true color, name "x".
		conn.Write([]byte{
			0x02, 0x80, 0x01, 0xE0,
			32, 24, 0, 1,
			0, 255, 0, 255, 0, 255,
			16, 8, 0,
			0, 0, 0,
			0, 0, 0, 1, 'x',
		})

		setEnc := make([]byte, 4+4*5)
		if _, err := io.ReadFull(conn, setEnc); err != nil {
			tailCh <- handshakeTail{err: err}
			return
		}
		fbur := make([]byte, 10)
		if _, err := io.ReadFull(conn, fbur); err != nil {
			tailCh <- handshakeTail{err: err}
			return
		}
		tailCh <- handshakeTail{setEnc: setEnc, fbur: fbur}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := Connect(ctx, "tcp", ln.Addr().String(), WithLogger(&NoOpLogger{}))
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Close()

	tail := <-tailCh
	if tail.err != nil {
		t.Fatalf("mock server error: %v", tail.err)
	}

	if tail.setEnc[0] != 2 || tail.setEnc[1] != 0 {
		t.Errorf("SetEncodings header = %#x %#x, want 0x02 0x00", tail.setEnc[0], tail.setEnc[1])
	}
	if got := binary.BigEndian.Uint16(tail.setEnc[2:4]); got != 5 {
		t.Errorf("SetEncodings count = %d, want 5", got)
	}
	wantIDs := []int32{1, 0, -223, -313, -258}
	for i, want := range wantIDs {
		off := 4 + 4*i
		if got := int32(binary.BigEndian.Uint32(tail.setEnc[off : off+4])); got != want {
			t.Errorf("SetEncodings id %d = %d, want %d", i, got, want)
		}
	}

	wantFBUR := []byte{3, 0, 0, 0, 0, 0, 0x02, 0x80, 0x01, 0xE0}
	if !bytes.Equal(tail.fbur, wantFBUR) {
		t.Errorf("initial update request = % x, want % x", tail.fbur, wantFBUR)
	}
}

func TestConnect_BareHostnameGetsDefaultPort(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	// No server listens on the default port for this made-up host, so the
	// dial should fail quickly with an error naming the defaulted address
	// rather than hang or panic.
	_, err := Connect(ctx, "tcp", "203.0.113.1")
	if err == nil {
		t.Fatal("expected Connect to fail against an unreachable host")
	}
}

func TestShutdownChannel_PublishesOnceOnClose(t *testing.T) {
	server := NewMockVNCServer()
	server.AcceptAuth = true
	if err := server.Start(); err != nil {
		t.Fatalf("failed to start mock server: %v", err)
	}
	defer server.Stop()

	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	shutdownCh := make(chan Result, 1)
	client, err := Connect(ctx, "tcp", server.Addr(),
		WithAuth(&ClientAuthNone{}),
		WithLogger(&NoOpLogger{}),
		WithShutdownChannel(shutdownCh),
	)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	client.Close()

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer waitCancel()

	result := client.Wait(waitCtx)
	if result.Code != ResultServerDisconnect {
		t.Errorf("Wait() returned code %v, want ResultServerDisconnect", result.Code)
	}
}

// TestShutdownChannel_ServerDisconnectOnPeerClose covers the peer-close
// path: the server goes away after the handshake, and within one read
// cycle the receive loop publishes exactly one ServerDisconnect result.
func TestShutdownChannel_ServerDisconnectOnPeerClose(t *testing.T) {
	server := NewMockVNCServer()
	server.AcceptAuth = true
	if err := server.Start(); err != nil {
		t.Fatalf("failed to start mock server: %v", err)
	}

	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	shutdownCh := make(chan Result, 1)
	client, err := Connect(ctx, "tcp", server.Addr(),
		WithAuth(&ClientAuthNone{}),
		WithLogger(&NoOpLogger{}),
		WithShutdownChannel(shutdownCh),
	)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Close()

	// Take the server down; the client's next read fails.
	server.Stop()

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer waitCancel()

	result := client.Wait(waitCtx)
	if result.Code != ResultServerDisconnect {
		t.Errorf("Wait() returned code %v, want ResultServerDisconnect", result.Code)
	}

	// Exactly one event: the channel must now be empty.
	select {
	case extra := <-shutdownCh:
		t.Errorf("second shutdown event published: %+v", extra)
	default:
	}
}

func TestAutoRequestUpdates_RearmsAfterUpdate(t *testing.T) {
	server := NewMockVNCServer()
	server.AcceptAuth = true
	server.SendUpdates = true
	if err := server.Start(); err != nil {
		t.Fatalf("failed to start mock server: %v", err)
	}
	defer server.Stop()

	time.Sleep(50 * time.Millisecond)

	msgCh := make(chan ServerMessage, 16)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := Connect(ctx, "tcp", server.Addr(),
		WithAuth(&ClientAuthNone{}),
		WithLogger(&NoOpLogger{}),
		WithServerMessageChannel(msgCh),
		WithFPS(20),
	)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Close()

	// Connect itself sends the initial non-incremental request; the server
	// answers each request with one update, so seeing more than one update
	// proves the loop re-armed an incremental request on its own.
	seen := 0
	timeout := time.After(1 * time.Second)
	for seen < 2 {
		select {
		case msg := <-msgCh:
			if _, ok := msg.(*FramebufferUpdateMessage); ok {
				seen++
			}
		case <-timeout:
			t.Fatalf("expected at least 2 auto-rearmed updates, saw %d", seen)
		}
	}
}

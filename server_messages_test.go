// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Ryan Johnson

package vnc

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// TestServerMessages_ServerCutText verifies the ServerCutText wire framing:
// 3 padding bytes, a big-endian uint32 length, then exactly length bytes of
// Latin-1 text, with nothing extra consumed from the stream.
func TestServerMessages_ServerCutText(t *testing.T) {
	text := "clipboard contents"

	var payload bytes.Buffer
	payload.Write([]byte{0x00, 0x00, 0x00}) // padding
	binary.Write(&payload, binary.BigEndian, uint32(len(text)))
	payload.WriteString(text)
	payload.WriteByte(0xEE) // trailing byte that must not be consumed

	conn := &ClientConn{logger: &NoOpLogger{}}
	reader := bytes.NewReader(payload.Bytes())

	msg, err := new(ServerCutTextMessage).Read(conn, reader)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	cutText, ok := msg.(*ServerCutTextMessage)
	if !ok {
		t.Fatalf("Read returned %T, want *ServerCutTextMessage", msg)
	}
	if cutText.Text != text {
		t.Errorf("Text = %q, want %q", cutText.Text, text)
	}

	if reader.Len() != 1 {
		t.Errorf("reader has %d unread bytes, want 1 (message must consume exactly its own payload)", reader.Len())
	}
}

func TestServerMessages_ServerCutTextEmpty(t *testing.T) {
	payload := []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}

	conn := &ClientConn{logger: &NoOpLogger{}}
	msg, err := new(ServerCutTextMessage).Read(conn, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got := msg.(*ServerCutTextMessage).Text; got != "" {
		t.Errorf("Text = %q, want empty", got)
	}
}

func TestServerMessages_ServerCutTextShortStream(t *testing.T) {
	// Length promises 10 bytes but the stream ends early.
	var payload bytes.Buffer
	payload.Write([]byte{0x00, 0x00, 0x00})
	binary.Write(&payload, binary.BigEndian, uint32(10))
	payload.WriteString("abc")

	conn := &ClientConn{logger: &NoOpLogger{}}
	if _, err := new(ServerCutTextMessage).Read(conn, bytes.NewReader(payload.Bytes())); err == nil {
		t.Error("expected error on truncated text data, got nil")
	}
}

// TestServerMessages_SetColorMapEntries verifies that palette entries are
// decoded big-endian and installed at the advertised offset in the
// connection's color map.
func TestServerMessages_SetColorMapEntries(t *testing.T) {
	var payload bytes.Buffer
	payload.WriteByte(0x00)                                // padding
	binary.Write(&payload, binary.BigEndian, uint16(5))    // first color index
	binary.Write(&payload, binary.BigEndian, uint16(2))    // number of colors
	binary.Write(&payload, binary.BigEndian, uint16(0x1122)) // R0
	binary.Write(&payload, binary.BigEndian, uint16(0x3344)) // G0
	binary.Write(&payload, binary.BigEndian, uint16(0x5566)) // B0
	binary.Write(&payload, binary.BigEndian, uint16(0xFFFF)) // R1
	binary.Write(&payload, binary.BigEndian, uint16(0x0000)) // G1
	binary.Write(&payload, binary.BigEndian, uint16(0x8080)) // B1

	conn := &ClientConn{logger: &NoOpLogger{}}
	msg, err := new(SetColorMapEntriesMessage).Read(conn, bytes.NewReader(payload.Bytes()))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	colorMap, ok := msg.(*SetColorMapEntriesMessage)
	if !ok {
		t.Fatalf("Read returned %T, want *SetColorMapEntriesMessage", msg)
	}
	if colorMap.FirstColor != 5 {
		t.Errorf("FirstColor = %d, want 5", colorMap.FirstColor)
	}
	if len(colorMap.Colors) != 2 {
		t.Fatalf("len(Colors) = %d, want 2", len(colorMap.Colors))
	}

	want5 := Color{R: 0x1122, G: 0x3344, B: 0x5566}
	want6 := Color{R: 0xFFFF, G: 0x0000, B: 0x8080}
	if conn.ColorMap[5] != want5 {
		t.Errorf("ColorMap[5] = %+v, want %+v", conn.ColorMap[5], want5)
	}
	if conn.ColorMap[6] != want6 {
		t.Errorf("ColorMap[6] = %+v, want %+v", conn.ColorMap[6], want6)
	}
	if conn.ColorMap[4] != (Color{}) || conn.ColorMap[7] != (Color{}) {
		t.Error("entries outside the advertised range were modified")
	}
}

func TestServerMessages_SetColorMapEntriesOutOfRange(t *testing.T) {
	// first=250 count=10 would overflow the 256-entry map.
	var payload bytes.Buffer
	payload.WriteByte(0x00)
	binary.Write(&payload, binary.BigEndian, uint16(250))
	binary.Write(&payload, binary.BigEndian, uint16(10))

	conn := &ClientConn{logger: &NoOpLogger{}}
	if _, err := new(SetColorMapEntriesMessage).Read(conn, bytes.NewReader(payload.Bytes())); err == nil {
		t.Error("expected error for out-of-range color map update, got nil")
	}
}

func TestServerMessages_Bell(t *testing.T) {
	conn := &ClientConn{logger: &NoOpLogger{}}
	reader := bytes.NewReader([]byte{0xAA})

	msg, err := new(BellMessage).Read(conn, reader)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if _, ok := msg.(*BellMessage); !ok {
		t.Fatalf("Read returned %T, want *BellMessage", msg)
	}
	if reader.Len() != 1 {
		t.Error("Bell has no payload; Read must not consume stream bytes")
	}
}

// TestServerMessages_FramebufferUpdateDesktopSize verifies that a
// DesktopSize pseudo-encoding rectangle updates the framebuffer dimensions
// without consuming any pixel payload from the stream.
func TestServerMessages_FramebufferUpdateDesktopSize(t *testing.T) {
	var payload bytes.Buffer
	payload.WriteByte(0x00)                             // padding
	binary.Write(&payload, binary.BigEndian, uint16(1)) // one rectangle
	binary.Write(&payload, binary.BigEndian, uint16(0)) // x
	binary.Write(&payload, binary.BigEndian, uint16(0)) // y
	binary.Write(&payload, binary.BigEndian, uint16(1024))
	binary.Write(&payload, binary.BigEndian, uint16(768))
	binary.Write(&payload, binary.BigEndian, int32(-223))
	payload.WriteByte(0xEE) // must remain unread

	conn := &ClientConn{
		logger:            &NoOpLogger{},
		FrameBufferWidth:  640,
		FrameBufferHeight: 480,
	}

	reader := bytes.NewReader(payload.Bytes())
	msg, err := new(FramebufferUpdateMessage).Read(conn, reader)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	update := msg.(*FramebufferUpdateMessage)
	if len(update.Rectangles) != 1 {
		t.Fatalf("len(Rectangles) = %d, want 1", len(update.Rectangles))
	}

	width, height := conn.GetFrameBufferSize()
	if width != 1024 || height != 768 {
		t.Errorf("framebuffer size = %dx%d, want 1024x768", width, height)
	}
	if reader.Len() != 1 {
		t.Errorf("reader has %d unread bytes, want 1 (DesktopSize carries no pixel payload)", reader.Len())
	}
}

// TestServerMessages_FramebufferUpdateQEMUKeyEvent verifies that the QEMU
// Extended Key Event pseudo-encoding flips the connection's capability flag.
func TestServerMessages_FramebufferUpdateQEMUKeyEvent(t *testing.T) {
	var payload bytes.Buffer
	payload.WriteByte(0x00)
	binary.Write(&payload, binary.BigEndian, uint16(1))
	binary.Write(&payload, binary.BigEndian, uint16(0))
	binary.Write(&payload, binary.BigEndian, uint16(0))
	binary.Write(&payload, binary.BigEndian, uint16(0))
	binary.Write(&payload, binary.BigEndian, uint16(0))
	binary.Write(&payload, binary.BigEndian, int32(-258))

	conn := &ClientConn{logger: &NoOpLogger{}}
	if conn.QEMUKeyEventsSupported() {
		t.Fatal("capability flag set before advertisement")
	}

	if _, err := new(FramebufferUpdateMessage).Read(conn, bytes.NewReader(payload.Bytes())); err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if !conn.QEMUKeyEventsSupported() {
		t.Error("capability flag not set after QEMU Extended Key Event advertisement")
	}
}

func TestServerMessages_FramebufferUpdateUnknownEncoding(t *testing.T) {
	var payload bytes.Buffer
	payload.WriteByte(0x00)
	binary.Write(&payload, binary.BigEndian, uint16(1))
	binary.Write(&payload, binary.BigEndian, uint16(0))
	binary.Write(&payload, binary.BigEndian, uint16(0))
	binary.Write(&payload, binary.BigEndian, uint16(4))
	binary.Write(&payload, binary.BigEndian, uint16(4))
	binary.Write(&payload, binary.BigEndian, int32(5)) // Hextile: not registered

	conn := &ClientConn{
		logger:            &NoOpLogger{},
		FrameBufferWidth:  640,
		FrameBufferHeight: 480,
	}

	_, err := new(FramebufferUpdateMessage).Read(conn, bytes.NewReader(payload.Bytes()))
	if err == nil {
		t.Fatal("expected error for unknown encoding, got nil")
	}
	if !IsVNCError(err, ErrUnsupported) && !IsVNCError(err, ErrEncoding) {
		t.Errorf("error = %v, want unsupported or encoding error", err)
	}
}

func TestServerMessages_Types(t *testing.T) {
	tests := []struct {
		msg  ServerMessage
		want uint8
	}{
		{new(FramebufferUpdateMessage), 0},
		{new(SetColorMapEntriesMessage), 1},
		{new(BellMessage), 2},
		{new(ServerCutTextMessage), 3},
	}
	for _, tt := range tests {
		if got := tt.msg.Type(); got != tt.want {
			t.Errorf("%T.Type() = %d, want %d", tt.msg, got, tt.want)
		}
	}
}

// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Ryan Johnson

package vnc

import (
	"bytes"
)

// Wheel button mask bits, aliased onto the generic extra-button constants so
// their positions match RFC 6143's de-facto wheel convention exactly: bit 3
// (wheel up), bit 4 (wheel down), bit 5 (wheel left), bit 6 (wheel right).
const (
	ButtonWheelUp    = Button4
	ButtonWheelDown  = Button5
	ButtonWheelLeft  = Button6
	ButtonWheelRight = Button7
)

// Resizer receives notifications when the server changes the desktop size
// via the DesktopSize pseudo-encoding, so a host window can be resized to
// match. It stands in for the "host graphics contract" resize_window(window,
// w, h) call described alongside framebuffer resizing; this core has no
// window of its own, so callers that own one register a Resizer to be told
// about it.
type Resizer interface {
	ResizeWindow(width, height uint16) error
}

// ResizerFunc adapts a plain function to the Resizer interface.
type ResizerFunc func(width, height uint16) error

// ResizeWindow calls f.
func (f ResizerFunc) ResizeWindow(width, height uint16) error { return f(width, height) }

// AttachResizer records a Resizer to be notified when DesktopSize pseudo
// encodings arrive, mirroring the connection façade's attach_window
// operation. Passing nil detaches any previously attached resizer.
func (c *ClientConn) AttachResizer(r Resizer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resizer = r
}

// AttachWindow records a GraphicsHost to receive DesktopSize window-resize
// notifications and to receive decoded Raw/CopyRect rectangles, for callers
// that went through ClientWithContext directly rather than WithGraphicsHost.
// window is accepted for interface symmetry with toolkits that key their
// resize call off a window handle; this core has no window of its own and
// only needs the GraphicsHost. If the framebuffer dimensions are already
// known (attaching after connect) and no framebuffer surface exists yet,
// one is created immediately so decoding has somewhere to blit.
func (c *ClientConn) AttachWindow(window any, host GraphicsHost) {
	_ = window
	c.AttachResizer(host)

	c.mu.Lock()
	c.graphicsHost = host
	needsSurface := host != nil && c.framebuffer == nil && c.FrameBufferWidth > 0 && c.FrameBufferHeight > 0
	width, height, format := c.FrameBufferWidth, c.FrameBufferHeight, c.PixelFormat
	c.mu.Unlock()

	if !needsSurface {
		return
	}

	surface, err := host.CreateSurface(int(width), int(height), format)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("Failed to create framebuffer surface on window attach",
				Field{Key: "error", Value: err})
		}
		return
	}
	c.setFramebuffer(surface)
}

// setQEMUKeyEventsSupported records whether the server advertised the QEMU
// Extended Key Event pseudo-encoding.
func (c *ClientConn) setQEMUKeyEventsSupported(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.qemuKeyEventsSupported = v
}

// QEMUKeyEventsSupported reports whether the server has advertised support
// for the QEMU Extended Key Event message.
func (c *ClientConn) QEMUKeyEventsSupported() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.qemuKeyEventsSupported
}

// SendKey translates a host keycode/scancode pair and emits whichever wire
// frame the server supports: the 12-byte QEMU Extended Key Event frame when
// the server advertised support for it and the scancode maps to a known
// qnum, otherwise the classic 8-byte KeyEvent frame when the keysym is
// mappable, otherwise the event is silently dropped as unmappable.
func (c *ClientConn) SendKey(down bool, key HostKeycode, scancode HostScancode, shift bool) error {
	keysym := TranslateKeysym(key, shift)
	qnum := ScancodeToQNum(scancode)

	switch selectKeyFrame(c.QEMUKeyEventsSupported(), keysym, qnum) {
	case keyFrameExtended:
		return c.qemuExtendedKeyEvent(down, keysym, qnum)
	case keyFrameClassic:
		return c.KeyEvent(keysym, down)
	default:
		c.logger.Debug("Dropping unmappable key event",
			Field{Key: "key", Value: key},
			Field{Key: "scancode", Value: scancode})
		return nil
	}
}

// qemuExtendedKeyEvent sends the QEMU Extended Key Event client message: a
// 12-byte frame {type=255, subtype=0, down:U16_be, keysym:U32_be, qnum:U32_be}.
func (c *ClientConn) qemuExtendedKeyEvent(down bool, keysym uint32, qnum uint32) error {
	var downValue uint16
	if down {
		downValue = 1
	}

	var buf bytes.Buffer
	fw := newFrameWriter(&buf)
	if err := fw.writeU8(255); err != nil {
		return networkError("qemuExtendedKeyEvent", "failed to write extended key event data", err)
	}
	if err := fw.writeU8(0); err != nil {
		return networkError("qemuExtendedKeyEvent", "failed to write extended key event data", err)
	}
	if err := fw.writeU16BE(downValue); err != nil {
		return networkError("qemuExtendedKeyEvent", "failed to write extended key event data", err)
	}
	if err := fw.writeU32BE(keysym); err != nil {
		return networkError("qemuExtendedKeyEvent", "failed to write extended key event data", err)
	}
	if err := fw.writeU32BE(qnum); err != nil {
		return networkError("qemuExtendedKeyEvent", "failed to write extended key event data", err)
	}

	if err := c.writeWithContext(c.ctx, buf.Bytes()); err != nil {
		return networkError("qemuExtendedKeyEvent", "failed to send extended key event", err)
	}

	return nil
}

// scrollPair emits a scroll tick as the RFC 6143 convention requires: one
// pointer event with the wheel bit set, immediately followed by one with it
// cleared. Servers interpret only a press-then-release as a single tick.
func (c *ClientConn) scrollPair(wheelBit ButtonMask, x, y uint16) error {
	if err := c.PointerEvent(wheelBit, x, y); err != nil {
		return err
	}
	return c.PointerEvent(0, x, y)
}

// ScrollUp emits a single scroll-up tick at (x, y).
func (c *ClientConn) ScrollUp(x, y uint16) error { return c.scrollPair(ButtonWheelUp, x, y) }

// ScrollDown emits a single scroll-down tick at (x, y).
func (c *ClientConn) ScrollDown(x, y uint16) error { return c.scrollPair(ButtonWheelDown, x, y) }

// ScrollLeft emits a single scroll-left tick at (x, y).
func (c *ClientConn) ScrollLeft(x, y uint16) error { return c.scrollPair(ButtonWheelLeft, x, y) }

// ScrollRight emits a single scroll-right tick at (x, y).
func (c *ClientConn) ScrollRight(x, y uint16) error { return c.scrollPair(ButtonWheelRight, x, y) }

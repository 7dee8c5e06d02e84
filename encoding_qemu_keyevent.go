// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Ryan Johnson

package vnc

import "io"

// QEMUExtendedKeyEventPseudoEncoding advertises support for the QEMU
// Extended Key Event client message (scancode-qualified key events). The
// server never sends pixel data for this pseudo-encoding; its mere presence
// in a FramebufferUpdate rectangle is the capability handshake.
type QEMUExtendedKeyEventPseudoEncoding struct{}

// Type returns the QEMU Extended Key Event pseudo-encoding identifier.
func (*QEMUExtendedKeyEventPseudoEncoding) Type() int32 { return -258 }

// IsPseudo reports that this is a pseudo-encoding.
func (*QEMUExtendedKeyEventPseudoEncoding) IsPseudo() bool { return true }

// Read consumes no payload; the rectangle carries no pixel data.
func (e *QEMUExtendedKeyEventPseudoEncoding) Read(*ClientConn, *Rectangle, io.Reader) (Encoding, error) {
	return e, nil
}

// Handle records that the server supports the extended key event message,
// so future key events prefer the scancode-qualified frame.
func (e *QEMUExtendedKeyEventPseudoEncoding) Handle(c *ClientConn, _ *Rectangle) error {
	c.setQEMUKeyEventsSupported(true)
	c.logger.Info("Server advertised QEMU extended key event support")
	return nil
}

// ContinuousUpdatesPseudoEncoding advertises client support for TightVNC's
// ContinuousUpdates extension. This core only sends the capability
// advertisement in SetEncodings; it does not implement the
// EnableContinuousUpdates / EndOfContinuousUpdates client/server message
// pair, so the server is free to ignore the advertisement and continue
// using FramebufferUpdateRequest-paced updates.
type ContinuousUpdatesPseudoEncoding struct{}

// Type returns the ContinuousUpdates pseudo-encoding identifier.
func (*ContinuousUpdatesPseudoEncoding) Type() int32 { return -313 }

// IsPseudo reports that this is a pseudo-encoding.
func (*ContinuousUpdatesPseudoEncoding) IsPseudo() bool { return true }

// Read consumes no payload.
func (e *ContinuousUpdatesPseudoEncoding) Read(*ClientConn, *Rectangle, io.Reader) (Encoding, error) {
	return e, nil
}

// Handle is a no-op: this core does not drive the ContinuousUpdates message
// pair, it only advertises the capability.
func (e *ContinuousUpdatesPseudoEncoding) Handle(*ClientConn, *Rectangle) error {
	return nil
}

// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Ryan Johnson

package vnc

import (
	"io"
)

// Encoding defines the interface for VNC framebuffer encoding methods.
type Encoding interface {
	Type() int32
	Read(*ClientConn, *Rectangle, io.Reader) (Encoding, error)
}

// PseudoEncoding defines the interface for VNC pseudo-encodings.
// Pseudo-encodings provide metadata or control information rather than pixel data.
type PseudoEncoding interface {
	Encoding

	IsPseudo() bool
	Handle(*ClientConn, *Rectangle) error
}

// DefaultEncodings returns the encoding preference list this core advertises
// via SetEncodings: CopyRect and Raw for pixel data, followed by the
// DesktopSize, ContinuousUpdates, and QEMU Extended Key Event pseudo-encoding
// capability advertisements, in that order.
func DefaultEncodings() []Encoding {
	return []Encoding{
		&CopyRectEncoding{},
		&RawEncoding{},
		&DesktopSizePseudoEncoding{},
		&ContinuousUpdatesPseudoEncoding{},
		&QEMUExtendedKeyEventPseudoEncoding{},
	}
}

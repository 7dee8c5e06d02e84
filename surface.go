// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Ryan Johnson

package vnc

// Surface is a lockable pixel buffer, sized to hold one framebuffer's worth
// of pixels in the connection's negotiated PixelFormat. Lock returns the
// backing byte slice for direct read/write access and must be paired with
// Unlock; callers must not retain the slice past Unlock.
type Surface interface {
	Width() int
	Height() int
	Lock() []byte
	Unlock()
}

// SurfaceFactory creates a Surface sized to hold width x height pixels in
// the given format.
type SurfaceFactory interface {
	CreateSurface(width, height int, format PixelFormat) (Surface, error)
}

// Blitter copies decoded rectangle pixels onto a Surface (Blit, used by Raw
// and similar pixel-carrying encodings) or copies one region of a Surface
// onto another (BlitCopy, the CopyRect encoding's semantics).
type Blitter interface {
	Blit(dst Surface, x, y, width, height int, pixels []byte) error
	BlitCopy(dst Surface, dstX, dstY, srcX, srcY, width, height int) error
}

// WindowResizer is notified when the server-driven desktop size changes, so
// a host window can be resized to match. Its ResizeWindow method is exactly
// Resizer's; WindowResizer is the host-graphics-contract name for the same
// capability.
type WindowResizer = Resizer

// GraphicsHost is the host graphics contract a connection drives: creating a
// pixel surface, blitting Raw/CopyRect rectangles onto it as the receive
// loop decodes them, and resizing the host window when DesktopSize
// pseudo-encodings arrive. A real toolkit (SDL, GLFW, etc.) is expected to
// provide its own GraphicsHost; MemSurface/memGraphicsHost in memsurface.go is the
// default for tests and headless callers.
type GraphicsHost interface {
	SurfaceFactory
	Blitter
	WindowResizer
}

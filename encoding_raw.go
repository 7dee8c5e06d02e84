// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Ryan Johnson

package vnc

import (
	"io"
)

// RawEncoding represents uncompressed pixel data as defined in RFC 6143 Section 7.7.1.
type RawEncoding struct {
	// Colors contains the decoded pixel data for the rectangle.
	Colors []Color
}

// Type returns the encoding type identifier for Raw encoding.
func (*RawEncoding) Type() int32 {
	return 0
}

// Read decodes raw pixel data from the server for the specified rectangle.
// This method implements the Encoding interface and processes uncompressed pixel data
// as defined in RFC 6143 Section 7.7.1. Each pixel is transmitted in the format
// specified by the connection's PixelFormat without any compression or transformation.
//
// The method reads pixel data in left-to-right, top-to-bottom order and converts
// each pixel from the wire format to the standard Color representation. For true color
// formats, it extracts RGB components using the pixel format's shift and mask values.
// For indexed color formats, it looks up colors in the connection's color map.
//
// Parameters:
//   - c: The client connection providing pixel format and color map information
//   - rect: The rectangle being decoded, specifying dimensions and position
//   - r: Reader containing the raw pixel data from the server
//
// Returns:
//   - Encoding: A new RawEncoding instance containing the decoded pixel colors
//   - error: EncodingError if pixel data cannot be read or decoded
//
// Example usage:
//
//	// This method is typically called by the VNC client's message processing loop
//	enc := &RawEncoding{}
//	decodedEnc, err := enc.Read(clientConn, rectangle, dataReader)
//	if err != nil {
//		log.Printf("Failed to decode raw encoding: %v", err)
//		return
//	}
//
//	// Access the decoded pixel data
//	rawEnc := decodedEnc.(*RawEncoding)
//	for i, color := range rawEnc.Colors {
//		// Process each pixel color
//		x := uint16(i % int(rectangle.Width))
//		y := uint16(i / int(rectangle.Width))
//		// Apply color to framebuffer at (rect.X + x, rect.Y + y)
//	}
//
// Pixel format handling:
//
//	// The method automatically handles different pixel formats:
//	// - 8-bit: Single byte per pixel (indexed or true color)
//	// - 16-bit: Two bytes per pixel (typically RGB565 true color)
//	// - 32-bit: Four bytes per pixel (typically RGBA true color)
//
//	// For true color formats, RGB components are extracted:
//	// red = (pixel >> RedShift) & RedMax
//	// green = (pixel >> GreenShift) & GreenMax
//	// blue = (pixel >> BlueShift) & BlueMax
//
//	// For indexed color formats, the pixel value is used as a color map index:
//	// color = colorMap[pixelValue]
//
// Performance characteristics:
// - No compression overhead (fastest decoding)
// - Highest bandwidth usage (largest data size)
// - Predictable memory usage (width × height × bytes-per-pixel)
// - Suitable for complex images with high color variation
//
// Error conditions:
// The method returns an EncodingError if:
// - Insufficient pixel data is available in the reader
// - I/O errors occur while reading pixel data
// - Invalid pixel format parameters are encountered.
func (*RawEncoding) Read(c *ClientConn, rect *Rectangle, r io.Reader) (Encoding, error) {
	pixelReader := NewPixelReader(c.PixelFormat, c.ColorMap)
	colors := make([]Color, int(rect.Height)*int(rect.Width))

	fr := newFrameReader(r)
	var staging stagingBuffer
	rowBytes := int(rect.Width) * pixelReader.BytesPerPixel()
	rawPixels := make([]byte, calculatePixelDataSize(rect.Width, rect.Height, c.PixelFormat))

	for y := uint16(0); y < rect.Height; y++ {
		row := staging.assure(rowBytes)
		if err := fr.bytesInto(row); err != nil {
			return nil, encodingError("RawEncoding.Read", "failed to read pixel row", err)
		}
		copy(rawPixels[int(y)*rowBytes:], row)
		pixelReader.ReadPixelRow(row, rect.Width, colors[int(y)*int(rect.Width):])
	}

	c.blitRawRectangle(rect, rawPixels)

	return &RawEncoding{colors}, nil
}

// blitRawRectangle blits decoded raw pixel bytes onto the connection's
// framebuffer surface at (rect.X, rect.Y), creating the surface on first use
// if a GraphicsHost is attached but no framebuffer exists yet. A no-op when
// no GraphicsHost has been attached.
func (c *ClientConn) blitRawRectangle(rect *Rectangle, rawPixels []byte) {
	host, fb := c.graphicsHostAndFramebuffer()
	if host == nil {
		return
	}

	if fb == nil {
		width, height := c.GetFrameBufferSize()
		created, err := host.CreateSurface(int(width), int(height), c.GetPixelFormat())
		if err != nil {
			c.logger.Error("Failed to create framebuffer surface for raw rectangle",
				Field{Key: "error", Value: err})
			return
		}
		c.setFramebuffer(created)
		fb = created
	}

	if err := host.Blit(fb, int(rect.X), int(rect.Y), int(rect.Width), int(rect.Height), rawPixels); err != nil {
		c.logger.Error("Failed to blit raw rectangle onto framebuffer",
			Field{Key: "x", Value: rect.X},
			Field{Key: "y", Value: rect.Y},
			Field{Key: "error", Value: err})
	}
}

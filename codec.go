// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Ryan Johnson

package vnc

import (
	"encoding/binary"
	"io"
)

// frameReader wraps a net.Conn-shaped io.Reader with big-endian primitive
// readers, spinning on short reads via io.ReadFull so callers never see a
// partial frame.
type frameReader struct {
	r io.Reader
}

func newFrameReader(r io.Reader) *frameReader {
	return &frameReader{r: r}
}

func (f *frameReader) u8() (uint8, error) {
	var b [1]byte
	if err := f.bytesInto(b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func (f *frameReader) u16BE() (uint16, error) {
	var b [2]byte
	if err := f.bytesInto(b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b[:]), nil
}

func (f *frameReader) u32BE() (uint32, error) {
	var b [4]byte
	if err := f.bytesInto(b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b[:]), nil
}

func (f *frameReader) i32BE() (int32, error) {
	v, err := f.u32BE()
	return int32(v), err // #nosec G115 - two's complement reinterpretation by design
}

// bytesInto fills dst completely or returns the underlying error, including
// io.ErrUnexpectedEOF on a short read.
func (f *frameReader) bytesInto(dst []byte) error {
	_, err := io.ReadFull(f.r, dst)
	return err
}

// frameWriter is the symmetric big-endian writer counterpart to frameReader.
type frameWriter struct {
	w io.Writer
}

func newFrameWriter(w io.Writer) *frameWriter {
	return &frameWriter{w: w}
}

func (f *frameWriter) writeU8(v uint8) error {
	_, err := f.w.Write([]byte{v})
	return err
}

func (f *frameWriter) writeU16BE(v uint16) error {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	_, err := f.w.Write(b[:])
	return err
}

func (f *frameWriter) writeU32BE(v uint32) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	_, err := f.w.Write(b[:])
	return err
}

func (f *frameWriter) writeI32BE(v int32) error {
	return f.writeU32BE(uint32(v)) // #nosec G115 - two's complement reinterpretation by design
}

func (f *frameWriter) writeBytes(data []byte) error {
	_, err := f.w.Write(data)
	return err
}

// stagingBuffer is a reusable, monotonically-growing byte buffer for
// batching row-sized reads out of a rectangle's pixel stream. assure must be
// called on a pointer receiver: growing a buffer held by value only updates
// the copy and silently drops the larger backing array on the next call,
// which is the bug this type exists to avoid.
type stagingBuffer struct {
	buf []byte
}

// assure grows buf, if necessary, so that len(buf) >= n, and returns the
// n-byte prefix. Previously grown capacity is reused across calls.
func (s *stagingBuffer) assure(n int) []byte {
	if cap(s.buf) < n {
		s.buf = make([]byte, n)
	} else if len(s.buf) < n {
		s.buf = s.buf[:n]
	}
	return s.buf[:n]
}

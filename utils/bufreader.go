package utils

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/GooberRF/redux-sub001/logger"
)

// BufReader is a bounds-checked little-endian cursor over a byte slice.
//
// Reads past the end of the buffer never panic: the reader latches a
// truncation warning, logs it once, and from then on returns zero values.
// Callers therefore tolerate empty strings and zero vectors anywhere a
// malformed file stops short, and decoding continues with whatever was
// successfully read.
type BufReader struct {
	buf       []byte
	pos       int
	name      string
	truncated bool
}

func NewBufReader(name string, b []byte) *BufReader {
	return &BufReader{buf: b, name: name}
}

// Truncated reports whether any read ran past the end of the buffer.
func (r *BufReader) Truncated() bool {
	return r.truncated
}

func (r *BufReader) Pos() int {
	return r.pos
}

func (r *BufReader) Remaining() int {
	return len(r.buf) - r.pos
}

// markTruncated records a recoverable truncation. The cursor is left in
// place so later reads continue as if nothing were consumed.
func (r *BufReader) markTruncated(want int) {
	if !r.truncated {
		logger.Sugar.Warnf("%s: truncated read of %d bytes at 0x%x (have 0x%x)",
			r.name, want, r.pos, len(r.buf))
	}
	r.truncated = true
}

// Bytes returns the next n bytes, or a zeroed slice on truncation.
func (r *BufReader) Bytes(n int) []byte {
	if n < 0 || r.pos+n > len(r.buf) {
		r.markTruncated(n)
		return make([]byte, max(n, 0))
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b
}

// Skip advances the cursor without decoding, clamping at the buffer end.
func (r *BufReader) Skip(n int) {
	if n < 0 || r.pos+n > len(r.buf) {
		r.markTruncated(n)
		return
	}
	r.pos += n
}

// SeekTo positions the cursor at an absolute offset.
func (r *BufReader) SeekTo(pos int) {
	if pos < 0 || pos > len(r.buf) {
		r.markTruncated(pos - r.pos)
		return
	}
	r.pos = pos
}

func (r *BufReader) ReadU8() uint8 {
	return r.Bytes(1)[0]
}

func (r *BufReader) ReadU16() uint16 {
	return binary.LittleEndian.Uint16(r.Bytes(2))
}

func (r *BufReader) ReadU32() uint32 {
	return binary.LittleEndian.Uint32(r.Bytes(4))
}

func (r *BufReader) ReadI16() int16 {
	return int16(r.ReadU16())
}

func (r *BufReader) ReadI32() int32 {
	return int32(r.ReadU32())
}

func (r *BufReader) ReadF32() float32 {
	return math.Float32frombits(r.ReadU32())
}

func (r *BufReader) ReadVec2() mgl32.Vec2 {
	return mgl32.Vec2{r.ReadF32(), r.ReadF32()}
}

func (r *BufReader) ReadVec3() mgl32.Vec3 {
	return mgl32.Vec3{r.ReadF32(), r.ReadF32(), r.ReadF32()}
}

func (r *BufReader) ReadQuat() mgl32.Quat {
	x, y, z, w := r.ReadF32(), r.ReadF32(), r.ReadF32(), r.ReadF32()
	return mgl32.Quat{W: w, V: mgl32.Vec3{x, y, z}}
}

// ReadMat3 reads a row-major 3x3 rotation basis.
func (r *BufReader) ReadMat3() mgl32.Mat3 {
	var rows [3]mgl32.Vec3
	for i := range rows {
		rows[i] = r.ReadVec3()
	}
	return mgl32.Mat3FromRows(rows[0], rows[1], rows[2])
}

// Align skips padding up to the next multiple of n.
func (r *BufReader) Align(n int) {
	if rem := r.pos % n; rem != 0 {
		r.Skip(n - rem)
	}
}

// ReadVString reads a 16-bit-length-prefixed string with no terminator.
// A length running past the buffer yields an empty string and latches the
// truncation warning; callers must tolerate empty names.
func (r *BufReader) ReadVString() string {
	if r.Remaining() < 2 {
		r.markTruncated(2)
		return ""
	}
	n := int(r.ReadU16())
	if r.Remaining() < n {
		r.markTruncated(n)
		return ""
	}
	return BytesToString(r.Bytes(n))
}

// ReadFixedString reads an n-byte null-padded name field.
func (r *BufReader) ReadFixedString(n int) string {
	return BytesToString(r.Bytes(n))
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

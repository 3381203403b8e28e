package utils

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// BufWriter builds a little-endian binary buffer in memory. Write methods
// never fail except WriteVString, whose length prefix cannot represent
// strings over 65535 bytes.
type BufWriter struct {
	buf bytes.Buffer
}

func NewBufWriter() *BufWriter {
	return &BufWriter{}
}

func (w *BufWriter) Bytes() []byte {
	return w.buf.Bytes()
}

func (w *BufWriter) Len() int {
	return w.buf.Len()
}

func (w *BufWriter) WriteBytes(b []byte) {
	w.buf.Write(b)
}

func (w *BufWriter) WriteU8(v uint8) {
	w.buf.WriteByte(v)
}

func (w *BufWriter) WriteU16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.buf.Write(b[:])
}

func (w *BufWriter) WriteU32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

func (w *BufWriter) WriteI16(v int16) {
	w.WriteU16(uint16(v))
}

func (w *BufWriter) WriteI32(v int32) {
	w.WriteU32(uint32(v))
}

func (w *BufWriter) WriteF32(v float32) {
	w.WriteU32(math.Float32bits(v))
}

func (w *BufWriter) WriteVec2(v mgl32.Vec2) {
	w.WriteF32(v[0])
	w.WriteF32(v[1])
}

func (w *BufWriter) WriteVec3(v mgl32.Vec3) {
	w.WriteF32(v[0])
	w.WriteF32(v[1])
	w.WriteF32(v[2])
}

func (w *BufWriter) WriteQuat(q mgl32.Quat) {
	w.WriteF32(q.V[0])
	w.WriteF32(q.V[1])
	w.WriteF32(q.V[2])
	w.WriteF32(q.W)
}

// WriteMat3 writes a row-major 3x3 rotation basis.
func (w *BufWriter) WriteMat3(m mgl32.Mat3) {
	for row := 0; row < 3; row++ {
		w.WriteVec3(mgl32.Vec3{m.At(row, 0), m.At(row, 1), m.At(row, 2)})
	}
}

// WriteVString writes a 16-bit-length-prefixed string with no terminator.
func (w *BufWriter) WriteVString(s string) error {
	bs := StringToBytes(s)
	if len(bs) > 0xFFFF {
		return errors.Errorf("string of %d bytes is too long to length-prefix", len(bs))
	}
	w.WriteU16(uint16(len(bs)))
	w.buf.Write(bs)
	return nil
}

// WriteFixedString writes an n-byte null-padded name field.
func (w *BufWriter) WriteFixedString(s string, n int) {
	w.buf.Write(StringToBytesBuffer(s, n))
}

// Align pads with zero bytes up to the next multiple of n.
func (w *BufWriter) Align(n int) {
	for w.buf.Len()%n != 0 {
		w.buf.WriteByte(0)
	}
}

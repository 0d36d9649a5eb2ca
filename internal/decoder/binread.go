package decoder

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// reader is a bounds-checked little-endian cursor over a byte buffer. Every
// read returns an error instead of panicking on exhaustion, so record
// decoders can fail soft and let the block loop apply its skip recovery.
type reader struct {
	data []byte
	pos  int
}

func newReader(data []byte) *reader {
	return &reader{data: data}
}

func (r *reader) remaining() int {
	return len(r.data) - r.pos
}

func (r *reader) seek(pos int) {
	r.pos = pos
}

func (r *reader) need(n int) error {
	if n < 0 || r.pos+n > len(r.data) {
		return fmt.Errorf("need %d bytes at offset %d, have %d", n, r.pos, r.remaining())
	}
	return nil
}

func (r *reader) u8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := r.data[r.pos]
	r.pos++
	return v, nil
}

func (r *reader) u16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v, nil
}

func (r *reader) u32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *reader) i32() (int32, error) {
	v, err := r.u32()
	return int32(v), err
}

func (r *reader) f32() (float32, error) {
	v, err := r.u32()
	return math.Float32frombits(v), err
}

func (r *reader) f64() (float64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(r.data[r.pos:])
	r.pos += 8
	return math.Float64frombits(v), nil
}

func (r *reader) bytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	v := r.data[r.pos : r.pos+n]
	r.pos += n
	return v, nil
}

// pstring reads a string prefixed with a 1-byte length.
func (r *reader) pstring() (string, error) {
	n, err := r.u8()
	if err != nil {
		return "", err
	}
	b, err := r.bytes(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// cstring reads a fixed-size field and cuts it at the first NUL byte.
func (r *reader) cstring(size int) (string, error) {
	b, err := r.bytes(size)
	if err != nil {
		return "", err
	}
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b), nil
}

// Fixed-offset accessors used by the layout reader. Callers check bounds
// once against the layout size before using them.

func u32At(data []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(data[off:])
}

func i32At(data []byte, off int) int32 {
	return int32(binary.LittleEndian.Uint32(data[off:]))
}

func f32At(data []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
}

func f64At(data []byte, off int) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(data[off:]))
}

// helpers_test.go - shared builders for synthetic vendor files.
package decoder

import (
	"encoding/binary"
	"math"

	"github.com/marinelog/decoder/internal/models"
)

// bin builds little-endian test buffers field by field.
type bin struct {
	b []byte
}

func (w *bin) u8(v uint8) *bin {
	w.b = append(w.b, v)
	return w
}

func (w *bin) u16(v uint16) *bin {
	w.b = binary.LittleEndian.AppendUint16(w.b, v)
	return w
}

func (w *bin) u32(v uint32) *bin {
	w.b = binary.LittleEndian.AppendUint32(w.b, v)
	return w
}

func (w *bin) i32(v int32) *bin {
	return w.u32(uint32(v))
}

func (w *bin) f32(v float32) *bin {
	return w.u32(math.Float32bits(v))
}

func (w *bin) f64(v float64) *bin {
	w.b = binary.LittleEndian.AppendUint64(w.b, math.Float64bits(v))
	return w
}

// pstr appends a 1-byte length-prefixed string.
func (w *bin) pstr(s string) *bin {
	w.u8(uint8(len(s)))
	w.b = append(w.b, s...)
	return w
}

// cstr appends a fixed-size NUL-padded string field.
func (w *bin) cstr(s string, size int) *bin {
	field := make([]byte, size)
	copy(field, s)
	w.b = append(w.b, field...)
	return w
}

func (w *bin) raw(p []byte) *bin {
	w.b = append(w.b, p...)
	return w
}

func (w *bin) pad(n int) *bin {
	w.b = append(w.b, make([]byte, n)...)
	return w
}

func (w *bin) bytes() []byte {
	return w.b
}

// degreesToMercator is the inverse of the decoder's coordinate rescale.
func degreesToMercator(deg float64) int32 {
	return int32(math.Round(deg * float64(1<<31) / 180.0))
}

func floatPtrEquals(got *float64, want float64, tolerance float64) bool {
	return got != nil && math.Abs(*got-want) <= tolerance
}

// normalizeIDs clears generated UUIDs so two decodes of the same buffer
// compare equal.
func normalizeIDs(result *models.ParseResult) {
	for i := range result.Waypoints {
		result.Waypoints[i].ID = ""
	}
	for i := range result.Tracks {
		result.Tracks[i].ID = ""
	}
	for i := range result.Routes {
		result.Routes[i].ID = ""
		for j := range result.Routes[i].Waypoints {
			result.Routes[i].Waypoints[j].ID = ""
		}
	}
}

// ============ Vendor file builders ============

func lowranceFile(magic string) *bin {
	w := &bin{}
	w.raw([]byte(magic)).u8(2).u32(0).u32(1700000000).u32(0)
	return w
}

func (w *bin) lowranceBlock(recType uint8, payload []byte) *bin {
	w.u8(recType).u32(uint32(len(payload))).raw(payload)
	return w
}

func lowranceWaypointPayload(lat, lon float64, depth, temp float32, ts uint32, icon uint8, name string) []byte {
	p := &bin{}
	p.f64(lat).f64(lon).f32(depth).f32(temp).u32(ts).u8(icon).pstr(name)
	return p.bytes()
}

func lowranceTrackPointPayload(lat, lon float64, depth, speed, heading float32, ts uint32) []byte {
	p := &bin{}
	p.f64(lat).f64(lon).f32(depth).f32(speed).f32(heading).u32(ts)
	return p.bytes()
}

func admFile(dataOffset uint16) *bin {
	w := &bin{}
	w.raw([]byte(admMagic)).u8(1).u8(2).u16(dataOffset).u32(1700000000)
	return w
}

func (w *bin) admBlock(recType uint16, payload []byte) *bin {
	w.u16(recType).u32(uint32(len(payload))).raw(payload)
	return w
}

func admWaypointPayload(lat, lon float64, depth, temp float32, ts uint32, name string) []byte {
	p := &bin{}
	p.f64(lat).f64(lon).f32(depth).f32(temp).u32(ts).cstr(name, admNameSize)
	return p.bytes()
}

func datFile(declared uint16) *bin {
	w := &bin{}
	w.raw([]byte(humminbirdMagic)).u8(3).u16(declared).u16(0).u32(1700000000)
	return w
}

func (w *bin) datRecord(recType uint8, payload []byte) *bin {
	w.u8(recType).u16(uint16(len(payload))).raw(payload)
	return w
}

func datWaypointPayload(lat, lon, depthFeet, tempF float32, ts uint32, icon uint8, name string) []byte {
	p := &bin{}
	p.f32(lat).f32(lon).f32(depthFeet).f32(tempF).u32(ts).u8(icon).pstr(name)
	return p.bytes()
}

func sonFile(palette, gain, chartSpeed uint8, freqKHz uint16, rangeCm uint32) []byte {
	w := &bin{}
	w.raw([]byte(sonMagic)).u8(1).u32(1700000000)
	w.u8(palette).u8(gain).u8(chartSpeed).u8(0)
	w.u16(freqKHz).u32(rangeCm).u16(0)
	return w.bytes()
}

func fshFile() *bin {
	w := &bin{}
	w.raw([]byte(fshMagic)).u8(1).u16(0).u16(0).u32(1700000000).u32(0)
	return w
}

func (w *bin) fshBlock(recType uint16, payload []byte) *bin {
	w.u16(recType).u16(uint16(len(payload))).raw(payload)
	return w
}

func fshWaypointPayload(lat, lon float64, depth, temp float32, ts uint32, sym uint8, name string) []byte {
	p := &bin{}
	p.i32(degreesToMercator(lat)).i32(degreesToMercator(lon)).f32(depth).f32(temp).u32(ts).u8(sym).pstr(name)
	return p.bytes()
}

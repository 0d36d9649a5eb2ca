package decoder

import (
	"fmt"
	"math"

	"github.com/marinelog/decoder/internal/models"
)

// coordEncoding selects how a record layout stores coordinates.
type coordEncoding int

const (
	coordFloat64  coordEncoding = iota // 8-byte doubles, decimal degrees
	coordFloat32                       // 4-byte floats, decimal degrees
	coordMercator                      // signed 32-bit mercator integers
)

// fieldAbsent marks a channel the vendor does not store in a record.
const fieldAbsent = -1

// pointLayout is a fixed byte-offset table for one vendor's point-bearing
// records. Offsets are relative to the record payload start; size is the
// fixed-region length that must be present. Variable-length tails (icon
// bytes, names) are read by the owning decoder past the fixed region.
type pointLayout struct {
	coords     coordEncoding
	latOff     int
	lonOff     int
	depthOff   int
	tempOff    int
	speedOff   int
	headingOff int
	freqOff    int
	timeOff    int
	size       int
	depthFeet  bool // raw depth is feet, convert to meters
	tempF      bool // raw temperature is Fahrenheit with a >0 sentinel
}

// point is a decoded fixed-layout record in canonical units. Optional
// channels are nil when the vendor omits them or the raw value failed its
// sentinel test.
type point struct {
	lat, lon float64
	depth    *float64 // meters
	temp     *float64 // Celsius
	speed    *float64 // m/s
	heading  *float64 // degrees
	freq     *float64 // kHz
	time     uint32   // raw Unix seconds, 0 when absent
}

// readPoint decodes one fixed-layout record according to l, applying the
// vendor's unit conversions and sentinel filters so the returned point is
// already canonical. Coordinates out of range fail the whole record.
func readPoint(payload []byte, l pointLayout) (point, error) {
	if len(payload) < l.size {
		return point{}, fmt.Errorf("record payload is %d bytes, layout needs %d", len(payload), l.size)
	}

	var lat, lon float64
	switch l.coords {
	case coordFloat64:
		lat = f64At(payload, l.latOff)
		lon = f64At(payload, l.lonOff)
	case coordFloat32:
		lat = float64(f32At(payload, l.latOff))
		lon = float64(f32At(payload, l.lonOff))
	case coordMercator:
		lat = models.MercatorToDegrees(i32At(payload, l.latOff))
		lon = models.MercatorToDegrees(i32At(payload, l.lonOff))
	}
	if !models.ValidLatLon(lat, lon) {
		return point{}, fmt.Errorf("coordinates out of range: lat=%v lon=%v", lat, lon)
	}

	p := point{lat: lat, lon: lon}

	if l.depthOff != fieldAbsent {
		d := float64(f32At(payload, l.depthOff))
		if d > 0 && !math.IsInf(d, 0) {
			if l.depthFeet {
				d = models.FeetToMeters(d)
			}
			p.depth = &d
		}
	}

	if l.tempOff != fieldAbsent {
		t := float64(f32At(payload, l.tempOff))
		if l.tempF {
			if t > 0 && !math.IsInf(t, 0) {
				c := models.FahrenheitToCelsius(t)
				p.temp = &c
			}
		} else if models.PlausibleTemperature(t) {
			p.temp = &t
		}
	}

	if l.speedOff != fieldAbsent {
		s := float64(f32At(payload, l.speedOff))
		if s >= 0 && !math.IsInf(s, 0) {
			p.speed = &s
		}
	}

	if l.headingOff != fieldAbsent {
		h := float64(f32At(payload, l.headingOff))
		if h >= 0 && h < 360 {
			p.heading = &h
		}
	}

	if l.freqOff != fieldAbsent {
		f := float64(f32At(payload, l.freqOff))
		if f > 0 && !math.IsInf(f, 0) {
			p.freq = &f
		}
	}

	if l.timeOff != fieldAbsent {
		p.time = u32At(payload, l.timeOff)
	}

	return p, nil
}

// trackPoint converts p to the canonical track-point shape.
func (p point) trackPoint() models.TrackPoint {
	return models.TrackPoint{
		Latitude:    p.lat,
		Longitude:   p.lon,
		Timestamp:   unixTimePtr(p.time),
		Depth:       p.depth,
		Speed:       p.speed,
		Heading:     p.heading,
		Temperature: p.temp,
	}
}

package decoder

import (
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/marinelog/decoder/internal/models"
)

// Lowrance files share one block grammar across the SLG/SL2/SL3 sonar logs
// and the USR waypoint archive: a 16-byte header whose first three bytes
// name the format, then records tagged with a 1-byte type and a 4-byte
// little-endian payload length. Coordinates are 8-byte doubles already in
// decimal degrees; depth and temperature arrive in meters and Celsius with
// sentinel filtering.
const (
	lowranceHeaderSize      = 16
	lowranceBlockHeaderSize = 5

	lowranceRecWaypoint   = 0x01
	lowranceRecTrackPoint = 0x02
	lowranceRecDepth      = 0x03
	lowranceRecSonar      = 0x04
	lowranceRecRoute      = 0x05
)

var (
	lowranceWaypointLayout = pointLayout{
		coords: coordFloat64,
		latOff: 0, lonOff: 8,
		depthOff: 16, tempOff: 20,
		speedOff: fieldAbsent, headingOff: fieldAbsent, freqOff: fieldAbsent,
		timeOff: 24,
		size:    28,
	}
	lowranceTrackPointLayout = pointLayout{
		coords: coordFloat64,
		latOff: 0, lonOff: 8,
		depthOff: 16, speedOff: 20, headingOff: 24,
		tempOff: fieldAbsent, freqOff: fieldAbsent,
		timeOff: 28,
		size:    32,
	}
	lowranceDepthLayout = pointLayout{
		coords: coordFloat64,
		latOff: 0, lonOff: 8,
		depthOff: 16, freqOff: 20, tempOff: 24,
		speedOff: fieldAbsent, headingOff: fieldAbsent,
		timeOff: 28,
		size:    32,
	}
)

type lowranceDecoder struct {
	symbols *SymbolTable
}

func newLowranceDecoder(symbols *SymbolTable) *lowranceDecoder {
	return &lowranceDecoder{symbols: symbols}
}

func (d *lowranceDecoder) Name() string {
	return "lowrance"
}

func (d *lowranceDecoder) Extensions() []string {
	return []string{formatSLG, formatSL2, formatSL3, formatUSR}
}

func (d *lowranceDecoder) Decode(data []byte, filename string) (*models.ParseResult, []*models.DecodeWarning) {
	meta := models.FileMetadata{
		FileName: filename,
		Format:   "Lowrance Sonar Log",
		ByteSize: int64(len(data)),
		Device:   models.DeviceLowrance,
	}
	if len(data) < lowranceHeaderSize {
		return models.NewParseResult(meta).Fail("Invalid Lowrance file header"), nil
	}
	magic := string(data[:3])
	switch magic {
	case formatSLG, formatSL2, formatSL3, formatUSR:
	default:
		return models.NewParseResult(meta).Fail("Invalid Lowrance file header"), nil
	}
	meta.Format = formatLabel(magic)
	if v := data[3]; v != 0 {
		meta.SoftwareVersion = strconv.Itoa(int(v))
	}
	// Bytes 4..8 carry the declared record count; iteration is bounded by
	// the buffer instead.
	meta.CreatedAt = unixTimePtr(binary.LittleEndian.Uint32(data[8:12]))

	result := models.NewParseResult(meta)
	var warnings []*models.DecodeWarning
	var current *models.Track // open track, flushed at end of file

	cur := lowranceHeaderSize
	for cur+lowranceBlockHeaderSize <= len(data) {
		blockStart := cur
		recType := data[cur]
		length := int(binary.LittleEndian.Uint32(data[cur+1 : cur+5]))
		payloadStart := blockStart + lowranceBlockHeaderSize
		if length < 0 || payloadStart+length > len(data) {
			warnings = append(warnings, warnf(blockStart, lowranceRecordName(recType), "declared length %d exceeds buffer", length))
			cur = blockStart + corruptSkip
			continue
		}
		payload := data[payloadStart : payloadStart+length]
		if err := d.decodeRecord(recType, payload, result, &current); err != nil {
			warnings = append(warnings, warnAt(blockStart, lowranceRecordName(recType), err))
			cur = blockStart + corruptSkip
			continue
		}
		cur = payloadStart + length
	}
	result.AddTrack(current)

	return result.Finalize(strings.ToUpper(magic)), warnings
}

func (d *lowranceDecoder) decodeRecord(recType uint8, payload []byte, result *models.ParseResult, current **models.Track) error {
	switch recType {
	case lowranceRecWaypoint:
		wp, err := d.readWaypoint(payload)
		if err != nil {
			return err
		}
		result.AddWaypoint(*wp)
	case lowranceRecTrackPoint:
		p, err := readPoint(payload, lowranceTrackPointLayout)
		if err != nil {
			return err
		}
		if *current == nil {
			*current = models.NewTrack("")
		}
		(*current).Points = append((*current).Points, p.trackPoint())
	case lowranceRecDepth:
		p, err := readPoint(payload, lowranceDepthLayout)
		if err != nil {
			return err
		}
		if p.depth == nil {
			return nil // sentinel-filtered depth, nothing to emit
		}
		result.AddDepthReading(models.DepthReading{
			Latitude:    p.lat,
			Longitude:   p.lon,
			Depth:       *p.depth,
			Timestamp:   unixTime(p.time),
			Frequency:   p.freq,
			Temperature: p.temp,
		})
	case lowranceRecSonar:
		sm, err := readLowranceSonar(payload)
		if err != nil {
			return err
		}
		result.SetSonar(sm)
	case lowranceRecRoute:
		rt, err := d.readRoute(payload)
		if err != nil {
			return err
		}
		result.AddRoute(rt)
	default:
		// Unknown record types advance by their declared length.
	}
	return nil
}

func (d *lowranceDecoder) readWaypoint(payload []byte) (*models.Waypoint, error) {
	p, err := readPoint(payload, lowranceWaypointLayout)
	if err != nil {
		return nil, err
	}
	wp, err := models.NewWaypoint(p.lat, p.lon, models.DeviceLowrance)
	if err != nil {
		return nil, err
	}
	wp.Depth = p.depth
	wp.Temperature = p.temp
	wp.Timestamp = unixTime(p.time)

	r := newReader(payload)
	r.seek(lowranceWaypointLayout.size)
	icon, err := r.u8()
	if err != nil {
		return nil, err
	}
	name, err := r.pstring()
	if err != nil {
		return nil, err
	}
	wp.SetName(strings.TrimSpace(name))
	wp.Symbol = d.symbols.Lookup(models.DeviceLowrance, icon)
	return wp, nil
}

func (d *lowranceDecoder) readRoute(payload []byte) (*models.Route, error) {
	r := newReader(payload)
	name, err := r.pstring()
	if err != nil {
		return nil, err
	}
	count, err := r.u16()
	if err != nil {
		return nil, err
	}
	route := models.NewRoute(strings.TrimSpace(name))
	for i := 0; i < int(count); i++ {
		lat, err := r.f64()
		if err != nil {
			return nil, err
		}
		lon, err := r.f64()
		if err != nil {
			return nil, err
		}
		icon, err := r.u8()
		if err != nil {
			return nil, err
		}
		wpName, err := r.pstring()
		if err != nil {
			return nil, err
		}
		wp, err := models.NewWaypoint(lat, lon, models.DeviceLowrance)
		if err != nil {
			return nil, err
		}
		wp.SetName(strings.TrimSpace(wpName))
		wp.Symbol = d.symbols.Lookup(models.DeviceLowrance, icon)
		route.Waypoints = append(route.Waypoints, *wp)
	}
	return route, nil
}

// readLowranceSonar decodes a sonar-config record: frequency kHz, range
// meters, gain and chart speed as 4-byte floats.
func readLowranceSonar(payload []byte) (*models.SonarMetadata, error) {
	r := newReader(payload)
	freq, err := r.f32()
	if err != nil {
		return nil, err
	}
	rng, err := r.f32()
	if err != nil {
		return nil, err
	}
	gain, err := r.f32()
	if err != nil {
		return nil, err
	}
	chartSpeed, err := r.f32()
	if err != nil {
		return nil, err
	}
	if freq <= 0 || rng <= 0 {
		return nil, errInvalidSonarConfig
	}
	return &models.SonarMetadata{
		Frequency:   float64(freq),
		RangeMeters: float64(rng),
		Gain:        float64(gain),
		ChartSpeed:  float64(chartSpeed),
	}, nil
}

func lowranceRecordName(recType uint8) string {
	switch recType {
	case lowranceRecWaypoint:
		return "waypoint"
	case lowranceRecTrackPoint:
		return "trackpoint"
	case lowranceRecDepth:
		return "depth"
	case lowranceRecSonar:
		return "sonar"
	case lowranceRecRoute:
		return "route"
	}
	return "record " + strconv.Itoa(int(recType))
}

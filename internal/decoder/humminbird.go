package decoder

import (
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/marinelog/decoder/internal/models"
)

// Humminbird ships two binary formats. DAT files carry waypoints, tracks
// and depth samples as records tagged with a 1-byte type and a 2-byte
// little-endian length; coordinates are 4-byte floats in decimal degrees,
// depth arrives in feet and temperature in Fahrenheit with a >0 sentinel.
// SON files carry sonar metadata only.
const (
	humminbirdMagic         = "HMB"
	humminbirdHeaderSize    = 12
	humminbirdRecHeaderSize = 3

	humminbirdRecWaypoint    = 0x01
	humminbirdRecTrackHeader = 0x02
	humminbirdRecTrackPoint  = 0x03
	humminbirdRecDepth       = 0x04

	sonMagic      = "SON"
	sonHeaderSize = 20
)

// sonPalettes maps the sonar type byte to its color-palette label. Unknown
// types carry no palette.
var sonPalettes = map[uint8]string{
	0: "Standard",
	2: "DownScan",
	3: "SideScan",
}

var (
	datWaypointLayout = pointLayout{
		coords: coordFloat32,
		latOff: 0, lonOff: 4,
		depthOff: 8, tempOff: 12,
		speedOff: fieldAbsent, headingOff: fieldAbsent, freqOff: fieldAbsent,
		timeOff:   16,
		size:      20,
		depthFeet: true,
		tempF:     true,
	}
	datTrackPointLayout = pointLayout{
		coords: coordFloat32,
		latOff: 0, lonOff: 4,
		depthOff: 8,
		tempOff:  fieldAbsent, speedOff: fieldAbsent, headingOff: fieldAbsent, freqOff: fieldAbsent,
		timeOff:   12,
		size:      16,
		depthFeet: true,
	}
	datDepthLayout = pointLayout{
		coords: coordFloat32,
		latOff: 0, lonOff: 4,
		depthOff: 8, tempOff: 12,
		speedOff: fieldAbsent, headingOff: fieldAbsent, freqOff: fieldAbsent,
		timeOff:   16,
		size:      20,
		depthFeet: true,
		tempF:     true,
	}
)

type humminbirdDecoder struct {
	symbols *SymbolTable
}

func newHumminbirdDecoder(symbols *SymbolTable) *humminbirdDecoder {
	return &humminbirdDecoder{symbols: symbols}
}

func (d *humminbirdDecoder) Name() string {
	return "humminbird"
}

func (d *humminbirdDecoder) Extensions() []string {
	return []string{formatDAT, formatSON}
}

func (d *humminbirdDecoder) Decode(data []byte, filename string) (*models.ParseResult, []*models.DecodeWarning) {
	if len(data) >= 3 && string(data[:3]) == sonMagic {
		return d.decodeSON(data, filename)
	}
	return d.decodeDAT(data, filename)
}

func (d *humminbirdDecoder) decodeDAT(data []byte, filename string) (*models.ParseResult, []*models.DecodeWarning) {
	meta := models.FileMetadata{
		FileName: filename,
		Format:   formatLabel(formatDAT),
		ByteSize: int64(len(data)),
		Device:   models.DeviceHumminbird,
	}
	if len(data) < humminbirdHeaderSize || string(data[:3]) != humminbirdMagic {
		return models.NewParseResult(meta).Fail("Invalid Humminbird file header"), nil
	}
	if v := data[3]; v != 0 {
		meta.SoftwareVersion = strconv.Itoa(int(v))
	}
	declared := int(binary.LittleEndian.Uint16(data[4:6]))
	meta.CreatedAt = unixTimePtr(binary.LittleEndian.Uint32(data[8:12]))

	result := models.NewParseResult(meta)
	var warnings []*models.DecodeWarning
	var current *models.Track // open track, flushed by a track header or end of file

	cur := humminbirdHeaderSize
	seen := 0
	// The declared record count bounds iteration when present; a zero count
	// means read to end of file.
	for cur+humminbirdRecHeaderSize <= len(data) && (declared == 0 || seen < declared) {
		seen++
		recStart := cur
		recType := data[cur]
		length := int(binary.LittleEndian.Uint16(data[cur+1 : cur+3]))
		payloadStart := recStart + humminbirdRecHeaderSize
		if payloadStart+length > len(data) {
			warnings = append(warnings, warnf(recStart, humminbirdRecordName(recType), "declared length %d exceeds buffer", length))
			cur = recStart + corruptSkip
			continue
		}
		payload := data[payloadStart : payloadStart+length]
		if err := d.decodeDATRecord(recType, payload, result, &current); err != nil {
			warnings = append(warnings, warnAt(recStart, humminbirdRecordName(recType), err))
			cur = recStart + corruptSkip
			continue
		}
		cur = payloadStart + length
	}
	result.AddTrack(current)

	return result.Finalize("DAT"), warnings
}

func (d *humminbirdDecoder) decodeDATRecord(recType uint8, payload []byte, result *models.ParseResult, current **models.Track) error {
	switch recType {
	case humminbirdRecWaypoint:
		wp, err := d.readDATWaypoint(payload)
		if err != nil {
			return err
		}
		result.AddWaypoint(*wp)
	case humminbirdRecTrackHeader:
		r := newReader(payload)
		name, err := r.pstring()
		if err != nil {
			return err
		}
		result.AddTrack(*current)
		*current = models.NewTrack(strings.TrimSpace(name))
	case humminbirdRecTrackPoint:
		p, err := readPoint(payload, datTrackPointLayout)
		if err != nil {
			return err
		}
		if *current == nil {
			*current = models.NewTrack("")
		}
		(*current).Points = append((*current).Points, p.trackPoint())
	case humminbirdRecDepth:
		p, err := readPoint(payload, datDepthLayout)
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
			Temperature: p.temp,
		})
	default:
		// Unknown record types advance by their declared length.
	}
	return nil
}

func (d *humminbirdDecoder) readDATWaypoint(payload []byte) (*models.Waypoint, error) {
	p, err := readPoint(payload, datWaypointLayout)
	if err != nil {
		return nil, err
	}
	wp, err := models.NewWaypoint(p.lat, p.lon, models.DeviceHumminbird)
	if err != nil {
		return nil, err
	}
	wp.Depth = p.depth
	wp.Temperature = p.temp
	wp.Timestamp = unixTime(p.time)

	r := newReader(payload)
	r.seek(datWaypointLayout.size)
	icon, err := r.u8()
	if err != nil {
		return nil, err
	}
	name, err := r.pstring()
	if err != nil {
		return nil, err
	}
	wp.SetName(strings.TrimSpace(name))
	wp.Symbol = d.symbols.Lookup(models.DeviceHumminbird, icon)
	return wp, nil
}

// decodeSON extracts sonar metadata; SON files carry no waypoints or
// tracks, so metadata alone makes the decode successful.
func (d *humminbirdDecoder) decodeSON(data []byte, filename string) (*models.ParseResult, []*models.DecodeWarning) {
	meta := models.FileMetadata{
		FileName: filename,
		Format:   formatLabel(formatSON),
		ByteSize: int64(len(data)),
		Device:   models.DeviceHumminbird,
	}
	if len(data) < sonHeaderSize || string(data[:3]) != sonMagic {
		return models.NewParseResult(meta).Fail("Invalid Humminbird SON file header"), nil
	}
	if v := data[3]; v != 0 {
		meta.SoftwareVersion = strconv.Itoa(int(v))
	}
	meta.CreatedAt = unixTimePtr(binary.LittleEndian.Uint32(data[4:8]))

	result := models.NewParseResult(meta)
	freq := float64(binary.LittleEndian.Uint16(data[12:14]))
	if freq <= 0 {
		return result.Fail("No data found in SON file"), nil
	}
	result.SetSonar(&models.SonarMetadata{
		Frequency:   freq,
		RangeMeters: models.CentimetersToMeters(float64(binary.LittleEndian.Uint32(data[14:18]))),
		Gain:        float64(data[9]),
		ChartSpeed:  float64(data[10]),
		Palette:     sonPalettes[data[8]],
	})
	result.Success = true
	return result, nil
}

func humminbirdRecordName(recType uint8) string {
	switch recType {
	case humminbirdRecWaypoint:
		return "waypoint"
	case humminbirdRecTrackHeader:
		return "track header"
	case humminbirdRecTrackPoint:
		return "trackpoint"
	case humminbirdRecDepth:
		return "depth"
	}
	return "record " + strconv.Itoa(int(recType))
}

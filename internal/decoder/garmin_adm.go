package decoder

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/marinelog/decoder/internal/models"
)

// ADM archives open with a 6-byte "GARMIN" signature, a 1-byte major and
// minor version, a 2-byte little-endian offset to the first block and a
// 4-byte Unix creation timestamp. Blocks carry a 2-byte type and a 4-byte
// length; names are fixed 32-byte NUL-terminated fields.
const (
	admMagic           = "GARMIN"
	admHeaderSize      = 14
	admBlockHeaderSize = 6
	admNameSize        = 32
	admTrackPointSize  = 24

	admRecWaypoint = 0x0001
	admRecRoute    = 0x0002
	admRecTrack    = 0x0003
)

var (
	admWaypointLayout = pointLayout{
		coords: coordFloat64,
		latOff: 0, lonOff: 8,
		depthOff: 16, tempOff: 20,
		speedOff: fieldAbsent, headingOff: fieldAbsent, freqOff: fieldAbsent,
		timeOff: 24,
		size:    28,
	}
	admTrackPointLayout = pointLayout{
		coords: coordFloat64,
		latOff: 0, lonOff: 8,
		timeOff: 16, depthOff: 20,
		tempOff: fieldAbsent, speedOff: fieldAbsent, headingOff: fieldAbsent, freqOff: fieldAbsent,
		size: admTrackPointSize,
	}
)

type garminADMDecoder struct{}

func newGarminADMDecoder() *garminADMDecoder {
	return &garminADMDecoder{}
}

func (d *garminADMDecoder) Name() string {
	return "garmin-adm"
}

func (d *garminADMDecoder) Extensions() []string {
	return []string{formatADM}
}

func (d *garminADMDecoder) Decode(data []byte, filename string) (*models.ParseResult, []*models.DecodeWarning) {
	meta := models.FileMetadata{
		FileName: filename,
		Format:   formatLabel(formatADM),
		ByteSize: int64(len(data)),
		Device:   models.DeviceGarmin,
	}
	if len(data) < admHeaderSize || string(data[:6]) != admMagic {
		return models.NewParseResult(meta).Fail("Invalid Garmin ADM file header"), nil
	}
	meta.SoftwareVersion = fmt.Sprintf("%d.%d", data[6], data[7])
	meta.CreatedAt = unixTimePtr(binary.LittleEndian.Uint32(data[10:14]))

	// The header names where blocks begin; fall back to the header end when
	// the offset is out of bounds.
	start := int(binary.LittleEndian.Uint16(data[8:10]))
	if start < admHeaderSize || start > len(data) {
		start = admHeaderSize
	}

	result := models.NewParseResult(meta)
	var warnings []*models.DecodeWarning

	cur := start
	for cur+admBlockHeaderSize <= len(data) {
		blockStart := cur
		recType := binary.LittleEndian.Uint16(data[cur : cur+2])
		length := int(binary.LittleEndian.Uint32(data[cur+2 : cur+6]))
		payloadStart := blockStart + admBlockHeaderSize
		if length < 0 || payloadStart+length > len(data) {
			warnings = append(warnings, warnf(blockStart, admRecordName(recType), "declared length %d exceeds buffer", length))
			cur = blockStart + corruptSkip
			continue
		}
		payload := data[payloadStart : payloadStart+length]
		if err := d.decodeRecord(recType, payload, result); err != nil {
			warnings = append(warnings, warnAt(blockStart, admRecordName(recType), err))
			cur = blockStart + corruptSkip
			continue
		}
		cur = payloadStart + length
	}

	return result.Finalize("ADM"), warnings
}

func (d *garminADMDecoder) decodeRecord(recType uint16, payload []byte, result *models.ParseResult) error {
	switch recType {
	case admRecWaypoint:
		wp, err := readADMWaypoint(payload)
		if err != nil {
			return err
		}
		result.AddWaypoint(*wp)
	case admRecRoute:
		rt, err := readADMRoute(payload)
		if err != nil {
			return err
		}
		result.AddRoute(rt)
	case admRecTrack:
		t, err := readADMTrack(payload)
		if err != nil {
			return err
		}
		result.AddTrack(t)
	default:
		// Unknown block types advance by their declared length.
	}
	return nil
}

func readADMWaypoint(payload []byte) (*models.Waypoint, error) {
	p, err := readPoint(payload, admWaypointLayout)
	if err != nil {
		return nil, err
	}
	wp, err := models.NewWaypoint(p.lat, p.lon, models.DeviceGarmin)
	if err != nil {
		return nil, err
	}
	wp.Depth = p.depth
	wp.Temperature = p.temp
	wp.Timestamp = unixTime(p.time)

	r := newReader(payload)
	r.seek(admWaypointLayout.size)
	name, err := r.cstring(admNameSize)
	if err != nil {
		return nil, err
	}
	wp.SetName(strings.TrimSpace(name))
	return wp, nil
}

func readADMRoute(payload []byte) (*models.Route, error) {
	r := newReader(payload)
	name, err := r.cstring(admNameSize)
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
		wpName, err := r.cstring(admNameSize)
		if err != nil {
			return nil, err
		}
		wp, err := models.NewWaypoint(lat, lon, models.DeviceGarmin)
		if err != nil {
			return nil, err
		}
		wp.SetName(strings.TrimSpace(wpName))
		route.Waypoints = append(route.Waypoints, *wp)
	}
	return route, nil
}

func readADMTrack(payload []byte) (*models.Track, error) {
	r := newReader(payload)
	name, err := r.cstring(admNameSize)
	if err != nil {
		return nil, err
	}
	count, err := r.u16()
	if err != nil {
		return nil, err
	}
	track := models.NewTrack(strings.TrimSpace(name))
	for i := 0; i < int(count); i++ {
		sub, err := r.bytes(admTrackPointSize)
		if err != nil {
			return nil, err
		}
		p, err := readPoint(sub, admTrackPointLayout)
		if err != nil {
			return nil, err
		}
		track.Points = append(track.Points, p.trackPoint())
	}
	return track, nil
}

func admRecordName(recType uint16) string {
	switch recType {
	case admRecWaypoint:
		return "waypoint"
	case admRecRoute:
		return "route"
	case admRecTrack:
		return "track"
	}
	return "record " + strconv.Itoa(int(recType))
}

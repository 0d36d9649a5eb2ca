package decoder

import (
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/marinelog/decoder/internal/models"
)

// FSH archives open with a 3-byte "FSH" signature and a 1-byte version.
// Blocks carry a 2-byte type and a 2-byte little-endian length. Coordinates
// are signed 32-bit mercator integers rescaled to decimal degrees; waypoint
// and mark blocks share one record layout, while route and track blocks
// embed fixed-count lists of sub-records.
const (
	fshMagic           = "FSH"
	fshHeaderSize      = 16
	fshBlockHeaderSize = 4
	fshTrackPointSize  = 24

	fshRecWaypoint = 0x0001
	fshRecRoute    = 0x0002
	fshRecTrack    = 0x0003
	fshRecMark     = 0x0004
)

var (
	fshWaypointLayout = pointLayout{
		coords: coordMercator,
		latOff: 0, lonOff: 4,
		depthOff: 8, tempOff: 12,
		speedOff: fieldAbsent, headingOff: fieldAbsent, freqOff: fieldAbsent,
		timeOff: 16,
		size:    20,
	}
	fshTrackPointLayout = pointLayout{
		coords: coordMercator,
		latOff: 0, lonOff: 4,
		depthOff: 8, speedOff: 12, tempOff: 16,
		headingOff: fieldAbsent, freqOff: fieldAbsent,
		timeOff: 20,
		size:    fshTrackPointSize,
	}
)

type raymarineDecoder struct {
	symbols *SymbolTable
}

func newRaymarineDecoder(symbols *SymbolTable) *raymarineDecoder {
	return &raymarineDecoder{symbols: symbols}
}

func (d *raymarineDecoder) Name() string {
	return "raymarine"
}

func (d *raymarineDecoder) Extensions() []string {
	return []string{formatFSH}
}

func (d *raymarineDecoder) Decode(data []byte, filename string) (*models.ParseResult, []*models.DecodeWarning) {
	meta := models.FileMetadata{
		FileName: filename,
		Format:   formatLabel(formatFSH),
		ByteSize: int64(len(data)),
		Device:   models.DeviceRaymarine,
	}
	if len(data) < fshHeaderSize || string(data[:3]) != fshMagic {
		return models.NewParseResult(meta).Fail("Invalid Raymarine FSH file header"), nil
	}
	if v := data[3]; v != 0 {
		meta.SoftwareVersion = strconv.Itoa(int(v))
	}
	// Bytes 4..6 carry the declared block count; iteration is bounded by
	// the buffer instead.
	meta.CreatedAt = unixTimePtr(binary.LittleEndian.Uint32(data[8:12]))

	result := models.NewParseResult(meta)
	var warnings []*models.DecodeWarning

	cur := fshHeaderSize
	for cur+fshBlockHeaderSize <= len(data) {
		blockStart := cur
		recType := binary.LittleEndian.Uint16(data[cur : cur+2])
		length := int(binary.LittleEndian.Uint16(data[cur+2 : cur+4]))
		payloadStart := blockStart + fshBlockHeaderSize
		if payloadStart+length > len(data) {
			warnings = append(warnings, warnf(blockStart, fshRecordName(recType), "declared length %d exceeds buffer", length))
			cur = blockStart + corruptSkip
			continue
		}
		payload := data[payloadStart : payloadStart+length]
		if err := d.decodeRecord(recType, payload, result); err != nil {
			warnings = append(warnings, warnAt(blockStart, fshRecordName(recType), err))
			cur = blockStart + corruptSkip
			continue
		}
		cur = payloadStart + length
	}

	return result.Finalize("FSH"), warnings
}

func (d *raymarineDecoder) decodeRecord(recType uint16, payload []byte, result *models.ParseResult) error {
	switch recType {
	case fshRecWaypoint, fshRecMark:
		wp, err := d.readWaypoint(payload)
		if err != nil {
			return err
		}
		result.AddWaypoint(*wp)
	case fshRecRoute:
		rt, err := d.readRoute(payload)
		if err != nil {
			return err
		}
		result.AddRoute(rt)
	case fshRecTrack:
		t, err := readFSHTrack(payload)
		if err != nil {
			return err
		}
		result.AddTrack(t)
	default:
		// Unknown block types advance by their declared length.
	}
	return nil
}

func (d *raymarineDecoder) readWaypoint(payload []byte) (*models.Waypoint, error) {
	p, err := readPoint(payload, fshWaypointLayout)
	if err != nil {
		return nil, err
	}
	wp, err := models.NewWaypoint(p.lat, p.lon, models.DeviceRaymarine)
	if err != nil {
		return nil, err
	}
	wp.Depth = p.depth
	wp.Temperature = p.temp
	wp.Timestamp = unixTime(p.time)

	r := newReader(payload)
	r.seek(fshWaypointLayout.size)
	sym, err := r.u8()
	if err != nil {
		return nil, err
	}
	name, err := r.pstring()
	if err != nil {
		return nil, err
	}
	wp.SetName(strings.TrimSpace(name))
	wp.Symbol = d.symbols.Lookup(models.DeviceRaymarine, sym)
	return wp, nil
}

// readRoute decodes a route block: a name, a count and that many
// simplified waypoint sub-records.
func (d *raymarineDecoder) readRoute(payload []byte) (*models.Route, error) {
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
		latRaw, err := r.i32()
		if err != nil {
			return nil, err
		}
		lonRaw, err := r.i32()
		if err != nil {
			return nil, err
		}
		sym, err := r.u8()
		if err != nil {
			return nil, err
		}
		wpName, err := r.pstring()
		if err != nil {
			return nil, err
		}
		wp, err := models.NewWaypoint(models.MercatorToDegrees(latRaw), models.MercatorToDegrees(lonRaw), models.DeviceRaymarine)
		if err != nil {
			return nil, err
		}
		wp.SetName(strings.TrimSpace(wpName))
		wp.Symbol = d.symbols.Lookup(models.DeviceRaymarine, sym)
		route.Waypoints = append(route.Waypoints, *wp)
	}
	return route, nil
}

// readFSHTrack decodes a track block: a name, a count and that many
// fixed-size track-point sub-records.
func readFSHTrack(payload []byte) (*models.Track, error) {
	r := newReader(payload)
	name, err := r.pstring()
	if err != nil {
		return nil, err
	}
	count, err := r.u16()
	if err != nil {
		return nil, err
	}
	track := models.NewTrack(strings.TrimSpace(name))
	for i := 0; i < int(count); i++ {
		sub, err := r.bytes(fshTrackPointSize)
		if err != nil {
			return nil, err
		}
		p, err := readPoint(sub, fshTrackPointLayout)
		if err != nil {
			return nil, err
		}
		track.Points = append(track.Points, p.trackPoint())
	}
	return track, nil
}

func fshRecordName(recType uint16) string {
	switch recType {
	case fshRecWaypoint:
		return "waypoint"
	case fshRecRoute:
		return "route"
	case fshRecTrack:
		return "track"
	case fshRecMark:
		return "mark"
	}
	return "record " + strconv.Itoa(int(recType))
}

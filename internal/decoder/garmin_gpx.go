package decoder

import (
	"encoding/xml"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/marinelog/decoder/internal/models"
)

// GPX documents are parsed into typed structs. Coordinates stay strings at
// the XML layer so one malformed point can be skipped without failing the
// whole document. Element matching is by local name, which covers the
// namespaced gpxx extension elements regardless of prefix.

type gpxFile struct {
	XMLName   xml.Name     `xml:"gpx"`
	Creator   string       `xml:"creator,attr"`
	Metadata  *gpxMetadata `xml:"metadata"`
	Waypoints []gpxPoint   `xml:"wpt"`
	Routes    []gpxRoute   `xml:"rte"`
	Tracks    []gpxTrack   `xml:"trk"`
}

type gpxMetadata struct {
	Time string `xml:"time"`
}

// gpxPoint covers wpt and rtept, which share a schema.
type gpxPoint struct {
	Lat        string         `xml:"lat,attr"`
	Lon        string         `xml:"lon,attr"`
	Name       string         `xml:"name"`
	Desc       string         `xml:"desc"`
	Cmt        string         `xml:"cmt"`
	Sym        string         `xml:"sym"`
	Time       string         `xml:"time"`
	Depth      string         `xml:"depth"` // generic fallback some exporters write
	Extensions *gpxExtensions `xml:"extensions"`
}

type gpxTrackPoint struct {
	Lat        string         `xml:"lat,attr"`
	Lon        string         `xml:"lon,attr"`
	Time       string         `xml:"time"`
	Depth      string         `xml:"depth"`
	Extensions *gpxExtensions `xml:"extensions"`
}

type gpxExtensions struct {
	WaypointExtension   *gpxVendorExtension `xml:"WaypointExtension"`
	TrackPointExtension *gpxVendorExtension `xml:"TrackPointExtension"`
}

// gpxVendorExtension is the gpxx extension shape: zero or one Depth and
// Temperature children.
type gpxVendorExtension struct {
	Depth       string `xml:"Depth"`
	Temperature string `xml:"Temperature"`
}

type gpxTrack struct {
	Name     string            `xml:"name"`
	Segments []gpxTrackSegment `xml:"trkseg"`
}

type gpxTrackSegment struct {
	Points []gpxTrackPoint `xml:"trkpt"`
}

type gpxRoute struct {
	Name   string     `xml:"name"`
	Points []gpxPoint `xml:"rtept"`
}

type garminGPXDecoder struct{}

func newGarminGPXDecoder() *garminGPXDecoder {
	return &garminGPXDecoder{}
}

func (d *garminGPXDecoder) Name() string {
	return "garmin-gpx"
}

func (d *garminGPXDecoder) Extensions() []string {
	return []string{formatGPX}
}

func (d *garminGPXDecoder) Decode(data []byte, filename string) (*models.ParseResult, []*models.DecodeWarning) {
	meta := models.FileMetadata{
		FileName: filename,
		Format:   formatLabel(formatGPX),
		ByteSize: int64(len(data)),
		Device:   models.DeviceGarmin,
	}

	var doc gpxFile
	if err := xml.Unmarshal(data, &doc); err != nil {
		return models.NewParseResult(meta).Fail(err.Error()), nil
	}
	if creator := strings.TrimSpace(doc.Creator); creator != "" {
		meta.SoftwareVersion = creator
	}
	if doc.Metadata != nil {
		if t, ok := parseGPXTime(doc.Metadata.Time); ok {
			meta.CreatedAt = &t
		}
	}

	result := models.NewParseResult(meta)
	var warnings []*models.DecodeWarning

	for i, src := range doc.Waypoints {
		wp, err := convertGPXPoint(src)
		if err != nil {
			warnings = append(warnings, warnAt(i, "wpt", err))
			continue
		}
		result.AddWaypoint(*wp)
	}

	for _, src := range doc.Tracks {
		track := models.NewTrack(strings.TrimSpace(src.Name))
		for _, seg := range src.Segments {
			for j, pt := range seg.Points {
				tp, err := convertGPXTrackPoint(pt)
				if err != nil {
					warnings = append(warnings, warnAt(j, "trkpt", err))
					continue
				}
				track.Points = append(track.Points, tp)
			}
		}
		result.AddTrack(track)
	}

	for _, src := range doc.Routes {
		route := models.NewRoute(strings.TrimSpace(src.Name))
		for j, pt := range src.Points {
			wp, err := convertGPXPoint(pt)
			if err != nil {
				warnings = append(warnings, warnAt(j, "rtept", err))
				continue
			}
			route.Waypoints = append(route.Waypoints, *wp)
		}
		result.AddRoute(route)
	}

	return result.Finalize("GPX"), warnings
}

func convertGPXPoint(src gpxPoint) (*models.Waypoint, error) {
	lat, lon, err := parseGPXCoordinates(src.Lat, src.Lon)
	if err != nil {
		return nil, err
	}
	wp, err := models.NewWaypoint(lat, lon, models.DeviceGarmin)
	if err != nil {
		return nil, err
	}
	wp.SetName(strings.TrimSpace(src.Name))
	notes := strings.TrimSpace(src.Desc)
	if notes == "" {
		notes = strings.TrimSpace(src.Cmt)
	}
	wp.Notes = notes
	wp.Symbol = strings.TrimSpace(src.Sym)
	if t, ok := parseGPXTime(src.Time); ok {
		wp.Timestamp = t
	}
	wp.Depth = gpxDepth(src.Extensions, src.Depth)
	wp.Temperature = gpxTemperature(src.Extensions)
	return wp, nil
}

func convertGPXTrackPoint(src gpxTrackPoint) (models.TrackPoint, error) {
	lat, lon, err := parseGPXCoordinates(src.Lat, src.Lon)
	if err != nil {
		return models.TrackPoint{}, err
	}
	tp := models.TrackPoint{Latitude: lat, Longitude: lon}
	if t, ok := parseGPXTime(src.Time); ok {
		tp.Timestamp = &t
	}
	tp.Depth = gpxDepth(src.Extensions, src.Depth)
	tp.Temperature = gpxTemperature(src.Extensions)
	return tp, nil
}

func parseGPXCoordinates(latAttr, lonAttr string) (float64, float64, error) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(latAttr), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid lat attribute %q", latAttr)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonAttr), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid lon attribute %q", lonAttr)
	}
	if !models.ValidLatLon(lat, lon) {
		return 0, 0, fmt.Errorf("coordinates out of range: lat=%v lon=%v", lat, lon)
	}
	return lat, lon, nil
}

// parseGPXTime parses an RFC3339 time element, tolerating surrounding
// whitespace. Unparseable times are treated as absent, not as errors.
func parseGPXTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

// gpxDepth resolves depth from the vendor extension elements first, then
// the generic depth element. Values must be positive meters.
func gpxDepth(ext *gpxExtensions, generic string) *float64 {
	var candidates []string
	if ext != nil {
		if ext.WaypointExtension != nil {
			candidates = append(candidates, ext.WaypointExtension.Depth)
		}
		if ext.TrackPointExtension != nil {
			candidates = append(candidates, ext.TrackPointExtension.Depth)
		}
	}
	candidates = append(candidates, generic)
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		v, err := strconv.ParseFloat(c, 64)
		if err != nil || !(v > 0) || math.IsInf(v, 0) {
			return nil
		}
		return &v
	}
	return nil
}

func gpxTemperature(ext *gpxExtensions) *float64 {
	if ext == nil {
		return nil
	}
	raw := ""
	if ext.WaypointExtension != nil {
		raw = ext.WaypointExtension.Temperature
	}
	if raw == "" && ext.TrackPointExtension != nil {
		raw = ext.TrackPointExtension.Temperature
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || !models.PlausibleTemperature(v) {
		return nil
	}
	return &v
}

package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/xuri/excelize/v2"

	"github.com/marinelog/decoder/internal/decoder"
	"github.com/marinelog/decoder/internal/models"
)

func float(v float64) *float64 { return &v }

// fixtureResult builds a result with every entity kind populated.
func fixtureResult(t *testing.T) *models.ParseResult {
	result := models.NewParseResult(models.FileMetadata{
		FileName: "trip.sl2",
		Format:   "Lowrance SL2 Sonar Log",
		ByteSize: 4096,
		Device:   models.DeviceLowrance,
	})

	wp, err := models.NewWaypoint(36.5, -121.9, models.DeviceLowrance)
	if err != nil {
		t.Fatalf("fixture waypoint: %v", err)
	}
	wp.SetName("Reef Edge")
	wp.Depth = float(12.5)
	wp.Temperature = float(18.5)
	wp.Symbol = "Fish"
	wp.Timestamp = time.Unix(1700001234, 0).UTC()
	result.AddWaypoint(*wp)

	bare, err := models.NewWaypoint(36.6, -121.8, models.DeviceLowrance)
	if err != nil {
		t.Fatalf("fixture waypoint: %v", err)
	}
	result.AddWaypoint(*bare)

	ts := time.Unix(1700000100, 0).UTC()
	track := models.NewTrack("Drift")
	track.Points = append(track.Points,
		models.TrackPoint{Latitude: 36.50, Longitude: -121.90, Timestamp: &ts, Depth: float(10), Speed: float(2.5)},
		models.TrackPoint{Latitude: 36.51, Longitude: -121.91},
	)
	result.AddTrack(track)

	route := models.NewRoute("Harbor Exit")
	route.Waypoints = append(route.Waypoints, *wp)
	result.AddRoute(route)

	result.SetSonar(&models.SonarMetadata{Frequency: 200, RangeMeters: 40})

	return result.Finalize("SL2")
}

func TestFormats(t *testing.T) {
	assert.Equal(t, []string{"json", "msgpack", "csv", "gpx", "xlsx"}, Formats())
}

func TestWrite_UnsupportedFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, fixtureResult(t), "pdf")
	assert.ErrorContains(t, err, "unsupported export format")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, Write(&buf, fixtureResult(t), FormatJSON))

	out := buf.String()
	assert.Contains(t, out, `"success": true`)
	assert.Contains(t, out, `"name": "Reef Edge"`)
	assert.Contains(t, out, `"latitude": 36.5`)
	assert.Contains(t, out, `"fileMetadata"`)
	assert.Contains(t, out, `"sonarMetadata"`)
}

func TestWriteMsgpack(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, Write(&buf, fixtureResult(t), FormatMsgpack))

	var decoded models.ParseResult
	assert.NoError(t, msgpack.Unmarshal(buf.Bytes(), &decoded))
	assert.True(t, decoded.Success)
	if assert.Len(t, decoded.Waypoints, 2) {
		assert.Equal(t, "Reef Edge", decoded.Waypoints[0].Name)
	}
	assert.Equal(t, "Lowrance SL2 Sonar Log", decoded.FileMetadata.Format)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, Write(&buf, fixtureResult(t), FormatCSV))

	rows, err := csv.NewReader(&buf).ReadAll()
	assert.NoError(t, err)
	if !assert.Len(t, rows, 3, "header plus one row per waypoint") {
		return
	}

	assert.Equal(t, []string{"id", "name", "latitude", "longitude", "depth_m", "temperature_c", "timestamp", "device", "symbol", "notes"}, rows[0])

	full := rows[1]
	assert.Equal(t, "Reef Edge", full[1])
	assert.Equal(t, "36.5", full[2])
	assert.Equal(t, "12.5", full[4])
	assert.Equal(t, "lowrance", full[7])

	bare := rows[2]
	assert.Equal(t, "", bare[4], "missing depth stays blank")
	assert.Equal(t, "", bare[6], "zero timestamp stays blank")
}

func TestWriteGPX_RoundTrip(t *testing.T) {
	fixture := fixtureResult(t)

	var buf bytes.Buffer
	assert.NoError(t, Write(&buf, fixture, FormatGPX))
	assert.Contains(t, buf.String(), `creator="marinelog"`)

	// exported GPX must decode back through the GPX decoder
	result, warnings := decoder.Decode(buf.Bytes(), "export.gpx")
	assert.Empty(t, warnings)
	assert.True(t, result.Success, result.Error)

	if assert.Len(t, result.Waypoints, 2) {
		wp := result.Waypoints[0]
		assert.Equal(t, "Reef Edge", wp.Name)
		assert.InDelta(t, 36.5, wp.Latitude, 1e-9)
		assert.InDelta(t, -121.9, wp.Longitude, 1e-9)
		if assert.NotNil(t, wp.Depth) {
			assert.InDelta(t, 12.5, *wp.Depth, 1e-9)
		}
		if assert.NotNil(t, wp.Temperature) {
			assert.InDelta(t, 18.5, *wp.Temperature, 1e-9)
		}
		assert.Equal(t, "Fish", wp.Symbol)
	}

	if assert.Len(t, result.Tracks, 1) {
		track := result.Tracks[0]
		assert.Equal(t, "Drift", track.Name)
		if assert.Len(t, track.Points, 2) {
			if assert.NotNil(t, track.Points[0].Depth) {
				assert.InDelta(t, 10, *track.Points[0].Depth, 1e-9)
			}
			assert.NotNil(t, track.Points[0].Timestamp)
		}
	}

	if assert.Len(t, result.Routes, 1) {
		assert.Equal(t, "Harbor Exit", result.Routes[0].Name)
		assert.Len(t, result.Routes[0].Waypoints, 1)
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, Write(&buf, fixtureResult(t), FormatXLSX))

	f, err := excelize.OpenReader(&buf)
	assert.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Waypoints", "Tracks", "Routes", "Depth"}, f.GetSheetList())

	rows, err := f.GetRows("Waypoints")
	assert.NoError(t, err)
	if assert.Len(t, rows, 3, "header plus one row per waypoint") {
		assert.Equal(t, "Name", rows[0][0])
		assert.Equal(t, "Reef Edge", rows[1][0])
	}

	trackRows, err := f.GetRows("Tracks")
	assert.NoError(t, err)
	assert.Len(t, trackRows, 3, "header plus one row per point")

	depthRows, err := f.GetRows("Depth")
	assert.NoError(t, err)
	assert.Len(t, depthRows, 3, "waypoint depth and one track point depth")
}

func TestWriteGPX_EscapesMarkup(t *testing.T) {
	result := models.NewParseResult(models.FileMetadata{})
	wp, err := models.NewWaypoint(1, 2, models.DeviceGarmin)
	assert.NoError(t, err)
	wp.SetName(`Rock <5m> & "Hole"`)
	result.AddWaypoint(*wp)
	result.Finalize("GPX")

	var buf bytes.Buffer
	assert.NoError(t, Write(&buf, result, FormatGPX))
	assert.NotContains(t, buf.String(), "<5m>")

	parsed, _ := decoder.Decode(buf.Bytes(), "export.gpx")
	assert.True(t, parsed.Success)
	if assert.Len(t, parsed.Waypoints, 1) {
		assert.Equal(t, `Rock <5m> & "Hole"`, parsed.Waypoints[0].Name)
	}
}

func TestWriteCSV_QuotesCommas(t *testing.T) {
	result := models.NewParseResult(models.FileMetadata{})
	wp, err := models.NewWaypoint(1, 2, models.DeviceGarmin)
	assert.NoError(t, err)
	wp.SetName("Reef, North End")
	wp.Notes = "tricky \"spot\""
	result.AddWaypoint(*wp)
	result.Finalize("GPX")

	var buf bytes.Buffer
	assert.NoError(t, Write(&buf, result, FormatCSV))

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	assert.NoError(t, err)
	if assert.Len(t, rows, 2) {
		assert.Equal(t, "Reef, North End", rows[1][1])
		assert.Equal(t, "tricky \"spot\"", rows[1][9])
	}
}

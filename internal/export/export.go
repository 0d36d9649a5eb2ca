// Package export renders decode results as interchange formats: JSON and
// msgpack for machine consumers, CSV and XLSX for spreadsheets, and GPX
// for loading back onto a chartplotter.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/marinelog/decoder/internal/models"
)

const (
	FormatJSON    = "json"
	FormatMsgpack = "msgpack"
	FormatCSV     = "csv"
	FormatGPX     = "gpx"
	FormatXLSX    = "xlsx"
)

// Formats lists the supported export formats.
func Formats() []string {
	return []string{FormatJSON, FormatMsgpack, FormatCSV, FormatGPX, FormatXLSX}
}

// Write renders result to w in the named format.
func Write(w io.Writer, result *models.ParseResult, format string) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatMsgpack:
		return writeMsgpack(w, result)
	case FormatCSV:
		return writeCSV(w, result)
	case FormatGPX:
		return writeGPX(w, result)
	case FormatXLSX:
		return writeXLSX(w, result)
	}
	return fmt.Errorf("unsupported export format: %s", format)
}

func writeJSON(w io.Writer, result *models.ParseResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func writeMsgpack(w io.Writer, result *models.ParseResult) error {
	data, err := msgpack.Marshal(result)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// writeCSV emits one row per waypoint. Tracks and routes do not fit a
// single flat table; spreadsheet consumers that need them use XLSX.
func writeCSV(w io.Writer, result *models.ParseResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "name", "latitude", "longitude", "depth_m", "temperature_c", "timestamp", "device", "symbol", "notes"}); err != nil {
		return err
	}
	for _, wp := range result.Waypoints {
		row := []string{
			wp.ID,
			wp.Name,
			formatFloat(wp.Latitude),
			formatFloat(wp.Longitude),
			formatFloatPtr(wp.Depth),
			formatFloatPtr(wp.Temperature),
			formatTime(wp.Timestamp),
			string(wp.Device),
			wp.Symbol,
			wp.Notes,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

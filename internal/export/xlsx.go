package export

import (
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/marinelog/decoder/internal/models"
)

// writeXLSX builds a workbook with one sheet per entity kind. Tracks and
// routes flatten to one row per point so the file stays filterable.
func writeXLSX(w io.Writer, result *models.ParseResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "Waypoints"); err != nil {
		return err
	}
	for _, sheet := range []string{"Tracks", "Routes", "Depth"} {
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
	}

	if err := writeWaypointSheet(f, result); err != nil {
		return err
	}
	if err := writeTrackSheet(f, result); err != nil {
		return err
	}
	if err := writeRouteSheet(f, result); err != nil {
		return err
	}
	if err := writeDepthSheet(f, result); err != nil {
		return err
	}

	return f.Write(w)
}

func writeWaypointSheet(f *excelize.File, result *models.ParseResult) error {
	if err := setRow(f, "Waypoints", 1, "Name", "Latitude", "Longitude", "Depth (m)", "Temperature (C)", "Timestamp", "Device", "Symbol", "Notes"); err != nil {
		return err
	}
	for i, wp := range result.Waypoints {
		err := setRow(f, "Waypoints", i+2,
			wp.Name, wp.Latitude, wp.Longitude,
			floatCell(wp.Depth), floatCell(wp.Temperature),
			formatTime(wp.Timestamp), string(wp.Device), wp.Symbol, wp.Notes)
		if err != nil {
			return err
		}
	}
	return nil
}

func writeTrackSheet(f *excelize.File, result *models.ParseResult) error {
	if err := setRow(f, "Tracks", 1, "Track", "Point", "Latitude", "Longitude", "Depth (m)", "Speed (m/s)", "Heading", "Temperature (C)", "Timestamp"); err != nil {
		return err
	}
	row := 2
	for _, track := range result.Tracks {
		for i, pt := range track.Points {
			ts := ""
			if pt.Timestamp != nil {
				ts = formatTime(*pt.Timestamp)
			}
			err := setRow(f, "Tracks", row,
				track.Name, i+1, pt.Latitude, pt.Longitude,
				floatCell(pt.Depth), floatCell(pt.Speed), floatCell(pt.Heading),
				floatCell(pt.Temperature), ts)
			if err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

func writeRouteSheet(f *excelize.File, result *models.ParseResult) error {
	if err := setRow(f, "Routes", 1, "Route", "Leg", "Name", "Latitude", "Longitude", "Symbol"); err != nil {
		return err
	}
	row := 2
	for _, rt := range result.Routes {
		for i, wp := range rt.Waypoints {
			err := setRow(f, "Routes", row, rt.Name, i+1, wp.Name, wp.Latitude, wp.Longitude, wp.Symbol)
			if err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

func writeDepthSheet(f *excelize.File, result *models.ParseResult) error {
	if err := setRow(f, "Depth", 1, "Latitude", "Longitude", "Depth (m)", "Frequency (kHz)", "Temperature (C)", "Timestamp"); err != nil {
		return err
	}
	for i, d := range result.DepthReadings {
		err := setRow(f, "Depth", i+2,
			d.Latitude, d.Longitude, d.Depth,
			floatCell(d.Frequency), floatCell(d.Temperature), formatTime(d.Timestamp))
		if err != nil {
			return err
		}
	}
	return nil
}

// setRow writes values into consecutive columns of one row, skipping nils
// so optional fields leave blank cells.
func setRow(f *excelize.File, sheet string, row int, values ...interface{}) error {
	for col, v := range values {
		if v == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func floatCell(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

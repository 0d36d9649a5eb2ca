package export

import (
	"encoding/xml"
	"io"
	"time"

	"github.com/marinelog/decoder/internal/models"
)

// The GPX output targets GPX 1.1 with depth and temperature carried in a
// Garmin-style extension namespace, so an exported file decodes back into
// the same waypoints and tracks it was built from.
const (
	gpxVersion   = "1.1"
	gpxCreator   = "marinelog"
	gpxNamespace = "http://www.topografix.com/GPX/1/1"
	gpxxSchema   = "http://www.garmin.com/xmlschemas/GpxExtensions/v3"
)

type gpxDoc struct {
	XMLName   xml.Name      `xml:"gpx"`
	Version   string        `xml:"version,attr"`
	Creator   string        `xml:"creator,attr"`
	Xmlns     string        `xml:"xmlns,attr"`
	XmlnsGpxx string        `xml:"xmlns:gpxx,attr"`
	Metadata  *gpxMeta      `xml:"metadata,omitempty"`
	Waypoints []gpxWaypoint `xml:"wpt"`
	Routes    []gpxRoute    `xml:"rte"`
	Tracks    []gpxTrack    `xml:"trk"`
}

type gpxMeta struct {
	Time string `xml:"time,omitempty"`
}

type gpxWaypoint struct {
	Lat        float64     `xml:"lat,attr"`
	Lon        float64     `xml:"lon,attr"`
	Name       string      `xml:"name,omitempty"`
	Desc       string      `xml:"desc,omitempty"`
	Sym        string      `xml:"sym,omitempty"`
	Time       string      `xml:"time,omitempty"`
	Extensions *gpxWpesEnv `xml:"extensions,omitempty"`
}

type gpxTrack struct {
	Name     string       `xml:"name,omitempty"`
	Segments []gpxSegment `xml:"trkseg"`
}

type gpxSegment struct {
	Points []gpxTrackPoint `xml:"trkpt"`
}

type gpxTrackPoint struct {
	Lat        float64     `xml:"lat,attr"`
	Lon        float64     `xml:"lon,attr"`
	Time       string      `xml:"time,omitempty"`
	Extensions *gpxTpesEnv `xml:"extensions,omitempty"`
}

type gpxRoute struct {
	Name   string        `xml:"name,omitempty"`
	Points []gpxWaypoint `xml:"rtept"`
}

// Separate envelope types per point kind keep the extension element names
// distinct: WaypointExtension under wpt and rtept, TrackPointExtension
// under trkpt.
type gpxWpesEnv struct {
	Waypoint gpxVendorData `xml:"gpxx:WaypointExtension"`
}

type gpxTpesEnv struct {
	TrackPoint gpxVendorData `xml:"gpxx:TrackPointExtension"`
}

type gpxVendorData struct {
	Depth       *float64 `xml:"gpxx:Depth,omitempty"`
	Temperature *float64 `xml:"gpxx:Temperature,omitempty"`
}

func writeGPX(w io.Writer, result *models.ParseResult) error {
	doc := gpxDoc{
		Version:   gpxVersion,
		Creator:   gpxCreator,
		Xmlns:     gpxNamespace,
		XmlnsGpxx: gpxxSchema,
	}
	if result.FileMetadata.CreatedAt != nil {
		doc.Metadata = &gpxMeta{Time: gpxTime(*result.FileMetadata.CreatedAt)}
	}

	for _, wp := range result.Waypoints {
		doc.Waypoints = append(doc.Waypoints, gpxPointFor(wp))
	}
	for _, rt := range result.Routes {
		route := gpxRoute{Name: rt.Name}
		for _, wp := range rt.Waypoints {
			route.Points = append(route.Points, gpxPointFor(wp))
		}
		doc.Routes = append(doc.Routes, route)
	}
	for _, track := range result.Tracks {
		seg := gpxSegment{}
		for _, pt := range track.Points {
			out := gpxTrackPoint{Lat: pt.Latitude, Lon: pt.Longitude}
			if pt.Timestamp != nil {
				out.Time = gpxTime(*pt.Timestamp)
			}
			if pt.Depth != nil || pt.Temperature != nil {
				out.Extensions = &gpxTpesEnv{TrackPoint: gpxVendorData{Depth: pt.Depth, Temperature: pt.Temperature}}
			}
			seg.Points = append(seg.Points, out)
		}
		doc.Tracks = append(doc.Tracks, gpxTrack{Name: track.Name, Segments: []gpxSegment{seg}})
	}

	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}

func gpxPointFor(wp models.Waypoint) gpxWaypoint {
	out := gpxWaypoint{
		Lat:  wp.Latitude,
		Lon:  wp.Longitude,
		Name: wp.Name,
		Desc: wp.Notes,
		Sym:  wp.Symbol,
		Time: gpxTime(wp.Timestamp),
	}
	if wp.Depth != nil || wp.Temperature != nil {
		out.Extensions = &gpxWpesEnv{Waypoint: gpxVendorData{Depth: wp.Depth, Temperature: wp.Temperature}}
	}
	return out
}

func gpxTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

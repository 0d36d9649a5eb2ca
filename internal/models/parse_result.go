package models

import "fmt"

// ParseResult is the envelope every decoder returns. Failures travel as
// data: Success false plus an Error message, never a panic or a Go error
// crossing the decode boundary.
type ParseResult struct {
	Success       bool           `json:"success"`
	Waypoints     []Waypoint     `json:"waypoints"`
	Tracks        []Track        `json:"tracks"`
	Routes        []Route        `json:"routes"`
	DepthReadings []DepthReading `json:"depthReadings"`
	SonarMetadata *SonarMetadata `json:"sonarMetadata,omitempty"`
	FileMetadata  FileMetadata   `json:"fileMetadata"`
	Error         string         `json:"error,omitempty"`
}

// DecodeWarning describes a recoverable record-level fault. Warnings are
// returned alongside the ParseResult for the caller to log; they never flip
// Success on their own.
type DecodeWarning struct {
	Offset int    `json:"offset"`
	Record string `json:"record"`
	Reason string `json:"reason"`
}

// NewParseResult creates an empty result for the given file metadata.
func NewParseResult(meta FileMetadata) *ParseResult {
	return &ParseResult{
		Waypoints:     make([]Waypoint, 0),
		Tracks:        make([]Track, 0),
		Routes:        make([]Route, 0),
		DepthReadings: make([]DepthReading, 0),
		FileMetadata:  meta,
	}
}

// HasEntities reports whether any primary collection is non-empty. Depth
// readings are a derived view and do not count toward success.
func (r *ParseResult) HasEntities() bool {
	return len(r.Waypoints) > 0 || len(r.Tracks) > 0 || len(r.Routes) > 0
}

// Fail marks the result failed with the given diagnostic message.
func (r *ParseResult) Fail(msg string) *ParseResult {
	r.Success = false
	r.Error = msg
	return r
}

// Finalize applies the success rule: a decode succeeded iff it produced at
// least one waypoint, track or route. formatToken names the format in the
// empty-result message, e.g. "GPX" yields "No data found in GPX file".
func (r *ParseResult) Finalize(formatToken string) *ParseResult {
	if r.HasEntities() {
		r.Success = true
		return r
	}
	return r.Fail(fmt.Sprintf("No data found in %s file", formatToken))
}

// AddWaypoint appends wp and mirrors any depth it carries into the
// depth-reading view.
func (r *ParseResult) AddWaypoint(wp Waypoint) {
	r.Waypoints = append(r.Waypoints, wp)
	if wp.Depth != nil {
		r.DepthReadings = append(r.DepthReadings, DepthReading{
			Latitude:    wp.Latitude,
			Longitude:   wp.Longitude,
			Depth:       *wp.Depth,
			Timestamp:   wp.Timestamp,
			Temperature: wp.Temperature,
		})
	}
}

// AddTrack appends t unless it is empty, mirroring depth-bearing points
// into the depth-reading view.
func (r *ParseResult) AddTrack(t *Track) {
	if t == nil || len(t.Points) == 0 {
		return
	}
	r.Tracks = append(r.Tracks, *t)
	for _, p := range t.Points {
		if p.Depth == nil {
			continue
		}
		d := DepthReading{
			Latitude:    p.Latitude,
			Longitude:   p.Longitude,
			Depth:       *p.Depth,
			Temperature: p.Temperature,
		}
		if p.Timestamp != nil {
			d.Timestamp = *p.Timestamp
		}
		r.DepthReadings = append(r.DepthReadings, d)
	}
}

// AddRoute appends rt unless it has no waypoints.
func (r *ParseResult) AddRoute(rt *Route) {
	if rt == nil || len(rt.Waypoints) == 0 {
		return
	}
	r.Routes = append(r.Routes, *rt)
}

// AddDepthReading appends a standalone depth sample.
func (r *ParseResult) AddDepthReading(d DepthReading) {
	r.DepthReadings = append(r.DepthReadings, d)
}

// SetSonar records sonar metadata. The first valid block wins; later calls
// are ignored.
func (r *ParseResult) SetSonar(m *SonarMetadata) {
	if r.SonarMetadata == nil {
		r.SonarMetadata = m
	}
}

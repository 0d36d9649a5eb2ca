package models

import (
	"time"

	"github.com/google/uuid"
)

// TrackPoint is one sample along a track. Every channel except position is
// optional because not all vendors record every channel.
type TrackPoint struct {
	Latitude    float64    `json:"latitude"`
	Longitude   float64    `json:"longitude"`
	Timestamp   *time.Time `json:"timestamp,omitempty"`
	Depth       *float64   `json:"depth,omitempty"`       // meters
	Speed       *float64   `json:"speed,omitempty"`       // m/s
	Heading     *float64   `json:"heading,omitempty"`     // degrees
	Temperature *float64   `json:"temperature,omitempty"` // Celsius
}

// Track is an ordered sequence of track points.
type Track struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Color  string       `json:"color,omitempty"`
	Points []TrackPoint `json:"points"`
}

// NewTrack creates an empty track. Tracks without a recorded name get the
// generic "Track" label.
func NewTrack(name string) *Track {
	if name == "" {
		name = "Track"
	}
	return &Track{
		ID:     uuid.New().String(),
		Name:   name,
		Points: make([]TrackPoint, 0),
	}
}

// Timestamp returns the first point's timestamp. It is nil for an empty
// track or when the first point carries no time.
func (t *Track) Timestamp() *time.Time {
	if len(t.Points) == 0 {
		return nil
	}
	return t.Points[0].Timestamp
}

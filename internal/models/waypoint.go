package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultWaypointName is used when a source record carries no name.
const DefaultWaypointName = "Unnamed Waypoint"

// Waypoint is a single named position recorded by a device.
type Waypoint struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Depth       *float64  `json:"depth,omitempty"`       // meters
	Temperature *float64  `json:"temperature,omitempty"` // Celsius
	Timestamp   time.Time `json:"timestamp"`
	Device      Device    `json:"device"`
	Notes       string    `json:"notes,omitempty"`
	Symbol      string    `json:"symbol,omitempty"`
}

// NewWaypoint creates a waypoint at the given position with a fresh id and
// the default name. It returns an error when the coordinates are not finite
// decimal degrees in range; callers drop the source record in that case
// rather than coercing the values.
func NewWaypoint(lat, lon float64, device Device) (*Waypoint, error) {
	if !ValidLatLon(lat, lon) {
		return nil, fmt.Errorf("coordinates out of range: lat=%v lon=%v", lat, lon)
	}
	return &Waypoint{
		ID:        uuid.New().String(),
		Name:      DefaultWaypointName,
		Latitude:  lat,
		Longitude: lon,
		Device:    device,
	}, nil
}

// SetName assigns the display name, keeping the default for empty input.
func (w *Waypoint) SetName(name string) {
	if name != "" {
		w.Name = name
	}
}

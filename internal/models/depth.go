package models

import "time"

// DepthReading is a standalone depth sample. The collection is a derived,
// denormalized view: waypoints and track points that carry depth are
// duplicated into it alongside the vendors' dedicated depth records.
type DepthReading struct {
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Depth       float64   `json:"depth"` // meters
	Timestamp   time.Time `json:"timestamp"`
	Frequency   *float64  `json:"frequency,omitempty"`   // kHz
	Temperature *float64  `json:"temperature,omitempty"` // Celsius
}

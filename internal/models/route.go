package models

import "github.com/google/uuid"

// Route is an ordered sequence of waypoints travelled in order.
type Route struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Waypoints []Waypoint `json:"waypoints"`
}

// NewRoute creates an empty route. Routes without a recorded name get the
// generic "Route" label.
func NewRoute(name string) *Route {
	if name == "" {
		name = "Route"
	}
	return &Route{
		ID:        uuid.New().String(),
		Name:      name,
		Waypoints: make([]Waypoint, 0),
	}
}

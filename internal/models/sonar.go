package models

// SonarMetadata describes the sonar configuration recorded in a log file.
// A file carries at most one: the first valid sonar-config block wins and
// later blocks are ignored.
type SonarMetadata struct {
	Frequency   float64 `json:"frequency"` // kHz
	RangeMeters float64 `json:"rangeMeters"`
	Gain        float64 `json:"gain"`
	ChartSpeed  float64 `json:"chartSpeed"`
	Palette     string  `json:"palette,omitempty"`
}

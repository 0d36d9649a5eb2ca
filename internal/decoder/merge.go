package decoder

import (
	"math"
	"strings"

	"github.com/marinelog/decoder/internal/models"
)

// MergeConfig configures the merge behavior.
type MergeConfig struct {
	// DedupeWaypoints drops waypoints whose name and coordinates match an
	// already merged waypoint. Default: true.
	DedupeWaypoints bool

	// CoordEpsilon is the coordinate tolerance, in degrees, within which
	// two waypoints count as the same position. Default: 1e-6 (roughly
	// 10 centimeters at the equator).
	CoordEpsilon float64
}

// DefaultMergeConfig returns the default merge configuration.
func DefaultMergeConfig() MergeConfig {
	return MergeConfig{
		DedupeWaypoints: true,
		CoordEpsilon:    1e-6,
	}
}

// MergeResults merges multiple decode results into a single result.
// It handles:
// 1. Combining file metadata (joined name, summed size, shared device)
// 2. Concatenating tracks, routes and depth readings in input order
// 3. Deduplicating waypoints by name and position
func MergeResults(results []*models.ParseResult, config MergeConfig) *models.ParseResult {
	if len(results) == 0 {
		return models.NewParseResult(models.FileMetadata{Format: "Merged"}).Finalize("merged")
	}
	if len(results) == 1 {
		return results[0]
	}

	merged := models.NewParseResult(mergeMetadata(results))

	seen := make(map[waypointKey]struct{})
	for _, res := range results {
		for _, wp := range res.Waypoints {
			if config.DedupeWaypoints {
				key := keyForWaypoint(wp, config.CoordEpsilon)
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
			}
			merged.Waypoints = append(merged.Waypoints, wp)
		}
		merged.Tracks = append(merged.Tracks, res.Tracks...)
		merged.Routes = append(merged.Routes, res.Routes...)
		merged.DepthReadings = append(merged.DepthReadings, res.DepthReadings...)
		merged.SetSonar(res.SonarMetadata)
	}

	return merged.Finalize("merged")
}

// mergeMetadata combines the file metadata of all inputs: names joined
// with "+", byte sizes summed, and the device kept only when every input
// reports the same one.
func mergeMetadata(results []*models.ParseResult) models.FileMetadata {
	names := make([]string, 0, len(results))
	var size int64
	device := results[0].FileMetadata.Device
	var created *models.ParseResult

	for _, res := range results {
		if res.FileMetadata.FileName != "" {
			names = append(names, res.FileMetadata.FileName)
		}
		size += res.FileMetadata.ByteSize
		if res.FileMetadata.Device != device {
			device = ""
		}
		if res.FileMetadata.CreatedAt != nil {
			if created == nil || res.FileMetadata.CreatedAt.Before(*created.FileMetadata.CreatedAt) {
				created = res
			}
		}
	}

	meta := models.FileMetadata{
		FileName: strings.Join(names, "+"),
		Format:   "Merged",
		ByteSize: size,
		Device:   device,
	}
	if created != nil {
		meta.CreatedAt = created.FileMetadata.CreatedAt
	}
	return meta
}

// waypointKey identifies a waypoint by name and quantized position.
type waypointKey struct {
	name     string
	lat, lon int64
}

func keyForWaypoint(wp models.Waypoint, epsilon float64) waypointKey {
	if epsilon <= 0 {
		epsilon = DefaultMergeConfig().CoordEpsilon
	}
	return waypointKey{
		name: wp.Name,
		lat:  int64(math.Round(wp.Latitude / epsilon)),
		lon:  int64(math.Round(wp.Longitude / epsilon)),
	}
}

package decoder

import (
	"testing"
)

func TestHumminbirdDecoder_DAT(t *testing.T) {
	d := newHumminbirdDecoder(DefaultSymbolTable())

	t.Run("converts feet and Fahrenheit to canonical units", func(t *testing.T) {
		data := datFile(0).
			datRecord(humminbirdRecWaypoint, datWaypointPayload(28.1, -80.6, 10.0, 68, 1700003000, 1, "Brush Pile 1")).
			bytes()

		result, warnings := d.Decode(data, "points.dat")
		if len(warnings) != 0 {
			t.Fatalf("expected no warnings, got %d", len(warnings))
		}
		if !result.Success {
			t.Fatalf("decode failed: %s", result.Error)
		}
		if len(result.Waypoints) != 1 {
			t.Fatalf("expected 1 waypoint, got %d", len(result.Waypoints))
		}

		wp := result.Waypoints[0]
		if !floatPtrEquals(wp.Depth, 3.048, 1e-6) {
			t.Errorf("10 feet should convert to 3.048 m, got %v", wp.Depth)
		}
		if !floatPtrEquals(wp.Temperature, 20, 1e-6) {
			t.Errorf("68 F should convert to 20 C, got %v", wp.Temperature)
		}
		if wp.Name != "Brush Pile 1" {
			t.Errorf("unexpected name: %s", wp.Name)
		}
		if wp.Symbol != "Fish - Small" {
			t.Errorf("unexpected symbol for icon 1: %q", wp.Symbol)
		}
	})

	t.Run("Fahrenheit sentinel drops zero and negative readings", func(t *testing.T) {
		data := datFile(0).
			datRecord(humminbirdRecWaypoint, datWaypointPayload(10, 10, 5, 0, 0, 0, "A")).
			datRecord(humminbirdRecWaypoint, datWaypointPayload(10, 10, 5, -10, 0, 0, "B")).
			bytes()

		result, _ := d.Decode(data, "points.dat")
		for _, wp := range result.Waypoints {
			if wp.Temperature != nil {
				t.Errorf("%s: expected nil temperature, got %v", wp.Name, *wp.Temperature)
			}
		}
	})

	t.Run("track headers open named tracks and flush the previous one", func(t *testing.T) {
		data := datFile(0).
			datRecord(humminbirdRecTrackHeader, (&bin{}).pstr("Morning").bytes()).
			datRecord(humminbirdRecTrackPoint, (&bin{}).f32(28.10).f32(-80.60).f32(12).u32(1700000100).bytes()).
			datRecord(humminbirdRecTrackPoint, (&bin{}).f32(28.11).f32(-80.61).f32(13).u32(1700000200).bytes()).
			datRecord(humminbirdRecTrackHeader, (&bin{}).pstr("Afternoon").bytes()).
			datRecord(humminbirdRecTrackPoint, (&bin{}).f32(28.12).f32(-80.62).f32(14).u32(1700000300).bytes()).
			bytes()

		result, warnings := d.Decode(data, "tracks.dat")
		if len(warnings) != 0 {
			t.Fatalf("expected no warnings, got %d", len(warnings))
		}
		if len(result.Tracks) != 2 {
			t.Fatalf("expected 2 tracks, got %d", len(result.Tracks))
		}
		if result.Tracks[0].Name != "Morning" || len(result.Tracks[0].Points) != 2 {
			t.Errorf("unexpected first track: %s with %d points", result.Tracks[0].Name, len(result.Tracks[0].Points))
		}
		if result.Tracks[1].Name != "Afternoon" || len(result.Tracks[1].Points) != 1 {
			t.Errorf("unexpected second track: %s with %d points", result.Tracks[1].Name, len(result.Tracks[1].Points))
		}
		// feet to meters on track depths as well
		if !floatPtrEquals(result.Tracks[0].Points[0].Depth, 12*0.3048, 1e-6) {
			t.Errorf("unexpected depth: %v", result.Tracks[0].Points[0].Depth)
		}
	})

	t.Run("points before any header open an unnamed track", func(t *testing.T) {
		data := datFile(0).
			datRecord(humminbirdRecTrackPoint, (&bin{}).f32(28.10).f32(-80.60).f32(12).u32(0).bytes()).
			bytes()

		result, _ := d.Decode(data, "tracks.dat")
		if len(result.Tracks) != 1 {
			t.Fatalf("expected 1 track, got %d", len(result.Tracks))
		}
		if result.Tracks[0].Name != "Track" {
			t.Errorf("unexpected default track name: %q", result.Tracks[0].Name)
		}
	})

	t.Run("declared record count bounds iteration", func(t *testing.T) {
		data := datFile(1).
			datRecord(humminbirdRecWaypoint, datWaypointPayload(10, 10, 5, 68, 0, 0, "First")).
			datRecord(humminbirdRecWaypoint, datWaypointPayload(11, 11, 5, 68, 0, 0, "Second")).
			bytes()

		result, _ := d.Decode(data, "points.dat")
		if len(result.Waypoints) != 1 {
			t.Fatalf("expected declared count to stop iteration, got %d waypoints", len(result.Waypoints))
		}
		if result.Waypoints[0].Name != "First" {
			t.Errorf("unexpected waypoint: %s", result.Waypoints[0].Name)
		}
	})

	t.Run("zero declared count reads to end of file", func(t *testing.T) {
		data := datFile(0).
			datRecord(humminbirdRecWaypoint, datWaypointPayload(10, 10, 5, 68, 0, 0, "First")).
			datRecord(humminbirdRecWaypoint, datWaypointPayload(11, 11, 5, 68, 0, 0, "Second")).
			bytes()

		result, _ := d.Decode(data, "points.dat")
		if len(result.Waypoints) != 2 {
			t.Fatalf("expected 2 waypoints, got %d", len(result.Waypoints))
		}
	})

	t.Run("depth records land in depth readings", func(t *testing.T) {
		data := datFile(0).
			datRecord(humminbirdRecDepth, (&bin{}).f32(28.10).f32(-80.60).f32(20).f32(68).u32(1700000100).bytes()).
			bytes()

		result, _ := d.Decode(data, "depth.dat")
		if len(result.DepthReadings) != 1 {
			t.Fatalf("expected 1 depth reading, got %d", len(result.DepthReadings))
		}
		reading := result.DepthReadings[0]
		if reading.Depth < 6.09 || reading.Depth > 6.10 {
			t.Errorf("20 feet should be about 6.096 m, got %v", reading.Depth)
		}
		if !floatPtrEquals(reading.Temperature, 20, 1e-6) {
			t.Errorf("unexpected temperature: %v", reading.Temperature)
		}
		if result.Success {
			t.Error("depth readings alone should not make the file successful")
		}
		if result.Error != "No data found in DAT file" {
			t.Errorf("unexpected error: %q", result.Error)
		}
	})

	t.Run("invalid header", func(t *testing.T) {
		for _, data := range [][]byte{nil, []byte("HM"), []byte("XXXXXXXXXXXXXXXX")} {
			result, _ := d.Decode(data, "points.dat")
			if result.Error != "Invalid Humminbird file header" {
				t.Errorf("unexpected error: %q", result.Error)
			}
		}
	})
}

func TestHumminbirdDecoder_SON(t *testing.T) {
	d := newHumminbirdDecoder(DefaultSymbolTable())

	t.Run("sonar metadata alone is a successful decode", func(t *testing.T) {
		result, warnings := d.Decode(sonFile(2, 12, 5, 455, 2500), "b001.son")
		if warnings != nil {
			t.Fatalf("expected no warnings, got %d", len(warnings))
		}
		if !result.Success {
			t.Fatalf("decode failed: %s", result.Error)
		}
		if result.HasEntities() {
			t.Error("SON files carry no waypoints, tracks or routes")
		}

		m := result.SonarMetadata
		if m == nil {
			t.Fatal("expected sonar metadata")
		}
		if m.Frequency != 455 {
			t.Errorf("unexpected frequency: %v", m.Frequency)
		}
		if m.RangeMeters != 25 {
			t.Errorf("2500 cm should be 25 m, got %v", m.RangeMeters)
		}
		if m.Gain != 12 || m.ChartSpeed != 5 {
			t.Errorf("unexpected gain/chart speed: %v/%v", m.Gain, m.ChartSpeed)
		}
		if m.Palette != "DownScan" {
			t.Errorf("unexpected palette: %q", m.Palette)
		}
	})

	t.Run("palette codes", func(t *testing.T) {
		cases := map[uint8]string{0: "Standard", 2: "DownScan", 3: "SideScan", 9: ""}
		for code, want := range cases {
			result, _ := d.Decode(sonFile(code, 1, 1, 200, 1000), "b001.son")
			if got := result.SonarMetadata.Palette; got != want {
				t.Errorf("palette %d: expected %q, got %q", code, want, got)
			}
		}
	})

	t.Run("zero frequency reports no data", func(t *testing.T) {
		result, _ := d.Decode(sonFile(0, 1, 1, 0, 1000), "b001.son")
		if result.Success {
			t.Error("expected failure")
		}
		if result.Error != "No data found in SON file" {
			t.Errorf("unexpected error: %q", result.Error)
		}
	})

	t.Run("short SON buffer is an invalid header", func(t *testing.T) {
		result, _ := d.Decode([]byte("SON\x01"), "b001.son")
		if result.Error != "Invalid Humminbird SON file header" {
			t.Errorf("unexpected error: %q", result.Error)
		}
	})
}

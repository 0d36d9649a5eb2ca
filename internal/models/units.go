package models

import "math"

// Canonical units: coordinates in decimal degrees, depth in meters,
// temperature in Celsius, speed in m/s, frequency in kHz. Conversions from
// vendor units happen inside each decoder because the sentinel rules that
// decide whether a raw value is real differ per vendor.

const metersPerFoot = 0.3048

// mercatorScale converts signed 32-bit mercator units to decimal degrees.
const mercatorScale = float64(1<<31) / 180.0

// Temperature readings outside this Celsius band are sensor noise.
const (
	MinPlausibleTemp = -50.0
	MaxPlausibleTemp = 50.0
)

// FeetToMeters converts a depth in feet to meters.
func FeetToMeters(ft float64) float64 {
	return ft * metersPerFoot
}

// FahrenheitToCelsius converts a temperature in Fahrenheit to Celsius.
func FahrenheitToCelsius(f float64) float64 {
	return (f - 32) * 5 / 9
}

// MercatorToDegrees converts a signed 32-bit mercator coordinate to decimal
// degrees. Both axes use the same linear rescaling.
func MercatorToDegrees(v int32) float64 {
	return float64(v) / mercatorScale
}

// CentimetersToMeters converts a sonar range in centimeters to meters.
func CentimetersToMeters(cm float64) float64 {
	return cm / 100
}

// ValidLatLon reports whether lat/lon form a finite coordinate pair inside
// the WGS84 value ranges.
func ValidLatLon(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// PlausibleTemperature reports whether t is inside the accepted Celsius band.
func PlausibleTemperature(t float64) bool {
	return t > MinPlausibleTemp && t < MaxPlausibleTemp
}

// Package models contains the canonical domain types every vendor decoder
// populates: waypoints, tracks, routes, depth readings and sonar metadata.
package models

// Device identifies the marine-electronics vendor a file originated from.
type Device string

const (
	DeviceLowrance   Device = "lowrance"
	DeviceGarmin     Device = "garmin"
	DeviceHumminbird Device = "humminbird"
	DeviceRaymarine  Device = "raymarine"
)

// AllDevices returns the supported vendors in canonical order.
func AllDevices() []Device {
	return []Device{DeviceLowrance, DeviceGarmin, DeviceHumminbird, DeviceRaymarine}
}

// Valid reports whether d is one of the known vendors.
func (d Device) Valid() bool {
	switch d {
	case DeviceLowrance, DeviceGarmin, DeviceHumminbird, DeviceRaymarine:
		return true
	}
	return false
}

// Label returns the display name for the vendor.
func (d Device) Label() string {
	switch d {
	case DeviceLowrance:
		return "Lowrance"
	case DeviceGarmin:
		return "Garmin"
	case DeviceHumminbird:
		return "Humminbird"
	case DeviceRaymarine:
		return "Raymarine"
	}
	return string(d)
}

package domain

import (
	"fmt"
	"math"
)

// Coordinate is a latitude/longitude pair in degrees
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the coordinate is a real point on the globe
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// String formats the coordinate the way the places provider expects it
func (c Coordinate) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lng)
}

// LocationFailure names why a user location could not be resolved
type LocationFailure string

const (
	LocationPermissionDenied LocationFailure = "permission_denied"
	LocationTimeout          LocationFailure = "timeout"
	LocationUnsupported      LocationFailure = "unsupported"
	LocationNotFound         LocationFailure = "not_found"
	LocationInvalidInput     LocationFailure = "invalid_input"
)

// LocationError is a user-visible, non-fatal failure to resolve a location.
// The caller is expected to fall back to manual place entry.
type LocationError struct {
	Reason  LocationFailure `json:"reason"`
	Message string          `json:"message"`
	Err     error           `json:"-"`
}

func (e *LocationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

func (e *LocationError) Unwrap() error {
	return e.Err
}

// LocationInput is what a client knows about the user's position.
// Exactly one of Coordinate or PlaceName is normally set; DeviceError carries
// the reason the browser could not produce coordinates.
type LocationInput struct {
	Coordinate  *Coordinate
	PlaceName   string
	DeviceError LocationFailure
}

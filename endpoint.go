package roadnet

import (
	"fmt"

	"github.com/paulmach/orb"
)

const (
	// MinDegrees is the lowest possible value for each coordinate of an endpoint.
	MinDegrees = 0.0
	// MaxDegrees is the highest possible value for each coordinate of an endpoint.
	MaxDegrees = 70.0
)

// Endpoint representation of a coordinate pair bounding a road
type Endpoint struct {
	Lat float64
	Lon float64
}

// String returns pretty printed value for Endpoint
func (e Endpoint) String() string {
	return fmt.Sprintf("Lon: %f | Lat: %f", e.Lon, e.Lat)
}

// Equal reports whether both coordinates match exactly. No epsilon tolerance.
func (e Endpoint) Equal(other Endpoint) bool {
	return e.Lat == other.Lat && e.Lon == other.Lon
}

// IsValidEndpoint checks whether both coordinates lie within the supported degree range
func IsValidEndpoint(e Endpoint) bool {
	return e.Lat >= MinDegrees && e.Lat <= MaxDegrees && e.Lon >= MinDegrees && e.Lon <= MaxDegrees
}

func (e Endpoint) orbPoint() orb.Point {
	return orb.Point{e.Lon, e.Lat}
}

package models

import "github.com/paulmach/orb"

// Coordinates represents a geographical point defined by its longitude and latitude.
// Values are taken from the source row as-is; missing values are NaN.
type Coordinates struct {
	Longitude float64 // Longitude of the geographical point.
	Latitude  float64 // Latitude of the geographical point.
}

// Point returns the coordinates as an orb point in (x=longitude, y=latitude) order.
func (c Coordinates) Point() orb.Point {
	return orb.Point{c.Longitude, c.Latitude}
}

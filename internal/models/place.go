package models

import "github.com/paulmach/orb"

// CRS84 is the coordinate reference system identifier attached to every collection.
const CRS84 = "EPSG:4326"

// Place is a record paired with its point geometry.
type Place struct {
	Record
	Geometry orb.Point
}

// Collection is the filtered, geometry-attached result of a query.
type Collection struct {
	CRS    string
	Places []Place
}

// Len returns the number of places in the collection.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Places)
}

// Bound returns the bounding box of all places in the collection.
func (c *Collection) Bound() orb.Bound {
	if c.Len() == 0 {
		return orb.Bound{}
	}
	bound := c.Places[0].Geometry.Bound()
	for _, p := range c.Places[1:] {
		bound = bound.Extend(p.Geometry)
	}
	return bound
}

// Package geom provides the planar geometry layer for Xylem.
// All coordinates are signed integers in micrometres. Polygon boolean
// operations and offsetting are provided by the go.clipper library
// behind the Polygons type; implementations elsewhere in the module
// never touch clipper types directly.
package geom

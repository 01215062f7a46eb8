// Package slicedata defines the slicer-facing data model for Xylem:
// the per-mesh layer outlines and overhang areas the generator reads,
// the support layers it writes, and the settings maps that configure
// it. The configuration loader that populates the settings is an
// external collaborator.
package slicedata

import (
	"log"

	"github.com/chazu/xylem/pkg/geom"
)

// Settings is a flat map of configuration values. Getters recover from
// bad values locally: missing keys read as zero, and anything mistyped,
// or negative where a dimension is expected, is logged and treated as
// zero.
type Settings map[string]any

func (s Settings) number(key string) (float64, bool) {
	v, ok := s[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		log.Printf("slicedata: setting %q has non-numeric value %v", key, v)
		return 0, false
	}
}

// Coord returns a micrometre dimension. Negative dimensions are logged
// and clamped to zero.
func (s Settings) Coord(key string) geom.Coord {
	n, ok := s.number(key)
	if !ok {
		return 0
	}
	if n < 0 {
		log.Printf("slicedata: setting %q is negative (%v), using 0", key, n)
		return 0
	}
	return geom.Coord(n)
}

// Int returns an integer count. Negative counts are logged and clamped
// to zero.
func (s Settings) Int(key string) int {
	n, ok := s.number(key)
	if !ok {
		return 0
	}
	if n < 0 {
		log.Printf("slicedata: setting %q is negative (%v), using 0", key, n)
		return 0
	}
	return int(n)
}

// Float returns an unconstrained numeric value, such as a ratio.
func (s Settings) Float(key string) float64 {
	n, _ := s.number(key)
	return n
}

// Angle returns an angle in radians.
func (s Settings) Angle(key string) float64 {
	n, _ := s.number(key)
	return n
}

// Bool returns a boolean value; anything else is false.
func (s Settings) Bool(key string) bool {
	v, ok := s[key]
	if !ok {
		return false
	}
	b, ok := v.(bool)
	if !ok {
		log.Printf("slicedata: setting %q has non-boolean value %v", key, v)
		return false
	}
	return b
}

// String returns a string value; anything else is empty.
func (s Settings) String(key string) string {
	v, ok := s[key]
	if !ok {
		return ""
	}
	str, ok := v.(string)
	if !ok {
		log.Printf("slicedata: setting %q has non-string value %v", key, v)
		return ""
	}
	return str
}

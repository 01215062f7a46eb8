// Package tree generates tree-shaped support structures for fused
// filament printing. Given the sliced layer outlines and overhang
// areas of a model, it seeds contact points under every overhang,
// drops them layer by layer towards the build plate while merging and
// steering branches around the model, and rasterizes the resulting
// forest into per-layer support polygons.
package tree

import (
	"log"
	"math"

	"github.com/chazu/xylem/pkg/geom"
	"github.com/chazu/xylem/pkg/slicedata"
)

// BuildPlateShape is the outline shape of the printable area.
type BuildPlateShape int

const (
	RectangularPlate BuildPlateShape = iota
	EllipticPlate
)

// AdhesionType is the platform adhesion helper printed around models.
type AdhesionType int

const (
	AdhesionNone AdhesionType = iota
	AdhesionSkirt
	AdhesionBrim
	AdhesionRaft
)

// unboundedMove stands in for an unlimited per-layer move when the
// support angle reaches 90 degrees. Large enough to cross any build
// volume, small enough that squaring a coordinate difference against
// it stays exact.
const unboundedMove geom.Coord = math.MaxInt32

// TreeParams is the immutable configuration snapshot for one
// generation run.
type TreeParams struct {
	BranchRadius           geom.Coord
	RadiusSampleResolution geom.Coord
	LayerHeight            geom.Coord
	XYDistance             geom.Coord
	MaxMove                geom.Coord
	RadiusIncrement        geom.Coord
	PointSpread            geom.Coord
	ZGap                   geom.Coord
	SupportRoofLayers      int
	SupportAngle           float64
	CanSupportOnModel      bool
	BuildPlate             BuildPlateShape
	Adhesion               AdhesionType
	BrimSize               geom.Coord
	RaftMargin             geom.Coord
	SkirtSize              geom.Coord
	LineWidth              geom.Coord
	WallCount              int

	BottomEnable        bool
	BottomDistance      geom.Coord
	BottomHeight        geom.Coord
	InterfaceSkipHeight geom.Coord
}

// ParamsFromSettings builds a TreeParams from the recognized keys of a
// mesh-group settings map. Unknown enum values are logged and fall back
// to their zero choice.
func ParamsFromSettings(s slicedata.Settings) TreeParams {
	p := TreeParams{
		BranchRadius:           s.Coord("support_tree_branch_diameter") / 2,
		RadiusSampleResolution: s.Coord("support_tree_collision_resolution"),
		LayerHeight:            s.Coord("layer_height"),
		XYDistance:             s.Coord("support_xy_distance"),
		PointSpread:            s.Coord("support_tree_branch_distance"),
		ZGap:                   s.Coord("support_top_distance"),
		SupportAngle:           s.Angle("support_angle"),
		LineWidth:              s.Coord("support_line_width"),
		WallCount:              s.Int("support_tree_wall_count"),
		RaftMargin:             s.Coord("raft_margin"),
		BottomEnable:           s.Bool("support_bottom_enable"),
		BottomDistance:         s.Coord("support_bottom_distance"),
		BottomHeight:           s.Coord("support_bottom_height"),
		InterfaceSkipHeight:    s.Coord("support_interface_skip_height"),
	}

	angle := s.Angle("support_tree_angle")
	if angle < math.Pi/2 {
		p.MaxMove = geom.Coord(math.Round(math.Tan(angle) * float64(p.LayerHeight)))
	} else {
		p.MaxMove = unboundedMove
	}
	p.RadiusIncrement = geom.Coord(math.Tan(s.Angle("support_tree_branch_diameter_angle")) * float64(p.LayerHeight))

	if s.Bool("support_roof_enable") {
		p.SupportRoofLayers = roundDivide(s.Coord("support_roof_height"), p.LayerHeight)
	}

	p.CanSupportOnModel = s.String("support_type") == "everywhere"

	switch shape := s.String("machine_shape"); shape {
	case "elliptic":
		p.BuildPlate = EllipticPlate
	case "rectangular", "":
		p.BuildPlate = RectangularPlate
	default:
		log.Printf("tree: unknown machine shape %q, assuming rectangular", shape)
		p.BuildPlate = RectangularPlate
	}

	switch adhesion := s.String("adhesion_type"); adhesion {
	case "skirt":
		p.Adhesion = AdhesionSkirt
	case "brim":
		p.Adhesion = AdhesionBrim
	case "raft":
		p.Adhesion = AdhesionRaft
	case "none", "":
		p.Adhesion = AdhesionNone
	default:
		log.Printf("tree: unknown adhesion type %q, assuming none", adhesion)
		p.Adhesion = AdhesionNone
	}

	firstLayerFactor := s.Float("initial_layer_line_width_factor")
	adhesionLine := geom.Coord(float64(s.Coord("skirt_brim_line_width")) * firstLayerFactor)
	p.BrimSize = adhesionLine * geom.Coord(s.Int("brim_line_count"))
	p.SkirtSize = s.Coord("skirt_gap") + adhesionLine*geom.Coord(s.Int("skirt_line_count"))

	return p
}

// AdhesionReserve returns the margin kept free around the printable
// area for the configured platform adhesion.
func (p TreeParams) AdhesionReserve() geom.Coord {
	switch p.Adhesion {
	case AdhesionBrim:
		return p.BrimSize
	case AdhesionRaft:
		return p.RaftMargin
	case AdhesionSkirt:
		return p.SkirtSize
	default:
		return 0
	}
}

// RadiusBucket quantizes a branch radius to its cache bucket.
func (p TreeParams) RadiusBucket(radius geom.Coord) int {
	if p.RadiusSampleResolution <= 0 {
		return 0
	}
	return int(math.Round(float64(radius) / float64(p.RadiusSampleResolution)))
}

// BucketRadius returns the radius represented by a cache bucket.
func (p TreeParams) BucketRadius(bucket int) geom.Coord {
	return geom.Coord(bucket) * p.RadiusSampleResolution
}

// MaxBucket returns the highest cache bucket a forest spanning the
// given number of layers can need.
func (p TreeParams) MaxBucket(layers int) int {
	return p.RadiusBucket(p.BranchRadius + geom.Coord(layers)*p.RadiusIncrement)
}

// TipLayers returns the number of layers over which a fresh branch is
// tapered from a line into a full circle.
func (p TreeParams) TipLayers() int {
	if p.LayerHeight <= 0 {
		return 0
	}
	return int(p.BranchRadius / p.LayerHeight)
}

// ZGapLayers returns the number of layers a contact sits below its
// overhang: the configured gap rounded up, plus the mandatory one
// layer.
func (p TreeParams) ZGapLayers() int {
	return roundUpDivide(p.ZGap, p.LayerHeight) + 1
}

// HalfOverhangDistance returns half the horizontal distance one layer
// of overhang may protrude at the configured support angle.
func (p TreeParams) HalfOverhangDistance() geom.Coord {
	return geom.Coord(math.Tan(p.SupportAngle) * float64(p.LayerHeight) / 2)
}

func roundUpDivide(a, b geom.Coord) int {
	if b <= 0 {
		return 0
	}
	return int((a + b - 1) / b)
}

func roundDivide(a, b geom.Coord) int {
	if b <= 0 {
		return 0
	}
	return int((a + b/2) / b)
}

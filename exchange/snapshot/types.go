package snapshot

import (
	"time"

	"github.com/google/uuid"
	"github.com/tazee/ModoClipboard/exchange/math"
)

// CurrentSchemaVersion is the version written into every encoded payload.
// Decoding accepts only versions this build knows about.
const CurrentSchemaVersion = 1

// Names with reserved interchange semantics. A `_Freestyle` edge selection
// set carries Freestyle edge marks; a `_Seam` edge selection set carries UV
// seams.
const (
	FreestyleSetName = "_Freestyle"
	SeamSetName      = "_Seam"
)

// PolygonOrigin records whether a polygon survived extraction as authored or
// is a triangle produced by keyhole decomposition of an irregular polygon.
type PolygonOrigin uint8

const (
	OriginRegular PolygonOrigin = iota
	OriginTriangulated
)

/**
 * @brief A single vertex. Its id is its index in MeshSnapshot.Vertices;
 * ids are dense, 0-based and stable within one snapshot.
 */
type Vertex struct {
	Position math.Vec3
}

/**
 * @brief A polygon as an ordered, non-repeating loop of vertex ids.
 * Material is nil when the polygon carries no material binding.
 */
type Polygon struct {
	Vertices    []int
	Material    *int
	Subdivision bool
	Origin      PolygonOrigin
}

// MorphKind distinguishes per-vertex deltas from absolute target positions.
type MorphKind uint8

const (
	MorphRelative MorphKind = iota
	MorphAbsolute
)

// Morph is a named shapekey. Offsets maps vertex id to a positional delta
// (relative) or target position (absolute); vertices outside the map are
// unaffected by the morph.
type Morph struct {
	Name    string
	Kind    MorphKind
	Offsets map[int]math.Vec3
}

// WeightMap maps vertex id to a weight in [0.0, 1.0].
type WeightMap struct {
	Name    string
	Weights map[int]float64
}

// Edge is an unordered vertex pair. Always construct through NewEdge so the
// endpoints are stored in normalized order and map lookups work both ways.
type Edge struct {
	A, B int
}

func NewEdge(a, b int) Edge {
	if b < a {
		a, b = b, a
	}
	return Edge{A: a, B: b}
}

// SubdivisionWeightMap holds per-edge crease weights in [0.0, 1.0].
type SubdivisionWeightMap struct {
	Creases map[Edge]float64
}

/**
 * @brief A material referenced by polygons through its index in
 * MeshSnapshot.Materials. Texture is a file path carried verbatim; it is
 * never checked for existence.
 */
type Material struct {
	Name    string
	Diffuse math.Color
	Texture string
}

// FaceCorner addresses one corner of one polygon: Corner indexes into the
// polygon's vertex loop. UV and colour data live on this domain so adjacent
// polygons can disagree along a seam.
type FaceCorner struct {
	Polygon, Corner int
}

// UVMap maps face corners to 2D texture coordinates. Exactly one UV map in a
// snapshot should be Primary.
type UVMap struct {
	Name    string
	Primary bool
	Faces   map[FaceCorner]math.Vec2
}

// ColorKind tells whether a colour map carries alpha.
type ColorKind uint8

const (
	ColorRGB ColorKind = iota
	ColorRGBA
)

// ColorMap maps face corners to colours. Always face-corner domain.
type ColorMap struct {
	Name  string
	Kind  ColorKind
	Faces map[FaceCorner]math.Color
}

// ElementKind is the element domain of a selection set.
type ElementKind uint8

const (
	ElementVertex ElementKind = iota
	ElementEdge
	ElementPolygon
)

// SelectionSet is a named persistent grouping of vertices, edges or
// polygons. Exactly one of the three element slices is populated, matching
// Kind.
type SelectionSet struct {
	Name     string
	Kind     ElementKind
	Vertices []int
	Edges    []Edge
	Polygons []int
}

// Metadata is informational except for UnitScale, which is multiplied into
// positions and morph vectors on import.
type Metadata struct {
	SourceApp  string
	SnapshotID string
	UnitScale  float64
	Timestamp  string
}

/**
 * @brief The interchange IR: a fully self-contained value describing one
 * mesh selection. It owns every contained entity and holds no references
 * back into either host; it is created per copy, serialized, rebuilt per
 * paste and then discarded.
 */
type MeshSnapshot struct {
	SchemaVersion int
	Convention    math.Convention
	Name          string
	Meta          Metadata
	Vertices      []Vertex
	Polygons      []Polygon
	Materials     []Material
	UVMaps        []UVMap
	ColorMaps     []ColorMap
	WeightMaps    []WeightMap
	Morphs        []Morph
	Creases       SubdivisionWeightMap
	SelectionSets []SelectionSet
}

// New returns an empty snapshot stamped with the current schema version,
// the given convention and fresh metadata.
func New(name string, sourceApp string, convention math.Convention) *MeshSnapshot {
	return &MeshSnapshot{
		SchemaVersion: CurrentSchemaVersion,
		Convention:    convention,
		Name:          name,
		Meta: Metadata{
			SourceApp:  sourceApp,
			SnapshotID: uuid.New().String(),
			UnitScale:  1.0,
			Timestamp:  time.Now().UTC().Format(time.RFC3339),
		},
		Creases: SubdivisionWeightMap{Creases: map[Edge]float64{}},
	}
}

// SelectionSetByName returns the selection set with the given name and kind,
// or nil. Matching is case-sensitive.
func (ms *MeshSnapshot) SelectionSetByName(name string, kind ElementKind) *SelectionSet {
	for i := range ms.SelectionSets {
		s := &ms.SelectionSets[i]
		if s.Name == name && s.Kind == kind {
			return s
		}
	}
	return nil
}

// FreestyleSet returns the `_Freestyle` edge selection set, or nil.
func (ms *MeshSnapshot) FreestyleSet() *SelectionSet {
	return ms.SelectionSetByName(FreestyleSetName, ElementEdge)
}

// SeamSet returns the edge selection set eligible for seam export: the one
// named `_Seam`.
func (ms *MeshSnapshot) SeamSet() *SelectionSet {
	return ms.SelectionSetByName(SeamSetName, ElementEdge)
}

// UnitScale returns the metadata unit scale, defaulting to 1 when a payload
// predates the field or carries garbage.
func (ms *MeshSnapshot) UnitScale() float64 {
	if ms.Meta.UnitScale <= 0 {
		return 1.0
	}
	return ms.Meta.UnitScale
}

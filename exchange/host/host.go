/*
Package host declares the narrow contracts a host application has to satisfy
for the exchange to read its selection and write geometry back. The engine
never holds a handle across calls; handles are only meaningful to the host
that issued them.
*/
package host

import (
	"github.com/tazee/ModoClipboard/exchange/math"
)

// VertexHandle and PolygonHandle are host-native element identifiers. The
// engine treats them as opaque tokens.
type VertexHandle int

type PolygonHandle int

// PolygonKind is the primitive type of a host polygon. Only faces and
// subdivision-surface patches are eligible for exchange; every other kind is
// skipped during extraction.
type PolygonKind uint8

const (
	PolygonFace PolygonKind = iota
	PolygonSubdiv
	PolygonCurve
	PolygonOther
)

// ChannelKind enumerates the named per-element data channels a mesh carries.
type ChannelKind uint8

const (
	ChannelUV ChannelKind = iota
	ChannelColor
	ChannelWeight
	ChannelMorph
	ChannelSelectionSet
)

// Material is the host-side view of a material: enough to reconcile by name
// and to carry shading values across.
type Material struct {
	Name    string
	Diffuse math.Color
	Texture string
}

// UVSample, ColorSample and similar carry channel data keyed by the host's
// own handles during extraction.
type UVSample struct {
	Polygon PolygonHandle
	Corner  int
	Value   math.Vec2
}

type ColorSample struct {
	Polygon  PolygonHandle
	Corner   int
	Value    math.Color
	HasAlpha bool
}

type MorphSample struct {
	Vertex   VertexHandle
	Value    math.Vec3
	Relative bool
}

// SelectionSetData is a host selection set. For edge sets the Edges slice is
// used, otherwise Vertices or Polygons depending on Kind.
type SelectionSetData struct {
	Name     string
	Kind     string // "vertex", "edge" or "polygon"
	Vertices []VertexHandle
	Edges    [][2]VertexHandle
	Polygons []PolygonHandle
}

/**
 * @brief Read side of the host contract, consumed by the extractor.
 */
type MeshReader interface {
	Name() string

	Polygons() []PolygonHandle
	SelectedPolygons() []PolygonHandle
	PolygonKindOf(p PolygonHandle) PolygonKind
	PolygonVertices(p PolygonHandle) []VertexHandle
	// PolygonMaterial returns the name of the material assigned to the
	// polygon, or "" when it has none.
	PolygonMaterial(p PolygonHandle) string

	VertexPosition(v VertexHandle) math.Vec3

	Materials() []Material
	UVMapNames() (names []string, primary string)
	UVSamples(name string) []UVSample
	ColorMapNames() []string
	ColorSamples(name string) []ColorSample
	WeightMapNames() []string
	WeightSamples(name string) map[VertexHandle]float64
	MorphNames() []string
	MorphSamples(name string) []MorphSample
	CreaseWeights() map[[2]VertexHandle]float64
	SelectionSets() []SelectionSetData
}

/**
 * @brief Write side of the host contract, used by the merge engine.
 * Mutations are expected to be applied synchronously; the engine performs
 * no mutation at all when an earlier stage failed.
 */
type MeshWriter interface {
	Name() string

	CreateVertex(pos math.Vec3) VertexHandle
	CreatePolygon(verts []VertexHandle, material string, subdivision bool) PolygonHandle
	DeletePolygons(handles []PolygonHandle)
	// Clear discards all geometry and channel data; used by New Mesh from
	// Clipboard before the append pass.
	Clear()

	Materials() []Material
	// SetMaterial creates the named material or overwrites the shading
	// values of an existing one with the same name.
	SetMaterial(m Material)

	SetUV(name string, primary bool, p PolygonHandle, corner int, value math.Vec2)
	SetColor(name string, hasAlpha bool, p PolygonHandle, corner int, value math.Color)
	SetWeight(name string, v VertexHandle, value float64)
	// SetMorph records a morph sample; relative selects a delta map, absolute
	// a spot map. Same-name samples written in one paste replace whatever the
	// morph previously held for those vertices.
	SetMorph(name string, relative bool, v VertexHandle, value math.Vec3)
	ClearMorph(name string, relative bool)
	// SetCrease assigns a subdivision crease weight to the edge between two
	// existing vertices. Returns false when the mesh has no such edge.
	SetCrease(a, b VertexHandle, weight float64) bool
	SetEdgeSeam(a, b VertexHandle) bool

	ReplaceSelectionSet(set SelectionSetData)
	MergeSelectionSet(set SelectionSetData)
}

// Mesh is a host mesh that supports both directions.
type Mesh interface {
	MeshReader
	MeshWriter
}

// Scene creates mesh items; needed by New Mesh from Clipboard when the host
// has no target item at all.
type Scene interface {
	ActiveMesh() Mesh
	CreateMesh(name string) Mesh
}

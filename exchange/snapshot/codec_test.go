package snapshot_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tazee/ModoClipboard/exchange/core"
	"github.com/tazee/ModoClipboard/exchange/math"
	"github.com/tazee/ModoClipboard/exchange/snapshot"
)

func intPtr(i int) *int { return &i }

// fullSnapshot builds a snapshot exercising every entity kind: a quad and a
// triangle, two materials, UV/colour/weight/morph data, a crease, and the
// reserved edge sets.
func fullSnapshot() *snapshot.MeshSnapshot {
	ms := snapshot.New("Cube", "Modo", math.ConventionRHYup)
	ms.Vertices = []snapshot.Vertex{
		{Position: math.Vec3{X: 0, Y: 0, Z: 0}},
		{Position: math.Vec3{X: 1, Y: 0, Z: 0}},
		{Position: math.Vec3{X: 1, Y: 1, Z: 0}},
		{Position: math.Vec3{X: 0, Y: 1, Z: 0}},
		{Position: math.Vec3{X: 0.5, Y: 0.5, Z: 1}},
	}
	ms.Polygons = []snapshot.Polygon{
		{Vertices: []int{0, 1, 2, 3}, Material: intPtr(0), Subdivision: true},
		{Vertices: []int{0, 1, 4}, Material: intPtr(1), Origin: snapshot.OriginTriangulated},
	}
	ms.Materials = []snapshot.Material{
		{Name: "Skin", Diffuse: math.Color{R: 0.8, G: 0.6, B: 0.5, A: 1}, Texture: "textures/skin_d.png"},
		{Name: "Hair", Diffuse: math.Color{R: 0.2, G: 0.1, B: 0.05, A: 1}},
	}
	ms.UVMaps = []snapshot.UVMap{{
		Name:    "Texture",
		Primary: true,
		Faces: map[snapshot.FaceCorner]math.Vec2{
			{Polygon: 0, Corner: 0}: {U: 0, V: 0},
			{Polygon: 0, Corner: 1}: {U: 1, V: 0},
			{Polygon: 0, Corner: 2}: {U: 1, V: 1},
			{Polygon: 0, Corner: 3}: {U: 0, V: 1},
			{Polygon: 1, Corner: 0}: {U: 0.5, V: 0.5},
		},
	}}
	ms.ColorMaps = []snapshot.ColorMap{{
		Name: "Bake",
		Kind: snapshot.ColorRGBA,
		Faces: map[snapshot.FaceCorner]math.Color{
			{Polygon: 0, Corner: 0}: {R: 1, G: 0, B: 0, A: 0.5},
			{Polygon: 1, Corner: 2}: {R: 0, G: 1, B: 0, A: 1},
		},
	}}
	ms.WeightMaps = []snapshot.WeightMap{{
		Name:    "Soft",
		Weights: map[int]float64{0: 0.0, 2: 0.25, 4: 1.0},
	}}
	ms.Morphs = []snapshot.Morph{{
		Name: "Puff",
		Kind: snapshot.MorphRelative,
		Offsets: map[int]math.Vec3{
			2: {X: 0, Y: 0.25, Z: 0},
			4: {X: 0, Y: 0.5, Z: 0},
		},
	}}
	ms.Creases.Creases[snapshot.NewEdge(2, 1)] = 0.9
	ms.SelectionSets = []snapshot.SelectionSet{
		{Name: "TopLoop", Kind: snapshot.ElementVertex, Vertices: []int{2, 3}},
		{Name: "_Freestyle", Kind: snapshot.ElementEdge, Edges: []snapshot.Edge{snapshot.NewEdge(0, 1)}},
		{Name: "_Seam", Kind: snapshot.ElementEdge, Edges: []snapshot.Edge{snapshot.NewEdge(1, 2)}},
		{Name: "Caps", Kind: snapshot.ElementPolygon, Polygons: []int{1}},
	}
	return ms
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	ms := fullSnapshot()

	text, err := snapshot.Encode(ms)
	require.NoError(t, err)

	decoded, err := snapshot.Decode(text)
	require.NoError(t, err)
	assert.Equal(t, ms, decoded)

	// Encoding is deterministic, so a second trip reproduces the text.
	again, err := snapshot.Encode(decoded)
	require.NoError(t, err)
	assert.Equal(t, text, again)
}

func TestDecodePositionsWithinTolerance(t *testing.T) {
	ms := snapshot.New("P", "Modo", math.ConventionRHYup)
	ms.Vertices = []snapshot.Vertex{
		{Position: math.Vec3{X: 0.1234567891234, Y: -98765.4321, Z: 1e-7}},
		{Position: math.Vec3{X: 1, Y: 2, Z: 3}},
		{Position: math.Vec3{X: -1, Y: -2, Z: -3}},
	}
	ms.Polygons = []snapshot.Polygon{{Vertices: []int{0, 1, 2}}}

	text, err := snapshot.Encode(ms)
	require.NoError(t, err)
	decoded, err := snapshot.Decode(text)
	require.NoError(t, err)

	for i := range ms.Vertices {
		assert.True(t, ms.Vertices[i].Position.Compare(decoded.Vertices[i].Position, math.K_FLOAT_EPSILON))
	}
}

func TestDecodeRejectsUnsupportedVersion(t *testing.T) {
	ms := fullSnapshot()
	text, err := snapshot.Encode(ms)
	require.NoError(t, err)

	future := strings.Replace(text, `"schemaVersion": 1`, `"schemaVersion": 99`, 1)
	decoded, err := snapshot.Decode(future)
	assert.Nil(t, decoded)
	assert.ErrorIs(t, err, core.ErrUnsupportedVersion)
}

func TestDecodeRejectsOutOfRangePolygonVertex(t *testing.T) {
	text := `{
		"schemaVersion": 1,
		"coordinateConvention": "RH_Yup",
		"vertices": [[0,0,0],[1,0,0],[0,1,0]],
		"polygons": [{"vertices": [0, 1, 3]}]
	}`
	decoded, err := snapshot.Decode(text)
	assert.Nil(t, decoded)
	assert.ErrorIs(t, err, core.ErrMalformedReference)
}

func TestDecodeRejectsRepeatedPolygonVertex(t *testing.T) {
	text := `{
		"schemaVersion": 1,
		"coordinateConvention": "RH_Yup",
		"vertices": [[0,0,0],[1,0,0],[0,1,0]],
		"polygons": [{"vertices": [0, 1, 1]}]
	}`
	_, err := snapshot.Decode(text)
	assert.ErrorIs(t, err, core.ErrMalformedReference)
}

func TestDecodeRejectsBadChannelReferences(t *testing.T) {
	header := `{
		"schemaVersion": 1,
		"coordinateConvention": "RH_Yup",
		"vertices": [[0,0,0],[1,0,0],[0,1,0]],
		"polygons": [{"vertices": [0, 1, 2]}],`

	cases := map[string]string{
		"uv polygon out of range": `
			"uvMaps": [{"name": "T", "faces": [{"polygon": 5, "values": [[0,0]]}]}]}`,
		"uv corner out of range": `
			"uvMaps": [{"name": "T", "faces": [{"polygon": 0, "values": [[0,0],[0,0],[0,0],[0,0]]}]}]}`,
		"color polygon out of range": `
			"colorMaps": [{"name": "C", "kind": "RGB", "faces": [{"polygon": -1, "values": [[1,0,0,1]]}]}]}`,
		"weight vertex out of range": `
			"weightMaps": [{"name": "W", "weights": [{"vertex": 9, "value": 0.5}]}]}`,
		"morph vertex out of range": `
			"morphs": [{"name": "M", "kind": "relative", "offsets": [{"vertex": 3, "value": [0,1,0]}]}]}`,
		"crease vertex out of range": `
			"subdivisionWeights": [{"vertices": [0, 7], "weight": 1.0}]}`,
		"selection vertex out of range": `
			"selectionSets": [{"name": "S", "kind": "vertex", "vertices": [4]}]}`,
		"selection edge degenerate": `
			"selectionSets": [{"name": "S", "kind": "edge", "edges": [[1, 1]]}]}`,
	}
	for name, tail := range cases {
		t.Run(name, func(t *testing.T) {
			decoded, err := snapshot.Decode(header + tail)
			assert.Nil(t, decoded)
			assert.ErrorIs(t, err, core.ErrMalformedReference)
		})
	}
}

func TestDecodeIgnoresUnknownTopLevelFields(t *testing.T) {
	text := `{
		"schemaVersion": 1,
		"coordinateConvention": "LH_Zup",
		"futureExtension": {"nested": [1, 2, 3]},
		"vertices": [[0,0,0],[1,0,0],[0,1,0]],
		"polygons": [{"vertices": [0, 1, 2]}]
	}`
	decoded, err := snapshot.Decode(text)
	require.NoError(t, err)
	assert.Equal(t, math.ConventionLHZup, decoded.Convention)
	assert.Len(t, decoded.Polygons, 1)
}

func TestDecodeDefaultsMissingFieldsToEmpty(t *testing.T) {
	text := `{
		"schemaVersion": 1,
		"coordinateConvention": "RH_Yup",
		"vertices": [[0,0,0],[1,0,0],[0,1,0]],
		"polygons": [{"vertices": [0, 1, 2]}]
	}`
	decoded, err := snapshot.Decode(text)
	require.NoError(t, err)
	assert.Empty(t, decoded.Materials)
	assert.Empty(t, decoded.UVMaps)
	assert.Empty(t, decoded.WeightMaps)
	assert.Empty(t, decoded.Morphs)
	assert.Empty(t, decoded.Creases.Creases)
	assert.Empty(t, decoded.SelectionSets)
	assert.Equal(t, 1.0, decoded.UnitScale())
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := snapshot.Decode("not json at all")
	assert.Error(t, err)

	_, err = snapshot.Decode(`{"schemaVersion": 1, "coordinateConvention": "sideways"}`)
	assert.Error(t, err)
}

func TestDecodeClampsWeights(t *testing.T) {
	text := `{
		"schemaVersion": 1,
		"coordinateConvention": "RH_Yup",
		"vertices": [[0,0,0],[1,0,0],[0,1,0]],
		"polygons": [{"vertices": [0, 1, 2]}],
		"weightMaps": [{"name": "W", "weights": [{"vertex": 0, "value": 1.5}, {"vertex": 1, "value": -0.5}]}]
	}`
	decoded, err := snapshot.Decode(text)
	require.NoError(t, err)
	assert.Equal(t, 1.0, decoded.WeightMaps[0].Weights[0])
	assert.Equal(t, 0.0, decoded.WeightMaps[0].Weights[1])
}

func TestEdgeNormalization(t *testing.T) {
	assert.Equal(t, snapshot.NewEdge(1, 2), snapshot.NewEdge(2, 1))
}

func TestReservedSetLookups(t *testing.T) {
	ms := fullSnapshot()
	require.NotNil(t, ms.FreestyleSet())
	assert.Equal(t, snapshot.FreestyleSetName, ms.FreestyleSet().Name)
	require.NotNil(t, ms.SeamSet())

	// Lookup is case-sensitive by design.
	assert.Nil(t, ms.SelectionSetByName("_freestyle", snapshot.ElementEdge))
}

package snapshot

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/tazee/ModoClipboard/exchange/core"
	"github.com/tazee/ModoClipboard/exchange/math"
)

// Wire-level payload. Field names are the interchange contract; unknown
// top-level fields in an incoming payload are ignored and known fields
// missing from an older payload decode to their zero values.
type payload struct {
	SchemaVersion        int               `json:"schemaVersion"`
	CoordinateConvention string            `json:"coordinateConvention"`
	Name                 string            `json:"name,omitempty"`
	Metadata             *payloadMetadata  `json:"metadata,omitempty"`
	Vertices             [][3]float64      `json:"vertices"`
	Polygons             []payloadPolygon  `json:"polygons"`
	Materials            []payloadMaterial `json:"materials,omitempty"`
	UVMaps               []payloadUVMap    `json:"uvMaps,omitempty"`
	ColorMaps            []payloadColorMap `json:"colorMaps,omitempty"`
	WeightMaps           []payloadWeights  `json:"weightMaps,omitempty"`
	Morphs               []payloadMorph    `json:"morphs,omitempty"`
	SubdivisionWeights   []payloadCrease   `json:"subdivisionWeights,omitempty"`
	SelectionSets        []payloadSelSet   `json:"selectionSets,omitempty"`
}

type payloadMetadata struct {
	SourceApp  string  `json:"sourceApp,omitempty"`
	SnapshotID string  `json:"snapshotId,omitempty"`
	UnitScale  float64 `json:"unitScale,omitempty"`
	Timestamp  string  `json:"timestamp,omitempty"`
}

type payloadPolygon struct {
	Vertices    []int  `json:"vertices"`
	Material    *int   `json:"material,omitempty"`
	Subdivision bool   `json:"subdivision,omitempty"`
	Origin      string `json:"origin,omitempty"`
}

type payloadMaterial struct {
	Name    string     `json:"name"`
	Diffuse [3]float64 `json:"diffuse"`
	Texture string     `json:"texture,omitempty"`
}

// Face-corner maps are grouped per polygon; Values is corner-indexed with
// null entries for corners the map does not cover.
type payloadFaceUVs struct {
	Polygon int           `json:"polygon"`
	Values  []*[2]float64 `json:"values"`
}

type payloadUVMap struct {
	Name    string           `json:"name"`
	Primary bool             `json:"primary,omitempty"`
	Faces   []payloadFaceUVs `json:"faces"`
}

type payloadFaceColors struct {
	Polygon int           `json:"polygon"`
	Values  []*[4]float64 `json:"values"`
}

type payloadColorMap struct {
	Name  string              `json:"name"`
	Kind  string              `json:"kind"`
	Faces []payloadFaceColors `json:"faces"`
}

type payloadWeight struct {
	Vertex int     `json:"vertex"`
	Value  float64 `json:"value"`
}

type payloadWeights struct {
	Name    string          `json:"name"`
	Weights []payloadWeight `json:"weights"`
}

type payloadOffset struct {
	Vertex int        `json:"vertex"`
	Value  [3]float64 `json:"value"`
}

type payloadMorph struct {
	Name    string          `json:"name"`
	Kind    string          `json:"kind"`
	Offsets []payloadOffset `json:"offsets"`
}

type payloadCrease struct {
	Vertices [2]int  `json:"vertices"`
	Weight   float64 `json:"weight"`
}

type payloadSelSet struct {
	Name     string   `json:"name"`
	Kind     string   `json:"kind"`
	Vertices []int    `json:"vertices,omitempty"`
	Edges    [][2]int `json:"edges,omitempty"`
	Polygons []int    `json:"polygons,omitempty"`
}

const (
	originTriangulated = "triangulatedFromIrregular"
	kindRelative       = "relative"
	kindAbsolute       = "absolute"
	kindRGB            = "RGB"
	kindRGBA           = "RGBA"
	kindVertex         = "vertex"
	kindEdge           = "edge"
	kindPolygon        = "polygon"
)

/**
 * @brief Serializes a snapshot to the UTF-8 JSON interchange text.
 *
 * Sequences with no inherent order (weights, morph offsets, face-corner
 * groups, creases) are sorted by element id so that encoding the same
 * snapshot twice yields the same text.
 */
func Encode(ms *MeshSnapshot) (string, error) {
	p := payload{
		SchemaVersion:        ms.SchemaVersion,
		CoordinateConvention: string(ms.Convention),
		Name:                 ms.Name,
		Vertices:             make([][3]float64, len(ms.Vertices)),
		Polygons:             make([]payloadPolygon, len(ms.Polygons)),
	}
	if ms.Meta != (Metadata{}) {
		p.Metadata = &payloadMetadata{
			SourceApp:  ms.Meta.SourceApp,
			SnapshotID: ms.Meta.SnapshotID,
			UnitScale:  ms.Meta.UnitScale,
			Timestamp:  ms.Meta.Timestamp,
		}
	}

	for i, v := range ms.Vertices {
		p.Vertices[i] = [3]float64{v.Position.X, v.Position.Y, v.Position.Z}
	}
	for i, poly := range ms.Polygons {
		pp := payloadPolygon{
			Vertices:    poly.Vertices,
			Material:    poly.Material,
			Subdivision: poly.Subdivision,
		}
		if poly.Origin == OriginTriangulated {
			pp.Origin = originTriangulated
		}
		p.Polygons[i] = pp
	}
	for _, mat := range ms.Materials {
		p.Materials = append(p.Materials, payloadMaterial{
			Name:    mat.Name,
			Diffuse: [3]float64{mat.Diffuse.R, mat.Diffuse.G, mat.Diffuse.B},
			Texture: mat.Texture,
		})
	}
	for _, uv := range ms.UVMaps {
		p.UVMaps = append(p.UVMaps, payloadUVMap{
			Name:    uv.Name,
			Primary: uv.Primary,
			Faces:   encodeFaceUVs(ms, uv.Faces),
		})
	}
	for _, cm := range ms.ColorMaps {
		kind := kindRGB
		if cm.Kind == ColorRGBA {
			kind = kindRGBA
		}
		p.ColorMaps = append(p.ColorMaps, payloadColorMap{
			Name:  cm.Name,
			Kind:  kind,
			Faces: encodeFaceColors(ms, cm.Faces),
		})
	}
	for _, wm := range ms.WeightMaps {
		p.WeightMaps = append(p.WeightMaps, payloadWeights{
			Name:    wm.Name,
			Weights: encodeWeights(wm.Weights),
		})
	}
	for _, morph := range ms.Morphs {
		kind := kindRelative
		if morph.Kind == MorphAbsolute {
			kind = kindAbsolute
		}
		p.Morphs = append(p.Morphs, payloadMorph{
			Name:    morph.Name,
			Kind:    kind,
			Offsets: encodeOffsets(morph.Offsets),
		})
	}
	p.SubdivisionWeights = encodeCreases(ms.Creases.Creases)
	for _, set := range ms.SelectionSets {
		ps := payloadSelSet{Name: set.Name}
		switch set.Kind {
		case ElementVertex:
			ps.Kind = kindVertex
			ps.Vertices = set.Vertices
		case ElementEdge:
			ps.Kind = kindEdge
			for _, e := range set.Edges {
				ps.Edges = append(ps.Edges, [2]int{e.A, e.B})
			}
		case ElementPolygon:
			ps.Kind = kindPolygon
			ps.Polygons = set.Polygons
		}
		p.SelectionSets = append(p.SelectionSets, ps)
	}

	out, err := json.MarshalIndent(&p, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return string(out), nil
}

func encodeFaceUVs(ms *MeshSnapshot, faces map[FaceCorner]math.Vec2) []payloadFaceUVs {
	grouped := map[int][]*[2]float64{}
	for fc, uv := range faces {
		values := grouped[fc.Polygon]
		if values == nil {
			values = make([]*[2]float64, len(ms.Polygons[fc.Polygon].Vertices))
		}
		values[fc.Corner] = &[2]float64{uv.U, uv.V}
		grouped[fc.Polygon] = values
	}
	out := make([]payloadFaceUVs, 0, len(grouped))
	for id, values := range grouped {
		out = append(out, payloadFaceUVs{Polygon: id, Values: values})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Polygon < out[j].Polygon })
	return out
}

func encodeFaceColors(ms *MeshSnapshot, faces map[FaceCorner]math.Color) []payloadFaceColors {
	grouped := map[int][]*[4]float64{}
	for fc, c := range faces {
		values := grouped[fc.Polygon]
		if values == nil {
			values = make([]*[4]float64, len(ms.Polygons[fc.Polygon].Vertices))
		}
		values[fc.Corner] = &[4]float64{c.R, c.G, c.B, c.A}
		grouped[fc.Polygon] = values
	}
	out := make([]payloadFaceColors, 0, len(grouped))
	for id, values := range grouped {
		out = append(out, payloadFaceColors{Polygon: id, Values: values})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Polygon < out[j].Polygon })
	return out
}

func encodeWeights(weights map[int]float64) []payloadWeight {
	out := make([]payloadWeight, 0, len(weights))
	for id, w := range weights {
		out = append(out, payloadWeight{Vertex: id, Value: w})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Vertex < out[j].Vertex })
	return out
}

func encodeOffsets(offsets map[int]math.Vec3) []payloadOffset {
	out := make([]payloadOffset, 0, len(offsets))
	for id, v := range offsets {
		out = append(out, payloadOffset{Vertex: id, Value: [3]float64{v.X, v.Y, v.Z}})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Vertex < out[j].Vertex })
	return out
}

func encodeCreases(creases map[Edge]float64) []payloadCrease {
	out := make([]payloadCrease, 0, len(creases))
	for e, w := range creases {
		out = append(out, payloadCrease{Vertices: [2]int{e.A, e.B}, Weight: w})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Vertices[0] != out[j].Vertices[0] {
			return out[i].Vertices[0] < out[j].Vertices[0]
		}
		return out[i].Vertices[1] < out[j].Vertices[1]
	})
	return out
}

/**
 * @brief Parses interchange text back into a snapshot, validating every
 * structural invariant. Decode never partially commits: on any failure the
 * returned snapshot is nil and the error tells which reference was bad.
 */
func Decode(text string) (*MeshSnapshot, error) {
	var p payload
	if err := json.Unmarshal([]byte(text), &p); err != nil {
		return nil, fmt.Errorf("payload is not valid JSON: %w", err)
	}

	if p.SchemaVersion != CurrentSchemaVersion {
		return nil, fmt.Errorf("%w: payload declares version %d, this build understands %d",
			core.ErrUnsupportedVersion, p.SchemaVersion, CurrentSchemaVersion)
	}
	convention, err := math.ParseConvention(p.CoordinateConvention)
	if err != nil {
		return nil, fmt.Errorf("payload rejected: %w", err)
	}

	ms := &MeshSnapshot{
		SchemaVersion: p.SchemaVersion,
		Convention:    convention,
		Name:          p.Name,
		Vertices:      make([]Vertex, len(p.Vertices)),
		Polygons:      make([]Polygon, 0, len(p.Polygons)),
		Creases:       SubdivisionWeightMap{Creases: map[Edge]float64{}},
	}
	if p.Metadata != nil {
		ms.Meta = Metadata{
			SourceApp:  p.Metadata.SourceApp,
			SnapshotID: p.Metadata.SnapshotID,
			UnitScale:  p.Metadata.UnitScale,
			Timestamp:  p.Metadata.Timestamp,
		}
	}

	vertexCount := len(p.Vertices)
	for i, v := range p.Vertices {
		ms.Vertices[i] = Vertex{Position: math.Vec3{X: v[0], Y: v[1], Z: v[2]}}
	}

	for i, pp := range p.Polygons {
		if len(pp.Vertices) < 3 {
			return nil, fmt.Errorf("%w: polygon %d has %d vertices, need at least 3",
				core.ErrMalformedReference, i, len(pp.Vertices))
		}
		seen := make(map[int]struct{}, len(pp.Vertices))
		for _, id := range pp.Vertices {
			if id < 0 || id >= vertexCount {
				return nil, fmt.Errorf("%w: polygon %d references vertex %d, snapshot has %d vertices",
					core.ErrMalformedReference, i, id, vertexCount)
			}
			if _, dup := seen[id]; dup {
				return nil, fmt.Errorf("%w: polygon %d repeats vertex %d",
					core.ErrMalformedReference, i, id)
			}
			seen[id] = struct{}{}
		}
		if pp.Material != nil && (*pp.Material < 0 || *pp.Material >= len(p.Materials)) {
			return nil, fmt.Errorf("%w: polygon %d references material %d, snapshot has %d materials",
				core.ErrMalformedReference, i, *pp.Material, len(p.Materials))
		}
		origin := OriginRegular
		if pp.Origin == originTriangulated {
			origin = OriginTriangulated
		}
		ms.Polygons = append(ms.Polygons, Polygon{
			Vertices:    pp.Vertices,
			Material:    pp.Material,
			Subdivision: pp.Subdivision,
			Origin:      origin,
		})
	}

	for _, pm := range p.Materials {
		ms.Materials = append(ms.Materials, Material{
			Name:    pm.Name,
			Diffuse: math.Color{R: pm.Diffuse[0], G: pm.Diffuse[1], B: pm.Diffuse[2], A: 1.0},
			Texture: pm.Texture,
		})
	}

	for _, pu := range p.UVMaps {
		faces := map[FaceCorner]math.Vec2{}
		for _, group := range pu.Faces {
			if err := ms.checkCorners(pu.Name, group.Polygon, len(group.Values)); err != nil {
				return nil, err
			}
			for corner, value := range group.Values {
				if value == nil {
					continue
				}
				faces[FaceCorner{Polygon: group.Polygon, Corner: corner}] = math.Vec2{U: value[0], V: value[1]}
			}
		}
		ms.UVMaps = append(ms.UVMaps, UVMap{Name: pu.Name, Primary: pu.Primary, Faces: faces})
	}

	for _, pc := range p.ColorMaps {
		kind := ColorRGB
		if pc.Kind == kindRGBA {
			kind = ColorRGBA
		}
		faces := map[FaceCorner]math.Color{}
		for _, group := range pc.Faces {
			if err := ms.checkCorners(pc.Name, group.Polygon, len(group.Values)); err != nil {
				return nil, err
			}
			for corner, value := range group.Values {
				if value == nil {
					continue
				}
				c := math.Color{R: value[0], G: value[1], B: value[2], A: value[3]}
				if kind == ColorRGB {
					c.A = 1.0
				}
				faces[FaceCorner{Polygon: group.Polygon, Corner: corner}] = c
			}
		}
		ms.ColorMaps = append(ms.ColorMaps, ColorMap{Name: pc.Name, Kind: kind, Faces: faces})
	}

	for _, pw := range p.WeightMaps {
		weights := map[int]float64{}
		for _, w := range pw.Weights {
			if w.Vertex < 0 || w.Vertex >= vertexCount {
				return nil, fmt.Errorf("%w: weight map %q references vertex %d, snapshot has %d vertices",
					core.ErrMalformedReference, pw.Name, w.Vertex, vertexCount)
			}
			weights[w.Vertex] = math.Clamp(w.Value, 0.0, 1.0)
		}
		ms.WeightMaps = append(ms.WeightMaps, WeightMap{Name: pw.Name, Weights: weights})
	}

	for _, pm := range p.Morphs {
		kind := MorphRelative
		if pm.Kind == kindAbsolute {
			kind = MorphAbsolute
		}
		offsets := map[int]math.Vec3{}
		for _, o := range pm.Offsets {
			if o.Vertex < 0 || o.Vertex >= vertexCount {
				return nil, fmt.Errorf("%w: morph %q references vertex %d, snapshot has %d vertices",
					core.ErrMalformedReference, pm.Name, o.Vertex, vertexCount)
			}
			offsets[o.Vertex] = math.Vec3{X: o.Value[0], Y: o.Value[1], Z: o.Value[2]}
		}
		ms.Morphs = append(ms.Morphs, Morph{Name: pm.Name, Kind: kind, Offsets: offsets})
	}

	for _, pc := range p.SubdivisionWeights {
		a, b := pc.Vertices[0], pc.Vertices[1]
		if a < 0 || a >= vertexCount || b < 0 || b >= vertexCount || a == b {
			return nil, fmt.Errorf("%w: crease edge (%d, %d) is not a valid vertex pair",
				core.ErrMalformedReference, a, b)
		}
		ms.Creases.Creases[NewEdge(a, b)] = math.Clamp(pc.Weight, 0.0, 1.0)
	}

	for _, ps := range p.SelectionSets {
		set := SelectionSet{Name: ps.Name}
		switch ps.Kind {
		case kindVertex:
			set.Kind = ElementVertex
			for _, id := range ps.Vertices {
				if id < 0 || id >= vertexCount {
					return nil, fmt.Errorf("%w: selection set %q references vertex %d, snapshot has %d vertices",
						core.ErrMalformedReference, ps.Name, id, vertexCount)
				}
				set.Vertices = append(set.Vertices, id)
			}
		case kindEdge:
			set.Kind = ElementEdge
			for _, e := range ps.Edges {
				if e[0] < 0 || e[0] >= vertexCount || e[1] < 0 || e[1] >= vertexCount || e[0] == e[1] {
					return nil, fmt.Errorf("%w: selection set %q edge (%d, %d) is not a valid vertex pair",
						core.ErrMalformedReference, ps.Name, e[0], e[1])
				}
				set.Edges = append(set.Edges, NewEdge(e[0], e[1]))
			}
		case kindPolygon:
			set.Kind = ElementPolygon
			for _, id := range ps.Polygons {
				if id < 0 || id >= len(ms.Polygons) {
					return nil, fmt.Errorf("%w: selection set %q references polygon %d, snapshot has %d polygons",
						core.ErrMalformedReference, ps.Name, id, len(ms.Polygons))
				}
				set.Polygons = append(set.Polygons, id)
			}
		default:
			return nil, fmt.Errorf("payload rejected: selection set %q has unknown kind %q", ps.Name, ps.Kind)
		}
		ms.SelectionSets = append(ms.SelectionSets, set)
	}

	return ms, nil
}

// checkCorners validates one face-corner group against the polygon it
// addresses: the polygon must exist and the corner-indexed value array must
// not be longer than the polygon's vertex loop.
func (ms *MeshSnapshot) checkCorners(mapName string, polygon, valueCount int) error {
	if polygon < 0 || polygon >= len(ms.Polygons) {
		return fmt.Errorf("%w: map %q references polygon %d, snapshot has %d polygons",
			core.ErrMalformedReference, mapName, polygon, len(ms.Polygons))
	}
	if valueCount > len(ms.Polygons[polygon].Vertices) {
		return fmt.Errorf("%w: map %q has %d corner values for polygon %d with %d corners",
			core.ErrMalformedReference, mapName, valueCount, polygon, len(ms.Polygons[polygon].Vertices))
	}
	return nil
}

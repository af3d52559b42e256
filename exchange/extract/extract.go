/*
Package extract reads a host mesh selection through the host contracts and
builds a self-contained snapshot from it. Extraction is best effort: host
data the exchange cannot represent is skipped and logged, never fatal.
*/
package extract

import (
	"github.com/tazee/ModoClipboard/exchange/core"
	"github.com/tazee/ModoClipboard/exchange/host"
	"github.com/tazee/ModoClipboard/exchange/math"
	"github.com/tazee/ModoClipboard/exchange/snapshot"
)

// Mode selects how much of the mesh a copy takes.
type Mode uint8

const (
	// SelectedPolygons restricts the snapshot to the host's polygon
	// selection and the vertices it references.
	SelectedPolygons Mode = iota
	// WholeMesh takes every eligible polygon.
	WholeMesh
)

/**
 * @brief The result of one extraction: the snapshot plus the bookkeeping a
 * Cut needs to know what to delete afterwards.
 */
type Extraction struct {
	Snapshot *snapshot.MeshSnapshot
	// SourcePolygons are the host handles the snapshot's polygons came
	// from, in extraction order. Cut deletes exactly these.
	SourcePolygons []host.PolygonHandle
	// VertexIDs maps host vertex handles to the dense snapshot ids.
	VertexIDs map[host.VertexHandle]int
}

// Extract builds a snapshot from the mesh. Positions stay in the host's
// convention; the snapshot records which one that is and the importer
// converts.
func Extract(mesh host.MeshReader, mode Mode, convention math.Convention, sourceApp string) *Extraction {
	ms := snapshot.New(mesh.Name(), sourceApp, convention)
	ex := &Extraction{
		Snapshot:  ms,
		VertexIDs: map[host.VertexHandle]int{},
	}

	var candidates []host.PolygonHandle
	if mode == SelectedPolygons {
		candidates = mesh.SelectedPolygons()
	} else {
		candidates = mesh.Polygons()
	}

	derivedByHandle := cornerMapping{}

	materialIndex := map[string]int{}
	hostMaterials := map[string]host.Material{}
	for _, mat := range mesh.Materials() {
		hostMaterials[mat.Name] = mat
	}

	bindMaterial := func(tag string) *int {
		if tag == "" {
			return nil
		}
		if idx, ok := materialIndex[tag]; ok {
			return &idx
		}
		mat, known := hostMaterials[tag]
		if !known {
			// Host polygon tagged with a material the host no longer lists.
			// Carry the name so it still reconciles on the other side.
			mat = host.Material{Name: tag, Diffuse: math.Color{R: 1, G: 1, B: 1, A: 1}}
			core.LogWarn("material %q is referenced but not defined by the host, exporting name only", tag)
		}
		idx := len(ms.Materials)
		ms.Materials = append(ms.Materials, snapshot.Material{
			Name:    mat.Name,
			Diffuse: mat.Diffuse,
			Texture: mat.Texture,
		})
		materialIndex[tag] = idx
		return &idx
	}

	vertexID := func(v host.VertexHandle) int {
		if id, ok := ex.VertexIDs[v]; ok {
			return id
		}
		id := len(ms.Vertices)
		ex.VertexIDs[v] = id
		ms.Vertices = append(ms.Vertices, snapshot.Vertex{Position: mesh.VertexPosition(v)})
		return id
	}

	for _, h := range candidates {
		kind := mesh.PolygonKindOf(h)
		if kind != host.PolygonFace && kind != host.PolygonSubdiv {
			core.LogDebug("skipping polygon %d: primitive kind %d is not exchangeable", h, kind)
			continue
		}
		loop := mesh.PolygonVertices(h)
		if len(loop) < 3 {
			core.LogDebug("skipping polygon %d: degenerate loop of %d vertices", h, len(loop))
			continue
		}

		ids := make([]int, len(loop))
		positions := make([]math.Vec3, len(loop))
		for i, v := range loop {
			ids[i] = vertexID(v)
			positions[i] = ms.Vertices[ids[i]].Position
		}

		material := bindMaterial(mesh.PolygonMaterial(h))
		subdiv := kind == host.PolygonSubdiv

		if IsRegular(positions) {
			derivedByHandle[h] = []derived{{
				polygon: len(ms.Polygons),
				corners: identityCorners(len(loop)),
			}}
			ms.Polygons = append(ms.Polygons, snapshot.Polygon{
				Vertices:    ids,
				Material:    material,
				Subdivision: subdiv,
				Origin:      snapshot.OriginRegular,
			})
		} else {
			// Keyhole case: one-way decomposition, the original loop is
			// not recoverable.
			core.LogDebug("polygon %d is irregular, triangulating %d corners", h, len(loop))
			for _, tri := range Triangulate(positions) {
				derivedByHandle[h] = append(derivedByHandle[h], derived{
					polygon: len(ms.Polygons),
					corners: []int{tri[0], tri[1], tri[2]},
				})
				ms.Polygons = append(ms.Polygons, snapshot.Polygon{
					Vertices:    []int{ids[tri[0]], ids[tri[1]], ids[tri[2]]},
					Material:    material,
					Subdivision: subdiv,
					Origin:      snapshot.OriginTriangulated,
				})
			}
		}
		ex.SourcePolygons = append(ex.SourcePolygons, h)
	}

	extractUVMaps(mesh, ms, derivedByHandle)
	extractColorMaps(mesh, ms, derivedByHandle)
	extractWeightMaps(mesh, ms, ex.VertexIDs)
	extractMorphs(mesh, ms, ex.VertexIDs)
	extractCreases(mesh, ms, ex.VertexIDs)
	extractSelectionSets(mesh, ms, ex.VertexIDs, derivedByHandle)

	return ex
}

func identityCorners(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// derived records one snapshot polygon produced from a source polygon and
// the mapping from its corners back to the source loop corners. Regular
// polygons map 1:1; triangulated ones fan out into several entries.
type derived struct {
	polygon int
	corners []int
}

type cornerMapping map[host.PolygonHandle][]derived

func extractUVMaps(mesh host.MeshReader, ms *snapshot.MeshSnapshot, derived cornerMapping) {
	names, primary := mesh.UVMapNames()
	for _, name := range names {
		uv := snapshot.UVMap{
			Name:    name,
			Primary: name == primary,
			Faces:   map[snapshot.FaceCorner]math.Vec2{},
		}
		for _, sample := range mesh.UVSamples(name) {
			for _, d := range derived[sample.Polygon] {
				for corner, source := range d.corners {
					if source == sample.Corner {
						uv.Faces[snapshot.FaceCorner{Polygon: d.polygon, Corner: corner}] = sample.Value
					}
				}
			}
		}
		if len(uv.Faces) == 0 {
			continue
		}
		ms.UVMaps = append(ms.UVMaps, uv)
	}
	// A snapshot with UV data always has a designated primary map.
	if len(ms.UVMaps) > 0 {
		hasPrimary := false
		for i := range ms.UVMaps {
			hasPrimary = hasPrimary || ms.UVMaps[i].Primary
		}
		if !hasPrimary {
			ms.UVMaps[0].Primary = true
		}
	}
}

func extractColorMaps(mesh host.MeshReader, ms *snapshot.MeshSnapshot, derived cornerMapping) {
	for _, name := range mesh.ColorMapNames() {
		cm := snapshot.ColorMap{
			Name:  name,
			Kind:  snapshot.ColorRGB,
			Faces: map[snapshot.FaceCorner]math.Color{},
		}
		for _, sample := range mesh.ColorSamples(name) {
			if sample.HasAlpha {
				cm.Kind = snapshot.ColorRGBA
			}
			for _, d := range derived[sample.Polygon] {
				for corner, source := range d.corners {
					if source == sample.Corner {
						cm.Faces[snapshot.FaceCorner{Polygon: d.polygon, Corner: corner}] = sample.Value
					}
				}
			}
		}
		if len(cm.Faces) == 0 {
			continue
		}
		ms.ColorMaps = append(ms.ColorMaps, cm)
	}
}

func extractWeightMaps(mesh host.MeshReader, ms *snapshot.MeshSnapshot, vertexIDs map[host.VertexHandle]int) {
	for _, name := range mesh.WeightMapNames() {
		wm := snapshot.WeightMap{Name: name, Weights: map[int]float64{}}
		for v, w := range mesh.WeightSamples(name) {
			id, ok := vertexIDs[v]
			if !ok {
				continue // outside the extracted subset, dropped silently
			}
			wm.Weights[id] = math.Clamp(w, 0.0, 1.0)
		}
		if len(wm.Weights) == 0 {
			continue
		}
		ms.WeightMaps = append(ms.WeightMaps, wm)
	}
}

func extractMorphs(mesh host.MeshReader, ms *snapshot.MeshSnapshot, vertexIDs map[host.VertexHandle]int) {
	for _, name := range mesh.MorphNames() {
		var morph *snapshot.Morph
		for _, sample := range mesh.MorphSamples(name) {
			id, ok := vertexIDs[sample.Vertex]
			if !ok {
				continue
			}
			if morph == nil {
				kind := snapshot.MorphAbsolute
				if sample.Relative {
					kind = snapshot.MorphRelative
				}
				morph = &snapshot.Morph{Name: name, Kind: kind, Offsets: map[int]math.Vec3{}}
			}
			morph.Offsets[id] = sample.Value
		}
		if morph != nil {
			ms.Morphs = append(ms.Morphs, *morph)
		}
	}
}

func extractCreases(mesh host.MeshReader, ms *snapshot.MeshSnapshot, vertexIDs map[host.VertexHandle]int) {
	for edge, w := range mesh.CreaseWeights() {
		a, okA := vertexIDs[edge[0]]
		b, okB := vertexIDs[edge[1]]
		if !okA || !okB {
			continue
		}
		ms.Creases.Creases[snapshot.NewEdge(a, b)] = math.Clamp(w, 0.0, 1.0)
	}
}

func extractSelectionSets(mesh host.MeshReader, ms *snapshot.MeshSnapshot, vertexIDs map[host.VertexHandle]int, derived cornerMapping) {
	for _, set := range mesh.SelectionSets() {
		out := snapshot.SelectionSet{Name: set.Name}
		switch set.Kind {
		case "vertex":
			out.Kind = snapshot.ElementVertex
			for _, v := range set.Vertices {
				if id, ok := vertexIDs[v]; ok {
					out.Vertices = append(out.Vertices, id)
				}
			}
			if len(out.Vertices) == 0 {
				continue
			}
		case "edge":
			out.Kind = snapshot.ElementEdge
			for _, e := range set.Edges {
				a, okA := vertexIDs[e[0]]
				b, okB := vertexIDs[e[1]]
				if okA && okB {
					out.Edges = append(out.Edges, snapshot.NewEdge(a, b))
				}
			}
			if len(out.Edges) == 0 {
				continue
			}
		case "polygon":
			out.Kind = snapshot.ElementPolygon
			for _, p := range set.Polygons {
				for _, d := range derived[p] {
					out.Polygons = append(out.Polygons, d.polygon)
				}
			}
			if len(out.Polygons) == 0 {
				continue
			}
		default:
			core.LogDebug("skipping selection set %q: unknown element kind %q", set.Name, set.Kind)
			continue
		}
		ms.SelectionSets = append(ms.SelectionSets, out)
	}
}

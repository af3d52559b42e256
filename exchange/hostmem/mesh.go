/*
Package hostmem is an in-memory implementation of the host contracts. It is
the reference implementation a real host port is written against, the mesh
used by the demo binary, and the double the engine tests run on.
*/
package hostmem

import (
	"sort"

	"github.com/tazee/ModoClipboard/exchange/host"
	"github.com/tazee/ModoClipboard/exchange/math"
)

type polygon struct {
	vertices    []host.VertexHandle
	kind        host.PolygonKind
	materialTag string
}

type uvMap struct {
	primary bool
	faces   map[host.PolygonHandle]map[int]math.Vec2
}

type colorMap struct {
	hasAlpha bool
	faces    map[host.PolygonHandle]map[int]math.Color
}

type morphMap struct {
	relative bool
	offsets  map[host.VertexHandle]math.Vec3
}

// Mesh is a mutable in-memory mesh item.
type Mesh struct {
	name string

	positions []math.Vec3

	polygons    map[host.PolygonHandle]*polygon
	polygonIDs  []host.PolygonHandle
	nextPolygon host.PolygonHandle

	selected map[host.PolygonHandle]bool

	materials []host.Material

	uvMaps    map[string]*uvMap
	colorMaps map[string]*colorMap
	weightMap map[string]map[host.VertexHandle]float64
	morphs    map[string]*morphMap
	creases   map[[2]host.VertexHandle]float64
	seams     map[[2]host.VertexHandle]bool
	selSets   map[string]host.SelectionSetData
	setOrder  []string
}

func NewMesh(name string) *Mesh {
	m := &Mesh{name: name}
	m.Clear()
	return m
}

func (m *Mesh) Name() string { return m.name }

// Clear resets the item to an empty mesh, dropping geometry and every
// channel.
func (m *Mesh) Clear() {
	m.positions = nil
	m.polygons = map[host.PolygonHandle]*polygon{}
	m.polygonIDs = nil
	m.nextPolygon = 0
	m.selected = map[host.PolygonHandle]bool{}
	m.materials = nil
	m.uvMaps = map[string]*uvMap{}
	m.colorMaps = map[string]*colorMap{}
	m.weightMap = map[string]map[host.VertexHandle]float64{}
	m.morphs = map[string]*morphMap{}
	m.creases = map[[2]host.VertexHandle]float64{}
	m.seams = map[[2]host.VertexHandle]bool{}
	m.selSets = map[string]host.SelectionSetData{}
	m.setOrder = nil
}

func edgeKey(a, b host.VertexHandle) [2]host.VertexHandle {
	if b < a {
		a, b = b, a
	}
	return [2]host.VertexHandle{a, b}
}

// ---------- construction helpers used by tests and the testbed ----------

// AddPolygonKind creates a polygon of an explicit primitive kind. Returns
// the new handle.
func (m *Mesh) AddPolygonKind(kind host.PolygonKind, material string, verts ...host.VertexHandle) host.PolygonHandle {
	h := m.nextPolygon
	m.nextPolygon++
	m.polygons[h] = &polygon{vertices: verts, kind: kind, materialTag: material}
	m.polygonIDs = append(m.polygonIDs, h)
	return h
}

// SelectPolygons marks exactly the given polygons as the host selection.
func (m *Mesh) SelectPolygons(handles ...host.PolygonHandle) {
	m.selected = map[host.PolygonHandle]bool{}
	for _, h := range handles {
		m.selected[h] = true
	}
}

// HasEdge reports whether two vertices are adjacent in any polygon loop.
func (m *Mesh) HasEdge(a, b host.VertexHandle) bool {
	key := edgeKey(a, b)
	for _, h := range m.polygonIDs {
		loop := m.polygons[h].vertices
		for i := range loop {
			next := loop[(i+1)%len(loop)]
			if edgeKey(loop[i], next) == key {
				return true
			}
		}
	}
	return false
}

// IsSeam reports whether the edge between two vertices is marked as a UV
// seam.
func (m *Mesh) IsSeam(a, b host.VertexHandle) bool {
	return m.seams[edgeKey(a, b)]
}

// VertexCount returns the number of vertices the item holds.
func (m *Mesh) VertexCount() int { return len(m.positions) }

// ---------- host.MeshReader ----------

func (m *Mesh) Polygons() []host.PolygonHandle {
	out := make([]host.PolygonHandle, len(m.polygonIDs))
	copy(out, m.polygonIDs)
	return out
}

func (m *Mesh) SelectedPolygons() []host.PolygonHandle {
	var out []host.PolygonHandle
	for _, h := range m.polygonIDs {
		if m.selected[h] {
			out = append(out, h)
		}
	}
	return out
}

func (m *Mesh) PolygonKindOf(p host.PolygonHandle) host.PolygonKind {
	return m.polygons[p].kind
}

func (m *Mesh) PolygonVertices(p host.PolygonHandle) []host.VertexHandle {
	poly := m.polygons[p]
	out := make([]host.VertexHandle, len(poly.vertices))
	copy(out, poly.vertices)
	return out
}

func (m *Mesh) PolygonMaterial(p host.PolygonHandle) string {
	return m.polygons[p].materialTag
}

func (m *Mesh) VertexPosition(v host.VertexHandle) math.Vec3 {
	return m.positions[v]
}

func (m *Mesh) Materials() []host.Material {
	out := make([]host.Material, len(m.materials))
	copy(out, m.materials)
	return out
}

func (m *Mesh) UVMapNames() (names []string, primary string) {
	for name, uv := range m.uvMaps {
		names = append(names, name)
		if uv.primary {
			primary = name
		}
	}
	sort.Strings(names)
	return names, primary
}

func (m *Mesh) UVSamples(name string) []host.UVSample {
	uv := m.uvMaps[name]
	if uv == nil {
		return nil
	}
	var out []host.UVSample
	for _, h := range m.polygonIDs {
		for corner, value := range uv.faces[h] {
			out = append(out, host.UVSample{Polygon: h, Corner: corner, Value: value})
		}
	}
	return out
}

func (m *Mesh) ColorMapNames() []string {
	var names []string
	for name := range m.colorMaps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *Mesh) ColorSamples(name string) []host.ColorSample {
	cm := m.colorMaps[name]
	if cm == nil {
		return nil
	}
	var out []host.ColorSample
	for _, h := range m.polygonIDs {
		for corner, value := range cm.faces[h] {
			out = append(out, host.ColorSample{Polygon: h, Corner: corner, Value: value, HasAlpha: cm.hasAlpha})
		}
	}
	return out
}

func (m *Mesh) WeightMapNames() []string {
	var names []string
	for name := range m.weightMap {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *Mesh) WeightSamples(name string) map[host.VertexHandle]float64 {
	out := map[host.VertexHandle]float64{}
	for v, w := range m.weightMap[name] {
		out[v] = w
	}
	return out
}

func (m *Mesh) MorphNames() []string {
	var names []string
	for name := range m.morphs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *Mesh) MorphSamples(name string) []host.MorphSample {
	morph := m.morphs[name]
	if morph == nil {
		return nil
	}
	var out []host.MorphSample
	for v, value := range morph.offsets {
		out = append(out, host.MorphSample{Vertex: v, Value: value, Relative: morph.relative})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Vertex < out[j].Vertex })
	return out
}

func (m *Mesh) CreaseWeights() map[[2]host.VertexHandle]float64 {
	out := map[[2]host.VertexHandle]float64{}
	for edge, w := range m.creases {
		out[edge] = w
	}
	return out
}

func (m *Mesh) SelectionSets() []host.SelectionSetData {
	var out []host.SelectionSetData
	for _, name := range m.setOrder {
		out = append(out, m.selSets[name])
	}
	// seams are exported through the reserved seam set
	if len(m.seams) > 0 {
		seamSet := host.SelectionSetData{Name: "_Seam", Kind: "edge"}
		for edge := range m.seams {
			seamSet.Edges = append(seamSet.Edges, edge)
		}
		sort.Slice(seamSet.Edges, func(i, j int) bool {
			if seamSet.Edges[i][0] != seamSet.Edges[j][0] {
				return seamSet.Edges[i][0] < seamSet.Edges[j][0]
			}
			return seamSet.Edges[i][1] < seamSet.Edges[j][1]
		})
		out = append(out, seamSet)
	}
	return out
}

// ---------- host.MeshWriter ----------

func (m *Mesh) CreateVertex(pos math.Vec3) host.VertexHandle {
	m.positions = append(m.positions, pos)
	return host.VertexHandle(len(m.positions) - 1)
}

func (m *Mesh) CreatePolygon(verts []host.VertexHandle, material string, subdivision bool) host.PolygonHandle {
	kind := host.PolygonFace
	if subdivision {
		kind = host.PolygonSubdiv
	}
	loop := make([]host.VertexHandle, len(verts))
	copy(loop, verts)
	return m.AddPolygonKind(kind, material, loop...)
}

func (m *Mesh) DeletePolygons(handles []host.PolygonHandle) {
	doomed := map[host.PolygonHandle]bool{}
	for _, h := range handles {
		doomed[h] = true
	}
	var kept []host.PolygonHandle
	for _, h := range m.polygonIDs {
		if doomed[h] {
			delete(m.polygons, h)
			delete(m.selected, h)
			for _, uv := range m.uvMaps {
				delete(uv.faces, h)
			}
			for _, cm := range m.colorMaps {
				delete(cm.faces, h)
			}
			continue
		}
		kept = append(kept, h)
	}
	m.polygonIDs = kept
}

func (m *Mesh) SetMaterial(mat host.Material) {
	for i := range m.materials {
		if m.materials[i].Name == mat.Name {
			m.materials[i] = mat
			return
		}
	}
	m.materials = append(m.materials, mat)
}

func (m *Mesh) SetUV(name string, primary bool, p host.PolygonHandle, corner int, value math.Vec2) {
	uv := m.uvMaps[name]
	if uv == nil {
		uv = &uvMap{primary: primary, faces: map[host.PolygonHandle]map[int]math.Vec2{}}
		m.uvMaps[name] = uv
	}
	if uv.faces[p] == nil {
		uv.faces[p] = map[int]math.Vec2{}
	}
	uv.faces[p][corner] = value
}

func (m *Mesh) SetColor(name string, hasAlpha bool, p host.PolygonHandle, corner int, value math.Color) {
	cm := m.colorMaps[name]
	if cm == nil {
		cm = &colorMap{hasAlpha: hasAlpha, faces: map[host.PolygonHandle]map[int]math.Color{}}
		m.colorMaps[name] = cm
	}
	if cm.faces[p] == nil {
		cm.faces[p] = map[int]math.Color{}
	}
	cm.faces[p][corner] = value
}

func (m *Mesh) SetWeight(name string, v host.VertexHandle, value float64) {
	if m.weightMap[name] == nil {
		m.weightMap[name] = map[host.VertexHandle]float64{}
	}
	m.weightMap[name][v] = value
}

func (m *Mesh) SetMorph(name string, relative bool, v host.VertexHandle, value math.Vec3) {
	morph := m.morphs[name]
	if morph == nil {
		morph = &morphMap{relative: relative, offsets: map[host.VertexHandle]math.Vec3{}}
		m.morphs[name] = morph
	}
	morph.offsets[v] = value
}

func (m *Mesh) ClearMorph(name string, relative bool) {
	m.morphs[name] = &morphMap{relative: relative, offsets: map[host.VertexHandle]math.Vec3{}}
}

func (m *Mesh) SetCrease(a, b host.VertexHandle, weight float64) bool {
	if !m.HasEdge(a, b) {
		return false
	}
	m.creases[edgeKey(a, b)] = weight
	return true
}

func (m *Mesh) SetEdgeSeam(a, b host.VertexHandle) bool {
	if !m.HasEdge(a, b) {
		return false
	}
	m.seams[edgeKey(a, b)] = true
	return true
}

func (m *Mesh) ReplaceSelectionSet(set host.SelectionSetData) {
	if _, exists := m.selSets[set.Name]; !exists {
		m.setOrder = append(m.setOrder, set.Name)
	}
	m.selSets[set.Name] = set
}

func (m *Mesh) MergeSelectionSet(set host.SelectionSetData) {
	existing, exists := m.selSets[set.Name]
	if !exists || existing.Kind != set.Kind {
		m.ReplaceSelectionSet(set)
		return
	}
	existing.Vertices = appendUniqueVertices(existing.Vertices, set.Vertices)
	existing.Polygons = appendUniquePolygons(existing.Polygons, set.Polygons)
	existing.Edges = appendUniqueEdges(existing.Edges, set.Edges)
	m.selSets[set.Name] = existing
}

func appendUniqueVertices(dst, src []host.VertexHandle) []host.VertexHandle {
	seen := map[host.VertexHandle]bool{}
	for _, v := range dst {
		seen[v] = true
	}
	for _, v := range src {
		if !seen[v] {
			dst = append(dst, v)
			seen[v] = true
		}
	}
	return dst
}

func appendUniquePolygons(dst, src []host.PolygonHandle) []host.PolygonHandle {
	seen := map[host.PolygonHandle]bool{}
	for _, p := range dst {
		seen[p] = true
	}
	for _, p := range src {
		if !seen[p] {
			dst = append(dst, p)
			seen[p] = true
		}
	}
	return dst
}

func appendUniqueEdges(dst, src [][2]host.VertexHandle) [][2]host.VertexHandle {
	seen := map[[2]host.VertexHandle]bool{}
	for _, e := range dst {
		seen[edgeKey(e[0], e[1])] = true
	}
	for _, e := range src {
		key := edgeKey(e[0], e[1])
		if !seen[key] {
			dst = append(dst, key)
			seen[key] = true
		}
	}
	return dst
}

// SelectionSetByName returns a stored selection set and whether it exists.
func (m *Mesh) SelectionSetByName(name string) (host.SelectionSetData, bool) {
	set, ok := m.selSets[name]
	return set, ok
}

// Scene is a minimal in-memory scene: a bag of mesh items with one active.
type Scene struct {
	meshes []*Mesh
	active *Mesh
}

func NewScene() *Scene { return &Scene{} }

func (s *Scene) ActiveMesh() host.Mesh {
	if s.active == nil {
		return nil
	}
	return s.active
}

func (s *Scene) CreateMesh(name string) host.Mesh {
	m := NewMesh(name)
	s.meshes = append(s.meshes, m)
	s.active = m
	return m
}

// Adopt registers an existing mesh with the scene and makes it active.
func (s *Scene) Adopt(m *Mesh) {
	s.meshes = append(s.meshes, m)
	s.active = m
}

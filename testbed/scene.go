/*
Package testbed builds a small in-memory host scene for the demo binary:
a cube with materials, a UV map, a weight map, a morph, creases and the
reserved edge sets, plus one keyhole polygon to exercise triangulation.
*/
package testbed

import (
	"github.com/tazee/ModoClipboard/exchange/host"
	"github.com/tazee/ModoClipboard/exchange/hostmem"
	"github.com/tazee/ModoClipboard/exchange/math"
)

// NewDemoScene returns a scene whose active mesh is the demo cube with its
// four top polygons selected.
func NewDemoScene() *hostmem.Scene {
	scene := hostmem.NewScene()
	scene.Adopt(NewDemoMesh())
	return scene
}

// NewDemoMesh builds the demo cube. Positions are right-handed Y-up.
func NewDemoMesh() *hostmem.Mesh {
	m := hostmem.NewMesh("DemoCube")

	var v [8]host.VertexHandle
	positions := []math.Vec3{
		{X: -0.5, Y: -0.5, Z: -0.5},
		{X: 0.5, Y: -0.5, Z: -0.5},
		{X: 0.5, Y: 0.5, Z: -0.5},
		{X: -0.5, Y: 0.5, Z: -0.5},
		{X: -0.5, Y: -0.5, Z: 0.5},
		{X: 0.5, Y: -0.5, Z: 0.5},
		{X: 0.5, Y: 0.5, Z: 0.5},
		{X: -0.5, Y: 0.5, Z: 0.5},
	}
	for i, p := range positions {
		v[i] = m.CreateVertex(p)
	}

	m.SetMaterial(host.Material{Name: "Skin", Diffuse: math.Color{R: 0.8, G: 0.6, B: 0.5, A: 1}, Texture: "textures/skin_d.png"})
	m.SetMaterial(host.Material{Name: "Hair", Diffuse: math.Color{R: 0.2, G: 0.1, B: 0.05, A: 1}})

	quads := [][4]int{
		{0, 1, 2, 3}, // back
		{5, 4, 7, 6}, // front
		{4, 0, 3, 7}, // left
		{1, 5, 6, 2}, // right
		{3, 2, 6, 7}, // top
		{4, 5, 1, 0}, // bottom
	}
	var polys []host.PolygonHandle
	for i, q := range quads {
		material := "Skin"
		if i >= 4 {
			material = "Hair"
		}
		h := m.CreatePolygon([]host.VertexHandle{v[q[0]], v[q[1]], v[q[2]], v[q[3]]}, material, false)
		polys = append(polys, h)

		for corner := 0; corner < 4; corner++ {
			u := float64(corner % 2)
			vv := float64(corner / 2)
			m.SetUV("Texture", true, h, corner, math.Vec2{U: u, V: vv})
		}
	}

	// One dangling L-shaped polygon off the cube's side: non-convex, so it
	// crosses the exchange as keyhole triangles.
	var l [6]host.VertexHandle
	lShape := []math.Vec3{
		{X: 0.5, Y: -0.5, Z: -1.5},
		{X: 0.5, Y: 0.5, Z: -1.5},
		{X: 0.5, Y: 0.5, Z: -1.0},
		{X: 0.5, Y: 0.0, Z: -1.0},
		{X: 0.5, Y: 0.0, Z: -0.6},
		{X: 0.5, Y: -0.5, Z: -0.6},
	}
	for i, p := range lShape {
		l[i] = m.CreateVertex(p)
	}
	m.CreatePolygon(l[:], "Hair", false)

	for i := range v {
		m.SetWeight("Soft", v[i], float64(i)/8.0)
	}

	// Puff morph: raise the top face.
	for _, top := range []int{3, 2, 6, 7} {
		m.SetMorph("Puff", true, v[top], math.Vec3{Y: 0.25})
	}

	m.SetCrease(v[3], v[2], 0.9)
	m.SetCrease(v[6], v[7], 0.9)
	m.SetEdgeSeam(v[0], v[1])
	m.ReplaceSelectionSet(host.SelectionSetData{
		Name:  "_Freestyle",
		Kind:  "edge",
		Edges: [][2]host.VertexHandle{{v[2], v[6]}, {v[3], v[7]}},
	})
	m.ReplaceSelectionSet(host.SelectionSetData{
		Name:     "TopLoop",
		Kind:     "vertex",
		Vertices: []host.VertexHandle{v[3], v[2], v[6], v[7]},
	})

	m.SelectPolygons(polys[4], polys[0], polys[1])
	return m
}

/*
Package merge applies a decoded snapshot onto a target host mesh. Paste is
additive: geometry is always appended, never welded against what is already
there, and name collisions on materials and channels are resolved
deterministically instead of reported.
*/
package merge

import (
	"fmt"

	"github.com/tazee/ModoClipboard/exchange/core"
	"github.com/tazee/ModoClipboard/exchange/host"
	"github.com/tazee/ModoClipboard/exchange/math"
	"github.com/tazee/ModoClipboard/exchange/snapshot"
)

// Options steers one import.
type Options struct {
	// TargetConvention is the coordinate convention of the host being
	// pasted into. Positions and morph vectors are converted from the
	// snapshot's convention into this one.
	TargetConvention math.Convention
	// ReplaceContents discards the target's current content before the
	// append pass; this is New Mesh from Clipboard.
	ReplaceContents bool
}

/**
 * @brief Applies the snapshot to the target mesh.
 *
 * Reconciliation is name-based and case-sensitive throughout: materials are
 * reused and their shading overwritten on a name match, channels merge into
 * a same-name channel and extend its domain, morphs replace same-name data
 * wholesale, and the reserved `_Freestyle` set replaces rather than merges.
 * Crease and seam edges are matched by endpoint pair in the target's own
 * numbering; pairs the target has no edge for are skipped.
 */
func Apply(target host.Mesh, ms *snapshot.MeshSnapshot, opts Options) error {
	if target == nil {
		return fmt.Errorf("%w: paste needs a mesh to paste into", core.ErrNoTarget)
	}

	if opts.ReplaceContents {
		target.Clear()
	}

	scale := ms.UnitScale()
	position := func(v math.Vec3) math.Vec3 {
		return math.Convert(v, ms.Convention, opts.TargetConvention).MulScalar(scale)
	}

	// Geometry first: appended vertices give us the snapshot-id to
	// target-handle mapping everything else keys off.
	vertexHandles := make([]host.VertexHandle, len(ms.Vertices))
	for i, v := range ms.Vertices {
		vertexHandles[i] = target.CreateVertex(position(v.Position))
	}

	for _, mat := range ms.Materials {
		target.SetMaterial(host.Material{
			Name:    mat.Name,
			Diffuse: mat.Diffuse,
			Texture: mat.Texture,
		})
	}

	polygonHandles := make([]host.PolygonHandle, len(ms.Polygons))
	for i, poly := range ms.Polygons {
		loop := make([]host.VertexHandle, len(poly.Vertices))
		for j, id := range poly.Vertices {
			loop[j] = vertexHandles[id]
		}
		material := ""
		if poly.Material != nil {
			material = ms.Materials[*poly.Material].Name
		}
		polygonHandles[i] = target.CreatePolygon(loop, material, poly.Subdivision)
	}

	for _, uv := range ms.UVMaps {
		for fc, value := range uv.Faces {
			target.SetUV(uv.Name, uv.Primary, polygonHandles[fc.Polygon], fc.Corner, value)
		}
	}

	for _, cm := range ms.ColorMaps {
		hasAlpha := cm.Kind == snapshot.ColorRGBA
		for fc, value := range cm.Faces {
			target.SetColor(cm.Name, hasAlpha, polygonHandles[fc.Polygon], fc.Corner, value)
		}
	}

	for _, wm := range ms.WeightMaps {
		for id, w := range wm.Weights {
			target.SetWeight(wm.Name, vertexHandles[id], w)
		}
	}

	for _, morph := range ms.Morphs {
		relative := morph.Kind == snapshot.MorphRelative
		// Same-name morph data is replaced wholesale, not merged per vertex.
		target.ClearMorph(morph.Name, relative)
		for id, value := range morph.Offsets {
			target.SetMorph(morph.Name, relative, vertexHandles[id], position(value))
		}
	}

	for edge, w := range ms.Creases.Creases {
		if !target.SetCrease(vertexHandles[edge.A], vertexHandles[edge.B], w) {
			core.LogDebug("crease edge (%d, %d) has no counterpart in the target mesh, skipped", edge.A, edge.B)
		}
	}

	applySelectionSets(target, ms, vertexHandles, polygonHandles)

	return nil
}

func applySelectionSets(target host.Mesh, ms *snapshot.MeshSnapshot, vertexHandles []host.VertexHandle, polygonHandles []host.PolygonHandle) {
	seam := ms.SeamSet()

	for i := range ms.SelectionSets {
		set := &ms.SelectionSets[i]

		if seam != nil && set == seam {
			// Seams are not stored as a plain set: matching target edges
			// are marked seamed, everything else is a no-op.
			for _, e := range set.Edges {
				if !target.SetEdgeSeam(vertexHandles[e.A], vertexHandles[e.B]) {
					core.LogDebug("seam edge (%d, %d) has no counterpart in the target mesh, skipped", e.A, e.B)
				}
			}
			continue
		}

		data := host.SelectionSetData{Name: set.Name, Kind: kindName(set.Kind)}
		switch set.Kind {
		case snapshot.ElementVertex:
			for _, id := range set.Vertices {
				data.Vertices = append(data.Vertices, vertexHandles[id])
			}
		case snapshot.ElementEdge:
			for _, e := range set.Edges {
				data.Edges = append(data.Edges, [2]host.VertexHandle{vertexHandles[e.A], vertexHandles[e.B]})
			}
		case snapshot.ElementPolygon:
			for _, id := range set.Polygons {
				data.Polygons = append(data.Polygons, polygonHandles[id])
			}
		}

		if set.Name == snapshot.FreestyleSetName && set.Kind == snapshot.ElementEdge {
			// Existing Freestyle data in the target is replaced, not merged.
			target.ReplaceSelectionSet(data)
			continue
		}
		target.MergeSelectionSet(data)
	}
}

func kindName(kind snapshot.ElementKind) string {
	switch kind {
	case snapshot.ElementEdge:
		return "edge"
	case snapshot.ElementPolygon:
		return "polygon"
	default:
		return "vertex"
	}
}

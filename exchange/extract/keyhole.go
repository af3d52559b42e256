package extract

import (
	m "math"

	"github.com/tazee/ModoClipboard/exchange/math"
)

// Tolerance for the planarity test, relative to the loop's extent.
const planarEpsilon = 1e-6

// newellNormal computes the loop normal by Newell's method, which stays
// stable for concave and slightly non-planar loops where a single cross
// product does not.
func newellNormal(loop []math.Vec3) math.Vec3 {
	var n math.Vec3
	for i, cur := range loop {
		next := loop[(i+1)%len(loop)]
		n.X += (cur.Y - next.Y) * (cur.Z + next.Z)
		n.Y += (cur.Z - next.Z) * (cur.X + next.X)
		n.Z += (cur.X - next.X) * (cur.Y + next.Y)
	}
	return n.Normalized()
}

// isPlanar reports whether every loop vertex lies on the plane spanned by
// the loop's Newell normal, within a tolerance scaled by the loop size.
func isPlanar(loop []math.Vec3) bool {
	if len(loop) <= 3 {
		return true
	}
	n := newellNormal(loop)
	if n.LengthSquared() == 0 {
		return false
	}
	d := n.Dot(loop[0])
	scale := 0.0
	for _, p := range loop {
		scale = m.Max(scale, m.Abs(p.X)+m.Abs(p.Y)+m.Abs(p.Z))
	}
	tolerance := planarEpsilon * m.Max(scale, 1.0)
	for _, p := range loop {
		if m.Abs(n.Dot(p)-d) > tolerance {
			return false
		}
	}
	return true
}

// project flattens the loop onto the 2D plane that drops the dominant
// normal axis, preserving winding.
func project(loop []math.Vec3, normal math.Vec3) []math.Vec2 {
	ax, ay, az := m.Abs(normal.X), m.Abs(normal.Y), m.Abs(normal.Z)
	out := make([]math.Vec2, len(loop))
	for i, p := range loop {
		switch {
		case ax >= ay && ax >= az:
			out[i] = math.Vec2{U: p.Y, V: p.Z}
		case ay >= az:
			out[i] = math.Vec2{U: p.X, V: p.Z}
		default:
			out[i] = math.Vec2{U: p.X, V: p.Y}
		}
	}
	return out
}

func cross2(o, a, b math.Vec2) float64 {
	return (a.U-o.U)*(b.V-o.V) - (a.V-o.V)*(b.U-o.U)
}

// isConvex reports whether the projected loop turns in one direction only.
// Collinear corners are tolerated.
func isConvex(flat []math.Vec2) bool {
	sign := 0.0
	for i := range flat {
		c := cross2(flat[i], flat[(i+1)%len(flat)], flat[(i+2)%len(flat)])
		if c == 0 {
			continue
		}
		if sign == 0 {
			sign = c
			continue
		}
		if (c > 0) != (sign > 0) {
			return false
		}
	}
	return true
}

// IsRegular reports whether a polygon loop can cross the exchange as
// authored. Triangles always can; anything non-planar or non-convex is a
// keyhole case and has to be decomposed.
func IsRegular(loop []math.Vec3) bool {
	if len(loop) <= 3 {
		return true
	}
	if !isPlanar(loop) {
		return false
	}
	n := newellNormal(loop)
	return isConvex(project(loop, n))
}

func pointInTriangle(p, a, b, c math.Vec2) bool {
	d1 := cross2(a, b, p)
	d2 := cross2(b, c, p)
	d3 := cross2(c, a, p)
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

/**
 * @brief Decomposes an irregular polygon loop into triangles by ear
 * clipping in its dominant projection plane. The result is a list of corner
 * index triples into the original loop; the original polygon is not
 * recoverable from them. Degenerate loops fall back to a fan so the
 * decomposition always covers every corner.
 */
func Triangulate(loop []math.Vec3) [][3]int {
	if len(loop) < 3 {
		return nil
	}
	if len(loop) == 3 {
		return [][3]int{{0, 1, 2}}
	}

	normal := newellNormal(loop)
	flat := project(loop, normal)

	// Ensure counter-clockwise winding for the ear test.
	area := 0.0
	for i := range flat {
		j := (i + 1) % len(flat)
		area += flat[i].U*flat[j].V - flat[j].U*flat[i].V
	}
	ccw := area >= 0

	remaining := make([]int, len(loop))
	for i := range remaining {
		remaining[i] = i
	}

	var tris [][3]int
	guard := 0
	for len(remaining) > 3 {
		clipped := false
		for i := 0; i < len(remaining); i++ {
			prev := remaining[(i+len(remaining)-1)%len(remaining)]
			cur := remaining[i]
			next := remaining[(i+1)%len(remaining)]

			turn := cross2(flat[prev], flat[cur], flat[next])
			if ccw && turn < 0 || !ccw && turn > 0 {
				continue // reflex corner, not an ear
			}

			ear := true
			for _, other := range remaining {
				if other == prev || other == cur || other == next {
					continue
				}
				if pointInTriangle(flat[other], flat[prev], flat[cur], flat[next]) {
					ear = false
					break
				}
			}
			if !ear {
				continue
			}

			tris = append(tris, [3]int{prev, cur, next})
			remaining = append(remaining[:i], remaining[i+1:]...)
			clipped = true
			break
		}
		if !clipped {
			// Self-intersecting or fully degenerate loop. Fan out whatever
			// is left rather than looping forever.
			for i := 1; i+1 < len(remaining); i++ {
				tris = append(tris, [3]int{remaining[0], remaining[i], remaining[i+1]})
			}
			return tris
		}
		guard++
		if guard > len(loop)*len(loop) {
			break
		}
	}
	tris = append(tris, [3]int{remaining[0], remaining[1], remaining[2]})
	return tris
}

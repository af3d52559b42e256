package math

// Vec2 represents a 2D vector (UV coordinates use this).
type Vec2 struct {
	U, V float64
}

// Vec3 represents a 3D vector. Positions travel through the exchange as
// float64 since both host APIs hand out double precision.
type Vec3 struct {
	X, Y, Z float64
}

/**
 * @brief An RGBA colour with components in [0.0, 1.0]. Diffuse material
 * colours ignore A; face-corner colour maps may carry it.
 */
type Color struct {
	R, G, B, A float64
}

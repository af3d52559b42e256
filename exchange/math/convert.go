package math

import "fmt"

// Convention tags the coordinate system a snapshot's positions are expressed
// in. The exchange payload always uses LH_Zup; a Modo-style host works in
// RH_Yup and converts on the way in and out.
type Convention string

const (
	// ConventionRHYup is the right-handed, Y-up host convention.
	ConventionRHYup Convention = "RH_Yup"
	// ConventionLHZup is the Z-up exchange convention.
	ConventionLHZup Convention = "LH_Zup"
)

// ParseConvention validates a convention tag read from a payload.
func ParseConvention(s string) (Convention, error) {
	switch Convention(s) {
	case ConventionRHYup, ConventionLHZup:
		return Convention(s), nil
	}
	return "", fmt.Errorf("unknown coordinate convention %q", s)
}

/**
 * @brief Maps a RH_Yup position into the LH_Zup exchange space.
 *
 * The mapping is the fixed axis permutation (x, y, z) -> (x, -z, y): a swap
 * of the Y and Z axes with one sign flip, exact for every representable
 * float. It applies to positions and morph vectors only, never to UVs,
 * colours, weights or crease values.
 */
func (v Vec3) ToExchange() Vec3 {
	return Vec3{v.X, -v.Z, v.Y}
}

/**
 * @brief Maps a LH_Zup exchange position back into RH_Yup host space.
 * Exact inverse of ToExchange.
 */
func (v Vec3) ToHost() Vec3 {
	return Vec3{v.X, v.Z, -v.Y}
}

// Convert re-expresses v, currently in convention `from`, in convention `to`.
// Identity when the conventions already agree.
func Convert(v Vec3, from, to Convention) Vec3 {
	if from == to {
		return v
	}
	if from == ConventionRHYup {
		return v.ToExchange()
	}
	return v.ToHost()
}

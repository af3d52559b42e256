package math_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tazee/ModoClipboard/exchange/math"
)

func TestToExchangeToHostAreInverses(t *testing.T) {
	vectors := []math.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 2, Z: 3},
		{X: -0.25, Y: 0.5, Z: -0.125},
		{X: 1e-9, Y: -1e9, Z: 3.14159},
	}
	for _, v := range vectors {
		// The axis permutation is exact, so demand bit equality.
		assert.Equal(t, v, v.ToExchange().ToHost())
		assert.Equal(t, v, v.ToHost().ToExchange())
	}
}

func TestConvertMatchesUnitSquareMapping(t *testing.T) {
	// A unit quad in the right-handed Y-up host lands in Z-up exchange
	// space with Y and Z swapped and one sign flip.
	cases := []struct {
		in, want math.Vec3
	}{
		{math.Vec3{X: 0, Y: 0, Z: 0}, math.Vec3{X: 0, Y: 0, Z: 0}},
		{math.Vec3{X: 1, Y: 0, Z: 0}, math.Vec3{X: 1, Y: 0, Z: 0}},
		{math.Vec3{X: 1, Y: 1, Z: 0}, math.Vec3{X: 1, Y: 0, Z: 1}},
		{math.Vec3{X: 0, Y: 1, Z: 0}, math.Vec3{X: 0, Y: 0, Z: 1}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, math.Convert(tc.in, math.ConventionRHYup, math.ConventionLHZup))
	}
}

func TestConvertIdentityWhenConventionsAgree(t *testing.T) {
	v := math.Vec3{X: 1, Y: 2, Z: 3}
	assert.Equal(t, v, math.Convert(v, math.ConventionRHYup, math.ConventionRHYup))
	assert.Equal(t, v, math.Convert(v, math.ConventionLHZup, math.ConventionLHZup))
}

func TestParseConvention(t *testing.T) {
	got, err := math.ParseConvention("RH_Yup")
	require.NoError(t, err)
	assert.Equal(t, math.ConventionRHYup, got)

	got, err = math.ParseConvention("LH_Zup")
	require.NoError(t, err)
	assert.Equal(t, math.ConventionLHZup, got)

	_, err = math.ParseConvention("y_up_rh")
	assert.Error(t, err)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, math.Clamp(-0.5, 0.0, 1.0))
	assert.Equal(t, 1.0, math.Clamp(1.5, 0.0, 1.0))
	assert.Equal(t, 0.75, math.Clamp(0.75, 0.0, 1.0))
	assert.Equal(t, 3, math.Clamp(2, 3, 5))
}

func TestVec3Compare(t *testing.T) {
	a := math.Vec3{X: 1, Y: 2, Z: 3}
	b := math.Vec3{X: 1 + 5e-7, Y: 2, Z: 3 - 5e-7}
	assert.True(t, a.Compare(b, math.K_FLOAT_EPSILON))
	assert.False(t, a.Compare(math.Vec3{X: 1.1, Y: 2, Z: 3}, math.K_FLOAT_EPSILON))
}

package camping_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/campredict/internal/game/camping"
)

func TestComputeDefence_Empty(t *testing.T) {
	assert.Equal(t, camping.Defence{Current: 0, Maximum: 11.6}, camping.ComputeDefence(0, 0, 0))
}

func TestComputeDefence_CarryErodesMaximum(t *testing.T) {
	// 7.4 → whole 7 > 3, digit 4: 8 + 3.6 - (0.8 - 0.4) = 11.2
	// current: (7.4 - 3) + 2*1.8 + 3 = 11.0
	assert.Equal(t, camping.Defence{Current: 11.0, Maximum: 11.2}, camping.ComputeDefence(2, 3, 7.4))
}

func TestComputeDefence_NegativeCountsAreNeutral(t *testing.T) {
	assert.Equal(t, camping.NeutralDefence(), camping.ComputeDefence(-1, 3, 7.4))
	assert.Equal(t, camping.NeutralDefence(), camping.ComputeDefence(2, -1, 7.4))
	assert.Equal(t, camping.NeutralDefence(), camping.ComputeDefence(-5, -5, -5))
}

func TestComputeDefence_Carry(t *testing.T) {
	cases := []struct {
		name  string
		carry float64
		want  camping.Defence
	}{
		{"whole carry keeps default maximum", 7.0, camping.Defence{Current: 4.0, Maximum: 11.6}},
		{"whole part not above three", 3.5, camping.Defence{Current: 0.5, Maximum: 11.6}},
		{"below three adds nothing", 2.9, camping.Defence{Current: 0, Maximum: 11.6}},
		{"smallest eroding digit", 4.1, camping.Defence{Current: 1.1, Maximum: 10.9}},
		{"largest eroding digit", 10.9, camping.Defence{Current: 7.9, Maximum: 11.7}},
		{"digit six", 4.6, camping.Defence{Current: 1.6, Maximum: 11.4}},
		{"upper bound", 11.6, camping.Defence{Current: 8.6, Maximum: 11.4}},
		{"above upper bound ignored", 11.7, camping.Defence{Current: 0, Maximum: 11.6}},
		{"negative ignored", -0.5, camping.Defence{Current: 0, Maximum: 11.6}},
		{"NaN ignored", math.NaN(), camping.Defence{Current: 0, Maximum: 11.6}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, camping.ComputeDefence(0, 0, tc.carry))
		})
	}
}

// Property: valid inputs never produce a negative current defence, and the
// maximum is either the default or within the erosion band.
func TestProperty_ComputeDefence_Bounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		od := rapid.IntRange(0, camping.MaxOD).Draw(rt, "od")
		imp := rapid.IntRange(0, camping.MaxImprovements).Draw(rt, "improvements")
		carry := float64(rapid.IntRange(0, 116).Draw(rt, "carry_tenths")) / 10

		d := camping.ComputeDefence(od, imp, carry)
		assert.GreaterOrEqual(rt, d.Current, 0.0)
		assert.GreaterOrEqual(rt, d.Current, camping.Round1(float64(od)*camping.ODWeight+float64(imp)))
		if d.Maximum != camping.MaxPreviousCarry {
			assert.GreaterOrEqual(rt, d.Maximum, 10.9)
			assert.LessOrEqual(rt, d.Maximum, 11.7)
		}
	})
}

// Property: any negative count degrades to the neutral result.
func TestProperty_ComputeDefence_NegativeIsNeutral(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		od := rapid.IntRange(-50, 50).Draw(rt, "od")
		imp := rapid.IntRange(-50, 50).Draw(rt, "improvements")
		if od >= 0 && imp >= 0 {
			imp = -1 - imp
		}
		carry := rapid.Float64Range(-20, 20).Draw(rt, "carry")
		assert.Equal(rt, camping.NeutralDefence(), camping.ComputeDefence(od, imp, carry))
	})
}

package render

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/campredict/internal/game/camping"
)

func samplePrediction() camping.Prediction {
	return camping.Prediction{
		Score: camping.Score{
			Raw:       21.6,
			Displayed: 18,
			Delta:     3.6,
			Ceiling:   18,
			Tier: camping.Tier{
				Low:      18,
				High:     math.Inf(1),
				Display:  "Vous estimez que vos chances de survie ici sont optimales.",
				Severity: "optimal",
			},
			Breakdown: camping.Contributions{Distance: 12.4, Zombies: -2.4, Building: 4},
		},
		SurvivalPercent: 90,
		Defence:         camping.Defence{Current: 11, Maximum: 11.2},
	}
}

func TestRenderPrediction(t *testing.T) {
	out := RenderPrediction(samplePrediction())
	plain := StripANSI(out)

	assert.Contains(t, plain, "Score: 18.0 / 18 (+3.6)")
	assert.Contains(t, plain, "Survival: 90%")
	assert.Contains(t, plain, "optimales")
	assert.Contains(t, plain, "distance         +12.4")
	assert.Contains(t, plain, "zombies          -2.4")
	assert.Contains(t, plain, "raw              21.6")
	assert.Contains(t, plain, "Defence: 11.0 / 11.2")
	assert.NotContains(t, plain, "campers", "zero contributions are omitted")
	assert.Contains(t, out, BrightGreen, "optimal tier is coloured")
}

func TestRenderDefence(t *testing.T) {
	plain := StripANSI(RenderDefence(camping.Defence{Current: 4.2, Maximum: 11.6}, false, 0))
	assert.Equal(t, "Defence: 4.2 / 11.6\n", plain)

	out := RenderDefence(camping.Defence{Current: 12, Maximum: 11.6}, true, 12)
	assert.True(t, strings.HasPrefix(out, BrightRed))
	assert.Contains(t, StripANSI(out), "Defence limit reached (12.0)")
}

func TestRenderBuildings(t *testing.T) {
	out := StripANSI(RenderBuildings(10, []camping.Building{
		{Name: "Cave de la vieille tour", Bonus: 4, MinDistance: 9, MaxDistance: 16},
		{Name: "Maison d'un citoyen", Bonus: 3, Anywhere: true},
	}))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Buildings at 10 km:", lines[0])
	assert.Contains(t, lines[1], "Cave de la vieille tour")
	assert.Contains(t, lines[1], "+4.0")
	assert.Contains(t, lines[1], "9-16 km")
	assert.Contains(t, lines[2], "anywhere")
}

func TestRenderBuildings_Empty(t *testing.T) {
	assert.Equal(t, "No buildings at 3 km.\n", StripANSI(RenderBuildings(3, nil)))
}

func TestRenderTiers(t *testing.T) {
	out := StripANSI(RenderTiers([]camping.Tier{
		{Low: math.Inf(-1), High: 0, Severity: "hopeless", Display: "aucune"},
		{Low: 0, High: math.Inf(1), Severity: "optimal", Display: "toutes"},
	}))
	assert.Contains(t, out, "[-inf, 0)")
	assert.Contains(t, out, "[0, +inf)")
	assert.Contains(t, out, "hopeless")
	assert.Contains(t, out, "toutes")
}

func TestRenderValidation(t *testing.T) {
	out := StripANSI(RenderValidation(camping.ValidationErrors{
		"od":        camping.MsgBetween(0, 6),
		"city_type": camping.MsgRequired,
	}))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Invalid input:", lines[0])
	assert.Equal(t, "  city_type: Champ requis", lines[1])
	assert.Equal(t, "  od: Le nombre doit être compris entre 0 et 6", lines[2])
}

// Property: plain rendering of any prediction never contains escape bytes.
func TestPropertyRenderPredictionPlain(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		p := samplePrediction()
		p.Score.Raw = rapid.Float64Range(-100, 100).Draw(rt, "raw")
		p.Score.Breakdown.OD = rapid.Float64Range(0, 10.8).Draw(rt, "od")
		assert.NotContains(rt, StripANSI(RenderPrediction(p)), "\033")
	})
}

package camping

import (
	"errors"
	"fmt"
	"math"
)

// Penalty weights applied per zombie, per OD and for the pandémonium town.
const (
	ZombieWeight       = -1.4
	HoodedZombieWeight = -0.6
	ODWeight           = 1.8
	PandeCityPenalty   = -10.0
)

// ErrUnrepresentableNights is returned when the nights table has no novice
// value for the requested count (the game does not let novices camp that often).
var ErrUnrepresentableNights = errors.New("no novice penalty defined for this number of previous nights")

// Contributions is the per-source breakdown of a raw score.
type Contributions struct {
	Distance       float64 `json:"distance"`
	Zombies        float64 `json:"zombies"`
	OD             float64 `json:"od"`
	Campers        float64 `json:"campers"`
	Improvements   float64 `json:"improvements"`
	PreviousNights float64 `json:"previous_nights"`
	Building       float64 `json:"building"`
	CityType       float64 `json:"city_type"`
	Toggles        float64 `json:"toggles"`
}

// Sum adds every contribution.
func (c Contributions) Sum() float64 {
	return c.Distance + c.Zombies + c.OD + c.Campers + c.Improvements +
		c.PreviousNights + c.Building + c.CityType + c.Toggles
}

// Score is the output of ComputeScore.
//
// Invariant: Displayed <= Ceiling; Delta == Round1(Raw - Ceiling).
type Score struct {
	Raw       float64       `json:"raw"`
	Displayed float64       `json:"displayed"`
	Delta     float64       `json:"delta"`
	Ceiling   float64       `json:"ceiling"`
	Tier      Tier          `json:"tier"`
	Breakdown Contributions `json:"breakdown"`
}

// SurvivalPercent is the survival chance shown next to the score: five percent
// per displayed point, never negative.
func (s Score) SurvivalPercent() float64 {
	if s.Displayed <= 0 {
		return 0
	}
	return Round1(s.Displayed * 5)
}

// Round1 rounds x to one decimal place, halves away from zero.
func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// ComputeScore evaluates in against t.
//
// Precondition: in has passed Validate against t; t has passed Tables.Validate.
// Postcondition: Returns the score, or ErrUnrepresentableNights when a
// non-professional has camped more often than the nights table allows.
func ComputeScore(in Input, t *Tables) (Score, error) {
	nights, err := previousNightsPenalty(in, t)
	if err != nil {
		return Score{}, err
	}

	zombieWeight := ZombieWeight
	if in.Hood && t.Stealth(in.Job) {
		zombieWeight = HoodedZombieWeight
	}

	c := Contributions{
		Distance:       t.Distances[in.Distance],
		Zombies:        zombieWeight * float64(in.Zombies),
		OD:             ODWeight * float64(in.OD),
		Campers:        t.Campers[in.Campers],
		Improvements:   float64(in.Improvements),
		PreviousNights: nights,
		Building:       buildingBonus(in, t),
		Toggles:        toggleBonus(in, t),
	}
	if in.CityType == CityPande {
		c.CityType = PandeCityPenalty
	}

	raw := c.Sum()
	ceiling := t.Ceiling(in.Job)
	displayed := Round1(math.Min(raw, ceiling))
	tier, _ := t.TierFor(displayed)

	return Score{
		Raw:       raw,
		Displayed: displayed,
		Delta:     Round1(raw - ceiling),
		Ceiling:   ceiling,
		Tier:      tier,
		Breakdown: c,
	}, nil
}

func previousNightsPenalty(in Input, t *Tables) (float64, error) {
	if in.PreviousNights <= 0 {
		return 0, nil
	}
	p, ok := t.Nights[in.PreviousNights]
	if !ok {
		return 0, nil
	}
	if in.Pro {
		return p.Pro, nil
	}
	if p.Novice == nil {
		return 0, fmt.Errorf("%d previous nights: %w", in.PreviousNights, ErrUnrepresentableNights)
	}
	return *p.Novice, nil
}

func buildingBonus(in Input, t *Tables) float64 {
	if in.Building == "" {
		return 0
	}
	b, ok := t.Buildings[in.Building]
	if !ok || !b.Covers(in.Distance) {
		return 0
	}
	return b.Bonus
}

func toggleBonus(in Input, t *Tables) float64 {
	total := 0.0
	for _, tb := range t.Toggles {
		v := in.Toggle(tb.Toggle)
		if !v.Active() {
			continue
		}
		if v.Numeric {
			total += float64(v.Count) * tb.Weight
		} else {
			total += tb.Weight
		}
	}
	return total
}

package camping

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
)

// Input domain bounds shared by the validator and the table checks.
const (
	MinDistance       = 1
	MaxDistance       = 28
	MaxPreviousNights = 8
	MaxCampers        = 6
	MaxImprovements   = 10
	MaxOD             = 6
	MaxTent           = 9
	// MaxPreviousCarry is also the default maximum defence.
	MaxPreviousCarry = 11.6
)

// DefaultCeiling is the score ceiling for jobs without a JobRule.
const DefaultCeiling = 18.0

// Building is a ruin the player can camp in.
// Anywhere buildings can be found at every distance.
type Building struct {
	Name        string  `json:"name"`
	Bonus       float64 `json:"bonus"`
	MinDistance int     `json:"min_distance"`
	MaxDistance int     `json:"max_distance"`
	Anywhere    bool    `json:"anywhere"`
}

// Covers reports whether the building's bonus applies at distance.
func (b Building) Covers(distance int) bool {
	return b.Anywhere || (distance >= b.MinDistance && distance <= b.MaxDistance)
}

// NightPenalty is the malus for having already camped Count times.
type NightPenalty struct {
	Count int
	// Novice is nil where the game defines no value.
	Novice *float64
	Pro    float64
}

// ToggleBonus is the weight of one bonus/malus toggle.
type ToggleBonus struct {
	Toggle Toggle
	Weight float64
}

// Tier maps the half-open score range [Low, High) to a message.
// Low may be -Inf and High may be +Inf.
type Tier struct {
	Low      float64
	High     float64
	Display  string
	Severity string
	Color    string
}

// Contains reports whether score falls in [Low, High).
func (t Tier) Contains(score float64) bool {
	return score >= t.Low && score < t.High
}

type tierJSON struct {
	Low      *float64 `json:"low"`
	High     *float64 `json:"high"`
	Display  string   `json:"display"`
	Severity string   `json:"severity"`
	Color    string   `json:"color"`
}

// MarshalJSON encodes infinite bounds as null.
func (t Tier) MarshalJSON() ([]byte, error) {
	return json.Marshal(tierJSON{
		Low:      finiteOrNil(t.Low),
		High:     finiteOrNil(t.High),
		Display:  t.Display,
		Severity: t.Severity,
		Color:    t.Color,
	})
}

// UnmarshalJSON decodes a null low bound as -Inf and a null high bound as +Inf.
func (t *Tier) UnmarshalJSON(data []byte) error {
	var raw tierJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = Tier{
		Low:      math.Inf(-1),
		High:     math.Inf(1),
		Display:  raw.Display,
		Severity: raw.Severity,
		Color:    raw.Color,
	}
	if raw.Low != nil {
		t.Low = *raw.Low
	}
	if raw.High != nil {
		t.High = *raw.High
	}
	return nil
}

func finiteOrNil(v float64) *float64 {
	if math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// JobRule holds the per-job scoring parameters.
type JobRule struct {
	Job     Job
	Name    string
	Ceiling float64
	// Stealth jobs get the reduced zombie penalty while hooded.
	Stealth bool
}

// Tables is the immutable reference data the calculators read from.
type Tables struct {
	Distances map[int]float64
	Buildings map[string]Building
	Campers   map[int]float64
	Nights    map[int]NightPenalty
	Toggles   []ToggleBonus
	// Tiers are ordered by ascending Low.
	Tiers []Tier
	Jobs  map[Job]JobRule
}

// Ceiling returns the score ceiling for job.
func (t *Tables) Ceiling(job Job) float64 {
	if r, ok := t.Jobs[job]; ok {
		return r.Ceiling
	}
	return DefaultCeiling
}

// Stealth reports whether job can use the hood toggle.
func (t *Tables) Stealth(job Job) bool {
	return t.Jobs[job].Stealth
}

// TierFor returns the tier containing score.
//
// Postcondition: For validated tables, returns true for every non-NaN score.
func (t *Tables) TierFor(score float64) (Tier, bool) {
	for _, tier := range t.Tiers {
		if tier.Contains(score) {
			return tier, true
		}
	}
	return Tier{}, false
}

// BuildingsAt returns the buildings that can be found at distance, sorted by name.
func (t *Tables) BuildingsAt(distance int) []Building {
	var out []Building
	for _, b := range t.Buildings {
		if b.Covers(distance) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Validate checks the structural invariants of the tables.
//
// Postcondition: Returns nil if the tables are usable, or an error listing every violation.
func (t *Tables) Validate() error {
	var errs []string

	for d := MinDistance; d <= MaxDistance; d++ {
		if _, ok := t.Distances[d]; !ok {
			errs = append(errs, fmt.Sprintf("distances: missing entry for %d km", d))
		}
	}
	if n := len(t.Distances); n != MaxDistance-MinDistance+1 {
		errs = append(errs, fmt.Sprintf("distances: want %d entries, got %d", MaxDistance-MinDistance+1, n))
	}

	for c := 0; c <= MaxCampers; c++ {
		if _, ok := t.Campers[c]; !ok {
			errs = append(errs, fmt.Sprintf("campers: missing entry for %d", c))
		}
	}

	for n := 1; n <= MaxPreviousNights; n++ {
		p, ok := t.Nights[n]
		if !ok {
			errs = append(errs, fmt.Sprintf("nights: missing entry for %d", n))
			continue
		}
		if p.Count != n {
			errs = append(errs, fmt.Sprintf("nights: entry %d has count %d", n, p.Count))
		}
	}

	seen := make(map[Toggle]bool, len(t.Toggles))
	for _, tb := range t.Toggles {
		if !tb.Toggle.Valid() {
			errs = append(errs, fmt.Sprintf("bonuses: unknown toggle %q", tb.Toggle))
		}
		if seen[tb.Toggle] {
			errs = append(errs, fmt.Sprintf("bonuses: duplicate toggle %q", tb.Toggle))
		}
		seen[tb.Toggle] = true
	}

	for name, b := range t.Buildings {
		if name == "" || name != b.Name {
			errs = append(errs, fmt.Sprintf("buildings: key %q does not match name %q", name, b.Name))
		}
		if !b.Anywhere && b.MinDistance > b.MaxDistance {
			errs = append(errs, fmt.Sprintf("buildings: %q has min_distance %d > max_distance %d", b.Name, b.MinDistance, b.MaxDistance))
		}
	}

	if err := validateTiers(t.Tiers); err != nil {
		errs = append(errs, err.Error())
	}

	for _, j := range []Job{JobHermit, JobScout, JobOther} {
		r, ok := t.Jobs[j]
		if !ok {
			errs = append(errs, fmt.Sprintf("jobs: missing rule for %q", j))
			continue
		}
		if r.Ceiling <= 0 {
			errs = append(errs, fmt.Sprintf("jobs: %q ceiling must be > 0, got %v", j, r.Ceiling))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid camping tables: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateTiers(tiers []Tier) error {
	if len(tiers) == 0 {
		return fmt.Errorf("tiers: table is empty")
	}
	var errs []string
	if !math.IsInf(tiers[0].Low, -1) {
		errs = append(errs, fmt.Sprintf("tiers: first tier must start at -inf, got %v", tiers[0].Low))
	}
	if last := tiers[len(tiers)-1]; !math.IsInf(last.High, 1) {
		errs = append(errs, fmt.Sprintf("tiers: last tier must end at +inf, got %v", last.High))
	}
	for i, tier := range tiers {
		if !(tier.Low < tier.High) {
			errs = append(errs, fmt.Sprintf("tiers: tier %d has empty range [%v, %v)", i, tier.Low, tier.High))
		}
		if i+1 < len(tiers) && tier.High != tiers[i+1].Low {
			errs = append(errs, fmt.Sprintf("tiers: gap or overlap between tier %d and %d (%v != %v)", i, i+1, tier.High, tiers[i+1].Low))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

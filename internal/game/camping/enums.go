// Package camping implements the camping survival calculator: the score
// engine, the defence capacity model and the input validator.
//
// All calculators are pure. Reference tables are passed in explicitly and are
// never mutated, so a single *Tables may be shared across goroutines.
package camping

import "fmt"

// CityType is the kind of town the player belongs to.
type CityType string

const (
	// CityRE is a regular town.
	CityRE CityType = "RE"
	// CityPande is a "pandémonium" town; camping there carries a flat penalty.
	CityPande CityType = "Pandé"
)

// ParseCityType converts s into a CityType.
//
// Postcondition: Returns a known CityType or a non-nil error.
func ParseCityType(s string) (CityType, error) {
	switch CityType(s) {
	case CityRE, CityPande:
		return CityType(s), nil
	}
	return "", fmt.Errorf("unknown city type %q", s)
}

// Job is the citizen's job. It selects the score ceiling and, for the scout,
// enables the hood (stealth) toggle.
type Job string

const (
	JobHermit Job = "ermite"
	JobScout  Job = "capuche"
	JobOther  Job = "autre"
)

// ParseJob converts s into a Job.
//
// Postcondition: Returns a known Job or a non-nil error.
func ParseJob(s string) (Job, error) {
	switch Job(s) {
	case JobHermit, JobScout, JobOther:
		return Job(s), nil
	}
	return "", fmt.Errorf("unknown job %q", s)
}

// Toggle identifies one entry of the bonus/malus table.
type Toggle string

const (
	ToggleTomb        Toggle = "tomb"
	ToggleNight       Toggle = "night"
	ToggleLighthouse  Toggle = "lighthouse"
	ToggleTent        Toggle = "tent"
	ToggleDevastation Toggle = "devastation"
	ToggleHood        Toggle = "hood"
)

// AllToggles lists every toggle the calculator understands.
var AllToggles = []Toggle{
	ToggleTomb,
	ToggleNight,
	ToggleLighthouse,
	ToggleTent,
	ToggleDevastation,
	ToggleHood,
}

// Valid reports whether t is one of AllToggles.
func (t Toggle) Valid() bool {
	for _, known := range AllToggles {
		if t == known {
			return true
		}
	}
	return false
}

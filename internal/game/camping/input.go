package camping

// Input is one evaluation request, rebuilt by the caller on every edit.
// Building is a key into Tables.Buildings (empty means none); PreviousCarry is
// the fractional defence left over from the previous day.
type Input struct {
	CityType       CityType `json:"city_type"`
	Job            Job      `json:"job"`
	PreviousNights int      `json:"previous_nights"`
	Pro            bool     `json:"pro"`
	Distance       int      `json:"distance"`
	Zombies        int      `json:"zombies"`
	Building       string   `json:"building,omitempty"`
	Improvements   int      `json:"improvements"`
	OD             int      `json:"od"`
	PreviousCarry  float64  `json:"previous_carry"`
	Campers        int      `json:"campers"`
	Tent           int      `json:"tent"`
	Tomb           bool     `json:"tomb"`
	Night          bool     `json:"night"`
	Lighthouse     bool     `json:"lighthouse"`
	Hood           bool     `json:"hood"`
	Devastation    bool     `json:"devastation"`
}

// DefaultInput returns the form state a fresh calculator starts from.
func DefaultInput() Input {
	return Input{
		CityType: CityRE,
		Job:      JobOther,
		Distance: 1,
	}
}

// ToggleValue is what an Input holds for one toggle.
type ToggleValue struct {
	// Count is set for numeric toggles (tent); Flag for boolean ones.
	Count   int
	Flag    bool
	Numeric bool
}

// Active reports whether the toggle contributes anything.
func (v ToggleValue) Active() bool {
	if v.Numeric {
		return v.Count != 0
	}
	return v.Flag
}

// Toggle returns the input's value for t.
//
// Postcondition: Unknown toggles return an inactive zero value.
func (in Input) Toggle(t Toggle) ToggleValue {
	switch t {
	case ToggleTomb:
		return ToggleValue{Flag: in.Tomb}
	case ToggleNight:
		return ToggleValue{Flag: in.Night}
	case ToggleLighthouse:
		return ToggleValue{Flag: in.Lighthouse}
	case ToggleTent:
		return ToggleValue{Count: in.Tent, Numeric: true}
	case ToggleDevastation:
		return ToggleValue{Flag: in.Devastation}
	case ToggleHood:
		return ToggleValue{Flag: in.Hood}
	}
	return ToggleValue{}
}

package camping

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Validation messages, as shown next to the offending form field.
const (
	MsgRequired        = "Champ requis"
	MsgInvalidValue    = "Valeur invalide"
	MsgNegative        = "Le nombre ne peut pas être négatif"
	MsgUnknownBuilding = "Bâtiment inconnu"
)

// MsgBetween returns the range message for a bounded numeric field.
func MsgBetween(lo, hi float64) string {
	return fmt.Sprintf("Le nombre doit être compris entre %s et %s", formatBound(lo), formatBound(hi))
}

func formatBound(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d", int(v))
	}
	return fmt.Sprintf("%g", v)
}

// ValidationErrors maps an input field (by its JSON name) to the constraint it violates.
type ValidationErrors map[string]string

// Error lists every violation in field order.
func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+v[f])
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// Validate checks every field of in against its domain. Inputs are never
// coerced: an invalid input must not reach the calculators.
//
// Postcondition: Returns nil or a non-empty ValidationErrors.
func Validate(in Input, t *Tables) error {
	errs := ValidationErrors{}

	switch in.CityType {
	case "":
		errs["city_type"] = MsgRequired
	case CityRE, CityPande:
	default:
		errs["city_type"] = MsgInvalidValue
	}

	switch in.Job {
	case "":
		errs["job"] = MsgRequired
	case JobHermit, JobScout, JobOther:
	default:
		errs["job"] = MsgInvalidValue
	}

	checkInt(errs, "previous_nights", in.PreviousNights, 0, MaxPreviousNights)
	checkInt(errs, "distance", in.Distance, MinDistance, MaxDistance)
	if in.Zombies < 0 {
		errs["zombies"] = MsgNegative
	}
	checkInt(errs, "improvements", in.Improvements, 0, MaxImprovements)
	checkInt(errs, "od", in.OD, 0, MaxOD)
	checkInt(errs, "campers", in.Campers, 0, MaxCampers)
	checkInt(errs, "tent", in.Tent, 0, MaxTent)

	if !(in.PreviousCarry >= 0 && in.PreviousCarry <= MaxPreviousCarry) {
		errs["previous_carry"] = MsgBetween(0, MaxPreviousCarry)
	}

	if in.Building != "" {
		if _, ok := t.Buildings[in.Building]; !ok {
			errs["building"] = MsgUnknownBuilding
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func checkInt(errs ValidationErrors, field string, v, lo, hi int) {
	if v < lo || v > hi {
		errs[field] = MsgBetween(float64(lo), float64(hi))
	}
}

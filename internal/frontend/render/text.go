package render

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/cory-johannsen/campredict/internal/game/camping"
)

// RenderPrediction formats a full prediction: the capped score with its
// overflow, the survival chance, the tier message, the per-source breakdown
// and the defence line.
func RenderPrediction(p camping.Prediction) string {
	var b strings.Builder
	color := SeverityColor(p.Score.Tier.Severity)

	b.WriteString(Colorf(Bold+color, "Score: %.1f / %g", p.Score.Displayed, p.Score.Ceiling))
	b.WriteString(" ")
	b.WriteString(Colorf(Dim, "(%+.1f)", p.Score.Delta))
	b.WriteString("  ")
	b.WriteString(Colorf(color, "Survival: %g%%", p.SurvivalPercent))
	b.WriteString("\n")
	if p.Score.Tier.Display != "" {
		b.WriteString(Colorize(color, p.Score.Tier.Display))
		b.WriteString("\n")
	}

	b.WriteString(Colorize(Cyan, "Breakdown:"))
	b.WriteString("\n")
	c := p.Score.Breakdown
	for _, row := range []struct {
		label string
		value float64
	}{
		{"distance", c.Distance},
		{"zombies", c.Zombies},
		{"od", c.OD},
		{"campers", c.Campers},
		{"improvements", c.Improvements},
		{"previous nights", c.PreviousNights},
		{"building", c.Building},
		{"city type", c.CityType},
		{"bonuses", c.Toggles},
	} {
		if row.value == 0 {
			continue
		}
		b.WriteString(fmt.Sprintf("  %-16s %s\n", row.label, signed(row.value)))
	}
	b.WriteString(fmt.Sprintf("  %-16s %s\n", "raw", Colorf(Bold, "%.1f", camping.Round1(p.Score.Raw))))

	b.WriteString(RenderDefence(p.Defence, false, 0))
	return b.String()
}

func signed(v float64) string {
	s := fmt.Sprintf("%+.1f", v)
	if v < 0 {
		return Colorize(Red, s)
	}
	return Colorize(Green, s)
}

// RenderDefence formats a defence evaluation and, when warned is set, the
// sticky limit warning latched at limit.
func RenderDefence(d camping.Defence, warned bool, limit float64) string {
	var b strings.Builder
	color := BrightWhite
	if d.Current > d.Maximum {
		color = BrightRed
	} else if d.Current >= camping.DefenceWarningThreshold {
		color = Yellow
	}
	b.WriteString(Colorf(color, "Defence: %.1f / %.1f", d.Current, d.Maximum))
	b.WriteString("\n")
	if warned {
		b.WriteString(Colorf(BrightYellow, "Defence limit reached (%.1f): further defence is wasted", limit))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderBuildings formats the buildings available at distance.
func RenderBuildings(distance int, buildings []camping.Building) string {
	if len(buildings) == 0 {
		return Colorf(Dim, "No buildings at %d km.", distance) + "\n"
	}
	var b strings.Builder
	b.WriteString(Colorf(Cyan, "Buildings at %d km:", distance))
	b.WriteString("\n")
	for _, bl := range buildings {
		where := fmt.Sprintf("%d-%d km", bl.MinDistance, bl.MaxDistance)
		if bl.Anywhere {
			where = "anywhere"
		}
		b.WriteString(fmt.Sprintf("  %s%-32s%s %s  %s\n",
			BrightCyan, bl.Name, Reset, signed(bl.Bonus), Colorize(Dim, where)))
	}
	return b.String()
}

// RenderTiers formats the tier table in ascending order.
func RenderTiers(tiers []camping.Tier) string {
	var b strings.Builder
	b.WriteString(Colorize(Cyan, "Survival tiers:"))
	b.WriteString("\n")
	for _, t := range tiers {
		rng := fmt.Sprintf("[%s, %s)", bound(t.Low), bound(t.High))
		b.WriteString(fmt.Sprintf("  %-12s %s%-10s%s %s\n",
			rng, SeverityColor(t.Severity), t.Severity, Reset, t.Display))
	}
	return b.String()
}

func bound(v float64) string {
	switch {
	case math.IsInf(v, -1):
		return "-inf"
	case math.IsInf(v, 1):
		return "+inf"
	default:
		return fmt.Sprintf("%g", v)
	}
}

// RenderValidation lists every field error, sorted by field name.
func RenderValidation(errs camping.ValidationErrors) string {
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var b strings.Builder
	b.WriteString(Colorize(BrightRed, "Invalid input:"))
	b.WriteString("\n")
	for _, f := range fields {
		b.WriteString(fmt.Sprintf("  %s%s%s: %s\n", Bold, f, Reset, Colorize(Red, errs[f])))
	}
	return b.String()
}

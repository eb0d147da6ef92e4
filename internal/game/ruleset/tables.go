package ruleset

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/cory-johannsen/campredict/internal/game/camping"
)

// Content layout below the content root.
const (
	TablesSubdir = "camping"
	JobsSubdir   = "jobs"

	DistancesFile = "distances.yaml"
	BuildingsFile = "buildings.yaml"
	CampersFile   = "campers.yaml"
	NightsFile    = "nights.yaml"
	BonusesFile   = "bonuses.yaml"
	TiersFile     = "tiers.yaml"
)

type distancesDoc struct {
	Distances []struct {
		From  int     `yaml:"from"`
		To    int     `yaml:"to"`
		Bonus float64 `yaml:"bonus"`
	} `yaml:"distances"`
}

type buildingsDoc struct {
	Buildings []struct {
		Name        string  `yaml:"name"`
		Bonus       float64 `yaml:"bonus"`
		MinDistance int     `yaml:"min_distance"`
		MaxDistance int     `yaml:"max_distance"`
		Anywhere    bool    `yaml:"anywhere"`
	} `yaml:"buildings"`
}

type campersDoc struct {
	Campers map[int]float64 `yaml:"campers"`
}

type nightsDoc struct {
	Nights []struct {
		Count  int      `yaml:"count"`
		Novice *float64 `yaml:"novice"`
		Pro    float64  `yaml:"pro"`
	} `yaml:"nights"`
}

type bonusesDoc struct {
	Bonuses []struct {
		Toggle string  `yaml:"toggle"`
		Bonus  float64 `yaml:"bonus"`
	} `yaml:"bonuses"`
}

type tiersDoc struct {
	Tiers []struct {
		Low      *float64 `yaml:"low"`
		High     *float64 `yaml:"high"`
		Display  string   `yaml:"display"`
		Severity string   `yaml:"severity"`
		Color    string   `yaml:"color"`
	} `yaml:"tiers"`
}

// Load reads the complete content tree rooted at root: job definitions from
// root/jobs and the reference tables from root/camping.
//
// Precondition: root must be a readable directory.
// Postcondition: Returns validated tables and the job registry, or a non-nil error.
func Load(root string) (*camping.Tables, *JobRegistry, error) {
	jobs, err := LoadJobs(filepath.Join(root, JobsSubdir))
	if err != nil {
		return nil, nil, err
	}
	reg := NewJobRegistry()
	for _, j := range jobs {
		reg.Register(j)
	}
	tables, err := LoadTables(filepath.Join(root, TablesSubdir), reg)
	if err != nil {
		return nil, nil, err
	}
	return tables, reg, nil
}

// LoadTables reads the reference tables from dir and attaches the job rules of reg.
//
// Precondition: dir must contain every table file; reg must be non-nil.
// Postcondition: Returns tables that pass camping.Tables.Validate, or a non-nil error.
func LoadTables(dir string, reg *JobRegistry) (*camping.Tables, error) {
	if reg == nil {
		panic("ruleset.LoadTables: precondition violated: reg must be non-nil")
	}
	t := &camping.Tables{}

	var dd distancesDoc
	if err := readYAML(filepath.Join(dir, DistancesFile), &dd); err != nil {
		return nil, err
	}
	t.Distances = make(map[int]float64, camping.MaxDistance)
	for _, row := range dd.Distances {
		if row.From > row.To {
			return nil, fmt.Errorf("%s: range %d-%d is inverted", DistancesFile, row.From, row.To)
		}
		for km := row.From; km <= row.To; km++ {
			if _, dup := t.Distances[km]; dup {
				return nil, fmt.Errorf("%s: %d km listed twice", DistancesFile, km)
			}
			t.Distances[km] = row.Bonus
		}
	}

	var bd buildingsDoc
	if err := readYAML(filepath.Join(dir, BuildingsFile), &bd); err != nil {
		return nil, err
	}
	t.Buildings = make(map[string]camping.Building, len(bd.Buildings))
	for _, row := range bd.Buildings {
		if _, dup := t.Buildings[row.Name]; dup {
			return nil, fmt.Errorf("%s: building %q listed twice", BuildingsFile, row.Name)
		}
		t.Buildings[row.Name] = camping.Building{
			Name:        row.Name,
			Bonus:       row.Bonus,
			MinDistance: row.MinDistance,
			MaxDistance: row.MaxDistance,
			Anywhere:    row.Anywhere,
		}
	}

	var cd campersDoc
	if err := readYAML(filepath.Join(dir, CampersFile), &cd); err != nil {
		return nil, err
	}
	t.Campers = cd.Campers

	var nd nightsDoc
	if err := readYAML(filepath.Join(dir, NightsFile), &nd); err != nil {
		return nil, err
	}
	t.Nights = make(map[int]camping.NightPenalty, len(nd.Nights))
	for _, row := range nd.Nights {
		t.Nights[row.Count] = camping.NightPenalty{Count: row.Count, Novice: row.Novice, Pro: row.Pro}
	}

	var bo bonusesDoc
	if err := readYAML(filepath.Join(dir, BonusesFile), &bo); err != nil {
		return nil, err
	}
	for _, row := range bo.Bonuses {
		t.Toggles = append(t.Toggles, camping.ToggleBonus{Toggle: camping.Toggle(row.Toggle), Weight: row.Bonus})
	}

	var td tiersDoc
	if err := readYAML(filepath.Join(dir, TiersFile), &td); err != nil {
		return nil, err
	}
	for _, row := range td.Tiers {
		tier := camping.Tier{
			Low:      math.Inf(-1),
			High:     math.Inf(1),
			Display:  row.Display,
			Severity: row.Severity,
			Color:    row.Color,
		}
		if row.Low != nil {
			tier.Low = *row.Low
		}
		if row.High != nil {
			tier.High = *row.High
		}
		t.Tiers = append(t.Tiers, tier)
	}

	rules, err := reg.Rules()
	if err != nil {
		return nil, err
	}
	t.Jobs = rules

	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("loading tables from %s: %w", dir, err)
	}
	return t, nil
}

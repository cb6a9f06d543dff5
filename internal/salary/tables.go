// internal/salary/tables.go
package salary

import (
	"fmt"
	"strings"

	apperrors "jobmarket-workers/internal/common/errors"
)

// BracketMultiplier is one experience bracket. Order in Tables.Experience is
// seniority order, most junior first.
type BracketMultiplier struct {
	Label      string  `json:"label" yaml:"label" mapstructure:"label"`
	Multiplier float64 `json:"multiplier" yaml:"multiplier" mapstructure:"multiplier"`
}

// Tables holds every constant of the estimate formula. Map keys are matched
// case-insensitively since viper lowercases them on load.
type Tables struct {
	Currency                   string              `json:"currency" yaml:"currency" mapstructure:"currency"`
	Base                       float64             `json:"base" yaml:"base" mapstructure:"base"`
	Experience                 []BracketMultiplier `json:"experience" yaml:"experience" mapstructure:"experience"`
	Locations                  map[string]float64  `json:"locations" yaml:"locations" mapstructure:"locations"`
	SkillBonuses               map[string]float64  `json:"skillBonuses" yaml:"skill_bonuses" mapstructure:"skill_bonuses"`
	DefaultSkillBonus          float64             `json:"defaultSkillBonus" yaml:"default_skill_bonus" mapstructure:"default_skill_bonus"`
	SpecializationThreshold    int                 `json:"specializationThreshold" yaml:"specialization_threshold" mapstructure:"specialization_threshold"`
	SpecializationMultiplier   float64             `json:"specializationMultiplier" yaml:"specialization_multiplier" mapstructure:"specialization_multiplier"`
	HighDemandSkills           []string            `json:"highDemandSkills" yaml:"high_demand_skills" mapstructure:"high_demand_skills"`
	SeniorHighDemandMultiplier float64             `json:"seniorHighDemandMultiplier" yaml:"senior_high_demand_multiplier" mapstructure:"senior_high_demand_multiplier"`
	RoundingGranularity        float64             `json:"roundingGranularity" yaml:"rounding_granularity" mapstructure:"rounding_granularity"`
}

// Validate reports malformed tables as INVALID_CONFIGURATION.
func (t Tables) Validate() error {
	var problems []string

	if t.Base <= 0 {
		problems = append(problems, "base must be positive")
	}
	if t.RoundingGranularity <= 0 {
		problems = append(problems, "rounding_granularity must be positive")
	}
	if t.DefaultSkillBonus < 0 {
		problems = append(problems, "default_skill_bonus must not be negative")
	}
	if t.SpecializationThreshold < 0 {
		problems = append(problems, "specialization_threshold must not be negative")
	}
	if t.SpecializationMultiplier <= 0 {
		problems = append(problems, "specialization_multiplier must be positive")
	}
	if t.SeniorHighDemandMultiplier <= 0 {
		problems = append(problems, "senior_high_demand_multiplier must be positive")
	}

	seen := make(map[string]bool, len(t.Experience))
	for i, b := range t.Experience {
		label := strings.TrimSpace(b.Label)
		switch {
		case label == "":
			problems = append(problems, fmt.Sprintf("experience[%d] has no label", i))
		case seen[label]:
			problems = append(problems, fmt.Sprintf("duplicate experience bracket %q", label))
		}
		seen[label] = true

		if b.Multiplier <= 0 {
			problems = append(problems, fmt.Sprintf("experience %q multiplier must be positive", label))
		}
		if i > 0 && b.Multiplier <= t.Experience[i-1].Multiplier {
			problems = append(problems, fmt.Sprintf("experience %q multiplier must exceed %q", label, t.Experience[i-1].Label))
		}
	}

	for name, m := range t.Locations {
		if m <= 0 {
			problems = append(problems, fmt.Sprintf("location %q multiplier must be positive", name))
		}
	}
	for name, bonus := range t.SkillBonuses {
		if bonus < 0 {
			problems = append(problems, fmt.Sprintf("skill %q bonus must not be negative", name))
		}
	}

	if len(problems) > 0 {
		return apperrors.NewInvalidConfigurationError("salary tables: " + strings.Join(problems, "; "))
	}
	return nil
}

// UKTables are the reference values of the UK predictor, in GBP.
func UKTables() Tables {
	return Tables{
		Currency: "GBP",
		Base:     28000,
		Experience: []BracketMultiplier{
			{Label: "Graduate (0-1 yrs)", Multiplier: 1},
			{Label: "Junior (1-3 yrs)", Multiplier: 1.35},
			{Label: "Mid-level (3-5 yrs)", Multiplier: 1.85},
			{Label: "Senior (5-8 yrs)", Multiplier: 2.4},
			{Label: "Lead (8+ yrs)", Multiplier: 2.9},
		},
		Locations: map[string]float64{
			"London":     1.4,
			"Manchester": 1.05,
			"Birmingham": 0.95,
			"Bristol":    1.1,
			"Edinburgh":  1.0,
			"Glasgow":    0.95,
			"Leeds":      0.95,
			"Remote":     1.05,
			"Other":      1.0,
		},
		SkillBonuses: map[string]float64{
			"Python":           3500,
			"Go":               4500,
			"Rust":             5500,
			"Machine Learning": 7000,
			"AWS":              5000,
			"Kubernetes":       4500,
			"DevOps":           4000,
			"Data Science":     6000,
			"TypeScript":       3000,
			"Java":             2500,
			"React":            2000,
			"Node.js":          2500,
		},
		DefaultSkillBonus:          1500,
		SpecializationThreshold:    3,
		SpecializationMultiplier:   1.12,
		HighDemandSkills:           []string{"Machine Learning", "Kubernetes", "Go", "Rust"},
		SeniorHighDemandMultiplier: 1.08,
		RoundingGranularity:        500,
	}
}

// USTables is the USD variant. Brackets and thresholds match the UK tables;
// base, locations and bonuses follow the US fixture medians.
func USTables() Tables {
	t := UKTables()
	t.Currency = "USD"
	t.Base = 65000
	t.Experience = []BracketMultiplier{
		{Label: "Graduate (0-1 yrs)", Multiplier: 1},
		{Label: "Junior (1-3 yrs)", Multiplier: 1.3},
		{Label: "Mid-level (3-5 yrs)", Multiplier: 1.75},
		{Label: "Senior (5-8 yrs)", Multiplier: 2.25},
		{Label: "Lead (8+ yrs)", Multiplier: 2.7},
	}
	t.Locations = map[string]float64{
		"San Francisco": 1.45,
		"Seattle":       1.3,
		"New York":      1.35,
		"Boston":        1.2,
		"Austin":        1.1,
		"Denver":        1.05,
		"Chicago":       1.05,
		"Remote":        1.1,
		"Other":         1.0,
	}
	t.SkillBonuses = map[string]float64{
		"Python":           6000,
		"Go":               8000,
		"Rust":             9500,
		"Machine Learning": 12000,
		"AWS":              8500,
		"Kubernetes":       8000,
		"DevOps":           7000,
		"Data Science":     10000,
		"TypeScript":       5000,
		"Java":             4500,
		"React":            3500,
		"Node.js":          4500,
	}
	t.DefaultSkillBonus = 2500
	t.RoundingGranularity = 1000
	return t
}

// TablesFor returns the built-in tables for a region code ("uk", "us").
func TablesFor(region string) (Tables, bool) {
	switch strings.ToLower(strings.TrimSpace(region)) {
	case "uk", "gb":
		return UKTables(), true
	case "us", "usa":
		return USTables(), true
	}
	return Tables{}, false
}

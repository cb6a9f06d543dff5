// Package salary turns an experience bracket, a location and a skill set into
// a single annual salary estimate using a fixed formula over injected tables.
package salary

import (
	"math"
	"strings"

	"jobmarket-workers/internal/models"
)

// Breakdown records every intermediate value of one estimate.
type Breakdown struct {
	Base                 float64 `json:"base"`
	ExperienceMultiplier float64 `json:"experienceMultiplier"`
	AfterExperience      float64 `json:"afterExperience"`
	LocationMultiplier   float64 `json:"locationMultiplier"`
	AfterLocation        float64 `json:"afterLocation"`
	SkillCount           int     `json:"skillCount"`
	SkillBonus           float64 `json:"skillBonus"`
	AfterSkills          float64 `json:"afterSkills"`
	Specialized          bool    `json:"specialized"`
	SeniorPremium        bool    `json:"seniorPremium"`
	Raw                  float64 `json:"raw"`
	Rounded              float64 `json:"rounded"`
}

// Estimator is read-only after construction and safe for concurrent use.
type Estimator struct {
	tables      Tables
	experience  map[string]int
	multipliers []float64
	locations   map[string]float64
	bonuses     map[string]float64
	highDemand  map[string]bool
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NewEstimator validates tables and indexes them for lookup. The caller's
// maps are copied.
func NewEstimator(tables Tables) (*Estimator, error) {
	if err := tables.Validate(); err != nil {
		return nil, err
	}

	e := &Estimator{
		tables:      tables,
		experience:  make(map[string]int, len(tables.Experience)),
		multipliers: make([]float64, len(tables.Experience)),
		locations:   make(map[string]float64, len(tables.Locations)),
		bonuses:     make(map[string]float64, len(tables.SkillBonuses)),
		highDemand:  make(map[string]bool, len(tables.HighDemandSkills)),
	}
	for i, b := range tables.Experience {
		e.experience[normalize(b.Label)] = i
		e.multipliers[i] = b.Multiplier
	}
	for name, m := range tables.Locations {
		e.locations[normalize(name)] = m
	}
	for name, bonus := range tables.SkillBonuses {
		e.bonuses[normalize(name)] = bonus
	}
	for _, s := range tables.HighDemandSkills {
		e.highDemand[normalize(s)] = true
	}

	e.tables.Experience = append([]BracketMultiplier(nil), tables.Experience...)
	e.tables.Locations = nil
	e.tables.SkillBonuses = nil
	e.tables.HighDemandSkills = nil
	return e, nil
}

func (e *Estimator) Currency() string { return e.tables.Currency }

// Brackets lists the experience labels in seniority order.
func (e *Estimator) Brackets() []string {
	out := make([]string, len(e.tables.Experience))
	for i, b := range e.tables.Experience {
		out[i] = b.Label
	}
	return out
}

// isSenior reports whether the bracket index is one of the two most senior.
func (e *Estimator) isSenior(idx int) bool {
	return idx >= len(e.multipliers)-2
}

// Breakdown runs the formula step by step. Unknown experience and location
// labels get a neutral 1.0; unknown skills get DefaultSkillBonus.
func (e *Estimator) Breakdown(input models.PredictionInput) Breakdown {
	t := e.tables
	b := Breakdown{Base: t.Base, ExperienceMultiplier: 1, LocationMultiplier: 1}
	running := t.Base

	seniorIdx := -1
	if exp := normalize(input.Experience); exp != "" {
		if idx, ok := e.experience[exp]; ok {
			b.ExperienceMultiplier = e.multipliers[idx]
			seniorIdx = idx
		}
		running *= b.ExperienceMultiplier
	}
	b.AfterExperience = running

	if loc := normalize(input.Location); loc != "" {
		if m, ok := e.locations[loc]; ok {
			b.LocationMultiplier = m
		}
		running *= b.LocationMultiplier
	}
	b.AfterLocation = running

	hasHighDemand := false
	seen := make(map[string]bool)
	for _, skill := range input.SkillSet() {
		key := normalize(skill)
		if seen[key] {
			continue
		}
		seen[key] = true

		bonus, ok := e.bonuses[key]
		if !ok {
			bonus = t.DefaultSkillBonus
		}
		b.SkillBonus += bonus
		if e.highDemand[key] {
			hasHighDemand = true
		}
	}
	b.SkillCount = len(seen)
	running += b.SkillBonus
	b.AfterSkills = running

	if b.SkillCount > t.SpecializationThreshold {
		running *= t.SpecializationMultiplier
		b.Specialized = true
	}

	if seniorIdx >= 0 && e.isSenior(seniorIdx) && hasHighDemand {
		running *= t.SeniorHighDemandMultiplier
		b.SeniorPremium = true
	}

	b.Raw = running
	b.Rounded = RoundHalfUp(running, t.RoundingGranularity)
	return b
}

// Estimate returns the rounded predicted salary.
func (e *Estimator) Estimate(input models.PredictionInput) float64 {
	return e.Breakdown(input).Rounded
}

// RoundHalfUp rounds x to the nearest multiple of granularity; exact halves
// go up.
func RoundHalfUp(x, granularity float64) float64 {
	return math.Floor(x/granularity+0.5) * granularity
}

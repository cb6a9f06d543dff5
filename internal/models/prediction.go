// internal/models/prediction.go
package models

import "strings"

type PredictionInput struct {
	Experience string   `json:"experience,omitempty"`
	Location   string   `json:"location,omitempty"`
	Skills     []string `json:"skills,omitempty"`
}

// SkillSet returns the distinct, non-blank skills in first-seen order.
func (p PredictionInput) SkillSet() []string {
	seen := make(map[string]bool, len(p.Skills))
	out := make([]string, 0, len(p.Skills))
	for _, s := range p.Skills {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

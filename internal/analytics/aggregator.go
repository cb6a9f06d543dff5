// Package analytics derives display-ready metrics (percentages, normalised
// ratios, rankings, filtered views) from snapshot record collections.
//
// Every function here is pure: inputs are never mutated and no state is
// kept between calls.
package analytics

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	apperrors "jobmarket-workers/internal/common/errors"
	"jobmarket-workers/internal/models"
)

// Direction selects the ordering used by Rank.
type Direction int

const (
	Descending Direction = iota
	Ascending
)

func (d Direction) String() string {
	if d == Ascending {
		return "asc"
	}
	return "desc"
}

// ParseDirection accepts "asc"/"ascending" and "desc"/"descending"; the empty
// string means Descending.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "desc", "descending":
		return Descending, nil
	case "asc", "ascending":
		return Ascending, nil
	}
	return Descending, apperrors.NewInvalidConfigurationError(fmt.Sprintf("unknown sort direction %q", s))
}

func (d Direction) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Direction) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDirection(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// PercentageOf returns value/total*100. When total is not positive it returns
// (0, false) so callers can render a no-data state instead of dividing.
func PercentageOf(value, total float64) (float64, bool) {
	if total <= 0 {
		return 0, false
	}
	return value / total * 100, true
}

// NormalizedRatio expresses each record's key as a percentage of the largest
// key in the collection. The maximum record maps to exactly 100. If no record
// has a positive key every ratio is 0.
func NormalizedRatio[T any](records []T, key func(T) float64) []float64 {
	ratios := make([]float64, len(records))

	var max float64
	for _, r := range records {
		if v := key(r); v > max {
			max = v
		}
	}
	if max <= 0 {
		return ratios
	}

	for i, r := range records {
		v := key(r)
		if v == max {
			ratios[i] = 100
			continue
		}
		ratios[i] = v / max * 100
	}
	return ratios
}

// Rank returns a reordered copy of records. Ties keep their original order.
func Rank[T any](records []T, key func(T) float64, dir Direction) []T {
	out := make([]T, len(records))
	copy(out, records)

	sort.SliceStable(out, func(i, j int) bool {
		if dir == Ascending {
			return key(out[i]) < key(out[j])
		}
		return key(out[i]) > key(out[j])
	})
	return out
}

// FilterBySubstring keeps records whose name contains query, ignoring case.
// A blank query returns records itself; no match yields an empty slice.
func FilterBySubstring[T any](records []T, name func(T) string, query string) []T {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return records
	}

	out := make([]T, 0, len(records))
	for _, r := range records {
		if strings.Contains(strings.ToLower(name(r)), q) {
			out = append(out, r)
		}
	}
	return out
}

// CategoryShare is one remote-work category with its share of the snapshot total.
type CategoryShare struct {
	Label      models.RemoteWorkLabel `json:"label"`
	Count      int                    `json:"count"`
	Percentage float64                `json:"percentage"`
}

// DistributionPercentages computes count/sum(counts)*100 per category, in
// input order. A zero sum yields 0 for every category.
func DistributionPercentages(categories []models.RemoteWorkCategory) []CategoryShare {
	var total int
	for _, c := range categories {
		total += c.Count
	}

	shares := make([]CategoryShare, len(categories))
	for i, c := range categories {
		pct, _ := PercentageOf(float64(c.Count), float64(total))
		shares[i] = CategoryShare{Label: c.Label, Count: c.Count, Percentage: pct}
	}
	return shares
}

// Leader returns the first record of Rank(records, key, dir). It is for
// callers that need an element; an empty collection is a usage error.
func Leader[T any](records []T, key func(T) float64, dir Direction) (T, error) {
	var zero T
	if len(records) == 0 {
		return zero, apperrors.NewInvalidConfigurationError("cannot rank an empty collection")
	}
	return Rank(records, key, dir)[0], nil
}

// RequireRanked is Rank for callers that cannot render an empty list.
func RequireRanked[T any](records []T, key func(T) float64, dir Direction) ([]T, error) {
	if len(records) == 0 {
		return nil, apperrors.NewInvalidConfigurationError("cannot rank an empty collection")
	}
	return Rank(records, key, dir), nil
}

// RequireMatch is FilterBySubstring for callers that need at least one result.
func RequireMatch[T any](records []T, name func(T) string, query string) ([]T, error) {
	out := FilterBySubstring(records, name, query)
	if len(out) == 0 {
		return nil, apperrors.NewInvalidConfigurationError(fmt.Sprintf("no records match %q", query))
	}
	return out, nil
}

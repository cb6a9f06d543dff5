package salary

import (
	"fmt"
	"sort"
	"strings"
)

// BuiltinRegions are the region codes with compiled-in tables.
var BuiltinRegions = []string{"uk", "us"}

// Regional holds one estimator per lower-case region code.
type Regional map[string]*Estimator

// NewRegional builds estimators for the built-in regions, then applies
// overrides. An override replaces a region's tables wholesale and may add
// regions that have no built-in tables.
func NewRegional(overrides map[string]Tables) (Regional, error) {
	out := make(Regional, len(BuiltinRegions)+len(overrides))
	for _, region := range BuiltinRegions {
		tables, _ := TablesFor(region)
		est, err := NewEstimator(tables)
		if err != nil {
			return nil, fmt.Errorf("built-in %s tables: %w", region, err)
		}
		out[region] = est
	}

	for region, tables := range overrides {
		est, err := NewEstimator(tables)
		if err != nil {
			return nil, fmt.Errorf("estimator tables for %s: %w", region, err)
		}
		out[strings.ToLower(strings.TrimSpace(region))] = est
	}
	return out, nil
}

// For returns the estimator for region, matched case-insensitively.
func (r Regional) For(region string) (*Estimator, bool) {
	est, ok := r[strings.ToLower(strings.TrimSpace(region))]
	return est, ok
}

func (r Regional) Regions() []string {
	out := make([]string, 0, len(r))
	for region := range r {
		out = append(out, region)
	}
	sort.Strings(out)
	return out
}

package analytics

import (
	"fmt"

	apperrors "jobmarket-workers/internal/common/errors"
	"jobmarket-workers/internal/models"
)

// Operation names one aggregation understood by Aggregate.
type Operation string

const (
	OpPercentage   Operation = "percentage"
	OpNormalized   Operation = "normalized"
	OpRank         Operation = "rank"
	OpFilter       Operation = "filter"
	OpDistribution Operation = "distribution"
)

// Row is the dataset-neutral shape Aggregate works on.
type Row struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

type Params struct {
	// Key selects the measure: "value" (default) or "count".
	Key       string    `json:"key,omitempty"`
	Direction Direction `json:"direction,omitempty"`
	Query     string    `json:"query,omitempty"`
	Limit     int       `json:"limit,omitempty"`
	// Total overrides the denominator for OpPercentage; zero means the sum of keys.
	Total float64 `json:"total,omitempty"`
}

type ViewRow struct {
	Name       string  `json:"name"`
	Value      float64 `json:"value"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage,omitempty"`
	Rank       int     `json:"rank,omitempty"`
}

type View struct {
	Operation Operation `json:"operation"`
	Rows      []ViewRow `json:"rows"`
	NoData    bool      `json:"noData,omitempty"`
}

func keyFunc(key string) (func(Row) float64, error) {
	switch key {
	case "", "value":
		return func(r Row) float64 { return r.Value }, nil
	case "count":
		return func(r Row) float64 { return float64(r.Count) }, nil
	}
	return nil, apperrors.NewInvalidConfigurationError(fmt.Sprintf("unknown aggregation key %q", key))
}

func toViewRows(rows []Row) []ViewRow {
	out := make([]ViewRow, len(rows))
	for i, r := range rows {
		out[i] = ViewRow{Name: r.Name, Value: r.Value, Count: r.Count}
	}
	return out
}

// Aggregate applies one operation to records and returns annotated rows.
// The input slice is never modified.
func Aggregate(records []Row, op Operation, params Params) (View, error) {
	key, err := keyFunc(params.Key)
	if err != nil {
		return View{}, err
	}

	view := View{Operation: op}

	switch op {
	case OpPercentage:
		total := params.Total
		if total <= 0 {
			for _, r := range records {
				total += key(r)
			}
		}
		view.Rows = toViewRows(records)
		for i, r := range records {
			pct, ok := PercentageOf(key(r), total)
			view.Rows[i].Percentage = pct
			view.NoData = !ok
		}
		if len(records) == 0 {
			view.NoData = true
		}

	case OpNormalized:
		ratios := NormalizedRatio(records, key)
		view.Rows = toViewRows(records)
		for i := range view.Rows {
			view.Rows[i].Percentage = ratios[i]
		}

	case OpRank:
		view.Rows = toViewRows(Rank(records, key, params.Direction))
		for i := range view.Rows {
			view.Rows[i].Rank = i + 1
		}

	case OpFilter:
		view.Rows = toViewRows(FilterBySubstring(records, func(r Row) string { return r.Name }, params.Query))

	case OpDistribution:
		var total float64
		for _, r := range records {
			total += key(r)
		}
		view.Rows = toViewRows(records)
		for i, r := range records {
			view.Rows[i].Percentage, _ = PercentageOf(key(r), total)
		}
		view.NoData = total <= 0

	default:
		return View{}, apperrors.NewInvalidConfigurationError(fmt.Sprintf("unknown aggregation operation %q", op))
	}

	view.Rows = truncate(view.Rows, params.Limit)
	return view, nil
}

// ==========================
// Dataset adapters
// ==========================

func LanguageRows(records []models.LanguageSalaryRecord) []Row {
	rows := make([]Row, len(records))
	for i, r := range records {
		rows[i] = Row{Name: r.Name, Value: r.MedianSalary, Count: r.SampleCount}
	}
	return rows
}

func LocationRows(records []models.LocationRecord) []Row {
	rows := make([]Row, len(records))
	for i, r := range records {
		rows[i] = Row{Name: r.Country, Value: r.MedianSalary, Count: r.JobCount}
	}
	return rows
}

func ExperienceRows(brackets []models.ExperienceBracket) []Row {
	rows := make([]Row, len(brackets))
	for i, b := range brackets {
		rows[i] = Row{Name: b.Level, Value: b.Salary}
	}
	return rows
}

// RemoteRows puts the category count in both Value and Count so either key
// selects it.
func RemoteRows(categories []models.RemoteWorkCategory) []Row {
	rows := make([]Row, len(categories))
	for i, c := range categories {
		rows[i] = Row{Name: string(c.Label), Value: float64(c.Count), Count: c.Count}
	}
	return rows
}

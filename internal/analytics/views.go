package analytics

import (
	"math"
	"sort"

	"jobmarket-workers/internal/models"
)

const (
	DefaultChartLimit = 8
	DefaultROILimit   = 10
)

// ViewState is the presentation layer's search/sort/limit selection. It is
// owned by the caller and passed into the builders; nothing here keeps it.
type ViewState struct {
	Query     string    `json:"query,omitempty"`
	Direction Direction `json:"sort,omitempty"`
	Limit     int       `json:"limit,omitempty"`
}

func limitOf(state ViewState, def int) int {
	if state.Limit > 0 {
		return state.Limit
	}
	return def
}

func truncate[T any](rows []T, n int) []T {
	if n > 0 && len(rows) > n {
		return rows[:n]
	}
	return rows
}

// ==========================
// Languages
// ==========================

type LanguageBar struct {
	Rank         int     `json:"rank"`
	Name         string  `json:"name"`
	MedianSalary float64 `json:"medianSalary"`
	SampleCount  int     `json:"sampleCount"`
	Ratio        float64 `json:"ratio"`
}

type LanguageChart struct {
	Bars         []LanguageBar `json:"bars"`
	TotalReports int           `json:"totalReports"`
	Matched      int           `json:"matched"`
}

// BuildLanguageChart ranks languages by median salary over the whole
// snapshot, annotates rank and bar ratio, then applies the query and limit.
// TotalReports always covers the whole snapshot.
func BuildLanguageChart(records []models.LanguageSalaryRecord, state ViewState) LanguageChart {
	median := func(r models.LanguageSalaryRecord) float64 { return r.MedianSalary }

	ranked := Rank(records, median, state.Direction)
	ratios := NormalizedRatio(ranked, median)

	bars := make([]LanguageBar, len(ranked))
	total := 0
	for i, r := range ranked {
		total += r.SampleCount
		bars[i] = LanguageBar{
			Rank:         i + 1,
			Name:         r.Name,
			MedianSalary: r.MedianSalary,
			SampleCount:  r.SampleCount,
			Ratio:        ratios[i],
		}
	}

	matched := FilterBySubstring(bars, func(b LanguageBar) string { return b.Name }, state.Query)
	return LanguageChart{
		Bars:         truncate(matched, limitOf(state, DefaultChartLimit)),
		TotalReports: total,
		Matched:      len(matched),
	}
}

// ==========================
// Locations
// ==========================

type LocationRow struct {
	Rank         int     `json:"rank"`
	Country      string  `json:"country"`
	MedianSalary float64 `json:"medianSalary"`
	JobCount     int     `json:"jobCount"`
	PercentOfMax float64 `json:"percentOfMax"`
	// Whole-number label shown next to the bar ("87% of max").
	PercentLabel int `json:"percentLabel"`
}

// BuildLocationBreakdown mirrors BuildLanguageChart for locations. Rank 1 is
// the top location of the whole snapshot even when a query hides it.
func BuildLocationBreakdown(records []models.LocationRecord, state ViewState) []LocationRow {
	median := func(r models.LocationRecord) float64 { return r.MedianSalary }

	ranked := Rank(records, median, state.Direction)
	ratios := NormalizedRatio(ranked, median)

	rows := make([]LocationRow, len(ranked))
	for i, r := range ranked {
		rows[i] = LocationRow{
			Rank:         i + 1,
			Country:      r.Country,
			MedianSalary: r.MedianSalary,
			JobCount:     r.JobCount,
			PercentOfMax: ratios[i],
			PercentLabel: int(math.Round(ratios[i])),
		}
	}

	rows = FilterBySubstring(rows, func(r LocationRow) string { return r.Country }, state.Query)
	return truncate(rows, state.Limit)
}

// ==========================
// Remote work
// ==========================

type RemoteBreakdown struct {
	Shares []CategoryShare `json:"shares"`
	Total  int             `json:"total"`
	NoData bool            `json:"noData"`
}

func BuildRemoteBreakdown(categories []models.RemoteWorkCategory) RemoteBreakdown {
	total := 0
	for _, c := range categories {
		total += c.Count
	}
	return RemoteBreakdown{
		Shares: DistributionPercentages(categories),
		Total:  total,
		NoData: total == 0,
	}
}

// ==========================
// Career progression
// ==========================

type CareerStep struct {
	Position int     `json:"position"`
	Level    string  `json:"level"`
	Salary   float64 `json:"salary"`
	// GrowthPercent is the rise over the previous bracket; HasGrowth is false
	// for the first bracket and when the previous salary is zero.
	GrowthPercent float64 `json:"growthPercent"`
	HasGrowth     bool    `json:"hasGrowth"`
	Progress      float64 `json:"progress"`
	LargestJump   bool    `json:"largestJump"`
}

// BuildCareerProgression keeps bracket order and flags the step with the
// largest growth (first one wins ties).
func BuildCareerProgression(brackets []models.ExperienceBracket) []CareerStep {
	steps := make([]CareerStep, len(brackets))
	best := -1

	for i, b := range brackets {
		progress, _ := PercentageOf(float64(i+1), float64(len(brackets)))
		steps[i] = CareerStep{
			Position: i + 1,
			Level:    b.Level,
			Salary:   b.Salary,
			Progress: progress,
		}
		if i == 0 {
			continue
		}

		prev := brackets[i-1].Salary
		growth, ok := PercentageOf(b.Salary-prev, prev)
		steps[i].GrowthPercent = growth
		steps[i].HasGrowth = ok
		if ok && (best < 0 || growth > steps[best].GrowthPercent) {
			best = i
		}
	}

	if best >= 0 {
		steps[best].LargestJump = true
	}
	return steps
}

// ==========================
// Skill ROI
// ==========================

type SkillScore struct {
	Name             string  `json:"name"`
	MedianSalary     float64 `json:"medianSalary"`
	DemandPercentage float64 `json:"demandPercentage"`
	ROIScore         float64 `json:"roiScore"`
	RelativeToTop    float64 `json:"relativeToTop"`
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }

// BuildSkillROI scores each language as median*demand%/10000, where demand%
// is its share of all sample counts, and returns the top scores first.
func BuildSkillROI(records []models.LanguageSalaryRecord, limit int) []SkillScore {
	total := 0
	for _, r := range records {
		total += r.SampleCount
	}

	scores := make([]SkillScore, len(records))
	for i, r := range records {
		demand, _ := PercentageOf(float64(r.SampleCount), float64(total))
		demand = round1(demand)
		scores[i] = SkillScore{
			Name:             r.Name,
			MedianSalary:     r.MedianSalary,
			DemandPercentage: demand,
			ROIScore:         round2(r.MedianSalary * demand / 10000),
		}
	}

	scores = Rank(scores, func(s SkillScore) float64 { return s.ROIScore }, Descending)
	if limit <= 0 {
		limit = DefaultROILimit
	}
	scores = truncate(scores, limit)

	top := 1.0
	if len(scores) > 0 && scores[0].ROIScore > 0 {
		top = scores[0].ROIScore
	}
	for i := range scores {
		scores[i].RelativeToTop = scores[i].ROIScore / top * 100
	}
	return scores
}

// ==========================
// Emerging technologies and market insights
// ==========================

type EmergingTech struct {
	Name   string  `json:"name"`
	Growth float64 `json:"growth"`
	Salary float64 `json:"salary"`
	Demand string  `json:"demand"`
}

// BuildEmergingTechnologies flattens the technology map, fastest growth
// first with names breaking ties.
func BuildEmergingTechnologies(techs map[string]models.EmergingTechnology) []EmergingTech {
	out := make([]EmergingTech, 0, len(techs))
	for name, info := range techs {
		out = append(out, EmergingTech{Name: name, Growth: info.Growth, Salary: info.Salary, Demand: info.Demand})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Growth != out[j].Growth {
			return out[i].Growth > out[j].Growth
		}
		return out[i].Name < out[j].Name
	})
	return out
}

type Prediction struct {
	Metric string  `json:"metric"`
	Value  float64 `json:"value"`
}

type MarketInsights struct {
	SalaryTrends []models.SalaryTrend `json:"salaryTrends"`
	Predictions  []Prediction         `json:"predictions"`
}

// BuildMarketInsights orders salary trends by year and lists predictions by
// metric name. The snapshot is not modified.
func BuildMarketInsights(p models.Predictions) MarketInsights {
	trends := make([]models.SalaryTrend, len(p.SalaryTrends))
	copy(trends, p.SalaryTrends)
	sort.SliceStable(trends, func(i, j int) bool { return trends[i].Year < trends[j].Year })

	predictions := make([]Prediction, 0, len(p.MarketPredictions))
	for metric, v := range p.MarketPredictions {
		predictions = append(predictions, Prediction{Metric: metric, Value: v})
	}
	sort.Slice(predictions, func(i, j int) bool { return predictions[i].Metric < predictions[j].Metric })

	return MarketInsights{SalaryTrends: trends, Predictions: predictions}
}

// ==========================
// Summary
// ==========================

// Summarize recomputes the headline cards from the snapshot's own arrays
// rather than trusting its pre-baked summary block. Currency is carried over.
func Summarize(snapshot *models.Snapshot) models.Summary {
	langs := snapshot.Analytics.LanguageSalary
	summary := models.Summary{Currency: snapshot.Summary.Currency}

	var medianSum float64
	for _, l := range langs {
		summary.TotalRespondents += l.SampleCount
		medianSum += l.MedianSalary
	}
	if len(langs) > 0 {
		summary.AverageSalary = math.Trunc(medianSum / float64(len(langs)))
	}

	if top, err := Leader(langs, func(l models.LanguageSalaryRecord) float64 { return l.MedianSalary }, Descending); err == nil {
		summary.TopTechnology = top.Name
	}

	for _, share := range DistributionPercentages(snapshot.Analytics.RemoteWorkStats) {
		if share.Label == models.FullyRemote {
			summary.RemotePercentage = share.Percentage
			break
		}
	}
	return summary
}

// Dashboard bundles every derived view for one snapshot.
type Dashboard struct {
	Region      string          `json:"region"`
	Summary     models.Summary  `json:"summary"`
	Languages   LanguageChart   `json:"languages"`
	Locations   []LocationRow   `json:"locations"`
	Remote      RemoteBreakdown `json:"remote"`
	Career      []CareerStep    `json:"career"`
	SkillROI    []SkillScore    `json:"skillRoi"`
	Emerging    []EmergingTech  `json:"emergingTechnologies"`
	Insights    MarketInsights  `json:"marketInsights"`
	LastUpdated string          `json:"lastUpdated,omitempty"`
}

func BuildDashboard(region string, snapshot *models.Snapshot, state ViewState) Dashboard {
	a := snapshot.Analytics
	return Dashboard{
		Region:      region,
		Summary:     Summarize(snapshot),
		Languages:   BuildLanguageChart(a.LanguageSalary, state),
		Locations:   BuildLocationBreakdown(a.LocationSalary, state),
		Remote:      BuildRemoteBreakdown(a.RemoteWorkStats),
		Career:      BuildCareerProgression(a.ExperienceSalary),
		SkillROI:    BuildSkillROI(a.LanguageSalary, DefaultROILimit),
		Emerging:    BuildEmergingTechnologies(snapshot.Recommendations.EmergingTechnologies),
		Insights:    BuildMarketInsights(snapshot.Predictions),
		LastUpdated: snapshot.Metadata.LastUpdated,
	}
}

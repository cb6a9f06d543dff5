// internal/models/market.go
package models

type LanguageSalaryRecord struct {
	Name         string  `json:"LanguageWorkedWith"`
	MedianSalary float64 `json:"median"`
	SampleCount  int     `json:"count"`
}

type LocationRecord struct {
	Country      string  `json:"Country"`
	MedianSalary float64 `json:"median"`
	JobCount     int     `json:"count"`
}

// ExperienceBracket is one tier of a dataset's career ladder. Slices of
// brackets are ordered from least to most senior.
type ExperienceBracket struct {
	Level  string  `json:"level"`
	Salary float64 `json:"salary"`
}

type RemoteWorkLabel string

const (
	FullyRemote RemoteWorkLabel = "Fully remote"
	Hybrid      RemoteWorkLabel = "Hybrid"
	Office      RemoteWorkLabel = "Office"
)

// Valid reports whether the label is one of the three known work modes.
func (l RemoteWorkLabel) Valid() bool {
	switch l {
	case FullyRemote, Hybrid, Office:
		return true
	}
	return false
}

type RemoteWorkCategory struct {
	Label RemoteWorkLabel `json:"index"`
	Count int             `json:"count"`
}

type ROISkill struct {
	Name             string  `json:"LanguageWorkedWith"`
	MedianSalary     float64 `json:"median"`
	DemandPercentage float64 `json:"demand_percentage"`
	ROIScore         float64 `json:"roi_score"`
}

type EmergingTechnology struct {
	Growth float64 `json:"growth"`
	Salary float64 `json:"salary"`
	Demand string  `json:"demand"`
}

type SalaryTrend struct {
	Year             int     `json:"year"`
	AverageSalary    float64 `json:"average_salary"`
	RemotePercentage float64 `json:"remote_percentage"`
}

type Summary struct {
	TotalRespondents int     `json:"total_respondents"`
	AverageSalary    float64 `json:"average_salary"`
	TopTechnology    string  `json:"top_technology"`
	RemotePercentage float64 `json:"remote_percentage"`
	Currency         string  `json:"currency"`
}

type Metadata struct {
	LastUpdated     string   `json:"last_updated"`
	DataSources     []string `json:"data_sources"`
	TotalDataPoints int      `json:"total_data_points"`
	Region          string   `json:"region"`
	UpdateFrequency string   `json:"update_frequency,omitempty"`
	DataQuality     string   `json:"data_quality,omitempty"`
}

type Analytics struct {
	LanguageSalary   []LanguageSalaryRecord `json:"language_salary"`
	LocationSalary   []LocationRecord       `json:"location_salary"`
	RemoteWorkStats  []RemoteWorkCategory   `json:"remote_work_stats"`
	ExperienceSalary []ExperienceBracket    `json:"experience_salary"`
}

type Recommendations struct {
	TopROISkills         []ROISkill                    `json:"top_roi_skills"`
	EmergingTechnologies map[string]EmergingTechnology `json:"emerging_technologies,omitempty"`
}

type Predictions struct {
	SalaryTrends      []SalaryTrend      `json:"salary_trends"`
	MarketPredictions map[string]float64 `json:"market_predictions,omitempty"`
}

// Snapshot is one complete fixture document for a region. The analytics
// code treats whichever snapshot it is handed as authoritative.
type Snapshot struct {
	Summary         Summary         `json:"summary"`
	Metadata        Metadata        `json:"metadata"`
	Analytics       Analytics       `json:"analytics"`
	Recommendations Recommendations `json:"recommendations"`
	Predictions     Predictions     `json:"predictions"`
}

// internal/workers/market/aggregate-analytics/models.go
package aggregateanalytics

import "jobmarket-workers/internal/analytics"

type Dataset string

const (
	DatasetLanguages  Dataset = "languages"
	DatasetLocations  Dataset = "locations"
	DatasetExperience Dataset = "experience"
	DatasetRemote     Dataset = "remote"
)

type Input struct {
	Region    string              `json:"region,omitempty"`
	Dataset   Dataset             `json:"dataset"`
	Operation analytics.Operation `json:"operation"`
	Params    analytics.Params    `json:"params"`
}

type Output struct {
	Region      string         `json:"region"`
	Dataset     Dataset        `json:"dataset"`
	View        analytics.View `json:"view"`
	LastUpdated string         `json:"lastUpdated,omitempty"`
}

// internal/workers/market/build-dashboard/models.go
package builddashboard

import "jobmarket-workers/internal/analytics"

type Input struct {
	Region string              `json:"region,omitempty"`
	View   analytics.ViewState `json:"view"`
}

type Output struct {
	Dashboard analytics.Dashboard `json:"dashboard"`
}

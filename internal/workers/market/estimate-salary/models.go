// internal/workers/market/estimate-salary/models.go
package estimatesalary

import (
	"jobmarket-workers/internal/models"
	"jobmarket-workers/internal/salary"
)

type Input struct {
	Region     string   `json:"region,omitempty"`
	Experience string   `json:"experience,omitempty"`
	Location   string   `json:"location,omitempty"`
	Skills     []string `json:"skills,omitempty"`
}

func (i Input) prediction() models.PredictionInput {
	return models.PredictionInput{
		Experience: i.Experience,
		Location:   i.Location,
		Skills:     i.Skills,
	}
}

type Output struct {
	EstimateID      string           `json:"estimateId"`
	Region          string           `json:"region"`
	Currency        string           `json:"currency"`
	PredictedSalary float64          `json:"predictedSalary"`
	Formatted       string           `json:"formatted"`
	Breakdown       salary.Breakdown `json:"breakdown"`
}

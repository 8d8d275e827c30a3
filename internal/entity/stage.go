package entity

import "context"

// PipelineStage is an ordered funnel position a deal occupies. OrderIndex
// drives transition validation: a deal may move at most two positions per
// update.
type PipelineStage struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	OrderIndex     int    `json:"order_index"`
	WinProbability int    `json:"win_probability"` // percent
	IsActive       bool   `json:"is_active"`
}

type StageRepositoryInterface interface {
	// ListActive returns active stages sorted ascending by OrderIndex.
	ListActive(ctx context.Context) ([]*PipelineStage, error)
}

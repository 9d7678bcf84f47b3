// internal/workers/sales/plan-daily-sale/models.go
package plandailysale

import "seller-assistant/internal/sale"

type Input struct {
	RequestID string `json:"requestId,omitempty"`
}

type Output struct {
	RequestID string    `json:"requestId,omitempty"`
	Plan      sale.Plan `json:"salePlan"`
	NextRun   string    `json:"nextScheduledRun,omitempty"`
}

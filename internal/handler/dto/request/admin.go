package request

import "github.com/shopspring/decimal"

type CreateResourceRequest struct {
	Name         string           `json:"name" binding:"required,max=100"`
	StandardRate *decimal.Decimal `json:"standard_rate" binding:"required"`
}

type ChangeRateRequest struct {
	StandardRate *decimal.Decimal `json:"standard_rate" binding:"required"`
}

type SetOverrideRequest struct {
	MemberID   int64            `json:"member_id" binding:"required,min=1"`
	ResourceID int64            `json:"resource_id" binding:"required,min=1"`
	Rate       *decimal.Decimal `json:"rate" binding:"required"`
}

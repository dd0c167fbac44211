package response

import (
	"kilnbook/internal/usecase/queries"
	"kilnbook/internal/usecase/settlement"
)

type ResourceResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	StandardRate string `json:"standard_rate"`
	CreatedAt    int64  `json:"created_at"`
	UpdatedAt    int64  `json:"updated_at"`
}

func FromResourceView(v *queries.ResourceView) (*ResourceResponse, error) {
	return copyFrom[ResourceResponse](v)
}

func FromResourceViews(vs []queries.ResourceView) ([]ResourceResponse, error) {
	return copySlice[ResourceResponse](vs)
}

type OverrideResponse struct {
	MemberID     int64  `json:"member_id"`
	MemberName   string `json:"member_name"`
	ResourceID   int64  `json:"resource_id"`
	ResourceName string `json:"resource_name"`
	Rate         string `json:"rate"`
}

func FromOverrideViews(vs []queries.OverrideView) ([]OverrideResponse, error) {
	return copySlice[OverrideResponse](vs)
}

type RunReportResponse struct {
	RunID          string `json:"run_id"`
	Today          string `json:"today"`
	Settled        int    `json:"settled"`
	Skipped        int    `json:"skipped"`
	Failed         int    `json:"failed"`
	Charges        int    `json:"charges"`
	Reminded       int    `json:"reminded"`
	ReminderFailed int    `json:"reminder_failed"`
}

func FromRunReport(r *settlement.RunReport) (*RunReportResponse, error) {
	return copyFrom[RunReportResponse](r)
}

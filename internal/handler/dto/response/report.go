package response

import "kilnbook/internal/usecase/queries"

type BalanceResponse struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Balance     string `json:"balance"`
}

func FromMemberView(v *queries.MemberView) (*BalanceResponse, error) {
	return copyFrom[BalanceResponse](v)
}

func FromMemberViews(vs []queries.MemberView) ([]BalanceResponse, error) {
	return copySlice[BalanceResponse](vs)
}

type UsageLineResponse struct {
	ReservationID int64  `json:"reservation_id"`
	Date          string `json:"date"`
	ResourceName  string `json:"resource_name"`
	OwnerName     string `json:"owner_name"`
	FireType      string `json:"fire_type"`
	Temperature   *int   `json:"temperature,omitempty"`
	Program       *int   `json:"program,omitempty"`
	Percentage    string `json:"percentage"`
	Charge        string `json:"charge"`
	Provisional   bool   `json:"provisional"`
}

type UsageReportResponse struct {
	MemberID         int64               `json:"member_id"`
	From             string              `json:"from"`
	Lines            []UsageLineResponse `json:"lines"`
	TotalCharged     string              `json:"total_charged"`
	TotalProvisional string              `json:"total_provisional"`
}

func FromUsageReport(r *queries.UsageReport) (*UsageReportResponse, error) {
	res, err := copyFrom[UsageReportResponse](r)
	if err != nil {
		return nil, err
	}
	if res.Lines == nil {
		res.Lines = []UsageLineResponse{}
	}
	return res, nil
}

type AuditLineResponse struct {
	ID            string `json:"id"`
	LoggedAt      int64  `json:"logged_at"`
	RunID         string `json:"run_id"`
	ReservationID int64  `json:"reservation_id"`
	MemberID      int64  `json:"member_id"`
	SlotDate      string `json:"slot_date"`
	Charge        string `json:"charge"`
	OldBalance    string `json:"old_balance"`
	NewBalance    string `json:"new_balance"`
	Line          string `json:"line"`
}

func FromAuditLines(ls []queries.AuditLine) ([]AuditLineResponse, error) {
	return copySlice[AuditLineResponse](ls)
}

package request

import (
	"kilnbook/internal/domain/reservation"
	"kilnbook/internal/usecase/commands"

	"github.com/shopspring/decimal"
)

// MutateReservationRequest creates or updates the reservation of a kiln on a
// date. A negative resource_id cancels the reservation of that kiln instead.
type MutateReservationRequest struct {
	ResourceID  int64               `json:"resource_id" binding:"required"`
	Year        int                 `json:"year" binding:"required"`
	Month       int                 `json:"month" binding:"required"`
	Day         int                 `json:"day" binding:"required"`
	OwnerID     int64               `json:"owner_id" binding:"omitempty,min=0"`
	FireType    string              `json:"fire_type"`
	Temperature *int                `json:"temperature"`
	Program     *int                `json:"program"`
	Note        *string             `json:"note"`
	Split       []SplitEntryRequest `json:"split" binding:"omitempty,max=5,dive"`
}

type SplitEntryRequest struct {
	ParticipantID int64           `json:"participant_id" binding:"min=0"`
	Percentage    decimal.Decimal `json:"percentage"`
}

func (r *MutateReservationRequest) ToCommand() commands.MutateRequest {
	cmd := commands.MutateRequest{
		ResourceID:  r.ResourceID,
		Year:        r.Year,
		Month:       r.Month,
		Day:         r.Day,
		OwnerID:     r.OwnerID,
		FireType:    r.FireType,
		Temperature: r.Temperature,
		Program:     r.Program,
		Note:        r.Note,
	}
	if r.Split != nil {
		cmd.Split = make([]reservation.SplitEntry, len(r.Split))
		for i, e := range r.Split {
			cmd.Split[i] = reservation.SplitEntry{Participant: e.ParticipantID, Percentage: e.Percentage}
		}
	}
	return cmd
}

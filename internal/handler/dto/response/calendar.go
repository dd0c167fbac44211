package response

import (
	"kilnbook/internal/usecase/commands"
	"kilnbook/internal/usecase/queries"
)

type SplitEntryResponse struct {
	ParticipantID   int64  `json:"participant_id"`
	ParticipantName string `json:"participant_name,omitempty"`
	Percentage      string `json:"percentage"`
}

type SlotResponse struct {
	Date          string               `json:"date"`
	Day           int                  `json:"day"`
	Weekday       string               `json:"weekday"`
	Booked        bool                 `json:"booked"`
	ReservationID int64                `json:"reservation_id,omitempty"`
	OwnerID       int64                `json:"owner_id,omitempty"`
	OwnerName     string               `json:"owner_name,omitempty"`
	FireType      string               `json:"fire_type,omitempty"`
	Temperature   *int                 `json:"temperature,omitempty"`
	Program       *int                 `json:"program,omitempty"`
	Note          *string              `json:"note,omitempty"`
	Split         []SplitEntryResponse `json:"split"`
	Notified      bool                 `json:"notified"`
	Settled       bool                 `json:"settled"`
	Past          bool                 `json:"past"`
	Editable      bool                 `json:"editable"`
	Deletable     bool                 `json:"deletable"`
	State         string               `json:"state"`
	Color         string               `json:"color"`
}

type MonthLinkResponse struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

type MonthViewResponse struct {
	ResourceID   int64             `json:"resource_id"`
	ResourceName string            `json:"resource_name"`
	Year         int               `json:"year"`
	Month        int               `json:"month"`
	Prev         MonthLinkResponse `json:"prev"`
	Next         MonthLinkResponse `json:"next"`
	Slots        []SlotResponse    `json:"slots"`
}

type MonthResponse struct {
	ResourceID int64              `json:"resource_id"`
	View       *MonthViewResponse `json:"view"`
}

// MutateResponse is returned for every outcome; View is null only when the
// kiln does not exist.
type MutateResponse struct {
	Outcome    string             `json:"outcome"`
	ResourceID int64              `json:"resource_id"`
	View       *MonthViewResponse `json:"view"`
}

func FromMonthView(v *queries.MonthView) (*MonthResponse, error) {
	view, err := copyFrom[MonthViewResponse](v)
	if err != nil {
		return nil, err
	}
	return &MonthResponse{ResourceID: v.ResourceID, View: view}, nil
}

func FromMutateResult(r *commands.MutateResult) (*MutateResponse, error) {
	res := &MutateResponse{Outcome: string(r.Outcome), ResourceID: r.ResourceID}
	if r.View == nil {
		return res, nil
	}

	view, err := copyFrom[MonthViewResponse](r.View)
	if err != nil {
		return nil, err
	}
	res.View = view
	return res, nil
}

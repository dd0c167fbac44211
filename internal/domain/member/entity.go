package member

import (
	"github.com/shopspring/decimal"
)

// Member is a participant of the association with a prepaid balance.
// Registration and contact details are managed elsewhere; this service reads them.
type Member struct {
	id          int64
	displayName string
	email       string
	balance     decimal.Decimal
}

func ReconstructMember(id int64, displayName, email string, balance decimal.Decimal) *Member {
	return &Member{
		id:          id,
		displayName: displayName,
		email:       email,
		balance:     balance,
	}
}

func (m *Member) ID() int64                { return m.id }
func (m *Member) DisplayName() string      { return m.displayName }
func (m *Member) Email() string            { return m.email }
func (m *Member) Balance() decimal.Decimal { return m.balance }

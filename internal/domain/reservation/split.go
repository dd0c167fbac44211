package reservation

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrTooManySplitEntries  = errors.New("split has more than five entries")
	ErrNegativePercentage   = errors.New("split percentage cannot be negative")
	ErrPercentagePrecision  = errors.New("split percentage has more than two decimals")
	ErrSplitOverAllocated   = errors.New("split percentages exceed 100")
	ErrInvalidParticipant   = errors.New("invalid split participant")
	ErrUnassignedPercentage = errors.New("split percentage given without participant")
)

// SplitSlots is the fixed number of participants a firing can be shared by.
const SplitSlots = 5

var fullShare = decimal.NewFromInt(100)

// SplitEntry assigns a percentage of the firing cost to a participant.
// Participant 0 marks an empty slot.
type SplitEntry struct {
	Participant int64
	Percentage  decimal.Decimal
}

func (e SplitEntry) Empty() bool { return e.Participant == 0 }

// Split is the ordered cost apportionment of one reservation. Slot 0 is
// conventionally the owner.
type Split [SplitSlots]SplitEntry

// NewSplit pads entries to five slots and rejects negative percentages and
// totals above 100. Totals below 100 are allowed; the remainder is not
// charged. A member named twice is charged for both entries.
func NewSplit(entries []SplitEntry) (Split, error) {
	var s Split
	if len(entries) > SplitSlots {
		return s, ErrTooManySplitEntries
	}
	for i := range s {
		s[i] = SplitEntry{Percentage: decimal.Zero}
	}
	for i, e := range entries {
		if e.Participant < 0 {
			return s, ErrInvalidParticipant
		}
		if e.Percentage.IsNegative() {
			return s, ErrNegativePercentage
		}
		if !e.Percentage.Equal(e.Percentage.Round(2)) {
			return s, ErrPercentagePrecision
		}
		if e.Empty() {
			if !e.Percentage.IsZero() {
				return s, ErrUnassignedPercentage
			}
			continue
		}
		s[i] = e
	}
	if s.Total().GreaterThan(fullShare) {
		return s, ErrSplitOverAllocated
	}
	return s, nil
}

// DefaultSplit charges the whole firing to owner.
func DefaultSplit(owner int64) Split {
	var s Split
	s[0] = SplitEntry{Participant: owner, Percentage: fullShare}
	for i := 1; i < SplitSlots; i++ {
		s[i] = SplitEntry{Percentage: decimal.Zero}
	}
	return s
}

// Participants returns the non-empty entries in slot order.
func (s Split) Participants() []SplitEntry {
	out := make([]SplitEntry, 0, SplitSlots)
	for _, e := range s {
		if !e.Empty() {
			out = append(out, e)
		}
	}
	return out
}

func (s Split) Total() decimal.Decimal {
	total := decimal.Zero
	for _, e := range s.Participants() {
		total = total.Add(e.Percentage)
	}
	return total
}

// ShareOf sums the percentages assigned to member.
func (s Split) ShareOf(member int64) decimal.Decimal {
	share := decimal.Zero
	for _, e := range s.Participants() {
		if e.Participant == member {
			share = share.Add(e.Percentage)
		}
	}
	return share
}

func (s Split) Entries() []SplitEntry {
	return s[:]
}

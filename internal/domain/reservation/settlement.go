package reservation

import "time"

// GraceDays is how long after its date a booking can still be corrected
// before it is charged.
const GraceDays = 4

// SettlementCutoff is the latest slot date that is due for settlement on today.
func SettlementCutoff(today time.Time) time.Time {
	return today.AddDate(0, 0, -GraceDays)
}

// DueForSettlement reports whether an unsettled reservation on date must be charged today.
func DueForSettlement(date, today time.Time) bool {
	return !date.After(SettlementCutoff(today))
}

// DueForReminder reports whether the owner should be reminded: the date has passed.
func DueForReminder(date, today time.Time) bool {
	return date.Before(today)
}

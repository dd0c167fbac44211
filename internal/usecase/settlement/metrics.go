package settlement

import "time"

// Result labels for processed reservations and reminders.
const (
	ResultSettled = "settled"
	ResultSkipped = "skipped"
	ResultFailed  = "failed"
	ResultQueued  = "queued"
)

type Metrics interface {
	RunStarted()
	RunFinished(d time.Duration)
	Reservation(result string)
	Charge()
	Reminder(result string)
}

type NoopMetrics struct{}

func NewNoopMetrics() *NoopMetrics { return &NoopMetrics{} }

func (NoopMetrics) RunStarted()               {}
func (NoopMetrics) RunFinished(time.Duration) {}
func (NoopMetrics) Reservation(string)        {}
func (NoopMetrics) Charge()                   {}
func (NoopMetrics) Reminder(string)           {}

package notify

import "time"

// Event is one outbound notification derived from the alerting subset of a
// snapshot. It has no identity beyond a single delivery attempt.
type Event struct {
	Service    string
	Status     string
	Summary    string
	Details    string
	AlertNames []string
	OccurredAt time.Time
}

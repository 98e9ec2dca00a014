package availability

import (
	"strings"
	"time"
)

// Status is the resolved lifecycle state of a template or event.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusActive    Status = "active"
	StatusClosed    Status = "closed"
	StatusHidden    Status = "hidden"
	StatusExpired   Status = "expired"
)

// Availability is the authored {status, startAt, endAt} triple. All fields are
// optional; hand-entered data reaches this point unvalidated.
type Availability struct {
	Status  Status
	StartAt *time.Time
	EndAt   *time.Time
}

var instantLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseInstant converts a raw timestamp string into an instant. Malformed or
// empty input degrades to nil rather than an error; date-dependent logic then
// treats the field as absent.
func ParseInstant(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}

	return nil
}

// NormalizeStatus collapses raw status strings to the closed Status set.
// Unrecognized values map to the empty Status so resolution falls through to
// its default branch.
func NormalizeStatus(raw string) Status {
	switch Status(strings.ToLower(strings.TrimSpace(raw))) {
	case StatusScheduled:
		return StatusScheduled
	case StatusActive:
		return StatusActive
	case StatusClosed:
		return StatusClosed
	case StatusHidden:
		return StatusHidden
	default:
		return ""
	}
}

// Resolve derives the visible lifecycle state of a template at instant now.
//
// Rule order is load-bearing: an authored closed or scheduled wins over the
// date checks, but the date checks win over an authored active. Several
// screens key their closed-vs-active badges off this asymmetry.
func Resolve(a *Availability, now time.Time) Status {
	if a == nil {
		return StatusActive
	}

	switch a.Status {
	case StatusClosed:
		return StatusClosed
	case StatusScheduled:
		return StatusScheduled
	}

	if a.StartAt != nil && now.Before(*a.StartAt) {
		return StatusScheduled
	}

	if a.EndAt != nil && now.After(*a.EndAt) {
		return StatusClosed
	}

	if a.Status == StatusActive {
		return StatusActive
	}

	if a.StartAt != nil || a.EndAt != nil {
		return StatusScheduled
	}

	return StatusActive
}

// ResolveEvent is Resolve for calendar events. Events carry a fourth authored
// value, hidden, which wins over everything, and a past end_at reports
// expired instead of closed: expiry is the clock's doing, closing is the
// author's.
func ResolveEvent(a *Availability, now time.Time) Status {
	if a == nil {
		return StatusActive
	}

	switch a.Status {
	case StatusHidden:
		return StatusHidden
	case StatusClosed:
		return StatusClosed
	case StatusScheduled:
		return StatusScheduled
	}

	if a.StartAt != nil && now.Before(*a.StartAt) {
		return StatusScheduled
	}

	if a.EndAt != nil && now.After(*a.EndAt) {
		return StatusExpired
	}

	if a.Status == StatusActive {
		return StatusActive
	}

	if a.StartAt != nil || a.EndAt != nil {
		return StatusScheduled
	}

	return StatusActive
}

// Package billing derives a resident's due status from the last settlement date
// and resolves the monthly fee that applies to them.
package billing

import (
	"time"
)

// CycleDays is the fixed billing cycle length. It is not a calendar month.
const CycleDays = 30

// Risk tier thresholds, inclusive.
const (
	CriticalMaxDays = 3
	WarningMaxDays  = 7
)

// RiskTier classifies how close a resident is to their next due date.
type RiskTier string

const (
	RiskUnknown  RiskTier = "unknown"
	RiskCritical RiskTier = "critical"
	RiskWarning  RiskTier = "warning"
	RiskSafe     RiskTier = "safe"
)

// Snapshot is the derived billing status of one resident. It is never persisted.
type Snapshot struct {
	NextDueDate   *time.Time `json:"next_due_date"`
	DaysRemaining int        `json:"days_remaining"`
	RiskTier      RiskTier   `json:"risk_tier"`
}

// Unknown is returned for residents that have never settled a payment.
func Unknown() Snapshot {
	return Snapshot{NextDueDate: nil, DaysRemaining: 0, RiskTier: RiskUnknown}
}

// ClassifyRisk maps days remaining to a tier. Negative values are critical.
func ClassifyRisk(daysRemaining int) RiskTier {
	switch {
	case daysRemaining <= CriticalMaxDays:
		return RiskCritical
	case daysRemaining <= WarningMaxDays:
		return RiskWarning
	default:
		return RiskSafe
	}
}

// Project computes the next due date and risk tier for a settlement anchor.
//
// The anchor is a calendar date: its year, month and day are used as stored.
// now is converted into loc and truncated to that zone's calendar day. Both
// dates are then compared as UTC civil dates, so every day is exactly 24h
// regardless of DST in loc.
func Project(anchor *time.Time, now time.Time, loc *time.Location) Snapshot {
	if anchor == nil {
		return Unknown()
	}
	if loc == nil {
		loc = time.UTC
	}

	due := CivilDate(*anchor).AddDate(0, 0, CycleDays)
	today := Today(now, loc)

	days := DaysBetween(today, due)
	return Snapshot{
		NextDueDate:   &due,
		DaysRemaining: days,
		RiskTier:      ClassifyRisk(days),
	}
}

// CriticalFrom returns the instant in loc at which the cycle that ends on due
// enters the critical tier.
func CriticalFrom(due time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := CivilDate(due).AddDate(0, 0, -CriticalMaxDays).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// CivilDate drops the time-of-day and zone of t, keeping its Y/M/D as a UTC midnight.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the calendar date of now in loc as a UTC midnight.
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return CivilDate(now.In(loc))
}

// DaysBetween returns to - from in whole days. Both must be civil dates.
// A partial day rounds up so a due date later today still counts as one day left.
func DaysBetween(from, to time.Time) int {
	diff := to.Sub(from)
	days := int(diff / (24 * time.Hour))
	if diff%(24*time.Hour) > 0 {
		days++
	}
	return days
}

// Clock supplies the current instant and the billing time zone.
type Clock interface {
	Now() time.Time
	Location() *time.Location
}

// SystemClock reads the wall clock.
type SystemClock struct {
	Loc *time.Location
}

func NewSystemClock(loc *time.Location) SystemClock {
	if loc == nil {
		loc = time.UTC
	}
	return SystemClock{Loc: loc}
}

func (c SystemClock) Now() time.Time            { return time.Now() }
func (c SystemClock) Location() *time.Location { return c.Loc }

// FixedClock always returns the same instant. Used by tests and the CLI.
type FixedClock struct {
	At  time.Time
	Loc *time.Location
}

func (c FixedClock) Now() time.Time { return c.At }

func (c FixedClock) Location() *time.Location {
	if c.Loc == nil {
		return time.UTC
	}
	return c.Loc
}

// ProjectWith is Project using a Clock.
func ProjectWith(clock Clock, anchor *time.Time) Snapshot {
	return Project(anchor, clock.Now(), clock.Location())
}

package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestProject_NilAnchorIsUnknown(t *testing.T) {
	snap := Project(nil, time.Now(), time.UTC)
	assert.Nil(t, snap.NextDueDate)
	assert.Equal(t, 0, snap.DaysRemaining)
	assert.Equal(t, RiskUnknown, snap.RiskTier)
}

func TestProject_TwoDaysLeftIsCritical(t *testing.T) {
	now := time.Date(2024, 1, 29, 9, 30, 0, 0, time.UTC)
	snap := Project(date(2024, 1, 1), now, time.UTC)

	require.NotNil(t, snap.NextDueDate)
	assert.Equal(t, *date(2024, 1, 31), *snap.NextDueDate)
	assert.Equal(t, 2, snap.DaysRemaining)
	assert.Equal(t, RiskCritical, snap.RiskTier)
}

func TestProject_CycleIsThirtyDaysNotAMonth(t *testing.T) {
	snap := Project(date(2024, 2, 1), time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), time.UTC)
	assert.Equal(t, *date(2024, 3, 2), *snap.NextDueDate)
	assert.Equal(t, 30, snap.DaysRemaining)
	assert.Equal(t, RiskSafe, snap.RiskTier)
}

func TestProject_OverdueIsNegative(t *testing.T) {
	snap := Project(date(2024, 1, 1), time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC), time.UTC)
	assert.Equal(t, -10, snap.DaysRemaining)
	assert.Equal(t, RiskCritical, snap.RiskTier)
}

func TestProject_UsesBillingZoneForToday(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	// 20:00 UTC on Jan 28 is already Jan 29 in Kolkata.
	now := time.Date(2024, 1, 28, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, 3, Project(date(2024, 1, 1), now, time.UTC).DaysRemaining)
	assert.Equal(t, 2, Project(date(2024, 1, 1), now, kolkata).DaysRemaining)
}

func TestProject_AcrossDSTChange(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 2024-03-10 is a 23 hour day in New York.
	anchor := date(2024, 2, 9)
	now := time.Date(2024, 3, 9, 23, 0, 0, 0, ny)
	snap := Project(anchor, now, ny)

	assert.Equal(t, *date(2024, 3, 10), *snap.NextDueDate)
	assert.Equal(t, 1, snap.DaysRemaining)
}

func TestProject_Idempotent(t *testing.T) {
	now := time.Date(2024, 5, 5, 5, 5, 5, 0, time.UTC)
	anchor := date(2024, 4, 20)
	assert.Equal(t, Project(anchor, now, time.UTC), Project(anchor, now, time.UTC))
}

func TestClassifyRisk_Boundaries(t *testing.T) {
	tests := []struct {
		days int
		want RiskTier
	}{
		{-30, RiskCritical},
		{0, RiskCritical},
		{3, RiskCritical},
		{4, RiskWarning},
		{7, RiskWarning},
		{8, RiskSafe},
		{30, RiskSafe},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyRisk(tt.days), "days=%d", tt.days)
	}
}

func TestProjectWith_FixedClock(t *testing.T) {
	clock := FixedClock{At: time.Date(2024, 1, 25, 0, 0, 0, 0, time.UTC)}
	snap := ProjectWith(clock, date(2024, 1, 1))
	assert.Equal(t, 6, snap.DaysRemaining)
	assert.Equal(t, RiskWarning, snap.RiskTier)
}

func TestDaysBetween_RoundsPartialDayUp(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, DaysBetween(from, from.Add(2*time.Hour)))
	assert.Equal(t, 0, DaysBetween(from, from))
	assert.Equal(t, -1, DaysBetween(from, from.Add(-24*time.Hour)))
}

func TestCriticalFrom(t *testing.T) {
	due := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 1, 28, 0, 0, 0, 0, time.UTC), CriticalFrom(due, nil))

	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	start := CriticalFrom(due, kolkata)
	assert.Equal(t, time.Date(2024, 1, 27, 18, 30, 0, 0, time.UTC), start.UTC())

	// The window opens on the first critical day.
	anchor := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, RiskCritical, Project(&anchor, start, kolkata).RiskTier)
	assert.Equal(t, RiskWarning, Project(&anchor, start.Add(-time.Minute), kolkata).RiskTier)
}

package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classmarket/internal/domain/booking"
)

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("")
	require.NoError(t, err)
	assert.Equal(t, Period30Days, p)

	for _, s := range []string{"7d", "30d", "90d", "1Y"} {
		_, err := ParsePeriod(s)
		assert.NoError(t, err, s)
	}

	_, err = ParsePeriod("14d")
	assert.ErrorIs(t, err, ErrUnknownPeriod)
}

func TestPeriodSince(t *testing.T) {
	assert.Equal(t, testNow.Add(-7*24*time.Hour), Period7Days.Since(testNow))
	assert.Equal(t, testNow.Add(-90*24*time.Hour), Period90Days.Since(testNow))
	assert.Equal(t, time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC), PeriodYear.Since(testNow))
}

func TestFilterWindow_Bounds(t *testing.T) {
	since := Period7Days.Since(testNow)
	bookings := []booking.Booking{
		bk("a", "l1", "10", since),                      // inclusive lower bound
		bk("a", "l1", "10", since.Add(-time.Nanosecond)), // just outside
		bk("a", "l1", "10", testNow),                     // upper bound
		bk("a", "l1", "10", testNow.Add(time.Minute)),    // future
		bk("a", "l1", "10", time.Time{}),                 // missing timestamp
	}

	got := FilterWindow(bookings, testNow, Period7Days)
	require.Len(t, got, 2)
	assert.Equal(t, bookings[0].ID, got[0].ID)
	assert.Equal(t, bookings[2].ID, got[1].ID)
}

func TestFilterWindow_Empty(t *testing.T) {
	got := FilterWindow(nil, testNow, Period30Days)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFilterToday_UsesReportingLocation(t *testing.T) {
	almaty := time.FixedZone("UTC+5", 5*3600)
	now := time.Date(2026, 6, 15, 20, 0, 0, 0, time.UTC) // 01:00 on the 16th in UTC+5

	bookings := []booking.Booking{
		bk("a", "l1", "10", time.Date(2026, 6, 15, 19, 30, 0, 0, time.UTC)), // 00:30 16th local
		bk("a", "l1", "10", time.Date(2026, 6, 15, 18, 30, 0, 0, time.UTC)), // 23:30 15th local
	}

	local := FilterToday(bookings, now, almaty)
	require.Len(t, local, 1)
	assert.Equal(t, bookings[0].ID, local[0].ID)

	utc := FilterToday(bookings, now, nil)
	assert.Len(t, utc, 2)
}

func TestFilterWeek(t *testing.T) {
	bookings := []booking.Booking{
		bk("a", "l1", "10", daysAgo(6)),
		bk("a", "l1", "10", daysAgo(8)),
	}
	got := FilterWeek(bookings, testNow)
	require.Len(t, got, 1)
	assert.Equal(t, bookings[0].ID, got[0].ID)
}

package analytics

import (
	"errors"
	"strings"
	"time"

	"classmarket/internal/domain/booking"
)

// Period is a selectable reporting window.
type Period string

const (
	Period7Days  Period = "7d"
	Period30Days Period = "30d"
	Period90Days Period = "90d"
	PeriodYear   Period = "1y"

	DefaultPeriod = Period30Days
	weekDays      = 7
)

var ErrUnknownPeriod = errors.New("unknown reporting period, expected one of 7d, 30d, 90d, 1y")

// ParsePeriod accepts 7d, 30d, 90d and 1y. An empty string selects DefaultPeriod.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return DefaultPeriod, nil
	case Period7Days, Period30Days, Period90Days, PeriodYear:
		return p, nil
	default:
		return "", ErrUnknownPeriod
	}
}

// Since is the inclusive lower bound of the window ending at now. Day
// periods are fixed multiples of 24h; the year period is one calendar year.
func (p Period) Since(now time.Time) time.Time {
	switch p {
	case Period7Days:
		return now.Add(-7 * 24 * time.Hour)
	case Period90Days:
		return now.Add(-90 * 24 * time.Hour)
	case PeriodYear:
		return now.AddDate(-1, 0, 0)
	default:
		return now.Add(-30 * 24 * time.Hour)
	}
}

// FilterWindow keeps bookings with Since(now) <= BookedAt <= now.
func FilterWindow(bookings []booking.Booking, now time.Time, p Period) []booking.Booking {
	return filterRange(bookings, p.Since(now), now)
}

// FilterWeek keeps bookings from the last 7 days.
func FilterWeek(bookings []booking.Booking, now time.Time) []booking.Booking {
	return filterRange(bookings, now.Add(-weekDays*24*time.Hour), now)
}

// FilterToday keeps bookings made on the same calendar date as now in loc.
func FilterToday(bookings []booking.Booking, now time.Time, loc *time.Location) []booking.Booking {
	loc = locationOrUTC(loc)
	today := dayStart(now, loc)

	out := make([]booking.Booking, 0)
	for _, b := range bookings {
		if b.BookedAt.IsZero() {
			continue
		}
		if dayStart(b.BookedAt, loc).Equal(today) {
			out = append(out, b)
		}
	}
	return out
}

func filterRange(bookings []booking.Booking, since, until time.Time) []booking.Booking {
	out := make([]booking.Booking, 0)
	for _, b := range bookings {
		if b.BookedAt.IsZero() {
			continue
		}
		if b.BookedAt.Before(since) || b.BookedAt.After(until) {
			continue
		}
		out = append(out, b)
	}
	return out
}

func locationOrUTC(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}

func dayStart(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

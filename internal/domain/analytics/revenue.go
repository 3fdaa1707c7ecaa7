package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"classmarket/internal/domain/booking"
)

// Granularity is the bucket size of a revenue trend.
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"

	TrendBuckets = 14
)

// TrendPoint is one populated bucket. Date is the bucket start (YYYY-MM-DD)
// in the reporting location.
type TrendPoint struct {
	Date     string          `json:"date"`
	Revenue  decimal.Decimal `json:"revenue"`
	Bookings int             `json:"bookings"`
}

type Revenue struct {
	TodayRevenue  decimal.Decimal `json:"today_revenue"`
	WeekRevenue   decimal.Decimal `json:"week_revenue"`
	WindowRevenue decimal.Decimal `json:"window_revenue"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	Trend         []TrendPoint    `json:"trend"`
}

// SumAmounts adds up booking amounts exactly. Negative amounts count as zero.
func SumAmounts(bookings []booking.Booking) decimal.Decimal {
	sum := decimal.Zero
	for _, b := range bookings {
		sum = sum.Add(b.Amount())
	}
	return sum
}

// Trend buckets bookings by calendar day, ISO week (Monday) or month in loc
// and returns the most recent limit buckets in ascending order. Buckets
// without bookings are omitted, not zero-filled.
func Trend(bookings []booking.Booking, loc *time.Location, g Granularity, limit int) []TrendPoint {
	loc = locationOrUTC(loc)

	type bucket struct {
		start   time.Time
		revenue decimal.Decimal
		count   int
	}
	buckets := make(map[int64]*bucket)
	for _, b := range bookings {
		if b.BookedAt.IsZero() {
			continue
		}
		start := bucketStart(b.BookedAt, loc, g)
		key := start.Unix()
		bk, ok := buckets[key]
		if !ok {
			bk = &bucket{start: start, revenue: decimal.Zero}
			buckets[key] = bk
		}
		bk.revenue = bk.revenue.Add(b.Amount())
		bk.count++
	}

	ordered := make([]*bucket, 0, len(buckets))
	for _, bk := range buckets {
		ordered = append(ordered, bk)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].start.Before(ordered[j].start) })

	if limit > 0 && len(ordered) > limit {
		ordered = ordered[len(ordered)-limit:]
	}

	out := make([]TrendPoint, 0, len(ordered))
	for _, bk := range ordered {
		out = append(out, TrendPoint{
			Date:     bk.start.Format(time.DateOnly),
			Revenue:  bk.revenue,
			Bookings: bk.count,
		})
	}
	return out
}

func bucketStart(t time.Time, loc *time.Location, g Granularity) time.Time {
	day := dayStart(t, loc)
	switch g {
	case GranularityWeek:
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case GranularityMonth:
		return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, loc)
	default:
		return day
	}
}

// AggregateRevenue computes the revenue block of the dashboard. all is the
// unfiltered history, window the bookings inside the selected period.
func AggregateRevenue(all, window []booking.Booking, now time.Time, loc *time.Location) Revenue {
	return Revenue{
		TodayRevenue:  SumAmounts(FilterToday(all, now, loc)),
		WeekRevenue:   SumAmounts(FilterWeek(all, now)),
		WindowRevenue: SumAmounts(window),
		TotalRevenue:  SumAmounts(all),
		Trend:         Trend(window, loc, GranularityDay, TrendBuckets),
	}
}

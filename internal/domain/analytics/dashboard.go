package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"classmarket/internal/domain/booking"
)

// FinancialSummary is the partner's balance as reported by the payout ledger.
type FinancialSummary struct {
	PendingBalance   decimal.Decimal `json:"pending_balance"`
	AvailableBalance decimal.Decimal `json:"available_balance"`
	LifetimeEarnings decimal.Decimal `json:"lifetime_earnings"`
}

// BookingCounts: status counts are over the selected window.
type BookingCounts struct {
	Today     int `json:"today"`
	Week      int `json:"week"`
	Window    int `json:"window"`
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Confirmed int `json:"confirmed"`
	Cancelled int `json:"cancelled"`
}

type Input struct {
	Bookings  []booking.Booking
	Now       time.Time
	Period    Period
	Location  *time.Location
	Financial FinancialSummary
}

type Snapshot struct {
	Period               Period               `json:"period"`
	GeneratedAt          time.Time            `json:"generated_at"`
	Revenue              Revenue              `json:"revenue"`
	BookingCounts        BookingCounts        `json:"booking_counts"`
	CustomerSegmentation CustomerSegmentation `json:"customer_segmentation"`
	Attendance           Attendance           `json:"attendance"`
	TopListings          []ListingStat        `json:"top_listings"`
	FinancialSummary     FinancialSummary     `json:"financial_summary"`
}

// Assemble builds a dashboard snapshot. It reads its input only and returns
// a fresh value, so concurrent calls with different arguments are safe and
// identical inputs give identical output. An empty or unknown period is
// reported and filtered as DefaultPeriod.
func Assemble(in Input) Snapshot {
	loc := locationOrUTC(in.Location)
	period, err := ParsePeriod(string(in.Period))
	if err != nil {
		period = DefaultPeriod
	}

	window := FilterWindow(in.Bookings, in.Now, period)

	return Snapshot{
		Period:               period,
		GeneratedAt:          in.Now,
		Revenue:              AggregateRevenue(in.Bookings, window, in.Now, loc),
		BookingCounts:        countBookings(in.Bookings, window, in.Now, loc),
		CustomerSegmentation: SegmentCustomers(in.Bookings, TopN),
		Attendance:           AggregateAttendance(window),
		TopListings:          RankListings(window, TopN),
		FinancialSummary:     in.Financial,
	}
}

func countBookings(all, window []booking.Booking, now time.Time, loc *time.Location) BookingCounts {
	c := BookingCounts{
		Today:  len(FilterToday(all, now, loc)),
		Week:   len(FilterWeek(all, now)),
		Window: len(window),
		Total:  len(all),
	}
	for _, b := range window {
		switch b.BookingStatus {
		case booking.StatusPending:
			c.Pending++
		case booking.StatusConfirmed:
			c.Confirmed++
		case booking.StatusCancelled:
			c.Cancelled++
		}
	}
	return c
}

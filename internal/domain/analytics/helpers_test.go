package analytics

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"classmarket/internal/domain/booking"
)

var testNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

var seq int

func bk(customer, listing string, amount string, at time.Time) booking.Booking {
	seq++
	return booking.Booking{
		ID:               fmt.Sprintf("b%d", seq),
		PartnerID:        1,
		CustomerID:       customer,
		ListingID:        listing,
		ListingTitle:     "Title " + listing,
		BookedAt:         at,
		TotalAmount:      decimal.RequireFromString(amount),
		BookingStatus:    booking.StatusConfirmed,
		AttendanceStatus: booking.AttendanceUnset,
	}
}

func daysAgo(n int) time.Time {
	return testNow.Add(-time.Duration(n) * 24 * time.Hour)
}

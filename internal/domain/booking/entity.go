package booking

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	StatusNone      BookingStatus = ""
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

type AttendanceStatus string

const (
	AttendanceUnset    AttendanceStatus = "unset"
	AttendanceAttended AttendanceStatus = "attended"
	AttendanceNoShow   AttendanceStatus = "no_show"
)

// Booking is one purchase of a class. The analytics engine only reads it.
// A zero BookedAt means the timestamp was missing.
type Booking struct {
	ID               string           `json:"id"`
	PartnerID        int64            `json:"partner_id"`
	CustomerID       string           `json:"customer_id"`
	ListingID        string           `json:"listing_id"`
	ListingTitle     string           `json:"listing_title"`
	BookedAt         time.Time        `json:"booked_at"`
	TotalAmount      decimal.Decimal  `json:"total_amount"`
	BookingStatus    BookingStatus    `json:"booking_status"`
	AttendanceStatus AttendanceStatus `json:"attendance_status"`
}

// ParseBookingStatus maps unknown or empty values to StatusNone.
func ParseBookingStatus(s string) BookingStatus {
	switch BookingStatus(strings.ToLower(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending
	case StatusConfirmed:
		return StatusConfirmed
	case StatusCancelled:
		return StatusCancelled
	default:
		return StatusNone
	}
}

// ParseAttendanceStatus maps unknown or empty values to AttendanceUnset.
func ParseAttendanceStatus(s string) AttendanceStatus {
	switch AttendanceStatus(strings.ToLower(strings.TrimSpace(s))) {
	case AttendanceAttended:
		return AttendanceAttended
	case AttendanceNoShow:
		return AttendanceNoShow
	default:
		return AttendanceUnset
	}
}

// Amount returns the booking amount with negative values clamped to zero.
func (b Booking) Amount() decimal.Decimal {
	if b.TotalAmount.IsNegative() {
		return decimal.Zero
	}
	return b.TotalAmount
}

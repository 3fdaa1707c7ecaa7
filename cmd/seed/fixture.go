package main

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"classmarket/internal/domain/booking"
	"classmarket/internal/domain/policy"
)

type Fixture struct {
	Policies struct {
		CancellationPolicy *policy.CancellationPolicy `yaml:"cancellation_policy"`
		Commission         *policy.CommissionConfig   `yaml:"commission"`
	} `yaml:"policies"`
	Partners []PartnerFixture `yaml:"partners"`
}

type PartnerFixture struct {
	ID         int64            `yaml:"id"`
	Subscriber bool             `yaml:"subscriber"`
	Bookings   []BookingFixture `yaml:"bookings"`
}

type BookingFixture struct {
	Customer   string  `yaml:"customer"`
	Listing    string  `yaml:"listing"`
	Title      string  `yaml:"title"`
	DaysAgo    float64 `yaml:"days_ago"`
	Amount     string  `yaml:"amount"`
	Status     string  `yaml:"status"`
	Attendance string  `yaml:"attendance"`
}

func loadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return parseFixture(data)
}

func parseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	for i, p := range f.Partners {
		if p.ID <= 0 {
			return nil, fmt.Errorf("partners[%d]: id must be positive", i)
		}
	}
	return &f, nil
}

// toBookings materializes a partner's bookings relative to now.
func (p PartnerFixture) toBookings(now time.Time) ([]booking.Booking, error) {
	out := make([]booking.Booking, 0, len(p.Bookings))
	for i, b := range p.Bookings {
		amount, err := decimal.NewFromString(b.Amount)
		if err != nil {
			return nil, fmt.Errorf("partner %d booking %d: amount %q: %w", p.ID, i, b.Amount, err)
		}
		status := booking.ParseBookingStatus(b.Status)
		if status == booking.StatusNone {
			status = booking.StatusConfirmed
		}
		out = append(out, booking.Booking{
			PartnerID:        p.ID,
			CustomerID:       b.Customer,
			ListingID:        b.Listing,
			ListingTitle:     b.Title,
			BookedAt:         now.Add(-time.Duration(b.DaysAgo * float64(24*time.Hour))),
			TotalAmount:      amount,
			BookingStatus:    status,
			AttendanceStatus: booking.ParseAttendanceStatus(b.Attendance),
		})
	}
	return out, nil
}

// demoFixture is used when no fixture file is given.
func demoFixture() *Fixture {
	type row struct {
		customer, listing, title string
		daysAgo                  float64
		amount                   string
		status, attendance       string
	}
	rows := []row{
		{"cust-anna", "pottery-101", "Pottery for Beginners", 0.1, "45.00", "confirmed", ""},
		{"cust-anna", "pottery-101", "Pottery for Beginners", 6, "45.00", "confirmed", "attended"},
		{"cust-anna", "glaze-201", "Glazing Workshop", 21, "60.00", "confirmed", "attended"},
		{"cust-boris", "pottery-101", "Pottery for Beginners", 2, "45.00", "confirmed", "no_show"},
		{"cust-chen", "wheel-301", "Wheel Throwing Intensive", 12, "120.00", "confirmed", "attended"},
		{"cust-chen", "wheel-301", "Wheel Throwing Intensive", 40, "120.00", "confirmed", "attended"},
		{"cust-dana", "glaze-201", "Glazing Workshop", 3, "60.00", "pending", ""},
		{"cust-emil", "pottery-101", "Pottery for Beginners", 9, "45.00", "cancelled", ""},
		{"cust-fay", "kids-401", "Kids Clay Club", 150, "30.00", "confirmed", "attended"},
		{"cust-fay", "kids-401", "Kids Clay Club", 300, "30.00", "confirmed", "attended"},
	}

	partner := PartnerFixture{ID: 1001, Subscriber: true}
	for _, r := range rows {
		partner.Bookings = append(partner.Bookings, BookingFixture{
			Customer:   r.customer,
			Listing:    r.listing,
			Title:      r.title,
			DaysAgo:    r.daysAgo,
			Amount:     r.amount,
			Status:     r.status,
			Attendance: r.attendance,
		})
	}
	return &Fixture{Partners: []PartnerFixture{partner}}
}

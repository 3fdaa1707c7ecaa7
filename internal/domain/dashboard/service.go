package dashboard

import (
	"context"
	"fmt"
	"time"

	"classmarket/internal/domain/analytics"
	"classmarket/internal/domain/booking"
	"classmarket/internal/pkg/logger"
	"classmarket/internal/pkg/metrics"
)

// BookingSource lists a partner's full booking history.
type BookingSource interface {
	ListBookings(ctx context.Context, partnerID int64) ([]booking.Booking, error)
}

// FinanceSource reports a partner's payout balances.
type FinanceSource interface {
	Summary(ctx context.Context, partnerID int64) (analytics.FinancialSummary, error)
}

type Service struct {
	bookings BookingSource
	finance  FinanceSource
	loc      *time.Location
	log      logger.Logger
	metrics  *metrics.Metrics
}

func NewService(bookings BookingSource, finance FinanceSource, loc *time.Location, log logger.Logger, m *metrics.Metrics) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{bookings: bookings, finance: finance, loc: loc, log: log, metrics: m}
}

// Snapshot fetches the partner's inputs and assembles the dashboard as of
// now. Fetch failures are returned as-is.
func (s *Service) Snapshot(ctx context.Context, partnerID int64, period analytics.Period, now time.Time) (analytics.Snapshot, error) {
	start := time.Now()

	bookings, err := s.bookings.ListBookings(ctx, partnerID)
	if err != nil {
		s.metrics.ObserveError("dashboard_bookings")
		return analytics.Snapshot{}, fmt.Errorf("list bookings: %w", err)
	}

	fin, err := s.finance.Summary(ctx, partnerID)
	if err != nil {
		s.metrics.ObserveError("dashboard_finance")
		return analytics.Snapshot{}, fmt.Errorf("financial summary: %w", err)
	}

	snap := analytics.Assemble(analytics.Input{
		Bookings:  bookings,
		Now:       now,
		Period:    period,
		Location:  s.loc,
		Financial: fin,
	})

	elapsed := time.Since(start)
	s.metrics.ObserveDashboard(elapsed)
	s.log.Debug("dashboard assembled", "partner_id", partnerID, "period", snap.Period, "bookings", len(bookings), "elapsed", elapsed)
	return snap, nil
}

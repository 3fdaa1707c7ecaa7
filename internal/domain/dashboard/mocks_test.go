package dashboard

import (
	"context"

	"github.com/stretchr/testify/mock"

	"classmarket/internal/domain/analytics"
	"classmarket/internal/domain/booking"
)

type MockBookingSource struct {
	mock.Mock
}

func (m *MockBookingSource) ListBookings(ctx context.Context, partnerID int64) ([]booking.Booking, error) {
	args := m.Called(ctx, partnerID)
	if v := args.Get(0); v != nil {
		return v.([]booking.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockFinanceSource struct {
	mock.Mock
}

func (m *MockFinanceSource) Summary(ctx context.Context, partnerID int64) (analytics.FinancialSummary, error) {
	args := m.Called(ctx, partnerID)
	return args.Get(0).(analytics.FinancialSummary), args.Error(1)
}

package booking

import "context"

// Repository is the booking store.
type Repository interface {
	ListBookings(ctx context.Context, partnerID int64) ([]Booking, error)
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, partnerID int64, id string) (*Booking, error)
	UpdateAttendance(ctx context.Context, partnerID int64, id string, status AttendanceStatus) (*Booking, error)
}

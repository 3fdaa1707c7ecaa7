package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) Repository {
	return &bookingRepository{db: db}
}

// Model is the persisted row. Amounts are kept in minor units; a NULL amount
// or timestamp is read back as zero.
type Model struct {
	ID               string     `gorm:"column:id;type:varchar(36);primaryKey"`
	PartnerID        int64      `gorm:"column:partner_id;not null;index"`
	CustomerID       string     `gorm:"column:customer_id;type:varchar(64);index"`
	ListingID        string     `gorm:"column:listing_id;type:varchar(64)"`
	ListingTitle     string     `gorm:"column:listing_title"`
	BookedAt         *time.Time `gorm:"column:booked_at;index"`
	TotalAmountMinor *int64     `gorm:"column:total_amount_minor"`
	BookingStatus    string     `gorm:"column:booking_status;type:varchar(16)"`
	AttendanceStatus string     `gorm:"column:attendance_status;type:varchar(16)"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Model) TableName() string { return "bookings" }

func toDomainBooking(m Model) Booking {
	b := Booking{
		ID:               m.ID,
		PartnerID:        m.PartnerID,
		CustomerID:       m.CustomerID,
		ListingID:        m.ListingID,
		ListingTitle:     m.ListingTitle,
		TotalAmount:      decimal.Zero,
		BookingStatus:    ParseBookingStatus(m.BookingStatus),
		AttendanceStatus: ParseAttendanceStatus(m.AttendanceStatus),
	}
	if m.BookedAt != nil {
		b.BookedAt = *m.BookedAt
	}
	if m.TotalAmountMinor != nil && *m.TotalAmountMinor > 0 {
		b.TotalAmount = decimal.New(*m.TotalAmountMinor, -2)
	}
	return b
}

func toBookingModel(b *Booking) Model {
	m := Model{
		ID:               b.ID,
		PartnerID:        b.PartnerID,
		CustomerID:       b.CustomerID,
		ListingID:        b.ListingID,
		ListingTitle:     b.ListingTitle,
		BookingStatus:    string(b.BookingStatus),
		AttendanceStatus: string(ParseAttendanceStatus(string(b.AttendanceStatus))),
	}
	if !b.BookedAt.IsZero() {
		t := b.BookedAt.UTC()
		m.BookedAt = &t
	}
	minor := b.Amount().Shift(2).Round(0).IntPart()
	m.TotalAmountMinor = &minor
	return m
}

func (r *bookingRepository) ListBookings(ctx context.Context, partnerID int64) ([]Booking, error) {
	var rows []Model
	err := r.db.WithContext(ctx).
		Where("partner_id = ?", partnerID).
		Order("booked_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list bookings for partner %d: %w", partnerID, err)
	}

	out := make([]Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainBooking(m))
	}
	return out, nil
}

func (r *bookingRepository) Create(ctx context.Context, b *Booking) error {
	if b.PartnerID == 0 {
		return fmt.Errorf("%w: partner_id is required", ErrValidation)
	}
	if b.TotalAmount.IsNegative() {
		return fmt.Errorf("%w: total_amount must be >= 0", ErrValidation)
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}

	m := toBookingModel(b)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*b = toDomainBooking(m)
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, partnerID int64, id string) (*Booking, error) {
	var m Model
	err := r.db.WithContext(ctx).
		Where("id = ? AND partner_id = ?", id, partnerID).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	b := toDomainBooking(m)
	return &b, nil
}

func (r *bookingRepository) UpdateAttendance(ctx context.Context, partnerID int64, id string, status AttendanceStatus) (*Booking, error) {
	if ParseAttendanceStatus(string(status)) != status {
		return nil, fmt.Errorf("%w: unknown attendance status %q", ErrValidation, status)
	}

	tx := r.db.WithContext(ctx).
		Model(&Model{}).
		Where("id = ? AND partner_id = ?", id, partnerID).
		Updates(map[string]any{
			"attendance_status": string(status),
			"updated_at":        time.Now().UTC(),
		})
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, partnerID, id)
}

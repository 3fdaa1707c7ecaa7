package payout

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	EntryTypeCredit   = "CREDIT"
	EntryTypeRelease  = "RELEASE"
	EntryTypeWithdraw = "WITHDRAW"
)

// PartnerBalance holds a partner's earnings in minor units. Credits land in
// pending, a release moves them to available, withdrawals draw from available.
type PartnerBalance struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	PartnerID      int64     `json:"partner_id" gorm:"not null;uniqueIndex"`
	PendingMinor   int64     `json:"pending_minor" gorm:"not null;default:0"`
	AvailableMinor int64     `json:"available_minor" gorm:"not null;default:0"`
	LifetimeMinor  int64     `json:"lifetime_minor" gorm:"not null;default:0"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (PartnerBalance) TableName() string {
	return "partner_balances"
}

func (b *PartnerBalance) BeforeCreate(_ *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// LedgerEntry records one balance movement. BookingID is set on credits
// only; the unique index keeps a booking from being credited twice across
// all partners.
type LedgerEntry struct {
	ID              uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	BalanceID       uuid.UUID `json:"balance_id" gorm:"type:uuid;not null;index"`
	BookingID       *string   `json:"booking_id,omitempty" gorm:"type:varchar(64);uniqueIndex:idx_ledger_booking_type,priority:1"`
	Type            string    `json:"type" gorm:"type:varchar(16);not null;index;uniqueIndex:idx_ledger_booking_type,priority:2;check:type IN ('CREDIT','RELEASE','WITHDRAW')"`
	AmountMinor     int64     `json:"amount_minor" gorm:"not null"`
	CommissionMinor int64     `json:"commission_minor" gorm:"not null;default:0"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`

	Balance *PartnerBalance `json:"-" gorm:"foreignKey:BalanceID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (LedgerEntry) TableName() string {
	return "payout_ledger_entries"
}

func (e *LedgerEntry) BeforeCreate(_ *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

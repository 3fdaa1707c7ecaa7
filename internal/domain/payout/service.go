package payout

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"classmarket/internal/database"
	"classmarket/internal/domain/analytics"
	"classmarket/internal/domain/booking"
	"classmarket/internal/domain/policy"
	"classmarket/internal/pkg/logger"
)

// BookingSource resolves the booking a credit is booked against.
type BookingSource interface {
	GetByID(ctx context.Context, partnerID int64, id string) (*booking.Booking, error)
}

type Service struct {
	db       *gorm.DB
	bookings BookingSource
	log      logger.Logger
}

func NewService(db *gorm.DB, bookings BookingSource, log logger.Logger) *Service {
	return &Service{db: db, bookings: bookings, log: log}
}

// Summary reports the partner's balances, creating an empty balance on first use.
func (s *Service) Summary(ctx context.Context, partnerID int64) (analytics.FinancialSummary, error) {
	bal, err := s.GetOrCreateBalance(ctx, partnerID)
	if err != nil {
		return analytics.FinancialSummary{}, err
	}
	return toSummary(bal), nil
}

func (s *Service) GetOrCreateBalance(ctx context.Context, partnerID int64) (*PartnerBalance, error) {
	bal, err := s.getBalance(ctx, partnerID)
	if err == nil {
		return bal, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("get balance: %w", err)
	}

	bal = &PartnerBalance{PartnerID: partnerID}
	if err := s.db.WithContext(ctx).Create(bal).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return s.getBalance(ctx, partnerID)
		}
		return nil, fmt.Errorf("create balance: %w", err)
	}
	return bal, nil
}

// Credit books one of the partner's bookings at its total amount: the
// commission is taken off and the rest lands in pending and lifetime
// earnings. Each booking is credited once. A booking the partner does not
// own is booking.ErrNotFound.
func (s *Service) Credit(ctx context.Context, partnerID int64, bookingID string, isSubscriber bool, cfg policy.CommissionConfig) (*LedgerEntry, error) {
	if bookingID == "" {
		return nil, &policy.ValidationError{Field: "booking_id", Reason: "is required"}
	}

	b, err := s.bookings.GetByID(ctx, partnerID, bookingID)
	if err != nil {
		return nil, fmt.Errorf("load booking %s: %w", bookingID, err)
	}
	amount := b.Amount()
	if policy.ToMinor(amount) <= 0 {
		return nil, ErrInvalidAmount
	}

	split, err := policy.CalculateCommission(amount, isSubscriber, cfg)
	if err != nil {
		return nil, err
	}
	net := policy.ToMinor(split.NetToPartner)
	commission := policy.ToMinor(split.Commission)

	var entry LedgerEntry
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var bal PartnerBalance
		if err := lockBalance(tx, partnerID, &bal); err != nil {
			return err
		}

		var dup int64
		if err := tx.Model(&LedgerEntry{}).
			Where("booking_id = ? AND type = ?", bookingID, EntryTypeCredit).
			Count(&dup).Error; err != nil {
			return err
		}
		if dup > 0 {
			return ErrAlreadyCredited
		}

		bal.PendingMinor += net
		bal.LifetimeMinor += net
		if err := tx.Model(&PartnerBalance{}).Where("id = ?", bal.ID).Updates(map[string]interface{}{
			"pending_minor":  bal.PendingMinor,
			"lifetime_minor": bal.LifetimeMinor,
		}).Error; err != nil {
			return err
		}

		entry = LedgerEntry{
			BalanceID:       bal.ID,
			BookingID:       &b.ID,
			Type:            EntryTypeCredit,
			AmountMinor:     net,
			CommissionMinor: commission,
		}
		if err := tx.Create(&entry).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return ErrAlreadyCredited
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("booking credited", "partner_id", partnerID, "booking_id", bookingID,
		"net", split.NetToPartner.StringFixed(policy.MinorUnitPlaces), "commission", split.Commission.StringFixed(policy.MinorUnitPlaces))
	return &entry, nil
}

// Release moves amount from pending to available.
func (s *Service) Release(ctx context.Context, partnerID int64, amount decimal.Decimal) (*PartnerBalance, *LedgerEntry, error) {
	return s.move(ctx, partnerID, amount, EntryTypeRelease, func(bal *PartnerBalance, minor int64) error {
		if bal.PendingMinor < minor {
			return ErrInsufficientFunds
		}
		bal.PendingMinor -= minor
		bal.AvailableMinor += minor
		return nil
	})
}

// Withdraw pays amount out of the available balance.
func (s *Service) Withdraw(ctx context.Context, partnerID int64, amount decimal.Decimal) (*PartnerBalance, *LedgerEntry, error) {
	return s.move(ctx, partnerID, amount, EntryTypeWithdraw, func(bal *PartnerBalance, minor int64) error {
		if bal.AvailableMinor < minor {
			return ErrInsufficientFunds
		}
		bal.AvailableMinor -= minor
		return nil
	})
}

func (s *Service) ListEntries(ctx context.Context, partnerID int64) ([]LedgerEntry, error) {
	bal, err := s.GetOrCreateBalance(ctx, partnerID)
	if err != nil {
		return nil, err
	}

	var entries []LedgerEntry
	if err := s.db.WithContext(ctx).Where("balance_id = ?", bal.ID).Order("created_at desc").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	return entries, nil
}

func (s *Service) move(ctx context.Context, partnerID int64, amount decimal.Decimal, entryType string, apply func(*PartnerBalance, int64) error) (*PartnerBalance, *LedgerEntry, error) {
	minor := policy.ToMinor(amount)
	if minor <= 0 {
		return nil, nil, ErrInvalidAmount
	}

	var bal PartnerBalance
	var entry LedgerEntry
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockBalance(tx, partnerID, &bal); err != nil {
			return err
		}
		if err := apply(&bal, minor); err != nil {
			return err
		}

		if err := tx.Model(&PartnerBalance{}).Where("id = ?", bal.ID).Updates(map[string]interface{}{
			"pending_minor":   bal.PendingMinor,
			"available_minor": bal.AvailableMinor,
		}).Error; err != nil {
			return err
		}

		entry = LedgerEntry{BalanceID: bal.ID, Type: entryType, AmountMinor: minor}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &bal, &entry, nil
}

func (s *Service) getBalance(ctx context.Context, partnerID int64) (*PartnerBalance, error) {
	var bal PartnerBalance
	if err := s.db.WithContext(ctx).Where("partner_id = ?", partnerID).First(&bal).Error; err != nil {
		return nil, err
	}
	return &bal, nil
}

func lockBalance(tx *gorm.DB, partnerID int64, bal *PartnerBalance) error {
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("partner_id = ?", partnerID).First(bal).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		*bal = PartnerBalance{PartnerID: partnerID}
		if err := tx.Create(bal).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("partner_id = ?", partnerID).First(bal).Error
			}
			return err
		}
	}
	return nil
}

func toSummary(bal *PartnerBalance) analytics.FinancialSummary {
	return analytics.FinancialSummary{
		PendingBalance:   policy.FromMinor(bal.PendingMinor),
		AvailableBalance: policy.FromMinor(bal.AvailableMinor),
		LifetimeEarnings: policy.FromMinor(bal.LifetimeMinor),
	}
}

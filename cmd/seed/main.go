package main

import (
	"context"
	"errors"
	"flag"
	"time"

	"gorm.io/gorm"

	"classmarket/internal/config"
	"classmarket/internal/database"
	"classmarket/internal/domain/booking"
	"classmarket/internal/domain/payout"
	"classmarket/internal/domain/policy"
	"classmarket/internal/domain/settings"
	"classmarket/internal/pkg/logger"
	"classmarket/internal/server"
)

func main() {
	fixturePath := flag.String("fixture", "", "YAML fixture with policies, partners and bookings")
	reset := flag.Bool("reset", true, "delete existing data of the seeded partners first")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.New(false).Fatal("load config", "error", err)
	}
	log := logger.New(true)
	defer log.Sync()

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal("connect database", "error", err)
	}
	if err := database.Migrate(db, server.Models()...); err != nil {
		log.Fatal("migrate database", "error", err)
	}

	fx := demoFixture()
	if *fixturePath != "" {
		if fx, err = loadFixture(*fixturePath); err != nil {
			log.Fatal("load fixture", "error", err)
		}
	}

	base := settings.BuiltinDefaults()
	base.Commission = cfg.DefaultCommission
	store := settings.NewStore(settings.NewRepository(db), base, log)

	if err := seed(context.Background(), db, store, log, fx, *reset, time.Now().UTC()); err != nil {
		log.Fatal("seed", "error", err)
	}
	log.Info("seed complete", "partners", len(fx.Partners))
}

func seed(ctx context.Context, db *gorm.DB, store *settings.Store, log logger.Logger, fx *Fixture, reset bool, now time.Time) error {
	if p := fx.Policies.CancellationPolicy; p != nil {
		if err := store.PutCancellationPolicy(ctx, *p); err != nil {
			return err
		}
	}
	if c := fx.Policies.Commission; c != nil {
		if err := store.PutCommissionConfig(ctx, *c); err != nil {
			return err
		}
	}

	commission, err := store.GetCommissionConfig(ctx)
	if err != nil {
		return err
	}

	bookings := booking.NewBookingRepository(db)
	payouts := payout.NewService(db, bookings, log)

	for _, p := range fx.Partners {
		if reset {
			if err := resetPartner(db, p.ID); err != nil {
				return err
			}
		}

		rows, err := p.toBookings(now)
		if err != nil {
			return err
		}
		for i := range rows {
			if err := bookings.Create(ctx, &rows[i]); err != nil {
				return err
			}
			if rows[i].BookingStatus != booking.StatusConfirmed || policy.ToMinor(rows[i].Amount()) <= 0 {
				continue
			}
			if _, err := payouts.Credit(ctx, p.ID, rows[i].ID, p.Subscriber, commission); err != nil {
				return err
			}
		}
		log.Info("partner seeded", "partner_id", p.ID, "bookings", len(rows))
	}
	return nil
}

func resetPartner(db *gorm.DB, partnerID int64) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var bal payout.PartnerBalance
		err := tx.Where("partner_id = ?", partnerID).First(&bal).Error
		if err == nil {
			if err := tx.Where("balance_id = ?", bal.ID).Delete(&payout.LedgerEntry{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&bal).Error; err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Where("partner_id = ?", partnerID).Delete(&booking.Model{}).Error
	})
}

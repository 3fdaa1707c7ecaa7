package main

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"classmarket/internal/domain/booking"
	"classmarket/internal/domain/payout"
	"classmarket/internal/domain/settings"
	applog "classmarket/internal/pkg/logger"
	"classmarket/internal/server"
)

const sampleFixture = `
policies:
  commission:
    standard_pct: 20
    subscriber_pct: 10
partners:
  - id: 7
    subscriber: false
    bookings:
      - {customer: c1, listing: l1, title: Yoga, days_ago: 1, amount: "50.00", status: confirmed, attendance: attended}
      - {customer: c2, listing: l1, title: Yoga, days_ago: 2, amount: "50.00", status: cancelled}
      - {customer: c1, listing: l2, title: Pilates, days_ago: 3, amount: "25.00"}
`

func TestParseFixture(t *testing.T) {
	fx, err := parseFixture([]byte(sampleFixture))
	require.NoError(t, err)
	require.Len(t, fx.Partners, 1)
	require.NotNil(t, fx.Policies.Commission)
	assert.Nil(t, fx.Policies.CancellationPolicy)

	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	rows, err := fx.Partners[0].toBookings(now)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, now.Add(-24*time.Hour), rows[0].BookedAt)
	assert.Equal(t, booking.AttendanceAttended, rows[0].AttendanceStatus)
	assert.Equal(t, booking.StatusCancelled, rows[1].BookingStatus)
	assert.Equal(t, booking.StatusConfirmed, rows[2].BookingStatus)

	_, err = parseFixture([]byte("partners: [{id: 0}]"))
	assert.Error(t, err)

	bad := PartnerFixture{ID: 1, Bookings: []BookingFixture{{Amount: "lots"}}}
	_, err = bad.toBookings(now)
	assert.Error(t, err)
}

func TestSeedIsRepeatable(t *testing.T) {
	dsn := fmt.Sprintf("file:seed_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(server.Models()...))

	fx, err := parseFixture([]byte(sampleFixture))
	require.NoError(t, err)

	ctx := context.Background()
	log := applog.Nop()
	now := time.Now().UTC()
	for i := 0; i < 2; i++ {
		store := settings.NewStore(settings.NewRepository(db), settings.BuiltinDefaults(), log)
		require.NoError(t, seed(ctx, db, store, log, fx, true, now))
	}

	list, err := booking.NewBookingRepository(db).ListBookings(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, list, 3)

	sum, err := payout.NewService(db, booking.NewBookingRepository(db), log).Summary(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "60.00", sum.PendingBalance.StringFixed(2))
}

func TestDemoFixtureIsValid(t *testing.T) {
	fx := demoFixture()
	require.NotEmpty(t, fx.Partners)
	for _, p := range fx.Partners {
		_, err := p.toBookings(time.Now())
		assert.NoError(t, err)
	}
}

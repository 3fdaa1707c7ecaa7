package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"classmarket/internal/pkg/logger"
)

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"gorm duplicated key", gorm.ErrDuplicatedKey, true},
		{"postgres 23505", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), true},
		{"postgres other code", &pgconn.PgError{Code: "23503"}, false},
		{"sqlite message", errors.New("UNIQUE constraint failed: partner_balances.partner_id"), true},
		{"unrelated", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUniqueViolation(tt.err))
		})
	}
}

type probe struct {
	ID   uint
	Name string
}

func TestConnectSQLiteAndMigrate(t *testing.T) {
	db, err := Connect("file:database_test?mode=memory&cache=shared", logger.Nop())
	require.NoError(t, err)
	require.NoError(t, Migrate(db, &probe{}))

	require.NoError(t, db.Create(&probe{Name: "x"}).Error)
	var n int64
	require.NoError(t, db.Model(&probe{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

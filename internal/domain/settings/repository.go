package settings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists raw JSON values by key.
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string) error
}

type settingRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &settingRepository{db: db}
}

func (r *settingRepository) Get(ctx context.Context, key string) (string, error) {
	var s Setting
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("get setting %s: %w", key, err)
	}
	return s.Value, nil
}

func (r *settingRepository) Put(ctx context.Context, key, value string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		s := Setting{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&s).Error
		if err != nil {
			return fmt.Errorf("put setting %s: %w", key, err)
		}
		return nil
	})
}

package settings

import "time"

const (
	KeyCancellationPolicy = "cancellation_policy"
	KeyCommission         = "commission"
)

// Setting is one platform-wide configuration value stored as JSON.
type Setting struct {
	Key       string    `gorm:"primaryKey;type:varchar(64)"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Setting) TableName() string {
	return "platform_settings"
}

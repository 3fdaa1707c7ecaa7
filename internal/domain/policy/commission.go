package policy

import (
	"math"

	"github.com/shopspring/decimal"
)

// CommissionConfig holds the platform commission rates in percent.
type CommissionConfig struct {
	StandardPct   float64 `json:"standard_pct" yaml:"standard_pct"`
	SubscriberPct float64 `json:"subscriber_pct" yaml:"subscriber_pct"`
}

// Split is a booking amount divided between the platform and the partner.
type Split struct {
	Rate         float64         `json:"rate"`
	Commission   decimal.Decimal `json:"commission"`
	NetToPartner decimal.Decimal `json:"net_to_partner"`
}

func DefaultCommissionConfig() CommissionConfig {
	return CommissionConfig{StandardPct: 10, SubscriberPct: 5}
}

func (c CommissionConfig) Validate() error {
	if !validPct(c.StandardPct) {
		return &ValidationError{Field: "standard_pct", Reason: "must be within [0,100]"}
	}
	if !validPct(c.SubscriberPct) {
		return &ValidationError{Field: "subscriber_pct", Reason: "must be within [0,100]"}
	}
	return nil
}

// Rate picks the subscriber or standard rate.
func (c CommissionConfig) Rate(isSubscriber bool) float64 {
	if isSubscriber {
		return c.SubscriberPct
	}
	return c.StandardPct
}

// CalculateCommission applies the configured rate to amount. The commission
// is rounded half-up to the minor unit and the partner receives the rest, so
// Commission + NetToPartner == amount exactly.
func CalculateCommission(amount decimal.Decimal, isSubscriber bool, cfg CommissionConfig) (Split, error) {
	rate := cfg.Rate(isSubscriber)
	if !validPct(rate) {
		return Split{}, &InvalidRateError{Rate: rate}
	}
	if amount.IsNegative() {
		return Split{}, &ValidationError{Field: "amount", Reason: "must be >= 0"}
	}

	commission := Percent(amount, rate)
	return Split{
		Rate:         rate,
		Commission:   commission,
		NetToPartner: amount.Sub(commission),
	}, nil
}

func validPct(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 100
}

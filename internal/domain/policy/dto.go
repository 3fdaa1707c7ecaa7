package policy

import (
	"time"

	"github.com/shopspring/decimal"
)

// RefundQuoteRequest asks what a cancellation would refund. Either
// HoursBeforeStart or ClassStartsAt must be set; hours win when both are.
type RefundQuoteRequest struct {
	Amount           decimal.Decimal `json:"amount"`
	HoursBeforeStart *float64        `json:"hours_before_start,omitempty"`
	ClassStartsAt    *time.Time      `json:"class_starts_at,omitempty"`
}

type RefundQuoteResponse struct {
	HoursBeforeStart float64         `json:"hours_before_start"`
	RefundPct        float64         `json:"refund_pct"`
	RefundAmount     decimal.Decimal `json:"refund_amount"`
}

type CommissionQuoteRequest struct {
	Amount       decimal.Decimal `json:"amount"`
	IsSubscriber bool            `json:"is_subscriber"`
}

type CommissionQuoteResponse struct {
	Rate         float64         `json:"rate"`
	Commission   decimal.Decimal `json:"commission"`
	NetToPartner decimal.Decimal `json:"net_to_partner"`
}

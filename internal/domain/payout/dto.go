package payout

import (
	"time"

	"github.com/shopspring/decimal"

	"classmarket/internal/domain/analytics"
	"classmarket/internal/domain/policy"
)

type AmountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// CreditRequest names the booking to credit. The amount is the booking's
// own total.
type CreditRequest struct {
	BookingID    string `json:"booking_id" binding:"required"`
	IsSubscriber bool   `json:"is_subscriber"`
}

type MovementResponse struct {
	Summary analytics.FinancialSummary `json:"summary"`
	Entry   EntryResponse              `json:"entry"`
}

type EntryResponse struct {
	ID         string          `json:"id"`
	BookingID  string          `json:"booking_id,omitempty"`
	Type       string          `json:"type"`
	Amount     decimal.Decimal `json:"amount"`
	Commission decimal.Decimal `json:"commission"`
	CreatedAt  string          `json:"created_at"`
}

func toEntryResponse(e *LedgerEntry) EntryResponse {
	return EntryResponse{
		ID:         e.ID.String(),
		BookingID:  bookingRef(e.BookingID),
		Type:       e.Type,
		Amount:     policy.FromMinor(e.AmountMinor),
		Commission: policy.FromMinor(e.CommissionMinor),
		CreatedAt:  e.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func bookingRef(id *string) string {
	if id == nil {
		return ""
	}
	return *id
}

package payout

import "errors"

var (
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInsufficientFunds = errors.New("insufficient balance")
	ErrAlreadyCredited   = errors.New("booking already credited")
)

package policy

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrValidation     = errors.New("invalid policy configuration")
	ErrPolicyCoverage = errors.New("no refund window covers the requested time")
	ErrInvalidRate    = errors.New("commission rate out of range")
)

// ValidationError describes a malformed configuration value. It is returned
// at write time; evaluation code assumes validated input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// PolicyCoverageError names the hours-before-start value that fell outside
// every configured window. Callers choose the business fallback.
type PolicyCoverageError struct {
	Hours float64
}

func (e *PolicyCoverageError) Error() string {
	return fmt.Sprintf("no refund window covers %s hours before start", strconv.FormatFloat(e.Hours, 'f', -1, 64))
}

func (e *PolicyCoverageError) Unwrap() error { return ErrPolicyCoverage }

type InvalidRateError struct {
	Rate float64
}

func (e *InvalidRateError) Error() string {
	return fmt.Sprintf("commission rate %s is outside [0,100]", strconv.FormatFloat(e.Rate, 'f', -1, 64))
}

func (e *InvalidRateError) Unwrap() error { return ErrInvalidRate }

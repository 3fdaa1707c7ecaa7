package policy

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Window maps a half-open range of hours-before-start [MinHours, MaxHours)
// to a refund percentage. A nil MaxHours is open-ended.
type Window struct {
	MinHours  float64  `json:"min_hours" yaml:"min_hours"`
	MaxHours  *float64 `json:"max_hours" yaml:"max_hours"`
	RefundPct float64  `json:"refund_pct" yaml:"refund_pct"`
}

func (w Window) upper() float64 {
	if w.MaxHours == nil {
		return math.Inf(1)
	}
	return *w.MaxHours
}

func (w Window) covers(hours float64) bool {
	return w.MinHours <= hours && hours < w.upper()
}

// CancellationPolicy is the tiered refund schedule configured by admins.
type CancellationPolicy struct {
	Windows []Window `json:"windows" yaml:"windows"`
}

// Refund is the outcome of evaluating a cancellation.
type Refund struct {
	RefundPct    float64         `json:"refund_pct"`
	RefundAmount decimal.Decimal `json:"refund_amount"`
}

// DefaultCancellationPolicy: <6h 30%, 6-24h 50%, 24h+ full refund.
func DefaultCancellationPolicy() CancellationPolicy {
	return CancellationPolicy{Windows: []Window{
		{MinHours: 0, MaxHours: hoursPtr(6), RefundPct: 30},
		{MinHours: 6, MaxHours: hoursPtr(24), RefundPct: 50},
		{MinHours: 24, MaxHours: nil, RefundPct: 100},
	}}
}

func hoursPtr(h float64) *float64 { return &h }

// Clone returns a deep copy; MaxHours pointers are not shared.
func (p CancellationPolicy) Clone() CancellationPolicy {
	out := CancellationPolicy{Windows: make([]Window, len(p.Windows))}
	for i, w := range p.Windows {
		out.Windows[i] = Window{MinHours: w.MinHours, RefundPct: w.RefundPct}
		if w.MaxHours != nil {
			out.Windows[i].MaxHours = hoursPtr(*w.MaxHours)
		}
	}
	return out
}

// Sorted returns the windows ordered by MinHours without touching p.
func (p CancellationPolicy) Sorted() []Window {
	ws := p.Clone().Windows
	sort.SliceStable(ws, func(i, j int) bool { return ws[i].MinHours < ws[j].MinHours })
	return ws
}

// Validate rejects malformed policies. Nothing is normalized.
func (p CancellationPolicy) Validate() error {
	if len(p.Windows) == 0 {
		return &ValidationError{Field: "windows", Reason: "at least one window is required"}
	}

	for i, w := range p.Windows {
		field := fmt.Sprintf("windows[%d]", i)
		if math.IsNaN(w.MinHours) || math.IsInf(w.MinHours, 0) {
			return &ValidationError{Field: field + ".min_hours", Reason: "must be a finite number"}
		}
		if w.MinHours < 0 {
			return &ValidationError{Field: field + ".min_hours", Reason: "must be >= 0"}
		}
		if w.MaxHours != nil {
			if math.IsNaN(*w.MaxHours) || math.IsInf(*w.MaxHours, 0) {
				return &ValidationError{Field: field + ".max_hours", Reason: "must be a finite number, use null for an open-ended window"}
			}
			if *w.MaxHours <= w.MinHours {
				return &ValidationError{Field: field + ".max_hours", Reason: "must be greater than min_hours"}
			}
		}
		if math.IsNaN(w.RefundPct) || w.RefundPct < 0 || w.RefundPct > 100 {
			return &ValidationError{Field: field + ".refund_pct", Reason: "must be within [0,100]"}
		}
	}

	sorted := p.Sorted()
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if prev.MaxHours == nil {
			return &ValidationError{Field: "windows", Reason: "only the last window may be open-ended"}
		}
		if cur.MinHours < *prev.MaxHours {
			return &ValidationError{
				Field:  "windows",
				Reason: fmt.Sprintf("window starting at %gh overlaps window [%gh,%gh)", cur.MinHours, prev.MinHours, *prev.MaxHours),
			}
		}
	}
	return nil
}

// RefundPercent returns the refund percentage of the first window (by
// MinHours) that covers hoursBeforeStart. The policy must be validated.
func RefundPercent(p CancellationPolicy, hoursBeforeStart float64) (float64, error) {
	if math.IsNaN(hoursBeforeStart) {
		return 0, &PolicyCoverageError{Hours: hoursBeforeStart}
	}
	for _, w := range p.Sorted() {
		if w.covers(hoursBeforeStart) {
			return w.RefundPct, nil
		}
	}
	return 0, &PolicyCoverageError{Hours: hoursBeforeStart}
}

// RefundAmount is amount*refundPct/100 in minor-unit precision.
func RefundAmount(amount decimal.Decimal, refundPct float64) decimal.Decimal {
	return Percent(amount, refundPct)
}

// EvaluateRefund combines RefundPercent and RefundAmount.
func EvaluateRefund(p CancellationPolicy, amount decimal.Decimal, hoursBeforeStart float64) (Refund, error) {
	if amount.IsNegative() {
		return Refund{}, &ValidationError{Field: "amount", Reason: "must be >= 0"}
	}
	pct, err := RefundPercent(p, hoursBeforeStart)
	if err != nil {
		return Refund{}, err
	}
	return Refund{RefundPct: pct, RefundAmount: RefundAmount(amount, pct)}, nil
}

// HoursBeforeStart is the fractional number of hours between the
// cancellation and the class start. Negative once the class has started.
func HoursBeforeStart(classStartsAt, cancelledAt time.Time) float64 {
	return classStartsAt.Sub(cancelledAt).Hours()
}

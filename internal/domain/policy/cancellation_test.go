package policy

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateRefund_DefaultTiers(t *testing.T) {
	p := DefaultCancellationPolicy()
	amount := decimal.NewFromInt(500)

	cases := []struct {
		hours float64
		pct   float64
		want  string
	}{
		{hours: 3, pct: 30, want: "150.00"},
		{hours: 10, pct: 50, want: "250.00"},
		{hours: 30, pct: 100, want: "500.00"},
		{hours: 0, pct: 30, want: "150.00"},
		{hours: 6, pct: 50, want: "250.00"},
		{hours: 23.999, pct: 50, want: "250.00"},
		{hours: 24, pct: 100, want: "500.00"},
		{hours: 10000, pct: 100, want: "500.00"},
	}

	for _, tc := range cases {
		refund, err := EvaluateRefund(p, amount, tc.hours)
		require.NoError(t, err, "hours=%v", tc.hours)
		assert.Equal(t, tc.pct, refund.RefundPct, "hours=%v", tc.hours)
		assert.Equal(t, tc.want, refund.RefundAmount.StringFixed(2), "hours=%v", tc.hours)
	}
}

func TestEvaluateRefund_NegativeHoursNotCovered(t *testing.T) {
	_, err := EvaluateRefund(DefaultCancellationPolicy(), decimal.NewFromInt(500), -1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPolicyCoverage))

	var covErr *PolicyCoverageError
	require.True(t, errors.As(err, &covErr))
	assert.Equal(t, -1.0, covErr.Hours)
	assert.Contains(t, err.Error(), "-1")
}

func TestRefundPercent_BeyondLastWindow(t *testing.T) {
	p := CancellationPolicy{Windows: []Window{
		{MinHours: 0, MaxHours: hoursPtr(48), RefundPct: 50},
	}}
	_, err := RefundPercent(p, 48)
	assert.ErrorIs(t, err, ErrPolicyCoverage)

	_, err = RefundPercent(p, math.NaN())
	assert.ErrorIs(t, err, ErrPolicyCoverage)
}

func TestRefundPercent_GapIsNotCovered(t *testing.T) {
	p := CancellationPolicy{Windows: []Window{
		{MinHours: 24, MaxHours: nil, RefundPct: 100},
		{MinHours: 0, MaxHours: hoursPtr(12), RefundPct: 0},
	}}
	require.NoError(t, p.Validate())

	pct, err := RefundPercent(p, 5)
	require.NoError(t, err)
	assert.Equal(t, 0.0, pct)

	_, err = RefundPercent(p, 18)
	assert.ErrorIs(t, err, ErrPolicyCoverage)
}

func TestRefundPercent_UnsortedInputNotMutated(t *testing.T) {
	p := CancellationPolicy{Windows: []Window{
		{MinHours: 24, MaxHours: nil, RefundPct: 100},
		{MinHours: 0, MaxHours: hoursPtr(24), RefundPct: 25},
	}}
	pct, err := RefundPercent(p, 1)
	require.NoError(t, err)
	assert.Equal(t, 25.0, pct)
	assert.Equal(t, 24.0, p.Windows[0].MinHours)
}

func TestRefund_MonotonicForMonotonicPolicy(t *testing.T) {
	p := DefaultCancellationPolicy()
	amount := decimal.RequireFromString("123.45")

	prev, err := EvaluateRefund(p, amount, 72)
	require.NoError(t, err)
	for h := 71.5; h >= 0; h -= 0.5 {
		cur, err := EvaluateRefund(p, amount, h)
		require.NoError(t, err)
		assert.True(t, cur.RefundAmount.LessThanOrEqual(prev.RefundAmount), "refund grew at %vh", h)
		prev = cur
	}
}

func TestRefundAmount_RoundsHalfUp(t *testing.T) {
	// 0.05 * 50% = 0.025 -> 0.03
	assert.Equal(t, "0.03", RefundAmount(decimal.RequireFromString("0.05"), 50).StringFixed(2))
	// 10.01 * 30% = 3.003 -> 3.00
	assert.Equal(t, "3.00", RefundAmount(decimal.RequireFromString("10.01"), 30).StringFixed(2))
	// 0.1 + 0.2 style inputs stay exact
	assert.Equal(t, "0.30", RefundAmount(decimal.RequireFromString("0.30"), 100).StringFixed(2))
}

func TestEvaluateRefund_RejectsNegativeAmount(t *testing.T) {
	_, err := EvaluateRefund(DefaultCancellationPolicy(), decimal.NewFromInt(-1), 30)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCancellationPolicy_Validate(t *testing.T) {
	cases := []struct {
		name  string
		p     CancellationPolicy
		field string
	}{
		{name: "empty", p: CancellationPolicy{}, field: "windows"},
		{name: "negative min", p: CancellationPolicy{Windows: []Window{{MinHours: -1, MaxHours: hoursPtr(5), RefundPct: 10}}}, field: "windows[0].min_hours"},
		{name: "max not above min", p: CancellationPolicy{Windows: []Window{{MinHours: 5, MaxHours: hoursPtr(5), RefundPct: 10}}}, field: "windows[0].max_hours"},
		{name: "infinite max", p: CancellationPolicy{Windows: []Window{{MinHours: 0, MaxHours: hoursPtr(math.Inf(1)), RefundPct: 10}}}, field: "windows[0].max_hours"},
		{name: "pct above 100", p: CancellationPolicy{Windows: []Window{{MinHours: 0, MaxHours: nil, RefundPct: 101}}}, field: "windows[0].refund_pct"},
		{name: "pct below 0", p: CancellationPolicy{Windows: []Window{{MinHours: 0, MaxHours: nil, RefundPct: -5}}}, field: "windows[0].refund_pct"},
		{name: "overlap", p: CancellationPolicy{Windows: []Window{
			{MinHours: 0, MaxHours: hoursPtr(10), RefundPct: 10},
			{MinHours: 8, MaxHours: nil, RefundPct: 100},
		}}, field: "windows"},
		{name: "open-ended not last", p: CancellationPolicy{Windows: []Window{
			{MinHours: 0, MaxHours: nil, RefundPct: 10},
			{MinHours: 8, MaxHours: hoursPtr(12), RefundPct: 100},
		}}, field: "windows"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.p.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tc.field, verr.Field)
		})
	}

	assert.NoError(t, DefaultCancellationPolicy().Validate())
}

func TestCancellationPolicy_CloneIsDeep(t *testing.T) {
	p := DefaultCancellationPolicy()
	c := p.Clone()
	*c.Windows[0].MaxHours = 99
	assert.Equal(t, 6.0, *p.Windows[0].MaxHours)
}

func TestHoursBeforeStart(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, 2.5, HoursBeforeStart(start, start.Add(-150*time.Minute)))
	assert.Equal(t, -1.0, HoursBeforeStart(start, start.Add(time.Hour)))
}

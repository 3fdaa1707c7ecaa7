package settings

import "classmarket/internal/domain/policy"

type WindowRequest struct {
	MinHours  *float64 `json:"min_hours" validate:"required,gte=0"`
	MaxHours  *float64 `json:"max_hours" validate:"omitempty,gt=0"`
	RefundPct *float64 `json:"refund_pct" validate:"required,gte=0,lte=100"`
}

type CancellationPolicyRequest struct {
	Windows []WindowRequest `json:"windows" validate:"required,min=1,dive"`
}

func (r CancellationPolicyRequest) ToPolicy() policy.CancellationPolicy {
	p := policy.CancellationPolicy{Windows: make([]policy.Window, 0, len(r.Windows))}
	for _, w := range r.Windows {
		win := policy.Window{MinHours: *w.MinHours, RefundPct: *w.RefundPct}
		if w.MaxHours != nil {
			upper := *w.MaxHours
			win.MaxHours = &upper
		}
		p.Windows = append(p.Windows, win)
	}
	return p
}

type CommissionRequest struct {
	StandardPct   *float64 `json:"standard_pct" validate:"required,gte=0,lte=100"`
	SubscriberPct *float64 `json:"subscriber_pct" validate:"required,gte=0,lte=100"`
}

func (r CommissionRequest) ToConfig() policy.CommissionConfig {
	return policy.CommissionConfig{StandardPct: *r.StandardPct, SubscriberPct: *r.SubscriberPct}
}

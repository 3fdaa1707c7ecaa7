package settings

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"classmarket/internal/domain/policy"
)

// Defaults are served until an admin stores a value.
type Defaults struct {
	CancellationPolicy policy.CancellationPolicy
	Commission         policy.CommissionConfig
}

func BuiltinDefaults() Defaults {
	return Defaults{
		CancellationPolicy: policy.DefaultCancellationPolicy(),
		Commission:         policy.DefaultCommissionConfig(),
	}
}

type defaultsFile struct {
	CancellationPolicy *policy.CancellationPolicy `yaml:"cancellation_policy"`
	Commission         *policy.CommissionConfig   `yaml:"commission"`
}

// ParseDefaults overlays a YAML document on base. Sections missing from the
// document keep the base value. The result is validated.
func ParseDefaults(data []byte, base Defaults) (Defaults, error) {
	var f defaultsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Defaults{}, fmt.Errorf("parse policy defaults: %w", err)
	}

	out := Defaults{CancellationPolicy: base.CancellationPolicy.Clone(), Commission: base.Commission}
	if f.CancellationPolicy != nil {
		out.CancellationPolicy = f.CancellationPolicy.Clone()
	}
	if f.Commission != nil {
		out.Commission = *f.Commission
	}

	if err := out.CancellationPolicy.Validate(); err != nil {
		return Defaults{}, fmt.Errorf("cancellation_policy: %w", err)
	}
	if err := out.Commission.Validate(); err != nil {
		return Defaults{}, fmt.Errorf("commission: %w", err)
	}
	return out, nil
}

// LoadDefaults reads path when set; an empty path returns base unchanged.
func LoadDefaults(path string, base Defaults) (Defaults, error) {
	if path == "" {
		return base, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Defaults{}, fmt.Errorf("read policy defaults: %w", err)
	}
	return ParseDefaults(data, base)
}

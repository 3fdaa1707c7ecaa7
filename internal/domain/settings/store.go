package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"classmarket/internal/domain/policy"
	"classmarket/internal/pkg/logger"
)

// Store is the current-value cache for platform policies. Writes validate,
// persist and then swap the cached pointer, so a reader sees either the old
// or the new value in full. Values are copied on the way in and out.
type Store struct {
	repo     Repository
	log      logger.Logger
	defaults Defaults

	writeMu      sync.Mutex
	cancellation atomic.Pointer[policy.CancellationPolicy]
	commission   atomic.Pointer[policy.CommissionConfig]
}

func NewStore(repo Repository, defaults Defaults, log logger.Logger) *Store {
	return &Store{repo: repo, defaults: defaults, log: log}
}

// Warm loads both values so a corrupt row fails at startup.
func (s *Store) Warm(ctx context.Context) error {
	if _, err := s.GetCancellationPolicy(ctx); err != nil {
		return err
	}
	if _, err := s.GetCommissionConfig(ctx); err != nil {
		return err
	}
	return nil
}

func (s *Store) GetCancellationPolicy(ctx context.Context) (policy.CancellationPolicy, error) {
	if p := s.cancellation.Load(); p != nil {
		return p.Clone(), nil
	}

	var p policy.CancellationPolicy
	found, err := s.load(ctx, KeyCancellationPolicy, &p)
	if err != nil {
		return policy.CancellationPolicy{}, err
	}
	if !found {
		p = s.defaults.CancellationPolicy.Clone()
	}
	if err := p.Validate(); err != nil {
		return policy.CancellationPolicy{}, fmt.Errorf("stored %s: %w", KeyCancellationPolicy, err)
	}

	if !s.cancellation.CompareAndSwap(nil, &p) {
		return s.cancellation.Load().Clone(), nil
	}
	return p.Clone(), nil
}

func (s *Store) GetCommissionConfig(ctx context.Context) (policy.CommissionConfig, error) {
	if c := s.commission.Load(); c != nil {
		return *c, nil
	}

	var c policy.CommissionConfig
	found, err := s.load(ctx, KeyCommission, &c)
	if err != nil {
		return policy.CommissionConfig{}, err
	}
	if !found {
		c = s.defaults.Commission
	}
	if err := c.Validate(); err != nil {
		return policy.CommissionConfig{}, fmt.Errorf("stored %s: %w", KeyCommission, err)
	}

	if !s.commission.CompareAndSwap(nil, &c) {
		return *s.commission.Load(), nil
	}
	return c, nil
}

// PutCancellationPolicy replaces the active policy. An invalid policy is
// rejected with a *policy.ValidationError and the previous one stays active.
func (s *Store) PutCancellationPolicy(ctx context.Context, p policy.CancellationPolicy) error {
	next := p.Clone()
	if err := next.Validate(); err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.save(ctx, KeyCancellationPolicy, next); err != nil {
		return err
	}
	s.cancellation.Store(&next)
	s.log.Info("cancellation policy updated", "windows", len(next.Windows))
	return nil
}

func (s *Store) PutCommissionConfig(ctx context.Context, c policy.CommissionConfig) error {
	if err := c.Validate(); err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.save(ctx, KeyCommission, c); err != nil {
		return err
	}
	s.commission.Store(&c)
	s.log.Info("commission config updated", "standard_pct", c.StandardPct, "subscriber_pct", c.SubscriberPct)
	return nil
}

func (s *Store) load(ctx context.Context, key string, into interface{}) (bool, error) {
	raw, err := s.repo.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), into); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (s *Store) save(ctx context.Context, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.repo.Put(ctx, key, string(raw))
}

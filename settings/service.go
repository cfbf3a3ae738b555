package settings

import (
	"context"
	"sync"
	"time"
)

// Well-known setting keys.
const (
	KeyDefaultAnnualDays = "default_annual_days"
	KeyMaxCarryoverDays  = "max_carryover_days"
	KeyWorkweekDays      = "workweek_days"
)

// Store is the persistence contract for raw setting rows.
type Store interface {
	// Setting returns the raw stored value; ok is false when the key is
	// absent.
	Setting(ctx context.Context, key string) (raw string, ok bool, err error)
	SaveSetting(ctx context.Context, key, raw string, updatedAt time.Time) error
	DeleteSetting(ctx context.Context, key string) error
	AllSettings(ctx context.Context) (map[string]string, error)
}

// Service reads and writes settings with a process-local cache. The
// cache is a memoization only - it must never be relied on for
// cross-process consistency - and every write invalidates the local
// entry immediately.
type Service struct {
	store Store

	mu    sync.RWMutex
	cache map[string]Value

	// Now supplies the updated-at timestamp for writes.
	Now func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, cache: make(map[string]Value)}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Get returns the decoded value for key; ok is false when unset.
func (s *Service) Get(ctx context.Context, key string) (Value, bool, error) {
	s.mu.RLock()
	v, hit := s.cache[key]
	s.mu.RUnlock()
	if hit {
		return v, true, nil
	}

	raw, ok, err := s.store.Setting(ctx, key)
	if err != nil || !ok {
		return Value{}, false, err
	}

	v = Decode(raw)
	s.mu.Lock()
	s.cache[key] = v
	s.mu.Unlock()
	return v, true, nil
}

// GetFloat is a convenience lookup with a default.
func (s *Service) GetFloat(ctx context.Context, key string, def float64) (float64, error) {
	v, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return def, err
	}
	return v.AsFloat(def), nil
}

// GetInt is a convenience lookup with a default.
func (s *Service) GetInt(ctx context.Context, key string, def int64) (int64, error) {
	v, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return def, err
	}
	return v.AsInt(def), nil
}

// Set persists a value and refreshes the local cache entry.
func (s *Service) Set(ctx context.Context, key string, v Value) error {
	if err := s.store.SaveSetting(ctx, key, v.Encode(), s.now()); err != nil {
		return err
	}
	s.mu.Lock()
	s.cache[key] = v
	s.mu.Unlock()
	return nil
}

// SetMultiple persists several values; partial failure leaves earlier
// keys written.
func (s *Service) SetMultiple(ctx context.Context, values map[string]Value) error {
	for key, v := range values {
		if err := s.Set(ctx, key, v); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a setting and drops the cache entry.
func (s *Service) Delete(ctx context.Context, key string) error {
	if err := s.store.DeleteSetting(ctx, key); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.cache, key)
	s.mu.Unlock()
	return nil
}

// All returns every stored setting, decoded. Bypasses the cache so the
// caller sees the persisted state.
func (s *Service) All(ctx context.Context) (map[string]Value, error) {
	raws, err := s.store.AllSettings(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]Value, len(raws))
	for key, raw := range raws {
		out[key] = Decode(raw)
	}
	return out, nil
}

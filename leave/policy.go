package leave

import (
	"context"

	"github.com/shopspring/decimal"
)

// Fallback constants used when neither a policy nor a system setting
// supplies a value. These mirror the statutory Liechtenstein minimum.
var (
	DefaultAnnualDays   = decimal.NewFromInt(25)
	DefaultMaxCarryover = decimal.NewFromInt(5)
)

// PolicyResolver resolves the entitlement policy applicable to a user:
// the settings override if present, else the active default policy.
// Tie-break for multiple defaults is the lowest policy id; the store
// contract guarantees determinism.
type PolicyResolver struct {
	Policies PolicyStore
	Settings UserSettingsStore
}

// Resolve returns the applicable policy (nil when none is configured)
// together with the user's settings (nil when none are stored).
func (r *PolicyResolver) Resolve(ctx context.Context, user UserID) (*Policy, *UserSettings, error) {
	settings, err := r.Settings.SettingsFor(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	if settings != nil && settings.PolicyOverride != nil {
		policy, err := r.Policies.Policy(ctx, *settings.PolicyOverride)
		if err == nil {
			return policy, settings, nil
		}
		if !IsNotFound(err) {
			return nil, nil, err
		}
		// Stale override: fall through to the default policy.
	}

	policy, err := r.Policies.DefaultPolicy(ctx)
	if err != nil {
		return nil, nil, err
	}
	return policy, settings, nil
}

// PolicyDefaults are the caller-supplied fallback constants applied
// when no policy resolves. The API layer sources them from the system
// settings (default_annual_days, max_carryover_days).
type PolicyDefaults struct {
	AnnualDays   decimal.Decimal
	MaxCarryover decimal.Decimal
}

// StatutoryDefaults returns the hardcoded Liechtenstein fallbacks.
func StatutoryDefaults() PolicyDefaults {
	return PolicyDefaults{AnnualDays: DefaultAnnualDays, MaxCarryover: DefaultMaxCarryover}
}

// Entitlements returns the annual-days and max-carryover values from
// the policy, falling back to the defaults field by field.
func (d PolicyDefaults) Entitlements(policy *Policy) (annualDays, maxCarryover decimal.Decimal) {
	if policy == nil {
		return d.AnnualDays, d.MaxCarryover
	}
	return policy.AnnualDays, policy.MaxCarryover
}

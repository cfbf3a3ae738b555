/*
Package factory provides policy presets and first-run seeding.

PURPOSE:
  Ships the Liechtenstein statutory policy presets and writes them into
  an empty database. This lets a fresh deployment serve correct
  entitlements before an administrator has configured anything.

PRESETS:
  - Standard LI (Vollzeit):       25 days / 5 carryover (default)
  - Jugendliche (bis 20 Jahre):   30 days / 5 carryover
  - Teilzeit (50%):               12.5 days / 2.5 carryover

JSON SCHEMA:
  {
    "id": "standard-li",
    "name": "Standard LI (Vollzeit)",
    "description": "...",
    "annual_days": 25,
    "max_carryover": 5,
    "default": true
  }

USAGE:
  created, err := factory.Seed(ctx, store)

  // Or load custom policies from JSON
  policy, err := factory.ParsePolicy(jsonStr)
  err = store.SavePolicy(ctx, policy)

SEE ALSO:
  - leave/types.go: Policy type definition
  - settings/service.go: system-wide fallback values
*/
package factory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmind-zeno/LieTimeOffBundle/leave"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// PolicyJSON is the JSON representation of a leave policy.
type PolicyJSON struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	AnnualDays   float64 `json:"annual_days"`
	MaxCarryover float64 `json:"max_carryover"`
	Default      bool    `json:"default,omitempty"`
	Active       *bool   `json:"active,omitempty"` // nil means active
}

// ParsePolicy parses a JSON string into a leave.Policy.
func ParsePolicy(jsonStr string) (*leave.Policy, error) {
	var pj PolicyJSON
	if err := json.Unmarshal([]byte(jsonStr), &pj); err != nil {
		return nil, fmt.Errorf("failed to parse policy JSON: %w", err)
	}
	return FromJSON(pj)
}

// FromJSON converts PolicyJSON to a leave.Policy.
func FromJSON(pj PolicyJSON) (*leave.Policy, error) {
	if pj.ID == "" {
		return nil, fmt.Errorf("policy requires an id")
	}
	if pj.Name == "" {
		return nil, fmt.Errorf("policy %s requires a name", pj.ID)
	}
	if pj.AnnualDays < 0 {
		return nil, fmt.Errorf("policy %s: annual_days must not be negative", pj.ID)
	}
	if pj.MaxCarryover < 0 {
		return nil, fmt.Errorf("policy %s: max_carryover must not be negative", pj.ID)
	}

	active := true
	if pj.Active != nil {
		active = *pj.Active
	}

	now := time.Now().UTC()
	return &leave.Policy{
		ID:           leave.PolicyID(pj.ID),
		Name:         pj.Name,
		Description:  pj.Description,
		AnnualDays:   decimal.NewFromFloat(pj.AnnualDays),
		MaxCarryover: decimal.NewFromFloat(pj.MaxCarryover),
		Default:      pj.Default,
		Active:       active,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// ToJSON converts a leave.Policy back to its JSON representation.
func ToJSON(p *leave.Policy) PolicyJSON {
	annual, _ := p.AnnualDays.Float64()
	carryover, _ := p.MaxCarryover.Float64()
	active := p.Active
	return PolicyJSON{
		ID:           string(p.ID),
		Name:         p.Name,
		Description:  p.Description,
		AnnualDays:   annual,
		MaxCarryover: carryover,
		Default:      p.Default,
		Active:       &active,
	}
}

// =============================================================================
// PRESET POLICIES
// =============================================================================

// Presets returns the statutory Liechtenstein policy set.
func Presets() []PolicyJSON {
	return []PolicyJSON{
		{
			ID:           "standard-li",
			Name:         "Standard LI (Vollzeit)",
			Description:  "Gesetzlicher Mindestanspruch für Vollzeitangestellte",
			AnnualDays:   25,
			MaxCarryover: 5,
			Default:      true,
		},
		{
			ID:           "jugendliche-li",
			Name:         "Jugendliche (bis 20 Jahre)",
			Description:  "Erhöhter Anspruch für Arbeitnehmer bis zum vollendeten 20. Lebensjahr",
			AnnualDays:   30,
			MaxCarryover: 5,
		},
		{
			ID:           "teilzeit-50",
			Name:         "Teilzeit (50%)",
			Description:  "Anteiliger Anspruch bei 50% Beschäftigungsgrad",
			AnnualDays:   12.5,
			MaxCarryover: 2.5,
		},
	}
}

// Seed writes the preset policies into the store. Existing policies are
// never overwritten; Seed returns how many presets it created.
func Seed(ctx context.Context, store leave.PolicyStore) (int, error) {
	created := 0
	for _, pj := range Presets() {
		existing, err := store.Policy(ctx, leave.PolicyID(pj.ID))
		if err != nil && !leave.IsNotFound(err) {
			return created, err
		}
		if existing != nil {
			continue
		}

		policy, err := FromJSON(pj)
		if err != nil {
			return created, err
		}
		if err := store.SavePolicy(ctx, policy); err != nil {
			return created, fmt.Errorf("failed to seed policy %s: %w", pj.ID, err)
		}
		created++
	}
	return created, nil
}

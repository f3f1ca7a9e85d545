package model

import "billionaireable/internal/domain"

type Tier string

const (
	TierFounder     Tier = "founder"
	TierScaler      Tier = "scaler"
	TierOwner       Tier = "owner"
	TierInnerCircle Tier = "inner-circle"
)

type BillingCycle string

const (
	BillingCycleMonthly BillingCycle = "monthly"
	BillingCycleAnnual  BillingCycle = "annual"
)

// TierPricing holds the configured price points for one tier.
type TierPricing struct {
	MonthlyAmount float64
	AnnualAmount  float64
	Description   string
}

// Catalog maps each periodic tier to its expected charge. It is loaded once
// from config at startup and never mutated afterwards.
//
// The inner-circle tier is special-cased: it carries a single flat annual fee
// and has no monthly price point, so it lives outside the periodic table.
type Catalog struct {
	tiers           map[Tier]TierPricing
	innerCircleFlat float64
}

func NewCatalog(tiers map[Tier]TierPricing, innerCircleFlat float64) *Catalog {
	cp := make(map[Tier]TierPricing, len(tiers))
	for k, v := range tiers {
		cp[k] = v
	}
	return &Catalog{tiers: cp, innerCircleFlat: innerCircleFlat}
}

// ExpectedAmount returns the configured charge for a (tier, cycle) pair.
// Inner-circle resolves to its flat annual fee regardless of cycle.
func (c *Catalog) ExpectedAmount(tier Tier, cycle BillingCycle) (float64, error) {
	if tier == TierInnerCircle {
		return c.innerCircleFlat, nil
	}
	p, ok := c.tiers[tier]
	if !ok {
		return 0, domain.ErrUnknownTier
	}
	if cycle == BillingCycleAnnual {
		return p.AnnualAmount, nil
	}
	return p.MonthlyAmount, nil
}

// Describe returns the configured description for a tier, empty if unknown.
func (c *Catalog) Describe(tier Tier) string {
	return c.tiers[tier].Description
}

package entitlement

import (
	"context"
	"slices"
	"sync"
)

// Catalog resolves a plan id to its ordered feature entitlements.
// Implementations return ErrPlanNotFound for unknown plans.
type Catalog interface {
	PlanFeatures(ctx context.Context, planID string) ([]FeatureEntitlement, error)
}

// inMemCatalog implements Catalog over an in-memory plan map.
type inMemCatalog struct {
	mu    sync.RWMutex
	plans map[string][]FeatureEntitlement
}

// NewInMemCatalog returns an in-memory Catalog with a deep copy of the given
// plan definitions. Entry order within a plan is preserved.
func NewInMemCatalog(plans map[string][]FeatureEntitlement) Catalog {
	plansCopy := make(map[string][]FeatureEntitlement, len(plans))
	for id, features := range plans {
		plansCopy[id] = slices.Clone(features)
	}
	return &inMemCatalog{plans: plansCopy}
}

// PlanFeatures returns a copy of the plan's feature entitlements.
func (c *inMemCatalog) PlanFeatures(_ context.Context, planID string) ([]FeatureEntitlement, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	features, ok := c.plans[planID]
	if !ok {
		return nil, ErrPlanNotFound
	}
	return slices.Clone(features), nil
}

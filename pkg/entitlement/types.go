package entitlement

import (
	"time"
)

// FeatureKey identifies a plan-gated capability.
type FeatureKey string

// Predefined feature keys. Callers may define their own.
const (
	FeatureProductListings    FeatureKey = "product_listings"
	FeatureAdCampaigns        FeatureKey = "ad_campaigns"
	FeaturePromotedPlacements FeatureKey = "promoted_placements"
	FeatureAnalytics          FeatureKey = "analytics"
	FeatureBulkExport         FeatureKey = "bulk_export"
	FeatureAPIAccess          FeatureKey = "api_access"
)

const (
	// Unlimited indicates no usage limit for a feature (-1 chosen for SQL compatibility).
	Unlimited int64 = -1
)

// FeatureEntitlement is a single feature grant within a plan: whether the
// feature is enabled and how much usage the plan allows. Immutable once
// loaded from a plan definition.
type FeatureEntitlement struct {
	Key     FeatureKey `json:"key" yaml:"key"`
	Enabled bool       `json:"enabled" yaml:"enabled"`
	Limit   int64      `json:"limit" yaml:"limit"` // Unlimited (-1) means no cap
}

// MerchantState is the per-merchant subscription record this core consumes.
// It is mutated only by the external subscription lifecycle component.
type MerchantState struct {
	MerchantID     string     `json:"merchant_id"`
	ActivePlanID   string     `json:"active_plan_id"`
	PreviousPlanID string     `json:"previous_plan_id,omitempty"`
	DowngradedAt   *time.Time `json:"downgraded_at,omitempty"`
}

// Validate enforces the state invariants: a non-empty merchant and plan id,
// and DowngradedAt set if and only if PreviousPlanID is set.
func (s MerchantState) Validate() error {
	if s.MerchantID == "" {
		return ErrInvalidMerchantID
	}
	if s.ActivePlanID == "" {
		return ErrInvalidState
	}
	if (s.PreviousPlanID == "") != (s.DowngradedAt == nil) {
		return ErrInvalidState
	}
	return nil
}

// Snapshot is a merchant's resolved entitlements at a point in time. It holds
// the feature sets of both the active and, after a downgrade, the previous
// plan so the grace-window branch is decided live at check time; grace
// expiring mid-TTL takes effect without a cache invalidation.
type Snapshot struct {
	MerchantID string                          `json:"merchant_id"`
	State      MerchantState                   `json:"state"`
	Plans      map[string][]FeatureEntitlement `json:"plans"`
	BuiltAt    time.Time                       `json:"built_at"`
}

// Feature returns the entitlement for a feature under the given plan.
// The second result is false when the plan or the feature entry is absent.
func (s *Snapshot) Feature(planID string, key FeatureKey) (FeatureEntitlement, bool) {
	features, ok := s.Plans[planID]
	if !ok {
		return FeatureEntitlement{}, false
	}
	for _, f := range features {
		if f.Key == key {
			return f, true
		}
	}
	return FeatureEntitlement{}, false
}

// AccessRequest asks whether a merchant may consume a feature.
// CurrentUsage, when nil, is resolved from the configured UsageTracker.
type AccessRequest struct {
	MerchantID     string     `json:"merchant_id"`
	Feature        FeatureKey `json:"feature_key"`
	RequestedUsage int64      `json:"requested_usage,omitempty"`
	CurrentUsage   *int64     `json:"current_usage,omitempty"`
}

// Validate rejects malformed requests before any I/O happens.
func (r AccessRequest) Validate() error {
	if r.MerchantID == "" {
		return ErrInvalidMerchantID
	}
	if r.Feature == "" {
		return ErrInvalidFeatureKey
	}
	if r.RequestedUsage < 0 {
		return ErrInvalidUsage
	}
	if r.CurrentUsage != nil && *r.CurrentUsage < 0 {
		return ErrInvalidUsage
	}
	return nil
}

// Reason explains a decision outcome.
type Reason string

const (
	ReasonOK              Reason = "ok"
	ReasonFeatureDisabled Reason = "feature_disabled"
	ReasonLimitExceeded   Reason = "limit_exceeded"
	ReasonPlanNotFound    Reason = "plan_not_found"
)

// Decision is the outcome of an access check. "Not entitled" is expressed
// here, never as an error: callers branch on Allowed and Reason.
type Decision struct {
	Allowed        bool   `json:"allowed"`
	Reason         Reason `json:"reason"`
	EffectiveLimit *int64 `json:"effective_limit,omitempty"` // nil for unlimited features
	Remaining      *int64 `json:"remaining,omitempty"`       // nil when no limit applies
}

package entitlement

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Evaluator produces allow/deny verdicts for feature-access requests by
// combining the plan catalog, merchant state, usage counters, and the
// grace-period policy. It is a pure read-side decision function: the only
// side effect is idempotent cache population, which is safe to race.
type Evaluator interface {
	// CheckAccess answers whether the merchant may consume the feature.
	// "Not entitled" is a Decision value; errors are reserved for invalid
	// input and missing merchant records.
	CheckAccess(ctx context.Context, req AccessRequest) (Decision, error)

	// Snapshot returns the merchant's resolved entitlement snapshot,
	// building and caching it if necessary. Intended for support tooling.
	Snapshot(ctx context.Context, merchantID string) (*Snapshot, error)

	// Invalidate drops the merchant's cached snapshot. Call after any plan
	// or downgrade change to avoid serving stale entitlements for the
	// remainder of the TTL window.
	Invalidate(ctx context.Context, merchantID string) error
}

type evaluator struct {
	catalog Catalog
	states  StateStore
	usage   UsageTracker
	cache   Cache
	cfg     Config
	log     *slog.Logger
	now     func() time.Time
}

// Option configures an Evaluator.
type Option func(*evaluator)

// WithConfig replaces the default configuration.
func WithConfig(cfg Config) Option {
	return func(e *evaluator) { e.cfg = cfg }
}

// WithCache replaces the default in-process snapshot cache.
// Nil caches are ignored.
func WithCache(c Cache) Option {
	return func(e *evaluator) {
		if c != nil {
			e.cache = c
		}
	}
}

// WithClock replaces the time source used for grace-window checks.
// Intended for tests; nil clocks are ignored.
func WithClock(now func() time.Time) Option {
	return func(e *evaluator) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLogger sets the logger used for degraded-mode warnings.
func WithLogger(log *slog.Logger) Option {
	return func(e *evaluator) {
		if log != nil {
			e.log = log
		}
	}
}

// NewEvaluator creates an Evaluator. Panics if a required dependency is
// nil. The default configuration caches snapshots in-process for an hour
// with the grace period disabled.
func NewEvaluator(catalog Catalog, states StateStore, usage UsageTracker, opts ...Option) (Evaluator, error) {
	if catalog == nil {
		panic("entitlement: Catalog is required")
	}
	if states == nil {
		panic("entitlement: StateStore is required")
	}
	if usage == nil {
		panic("entitlement: UsageTracker is required")
	}

	e := &evaluator{
		catalog: catalog,
		states:  states,
		usage:   usage,
		cfg:     DefaultConfig(),
		log:     slog.New(slog.DiscardHandler),
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}
	if e.cache == nil {
		e.cache = NewMemoryCache(e.cfg.CacheTTL())
	}

	return e, nil
}

// CheckAccess implements the decision algorithm. Disabling is a stronger
// veto than quota: a disabled feature reports feature_disabled even when the
// request would also exceed the limit.
func (e *evaluator) CheckAccess(ctx context.Context, req AccessRequest) (Decision, error) {
	if err := req.Validate(); err != nil {
		return Decision{}, err
	}

	snap, err := e.snapshot(ctx, req.MerchantID)
	if err != nil {
		return Decision{}, err
	}

	planID := e.governingPlan(snap.State)
	if _, ok := snap.Plans[planID]; !ok {
		return Decision{Allowed: false, Reason: ReasonPlanNotFound}, nil
	}

	feat, ok := snap.Feature(planID, req.Feature)
	if !ok || !feat.Enabled {
		// A feature absent from the governing plan is treated as disabled.
		return Decision{Allowed: false, Reason: ReasonFeatureDisabled}, nil
	}

	if feat.Limit == Unlimited {
		return Decision{Allowed: true, Reason: ReasonOK}, nil
	}

	current, err := e.currentUsage(ctx, req)
	if err != nil {
		return Decision{}, err
	}

	limit := feat.Limit
	projected := current + req.RequestedUsage
	if projected > limit {
		remaining := max(limit-current, 0)
		return Decision{
			Allowed:        false,
			Reason:         ReasonLimitExceeded,
			EffectiveLimit: &limit,
			Remaining:      &remaining,
		}, nil
	}

	remaining := limit - projected
	return Decision{
		Allowed:        true,
		Reason:         ReasonOK,
		EffectiveLimit: &limit,
		Remaining:      &remaining,
	}, nil
}

// Snapshot returns the merchant's resolved snapshot, building it on a miss.
func (e *evaluator) Snapshot(ctx context.Context, merchantID string) (*Snapshot, error) {
	if merchantID == "" {
		return nil, ErrInvalidMerchantID
	}
	return e.snapshot(ctx, merchantID)
}

// Invalidate drops the merchant's cached snapshot.
func (e *evaluator) Invalidate(ctx context.Context, merchantID string) error {
	if merchantID == "" {
		return ErrInvalidMerchantID
	}
	return e.cache.Invalidate(ctx, merchantID)
}

// governingPlan picks the plan whose entitlements apply right now. During an
// active grace window after a downgrade the previous plan governs; the plan
// identity itself (ActivePlanID) changed immediately, only limit enforcement
// is delayed.
func (e *evaluator) governingPlan(st MerchantState) string {
	if !e.cfg.GraceEnabled || st.DowngradedAt == nil || st.PreviousPlanID == "" {
		return st.ActivePlanID
	}
	deadline := st.DowngradedAt.AddDate(0, 0, e.cfg.GraceDays)
	if e.now().Before(deadline) {
		return st.PreviousPlanID
	}
	return st.ActivePlanID
}

// snapshot resolves via the cache, rebuilding from source on a miss.
// Concurrent rebuilds for the same merchant are tolerated: they are pure
// functions of the same inputs and last Put wins.
func (e *evaluator) snapshot(ctx context.Context, merchantID string) (*Snapshot, error) {
	if snap, ok := e.cache.Get(ctx, merchantID); ok {
		return snap, nil
	}

	st, err := e.states.State(ctx, merchantID)
	if err != nil {
		return nil, err
	}

	// Resolve both the active and, if set, the previous plan so the grace
	// branch can flip mid-TTL without an invalidation. A plan missing from
	// the catalog is recorded as absent and surfaces as plan_not_found at
	// decision time, not as an error here.
	plans := make(map[string][]FeatureEntitlement, 2)
	for _, planID := range []string{st.ActivePlanID, st.PreviousPlanID} {
		if planID == "" {
			continue
		}
		if _, ok := plans[planID]; ok {
			continue
		}
		features, err := e.catalog.PlanFeatures(ctx, planID)
		if err != nil {
			if errors.Is(err, ErrPlanNotFound) {
				continue
			}
			return nil, err
		}
		plans[planID] = features
	}

	snap := &Snapshot{
		MerchantID: merchantID,
		State:      st,
		Plans:      plans,
		BuiltAt:    e.now(),
	}

	if err := e.cache.Put(ctx, merchantID, snap); err != nil {
		// Cache outage degrades to rebuild-per-check; never fail the decision.
		e.log.WarnContext(ctx, "failed to cache entitlement snapshot",
			"merchant_id", merchantID, "error", err)
	}

	return snap, nil
}

// currentUsage resolves the caller-supplied value or falls back to the tracker.
func (e *evaluator) currentUsage(ctx context.Context, req AccessRequest) (int64, error) {
	if req.CurrentUsage != nil {
		return *req.CurrentUsage, nil
	}
	current, err := e.usage.CurrentUsage(ctx, req.MerchantID, req.Feature)
	if err != nil {
		return 0, errors.Join(ErrFailedToReadUsage, err)
	}
	if current < 0 {
		return 0, ErrInvalidUsage
	}
	return current, nil
}

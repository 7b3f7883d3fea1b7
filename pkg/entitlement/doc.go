// Package entitlement decides whether a merchant may use a plan-gated
// feature. It combines a plan catalog, per-merchant subscription state,
// usage counters, and an optional post-downgrade grace period into a single
// allow/deny decision with an explicit reason.
//
// Key concepts:
//
//   - FeatureEntitlement: a feature grant within a plan (enabled flag plus a
//     numeric limit, or Unlimited)
//   - MerchantState: the merchant's active plan and, after a downgrade, the
//     previous plan and downgrade timestamp
//   - Governing plan: the plan whose entitlements apply to a check, meaning
//     the previous plan while a grace window is active and the active plan
//     otherwise
//   - Snapshot: a merchant's resolved entitlements, cached per merchant with
//     a configurable TTL
//
// Basic usage:
//
//	catalog := entitlement.NewInMemCatalog(map[string][]entitlement.FeatureEntitlement{
//	    "starter": {
//	        {Key: entitlement.FeatureProductListings, Enabled: true, Limit: 50},
//	        {Key: entitlement.FeatureAnalytics, Enabled: false, Limit: entitlement.Unlimited},
//	    },
//	    "growth": {
//	        {Key: entitlement.FeatureProductListings, Enabled: true, Limit: entitlement.Unlimited},
//	        {Key: entitlement.FeatureAnalytics, Enabled: true, Limit: entitlement.Unlimited},
//	    },
//	})
//
//	eval, err := entitlement.NewEvaluator(catalog, states, usage)
//	if err != nil {
//	    return err
//	}
//
//	decision, err := eval.CheckAccess(ctx, entitlement.AccessRequest{
//	    MerchantID:     "m_123",
//	    Feature:        entitlement.FeatureProductListings,
//	    RequestedUsage: 1,
//	})
//	if err != nil {
//	    return err // invalid input or unknown merchant
//	}
//	if !decision.Allowed {
//	    // decision.Reason explains why: feature_disabled, limit_exceeded, plan_not_found
//	}
//
// Being denied is not an error. Errors are reserved for malformed requests,
// unknown merchants, and infrastructure failures; everything else is a
// Decision value so callers never branch on exceptions for ordinary business
// outcomes.
//
// The subscription lifecycle component must call Invalidate for a merchant
// whenever its plan or downgrade timestamp changes; otherwise checks may see
// stale entitlements for up to the cache TTL.
package entitlement

package entitlement

import "errors"

var (
	// Record lookup errors
	ErrMerchantNotFound = errors.New("merchant entitlement state not found")
	ErrPlanNotFound     = errors.New("plan not found in catalog")

	// Input validation errors
	ErrInvalidMerchantID = errors.New("merchant id must not be empty")
	ErrInvalidFeatureKey = errors.New("feature key must not be empty")
	ErrInvalidUsage      = errors.New("usage values must not be negative")
	ErrInvalidState      = errors.New("invalid merchant entitlement state")

	// Configuration errors
	ErrInvalidConfig = errors.New("invalid entitlement configuration")

	// System errors
	ErrFailedToLoadCatalog = errors.New("failed to load plan catalog")
	ErrFailedToReadUsage   = errors.New("failed to read current usage")
)

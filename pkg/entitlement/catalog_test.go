package entitlement_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/gatekit/pkg/entitlement"
)

func TestInMemCatalog_PlanFeatures(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	source := map[string][]entitlement.FeatureEntitlement{
		"starter": {
			{Key: entitlement.FeatureProductListings, Enabled: true, Limit: 10},
			{Key: entitlement.FeatureAnalytics, Enabled: false, Limit: entitlement.Unlimited},
		},
	}
	catalog := entitlement.NewInMemCatalog(source)

	features, err := catalog.PlanFeatures(ctx, "starter")
	require.NoError(t, err)
	require.Len(t, features, 2)
	assert.Equal(t, entitlement.FeatureProductListings, features[0].Key, "entry order is preserved")

	_, err = catalog.PlanFeatures(ctx, "unknown")
	assert.ErrorIs(t, err, entitlement.ErrPlanNotFound)
}

func TestInMemCatalog_DeepCopies(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	source := map[string][]entitlement.FeatureEntitlement{
		"starter": {{Key: entitlement.FeatureProductListings, Enabled: true, Limit: 10}},
	}
	catalog := entitlement.NewInMemCatalog(source)

	// Mutating the source after construction must not affect the catalog.
	source["starter"][0].Limit = 999

	features, err := catalog.PlanFeatures(ctx, "starter")
	require.NoError(t, err)
	assert.Equal(t, int64(10), features[0].Limit)

	// Mutating a returned slice must not affect subsequent reads.
	features[0].Enabled = false
	again, err := catalog.PlanFeatures(ctx, "starter")
	require.NoError(t, err)
	assert.True(t, again[0].Enabled)
}

func TestNewYAMLCatalog(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	data := []byte(`
plans:
  starter:
    features:
      - key: product_listings
        enabled: true
        limit: 50
      - key: analytics
        enabled: false
  growth:
    features:
      - key: product_listings
        enabled: true
`)

	catalog, err := entitlement.NewYAMLCatalog(data)
	require.NoError(t, err)

	features, err := catalog.PlanFeatures(ctx, "starter")
	require.NoError(t, err)
	require.Len(t, features, 2)
	assert.Equal(t, int64(50), features[0].Limit)
	assert.Equal(t, entitlement.Unlimited, features[1].Limit, "missing limit means unlimited")
	assert.False(t, features[1].Enabled)

	features, err = catalog.PlanFeatures(ctx, "growth")
	require.NoError(t, err)
	require.Len(t, features, 1)
	assert.Equal(t, entitlement.Unlimited, features[0].Limit)
}

func TestNewYAMLCatalog_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{
			name: "malformed yaml",
			data: "plans: [",
		},
		{
			name: "empty feature key",
			data: `
plans:
  starter:
    features:
      - enabled: true
        limit: 5
`,
		},
		{
			name: "negative limit",
			data: `
plans:
  starter:
    features:
      - key: product_listings
        enabled: true
        limit: -5
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := entitlement.NewYAMLCatalog([]byte(tt.data))
			assert.ErrorIs(t, err, entitlement.ErrFailedToLoadCatalog)
		})
	}
}

package entitlement

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// yamlCatalogFile mirrors the on-disk catalog layout:
//
//	plans:
//	  starter:
//	    features:
//	      - key: product_listings
//	        enabled: true
//	        limit: 50
//	      - key: analytics
//	        enabled: false
//
// A missing limit means unlimited.
type yamlCatalogFile struct {
	Plans map[string]yamlPlan `yaml:"plans"`
}

type yamlPlan struct {
	Features []yamlFeature `yaml:"features"`
}

type yamlFeature struct {
	Key     FeatureKey `yaml:"key"`
	Enabled bool       `yaml:"enabled"`
	Limit   *int64     `yaml:"limit"`
}

// NewYAMLCatalog parses a catalog from YAML bytes and returns an in-memory
// Catalog over the result.
func NewYAMLCatalog(data []byte) (Catalog, error) {
	var file yamlCatalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Join(ErrFailedToLoadCatalog, err)
	}

	plans := make(map[string][]FeatureEntitlement, len(file.Plans))
	for planID, plan := range file.Plans {
		if planID == "" {
			return nil, errors.Join(ErrFailedToLoadCatalog, errors.New("empty plan id"))
		}
		features := make([]FeatureEntitlement, 0, len(plan.Features))
		for _, f := range plan.Features {
			if f.Key == "" {
				return nil, errors.Join(ErrFailedToLoadCatalog,
					fmt.Errorf("plan %q has a feature with an empty key", planID))
			}
			limit := Unlimited
			if f.Limit != nil {
				if *f.Limit < 0 {
					return nil, errors.Join(ErrFailedToLoadCatalog,
						fmt.Errorf("plan %q feature %q has a negative limit", planID, f.Key))
				}
				limit = *f.Limit
			}
			features = append(features, FeatureEntitlement{
				Key:     f.Key,
				Enabled: f.Enabled,
				Limit:   limit,
			})
		}
		plans[planID] = features
	}

	return NewInMemCatalog(plans), nil
}

// NewYAMLCatalogFile reads and parses a catalog from the given path.
func NewYAMLCatalogFile(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadCatalog, err)
	}
	return NewYAMLCatalog(data)
}

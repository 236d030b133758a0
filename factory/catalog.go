/*
Package factory provides JSON to Go catalog conversion.

PURPOSE:
  Converts JSON seed definitions into a loyalty.Catalog. This enables
  catalog configuration without code changes - an operator can define
  businesses and rewards in JSON, and the factory builds the validated
  registry the engine reads.

JSON SCHEMA:
  {
    "businesses": [
      {"id": "1", "name": "Coffee Central", "category": "Food & Beverage",
       "points_per_dollar": 10, "description": "Premium coffee and pastries"}
    ],
    "rewards": [
      {"id": "1", "business_id": "1", "title": "Free Coffee",
       "points_required": 100, "category": "Beverage"}
    ]
  }

VALIDATION:
  - points_per_dollar must be non-negative
  - points_required must be positive
  - reward business references and ID uniqueness are checked by
    loyalty.NewCatalog

SEE ALSO:
  - loyalty/catalog.go: Catalog type and invariants
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/warp/loyalty-engine/loyalty"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// CatalogJSON is the JSON representation of a catalog seed.
type CatalogJSON struct {
	Businesses []BusinessJSON `json:"businesses"`
	Rewards    []RewardJSON   `json:"rewards"`
}

// BusinessJSON represents one business record.
type BusinessJSON struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Category        string `json:"category"`
	Description     string `json:"description,omitempty"`
	PointsPerDollar int64  `json:"points_per_dollar"`
}

// RewardJSON represents one reward record.
type RewardJSON struct {
	ID             string `json:"id"`
	BusinessID     string `json:"business_id"`
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	PointsRequired int64  `json:"points_required"`
	Category       string `json:"category"`
}

// =============================================================================
// PARSING
// =============================================================================

// ParseCatalog builds a validated catalog from a JSON seed document.
func ParseCatalog(data []byte) (*loyalty.Catalog, error) {
	var seed CatalogJSON
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("invalid catalog JSON: %w", err)
	}
	return BuildCatalog(seed)
}

// BuildCatalog converts a parsed seed into a catalog.
func BuildCatalog(seed CatalogJSON) (*loyalty.Catalog, error) {
	businesses := make([]loyalty.Business, 0, len(seed.Businesses))
	for _, b := range seed.Businesses {
		if b.ID == "" || b.Name == "" {
			return nil, fmt.Errorf("business %q: id and name are required", b.ID)
		}
		if b.PointsPerDollar < 0 {
			return nil, fmt.Errorf("business %q: points_per_dollar must be non-negative", b.ID)
		}
		businesses = append(businesses, loyalty.Business{
			ID:              loyalty.BusinessID(b.ID),
			Name:            b.Name,
			Category:        b.Category,
			Description:     b.Description,
			PointsPerDollar: b.PointsPerDollar,
		})
	}

	rewards := make([]loyalty.Reward, 0, len(seed.Rewards))
	for _, r := range seed.Rewards {
		if r.ID == "" || r.Title == "" {
			return nil, fmt.Errorf("reward %q: id and title are required", r.ID)
		}
		if r.PointsRequired <= 0 {
			return nil, fmt.Errorf("reward %q: points_required must be positive", r.ID)
		}
		rewards = append(rewards, loyalty.Reward{
			ID:             loyalty.RewardID(r.ID),
			BusinessID:     loyalty.BusinessID(r.BusinessID),
			Title:          r.Title,
			Description:    r.Description,
			PointsRequired: r.PointsRequired,
			Category:       r.Category,
		})
	}

	return loyalty.NewCatalog(businesses, rewards)
}

// =============================================================================
// DEMO SEED
// =============================================================================

// DemoCatalog returns the built-in demo catalog used when no seed file is
// configured: three businesses and four rewards.
func DemoCatalog() *loyalty.Catalog {
	catalog, err := BuildCatalog(demoSeed())
	if err != nil {
		// The demo seed is static and validated by tests.
		panic(fmt.Sprintf("factory: demo seed invalid: %v", err))
	}
	return catalog
}

func demoSeed() CatalogJSON {
	return CatalogJSON{
		Businesses: []BusinessJSON{
			{ID: "1", Name: "Coffee Central", Category: "Food & Beverage", PointsPerDollar: 10, Description: "Premium coffee and pastries"},
			{ID: "2", Name: "FitLife Gym", Category: "Fitness", PointsPerDollar: 5, Description: "Complete fitness center"},
			{ID: "3", Name: "BookHaven", Category: "Books", PointsPerDollar: 15, Description: "Independent bookstore"},
		},
		Rewards: []RewardJSON{
			{ID: "1", BusinessID: "1", Title: "Free Coffee", Description: "Get a free coffee of your choice", PointsRequired: 100, Category: "Beverage"},
			{ID: "2", BusinessID: "1", Title: "$5 Off Purchase", Description: "$5 off any purchase over $20", PointsRequired: 250, Category: "Discount"},
			{ID: "3", BusinessID: "2", Title: "Free Personal Training Session", Description: "One-on-one training session with certified trainer", PointsRequired: 500, Category: "Service"},
			{ID: "4", BusinessID: "3", Title: "20% Off Any Book", Description: "Get 20% off any book in store", PointsRequired: 150, Category: "Discount"},
		},
	}
}

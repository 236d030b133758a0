/*
catalog.go - Read-only registry of businesses and rewards

PURPOSE:
  The Catalog is the immutable-for-the-session registry the engine
  validates redemptions against. It is seeded once at startup by an
  external loader (see factory/) and never mutated afterwards, so the
  lookups are safe for concurrent use without locking.

INVARIANTS:
  - Business and reward IDs are unique within a catalog
  - Every reward references an existing business
  - Insertion order of rewards is preserved for listings
*/
package loyalty

// CategoryAll is the sentinel category that disables reward filtering.
const CategoryAll = "all"

// Catalog holds the seeded Business and Reward records.
type Catalog struct {
	businesses map[BusinessID]Business
	rewards    map[RewardID]Reward

	// insertion order for listings
	businessOrder []BusinessID
	rewardOrder   []RewardID
}

// NewCatalog builds a catalog from seed records, validating uniqueness and
// that every reward references a known business.
func NewCatalog(businesses []Business, rewards []Reward) (*Catalog, error) {
	c := &Catalog{
		businesses: make(map[BusinessID]Business, len(businesses)),
		rewards:    make(map[RewardID]Reward, len(rewards)),
	}

	for _, b := range businesses {
		if _, exists := c.businesses[b.ID]; exists {
			return nil, ErrDuplicateCatalogID
		}
		c.businesses[b.ID] = b
		c.businessOrder = append(c.businessOrder, b.ID)
	}

	for _, r := range rewards {
		if _, exists := c.rewards[r.ID]; exists {
			return nil, ErrDuplicateCatalogID
		}
		if _, exists := c.businesses[r.BusinessID]; !exists {
			return nil, ErrDanglingReward
		}
		c.rewards[r.ID] = r
		c.rewardOrder = append(c.rewardOrder, r.ID)
	}

	return c, nil
}

// GetBusiness looks up a business by ID.
func (c *Catalog) GetBusiness(id BusinessID) (Business, error) {
	b, ok := c.businesses[id]
	if !ok {
		return Business{}, ErrBusinessNotFound
	}
	return b, nil
}

// GetReward looks up a reward by ID.
func (c *Catalog) GetReward(id RewardID) (Reward, error) {
	r, ok := c.rewards[id]
	if !ok {
		return Reward{}, ErrRewardNotFound
	}
	return r, nil
}

// ListBusinesses returns all businesses in insertion order.
func (c *Catalog) ListBusinesses() []Business {
	out := make([]Business, 0, len(c.businessOrder))
	for _, id := range c.businessOrder {
		out = append(out, c.businesses[id])
	}
	return out
}

// RewardFilter restricts ListRewards. Zero values (or CategoryAll) match
// everything.
type RewardFilter struct {
	Category   string
	BusinessID BusinessID
}

func (f RewardFilter) matches(r Reward) bool {
	if f.Category != "" && f.Category != CategoryAll && r.Category != f.Category {
		return false
	}
	if f.BusinessID != "" && r.BusinessID != f.BusinessID {
		return false
	}
	return true
}

// ListRewards returns rewards matching the filter, in insertion order.
func (c *Catalog) ListRewards(filter RewardFilter) []Reward {
	var out []Reward
	for _, id := range c.rewardOrder {
		if r := c.rewards[id]; filter.matches(r) {
			out = append(out, r)
		}
	}
	return out
}

package collection

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Scope selects which subset of a collection a page is browsing.
type Scope string

const (
	// ScopeAll browses the full collection.
	ScopeAll Scope = "all"
	// ScopeMine restricts to records owned by the current user.
	ScopeMine Scope = "mine"
)

// PriceFilter is a price predicate with an "any" sentinel that disables it.
type PriceFilter string

const (
	PriceAny  PriceFilter = ""
	PriceFree PriceFilter = "free"
	PricePaid PriceFilter = "paid"
)

// SortKey identifies a total order over a collection. The zero value keeps
// insertion order.
type SortKey string

const (
	SortDefault   SortKey = ""
	SortPopular   SortKey = "popular"
	SortRating    SortKey = "rating"
	SortNewest    SortKey = "newest"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
)

// Criteria captures the active filter/sort/pagination state for a page.
// Empty strings and zero values are sentinels that disable the predicate.
type Criteria struct {
	Search    string      `json:"search,omitempty" yaml:"search,omitempty"`
	Category  string      `json:"category,omitempty" yaml:"category,omitempty"`
	Status    string      `json:"status,omitempty" yaml:"status,omitempty"`
	Price     PriceFilter `json:"price,omitempty" yaml:"price,omitempty"`
	MinRating float64     `json:"min_rating,omitempty" yaml:"min_rating,omitempty"`
	Sort      SortKey     `json:"sort,omitempty" yaml:"sort,omitempty"`
	Scope     Scope       `json:"scope,omitempty" yaml:"scope,omitempty"`
	Page      int         `json:"page,omitempty" yaml:"page,omitempty"`
	PerPage   int         `json:"per_page,omitempty" yaml:"per_page,omitempty"`
}

// Normalize clamps pagination values to sane defaults.
func (c Criteria) Normalize() Criteria {
	if c.Page < 1 {
		c.Page = 1
	}
	if c.PerPage < 0 {
		c.PerPage = 0
	}
	if c.Scope == "" {
		c.Scope = ScopeAll
	}
	return c
}

// Hash returns a deterministic digest of the criteria, used as a memoization
// key together with the store generation.
func (c Criteria) Hash() string {
	b, err := json.Marshal(c)
	if err != nil {
		return "invalid"
	}
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:])
}

// CriteriaKey derives the compose-cache key for a criteria snapshot taken at
// the given store generation.
func CriteriaKey(generation uint64, crit Criteria) string {
	return fmt.Sprintf("%d:%s", generation, crit.Hash())
}

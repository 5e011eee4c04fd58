// Package price supplies reporting-currency unit prices for an asset on a
// given day. The core engine only depends on the Resolver interface; a
// concrete resolver (CSV table, remote service, test stub) is injected by
// the caller.
package price

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/criptax/criptax/date"
)

// ErrMissingPrice indicates no price could be resolved for an
// (asset, date) pair. It is recoverable per-record: callers collect it as a
// diagnostic and keep going.
var ErrMissingPrice = errors.New("no price found")

type Resolver interface {
	// Resolve returns the unit price of asset in the reporting currency on
	// the given day. Failures wrap ErrMissingPrice.
	Resolve(asset string, on date.Date) (decimal.Decimal, error)
}

type cacheKey struct {
	Asset string
	Date  date.Date
}

type cacheEntry struct {
	price decimal.Decimal
	err   error
}

// CachedResolver memoizes lookups per (asset, date), including failed ones,
// so that a single run never hits the underlying resolver twice for the
// same pair.
type CachedResolver struct {
	resolver Resolver
	entries  map[cacheKey]cacheEntry
}

func NewCachedResolver(r Resolver) *CachedResolver {
	return &CachedResolver{
		resolver: r,
		entries:  make(map[cacheKey]cacheEntry),
	}
}

func (c *CachedResolver) Resolve(asset string, on date.Date) (decimal.Decimal, error) {
	key := cacheKey{asset, on}
	if entry, ok := c.entries[key]; ok {
		return entry.price, entry.err
	}
	p, err := c.resolver.Resolve(asset, on)
	c.entries[key] = cacheEntry{p, err}
	return p, err
}

// Lookups performed against the underlying resolver so far.
func (c *CachedResolver) Lookups() int {
	return len(c.entries)
}

// StaticResolver resolves from a fixed asset -> price map, ignoring the
// date. Intended for tests and for flat-rate overrides.
type StaticResolver struct {
	Prices map[string]decimal.Decimal
}

func (r *StaticResolver) Resolve(asset string, on date.Date) (decimal.Decimal, error) {
	p, ok := r.Prices[asset]
	if !ok {
		return decimal.Zero, fmt.Errorf("resolve %s at %s: %w", asset, on, ErrMissingPrice)
	}
	return p, nil
}

// Package oracle validates external price feed data before the ledger uses it.
package oracle

import (
	"errors"
	"time"

	"github.com/halvard/vault-core/internal/models"
)

var (
	// ErrStalePrice covers both an aged round and a round that was started
	// but never answered.
	ErrStalePrice = errors.New("oracle: price data is stale")
	// ErrInvalidPrice covers non-positive prices and prices below the
	// plausibility floor.
	ErrInvalidPrice = errors.New("oracle: reported price is invalid")
)

// PegPrice is the fixed 1:1 price (8-decimal) applied to every non-native
// registered asset. Known simplification: correct only for stable assets.
const PegPrice uint64 = 100_000_000

// PriceFeed reports the most recent oracle round.
type PriceFeed interface {
	LatestRound() (models.RoundData, error)
}

// Gateway wraps a PriceFeed with freshness and plausibility validation.
// Validation runs on every call; prices are never cached across operations
// because staleness is defined against wall-clock time at call time.
type Gateway struct {
	feed     PriceFeed
	maxAge   time.Duration
	minPrice uint64
	now      func() time.Time
}

// NewGateway creates a gateway over the given feed. maxAge bounds how old a
// round's update timestamp may be; minPrice is the plausibility floor below
// which a feed is considered degenerate.
func NewGateway(feed PriceFeed, maxAge time.Duration, minPrice uint64) *Gateway {
	return &Gateway{
		feed:     feed,
		maxAge:   maxAge,
		minPrice: minPrice,
		now:      time.Now,
	}
}

// WithClock overrides the time source. Used by tests to pin staleness checks.
func (g *Gateway) WithClock(now func() time.Time) *Gateway {
	g.now = now
	return g
}

// NativePrice fetches and validates the current native asset price.
//
// Round consistency uses the stricter of the two upstream variants: a round
// is rejected when AnsweredInRound is zero or lags behind RoundID.
func (g *Gateway) NativePrice() (uint64, error) {
	round, err := g.feed.LatestRound()
	if err != nil {
		return 0, err
	}

	if round.AnsweredInRound == 0 || round.RoundID > round.AnsweredInRound {
		return 0, ErrStalePrice
	}
	if round.UpdatedAt.IsZero() || g.now().Sub(round.UpdatedAt) > g.maxAge {
		return 0, ErrStalePrice
	}
	if round.Price <= 0 || uint64(round.Price) < g.minPrice {
		return 0, ErrInvalidPrice
	}

	return uint64(round.Price), nil
}

// PriceOf returns the price for any asset through the same abstraction:
// the live feed for the native asset, the fixed peg for everything else.
// A future per-asset pricing strategy slots in here without touching the
// ledger.
func (g *Gateway) PriceOf(asset models.AssetID) (uint64, error) {
	if asset == models.NativeAsset {
		return g.NativePrice()
	}
	return PegPrice, nil
}

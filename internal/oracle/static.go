package oracle

import (
	"sync"
	"time"

	"github.com/halvard/vault-core/internal/models"
)

// StaticFeed is an in-memory PriceFeed. It doubles for the external oracle in
// tests and drives the demo scenario.
type StaticFeed struct {
	mu    sync.Mutex
	round models.RoundData
	err   error
}

// NewStaticFeed creates a feed answering with the given price, stamped now.
func NewStaticFeed(price int64) *StaticFeed {
	f := &StaticFeed{}
	f.SetPrice(price)
	return f
}

// SetPrice publishes a fresh, fully answered round at the given price.
func (f *StaticFeed) SetPrice(price int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.round = models.RoundData{
		RoundID:         f.round.RoundID + 1,
		Price:           price,
		UpdatedAt:       time.Now(),
		AnsweredInRound: f.round.AnsweredInRound + 1,
	}
	f.err = nil
}

// SetRound publishes an arbitrary round, letting tests shape stale or
// inconsistent data.
func (f *StaticFeed) SetRound(round models.RoundData) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.round = round
	f.err = nil
}

// Fail makes every subsequent LatestRound call return err.
func (f *StaticFeed) Fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// LatestRound implements PriceFeed.
func (f *StaticFeed) LatestRound() (models.RoundData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return models.RoundData{}, f.err
	}
	return f.round, nil
}

package oracle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/halvard/vault-core/internal/models"
)

const testFloor = 1_000_000 // $0.01 plausibility floor

func TestNativePriceFresh(t *testing.T) {
	feed := NewStaticFeed(3000 * 100_000_000)
	gw := NewGateway(feed, time.Hour, testFloor)

	price, err := gw.NativePrice()
	require.NoError(t, err)
	require.Equal(t, uint64(3000*100_000_000), price)
}

func TestNativePriceStaleByAge(t *testing.T) {
	feed := &StaticFeed{}
	feed.SetRound(models.RoundData{
		RoundID:         7,
		Price:           3000 * 100_000_000,
		UpdatedAt:       time.Now().Add(-2 * time.Hour),
		AnsweredInRound: 7,
	})
	gw := NewGateway(feed, time.Hour, testFloor)

	_, err := gw.NativePrice()
	require.ErrorIs(t, err, ErrStalePrice)
}

func TestNativePriceUnansweredRound(t *testing.T) {
	feed := &StaticFeed{}
	gw := NewGateway(feed, time.Hour, testFloor)

	// Round started but answered in an older round.
	feed.SetRound(models.RoundData{
		RoundID:         8,
		Price:           3000 * 100_000_000,
		UpdatedAt:       time.Now(),
		AnsweredInRound: 7,
	})
	_, err := gw.NativePrice()
	require.ErrorIs(t, err, ErrStalePrice)

	// AnsweredInRound zero is rejected outright.
	feed.SetRound(models.RoundData{
		RoundID:         1,
		Price:           3000 * 100_000_000,
		UpdatedAt:       time.Now(),
		AnsweredInRound: 0,
	})
	_, err = gw.NativePrice()
	require.ErrorIs(t, err, ErrStalePrice)
}

func TestNativePriceImplausible(t *testing.T) {
	feed := &StaticFeed{}
	gw := NewGateway(feed, time.Hour, testFloor)

	feed.SetRound(models.RoundData{
		RoundID:         2,
		Price:           -1,
		UpdatedAt:       time.Now(),
		AnsweredInRound: 2,
	})
	_, err := gw.NativePrice()
	require.ErrorIs(t, err, ErrInvalidPrice)

	feed.SetRound(models.RoundData{
		RoundID:         3,
		Price:           testFloor - 1,
		UpdatedAt:       time.Now(),
		AnsweredInRound: 3,
	})
	_, err = gw.NativePrice()
	require.ErrorIs(t, err, ErrInvalidPrice)
}

func TestNativePriceClockAdvance(t *testing.T) {
	feed := NewStaticFeed(3000 * 100_000_000)
	now := time.Now()
	gw := NewGateway(feed, time.Hour, testFloor).WithClock(func() time.Time { return now })

	_, err := gw.NativePrice()
	require.NoError(t, err)

	// The same round becomes stale once the clock moves past the window.
	now = now.Add(time.Hour + time.Minute)
	_, err = gw.NativePrice()
	require.ErrorIs(t, err, ErrStalePrice)
}

func TestPriceOfPeg(t *testing.T) {
	feed := &StaticFeed{} // never consulted for tokens
	gw := NewGateway(feed, time.Hour, testFloor)

	price, err := gw.PriceOf(models.AssetID("USDX"))
	require.NoError(t, err)
	require.Equal(t, PegPrice, price)
}

package oracle

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/halvard/vault-core/internal/logger"
	"github.com/halvard/vault-core/internal/models"
)

// HTTPFeed is the production PriceFeed: a thin client for a JSON price
// endpoint exposing the latest answered round.
type HTTPFeed struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPFeed creates a feed client for the given base URL.
func NewHTTPFeed(baseURL string) *HTTPFeed {
	return &HTTPFeed{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type roundPayload struct {
	RoundID         uint64 `json:"round_id"`
	Price           int64  `json:"price"`
	UpdatedAt       int64  `json:"updated_at"`
	AnsweredInRound uint64 `json:"answered_in_round"`
}

// LatestRound implements PriceFeed against the remote endpoint.
func (f *HTTPFeed) LatestRound() (models.RoundData, error) {
	url := fmt.Sprintf("%s/rounds/latest", f.baseURL)
	start := time.Now()
	logger.Debug("Fetching latest round from %s", url)

	resp, err := f.httpClient.Get(url)
	if err != nil {
		logger.Error("Round fetch failed after %v: %v", time.Since(start), err)
		return models.RoundData{}, fmt.Errorf("round request failed: %w", err)
	}
	defer resp.Body.Close()

	logger.Debug("Round fetch completed in %v with status %d", time.Since(start), resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		logger.Error("%s: HTTP error %d: %s", url, resp.StatusCode, string(bodyBytes))
		return models.RoundData{}, fmt.Errorf("HTTP error %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var payload roundPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		logger.Error("%s: Error decoding round: %v", url, err)
		return models.RoundData{}, fmt.Errorf("error decoding round: %w", err)
	}

	return models.RoundData{
		RoundID:         payload.RoundID,
		Price:           payload.Price,
		UpdatedAt:       time.Unix(payload.UpdatedAt, 0),
		AnsweredInRound: payload.AnsweredInRound,
	}, nil
}

// Ping checks if the feed endpoint is reachable.
func (f *HTTPFeed) Ping() error {
	resp, err := f.httpClient.Get(fmt.Sprintf("%s/ping", f.baseURL))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ping failed with status %d", resp.StatusCode)
	}

	return nil
}

// WaitForReady polls the feed until it answers or attempts run out.
func (f *HTTPFeed) WaitForReady(maxAttempts int, delay time.Duration) bool {
	logger.Info("Checking price feed readiness...")

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		logger.Info("Checking price feed readiness (attempt %d/%d)...", attempt, maxAttempts)

		if err := f.Ping(); err == nil {
			logger.Info("Price feed is ready!")
			return true
		}

		time.Sleep(delay)
	}

	logger.Error("Price feed failed to become ready after %d attempts", maxAttempts)
	return false
}

// internal/capability/api.go
package capability

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"prepline/internal/common/config"
	"prepline/internal/common/errors"
	"prepline/internal/common/logger"
	"prepline/internal/models"
)

// APITier profiles the learner in a single stateless request to a structured
// reasoning endpoint: the whole intake goes out, a whole profile comes back.
type APITier struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	maxRetries int
	client     *http.Client
	logger     logger.Logger
}

func NewAPITier(cfg config.CapabilityConfig, log logger.Logger) *APITier {
	return &APITier{
		baseURL:    cfg.API.BaseURL,
		apiKey:     cfg.API.APIKey,
		timeout:    time.Duration(cfg.API.Timeout) * time.Millisecond,
		maxRetries: cfg.MaxRetries,
		client:     &http.Client{},
		logger: log.With(map[string]interface{}{
			"tier": string(models.TierAPI),
		}),
	}
}

func (t *APITier) Tier() models.CapabilityTier {
	return models.TierAPI
}

func (t *APITier) ProduceProfile(ctx context.Context, input models.RawInput) (models.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	payload, err := json.Marshal(map[string]interface{}{
		"facts": input,
	})
	if err != nil {
		return models.Profile{}, errors.NewCapabilityFailedError(string(models.TierAPI), err)
	}

	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt <= t.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return models.Profile{}, errors.NewCapabilityTimeoutError(string(models.TierAPI))
			}
		}

		req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/v1/profile", bytes.NewReader(payload))
		if reqErr != nil {
			return models.Profile{}, errors.NewCapabilityFailedError(string(models.TierAPI), reqErr)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+t.apiKey)

		resp, lastErr = t.client.Do(req)
		if lastErr == nil {
			if resp.StatusCode == http.StatusOK {
				break
			}
			resp.Body.Close()
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			resp = nil
		}

		if ctx.Err() != nil {
			return models.Profile{}, errors.NewCapabilityTimeoutError(string(models.TierAPI))
		}
	}

	if lastErr != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return models.Profile{}, errors.NewCapabilityTimeoutError(string(models.TierAPI))
		}
		return models.Profile{}, errors.NewCapabilityFailedError(string(models.TierAPI), lastErr)
	}
	if resp == nil {
		return models.Profile{}, errors.NewCapabilityFailedError(string(models.TierAPI), fmt.Errorf("no successful response after retries"))
	}
	defer resp.Body.Close()

	var wire wireProfile
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return models.Profile{}, errors.NewCapabilityFailedError(string(models.TierAPI), fmt.Errorf("decode error: %w", err))
	}

	t.logger.Info("api profiling completed", map[string]interface{}{
		"assessments": len(wire.Assessments),
	})

	return wire.toProfile("api:" + t.baseURL), nil
}

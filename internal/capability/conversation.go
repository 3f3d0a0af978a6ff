// internal/capability/conversation.go
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

// ConversationTier profiles the learner through a stateful conversational
// reasoning service: open a session, feed the intake facts, then ask the
// session to emit a structured profile.
type ConversationTier struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	maxRetries int
	client     *http.Client
	logger     logger.Logger
}

func NewConversationTier(cfg config.CapabilityConfig, log logger.Logger) *ConversationTier {
	return &ConversationTier{
		baseURL:    cfg.Conversation.BaseURL,
		apiKey:     cfg.Conversation.APIKey,
		timeout:    time.Duration(cfg.Conversation.Timeout) * time.Millisecond,
		maxRetries: cfg.MaxRetries,
		client:     &http.Client{
			// No client-level timeout; the per-call context bounds the whole exchange.
		},
		logger: log.With(map[string]interface{}{
			"tier": string(models.TierConversation),
		}),
	}
}

func (t *ConversationTier) Tier() models.CapabilityTier {
	return models.TierConversation
}

func (t *ConversationTier) ProduceProfile(ctx context.Context, input models.RawInput) (models.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	sessionID, err := t.openSession(ctx)
	if err != nil {
		return models.Profile{}, err
	}

	if err := t.sendFacts(ctx, sessionID, input); err != nil {
		return models.Profile{}, err
	}

	wire, err := t.fetchProfile(ctx, sessionID)
	if err != nil {
		return models.Profile{}, err
	}

	t.logger.Info("conversation profiling completed", map[string]interface{}{
		"sessionId":   sessionID,
		"assessments": len(wire.Assessments),
	})

	return wire.toProfile("conversation:" + t.baseURL), nil
}

func (t *ConversationTier) openSession(ctx context.Context) (string, error) {
	body := map[string]interface{}{
		"purpose": "learner-profiling",
	}

	var out struct {
		SessionID string `json:"sessionId"`
	}
	if err := t.post(ctx, "/v1/sessions", body, &out); err != nil {
		return "", err
	}
	if out.SessionID == "" {
		return "", errors.NewCapabilityFailedError(string(models.TierConversation), fmt.Errorf("empty session id"))
	}
	return out.SessionID, nil
}

func (t *ConversationTier) sendFacts(ctx context.Context, sessionID string, input models.RawInput) error {
	body := map[string]interface{}{
		"facts": input,
	}
	return t.post(ctx, "/v1/sessions/"+sessionID+"/facts", body, &struct{}{})
}

func (t *ConversationTier) fetchProfile(ctx context.Context, sessionID string) (wireProfile, error) {
	var wire wireProfile
	err := t.post(ctx, "/v1/sessions/"+sessionID+"/profile", map[string]interface{}{}, &wire)
	return wire, err
}

// post issues one JSON exchange with exponential backoff on transport errors
// and non-200 statuses. A deadline expiry surfaces as CapabilityTimeout so
// the caller can tell slowness from brokenness.
func (t *ConversationTier) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.NewCapabilityFailedError(string(models.TierConversation), err)
	}

	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt <= t.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return errors.NewCapabilityTimeoutError(string(models.TierConversation))
			}
		}

		req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+path, bytes.NewReader(payload))
		if reqErr != nil {
			return errors.NewCapabilityFailedError(string(models.TierConversation), reqErr)
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
			return errors.NewCapabilityTimeoutError(string(models.TierConversation))
		}
	}

	if lastErr != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return errors.NewCapabilityTimeoutError(string(models.TierConversation))
		}
		return errors.NewCapabilityFailedError(string(models.TierConversation), lastErr)
	}
	if resp == nil {
		return errors.NewCapabilityFailedError(string(models.TierConversation), fmt.Errorf("no successful response after retries"))
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.NewCapabilityFailedError(string(models.TierConversation), fmt.Errorf("decode error: %w", err))
	}
	return nil
}

// Package capability resolves learner profiles through a ranked chain of
// interchangeable backends: a stateful conversational reasoning service, a
// stateless reasoning API, and a local deterministic rule engine that never
// fails.
package capability

import (
	"context"

	"prepline/internal/common/config"
	"prepline/internal/common/errors"
	"prepline/internal/common/logger"
	"prepline/internal/common/metrics"
	"prepline/internal/models"
	"prepline/internal/registry"
)

// ProfileProducer is the single contract every tier implements. Downstream
// stages never learn which tier satisfied it.
type ProfileProducer interface {
	ProduceProfile(ctx context.Context, input models.RawInput) (models.Profile, error)
	Tier() models.CapabilityTier
}

// Resolver binds to the highest-ranked available tier at construction time.
// A bound tier failing mid-run is recovered by Demote, which moves the
// binding one tier lower for this resolver instance only; it never re-tries
// the failing tier in a loop.
type Resolver struct {
	tiers  []ProfileProducer
	bound  int
	logger logger.Logger
}

// NewResolver inspects the capability configuration and assembles the tier
// chain. The local engine is always present, so the chain is never empty.
func NewResolver(cfg config.CapabilityConfig, reg registry.Provider, log logger.Logger) *Resolver {
	var tiers []ProfileProducer

	if cfg.Conversation.BaseURL != "" && cfg.Conversation.APIKey != "" {
		tiers = append(tiers, NewConversationTier(cfg, log))
	}
	if cfg.API.BaseURL != "" && cfg.API.APIKey != "" {
		tiers = append(tiers, NewAPITier(cfg, log))
	}
	tiers = append(tiers, NewLocalEngine(reg))

	log.Info("capability resolver bound", map[string]interface{}{
		"tier":           string(tiers[0].Tier()),
		"availableTiers": len(tiers),
	})

	return &Resolver{tiers: tiers, bound: 0, logger: log}
}

// Bound returns the currently bound tier.
func (r *Resolver) Bound() models.CapabilityTier {
	return r.tiers[r.bound].Tier()
}

// Produce runs the bound tier and post-validates its output against the
// profile schema. All tiers are held to the identical contract.
func (r *Resolver) Produce(ctx context.Context, input models.RawInput) (models.Profile, error) {
	tier := r.tiers[r.bound]

	profile, err := tier.ProduceProfile(ctx, input)
	if err != nil {
		return models.Profile{}, err
	}

	profile = fillDefaults(profile, input, tier.Tier())
	if err := validateProfileSchema(profile); err != nil {
		return models.Profile{}, errors.NewCapabilityBadProfileError(string(tier.Tier()), err.Error())
	}

	metrics.CapabilityResolutions.WithLabelValues(string(tier.Tier())).Inc()
	return profile, nil
}

// Demote moves the binding one tier lower. Demoting past the terminal local
// tier indicates an orchestration bug and returns CapabilityExhausted.
func (r *Resolver) Demote() error {
	if r.bound+1 >= len(r.tiers) {
		return errors.NewCapabilityExhaustedError()
	}

	from := r.tiers[r.bound].Tier()
	r.bound++
	metrics.CapabilityFallbacks.WithLabelValues(string(from)).Inc()
	r.logger.Warn("capability tier demoted", map[string]interface{}{
		"from": string(from),
		"to":   string(r.tiers[r.bound].Tier()),
	})
	return nil
}

// fillDefaults populates pass-through fields a reasoning service may omit.
func fillDefaults(p models.Profile, input models.RawInput, tier models.CapabilityTier) models.Profile {
	if p.LearnerID == "" {
		p.LearnerID = input.LearnerID
	}
	if p.TargetCode == "" {
		p.TargetCode = input.TargetCode
	}
	if p.Style == "" {
		p.Style = input.StylePreference
	}
	p.Meta.Tier = tier
	return p
}

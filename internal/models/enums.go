// internal/models/enums.go
package models

import "strings"

// Severity classifies a guardrail violation. BLOCK stops the pipeline,
// WARN is surfaced but non-fatal, INFO is advisory only.
type Severity string

const (
	SeverityBlock Severity = "BLOCK"
	SeverityWarn  Severity = "WARN"
	SeverityInfo  Severity = "INFO"
)

// Verdict is the discrete readiness tier. Ordering is
// NOT_READY < NEEDS_WORK < ALMOST_THERE < READY.
type Verdict string

const (
	VerdictNotReady    Verdict = "NOT_READY"
	VerdictNeedsWork   Verdict = "NEEDS_WORK"
	VerdictAlmostThere Verdict = "ALMOST_THERE"
	VerdictReady       Verdict = "READY"
)

var verdictRank = map[Verdict]int{
	VerdictNotReady:    0,
	VerdictNeedsWork:   1,
	VerdictAlmostThere: 2,
	VerdictReady:       3,
}

// Rank returns the ordinal position of the verdict, lowest first.
// Unknown verdicts rank as NOT_READY.
func (v Verdict) Rank() int {
	return verdictRank[v]
}

// AtLeast reports whether v is the same tier as other or higher.
func (v Verdict) AtLeast(other Verdict) bool {
	return v.Rank() >= other.Rank()
}

// ParseVerdict validates a persisted verdict string against the known set
// and falls back to NOT_READY instead of failing on drifted values.
func ParseVerdict(s string) Verdict {
	v := Verdict(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := verdictRank[v]; ok {
		return v
	}
	return VerdictNotReady
}

// ExperienceTier is the learner's overall experience level.
type ExperienceTier string

const (
	ExperienceNovice       ExperienceTier = "novice"
	ExperienceIntermediate ExperienceTier = "intermediate"
	ExperienceAdvanced     ExperienceTier = "advanced"
	ExperienceExpert       ExperienceTier = "expert"
)

var experienceRank = map[ExperienceTier]int{
	ExperienceNovice:       0,
	ExperienceIntermediate: 1,
	ExperienceAdvanced:     2,
	ExperienceExpert:       3,
}

func (e ExperienceTier) Rank() int {
	return experienceRank[e]
}

// ParseExperienceTier falls back to novice for unknown values.
func ParseExperienceTier(s string) ExperienceTier {
	e := ExperienceTier(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := experienceRank[e]; ok {
		return e
	}
	return ExperienceNovice
}

// KnowledgeTier is per-category depth of knowledge.
type KnowledgeTier string

const (
	KnowledgeNone     KnowledgeTier = "none"
	KnowledgeBasic    KnowledgeTier = "basic"
	KnowledgeWorking  KnowledgeTier = "working"
	KnowledgeDeep     KnowledgeTier = "deep"
)

var knowledgeRank = map[KnowledgeTier]int{
	KnowledgeNone:    0,
	KnowledgeBasic:   1,
	KnowledgeWorking: 2,
	KnowledgeDeep:    3,
}

// ParseKnowledgeTier falls back to none for unknown values.
func ParseKnowledgeTier(s string) KnowledgeTier {
	k := KnowledgeTier(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := knowledgeRank[k]; ok {
		return k
	}
	return KnowledgeNone
}

// PriorityTier orders plan tasks by urgency.
type PriorityTier string

const (
	PriorityHigh   PriorityTier = "high"
	PriorityMedium PriorityTier = "medium"
	PriorityLow    PriorityTier = "low"
)

var prioritySet = map[PriorityTier]struct{}{
	PriorityHigh:   {},
	PriorityMedium: {},
	PriorityLow:    {},
}

// ParsePriorityTier falls back to medium for unknown values.
func ParsePriorityTier(s string) PriorityTier {
	p := PriorityTier(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := prioritySet[p]; ok {
		return p
	}
	return PriorityMedium
}

// ResourceType tags a curated resource.
type ResourceType string

const (
	ResourceCourse   ResourceType = "course"
	ResourceDocs     ResourceType = "docs"
	ResourceVideo    ResourceType = "video"
	ResourcePractice ResourceType = "practice"
	ResourceBook     ResourceType = "book"
)

var resourceTypeSet = map[ResourceType]struct{}{
	ResourceCourse:   {},
	ResourceDocs:     {},
	ResourceVideo:    {},
	ResourcePractice: {},
	ResourceBook:     {},
}

// ParseResourceType falls back to docs for unknown values.
func ParseResourceType(s string) ResourceType {
	r := ResourceType(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := resourceTypeSet[r]; ok {
		return r
	}
	return ResourceDocs
}

// CapabilityTier records which resolver backend produced a profile.
type CapabilityTier string

const (
	TierConversation CapabilityTier = "conversation"
	TierAPI          CapabilityTier = "api"
	TierLocal        CapabilityTier = "local"
)

var capabilityRank = map[CapabilityTier]int{
	TierConversation: 0,
	TierAPI:          1,
	TierLocal:        2,
}

// Rank returns the preference order of the tier, most preferred first.
func (c CapabilityTier) Rank() int {
	return capabilityRank[c]
}

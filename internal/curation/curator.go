// Package curation assembles a learning path of study resources for the
// categories a learner's profile covers, and enforces the URL trust
// allow-list on the retained path.
package curation

import (
	"github.com/asaskevich/govalidator"

	"prepline/internal/common/logger"
	"prepline/internal/guardrail"
	"prepline/internal/models"
)

// Curator selects resources from a category-keyed catalog.
type Curator struct {
	catalog        map[string][]models.Resource
	trustedOrigins []string
	logger         logger.Logger
}

func NewCurator(catalog map[string][]models.Resource, trustedOrigins []string, log logger.Logger) *Curator {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Curator{catalog: catalog, trustedOrigins: trustedOrigins, logger: log}
}

// Curate builds the path for a profile: every non-skipped assessed category
// contributes its catalog resources, in assessment order. Categories absent
// from the catalog are passed over silently; the plan still budgets time for
// them.
func (c *Curator) Curate(profile models.Profile) models.Path {
	path := models.Path{Version: 1}

	for _, a := range profile.Assessments {
		if a.Skip {
			continue
		}
		path.Resources = append(path.Resources, c.catalog[a.CategoryCode]...)
	}

	c.logger.Info("path curated", map[string]interface{}{
		"learnerId": profile.LearnerID,
		"resources": len(path.Resources),
	})
	return path
}

// FilterTrusted splits a path into the retained part and the excluded
// resources. A resource is excluded when its URL is syntactically invalid or
// its host falls outside the allow-list; an empty allow-list trusts
// everything. Exclusion is quiet removal, not failure: the corresponding
// guardrail warnings carry the audit trail.
func (c *Curator) FilterTrusted(path models.Path) (models.Path, []models.Resource) {
	if len(c.trustedOrigins) == 0 {
		return path, nil
	}

	retained := models.Path{Version: path.Version}
	var excluded []models.Resource

	for _, r := range path.Resources {
		if !govalidator.IsURL(r.URL) || !guardrail.OriginTrusted(r.URL, c.trustedOrigins) {
			excluded = append(excluded, r)
			continue
		}
		retained.Resources = append(retained.Resources, r)
	}

	if len(excluded) > 0 {
		c.logger.Warn("untrusted resources excluded from path", map[string]interface{}{
			"excluded": len(excluded),
			"retained": len(retained.Resources),
		})
	}
	return retained, excluded
}

// internal/guardrail/rules_plan.go
package guardrail

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/asaskevich/govalidator"

	"prepline/internal/models"
)

// RegisterPlanRules installs the G-plan rule family, evaluated at the
// Planning fan-out join over both the plan and the curated path.
func RegisterPlanRules(e *Engine) {
	e.Register(StagePlan, typedRule("PLAN_SPAN_ORDER", func(s PlanSubject) []models.Violation {
		var out []models.Violation
		for _, task := range s.Plan.Tasks {
			if task.StartUnit > task.EndUnit {
				out = append(out, block("PLAN_SPAN_ORDER", "tasks",
					fmt.Sprintf("task %s: start offset %d after end offset %d", task.CategoryCode, task.StartUnit, task.EndUnit)))
			}
		}
		return out
	}))

	e.Register(StagePlan, typedRule("PLAN_SUM_EXACT", func(s PlanSubject) []models.Violation {
		if allocated := s.Plan.AllocatedUnits(); allocated != s.Plan.TotalUnits {
			return []models.Violation{block("PLAN_SUM_EXACT", "tasks",
				fmt.Sprintf("allocated %d units but budget is %d", allocated, s.Plan.TotalUnits))}
		}
		return nil
	}))

	e.Register(StagePlan, typedRule("PLAN_FLOOR_COVERAGE", func(s PlanSubject) []models.Violation {
		units := make(map[string]int, len(s.Plan.Tasks))
		for _, task := range s.Plan.Tasks {
			units[task.CategoryCode] += task.Units
		}
		var out []models.Violation
		for _, c := range s.Categories {
			if c.Weight > 0 && units[c.Code] < 1 {
				out = append(out, block("PLAN_FLOOR_COVERAGE", "tasks",
					fmt.Sprintf("active category %s received no units", c.Code)))
			}
		}
		return out
	}))

	e.Register(StagePlan, typedRule("PATH_URL_SYNTAX", func(s PlanSubject) []models.Violation {
		var out []models.Violation
		for _, r := range s.Path.Resources {
			if !govalidator.IsURL(r.URL) {
				out = append(out, warn("PATH_URL_SYNTAX", "resources",
					fmt.Sprintf("resource %q has a malformed URL", r.Title)))
			}
		}
		return out
	}))

	// One untrusted link warns and is dropped downstream; it does not void
	// the rest of the curated set.
	e.Register(StagePlan, typedRule("PATH_URL_TRUST", func(s PlanSubject) []models.Violation {
		if len(s.TrustedOrigins) == 0 {
			return nil
		}
		var out []models.Violation
		for _, r := range s.Path.Resources {
			if !OriginTrusted(r.URL, s.TrustedOrigins) {
				out = append(out, warn("PATH_URL_TRUST", "resources",
					fmt.Sprintf("resource %q URL origin is not on the trust allow-list", r.Title)))
			}
		}
		return out
	}))
}

// OriginTrusted reports whether the URL's host matches one of the trusted
// origins, either exactly or as a subdomain.
func OriginTrusted(rawURL string, trustedOrigins []string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	for _, origin := range trustedOrigins {
		origin = strings.ToLower(strings.TrimSpace(origin))
		if origin == "" {
			continue
		}
		if host == origin || strings.HasSuffix(host, "."+origin) {
			return true
		}
	}
	return false
}

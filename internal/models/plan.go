// internal/models/plan.go
package models

// Task is one category's slice of the study plan. Units are study hours;
// StartUnit/EndUnit are offsets into the overall budget timeline.
type Task struct {
	CategoryCode string       `json:"categoryCode"`
	StartUnit    int          `json:"startUnit"`
	EndUnit      int          `json:"endUnit"`
	Units        int          `json:"units"`
	Priority     PriorityTier `json:"priority"`
	Actions      []string     `json:"actions,omitempty"`
}

// Plan is the allocated study plan for one run. A remediation or profile edit
// produces a new Plan with an incremented Version, never an in-place change.
type Plan struct {
	ID         string `json:"id"`
	LearnerID  string `json:"learnerId"`
	TargetCode string `json:"targetCode"`
	Version    int    `json:"version"`
	TotalUnits int    `json:"totalUnits"`
	Tasks      []Task `json:"tasks"`
}

// AllocatedUnits sums the per-task allocations.
func (p Plan) AllocatedUnits() int {
	total := 0
	for _, t := range p.Tasks {
		total += t.Units
	}
	return total
}

// Resource is one curated study resource. URLs are screened against the trust
// allow-list before a resource is retained.
type Resource struct {
	CategoryCode  string       `json:"categoryCode"`
	Title         string       `json:"title"`
	URL           string       `json:"url"`
	Type          ResourceType `json:"type"`
	DurationHours float64      `json:"durationHours,omitempty"`
}

// Path is the curated resource list accompanying a Plan.
type Path struct {
	Version   int        `json:"version"`
	Resources []Resource `json:"resources"`
}

package ruleset

import (
	"fmt"
	"sort"

	"github.com/cory-johannsen/campredict/internal/game/camping"
)

// JobRegistry provides lookup of job definitions by ID.
type JobRegistry struct {
	jobs map[string]*Job
}

// NewJobRegistry returns an empty JobRegistry.
//
// Postcondition: Returns a non-nil *JobRegistry ready to accept registrations.
func NewJobRegistry() *JobRegistry {
	return &JobRegistry{jobs: make(map[string]*Job)}
}

// Register adds a Job to the registry.
//
// Precondition: job must be non-nil with a non-empty ID.
// Postcondition: job is retrievable via Job using job.ID;
// if called multiple times with the same ID, the last call wins.
func (r *JobRegistry) Register(job *Job) {
	if job == nil {
		panic("JobRegistry.Register: precondition violated: job must be non-nil")
	}
	if job.ID == "" {
		panic("JobRegistry.Register: precondition violated: job ID must be non-empty")
	}
	r.jobs[job.ID] = job
}

// Job returns the Job for the given ID, if registered.
//
// Postcondition: Returns the registered Job and true, or nil and false if not found.
func (r *JobRegistry) Job(id string) (*Job, bool) {
	j, ok := r.jobs[id]
	return j, ok
}

// IDs returns the registered job IDs in sorted order.
func (r *JobRegistry) IDs() []string {
	ids := make([]string, 0, len(r.jobs))
	for id := range r.jobs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Rules converts every registered job into a camping.JobRule.
//
// Postcondition: Returns an error naming the first job whose ID is not a camping.Job.
func (r *JobRegistry) Rules() (map[camping.Job]camping.JobRule, error) {
	rules := make(map[camping.Job]camping.JobRule, len(r.jobs))
	for _, id := range r.IDs() {
		rule, err := r.jobs[id].Rule()
		if err != nil {
			return nil, fmt.Errorf("job %q: %w", id, err)
		}
		rules[rule.Job] = rule
	}
	return rules, nil
}

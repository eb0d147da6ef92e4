package ruleset

import (
	"fmt"

	"github.com/cory-johannsen/campredict/internal/game/camping"
)

// Job defines the camping parameters of one citizen job.
//
// Precondition: ID, Name and Ceiling must be non-zero after loading.
type Job struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Ceiling     float64 `yaml:"ceiling"`
	Stealth     bool    `yaml:"stealth"`
}

// Rule converts the job into the calculator's JobRule.
//
// Postcondition: Returns an error if ID is not a known camping.Job.
func (j *Job) Rule() (camping.JobRule, error) {
	id, err := camping.ParseJob(j.ID)
	if err != nil {
		return camping.JobRule{}, err
	}
	return camping.JobRule{
		Job:     id,
		Name:    j.Name,
		Ceiling: j.Ceiling,
		Stealth: j.Stealth,
	}, nil
}

// LoadJobs reads all .yaml files in dir and parses each as a Job.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns all parsed jobs (may be empty slice) or a non-nil error.
func LoadJobs(dir string) ([]*Job, error) {
	files, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}
	jobs := make([]*Job, 0, len(files))
	for _, path := range files {
		var j Job
		if err := readYAML(path, &j); err != nil {
			return nil, fmt.Errorf("loading job: %w", err)
		}
		jobs = append(jobs, &j)
	}
	return jobs, nil
}

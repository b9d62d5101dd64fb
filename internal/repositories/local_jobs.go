package repositories

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/maxaizer/job-board/internal/domain/models"
)

//go:embed data/jobs.json
var defaultDataset []byte

// LoadLocalJobs reads the mock dataset used by the local listing. An empty path selects the bundled one.
func LoadLocalJobs(path string) ([]models.Job, error) {

	data := defaultDataset
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("failed to read dataset %s: %w", path, err)
		}
	}

	var jobs []models.Job
	if err := json.Unmarshal(data, &jobs); err != nil {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}

	seen := make(map[string]struct{}, len(jobs))
	for _, job := range jobs {
		if job.ID == "" {
			return nil, fmt.Errorf("dataset job %q has no id", job.Title)
		}
		if _, ok := seen[job.ID]; ok {
			return nil, fmt.Errorf("dataset job id %q is not unique", job.ID)
		}
		seen[job.ID] = struct{}{}
	}

	return jobs, nil
}

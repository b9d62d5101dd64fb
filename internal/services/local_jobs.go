package services

import (
	"context"
	"slices"

	"github.com/maxaizer/job-board/internal/domain/models"
	"github.com/samber/lo"
)

// LocalJobs filters a fixed in-memory dataset. It returns the whole match set as a single page.
type LocalJobs struct {
	jobs []models.Job
}

func NewLocalJobs(jobs []models.Job) *LocalJobs {
	return &LocalJobs{jobs: slices.Clone(jobs)}
}

func (l *LocalJobs) ListJobs(_ context.Context, query JobsQuery) (models.JobsPage, error) {

	matched := lo.Filter(l.jobs, func(job models.Job, _ int) bool {
		return query.Filters.Matches(job)
	})

	return models.JobsPage{
		Jobs:  matched,
		Total: len(matched),
		Page:  1,
		Limit: len(matched),
	}, nil
}

func (l *LocalJobs) GetJob(_ context.Context, id string) (models.Job, error) {
	job, found := lo.Find(l.jobs, func(job models.Job) bool { return job.ID == id })
	if !found {
		return models.Job{}, models.ErrJobNotFound
	}
	return job, nil
}

package services

import (
	"context"

	"github.com/maxaizer/job-board/internal/domain/models"
)

// JobsQuery is a snapshot of the listing criteria. Page and Limit are ignored by strategies without pagination.
type JobsQuery struct {
	Filters models.Filters
	Page    int
	Limit   int
}

// JobLister is implemented by both the in-memory and the remote job sources.
type JobLister interface {
	ListJobs(ctx context.Context, query JobsQuery) (models.JobsPage, error)
	GetJob(ctx context.Context, id string) (models.Job, error)
}

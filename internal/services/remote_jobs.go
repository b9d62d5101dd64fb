package services

import (
	"context"
	"fmt"
	"time"

	"github.com/maxaizer/job-board/internal/clients/jobs"
	"github.com/maxaizer/job-board/internal/domain/models"
	"github.com/maxaizer/job-board/internal/logger"
	"github.com/maxaizer/job-board/internal/metrics"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type jobsAPI interface {
	GetJobs(ctx context.Context, parameters jobs.ListParameters) (jobs.ListResponse, error)
	GetJob(ctx context.Context, id string) (models.Job, error)
	CreateJob(ctx context.Context, draft models.JobDraft) (models.Job, error)
	UpdateJob(ctx context.Context, id string, patch models.JobPatch) (models.Job, error)
	DeleteJob(ctx context.Context, id string) error
}

// RemoteJobs serves listings and mutations from the jobs API. Every error it returns is
// classified as models.ErrServiceUnavailable, models.ErrJobNotFound or models.ErrFetchFailed.
type RemoteJobs struct {
	client jobsAPI
}

func NewRemoteJobs(client jobsAPI) *RemoteJobs {
	return &RemoteJobs{client: client}
}

func (r *RemoteJobs) ListJobs(ctx context.Context, query JobsQuery) (models.JobsPage, error) {

	params := jobs.ListParameters{
		Page:     query.Page,
		Limit:    query.Limit,
		Search:   query.Filters.Search,
		Type:     query.Filters.Type,
		Category: query.Filters.Category,
		Location: query.Filters.Location,
	}
	if params.Page == 0 {
		params.Page = jobs.DefaultPage
	}
	if params.Limit == 0 {
		params.Limit = jobs.DefaultLimit
	}

	var response jobs.ListResponse
	err := r.observe(ctx, "list", func(ctx context.Context) (err error) {
		response, err = r.client.GetJobs(ctx, params)
		return err
	})
	if err != nil {
		return models.JobsPage{}, err
	}

	return models.JobsPage{
		Jobs:  response.Jobs,
		Total: response.Total,
		Page:  params.Page,
		Limit: params.Limit,
	}, nil
}

func (r *RemoteJobs) GetJob(ctx context.Context, id string) (job models.Job, err error) {
	err = r.observe(ctx, "get", func(ctx context.Context) (err error) {
		job, err = r.client.GetJob(ctx, id)
		return err
	})
	return job, err
}

func (r *RemoteJobs) CreateJob(ctx context.Context, draft models.JobDraft) (job models.Job, err error) {
	err = r.observe(ctx, "create", func(ctx context.Context) (err error) {
		job, err = r.client.CreateJob(ctx, draft)
		return err
	})
	return job, err
}

func (r *RemoteJobs) UpdateJob(ctx context.Context, id string, patch models.JobPatch) (job models.Job, err error) {
	err = r.observe(ctx, "update", func(ctx context.Context) (err error) {
		job, err = r.client.UpdateJob(ctx, id, patch)
		return err
	})
	return job, err
}

func (r *RemoteJobs) DeleteJob(ctx context.Context, id string) error {
	return r.observe(ctx, "delete", func(ctx context.Context) error {
		return r.client.DeleteJob(ctx, id)
	})
}

func (r *RemoteJobs) observe(ctx context.Context, operation string, call func(ctx context.Context) error) error {

	start := time.Now()
	err := convertError(call(ctx))
	metrics.APIRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	metrics.APIRequests.WithLabelValues(operation, outcome(err)).Inc()

	if err != nil && models.KindOf(err) != models.KindNotFound && !errors.Is(err, context.Canceled) {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeJobsApi).
			Errorf("jobs api %s request failed: %v", operation, err)
	}
	return err
}

func convertError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, jobs.ErrUnavailable):
		return fmt.Errorf("%w: %w", models.ErrServiceUnavailable, err)
	case errors.Is(err, jobs.ErrNotFound):
		return fmt.Errorf("%w: %w", models.ErrJobNotFound, err)
	default:
		return fmt.Errorf("%w: %w", models.ErrFetchFailed, err)
	}
}

func outcome(err error) string {
	switch models.KindOf(err) {
	case models.KindNone:
		return "ok"
	case models.KindUnavailable:
		return "unavailable"
	case models.KindNotFound:
		return "not_found"
	default:
		return "failed"
	}
}

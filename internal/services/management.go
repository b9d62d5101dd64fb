package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/asaskevich/EventBus"
	"github.com/go-playground/validator/v10"
	"github.com/maxaizer/job-board/internal/domain/events"
	"github.com/maxaizer/job-board/internal/domain/models"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var (
	ErrDeleteNotConfirmed = errors.New("delete was not confirmed")
	ErrEmptyPatch         = errors.New("nothing to update")
	ErrInvalidJob         = errors.New("invalid job")
	ErrInvalidApplication = errors.New("invalid application")
)

type jobsWriter interface {
	CreateJob(ctx context.Context, draft models.JobDraft) (models.Job, error)
	UpdateJob(ctx context.Context, id string, patch models.JobPatch) (models.Job, error)
	DeleteJob(ctx context.Context, id string) error
}

// ConfirmFunc is asked before a job is deleted, nothing is sent unless it returns true.
type ConfirmFunc func(id string) bool

// Management performs job mutations. A successful mutation publishes events.JobsChanged,
// a failed one leaves everything as it was and returns the error to the caller.
type Management struct {
	jobs     jobsWriter
	bus      EventBus.Bus
	validate *validator.Validate
}

func NewManagement(jobs jobsWriter, bus EventBus.Bus) *Management {
	return &Management{jobs: jobs, bus: bus, validate: validator.New()}
}

func (m *Management) Create(ctx context.Context, draft models.JobDraft) (models.Job, error) {

	if err := m.validate.Struct(draft); err != nil {
		return models.Job{}, fmt.Errorf("%w: %w", ErrInvalidJob, err)
	}

	job, err := m.jobs.CreateJob(ctx, draft)
	if err != nil {
		return models.Job{}, err
	}

	log.Infof("job %s \"%s\" created", job.ID, job.Title)
	m.publish(events.JobCreated, job.ID)
	return job, nil
}

func (m *Management) Update(ctx context.Context, id string, patch models.JobPatch) (models.Job, error) {

	if patch.IsEmpty() {
		return models.Job{}, ErrEmptyPatch
	}
	if err := m.validate.Struct(patch); err != nil {
		return models.Job{}, fmt.Errorf("%w: %w", ErrInvalidJob, err)
	}

	job, err := m.jobs.UpdateJob(ctx, id, patch)
	if err != nil {
		return models.Job{}, err
	}

	log.Infof("job %s updated", id)
	m.publish(events.JobUpdated, id)
	return job, nil
}

func (m *Management) Delete(ctx context.Context, id string, confirm ConfirmFunc) error {

	if confirm == nil || !confirm(id) {
		return ErrDeleteNotConfirmed
	}

	if err := m.jobs.DeleteJob(ctx, id); err != nil {
		return err
	}

	log.Infof("job %s deleted", id)
	m.publish(events.JobDeleted, id)
	return nil
}

func (m *Management) publish(operation events.JobsOperation, id string) {
	m.bus.Publish(events.JobsChangedTopic, events.JobsChanged{Operation: operation, JobID: id})
}

// ValidationMessage renders validator errors as a short list of offending fields.
func ValidationMessage(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}

	fields := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		fields = append(fields, fmt.Sprintf("%s (%s)", fieldErr.Field(), fieldErr.Tag()))
	}
	return "invalid fields: " + strings.Join(fields, ", ")
}

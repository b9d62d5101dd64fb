package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/maxaizer/job-board/internal/domain/models"
	"github.com/maxaizer/job-board/internal/logger"
	"github.com/maxaizer/job-board/internal/metrics"
	log "github.com/sirupsen/logrus"
)

type applicationsRepository interface {
	Add(ctx context.Context, application *models.Application) error
	GetByApplicant(ctx context.Context, applicantID int64) ([]models.Application, error)
	CountByJob(ctx context.Context, jobID string) (int64, error)
}

type Applications struct {
	repository applicationsRepository
	validate   *validator.Validate
}

func NewApplications(repository applicationsRepository) *Applications {
	return &Applications{repository: repository, validate: validator.New()}
}

// ValidateField checks a single field of a partially filled application.
func (a *Applications) ValidateField(application models.Application, field string) error {
	return a.validate.StructPartial(application, field)
}

func (a *Applications) Submit(ctx context.Context, application *models.Application) error {

	application.FirstName = strings.TrimSpace(application.FirstName)
	application.LastName = strings.TrimSpace(application.LastName)
	application.Email = strings.TrimSpace(application.Email)
	application.CoverLetter = strings.TrimSpace(application.CoverLetter)

	if err := a.validate.Struct(application); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidApplication, err)
	}

	if err := a.repository.Add(ctx, application); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to save application: %v", err)
		return err
	}

	metrics.ApplicationsSubmitted.Inc()
	log.Infof("application %d for job %s submitted", application.ID, application.JobID)
	return nil
}

// ByApplicant returns the applications of one user, newest first.
func (a *Applications) ByApplicant(ctx context.Context, applicantID int64) ([]models.Application, error) {
	applications, err := a.repository.GetByApplicant(ctx, applicantID)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to load applications of %d: %v", applicantID, err)
		return nil, err
	}
	return applications, nil
}

func (a *Applications) CountForJob(ctx context.Context, jobID string) (int64, error) {
	count, err := a.repository.CountByJob(ctx, jobID)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to count applications for job %s: %v", jobID, err)
		return 0, err
	}
	return count, nil
}

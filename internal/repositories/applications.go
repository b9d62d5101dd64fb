package repositories

import (
	"context"

	"github.com/maxaizer/job-board/internal/domain/models"
	"gorm.io/gorm"
)

type Applications struct {
	db *gorm.DB
}

func NewApplicationsRepository(db *gorm.DB) *Applications {
	return &Applications{db: db}
}

func (repo *Applications) Add(ctx context.Context, application *models.Application) error {
	return repo.db.WithContext(ctx).Create(application).Error
}

func (repo *Applications) GetByApplicant(ctx context.Context, applicantID int64) ([]models.Application, error) {

	var applications []models.Application
	if err := repo.db.WithContext(ctx).
		Order("created_at desc").
		Find(&applications, "applicant_id = ?", applicantID).Error; err != nil {
		return nil, err
	}
	return applications, nil
}

func (repo *Applications) CountByJob(ctx context.Context, jobID string) (int64, error) {

	var count int64
	if err := repo.db.WithContext(ctx).Model(&models.Application{}).Where("job_id = ?", jobID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

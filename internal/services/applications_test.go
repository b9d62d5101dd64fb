package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/maxaizer/job-board/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockApplicationsRepo struct {
	mock.Mock
}

func (m *mockApplicationsRepo) Add(ctx context.Context, application *models.Application) error {
	return m.Called(ctx, application).Error(0)
}

func (m *mockApplicationsRepo) GetByApplicant(ctx context.Context, applicantID int64) ([]models.Application, error) {
	args := m.Called(ctx, applicantID)
	return args.Get(0).([]models.Application), args.Error(1)
}

func (m *mockApplicationsRepo) CountByJob(ctx context.Context, jobID string) (int64, error) {
	args := m.Called(ctx, jobID)
	return args.Get(0).(int64), args.Error(1)
}

func validApplication() *models.Application {
	return &models.Application{
		JobID:        "1",
		FirstName:    " Ada ",
		LastName:     "Lovelace",
		Email:        "ada@example.com",
		Experience:   models.ExperienceFiveTen,
		Availability: models.AvailableTwoWeeks,
		CoverLetter:  strings.Repeat("I like engines. ", 10),
	}
}

func Test_Applications_Submit_ShouldSaveValidApplication(t *testing.T) {

	assert := assert.New(t)
	repo := &mockApplicationsRepo{}
	repo.On("Add", mock.Anything, mock.Anything).Return(nil)
	applications := NewApplications(repo)

	application := validApplication()
	assert.NoError(applications.Submit(context.Background(), application))

	assert.Equal("Ada", application.FirstName)
	repo.AssertNumberOfCalls(t, "Add", 1)
}

func Test_Applications_Submit_WhenInvalid_ShouldNotSave(t *testing.T) {

	tests := map[string]func(a *models.Application){
		"short cover letter": func(a *models.Application) { a.CoverLetter = "Hire me." },
		"bad email":          func(a *models.Application) { a.Email = "ada" },
		"bad portfolio":      func(a *models.Application) { a.Portfolio = "not a url" },
		"unknown experience": func(a *models.Application) { a.Experience = "20+" },
		"no availability":    func(a *models.Application) { a.Availability = "" },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			repo := &mockApplicationsRepo{}
			application := validApplication()
			mutate(application)

			err := NewApplications(repo).Submit(context.Background(), application)

			assert.ErrorIs(t, err, ErrInvalidApplication)
			repo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
		})
	}
}

func Test_Applications_ValidateField_ShouldCheckOnlyThatField(t *testing.T) {

	assert := assert.New(t)
	applications := NewApplications(&mockApplicationsRepo{})

	assert.NoError(applications.ValidateField(models.Application{Email: "ada@example.com"}, "Email"))
	assert.Error(applications.ValidateField(models.Application{Email: "ada"}, "Email"))
	assert.NoError(applications.ValidateField(models.Application{}, "Portfolio"))
}

func Test_Applications_ByApplicant_ShouldReturnRepositoryResult(t *testing.T) {

	assert := assert.New(t)
	repo := &mockApplicationsRepo{}
	repo.On("GetByApplicant", mock.Anything, int64(7)).Return([]models.Application{{ID: 2, JobID: "3"}}, nil)
	applications := NewApplications(repo)

	result, err := applications.ByApplicant(context.Background(), 7)

	assert.NoError(err)
	assert.Equal([]models.Application{{ID: 2, JobID: "3"}}, result)
}

func Test_Applications_CountForJob_WhenRepositoryFails_ShouldReturnError(t *testing.T) {

	assert := assert.New(t)
	repo := &mockApplicationsRepo{}
	repo.On("CountByJob", mock.Anything, "1").Return(int64(0), errors.New("disk I/O error"))
	applications := NewApplications(repo)

	count, err := applications.CountForJob(context.Background(), "1")

	assert.Error(err)
	assert.Zero(count)
}

package services

import (
	"context"
	"errors"
	"testing"

	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/job-board/internal/domain/events"
	"github.com/maxaizer/job-board/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var errBoom = errors.New("boom")

func recordJobsChanged(t *testing.T, bus EventBus.Bus) *[]events.JobsChanged {
	var published []events.JobsChanged
	err := bus.Subscribe(events.JobsChangedTopic, func(event events.JobsChanged) {
		published = append(published, event)
	})
	assert.NoError(t, err)
	return &published
}

func validDraft() models.JobDraft {
	return models.JobDraft{
		Title:       "Go Developer",
		Company:     "Gophers Inc",
		Location:    "Remote",
		Type:        models.Remote,
		Description: "Write Go.",
		Category:    "Engineering",
	}
}

func Test_Management_Delete_WhenNotConfirmed_ShouldNotSendRequest(t *testing.T) {

	assert := assert.New(t)
	api := &mockJobsAPI{}
	bus := EventBus.New()
	published := recordJobsChanged(t, bus)
	management := NewManagement(NewRemoteJobs(api), bus)

	err := management.Delete(context.Background(), "5", func(string) bool { return false })
	assert.ErrorIs(err, ErrDeleteNotConfirmed)

	err = management.Delete(context.Background(), "5", nil)
	assert.ErrorIs(err, ErrDeleteNotConfirmed)

	api.AssertNotCalled(t, "DeleteJob", mock.Anything, mock.Anything)
	assert.Empty(*published)
}

func Test_Management_Delete_WhenConfirmed_ShouldPublishChange(t *testing.T) {

	assert := assert.New(t)
	api := &mockJobsAPI{}
	api.On("DeleteJob", mock.Anything, "5").Return(nil)
	bus := EventBus.New()
	published := recordJobsChanged(t, bus)
	management := NewManagement(NewRemoteJobs(api), bus)

	var asked string
	err := management.Delete(context.Background(), "5", func(id string) bool { asked = id; return true })

	assert.NoError(err)
	assert.Equal("5", asked)
	assert.Equal([]events.JobsChanged{{Operation: events.JobDeleted, JobID: "5"}}, *published)
	api.AssertExpectations(t)
}

func Test_Management_WhenRequestFails_ShouldNotPublish(t *testing.T) {

	assert := assert.New(t)
	api := &mockJobsAPI{}
	api.On("DeleteJob", mock.Anything, "5").Return(errBoom)
	api.On("UpdateJob", mock.Anything, "5", mock.Anything).Return(models.Job{}, errBoom)
	bus := EventBus.New()
	published := recordJobsChanged(t, bus)
	management := NewManagement(NewRemoteJobs(api), bus)

	err := management.Delete(context.Background(), "5", func(string) bool { return true })
	assert.Equal(models.KindFailed, models.KindOf(err))

	title := "New title"
	_, err = management.Update(context.Background(), "5", models.JobPatch{Title: &title})
	assert.Error(err)

	assert.Empty(*published)
}

func Test_Management_Create_ShouldValidateAndPublish(t *testing.T) {

	assert := assert.New(t)
	api := &mockJobsAPI{}
	draft := validDraft()
	api.On("CreateJob", mock.Anything, draft).Return(models.Job{ID: "9", Title: draft.Title}, nil)
	bus := EventBus.New()
	published := recordJobsChanged(t, bus)
	management := NewManagement(NewRemoteJobs(api), bus)

	invalid := validDraft()
	invalid.Type = "Internship"
	invalid.Title = ""
	_, err := management.Create(context.Background(), invalid)
	assert.ErrorIs(err, ErrInvalidJob)
	assert.Contains(ValidationMessage(err), "Title")

	job, err := management.Create(context.Background(), draft)
	assert.NoError(err)
	assert.Equal("9", job.ID)
	assert.Equal([]events.JobsChanged{{Operation: events.JobCreated, JobID: "9"}}, *published)
	api.AssertNumberOfCalls(t, "CreateJob", 1)
}

func Test_Management_Update_ShouldRejectEmptyOrInvalidPatch(t *testing.T) {

	assert := assert.New(t)
	api := &mockJobsAPI{}
	management := NewManagement(NewRemoteJobs(api), EventBus.New())

	_, err := management.Update(context.Background(), "1", models.JobPatch{})
	assert.ErrorIs(err, ErrEmptyPatch)

	badType := models.JobType("Internship")
	_, err = management.Update(context.Background(), "1", models.JobPatch{Type: &badType})
	assert.ErrorIs(err, ErrInvalidJob)

	api.AssertNotCalled(t, "UpdateJob", mock.Anything, mock.Anything, mock.Anything)
}

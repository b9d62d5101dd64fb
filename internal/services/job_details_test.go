package services

import (
	"context"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/job-board/internal/domain/events"
	"github.com/maxaizer/job-board/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_JobDetails_ShouldCacheFoundJobsOnly(t *testing.T) {

	assert := assert.New(t)
	local := NewLocalJobs(testJobs())
	lister := &funcLister{getFn: func(id string) (models.Job, error) { return local.GetJob(context.Background(), id) }}
	details, err := NewJobDetails(lister, EventBus.New(), time.Minute)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		job, err := details.GetJob(context.Background(), "1")
		assert.NoError(err)
		assert.Equal("1", job.ID)
	}
	assert.Equal(1, lister.Gets())

	for i := 0; i < 2; i++ {
		_, err = details.GetJob(context.Background(), "404")
		assert.ErrorIs(err, models.ErrJobNotFound)
	}
	assert.Equal(3, lister.Gets())
}

func Test_JobDetails_WhenJobsChanged_ShouldEvict(t *testing.T) {

	assert := assert.New(t)
	bus := EventBus.New()
	local := NewLocalJobs(testJobs())
	lister := &funcLister{getFn: func(id string) (models.Job, error) { return local.GetJob(context.Background(), id) }}
	details, err := NewJobDetails(lister, bus, time.Minute)
	require.NoError(t, err)

	_, _ = details.GetJob(context.Background(), "1")
	_, _ = details.GetJob(context.Background(), "2")

	bus.Publish(events.JobsChangedTopic, events.JobsChanged{Operation: events.JobUpdated, JobID: "1"})
	_, _ = details.GetJob(context.Background(), "1")
	_, _ = details.GetJob(context.Background(), "2")
	assert.Equal(3, lister.Gets())

	bus.Publish(events.JobsChangedTopic, events.JobsChanged{Operation: events.JobsRefresh})
	_, _ = details.GetJob(context.Background(), "2")
	assert.Equal(4, lister.Gets())
}

package services

import (
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/job-board/internal/domain/events"
	"github.com/stretchr/testify/assert"
)

func Test_Refresher_WhenScheduleInvalid_ShouldFail(t *testing.T) {

	_, err := NewRefresher(EventBus.New(), "")
	assert.Error(t, err)

	_, err = NewRefresher(EventBus.New(), "every now and then")
	assert.Error(t, err)
}

func Test_Refresher_ShouldPublishRefresh(t *testing.T) {

	assert := assert.New(t)
	bus := EventBus.New()
	received := make(chan events.JobsChanged, 4)
	assert.NoError(bus.Subscribe(events.JobsChangedTopic, func(event events.JobsChanged) { received <- event }))

	refresher, err := NewRefresher(bus, "@every 1s")
	assert.NoError(err)
	defer refresher.Stop()

	select {
	case event := <-received:
		assert.Equal(events.JobsRefresh, event.Operation)
		assert.Empty(event.JobID)
	case <-time.After(3 * time.Second):
		assert.Fail("refresh was not published")
	}
}

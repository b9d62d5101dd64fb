package services

import (
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/job-board/internal/domain/events"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// Refresher periodically asks every open listing to refetch, so jobs changed by other clients show up.
type Refresher struct {
	bus  EventBus.Bus
	cron *cron.Cron
}

func NewRefresher(bus EventBus.Bus, schedule string) (*Refresher, error) {

	if schedule == "" {
		return nil, errors.New("refresh schedule is empty")
	}

	r := &Refresher{bus: bus, cron: cron.New()}

	_, err := r.cron.AddFunc(schedule, r.refresh)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid refresh schedule %q", schedule)
	}

	r.cron.Start()
	log.Infof("jobs refresher started, schedule: %s", schedule)
	return r, nil
}

func (r *Refresher) Stop() {
	<-r.cron.Stop().Done()
}

func (r *Refresher) refresh() {
	r.bus.Publish(events.JobsChangedTopic, events.JobsChanged{Operation: events.JobsRefresh})
}

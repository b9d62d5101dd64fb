package services

import (
	"context"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/job-board/internal/domain/events"
	"github.com/maxaizer/job-board/internal/domain/models"
	gocache "github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"
)

// JobDetails caches successful job lookups of the wrapped lister. Failed lookups are never cached,
// and cached entries are evicted whenever jobs change.
type JobDetails struct {
	lister JobLister
	cache  *gocache.Cache
}

func NewJobDetails(lister JobLister, bus EventBus.Bus, ttl time.Duration) (*JobDetails, error) {

	d := &JobDetails{
		lister: lister,
		cache:  gocache.New(ttl, 2*ttl),
	}

	if err := bus.Subscribe(events.JobsChangedTopic, d.onJobsChanged); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *JobDetails) ListJobs(ctx context.Context, query JobsQuery) (models.JobsPage, error) {
	return d.lister.ListJobs(ctx, query)
}

func (d *JobDetails) GetJob(ctx context.Context, id string) (models.Job, error) {

	if cached, found := d.cache.Get(id); found {
		return cached.(models.Job), nil
	}

	job, err := d.lister.GetJob(ctx, id)
	if err != nil {
		return models.Job{}, err
	}

	d.cache.Set(id, job, gocache.DefaultExpiration)
	return job, nil
}

func (d *JobDetails) onJobsChanged(event events.JobsChanged) {
	if event.JobID == "" {
		d.cache.Flush()
		log.Debugf("job details cache flushed on %s", event.Operation)
		return
	}
	d.cache.Delete(event.JobID)
}

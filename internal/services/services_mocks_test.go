package services

import (
	"context"
	"sync"

	"github.com/maxaizer/job-board/internal/clients/jobs"
	"github.com/maxaizer/job-board/internal/domain/models"
	"github.com/stretchr/testify/mock"
)

type mockJobsAPI struct {
	mock.Mock
}

func (m *mockJobsAPI) GetJobs(ctx context.Context, parameters jobs.ListParameters) (jobs.ListResponse, error) {
	args := m.Called(ctx, parameters)
	return args.Get(0).(jobs.ListResponse), args.Error(1)
}

func (m *mockJobsAPI) GetJob(ctx context.Context, id string) (models.Job, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Job), args.Error(1)
}

func (m *mockJobsAPI) CreateJob(ctx context.Context, draft models.JobDraft) (models.Job, error) {
	args := m.Called(ctx, draft)
	return args.Get(0).(models.Job), args.Error(1)
}

func (m *mockJobsAPI) UpdateJob(ctx context.Context, id string, patch models.JobPatch) (models.Job, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(models.Job), args.Error(1)
}

func (m *mockJobsAPI) DeleteJob(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// funcLister records every query and answers with listFn.
type funcLister struct {
	mu      sync.Mutex
	queries []JobsQuery
	listFn  func(query JobsQuery) (models.JobsPage, error)
	getFn   func(id string) (models.Job, error)
	gets    int
}

func (f *funcLister) ListJobs(_ context.Context, query JobsQuery) (models.JobsPage, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	return f.listFn(query)
}

func (f *funcLister) GetJob(_ context.Context, id string) (models.Job, error) {
	f.mu.Lock()
	f.gets++
	f.mu.Unlock()
	return f.getFn(id)
}

func (f *funcLister) Queries() []JobsQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]JobsQuery(nil), f.queries...)
}

func (f *funcLister) Gets() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gets
}

func testJobs() []models.Job {
	return []models.Job{
		{ID: "1", Title: "Senior React Developer", Company: "TechCorp", Location: "San Francisco, CA",
			Type: models.FullTime, Category: "Engineering", Description: "Build UIs."},
		{ID: "2", Title: "Product Designer", Company: "DesignHub", Location: "Remote",
			Type: models.Remote, Category: "Design", Description: "Own the design system."},
		{ID: "3", Title: "Backend Engineer", Company: "CloudWorks", Location: "Berlin (remote friendly)",
			Type: models.Contract, Category: "Engineering", Description: "Go services, some react tooling."},
		{ID: "4", Title: "Marketing Manager", Company: "GrowthLab", Location: "New York, NY",
			Type: models.FullTime, Category: "Marketing", Description: "Campaigns."},
	}
}

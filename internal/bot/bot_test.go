package bot

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/maxaizer/job-board/internal/domain/events"
	"github.com/maxaizer/job-board/internal/domain/models"
	"github.com/maxaizer/job-board/internal/favorites"
	"github.com/maxaizer/job-board/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adminID int64 = 42

type mockApi struct {
	mu           sync.Mutex
	SentMessages []string
}

func (m *mockApi) Send(chattable botApi.Chattable) (botApi.Message, error) {
	if msg, ok := chattable.(botApi.MessageConfig); ok {
		m.mu.Lock()
		m.SentMessages = append(m.SentMessages, msg.Text)
		m.mu.Unlock()
	}
	return botApi.Message{}, nil
}

func (m *mockApi) GetUpdatesChan(_ botApi.UpdateConfig) botApi.UpdatesChannel {
	return make(chan botApi.Update)
}

func (m *mockApi) StopReceivingUpdates() {}

func (m *mockApi) Last() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.SentMessages) == 0 {
		return ""
	}
	return m.SentMessages[len(m.SentMessages)-1]
}

func (m *mockApi) Contains(substr string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, text := range m.SentMessages {
		if strings.Contains(text, substr) {
			return true
		}
	}
	return false
}

type mockDataRepo struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *mockDataRepo) Save(_ context.Context, id string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = map[string][]byte{}
	}
	m.data[id] = data
	return nil
}

func (m *mockDataRepo) LoadAndRemove(_ context.Context, id string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data := m.data[id]
	delete(m.data, id)
	return data, nil
}

type mockApplicationsRepo struct {
	Applications []models.Application
}

func (m *mockApplicationsRepo) Add(_ context.Context, application *models.Application) error {
	application.ID = len(m.Applications) + 1
	m.Applications = append(m.Applications, *application)
	return nil
}

func (m *mockApplicationsRepo) GetByApplicant(_ context.Context, applicantID int64) ([]models.Application, error) {
	var result []models.Application
	for _, application := range m.Applications {
		if application.ApplicantID == applicantID {
			result = append(result, application)
		}
	}
	return result, nil
}

func (m *mockApplicationsRepo) CountByJob(_ context.Context, jobID string) (int64, error) {
	var count int64
	for _, application := range m.Applications {
		if application.JobID == jobID {
			count++
		}
	}
	return count, nil
}

type mockJobsWriter struct {
	Deleted []string
	Patches map[string]models.JobPatch
	Drafts  []models.JobDraft
}

func (m *mockJobsWriter) CreateJob(_ context.Context, draft models.JobDraft) (models.Job, error) {
	m.Drafts = append(m.Drafts, draft)
	return models.Job{ID: "100", Title: draft.Title}, nil
}

func (m *mockJobsWriter) UpdateJob(_ context.Context, id string, patch models.JobPatch) (models.Job, error) {
	if m.Patches == nil {
		m.Patches = map[string]models.JobPatch{}
	}
	m.Patches[id] = patch
	return models.Job{ID: id}, nil
}

func (m *mockJobsWriter) DeleteJob(_ context.Context, id string) error {
	m.Deleted = append(m.Deleted, id)
	return nil
}

func testJobs() services.JobLister {
	return services.NewLocalJobs([]models.Job{
		{ID: "1", Title: "Go Developer", Company: "Gophers", Location: "Remote", Type: models.Remote,
			Category: "Engineering", Description: "Write Go."},
		{ID: "2", Title: "Designer", Company: "Pixels", Location: "Paris", Type: models.FullTime,
			Category: "Design", Description: "Draw things."},
	})
}

func simulateUserInput(cmd command, inputs []string) {
	for _, input := range inputs {
		cmd.OnUserInput(input)
	}
}

func newTestBot(t *testing.T, api *mockApi, data *mockDataRepo, bus EventBus.Bus) *Bot {
	return newTestBotWithApplications(t, api, data, bus, &mockApplicationsRepo{})
}

func newTestBotWithApplications(t *testing.T, api *mockApi, data *mockDataRepo, bus EventBus.Bus,
	applications *mockApplicationsRepo) *Bot {
	b, err := newBot(api, bus,
		Repositories{Data: data, Favorites: favorites.NewMemoryStorage()},
		Services{
			Jobs:         testJobs(),
			Management:   services.NewManagement(&mockJobsWriter{}, bus),
			Applications: services.NewApplications(applications),
		},
		Options{AdminIDs: []int64{adminID}})
	require.NoError(t, err)
	return b
}

func commandMessage(userID int64, text string) *botApi.Message {
	name, _, _ := strings.Cut(text, " ")
	return &botApi.Message{
		Text:     text,
		From:     &botApi.User{ID: userID},
		Chat:     &botApi.Chat{ID: userID, Type: "private"},
		Entities: []botApi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(name)}},
	}
}

func textMessage(userID int64, text string) *botApi.Message {
	return &botApi.Message{Text: text, From: &botApi.User{ID: userID}, Chat: &botApi.Chat{ID: userID, Type: "private"}}
}

func coverLetter() string {
	return strings.Repeat("I have shipped Go services for years. ", 4)
}

func Test_ApplyCmd_WhenValidData_ShouldBeSuccessful(t *testing.T) {

	assert := assert.New(t)
	repo := &mockApplicationsRepo{}
	finished := false

	cmd, err := newApplyCommand(&mockApi{}, 7, 7, "1", testJobs(), services.NewApplications(repo))
	require.NoError(t, err)
	cmd.WithFinishCallback(func() { finished = true })

	cmd.Run()
	simulateUserInput(cmd, []string{"Ada", "Lovelace", "ada@example.com", "-", "5-10", "https://ada.dev",
		"2-weeks", coverLetter(), "resume.pdf"})

	assert.True(finished)
	require.Len(t, repo.Applications, 1)
	application := repo.Applications[0]
	assert.Equal("1", application.JobID)
	assert.Equal("Go Developer", application.JobTitle)
	assert.Equal("Gophers", application.Company)
	assert.Equal(int64(7), application.ApplicantID)
	assert.Equal("ada@example.com", application.Email)
	assert.Empty(application.Phone)
	assert.Equal(models.ExperienceFiveTen, application.Experience)
	assert.Equal(models.AvailableTwoWeeks, application.Availability)
	assert.Equal("resume.pdf", application.ResumeFile)
}

func Test_ApplyCmd_WhenInvalidInput_ShouldWaitForValid(t *testing.T) {

	assert := assert.New(t)
	repo := &mockApplicationsRepo{}
	api := &mockApi{}
	finished := false

	cmd, err := newApplyCommand(api, 7, 7, "1", testJobs(), services.NewApplications(repo))
	require.NoError(t, err)
	cmd.WithFinishCallback(func() { finished = true })

	cmd.Run()
	simulateUserInput(cmd, []string{"Ada", "Lovelace"})
	simulateUserInput(cmd, []string{"not-an-email", "ada@example.com"})
	cmd.OnUserInput("-")
	simulateUserInput(cmd, []string{"twenty years", "10+"})
	simulateUserInput(cmd, []string{"my site", "-"})
	simulateUserInput(cmd, []string{"tomorrow", "immediate"})
	simulateUserInput(cmd, []string{"Hire me.", coverLetter()})
	assert.False(finished)
	cmd.OnUserInput("-")

	assert.True(finished)
	assert.Len(repo.Applications, 1)
	assert.True(api.Contains("valid email"))
	assert.True(api.Contains("at least 100 characters"))
}

func Test_ApplyCmd_WhenJobMissing_ShouldFail(t *testing.T) {

	_, err := newApplyCommand(&mockApi{}, 7, 7, "404", testJobs(), services.NewApplications(&mockApplicationsRepo{}))
	assert.ErrorIs(t, err, models.ErrJobNotFound)
}

func Test_ApplyCmd_SaveAndLoadState_ShouldResume(t *testing.T) {

	assert := assert.New(t)
	repo := &mockApplicationsRepo{}
	applications := services.NewApplications(repo)

	cmd, err := newApplyCommand(&mockApi{}, 7, 7, "1", testJobs(), applications)
	require.NoError(t, err)
	cmd.Run()
	simulateUserInput(cmd, []string{"Ada", "Lovelace", "ada@example.com"})

	state, err := cmd.SaveState()
	require.NoError(t, err)

	restored, err := newApplyCommand(&mockApi{}, 7, 7, "1", testJobs(), applications)
	require.NoError(t, err)
	require.NoError(t, restored.LoadState(state))
	simulateUserInput(restored, []string{"-", "0-1", "-", "flexible", coverLetter(), "-"})

	require.Len(t, repo.Applications, 1)
	assert.Equal("Lovelace", repo.Applications[0].LastName)
}

func Test_AddJobCmd_WhenValidData_ShouldCreateJob(t *testing.T) {

	assert := assert.New(t)
	writer := &mockJobsWriter{}
	bus := EventBus.New()
	published := false
	_ = bus.Subscribe(events.JobsChangedTopic, func(event events.JobsChanged) { published = true })
	finished := false

	cmd := newAddJobCommand(&mockApi{}, 1, services.NewManagement(writer, bus))
	cmd.WithFinishCallback(func() { finished = true })

	cmd.Run()
	simulateUserInput(cmd, []string{"SRE", "Ops Inc", "Remote", "Internship", "Contract", "Engineering", "-",
		"Keep things up.", "Linux, Kubernetes ,", "No"})

	assert.True(finished)
	assert.True(published)
	require.Len(t, writer.Drafts, 1)
	assert.Equal(models.Contract, writer.Drafts[0].Type)
	assert.Equal([]string{"Linux", "Kubernetes"}, writer.Drafts[0].Requirements)
	assert.False(writer.Drafts[0].Featured)
}

func Test_DeleteJobCmd_ShouldRespectConfirmation(t *testing.T) {

	tests := []struct {
		answer  string
		deleted []string
		message string
	}{
		{answerNo, nil, "Deletion cancelled."},
		{answerYes, []string{"2"}, "Job Designer deleted."},
	}

	for _, test := range tests {
		t.Run(test.answer, func(t *testing.T) {
			assert := assert.New(t)
			writer := &mockJobsWriter{}
			api := &mockApi{}
			finished := false

			cmd, err := newDeleteJobCommand(api, 1, "2", testJobs(), services.NewManagement(writer, EventBus.New()))
			require.NoError(t, err)
			cmd.WithFinishCallback(func() { finished = true })

			cmd.Run()
			simulateUserInput(cmd, []string{"maybe", test.answer})

			assert.True(finished)
			assert.Equal(test.deleted, writer.Deleted)
			assert.Equal(test.message, api.Last())
		})
	}
}

func Test_EditJobCmd_ShouldSendPartialUpdates(t *testing.T) {

	assert := assert.New(t)
	writer := &mockJobsWriter{}
	finished := false

	cmd, err := newEditJobCommand(&mockApi{}, 1, "1", testJobs(), services.NewManagement(writer, EventBus.New()))
	require.NoError(t, err)
	cmd.WithFinishCallback(func() { finished = true })

	cmd.Run()
	simulateUserInput(cmd, []string{"Salary", "$200k"})
	assert.Equal(models.JobPatch{Salary: ptr("$200k")}, writer.Patches["1"])

	simulateUserInput(cmd, []string{"Colour", "Type", "Part-time"})
	patchedType := models.PartTime
	assert.Equal(models.JobPatch{Type: &patchedType}, writer.Patches["1"])
	assert.False(finished)
}

func ptr[T any](value T) *T {
	return &value
}

func Test_Bot_Jobs_ShouldRenderListing(t *testing.T) {

	api := &mockApi{}
	b := newTestBot(t, api, &mockDataRepo{}, EventBus.New())

	b.handleMessage(commandMessage(1, "/jobs"))

	assert.Eventually(t, func() bool { return api.Contains("Showing 1 to 2 of 2 jobs") }, time.Second, time.Millisecond)
}

func Test_Bot_Filter_ShouldNarrowListing(t *testing.T) {

	api := &mockApi{}
	b := newTestBot(t, api, &mockDataRepo{}, EventBus.New())

	b.handleMessage(commandMessage(1, "/filter category Design"))

	assert.Eventually(t, func() bool { return api.Contains("Showing 1 to 1 of 1 jobs") }, time.Second, time.Millisecond)
	assert.True(t, api.Contains("category Design"))
}

func Test_Bot_Favorites_ShouldToggleAndList(t *testing.T) {

	assert := assert.New(t)
	api := &mockApi{}
	b := newTestBot(t, api, &mockDataRepo{}, EventBus.New())

	b.handleMessage(commandMessage(1, "/fav 2"))
	assert.Equal("Job 2 added to favorites.", api.Last())

	b.handleMessage(commandMessage(1, "/favorites"))
	assert.Contains(api.Last(), "Designer at Pixels")

	b.handleMessage(commandMessage(1, "/fav 2"))
	assert.Equal("Job 2 removed from favorites.", api.Last())

	b.handleMessage(commandMessage(2, "/favorites"))
	assert.Contains(api.Last(), "no favorite jobs", "favorites are kept per user")
}

func Test_Bot_Job_WhenMissing_ShouldShowNotFound(t *testing.T) {

	api := &mockApi{}
	b := newTestBot(t, api, &mockDataRepo{}, EventBus.New())

	b.handleMessage(commandMessage(1, "/job 404"))

	assert.Equal(t, models.UserMessage(models.ErrJobNotFound), api.Last())
}

func Test_Bot_ManagementCommands_ShouldRequireAdmin(t *testing.T) {

	assert := assert.New(t)
	api := &mockApi{}
	b := newTestBot(t, api, &mockDataRepo{}, EventBus.New())

	b.handleMessage(commandMessage(1, "/delete 1"))
	assert.Equal(commandErrorText(errNotAdmin), api.Last())

	b.handleMessage(commandMessage(adminID, "/delete 1"))
	assert.Contains(api.Last(), "Are you sure")

	b.handleMessage(textMessage(adminID, answerNo))
	assert.Equal("Deletion cancelled.", api.Last())
}

func Test_Bot_StopAndRun_ShouldRestoreSession(t *testing.T) {

	assert := assert.New(t)
	data := &mockDataRepo{}
	api := &mockApi{}
	first := newTestBot(t, api, data, EventBus.New())

	first.handleMessage(commandMessage(1, "/filter type Remote"))
	first.handleMessage(commandMessage(1, "/apply 1"))
	first.handleMessage(textMessage(1, "Ada"))
	first.userContexts[1].listing.Wait()
	first.Stop()

	second := newTestBot(t, api, data, EventBus.New())
	require.NoError(t, second.loadUserContexts())

	ctx := second.userContexts[1]
	require.NotNil(t, ctx)
	assert.Equal("Remote", ctx.listing.State().Filters.Type)
	assert.True(ctx.HasRunningCommand())
	assert.Equal(applyCommandName, ctx.curCommandName)
}

func Test_Bot_Applications_ShouldListOwnApplicationsAndCountPerJob(t *testing.T) {

	assert := assert.New(t)
	api := &mockApi{}
	repo := &mockApplicationsRepo{Applications: []models.Application{
		{ID: 1, JobID: "1", JobTitle: "Go Developer", Company: "Gophers", ApplicantID: 1},
		{ID: 2, JobID: "1", JobTitle: "Go Developer", Company: "Gophers", ApplicantID: 3},
	}}
	b := newTestBotWithApplications(t, api, &mockDataRepo{}, EventBus.New(), repo)

	b.handleMessage(commandMessage(1, "/applications"))
	assert.Contains(api.Last(), "Your applications (1)")
	assert.Contains(api.Last(), "Go Developer at Gophers")
	assert.Contains(api.Last(), "/job_1")

	b.handleMessage(commandMessage(2, "/applications"))
	assert.Contains(api.Last(), "haven't applied")

	b.handleMessage(commandMessage(2, "/job 1"))
	assert.Contains(api.Last(), "Applications so far: 2")

	b.handleMessage(commandMessage(2, "/job 2"))
	assert.NotContains(api.Last(), "Applications so far")
}

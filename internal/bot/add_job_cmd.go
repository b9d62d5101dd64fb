package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/maxaizer/job-board/internal/domain/models"
	"github.com/maxaizer/job-board/internal/services"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

const addJobCommandName = "add"

const (
	answerYes = "Yes"
	answerNo  = "No"
)

type addJobCommand struct {
	steps
	api                  apiInterface
	chatID               int64
	management           jobManager
	draft                models.JobDraft
	finishCallback       func()
	finalMessageKeyboard *botApi.ReplyKeyboardMarkup
}

func newAddJobCommand(api apiInterface, chatID int64, management jobManager) *addJobCommand {

	cmd := &addJobCommand{api: api, chatID: chatID, management: management}

	title := requiredInput(chatID, "Job title?", func(input string) { cmd.draft.Title = input; cmd.next() })
	company := requiredInput(chatID, "Company?", func(input string) { cmd.draft.Company = input; cmd.next() })
	location := requiredInput(chatID, "Location?", func(input string) { cmd.draft.Location = input; cmd.next() })

	jobType := newChoiceInput(chatID, "Job type?", toStrings(models.JobTypes), func(choice string) {
		cmd.draft.Type = models.JobType(choice)
		cmd.next()
	})
	category := newChoiceInput(chatID, "Category?", models.Categories, func(choice string) {
		cmd.draft.Category = choice
		cmd.next()
	})

	salary := newTextInput(chatID, "Salary, for example \"$120k - $160k\"?", func(input string) {
		cmd.draft.Salary = input
		cmd.next()
	}).Optional()

	description := requiredInput(chatID, "Description?", func(input string) { cmd.draft.Description = input; cmd.next() })

	requirements := newTextInput(chatID, "Requirements, separated by commas?", func(input string) {
		cmd.draft.Requirements = splitRequirements(input)
		cmd.next()
	}).Optional()

	featured := newChoiceInput(chatID, "Feature this job?", []string{answerYes, answerNo}, func(choice string) {
		cmd.draft.Featured = choice == answerYes
		cmd.next()
	})

	cmd.inputHandlers = []inputHandler{title, company, location, jobType, category, salary, description,
		requirements, featured}
	return cmd
}

func (c *addJobCommand) WithFinishCallback(callback func()) {
	c.finishCallback = callback
}

func (c *addJobCommand) WithKeyboardOnFinalMessage(keyboard botApi.ReplyKeyboardMarkup) {
	c.finalMessageKeyboard = &keyboard
}

func (c *addJobCommand) SaveState() ([]byte, error) {
	return json.Marshal(&struct {
		CurHandlerIndex int
		Draft           models.JobDraft
	}{
		CurHandlerIndex: c.curHandlerIndex,
		Draft:           c.draft,
	})
}

func (c *addJobCommand) LoadState(data []byte) error {

	aux := &struct {
		CurHandlerIndex int
		Draft           models.JobDraft
	}{}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if aux.CurHandlerIndex < 0 || aux.CurHandlerIndex >= len(c.inputHandlers) {
		return fmt.Errorf("invalid add job step %d", aux.CurHandlerIndex)
	}

	c.curHandlerIndex = aux.CurHandlerIndex
	c.draft = aux.Draft
	return nil
}

func (c *addJobCommand) Run() {
	c.start(c.api)
}

func (c *addJobCommand) OnUserInput(input string) {

	if !c.handle(c.api, input) {
		return
	}

	c.addJob()
	if c.finishCallback != nil {
		c.finishCallback()
	}
}

func (c *addJobCommand) addJob() {

	msg := botApi.NewMessage(c.chatID, "")
	if c.finalMessageKeyboard != nil {
		msg.ReplyMarkup = c.finalMessageKeyboard
	}

	job, err := c.management.Create(context.Background(), c.draft)
	if err != nil {
		msg.Text = "Failed to create job: " + mutationErrorText(err)
		_, _ = sendWithLogError(c.api, msg)
		return
	}

	msg.Text = fmt.Sprintf("Job created: %s /job_%s", job.Title, job.ID)
	_, _ = sendWithLogError(c.api, msg)
}

func requiredInput(chatID int64, prompt string, onFinish func(input string)) *textInput {
	input := newTextInput(chatID, prompt, onFinish)
	input.AddValidation(notEmpty("This field is required."))
	return input
}

func splitRequirements(input string) []string {
	return lo.Compact(lo.Map(strings.Split(input, ","), func(requirement string, _ int) string {
		return strings.TrimSpace(requirement)
	}))
}

func mutationErrorText(err error) string {
	if errors.Is(err, services.ErrInvalidJob) {
		return services.ValidationMessage(err)
	}
	if errors.Is(err, services.ErrEmptyPatch) {
		return "nothing to update."
	}
	return models.UserMessage(err)
}

package bot

import (
	"context"
	"fmt"

	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/maxaizer/job-board/internal/domain/models"
	"github.com/maxaizer/job-board/internal/services"
	"github.com/pkg/errors"
)

const deleteJobCommandName = "delete"

type deleteJobCommand struct {
	api                  apiInterface
	chatID               int64
	management           jobManager
	job                  models.Job
	input                inputHandler
	confirmed            bool
	answered             bool
	finishCallback       func()
	finalMessageKeyboard *botApi.ReplyKeyboardMarkup
}

func newDeleteJobCommand(api apiInterface, chatID int64, id string, jobs services.JobLister,
	management jobManager) (*deleteJobCommand, error) {

	job, err := jobs.GetJob(context.Background(), id)
	if err != nil {
		return nil, err
	}

	cmd := &deleteJobCommand{api: api, chatID: chatID, management: management, job: job}
	prompt := fmt.Sprintf("Are you sure you want to delete %s at %s (#%s)?", job.Title, job.Company, job.ID)
	cmd.input = newChoiceInput(chatID, prompt, []string{answerYes, answerNo}, func(choice string) {
		cmd.confirmed = choice == answerYes
		cmd.answered = true
	})
	return cmd, nil
}

func (c *deleteJobCommand) WithFinishCallback(callback func()) {
	c.finishCallback = callback
}

func (c *deleteJobCommand) WithKeyboardOnFinalMessage(keyboard botApi.ReplyKeyboardMarkup) {
	c.finalMessageKeyboard = &keyboard
}

func (c *deleteJobCommand) Run() {
	_, _ = sendWithLogError(c.api, c.input.InitMessage())
}

func (c *deleteJobCommand) OnUserInput(input string) {

	msg := c.input.HandleInput(input)

	if !c.answered {
		_, _ = sendWithLogError(c.api, msg)
		return
	}

	c.deleteJob()

	if c.finishCallback != nil {
		c.finishCallback()
	}
}

func (c *deleteJobCommand) deleteJob() {

	msg := botApi.NewMessage(c.chatID, "")
	if c.finalMessageKeyboard != nil {
		msg.ReplyMarkup = c.finalMessageKeyboard
	}

	err := c.management.Delete(context.Background(), c.job.ID, func(string) bool { return c.confirmed })
	switch {
	case errors.Is(err, services.ErrDeleteNotConfirmed):
		msg.Text = "Deletion cancelled."
	case err != nil:
		msg.Text = "Failed to delete job: " + mutationErrorText(err)
	default:
		msg.Text = fmt.Sprintf("Job %s deleted.", c.job.Title)
	}
	_, _ = sendWithLogError(c.api, msg)
}

package bot

import (
	"context"
	"fmt"

	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/maxaizer/job-board/internal/domain/models"
	"github.com/maxaizer/job-board/internal/services"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

const editJobCommandName = "edit"

const (
	inputFieldToEditStep = iota
	inputFieldValueStep
)

var editableFields = []string{"Title", "Company", "Location", "Type", "Category", "Salary", "Description",
	"Requirements", "Featured"}

type editJobCommand struct {
	api                  apiInterface
	chatID               int64
	management           jobManager
	job                  models.Job
	curInput             inputHandler
	curStep              int
	finishCallback       func()
	finalMessageKeyboard *botApi.ReplyKeyboardMarkup
}

func newEditJobCommand(api apiInterface, chatID int64, id string, jobs services.JobLister,
	management jobManager) (*editJobCommand, error) {

	job, err := jobs.GetJob(context.Background(), id)
	if err != nil {
		return nil, err
	}

	cmd := &editJobCommand{api: api, chatID: chatID, management: management, job: job}
	cmd.curInput = cmd.newFieldChoice()
	return cmd, nil
}

func (c *editJobCommand) WithFinishCallback(callback func()) {
	c.finishCallback = callback
}

func (c *editJobCommand) WithKeyboardOnFinalMessage(keyboard botApi.ReplyKeyboardMarkup) {
	c.finalMessageKeyboard = &keyboard
}

func (c *editJobCommand) Run() {
	_, _ = sendWithLogError(c.api, c.curInput.InitMessage())
}

func (c *editJobCommand) OnUserInput(input string) {

	previousStep := c.curStep
	msg := c.curInput.HandleInput(input)

	if c.curStep == previousStep {
		if msg != nil {
			_, _ = sendWithLogError(c.api, msg)
		}
		return
	}

	if c.curStep == inputFieldToEditStep {
		c.curInput = c.newFieldChoice()
	}
	_, _ = sendWithLogError(c.api, c.curInput.InitMessage())
}

func (c *editJobCommand) newFieldChoice() inputHandler {
	prompt := fmt.Sprintf("Editing %s at %s (#%s). Which field should change?", c.job.Title, c.job.Company, c.job.ID)
	return newChoiceInput(c.chatID, prompt, editableFields, func(field string) {
		c.curInput = c.newValueInput(field)
		c.curStep = inputFieldValueStep
	})
}

func (c *editJobCommand) newValueInput(field string) inputHandler {

	onValue := func(patch models.JobPatch) {
		c.editJob(patch)
		c.curStep = inputFieldToEditStep
	}

	switch field {
	case "Type":
		return newChoiceInput(c.chatID, "New job type?", toStrings(models.JobTypes), func(choice string) {
			onValue(models.JobPatch{Type: lo.ToPtr(models.JobType(choice))})
		})
	case "Category":
		return newChoiceInput(c.chatID, "New category?", models.Categories, func(choice string) {
			onValue(models.JobPatch{Category: lo.ToPtr(choice)})
		})
	case "Featured":
		return newChoiceInput(c.chatID, "Feature this job?", []string{answerYes, answerNo}, func(choice string) {
			onValue(models.JobPatch{Featured: lo.ToPtr(choice == answerYes)})
		})
	case "Requirements":
		return requiredInput(c.chatID, "New requirements, separated by commas?", func(input string) {
			onValue(models.JobPatch{Requirements: lo.ToPtr(splitRequirements(input))})
		})
	}

	return requiredInput(c.chatID, fmt.Sprintf("New %s?", field), func(input string) {
		onValue(textPatch(field, input))
	})
}

func textPatch(field string, value string) models.JobPatch {
	var patch models.JobPatch
	switch field {
	case "Title":
		patch.Title = &value
	case "Company":
		patch.Company = &value
	case "Location":
		patch.Location = &value
	case "Salary":
		patch.Salary = &value
	case "Description":
		patch.Description = &value
	default:
		log.Errorf("editJobCommand: field %s is not a text field", field)
	}
	return patch
}

func (c *editJobCommand) editJob(patch models.JobPatch) {

	job, err := c.management.Update(context.Background(), c.job.ID, patch)
	if err != nil {
		_, _ = sendWithLogError(c.api, botApi.NewMessage(c.chatID, "Failed to update job: "+mutationErrorText(err)))
		return
	}

	c.job = job
	_, _ = sendWithLogError(c.api, botApi.NewMessage(c.chatID, "Job updated!"))
}

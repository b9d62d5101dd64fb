package bot

import (
	"context"
	"encoding/json"
	"fmt"

	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/maxaizer/job-board/internal/domain/models"
	"github.com/maxaizer/job-board/internal/services"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const applyCommandName = "apply"

type applyCommand struct {
	steps
	api                  apiInterface
	chatID               int64
	applications         applicationService
	application          models.Application
	finishCallback       func()
	finalMessageKeyboard *botApi.ReplyKeyboardMarkup
}

func newApplyCommand(api apiInterface, chatID int64, userID int64, jobID string, jobs services.JobLister,
	applications applicationService) (*applyCommand, error) {

	job, err := jobs.GetJob(context.Background(), jobID)
	if err != nil {
		return nil, err
	}

	cmd := &applyCommand{api: api, chatID: chatID, applications: applications}
	cmd.application = models.Application{
		JobID:       job.ID,
		JobTitle:    job.Title,
		Company:     job.Company,
		ApplicantID: userID,
	}

	firstName := cmd.fieldInput(fmt.Sprintf("Applying for %s at %s.\nWhat is your first name?", job.Title, job.Company),
		"FirstName", "First name is required.", func(a *models.Application, v string) { a.FirstName = v })

	lastName := cmd.fieldInput("Your last name?",
		"LastName", "Last name is required.", func(a *models.Application, v string) { a.LastName = v })

	email := cmd.fieldInput("Your email address?",
		"Email", "Please enter a valid email address.", func(a *models.Application, v string) { a.Email = v })

	phone := newTextInput(chatID, "Your phone number?", func(input string) {
		cmd.application.Phone = input
		cmd.next()
	}).Optional()

	experience := newChoiceInput(chatID, "Years of experience?", toStrings(models.Experiences), func(choice string) {
		cmd.application.Experience = models.Experience(choice)
		cmd.next()
	})

	portfolio := cmd.fieldInput("Link to your portfolio or LinkedIn?",
		"Portfolio", "Please enter a valid URL.", func(a *models.Application, v string) { a.Portfolio = v }).Optional()

	availability := newChoiceInput(chatID, "When can you start?", toStrings(models.Availabilities), func(choice string) {
		cmd.application.Availability = models.Availability(choice)
		cmd.next()
	})

	coverLetter := cmd.fieldInput(fmt.Sprintf("Tell us why you are a great fit (at least %d characters).",
		models.MinCoverLetterLength),
		"CoverLetter", fmt.Sprintf("The cover letter must be at least %d characters long.", models.MinCoverLetterLength),
		func(a *models.Application, v string) { a.CoverLetter = v })

	resume := newTextInput(chatID, "Name of your resume file?", func(input string) {
		cmd.application.ResumeFile = input
		cmd.next()
	}).Optional()

	cmd.inputHandlers = []inputHandler{firstName, lastName, email, phone, experience, portfolio, availability,
		coverLetter, resume}
	return cmd, nil
}

// fieldInput asks for one application field and checks it with the same rules Submit applies.
func (c *applyCommand) fieldInput(prompt string, field string, errorMessage string,
	set func(application *models.Application, value string)) *textInput {

	input := newTextInput(c.chatID, prompt, func(input string) {
		set(&c.application, input)
		c.next()
	})
	input.AddValidation(validation{
		function: func(input string) bool {
			candidate := c.application
			set(&candidate, input)
			return c.applications.ValidateField(candidate, field) == nil
		},
		errorMessage: errorMessage,
	})
	return input
}

func (c *applyCommand) WithFinishCallback(callback func()) {
	c.finishCallback = callback
}

func (c *applyCommand) WithKeyboardOnFinalMessage(keyboard botApi.ReplyKeyboardMarkup) {
	c.finalMessageKeyboard = &keyboard
}

func (c *applyCommand) SaveState() ([]byte, error) {
	return json.Marshal(&struct {
		CurHandlerIndex int
		Application     models.Application
	}{
		CurHandlerIndex: c.curHandlerIndex,
		Application:     c.application,
	})
}

func (c *applyCommand) LoadState(data []byte) error {

	aux := &struct {
		CurHandlerIndex int
		Application     models.Application
	}{}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if aux.CurHandlerIndex < 0 || aux.CurHandlerIndex >= len(c.inputHandlers) {
		return fmt.Errorf("invalid apply step %d", aux.CurHandlerIndex)
	}

	c.curHandlerIndex = aux.CurHandlerIndex
	c.application = aux.Application
	return nil
}

func (c *applyCommand) Run() {
	c.start(c.api)
}

func (c *applyCommand) OnUserInput(input string) {

	if !c.handle(c.api, input) {
		return
	}

	c.submit()
	if c.finishCallback != nil {
		c.finishCallback()
	}
}

func (c *applyCommand) submit() {

	msg := botApi.NewMessage(c.chatID, "")
	if c.finalMessageKeyboard != nil {
		msg.ReplyMarkup = c.finalMessageKeyboard
	}

	if err := c.applications.Submit(context.Background(), &c.application); err != nil {
		if errors.Is(err, services.ErrInvalidApplication) {
			msg.Text = "Your application is incomplete: " + services.ValidationMessage(err)
		} else {
			log.Errorf("failed to submit application for job %s: %v", c.application.JobID, err)
			msg.Text = "Internal error, please try again later."
		}
		_, _ = sendWithLogError(c.api, msg)
		return
	}

	msg.Text = fmt.Sprintf("Application submitted! %s will review your application for %s and get back to you.",
		c.application.Company, c.application.JobTitle)
	_, _ = sendWithLogError(c.api, msg)
}

package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/maxaizer/job-board/internal/logger"
	log "github.com/sirupsen/logrus"
)

type apiInterface interface {
	Send(chattable tgbotapi.Chattable) (tgbotapi.Message, error)
}

type command interface {
	WithKeyboardOnFinalMessage(tgbotapi.ReplyKeyboardMarkup)
	WithFinishCallback(func())
	Run()
	OnUserInput(input string)
}

// inputHandler asks one question and validates the replies to it.
type inputHandler interface {
	InitMessage() tgbotapi.Chattable
	HandleInput(input string) tgbotapi.Chattable
}

type saveable interface {
	SaveState() ([]byte, error)
	LoadState(data []byte) error
}

func sendWithLogError(api apiInterface, chattable tgbotapi.Chattable) (tgbotapi.Message, error) {
	msg, err := api.Send(chattable)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeTgApi).
			Errorf("error occured while sending message: %v", err)
	}
	return msg, err
}

// steps drives a command through a fixed sequence of inputs.
type steps struct {
	inputHandlers   []inputHandler
	curHandlerIndex int
}

func (s *steps) next() {
	s.curHandlerIndex++
}

func (s *steps) start(api apiInterface) {
	_, _ = sendWithLogError(api, s.inputHandlers[s.curHandlerIndex].InitMessage())
}

// handle feeds input to the current step and reports whether every step is finished.
func (s *steps) handle(api apiInterface, input string) bool {

	previousIndex := s.curHandlerIndex
	msg := s.inputHandlers[s.curHandlerIndex].HandleInput(input)

	handlerChanged := previousIndex != s.curHandlerIndex
	allHandlersFinished := s.curHandlerIndex >= len(s.inputHandlers)

	if !handlerChanged {
		if msg != nil {
			_, _ = sendWithLogError(api, msg)
		}
		return false
	}

	if !allHandlersFinished {
		_, _ = sendWithLogError(api, s.inputHandlers[s.curHandlerIndex].InitMessage())
		return false
	}

	return true
}

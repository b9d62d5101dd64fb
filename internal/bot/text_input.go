package bot

import botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

const skipInput = "-"

type validation struct {
	function     func(input string) bool
	errorMessage string
}

type textInput struct {
	chatID      int64
	initMessage string
	optional    bool
	onFinish    func(input string)
	validations []validation
}

func newTextInput(chatID int64, initMessage string, onFinish func(input string)) *textInput {
	return &textInput{chatID: chatID, initMessage: initMessage, onFinish: onFinish}
}

// Optional lets the user answer "-" to leave the value empty.
func (a *textInput) Optional() *textInput {
	a.optional = true
	a.initMessage += "\nSend \"" + skipInput + "\" to skip."
	return a
}

func (a *textInput) AddValidation(validation validation) {
	a.validations = append(a.validations, validation)
}

func (a *textInput) InitMessage() botApi.Chattable {
	msg := botApi.NewMessage(a.chatID, a.initMessage)
	msg.ReplyMarkup = keyboardWithExit()
	return msg
}

func (a *textInput) HandleInput(input string) botApi.Chattable {

	if a.optional && input == skipInput {
		a.onFinish("")
		return nil
	}

	for _, _validation := range a.validations {
		if !_validation.function(input) {
			return botApi.NewMessage(a.chatID, _validation.errorMessage)
		}
	}

	a.onFinish(input)
	return nil
}

func notEmpty(errorMessage string) validation {
	return validation{
		function:     func(input string) bool { return len(input) > 0 },
		errorMessage: errorMessage,
	}
}

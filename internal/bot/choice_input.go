package bot

import (
	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/samber/lo"
)

type choiceInput struct {
	chatID   int64
	prompt   string
	options  []string
	onFinish func(choice string)
}

func newChoiceInput(chatID int64, prompt string, options []string, onFinish func(choice string)) *choiceInput {
	return &choiceInput{chatID: chatID, prompt: prompt, options: options, onFinish: onFinish}
}

func (a *choiceInput) InitMessage() botApi.Chattable {
	msg := botApi.NewMessage(a.chatID, a.prompt)
	msg.ReplyMarkup = choiceKeyboard(a.options)
	return msg
}

func (a *choiceInput) HandleInput(input string) botApi.Chattable {

	if !lo.Contains(a.options, input) {
		return botApi.NewMessage(a.chatID, "Please choose one of the options below.")
	}

	a.onFinish(input)
	return nil
}

func choiceKeyboard(options []string) botApi.ReplyKeyboardMarkup {

	var rows [][]botApi.KeyboardButton
	for _, chunk := range lo.Chunk(options, 2) {
		rows = append(rows, botApi.NewKeyboardButtonRow(lo.Map(chunk, func(option string, _ int) botApi.KeyboardButton {
			return botApi.NewKeyboardButton(option)
		})...))
	}
	rows = append(rows, botApi.NewKeyboardButtonRow(botApi.NewKeyboardButton(backToMenuCommandName)))

	return botApi.NewReplyKeyboard(rows...)
}

func toStrings[T ~string](values []T) []string {
	return lo.Map(values, func(value T, _ int) string { return string(value) })
}

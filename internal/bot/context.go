package bot

import (
	"encoding/json"
	"sync/atomic"

	"github.com/maxaizer/job-board/internal/domain/models"
	"github.com/maxaizer/job-board/internal/favorites"
	"github.com/maxaizer/job-board/internal/services"
)

type userContext struct {
	chatID          int64
	curCommand      command
	curCommandName  string
	curCommandArgs  string
	curCommandState []byte

	// restored from a saved session until the listing is attached
	filters models.Filters
	page    int

	listing   *services.Listing
	favorites *favorites.Store
	// set when the next applied listing response should be sent to the chat
	awaitingResults atomic.Bool
}

func newUserContext(chatID int64) *userContext {
	return &userContext{chatID: chatID, page: 1}
}

func (u *userContext) RunCommand(command command, name string, args string) {
	u.setCommand(command, name, args)
	u.curCommand.Run()
}

func (u *userContext) ResumeCommandAfterBotRestart(command command) {
	u.setCommand(command, u.curCommandName, u.curCommandArgs)
}

func (u *userContext) HasRunningCommand() bool {
	return u.curCommand != nil
}

func (u *userContext) StopCommand() {
	u.curCommand = nil
	u.curCommandName = ""
	u.curCommandArgs = ""
}

func (u *userContext) OnUserInput(input string) {
	u.curCommand.OnUserInput(input)
}

// ShowNextResult makes the next listing response visible in the chat.
func (u *userContext) ShowNextResult() {
	u.awaitingResults.Store(true)
}

func (u *userContext) MarshalJSON() ([]byte, error) {

	var cmdState []byte
	var err error
	if u.curCommand != nil {
		if saveableCmd, ok := u.curCommand.(saveable); ok {
			cmdState, err = saveableCmd.SaveState()
		}
	}
	if err != nil {
		return nil, err
	}

	filters, page := u.filters, u.page
	if u.listing != nil {
		state := u.listing.State()
		filters, page = state.Filters, state.Page
	}

	return json.Marshal(&struct {
		ChatID          int64          `json:"chatID"`
		CurCommandName  string         `json:"curCommandName"`
		CurCommandArgs  string         `json:"curCommandArgs"`
		CurCommandState []byte         `json:"curCommandState"`
		Filters         models.Filters `json:"filters"`
		Page            int            `json:"page"`
	}{
		ChatID:          u.chatID,
		CurCommandName:  u.curCommandName,
		CurCommandArgs:  u.curCommandArgs,
		CurCommandState: cmdState,
		Filters:         filters,
		Page:            page,
	})
}

func (u *userContext) UnmarshalJSON(data []byte) error {

	aux := &struct {
		ChatID          int64          `json:"chatID"`
		CurCommandName  string         `json:"curCommandName"`
		CurCommandArgs  string         `json:"curCommandArgs"`
		CurCommandState []byte         `json:"curCommandState"`
		Filters         models.Filters `json:"filters"`
		Page            int            `json:"page"`
	}{}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	u.chatID = aux.ChatID
	u.curCommandName = aux.CurCommandName
	u.curCommandArgs = aux.CurCommandArgs
	u.curCommandState = aux.CurCommandState
	u.filters = aux.Filters
	u.page = max(aux.Page, 1)
	return nil
}

func (u *userContext) setCommand(command command, name string, args string) {
	u.curCommand = command
	u.curCommandName = name
	u.curCommandArgs = args
	u.curCommand.WithFinishCallback(u.StopCommand)
	u.curCommand.WithKeyboardOnFinalMessage(defaultReplyKeyboard())
}

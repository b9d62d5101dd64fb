package bot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/asaskevich/EventBus"
	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/maxaizer/job-board/internal/domain/events"
	"github.com/maxaizer/job-board/internal/domain/models"
	"github.com/maxaizer/job-board/internal/favorites"
	"github.com/maxaizer/job-board/internal/logger"
	"github.com/maxaizer/job-board/internal/services"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

const userContextsKey = "user_contexts"

type Repositories struct {
	Data      dataRepository
	Favorites favorites.Storage
}

type dataRepository interface {
	Save(ctx context.Context, id string, data []byte) error
	LoadAndRemove(ctx context.Context, id string) ([]byte, error)
}

type jobManager interface {
	Create(ctx context.Context, draft models.JobDraft) (models.Job, error)
	Update(ctx context.Context, id string, patch models.JobPatch) (models.Job, error)
	Delete(ctx context.Context, id string, confirm services.ConfirmFunc) error
}

type applicationService interface {
	Submit(ctx context.Context, application *models.Application) error
	ValidateField(application models.Application, field string) error
	ByApplicant(ctx context.Context, applicantID int64) ([]models.Application, error)
	CountForJob(ctx context.Context, jobID string) (int64, error)
}

type Services struct {
	Jobs         services.JobLister
	Management   jobManager
	Applications applicationService
}

type Options struct {
	AdminIDs []int64
	// FavoritesKey is suffixed with the user ID, every user has their own favorites slot.
	FavoritesKey    string
	Listing         services.ListingOptions
	ManagementLimit int
}

type botAPI interface {
	apiInterface
	GetUpdatesChan(config botApi.UpdateConfig) botApi.UpdatesChannel
	StopReceivingUpdates()
}

type Bot struct {
	api          botAPI
	bus          EventBus.Bus
	repositories Repositories
	services     Services
	options      Options

	mu           sync.Mutex
	userContexts map[int64]*userContext
}

const backToMenuCommandName = "Back to menu"

var globalCommands = []string{backToMenuCommandName}

var errManagementUnavailable = errors.New("job management requires the remote source")

func NewBot(token string, bus EventBus.Bus, repositories Repositories, boardServices Services, options Options) (*Bot, error) {

	api, err := botApi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	log.Infof("Authorized on account %s", api.Self.UserName)

	err = botApi.SetLogger(log.StandardLogger())
	if err != nil {
		return nil, err
	}

	return newBot(api, bus, repositories, boardServices, options)
}

func newBot(api botAPI, bus EventBus.Bus, repositories Repositories, boardServices Services, options Options) (*Bot, error) {

	if bus == nil {
		return nil, errors.New("bus is nil")
	}

	if repositories.Data == nil {
		return nil, errors.New("data repository is nil")
	}

	if repositories.Favorites == nil {
		return nil, errors.New("favorites storage is nil")
	}

	if boardServices.Jobs == nil {
		return nil, errors.New("jobs service is nil")
	}

	if boardServices.Applications == nil {
		return nil, errors.New("applications service is nil")
	}

	if options.FavoritesKey == "" {
		options.FavoritesKey = favorites.DefaultKey
	}

	createdBot := &Bot{
		api:          api,
		bus:          bus,
		repositories: repositories,
		services:     boardServices,
		options:      options,
		userContexts: make(map[int64]*userContext),
	}

	err := bus.SubscribeAsync(events.JobsChangedTopic, createdBot.onJobsChanged, false)
	if err != nil {
		return nil, err
	}
	return createdBot, nil
}

func (b *Bot) Run() {

	err := b.loadUserContexts()
	if err != nil {
		log.Errorf("Error loading user contexts: %v", err)
	}

	updateConfig := botApi.NewUpdate(0)
	updateConfig.Timeout = 60

	updates := b.api.GetUpdatesChan(updateConfig)

	for update := range updates {

		if update.Message == nil {
			continue
		}

		if update.Message.Chat.IsGroup() || update.Message.Chat.IsSuperGroup() {
			continue
		}

		go b.handleMessage(update.Message)
	}
}

func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()

	err := b.saveUserContexts()
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("Error saving user contexts: %v", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ctx := range b.userContexts {
		if ctx.listing != nil {
			ctx.listing.Close()
		}
	}
}

func (b *Bot) handleMessage(message *botApi.Message) {

	cmd := message.Command()
	if cmd == "" && slices.Contains(globalCommands, message.Text) {
		cmd = message.Text
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if cmd != "" {
		b.handleCommand(message.From, message.Chat, cmd, strings.TrimSpace(message.CommandArguments()))
	} else {
		b.handleInput(message.From, message.Chat, message.Text)
	}
}

func (b *Bot) userContext(user *botApi.User, chat *botApi.Chat) *userContext {

	ctx := b.userContexts[user.ID]
	if ctx == nil {
		ctx = newUserContext(chat.ID)
		b.userContexts[user.ID] = ctx
	}
	b.attach(user.ID, ctx)
	return ctx
}

// attach creates the listing and favorites of a context on first use, restoring a saved session.
func (b *Bot) attach(userID int64, ctx *userContext) {

	if ctx.favorites == nil {
		ctx.favorites = favorites.NewStore(context.Background(), b.repositories.Favorites,
			b.options.FavoritesKey+":"+strconv.FormatInt(userID, 10))
	}

	if ctx.listing != nil {
		return
	}

	options := b.options.Listing
	if b.isAdmin(userID) && b.options.ManagementLimit > 0 {
		options.Limit = b.options.ManagementLimit
	}
	chatID := ctx.chatID
	options.OnChange = func(state services.ListingState) {
		if ctx.awaitingResults.CompareAndSwap(true, false) {
			_, _ = sendWithLogError(b.api, botApi.NewMessage(chatID, listingText(state)))
		}
	}

	ctx.listing = services.NewListing(b.services.Jobs, options)
	ctx.listing.Restore(ctx.filters, ctx.page)
}

func (b *Bot) handleCommand(user *botApi.User, chat *botApi.Chat, command string, args string) {

	var response botApi.Chattable
	var err error

	ctx := b.userContext(user, chat)

	if id, ok := strings.CutPrefix(command, "job_"); ok {
		command, args = "job", id
	}

	switch command {
	case "start", "help":
		messageResponse := botApi.NewMessage(chat.ID, helpText(b.isAdmin(user.ID)))
		messageResponse.ReplyMarkup = defaultReplyKeyboard()
		response = messageResponse
		ctx.StopCommand()
	case "jobs":
		ctx.ShowNextResult()
		ctx.listing.Refresh()
	case "search":
		ctx.ShowNextResult()
		ctx.listing.SetSearch(args)
	case "filter":
		response = b.applyFilter(ctx, chat.ID, args)
	case "remote":
		ctx.ShowNextResult()
		ctx.listing.SetFilter(models.FilterRemote, remoteFlag(args))
	case "reset":
		ctx.ShowNextResult()
		ctx.listing.ResetFilters()
	case "page":
		page, convErr := strconv.Atoi(args)
		if convErr != nil {
			response = botApi.NewMessage(chat.ID, "Usage: /page <number>")
			break
		}
		ctx.ShowNextResult()
		ctx.listing.SetPage(page)
	case "next":
		ctx.ShowNextResult()
		ctx.listing.NextPage()
	case "prev":
		ctx.ShowNextResult()
		ctx.listing.PrevPage()
	case "job":
		response = b.showJob(ctx, chat.ID, args)
	case "fav":
		response = b.toggleFavorite(ctx, chat.ID, args)
	case "favorites":
		response = b.showFavorites(ctx, chat.ID)
	case "applications":
		response = b.showApplications(user.ID, chat.ID)
	case applyCommandName, addJobCommandName, editJobCommandName, deleteJobCommandName:
		cmd, cmdErr := b.createCommand(command, user.ID, chat.ID, args)
		if cmdErr != nil {
			err = cmdErr
		} else {
			ctx.RunCommand(cmd, command, args)
		}
	case backToMenuCommandName:
		messageResponse := botApi.NewMessage(chat.ID, "Back in the main menu.")
		messageResponse.ReplyMarkup = defaultReplyKeyboard()
		response = messageResponse
		ctx.StopCommand()
	default:
		response = botApi.NewMessage(chat.ID, "Unknown command. /help lists what I can do.")
	}

	if err != nil {
		response = botApi.NewMessage(chat.ID, commandErrorText(err))
	}

	if response == nil {
		return
	}

	_, _ = sendWithLogError(b.api, response)
}

func (b *Bot) createCommand(name string, userID int64, chatID int64, args string) (command, error) {

	switch name {
	case applyCommandName:
		if args == "" {
			return nil, errMissingJobID
		}
		return newApplyCommand(b.api, chatID, userID, args, b.services.Jobs, b.services.Applications)
	case addJobCommandName, editJobCommandName, deleteJobCommandName:
		if !b.isAdmin(userID) {
			return nil, errNotAdmin
		}
		if b.services.Management == nil {
			return nil, errManagementUnavailable
		}
	default:
		return nil, fmt.Errorf("unknown command: %v", name)
	}

	if name == addJobCommandName {
		return newAddJobCommand(b.api, chatID, b.services.Management), nil
	}
	if args == "" {
		return nil, errMissingJobID
	}
	if name == editJobCommandName {
		return newEditJobCommand(b.api, chatID, args, b.services.Jobs, b.services.Management)
	}
	return newDeleteJobCommand(b.api, chatID, args, b.services.Jobs, b.services.Management)
}

func (b *Bot) handleInput(user *botApi.User, chat *botApi.Chat, input string) {

	ctx := b.userContext(user, chat)

	if ctx.HasRunningCommand() {
		ctx.OnUserInput(input)
		return
	}

	// plain text outside of a command is a search query
	ctx.ShowNextResult()
	ctx.listing.SetSearch(input)
}

func (b *Bot) applyFilter(ctx *userContext, chatID int64, args string) botApi.Chattable {

	name, value, _ := strings.Cut(args, " ")
	key, ok := models.ParseFilterKey(name)
	if !ok {
		return botApi.NewMessage(chatID, "Usage: /filter <type|category|location|remote|search> [value]\n"+
			"Types: "+strings.Join(toStrings(models.JobTypes), ", ")+"\n"+
			"Categories: "+strings.Join(models.Categories, ", ")+"\n"+
			"An empty value clears the filter.")
	}

	value = strings.TrimSpace(value)
	if key == models.FilterRemote {
		value = remoteFlag(value)
	}

	ctx.ShowNextResult()
	ctx.listing.SetFilter(key, value)
	return nil
}

func (b *Bot) showJob(ctx *userContext, chatID int64, id string) botApi.Chattable {

	if id == "" {
		return botApi.NewMessage(chatID, "Usage: /job <id>")
	}

	job, err := b.services.Jobs.GetJob(context.Background(), id)
	if err != nil {
		return botApi.NewMessage(chatID, models.UserMessage(err))
	}

	applicants, _ := b.services.Applications.CountForJob(context.Background(), job.ID)

	return botApi.NewMessage(chatID, jobDetails(job, ctx.favorites.IsFavorite(job.ID), applicants))
}

func (b *Bot) toggleFavorite(ctx *userContext, chatID int64, id string) botApi.Chattable {

	if id == "" {
		return botApi.NewMessage(chatID, "Usage: /fav <id>")
	}

	added, err := ctx.favorites.Toggle(context.Background(), id)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to toggle favorite: %v", err)
		return botApi.NewMessage(chatID, "Couldn't update favorites, please try again.")
	}

	if added {
		return botApi.NewMessage(chatID, fmt.Sprintf("Job %s added to favorites.", id))
	}
	return botApi.NewMessage(chatID, fmt.Sprintf("Job %s removed from favorites.", id))
}

func (b *Bot) showFavorites(ctx *userContext, chatID int64) botApi.Chattable {

	ids := ctx.favorites.IDs()
	if len(ids) == 0 {
		return botApi.NewMessage(chatID, "You have no favorite jobs yet. /fav <id> saves one.")
	}

	lines := lo.Map(ids, func(id string, _ int) string {
		job, err := b.services.Jobs.GetJob(context.Background(), id)
		if err != nil {
			return fmt.Sprintf("#%s (%s)", id, strings.ToLower(models.UserMessage(err)))
		}
		return fmt.Sprintf("%s %s at %s /job_%s", job.Logo, job.Title, job.Company, job.ID)
	})

	return botApi.NewMessage(chatID, fmt.Sprintf("Favorites (%d):\n%s", len(ids), strings.Join(lines, "\n")))
}

func (b *Bot) showApplications(userID int64, chatID int64) botApi.Chattable {

	applications, err := b.services.Applications.ByApplicant(context.Background(), userID)
	if err != nil {
		return botApi.NewMessage(chatID, "Couldn't load your applications, please try again.")
	}
	if len(applications) == 0 {
		return botApi.NewMessage(chatID, "You haven't applied anywhere yet. /apply <id> starts an application.")
	}

	lines := lo.Map(applications, func(application models.Application, _ int) string {
		return applicationLine(application)
	})
	return botApi.NewMessage(chatID, fmt.Sprintf("Your applications (%d):\n%s", len(applications), strings.Join(lines, "\n")))
}

func (b *Bot) onJobsChanged(event events.JobsChanged) {

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ctx := range b.userContexts {
		if ctx.listing != nil {
			ctx.listing.Refresh()
		}
	}
	log.Debugf("refreshed %d listings after jobs %s", len(b.userContexts), event.Operation)
}

func (b *Bot) isAdmin(userID int64) bool {
	return lo.Contains(b.options.AdminIDs, userID)
}

func (b *Bot) saveUserContexts() error {
	b.mu.Lock()
	data, err := json.Marshal(b.userContexts)
	b.mu.Unlock()
	if err != nil {
		return err
	}
	return b.repositories.Data.Save(context.Background(), userContextsKey, data)
}

func (b *Bot) loadUserContexts() error {
	data, err := b.repositories.Data.LoadAndRemove(context.Background(), userContextsKey)
	if err != nil || data == nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if err = json.Unmarshal(data, &b.userContexts); err != nil {
		return err
	}

	var errs []error
	for userID, ctx := range b.userContexts {

		b.attach(userID, ctx)

		if ctx.curCommandName == "" {
			continue
		}

		cmd, err := b.createCommand(ctx.curCommandName, userID, ctx.chatID, ctx.curCommandArgs)
		if err != nil {
			errs = append(errs, err)
			ctx.StopCommand()
			continue
		}

		saveableCmd, ok := cmd.(saveable)
		if !ok {
			ctx.ResumeCommandAfterBotRestart(cmd)
			continue
		}

		err = saveableCmd.LoadState(ctx.curCommandState)
		if err != nil {
			errs = append(errs, err)
			ctx.StopCommand()
			continue
		}

		ctx.ResumeCommandAfterBotRestart(cmd)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

func remoteFlag(value string) string {
	switch strings.ToLower(value) {
	case "", "on", "yes", "y":
		return "true"
	case "off", "no", "n":
		return "false"
	}
	return value
}

func helpText(admin bool) string {
	text := "Find your next job.\n\n" +
		"/jobs - show matching jobs\n" +
		"/search <text> - search title, company and description (or just send text)\n" +
		"/filter <type|category|location|remote> [value] - set or clear a filter\n" +
		"/remote [on|off] - remote jobs only\n" +
		"/reset - clear all filters\n" +
		"/next, /prev, /page <n> - paging\n" +
		"/job <id> - job details\n" +
		"/fav <id> - add or remove a favorite\n" +
		"/favorites - your favorite jobs\n" +
		"/apply <id> - apply for a job\n" +
		"/applications - your applications"
	if admin {
		text += "\n\nAdmin:\n/add - post a job\n/edit <id> - edit a job\n/delete <id> - delete a job"
	}
	return text
}

func defaultReplyKeyboard() botApi.ReplyKeyboardMarkup {
	return botApi.NewReplyKeyboard(
		botApi.NewKeyboardButtonRow(
			botApi.NewKeyboardButton("/jobs"),
			botApi.NewKeyboardButton("/favorites"),
		),
		botApi.NewKeyboardButtonRow(
			botApi.NewKeyboardButton("/prev"),
			botApi.NewKeyboardButton("/next"),
			botApi.NewKeyboardButton("/reset"),
		),
	)
}

func keyboardWithExit() botApi.ReplyKeyboardMarkup {
	return botApi.NewReplyKeyboard(
		botApi.NewKeyboardButtonRow(
			botApi.NewKeyboardButton(backToMenuCommandName),
		),
	)
}

package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/job-board/internal/bot"
	"github.com/maxaizer/job-board/internal/clients/jobs"
	"github.com/maxaizer/job-board/internal/config"
	"github.com/maxaizer/job-board/internal/logger"
	"github.com/maxaizer/job-board/internal/metrics"
	"github.com/maxaizer/job-board/internal/repositories"
	"github.com/maxaizer/job-board/internal/services"
	log "github.com/sirupsen/logrus"
)

// jobSources picks the listing strategy. Management is only possible against the jobs API.
func jobSources(cfg *config.Config) (services.JobLister, *services.RemoteJobs) {

	if cfg.Board.Source == config.SourceLocal {
		dataset, err := repositories.LoadLocalJobs(cfg.Board.DatasetFile)
		if err != nil {
			log.Fatalf("can't load local jobs: %v", err)
		}
		log.Infof("serving %d jobs from the local dataset", len(dataset))
		return services.NewLocalJobs(dataset), nil
	}

	client := jobs.NewClient(cfg.API.BaseURL, cfg.API.Timeout)
	client.SetRateLimit(cfg.API.MaxRequestsPerSecond)
	remote := services.NewRemoteJobs(client)
	log.Infof("serving jobs from %s", cfg.API.BaseURL)
	return remote, remote
}

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Get()

	logger.Setup(cfg.Logger)
	defer logger.Cleanup()

	metrics.StartMetricsServer(cfg.Metrics.Address)

	dbContext, err := repositories.NewDbContext(cfg.DB.DSN())
	if err != nil {
		log.Fatalf("can't create db context: %v", err)
	}
	defer dbContext.Close()

	err = dbContext.Migrate()
	if err != nil {
		log.Fatalf("can't migrate db context: %v", err)
	}

	data := repositories.NewDataRepository(dbContext.DB)
	applications := services.NewApplications(repositories.NewApplicationsRepository(dbContext.DB))

	bus := EventBus.New()

	lister, remote := jobSources(cfg)
	details, err := services.NewJobDetails(lister, bus, cfg.Board.DetailCacheTTL)
	if err != nil {
		log.Fatalf("can't create job details cache: %v", err)
	}

	boardServices := bot.Services{Jobs: details, Applications: applications}
	if remote != nil {
		boardServices.Management = services.NewManagement(remote, bus)
	}

	if cfg.Board.RefreshSchedule != "" {
		refresher, err := services.NewRefresher(bus, cfg.Board.RefreshSchedule)
		if err != nil {
			log.Fatalf("can't create refresher: %v", err)
		}
		defer refresher.Stop()
	}

	tgbot, err := bot.NewBot(cfg.Bot.Token, bus,
		bot.Repositories{Data: data, Favorites: data},
		boardServices,
		bot.Options{
			AdminIDs:     cfg.Bot.AdminIDs,
			FavoritesKey: cfg.Board.FavoritesKey,
			Listing: services.ListingOptions{
				SearchDebounce: cfg.Board.SearchDebounce,
				Timeout:        cfg.API.Timeout,
				Limit:          cfg.API.PageSize,
			},
			ManagementLimit: cfg.API.ManagementPageSize,
		})
	if err != nil {
		log.Fatalf("can't create bot: %v", err)
	}
	go tgbot.Run()

	<-ctx.Done()

	log.Info("Shutting down services...")
	tgbot.Stop()
	log.Info("Services stopped.")
}

package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/careerloop/jobfeed/internal/api"
	"github.com/careerloop/jobfeed/internal/clients/gemini"
	"github.com/careerloop/jobfeed/internal/config"
	"github.com/careerloop/jobfeed/internal/events"
	"github.com/careerloop/jobfeed/internal/logger"
	"github.com/careerloop/jobfeed/internal/metrics"
	"github.com/careerloop/jobfeed/internal/repositories"
	"github.com/careerloop/jobfeed/internal/services"
	log "github.com/sirupsen/logrus"
)

func buildPipeline(ctx context.Context, cfg *config.Config, jobs *repositories.Jobs,
	bus EventBus.Bus) (*services.HotJobsService, *services.MatchScorer) {

	primary, err := gemini.NewClient(ctx, cfg.AI.APIKey, gemini.Model(cfg.AI.PrimaryModel))
	if err != nil {
		log.Fatalf("can't create primary AI client: %v", err)
	}
	primary.SetMinuteRateLimit(cfg.AI.MaxRequestsPerMinute)
	primary.SetDayRateLimit(cfg.AI.MaxRequestsPerDay)

	fallback, err := gemini.NewClient(ctx, cfg.AI.APIKey, gemini.Model(cfg.AI.FallbackModel))
	if err != nil {
		log.Fatalf("can't create fallback AI client: %v", err)
	}
	fallback.SetMinuteRateLimit(cfg.AI.MaxRequestsPerMinute)
	fallback.SetDayRateLimit(cfg.AI.MaxRequestsPerDay)

	scorer := services.NewMatchScorer(primary, fallback)
	planner := services.NewTitlePlanner(primary, fallback)

	pipeline := services.NewHotJobsService(bus, planner, scorer, jobs,
		cfg.Search.ResultLimit, cfg.Search.ScoringWorkers)
	return pipeline, scorer
}

func onJobsRanked(event events.JobsRanked) {
	log.Infof("ranked %v jobs for title %q in %q, took %v",
		event.Count, event.Title, event.City, event.Duration)
}

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Get()

	logger.Setup(cfg.Logger)
	defer logger.Cleanup()

	metrics.StartMetricsServer(cfg.Server.MetricsPort)

	dbContext, err := repositories.NewDbContext(cfg.DB.ConnectionString)
	if err != nil {
		log.Fatalf("can't create db context: %v", err)
	}
	defer dbContext.Close()

	err = dbContext.Migrate()
	if err != nil {
		log.Fatalf("can't migrate db context: %v", err)
	}

	jobs := repositories.NewJobsRepository(dbContext.DB)

	bus := EventBus.New()
	if err = bus.Subscribe(events.JobsRankedTopic, onJobsRanked); err != nil {
		log.Fatalf("can't subscribe to ranked events: %v", err)
	}

	pipeline, scorer := buildPipeline(ctx, cfg, jobs, bus)

	cleaner, err := services.NewJobsCleaner(jobs, cfg.Search.JobExpirationDays)
	if err != nil {
		log.Fatalf("can't create jobs cleaner: %v", err)
	}
	defer cleaner.Stop()

	cache := services.NewRequestCache(cfg.Search.CacheTTL)
	handler := api.NewJobsHandler(cache, pipeline, jobs, scorer)
	server := api.NewServer(cfg.Server, handler)

	go func() {
		if err := server.Run(); err != nil {
			log.Fatalf("http server failed: %v", err)
		}
	}()

	<-ctx.Done()

	log.Info("Shutting down services...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("http server shutdown: %v", err)
	}
	log.Info("Services stopped.")
}

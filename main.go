// File: voyago/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"voyago/config"
	"voyago/database"
	bookingRepo "voyago/database/repository/booking"
	catalogRepo "voyago/database/repository/catalog"
	watchRepo "voyago/database/repository/watch"
	"voyago/events"
	"voyago/handlers"
	"voyago/realtime"
	"voyago/routes"
	"voyago/services/concierge"
	"voyago/services/deals"
	"voyago/services/nlu"
	"voyago/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitContextCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// repositories.
	catalog := catalogRepo.NewMongoCatalogRepo()
	watches := watchRepo.NewMongoWatchRepo()
	bookings := bookingRepo.NewMongoBookingRepo()

	// event bus.
	publisher, err := events.NewKafkaPublisher(config.AppConfig.KafkaBrokers)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize event publisher: %v", err)
	}
	rawFeedConsumer, err := events.NewKafkaConsumer(
		config.AppConfig.KafkaBrokers, events.GroupDealsDetector, events.TopicRawSupplierFeeds)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize raw feed consumer: %v", err)
	}
	dealConsumer, err := events.NewKafkaConsumer(
		config.AppConfig.KafkaBrokers, events.GroupAlertService, events.TopicDealEvents)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize deal consumer: %v", err)
	}

	// realtime hub.
	hub := realtime.NewHub(logger)
	go hub.Run()

	// services.
	extractor := nlu.NewExtractor(nlu.DefaultVocabulary())
	dates := nlu.NewDateNormalizer(config.AppConfig.ReferenceYear, time.Now)
	engine := deals.NewBundleEngine(catalog, logger)
	ctxStore := concierge.NewRedisContextStore(utils.GetContextCacheClient(), 30*time.Minute)

	pipeline := deals.NewPipeline(catalog, publisher,
		config.AppConfig.DealDropRatio, config.AppConfig.LowStockThreshold, logger)
	alerts := deals.NewAlertService(watches, hub, logger)

	pipelineCtx, stopPipeline := context.WithCancel(context.Background())
	go pipeline.RunIngestion(pipelineCtx)
	go pipeline.RunDetection(pipelineCtx, rawFeedConsumer)
	go alerts.Run(pipelineCtx, dealConsumer)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		GetBundlesHandler:         handlers.GetBundles(engine, utils.GetCacheClient()),
		GetRecommendationsHandler: handlers.GetRecommendations(engine),

		CreateWatchHandler: handlers.CreateWatch(watches),
		ListWatchesHandler: handlers.ListWatches(watches),
		DeleteWatchHandler: handlers.DeleteWatch(watches),

		ConciergeSocketHandler: handlers.ConciergeSocket(handlers.ConciergeDeps{
			Hub:           hub,
			Extractor:     extractor,
			Dates:         dates,
			Engine:        engine,
			Watches:       watches,
			Bookings:      bookings,
			Store:         ctxStore,
			Logger:        logger,
			FollowupDelay: time.Duration(config.AppConfig.FollowupDelaySeconds) * time.Second,
			NudgeDelay:    time.Duration(config.AppConfig.NudgeDelaySeconds) * time.Second,
		}),

		HealthHandler: handlers.Health(),
		StatsHandler:  handlers.Stats(catalog, watches, hub),
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	stopPipeline()
	rawFeedConsumer.Close()
	dealConsumer.Close()
	publisher.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

package main

import (
	"alcyxob/exercise-tracker/internal/api"
	"alcyxob/exercise-tracker/internal/config"
	"alcyxob/exercise-tracker/internal/dates"
	"alcyxob/exercise-tracker/internal/logging"
	"alcyxob/exercise-tracker/internal/metrics"
	"alcyxob/exercise-tracker/internal/repository"
	"alcyxob/exercise-tracker/internal/repository/memory"
	"alcyxob/exercise-tracker/internal/repository/mongo"
	"alcyxob/exercise-tracker/internal/service"
	"alcyxob/exercise-tracker/web"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

// @title Exercise Tracker API
// @version 1.0
// @description Create users, log exercises and read back filtered exercise logs.
// @BasePath /api
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("could not load config: %s", err)
	}

	logging.Setup(logging.SetupParams{
		LogFileName:   cfg.Log.File,
		LogToStdout:   cfg.Log.Stdout,
		LogLevel:      cfg.Log.Level,
		LogFormatJSON: cfg.Log.JSON,
	})
	log.Infoln("starting exercise tracker ...")

	loc, err := cfg.Server.Location()
	if err != nil {
		log.Fatalf("invalid server timezone %q: %s", cfg.Server.Timezone, err)
	}

	// --- Repositories ---
	userRepo, exerciseRepo, closeStore := openStore(cfg.Database)
	defer closeStore()

	// --- Services ---
	userService := service.NewUserService(userRepo)
	exerciseService := service.NewExerciseService(userRepo, exerciseRepo, dates.NewNormalizer(loc))

	// --- Static assets ---
	index, err := web.IndexHTML()
	if err != nil {
		log.Fatalf("could not load landing page: %s", err)
	}
	static := api.NewStaticHandler(index, web.Public())

	// --- Gin engine ---
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())

	m := metrics.New("exercise_tracker", "api")
	if !cfg.Metrics.Enabled {
		m = metrics.NewWithRegistry("exercise_tracker", "api", prometheus.NewRegistry())
	}
	api.SetupRoutes(router, m, cfg.Metrics.Enabled, static, userService, exerciseService)

	// --- HTTP server ---
	server := &http.Server{
		Addr:         cfg.Server.ListenAddress(),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Infof("listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen and serve: %s", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Infoln("shutting down server ...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Errorf("server forced to shutdown: %s", err)
	}

	log.Infoln("server exiting")
}

// openStore connects the configured store and returns its repositories
// together with the function that releases it.
func openStore(cfg config.DatabaseConfig) (repository.UserRepository, repository.ExerciseRepository, func()) {
	if cfg.Driver == config.DriverMemory {
		log.Warnln("using the in-memory store, data is lost on restart")
		store := memory.NewStore()
		return store.Users(), store.Exercises(), func() {}
	}

	dbClient, err := mongo.ConnectDB(cfg.URI)
	if err != nil {
		log.Fatalf("could not connect to MongoDB: %s", err)
	}
	appDB := dbClient.Database(cfg.Name)
	log.Infof("connected to MongoDB database %s", cfg.Name)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := mongo.EnsureIndexes(ctx, appDB); err != nil {
		_ = mongo.DisconnectDB(dbClient)
		log.Fatalf("could not ensure indexes: %s", err)
	}

	closeStore := func() {
		log.Infoln("disconnecting MongoDB ...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Errorf("failed to disconnect MongoDB: %s", err)
		}
	}
	return mongo.NewMongoUserRepository(appDB), mongo.NewMongoExerciseRepository(appDB), closeStore
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"mesto_service/internal/auth"
	"mesto_service/internal/config"
	"mesto_service/internal/handler"
	"mesto_service/internal/service"
	"mesto_service/internal/storage"
	"mesto_service/internal/storage/memory"
	"mesto_service/internal/storage/mongo"
	"mesto_service/internal/storage/postgres"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	//PARSE ARGS
	var configPath string
	flag.StringVar(&configPath, "config", os.Getenv("CONFIG_PATH"), "path to yaml config")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	//INIT LOGGER
	lgr := setupLogger(cfg.Env)
	lgr.Info("starting mesto service", slog.String("env", cfg.Env), slog.String("db_driver", cfg.DB.Driver))

	if cfg.Env == envProd {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	//INIT DB
	st, err := openStorage(ctx, cfg.DB)
	if err != nil {
		lgr.Error("failed to init storage", slog.Any("error", err))
		os.Exit(1)
	}

	tokens, err := auth.NewTokenService(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	if err != nil {
		lgr.Error("failed to init token service", slog.Any("error", err))
		os.Exit(1)
	}

	//INIT SERVER
	srvc := service.NewService(st, tokens)
	router := handler.NewHandler(srvc, tokens, lgr).InitRoutes()

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address(),
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		lgr.Info("server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lgr.Error("server stopped", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	lgr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		lgr.Error("failed to shutdown server", slog.Any("error", err))
	}

	if err := st.Close(shutdownCtx); err != nil {
		lgr.Error("failed to close storage", slog.Any("error", err))
	}

	lgr.Info("stopped")
}

func openStorage(ctx context.Context, cfg config.DB) (storage.Storage, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		return mongo.New(ctx, cfg.URL, cfg.Name)
	case config.DriverPostgres:
		return postgres.New(ctx, cfg.URL)
	case config.DriverMemory:
		return memory.New(), nil
	}
	return nil, fmt.Errorf("unknown db driver %q", cfg.Driver)
}

func setupLogger(env string) *slog.Logger {
	var lgr *slog.Logger

	switch env {
	case envLocal:
		lgr = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		lgr = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		lgr = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log.Printf("unknown env %q, falling back to text logger", env)
		lgr = slog.New(slog.NewTextHandler(os.Stdout, nil))
	}
	return lgr
}

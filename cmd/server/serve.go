package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"orion-os/auth"
	"orion-os/internal/config"
	"orion-os/internal/db"
	"orion-os/internal/designsystem"
	"orion-os/internal/font"
	"orion-os/internal/note"
	"orion-os/internal/profile"
	"orion-os/internal/storage"
	"orion-os/internal/worker"
	"orion-os/redis"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.AppConfig
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to database
	if err := db.ConnectDb(); err != nil {
		return err
	}
	defer db.CloseDb()

	// Migrate database schema
	if err := db.Migrate(db.AppDb); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	// Initialize Redis
	redisClient := redis.InitRedis(ctx, cfg.RedisAddress)
	if redisClient != nil {
		defer redisClient.Close()
	}
	cache := redis.NewCache(redisClient)

	store, err := storage.NewLocalStore(cfg.FontDir, cfg.FontURLPrefix)
	if err != nil {
		return err
	}

	pool := worker.NewWorkerPool(cfg.WorkerPoolSize, 30*time.Second)
	defer pool.Shutdown()

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := designsystem.RegisterValidations(v); err != nil {
			return fmt.Errorf("register validations: %w", err)
		}
	}

	// Initialize services
	profileService := profile.NewService(profile.NewRepository(db.AppDb), cache, cfg.CacheTTL)
	dsService := designsystem.NewService(designsystem.NewRepository(db.AppDb), cache, cfg.CacheTTL)
	noteService := note.NewService(note.NewRepository(db.AppDb), cache, cfg.CacheTTL)
	fontService := font.NewService(font.NewRepository(db.AppDb), store, dsService, pool, cfg.FontPurgeOnDelete)

	// Seed database with initial data (for development)
	if cfg.SeedData {
		db.SeedData(ctx, profileService)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	sqlDB, err := db.AppDb.DB()
	if err != nil {
		return err
	}

	router := newRouter(routerDeps{
		verifier:       auth.NewTokenVerifier(cfg.JWTSecret, cfg.JWTIssuer),
		resolver:       profileService,
		ping:           sqlDB.PingContext,
		profiles:       profile.NewHandler(profileService),
		designSystems:  designsystem.NewHandler(dsService),
		notes:          note.NewHandler(noteService),
		fonts:          font.NewHandler(fontService),
		fontFiles:      store,
		fontURLPrefix:  cfg.FontURLPrefix,
		uploadMaxBytes: cfg.UploadMaxBytes,
		cors:           corsConfig(cfg.Environment == "development", cfg.FrontendAddress),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:           router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.ServerPort).Msg("Server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Graceful shutdown
	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
	}

	log.Info().Msg("Server shutdown complete")
	return nil
}

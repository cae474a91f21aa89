package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/wrenhall/mailsift/internal/api"
	"github.com/wrenhall/mailsift/internal/api/handlers"
	"github.com/wrenhall/mailsift/internal/api/middleware"
	"github.com/wrenhall/mailsift/internal/auth"
	"github.com/wrenhall/mailsift/internal/auth/oauth"
	"github.com/wrenhall/mailsift/internal/config"
	"github.com/wrenhall/mailsift/internal/domain/services"
	"github.com/wrenhall/mailsift/internal/infrastructure/database/postgres"
	"github.com/wrenhall/mailsift/internal/pkg/idgen"
	"github.com/wrenhall/mailsift/internal/pkg/logger"
	"github.com/wrenhall/mailsift/internal/session"
	"github.com/wrenhall/mailsift/migrations"
)

func main() {
	rootCmd := newRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		configPath string
		logLevel   string
		logFile    string
		logFormat  string
	)

	cmd := &cobra.Command{
		Use:   "server",
		Short: "mailsift HTTP server",
		Long:  "Google OAuth login, bearer tokens, and the email classification API",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(logLevel, logFile, logFormat)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(configPath)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file (optional)")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&logFile, "log-file", "", "Log file path (if specified, logs to file instead of stderr)")
	cmd.Flags().StringVar(&logFormat, "log-format", "json", "Log format (text, json)")

	return cmd
}

// setupLogging configures the global logger for the server
func setupLogging(logLevel, logFile, logFormat string) error {
	cfg := logger.Config{
		Level:       logger.ParseLevel(logLevel),
		LogFile:     logFile,
		LogToStderr: logFile == "",
		Format:      logFormat,
	}

	globalLogger, err := logger.SetupLogger(cfg)
	if err != nil {
		return err
	}

	slog.SetDefault(globalLogger)
	return nil
}

func runServer(configPath string) error {
	log := slog.Default().With("component", "server")
	log.Info("starting server initialization")

	// Local development convenience; absent .env files are fine
	_ = godotenv.Load()

	// Initialize Snowflake ID generator
	if err := idgen.Initialize(1); err != nil {
		return fmt.Errorf("failed to initialize ID generator: %w", err)
	}

	// Load configuration; missing required values abort startup
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Connect to PostgreSQL. A failure here is fatal; nothing is retried.
	log.Info("connecting to PostgreSQL")
	pgConn, err := postgres.NewConnection(cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer pgConn.Close()

	if err := pgConn.RunMigrations(migrations.FS); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("database ready")

	userRepo := postgres.NewUserRepository(pgConn.DB)

	// Everything below is built once and passed down; no ambient globals.
	jwtManager := auth.NewJWTManager(cfg.Auth.JWT.SigningKey, cfg.Auth.JWT.Lifetime)
	oauthClient := oauth.NewClient(
		cfg.Auth.Google.ClientID,
		cfg.Auth.Google.ClientSecret,
		cfg.RedirectURL(),
	)

	sessionStore := session.NewMemoryStore()
	cookieManager := session.NewCookieManager(cfg.CookieSecret())

	authService := services.NewAuthService(userRepo, oauthClient)
	emailService := services.NewEmailService(userRepo)

	h := handlers.New(authService, emailService, jwtManager, sessionStore, cookieManager, cfg.Frontend.Origin)
	authMw := middleware.NewAuthMiddleware(jwtManager)

	router := api.NewRouter(h, authMw, cfg.Frontend.Origin)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("starting HTTP server",
		slog.String("address", addr),
		slog.String("frontend_origin", cfg.Frontend.Origin))

	if err := server.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to serve: %w", err)
	}

	return nil
}

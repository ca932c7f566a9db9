package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/terraincognita07/gymdesk/internal/api"
	"github.com/terraincognita07/gymdesk/internal/cli"
	"github.com/terraincognita07/gymdesk/internal/config"
	"github.com/terraincognita07/gymdesk/internal/db"
	"github.com/terraincognita07/gymdesk/internal/i18n"
	"github.com/terraincognita07/gymdesk/internal/logger"
	"github.com/terraincognita07/gymdesk/internal/services"
	"github.com/terraincognita07/gymdesk/internal/storage"
	"github.com/terraincognita07/gymdesk/internal/templates"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	command := "serve"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	var err error
	switch command {
	case "serve":
		err = serve()
	case "hash-password":
		err = cli.RunHashPasswordCommand(os.Stdin, os.Stdout)
	case "generate-secret":
		err = cli.RunGenerateSecretCommand(os.Stdout)
	default:
		err = fmt.Errorf("unknown command %q (expected serve, hash-password or generate-secret)", command)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "gymdesk: %v\n", err)
		os.Exit(1)
	}
}

func serve() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:      cfg.Log.Level,
		Filename:   cfg.Log.Filename,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() {
		_ = log.Sync()
	}()
	zap.ReplaceGlobals(log)

	location := cfg.Location()
	time.Local = location

	database, err := db.Open(cfg.DatabaseURL, log)
	if err != nil {
		log.Error("database init failed", zap.Error(err))
		return err
	}
	sqlDB, err := database.DB()
	if err != nil {
		return fmt.Errorf("database handle: %w", err)
	}
	defer sqlDB.Close()

	photos, err := storage.NewPhotoDirectory(cfg.UploadDir, cfg.PhotoExtensions)
	if err != nil {
		log.Error("upload directory init failed", zap.Error(err))
		return err
	}

	passwordHash, err := resolveAdminPasswordHash(cfg)
	if err != nil {
		return err
	}
	credentials, err := services.NewStaticCredentialStore(cfg.AdminEmail, passwordHash)
	if err != nil {
		return fmt.Errorf("admin credentials: %w", err)
	}

	i18nManager, err := i18n.NewManager(cfg.DefaultLanguage, i18n.Locales())
	if err != nil {
		return fmt.Errorf("i18n init: %w", err)
	}

	repositories := db.NewRepositories(database)
	members := services.NewMemberService(repositories.Members, photos, location, log.Named("members"))
	handler, err := api.NewHandler(api.Config{
		Members:       members,
		Notifications: services.NewNotificationService(members),
		Auth:          services.NewAuthService(credentials, []byte(cfg.SecretKey), cfg.SessionTTL),
		Photos:        photos,
		I18n:          i18nManager,
		Templates:     templates.Files,
		SecretKey:     []byte(cfg.SecretKey),
		CookieSecure:  cfg.CookieSecure,
		Logger:        log,
	})
	if err != nil {
		return fmt.Errorf("handler init: %w", err)
	}

	app := newApp(handler, log, cfg.MaxUploadBytes, cfg.CookieSecure, filepath.Join("web", "static"))

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error("server shutdown failed", zap.Error(err))
		}
	}()

	log.Info("gymdesk listening",
		zap.String("addr", "0.0.0.0:"+cfg.Port),
		zap.String("timezone", location.String()),
		zap.String("upload_dir", photos.Root()),
	)
	if err := app.Listen(":" + cfg.Port); err != nil {
		return fmt.Errorf("server exited: %w", err)
	}
	log.Info("gymdesk stopped")
	return nil
}

func newApp(handler *api.Handler, log *zap.Logger, bodyLimit int, cookieSecure bool, staticDir string) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Gymdesk",
		DisableStartupMessage: true,
		BodyLimit:             bodyLimit,
	})

	app.Use(recover.New())
	app.Use(api.RequestLogger(log))
	app.Use(compress.New())
	app.Use(handler.LanguageMiddleware)
	app.Use(csrf.New(csrfMiddlewareConfig(cookieSecure)))

	app.Static("/static", staticDir)
	api.RegisterRoutes(app, handler)
	app.Use(handler.NotFound)
	return app
}

func csrfMiddlewareConfig(cookieSecure bool) csrf.Config {
	return csrf.Config{
		KeyLookup:      "form:csrf_token",
		CookieName:     "gymdesk_csrf",
		CookieSameSite: "Lax",
		CookieHTTPOnly: true,
		CookieSecure:   cookieSecure,
		ContextKey:     "csrf",
		Expiration:     2 * time.Hour,
	}
}

// resolveAdminPasswordHash prefers ADMIN_PASSWORD_HASH; a plain
// ADMIN_PASSWORD is hashed once at start-up and never kept.
func resolveAdminPasswordHash(cfg config.Config) (string, error) {
	if cfg.AdminPasswordHash != "" {
		return cfg.AdminPasswordHash, nil
	}
	if cfg.AdminPassword == "" {
		return "", errors.New("ADMIN_PASSWORD_HASH or ADMIN_PASSWORD must be set")
	}
	hash, err := services.HashPassword(cfg.AdminPassword)
	if err != nil {
		return "", fmt.Errorf("hash ADMIN_PASSWORD: %w", err)
	}
	return hash, nil
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const minSecretKeyLength = 32

var insecureSecretKeys = map[string]struct{}{
	"change_me_in_production":                    {},
	"replace_with_at_least_32_random_characters": {},
}

type Config struct {
	Port            string
	DatabaseURL     string
	SecretKey       string
	UploadDir       string
	PhotoExtensions []string
	MaxUploadBytes  int

	AdminEmail        string
	AdminPasswordHash string
	AdminPassword     string
	SessionTTL        time.Duration
	CookieSecure      bool

	TimeZone        string
	DefaultLanguage string

	Log LogConfig
}

type LogConfig struct {
	Level      string
	Filename   string
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	port, err := resolvePort()
	if err != nil {
		return Config{}, err
	}
	secretKey, err := resolveSecretKey()
	if err != nil {
		return Config{}, err
	}
	sessionTTL, err := getEnvAsDuration("SESSION_TTL", 12*time.Hour)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:              port,
		DatabaseURL:       getEnv("DATABASE_URL", "data/gymdesk.db"),
		SecretKey:         secretKey,
		UploadDir:         getEnv("UPLOAD_DIR", "data/uploads"),
		PhotoExtensions:   splitList(getEnv("PHOTO_EXTENSIONS", "png,jpg,jpeg,gif")),
		MaxUploadBytes:    getEnvAsInt("MAX_UPLOAD_MB", 8) * 1024 * 1024,
		AdminEmail:        strings.ToLower(strings.TrimSpace(getEnv("ADMIN_EMAIL", "admin@example.com"))),
		AdminPasswordHash: strings.TrimSpace(os.Getenv("ADMIN_PASSWORD_HASH")),
		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
		SessionTTL:        sessionTTL,
		CookieSecure:      getEnvAsBool("COOKIE_SECURE", false),
		TimeZone:          getEnv("TZ", "UTC"),
		DefaultLanguage:   getEnv("DEFAULT_LANGUAGE", "en"),
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Filename:   os.Getenv("LOG_FILENAME"),
			MaxSize:    getEnvAsInt("LOG_MAX_SIZE", 100),
			MaxBackups: getEnvAsInt("LOG_MAX_BACKUPS", 3),
			MaxAge:     getEnvAsInt("LOG_MAX_AGE", 28),
			Compress:   getEnvAsBool("LOG_COMPRESS", true),
		},
	}

	if cfg.AdminPasswordHash == "" && cfg.AdminPassword == "" {
		return Config{}, errors.New("ADMIN_PASSWORD_HASH or ADMIN_PASSWORD must be set")
	}
	if len(cfg.PhotoExtensions) == 0 {
		return Config{}, errors.New("PHOTO_EXTENSIONS must list at least one extension")
	}
	if cfg.MaxUploadBytes <= 0 {
		return Config{}, errors.New("MAX_UPLOAD_MB must be positive")
	}
	return cfg, nil
}

func resolveSecretKey() (string, error) {
	secret := strings.TrimSpace(os.Getenv("SECRET_KEY"))
	if secret == "" {
		return "", errors.New("SECRET_KEY is required")
	}
	if _, insecure := insecureSecretKeys[strings.ToLower(secret)]; insecure {
		return "", errors.New("SECRET_KEY uses an insecure placeholder value")
	}
	if len(secret) < minSecretKeyLength {
		return "", fmt.Errorf("SECRET_KEY must be at least %d characters", minSecretKeyLength)
	}
	return secret, nil
}

func resolvePort() (string, error) {
	raw := strings.TrimSpace(getEnv("PORT", "8080"))
	port, err := strconv.Atoi(raw)
	if err != nil || port < 1 || port > 65535 {
		return "", fmt.Errorf("invalid PORT %q", raw)
	}
	return strconv.Itoa(port), nil
}

func (cfg Config) Location() *time.Location {
	location, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return time.UTC
	}
	return location
}

func getEnv(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getEnvAsInt(key string, fallback int) int {
	if raw, exists := os.LookupEnv(key); exists {
		if value, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
			return value
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if raw, exists := os.LookupEnv(key); exists {
		if value, err := strconv.ParseBool(strings.TrimSpace(raw)); err == nil {
			return value
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, raw)
	}
	return value, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		value := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(part), "."))
		if value != "" {
			values = append(values, value)
		}
	}
	return values
}

package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

// Open connects to the database named by databaseURL and applies the
// embedded migrations for its dialect, then refreshes the members' folded
// lookup keys. A postgres:// or postgresql:// URL
// selects Postgres; anything else is treated as a SQLite file path, with an
// optional sqlite:// prefix.
func Open(databaseURL string, log *zap.Logger) (*gorm.DB, error) {
	if log == nil {
		log = zap.NewNop()
	}

	dialector, err := dialectorFor(databaseURL)
	if err != nil {
		return nil, err
	}

	database, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.New(
			zap.NewStdLog(log.Named("gorm")),
			gormlogger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  gormlogger.Warn,
				IgnoreRecordNotFoundError: true,
				ParameterizedQueries:      true,
				Colorful:                  false,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialector.Name(), err)
	}

	if _, err := applyEmbeddedMigrations(database, log.Named("migrations")); err != nil {
		return nil, fmt.Errorf("apply embedded migrations: %w", err)
	}
	if updated, err := reconcileLookupKeys(database, log); err != nil {
		return nil, err
	} else if updated > 0 {
		log.Info("member lookup keys refreshed", zap.Int("members", updated))
	}

	return database, nil
}

func dialectorFor(databaseURL string) (gorm.Dialector, error) {
	raw := strings.TrimSpace(databaseURL)
	if raw == "" {
		return nil, errors.New("database url is required")
	}

	lowered := strings.ToLower(raw)
	if strings.HasPrefix(lowered, "postgres://") || strings.HasPrefix(lowered, "postgresql://") {
		return postgres.Open(raw), nil
	}

	path := strings.TrimPrefix(raw, "sqlite://")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	dsn := fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
	return sqlite.Open(dsn), nil
}

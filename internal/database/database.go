// Package database opens the GORM connection and applies schema migrations.
package database

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	defaultPingTimeout  = 5 * time.Second
	defaultConnMaxIdle  = 2 * time.Minute
	defaultConnMaxLife  = 30 * time.Minute
	defaultMaxIdleConns = 5
	defaultMaxOpenConns = 25
	sqliteBusyTimeoutMS = 5000
)

// Driver names a supported database engine.
type Driver string

const (
	Postgres Driver = "postgres"
	SQLite   Driver = "sqlite"
)

// Target is a parsed DATABASE_URL.
type Target struct {
	Driver Driver
	// DSN is handed to the GORM dialector.
	DSN string
	// MigrateURL is handed to golang-migrate.
	MigrateURL string
}

// ParseURL understands postgres://, postgresql://, postgresql+<driver>:// and
// sqlite:///<path> (sqlite+<driver>:///<path>) URLs.
func ParseURL(raw string) (Target, error) {
	scheme, rest, ok := strings.Cut(strings.TrimSpace(raw), "://")
	if !ok {
		return Target{}, fmt.Errorf("database url %q has no scheme", raw)
	}
	base, _, _ := strings.Cut(strings.ToLower(scheme), "+")

	switch base {
	case "postgres", "postgresql":
		u, err := url.Parse("postgres://" + rest)
		if err != nil {
			return Target{}, fmt.Errorf("invalid postgres url: %w", err)
		}
		return Target{Driver: Postgres, DSN: u.String(), MigrateURL: u.String()}, nil
	case "sqlite", "sqlite3":
		path, query, _ := strings.Cut(strings.TrimPrefix(rest, "/"), "?")
		if path == "" {
			return Target{}, fmt.Errorf("sqlite url %q has no file path", raw)
		}
		params, err := url.ParseQuery(query)
		if err != nil {
			return Target{}, fmt.Errorf("invalid sqlite url query: %w", err)
		}
		if params.Get("_busy_timeout") == "" {
			params.Set("_busy_timeout", fmt.Sprint(sqliteBusyTimeoutMS))
		}
		dsn := path + "?" + params.Encode()
		return Target{Driver: SQLite, DSN: dsn, MigrateURL: "sqlite3://" + dsn}, nil
	default:
		return Target{}, fmt.Errorf("unsupported database scheme %q", scheme)
	}
}

// Open connects GORM to the target and verifies the connection.
func Open(ctx context.Context, target Target) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch target.Driver {
	case Postgres:
		dialector = postgres.Open(target.DSN)
	case SQLite:
		dialector = sqlite.Open(target.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", target.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger: logger.New(slogWriter{}, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	if target.Driver == SQLite {
		// One writer at a time; the unique indexes decide races.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetConnMaxIdleTime(defaultConnMaxIdle)
		sqlDB.SetConnMaxLifetime(defaultConnMaxLife)
		sqlDB.SetMaxIdleConns(defaultMaxIdleConns)
		sqlDB.SetMaxOpenConns(defaultMaxOpenConns)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// Close releases the pool behind db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// slogWriter routes GORM's logger output into slog.
type slogWriter struct{}

func (slogWriter) Printf(format string, args ...interface{}) {
	slog.Warn("gorm", "detail", fmt.Sprintf(format, args...))
}

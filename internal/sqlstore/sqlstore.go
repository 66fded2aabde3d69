// Package sqlstore keeps time entries and the correction board in a SQL
// database through gorm. Postgres, MySQL and SQLite are supported.
package sqlstore

import (
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Tiliavir/ponto/internal/apperr"
)

// Store implements the entry and board collaborators on a gorm database.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// Option customises a Store.
type Option func(*Store)

// WithClock replaces time.Now for UpdatedAt and CreatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// gormWriter routes gorm's own log lines into zap.
type gormWriter struct {
	log *zap.SugaredLogger
}

func (w gormWriter) Printf(format string, args ...any) {
	w.log.Warnf(format, args...)
}

// Dialector returns the gorm dialector for driver ("postgres", "mysql" or
// "sqlite").
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "postgres", "postgresql":
		return postgres.Open(dsn), nil
	case "mysql":
		return mysql.Open(dsn), nil
	case "sqlite", "sqlite3", "":
		return sqlite.Open(dsn), nil
	}
	return nil, fmt.Errorf("unsupported sql driver %q", driver)
}

// Open connects to the database, migrates the schema and makes sure a
// correction board exists.
func Open(driver, dsn string, log *zap.SugaredLogger, opts ...Option) (*Store, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	dial, err := Dialector(driver, dsn)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dial, &gorm.Config{
		Logger: logger.New(gormWriter{log: log}, logger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", driver, err)
	}

	if driver != "sqlite" && driver != "sqlite3" && driver != "" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	s, err := prepare(db, opts...)
	if err != nil {
		return nil, err
	}
	log.Debugw("sql store ready", "driver", driver)
	return s, nil
}

// prepare migrates db and seeds the default board. db is closed when
// either step fails.
func prepare(db *gorm.DB, opts ...Option) (*Store, error) {
	s := New(db, opts...)
	if err := s.Migrate(); err != nil {
		_ = s.Close()
		return nil, err
	}
	if err := s.EnsureDefaultBoard(); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an open database. The schema is not touched.
func New(db *gorm.DB, opts ...Option) *Store {
	s := &Store{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Migrate creates or updates the tables.
func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(
		&entryRow{},
		&allocationRow{},
		&boardRow{},
		&columnRow{},
		&cardRow{},
	); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func notFound(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.ErrNotFound.With(format, args...)
	}
	return err
}

// wrapErr leaves classified errors alone and adds context to the rest.
func wrapErr(op string, err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

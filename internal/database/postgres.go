package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"f3-data-api/internal/config"

	_ "github.com/lib/pq"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const slowQueryThreshold = 500 * time.Millisecond

type Option func(*Postgres)

// WithConnectionObserver registers a callback invoked with the result of
// every connectivity check.
func WithConnectionObserver(fn func(connected bool)) Option {
	return func(p *Postgres) {
		p.observe = fn
	}
}

// Postgres wraps a lib/pq connection pool behind gorm. It is built once in
// main and handed to the layers that need it.
type Postgres struct {
	DB      *gorm.DB
	observe func(connected bool)
}

// Open creates the pool. No connection is made until the first query, so an
// unreachable host is only reported by VerifyConnection.
func Open(cfg config.DB, opts ...Option) (*Postgres, error) {
	sqlDB, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	p, err := New(sqlDB, opts...)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return p, nil
}

// New wraps an existing pool.
func New(sqlDB *sql.DB, opts ...Option) (*Postgres, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.New(log.StandardLogger(), logger.Config{
			SlowThreshold:             slowQueryThreshold,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open gorm postgres: %w", err)
	}

	p := &Postgres{DB: db}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// VerifyConnection checks out a dedicated connection, runs a trivial query in
// a transaction and commits. The connection is returned to the pool on every
// path. Failures are logged and reported as false.
func (p *Postgres) VerifyConnection(ctx context.Context) bool {
	err := p.DB.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		return conn.Transaction(func(tx *gorm.DB) error {
			return tx.Exec("SELECT 1").Error
		})
	})

	if p.observe != nil {
		p.observe(err == nil)
	}

	if err != nil {
		log.WithError(err).Error("Database connection check failed")
		return false
	}
	return true
}

func (p *Postgres) Close() error {
	if p == nil || p.DB == nil {
		return nil
	}
	sqlDB, err := p.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

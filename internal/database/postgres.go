package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Lazy owns the process-wide connection pool. The pool is created on the
// first Pool call and the outcome, pool or error, is memoized, so
// concurrent first callers share one dial and a bad DSN is not re-dialed
// on every request.
type Lazy struct {
	dsn  string
	once sync.Once
	pool *pgxpool.Pool
	err  error
}

func NewLazy(dsn string) *Lazy {
	return &Lazy{dsn: dsn}
}

func (l *Lazy) Pool(ctx context.Context) (*pgxpool.Pool, error) {
	l.once.Do(func() {
		l.pool, l.err = connect(ctx, l.dsn)
	})
	return l.pool, l.err
}

func (l *Lazy) Close() {
	if l.pool != nil {
		l.pool.Close()
	}
}

func connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database config: %v", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %v", err)
	}

	return pool, nil
}

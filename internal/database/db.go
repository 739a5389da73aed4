package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

// Options configures the catalog connection pool.
type Options struct {
	URL             string
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

var (
	pool     *pgxpool.Pool
	poolMu   sync.RWMutex
	poolOnce sync.Once
)

// Pool gauges read the live pool; they report zero while disconnected.
var (
	_ = promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "basket_db_pool_total_conns",
		Help: "Connections currently held by the catalog pool",
	}, func() float64 { return statValue(func(s *pgxpool.Stat) int32 { return s.TotalConns() }) })

	_ = promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "basket_db_pool_acquired_conns",
		Help: "Catalog pool connections in use",
	}, func() float64 { return statValue(func(s *pgxpool.Stat) int32 { return s.AcquiredConns() }) })

	_ = promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "basket_db_pool_idle_conns",
		Help: "Idle catalog pool connections",
	}, func() float64 { return statValue(func(s *pgxpool.Stat) int32 { return s.IdleConns() }) })
)

// Connect opens the shared pool. Calling it again while connected is a no-op.
func Connect(ctx context.Context, opts Options) error {
	var initErr error
	poolOnce.Do(func() {
		config, err := pgxpool.ParseConfig(opts.URL)
		if err != nil {
			initErr = fmt.Errorf("error parsing database config: %w", err)
			return
		}

		if opts.MaxConns > 0 {
			config.MaxConns = int32(opts.MaxConns)
		}
		if opts.MinConns > 0 {
			config.MinConns = int32(opts.MinConns)
		}
		if opts.MaxConnLifetime > 0 {
			config.MaxConnLifetime = opts.MaxConnLifetime
		}
		if opts.MaxConnIdleTime > 0 {
			config.MaxConnIdleTime = opts.MaxConnIdleTime
		}
		config.HealthCheckPeriod = time.Minute

		newPool, err := pgxpool.NewWithConfig(ctx, config)
		if err != nil {
			initErr = fmt.Errorf("error creating connection pool: %w", err)
			return
		}

		if err := newPool.Ping(ctx); err != nil {
			newPool.Close()
			initErr = fmt.Errorf("error connecting to database: %w", err)
			return
		}

		poolMu.Lock()
		pool = newPool
		poolMu.Unlock()

		log.Debug().
			Int32("max_conns", config.MaxConns).
			Int32("min_conns", config.MinConns).
			Msg("Catalog pool opened")
	})

	if initErr != nil {
		poolOnce = sync.Once{}
		return initErr
	}
	return nil
}

// Close closes the pool. Connect may be called again afterwards.
func Close() {
	poolMu.Lock()
	defer poolMu.Unlock()
	if pool != nil {
		pool.Close()
		pool = nil
	}
	poolOnce = sync.Once{}
}

// Pool returns the shared pool, or nil before Connect.
func Pool() *pgxpool.Pool {
	poolMu.RLock()
	defer poolMu.RUnlock()
	return pool
}

// Status pings the database.
func Status(ctx context.Context) error {
	p := Pool()
	if p == nil {
		return fmt.Errorf("database not initialized")
	}
	return p.Ping(ctx)
}

// Stats returns pool statistics, or nil before Connect.
func Stats() *pgxpool.Stat {
	p := Pool()
	if p == nil {
		return nil
	}
	return p.Stat()
}

func statValue(read func(*pgxpool.Stat) int32) float64 {
	s := Stats()
	if s == nil {
		return 0
	}
	return float64(read(s))
}

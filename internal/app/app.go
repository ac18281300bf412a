// Package app wires storage, locking and issuing services from Config.
package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"pxc/internal/config"
	"pxc/internal/core/numerator"
	"pxc/internal/core/tx"
	"pxc/internal/domain"
	"pxc/internal/domain/customers"
	"pxc/internal/domain/orders"
	"pxc/internal/infrastructure/http/v1/handlers"
	"pxc/internal/infrastructure/lock"
	"pxc/internal/infrastructure/storage/memory"
	"pxc/internal/infrastructure/storage/postgres"
	"pxc/internal/infrastructure/storage/postgres/issue_repo"
	"pxc/pkg/logger"
)

// App holds the assembled services.
type App struct {
	Numerator numerator.Generator
	Orders    *orders.Service
	Customers *customers.Service

	// HealthChecks are the dependencies behind readiness
	HealthChecks map[string]handlers.Pinger

	pool    *postgres.Pool
	closers []func()
}

// Info reports pool statistics when running on PostgreSQL.
func (a *App) Info() map[string]any {
	info := map[string]any{"storage": "memory"}
	if a.pool != nil {
		info["storage"] = "postgres"
		info["database"] = a.pool.Stats()
	}
	return info
}

// Close releases connections in reverse order of creation.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// Build connects storage and assembles services.
// An empty database URL selects the in-memory store.
func Build(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	a := &App{
		Numerator:    numerator.New(),
		HealthChecks: map[string]handlers.Pinger{},
	}

	var (
		txm         tx.Manager
		locker      tx.Locker
		orderRepo   orders.Repository
		customerRep customers.Repository
	)

	storeLog := log.WithComponent("storage")
	lockLog := log.WithComponent("lock")

	if cfg.Database.URL == "" {
		storeLog.Warn("database.url is empty, using in-memory storage")
		txm = memory.TxManager{}
		orderRepo = memory.NewOrderRepo()
		customerRep = memory.NewCustomerRepo()
	} else {
		poolCfg := postgres.DefaultPoolConfig(cfg.Database.URL)
		poolCfg.MaxConns = cfg.Database.MaxConns
		poolCfg.MinConns = cfg.Database.MinConns
		poolCfg.MaxConnLifetime = cfg.Database.MaxConnLifetime

		pool, err := postgres.NewPool(ctx, poolCfg)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		a.pool = pool
		a.closers = append(a.closers, pool.Close)
		a.HealthChecks["database"] = pool

		pgTx := postgres.NewTxManager(pool)
		if cfg.Database.Migrate {
			if err := postgres.Migrate(ctx, pgTx); err != nil {
				a.Close()
				return nil, fmt.Errorf("migrate: %w", err)
			}
		}
		txm = pgTx
		orderRepo = issue_repo.NewOrderRepo(pgTx)
		customerRep = issue_repo.NewCustomerRepo(pgTx)
		storeLog.Infow("database connection established", "max_conns", poolCfg.MaxConns)
	}

	switch cfg.Lock.Backend {
	case config.LockPostgres:
		pgTx, ok := txm.(*postgres.TxManager)
		if !ok {
			lockLog.Warn("postgres lock backend needs a database, falling back to memory lock")
			locker = memory.NewLocker()
			break
		}
		locker = postgres.NewAdvisoryLocker(pgTx)
	case config.LockRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			a.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		a.closers = append(a.closers, func() { _ = client.Close() })
		rl := lock.NewRedisLocker(client, lock.RedisConfig{TTL: cfg.Redis.TTL})
		a.HealthChecks["redis"] = rl
		locker = rl
	default:
		locker = memory.NewLocker()
	}
	lockLog.Infow("issue lock configured", "backend", cfg.Lock.Backend)

	issuer := func(entity string) *domain.Issuer {
		return domain.NewIssuer(domain.IssuerConfig{
			TxManager:   txm,
			Locker:      locker,
			MaxAttempts: cfg.Issue.MaxAttempts,
			Backoff:     cfg.Issue.Backoff,
			EntityName:  entity,
		})
	}
	a.Orders = orders.NewService(orderRepo, a.Numerator, issuer("order"))
	a.Customers = customers.NewService(customerRep, a.Numerator, issuer("customer"))

	return a, nil
}

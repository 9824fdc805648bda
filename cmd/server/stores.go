package main

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-tracker/internal/clients/external"
	"github.com/KirkDiggler/rpg-tracker/internal/config"
	"github.com/KirkDiggler/rpg-tracker/internal/errors"
	"github.com/KirkDiggler/rpg-tracker/internal/orchestrators/actions"
	"github.com/KirkDiggler/rpg-tracker/internal/orchestrators/snapshot"
	"github.com/KirkDiggler/rpg-tracker/internal/redis"
	"github.com/KirkDiggler/rpg-tracker/internal/repositories/ledger"
	"github.com/KirkDiggler/rpg-tracker/internal/rules"
)

// openLedger opens the configured store. The returned func releases it.
func openLedger(ctx context.Context, cfg *config.Config) (ledger.Repository, func(), error) {
	switch cfg.Store {
	case config.StoreRedis:
		client, err := redis.NewClient(cfg.RedisAddr, nil)
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to create redis client")
		}
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to reach redis at "+cfg.RedisAddr)
		}
		repo, err := ledger.NewRedis(&ledger.RedisConfig{Client: client})
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return repo, func() { _ = client.Close() }, nil

	case config.StoreSQLite:
		repo, err := ledger.OpenSQLite(ctx, &ledger.SQLiteConfig{Path: cfg.SQLitePath})
		if err != nil {
			return nil, nil, err
		}
		return repo, func() { _ = repo.Close() }, nil

	case config.StorePostgres:
		repo, err := ledger.OpenPostgres(ctx, &ledger.PostgresConfig{DSN: cfg.PostgresDSN})
		if err != nil {
			return nil, nil, err
		}
		return repo, repo.Close, nil
	}
	return nil, nil, errors.InvalidArgumentf("unknown store %q", cfg.Store)
}

// loadRules reads the embedded rules and the optional overlay, and chains
// the remote spell lookup behind them when configured
func loadRules(cfg *config.Config) (*rules.Book, rules.SpellSource, error) {
	book, err := rules.LoadFile(cfg.RulesPath)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to load rules")
	}
	if cfg.SpellAPIURL == "" {
		return book, book, nil
	}

	remote, err := external.New(&external.Config{
		BaseURL:  cfg.SpellAPIURL,
		CacheTTL: cfg.SpellCacheTTL,
	})
	if err != nil {
		return nil, nil, err
	}
	return book, rules.Chain{book, remote}, nil
}

// newService wires the ledger, rules and snapshot builder into the tracker
func newService(ctx context.Context, cfg *config.Config) (*actions.Orchestrator, *rules.Book, func(), error) {
	book, spells, err := loadRules(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	repo, closeLedger, err := openLedger(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	builder, err := snapshot.New(&snapshot.Config{Ledger: repo, Rules: book})
	if err != nil {
		closeLedger()
		return nil, nil, nil, err
	}

	svc, err := actions.New(&actions.Config{
		Ledger:    repo,
		Snapshots: builder,
		Rules:     book,
		Spells:    spells,
	})
	if err != nil {
		closeLedger()
		return nil, nil, nil, err
	}

	slog.InfoContext(ctx, "tracker ready",
		"store", cfg.Store,
		"ruleset", book.Ruleset,
		"remote_spells", cfg.SpellAPIURL != "")
	return svc, book, closeLedger, nil
}

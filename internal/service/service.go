package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/talx-hub/points-ledger/internal/api/handlers"
	"github.com/talx-hub/points-ledger/internal/balance"
	"github.com/talx-hub/points-ledger/internal/history"
	"github.com/talx-hub/points-ledger/internal/memstore"
	"github.com/talx-hub/points-ledger/internal/model"
	"github.com/talx-hub/points-ledger/internal/model/batch"
	"github.com/talx-hub/points-ledger/internal/model/ledger"
	"github.com/talx-hub/points-ledger/internal/model/reward"
	"github.com/talx-hub/points-ledger/internal/model/user"
	"github.com/talx-hub/points-ledger/internal/reconcile"
	"github.com/talx-hub/points-ledger/internal/repo"
	"github.com/talx-hub/points-ledger/internal/router"
	"github.com/talx-hub/points-ledger/internal/service/config"
	"github.com/talx-hub/points-ledger/internal/service/dbmanager"
	"github.com/talx-hub/points-ledger/internal/service/feed"
	"github.com/talx-hub/points-ledger/internal/service/periodreset"
	"github.com/talx-hub/points-ledger/internal/utils/logger"
	"github.com/talx-hub/points-ledger/internal/utils/semaphore"
)

const (
	connectTimeout  = 5 * time.Second
	shutdownTimeout = 10 * time.Second
)

type accountStore interface {
	user.Repository
	user.BalanceStore
}

type rewardStore interface {
	reward.Repository
	reward.RedemptionRepository
}

type stores struct {
	accounts accountStore
	entries  ledger.Repository
	batches  batch.Repository
	rewards  rewardStore
	pinger   handlers.Pinger
	close    func()
	name     string
}

func openStores(ctx context.Context, cfg *config.Config, log *slog.Logger) (*stores, error) {
	if cfg.DatabaseURI == "" {
		mem := memstore.New()
		if cfg.SeedFile != "" {
			f, err := os.Open(cfg.SeedFile)
			if err != nil {
				return nil, fmt.Errorf("failed to open seed file: %w", err)
			}
			defer f.Close() //nolint: errcheck
			if err = mem.LoadSeed(f); err != nil {
				return nil, fmt.Errorf("failed to load seed file %s: %w", cfg.SeedFile, err)
			}
		}
		log.LogAttrs(ctx, slog.LevelWarn, "DATABASE_URI is empty, using in-memory store")
		return &stores{
			accounts: mem,
			entries:  mem,
			batches:  mem,
			rewards:  mem,
			close:    func() {},
			name:     "memory",
		}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	dbManager := dbmanager.New(cfg.DatabaseURI, log).
		Connect(ctx).
		ApplyMigrations(ctx).
		Ping(ctx)
	if err := dbManager.Error(); err != nil {
		dbManager.Close()
		return nil, fmt.Errorf("db connection error: %w", err)
	}
	pool, err := dbManager.GetPool(ctx)
	if err != nil {
		dbManager.Close()
		return nil, fmt.Errorf("failed to get DB pool: %w", err)
	}

	return &stores{
		accounts: repo.NewUserRepository(pool, log),
		entries:  repo.NewLedgerRepository(pool, log),
		batches:  repo.NewBatchRepository(pool, log),
		rewards:  repo.NewRewardRepository(pool, log),
		pinger:   dbManager,
		close:    dbManager.Close,
		name:     "postgres",
	}, nil
}

type App struct {
	cfg    *config.Config
	log    *slog.Logger
	stores *stores
	router http.Handler
	feed   *feed.Feed
	resets *periodreset.Scheduler
}

func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	accessor := balance.NewAccessor(st.accounts, cfg.MaxTxAttempts, log)
	mutator := balance.NewMutator(accessor, st.entries, log)
	reconciler := reconcile.New(st.accounts, mutator, st.batches, cfg.BatchErrorSample, log)
	aggregator := history.New(history.Sources{
		Accounts:    st.accounts,
		Rewards:     st.rewards,
		Redemptions: st.rewards,
		Batches:     st.batches,
		Entries:     st.entries,
	}, log)
	liveFeed := feed.New(aggregator, cfg.FeedInterval, model.DefaultRecentLimit)

	resets, err := periodreset.New(st.accounts, cfg.WeekStart, cfg.Location(), log)
	if err != nil {
		st.close()
		return nil, fmt.Errorf("failed to create counter reset scheduler: %w", err)
	}

	rr := router.New(cfg, log)
	rr.SetRouter(&struct {
		*handlers.LedgerHandler
		*handlers.HistoryHandler
		*handlers.FeedHandler
		*handlers.HealthHandler
	}{
		LedgerHandler: handlers.NewLedgerHandler(
			mutator, reconciler, semaphore.New(cfg.MaxConcurrentBatches), log),
		HistoryHandler: handlers.NewHistoryHandler(aggregator, log),
		FeedHandler:    handlers.NewFeedHandler(liveFeed, log),
		HealthHandler:  handlers.NewHealthHandler(st.pinger, st.name, log),
	})

	return &App{
		cfg:    cfg,
		log:    log,
		stores: st,
		router: rr.GetRouter(),
		feed:   liveFeed,
		resets: resets,
	}, nil
}

func (a *App) Handler() http.Handler {
	return a.router
}

// Run serves until ctx is cancelled, then drains requests and stops the
// background jobs.
func (a *App) Run(ctx context.Context) error {
	defer a.stores.close()

	bgCtx, stopBackground := context.WithCancel(logger.WithContext(ctx, a.log))
	defer stopBackground()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.feed.Run(bgCtx)
	}()
	if err := a.resets.Start(bgCtx); err != nil {
		return fmt.Errorf("failed to start counter resets: %w", err)
	}
	defer a.resets.Stop()

	srv := &http.Server{
		Addr:              a.cfg.RunAddr,
		Handler:           a.router,
		ReadHeaderTimeout: connectTimeout,
	}
	serveErr := make(chan error, 1)
	go func() {
		a.log.LogAttrs(ctx, slog.LevelInfo, "listening",
			slog.String("address", a.cfg.RunAddr),
			slog.String("store", a.stores.name),
		)
		serveErr <- srv.ListenAndServe()
	}()

	var err error
	select {
	case err = <-serveErr:
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err = srv.Shutdown(shutdownCtx)
	}
	stopBackground()
	wg.Wait()

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen and serve error: %w", err)
	}
	return nil
}

func RunServer() {
	bootLog := slog.Default()
	b := config.NewBuilder(bootLog).
		FromFile("").
		FromEnv().
		FromFlags().
		Validate()
	if err := b.Error(); err != nil {
		bootLog.LogAttrs(context.Background(),
			slog.LevelError,
			"failed to init service: bad configuration",
			slog.Any(model.KeyLoggerError, err),
		)
		os.Exit(1)
	}
	cfg := b.GetConfig()
	log := logger.New(logger.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, cfg, log)
	if err != nil {
		log.LogAttrs(ctx,
			slog.LevelError,
			"failed to init service",
			slog.Any(model.KeyLoggerError, err),
		)
		os.Exit(1) //nolint: gocritic
	}
	if err = app.Run(ctx); err != nil {
		log.LogAttrs(context.Background(),
			slog.LevelError,
			"service stopped with error",
			slog.Any(model.KeyLoggerError, err),
		)
		os.Exit(1) //nolint: gocritic
	}
}

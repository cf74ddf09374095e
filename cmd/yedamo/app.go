package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yedamo-ai/yedamo/pkg/cache"
	rediscache "github.com/yedamo-ai/yedamo/pkg/cache/redis"
	sqlitecache "github.com/yedamo-ai/yedamo/pkg/cache/sqlite"
	"github.com/yedamo-ai/yedamo/pkg/calculator"
	"github.com/yedamo-ai/yedamo/pkg/config"
	"github.com/yedamo-ai/yedamo/pkg/consult"
	"github.com/yedamo-ai/yedamo/pkg/llm"
	"github.com/yedamo-ai/yedamo/pkg/logging"
	"github.com/yedamo-ai/yedamo/pkg/mcp"
	"github.com/yedamo-ai/yedamo/pkg/models"
	"github.com/yedamo-ai/yedamo/pkg/saju"
)

// app holds the long-lived clients shared by every command.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	svc     *saju.Service
	sqlite  *sqlitecache.Cache
	closers []func() error
}

// appOptions selects which outbound clients a command needs.
type appOptions struct {
	calculator bool
	generator  bool
}

func newApp(ctx context.Context, configPath string, opts appOptions) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger}

	store, err := a.openStore()
	if err != nil {
		a.Close()
		return nil, err
	}

	var calc saju.Calculator = unavailableCalculator{reason: errCalculatorDisabled}
	if opts.calculator {
		c, err := a.startCalculator(ctx)
		if err != nil {
			a.logger.Warn("calculator unavailable, chart computation disabled", zap.Error(err))
			c = unavailableCalculator{reason: err}
		}
		calc = c
	}

	var gen consult.Generator
	if opts.generator {
		g, err := llm.New(ctx, cfg.Consultation, &http.Client{Timeout: consult.Deadline})
		switch {
		case err != nil:
			a.logger.Warn("generator unavailable, consultations use the fallback",
				zap.String("provider", cfg.Consultation.Provider), zap.Error(err))
		case g != nil:
			gen = g
		}
	}
	responder := consult.NewResponder(gen, consult.Options{
		Language:  cfg.Consultation.Language,
		MaxTokens: cfg.Consultation.MaxTokens,
	}, logger)

	a.svc = saju.NewService(calc, cache.NewManager(store, logger), responder, cfg.Calculator.Timezone, logger)
	return a, nil
}

func (a *app) openStore() (cache.Store, error) {
	c := a.cfg.Cache
	switch c.Backend {
	case config.BackendRedis:
		rc := rediscache.New(rediscache.Options{
			Addr:        c.Redis.Addr,
			Password:    c.Redis.Password,
			DB:          c.Redis.DB,
			DialTimeout: c.Redis.DialTimeout,
		})
		a.closers = append(a.closers, rc.Close)
		return rc, nil
	case config.BackendSQLite:
		sc, err := sqlitecache.New(c.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("init cache: %w", err)
		}
		a.sqlite = sc
		a.closers = append(a.closers, sc.Close)
		return sc, nil
	default:
		a.logger.Warn("running without a cache backend")
		return nil, nil
	}
}

func (a *app) startCalculator(ctx context.Context) (saju.Calculator, error) {
	cc := a.cfg.Calculator
	client, err := mcp.Spawn(cc.Command, cc.Args, a.logger.Named("calculator"))
	if err != nil {
		return nil, fmt.Errorf("start calculator: %w", err)
	}

	initCtx, cancel := context.WithTimeout(ctx, cc.Timeout)
	defer cancel()
	res, err := client.Initialize(initCtx, mcp.ServerInfo{
		Name:    "yedamo-client-" + uuid.NewString()[:8],
		Version: version,
	})
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("initialize calculator: %w", err)
	}
	a.closers = append(a.closers, client.Close)
	a.logger.Info("calculator ready",
		zap.String("server", res.ServerInfo.Name),
		zap.String("server_version", res.ServerInfo.Version),
	)
	return calculator.New(client, cc.Tool, cc.Timeout), nil
}

// statter returns the stats source for the MCP surface, nil unless the
// backend keeps counters.
func (a *app) statter() mcp.CacheStatter {
	if a.sqlite == nil {
		return nil
	}
	return a.sqlite
}

// Close releases clients in reverse order of creation.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("close failed", zap.Error(err))
		}
	}
	a.closers = nil
	_ = a.logger.Sync()
}

// unavailableCalculator stands in when the calculator is not running.
// Cache reads and consultations keep working.
type unavailableCalculator struct {
	reason error
}

func (u unavailableCalculator) Calculate(context.Context, models.CalculatorInput) ([]byte, error) {
	return nil, fmt.Errorf("%w: %w", models.ErrComputation, u.reason)
}

var errCalculatorDisabled = errors.New("calculator not started for this command")

package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	claimsmetrics "faceid/internal/claims/metrics"
	claimsservice "faceid/internal/claims/service"
	claimsstore "faceid/internal/claims/store"
	contestmetrics "faceid/internal/contest/metrics"
	contestservice "faceid/internal/contest/service"
	conteststore "faceid/internal/contest/store"
	"faceid/internal/extractor"
	"faceid/internal/issuer"
	"faceid/internal/ledger"
	oraclecache "faceid/internal/oracle/cache"
	oraclemetrics "faceid/internal/oracle/metrics"
	oracleservice "faceid/internal/oracle/service"
	"faceid/internal/platform/config"
	"faceid/internal/platform/logger"
	"faceid/internal/platform/postgres"
	"faceid/internal/platform/redis"
	"faceid/pkg/platform/audit"
	auditmemory "faceid/pkg/platform/audit/store/memory"
	auditpostgres "faceid/pkg/platform/audit/store/postgres"
)

// submissionCacheTTL bounds how long a positive oracle answer is remembered.
const submissionCacheTTL = 24 * time.Hour

// app holds the process-wide resources shared by the commands.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *sql.DB
	redis  *redis.Client
	ledger *ledger.Client
	audit  *audit.Publisher

	closers []func()
}

func loadApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &app{
		cfg:    cfg,
		logger: logger.New(cfg.LogLevel, cfg.LogFormat),
	}, nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func (a *app) openDB(ctx context.Context) error {
	if a.cfg.DatabaseURL == "" {
		return fmt.Errorf("%w: database_url is not set", config.ErrInvalidConfig)
	}
	db, err := postgres.Open(ctx, a.cfg.DatabaseURL)
	if err != nil {
		return err
	}
	a.db = db
	a.closers = append(a.closers, func() { _ = db.Close() })
	return nil
}

func (a *app) openRedis(ctx context.Context) error {
	client, err := redis.New(ctx, a.cfg.RedisURL)
	if err != nil {
		return err
	}
	if client != nil {
		a.redis = client
		a.closers = append(a.closers, func() { _ = client.Close() })
	}
	return nil
}

func (a *app) dialLedger(ctx context.Context) error {
	if err := a.cfg.ValidateLedger(); err != nil {
		return err
	}
	client, err := ledger.Dial(ctx, a.cfg.Ledger.RPCURL, a.cfg.Ledger.PrivateKey,
		ledger.WithGasLimit(a.cfg.Ledger.GasLimit),
		ledger.WithReceiptTimeout(a.cfg.Ledger.ReceiptTimeout),
	)
	if err != nil {
		return err
	}
	a.ledger = client
	a.closers = append(a.closers, client.Close)
	return nil
}

func (a *app) extractorClient() *extractor.Client {
	return extractor.New(a.cfg.Extractor.BaseURL, extractor.WithTimeout(a.cfg.Extractor.Timeout))
}

func (a *app) claimsService(m *claimsmetrics.Metrics) (*claimsservice.Service, error) {
	if a.db == nil {
		return nil, errors.New("claims service needs a database")
	}
	iss := issuer.New(a.cfg.Issuer.BaseURL, a.cfg.Issuer.ID, a.cfg.Issuer.Timeout, issuer.WithLogger(a.logger))
	return claimsservice.New(
		claimsstore.NewPostgres(a.db),
		a.extractorClient(),
		iss,
		claimsservice.WithLogger(a.logger),
		claimsservice.WithMetrics(m),
		claimsservice.WithAuditor(a.auditPublisher()),
	)
}

func (a *app) oracleService(m *oraclemetrics.Metrics) (*oracleservice.Service, error) {
	contract, err := ledger.NewOracle(a.ledger, a.cfg.Ledger.OracleAddress)
	if err != nil {
		return nil, err
	}
	var c oracleservice.Cache
	if a.redis != nil {
		c = oraclecache.NewRedis(a.redis.Client, submissionCacheTTL)
	} else {
		c = oraclecache.NewInMemory(submissionCacheTTL)
	}
	return oracleservice.New(contract,
		oracleservice.WithCache(c),
		oracleservice.WithLogger(a.logger),
		oracleservice.WithMetrics(m),
	)
}

func (a *app) contestService(oracle contestservice.Oracle, m *contestmetrics.Metrics) (*contestservice.Service, error) {
	contract, err := ledger.NewContest(a.ledger, a.cfg.Ledger.ContestAddress)
	if err != nil {
		return nil, err
	}
	var store contestservice.Store
	if a.db != nil {
		store = conteststore.NewPostgres(a.db)
	} else {
		store = conteststore.NewInMemory()
	}
	return contestservice.New(store, a.extractorClient(), oracle, contract,
		contestservice.WithLogger(a.logger),
		contestservice.WithMetrics(m),
		contestservice.WithAuditor(a.auditPublisher()),
		contestservice.WithWinningPool(a.cfg.Contest.WinningPool),
		contestservice.WithDistanceVerification(a.cfg.Contest.VerifyDistance),
	)
}

// auditPublisher is built once per process; it writes to Postgres when a
// database is open and keeps events in memory otherwise.
func (a *app) auditPublisher() *audit.Publisher {
	if a.audit != nil {
		return a.audit
	}
	var store audit.Store
	if a.db != nil {
		store = auditpostgres.New(a.db)
	} else {
		store = auditmemory.NewInMemoryStore()
	}
	a.audit = audit.New(store,
		audit.WithLogger(a.logger),
		audit.WithMetrics(audit.NewMetrics()),
	)
	return a.audit
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	claimshandler "faceid/internal/claims/handler"
	claimsmetrics "faceid/internal/claims/metrics"
	contesthandler "faceid/internal/contest/handler"
	contestmetrics "faceid/internal/contest/metrics"
	oraclemetrics "faceid/internal/oracle/metrics"
	"faceid/internal/platform/httpserver"
	"faceid/internal/platform/metrics"
	httptransport "faceid/internal/transport/http"
	"faceid/pkg/platform/middleware/ratelimit"
)

const (
	shutdownTimeout = 10 * time.Second
	// requestTimeout covers the slowest path: two oracle receipts plus a
	// register receipt.
	requestTimeout = 9 * time.Minute
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	if err := a.openDB(ctx); err != nil {
		return err
	}
	if err := a.openRedis(ctx); err != nil {
		return err
	}
	if err := a.dialLedger(ctx); err != nil {
		return err
	}

	claimsM := claimsmetrics.New()
	claims, err := a.claimsService(claimsM)
	if err != nil {
		return err
	}
	oracle, err := a.oracleService(oraclemetrics.New())
	if err != nil {
		return err
	}
	contestM := contestmetrics.New()
	contest, err := a.contestService(oracle, contestM)
	if err != nil {
		return err
	}

	health := map[string]httptransport.HealthCheck{
		"postgres": a.db.PingContext,
	}
	if a.redis != nil {
		health["redis"] = a.redis.Health
	}

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Prefix:  a.cfg.RoutePrefix,
		Logger:  a.logger,
		Metrics: metrics.New(),
		Limiter: ratelimit.New(a.cfg.RateLimit.RPS, a.cfg.RateLimit.Burst, a.logger),
		Modules: []httptransport.RouteRegistrar{
			claimshandler.New(claims, a.logger, claimsM),
			contesthandler.New(contest, a.logger, contestM),
		},
		Health:  health,
		Timeout: requestTimeout,
	})

	srv := httpserver.New(a.cfg.Addr, router)
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("starting face-extractor-svc",
			"addr", a.cfg.Addr,
			"prefix", a.cfg.RoutePrefix,
			"submitter", oracle.Submitter().Hex(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Package worker contains the background delivery that keeps cart line
// prices aligned with the catalog.
package worker

import (
	"context"
	"log/slog"

	"storefront/config"
	"storefront/internal/delivery"
	"storefront/internal/domain/lifecycle"
	"storefront/internal/usecase"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
)

const defaultSchedule = "@every 15m"

type repricerServer struct {
	cfg      *config.Config
	logger   *slog.Logger
	repricer usecase.RepricerUsecase
	cron     *cron.Cron
	done     chan struct{}
}

// ServerParams holds dependencies for the repricer worker
type ServerParams struct {
	fx.In

	Lc       fx.Lifecycle
	Cfg      *config.Config
	Logger   *slog.Logger
	Repricer usecase.RepricerUsecase
}

// NewServer creates the cron-driven repricer worker
func NewServer(params ServerParams) (delivery.Delivery, error) {
	schedule := defaultSchedule
	if params.Cfg.Repricer != nil && params.Cfg.Repricer.Schedule != "" {
		schedule = params.Cfg.Repricer.Schedule
	}

	srv := &repricerServer{
		cfg:      params.Cfg,
		logger:   params.Logger,
		repricer: params.Repricer,
		cron:     cron.New(),
		done:     make(chan struct{}),
	}

	if _, err := srv.cron.AddFunc(schedule, srv.runPass); err != nil {
		return nil, errors.Wrapf(err, "invalid repricer schedule %q", schedule)
	}

	params.Lc.Append(fx.Hook{
		OnStop: srv.stop,
	})

	return srv, nil
}

// Serve starts the cron scheduler and blocks until shutdown.
func (s *repricerServer) Serve(ctx context.Context) error {
	s.logger.Info("Starting repricer worker")
	s.cron.Start()

	select {
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "repricer worker context canceled")
	case <-s.done:
		return nil
	}
}

func (s *repricerServer) runPass() {
	repriced, err := s.repricer.RepriceCartItems(context.Background())
	if err != nil {
		s.logger.Error("Cart repricing pass failed",
			slog.Int64("itemsRepriced", repriced),
			slog.Any("error", err),
		)
	}
}

// stop halts the scheduler and waits for a running pass to finish.
func (s *repricerServer) stop(ctx context.Context) error {
	s.logger.Info("Shutting down repricer worker")

	waitCtx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
	defer cancel()

	select {
	case <-s.cron.Stop().Done():
	case <-waitCtx.Done():
		s.logger.Warn("Repricing pass still running at shutdown deadline")
	}

	close(s.done)

	return nil
}

package impl

import (
	"context"
	"log/slog"

	"storefront/config"
	"storefront/internal/domain/repository"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const defaultRepriceBatchSize = 500

// repricingService implements the RepricerUsecase interface.
//
// The pass is set-based and keyset-paged: each batch rewrites up to
// batchSize stale lines in one statement, then advances the cursor. A line
// a shopper updates mid-pass may be rewritten too; the later write wins and
// both prices came from the same catalog, so the outcome stays consistent.
type repricingService struct {
	cartRepo  repository.CartRepository
	batchSize int
	logger    *slog.Logger
}

// RepricingServiceParams holds dependencies for RepricingService, injected by Fx.
type RepricingServiceParams struct {
	fx.In

	CartRepo repository.CartRepository
	Config   *config.Config
	Logger   *slog.Logger
}

// NewRepricingService is the constructor for repricingService.
func NewRepricingService(params RepricingServiceParams) usecase.RepricerUsecase {
	batchSize := defaultRepriceBatchSize
	if params.Config != nil && params.Config.Repricer != nil && params.Config.Repricer.BatchSize > 0 {
		batchSize = params.Config.Repricer.BatchSize
	}

	return &repricingService{
		cartRepo:  params.CartRepo,
		batchSize: batchSize,
		logger:    params.Logger,
	}
}

// RepriceCartItems walks cart_items until a batch comes back empty.
func (srv *repricingService) RepriceCartItems(ctx context.Context) (int64, error) {
	var total int64
	cursor := uuid.Nil

	for {
		select {
		case <-ctx.Done():
			return total, errors.Wrap(ctx.Err(), "repricing pass canceled")
		default:
		}

		touched, last, err := srv.cartRepo.ResyncItemPrices(ctx, cursor, srv.batchSize)
		if err != nil {
			return total, errors.Wrap(err, "repricing batch failed")
		}
		if touched == 0 {
			break
		}

		total += touched
		cursor = last

		srv.logger.Debug("Repricing batch applied",
			slog.Int64("touched", touched),
			slog.Int64("totalSoFar", total),
		)
	}

	if total > 0 {
		srv.logger.Info("Cart repricing pass completed", slog.Int64("itemsRepriced", total))
	}

	return total, nil
}

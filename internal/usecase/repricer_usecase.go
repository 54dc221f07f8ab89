package usecase

import "context"

// RepricerUsecase re-syncs stale cart line prices from the product catalog.
type RepricerUsecase interface {
	// RepriceCartItems walks the cart_items table in bounded batches and
	// rewrites lines whose snapshot price no longer matches the product,
	// returning the total number of lines touched.
	RepriceCartItems(ctx context.Context) (int64, error)
}

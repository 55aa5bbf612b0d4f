// Package interfaces defines service contracts for folio
package interfaces

import (
	"context"
	"io"

	"github.com/edforrester/folio/internal/models"
)

// RebalanceClient talks to the portfolio rebalance server.
type RebalanceClient interface {
	// GetPortfolio fetches the baseline snapshot.
	GetPortfolio(ctx context.Context) (*models.Snapshot, error)

	// GetPortfolioWithDeposits fetches the deposit-adjusted snapshot.
	GetPortfolioWithDeposits(ctx context.Context, deposits map[string]float64) (*models.Snapshot, error)

	// GetPriceSources returns ticker → price source label and URL.
	GetPriceSources(ctx context.Context) (map[string]models.PriceSource, error)

	// RefreshPrices triggers a live price refresh; returns the updated count.
	RefreshPrices(ctx context.Context) (int, error)

	// UpdateHolding updates fields of one holding.
	UpdateHolding(ctx context.Context, req models.UpdateHoldingRequest) error

	// UpdateTickerValue sets a ticker's total value (server redistributes).
	UpdateTickerValue(ctx context.Context, req models.UpdateTickerValueRequest) error

	// UpdateTickerPrice sets the unit price for all holdings of a ticker.
	UpdateTickerPrice(ctx context.Context, req models.UpdateTickerPriceRequest) error

	// UpdateTickerTarget sets the target weight for all holdings of a ticker.
	UpdateTickerTarget(ctx context.Context, req models.UpdateTickerTargetRequest) error

	// UpdateCash sets an account's real cash balance.
	UpdateCash(ctx context.Context, req models.UpdateCashRequest) error

	// UpdateCashTarget sets the portfolio-wide cash target percentage.
	UpdateCashTarget(ctx context.Context, req models.UpdateCashTargetRequest) error

	// DeleteHolding removes a holding (value folds into account cash).
	DeleteHolding(ctx context.Context, req models.DeleteHoldingRequest) error

	// AddHolding creates a new holding.
	AddHolding(ctx context.Context, req models.AddHoldingRequest) error

	// ImportCSV uploads a CSV and re-imports all portfolio data.
	ImportCSV(ctx context.Context, filename string, r io.Reader) (*models.ImportCSVResponse, error)
}

package interfaces

import (
	"context"

	"github.com/edforrester/folio/internal/models"
)

// DepositStore owns the locally persisted deposit-simulation overlay.
// Absence of an entry means a zero simulated deposit.
type DepositStore interface {
	// Get returns the simulated deposit for an account (zero when absent).
	Get(ctx context.Context, account string) (float64, error)

	// Set stores a simulated deposit. Negative amounts coerce to zero.
	Set(ctx context.Context, account string, amount float64) error

	// All returns every nonzero deposit entry.
	All(ctx context.Context) ([]models.DepositEntry, error)

	// Deposits returns the account → amount map for the adjusted-snapshot request.
	Deposits(ctx context.Context) (map[string]float64, error)

	// Total returns the sum of all simulated deposits.
	Total(ctx context.Context) (float64, error)

	// Clear removes every deposit entry.
	Clear(ctx context.Context) error

	Close() error
}

package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/edforrester/folio/internal/common"
	"github.com/edforrester/folio/internal/interfaces"
	"github.com/edforrester/folio/internal/models"
)

// ViewModel is the unified result of one reload: the baseline snapshot, the
// deposit-adjusted snapshot, and the overlay that produced it. When no
// deposits are simulated the two snapshots are the same object.
//
// Panel routing: the holdings table, per-account actions, and funding
// requirements read the adjusted snapshot; the cash-balances panel reads the
// baseline one so the user compares real against simulated cash.
type ViewModel struct {
	Baseline *models.Snapshot
	Adjusted *models.Snapshot
	Deposits map[string]float64

	Generation uint64
	LoadedAt   time.Time
}

// Table returns the snapshot backing the holdings table and action panels.
func (vm *ViewModel) Table() *models.Snapshot {
	return vm.Adjusted
}

// CashBalances returns the real (baseline) per-account cash figures.
func (vm *ViewModel) CashBalances() map[string]float64 {
	return vm.Baseline.CashBalances
}

// Simulating reports whether any deposit simulation is active.
func (vm *ViewModel) Simulating() bool {
	return len(vm.Deposits) > 0
}

// Loader orchestrates the two-snapshot fetch driven by the deposit overlay.
// Reloads are not de-duplicated; instead each carries a monotonic generation
// and a stale in-flight reload can never replace a newer committed one.
type Loader struct {
	client   interfaces.RebalanceClient
	deposits interfaces.DepositStore
	logger   *common.Logger

	mu      sync.Mutex
	nextGen uint64
	current *ViewModel
}

// NewLoader creates a loader.
func NewLoader(client interfaces.RebalanceClient, deposits interfaces.DepositStore, logger *common.Logger) *Loader {
	return &Loader{
		client:   client,
		deposits: deposits,
		logger:   logger,
	}
}

// Current returns the last committed view model, or nil before the first load.
func (l *Loader) Current() *ViewModel {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

// Load performs one full reload. With no simulated deposits only the baseline
// snapshot is fetched and serves every panel; otherwise baseline and adjusted
// are fetched concurrently and a failure of either fails the whole reload.
func (l *Loader) Load(ctx context.Context) (*ViewModel, error) {
	l.mu.Lock()
	l.nextGen++
	gen := l.nextGen
	l.mu.Unlock()

	deposits, err := l.deposits.Deposits(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read deposit overlay: %w", err)
	}

	var total float64
	for _, amount := range deposits {
		total += amount
	}

	vm := &ViewModel{
		Deposits:   deposits,
		Generation: gen,
		LoadedAt:   time.Now(),
	}

	if total == 0 {
		snapshot, err := l.client.GetPortfolio(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load portfolio: %w", err)
		}
		vm.Baseline = snapshot
		vm.Adjusted = snapshot
	} else {
		baseline, adjusted, err := l.loadBoth(ctx, deposits)
		if err != nil {
			return nil, err
		}
		vm.Baseline = baseline
		vm.Adjusted = adjusted
	}

	committed := l.commit(vm)
	if !committed {
		l.logger.Debug().Uint64("generation", gen).Msg("Stale reload discarded")
		return l.Current(), nil
	}

	l.logger.Info().
		Uint64("generation", gen).
		Int("holdings", len(vm.Adjusted.Holdings)).
		Bool("simulating", vm.Simulating()).
		Msg("Portfolio loaded")
	return vm, nil
}

// loadBoth fetches the baseline and adjusted snapshots concurrently.
func (l *Loader) loadBoth(ctx context.Context, deposits map[string]float64) (*models.Snapshot, *models.Snapshot, error) {
	var (
		wg          sync.WaitGroup
		baseline    *models.Snapshot
		adjusted    *models.Snapshot
		baseErr     error
		adjustedErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		baseline, baseErr = l.client.GetPortfolio(ctx)
	}()
	go func() {
		defer wg.Done()
		adjusted, adjustedErr = l.client.GetPortfolioWithDeposits(ctx, deposits)
	}()
	wg.Wait()

	if baseErr != nil {
		return nil, nil, fmt.Errorf("failed to load portfolio: %w", baseErr)
	}
	if adjustedErr != nil {
		return nil, nil, fmt.Errorf("failed to load deposit-adjusted portfolio: %w", adjustedErr)
	}
	return baseline, adjusted, nil
}

// commit installs vm unless a newer generation already landed.
func (l *Loader) commit(vm *ViewModel) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.current != nil && l.current.Generation > vm.Generation {
		return false
	}
	l.current = vm
	return true
}

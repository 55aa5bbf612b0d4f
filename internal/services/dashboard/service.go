package dashboard

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/edforrester/folio/internal/common"
	"github.com/edforrester/folio/internal/interfaces"
	"github.com/edforrester/folio/internal/models"
)

// Service owns the dashboard state: filter/sort criteria, expand state, the
// loader, and the edit controllers. Successful edits never patch state
// locally; every commit path ends in a full reload.
type Service struct {
	client   interfaces.RebalanceClient
	deposits interfaces.DepositStore
	logger   *common.Logger

	loader     *Loader
	editor     *Controller
	cashEditor *CashBalanceEditor

	mu       sync.Mutex
	criteria Criteria
	expanded map[string]bool
}

// NewService creates the dashboard service. notify surfaces edit notices;
// nil discards them.
func NewService(client interfaces.RebalanceClient, deposits interfaces.DepositStore, logger *common.Logger, notify NotifyFunc) *Service {
	s := &Service{
		client:   client,
		deposits: deposits,
		logger:   logger,
		criteria: DefaultCriteria(),
		expanded: make(map[string]bool),
	}
	s.loader = NewLoader(client, deposits, logger)
	reload := func(ctx context.Context) error {
		_, err := s.loader.Load(ctx)
		return err
	}
	s.editor = NewController(client, logger, reload, notify)
	s.cashEditor = NewCashBalanceEditor(client, logger, reload, notify)
	return s
}

// Editor returns the inline-edit controller.
func (s *Service) Editor() *Controller {
	return s.editor
}

// CashEditor returns the debounced cash-balance editor.
func (s *Service) CashEditor() *CashBalanceEditor {
	return s.cashEditor
}

// Reload runs the full load pipeline and returns the fresh view model.
func (s *Service) Reload(ctx context.Context) (*ViewModel, error) {
	return s.loader.Load(ctx)
}

// Current returns the last loaded view model, loading once if needed.
func (s *Service) Current(ctx context.Context) (*ViewModel, error) {
	if vm := s.loader.Current(); vm != nil {
		return vm, nil
	}
	return s.loader.Load(ctx)
}

// View projects the current criteria over the loaded data. The table reads
// the adjusted snapshot; cash panels read the baseline one via the view model.
func (s *Service) View(ctx context.Context) (*ViewModel, models.TableView, error) {
	vm, err := s.Current(ctx)
	if err != nil {
		return nil, models.TableView{}, err
	}

	s.mu.Lock()
	criteria := s.criteria
	expanded := make(map[string]bool, len(s.expanded))
	for k, v := range s.expanded {
		expanded[k] = v
	}
	s.mu.Unlock()

	return vm, Project(vm.Table(), criteria, expanded), nil
}

// Criteria returns the current filter/sort criteria.
func (s *Service) Criteria() Criteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.criteria
}

// SetAccountFilter selects an exact composite account label, or FilterAll.
func (s *Service) SetAccountFilter(account string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if account == "" {
		account = FilterAll
	}
	s.criteria.Account = account
}

// SetAssetTypeFilter selects an asset-type code, or FilterAll.
func (s *Service) SetAssetTypeFilter(assetType string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if assetType == "" {
		assetType = FilterAll
	}
	s.criteria.AssetType = assetType
}

// SortBy applies a sort-column selection with toggle semantics: the current
// column flips direction, a new column starts descending.
func (s *Service) SortBy(column SortColumn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria.Sort = s.criteria.Sort.Toggle(column)
}

// SetSort sets an explicit sort column and direction, bypassing toggle
// semantics. Used by non-interactive callers.
func (s *Service) SetSort(column SortColumn, direction SortDirection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if direction != SortAsc {
		direction = SortDesc
	}
	s.criteria.Sort = SortSpec{Column: column, Direction: direction}
}

// ClearSort restores grouped, alphabetical-within-bucket ordering.
func (s *Service) ClearSort() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria.Sort = SortSpec{}
}

// ToggleExpand flips a multi-account ticker's expand state and returns the
// new state. Tickers default to collapsed.
func (s *Service) ToggleExpand(ticker string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expanded[ticker] = !s.expanded[ticker]
	return s.expanded[ticker]
}

// CollapseAll resets every ticker to collapsed.
func (s *Service) CollapseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expanded = make(map[string]bool)
}

// SetDeposit stores a simulated deposit for an account and reloads.
func (s *Service) SetDeposit(ctx context.Context, account string, amount float64) (*ViewModel, error) {
	if err := s.deposits.Set(ctx, account, amount); err != nil {
		return nil, err
	}
	return s.loader.Load(ctx)
}

// ClearDeposits empties the deposit overlay and reloads.
func (s *Service) ClearDeposits(ctx context.Context) (*ViewModel, error) {
	if err := s.deposits.Clear(ctx); err != nil {
		return nil, err
	}
	return s.loader.Load(ctx)
}

// RefreshPrices triggers a server-side live price refresh and reloads.
func (s *Service) RefreshPrices(ctx context.Context) (int, error) {
	updated, err := s.client.RefreshPrices(ctx)
	if err != nil {
		return 0, err
	}
	s.logger.Info().Int("updated", updated).Msg("Prices refreshed")
	if _, err := s.loader.Load(ctx); err != nil {
		return updated, err
	}
	return updated, nil
}

// PriceSources returns the per-ticker price source labels and URLs.
func (s *Service) PriceSources(ctx context.Context) (map[string]models.PriceSource, error) {
	return s.client.GetPriceSources(ctx)
}

// AddHolding creates a holding and reloads.
func (s *Service) AddHolding(ctx context.Context, req models.AddHoldingRequest) error {
	if err := s.client.AddHolding(ctx, req); err != nil {
		return err
	}
	_, err := s.loader.Load(ctx)
	return err
}

// DeleteHolding removes a holding (its value folds into account cash
// server-side) and reloads.
func (s *Service) DeleteHolding(ctx context.Context, req models.DeleteHoldingRequest) error {
	if err := s.client.DeleteHolding(ctx, req); err != nil {
		return err
	}
	_, err := s.loader.Load(ctx)
	return err
}

// ImportCSV uploads a CSV, re-imports all portfolio data, and reloads.
func (s *Service) ImportCSV(ctx context.Context, filename string, r io.Reader) (*models.ImportCSVResponse, error) {
	resp, err := s.client.ImportCSV(ctx, filename, r)
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Int("holdings", resp.HoldingsCount).
		Int("accounts", resp.AccountsCount).
		Msg("CSV imported")
	if _, err := s.loader.Load(ctx); err != nil {
		return resp, err
	}
	return resp, nil
}

// AllocationChart renders the allocation chart for the current adjusted
// snapshot, unfiltered.
func (s *Service) AllocationChart(ctx context.Context) ([]byte, error) {
	vm, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	aggregates := AggregateHoldings(vm.Table().Holdings)
	if len(aggregates) == 0 {
		return nil, fmt.Errorf("portfolio has no holdings")
	}
	return RenderAllocationChart(aggregates)
}

package dashboard

import (
	"context"
	"io"
	"sync"

	"github.com/edforrester/folio/internal/common"
	"github.com/edforrester/folio/internal/models"
)

// fakeClient implements interfaces.RebalanceClient with overridable handlers.
// Every call records its endpoint name so tests can assert on traffic.
type fakeClient struct {
	mu    sync.Mutex
	calls []string

	getPortfolio       func(ctx context.Context) (*models.Snapshot, error)
	getWithDeposits    func(ctx context.Context, deposits map[string]float64) (*models.Snapshot, error)
	updateHolding      func(ctx context.Context, req models.UpdateHoldingRequest) error
	updateTickerValue  func(ctx context.Context, req models.UpdateTickerValueRequest) error
	updateTickerPrice  func(ctx context.Context, req models.UpdateTickerPriceRequest) error
	updateTickerTarget func(ctx context.Context, req models.UpdateTickerTargetRequest) error
	updateCash         func(ctx context.Context, req models.UpdateCashRequest) error
	updateCashTarget   func(ctx context.Context, req models.UpdateCashTargetRequest) error
	deleteHolding      func(ctx context.Context, req models.DeleteHoldingRequest) error
	addHolding         func(ctx context.Context, req models.AddHoldingRequest) error
	refreshPrices      func(ctx context.Context) (int, error)
	priceSources       func(ctx context.Context) (map[string]models.PriceSource, error)
	importCSV          func(ctx context.Context, filename string, r io.Reader) (*models.ImportCSVResponse, error)
}

func (f *fakeClient) record(endpoint string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, endpoint)
}

func (f *fakeClient) callCount(endpoint string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == endpoint {
			n++
		}
	}
	return n
}

func (f *fakeClient) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeClient) GetPortfolio(ctx context.Context) (*models.Snapshot, error) {
	f.record("portfolio")
	if f.getPortfolio != nil {
		return f.getPortfolio(ctx)
	}
	return &models.Snapshot{}, nil
}

func (f *fakeClient) GetPortfolioWithDeposits(ctx context.Context, deposits map[string]float64) (*models.Snapshot, error) {
	f.record("portfolio-with-deposits")
	if f.getWithDeposits != nil {
		return f.getWithDeposits(ctx, deposits)
	}
	return &models.Snapshot{}, nil
}

func (f *fakeClient) GetPriceSources(ctx context.Context) (map[string]models.PriceSource, error) {
	f.record("price-sources")
	if f.priceSources != nil {
		return f.priceSources(ctx)
	}
	return map[string]models.PriceSource{}, nil
}

func (f *fakeClient) RefreshPrices(ctx context.Context) (int, error) {
	f.record("refresh-prices")
	if f.refreshPrices != nil {
		return f.refreshPrices(ctx)
	}
	return 0, nil
}

func (f *fakeClient) UpdateHolding(ctx context.Context, req models.UpdateHoldingRequest) error {
	f.record("holdings/update")
	if f.updateHolding != nil {
		return f.updateHolding(ctx, req)
	}
	return nil
}

func (f *fakeClient) UpdateTickerValue(ctx context.Context, req models.UpdateTickerValueRequest) error {
	f.record("holdings/update-ticker-value")
	if f.updateTickerValue != nil {
		return f.updateTickerValue(ctx, req)
	}
	return nil
}

func (f *fakeClient) UpdateTickerPrice(ctx context.Context, req models.UpdateTickerPriceRequest) error {
	f.record("holdings/update-ticker-price")
	if f.updateTickerPrice != nil {
		return f.updateTickerPrice(ctx, req)
	}
	return nil
}

func (f *fakeClient) UpdateTickerTarget(ctx context.Context, req models.UpdateTickerTargetRequest) error {
	f.record("holdings/update-ticker-target")
	if f.updateTickerTarget != nil {
		return f.updateTickerTarget(ctx, req)
	}
	return nil
}

func (f *fakeClient) UpdateCash(ctx context.Context, req models.UpdateCashRequest) error {
	f.record("cash/update")
	if f.updateCash != nil {
		return f.updateCash(ctx, req)
	}
	return nil
}

func (f *fakeClient) UpdateCashTarget(ctx context.Context, req models.UpdateCashTargetRequest) error {
	f.record("cash-target/update")
	if f.updateCashTarget != nil {
		return f.updateCashTarget(ctx, req)
	}
	return nil
}

func (f *fakeClient) DeleteHolding(ctx context.Context, req models.DeleteHoldingRequest) error {
	f.record("holdings/delete")
	if f.deleteHolding != nil {
		return f.deleteHolding(ctx, req)
	}
	return nil
}

func (f *fakeClient) AddHolding(ctx context.Context, req models.AddHoldingRequest) error {
	f.record("holdings/add")
	if f.addHolding != nil {
		return f.addHolding(ctx, req)
	}
	return nil
}

func (f *fakeClient) ImportCSV(ctx context.Context, filename string, r io.Reader) (*models.ImportCSVResponse, error) {
	f.record("import-csv")
	if f.importCSV != nil {
		return f.importCSV(ctx, filename, r)
	}
	return &models.ImportCSVResponse{}, nil
}

// fakeDeposits is an in-memory DepositStore.
type fakeDeposits struct {
	mu       sync.Mutex
	deposits map[string]float64
}

func newFakeDeposits(deposits map[string]float64) *fakeDeposits {
	if deposits == nil {
		deposits = make(map[string]float64)
	}
	return &fakeDeposits{deposits: deposits}
}

func (f *fakeDeposits) Get(_ context.Context, account string) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deposits[account], nil
}

func (f *fakeDeposits) Set(_ context.Context, account string, amount float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if amount <= 0 {
		delete(f.deposits, account)
		return nil
	}
	f.deposits[account] = amount
	return nil
}

func (f *fakeDeposits) All(_ context.Context) ([]models.DepositEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries := make([]models.DepositEntry, 0, len(f.deposits))
	for account, amount := range f.deposits {
		entries = append(entries, models.DepositEntry{Account: account, Amount: amount})
	}
	return entries, nil
}

func (f *fakeDeposits) Deposits(_ context.Context) (map[string]float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]float64, len(f.deposits))
	for account, amount := range f.deposits {
		out[account] = amount
	}
	return out, nil
}

func (f *fakeDeposits) Total(_ context.Context) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var total float64
	for _, amount := range f.deposits {
		total += amount
	}
	return total, nil
}

func (f *fakeDeposits) Clear(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deposits = make(map[string]float64)
	return nil
}

func (f *fakeDeposits) Close() error { return nil }

func testLogger() *common.Logger {
	return common.NewSilentLogger()
}

// holding builds a minimal holding for aggregation tests.
func holding(ticker, account, owner string, assetType models.AssetType, value, weight, target float64) models.Holding {
	return models.Holding{
		Ticker:        ticker,
		Name:          ticker + " Fund",
		Account:       account,
		Owner:         owner,
		AssetType:     assetType,
		CurrentValue:  value,
		CurrentWeight: weight,
		TargetWeight:  target,
	}
}

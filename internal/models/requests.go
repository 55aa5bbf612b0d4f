package models

// Request and response bodies for the rebalance server API.
// One typed struct per endpoint; validated at the client boundary.

// DepositsRequest carries simulated deposits for the adjusted-snapshot endpoint.
type DepositsRequest struct {
	Deposits map[string]float64 `json:"deposits"`
}

// UpdateHoldingRequest updates fields of a single holding.
type UpdateHoldingRequest struct {
	Ticker  string             `json:"ticker"`
	Account string             `json:"account"`
	Owner   string             `json:"owner"`
	Updates map[string]float64 `json:"updates"`
}

// UpdateTickerValueRequest sets a ticker's total value; the server
// redistributes it proportionally across that ticker's holdings.
type UpdateTickerValueRequest struct {
	Ticker   string  `json:"ticker"`
	NewValue float64 `json:"new_value"`
}

// UpdateTickerPriceRequest sets the unit price for all holdings of a ticker.
type UpdateTickerPriceRequest struct {
	Ticker   string  `json:"ticker"`
	NewPrice float64 `json:"new_price"`
}

// UpdateTickerTargetRequest sets the target weight for all holdings of a ticker.
type UpdateTickerTargetRequest struct {
	Ticker    string  `json:"ticker"`
	NewTarget float64 `json:"new_target"`
}

// UpdateCashRequest sets the real cash balance of an account.
type UpdateCashRequest struct {
	Account string  `json:"account"`
	Amount  float64 `json:"amount"`
}

// UpdateCashTargetRequest sets the portfolio-wide cash target percentage.
type UpdateCashTargetRequest struct {
	TargetPct float64 `json:"target_percentage"`
}

// DeleteHoldingRequest removes a holding; the server folds its value into cash.
type DeleteHoldingRequest struct {
	Ticker  string `json:"ticker"`
	Account string `json:"account"`
	Owner   string `json:"owner"`
}

// AddHoldingRequest creates a new holding.
type AddHoldingRequest struct {
	Owner        string    `json:"owner"`
	Account      string    `json:"account"`
	AssetType    AssetType `json:"asset_type"`
	Ticker       string    `json:"ticker"`
	Name         string    `json:"name"`
	Quantity     float64   `json:"quantity"`
	LastPrice    float64   `json:"last_price"`
	BookCost     float64   `json:"book_cost"`
	TargetWeight float64   `json:"target_weight"`
}

// StatusResponse is the generic success/failure body for write endpoints.
type StatusResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// RefreshPricesResponse reports how many holdings were repriced.
type RefreshPricesResponse struct {
	Updated int `json:"updated"`
}

// ImportCSVResponse reports the result of a CSV re-import.
type ImportCSVResponse struct {
	HoldingsCount int    `json:"holdings_count"`
	AccountsCount int    `json:"accounts_count"`
	Error         string `json:"error,omitempty"`
}

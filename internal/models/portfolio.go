// Package models defines data structures for folio
package models

import "time"

// AssetType is one of the four coarse display categories.
type AssetType string

const (
	AssetTypeEquity      AssetType = "EQ"
	AssetTypeMultiAsset  AssetType = "MA"
	AssetTypeFixedIncome AssetType = "FI"
	AssetTypeAlternative AssetType = "AA"
)

// AssetTypeOrder is the fixed display order for asset-type buckets.
var AssetTypeOrder = []AssetType{
	AssetTypeEquity,
	AssetTypeMultiAsset,
	AssetTypeFixedIncome,
	AssetTypeAlternative,
}

// DisplayName returns the human-readable bucket label.
func (a AssetType) DisplayName() string {
	switch a {
	case AssetTypeEquity:
		return "Equities"
	case AssetTypeMultiAsset:
		return "Multi Asset"
	case AssetTypeFixedIncome:
		return "Fixed Income"
	case AssetTypeAlternative:
		return "Alternatives"
	default:
		return string(a)
	}
}

// OwnerName maps an owner code to its display name.
// Any code other than "EF" maps to Lucy Forrester, matching the server.
func OwnerName(owner string) string {
	if owner == "EF" {
		return "Ed Forrester"
	}
	return "Lucy Forrester"
}

// FullAccountName returns the composite account label, e.g. "Ed Forrester SIPP".
func FullAccountName(owner, account string) string {
	return OwnerName(owner) + " " + account
}

// Holding represents a single investment position in one account.
type Holding struct {
	Owner         string    `json:"owner"`
	AssetType     AssetType `json:"asset_type"`
	Account       string    `json:"account"`
	Ticker        string    `json:"ticker"`
	Name          string    `json:"name"`
	Quantity      float64   `json:"quantity"`
	LastPrice     float64   `json:"last_price"`
	BookCost      float64   `json:"book_cost"`
	CurrentValue  float64   `json:"current_value"`
	CurrentWeight float64   `json:"current_weight"`
	TargetWeight  float64   `json:"target_weight"`
	AutoPriced    bool      `json:"auto_priced,omitempty"`
	PriceUpdated  time.Time `json:"price_updated,omitempty"`
	PLPct         float64   `json:"pl_pct,omitempty"`
}

// FullAccount returns the composite owner+account label for this holding.
func (h Holding) FullAccount() string {
	return FullAccountName(h.Owner, h.Account)
}

// EffectiveAssetType returns the holding's asset type, defaulting to EQ when absent.
func (h Holding) EffectiveAssetType() AssetType {
	if h.AssetType == "" {
		return AssetTypeEquity
	}
	return h.AssetType
}

// RebalanceAdjustment is a server-computed per-ticker rebalancing recommendation.
type RebalanceAdjustment struct {
	Ticker          string   `json:"ticker"`
	Name            string   `json:"name"`
	CurrentValue    float64  `json:"current_value"`
	TargetValue     float64  `json:"target_value"`
	AdjustmentValue float64  `json:"adjustment_value"`
	CurrentWeight   float64  `json:"current_weight"`
	TargetWeight    float64  `json:"target_weight"`
	AdjustmentPct   float64  `json:"adjustment_pct"`
	Action          string   `json:"action"` // "BUY" or "SELL"
	HeldInAccounts  []string `json:"held_in_accounts"`
}

// AccountAction is a server-computed buy or sell for one account.
type AccountAction struct {
	Action string  `json:"action"` // "BUY" or "SELL"
	Ticker string  `json:"ticker"`
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
}

// DefaultCashTargetPct is used when the server omits a cash target.
const DefaultCashTargetPct = 7.6

// Snapshot is one server-computed portfolio analysis.
// The client treats it as immutable for the lifetime of a load cycle.
type Snapshot struct {
	TotalValue       float64                    `json:"total_value"`
	TotalCash        float64                    `json:"total_cash"`
	CashBalances     map[string]float64         `json:"cash_balances"`
	CashTargetPct    float64                    `json:"cash_target_percentage"`
	Holdings         []Holding                  `json:"holdings"`
	Adjustments      []RebalanceAdjustment      `json:"adjustments"`
	AccountActions   map[string][]AccountAction `json:"account_actions"`
	AccountCashNeeds map[string]float64         `json:"account_cash_needs"`
}

// EffectiveCashTargetPct returns the cash target, defaulting when absent.
func (s *Snapshot) EffectiveCashTargetPct() float64 {
	if s.CashTargetPct == 0 {
		return DefaultCashTargetPct
	}
	return s.CashTargetPct
}

// DepositEntry is a locally persisted simulated deposit for one account.
type DepositEntry struct {
	Account   string    `json:"account" badgerhold:"key"`
	Amount    float64   `json:"amount"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PriceSource describes where a ticker's live price comes from.
type PriceSource struct {
	Source string `json:"source"`
	URL    string `json:"url"`
}

// Package dashboard implements the presentation/state engine for the
// portfolio dashboard: aggregation, filter/sort projection, the inline-edit
// lifecycle, and the deposit-simulation overlay.
package dashboard

import (
	"sort"

	"github.com/edforrester/folio/internal/models"
)

// AggregateHoldings groups holdings into per-ticker rollups ordered by
// asset-type bucket (Equities, Multi Asset, Fixed Income, Alternatives) and
// alphabetically by ticker within each bucket.
//
// Combination rules:
//   - current value, book cost, quantity, current weight: summed
//   - target weight: maximum across constituents (the target is a single
//     per-ticker design value that may be stored redundantly per account;
//     max recovers it while tolerating inconsistent duplicates)
//   - asset type and name: taken from the first holding encountered; later
//     holdings of the same ticker with a different asset type are not
//     reconciled
func AggregateHoldings(holdings []models.Holding) []models.TickerAggregate {
	byTicker := make(map[string]*models.TickerAggregate)
	var order []string

	for _, h := range holdings {
		agg, ok := byTicker[h.Ticker]
		if !ok {
			agg = &models.TickerAggregate{
				Ticker:    h.Ticker,
				Name:      h.Name,
				AssetType: h.EffectiveAssetType(),
			}
			byTicker[h.Ticker] = agg
			order = append(order, h.Ticker)
		}
		agg.Holdings = append(agg.Holdings, h)
		agg.CurrentValue += h.CurrentValue
		agg.BookCost += h.BookCost
		agg.Quantity += h.Quantity
		agg.CurrentWeight += h.CurrentWeight
		if h.TargetWeight > agg.TargetWeight {
			agg.TargetWeight = h.TargetWeight
		}
	}

	bucketRank := make(map[models.AssetType]int, len(models.AssetTypeOrder))
	for i, at := range models.AssetTypeOrder {
		bucketRank[at] = i
	}
	rank := func(at models.AssetType) int {
		if r, ok := bucketRank[at]; ok {
			return r
		}
		return len(models.AssetTypeOrder) // unknown codes sort last
	}

	result := make([]models.TickerAggregate, 0, len(order))
	for _, ticker := range order {
		result = append(result, *byTicker[ticker])
	}
	sort.SliceStable(result, func(i, j int) bool {
		ri, rj := rank(result[i].AssetType), rank(result[j].AssetType)
		if ri != rj {
			return ri < rj
		}
		return result[i].Ticker < result[j].Ticker
	})
	return result
}

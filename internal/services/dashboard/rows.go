package dashboard

import (
	"github.com/edforrester/folio/internal/models"
)

// BuildRows shapes ordered aggregates into renderable row descriptors.
// Grouped mode emits an asset-type header row before each bucket; flat mode
// (explicit sort column) suppresses headers. Multi-account tickers get an
// expandable summary row and, only when expanded, one detail row per
// constituent holding. Detail rows default to collapsed.
func BuildRows(aggregates []models.TickerAggregate, flat bool, expanded map[string]bool) []models.RowDescriptor {
	rows := make([]models.RowDescriptor, 0, len(aggregates)+len(models.AssetTypeOrder)+2)

	var currentBucket models.AssetType
	haveBucket := false

	for i := range aggregates {
		agg := &aggregates[i]

		if !flat && (!haveBucket || agg.AssetType != currentBucket) {
			currentBucket = agg.AssetType
			haveBucket = true
			rows = append(rows, models.RowDescriptor{
				Kind:      models.RowKindHeader,
				ID:        "hdr:" + string(agg.AssetType),
				AssetType: agg.AssetType,
				Name:      agg.AssetType.DisplayName(),
			})
		}

		rows = append(rows, tickerRow(agg, expanded[agg.Ticker]))

		if agg.MultiAccount() && expanded[agg.Ticker] {
			for _, h := range agg.Holdings {
				rows = append(rows, detailRow(h))
			}
		}
	}

	return rows
}

func tickerRow(agg *models.TickerAggregate, isExpanded bool) models.RowDescriptor {
	row := models.RowDescriptor{
		Kind:          models.RowKindTicker,
		ID:            "tkr:" + agg.Ticker,
		AssetType:     agg.AssetType,
		Ticker:        agg.Ticker,
		Name:          agg.Name,
		Quantity:      agg.Quantity,
		UnitPrice:     agg.UnitPrice(),
		BookCost:      agg.BookCost,
		CurrentValue:  agg.CurrentValue,
		CurrentWeight: agg.CurrentWeight,
		TargetWeight:  agg.TargetWeight,
		PLPct:         agg.PLPct(),
	}
	if agg.MultiAccount() {
		row.Expandable = true
		row.Expanded = isExpanded
	} else if len(agg.Holdings) == 1 {
		row.AccountLabel = agg.Holdings[0].FullAccount()
	}
	return row
}

func detailRow(h models.Holding) models.RowDescriptor {
	return models.RowDescriptor{
		Kind:          models.RowKindDetail,
		ID:            "dtl:" + h.Ticker + ":" + h.Account + ":" + h.Owner,
		AssetType:     h.EffectiveAssetType(),
		Ticker:        h.Ticker,
		Name:          h.Name,
		AccountLabel:  h.FullAccount(),
		Quantity:      h.Quantity,
		UnitPrice:     h.LastPrice,
		BookCost:      h.BookCost,
		CurrentValue:  h.CurrentValue,
		CurrentWeight: h.CurrentWeight,
		TargetWeight:  h.TargetWeight,
		PLPct:         h.PLPct,
	}
}

// CashAndTotalRows returns the cash and grand-total rows for a view. They are
// appended after the holdings rows and always carry unfiltered figures.
func CashAndTotalRows(view models.TableView) []models.RowDescriptor {
	return []models.RowDescriptor{
		{
			Kind:          models.RowKindCash,
			ID:            "cash",
			Name:          "Cash",
			CurrentValue:  view.TotalCash,
			CurrentWeight: cashWeight(view.TotalCash, view.TotalValue),
			TargetWeight:  view.CashTargetPct,
		},
		{
			Kind:         models.RowKindTotal,
			ID:           "total",
			Name:         "Total",
			CurrentValue: view.TotalValue,
		},
	}
}

func cashWeight(totalCash, totalValue float64) float64 {
	if totalValue <= 0 {
		return 0
	}
	return totalCash / totalValue * 100
}

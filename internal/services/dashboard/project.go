package dashboard

import (
	"sort"

	"github.com/edforrester/folio/internal/models"
)

// FilterAll selects every account or asset type.
const FilterAll = "all"

// SortColumn identifies a sortable numeric column.
type SortColumn string

const (
	SortNone     SortColumn = ""
	SortValue    SortColumn = "value"
	SortBookCost SortColumn = "book_cost"
	SortCurrent  SortColumn = "current"
	SortTarget   SortColumn = "target"
	SortPL       SortColumn = "pl"
)

// SortDirection is the sort order for an explicit sort column.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortSpec is the user-chosen column sort. A zero Column means default
// ordering: alphabetical by ticker within asset-type buckets.
type SortSpec struct {
	Column    SortColumn
	Direction SortDirection
}

// Toggle applies a sort-column selection: choosing the current column flips
// the direction, choosing a new column resets to descending.
func (s SortSpec) Toggle(column SortColumn) SortSpec {
	if s.Column == column {
		if s.Direction == SortDesc {
			return SortSpec{Column: column, Direction: SortAsc}
		}
		return SortSpec{Column: column, Direction: SortDesc}
	}
	return SortSpec{Column: column, Direction: SortDesc}
}

// Criteria are the user-chosen projection controls.
type Criteria struct {
	Account   string // FilterAll or an exact composite "owner account" label
	AssetType string // FilterAll or an asset-type code
	Sort      SortSpec
}

// DefaultCriteria returns the initial, unfiltered criteria.
func DefaultCriteria() Criteria {
	return Criteria{Account: FilterAll, AssetType: FilterAll}
}

// FilterHoldings applies account and asset-type filters to raw holdings.
// Filtering happens before re-aggregation so multi-account tickers collapse
// correctly per filter.
func FilterHoldings(holdings []models.Holding, c Criteria) []models.Holding {
	filtered := make([]models.Holding, 0, len(holdings))
	for _, h := range holdings {
		if c.Account != "" && c.Account != FilterAll && h.FullAccount() != c.Account {
			continue
		}
		if c.AssetType != "" && c.AssetType != FilterAll && string(h.EffectiveAssetType()) != c.AssetType {
			continue
		}
		filtered = append(filtered, h)
	}
	return filtered
}

func sortKey(column SortColumn) func(a *models.TickerAggregate) float64 {
	switch column {
	case SortValue:
		return func(a *models.TickerAggregate) float64 { return a.CurrentValue }
	case SortBookCost:
		return func(a *models.TickerAggregate) float64 { return a.BookCost }
	case SortCurrent:
		return func(a *models.TickerAggregate) float64 { return a.CurrentWeight }
	case SortTarget:
		return func(a *models.TickerAggregate) float64 { return a.TargetWeight }
	case SortPL:
		return func(a *models.TickerAggregate) float64 { return a.PLPct() }
	default:
		return nil
	}
}

// Project derives the renderable table view for one snapshot and criteria set.
// The holdings subtotals cover the filtered set only; the cash and grand-total
// rows always carry the unfiltered, server-reported figures.
func Project(snapshot *models.Snapshot, c Criteria, expanded map[string]bool) models.TableView {
	filtered := FilterHoldings(snapshot.Holdings, c)
	aggregates := AggregateHoldings(filtered)

	flat := c.Sort.Column != SortNone
	if flat {
		key := sortKey(c.Sort.Column)
		asc := c.Sort.Direction == SortAsc
		// Stable sort: ties keep the order the aggregation produced.
		sort.SliceStable(aggregates, func(i, j int) bool {
			if asc {
				return key(&aggregates[i]) < key(&aggregates[j])
			}
			return key(&aggregates[i]) > key(&aggregates[j])
		})
	}

	var subtotals models.Subtotals
	for i := range aggregates {
		subtotals.Value += aggregates[i].CurrentValue
		subtotals.BookCost += aggregates[i].BookCost
		subtotals.Weight += aggregates[i].CurrentWeight
	}

	return models.TableView{
		Rows:          BuildRows(aggregates, flat, expanded),
		Flat:          flat,
		Subtotals:     subtotals,
		TotalCash:     snapshot.TotalCash,
		CashTargetPct: snapshot.EffectiveCashTargetPct(),
		TotalValue:    snapshot.TotalValue,
	}
}

package models

// RowKind discriminates the rows handed to a table renderer.
type RowKind string

const (
	RowKindHeader RowKind = "header" // asset-type bucket header
	RowKindTicker RowKind = "ticker" // per-ticker summary
	RowKindDetail RowKind = "detail" // per-holding detail under an expanded ticker
	RowKindCash   RowKind = "cash"   // portfolio-wide cash row
	RowKindTotal  RowKind = "total"  // grand total row
)

// RowDescriptor is one renderable table row. Renderers dispatch on Kind and
// on ID for row-level interactions; no callbacks are attached to rows.
type RowDescriptor struct {
	Kind RowKind
	ID   string // stable row identity: "hdr:EQ", "tkr:VJPN", "dtl:VJPN:ISA:EF", "cash", "total"

	AssetType AssetType // header and ticker rows
	Ticker    string
	Name      string

	// AccountLabel holds the composite account label for single-account
	// ticker rows and detail rows; empty for multi-account summaries.
	AccountLabel string
	Expandable   bool // multi-account ticker rows only
	Expanded     bool

	Quantity      float64
	UnitPrice     float64
	BookCost      float64
	CurrentValue  float64
	CurrentWeight float64
	TargetWeight  float64
	PLPct         float64
}

// Subtotals are recomputed over the filtered holdings set only.
type Subtotals struct {
	Value    float64
	BookCost float64
	Weight   float64
}

// TableView is the projected, renderable output for one criteria set.
type TableView struct {
	Rows      []RowDescriptor
	Flat      bool // explicit sort column set; header rows suppressed
	Subtotals Subtotals

	// Cash figures are always the unfiltered, server-reported values,
	// even when the holdings subtotals above them are filtered.
	TotalCash     float64
	CashTargetPct float64
	TotalValue    float64
}

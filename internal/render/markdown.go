// Package render turns projected dashboard views into markdown and terminal
// output. It is one consumer of the row-descriptor contract; the engine in
// services/dashboard knows nothing about presentation.
package render

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	md "github.com/nao1215/markdown"

	"github.com/edforrester/folio/internal/common"
	"github.com/edforrester/folio/internal/models"
	"github.com/edforrester/folio/internal/services/dashboard"
)

var holdingsHeader = []string{
	"Ticker", "Name", "Account", "Qty", "Price", "Book Cost", "Value", "Current %", "Target %", "P/L %",
}

// Dashboard renders the full dashboard document as markdown.
func Dashboard(vm *dashboard.ViewModel, view models.TableView, deposits map[string]float64) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Portfolio Dashboard")
	writeOverview(doc, view, vm)
	writeHoldings(doc, view)
	writeCashBalances(doc, vm, deposits)
	writeAdjustments(doc, vm.Table().Adjustments)
	writeAccountActions(doc, vm.Table().AccountActions, vm.CashBalances())
	writeFundingNeeds(doc, vm.Table().AccountCashNeeds)

	return doc.String()
}

func writeOverview(doc *md.Markdown, view models.TableView, vm *dashboard.ViewModel) {
	rows := [][]string{
		{"Total Portfolio Value", common.FormatCurrency(view.TotalValue)},
		{"Total Cash", common.FormatCurrency(view.TotalCash)},
		{"Cash Target", common.FormatPercent(view.CashTargetPct)},
	}
	if vm.Simulating() {
		rows = append(rows, []string{"Deposit Simulation", "active"})
	}
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Overview", ""},
		Rows:      rows,
	})
}

func writeHoldings(doc *md.Markdown, view models.TableView) {
	doc.H2("Holdings")

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft, md.AlignLeft, md.AlignLeft,
			md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight,
			md.AlignRight, md.AlignRight, md.AlignRight,
		},
		Header: holdingsHeader,
	}

	for _, row := range view.Rows {
		switch row.Kind {
		case models.RowKindHeader:
			table.Rows = append(table.Rows, headerCells(row))
		case models.RowKindTicker:
			table.Rows = append(table.Rows, tickerCells(row))
		case models.RowKindDetail:
			table.Rows = append(table.Rows, detailCells(row))
		}
	}

	table.Rows = append(table.Rows, subtotalCells(view.Subtotals))
	for _, row := range dashboard.CashAndTotalRows(view) {
		table.Rows = append(table.Rows, fixedCells(row))
	}

	doc.Table(table)
}

func headerCells(row models.RowDescriptor) []string {
	return []string{md.Bold(row.Name), "", "", "", "", "", "", "", "", ""}
}

func tickerCells(row models.RowDescriptor) []string {
	account := row.AccountLabel
	if row.Expandable {
		if row.Expanded {
			account = "(multiple, expanded)"
		} else {
			account = "(multiple)"
		}
	}
	return []string{
		row.Ticker,
		row.Name,
		account,
		common.FormatQuantity(row.Quantity),
		common.FormatCurrency(row.UnitPrice),
		common.FormatCurrency(row.BookCost),
		common.FormatCurrency(row.CurrentValue),
		common.FormatPercent(row.CurrentWeight),
		common.FormatPercent(row.TargetWeight),
		common.FormatSignedPercent(row.PLPct),
	}
}

func detailCells(row models.RowDescriptor) []string {
	return []string{
		"  · " + row.Ticker,
		"",
		row.AccountLabel,
		common.FormatQuantity(row.Quantity),
		common.FormatCurrency(row.UnitPrice),
		common.FormatCurrency(row.BookCost),
		common.FormatCurrency(row.CurrentValue),
		common.FormatPercent(row.CurrentWeight),
		common.FormatPercent(row.TargetWeight),
		common.FormatSignedPercent(row.PLPct),
	}
}

func subtotalCells(sub models.Subtotals) []string {
	return []string{
		md.Bold("Subtotal"), "", "", "", "",
		common.FormatCurrency(sub.BookCost),
		common.FormatCurrency(sub.Value),
		common.FormatPercent(sub.Weight),
		"", "",
	}
}

func fixedCells(row models.RowDescriptor) []string {
	cells := []string{
		md.Bold(row.Name), "", "", "", "", "",
		common.FormatCurrency(row.CurrentValue),
		"", "", "",
	}
	if row.Kind == models.RowKindCash {
		cells[7] = common.FormatPercent(row.CurrentWeight)
		cells[8] = common.FormatPercent(row.TargetWeight)
	}
	return cells
}

func writeCashBalances(doc *md.Markdown, vm *dashboard.ViewModel, deposits map[string]float64) {
	doc.H2("Cash Balances")

	accounts := make([]string, 0, len(vm.CashBalances()))
	for account := range vm.CashBalances() {
		accounts = append(accounts, account)
	}
	sort.Strings(accounts)

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight},
		Header:    []string{"Account", "Cash", "Simulated Deposit"},
	}
	for _, account := range accounts {
		simulated := ""
		if amount, ok := deposits[account]; ok && amount > 0 {
			simulated = common.FormatCurrency(amount)
		}
		table.Rows = append(table.Rows, []string{
			account,
			common.FormatCurrency(vm.CashBalances()[account]),
			simulated,
		})
	}
	doc.Table(table)
}

func writeAdjustments(doc *md.Markdown, adjustments []models.RebalanceAdjustment) {
	doc.H2("Rebalancing Recommendations")

	if len(adjustments) == 0 {
		doc.PlainText("Portfolio is well balanced. No significant adjustments needed.")
		return
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft, md.AlignLeft, md.AlignLeft,
			md.AlignRight, md.AlignRight, md.AlignRight,
			md.AlignRight, md.AlignRight,
		},
		Header: []string{"Action", "Ticker", "Name", "Current", "Target", "Adjust", "Current %", "Target %"},
	}
	for _, adj := range adjustments {
		table.Rows = append(table.Rows, []string{
			adj.Action,
			adj.Ticker,
			adj.Name,
			common.FormatCurrency(adj.CurrentValue),
			common.FormatCurrency(adj.TargetValue),
			common.FormatCurrency(adj.AdjustmentValue),
			common.FormatPercent(adj.CurrentWeight),
			common.FormatPercent(adj.TargetWeight),
		})
	}
	doc.Table(table)
}

func writeAccountActions(doc *md.Markdown, actions map[string][]models.AccountAction, cash map[string]float64) {
	doc.H2("Actions by Account")

	accounts := make([]string, 0, len(actions))
	for account := range actions {
		accounts = append(accounts, account)
	}
	sort.Strings(accounts)

	for _, account := range accounts {
		if len(actions[account]) == 0 {
			continue
		}
		doc.H3(account)
		doc.PlainText(fmt.Sprintf("Current cash: %s", common.FormatCurrency(cash[account])))

		var lines []string
		for _, action := range actions[account] {
			lines = append(lines, fmt.Sprintf("%s %s of %s (%s)",
				action.Action,
				common.FormatCurrency(absValue(action)),
				action.Ticker,
				action.Name,
			))
		}
		doc.BulletList(lines...)
	}
}

func writeFundingNeeds(doc *md.Markdown, needs map[string]float64) {
	doc.H2("Account Funding Requirements")

	if len(needs) == 0 {
		doc.PlainText("All accounts have sufficient cash for rebalancing.")
		return
	}

	accounts := make([]string, 0, len(needs))
	for account := range needs {
		accounts = append(accounts, account)
	}
	sort.Strings(accounts)

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Account", "Additional Funding Needed"},
	}
	for _, account := range accounts {
		table.Rows = append(table.Rows, []string{account, common.FormatCurrency(needs[account])})
	}
	doc.Table(table)
}

func absValue(action models.AccountAction) float64 {
	if action.Value < 0 {
		return -action.Value
	}
	return action.Value
}

// PriceSources renders the price-source lookup panel.
func PriceSources(sources map[string]models.PriceSource) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Price Sources")

	tickers := make([]string, 0, len(sources))
	for ticker := range sources {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignLeft},
		Header:    []string{"Ticker", "Source", "URL"},
	}
	for _, ticker := range tickers {
		table.Rows = append(table.Rows, []string{ticker, sources[ticker].Source, sources[ticker].URL})
	}
	doc.Table(table)

	return doc.String()
}

// LoadError renders the single error panel shown when a reload fails.
// No stale or partial table accompanies it.
func LoadError(err error) string {
	var b strings.Builder
	b.WriteString("# Portfolio Dashboard\n\n")
	b.WriteString("**Failed to load portfolio data.**\n\n")
	b.WriteString(fmt.Sprintf("> %v\n", err))
	return b.String()
}

package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/edforrester/folio/internal/app"
	"github.com/edforrester/folio/internal/render"
	"github.com/edforrester/folio/internal/services/dashboard"
)

// withApp initializes the app for a command and ensures cleanup.
func withApp(fn func(a *app.App, cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := app.NewApp(configPath)
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(a, cmd, args)
	}
}

func newViewCmd() *cobra.Command {
	var (
		account   string
		assetType string
		sortCol   string
		ascending bool
		expand    []string
		raw       bool
	)

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Render the portfolio dashboard",
		RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc := a.Dashboard

			svc.SetAccountFilter(account)
			svc.SetAssetTypeFilter(assetType)
			if sortCol != "" {
				direction := dashboard.SortDesc
				if ascending {
					direction = dashboard.SortAsc
				}
				svc.SetSort(dashboard.SortColumn(sortCol), direction)
			}
			for _, ticker := range expand {
				svc.ToggleExpand(ticker)
			}

			vm, view, err := svc.View(ctx)
			if err != nil {
				fmt.Println(render.Terminal(render.LoadError(err)))
				return err
			}

			doc := render.Dashboard(vm, view, vm.Deposits)
			if raw {
				fmt.Println(doc)
				return nil
			}
			fmt.Println(render.Terminal(doc))
			return nil
		}),
	}

	cmd.Flags().StringVar(&account, "account", dashboard.FilterAll, "filter to one composite account label")
	cmd.Flags().StringVar(&assetType, "asset-type", dashboard.FilterAll, "filter to one asset-type code (EQ, MA, FI, AA)")
	cmd.Flags().StringVar(&sortCol, "sort", "", "sort column: value, book_cost, current, target, pl")
	cmd.Flags().BoolVar(&ascending, "asc", false, "sort ascending (default descending)")
	cmd.Flags().StringSliceVar(&expand, "expand", nil, "tickers to expand into per-account detail rows")
	cmd.Flags().BoolVar(&raw, "raw", false, "emit raw markdown instead of terminal output")
	return cmd
}

func newDepositCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deposit",
		Short: "Manage the local deposit simulation overlay",
	}

	set := &cobra.Command{
		Use:   "set <account> <amount>",
		Short: "Simulate an extra deposit for an account",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid amount '%s'", args[1])
			}
			if _, err := a.Dashboard.SetDeposit(cmd.Context(), args[0], amount); err != nil {
				return err
			}
			fmt.Printf("Simulated deposit of %.2f for %s\n", amount, args[0])
			return nil
		}),
	}

	clear := &cobra.Command{
		Use:   "clear",
		Short: "Clear all simulated deposits",
		Args:  cobra.NoArgs,
		RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
			if _, err := a.Dashboard.ClearDeposits(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("All simulated deposits cleared")
			return nil
		}),
	}

	cmd.AddCommand(set, clear)
	return cmd
}

func newEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Commit an inline edit",
	}

	cmd.AddCommand(
		newEditHoldingCmd(),
		newEditTickerValueCmd(),
		newEditTickerPriceCmd(),
		newEditTickerTargetCmd(),
		newEditCashTargetCmd(),
		newEditCashCmd(),
	)
	return cmd
}

// runEdit drives the edit controller through a begin/confirm cycle.
func runEdit(a *app.App, cmd *cobra.Command, target dashboard.EditTarget, value string) error {
	editor := a.Dashboard.Editor()
	if !editor.Begin(target, "") {
		return fmt.Errorf("another edit is already open")
	}
	result := editor.Confirm(cmd.Context(), value)
	if !result.Committed {
		return fmt.Errorf("edit was not committed")
	}
	fmt.Println("Edit committed")
	return nil
}

func newEditHoldingCmd() *cobra.Command {
	var field string
	cmd := &cobra.Command{
		Use:   "holding <ticker> <account> <owner> <value>",
		Short: "Edit one holding's current value or target weight",
		Args:  cobra.ExactArgs(4),
		RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
			if field != string(dashboard.RowFieldCurrentValue) && field != string(dashboard.RowFieldTargetWeight) {
				return fmt.Errorf("field must be current_value or target_weight")
			}
			return runEdit(a, cmd, dashboard.EditTarget{
				Kind:    dashboard.EditRowField,
				Ticker:  args[0],
				Account: args[1],
				Owner:   args[2],
				Field:   dashboard.RowField(field),
			}, args[3])
		}),
	}
	cmd.Flags().StringVar(&field, "field", "current_value", "field to edit: current_value or target_weight")
	return cmd
}

func newEditTickerValueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ticker-value <ticker> <value>",
		Short: "Set a ticker's total value (server redistributes across accounts)",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
			return runEdit(a, cmd, dashboard.EditTarget{
				Kind:   dashboard.EditTickerValue,
				Ticker: args[0],
			}, args[1])
		}),
	}
}

func newEditTickerPriceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ticker-price <ticker> <price>",
		Short: "Set the unit price for all holdings of a ticker",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
			return runEdit(a, cmd, dashboard.EditTarget{
				Kind:   dashboard.EditTickerPrice,
				Ticker: args[0],
			}, args[1])
		}),
	}
}

func newEditTickerTargetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ticker-target <ticker> <percentage>",
		Short: "Set the target weight for all holdings of a ticker",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
			return runEdit(a, cmd, dashboard.EditTarget{
				Kind:   dashboard.EditTickerTarget,
				Ticker: args[0],
			}, args[1])
		}),
	}
}

func newEditCashTargetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cash-target <percentage>",
		Short: "Set the portfolio-wide cash target percentage (0-100)",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
			return runEdit(a, cmd, dashboard.EditTarget{
				Kind: dashboard.EditCashTarget,
			}, args[0])
		}),
	}
}

func newEditCashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cash <account> <amount>",
		Short: "Set an account's real cash balance",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
			return a.Dashboard.CashEditor().Confirm(cmd.Context(), args[0], args[1])
		}),
	}
}

func newRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh-prices",
		Short: "Trigger a live price refresh on the server",
		Args:  cobra.NoArgs,
		RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
			updated, err := a.Dashboard.RefreshPrices(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Updated %d prices\n", updated)
			return nil
		}),
	}
}

func newSourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "Show where each ticker's live price comes from",
		Args:  cobra.NoArgs,
		RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
			sources, err := a.Dashboard.PriceSources(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Println(render.Terminal(render.PriceSources(sources)))
			return nil
		}),
	}
}

func newChartCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Render the allocation chart to a PNG file",
		Args:  cobra.NoArgs,
		RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
			png, err := a.Dashboard.AllocationChart(cmd.Context())
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, png, 0644); err != nil {
				return fmt.Errorf("failed to write chart: %w", err)
			}
			fmt.Printf("Chart written to %s\n", output)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&output, "output", "o", "allocation.png", "output PNG path")
	return cmd
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Upload a CSV and re-import all portfolio data",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer f.Close()

			resp, err := a.Dashboard.ImportCSV(cmd.Context(), args[0], f)
			if err != nil {
				return err
			}
			fmt.Printf("Imported %d holdings across %d accounts\n", resp.HoldingsCount, resp.AccountsCount)
			return nil
		}),
	}
}

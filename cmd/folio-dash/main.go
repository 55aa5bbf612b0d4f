// folio-dash is the terminal front end for the portfolio rebalance server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:           "folio-dash",
		Short:         "Portfolio dashboard for the rebalance server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to folio.toml")

	root.AddCommand(
		newViewCmd(),
		newDepositCmd(),
		newEditCmd(),
		newRefreshCmd(),
		newSourcesCmd(),
		newChartCmd(),
		newImportCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Package cli implements washctl, the operator tool for inspecting the
// catalog, previewing quotes and simulating the wheel offline.
package cli

import (
	"washday/internal/pkg/catalog"

	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "washctl",
		Short:         "Operator tool for washday pricing and the spin wheel",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("catalog", "", "Path to a catalog YAML file (default: embedded catalog)")

	root.AddCommand(
		newQuoteCmd(),
		newCurveCmd(),
		newSimulateCmd(),
		newCatalogCmd(),
		newTokenCmd(),
	)
	return root
}

func loadEngines(cmd *cobra.Command) (catalog.Engines, error) {
	path, _ := cmd.Flags().GetString("catalog")
	return catalog.LoadEngines(path)
}

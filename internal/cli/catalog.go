package cli

import (
	"fmt"

	"washday/internal/pkg/catalog"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and validate the pricing and wheel catalog",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "validate",
			Short: "Check that a catalog builds into valid engines",
			RunE:  runCatalogValidate,
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective catalog as YAML",
			RunE:  runCatalogShow,
		},
	)
	return cmd
}

func runCatalogValidate(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("catalog")
	c, err := catalog.Load(path)
	if err != nil {
		return err
	}
	engines, err := c.Build()
	if err != nil {
		return fmt.Errorf("catalog is invalid: %w", err)
	}

	w := engines.Wheel
	fmt.Fprintf(cmd.OutOrStdout(), "catalog ok: %d anchors, %d segments, %d tiers, limits %s/%s %s, expected multiplier %.4f\n",
		len(engines.Pricing.Config().Anchors),
		len(w.Wheel().Segments()),
		len(w.Tiers().All()),
		w.Limits().Daily.StringFixed(2),
		w.Limits().Weekly.StringFixed(2),
		engines.Currency,
		w.Wheel().ExpectedMultiplier(),
	)
	return nil
}

func runCatalogShow(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("catalog")
	c, err := catalog.Load(path)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}

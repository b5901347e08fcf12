package cli

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"washday/internal/domain/pricing"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newQuoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a cart for a delivery window",
		Example: `  washctl quote --item 200:4:6 --item 400 --hours 24
  washctl quote --item 150:2`,
		RunE: runQuote,
	}
	cmd.Flags().StringArray("item", nil, "Cart line as price[:quantity[:processing_hours]] (repeatable)")
	cmd.Flags().Float64("hours", 0, "Requested delivery hours (0 means fastest possible)")
	return cmd
}

func runQuote(cmd *cobra.Command, _ []string) error {
	engines, err := loadEngines(cmd)
	if err != nil {
		return err
	}
	rawItems, _ := cmd.Flags().GetStringArray("item")
	hours, _ := cmd.Flags().GetFloat64("hours")

	items := make([]pricing.CartItem, 0, len(rawItems))
	for i, raw := range rawItems {
		item, err := parseItem(raw)
		if err != nil {
			return err
		}
		item.ID = fmt.Sprintf("item-%d", i+1)
		items = append(items, item)
	}

	q, err := engines.Pricing.Quote(items, hours)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "minimum lead time\t%gh\n", q.MinimumLeadTimeHours)
	fmt.Fprintf(w, "delivery in\t%gh\n", q.Hours)
	fmt.Fprintf(w, "multiplier\t%s\n", q.Multiplier.StringFixed(2))
	fmt.Fprintf(w, "speed\t%s\n", q.SpeedLabel)
	fmt.Fprintf(w, "base total\t%s %s\n", q.BaseTotal.StringFixed(2), engines.Currency)
	fmt.Fprintf(w, "final total\t%s %s\n", q.FinalTotal.StringFixed(2), engines.Currency)
	return w.Flush()
}

// parseItem reads price[:quantity[:processing_hours]].
func parseItem(raw string) (pricing.CartItem, error) {
	parts := strings.Split(raw, ":")
	if len(parts) > 3 {
		return pricing.CartItem{}, fmt.Errorf("item %q: expected price[:quantity[:hours]]", raw)
	}

	price, err := decimal.NewFromString(parts[0])
	if err != nil {
		return pricing.CartItem{}, fmt.Errorf("item %q: invalid price: %w", raw, err)
	}
	item := pricing.CartItem{Price: price, Quantity: 1}

	if len(parts) > 1 && parts[1] != "" {
		qty, err := strconv.Atoi(parts[1])
		if err != nil {
			return pricing.CartItem{}, fmt.Errorf("item %q: invalid quantity: %w", raw, err)
		}
		item.Quantity = qty
	}
	if len(parts) > 2 && parts[2] != "" {
		h, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return pricing.CartItem{}, fmt.Errorf("item %q: invalid processing hours: %w", raw, err)
		}
		item.ProcessingTimeHours = &h
	}
	return item, nil
}

func newCurveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "curve",
		Short: "Print the delivery price curve",
		RunE: func(cmd *cobra.Command, _ []string) error {
			engines, err := loadEngines(cmd)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "HOURS\tMULTIPLIER\tSPEED")
			for _, p := range engines.Pricing.Config().Anchors {
				fmt.Fprintf(w, "%g\t%s\t%s\n", p.Hours, p.Multiplier.StringFixed(2), pricing.ClassifySpeedLabel(p.Multiplier))
			}
			return w.Flush()
		},
	}
}

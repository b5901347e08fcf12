package cli

import (
	"fmt"
	"text/tabwriter"

	"washday/internal/domain/wheel"
	"washday/internal/pkg/clock"
	"washday/internal/pkg/rng"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

const maxSimulatedSpins = 10_000_000

type simulation struct {
	Spins         int
	Wagered       decimal.Decimal
	Won           decimal.Decimal
	Bonus         decimal.Decimal
	Counts        map[string]int
	FinalTier     string
	LifetimeSpins int
}

func (s simulation) RTP() float64 {
	if s.Wagered.IsZero() {
		return 0
	}
	rtp, _ := s.Won.Div(s.Wagered).Float64()
	return rtp
}

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Spin the wheel offline and report return-to-player",
		Long: `Runs the configured wheel and loyalty tiers against an unlimited wallet.
Spend limits are not applied. Use --seed for a reproducible run.`,
		RunE: runSimulate,
	}
	cmd.Flags().String("wager", "10", "Wager per spin")
	cmd.Flags().Int("spins", 10_000, "Number of spins")
	cmd.Flags().Uint64("seed", 0, "Seed for a reproducible run (0 draws a random key)")
	cmd.Flags().Int("lifetime", 0, "Lifetime spins the player starts with")
	return cmd
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	engines, err := loadEngines(cmd)
	if err != nil {
		return err
	}
	rawWager, _ := cmd.Flags().GetString("wager")
	spins, _ := cmd.Flags().GetInt("spins")
	seed, _ := cmd.Flags().GetUint64("seed")
	lifetime, _ := cmd.Flags().GetInt("lifetime")

	wager, err := decimal.NewFromString(rawWager)
	if err != nil {
		return fmt.Errorf("invalid wager: %w", err)
	}
	if spins < 1 || spins > maxSimulatedSpins {
		return fmt.Errorf("spins must be between 1 and %d", maxSimulatedSpins)
	}
	if lifetime < 0 {
		return fmt.Errorf("lifetime must not be negative")
	}

	var source wheel.RandomSource = rng.NewSecure()
	if seed != 0 {
		source = rng.NewSeeded(seed)
	}

	result, err := simulate(engines.Wheel, wager, spins, lifetime, source)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "spins\t%d\n", result.Spins)
	fmt.Fprintf(w, "wagered\t%s %s\n", result.Wagered.StringFixed(2), engines.Currency)
	fmt.Fprintf(w, "won\t%s %s\n", result.Won.StringFixed(2), engines.Currency)
	fmt.Fprintf(w, "loyalty bonus\t%s %s\n", result.Bonus.StringFixed(2), engines.Currency)
	fmt.Fprintf(w, "rtp\t%.4f\n", result.RTP())
	fmt.Fprintf(w, "expected multiplier\t%.4f\n", engines.Wheel.Wheel().ExpectedMultiplier())
	fmt.Fprintf(w, "final tier\t%s (%d lifetime spins)\n", result.FinalTier, result.LifetimeSpins)
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEGMENT\tLABEL\tHITS\tOBSERVED\tCONFIGURED")
	for _, seg := range engines.Wheel.Wheel().Segments() {
		hits := result.Counts[seg.ID]
		fmt.Fprintf(w, "%s\t%s\t%d\t%.4f\t%.4f\n", seg.ID, seg.Label, hits, float64(hits)/float64(result.Spins), seg.Probability)
	}
	return w.Flush()
}

// simulate settles spins against a wallet that can always afford the next wager.
func simulate(engine *wheel.Engine, wager decimal.Decimal, spins, lifetime int, source wheel.RandomSource) (simulation, error) {
	if err := wheel.ValidateWager(wager); err != nil {
		return simulation{}, err
	}
	unlimited := wager.Mul(decimal.NewFromInt(int64(spins))).Add(decimal.NewFromInt(1))
	limits, err := wheel.NewLimits(unlimited, unlimited)
	if err != nil {
		return simulation{}, err
	}
	sim := wheel.NewEngine(engine.Wheel(), engine.Tiers(), limits)

	now := clock.NewRealClock().Now()
	wallet := wheel.Wallet{
		Balance: unlimited,
		Ledger:  wheel.SpendLedger{LifetimeSpins: lifetime},
	}
	result := simulation{
		Wagered: decimal.Zero,
		Won:     decimal.Zero,
		Bonus:   decimal.Zero,
		Counts:  make(map[string]int, len(engine.Wheel().Segments())),
	}

	for range spins {
		// Balance is topped up every round.
		wallet.Balance = unlimited
		record, next, err := sim.Spin(wallet, wager, now, source)
		if err != nil {
			return simulation{}, err
		}
		wallet = next

		result.Spins++
		result.Wagered = result.Wagered.Add(record.Result.WagerAmount)
		result.Won = result.Won.Add(record.Result.FinalWinnings)
		result.Bonus = result.Bonus.Add(record.Result.LoyaltyBonusApplied)
		result.Counts[record.Result.Segment.ID]++
	}

	result.LifetimeSpins = wallet.Ledger.LifetimeSpins
	result.FinalTier = engine.Tiers().ResolveLoyaltyTier(result.LifetimeSpins).Name
	return result, nil
}

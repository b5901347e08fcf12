package wheel

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

type LoyaltyTier struct {
	Name         string
	MinSpins     int
	BonusPercent decimal.Decimal
}

// LoyaltyTiers is sorted ascending by MinSpins and always contains a zero floor.
type LoyaltyTiers struct {
	tiers []LoyaltyTier
}

func NewLoyaltyTiers(tiers []LoyaltyTier) (LoyaltyTiers, error) {
	if len(tiers) == 0 {
		return LoyaltyTiers{}, fmt.Errorf("%w: no loyalty tiers", ErrInvalidConfiguration)
	}

	sorted := make([]LoyaltyTier, len(tiers))
	copy(sorted, tiers)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].MinSpins < sorted[j].MinSpins })

	if sorted[0].MinSpins != 0 {
		return LoyaltyTiers{}, fmt.Errorf("%w: loyalty tiers need a tier starting at 0 spins", ErrInvalidConfiguration)
	}
	for i, t := range sorted {
		if t.Name == "" {
			return LoyaltyTiers{}, fmt.Errorf("%w: loyalty tier %d has no name", ErrInvalidConfiguration, i)
		}
		if t.MinSpins < 0 {
			return LoyaltyTiers{}, fmt.Errorf("%w: tier %q has negative min spins", ErrInvalidConfiguration, t.Name)
		}
		if t.BonusPercent.IsNegative() {
			return LoyaltyTiers{}, fmt.Errorf("%w: tier %q has negative bonus", ErrInvalidConfiguration, t.Name)
		}
		if i > 0 && t.MinSpins == sorted[i-1].MinSpins {
			return LoyaltyTiers{}, fmt.Errorf("%w: tiers %q and %q share min spins %d",
				ErrInvalidConfiguration, sorted[i-1].Name, t.Name, t.MinSpins)
		}
	}

	return LoyaltyTiers{tiers: sorted}, nil
}

func (lt LoyaltyTiers) All() []LoyaltyTier {
	out := make([]LoyaltyTier, len(lt.tiers))
	copy(out, lt.tiers)
	return out
}

// ResolveLoyaltyTier returns the tier with the largest MinSpins not above lifetimeSpins.
func (lt LoyaltyTiers) ResolveLoyaltyTier(lifetimeSpins int) LoyaltyTier {
	active := lt.tiers[0]
	for _, t := range lt.tiers[1:] {
		if t.MinSpins > lifetimeSpins {
			break
		}
		active = t
	}
	return active
}

// Next returns the tier after the active one, if any.
func (lt LoyaltyTiers) Next(lifetimeSpins int) (LoyaltyTier, bool) {
	for _, t := range lt.tiers {
		if t.MinSpins > lifetimeSpins {
			return t, true
		}
	}
	return LoyaltyTier{}, false
}

func DefaultLoyaltyTiers() []LoyaltyTier {
	return []LoyaltyTier{
		{Name: "Bronze", MinSpins: 0, BonusPercent: decimal.Zero},
		{Name: "Silver", MinSpins: 50, BonusPercent: decimal.NewFromInt(2)},
		{Name: "Gold", MinSpins: 200, BonusPercent: decimal.NewFromInt(5)},
		{Name: "Platinum", MinSpins: 500, BonusPercent: decimal.NewFromInt(10)},
	}
}

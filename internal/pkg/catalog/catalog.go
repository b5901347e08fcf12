// Package catalog loads the pricing curve, wheel, loyalty tiers and spend
// limits from a YAML document.
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"washday/internal/domain/pricing"
	"washday/internal/domain/wheel"
	"washday/internal/pkg/patch"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

type Anchor struct {
	Hours      float64         `yaml:"hours"`
	Multiplier decimal.Decimal `yaml:"multiplier"`
}

type Pricing struct {
	MinHoursFloor              float64  `yaml:"min_hours_floor"`
	MaxHoursCeiling            float64  `yaml:"max_hours_ceiling"`
	DefaultItemProcessingHours float64  `yaml:"default_item_processing_hours"`
	Anchors                    []Anchor `yaml:"anchors"`
}

type Segment struct {
	ID          string          `yaml:"id"`
	Label       string          `yaml:"label"`
	Multiplier  decimal.Decimal `yaml:"multiplier"`
	Color       string          `yaml:"color"`
	Probability float64         `yaml:"probability"`
}

type Wheel struct {
	Segments []Segment `yaml:"segments"`
}

type Tier struct {
	Name         string          `yaml:"name"`
	MinSpins     int             `yaml:"min_spins"`
	BonusPercent decimal.Decimal `yaml:"bonus_percent"`
}

type Limits struct {
	Daily  decimal.Decimal `yaml:"daily"`
	Weekly decimal.Decimal `yaml:"weekly"`
}

// Catalog is the raw document. Use Build to obtain validated engines.
type Catalog struct {
	Currency string  `yaml:"currency"`
	Pricing  Pricing `yaml:"pricing"`
	Wheel    Wheel   `yaml:"wheel"`
	Loyalty  []Tier  `yaml:"loyalty"`
	Limits   Limits  `yaml:"limits"`
}

// Engines are the validated domain engines built from a catalog.
type Engines struct {
	Currency string
	Pricing  *pricing.Engine
	Wheel    *wheel.Engine
}

func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	c.Currency = patch.CoalesceZero(c.Currency, "KES")
	return &c, nil
}

// Load reads a catalog file. An empty path selects the embedded default.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	return Parse(data)
}

func Default() (*Catalog, error) {
	return Parse(defaultYAML)
}

// Build validates every section through the domain constructors. Errors wrap
// pricing.ErrInvalidConfiguration or wheel.ErrInvalidConfiguration.
func (c *Catalog) Build() (Engines, error) {
	anchors := make([]pricing.PricePoint, 0, len(c.Pricing.Anchors))
	for _, a := range c.Pricing.Anchors {
		anchors = append(anchors, pricing.PricePoint{Hours: a.Hours, Multiplier: a.Multiplier})
	}
	pe, err := pricing.NewEngine(pricing.Config{
		Anchors:                    anchors,
		MinHoursFloor:              c.Pricing.MinHoursFloor,
		MaxHoursCeiling:            c.Pricing.MaxHoursCeiling,
		DefaultItemProcessingHours: c.Pricing.DefaultItemProcessingHours,
	})
	if err != nil {
		return Engines{}, fmt.Errorf("pricing: %w", err)
	}

	segments := make([]wheel.Segment, 0, len(c.Wheel.Segments))
	for _, s := range c.Wheel.Segments {
		segments = append(segments, wheel.Segment{
			ID:          s.ID,
			Label:       s.Label,
			Multiplier:  s.Multiplier,
			ColorToken:  s.Color,
			Probability: s.Probability,
		})
	}
	w, err := wheel.NewWheel(segments)
	if err != nil {
		return Engines{}, fmt.Errorf("wheel: %w", err)
	}

	tiers := make([]wheel.LoyaltyTier, 0, len(c.Loyalty))
	for _, t := range c.Loyalty {
		tiers = append(tiers, wheel.LoyaltyTier{Name: t.Name, MinSpins: t.MinSpins, BonusPercent: t.BonusPercent})
	}
	lt, err := wheel.NewLoyaltyTiers(tiers)
	if err != nil {
		return Engines{}, fmt.Errorf("loyalty: %w", err)
	}

	limits, err := wheel.NewLimits(c.Limits.Daily, c.Limits.Weekly)
	if err != nil {
		return Engines{}, fmt.Errorf("limits: %w", err)
	}

	return Engines{
		Currency: c.Currency,
		Pricing:  pe,
		Wheel:    wheel.NewEngine(w, lt, limits),
	}, nil
}

// LoadEngines is Load followed by Build.
func LoadEngines(path string) (Engines, error) {
	c, err := Load(path)
	if err != nil {
		return Engines{}, err
	}
	return c.Build()
}

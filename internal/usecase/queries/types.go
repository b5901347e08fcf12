package queries

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderView is the read model of a persisted order
type OrderView struct {
	ID             uuid.UUID       `json:"id"`
	UserID         uuid.UUID       `json:"user_id"`
	Status         string          `json:"status"`
	RequestedHours float64         `json:"requested_hours"`
	EffectiveHours float64         `json:"effective_hours"`
	MinLeadHours   float64         `json:"min_lead_hours"`
	Multiplier     decimal.Decimal `json:"multiplier"`
	SpeedLabel     string          `json:"speed_label"`
	BaseTotal      decimal.Decimal `json:"base_total"`
	FinalTotal     decimal.Decimal `json:"final_total"`
	Items          []OrderItemView `json:"items"`
	PlacedAt       time.Time       `json:"placed_at"`
	PromisedAt     time.Time       `json:"promised_at"`
}

type OrderItemView struct {
	SKU                 string          `json:"sku"`
	UnitPrice           decimal.Decimal `json:"unit_price"`
	Quantity            int             `json:"quantity"`
	ProcessingTimeHours float64         `json:"processing_time_hours"`
}

type OrderListItem struct {
	ID         uuid.UUID       `json:"id"`
	Status     string          `json:"status"`
	SpeedLabel string          `json:"speed_label"`
	FinalTotal decimal.Decimal `json:"final_total"`
	ItemCount  int             `json:"item_count"`
	PlacedAt   time.Time       `json:"placed_at"`
	PromisedAt time.Time       `json:"promised_at"`
}

// IdempotencyKeyView represents read-optimized idempotency key data
type IdempotencyKeyView struct {
	Key           uuid.UUID  `json:"key"`
	UserID        uuid.UUID  `json:"user_id"`
	Endpoint      string     `json:"endpoint"`
	RequestHash   string     `json:"request_hash"`
	Status        string     `json:"status"`
	ResultOrderID *uuid.UUID `json:"result_order_id,omitempty"`
	ExpiresAt     time.Time  `json:"expires_at"`
}

type QuoteView struct {
	RequestedHours float64         `json:"requested_hours"`
	EffectiveHours float64         `json:"effective_hours"`
	MinLeadHours   float64         `json:"min_lead_hours"`
	Multiplier     decimal.Decimal `json:"multiplier"`
	SpeedLabel     string          `json:"speed_label"`
	BaseTotal      decimal.Decimal `json:"base_total"`
	FinalTotal     decimal.Decimal `json:"final_total"`
	Currency       string          `json:"currency"`
}

type SegmentView struct {
	ID          string          `json:"id"`
	Label       string          `json:"label"`
	Multiplier  decimal.Decimal `json:"multiplier"`
	ColorToken  string          `json:"color_token"`
	Probability float64         `json:"probability"`
}

type TierView struct {
	Name         string          `json:"name"`
	MinSpins     int             `json:"min_spins"`
	BonusPercent decimal.Decimal `json:"bonus_percent"`
}

type WheelView struct {
	Segments           []SegmentView   `json:"segments"`
	Tiers              []TierView      `json:"tiers"`
	DailyLimit         decimal.Decimal `json:"daily_limit"`
	WeeklyLimit        decimal.Decimal `json:"weekly_limit"`
	ExpectedMultiplier float64         `json:"expected_multiplier"`
	Currency           string          `json:"currency"`
}

type WalletView struct {
	PlayerID        uuid.UUID       `json:"player_id"`
	Balance         decimal.Decimal `json:"balance"`
	DailySpend      decimal.Decimal `json:"daily_spend"`
	WeeklySpend     decimal.Decimal `json:"weekly_spend"`
	DailyRemaining  decimal.Decimal `json:"daily_remaining"`
	WeeklyRemaining decimal.Decimal `json:"weekly_remaining"`
	DailyResetsAt   time.Time       `json:"daily_resets_at"`
	WeeklyResetsAt  time.Time       `json:"weekly_resets_at"`
	LastPlayDate    *string         `json:"last_play_date,omitempty"`
	LifetimeSpins   int             `json:"lifetime_spins"`
	Tier            TierView        `json:"tier"`
	NextTier        *TierView       `json:"next_tier,omitempty"`
	SpinsToNextTier int             `json:"spins_to_next_tier"`
}

type SpinView struct {
	SequenceNumber      int             `json:"sequence_number"`
	SegmentID           string          `json:"segment_id"`
	SegmentLabel        string          `json:"segment_label"`
	Multiplier          decimal.Decimal `json:"multiplier"`
	Tier                string          `json:"tier"`
	WagerAmount         decimal.Decimal `json:"wager_amount"`
	GrossWinnings       decimal.Decimal `json:"gross_winnings"`
	LoyaltyBonusApplied decimal.Decimal `json:"loyalty_bonus_applied"`
	FinalWinnings       decimal.Decimal `json:"final_winnings"`
	NetWinnings         decimal.Decimal `json:"net_winnings"`
	Timestamp           time.Time       `json:"timestamp"`
}

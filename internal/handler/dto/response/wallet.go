package response

import (
	"time"

	"washday/internal/usecase/commands"
	"washday/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SegmentResponse struct {
	ID          string          `json:"id"`
	Label       string          `json:"label"`
	Multiplier  decimal.Decimal `json:"multiplier"`
	ColorToken  string          `json:"colorToken"`
	Probability float64         `json:"probability"`
}

type TierResponse struct {
	Name         string          `json:"name"`
	MinSpins     int             `json:"minSpins"`
	BonusPercent decimal.Decimal `json:"bonusPercent"`
}

type WheelResponse struct {
	Segments           []SegmentResponse `json:"segments"`
	Tiers              []TierResponse    `json:"tiers"`
	DailyLimit         string            `json:"dailyLimit"`
	WeeklyLimit        string            `json:"weeklyLimit"`
	ExpectedMultiplier float64           `json:"expectedMultiplier"`
	Currency           string            `json:"currency"`
}

type WalletResponse struct {
	PlayerID        uuid.UUID     `json:"playerId"`
	Balance         string        `json:"balance"`
	DailySpend      string        `json:"dailySpend"`
	WeeklySpend     string        `json:"weeklySpend"`
	DailyRemaining  string        `json:"dailyRemaining"`
	WeeklyRemaining string        `json:"weeklyRemaining"`
	DailyResetsAt   time.Time     `json:"dailyResetsAt"`
	WeeklyResetsAt  time.Time     `json:"weeklyResetsAt"`
	LastPlayDate    *string       `json:"lastPlayDate,omitempty"`
	LifetimeSpins   int           `json:"lifetimeSpins"`
	Tier            TierResponse  `json:"tier"`
	NextTier        *TierResponse `json:"nextTier,omitempty"`
	SpinsToNextTier int           `json:"spinsToNextTier"`
}

type SpinRecordResponse struct {
	SequenceNumber      int             `json:"sequenceNumber"`
	SegmentID           string          `json:"segmentId"`
	SegmentLabel        string          `json:"segmentLabel"`
	Multiplier          decimal.Decimal `json:"multiplier"`
	Tier                string          `json:"tier"`
	WagerAmount         string          `json:"wagerAmount"`
	GrossWinnings       string          `json:"grossWinnings"`
	LoyaltyBonusApplied string          `json:"loyaltyBonusApplied"`
	FinalWinnings       string          `json:"finalWinnings"`
	NetWinnings         string          `json:"netWinnings"`
	Timestamp           time.Time       `json:"timestamp"`
}

type SpinResponse struct {
	Spin   SpinRecordResponse `json:"spin"`
	Wallet WalletResponse     `json:"wallet"`
}

type BatchSpinResponse struct {
	Spins       []SpinRecordResponse `json:"spins"`
	Requested   int                  `json:"requested"`
	Settled     int                  `json:"settled"`
	Interrupted bool                 `json:"interrupted"`
	TotalWager  string               `json:"totalWager"`
	TotalWon    string               `json:"totalWon"`
	Wallet      WalletResponse       `json:"wallet"`
}

type SpinHistoryResponse struct {
	Spins []SpinRecordResponse `json:"spins"`
}

type CreditResponse struct {
	PlayerID uuid.UUID `json:"playerId"`
	Balance  string    `json:"balance"`
}

func FromWheelView(v *queries.WheelView) (*WheelResponse, error) {
	var out WheelResponse
	if err := copyInto(&out, v); err != nil {
		return nil, err
	}
	return &out, nil
}

func FromWalletView(v *queries.WalletView) (*WalletResponse, error) {
	var out WalletResponse
	if err := copyInto(&out, v); err != nil {
		return nil, err
	}
	return &out, nil
}

func FromSpinViews(views []queries.SpinView) ([]SpinRecordResponse, error) {
	out := make([]SpinRecordResponse, 0, len(views))
	if err := copyInto(&out, views); err != nil {
		return nil, err
	}
	return out, nil
}

func NewSpinResponse(outcome *commands.SpinOutcome, wallet *queries.WalletView) (*SpinResponse, error) {
	var out SpinResponse
	if err := copyInto(&out.Spin, queries.ToSpinView(outcome.Record)); err != nil {
		return nil, err
	}
	w, err := FromWalletView(wallet)
	if err != nil {
		return nil, err
	}
	out.Wallet = *w
	return &out, nil
}

func NewBatchSpinResponse(outcome *commands.BatchOutcome, wallet *queries.WalletView) (*BatchSpinResponse, error) {
	views := make([]queries.SpinView, 0, len(outcome.Records))
	wagered, won := decimal.Zero, decimal.Zero
	for _, r := range outcome.Records {
		views = append(views, queries.ToSpinView(r))
		wagered = wagered.Add(r.Result.WagerAmount)
		won = won.Add(r.Result.FinalWinnings)
	}

	spins, err := FromSpinViews(views)
	if err != nil {
		return nil, err
	}
	w, err := FromWalletView(wallet)
	if err != nil {
		return nil, err
	}

	return &BatchSpinResponse{
		Spins:       spins,
		Requested:   outcome.Requested,
		Settled:     len(outcome.Records),
		Interrupted: outcome.Interrupted,
		TotalWager:  wagered.StringFixed(2),
		TotalWon:    won.StringFixed(2),
		Wallet:      *w,
	}, nil
}

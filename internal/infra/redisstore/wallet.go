package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"washday/internal/domain/wheel"
	"washday/internal/infra"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const (
	replyWalletConflict    = "WALLET_CONFLICT"
	replyInsufficientFunds = "INSUFFICIENT_FUNDS"
)

// settleScript applies one settled spin: balance delta, ledger totals and a
// history entry. It refuses to run when the lifetime counter moved since the
// wallet was read, which would mean another settlement slipped in.
var settleScript = redis.NewScript(`
local balance = tonumber(redis.call("GET", KEYS[1]) or "0")
local wager = tonumber(ARGV[1])
local final = tonumber(ARGV[2])
local lifetime = tonumber(redis.call("HGET", KEYS[2], "lifetime_spins") or "0")

if lifetime ~= tonumber(ARGV[7]) then
	return redis.error_reply("WALLET_CONFLICT")
end
if balance < wager then
	return redis.error_reply("INSUFFICIENT_FUNDS")
end

local updated = redis.call("INCRBY", KEYS[1], final - wager)
redis.call("HSET", KEYS[2],
	"daily_spend", ARGV[3],
	"weekly_spend", ARGV[4],
	"last_play_date", ARGV[5],
	"lifetime_spins", ARGV[6])
redis.call("LPUSH", KEYS[3], ARGV[8])
redis.call("LTRIM", KEYS[3], 0, tonumber(ARGV[9]) - 1)

return updated
`)

type WalletStore struct {
	client     redis.UniversalClient
	loc        *time.Location
	historyLen int
}

func NewWalletStore(client redis.UniversalClient, loc *time.Location, historyLen int) *WalletStore {
	if loc == nil {
		loc = time.Local
	}
	if historyLen <= 0 {
		historyLen = 100
	}
	return &WalletStore{client: client, loc: loc, historyLen: historyLen}
}

// Load returns the player's wallet. A player never seen before has a zero
// balance and an empty ledger.
func (s *WalletStore) Load(ctx context.Context, playerID uuid.UUID) (wheel.Wallet, error) {
	pipe := s.client.Pipeline()
	balanceCmd := pipe.Get(ctx, balanceKey(playerID))
	ledgerCmd := pipe.HGetAll(ctx, ledgerKey(playerID))
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return wheel.Wallet{}, infra.WrapRepoErr("failed to load wallet", err, infra.KindStoreFailure)
	}
	if err := ledgerCmd.Err(); err != nil {
		return wheel.Wallet{}, infra.WrapRepoErr("failed to load spend ledger", err, infra.KindStoreFailure)
	}

	balance := decimal.Zero
	if raw, err := balanceCmd.Result(); err == nil {
		cents, convErr := strconv.ParseInt(raw, 10, 64)
		if convErr != nil {
			return wheel.Wallet{}, infra.WrapRepoErr("corrupt wallet balance", convErr, infra.KindStoreFailure)
		}
		balance = fromCents(cents)
	}

	ledger, err := s.parseLedger(ledgerCmd.Val())
	if err != nil {
		return wheel.Wallet{}, infra.WrapRepoErr("corrupt spend ledger", err, infra.KindStoreFailure)
	}

	return wheel.Wallet{Balance: balance, Ledger: ledger}, nil
}

// ApplySpin persists one settled spin against the wallet it was computed from.
// It returns the balance after settlement as stored.
func (s *WalletStore) ApplySpin(ctx context.Context, playerID uuid.UUID, prev wheel.Wallet, rec wheel.SpinRecord, next wheel.Wallet) (decimal.Decimal, error) {
	entry, err := json.Marshal(newHistoryEntry(rec))
	if err != nil {
		return decimal.Zero, infra.WrapRepoErr("failed to encode spin record", err, infra.KindStoreFailure)
	}

	lastPlay := ""
	if next.Ledger.LastPlayDate != nil {
		lastPlay = next.Ledger.LastPlayDate.Format(civilDateLayout)
	}

	keys := []string{balanceKey(playerID), ledgerKey(playerID), historyKey(playerID)}
	args := []any{
		toCents(rec.Result.WagerAmount),
		toCents(rec.Result.FinalWinnings),
		toCents(next.Ledger.DailySpend),
		toCents(next.Ledger.WeeklySpend),
		lastPlay,
		next.Ledger.LifetimeSpins,
		prev.Ledger.LifetimeSpins,
		string(entry),
		s.historyLen,
	}

	updated, err := settleScript.Run(ctx, s.client, keys, args...).Int64()
	if err != nil {
		switch {
		case strings.Contains(err.Error(), replyWalletConflict):
			return decimal.Zero, infra.WrapRepoErr("wallet changed during settlement", err, infra.KindConflict)
		case strings.Contains(err.Error(), replyInsufficientFunds):
			return decimal.Zero, infra.WrapRepoErr("balance dropped below wager during settlement", err, infra.KindConflict)
		default:
			return decimal.Zero, infra.WrapRepoErr("failed to settle spin", err, infra.KindStoreFailure)
		}
	}

	return fromCents(updated), nil
}

// Credit adds amount to the balance and returns the new balance.
func (s *WalletStore) Credit(ctx context.Context, playerID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	updated, err := s.client.IncrBy(ctx, balanceKey(playerID), toCents(amount)).Result()
	if err != nil {
		return decimal.Zero, infra.WrapRepoErr("failed to credit wallet", err, infra.KindStoreFailure)
	}
	return fromCents(updated), nil
}

// History returns up to limit records, most recent first.
func (s *WalletStore) History(ctx context.Context, playerID uuid.UUID, limit int) ([]wheel.SpinRecord, error) {
	if limit <= 0 || limit > s.historyLen {
		limit = s.historyLen
	}

	raw, err := s.client.LRange(ctx, historyKey(playerID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to read spin history", err, infra.KindStoreFailure)
	}

	records := make([]wheel.SpinRecord, 0, len(raw))
	for _, item := range raw {
		var entry historyEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			return nil, infra.WrapRepoErr("corrupt spin history entry", err, infra.KindStoreFailure)
		}
		records = append(records, entry.toRecord())
	}
	return records, nil
}

func (s *WalletStore) parseLedger(fields map[string]string) (wheel.SpendLedger, error) {
	ledger := wheel.SpendLedger{DailySpend: decimal.Zero, WeeklySpend: decimal.Zero}
	if len(fields) == 0 {
		return ledger, nil
	}

	var err error
	if ledger.DailySpend, err = parseCents(fields[fieldDailySpend]); err != nil {
		return ledger, err
	}
	if ledger.WeeklySpend, err = parseCents(fields[fieldWeeklySpend]); err != nil {
		return ledger, err
	}
	if v := fields[fieldLifetimeSpins]; v != "" {
		if ledger.LifetimeSpins, err = strconv.Atoi(v); err != nil {
			return ledger, err
		}
	}
	if v := fields[fieldLastPlayDate]; v != "" {
		d, err := time.ParseInLocation(civilDateLayout, v, s.loc)
		if err != nil {
			return ledger, err
		}
		ledger.LastPlayDate = &d
	}
	return ledger, nil
}

func parseCents(v string) (decimal.Decimal, error) {
	if v == "" {
		return decimal.Zero, nil
	}
	cents, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return decimal.Zero, err
	}
	return fromCents(cents), nil
}

func toCents(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

func fromCents(c int64) decimal.Decimal {
	return decimal.New(c, -2)
}

type historyEntry struct {
	Seq          int             `json:"seq"`
	SegmentID    string          `json:"segment_id"`
	SegmentLabel string          `json:"segment_label"`
	Multiplier   decimal.Decimal `json:"multiplier"`
	Tier         string          `json:"tier"`
	TierBonus    decimal.Decimal `json:"tier_bonus_percent"`
	Wager        decimal.Decimal `json:"wager"`
	Gross        decimal.Decimal `json:"gross"`
	Bonus        decimal.Decimal `json:"bonus"`
	Final        decimal.Decimal `json:"final"`
	Net          decimal.Decimal `json:"net"`
	Draw         float64         `json:"draw"`
	Timestamp    time.Time       `json:"ts"`
}

func newHistoryEntry(rec wheel.SpinRecord) historyEntry {
	r := rec.Result
	return historyEntry{
		Seq:          rec.SequenceNumber,
		SegmentID:    r.Segment.ID,
		SegmentLabel: r.Segment.Label,
		Multiplier:   r.Segment.Multiplier,
		Tier:         r.Tier.Name,
		TierBonus:    r.Tier.BonusPercent,
		Wager:        r.WagerAmount,
		Gross:        r.GrossWinnings,
		Bonus:        r.LoyaltyBonusApplied,
		Final:        r.FinalWinnings,
		Net:          r.NetWinnings,
		Draw:         rec.Draw,
		Timestamp:    rec.Timestamp,
	}
}

func (e historyEntry) toRecord() wheel.SpinRecord {
	return wheel.SpinRecord{
		SequenceNumber: e.Seq,
		Draw:           e.Draw,
		Timestamp:      e.Timestamp,
		Result: wheel.SpinResult{
			Segment:             wheel.Segment{ID: e.SegmentID, Label: e.SegmentLabel, Multiplier: e.Multiplier},
			Tier:                wheel.LoyaltyTier{Name: e.Tier, BonusPercent: e.TierBonus},
			WagerAmount:         e.Wager,
			GrossWinnings:       e.Gross,
			LoyaltyBonusApplied: e.Bonus,
			FinalWinnings:       e.Final,
			NetWinnings:         e.Net,
		},
	}
}

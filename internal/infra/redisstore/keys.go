package redisstore

import (
	"fmt"

	"github.com/google/uuid"
)

// Keys of one player share a hash tag so that scripts touching several of
// them stay on one cluster slot.
const (
	keyBalance = "wallet:{%s}:balance"
	keyLedger  = "wallet:{%s}:ledger"
	keyHistory = "wallet:{%s}:history"
	keyLock    = "wallet:{%s}:lock"
)

const (
	fieldDailySpend    = "daily_spend"
	fieldWeeklySpend   = "weekly_spend"
	fieldLastPlayDate  = "last_play_date"
	fieldLifetimeSpins = "lifetime_spins"
)

const civilDateLayout = "2006-01-02"

func balanceKey(playerID uuid.UUID) string { return fmt.Sprintf(keyBalance, playerID) }
func ledgerKey(playerID uuid.UUID) string  { return fmt.Sprintf(keyLedger, playerID) }
func historyKey(playerID uuid.UUID) string { return fmt.Sprintf(keyHistory, playerID) }
func lockKey(playerID uuid.UUID) string    { return fmt.Sprintf(keyLock, playerID) }

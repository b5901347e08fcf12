package repository

import (
	"context"

	"washday/internal/domain/wheel"
	"washday/internal/infra"
	"washday/internal/infra/db"
	"washday/internal/pkg/pgconv"

	"github.com/google/uuid"
)

const insertSpinRecordSQL = `
INSERT INTO spin_records (
    id, player_id, sequence_number, segment_id, multiplier, tier, wager,
    gross_winnings, loyalty_bonus, final_winnings, net_winnings, draw, spun_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
ON CONFLICT (player_id, sequence_number) DO NOTHING`

type SpinArchiveRepository struct {
	db db.DBTX
}

func NewSpinArchiveRepository(pool db.DBTX) *SpinArchiveRepository {
	return &SpinArchiveRepository{db: pool}
}

// Archive stores a settled spin. Re-archiving the same sequence number is a no-op.
func (r *SpinArchiveRepository) Archive(ctx context.Context, playerID uuid.UUID, rec wheel.SpinRecord) error {
	res := rec.Result
	_, err := r.db.Exec(ctx, insertSpinRecordSQL,
		pgconv.UUIDToPgtype(uuid.New()),
		pgconv.UUIDToPgtype(playerID),
		rec.SequenceNumber,
		res.Segment.ID,
		pgconv.DecimalToNumeric(res.Segment.Multiplier),
		res.Tier.Name,
		pgconv.DecimalToNumeric(res.WagerAmount),
		pgconv.DecimalToNumeric(res.GrossWinnings),
		pgconv.DecimalToNumeric(res.LoyaltyBonusApplied),
		pgconv.DecimalToNumeric(res.FinalWinnings),
		pgconv.DecimalToNumeric(res.NetWinnings),
		rec.Draw,
		pgconv.TimeToPgtype(rec.Timestamp),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to archive spin record", err)
	}
	return nil
}

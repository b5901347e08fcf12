// Package pgconv converts between pgtype values and the domain's Go types.
package pgconv

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

var ErrInvalidNumericValue = errors.New("invalid numeric value")

func UUIDToPgtype(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

// UUIDPtrFromPgtype maps NULL to nil.
func UUIDPtrFromPgtype(pu pgtype.UUID) *uuid.UUID {
	if !pu.Valid {
		return nil
	}
	id := uuid.UUID(pu.Bytes)
	return &id
}

func TimeToPgtype(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

// TimeFromPgtype maps NULL to the zero time.
func TimeFromPgtype(pt pgtype.Timestamptz) time.Time {
	if !pt.Valid {
		return time.Time{}
	}
	return pt.Time
}

func DecimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

// DecimalFromNumeric converts a NUMERIC column. NULL maps to zero;
// NaN and infinities are rejected.
func DecimalFromNumeric(pn pgtype.Numeric) (decimal.Decimal, error) {
	switch {
	case !pn.Valid:
		return decimal.Zero, nil
	case pn.NaN:
		return decimal.Zero, fmt.Errorf("%w: NaN", ErrInvalidNumericValue)
	case pn.InfinityModifier != pgtype.Finite:
		return decimal.Zero, fmt.Errorf("%w: infinity", ErrInvalidNumericValue)
	case pn.Int == nil:
		return decimal.Zero, fmt.Errorf("%w: missing digits", ErrInvalidNumericValue)
	}
	return decimal.NewFromBigInt(pn.Int, pn.Exp), nil
}

func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

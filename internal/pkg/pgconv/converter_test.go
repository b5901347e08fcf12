//go:build unit

package pgconv_test

import (
	"math/big"
	"testing"

	"washday/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecimalNumeric(t *testing.T) {
	t.Run("round trip keeps cents", func(t *testing.T) {
		in := decimal.RequireFromString("1560.25")

		out, err := pgconv.DecimalFromNumeric(pgconv.DecimalToNumeric(in))
		require.NoError(t, err)
		assert.True(t, in.Equal(out))
	})

	t.Run("null is zero", func(t *testing.T) {
		out, err := pgconv.DecimalFromNumeric(pgtype.Numeric{})
		require.NoError(t, err)
		assert.True(t, out.IsZero())
	})

	t.Run("NaN is rejected", func(t *testing.T) {
		_, err := pgconv.DecimalFromNumeric(pgtype.Numeric{NaN: true, Valid: true})
		assert.ErrorIs(t, err, pgconv.ErrInvalidNumericValue)
	})

	t.Run("scaled integer", func(t *testing.T) {
		out, err := pgconv.DecimalFromNumeric(pgtype.Numeric{Int: big.NewInt(145), Exp: -2, Valid: true})
		require.NoError(t, err)
		assert.Equal(t, "1.45", out.String())
	})
}

func TestNullables(t *testing.T) {
	assert.Nil(t, pgconv.UUIDPtrFromPgtype(pgtype.UUID{}))
	assert.True(t, pgconv.TimeFromPgtype(pgtype.Timestamptz{}).IsZero())

	_, err := pgconv.DecimalFromNumeric(pgtype.Numeric{InfinityModifier: pgtype.Infinity, Valid: true})
	assert.ErrorIs(t, err, pgconv.ErrInvalidNumericValue)
}

func TestIsNoRows(t *testing.T) {
	assert.True(t, pgconv.IsNoRows(pgx.ErrNoRows))
	assert.False(t, pgconv.IsNoRows(nil))
}

//go:build unit

package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"washday/internal/cli"
	"washday/internal/domain/wheel"
	"washday/internal/pkg/catalog"
	"washday/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := cli.NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestQuoteCmd(t *testing.T) {
	t.Run("slowest item sets the lead time", func(t *testing.T) {
		out, err := run(t, "quote", "--item", "200:4:6", "--item", "400", "--hours", "24")
		require.NoError(t, err)

		assert.Regexp(t, `minimum lead time\s+24h`, out)
		assert.Regexp(t, `multiplier\s+1\.30`, out)
		assert.Regexp(t, `speed\s+Normal`, out)
		assert.Regexp(t, `final total\s+1560\.00 KES`, out)
	})

	t.Run("empty cart quotes the fastest window", func(t *testing.T) {
		out, err := run(t, "quote")
		require.NoError(t, err)
		assert.Contains(t, out, "Express")
		assert.Contains(t, out, "0.00 KES")
	})

	tests := []struct {
		name string
		item string
	}{
		{"non numeric price", "abc"},
		{"too many parts", "1:2:3:4"},
		{"bad quantity", "100:x"},
		{"bad hours", "100:1:soon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, "quote", "--item", tt.item)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.item)
		})
	}

	t.Run("negative quantity is rejected by the engine", func(t *testing.T) {
		_, err := run(t, "quote", "--item", "100:-1")
		require.Error(t, err)
	})
}

func TestCurveCmd(t *testing.T) {
	out, err := run(t, "curve")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 7)
	assert.Contains(t, lines[1], "Express")
	assert.Contains(t, lines[6], "Economy")
}

func TestSimulateCmd(t *testing.T) {
	t.Run("same seed replays the same run", func(t *testing.T) {
		first, err := run(t, "simulate", "--spins", "2000", "--seed", "42")
		require.NoError(t, err)
		second, err := run(t, "simulate", "--spins", "2000", "--seed", "42")
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Regexp(t, `wagered\s+20000\.00 KES`, first)
		assert.Contains(t, first, "Platinum (2000 lifetime spins)")
	})

	tests := []struct {
		name string
		args []string
	}{
		{"zero spins", []string{"--spins", "0"}},
		{"negative lifetime", []string{"--lifetime", "-1"}},
		{"wager below a cent", []string{"--wager", "0.001"}},
		{"wager not a number", []string{"--wager", "ten"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, append([]string{"simulate", "--seed", "1"}, tt.args...)...)
			require.Error(t, err)
		})
	}
}

func TestCatalogCmd(t *testing.T) {
	t.Run("embedded catalog validates", func(t *testing.T) {
		out, err := run(t, "catalog", "validate")
		require.NoError(t, err)
		assert.Contains(t, out, "6 anchors, 8 segments, 4 tiers")
		assert.Contains(t, out, "limits 1000.00/5000.00 KES")
	})

	t.Run("show round-trips through the loader", func(t *testing.T) {
		out, err := run(t, "catalog", "show")
		require.NoError(t, err)

		c, err := catalog.Parse([]byte(out))
		require.NoError(t, err)
		_, err = c.Build()
		require.NoError(t, err)
	})

	t.Run("broken wheel is reported", func(t *testing.T) {
		shown, err := run(t, "catalog", "show")
		require.NoError(t, err)
		broken := strings.Replace(shown, "probability: 0.02", "probability: 0.5", 1)
		require.NotEqual(t, shown, broken)

		path := filepath.Join(t.TempDir(), "catalog.yaml")
		require.NoError(t, os.WriteFile(path, []byte(broken), 0o600))

		_, err = run(t, "catalog", "validate", "--catalog", path)
		require.ErrorIs(t, err, wheel.ErrInvalidConfiguration)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := run(t, "catalog", "validate", "--catalog", filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})
}

func TestTokenCmd(t *testing.T) {
	t.Run("signs a verifiable token", func(t *testing.T) {
		playerID := uuid.New()
		out, err := run(t, "token", "--secret", "s3cr3t", "--role", "player", "--player", playerID.String())
		require.NoError(t, err)

		claims, err := jwt.NewService("s3cr3t").ValidateToken(strings.TrimSpace(out))
		require.NoError(t, err)
		assert.Equal(t, playerID, claims.PlayerID)
		assert.Equal(t, "player", claims.Role)
	})

	t.Run("falls back to JWT_SECRET", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "from-env")
		out, err := run(t, "token")
		require.NoError(t, err)

		claims, err := jwt.NewService("from-env").ValidateToken(strings.TrimSpace(out))
		require.NoError(t, err)
		assert.Equal(t, "operator", claims.Role)
	})

	tests := []struct {
		name string
		args []string
	}{
		{"unknown role", []string{"--secret", "s", "--role", "croupier"}},
		{"bad player id", []string{"--secret", "s", "--player", "42"}},
		{"non positive ttl", []string{"--secret", "s", "--ttl", "0s"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, append([]string{"token"}, tt.args...)...)
			require.Error(t, err)
		})
	}

	t.Run("no secret anywhere", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		_, err := run(t, "token")
		require.Error(t, err)
	})
}

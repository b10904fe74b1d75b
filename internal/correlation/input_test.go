package correlation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestReadInput(t *testing.T) {
	t.Run("reads YAML", func(t *testing.T) {
		path := writeFile(t, "prices.yaml", `
market: [100, 101, 102]
series:
  - ticker: AAPL
    sector: Tech
    market_cap: 3000
    prices: [10, 11, 12]
`)

		in, err := ReadInput(path)

		require.NoError(t, err)
		assert.Equal(t, []float64{100, 101, 102}, in.Market)
		require.Len(t, in.Series, 1)
		assert.Equal(t, "AAPL", in.Series[0].Ticker)
		assert.Equal(t, 3000.0, in.Series[0].MarketCap)
	})

	t.Run("reads JSON", func(t *testing.T) {
		path := writeFile(t, "prices.json",
			`{"series": [{"ticker": "JPM", "sector": "Finance", "marketCap": 500, "prices": [1, 2]}]}`)

		in, err := ReadInput(path)

		require.NoError(t, err)
		assert.Nil(t, in.Market)
		assert.Equal(t, 500.0, in.Series[0].MarketCap)
	})

	t.Run("rejects a file without series", func(t *testing.T) {
		_, err := ReadInput(writeFile(t, "prices.json", `{"series": []}`))

		assert.ErrorContains(t, err, "no series")
	})

	t.Run("rejects a series without ticker", func(t *testing.T) {
		_, err := ReadInput(writeFile(t, "prices.yml", "series:\n  - prices: [1]\n"))

		assert.ErrorContains(t, err, "no ticker")
	})

	t.Run("reports a missing file", func(t *testing.T) {
		_, err := ReadInput(filepath.Join(t.TempDir(), "nope.json"))

		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

package chain

import (
	"context"
	"testing"
	"time"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
	mockcore "github.com/amirhossein-jamali/fintech-backoffice/mocks/port/core"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatedOracle(t *testing.T) {
	ctx := context.Background()
	random := mockcore.NewMockRandomSource(t)
	oracle := NewSimulatedOracle(random, 0)

	t.Run("balance", func(t *testing.T) {
		b, err := oracle.TokenBalance(ctx, 1, "0x0", "0xabc")
		require.NoError(t, err)
		assert.Equal(t, "1000.123456789012345678", b.String())
	})

	t.Run("prices", func(t *testing.T) {
		eth, err := oracle.PriceUSD(ctx, "eth")
		require.NoError(t, err)
		assert.True(t, eth.Equal(decimal.NewFromInt(2400)))

		unknown, err := oracle.PriceUSD(ctx, "SHIB")
		require.NoError(t, err)
		assert.True(t, unknown.Equal(decimal.NewFromInt(1)))
	})

	t.Run("gas tiers", func(t *testing.T) {
		gas, err := oracle.GasPrice(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), gas.ChainID)
		assert.True(t, gas.Slow.LessThan(gas.Standard))
		assert.True(t, gas.Standard.LessThan(gas.Fast))

		other, err := oracle.GasPrice(ctx, 999)
		require.NoError(t, err)
		assert.Equal(t, "20", other.Standard.String())
	})

	t.Run("send transaction", func(t *testing.T) {
		random.On("Hex", 32).Return("ab12", nil).Once()
		hash, err := oracle.SendTransaction(ctx, core.OutgoingChainTx{ChainID: 1, Value: decimal.NewFromInt(1)})
		require.NoError(t, err)
		assert.Equal(t, "0xab12", hash)

		_, err = oracle.SendTransaction(ctx, core.OutgoingChainTx{ChainID: 1, Value: decimal.NewFromInt(-1)})
		assert.Error(t, err)
	})

	t.Run("protocols are copies", func(t *testing.T) {
		ps, err := oracle.Protocols(ctx)
		require.NoError(t, err)
		require.Len(t, ps, 3)
		assert.Equal(t, []string{"Uniswap V3", "Aave", "Compound"}, []string{ps[0].Name, ps[1].Name, ps[2].Name})

		ps[0].ChainIDs[0] = 0
		again, _ := oracle.Protocols(ctx)
		assert.Equal(t, int64(1), again[0].ChainIDs[0])
	})
}

func TestSimulatedOracle_LatencyRespectsContext(t *testing.T) {
	oracle := NewSimulatedOracle(mockcore.NewMockRandomSource(t), time.Hour)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := oracle.PriceUSD(ctx, "ETH")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

package chain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
	"github.com/shopspring/decimal"
)

// simulatedBalance is reported for every token in every wallet
var simulatedBalance = decimal.RequireFromString("1000.123456789012345678")

// USD prices by upper-case symbol; unknown symbols are priced at 1
var priceTable = map[string]decimal.Decimal{
	"ETH":   decimal.NewFromInt(2400),
	"WETH":  decimal.NewFromInt(2400),
	"WBTC":  decimal.NewFromInt(43000),
	"MATIC": decimal.RequireFromString("0.85"),
	"POL":   decimal.RequireFromString("0.85"),
	"ARB":   decimal.RequireFromString("1.10"),
	"USDC":  decimal.NewFromInt(1),
	"USDT":  decimal.NewFromInt(1),
	"DAI":   decimal.NewFromInt(1),
	"LINK":  decimal.RequireFromString("14.50"),
	"UNI":   decimal.RequireFromString("6.20"),
}

type gasTiers struct{ slow, standard, fast string }

var gasTable = map[int64]gasTiers{
	1:        {"18", "25", "35"},
	137:      {"30", "45", "80"},
	42161:    {"0.01", "0.02", "0.05"},
	11155111: {"1", "2", "3"},
}

var defaultGas = gasTiers{"10", "20", "30"}

var protocols = []core.Protocol{
	{
		Name:     "Uniswap V3",
		Slug:     "uniswap-v3",
		Category: "dex",
		ChainIDs: []int64{1, 137, 42161},
		TVL:      decimal.NewFromInt(4_200_000_000),
		APY:      decimal.RequireFromString("12.5"),
	},
	{
		Name:     "Aave",
		Slug:     "aave",
		Category: "lending",
		ChainIDs: []int64{1, 137, 42161},
		TVL:      decimal.NewFromInt(6_800_000_000),
		APY:      decimal.RequireFromString("4.2"),
	},
	{
		Name:     "Compound",
		Slug:     "compound",
		Category: "lending",
		ChainIDs: []int64{1},
		TVL:      decimal.NewFromInt(2_100_000_000),
		APY:      decimal.RequireFromString("3.8"),
	},
}

// SimulatedOracle answers chain queries from fixed tables. Hashes it hands
// out are random and refer to nothing on chain.
type SimulatedOracle struct {
	random  core.RandomSource
	latency time.Duration
}

// NewSimulatedOracle creates an oracle that waits latency before answering
func NewSimulatedOracle(random core.RandomSource, latency time.Duration) *SimulatedOracle {
	return &SimulatedOracle{random: random, latency: latency}
}

func (o *SimulatedOracle) wait(ctx context.Context) error {
	if o.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(o.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (o *SimulatedOracle) TokenBalance(ctx context.Context, _ int64, _, _ string) (decimal.Decimal, error) {
	if err := o.wait(ctx); err != nil {
		return decimal.Zero, err
	}
	return simulatedBalance, nil
}

func (o *SimulatedOracle) PriceUSD(ctx context.Context, symbol string) (decimal.Decimal, error) {
	if err := o.wait(ctx); err != nil {
		return decimal.Zero, err
	}
	if price, ok := priceTable[strings.ToUpper(symbol)]; ok {
		return price, nil
	}
	return decimal.NewFromInt(1), nil
}

func (o *SimulatedOracle) GasPrice(ctx context.Context, chainID int64) (core.GasPrice, error) {
	if err := o.wait(ctx); err != nil {
		return core.GasPrice{}, err
	}
	tiers, ok := gasTable[chainID]
	if !ok {
		tiers = defaultGas
	}
	return core.GasPrice{
		ChainID:  chainID,
		Slow:     decimal.RequireFromString(tiers.slow),
		Standard: decimal.RequireFromString(tiers.standard),
		Fast:     decimal.RequireFromString(tiers.fast),
	}, nil
}

// SendTransaction returns a fresh 32 byte hash
func (o *SimulatedOracle) SendTransaction(ctx context.Context, tx core.OutgoingChainTx) (string, error) {
	if err := o.wait(ctx); err != nil {
		return "", err
	}
	if tx.Value.IsNegative() {
		return "", fmt.Errorf("negative value %s", tx.Value)
	}
	h, err := o.random.Hex(32)
	if err != nil {
		return "", fmt.Errorf("generate tx hash: %w", err)
	}
	return "0x" + h, nil
}

func (o *SimulatedOracle) Protocols(ctx context.Context) ([]core.Protocol, error) {
	if err := o.wait(ctx); err != nil {
		return nil, err
	}
	out := make([]core.Protocol, len(protocols))
	for i, p := range protocols {
		p.ChainIDs = append([]int64(nil), p.ChainIDs...)
		out[i] = p
	}
	return out, nil
}

package core

import (
	"context"
	"sync"
	"time"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockCache is a testify mock of core.Cache
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	args := m.Called(ctx, key, dest)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// RecordingPublisher keeps every published event in memory
type RecordingPublisher struct {
	mu     sync.Mutex
	Events []core.Event
	Err    error
}

func (p *RecordingPublisher) Publish(_ context.Context, events ...core.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, events...)
	return p.Err
}

func (p *RecordingPublisher) Close() error { return nil }

// Names returns the names of the recorded events in order
func (p *RecordingPublisher) Names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, 0, len(p.Events))
	for _, e := range p.Events {
		names = append(names, e.Name)
	}
	return names
}

// MockChainOracle is a testify mock of core.ChainOracle
type MockChainOracle struct {
	mock.Mock
}

func (m *MockChainOracle) TokenBalance(ctx context.Context, chainID int64, tokenAddress, wallet string) (decimal.Decimal, error) {
	args := m.Called(ctx, chainID, tokenAddress, wallet)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockChainOracle) PriceUSD(ctx context.Context, symbol string) (decimal.Decimal, error) {
	args := m.Called(ctx, symbol)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockChainOracle) GasPrice(ctx context.Context, chainID int64) (core.GasPrice, error) {
	args := m.Called(ctx, chainID)
	return args.Get(0).(core.GasPrice), args.Error(1)
}

func (m *MockChainOracle) SendTransaction(ctx context.Context, tx core.OutgoingChainTx) (string, error) {
	args := m.Called(ctx, tx)
	return args.String(0), args.Error(1)
}

func (m *MockChainOracle) Protocols(ctx context.Context) ([]core.Protocol, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]core.Protocol), args.Error(1)
}

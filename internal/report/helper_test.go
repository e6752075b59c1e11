package report_test

import (
	"context"
	"testing"

	"github.com/rohmanhakim/coin-checker/internal/markets"
	"github.com/rohmanhakim/coin-checker/internal/whitepaper"
	"github.com/rohmanhakim/coin-checker/pkg/failure"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// marketSourceMock is a testify mock for the MarketSource
type marketSourceMock struct {
	mock.Mock
}

func (m *marketSourceMock) MarketData(ctx context.Context, slug string) (markets.MarketData, failure.ClassifiedError) {
	args := m.Called(ctx, slug)
	data := args.Get(0).(markets.MarketData)
	if args.Get(1) == nil {
		return data, nil
	}
	return data, args.Get(1).(failure.ClassifiedError)
}

// issuanceSourceMock is a testify mock for the IssuanceSource
type issuanceSourceMock struct {
	mock.Mock
}

func (m *issuanceSourceMock) Issuance(ctx context.Context, slug string) (markets.Issuance, failure.ClassifiedError) {
	args := m.Called(ctx, slug)
	issuance := args.Get(0).(markets.Issuance)
	if args.Get(1) == nil {
		return issuance, nil
	}
	return issuance, args.Get(1).(failure.ClassifiedError)
}

// tvlSourceMock is a testify mock for the TVLSource
type tvlSourceMock struct {
	mock.Mock
}

func (m *tvlSourceMock) ChainTVL(ctx context.Context, chainSlug string) (markets.ValueLocked, failure.ClassifiedError) {
	args := m.Called(ctx, chainSlug)
	locked := args.Get(0).(markets.ValueLocked)
	if args.Get(1) == nil {
		return locked, nil
	}
	return locked, args.Get(1).(failure.ClassifiedError)
}

func (m *tvlSourceMock) ProtocolTVL(ctx context.Context, protocolSlug string) (markets.ValueLocked, failure.ClassifiedError) {
	args := m.Called(ctx, protocolSlug)
	locked := args.Get(0).(markets.ValueLocked)
	if args.Get(1) == nil {
		return locked, nil
	}
	return locked, args.Get(1).(failure.ClassifiedError)
}

// shieldedPoolSourceMock is a testify mock for the ShieldedPoolSource
type shieldedPoolSourceMock struct {
	mock.Mock
}

func (m *shieldedPoolSourceMock) ShieldedValueLockedUsd(ctx context.Context, priceUsd decimal.Decimal) (markets.ValueLocked, failure.ClassifiedError) {
	args := m.Called(ctx, priceUsd)
	locked := args.Get(0).(markets.ValueLocked)
	if args.Get(1) == nil {
		return locked, nil
	}
	return locked, args.Get(1).(failure.ClassifiedError)
}

// whitepaperSourceMock is a testify mock for the WhitepaperSource
type whitepaperSourceMock struct {
	mock.Mock
}

func (m *whitepaperSourceMock) Analyze(ctx context.Context, whitepaperURL string) (whitepaper.Analysis, failure.ClassifiedError) {
	args := m.Called(ctx, whitepaperURL)
	analysis := args.Get(0).(whitepaper.Analysis)
	if args.Get(1) == nil {
		return analysis, nil
	}
	return analysis, args.Get(1).(failure.ClassifiedError)
}

type runnerMocks struct {
	market       *marketSourceMock
	issuance     *issuanceSourceMock
	tvl          *tvlSourceMock
	shieldedPool *shieldedPoolSourceMock
	whitepapers  *whitepaperSourceMock
}

func newRunnerMocks(t *testing.T) runnerMocks {
	t.Helper()
	return runnerMocks{
		market:       new(marketSourceMock),
		issuance:     new(issuanceSourceMock),
		tvl:          new(tvlSourceMock),
		shieldedPool: new(shieldedPoolSourceMock),
		whitepapers:  new(whitepaperSourceMock),
	}
}

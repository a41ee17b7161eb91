package testutil

import (
	"context"
)

type MockEthClient struct {
	BlockNumberFunc      func(ctx context.Context) (uint64, error)
	TransactionCountFunc func(ctx context.Context, address string) (uint64, error)
}

func (m *MockEthClient) Start(ctx context.Context) {}

func (m *MockEthClient) Close() {}

func (m *MockEthClient) BlockNumber(ctx context.Context) (uint64, error) {
	if m.BlockNumberFunc != nil {
		return m.BlockNumberFunc(ctx)
	}

	return 0, nil
}

func (m *MockEthClient) TransactionCount(ctx context.Context, address string) (uint64, error) {
	if m.TransactionCountFunc != nil {
		return m.TransactionCountFunc(ctx, address)
	}

	return 0, nil
}

package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/hold"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) ClaimLease(
	ctx context.Context, id kernel.UUID, kind order.LeaseKind, worker kernel.WorkerID, now time.Time, staleAfter time.Duration,
) (ports.LeaseWrite, error) {
	args := m.Called(ctx, id, kind, worker, now, staleAfter)
	return args.Get(0).(ports.LeaseWrite), args.Error(1)
}

func (m *MockOrderRepository) ReleaseLease(
	ctx context.Context, id kernel.UUID, kind order.LeaseKind, worker kernel.WorkerID, reason string, now time.Time,
) (ports.LeaseWrite, error) {
	args := m.Called(ctx, id, kind, worker, reason, now)
	return args.Get(0).(ports.LeaseWrite), args.Error(1)
}

func (m *MockOrderRepository) MarkLeaseReady(
	ctx context.Context, id kernel.UUID, kind order.LeaseKind, worker kernel.WorkerID, now time.Time,
) (ports.LeaseWrite, error) {
	args := m.Called(ctx, id, kind, worker, now)
	return args.Get(0).(ports.LeaseWrite), args.Error(1)
}

func (m *MockOrderRepository) HeartbeatLease(
	ctx context.Context, id kernel.UUID, kind order.LeaseKind, worker kernel.WorkerID, now time.Time,
) (ports.LeaseWrite, error) {
	args := m.Called(ctx, id, kind, worker, now)
	return args.Get(0).(ports.LeaseWrite), args.Error(1)
}

func (m *MockOrderRepository) ApplyTransition(ctx context.Context, t order.Transition) (bool, error) {
	args := m.Called(ctx, t)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) ReleaseStaleLeases(
	ctx context.Context, kind order.LeaseKind, staleAfter time.Duration, reason string, now time.Time,
) (int64, error) {
	args := m.Called(ctx, kind, staleAfter, reason, now)
	return args.Get(0).(int64), args.Error(1)
}

type MockHoldRepository struct{ mock.Mock }

func (m *MockHoldRepository) Add(ctx context.Context, h *hold.StockHold) error {
	args := m.Called(ctx, h)
	return args.Error(0)
}

func (m *MockHoldRepository) ConfirmLive(ctx context.Context, orderID kernel.UUID, now time.Time) (int64, error) {
	args := m.Called(ctx, orderID, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockHoldRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) HoldRepository() ports.HoldRepository {
	args := m.Called()
	return args.Get(0).(ports.HoldRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockHoldUoWFactory struct{ mock.Mock }

func (m *MockHoldUoWFactory) Create() commands.HoldUoW {
	args := m.Called()
	return args.Get(0).(commands.HoldUoW)
}

type MockStageNotifier struct{ mock.Mock }

func (m *MockStageNotifier) NotifyStage(ctx context.Context, orderID kernel.UUID, stage order.Status) error {
	args := m.Called(ctx, orderID, stage)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func worker(t *testing.T, name string) kernel.WorkerID {
	t.Helper()
	w, err := kernel.NewWorkerID(name)
	require.NoError(t, err)
	return w
}

func lease(t *testing.T, kind order.LeaseKind, status order.LeaseStatus, holder string) order.Lease {
	t.Helper()
	l, err := order.RestoreLease(kind, status, holder, testNow, testNow, nil, "")
	require.NoError(t, err)
	return l
}

func storedOrder(t *testing.T, id kernel.UUID, status order.Status, packing, delivery order.Lease) *order.Order {
	t.Helper()
	o, err := order.RestoreOrder(id, status, packing, delivery, testNow.Add(-time.Hour), testNow.Add(-time.Hour))
	require.NoError(t, err)
	return o
}

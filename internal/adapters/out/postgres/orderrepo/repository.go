package orderrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	idle       = order.LeaseIdle.String()
	inProgress = order.LeaseInProgress.String()
	ready      = order.LeaseReady.String()
)

// GormOrderRepository implements OrderRepository using GORM.
//
// Lease writes are UPDATE ... WHERE <predicate> RETURNING *. Postgres
// re-evaluates the predicate against the latest committed row when two
// transactions race, so at most one of them matches.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

var _ ports.OrderRepository = (*GormOrderRepository)(nil)

// Add saves a new order to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	dto, err := r.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDomain(dto)
}

// ClaimLease grants the lease when it is idle, re-claimed by its holder, or stale.
func (r *GormOrderRepository) ClaimLease(
	ctx context.Context,
	id kernel.UUID,
	kind order.LeaseKind,
	worker kernel.WorkerID,
	now time.Time,
	staleAfter time.Duration,
) (ports.LeaseWrite, error) {
	cols, err := columnsFor(kind)
	if err != nil {
		return ports.LeaseWrite{}, err
	}

	// The zero time never matches a heartbeat, which disables takeover.
	var staleBefore time.Time
	if staleAfter > 0 {
		staleBefore = now.Add(-staleAfter)
	}

	return r.writeLease(ctx, id, kind,
		fmt.Sprintf("(%[1]s = ? OR (%[1]s = ? AND (%[2]s = ? OR %[3]s <= ?)))", cols.status, cols.claimedBy, cols.heartbeatAt),
		[]any{idle, inProgress, worker.String(), staleBefore},
		map[string]any{
			cols.status:      inProgress,
			cols.claimedBy:   worker.String(),
			cols.claimedAt:   now,
			cols.heartbeatAt: now,
		},
	)
}

// ReleaseLease returns the worker's in-progress lease to idle.
func (r *GormOrderRepository) ReleaseLease(
	ctx context.Context,
	id kernel.UUID,
	kind order.LeaseKind,
	worker kernel.WorkerID,
	reason string,
	now time.Time,
) (ports.LeaseWrite, error) {
	cols, err := columnsFor(kind)
	if err != nil {
		return ports.LeaseWrite{}, err
	}

	return r.writeLease(ctx, id, kind,
		fmt.Sprintf("%s = ? AND %s = ?", cols.status, cols.claimedBy),
		[]any{inProgress, worker.String()},
		map[string]any{
			cols.status:     idle,
			cols.claimedBy:  "",
			cols.releasedAt: now,
			cols.reason:     reason,
		},
	)
}

// MarkLeaseReady freezes the worker's lease; repeating it is accepted.
func (r *GormOrderRepository) MarkLeaseReady(
	ctx context.Context,
	id kernel.UUID,
	kind order.LeaseKind,
	worker kernel.WorkerID,
	now time.Time,
) (ports.LeaseWrite, error) {
	cols, err := columnsFor(kind)
	if err != nil {
		return ports.LeaseWrite{}, err
	}

	return r.writeLease(ctx, id, kind,
		fmt.Sprintf("%s IN (?, ?) AND %s = ?", cols.status, cols.claimedBy),
		[]any{inProgress, ready, worker.String()},
		map[string]any{
			cols.status:      ready,
			cols.heartbeatAt: now,
		},
	)
}

// HeartbeatLease refreshes the heartbeat of the worker's in-progress lease.
func (r *GormOrderRepository) HeartbeatLease(
	ctx context.Context,
	id kernel.UUID,
	kind order.LeaseKind,
	worker kernel.WorkerID,
	now time.Time,
) (ports.LeaseWrite, error) {
	cols, err := columnsFor(kind)
	if err != nil {
		return ports.LeaseWrite{}, err
	}

	return r.writeLease(ctx, id, kind,
		fmt.Sprintf("%s = ? AND %s = ?", cols.status, cols.claimedBy),
		[]any{inProgress, worker.String()},
		map[string]any{cols.heartbeatAt: now},
	)
}

// ApplyTransition moves the order out of transition.From() when the gate
// lease is still held by the worker and its heartbeat is within the bound.
func (r *GormOrderRepository) ApplyTransition(ctx context.Context, transition order.Transition) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND status = ?", transition.OrderID().Bytes(), int(transition.From()))

	values := map[string]any{
		"status":     int(transition.To()),
		"updated_at": transition.At(),
	}

	if transition.IsGated() {
		cols, err := columnsFor(transition.Gate())
		if err != nil {
			return false, err
		}

		// The zero time never exceeds a heartbeat, which disables the bound.
		var staleBefore time.Time
		if transition.StaleAfter() > 0 {
			staleBefore = transition.At().Add(-transition.StaleAfter())
		}

		gate := fmt.Sprintf("%s = ? AND %s > ?", cols.status, cols.heartbeatAt)
		args := []any{transition.Worker().String(), inProgress, staleBefore}
		if transition.AcceptsReady() {
			gate = fmt.Sprintf("(%s) OR %s = ?", gate, cols.status)
			args = append(args, ready)
		}
		query = query.Where(fmt.Sprintf("%s = ? AND (%s)", cols.claimedBy, gate), args...)

		if transition.CompletesLease() {
			values[cols.status] = ready
			values[cols.heartbeatAt] = transition.At()
		}
	}

	result := query.Updates(values)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// ReleaseStaleLeases releases every in-progress lease of kind without a
// heartbeat for staleAfter.
func (r *GormOrderRepository) ReleaseStaleLeases(
	ctx context.Context,
	kind order.LeaseKind,
	staleAfter time.Duration,
	reason string,
	now time.Time,
) (int64, error) {
	cols, err := columnsFor(kind)
	if err != nil {
		return 0, err
	}
	if staleAfter <= 0 {
		return 0, errs.NewValueIsInvalidErrorWithCause("staleAfter", fmt.Errorf("%s is not positive", staleAfter))
	}

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where(fmt.Sprintf("%s = ? AND %s <= ?", cols.status, cols.heartbeatAt), inProgress, now.Add(-staleAfter)).
		Updates(map[string]any{
			cols.status:     idle,
			cols.claimedBy:  "",
			cols.releasedAt: now,
			cols.reason:     reason,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// writeLease runs one conditional UPDATE on the order row. When the
// condition fails it reads the row to report the lease that blocked it.
func (r *GormOrderRepository) writeLease(
	ctx context.Context,
	id kernel.UUID,
	kind order.LeaseKind,
	condition string,
	args []any,
	values map[string]any,
) (ports.LeaseWrite, error) {
	if err := id.Validate(); err != nil {
		return ports.LeaseWrite{}, err
	}

	var dto OrderDTO
	result := r.db.WithContext(ctx).
		Model(&dto).
		Clauses(clause.Returning{}).
		Where("id = ?", id.Bytes()).
		Where(condition, args...).
		Updates(values)
	if result.Error != nil {
		return ports.LeaseWrite{}, result.Error
	}

	applied := result.RowsAffected == 1
	if !applied {
		current, err := r.load(ctx, id)
		if err != nil {
			return ports.LeaseWrite{}, err
		}
		dto = current
	}

	lease, err := leaseToDomain(kind, leaseOf(dto, kind))
	if err != nil {
		return ports.LeaseWrite{}, err
	}
	return ports.LeaseWrite{Lease: lease, Applied: applied}, nil
}

func (r *GormOrderRepository) load(ctx context.Context, id kernel.UUID) (OrderDTO, error) {
	if err := id.Validate(); err != nil {
		return OrderDTO{}, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OrderDTO{}, errs.NewObjectNotFoundError("order", id.String())
		}
		return OrderDTO{}, err
	}
	return dto, nil
}

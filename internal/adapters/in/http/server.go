package http

import (
	"context"
	"log/slog"
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/hold"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

type ClaimLeaseHandler interface {
	Handle(ctx context.Context, cmd commands.ClaimLeaseCommand) (order.Lease, error)
}

type ReleaseLeaseHandler interface {
	Handle(ctx context.Context, cmd commands.ReleaseLeaseCommand) (ports.LeaseWrite, error)
}

type MarkLeaseReadyHandler interface {
	Handle(ctx context.Context, cmd commands.MarkLeaseReadyCommand) (order.Lease, error)
}

type HeartbeatLeaseHandler interface {
	Handle(ctx context.Context, cmd commands.HeartbeatLeaseCommand) (order.Lease, error)
}

type TransitionStatusHandler interface {
	Handle(ctx context.Context, cmd commands.TransitionStatusCommand) (*order.Order, error)
}

type PlaceOrderHandler interface {
	Handle(ctx context.Context, cmd commands.PlaceOrderCommand) (commands.PlacedOrder, error)
}

type ConfirmHoldHandler interface {
	Handle(ctx context.Context, cmd commands.ConfirmHoldCommand) (int64, error)
}

type GetLeaseStatusHandler interface {
	Handle(ctx context.Context, query queries.GetLeaseStatusQuery) (queries.GetLeaseStatusQueryResponse, error)
}

type GetOrderHandler interface {
	Handle(ctx context.Context, query queries.GetOrderQuery) (queries.GetOrderQueryResponse, error)
}

type GetAvailabilityHandler interface {
	Handle(ctx context.Context, query queries.GetAvailabilityQuery) (hold.Availability, error)
}

// Handlers groups the use cases the API exposes.
type Handlers struct {
	ClaimLease       ClaimLeaseHandler
	ReleaseLease     ReleaseLeaseHandler
	MarkLeaseReady   MarkLeaseReadyHandler
	HeartbeatLease   HeartbeatLeaseHandler
	TransitionStatus TransitionStatusHandler
	PlaceOrder       PlaceOrderHandler
	ConfirmHold      ConfirmHoldHandler
	GetLeaseStatus   GetLeaseStatusHandler
	GetOrder         GetOrderHandler
	GetAvailability  GetAvailabilityHandler
}

// Server implements ServerInterface on top of the application use cases.
type Server struct {
	h       Handlers
	metrics *Metrics
	logger  *slog.Logger
}

var _ ServerInterface = (*Server)(nil)

func NewServer(handlers Handlers, metrics *Metrics, logger *slog.Logger) *Server {
	return &Server{
		h:       handlers,
		metrics: metrics,
		logger:  logger.With("component", "http"),
	}
}

// PlaceOrder handles POST /api/v1/orders.
func (s *Server) PlaceOrder(ctx echo.Context) error {
	var body PlaceOrderRequest
	if err := ctx.Bind(&body); err != nil {
		return err
	}

	lines := make([]hold.Line, 0, len(body.Lines))
	for _, l := range body.Lines {
		line, err := hold.NewLine(l.Product, l.Unit, l.Quantity)
		if err != nil {
			return writeError(ctx, s.logger, err)
		}
		lines = append(lines, line)
	}

	cmd, err := commands.NewPlaceOrderCommand(kernel.NewUUID(), lines)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}

	placed, err := s.h.PlaceOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}

	holds := []queries.HoldView{{
		ID:        placed.Hold.ID(),
		Confirmed: placed.Hold.IsConfirmed(),
		ExpiresAt: placed.Hold.ExpiresAt(),
		Lines:     placed.Hold.Lines(),
	}}
	return ctx.JSON(http.StatusCreated, toOrder(placed.Order, holds))
}

// GetOrder handles GET /api/v1/orders/{orderId}.
func (s *Server) GetOrder(ctx echo.Context, orderId openapi_types.UUID) error {
	id, err := kernel.UUIDFromBytes(orderId[:])
	if err != nil {
		return writeError(ctx, s.logger, err)
	}

	query, err := queries.NewGetOrderQuery(id)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}

	view, err := s.h.GetOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}
	return ctx.JSON(http.StatusOK, toOrder(view.Order, view.Holds))
}

// TransitionOrderStatus handles POST /api/v1/orders/{orderId}/status.
func (s *Server) TransitionOrderStatus(ctx echo.Context, orderId openapi_types.UUID) error {
	var body TransitionRequest
	if err := ctx.Bind(&body); err != nil {
		return err
	}

	updated, err := s.transition(ctx.Request().Context(), orderId, body)
	s.metrics.observeTransition(body.Status, err)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}
	return ctx.JSON(http.StatusOK, toOrder(updated, nil))
}

func (s *Server) transition(ctx context.Context, orderId openapi_types.UUID, body TransitionRequest) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(orderId[:])
	if err != nil {
		return nil, err
	}

	to, err := order.ParseStatus(body.Status)
	if err != nil {
		return nil, err
	}

	var worker kernel.WorkerID
	if body.WorkerId != nil {
		if worker, err = kernel.NewWorkerID(*body.WorkerId); err != nil {
			return nil, err
		}
	}

	cmd, err := commands.NewTransitionStatusCommand(id, to, worker)
	if err != nil {
		return nil, err
	}
	return s.h.TransitionStatus.Handle(ctx, cmd)
}

// ConfirmOrderHolds handles POST /api/v1/orders/{orderId}/holds/confirm.
func (s *Server) ConfirmOrderHolds(ctx echo.Context, orderId openapi_types.UUID) error {
	id, err := kernel.UUIDFromBytes(orderId[:])
	if err != nil {
		return writeError(ctx, s.logger, err)
	}

	cmd, err := commands.NewConfirmHoldCommand(id)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}

	confirmed, err := s.h.ConfirmHold.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}
	return ctx.JSON(http.StatusOK, HoldConfirmation{OrderId: orderId, Confirmed: confirmed})
}

// GetLease handles GET /api/v1/orders/{orderId}/leases/{kind}.
func (s *Server) GetLease(ctx echo.Context, orderId openapi_types.UUID, kind string) error {
	id, err := kernel.UUIDFromBytes(orderId[:])
	if err != nil {
		return writeError(ctx, s.logger, err)
	}

	leaseKind, err := order.ParseLeaseKind(kind)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}

	query, err := queries.NewGetLeaseStatusQuery(id, leaseKind)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}

	snapshot, err := s.h.GetLeaseStatus.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}

	resp := toLease(snapshot.OrderID.Bytes(), snapshot.Lease)
	orderStatus := snapshot.OrderStatus.String()
	resp.OrderStatus = &orderStatus
	return ctx.JSON(http.StatusOK, resp)
}

// ClaimLease handles POST /api/v1/orders/{orderId}/leases/{kind}/claim.
// A conflict answers 409 with the holder; the caller must not retry it.
func (s *Server) ClaimLease(ctx echo.Context, orderId openapi_types.UUID, kind string) error {
	target, err := s.bindWorkerTarget(ctx, orderId, kind)
	if err != nil {
		return err
	}

	lease, err := target.run(func() (order.Lease, error) {
		cmd, cmdErr := commands.NewClaimLeaseCommand(target.orderID, target.kind, target.worker)
		if cmdErr != nil {
			return order.Lease{}, cmdErr
		}
		return s.h.ClaimLease.Handle(ctx.Request().Context(), cmd)
	})
	s.metrics.observeLease("claim", kind, err)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}
	return ctx.JSON(http.StatusOK, toLease(target.orderID.Bytes(), lease))
}

// ReleaseLease handles POST /api/v1/orders/{orderId}/leases/{kind}/release.
// Releasing a lease the worker does not hold is a no-op, not an error.
func (s *Server) ReleaseLease(ctx echo.Context, orderId openapi_types.UUID, kind string) error {
	var body ReleaseRequest
	if err := ctx.Bind(&body); err != nil {
		return err
	}

	var reason string
	if body.Reason != nil {
		reason = *body.Reason
	}

	write, err := s.release(ctx.Request().Context(), orderId, kind, body.WorkerId, reason)
	s.metrics.observeLease("release", kind, err)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}

	if reason == commands.ReasonUnload {
		s.logger.Info("lease released on unload",
			"orderId", orderId.String(),
			"kind", kind,
			"workerId", body.WorkerId,
			"released", write.Applied)
	}

	return ctx.JSON(http.StatusOK, ReleaseResult{
		Released: write.Applied,
		Lease:    toLease(orderId, write.Lease),
	})
}

func (s *Server) release(ctx context.Context, orderId openapi_types.UUID, kind, workerID, reason string) (ports.LeaseWrite, error) {
	id, err := kernel.UUIDFromBytes(orderId[:])
	if err != nil {
		return ports.LeaseWrite{}, err
	}
	leaseKind, err := order.ParseLeaseKind(kind)
	if err != nil {
		return ports.LeaseWrite{}, err
	}
	worker, err := kernel.NewWorkerID(workerID)
	if err != nil {
		return ports.LeaseWrite{}, err
	}
	cmd, err := commands.NewReleaseLeaseCommand(id, leaseKind, worker, reason)
	if err != nil {
		return ports.LeaseWrite{}, err
	}
	return s.h.ReleaseLease.Handle(ctx, cmd)
}

// MarkLeaseReady handles POST /api/v1/orders/{orderId}/leases/{kind}/ready.
func (s *Server) MarkLeaseReady(ctx echo.Context, orderId openapi_types.UUID, kind string) error {
	target, err := s.bindWorkerTarget(ctx, orderId, kind)
	if err != nil {
		return err
	}

	lease, err := target.run(func() (order.Lease, error) {
		cmd, cmdErr := commands.NewMarkLeaseReadyCommand(target.orderID, target.kind, target.worker)
		if cmdErr != nil {
			return order.Lease{}, cmdErr
		}
		return s.h.MarkLeaseReady.Handle(ctx.Request().Context(), cmd)
	})
	s.metrics.observeLease("ready", kind, err)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}
	return ctx.JSON(http.StatusOK, toLease(target.orderID.Bytes(), lease))
}

// HeartbeatLease handles POST /api/v1/orders/{orderId}/leases/{kind}/heartbeat.
func (s *Server) HeartbeatLease(ctx echo.Context, orderId openapi_types.UUID, kind string) error {
	target, err := s.bindWorkerTarget(ctx, orderId, kind)
	if err != nil {
		return err
	}

	lease, err := target.run(func() (order.Lease, error) {
		cmd, cmdErr := commands.NewHeartbeatLeaseCommand(target.orderID, target.kind, target.worker)
		if cmdErr != nil {
			return order.Lease{}, cmdErr
		}
		return s.h.HeartbeatLease.Handle(ctx.Request().Context(), cmd)
	})
	s.metrics.observeLease("heartbeat", kind, err)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}
	return ctx.JSON(http.StatusOK, toLease(target.orderID.Bytes(), lease))
}

// GetAvailability handles GET /api/v1/availability.
func (s *Server) GetAvailability(ctx echo.Context, params GetAvailabilityParams) error {
	query, err := queries.NewGetAvailabilityQuery(params.Product, params.Unit)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}

	a, err := s.h.GetAvailability.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}

	return ctx.JSON(http.StatusOK, Availability{
		Product:   a.Key.Product,
		Unit:      a.Key.Unit,
		Nominal:   a.Nominal,
		Reserved:  a.Reserved,
		Available: a.Available(),
		Oversold:  a.Oversold(),
	})
}

// workerTarget is the parsed (order, kind, worker) of a lease request. fail
// carries a validation error that is reported through the normal error path.
type workerTarget struct {
	orderID kernel.UUID
	kind    order.LeaseKind
	worker  kernel.WorkerID
	fail    error
}

func (t workerTarget) run(fn func() (order.Lease, error)) (order.Lease, error) {
	if t.fail != nil {
		return order.Lease{}, t.fail
	}
	return fn()
}

// bindWorkerTarget returns an error only for malformed bodies.
func (s *Server) bindWorkerTarget(ctx echo.Context, orderId openapi_types.UUID, kind string) (workerTarget, error) {
	var body WorkerRequest
	if err := ctx.Bind(&body); err != nil {
		return workerTarget{}, err
	}

	var target workerTarget
	if target.orderID, target.fail = kernel.UUIDFromBytes(orderId[:]); target.fail != nil {
		return target, nil
	}
	if target.kind, target.fail = order.ParseLeaseKind(kind); target.fail != nil {
		return target, nil
	}
	target.worker, target.fail = kernel.NewWorkerID(body.WorkerId)
	return target, nil
}

func toLease(orderID openapi_types.UUID, lease order.Lease) Lease {
	resp := Lease{
		OrderId: orderID,
		Kind:    lease.Kind().String(),
		Status:  lease.Status().String(),
	}
	if holder := lease.ClaimedBy().String(); holder != "" {
		resp.ClaimedBy = &holder
	}
	if t := lease.ClaimedAt(); !t.IsZero() {
		resp.ClaimedAt = &t
	}
	if t := lease.HeartbeatAt(); !t.IsZero() {
		resp.HeartbeatAt = &t
	}
	resp.ReleasedAt = lease.ReleasedAt()
	if reason := lease.Reason(); reason != "" {
		resp.Reason = &reason
	}
	return resp
}

func toOrder(o *order.Order, holds []queries.HoldView) Order {
	resp := Order{
		Id:            o.ID().Bytes(),
		Status:        o.Status().String(),
		PackingLease:  toLease(o.ID().Bytes(), o.PackingLease()),
		DeliveryLease: toLease(o.ID().Bytes(), o.DeliveryLease()),
		PlacedAt:      o.PlacedAt(),
		UpdatedAt:     o.UpdatedAt(),
		Holds:         make([]Hold, 0, len(holds)),
	}
	for _, h := range holds {
		lines := make([]OrderLine, 0, len(h.Lines))
		for _, l := range h.Lines {
			lines = append(lines, OrderLine{Product: l.Product(), Unit: l.Unit(), Quantity: l.Quantity()})
		}
		resp.Holds = append(resp.Holds, Hold{
			Id:        h.ID.Bytes(),
			Confirmed: h.Confirmed,
			ExpiresAt: h.ExpiresAt,
			Lines:     lines,
		})
	}
	return resp
}

package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"
)

// Error is the body of every non-conflict failure.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// LeaseConflict is returned with 409 when somebody else holds the lease.
type LeaseConflict struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Holder  string `json:"holder"`
	Status  string `json:"status"`
}

type WorkerRequest struct {
	WorkerId string `json:"workerId"`
}

type ReleaseRequest struct {
	WorkerId string  `json:"workerId"`
	Reason   *string `json:"reason,omitempty"`
}

type ReleaseResult struct {
	Released bool  `json:"released"`
	Lease    Lease `json:"lease"`
}

type TransitionRequest struct {
	Status   string  `json:"status"`
	WorkerId *string `json:"workerId,omitempty"`
}

type Lease struct {
	OrderId     openapi_types.UUID `json:"orderId"`
	Kind        string             `json:"kind"`
	Status      string             `json:"status"`
	OrderStatus *string            `json:"orderStatus,omitempty"`
	ClaimedBy   *string            `json:"claimedBy,omitempty"`
	ClaimedAt   *time.Time         `json:"claimedAt,omitempty"`
	HeartbeatAt *time.Time         `json:"heartbeatAt,omitempty"`
	ReleasedAt  *time.Time         `json:"releasedAt,omitempty"`
	Reason      *string            `json:"reason,omitempty"`
}

type OrderLine struct {
	Product  string          `json:"product"`
	Unit     string          `json:"unit"`
	Quantity decimal.Decimal `json:"quantity"`
}

type PlaceOrderRequest struct {
	Lines []OrderLine `json:"lines"`
}

type Hold struct {
	Id        openapi_types.UUID `json:"id"`
	Confirmed bool               `json:"confirmed"`
	ExpiresAt time.Time          `json:"expiresAt"`
	Lines     []OrderLine        `json:"lines"`
}

type Order struct {
	Id            openapi_types.UUID `json:"id"`
	Status        string             `json:"status"`
	PackingLease  Lease              `json:"packingLease"`
	DeliveryLease Lease              `json:"deliveryLease"`
	PlacedAt      time.Time          `json:"placedAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
	Holds         []Hold             `json:"holds"`
}

type HoldConfirmation struct {
	OrderId   openapi_types.UUID `json:"orderId"`
	Confirmed int64              `json:"confirmed"`
}

type Availability struct {
	Product   string          `json:"product"`
	Unit      string          `json:"unit"`
	Nominal   decimal.Decimal `json:"nominal"`
	Reserved  decimal.Decimal `json:"reserved"`
	Available decimal.Decimal `json:"available"`
	Oversold  bool            `json:"oversold"`
}

// GetAvailabilityParams holds the query parameters of GetAvailability.
type GetAvailabilityParams struct {
	Product string
	Unit    string
}

// ServerInterface lists one method per operation of openapi.yaml.
type ServerInterface interface {
	// (POST /api/v1/orders)
	PlaceOrder(ctx echo.Context) error
	// (GET /api/v1/orders/{orderId})
	GetOrder(ctx echo.Context, orderId openapi_types.UUID) error
	// (POST /api/v1/orders/{orderId}/status)
	TransitionOrderStatus(ctx echo.Context, orderId openapi_types.UUID) error
	// (POST /api/v1/orders/{orderId}/holds/confirm)
	ConfirmOrderHolds(ctx echo.Context, orderId openapi_types.UUID) error
	// (GET /api/v1/orders/{orderId}/leases/{kind})
	GetLease(ctx echo.Context, orderId openapi_types.UUID, kind string) error
	// (POST /api/v1/orders/{orderId}/leases/{kind}/claim)
	ClaimLease(ctx echo.Context, orderId openapi_types.UUID, kind string) error
	// (POST /api/v1/orders/{orderId}/leases/{kind}/release)
	ReleaseLease(ctx echo.Context, orderId openapi_types.UUID, kind string) error
	// (POST /api/v1/orders/{orderId}/leases/{kind}/ready)
	MarkLeaseReady(ctx echo.Context, orderId openapi_types.UUID, kind string) error
	// (POST /api/v1/orders/{orderId}/leases/{kind}/heartbeat)
	HeartbeatLease(ctx echo.Context, orderId openapi_types.UUID, kind string) error
	// (GET /api/v1/availability)
	GetAvailability(ctx echo.Context, params GetAvailabilityParams) error
}

// ServerInterfaceWrapper converts echo contexts to typed parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func bindOrderID(ctx echo.Context) (openapi_types.UUID, error) {
	var orderId openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "orderId", ctx.Param("orderId"), &orderId,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return orderId, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter orderId: %s", err))
	}
	return orderId, nil
}

func bindLeasePath(ctx echo.Context) (openapi_types.UUID, string, error) {
	orderId, err := bindOrderID(ctx)
	if err != nil {
		return orderId, "", err
	}

	var kind string
	err = runtime.BindStyledParameterWithOptions("simple", "kind", ctx.Param("kind"), &kind,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return orderId, "", echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter kind: %s", err))
	}
	return orderId, kind, nil
}

func (w *ServerInterfaceWrapper) PlaceOrder(ctx echo.Context) error {
	return w.Handler.PlaceOrder(ctx)
}

func (w *ServerInterfaceWrapper) GetOrder(ctx echo.Context) error {
	orderId, err := bindOrderID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.GetOrder(ctx, orderId)
}

func (w *ServerInterfaceWrapper) TransitionOrderStatus(ctx echo.Context) error {
	orderId, err := bindOrderID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.TransitionOrderStatus(ctx, orderId)
}

func (w *ServerInterfaceWrapper) ConfirmOrderHolds(ctx echo.Context) error {
	orderId, err := bindOrderID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.ConfirmOrderHolds(ctx, orderId)
}

func (w *ServerInterfaceWrapper) GetLease(ctx echo.Context) error {
	orderId, kind, err := bindLeasePath(ctx)
	if err != nil {
		return err
	}
	return w.Handler.GetLease(ctx, orderId, kind)
}

func (w *ServerInterfaceWrapper) ClaimLease(ctx echo.Context) error {
	orderId, kind, err := bindLeasePath(ctx)
	if err != nil {
		return err
	}
	return w.Handler.ClaimLease(ctx, orderId, kind)
}

func (w *ServerInterfaceWrapper) ReleaseLease(ctx echo.Context) error {
	orderId, kind, err := bindLeasePath(ctx)
	if err != nil {
		return err
	}
	return w.Handler.ReleaseLease(ctx, orderId, kind)
}

func (w *ServerInterfaceWrapper) MarkLeaseReady(ctx echo.Context) error {
	orderId, kind, err := bindLeasePath(ctx)
	if err != nil {
		return err
	}
	return w.Handler.MarkLeaseReady(ctx, orderId, kind)
}

func (w *ServerInterfaceWrapper) HeartbeatLease(ctx echo.Context) error {
	orderId, kind, err := bindLeasePath(ctx)
	if err != nil {
		return err
	}
	return w.Handler.HeartbeatLease(ctx, orderId, kind)
}

func (w *ServerInterfaceWrapper) GetAvailability(ctx echo.Context) error {
	var params GetAvailabilityParams

	if err := runtime.BindQueryParameter("form", true, true, "product", ctx.QueryParams(), &params.Product); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter product: %s", err))
	}
	if err := runtime.BindQueryParameter("form", true, true, "unit", ctx.QueryParams(), &params.Unit); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter unit: %s", err))
	}

	return w.Handler.GetAvailability(ctx, params)
}

// EchoRouter is satisfied by *echo.Echo and *echo.Group.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds every operation of si to router.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	wrapper := ServerInterfaceWrapper{Handler: si}

	router.POST("/api/v1/orders", wrapper.PlaceOrder)
	router.GET("/api/v1/orders/:orderId", wrapper.GetOrder)
	router.POST("/api/v1/orders/:orderId/status", wrapper.TransitionOrderStatus)
	router.POST("/api/v1/orders/:orderId/holds/confirm", wrapper.ConfirmOrderHolds)
	router.GET("/api/v1/orders/:orderId/leases/:kind", wrapper.GetLease)
	router.POST("/api/v1/orders/:orderId/leases/:kind/claim", wrapper.ClaimLease)
	router.POST("/api/v1/orders/:orderId/leases/:kind/release", wrapper.ReleaseLease)
	router.POST("/api/v1/orders/:orderId/leases/:kind/ready", wrapper.MarkLeaseReady)
	router.POST("/api/v1/orders/:orderId/leases/:kind/heartbeat", wrapper.HeartbeatLease)
	router.GET("/api/v1/availability", wrapper.GetAvailability)
}

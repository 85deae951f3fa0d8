package http

import (
	"errors"
	"log/slog"
	"net/http"

	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// statusOf maps the error taxonomy onto HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, errs.ErrLeaseConflict), errors.Is(err, errs.ErrConcurrentModification):
		return http.StatusConflict
	case errors.Is(err, errs.ErrNotLeaseHolder):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrValueIsRequired):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrValueIsInvalid):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(ctx echo.Context, logger *slog.Logger, err error) error {
	code := statusOf(err)

	var conflict *errs.LeaseConflictError
	if errors.As(err, &conflict) {
		return ctx.JSON(code, LeaseConflict{
			Code:    code,
			Message: err.Error(),
			Holder:  conflict.Holder,
			Status:  conflict.Status,
		})
	}

	message := err.Error()
	switch code {
	case http.StatusInternalServerError:
		logger.Error("request failed", "path", ctx.Path(), "error", err)
		message = "internal error, try again"
	case http.StatusForbidden:
		logger.Warn("lease-gated action rejected", "path", ctx.Path(), "error", err)
	}

	return ctx.JSON(code, Error{Code: code, Message: message})
}

// errorHandler renders echo's own errors (routing, binding, validation) in
// the same Error shape the handlers use.
func errorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		if ctx.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if !errors.As(err, &he) {
			_ = writeError(ctx, logger, err)
			return
		}

		message := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok {
			message = m
		}
		_ = ctx.JSON(he.Code, Error{Code: he.Code, Message: message})
	}
}

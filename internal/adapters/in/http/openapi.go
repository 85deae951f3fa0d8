package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/labstack/echo/v4"
	"github.com/swaggo/swag"
)

//go:embed openapi.yaml
var specYAML []byte

// LoadSpec parses and validates the embedded contract.
func LoadSpec() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(specYAML)
	if err != nil {
		return nil, err
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, err
	}
	return doc, nil
}

// RequestValidator rejects requests that do not match the contract with 400
// before they reach a handler. Paths outside the contract pass through.
func RequestValidator(doc *openapi3.T) (echo.MiddlewareFunc, error) {
	// Match on path only; the deployment host is not known here.
	doc.Servers = nil

	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, err
	}

	options := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			route, pathParams, err := router.FindRoute(req)
			switch {
			case errors.Is(err, routers.ErrPathNotFound):
				return next(c)
			case errors.Is(err, routers.ErrMethodNotAllowed):
				return echo.NewHTTPError(http.StatusMethodNotAllowed, err.Error())
			case err != nil:
				return echo.NewHTTPError(http.StatusBadRequest, err.Error())
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    req,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			}
			if err := openapi3filter.ValidateRequest(req.Context(), input); err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, validationMessage(err))
			}

			return next(c)
		}
	}, nil
}

func validationMessage(err error) string {
	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.Parameter != nil {
			return "invalid parameter " + reqErr.Parameter.Name + ": " + reqErr.Err.Error()
		}
		if reqErr.RequestBody != nil {
			return "invalid request body: " + reqErr.Err.Error()
		}
	}
	return err.Error()
}

type swaggerDoc struct{}

var specJSON = sync.OnceValue(func() string {
	doc, err := LoadSpec()
	if err != nil {
		return "{}"
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return "{}"
	}
	return string(data)
})

func (swaggerDoc) ReadDoc() string {
	return specJSON()
}

func init() {
	swag.Register(swag.Name, swaggerDoc{})
}

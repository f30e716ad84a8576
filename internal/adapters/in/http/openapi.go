package http

import (
	_ "embed"
	"net/http"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/swaggo/swag"
)

//go:embed openapi.yaml
var openAPISpec []byte

var registerDocsOnce sync.Once

// OpenAPI is the loaded API contract. It validates incoming requests and feeds
// the documentation UI.
type OpenAPI struct {
	doc    *openapi3.T
	router routers.Router
}

func LoadOpenAPI() (*OpenAPI, error) {
	doc, err := openapi3.NewLoader().LoadFromData(openAPISpec)
	if err != nil {
		return nil, errors.Wrap(err, "load openapi document")
	}

	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, errors.Wrap(err, "build openapi router")
	}

	docJSON, err := doc.MarshalJSON()
	if err != nil {
		return nil, errors.Wrap(err, "encode openapi document")
	}
	registerDocsOnce.Do(func() {
		swag.Register(swag.Name, swaggerDoc(docJSON))
	})

	return &OpenAPI{doc: doc, router: router}, nil
}

// ValidateRequests rejects requests that do not match the contract with 400.
// Routes the contract does not describe are passed through.
func (o *OpenAPI) ValidateRequests() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			route, pathParams, err := o.router.FindRoute(req)
			if err != nil {
				return next(c)
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    req,
				PathParams: pathParams,
				Route:      route,
				Options: &openapi3filter.Options{
					AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
				},
			}
			if err = openapi3filter.ValidateRequest(req.Context(), input); err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
			}

			return next(c)
		}
	}
}

func serveSpec(c echo.Context) error {
	return c.Blob(http.StatusOK, "application/yaml", openAPISpec)
}

// swaggerDoc implements swag.Swagger for echo-swagger's doc.json.
type swaggerDoc []byte

func (d swaggerDoc) ReadDoc() string {
	return string(d)
}

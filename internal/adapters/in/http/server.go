package http

import (
	"context"
	"fmt"
	"net/http"

	"parceltrack/internal/core/application/usecases/commands"
	"parceltrack/internal/core/application/usecases/queries"
	"parceltrack/internal/core/domain/model/delivery"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/user"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// Handler is a command or query handler as seen by the HTTP layer.
type Handler[C, R any] interface {
	Handle(ctx context.Context, in C) (R, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc[C, R any] func(ctx context.Context, in C) (R, error)

func (f HandlerFunc[C, R]) Handle(ctx context.Context, in C) (R, error) {
	return f(ctx, in)
}

// Handlers groups the use cases exposed over HTTP.
type Handlers struct {
	// Command handlers
	CreateDelivery        Handler[commands.CreateDeliveryCommand, commands.DeliveryResult]
	AssignDriver          Handler[commands.AssignDriverCommand, commands.DeliveryResult]
	TransitionStatus      Handler[commands.TransitionStatusCommand, commands.DeliveryResult]
	CaptureProof          Handler[commands.CaptureProofCommand, commands.DeliveryResult]
	RateDelivery          Handler[commands.RateDeliveryCommand, commands.DeliveryResult]
	RegisterUser          Handler[commands.RegisterUserCommand, commands.RegisterUserResult]
	UpdateDriverLocation  Handler[commands.UpdateDriverLocationCommand, *user.User]
	SetDriverAvailability Handler[commands.SetDriverAvailabilityCommand, *user.User]

	// Query handlers
	GetDelivery          Handler[queries.GetDeliveryQuery, *delivery.Delivery]
	ListDeliveries       Handler[queries.ListDeliveriesQuery, queries.DeliveryPage]
	ListMyDeliveries     Handler[queries.ListMyDeliveriesQuery, queries.DeliveryPage]
	TrackByCode          Handler[queries.TrackByCodeQuery, queries.TrackingView]
	ListAvailableDrivers Handler[queries.ListAvailableDriversQuery, []queries.DriverSummary]
	ListUsers            Handler[queries.ListUsersQuery, queries.UserPage]
}

// Server translates HTTP requests into commands and queries.
type Server struct {
	h Handlers
}

func NewServer(handlers Handlers) *Server {
	return &Server{h: handlers}
}

// CreateDelivery handles POST /api/v1/deliveries.
func (s *Server) CreateDelivery(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	var body NewDelivery
	if err = bindAndValidate(c, &body); err != nil {
		return err
	}

	details, err := body.toDetails()
	if err != nil {
		return err
	}
	cmd, err := commands.NewCreateDeliveryCommand(actor, details)
	if err != nil {
		return err
	}

	result, err := s.h.CreateDelivery.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, fromResult(result))
}

// ListDeliveries handles GET /api/v1/deliveries.
func (s *Server) ListDeliveries(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	var (
		statusParam, priorityParam, driverParam *string
		page, limit                             *int
	)
	if err = joinBindErrors(
		bindQuery(c, "status", &statusParam),
		bindQuery(c, "priority", &priorityParam),
		bindQuery(c, "driverId", &driverParam),
		bindQuery(c, "page", &page),
		bindQuery(c, "limit", &limit),
	); err != nil {
		return err
	}

	var filter queries.DeliveryFilter
	if filter.Status, err = parseStatusParam(statusParam); err != nil {
		return err
	}
	if priorityParam != nil {
		p, err := delivery.ParsePriority(*priorityParam)
		if err != nil {
			return err
		}
		filter.Priority = &p
	}
	if driverParam != nil {
		id, err := kernel.UUIDFromString(*driverParam)
		if err != nil {
			return err
		}
		filter.DriverID = &id
	}

	query, err := queries.NewListDeliveriesQuery(actor, filter, queries.NewPagination(deref(page), deref(limit)))
	if err != nil {
		return err
	}

	result, err := s.h.ListDeliveries.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, fromPage(result))
}

// ListMyDeliveries handles GET /api/v1/deliveries/mine.
func (s *Server) ListMyDeliveries(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	var (
		statusParam *string
		page, limit *int
	)
	if err = joinBindErrors(
		bindQuery(c, "status", &statusParam),
		bindQuery(c, "page", &page),
		bindQuery(c, "limit", &limit),
	); err != nil {
		return err
	}

	status, err := parseStatusParam(statusParam)
	if err != nil {
		return err
	}

	query, err := queries.NewListMyDeliveriesQuery(actor, status, queries.NewPagination(deref(page), deref(limit)))
	if err != nil {
		return err
	}

	result, err := s.h.ListMyDeliveries.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, fromPage(result))
}

// GetDelivery handles GET /api/v1/deliveries/{id}.
func (s *Server) GetDelivery(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	query, err := queries.NewGetDeliveryQuery(actor, id)
	if err != nil {
		return err
	}

	d, err := s.h.GetDelivery.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, fromDelivery(d))
}

// AssignDriver handles POST /api/v1/deliveries/{id}/assign.
func (s *Server) AssignDriver(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var body AssignDriverRequest
	if err = bindAndValidate(c, &body); err != nil {
		return err
	}
	driverID, err := kernel.UUIDFromString(body.DriverID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewAssignDriverCommand(actor, id, driverID)
	if err != nil {
		return err
	}
	result, err := s.h.AssignDriver.Handle(c.Request().Context(), cmd)
	return s.respond(c, result, err)
}

// TransitionStatus handles POST /api/v1/deliveries/{id}/status.
func (s *Server) TransitionStatus(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var body TransitionStatusRequest
	if err = bindAndValidate(c, &body); err != nil {
		return err
	}

	var location *kernel.GeoPoint
	if body.Location != nil {
		p, err := body.Location.toDomain()
		if err != nil {
			return err
		}
		location = &p
	}

	cmd, err := commands.NewTransitionStatusCommand(actor, id, body.Status, body.Note, location)
	if err != nil {
		return err
	}
	result, err := s.h.TransitionStatus.Handle(c.Request().Context(), cmd)
	return s.respond(c, result, err)
}

// CaptureProof handles POST /api/v1/deliveries/{id}/proof.
func (s *Server) CaptureProof(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var body CaptureProofRequest
	if err = bindAndValidate(c, &body); err != nil {
		return err
	}

	cmd, err := commands.NewCaptureProofCommand(actor, id, body.RecipientName, body.SignatureRef, body.PhotoRef, body.Note)
	if err != nil {
		return err
	}
	result, err := s.h.CaptureProof.Handle(c.Request().Context(), cmd)
	return s.respond(c, result, err)
}

// RateDelivery handles POST /api/v1/deliveries/{id}/rating.
func (s *Server) RateDelivery(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var body RateDeliveryRequest
	if err = bindAndValidate(c, &body); err != nil {
		return err
	}

	cmd, err := commands.NewRateDeliveryCommand(actor, id, body.Score, body.Comment)
	if err != nil {
		return err
	}
	result, err := s.h.RateDelivery.Handle(c.Request().Context(), cmd)
	return s.respond(c, result, err)
}

// TrackByCode handles GET /api/v1/track/{code}. No authentication.
func (s *Server) TrackByCode(c echo.Context) error {
	var code string
	if err := runtime.BindStyledParameterWithOptions("simple", "code", c.Param("code"), &code,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true}); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter code: %s", err))
	}

	query, err := queries.NewTrackByCodeQuery(code)
	if err != nil {
		return err
	}

	view, err := s.h.TrackByCode.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// RegisterUser handles PUT /api/v1/users/{id}.
func (s *Server) RegisterUser(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var body RegisterUserRequest
	if err = bindAndValidate(c, &body); err != nil {
		return err
	}

	role, err := user.ParseRole(body.Role)
	if err != nil {
		return err
	}
	profile := commands.UserProfile{
		ID:     id,
		Name:   body.Name,
		Email:  body.Email,
		Phone:  body.Phone,
		Role:   role,
		Active: body.Active == nil || *body.Active,
	}
	if role == user.RoleDriver && body.VehicleType != "" {
		v, err := user.NewVehicle(user.VehicleType(body.VehicleType), body.VehiclePlate)
		if err != nil {
			return err
		}
		profile.Vehicle = &v
	}

	cmd, err := commands.NewRegisterUserCommand(actor, profile)
	if err != nil {
		return err
	}

	result, err := s.h.RegisterUser.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	return c.JSON(status, fromUser(result.User))
}

// UpdateDriverLocation handles PUT /api/v1/drivers/me/location.
func (s *Server) UpdateDriverLocation(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	var body Point
	if err = bindAndValidate(c, &body); err != nil {
		return err
	}
	point, err := body.toDomain()
	if err != nil {
		return err
	}

	cmd, err := commands.NewUpdateDriverLocationCommand(actor, point)
	if err != nil {
		return err
	}

	u, err := s.h.UpdateDriverLocation.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, fromUser(u))
}

// SetDriverAvailability handles PUT /api/v1/drivers/me/availability.
func (s *Server) SetDriverAvailability(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	var body AvailabilityRequest
	if err = bindAndValidate(c, &body); err != nil {
		return err
	}

	cmd, err := commands.NewSetDriverAvailabilityCommand(actor, *body.Available)
	if err != nil {
		return err
	}

	u, err := s.h.SetDriverAvailability.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, fromUser(u))
}

// ListUsers handles GET /api/v1/users.
func (s *Server) ListUsers(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	var (
		roleParam   *string
		available   *bool
		page, limit *int
	)
	if err = joinBindErrors(
		bindQuery(c, "role", &roleParam),
		bindQuery(c, "available", &available),
		bindQuery(c, "page", &page),
		bindQuery(c, "limit", &limit),
	); err != nil {
		return err
	}

	filter := queries.UserFilter{Available: available}
	if roleParam != nil {
		role, err := user.ParseRole(*roleParam)
		if err != nil {
			return err
		}
		filter.Role = &role
	}

	query, err := queries.NewListUsersQuery(actor, filter, queries.NewPagination(deref(page), deref(limit)))
	if err != nil {
		return err
	}

	result, err := s.h.ListUsers.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, fromUserPage(result))
}

// ListAvailableDrivers handles GET /api/v1/drivers/available.
func (s *Server) ListAvailableDrivers(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	var (
		lon, lat *float64
		limit    *int
	)
	if err = joinBindErrors(
		bindQuery(c, "longitude", &lon),
		bindQuery(c, "latitude", &lat),
		bindQuery(c, "limit", &limit),
	); err != nil {
		return err
	}

	var near *kernel.GeoPoint
	switch {
	case lon != nil && lat != nil:
		p, err := kernel.NewGeoPoint(*lon, *lat)
		if err != nil {
			return err
		}
		near = &p
	case lon != nil || lat != nil:
		return echo.NewHTTPError(http.StatusBadRequest, "longitude and latitude must be given together")
	}

	query, err := queries.NewListAvailableDriversQuery(actor, near, deref(limit))
	if err != nil {
		return err
	}

	drivers, err := s.h.ListAvailableDrivers.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	response := make([]Driver, len(drivers))
	for i, d := range drivers {
		response[i] = fromDriverSummary(d)
	}
	return c.JSON(http.StatusOK, response)
}

func (s *Server) respond(c echo.Context, result commands.DeliveryResult, err error) error {
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, fromResult(result))
}

func fromResult(r commands.DeliveryResult) DeliveryResult {
	return DeliveryResult{Delivery: fromDelivery(r.Delivery), Warnings: r.Warnings}
}

func bindAndValidate(c echo.Context, body any) error {
	if err := c.Bind(body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body").SetInternal(err)
	}
	return c.Validate(body)
}

func pathUUID(c echo.Context, name string) (kernel.UUID, error) {
	var raw string
	if err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &raw,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true}); err != nil {
		return kernel.UUID{}, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
	}
	return kernel.UUIDFromString(raw)
}

func bindQuery(c echo.Context, name string, dest any) error {
	if err := runtime.BindQueryParameter("form", true, false, name, c.QueryParams(), dest); err != nil {
		return fmt.Errorf("invalid format for parameter %s: %w", name, err)
	}
	return nil
}

func joinBindErrors(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
		}
	}
	return nil
}

func parseStatusParam(raw *string) (*delivery.Status, error) {
	if raw == nil {
		return nil, nil
	}
	status, err := delivery.ParseStatus(*raw)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}

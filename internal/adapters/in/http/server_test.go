package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpin "parceltrack/internal/adapters/in/http"
	"parceltrack/internal/core/application/usecases/commands"
	"parceltrack/internal/core/application/usecases/queries"
	"parceltrack/internal/core/domain/model/delivery"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/user"
	"parceltrack/internal/pkg/errs"
	"parceltrack/internal/pkg/logger"
	"parceltrack/internal/pkg/testfixtures"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const testSecret = "test-secret"

type fakeLimiter struct {
	allowed bool
	err     error
}

func (f fakeLimiter) Allow(context.Context, string) (bool, int64, error) {
	return f.allowed, 1, f.err
}

// ServerTestSuite drives the echo router end to end with stubbed use cases.
type ServerTestSuite struct {
	suite.Suite
	handlers httpin.Handlers
	limiter  httpin.RateLimiter
	auth     httpin.Authenticator
	api      *httpin.OpenAPI
}

func (s *ServerTestSuite) SetupSuite() {
	api, err := httpin.LoadOpenAPI()
	s.Require().NoError(err)
	s.api = api
	s.auth = httpin.NewAuthenticator(testSecret)
}

func (s *ServerTestSuite) SetupTest() {
	s.handlers = httpin.Handlers{}
	s.limiter = nil
}

func (s *ServerTestSuite) router() *echo.Echo {
	return httpin.NewRouter(httpin.NewServer(s.handlers), s.api, httpin.RouterConfig{
		Authenticator: s.auth,
		RateLimiter:   s.limiter,
		Logger:        logger.Discard(),
	})
}

func (s *ServerTestSuite) token(actor user.Actor) string {
	token, err := s.auth.Issue(actor, time.Hour)
	s.Require().NoError(err)
	return token
}

func (s *ServerTestSuite) do(method, target, body string, actor *user.Actor) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if actor != nil {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+s.token(*actor))
	}

	rec := httptest.NewRecorder()
	s.router().ServeHTTP(rec, req)
	return rec
}

func (s *ServerTestSuite) decodeError(rec *httptest.ResponseRecorder) httpin.Error {
	var body httpin.Error
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func (s *ServerTestSuite) TestHealthAndDocs() {
	rec := s.do(http.MethodGet, "/health", "", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("Healthy", rec.Body.String())

	rec = s.do(http.MethodGet, "/openapi.yaml", "", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "openapi: 3.0.3")

	rec = s.do(http.MethodGet, "/metrics", "", nil)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *ServerTestSuite) TestTrackByCode_IsPublic() {
	var got queries.TrackByCodeQuery
	s.handlers.TrackByCode = httpin.HandlerFunc[queries.TrackByCodeQuery, queries.TrackingView](
		func(_ context.Context, q queries.TrackByCodeQuery) (queries.TrackingView, error) {
			got = q
			return queries.TrackingView{TrackingCode: q.Code().String(), Status: "in_transit"}, nil
		})

	rec := s.do(http.MethodGet, "/api/v1/track/cdabc123xyz9", "", nil)

	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.Equal("CDABC123XYZ9", got.Code().String())
	s.Contains(rec.Body.String(), `"status":"in_transit"`)
	s.NotContains(rec.Body.String(), "clientId")
}

func (s *ServerTestSuite) TestTrackByCode_Errors() {
	s.handlers.TrackByCode = httpin.HandlerFunc[queries.TrackByCodeQuery, queries.TrackingView](
		func(_ context.Context, q queries.TrackByCodeQuery) (queries.TrackingView, error) {
			return queries.TrackingView{}, errs.NewObjectNotFoundError("trackingCode", q.Code().String())
		})

	rec := s.do(http.MethodGet, "/api/v1/track/CDUNKNOWN1", "", nil)
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal(http.StatusNotFound, s.decodeError(rec).Code)

	rec = s.do(http.MethodGet, "/api/v1/track/CD-1", "", nil)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *ServerTestSuite) TestTrackByCode_RateLimited() {
	s.handlers.TrackByCode = httpin.HandlerFunc[queries.TrackByCodeQuery, queries.TrackingView](
		func(context.Context, queries.TrackByCodeQuery) (queries.TrackingView, error) {
			return queries.TrackingView{}, nil
		})

	s.limiter = fakeLimiter{allowed: false}
	rec := s.do(http.MethodGet, "/api/v1/track/CDABC123", "", nil)
	s.Equal(http.StatusTooManyRequests, rec.Code)

	s.limiter = fakeLimiter{err: errors.New("redis down")}
	rec = s.do(http.MethodGet, "/api/v1/track/CDABC123", "", nil)
	s.Equal(http.StatusOK, rec.Code, "a failing limiter must not block tracking")
}

func (s *ServerTestSuite) TestAuthentication() {
	rec := s.do(http.MethodGet, "/api/v1/deliveries/mine", "", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/deliveries/mine", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer not-a-jwt")
	rec = httptest.NewRecorder()
	s.router().ServeHTTP(rec, req)
	s.Equal(http.StatusUnauthorized, rec.Code)

	other := httpin.NewAuthenticator("another-secret")
	token, err := other.Issue(testfixtures.Staff(s.T()), time.Hour)
	s.Require().NoError(err)
	req = httptest.NewRequest(http.MethodGet, "/api/v1/deliveries/mine", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec = httptest.NewRecorder()
	s.router().ServeHTTP(rec, req)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *ServerTestSuite) TestAuthentication_PrecedesRequestValidation() {
	rec := s.do(http.MethodPost, "/api/v1/deliveries", `{"package": {"description": "x", "weightKg": 1}}`, nil)
	s.Equal(http.StatusUnauthorized, rec.Code, rec.Body.String())

	rec = s.do(http.MethodGet, "/api/v1/deliveries?page=abc", "", nil)
	s.Equal(http.StatusUnauthorized, rec.Code, rec.Body.String())
}

const newDeliveryBody = `{
	"pickupAddress": {"street": "1 Pickup St", "city": "London", "country": "UK", "location": {"longitude": -0.1276, "latitude": 51.5072}},
	"deliveryAddress": {"street": "2 Drop Rd", "city": "Paris", "country": "FR", "location": {"longitude": 2.3522, "latitude": 48.8566}},
	"pickupContact": {"name": "Sam Sender", "phone": "+44100"},
	"deliveryContact": {"name": "Rita Recipient", "phone": "+33100"},
	"package": {"description": "documents", "weightKg": 1.2},
	"priority": "high",
	"price": 25
}`

func (s *ServerTestSuite) TestCreateDelivery() {
	client := testfixtures.Actor(s.T(), kernel.NewUUID(), user.RoleClient)
	var got commands.CreateDeliveryCommand
	s.handlers.CreateDelivery = httpin.HandlerFunc[commands.CreateDeliveryCommand, commands.DeliveryResult](
		func(_ context.Context, cmd commands.CreateDeliveryCommand) (commands.DeliveryResult, error) {
			got = cmd
			return commands.DeliveryResult{
				Delivery: testfixtures.PendingDelivery(s.T(), cmd.Actor().ID()),
				Warnings: []string{"notification failed"},
			}, nil
		})

	rec := s.do(http.MethodPost, "/api/v1/deliveries", newDeliveryBody, &client)

	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	s.True(got.Actor().Is(client.ID()))
	s.Equal(delivery.PriorityHigh, got.Details().Priority)
	s.Equal("Paris", got.Details().DeliveryAddress.City())

	var body httpin.DeliveryResult
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal("pending", body.Delivery.Status)
	s.Equal(client.ID().String(), body.Delivery.ClientID)
	s.Len(body.Delivery.Timeline, 1)
	s.Equal([]string{"notification failed"}, body.Warnings)
}

func (s *ServerTestSuite) TestCreateDelivery_RejectsInvalidBody() {
	client := testfixtures.Actor(s.T(), kernel.NewUUID(), user.RoleClient)
	s.handlers.CreateDelivery = httpin.HandlerFunc[commands.CreateDeliveryCommand, commands.DeliveryResult](
		func(context.Context, commands.CreateDeliveryCommand) (commands.DeliveryResult, error) {
			s.Fail("handler must not be called")
			return commands.DeliveryResult{}, nil
		})

	rec := s.do(http.MethodPost, "/api/v1/deliveries", `{"package": {"description": "x", "weightKg": 1}}`, &client)
	s.Equal(http.StatusBadRequest, rec.Code)

	badLatitude := strings.Replace(newDeliveryBody, `"latitude": 48.8566`, `"latitude": 123`, 1)
	rec = s.do(http.MethodPost, "/api/v1/deliveries", badLatitude, &client)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *ServerTestSuite) TestAssignDriver_MapsDomainErrors() {
	staff := testfixtures.Staff(s.T())
	deliveryID, driverID := kernel.NewUUID(), kernel.NewUUID()

	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "not found", err: errs.NewObjectNotFoundError("delivery", deliveryID), expected: http.StatusNotFound},
		{name: "not authorized", err: errs.NewNotAuthorizedError("assign driver", staff.ID()), expected: http.StatusForbidden},
		{name: "invalid state", err: errs.NewInvalidStateError("assign driver", "picked_up"), expected: http.StatusConflict},
		{name: "invalid role", err: errs.NewInvalidRoleError("driverId", "driver", "client"), expected: http.StatusUnprocessableEntity},
		{name: "conflict", err: errs.NewConflictError("trackingCode", "CD1"), expected: http.StatusConflict},
		{name: "validation", err: errs.NewValueIsRequiredError("driverId"), expected: http.StatusBadRequest},
		{name: "internal", err: errors.New("connection reset"), expected: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.handlers.AssignDriver = httpin.HandlerFunc[commands.AssignDriverCommand, commands.DeliveryResult](
				func(_ context.Context, cmd commands.AssignDriverCommand) (commands.DeliveryResult, error) {
					s.True(cmd.DeliveryID().IsEqual(deliveryID))
					s.True(cmd.DriverID().IsEqual(driverID))
					return commands.DeliveryResult{}, tc.err
				})

			rec := s.do(http.MethodPost, "/api/v1/deliveries/"+deliveryID.String()+"/assign",
				`{"driverId": "`+driverID.String()+`"}`, &staff)

			s.Equal(tc.expected, rec.Code, rec.Body.String())
			body := s.decodeError(rec)
			s.Equal(tc.expected, body.Code)
			if tc.expected == http.StatusInternalServerError {
				s.NotContains(body.Message, "connection reset")
			}
		})
	}
}

func (s *ServerTestSuite) TestTransitionStatus() {
	driverID, clientID := kernel.NewUUID(), kernel.NewUUID()
	driver := testfixtures.Actor(s.T(), driverID, user.RoleDriver)
	d := testfixtures.AssignedDelivery(s.T(), clientID, driverID)
	s.handlers.TransitionStatus = httpin.HandlerFunc[commands.TransitionStatusCommand, commands.DeliveryResult](
		func(_ context.Context, cmd commands.TransitionStatusCommand) (commands.DeliveryResult, error) {
			s.Equal(delivery.PickedUp, cmd.Status())
			s.Equal("at the depot", cmd.Note())
			s.Require().NotNil(cmd.Location())
			s.InDelta(51.5, cmd.Location().Latitude(), 1e-9)
			s.Require().NoError(d.Transition(cmd.Actor(), cmd.Status(), cmd.Note(), cmd.Location(), testfixtures.Now.Add(time.Hour)))
			return commands.DeliveryResult{Delivery: d}, nil
		})

	rec := s.do(http.MethodPost, "/api/v1/deliveries/"+d.ID().String()+"/status",
		`{"status": "picked_up", "note": "at the depot", "location": {"longitude": -0.12, "latitude": 51.5}}`, &driver)

	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var body httpin.DeliveryResult
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal("picked_up", body.Delivery.Status)
	s.Require().Len(body.Delivery.Timeline, 3)
	s.Require().NotNil(body.Delivery.Timeline[2].Location)
	s.NotNil(body.Delivery.ActualPickupTime)
}

func (s *ServerTestSuite) TestTransitionStatus_UnknownStatus() {
	driver := testfixtures.Actor(s.T(), kernel.NewUUID(), user.RoleDriver)

	rec := s.do(http.MethodPost, "/api/v1/deliveries/"+kernel.NewUUID().String()+"/status", `{"status": "teleported"}`, &driver)

	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *ServerTestSuite) TestMalformedPathID() {
	staff := testfixtures.Staff(s.T())

	rec := s.do(http.MethodGet, "/api/v1/deliveries/not-a-uuid", "", &staff)

	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *ServerTestSuite) TestListDeliveries_BindsFilterAndPage() {
	staff := testfixtures.Staff(s.T())
	driverID := kernel.NewUUID()
	var got queries.ListDeliveriesQuery
	s.handlers.ListDeliveries = httpin.HandlerFunc[queries.ListDeliveriesQuery, queries.DeliveryPage](
		func(_ context.Context, q queries.ListDeliveriesQuery) (queries.DeliveryPage, error) {
			got = q
			return queries.DeliveryPage{Items: []queries.DeliverySummary{}, Total: 11, Page: 2, Limit: 5, Pages: 3}, nil
		})

	rec := s.do(http.MethodGet, "/api/v1/deliveries?status=in_transit&priority=urgent&driverId="+driverID.String()+"&page=2&limit=5", "", &staff)

	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.Require().NotNil(got.Filter().Status)
	s.Equal(delivery.InTransit, *got.Filter().Status)
	s.Require().NotNil(got.Filter().Priority)
	s.Equal(delivery.PriorityUrgent, *got.Filter().Priority)
	s.Require().NotNil(got.Filter().DriverID)
	s.True(got.Filter().DriverID.IsEqual(driverID))
	s.Equal(queries.Pagination{Page: 2, Limit: 5}, got.Pagination())

	var page httpin.DeliveryPage
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &page))
	s.EqualValues(11, page.Total)
	s.Equal(3, page.Pages)
}

func (s *ServerTestSuite) TestListDeliveries_RejectsNonNumericPage() {
	staff := testfixtures.Staff(s.T())

	rec := s.do(http.MethodGet, "/api/v1/deliveries?page=two", "", &staff)

	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *ServerTestSuite) TestRegisterUser_CreatedOrUpdated() {
	staff := testfixtures.Staff(s.T())
	id := kernel.NewUUID()
	created := true
	s.handlers.RegisterUser = httpin.HandlerFunc[commands.RegisterUserCommand, commands.RegisterUserResult](
		func(_ context.Context, cmd commands.RegisterUserCommand) (commands.RegisterUserResult, error) {
			p := cmd.Profile()
			u, err := user.NewUser(p.ID, p.Name, p.Email, p.Phone, p.Role, p.Vehicle)
			s.Require().NoError(err)
			return commands.RegisterUserResult{User: u, Created: created}, nil
		})
	body := `{"name": "Dana Driver", "email": "dana@example.com", "phone": "+1", "role": "driver", "vehicleType": "bike", "vehiclePlate": "b-1"}`

	rec := s.do(http.MethodPut, "/api/v1/users/"+id.String(), body, &staff)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var u httpin.User
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &u))
	s.Equal(id.String(), u.ID)
	s.Equal("bike", u.VehicleType)
	s.True(u.Available)

	created = false
	rec = s.do(http.MethodPut, "/api/v1/users/"+id.String(), body, &staff)
	s.Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodPut, "/api/v1/users/"+id.String(), `{"name": "X", "email": "x@example.com", "phone": "1", "role": "pilot"}`, &staff)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *ServerTestSuite) TestDriverSelfService() {
	d := testfixtures.Driver(s.T(), "Dana Driver")
	self := testfixtures.Actor(s.T(), d.ID(), user.RoleDriver)
	s.handlers.UpdateDriverLocation = httpin.HandlerFunc[commands.UpdateDriverLocationCommand, *user.User](
		func(_ context.Context, cmd commands.UpdateDriverLocationCommand) (*user.User, error) {
			s.Require().NoError(d.UpdateLocation(cmd.Actor(), cmd.Point()))
			return d, nil
		})
	s.handlers.SetDriverAvailability = httpin.HandlerFunc[commands.SetDriverAvailabilityCommand, *user.User](
		func(_ context.Context, cmd commands.SetDriverAvailabilityCommand) (*user.User, error) {
			s.Require().NoError(d.SetAvailability(cmd.Actor(), cmd.Available()))
			return d, nil
		})

	rec := s.do(http.MethodPut, "/api/v1/drivers/me/location", `{"longitude": 13.4, "latitude": 52.5}`, &self)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var u httpin.User
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &u))
	s.Require().NotNil(u.CurrentLocation)
	s.InDelta(52.5, u.CurrentLocation.Latitude, 1e-9)

	rec = s.do(http.MethodPut, "/api/v1/drivers/me/availability", `{"available": false}`, &self)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &u))
	s.False(u.Available)

	rec = s.do(http.MethodPut, "/api/v1/drivers/me/availability", `{}`, &self)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *ServerTestSuite) TestListAvailableDrivers() {
	staff := testfixtures.Staff(s.T())
	km := 1.5
	var got queries.ListAvailableDriversQuery
	s.handlers.ListAvailableDrivers = httpin.HandlerFunc[queries.ListAvailableDriversQuery, []queries.DriverSummary](
		func(_ context.Context, q queries.ListAvailableDriversQuery) ([]queries.DriverSummary, error) {
			got = q
			return []queries.DriverSummary{{ID: kernel.NewUUID(), Name: "Nora", DistanceKm: &km}}, nil
		})

	rec := s.do(http.MethodGet, "/api/v1/drivers/available?longitude=2.35&latitude=48.85&limit=3", "", &staff)

	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.Require().NotNil(got.Near())
	s.InDelta(48.85, got.Near().Latitude(), 1e-9)
	s.Equal(3, got.Limit())
	var drivers []httpin.Driver
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &drivers))
	s.Require().Len(drivers, 1)
	s.InDelta(1.5, *drivers[0].DistanceKm, 1e-9)

	rec = s.do(http.MethodGet, "/api/v1/drivers/available?longitude=2.35", "", &staff)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *ServerTestSuite) TestListUsers_BindsFilterAndPage() {
	staff := testfixtures.Staff(s.T())
	var got queries.ListUsersQuery
	s.handlers.ListUsers = httpin.HandlerFunc[queries.ListUsersQuery, queries.UserPage](
		func(_ context.Context, q queries.ListUsersQuery) (queries.UserPage, error) {
			got = q
			return queries.UserPage{
				Items: []queries.UserSummary{{
					ID: kernel.NewUUID(), Name: "Dana", Email: "dana@example.com", Role: "driver",
					VehicleType: "van", Available: true, Active: true, Rating: 4.5,
					Location: &queries.PointView{Longitude: 2.35, Latitude: 48.85},
				}},
				Total: 7, Page: 2, Limit: 3, Pages: 3,
			}, nil
		})

	rec := s.do(http.MethodGet, "/api/v1/users?role=driver&available=true&page=2&limit=3", "", &staff)

	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.Require().NotNil(got.Filter().Role)
	s.Equal(user.RoleDriver, *got.Filter().Role)
	s.Require().NotNil(got.Filter().Available)
	s.True(*got.Filter().Available)
	s.Equal(queries.Pagination{Page: 2, Limit: 3}, got.Pagination())

	var body httpin.UserPage
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal(int64(7), body.Total)
	s.Require().Len(body.Items, 1)
	s.Equal("dana@example.com", body.Items[0].Email)
	s.Require().NotNil(body.Items[0].CurrentLocation)
	s.InDelta(48.85, body.Items[0].CurrentLocation.Latitude, 1e-9)

	rec = s.do(http.MethodGet, "/api/v1/users", "", &staff)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.Nil(got.Filter().Role)
	s.Nil(got.Filter().Available)

	rec = s.do(http.MethodGet, "/api/v1/users?role=courier", "", &staff)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/users", "", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *ServerTestSuite) TestListUsers_ForbiddenForNonStaff() {
	client := testfixtures.Actor(s.T(), kernel.NewUUID(), user.RoleClient)
	s.handlers.ListUsers = httpin.HandlerFunc[queries.ListUsersQuery, queries.UserPage](
		func(_ context.Context, q queries.ListUsersQuery) (queries.UserPage, error) {
			return queries.UserPage{}, errs.NewNotAuthorizedError("list users", q.Actor().ID().String())
		})

	rec := s.do(http.MethodGet, "/api/v1/users", "", &client)

	s.Equal(http.StatusForbidden, rec.Code)
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func TestAuthenticator_VerifyRoundTrip(t *testing.T) {
	auth := httpin.NewAuthenticator(testSecret)
	actor := testfixtures.Actor(t, kernel.NewUUID(), user.RoleDriver)

	token, err := auth.Issue(actor, time.Minute)
	require.NoError(t, err)

	got, err := auth.Verify(token)
	require.NoError(t, err)
	assert.True(t, got.Is(actor.ID()))
	assert.Equal(t, user.RoleDriver, got.Role())

	expired, err := auth.Issue(actor, -time.Minute)
	require.NoError(t, err)
	_, err = auth.Verify(expired)
	require.Error(t, err)
}

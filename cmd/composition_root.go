package cmd

import (
	"log/slog"
	"time"

	httpin "parceltrack/internal/adapters/in/http"
	"parceltrack/internal/adapters/out/kafkanotifier"
	"parceltrack/internal/adapters/out/postgres"
	"parceltrack/internal/adapters/out/rediscache"
	"parceltrack/internal/core/application/usecases/commands"
	"parceltrack/internal/core/application/usecases/queries"
	"parceltrack/internal/core/domain/model/delivery"
	"parceltrack/internal/core/ports"
	"parceltrack/internal/jobs"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CompositionRoot wires adapters into use cases. Redis and Kafka are optional:
// a nil client leaves the cache, the rate limit or notifications disabled.
type CompositionRoot struct {
	cfg         Config
	gormDB      *gorm.DB
	uowFactory  *postgres.GormUnitOfWorkFactory
	cache       ports.TrackingCache
	rateLimiter httpin.RateLimiter
	notifier    ports.Notifier
	logger      *slog.Logger
}

func NewCompositionRoot(cfg Config, gormDB *gorm.DB, redisClient *redis.Client, notifier *kafkanotifier.Notifier, logger *slog.Logger) CompositionRoot {
	root := CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:     logger,
	}

	// Interface fields stay untyped nil when a backend is not configured.
	if redisClient != nil {
		root.cache = rediscache.NewTrackingCache(redisClient, cfg.TrackingCacheTTL())
		if cfg.TrackRateLimitPerMinute > 0 {
			root.rateLimiter = rediscache.NewRateLimiter(redisClient, int64(cfg.TrackRateLimitPerMinute), time.Minute)
		}
	}
	if notifier != nil {
		root.notifier = notifier
	}
	return root
}

func (c *CompositionRoot) sideEffects() *commands.SideEffects {
	return commands.NewSideEffects(c.notifier, c.cache, c.logger)
}

func (c *CompositionRoot) CreateCreateDeliveryCommandHandler() commands.CreateDeliveryCommandHandler {
	var f commands.DeliveryUoWFactory = FuncDeliveryUoWFactory(func() commands.DeliveryUoW {
		return c.uowFactory.Create()
	})
	retry := commands.DefaultCodeRetryPolicy()
	if c.cfg.TrackingCodeMaxAttempts > 0 {
		retry.MaxAttempts = c.cfg.TrackingCodeMaxAttempts
	}
	return commands.NewCreateDeliveryCommandHandler(f, delivery.NewRandomCodeGenerator(), retry)
}

func (c *CompositionRoot) CreateAssignDriverCommandHandler() commands.AssignDriverCommandHandler {
	return commands.NewAssignDriverCommandHandler(c.uowFactoryFunc(), c.sideEffects())
}

func (c *CompositionRoot) CreateTransitionStatusCommandHandler() commands.TransitionStatusCommandHandler {
	return commands.NewTransitionStatusCommandHandler(c.uowFactoryFunc(), c.sideEffects())
}

func (c *CompositionRoot) CreateCaptureProofCommandHandler() commands.CaptureProofCommandHandler {
	return commands.NewCaptureProofCommandHandler(c.uowFactoryFunc(), c.sideEffects())
}

func (c *CompositionRoot) CreateRateDeliveryCommandHandler() commands.RateDeliveryCommandHandler {
	return commands.NewRateDeliveryCommandHandler(c.uowFactoryFunc(), c.sideEffects())
}

func (c *CompositionRoot) CreateRecomputeReputationsCommandHandler() commands.RecomputeReputationsCommandHandler {
	return commands.NewRecomputeReputationsCommandHandler(c.uowFactoryFunc())
}

func (c *CompositionRoot) CreateRegisterUserCommandHandler() commands.RegisterUserCommandHandler {
	return commands.NewRegisterUserCommandHandler(c.userUoWFactoryFunc())
}

func (c *CompositionRoot) CreateUpdateDriverLocationCommandHandler() commands.UpdateDriverLocationCommandHandler {
	return commands.NewUpdateDriverLocationCommandHandler(c.userUoWFactoryFunc())
}

func (c *CompositionRoot) CreateSetDriverAvailabilityCommandHandler() commands.SetDriverAvailabilityCommandHandler {
	return commands.NewSetDriverAvailabilityCommandHandler(c.userUoWFactoryFunc())
}

func (c *CompositionRoot) CreateGetDeliveryQueryHandler() queries.GetDeliveryQueryHandler {
	return queries.NewGetDeliveryQueryHandler(c.uowFactory)
}

func (c *CompositionRoot) CreateListDeliveriesQueryHandler() queries.ListDeliveriesQueryHandler {
	return queries.NewListDeliveriesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateTrackByCodeQueryHandler() queries.TrackByCodeQueryHandler {
	return queries.NewTrackByCodeQueryHandler(c.gormDB, c.cache, c.logger)
}

func (c *CompositionRoot) CreateListAvailableDriversQueryHandler() queries.ListAvailableDriversQueryHandler {
	return queries.NewListAvailableDriversQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListUsersQueryHandler() queries.ListUsersQueryHandler {
	return queries.NewListUsersQueryHandler(c.gormDB)
}

// HTTPHandlers exposes every use case to the HTTP adapter.
func (c *CompositionRoot) HTTPHandlers() httpin.Handlers {
	list := c.CreateListDeliveriesQueryHandler()
	return httpin.Handlers{
		CreateDelivery:        c.CreateCreateDeliveryCommandHandler(),
		AssignDriver:          c.CreateAssignDriverCommandHandler(),
		TransitionStatus:      c.CreateTransitionStatusCommandHandler(),
		CaptureProof:          c.CreateCaptureProofCommandHandler(),
		RateDelivery:          c.CreateRateDeliveryCommandHandler(),
		RegisterUser:          c.CreateRegisterUserCommandHandler(),
		UpdateDriverLocation:  c.CreateUpdateDriverLocationCommandHandler(),
		SetDriverAvailability: c.CreateSetDriverAvailabilityCommandHandler(),
		GetDelivery:           c.CreateGetDeliveryQueryHandler(),
		ListDeliveries:        list,
		ListMyDeliveries:      httpin.HandlerFunc[queries.ListMyDeliveriesQuery, queries.DeliveryPage](list.HandleMine),
		TrackByCode:           c.CreateTrackByCodeQueryHandler(),
		ListAvailableDrivers:  c.CreateListAvailableDriversQueryHandler(),
		ListUsers:             c.CreateListUsersQueryHandler(),
	}
}

// RouterConfig returns the HTTP router settings for this deployment.
func (c *CompositionRoot) RouterConfig() httpin.RouterConfig {
	return httpin.RouterConfig{
		Authenticator: httpin.NewAuthenticator(c.cfg.JWTSecret),
		RateLimiter:   c.rateLimiter,
		Logger:        c.logger,
	}
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.CreateRecomputeReputationsCommandHandler(), c.cfg.ReconciliationSchedule, c.logger)
}

func (c *CompositionRoot) uowFactoryFunc() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) userUoWFactoryFunc() commands.UserUoWFactory {
	return FuncUserUoWFactory(func() commands.UserUoW {
		return c.uowFactory.Create()
	})
}

type FuncDeliveryUoWFactory func() commands.DeliveryUoW

func (f FuncDeliveryUoWFactory) Create() commands.DeliveryUoW {
	return f()
}

type FuncUserUoWFactory func() commands.UserUoW

func (f FuncUserUoWFactory) Create() commands.UserUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

package cmd

import (
	"log/slog"

	httpin "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/jobs"
	"fulfillment/internal/pkg/clock"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
)

// Catalog is the stock catalog as the service uses it: read by the
// availability query and reloaded by a job.
type Catalog interface {
	ports.CatalogReader
	jobs.CatalogReloader
}

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	catalog    Catalog
	notifier   ports.StageNotifier
	clock      clock.Clock
	registry   *prometheus.Registry
	logger     *slog.Logger
}

func NewCompositionRoot(
	config Config,
	gormDB *gorm.DB,
	catalog Catalog,
	notifier ports.StageNotifier,
	clk clock.Clock,
	logger *slog.Logger,
) CompositionRoot {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		catalog:    catalog,
		notifier:   notifier,
		clock:      clk,
		registry:   registry,
		logger:     logger,
	}
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) holdUoWFactory() commands.HoldUoWFactory {
	return FuncHoldUoWFactory(func() commands.HoldUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) uowFactoryAll() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateClaimLeaseCommandHandler() commands.ClaimLeaseCommandHandler {
	return commands.NewClaimLeaseCommandHandler(c.orderUoWFactory(), c.clock, c.config.LeaseStaleAfter)
}

func (c *CompositionRoot) CreateReleaseLeaseCommandHandler() commands.ReleaseLeaseCommandHandler {
	return commands.NewReleaseLeaseCommandHandler(c.orderUoWFactory(), c.clock, c.logger)
}

func (c *CompositionRoot) CreateMarkLeaseReadyCommandHandler() commands.MarkLeaseReadyCommandHandler {
	return commands.NewMarkLeaseReadyCommandHandler(c.orderUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateHeartbeatLeaseCommandHandler() commands.HeartbeatLeaseCommandHandler {
	return commands.NewHeartbeatLeaseCommandHandler(c.orderUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateTransitionStatusCommandHandler() commands.TransitionStatusCommandHandler {
	return commands.NewTransitionStatusCommandHandler(c.uowFactoryAll(), c.notifier, c.clock, c.config.LeaseStaleAfter, c.logger)
}

func (c *CompositionRoot) CreatePlaceOrderCommandHandler() commands.PlaceOrderCommandHandler {
	return commands.NewPlaceOrderCommandHandler(c.uowFactoryAll(), c.clock, c.config.HoldTTL)
}

func (c *CompositionRoot) CreateConfirmHoldCommandHandler() commands.ConfirmHoldCommandHandler {
	return commands.NewConfirmHoldCommandHandler(c.holdUoWFactory(), c.clock, c.logger)
}

func (c *CompositionRoot) CreateExpireHoldsCommandHandler() commands.ExpireHoldsCommandHandler {
	return commands.NewExpireHoldsCommandHandler(c.holdUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateReapStaleLeasesCommandHandler() commands.ReapStaleLeasesCommandHandler {
	return commands.NewReapStaleLeasesCommandHandler(c.orderUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateGetLeaseStatusQueryHandler() queries.GetLeaseStatusQueryHandler {
	return queries.NewGetLeaseStatusQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB, c.clock)
}

func (c *CompositionRoot) CreateGetAvailabilityQueryHandler() queries.GetAvailabilityQueryHandler {
	return queries.NewGetAvailabilityQueryHandler(c.gormDB, c.catalog, c.clock)
}

// CreateRouter builds the echo instance serving the API, health, metrics and docs.
func (c *CompositionRoot) CreateRouter() (*echo.Echo, error) {
	server := httpin.NewServer(httpin.Handlers{
		ClaimLease:       c.CreateClaimLeaseCommandHandler(),
		ReleaseLease:     c.CreateReleaseLeaseCommandHandler(),
		MarkLeaseReady:   c.CreateMarkLeaseReadyCommandHandler(),
		HeartbeatLease:   c.CreateHeartbeatLeaseCommandHandler(),
		TransitionStatus: c.CreateTransitionStatusCommandHandler(),
		PlaceOrder:       c.CreatePlaceOrderCommandHandler(),
		ConfirmHold:      c.CreateConfirmHoldCommandHandler(),
		GetLeaseStatus:   c.CreateGetLeaseStatusQueryHandler(),
		GetOrder:         c.CreateGetOrderQueryHandler(),
		GetAvailability:  c.CreateGetAvailabilityQueryHandler(),
	}, httpin.NewMetrics(c.registry), c.logger)

	return httpin.NewRouter(server, c.registry, c.logger)
}

// CreateJobManager schedules the hold sweep, the stale-lease reaper and the
// catalog reload.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		jobs.NewHoldExpiryJob(c.CreateExpireHoldsCommandHandler(), c.config.HoldExpirySchedule, c.logger),
		jobs.NewStaleLeaseReaperJob(
			c.CreateReapStaleLeasesCommandHandler(),
			c.config.LeaseStaleAfter,
			c.config.LeaseReaperSchedule,
			c.logger,
		),
		jobs.NewCatalogReloadJob(c.catalog, c.config.CatalogReloadSchedule, c.logger),
	)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncHoldUoWFactory func() commands.HoldUoW

func (f FuncHoldUoWFactory) Create() commands.HoldUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

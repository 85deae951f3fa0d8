package queries_test

import (
	"context"
	"sync"
	"testing"
	"time"

	postgres_adapter "fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/holdrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/hold"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/clock"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type staticCatalog map[hold.StockKey]decimal.Decimal

func (c staticCatalog) Nominal(_ context.Context, key hold.StockKey) (decimal.Decimal, error) {
	qty, ok := c[key]
	if !ok {
		return decimal.Zero, errs.NewObjectNotFoundError("item", key.String())
	}
	return qty, nil
}

type QueriesIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	clock     *clock.Fixed
	orders    *orderrepo.GormOrderRepository
	holds     *holdrepo.GormHoldRepository
	tomato    hold.StockKey
}

func (suite *QueriesIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(postgres_adapter.Migrate(db))

	suite.orders = orderrepo.NewGormOrderRepository(db)
	suite.holds = holdrepo.NewGormHoldRepository(db)
	suite.tomato, err = hold.NewStockKey("Tomato", "kg")
	suite.Require().NoError(err)
}

func (suite *QueriesIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *QueriesIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders, stock_hold_lines, stock_holds").Error)
	suite.clock = clock.NewFixed(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
}

func (suite *QueriesIntegrationTestSuite) placeOrder() *order.Order {
	o, err := order.NewOrder(kernel.NewUUID(), suite.clock.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(suite.orders.Add(context.Background(), o))
	return o
}

func (suite *QueriesIntegrationTestSuite) addHold(orderID kernel.UUID, qty string, ttl time.Duration) *hold.StockHold {
	line, err := hold.NewLine(suite.tomato.Product, suite.tomato.Unit, decimal.RequireFromString(qty))
	suite.Require().NoError(err)
	h, err := hold.NewStockHold(kernel.NewUUID(), orderID, []hold.Line{line}, suite.clock.Now(), ttl)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.holds.Add(context.Background(), h))
	return h
}

func (suite *QueriesIntegrationTestSuite) availability(nominal string) hold.Availability {
	catalog := staticCatalog{suite.tomato: decimal.RequireFromString(nominal)}
	handler := queries.NewGetAvailabilityQueryHandler(suite.db, catalog, suite.clock)

	query, err := queries.NewGetAvailabilityQuery("Tomato", "kg")
	suite.Require().NoError(err)
	got, err := handler.Handle(context.Background(), query)
	suite.Require().NoError(err)
	return got
}

func (suite *QueriesIntegrationTestSuite) TestGetLeaseStatus_ReportsHolder() {
	ctx := context.Background()
	o := suite.placeOrder()
	santiago, err := kernel.NewWorkerID("Santiago")
	suite.Require().NoError(err)

	_, err = suite.orders.ClaimLease(ctx, o.ID(), order.PackingLease, santiago, suite.clock.Now(), 30*time.Minute)
	suite.Require().NoError(err)

	handler := queries.NewGetLeaseStatusQueryHandler(suite.db)

	packing, err := queries.NewGetLeaseStatusQuery(o.ID(), order.PackingLease)
	suite.Require().NoError(err)
	got, err := handler.Handle(ctx, packing)
	suite.Require().NoError(err)
	suite.Equal(order.Placed, got.OrderStatus)
	suite.Equal(order.LeaseInProgress, got.Lease.Status())
	suite.True(got.Lease.ClaimedBy().IsEqual(santiago))
	suite.WithinDuration(suite.clock.Now(), got.Lease.HeartbeatAt(), time.Millisecond)

	delivery, err := queries.NewGetLeaseStatusQuery(o.ID(), order.DeliveryLease)
	suite.Require().NoError(err)
	got, err = handler.Handle(ctx, delivery)
	suite.Require().NoError(err)
	suite.Equal(order.LeaseIdle, got.Lease.Status())
	suite.False(got.Lease.IsHeld())
}

func (suite *QueriesIntegrationTestSuite) TestGetLeaseStatus_NotFound() {
	query, err := queries.NewGetLeaseStatusQuery(kernel.NewUUID(), order.PackingLease)
	suite.Require().NoError(err)

	_, err = queries.NewGetLeaseStatusQueryHandler(suite.db).Handle(context.Background(), query)
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *QueriesIntegrationTestSuite) TestGetOrder_ListsOnlyLiveHolds() {
	o := suite.placeOrder()
	live := suite.addHold(o.ID(), "3", time.Hour)
	suite.addHold(o.ID(), "2", time.Second)

	suite.clock.Advance(2 * time.Second)

	query, err := queries.NewGetOrderQuery(o.ID())
	suite.Require().NoError(err)
	got, err := queries.NewGetOrderQueryHandler(suite.db, suite.clock).Handle(context.Background(), query)
	suite.Require().NoError(err)

	suite.True(got.Order.ID().IsEqual(o.ID()))
	suite.Equal(order.Placed, got.Order.Status())
	suite.Require().Len(got.Holds, 1)
	suite.True(got.Holds[0].ID.IsEqual(live.ID()))
	suite.Require().Len(got.Holds[0].Lines, 1)
	suite.True(decimal.NewFromInt(3).Equal(got.Holds[0].Lines[0].Quantity()))
}

func (suite *QueriesIntegrationTestSuite) TestGetOrder_GroupsLinesPerHold() {
	o := suite.placeOrder()
	tomato, err := hold.NewLine("Tomato", "kg", decimal.NewFromInt(1))
	suite.Require().NoError(err)
	lettuce, err := hold.NewLine("Lettuce", "crate", decimal.NewFromInt(2))
	suite.Require().NoError(err)
	h, err := hold.NewStockHold(kernel.NewUUID(), o.ID(), []hold.Line{tomato, lettuce}, suite.clock.Now(), time.Hour)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.holds.Add(context.Background(), h))

	query, err := queries.NewGetOrderQuery(o.ID())
	suite.Require().NoError(err)
	got, err := queries.NewGetOrderQueryHandler(suite.db, suite.clock).Handle(context.Background(), query)
	suite.Require().NoError(err)

	suite.Require().Len(got.Holds, 1)
	suite.Len(got.Holds[0].Lines, 2)
}

func (suite *QueriesIntegrationTestSuite) TestGetOrder_NotFound() {
	query, err := queries.NewGetOrderQuery(kernel.NewUUID())
	suite.Require().NoError(err)

	_, err = queries.NewGetOrderQueryHandler(suite.db, suite.clock).Handle(context.Background(), query)
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *QueriesIntegrationTestSuite) TestAvailability_ExcludesExpiredHolds() {
	o := suite.placeOrder()
	suite.addHold(o.ID(), "1", time.Second)

	suite.True(decimal.NewFromInt(7).Equal(suite.availability("8").Available()))

	suite.clock.Advance(2 * time.Second)

	suite.True(decimal.NewFromInt(8).Equal(suite.availability("8").Available()))
}

func (suite *QueriesIntegrationTestSuite) TestAvailability_ConfirmedHoldSurvivesExpiry() {
	o := suite.placeOrder()
	suite.addHold(o.ID(), "5", time.Second)

	confirmed, err := suite.holds.ConfirmLive(context.Background(), o.ID(), suite.clock.Now())
	suite.Require().NoError(err)
	suite.Equal(int64(1), confirmed)

	suite.clock.Advance(time.Hour)
	deleted, err := suite.holds.DeleteExpired(context.Background(), suite.clock.Now())
	suite.Require().NoError(err)
	suite.Zero(deleted)

	suite.True(decimal.NewFromInt(3).Equal(suite.availability("8").Available()))
}

func (suite *QueriesIntegrationTestSuite) TestAvailability_ConcurrentHoldsBothSucceed() {
	first := suite.placeOrder()
	second := suite.placeOrder()

	var wg sync.WaitGroup
	errCh := make(chan error, 2)
	for _, id := range []kernel.UUID{first.ID(), second.ID()} {
		wg.Add(1)
		go func(orderID kernel.UUID) {
			defer wg.Done()
			line, err := hold.NewLine("Tomato", "kg", decimal.NewFromInt(5))
			if err != nil {
				errCh <- err
				return
			}
			h, err := hold.NewStockHold(kernel.NewUUID(), orderID, []hold.Line{line}, suite.clock.Now(), time.Hour)
			if err != nil {
				errCh <- err
				return
			}
			errCh <- suite.holds.Add(context.Background(), h)
		}(id)
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		suite.Require().NoError(err)
	}

	got := suite.availability("8")
	suite.True(decimal.Zero.Equal(got.Available()))
	suite.True(decimal.NewFromInt(10).Equal(got.Reserved))
	suite.True(got.Oversold())
}

func (suite *QueriesIntegrationTestSuite) TestAvailability_UnknownItem() {
	handler := queries.NewGetAvailabilityQueryHandler(suite.db, staticCatalog{}, suite.clock)
	query, err := queries.NewGetAvailabilityQuery("Papaya", "kg")
	suite.Require().NoError(err)

	_, err = handler.Handle(context.Background(), query)
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func TestQueriesIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(QueriesIntegrationTestSuite))
}

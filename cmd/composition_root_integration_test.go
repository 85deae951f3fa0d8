package cmd_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"fulfillment/cmd"
	"fulfillment/internal/adapters/out/catalog"
	postgres_adapter "fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/clock"
	"fulfillment/pkg/claimclient"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type recordingNotifier struct {
	mu     sync.Mutex
	stages []string
}

func (n *recordingNotifier) NotifyStage(_ context.Context, _ kernel.UUID, stage order.Status) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stages = append(n.stages, stage.String())
	return nil
}

func (n *recordingNotifier) Stages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.stages...)
}

type FulfillmentIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	catalog   *catalog.CSVCatalog
	clock     *clock.Fixed
	notifier  *recordingNotifier
	server    *httptest.Server
	client    *claimclient.Client
}

func (suite *FulfillmentIntegrationTestSuite) SetupSuite() {
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

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db
	suite.Require().NoError(postgres_adapter.Migrate(db))

	path := filepath.Join(suite.T().TempDir(), "catalog.csv")
	suite.Require().NoError(os.WriteFile(path, []byte("product,unit,quantity\nmanzana,kg,8\nlechuga,unidad,20\n"), 0o600))
	suite.catalog, err = catalog.NewCSVCatalog(ctx, path)
	suite.Require().NoError(err)
}

func (suite *FulfillmentIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders, stock_hold_lines, stock_holds").Error)

	suite.clock = clock.NewFixed(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	suite.notifier = &recordingNotifier{}

	config := cmd.Config{
		HoldTTL:               24 * time.Hour,
		LeaseStaleAfter:       30 * time.Minute,
		HoldExpirySchedule:    "0 0 * * * *",
		LeaseReaperSchedule:   "0 0 * * * *",
		CatalogReloadSchedule: "0 0 * * * *",
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	app := cmd.NewCompositionRoot(config, suite.db, suite.catalog, suite.notifier, suite.clock, logger)
	e, err := app.CreateRouter()
	suite.Require().NoError(err)

	suite.server = httptest.NewServer(e)
	suite.client = claimclient.New(suite.server.URL, claimclient.WithReadRetry(1, time.Millisecond))
}

func (suite *FulfillmentIntegrationTestSuite) TearDownTest() {
	suite.server.Close()
}

func (suite *FulfillmentIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *FulfillmentIntegrationTestSuite) placeOrder(product, unit, quantity string) string {
	body, err := json.Marshal(map[string]any{
		"lines": []map[string]string{{"product": product, "unit": unit, "quantity": quantity}},
	})
	suite.Require().NoError(err)

	resp, err := http.Post(suite.server.URL+"/api/v1/orders", "application/json", bytes.NewReader(body))
	suite.Require().NoError(err)
	defer func() { _ = resp.Body.Close() }()
	suite.Require().Equal(http.StatusCreated, resp.StatusCode)

	var placed struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	suite.Require().NoError(json.NewDecoder(resp.Body).Decode(&placed))
	suite.Equal("PLACED", placed.Status)
	return placed.ID
}

type availability struct {
	Nominal   string `json:"nominal"`
	Reserved  string `json:"reserved"`
	Available string `json:"available"`
	Oversold  bool   `json:"oversold"`
}

func (suite *FulfillmentIntegrationTestSuite) availability(product, unit string) availability {
	resp, err := http.Get(suite.server.URL + "/api/v1/availability?product=" + product + "&unit=" + unit)
	suite.Require().NoError(err)
	defer func() { _ = resp.Body.Close() }()
	suite.Require().Equal(http.StatusOK, resp.StatusCode)

	var a availability
	suite.Require().NoError(json.NewDecoder(resp.Body).Decode(&a))
	return a
}

func (suite *FulfillmentIntegrationTestSuite) payOrder(orderID string) {
	ctx := context.Background()
	_, err := suite.client.Transition(ctx, orderID, "EVIDENCE_UPLOADED", "")
	suite.Require().NoError(err)
	_, err = suite.client.Transition(ctx, orderID, "PAYMENT_VERIFIED", "")
	suite.Require().NoError(err)
}

func (suite *FulfillmentIntegrationTestSuite) TestPackingIsExclusiveAndReadyIsFinal() {
	ctx := context.Background()
	orderID := suite.placeOrder("manzana", "kg", "5")
	suite.payOrder(orderID)

	santiago, err := suite.client.Open(ctx, orderID, claimclient.KindPacking, "Santiago")
	suite.Require().NoError(err)
	suite.Equal(claimclient.Claimed, santiago.State())

	mauro, err := suite.client.Open(ctx, orderID, claimclient.KindPacking, "Mauro")
	suite.Require().NoError(err)
	suite.Equal(claimclient.Blocked, mauro.State())
	suite.Equal("Santiago", mauro.Holder())

	_, err = suite.client.Transition(ctx, orderID, "PACKING", "Mauro")
	suite.ErrorIs(err, claimclient.ErrNotHolder)

	_, err = suite.client.Transition(ctx, orderID, "PACKING", "Santiago")
	suite.Require().NoError(err)

	suite.Require().NoError(santiago.MarkReady(ctx))
	suite.Equal("ready", santiago.Lease().Status)

	suite.Require().NoError(mauro.Claim(ctx))
	suite.Equal(claimclient.Blocked, mauro.State())
	suite.Equal("Santiago", mauro.Holder())

	o, err := suite.client.Transition(ctx, orderID, "LABEL_GENERATED", "Santiago")
	suite.Require().NoError(err)
	suite.Equal("LABEL_GENERATED", o.Status)
	suite.Equal("ready", o.PackingLease.Status)

	suite.Equal([]string{"EVIDENCE_UPLOADED", "PAYMENT_VERIFIED", "PACKING", "LABEL_GENERATED"}, suite.notifier.Stages())
}

func (suite *FulfillmentIntegrationTestSuite) TestAbandonedClaimIsReleased() {
	ctx := context.Background()
	orderID := suite.placeOrder("lechuga", "unidad", "2")
	suite.payOrder(orderID)

	santiago, err := suite.client.Open(ctx, orderID, claimclient.KindPacking, "Santiago")
	suite.Require().NoError(err)
	santiago.Abandon(time.Second)

	lease, err := suite.client.Lease(ctx, orderID, claimclient.KindPacking)
	suite.Require().NoError(err)
	suite.Equal("idle", lease.Status)
	suite.Equal("unload", lease.Reason)

	mauro, err := suite.client.Open(ctx, orderID, claimclient.KindPacking, "Mauro")
	suite.Require().NoError(err)
	suite.Equal(claimclient.Claimed, mauro.State())
}

func (suite *FulfillmentIntegrationTestSuite) TestSilentHolderCanBeTakenOver() {
	ctx := context.Background()
	orderID := suite.placeOrder("lechuga", "unidad", "1")
	suite.payOrder(orderID)

	_, err := suite.client.Open(ctx, orderID, claimclient.KindPacking, "Santiago")
	suite.Require().NoError(err)

	suite.clock.Advance(31 * time.Minute)

	mauro, err := suite.client.Open(ctx, orderID, claimclient.KindPacking, "Mauro")
	suite.Require().NoError(err)
	suite.Equal(claimclient.Claimed, mauro.State())
}

func (suite *FulfillmentIntegrationTestSuite) TestHoldsReserveUntilTheyLapse() {
	ctx := context.Background()
	first := suite.placeOrder("manzana", "kg", "5")
	suite.placeOrder("manzana", "kg", "5")

	a := suite.availability("manzana", "kg")
	suite.Equal("8", a.Nominal)
	suite.Equal("10", a.Reserved)
	suite.Equal("0", a.Available)
	suite.True(a.Oversold)

	suite.payOrder(first)
	suite.clock.Advance(25 * time.Hour)

	a = suite.availability("manzana", "kg")
	suite.Equal("5", a.Reserved)
	suite.Equal("3", a.Available)
	suite.False(a.Oversold)

	o, err := suite.client.Order(ctx, first)
	suite.Require().NoError(err)
	suite.Equal("PAYMENT_VERIFIED", o.Status)
}

func TestFulfillmentIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(FulfillmentIntegrationTestSuite))
}

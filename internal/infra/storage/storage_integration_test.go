package storage_test

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/internal/infra/storage"
	productRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/product"
	reservationRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/reservation"
	stockUnitRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/stockunit"
	"github.com/m04kA/SMC-RentalService/internal/service/availability"
	createReservationUC "github.com/m04kA/SMC-RentalService/internal/usecase/create_reservation"
	"github.com/m04kA/SMC-RentalService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RentalService/pkg/logger"
	"github.com/m04kA/SMC-RentalService/pkg/metrics"
	"github.com/m04kA/SMC-RentalService/pkg/ptr"
	"github.com/m04kA/SMC-RentalService/pkg/txmanager"
	"github.com/m04kA/SMC-RentalService/pkg/types"
)

type testEnv struct {
	db           *dbmetrics.DB
	products     *productRepo.Repository
	units        *stockUnitRepo.Repository
	reservations *reservationRepo.Repository
	txManager    *txmanager.Manager
}

func setupTestDB(t *testing.T) *testEnv {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test skipped in -short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("rental"),
		postgres.WithUsername("rental"),
		postgres.WithPassword("rental"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	sqlDB, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, sqlDB.PingContext(ctx))

	require.NoError(t, storage.RunMigrations(sqlDB, "../../../migrations"))

	db := dbmetrics.Wrap(sqlDB, nil)
	return &testEnv{
		db:           db,
		products:     productRepo.NewRepository(db),
		units:        stockUnitRepo.NewRepository(db),
		reservations: reservationRepo.NewRepository(db),
		txManager:    txmanager.NewTransactionManager(db),
	}
}

func seedProduct(t *testing.T, env *testEnv, unitLabels ...string) (int64, []int64) {
	t.Helper()
	ctx := context.Background()

	var productID int64
	err := env.db.QueryRowContext(ctx,
		`INSERT INTO products (name, daily_rate, deposit, buffer_before_days, buffer_after_days)
		 VALUES ('Kajak', 100.00, 500.00, 1, 2) RETURNING id`).Scan(&productID)
	require.NoError(t, err)

	unitIDs := make([]int64, 0, len(unitLabels))
	for _, label := range unitLabels {
		var id int64
		err := env.db.QueryRowContext(ctx,
			`INSERT INTO stock_units (product_id, label) VALUES ($1, $2) RETURNING id`, productID, label).Scan(&id)
		require.NoError(t, err)
		unitIDs = append(unitIDs, id)
	}

	return productID, unitIDs
}

func newReservation(productID, unitID int64, status domain.ReservationStatus, start, end string) *domain.Reservation {
	return &domain.Reservation{
		Status:              status,
		StartDate:           types.MustParseDate(start),
		EndDate:             types.MustParseDate(end),
		CustomerName:        "Jan Kowalski",
		CustomerEmail:       "jan@example.com",
		RentalSubtotalCents: 50000,
		DepositCents:        50000,
		TotalCents:          100000,
		Items: []domain.LineItem{{
			ProductID:           productID,
			StockUnitID:         unitID,
			DailyRateCents:      10000,
			Days:                5,
			RentalSubtotalCents: 50000,
			DepositCents:        50000,
		}},
	}
}

func TestProductRepository(t *testing.T) {
	env := setupTestDB(t)
	ctx := context.Background()
	productID, _ := seedProduct(t, env, "A")

	product, err := env.products.GetByID(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), product.DailyRateCents)
	assert.Equal(t, int64(50000), product.DepositCents)
	assert.Equal(t, domain.Buffers{Before: 1, After: 2}, product.Buffers(nil))
	assert.Empty(t, product.PricingTiers)

	err = env.txManager.Do(ctx, func(txCtx context.Context) error {
		product.AutoIncrementMultiplier = ptr.Ptr(0.3)
		if err := env.products.UpdateSettings(txCtx, product); err != nil {
			return err
		}
		_, err := env.products.ReplaceTiers(txCtx, productID, []domain.PricingTier{
			{Days: 7, Multiplier: 5, Label: "tydzień"},
			{Days: 1, Multiplier: 1, Label: "dzień"},
		})
		return err
	})
	require.NoError(t, err)

	product, err = env.products.GetByID(ctx, productID)
	require.NoError(t, err)
	require.Len(t, product.PricingTiers, 2)
	assert.Equal(t, 1, product.PricingTiers[0].Days)
	assert.Equal(t, 7, product.PricingTiers[1].Days)
	assert.InDelta(t, 0.3, product.AutoIncrement(), 1e-9)

	products, err := env.products.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Len(t, products[0].PricingTiers, 2)

	_, err = env.products.GetByID(ctx, productID+1000)
	assert.ErrorIs(t, err, productRepo.ErrProductNotFound)
}

func TestStockUnitRepository_Unavailability(t *testing.T) {
	env := setupTestDB(t)
	ctx := context.Background()
	_, unitIDs := seedProduct(t, env, "A")

	unit, err := env.units.SetUnavailability(ctx, unitIDs[0], ptr.Ptr(types.MustParseDate("2024-06-01")), nil, ptr.Ptr("serwis"))
	require.NoError(t, err)
	require.NotNil(t, unit.UnavailableFrom)
	assert.Equal(t, "2024-06-01", unit.UnavailableFrom.String())
	assert.Nil(t, unit.UnavailableTo)
	assert.Equal(t, "serwis", *unit.UnavailableReason)

	unit, err = env.units.SetUnavailability(ctx, unitIDs[0], nil, nil, ptr.Ptr("ignored"))
	require.NoError(t, err)
	assert.False(t, unit.HasUnavailability())
	assert.Nil(t, unit.UnavailableReason)

	_, err = env.units.LockByProductID(ctx, unit.ProductID)
	assert.Error(t, err)
}

func TestReservationRepository(t *testing.T) {
	env := setupTestDB(t)
	ctx := context.Background()
	productID, unitIDs := seedProduct(t, env, "A", "B")

	paid, err := env.reservations.Create(ctx, newReservation(productID, unitIDs[0], domain.StatusPaid, "2024-06-10", "2024-06-15"))
	require.NoError(t, err)
	require.NotZero(t, paid.ID)
	require.NotZero(t, paid.Items[0].ID)

	_, err = env.reservations.Create(ctx, newReservation(productID, unitIDs[1], domain.StatusCancelled, "2024-06-10", "2024-06-15"))
	require.NoError(t, err)

	blocking, err := env.reservations.GetBlockingByStockUnitIDs(ctx, unitIDs)
	require.NoError(t, err)
	require.Len(t, blocking, 1)
	assert.Equal(t, paid.ID, blocking[0].ID)
	assert.Equal(t, int64(100000), blocking[0].TotalCents)
	assert.True(t, blocking[0].References(unitIDs[0]))

	units, err := env.units.GetByProductID(ctx, productID)
	require.NoError(t, err)
	product, err := env.products.GetByID(ctx, productID)
	require.NoError(t, err)

	request, err := domain.NewDateRange(types.MustParseDate("2024-06-16"), types.MustParseDate("2024-06-18"))
	require.NoError(t, err)
	result := availability.Resolve(units, blocking, request, product.Buffers(nil))
	assert.Equal(t, []int64{unitIDs[1]}, result.AvailableStockUnitIDs)

	require.NoError(t, env.reservations.SetPaymentSession(ctx, paid.ID, "cs_test_1"))
	found, err := env.reservations.GetByPaymentSessionID(ctx, "cs_test_1")
	require.NoError(t, err)
	assert.Equal(t, paid.ID, found.ID)

	require.NoError(t, env.reservations.UpdateStatus(ctx, paid.ID, domain.StatusPickedUp))
	found, err = env.reservations.GetByID(ctx, paid.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPickedUp, found.Status)

	status := domain.StatusCancelled
	list, err := env.reservations.List(ctx, domain.ReservationFilter{Status: &status, StockUnitID: &unitIDs[1]})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = env.reservations.List(ctx, domain.ReservationFilter{
		ProductID: &productID,
		From:      ptr.Ptr(types.MustParseDate("2024-06-16")),
	})
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.ErrorIs(t, env.reservations.UpdateStatus(ctx, 99999, domain.StatusPaid), reservationRepo.ErrReservationNotFound)
}

func TestCreateReservation_ConcurrentRequestsBookOneUnitOnce(t *testing.T) {
	env := setupTestDB(t)
	ctx := context.Background()
	productID, unitIDs := seedProduct(t, env, "A")

	uc := createReservationUC.NewUseCase(
		env.products,
		env.units,
		env.reservations,
		nil,
		env.txManager,
		(*metrics.Metrics)(nil),
		logger.NewWithWriter(io.Discard, "error"),
	)

	request := func() *createReservationUC.Request {
		return &createReservationUC.Request{
			Channel:       createReservationUC.ChannelOffice,
			ProductID:     productID,
			StartDate:     types.MustParseDate("2024-07-01"),
			EndDate:       types.MustParseDate("2024-07-03"),
			CustomerName:  "Jan Kowalski",
			CustomerEmail: "jan@example.com",
		}
	}

	var wg sync.WaitGroup
	start := make(chan struct{})
	responses := make([]*createReservationUC.Response, 2)
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			responses[i], errs[i] = uc.Execute(ctx, request())
		}(i)
	}
	close(start)
	wg.Wait()

	succeeded := 0
	for i, err := range errs {
		if err == nil {
			succeeded++
			assert.Equal(t, unitIDs[0], responses[i].StockUnitID)
			continue
		}
		assert.True(t,
			errors.Is(err, createReservationUC.ErrConcurrentReservation) || errors.Is(err, createReservationUC.ErrUnavailable),
			"unexpected error: %v", err)
	}
	assert.Equal(t, 1, succeeded)

	var count int
	require.NoError(t, env.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reservations`).Scan(&count))
	assert.Equal(t, 1, count)
}

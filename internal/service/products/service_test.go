package products

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	productRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/product"
	stockUnitRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/stockunit"
	"github.com/m04kA/SMC-RentalService/internal/service/availability"
	"github.com/m04kA/SMC-RentalService/internal/service/products/models"
	"github.com/m04kA/SMC-RentalService/pkg/ptr"
	"github.com/m04kA/SMC-RentalService/pkg/types"
)

type fakeProducts struct {
	products     map[int64]*domain.Product
	updated      []*domain.Product
	replaced     map[int64][]domain.PricingTier
	replaceErr   error
	lastActiveOn bool
}

func (f *fakeProducts) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, productRepo.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProducts) List(_ context.Context, activeOnly bool) ([]*domain.Product, error) {
	f.lastActiveOn = activeOnly
	out := make([]*domain.Product, 0)
	for _, id := range []int64{1, 2} {
		if p, ok := f.products[id]; ok && (!activeOnly || p.Active) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProducts) UpdateSettings(_ context.Context, p *domain.Product) error {
	f.updated = append(f.updated, p)
	return nil
}

func (f *fakeProducts) ReplaceTiers(_ context.Context, productID int64, tiers []domain.PricingTier) ([]domain.PricingTier, error) {
	if f.replaceErr != nil {
		return nil, f.replaceErr
	}
	f.replaced[productID] = tiers
	saved := make([]domain.PricingTier, len(tiers))
	for i, t := range tiers {
		t.ID = int64(i + 1)
		saved[i] = t
	}
	return saved, nil
}

type fakeUnits struct {
	units []*domain.StockUnit
}

func (f *fakeUnits) GetByProductIDs(_ context.Context, productIDs []int64) ([]*domain.StockUnit, error) {
	out := make([]*domain.StockUnit, 0)
	for _, u := range f.units {
		for _, id := range productIDs {
			if u.ProductID == id {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

func (f *fakeUnits) SetUnavailability(_ context.Context, id int64, from, to *types.Date, reason *string) (*domain.StockUnit, error) {
	for _, u := range f.units {
		if u.ID == id {
			if from == nil && to == nil {
				reason = nil
			}
			u.UnavailableFrom, u.UnavailableTo, u.UnavailableReason = from, to, reason
			return u, nil
		}
	}
	return nil, stockUnitRepo.ErrStockUnitNotFound
}

type fakeReservations struct {
	reservations []*domain.Reservation
	calls        int
}

func (f *fakeReservations) GetBlockingByStockUnitIDs(_ context.Context, _ []int64) ([]*domain.Reservation, error) {
	f.calls++
	return f.reservations, nil
}

type fakeTx struct {
	readOnly int
	write    int
}

func (f *fakeTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	f.write++
	return fn(ctx)
}

func (f *fakeTx) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	f.readOnly++
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixture struct {
	products     *fakeProducts
	units        *fakeUnits
	reservations *fakeReservations
	tx           *fakeTx
	svc          *Service
}

func newFixture() *fixture {
	f := &fixture{
		products: &fakeProducts{
			products: map[int64]*domain.Product{
				1: {
					ID: 1, Name: "Kajak", DailyRateCents: 10000, DepositCents: 30000, Active: true,
					BufferBeforeDays: ptr.Ptr(1), BufferAfterDays: ptr.Ptr(2),
					PricingTiers: []domain.PricingTier{{ID: 1, Days: 7, Multiplier: 5, Label: "tydzień"}},
				},
				2: {ID: 2, Name: "Rower", DailyRateCents: 5000, Active: false},
			},
			replaced: map[int64][]domain.PricingTier{},
		},
		units: &fakeUnits{units: []*domain.StockUnit{
			{ID: 11, ProductID: 1, Label: "A"},
			{ID: 12, ProductID: 1, Label: "B"},
			{ID: 21, ProductID: 2, Label: "R1"},
		}},
		reservations: &fakeReservations{reservations: []*domain.Reservation{{
			ID:        100,
			Status:    domain.StatusPaid,
			StartDate: types.MustParseDate("2024-06-10"),
			EndDate:   types.MustParseDate("2024-06-15"),
			Items:     []domain.LineItem{{ProductID: 1, StockUnitID: 11}},
		}}},
		tx: &fakeTx{},
	}
	f.svc = NewService(f.products, f.units, f.reservations, f.tx, nopLogger{})
	return f
}

func window(start, end string) models.AvailabilityWindow {
	return models.AvailabilityWindow{
		StartDate: ptr.Ptr(types.MustParseDate(start)),
		EndDate:   ptr.Ptr(types.MustParseDate(end)),
	}
}

func TestGetByID_WithoutWindow(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.GetByID(context.Background(), 1, nil)
	require.NoError(t, err)

	assert.Equal(t, "100.00", resp.DailyRate)
	assert.Equal(t, 1, resp.EffectiveBufferBeforeDays)
	assert.Equal(t, 2, resp.EffectiveBufferAfterDays)
	require.Len(t, resp.StockUnits, 2)
	assert.Nil(t, resp.StockUnits[0].Available)
	assert.Zero(t, f.reservations.calls)
	assert.Equal(t, 1, f.tx.readOnly)
}

func TestGetByID_WithWindowReportsUnitVerdicts(t *testing.T) {
	f := newFixture()
	w := window("2024-06-16", "2024-06-18")

	resp, err := f.svc.GetByID(context.Background(), 1, &w)
	require.NoError(t, err)
	require.Len(t, resp.StockUnits, 2)

	a, b := resp.StockUnits[0], resp.StockUnits[1]
	require.NotNil(t, a.Available)
	assert.False(t, *a.Available)
	assert.Equal(t, availability.ReasonReservation, *a.Reason)
	assert.Equal(t, int64(100), *a.ReservationID)

	require.NotNil(t, b.Available)
	assert.True(t, *b.Available)
	assert.Equal(t, availability.ReasonAvailable, *b.Reason)
}

func TestGetByID_Errors(t *testing.T) {
	f := newFixture()

	_, err := f.svc.GetByID(context.Background(), 99, nil)
	assert.ErrorIs(t, err, ErrProductNotFound)

	w := window("2024-06-18", "2024-06-16")
	_, err = f.svc.GetByID(context.Background(), 1, &w)
	assert.ErrorIs(t, err, ErrInvalidRange)

	half := models.AvailabilityWindow{StartDate: ptr.Ptr(types.MustParseDate("2024-06-18"))}
	_, err = f.svc.GetByID(context.Background(), 1, &half)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestList(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.List(context.Background(), &models.ListProductsRequest{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, resp.Products, 1)
	assert.Equal(t, "Kajak", resp.Products[0].Name)
	assert.True(t, f.products.lastActiveOn)

	resp, err = f.svc.List(context.Background(), &models.ListProductsRequest{AvailabilityWindow: window("2024-06-12", "2024-06-13")})
	require.NoError(t, err)
	require.Len(t, resp.Products, 2)
	assert.Len(t, resp.Products[1].StockUnits, 1)
	assert.True(t, *resp.Products[1].StockUnits[0].Available)
	assert.False(t, *resp.Products[0].StockUnits[0].Available)
	assert.Equal(t, 1, f.reservations.calls)
}

func TestUpdateSettings(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.UpdateSettings(context.Background(), 1, &models.UpdateSettingsRequest{
		BufferBeforeDays:        ptr.Ptr(0),
		AutoIncrementMultiplier: ptr.Ptr(0.3),
		PricingTiers: []models.PricingTierRequest{
			{Days: 3, Multiplier: 2.5, Label: "weekend"},
			{Days: 1, Multiplier: 1, Label: "dzień"},
		},
	})
	require.NoError(t, err)

	require.Len(t, f.products.updated, 1)
	assert.Equal(t, 0, *f.products.updated[0].BufferBeforeDays)
	assert.Nil(t, f.products.updated[0].BufferAfterDays)
	assert.Len(t, f.products.replaced[1], 2)
	assert.Equal(t, 1, f.tx.write)

	assert.Equal(t, 0, resp.EffectiveBufferBeforeDays)
	assert.Equal(t, domain.DefaultBufferDays, resp.EffectiveBufferAfterDays)
	require.Len(t, resp.PricingTiers, 2)
	assert.Equal(t, "weekend", resp.PricingTiers[0].Label)
}

func TestUpdateSettings_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  models.UpdateSettingsRequest
	}{
		{name: "negative buffer", req: models.UpdateSettingsRequest{BufferAfterDays: ptr.Ptr(-1)}},
		{name: "buffer too large", req: models.UpdateSettingsRequest{BufferBeforeDays: ptr.Ptr(domain.MaxBufferDays + 1)}},
		{name: "negative auto increment", req: models.UpdateSettingsRequest{AutoIncrementMultiplier: ptr.Ptr(-0.1)}},
		{name: "infinite auto increment", req: models.UpdateSettingsRequest{AutoIncrementMultiplier: ptr.Ptr(math.Inf(1))}},
		{name: "zero days tier", req: models.UpdateSettingsRequest{PricingTiers: []models.PricingTierRequest{{Days: 0, Multiplier: 1}}}},
		{name: "duplicate tier", req: models.UpdateSettingsRequest{PricingTiers: []models.PricingTierRequest{
			{Days: 3, Multiplier: 2}, {Days: 3, Multiplier: 2.5},
		}}},
		{name: "NaN multiplier", req: models.UpdateSettingsRequest{PricingTiers: []models.PricingTierRequest{{Days: 1, Multiplier: math.NaN()}}}},
		{name: "negative multiplier", req: models.UpdateSettingsRequest{PricingTiers: []models.PricingTierRequest{{Days: 1, Multiplier: -1}}}},
		{name: "multiplier above column precision", req: models.UpdateSettingsRequest{PricingTiers: []models.PricingTierRequest{{Days: 1, Multiplier: 10000}}}},
		{name: "auto increment above column precision", req: models.UpdateSettingsRequest{AutoIncrementMultiplier: ptr.Ptr(12345.0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()

			_, err := f.svc.UpdateSettings(context.Background(), 1, &tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Zero(t, f.tx.write)
		})
	}
}

func TestUpdateSettings_AcceptsMaxMultiplier(t *testing.T) {
	f := newFixture()

	_, err := f.svc.UpdateSettings(context.Background(), 1, &models.UpdateSettingsRequest{
		AutoIncrementMultiplier: ptr.Ptr(domain.MaxMultiplier),
		PricingTiers:            []models.PricingTierRequest{{Days: 1, Multiplier: domain.MaxMultiplier}},
	})

	require.NoError(t, err)
	assert.Len(t, f.products.replaced[1], 1)
}

func TestUpdateSettings_Errors(t *testing.T) {
	f := newFixture()

	_, err := f.svc.UpdateSettings(context.Background(), 99, &models.UpdateSettingsRequest{})
	assert.ErrorIs(t, err, ErrProductNotFound)

	f.products.replaceErr = errors.New("deadlock")
	_, err = f.svc.UpdateSettings(context.Background(), 1, &models.UpdateSettingsRequest{})
	assert.ErrorIs(t, err, ErrInternal)
}

func TestSetUnitUnavailability(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	resp, err := f.svc.SetUnitUnavailability(ctx, 11, &models.SetUnavailabilityRequest{
		From:   ptr.Ptr(types.MustParseDate("2024-07-01")),
		Reason: ptr.Ptr("serwis"),
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-07-01", *resp.UnavailableFrom)
	assert.Nil(t, resp.UnavailableTo)
	assert.Equal(t, "serwis", *resp.UnavailableReason)

	resp, err = f.svc.SetUnitUnavailability(ctx, 11, &models.SetUnavailabilityRequest{})
	require.NoError(t, err)
	assert.Nil(t, resp.UnavailableFrom)
	assert.Nil(t, resp.UnavailableReason)

	_, err = f.svc.SetUnitUnavailability(ctx, 11, &models.SetUnavailabilityRequest{
		From: ptr.Ptr(types.MustParseDate("2024-07-10")),
		To:   ptr.Ptr(types.MustParseDate("2024-07-01")),
	})
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = f.svc.SetUnitUnavailability(ctx, 99, &models.SetUnavailabilityRequest{})
	assert.ErrorIs(t, err, ErrStockUnitNotFound)
}

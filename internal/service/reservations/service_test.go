package reservations

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	productRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/product"
	reservationRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-RentalService/internal/service/reservations/models"
	"github.com/m04kA/SMC-RentalService/pkg/ptr"
	"github.com/m04kA/SMC-RentalService/pkg/types"
)

type fakeReservations struct {
	byID       map[int64]*domain.Reservation
	lastFilter domain.ReservationFilter
	listErr    error
	updates    []domain.ReservationStatus
}

func (f *fakeReservations) GetByID(_ context.Context, id int64) (*domain.Reservation, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, reservationRepo.ErrReservationNotFound
	}
	return r, nil
}

func (f *fakeReservations) GetByPaymentSessionID(_ context.Context, sessionID string) (*domain.Reservation, error) {
	for _, r := range f.byID {
		if r.PaymentSessionID != nil && *r.PaymentSessionID == sessionID {
			return r, nil
		}
	}
	return nil, reservationRepo.ErrReservationNotFound
}

func (f *fakeReservations) List(_ context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error) {
	f.lastFilter = filter
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*domain.Reservation, 0, len(f.byID))
	for _, r := range f.byID {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeReservations) UpdateStatus(_ context.Context, id int64, status domain.ReservationStatus) error {
	r, ok := f.byID[id]
	if !ok {
		return reservationRepo.ErrReservationNotFound
	}
	f.updates = append(f.updates, status)
	r.Status = status
	return nil
}

type fakeProducts struct {
	products map[int64]*domain.Product
	err      error
}

func (f *fakeProducts) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.products[id]
	if !ok {
		return nil, productRepo.ErrProductNotFound
	}
	return p, nil
}

type fakeTx struct{ calls int }

func (f *fakeTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newReservation(id int64, status domain.ReservationStatus) *domain.Reservation {
	return &domain.Reservation{
		ID:                  id,
		Status:              status,
		StartDate:           types.MustParseDate("2024-06-10"),
		EndDate:             types.MustParseDate("2024-06-15"),
		CustomerName:        "Jan Kowalski",
		CustomerEmail:       "jan@example.com",
		RentalSubtotalCents: 50000,
		DepositCents:        30000,
		TotalCents:          80000,
		PaymentSessionID:    ptr.Ptr("cs_1"),
		Items: []domain.LineItem{{
			ID:                  id * 10,
			ReservationID:       id,
			ProductID:           1,
			StockUnitID:         11,
			DailyRateCents:      10000,
			Days:                5,
			RentalSubtotalCents: 50000,
			DepositCents:        30000,
		}},
	}
}

func newService(reservations ...*domain.Reservation) (*Service, *fakeReservations, *fakeProducts, *fakeTx) {
	repo := &fakeReservations{byID: map[int64]*domain.Reservation{}}
	for _, r := range reservations {
		repo.byID[r.ID] = r
	}
	products := &fakeProducts{products: map[int64]*domain.Product{
		1: {ID: 1, Name: "Kajak", DailyRateCents: 12000, DepositCents: 30000},
	}}
	tx := &fakeTx{}
	return NewService(repo, products, tx, nopLogger{}), repo, products, tx
}

func TestGetByID_RecomputesSummary(t *testing.T) {
	svc, _, _, _ := newService(newReservation(1, domain.StatusPaid))

	resp, err := svc.GetByID(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "800.00", resp.Total)
	assert.Equal(t, "2024-06-10", resp.StartDate)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "100.00", resp.Items[0].DailyRate)

	require.NotNil(t, resp.Summary)
	assert.True(t, resp.Summary.Recomputed)
	assert.Equal(t, 5, resp.Summary.Days)
	assert.Equal(t, int64(60000), resp.Summary.RentalSubtotalCents)
	assert.Equal(t, int64(90000), resp.Summary.TotalCents)
	assert.Equal(t, "900.00", resp.Summary.Total)
}

func TestGetByID_FallsBackToStoredAmounts(t *testing.T) {
	t.Run("product gone", func(t *testing.T) {
		svc, _, products, _ := newService(newReservation(1, domain.StatusPaid))
		products.products = map[int64]*domain.Product{}

		resp, err := svc.GetByID(context.Background(), 1)
		require.NoError(t, err)
		assert.False(t, resp.Summary.Recomputed)
		assert.Equal(t, int64(80000), resp.Summary.TotalCents)
	})

	t.Run("storage failure", func(t *testing.T) {
		svc, _, products, _ := newService(newReservation(1, domain.StatusPaid))
		products.err = errors.New("connection reset")

		resp, err := svc.GetByID(context.Background(), 1)
		require.NoError(t, err)
		assert.False(t, resp.Summary.Recomputed)
		assert.Equal(t, int64(80000), resp.Summary.TotalCents)
	})

	t.Run("product cannot be priced", func(t *testing.T) {
		svc, _, products, _ := newService(newReservation(1, domain.StatusPaid))
		products.products[1].DailyRateCents = -1

		resp, err := svc.GetByID(context.Background(), 1)
		require.NoError(t, err)
		assert.False(t, resp.Summary.Recomputed)
		assert.Equal(t, int64(50000), resp.Summary.RentalSubtotalCents)
	})
}

func TestGetByID_NotFound(t *testing.T) {
	svc, _, _, _ := newService()

	_, err := svc.GetByID(context.Background(), 7)
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestList(t *testing.T) {
	svc, repo, _, _ := newService(newReservation(1, domain.StatusPaid))

	resp, err := svc.List(context.Background(), &models.ListReservationsRequest{
		Status:    ptr.Ptr("paid"),
		ProductID: ptr.Ptr(int64(1)),
		From:      ptr.Ptr(types.MustParseDate("2024-06-01")),
	})
	require.NoError(t, err)
	assert.Len(t, resp.Reservations, 1)
	require.NotNil(t, repo.lastFilter.Status)
	assert.Equal(t, domain.StatusPaid, *repo.lastFilter.Status)
	assert.Equal(t, int64(1), *repo.lastFilter.ProductID)

	_, err = svc.List(context.Background(), &models.ListReservationsRequest{Status: ptr.Ptr("lost")})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.List(context.Background(), &models.ListReservationsRequest{
		From: ptr.Ptr(types.MustParseDate("2024-06-10")),
		To:   ptr.Ptr(types.MustParseDate("2024-06-01")),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	repo.listErr = errors.New("boom")
	_, err = svc.List(context.Background(), &models.ListReservationsRequest{})
	assert.ErrorIs(t, err, ErrInternal)
}

func TestUpdateStatus_TransitionTable(t *testing.T) {
	tests := []struct {
		name    string
		from    domain.ReservationStatus
		to      string
		wantErr error
	}{
		{name: "pending to paid", from: domain.StatusPending, to: "paid"},
		{name: "pending to failed", from: domain.StatusPending, to: "failed"},
		{name: "paid to picked up", from: domain.StatusPaid, to: "picked_up"},
		{name: "manual to cancelled", from: domain.StatusManual, to: "cancelled"},
		{name: "picked up to returned", from: domain.StatusPickedUp, to: "returned"},
		{name: "returned to completed", from: domain.StatusReturned, to: "completed"},
		{name: "pending to picked up", from: domain.StatusPending, to: "picked_up", wantErr: ErrInvalidTransition},
		{name: "completed is terminal", from: domain.StatusCompleted, to: "cancelled", wantErr: ErrInvalidTransition},
		{name: "cancelled is terminal", from: domain.StatusCancelled, to: "paid", wantErr: ErrInvalidTransition},
		{name: "failed is terminal", from: domain.StatusFailed, to: "pending", wantErr: ErrInvalidTransition},
		{name: "unknown status", from: domain.StatusPaid, to: "lost", wantErr: ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _, _ := newService(newReservation(1, tt.from))

			resp, err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: tt.to})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, repo.updates)
				assert.Equal(t, tt.from, repo.byID[1].Status)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.to, resp.Status)
			assert.Equal(t, []domain.ReservationStatus{domain.ReservationStatus(tt.to)}, repo.updates)
		})
	}
}

func TestUpdateStatus_NotFound(t *testing.T) {
	svc, _, _, tx := newService()

	_, err := svc.UpdateStatus(context.Background(), 9, &models.UpdateStatusRequest{Status: "paid"})
	assert.ErrorIs(t, err, ErrReservationNotFound)
	assert.Equal(t, 1, tx.calls)
}

func TestConfirmPayment(t *testing.T) {
	t.Run("pending becomes paid", func(t *testing.T) {
		svc, repo, _, _ := newService(newReservation(1, domain.StatusPending))

		resp, err := svc.ConfirmPayment(context.Background(), "cs_1")
		require.NoError(t, err)
		assert.Equal(t, "paid", resp.Status)
		assert.Equal(t, []domain.ReservationStatus{domain.StatusPaid}, repo.updates)
	})

	t.Run("already paid is idempotent", func(t *testing.T) {
		svc, repo, _, _ := newService(newReservation(1, domain.StatusPaid))

		resp, err := svc.ConfirmPayment(context.Background(), "cs_1")
		require.NoError(t, err)
		assert.Equal(t, "paid", resp.Status)
		assert.Empty(t, repo.updates)
	})

	t.Run("failed reservation is not revived", func(t *testing.T) {
		svc, repo, _, _ := newService(newReservation(1, domain.StatusFailed))

		_, err := svc.ConfirmPayment(context.Background(), "cs_1")
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.Empty(t, repo.updates)
	})

	t.Run("unknown session", func(t *testing.T) {
		svc, _, _, _ := newService(newReservation(1, domain.StatusPending))

		_, err := svc.ConfirmPayment(context.Background(), "cs_unknown")
		assert.ErrorIs(t, err, ErrReservationNotFound)
	})

	t.Run("empty session", func(t *testing.T) {
		svc, _, _, tx := newService()

		_, err := svc.ConfirmPayment(context.Background(), "")
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Zero(t, tx.calls)
	})
}

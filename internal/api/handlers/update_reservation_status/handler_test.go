package update_reservation_status

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-RentalService/internal/service/reservations"
	"github.com/m04kA/SMC-RentalService/internal/service/reservations/models"
)

type fakeService struct {
	lastID int64
	err    error
}

func (f *fakeService) UpdateStatus(_ context.Context, id int64, req *models.UpdateStatusRequest) (*models.ReservationResponse, error) {
	f.lastID = id
	if f.err != nil {
		return nil, f.err
	}
	return &models.ReservationResponse{ID: id, Status: req.Status}, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newRequest(id, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/office/reservations/"+id+"/status", strings.NewReader(body))
	return mux.SetURLVars(req, map[string]string{"reservationId": id})
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		body       string
		err        error
		wantStatus int
	}{
		{name: "ok", id: "5", body: `{"status":"picked_up"}`, wantStatus: http.StatusOK},
		{name: "bad id", id: "abc", body: `{"status":"paid"}`, wantStatus: http.StatusBadRequest},
		{name: "unknown status", id: "5", body: `{"status":"lost"}`, wantStatus: http.StatusBadRequest},
		{name: "not found", id: "5", body: `{"status":"paid"}`, err: reservations.ErrReservationNotFound, wantStatus: http.StatusNotFound},
		{
			name: "transition rejected", id: "5", body: `{"status":"paid"}`,
			err:        fmt.Errorf("%w: completed -> paid", reservations.ErrInvalidTransition),
			wantStatus: http.StatusConflict,
		},
		{name: "internal", id: "5", body: `{"status":"paid"}`, err: reservations.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{err: tt.err}
			h := NewHandler(svc, nopLogger{})

			rec := httptest.NewRecorder()
			h.Handle(rec, newRequest(tt.id, tt.body))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, int64(5), svc.lastID)
				assert.Contains(t, rec.Body.String(), `"status":"picked_up"`)
			}
		})
	}
}

package create_reservation

import (
	createReservation "github.com/m04kA/SMC-RentalService/internal/usecase/create_reservation"
	"github.com/m04kA/SMC-RentalService/pkg/money"
	"github.com/m04kA/SMC-RentalService/pkg/types"
)

// CreateReservationRequest HTTP request model (checkout и заказ из офиса)
type CreateReservationRequest struct {
	ProductID     int64   `json:"productId" validate:"required,gt=0"`
	StartDate     string  `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate       string  `json:"endDate" validate:"required,datetime=2006-01-02"`
	CustomerName  string  `json:"customerName" validate:"required,max=255"`
	CustomerEmail string  `json:"customerEmail" validate:"required,email,max=255"`
	CustomerPhone *string `json:"customerPhone,omitempty" validate:"omitempty,max=32"`
	Notes         *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// ReservationResponse HTTP response model
type ReservationResponse struct {
	ReservationID       int64   `json:"reservationId"`
	Status              string  `json:"status"`
	ProductID           int64   `json:"productId"`
	StockUnitID         int64   `json:"stockUnitId"`
	StartDate           string  `json:"startDate"`
	EndDate             string  `json:"endDate"`
	Days                int     `json:"days"`
	RentalSubtotal      string  `json:"rentalSubtotal"`
	Deposit             string  `json:"deposit"`
	Total               string  `json:"total"`
	RentalSubtotalCents int64   `json:"rentalSubtotalCents"`
	DepositCents        int64   `json:"depositCents"`
	TotalCents          int64   `json:"totalCents"`
	PaymentSessionID    *string `json:"paymentSessionId,omitempty"`
	RedirectURL         *string `json:"redirectUrl,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateReservationRequest) ToUseCaseRequest(channel createReservation.Channel, createdBy *int64) (*createReservation.Request, error) {
	start, err := types.ParseDate(r.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := types.ParseDate(r.EndDate)
	if err != nil {
		return nil, err
	}

	return &createReservation.Request{
		Channel:       channel,
		ProductID:     r.ProductID,
		StartDate:     start,
		EndDate:       end,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		CustomerPhone: r.CustomerPhone,
		Notes:         r.Notes,
		CreatedBy:     createdBy,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createReservation.Response) *ReservationResponse {
	return &ReservationResponse{
		ReservationID:       resp.ReservationID,
		Status:              resp.Status,
		ProductID:           resp.ProductID,
		StockUnitID:         resp.StockUnitID,
		StartDate:           resp.StartDate.String(),
		EndDate:             resp.EndDate.String(),
		Days:                resp.Days,
		RentalSubtotal:      money.FormatMajor(resp.RentalSubtotalCents),
		Deposit:             money.FormatMajor(resp.DepositCents),
		Total:               money.FormatMajor(resp.TotalCents),
		RentalSubtotalCents: resp.RentalSubtotalCents,
		DepositCents:        resp.DepositCents,
		TotalCents:          resp.TotalCents,
		PaymentSessionID:    resp.PaymentSessionID,
		RedirectURL:         resp.RedirectURL,
	}
}

// unavailableDetails окно занятости для тела ошибки 409
func unavailableDetails(e *createReservation.UnavailableError) map[string]string {
	details := map[string]string{}
	if e.BlockedStart != nil {
		details["blockedStartDate"] = e.BlockedStart.String()
	}
	if e.BlockedEnd != nil {
		details["blockedEndDate"] = e.BlockedEnd.String()
	}
	return details
}

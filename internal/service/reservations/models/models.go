package models

import (
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/pkg/money"
	"github.com/m04kA/SMC-RentalService/pkg/types"
)

// Request модели

// ListReservationsRequest фильтр списка бронирований в офисе
type ListReservationsRequest struct {
	Status      *string     `json:"status,omitempty"`
	ProductID   *int64      `json:"productId,omitempty"`
	StockUnitID *int64      `json:"stockUnitId,omitempty"`
	From        *types.Date `json:"from,omitempty"` // Бронирования, заканчивающиеся не раньше
	To          *types.Date `json:"to,omitempty"`   // Бронирования, начинающиеся не позже
	Limit       uint64      `json:"limit,omitempty"`
	Offset      uint64      `json:"offset,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListReservationsRequest) ToDomainFilter() (domain.ReservationFilter, error) {
	filter := domain.ReservationFilter{
		ProductID:   r.ProductID,
		StockUnitID: r.StockUnitID,
		From:        r.From,
		To:          r.To,
		Limit:       r.Limit,
		Offset:      r.Offset,
	}

	if r.Status != nil {
		status, err := domain.ParseReservationStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// UpdateStatusRequest запрос на смену статуса бронирования
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// Response модели

// LineItemResponse позиция бронирования
type LineItemResponse struct {
	ID                  int64  `json:"id"`
	ProductID           int64  `json:"productId"`
	StockUnitID         int64  `json:"stockUnitId"`
	Days                int    `json:"days"`
	DailyRate           string `json:"dailyRate"`
	RentalSubtotal      string `json:"rentalSubtotal"`
	Deposit             string `json:"deposit"`
	DailyRateCents      int64  `json:"dailyRateCents"`
	RentalSubtotalCents int64  `json:"rentalSubtotalCents"`
	DepositCents        int64  `json:"depositCents"`
}

// PriceSummary пересчитанная сводка цены для документов.
// Recomputed=false означает, что хотя бы одна позиция взята из сохраненных сумм.
type PriceSummary struct {
	Days                int    `json:"days"`
	RentalSubtotalCents int64  `json:"rentalSubtotalCents"`
	DepositCents        int64  `json:"depositCents"`
	TotalCents          int64  `json:"totalCents"`
	Total               string `json:"total"`
	Recomputed          bool   `json:"recomputed"`
}

// ReservationResponse ответ с данными бронирования
type ReservationResponse struct {
	ID        int64  `json:"id"`
	Status    string `json:"status"`
	StartDate string `json:"startDate"` // "2024-06-10"
	EndDate   string `json:"endDate"`

	CustomerName  string  `json:"customerName"`
	CustomerEmail string  `json:"customerEmail"`
	CustomerPhone *string `json:"customerPhone,omitempty"`
	Notes         *string `json:"notes,omitempty"`
	CreatedBy     *int64  `json:"createdBy,omitempty"`

	Items []LineItemResponse `json:"items"`

	RentalSubtotal      string `json:"rentalSubtotal"`
	Deposit             string `json:"deposit"`
	Total               string `json:"total"`
	RentalSubtotalCents int64  `json:"rentalSubtotalCents"`
	DepositCents        int64  `json:"depositCents"`
	TotalCents          int64  `json:"totalCents"`

	PaymentSessionID *string       `json:"paymentSessionId,omitempty"`
	Summary          *PriceSummary `json:"summary,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReservationListResponse ответ со списком бронирований
type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
}

// Методы конвертации

// FromDomainReservation конвертирует domain модель в DTO
func FromDomainReservation(r *domain.Reservation) *ReservationResponse {
	if r == nil {
		return nil
	}

	items := make([]LineItemResponse, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, LineItemResponse{
			ID:                  item.ID,
			ProductID:           item.ProductID,
			StockUnitID:         item.StockUnitID,
			Days:                item.Days,
			DailyRate:           money.FormatMajor(item.DailyRateCents),
			RentalSubtotal:      money.FormatMajor(item.RentalSubtotalCents),
			Deposit:             money.FormatMajor(item.DepositCents),
			DailyRateCents:      item.DailyRateCents,
			RentalSubtotalCents: item.RentalSubtotalCents,
			DepositCents:        item.DepositCents,
		})
	}

	return &ReservationResponse{
		ID:                  r.ID,
		Status:              string(r.Status),
		StartDate:           r.StartDate.String(),
		EndDate:             r.EndDate.String(),
		CustomerName:        r.CustomerName,
		CustomerEmail:       r.CustomerEmail,
		CustomerPhone:       r.CustomerPhone,
		Notes:               r.Notes,
		CreatedBy:           r.CreatedBy,
		Items:               items,
		RentalSubtotal:      money.FormatMajor(r.RentalSubtotalCents),
		Deposit:             money.FormatMajor(r.DepositCents),
		Total:               money.FormatMajor(r.TotalCents),
		RentalSubtotalCents: r.RentalSubtotalCents,
		DepositCents:        r.DepositCents,
		TotalCents:          r.TotalCents,
		PaymentSessionID:    r.PaymentSessionID,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
}

// FromDomainReservationList конвертирует список domain моделей в DTO
func FromDomainReservationList(reservations []*domain.Reservation) *ReservationListResponse {
	resp := &ReservationListResponse{
		Reservations: make([]ReservationResponse, 0, len(reservations)),
	}

	for _, r := range reservations {
		if dto := FromDomainReservation(r); dto != nil {
			resp.Reservations = append(resp.Reservations, *dto)
		}
	}

	return resp
}

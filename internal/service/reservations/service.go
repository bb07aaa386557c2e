package reservations

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	productRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/product"
	reservationRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-RentalService/internal/service/pricing"
	"github.com/m04kA/SMC-RentalService/internal/service/reservations/models"
	"github.com/m04kA/SMC-RentalService/pkg/money"
)

// Service сервис бронирований для офиса и подтверждения оплаты
type Service struct {
	reservationRepo ReservationRepository
	productRepo     ProductRepository
	txManager       TransactionManager
	logger          Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	reservationRepo ReservationRepository,
	productRepo ProductRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		productRepo:     productRepo,
		txManager:       txManager,
		logger:          logger,
	}
}

// GetByID получает бронирование по ID вместе со сводкой цены.
// Сводка пересчитывается по текущим настройкам продукта; если пересчет
// невозможен, для позиции берутся сохраненные суммы.
func (s *Service) GetByID(ctx context.Context, id int64) (*models.ReservationResponse, error) {
	s.logger.Info("GetReservation: id=%d", id)

	reservation, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("GetReservation: reservation id=%d not found", id)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("GetReservation: repository error for reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	resp := models.FromDomainReservation(reservation)
	resp.Summary = s.summarize(ctx, reservation)

	return resp, nil
}

// List получает бронирования по фильтру офиса
func (s *Service) List(ctx context.Context, req *models.ListReservationsRequest) (*models.ReservationListResponse, error) {
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("ListReservations: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidStatus, err)
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		s.logger.Warn("ListReservations: invalid window %s..%s", filter.From, filter.To)
		return nil, fmt.Errorf("%w: 'to' is before 'from'", ErrInvalidInput)
	}

	reservations, err := s.reservationRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ListReservations: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListReservations: found %d reservations", len(reservations))
	return models.FromDomainReservationList(reservations), nil
}

// UpdateStatus меняет статус бронирования по таблице переходов.
// Чтение и запись идут в одной транзакции, строка бронирования блокируется.
func (s *Service) UpdateStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest) (*models.ReservationResponse, error) {
	s.logger.Info("UpdateReservationStatus: id=%d, status=%s", id, req.Status)

	next, err := domain.ParseReservationStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateReservationStatus: invalid status=%q", req.Status)
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, req.Status)
	}

	var updated *domain.Reservation
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		reservation, err := s.reservationRepo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				return ErrReservationNotFound
			}
			return fmt.Errorf("%w: UpdateStatus - get reservation: %v", ErrInternal, err)
		}

		if !reservation.Status.CanTransitionTo(next) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, reservation.Status, next)
		}

		if err := s.reservationRepo.UpdateStatus(txCtx, id, next); err != nil {
			return fmt.Errorf("%w: UpdateStatus - update status: %v", ErrInternal, err)
		}

		reservation.Status = next
		updated = reservation
		return nil
	})
	if err != nil {
		s.logStatusError("UpdateReservationStatus", id, err)
		return nil, err
	}

	s.logger.Info("UpdateReservationStatus: reservation id=%d is now %s", id, next)
	return models.FromDomainReservation(updated), nil
}

// ConfirmPayment переводит бронирование с указанной платежной сессией из pending в paid.
// Повторное подтверждение уже оплаченного бронирования ничего не меняет.
func (s *Service) ConfirmPayment(ctx context.Context, sessionID string) (*models.ReservationResponse, error) {
	s.logger.Info("ConfirmPayment: session=%s", sessionID)

	if sessionID == "" {
		return nil, fmt.Errorf("%w: sessionId is required", ErrInvalidInput)
	}

	var confirmed *domain.Reservation
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		reservation, err := s.reservationRepo.GetByPaymentSessionID(txCtx, sessionID)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				return ErrReservationNotFound
			}
			return fmt.Errorf("%w: ConfirmPayment - get reservation: %v", ErrInternal, err)
		}

		confirmed = reservation
		if reservation.Status == domain.StatusPaid {
			return nil
		}

		if !reservation.Status.CanTransitionTo(domain.StatusPaid) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, reservation.Status, domain.StatusPaid)
		}

		if err := s.reservationRepo.UpdateStatus(txCtx, reservation.ID, domain.StatusPaid); err != nil {
			return fmt.Errorf("%w: ConfirmPayment - update status: %v", ErrInternal, err)
		}
		reservation.Status = domain.StatusPaid
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInvalidTransition) && confirmed != nil {
			// Деньги получены, но бронирование уже не держит единицу
			s.logger.Error("ConfirmPayment: payment for session=%s arrived for reservation id=%d in status %s, manual refund required",
				sessionID, confirmed.ID, confirmed.Status)
			return nil, err
		}
		if errors.Is(err, ErrReservationNotFound) {
			s.logger.Warn("ConfirmPayment: no reservation for session=%s", sessionID)
			return nil, err
		}
		s.logger.Error("ConfirmPayment: session=%s: %v", sessionID, err)
		return nil, err
	}

	s.logger.Info("ConfirmPayment: reservation id=%d is paid", confirmed.ID)
	return models.FromDomainReservation(confirmed), nil
}

func (s *Service) logStatusError(op string, id int64, err error) {
	switch {
	case errors.Is(err, ErrReservationNotFound):
		s.logger.Warn("%s: reservation id=%d not found", op, id)
	case errors.Is(err, ErrInvalidTransition):
		s.logger.Warn("%s: reservation id=%d: %v", op, id, err)
	default:
		s.logger.Error("%s: reservation id=%d: %v", op, id, err)
	}
}

// summarize пересчитывает цену по каждой позиции
func (s *Service) summarize(ctx context.Context, r *domain.Reservation) *models.PriceSummary {
	summary := &models.PriceSummary{Recomputed: true}
	products := make(map[int64]*domain.Product)

	for _, item := range r.Items {
		stored := pricing.Quote{
			Days:                item.Days,
			RentalSubtotalCents: item.RentalSubtotalCents,
			DepositCents:        item.DepositCents,
			TotalCents:          item.RentalSubtotalCents + item.DepositCents,
		}

		quote := stored
		product, ok := products[item.ProductID]
		if !ok {
			p, err := s.productRepo.GetByID(ctx, item.ProductID)
			if err != nil && !errors.Is(err, productRepo.ErrProductNotFound) {
				s.logger.Error("GetReservation: failed to load product id=%d for reservation id=%d: %v",
					item.ProductID, r.ID, err)
			}
			product = p
			products[item.ProductID] = p
		}

		if product == nil {
			summary.Recomputed = false
		} else {
			recomputed, err := pricing.RecomputeOrStored(pricing.InputFromProduct(product, r.StartDate, r.EndDate), stored)
			if err != nil {
				s.logger.Error("GetReservation: cannot re-price item id=%d of reservation id=%d, using stored amounts: %v",
					item.ID, r.ID, err)
				summary.Recomputed = false
			}
			quote = recomputed
		}

		if quote.Days > summary.Days {
			summary.Days = quote.Days
		}
		summary.RentalSubtotalCents += quote.RentalSubtotalCents
		summary.DepositCents += quote.DepositCents
		summary.TotalCents += quote.TotalCents
	}

	summary.Total = money.FormatMajor(summary.TotalCents)
	return summary
}

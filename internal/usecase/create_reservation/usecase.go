package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	productRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/product"
	"github.com/m04kA/SMC-RentalService/internal/integrations/payment"
	"github.com/m04kA/SMC-RentalService/internal/service/availability"
	"github.com/m04kA/SMC-RentalService/internal/service/pricing"
	"github.com/m04kA/SMC-RentalService/pkg/txmanager"
)

// releaseTimeout ограничивает запись статуса failed после сбоя оплаты
const releaseTimeout = 5 * time.Second

// UseCase use case создания бронирования (публичный checkout и заказ из офиса)
type UseCase struct {
	productRepo     ProductRepository
	stockUnitRepo   StockUnitRepository
	reservationRepo ReservationRepository
	paymentClient   PaymentClient
	txManager       TransactionManager
	metrics         Metrics
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	productRepo ProductRepository,
	stockUnitRepo StockUnitRepository,
	reservationRepo ReservationRepository,
	paymentClient PaymentClient,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		productRepo:     productRepo,
		stockUnitRepo:   stockUnitRepo,
		reservationRepo: reservationRepo,
		paymentClient:   paymentClient,
		txManager:       txManager,
		metrics:         metrics,
		logger:          logger,
	}
}

// Execute выполняет use case создания бронирования.
//
// Выбор единицы и вставка бронирования идут в одной сериализуемой транзакции,
// строки единиц продукта блокируются (FOR UPDATE). Второй конкурентный запрос
// ждет снятия блокировки, после чего PostgreSQL прерывает его транзакцию
// с ошибкой сериализации, и он получает ErrConcurrentReservation.
//
// Для checkout после коммита создается платежная сессия. Если провайдер
// не ответил, бронирование переводится в failed и перестает блокировать единицу.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateReservation: channel=%s, product=%d, dates=%s..%s",
		req.Channel, req.ProductID, req.StartDate, req.EndDate)

	// 1. Валидация входных данных
	dates, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	var product *domain.Product
	var created *domain.Reservation

	// 2. Выбор единицы, расчет цены и вставка в одной транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Продукт
		p, err := uc.productRepo.GetByID(txCtx, req.ProductID)
		if err != nil {
			if errors.Is(err, productRepo.ErrProductNotFound) {
				uc.logger.Warn("CreateReservation: product id=%d not found", req.ProductID)
				return ErrProductNotFound
			}
			uc.logger.Error("CreateReservation: failed to get product id=%d: %v", req.ProductID, err)
			return fmt.Errorf("%w: failed to get product: %w", ErrInternal, err)
		}
		product = p

		if req.Channel == ChannelCheckout && !product.Active {
			uc.logger.Warn("CreateReservation: product id=%d is inactive", product.ID)
			return ErrProductInactive
		}

		// 2.2. Единицы инвентаря с блокировкой строк
		units, err := uc.stockUnitRepo.LockByProductID(txCtx, product.ID)
		if err != nil {
			uc.logger.Error("CreateReservation: failed to lock stock units of product id=%d: %v", product.ID, err)
			return fmt.Errorf("%w: failed to lock stock units: %w", ErrInternal, err)
		}

		unitIDs := make([]int64, 0, len(units))
		for _, unit := range units {
			unitIDs = append(unitIDs, unit.ID)
		}

		// 2.3. Блокирующие бронирования
		reservations, err := uc.reservationRepo.GetBlockingByStockUnitIDs(txCtx, unitIDs)
		if err != nil {
			uc.logger.Error("CreateReservation: failed to get reservations of product id=%d: %v", product.ID, err)
			return fmt.Errorf("%w: failed to get reservations: %w", ErrInternal, err)
		}

		// 2.4. Выбор первой свободной единицы
		result := availability.Resolve(units, reservations, dates, product.Buffers(nil))
		unitID, ok := result.FirstAvailable()
		if !ok {
			uc.logger.Warn("CreateReservation: no free unit for product id=%d on %s", product.ID, dates)
			return &UnavailableError{BlockedStart: result.BlockedStart, BlockedEnd: result.BlockedEnd}
		}

		// 2.5. Цена
		quote, err := pricing.Calculate(pricing.InputFromProduct(product, req.StartDate, req.EndDate))
		if err != nil {
			uc.logger.Warn("CreateReservation: product id=%d cannot be priced: %v", product.ID, err)
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if quote.TierFallback {
			uc.metrics.IncPricingFallback(quote.FallbackNote)
			uc.logger.Error("CreateReservation: product id=%d has malformed pricing tiers (%s), priced linearly",
				product.ID, quote.FallbackNote)
		}

		// 2.6. Бронирование с позицией
		reservation := &domain.Reservation{
			Status:              statusFor(req.Channel),
			StartDate:           req.StartDate,
			EndDate:             req.EndDate,
			CustomerName:        req.CustomerName,
			CustomerEmail:       req.CustomerEmail,
			CustomerPhone:       req.CustomerPhone,
			Notes:               req.Notes,
			CreatedBy:           req.CreatedBy,
			RentalSubtotalCents: quote.RentalSubtotalCents,
			DepositCents:        quote.DepositCents,
			TotalCents:          quote.TotalCents,
			Items: []domain.LineItem{{
				ProductID:           product.ID,
				StockUnitID:         unitID,
				DailyRateCents:      product.DailyRateCents,
				Days:                quote.Days,
				RentalSubtotalCents: quote.RentalSubtotalCents,
				DepositCents:        quote.DepositCents,
			}},
		}

		created, err = uc.reservationRepo.Create(txCtx, reservation)
		if err != nil {
			uc.logger.Error("CreateReservation: failed to create reservation: %v", err)
			return fmt.Errorf("%w: failed to create reservation: %w", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, txmanager.ErrSerialization) {
			uc.logger.Warn("CreateReservation: concurrent reservation for product id=%d: %v", req.ProductID, err)
			return nil, fmt.Errorf("%w: %v", ErrConcurrentReservation, err)
		}
		return nil, err
	}

	uc.metrics.IncReservationCreated(string(created.Status))
	uc.logger.Info("CreateReservation: created reservation id=%d, unit=%d, status=%s, total=%d",
		created.ID, created.Items[0].StockUnitID, created.Status, created.TotalCents)

	resp := toResponse(created)

	if req.Channel == ChannelOffice {
		return resp, nil
	}

	// 3. Платежная сессия (вне транзакции)
	session, err := uc.paymentClient.CreateCheckoutSession(ctx, &payment.CheckoutSessionRequest{
		ReservationID: created.ID,
		CustomerEmail: created.CustomerEmail,
		Description:   fmt.Sprintf("%s %s", product.Name, dates),
		AmountCents:   created.TotalCents,
	})
	if err != nil {
		uc.logger.Error("CreateReservation: payment session failed for reservation id=%d: %v", created.ID, err)
		uc.markFailed(ctx, created.ID)
		return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}

	if err := uc.reservationRepo.SetPaymentSession(ctx, created.ID, session.ID); err != nil {
		uc.logger.Error("CreateReservation: failed to store payment session %s for reservation id=%d: %v",
			session.ID, created.ID, err)
		uc.markFailed(ctx, created.ID)
		return nil, fmt.Errorf("%w: failed to store payment session: %v", ErrInternal, err)
	}

	resp.PaymentSessionID = &session.ID
	resp.RedirectURL = &session.URL

	uc.logger.Info("CreateReservation: reservation id=%d awaiting payment, session=%s", created.ID, session.ID)
	return resp, nil
}

// markFailed освобождает единицу, если оплату начать не удалось.
// Запись идет вне отмены запроса: клиент мог уже отключиться, а pending
// без платежной сессии блокировал бы единицу навсегда.
func (uc *UseCase) markFailed(ctx context.Context, reservationID int64) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()

	if err := uc.reservationRepo.UpdateStatus(ctx, reservationID, domain.StatusFailed); err != nil {
		uc.logger.Error("CreateReservation: failed to mark reservation id=%d as failed: %v", reservationID, err)
		return
	}
	uc.logger.Warn("CreateReservation: reservation id=%d marked as failed", reservationID)
}

func statusFor(channel Channel) domain.ReservationStatus {
	if channel == ChannelOffice {
		return domain.StatusManual
	}
	return domain.StatusPending
}

func toResponse(r *domain.Reservation) *Response {
	item := r.Items[0]
	return &Response{
		ReservationID:       r.ID,
		Status:              string(r.Status),
		ProductID:           item.ProductID,
		StockUnitID:         item.StockUnitID,
		StartDate:           r.StartDate,
		EndDate:             r.EndDate,
		Days:                item.Days,
		RentalSubtotalCents: r.RentalSubtotalCents,
		DepositCents:        r.DepositCents,
		TotalCents:          r.TotalCents,
		PaymentSessionID:    r.PaymentSessionID,
	}
}

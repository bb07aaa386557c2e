package check_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	productRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/product"
	"github.com/m04kA/SMC-RentalService/internal/service/availability"
)

// UseCase use case проверки доступности единиц инвентаря на диапазон дат.
// Только чтение: единица не резервируется и не блокируется.
type UseCase struct {
	productRepo     ProductRepository
	stockUnitRepo   StockUnitRepository
	reservationRepo ReservationRepository
	metrics         Metrics
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	productRepo ProductRepository,
	stockUnitRepo StockUnitRepository,
	reservationRepo ReservationRepository,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		productRepo:     productRepo,
		stockUnitRepo:   stockUnitRepo,
		reservationRepo: reservationRepo,
		metrics:         metrics,
		logger:          logger,
	}
}

// Execute выполняет проверку доступности
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CheckAvailability: product=%d, dates=%s..%s", req.ProductID, req.StartDate, req.EndDate)

	// 1. Валидация входных данных
	dates, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("CheckAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем продукт (буферы берутся из него)
	product, err := uc.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, productRepo.ErrProductNotFound) {
			uc.logger.Warn("CheckAvailability: product id=%d not found", req.ProductID)
			return nil, ErrProductNotFound
		}
		uc.logger.Error("CheckAvailability: failed to get product id=%d: %v", req.ProductID, err)
		return nil, fmt.Errorf("%w: failed to get product: %v", ErrInternal, err)
	}

	// 3. Единицы инвентаря продукта
	units, err := uc.stockUnitRepo.GetByProductID(ctx, product.ID)
	if err != nil {
		uc.logger.Error("CheckAvailability: failed to get stock units for product id=%d: %v", product.ID, err)
		return nil, fmt.Errorf("%w: failed to get stock units: %v", ErrInternal, err)
	}

	// 4. Блокирующие бронирования по этим единицам
	unitIDs := make([]int64, 0, len(units))
	for _, unit := range units {
		unitIDs = append(unitIDs, unit.ID)
	}

	reservations, err := uc.reservationRepo.GetBlockingByStockUnitIDs(ctx, unitIDs)
	if err != nil {
		uc.logger.Error("CheckAvailability: failed to get reservations for product id=%d: %v", product.ID, err)
		return nil, fmt.Errorf("%w: failed to get reservations: %v", ErrInternal, err)
	}

	// 5. Решение
	buffers := product.Buffers(req.BufferDays)
	result := availability.Resolve(units, reservations, dates, buffers)
	uc.metrics.IncAvailabilityCheck(result.Available)

	uc.logger.Info("CheckAvailability: product=%d, available=%t, free units=%v, buffers=%d/%d",
		product.ID, result.Available, result.AvailableStockUnitIDs, buffers.Before, buffers.After)

	return toResponse(result, units, buffers), nil
}

func toResponse(result availability.Result, units []*domain.StockUnit, buffers domain.Buffers) *Response {
	labels := make(map[int64]string, len(units))
	for _, unit := range units {
		labels[unit.ID] = unit.Label
	}

	resp := &Response{
		Available:             result.Available,
		AvailableStockUnitIDs: result.AvailableStockUnitIDs,
		BlockedStartDate:      result.BlockedStart,
		BlockedEndDate:        result.BlockedEnd,
		BufferBeforeDays:      buffers.Before,
		BufferAfterDays:       buffers.After,
		Units:                 make([]UnitStatus, 0, len(result.Units)),
	}

	for _, verdict := range result.Units {
		resp.Units = append(resp.Units, UnitStatus{
			StockUnitID:   verdict.UnitID,
			Label:         labels[verdict.UnitID],
			Available:     verdict.Available,
			Reason:        verdict.Reason,
			ReservationID: verdict.ReservationID,
		})
	}

	return resp
}

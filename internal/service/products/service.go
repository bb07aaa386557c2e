package products

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	productRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/product"
	stockUnitRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/stockunit"
	"github.com/m04kA/SMC-RentalService/internal/service/availability"
	"github.com/m04kA/SMC-RentalService/internal/service/products/models"
)

// Service сервис настройки продуктов и единиц инвентаря для офиса
type Service struct {
	productRepo     ProductRepository
	stockUnitRepo   StockUnitRepository
	reservationRepo ReservationRepository
	txManager       TransactionManager
	logger          Logger
}

// NewService создает новый экземпляр сервиса продуктов
func NewService(
	productRepo ProductRepository,
	stockUnitRepo StockUnitRepository,
	reservationRepo ReservationRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		productRepo:     productRepo,
		stockUnitRepo:   stockUnitRepo,
		reservationRepo: reservationRepo,
		txManager:       txManager,
		logger:          logger,
	}
}

// GetByID получает продукт с единицами инвентаря.
// Если задан период, каждой единице выставляется статус занятости.
func (s *Service) GetByID(ctx context.Context, id int64, window *models.AvailabilityWindow) (*models.ProductResponse, error) {
	s.logger.Info("GetProduct: id=%d", id)

	request, err := parseWindow(window)
	if err != nil {
		s.logger.Warn("GetProduct: invalid window: %v", err)
		return nil, err
	}

	var resp *models.ProductResponse
	err = s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		product, err := s.productRepo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, productRepo.ErrProductNotFound) {
				return ErrProductNotFound
			}
			return fmt.Errorf("%w: GetByID - get product: %v", ErrInternal, err)
		}

		list, err := s.withUnits(txCtx, []*domain.Product{product}, request, window)
		if err != nil {
			return err
		}
		resp = &list[0]
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			s.logger.Warn("GetProduct: product id=%d not found", id)
		} else {
			s.logger.Error("GetProduct: product id=%d: %v", id, err)
		}
		return nil, err
	}

	return resp, nil
}

// List получает продукты с единицами инвентаря (активные, если ActiveOnly)
func (s *Service) List(ctx context.Context, req *models.ListProductsRequest) (*models.ProductListResponse, error) {
	request, err := parseWindow(&req.AvailabilityWindow)
	if err != nil {
		s.logger.Warn("ListProducts: invalid window: %v", err)
		return nil, err
	}

	var resp *models.ProductListResponse
	err = s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		products, err := s.productRepo.List(txCtx, req.ActiveOnly)
		if err != nil {
			return fmt.Errorf("%w: List - list products: %v", ErrInternal, err)
		}

		list, err := s.withUnits(txCtx, products, request, &req.AvailabilityWindow)
		if err != nil {
			return err
		}
		resp = &models.ProductListResponse{Products: list}
		return nil
	})
	if err != nil {
		s.logger.Error("ListProducts: %v", err)
		return nil, err
	}

	s.logger.Info("ListProducts: found %d products, activeOnly=%t", len(resp.Products), req.ActiveOnly)
	return resp, nil
}

// UpdateSettings заменяет буферы, auto-increment и ценовые ступени продукта в одной транзакции
func (s *Service) UpdateSettings(ctx context.Context, id int64, req *models.UpdateSettingsRequest) (*models.ProductResponse, error) {
	s.logger.Info("UpdateProductSettings: id=%d, tiers=%d", id, len(req.PricingTiers))

	if err := validateSettings(req); err != nil {
		s.logger.Warn("UpdateProductSettings: product id=%d: %v", id, err)
		return nil, err
	}

	var product *domain.Product
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		p, err := s.productRepo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, productRepo.ErrProductNotFound) {
				return ErrProductNotFound
			}
			return fmt.Errorf("%w: UpdateSettings - get product: %v", ErrInternal, err)
		}

		p.BufferBeforeDays = req.BufferBeforeDays
		p.BufferAfterDays = req.BufferAfterDays
		p.AutoIncrementMultiplier = req.AutoIncrementMultiplier
		if err := s.productRepo.UpdateSettings(txCtx, p); err != nil {
			return fmt.Errorf("%w: UpdateSettings - update product: %v", ErrInternal, err)
		}

		tiers, err := s.productRepo.ReplaceTiers(txCtx, id, req.ToDomainTiers(id))
		if err != nil {
			return fmt.Errorf("%w: UpdateSettings - replace tiers: %v", ErrInternal, err)
		}
		p.PricingTiers = tiers

		product = p
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			s.logger.Warn("UpdateProductSettings: product id=%d not found", id)
		} else {
			s.logger.Error("UpdateProductSettings: product id=%d: %v", id, err)
		}
		return nil, err
	}

	s.logger.Info("UpdateProductSettings: product id=%d updated", id)
	return models.FromDomainProduct(product, nil, nil), nil
}

// SetUnitUnavailability задает или снимает окно недоступности единицы
func (s *Service) SetUnitUnavailability(ctx context.Context, unitID int64, req *models.SetUnavailabilityRequest) (*models.StockUnitResponse, error) {
	s.logger.Info("SetUnitUnavailability: unit=%d, from=%v, to=%v", unitID, req.From, req.To)

	if req.From != nil && req.To != nil && req.To.Before(*req.From) {
		s.logger.Warn("SetUnitUnavailability: unit=%d: 'to' %s is before 'from' %s", unitID, req.To, req.From)
		return nil, fmt.Errorf("%w: 'to' is before 'from'", ErrInvalidRange)
	}
	if req.Reason != nil && len(*req.Reason) > domain.MaxUnavailabilityNote {
		return nil, fmt.Errorf("%w: reason is longer than %d characters", ErrInvalidInput, domain.MaxUnavailabilityNote)
	}

	unit, err := s.stockUnitRepo.SetUnavailability(ctx, unitID, req.From, req.To, req.Reason)
	if err != nil {
		if errors.Is(err, stockUnitRepo.ErrStockUnitNotFound) {
			s.logger.Warn("SetUnitUnavailability: unit=%d not found", unitID)
			return nil, ErrStockUnitNotFound
		}
		s.logger.Error("SetUnitUnavailability: unit=%d: %v", unitID, err)
		return nil, fmt.Errorf("%w: SetUnitUnavailability - repository error: %v", ErrInternal, err)
	}

	if unit.HasUnavailability() {
		s.logger.Info("SetUnitUnavailability: unit=%d unavailable %v..%v", unitID, unit.UnavailableFrom, unit.UnavailableTo)
	} else {
		s.logger.Info("SetUnitUnavailability: unit=%d window cleared", unitID)
	}
	return models.FromDomainStockUnit(unit), nil
}

// withUnits загружает единицы и (при заданном периоде) блокирующие бронирования
func (s *Service) withUnits(
	ctx context.Context,
	products []*domain.Product,
	request *domain.DateRange,
	window *models.AvailabilityWindow,
) ([]models.ProductResponse, error) {
	productIDs := make([]int64, 0, len(products))
	for _, p := range products {
		productIDs = append(productIDs, p.ID)
	}

	units, err := s.stockUnitRepo.GetByProductIDs(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: get stock units: %v", ErrInternal, err)
	}

	unitsByProduct := make(map[int64][]*domain.StockUnit, len(products))
	unitIDs := make([]int64, 0, len(units))
	for _, u := range units {
		unitsByProduct[u.ProductID] = append(unitsByProduct[u.ProductID], u)
		unitIDs = append(unitIDs, u.ID)
	}

	var reservations []*domain.Reservation
	if request != nil && len(unitIDs) > 0 {
		reservations, err = s.reservationRepo.GetBlockingByStockUnitIDs(ctx, unitIDs)
		if err != nil {
			return nil, fmt.Errorf("%w: get reservations: %v", ErrInternal, err)
		}
	}

	out := make([]models.ProductResponse, 0, len(products))
	for _, p := range products {
		productUnits := unitsByProduct[p.ID]

		var verdicts []availability.UnitVerdict
		if request != nil {
			result := availability.Resolve(productUnits, reservations, *request, p.Buffers(window.BufferDays))
			verdicts = result.Units
		}

		out = append(out, *models.FromDomainProduct(p, productUnits, verdicts))
	}

	return out, nil
}

// parseWindow возвращает nil, если период не задан
func parseWindow(window *models.AvailabilityWindow) (*domain.DateRange, error) {
	if !window.IsSet() {
		return nil, nil
	}
	if window.StartDate == nil || window.EndDate == nil {
		return nil, fmt.Errorf("%w: both startDate and endDate are required", ErrInvalidInput)
	}

	request, err := domain.NewDateRange(*window.StartDate, *window.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRange, err)
	}
	return &request, nil
}

func validateSettings(req *models.UpdateSettingsRequest) error {
	for name, buffer := range map[string]*int{
		"bufferBeforeDays": req.BufferBeforeDays,
		"bufferAfterDays":  req.BufferAfterDays,
	} {
		if buffer != nil && (*buffer < 0 || *buffer > domain.MaxBufferDays) {
			return fmt.Errorf("%w: %s must be between 0 and %d", ErrInvalidInput, name, domain.MaxBufferDays)
		}
	}

	if m := req.AutoIncrementMultiplier; m != nil && !isStorableMultiplier(*m) {
		return fmt.Errorf("%w: autoIncrementMultiplier must be between 0 and %v", ErrInvalidInput, domain.MaxMultiplier)
	}

	if len(req.PricingTiers) > domain.MaxPricingTiers {
		return fmt.Errorf("%w: at most %d pricing tiers allowed", ErrInvalidInput, domain.MaxPricingTiers)
	}

	seen := make(map[int]bool, len(req.PricingTiers))
	for i, tier := range req.PricingTiers {
		if tier.Days < 1 || tier.Days > domain.MaxTierDays {
			return fmt.Errorf("%w: tier %d: days must be between 1 and %d", ErrInvalidInput, i, domain.MaxTierDays)
		}
		if seen[tier.Days] {
			return fmt.Errorf("%w: tier %d: duplicate days=%d", ErrInvalidInput, i, tier.Days)
		}
		seen[tier.Days] = true

		if !isStorableMultiplier(tier.Multiplier) {
			return fmt.Errorf("%w: tier %d: multiplier must be between 0 and %v", ErrInvalidInput, i, domain.MaxMultiplier)
		}
	}

	return nil
}

func isStorableMultiplier(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0 && v <= domain.MaxMultiplier
}

package calculate_price

import (
	"context"
	"errors"
	"fmt"

	productRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/product"
	"github.com/m04kA/SMC-RentalService/internal/service/pricing"
	"github.com/m04kA/SMC-RentalService/pkg/ptr"
)

// UseCase use case расчета стоимости аренды продукта на диапазон дат
type UseCase struct {
	productRepo ProductRepository
	metrics     Metrics
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(productRepo ProductRepository, metrics Metrics, logger Logger) *UseCase {
	return &UseCase{
		productRepo: productRepo,
		metrics:     metrics,
		logger:      logger,
	}
}

// Execute считает цену по ставке, залогу и ценовым ступеням продукта
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CalculatePrice: product=%d, dates=%s..%s", req.ProductID, req.StartDate, req.EndDate)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CalculatePrice: validation failed: %v", err)
		return nil, err
	}

	product, err := uc.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, productRepo.ErrProductNotFound) {
			uc.logger.Warn("CalculatePrice: product id=%d not found", req.ProductID)
			return nil, ErrProductNotFound
		}
		uc.logger.Error("CalculatePrice: failed to get product id=%d: %v", req.ProductID, err)
		return nil, fmt.Errorf("%w: failed to get product: %v", ErrInternal, err)
	}

	quote, err := pricing.Calculate(pricing.InputFromProduct(product, req.StartDate, req.EndDate))
	if err != nil {
		uc.logger.Warn("CalculatePrice: product id=%d cannot be priced: %v", product.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if quote.TierFallback {
		uc.metrics.IncPricingFallback(quote.FallbackNote)
		uc.logger.Error("CalculatePrice: product id=%d has malformed pricing tiers (%s), priced linearly",
			product.ID, quote.FallbackNote)
	}

	uc.logger.Info("CalculatePrice: product=%d, days=%d, subtotal=%d, deposit=%d, total=%d",
		product.ID, quote.Days, quote.RentalSubtotalCents, quote.DepositCents, quote.TotalCents)

	resp := &Response{
		ProductID:           product.ID,
		Days:                quote.Days,
		DailyRateCents:      product.DailyRateCents,
		RentalSubtotalCents: quote.RentalSubtotalCents,
		DepositCents:        quote.DepositCents,
		TotalCents:          quote.TotalCents,
		BeyondTiers:         quote.BeyondTiers,
		TierFallback:        quote.TierFallback,
	}
	if quote.AppliedTier != nil {
		resp.AppliedTierDays = ptr.Ptr(quote.AppliedTier.Days)
		resp.AppliedTierLabel = ptr.Ptr(quote.AppliedTier.Label)
	}

	return resp, nil
}

package list_products

import (
	"context"

	"github.com/m04kA/SMC-RentalService/internal/service/products/models"
)

type ProductService interface {
	List(ctx context.Context, req *models.ListProductsRequest) (*models.ProductListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

package product

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RentalService/pkg/money"
	"github.com/m04kA/SMC-RentalService/pkg/psqlbuilder"
)

var productColumns = []string{
	"id",
	"name",
	"daily_rate",
	"deposit",
	"buffer_before_days",
	"buffer_after_days",
	"auto_increment_multiplier",
	"active",
	"created_at",
	"updated_at",
}

// Repository репозиторий продуктов и их ценовых ступеней
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория продуктов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает продукт по ID вместе с ценовыми ступенями
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(productColumns...).
		From("products").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	product, err := scanProduct(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan product: %w", ErrScanRow, err)
	}

	tiers, err := r.getTiers(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	if productTiers, ok := tiers[id]; ok {
		product.PricingTiers = productTiers
	}

	return product, nil
}

// List получает список продуктов с ценовыми ступенями, отсортированный по ID
func (r *Repository) List(ctx context.Context, activeOnly bool) ([]*domain.Product, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(productColumns...).
		From("products").
		OrderBy("id ASC")

	if activeOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"active": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	products := make([]*domain.Product, 0)
	ids := make([]int64, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %w", ErrScanRow, err)
		}
		products = append(products, product)
		ids = append(ids, product.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %w", ErrScanRow, err)
	}

	if len(ids) == 0 {
		return products, nil
	}

	tiers, err := r.getTiers(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, product := range products {
		if productTiers, ok := tiers[product.ID]; ok {
			product.PricingTiers = productTiers
		}
	}

	return products, nil
}

// UpdateSettings обновляет буферы и auto-increment продукта.
// В транзакции строка продукта остается заблокированной до коммита.
func (r *Repository) UpdateSettings(ctx context.Context, product *domain.Product) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("products").
		Set("buffer_before_days", product.BufferBeforeDays).
		Set("buffer_after_days", product.BufferAfterDays).
		Set("auto_increment_multiplier", product.AutoIncrementMultiplier).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": product.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateSettings - build update query: %v", ErrBuildQuery, err)
	}

	var updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&updatedAt)
	if err == sql.ErrNoRows {
		return ErrProductNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: UpdateSettings - execute update: %w", ErrExecQuery, err)
	}

	product.UpdatedAt = updatedAt.Time
	return nil
}

// ReplaceTiers заменяет ценовые ступени продукта.
// Удаление и вставка должны выполняться в одной транзакции (см. txmanager).
func (r *Repository) ReplaceTiers(ctx context.Context, productID int64, tiers []domain.PricingTier) ([]domain.PricingTier, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("pricing_tiers").
		Where(squirrel.Eq{"product_id": productID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ReplaceTiers - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: ReplaceTiers - execute delete: %w", ErrExecQuery, err)
	}

	if len(tiers) == 0 {
		return []domain.PricingTier{}, nil
	}

	insertBuilder := psqlbuilder.Insert("pricing_tiers").
		Columns("product_id", "days", "multiplier", "label")
	for _, tier := range tiers {
		insertBuilder = insertBuilder.Values(productID, tier.Days, decimal.NewFromFloat(tier.Multiplier), tier.Label)
	}

	query, args, err = insertBuilder.
		Suffix("RETURNING id, product_id, days, multiplier, label").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ReplaceTiers - build insert query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ReplaceTiers - execute insert: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	saved := make([]domain.PricingTier, 0, len(tiers))
	for rows.Next() {
		var tier domain.PricingTier
		if err := rows.Scan(&tier.ID, &tier.ProductID, &tier.Days, &tier.Multiplier, &tier.Label); err != nil {
			return nil, fmt.Errorf("%w: ReplaceTiers - scan tier: %w", ErrScanRow, err)
		}
		saved = append(saved, tier)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ReplaceTiers - rows error: %w", ErrScanRow, err)
	}

	return saved, nil
}

// getTiers загружает ступени для набора продуктов, отсортированные по дням
func (r *Repository) getTiers(ctx context.Context, productIDs []int64) (map[int64][]domain.PricingTier, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "product_id", "days", "multiplier", "label").
		From("pricing_tiers").
		Where(squirrel.Eq{"product_id": productIDs}).
		OrderBy("product_id ASC", "days ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getTiers - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getTiers - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make(map[int64][]domain.PricingTier, len(productIDs))
	for rows.Next() {
		var tier domain.PricingTier
		if err := rows.Scan(&tier.ID, &tier.ProductID, &tier.Days, &tier.Multiplier, &tier.Label); err != nil {
			return nil, fmt.Errorf("%w: getTiers - scan tier: %w", ErrScanRow, err)
		}
		result[tier.ProductID] = append(result[tier.ProductID], tier)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getTiers - rows error: %w", ErrScanRow, err)
	}

	return result, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var product domain.Product
	var dailyRate, deposit decimal.Decimal
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&product.ID,
		&product.Name,
		&dailyRate,
		&deposit,
		&product.BufferBeforeDays,
		&product.BufferAfterDays,
		&product.AutoIncrementMultiplier,
		&product.Active,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	product.DailyRateCents = money.ToMinor(dailyRate)
	product.DepositCents = money.ToMinor(deposit)
	product.CreatedAt = createdAt.Time
	product.UpdatedAt = updatedAt.Time
	product.PricingTiers = []domain.PricingTier{}

	return &product, nil
}

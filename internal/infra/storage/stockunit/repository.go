package stockunit

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RentalService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-RentalService/pkg/types"
)

var unitColumns = []string{
	"id",
	"product_id",
	"label",
	"unavailable_from",
	"unavailable_to",
	"unavailable_reason",
	"created_at",
	"updated_at",
}

// Repository репозиторий единиц инвентаря
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория единиц инвентаря
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает единицу инвентаря по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.StockUnit, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(unitColumns...).
		From("stock_units").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	unit, err := scanUnit(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrStockUnitNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan stock unit: %w", ErrScanRow, err)
	}

	return unit, nil
}

// GetByProductIDs получает единицы инвентаря для набора продуктов, отсортированные по ID
func (r *Repository) GetByProductIDs(ctx context.Context, productIDs []int64) ([]*domain.StockUnit, error) {
	if len(productIDs) == 0 {
		return []*domain.StockUnit{}, nil
	}

	query, args, err := psqlbuilder.Select(unitColumns...).
		From("stock_units").
		Where(squirrel.Eq{"product_id": productIDs}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProductIDs - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, "GetByProductIDs", query, args)
}

// GetByProductID получает все единицы инвентаря продукта, отсортированные по ID
func (r *Repository) GetByProductID(ctx context.Context, productID int64) ([]*domain.StockUnit, error) {
	return r.GetByProductIDs(ctx, []int64{productID})
}

// LockByProductID получает единицы инвентаря продукта с блокировкой строк (FOR UPDATE).
// Вызывается только внутри транзакции: конкурентное создание бронирования на тот же
// продукт ждет коммита первой транзакции. Под SERIALIZABLE снимок второй уже
// зафиксирован, поэтому PostgreSQL прерывает её ошибкой сериализации (40001).
func (r *Repository) LockByProductID(ctx context.Context, productID int64) ([]*domain.StockUnit, error) {
	if !dbmetrics.IsInTransaction(ctx) {
		return nil, fmt.Errorf("%w: LockByProductID - called outside of transaction", ErrExecQuery)
	}

	query, args, err := psqlbuilder.Select(unitColumns...).
		From("stock_units").
		Where(squirrel.Eq{"product_id": productID}).
		OrderBy("id ASC").
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: LockByProductID - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, "LockByProductID", query, args)
}

// SetUnavailability задает окно недоступности единицы.
// from == nil и to == nil снимают окно (причина тоже очищается).
func (r *Repository) SetUnavailability(ctx context.Context, id int64, from, to *types.Date, reason *string) (*domain.StockUnit, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if from == nil && to == nil {
		reason = nil
	}

	query, args, err := psqlbuilder.Update("stock_units").
		Set("unavailable_from", from).
		Set("unavailable_to", to).
		Set("unavailable_reason", reason).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(unitColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: SetUnavailability - build update query: %v", ErrBuildQuery, err)
	}

	unit, err := scanUnit(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrStockUnitNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: SetUnavailability - execute update: %w", ErrExecQuery, err)
	}

	return unit, nil
}

func (r *Repository) query(ctx context.Context, op, query string, args []interface{}) ([]*domain.StockUnit, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	units := make([]*domain.StockUnit, 0)
	for rows.Next() {
		unit, err := scanUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %w", ErrScanRow, op, err)
		}
		units = append(units, unit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %w", ErrScanRow, op, err)
	}

	return units, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUnit(row rowScanner) (*domain.StockUnit, error) {
	var unit domain.StockUnit
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&unit.ID,
		&unit.ProductID,
		&unit.Label,
		&unit.UnavailableFrom,
		&unit.UnavailableTo,
		&unit.UnavailableReason,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	unit.CreatedAt = createdAt.Time
	unit.UpdatedAt = updatedAt.Time
	return &unit, nil
}

package reservation

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RentalService/pkg/money"
	"github.com/m04kA/SMC-RentalService/pkg/psqlbuilder"
)

const defaultListLimit = 100

var reservationColumns = []string{
	"id",
	"status",
	"start_date",
	"end_date",
	"customer_name",
	"customer_email",
	"customer_phone",
	"notes",
	"created_by",
	"rental_subtotal",
	"deposit",
	"total",
	"payment_session_id",
	"created_at",
	"updated_at",
}

// Repository репозиторий бронирований и их позиций
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет бронирование и его позиции.
// Если в контексте есть транзакция, обе вставки выполняются в ней.
func (r *Repository) Create(ctx context.Context, reservation *domain.Reservation) (*domain.Reservation, error) {
	if len(reservation.Items) == 0 {
		return nil, ErrNoItems
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("reservations").
		Columns(
			"status",
			"start_date",
			"end_date",
			"customer_name",
			"customer_email",
			"customer_phone",
			"notes",
			"created_by",
			"rental_subtotal",
			"deposit",
			"total",
			"payment_session_id",
		).
		Values(
			reservation.Status,
			reservation.StartDate,
			reservation.EndDate,
			reservation.CustomerName,
			reservation.CustomerEmail,
			reservation.CustomerPhone,
			reservation.Notes,
			reservation.CreatedBy,
			money.FromMinor(reservation.RentalSubtotalCents),
			money.FromMinor(reservation.DepositCents),
			money.FromMinor(reservation.TotalCents),
			reservation.PaymentSessionID,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&reservation.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}
	reservation.CreatedAt = createdAt.Time
	reservation.UpdatedAt = updatedAt.Time

	itemsBuilder := psqlbuilder.Insert("reservation_items").
		Columns(
			"reservation_id",
			"product_id",
			"stock_unit_id",
			"daily_rate",
			"days",
			"rental_subtotal",
			"deposit",
		)
	for _, item := range reservation.Items {
		itemsBuilder = itemsBuilder.Values(
			reservation.ID,
			item.ProductID,
			item.StockUnitID,
			money.FromMinor(item.DailyRateCents),
			item.Days,
			money.FromMinor(item.RentalSubtotalCents),
			money.FromMinor(item.DepositCents),
		)
	}

	query, args, err = itemsBuilder.Suffix("RETURNING id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build items insert query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute items insert: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	for i := 0; rows.Next(); i++ {
		if i >= len(reservation.Items) {
			break
		}
		if err := rows.Scan(&reservation.Items[i].ID); err != nil {
			return nil, fmt.Errorf("%w: Create - scan item id: %w", ErrScanRow, err)
		}
		reservation.Items[i].ReservationID = reservation.ID
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: Create - items rows error: %w", ErrScanRow, err)
	}

	return reservation, nil
}

// GetByID получает бронирование с позициями.
// Внутри транзакции строка блокируется (FOR UPDATE) для смены статуса.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"id": id})
}

// GetByPaymentSessionID получает бронирование по идентификатору платежной сессии.
// Внутри транзакции строка блокируется (FOR UPDATE).
func (r *Repository) GetByPaymentSessionID(ctx context.Context, sessionID string) (*domain.Reservation, error) {
	return r.getOne(ctx, "GetByPaymentSessionID", squirrel.Eq{"payment_session_id": sessionID})
}

// GetBlockingByStockUnitIDs получает блокирующие бронирования (pending, paid, manual, completed),
// которые ссылаются на любую из указанных единиц. Сортировка: start_date, id.
func (r *Repository) GetBlockingByStockUnitIDs(ctx context.Context, stockUnitIDs []int64) ([]*domain.Reservation, error) {
	if len(stockUnitIDs) == 0 {
		return []*domain.Reservation{}, nil
	}

	query, args, err := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"status": domain.BlockingStatuses}).
		Where(squirrel.Expr(
			"EXISTS (SELECT 1 FROM reservation_items i WHERE i.reservation_id = reservations.id AND i.stock_unit_id = ANY(?))",
			pq.Array(stockUnitIDs),
		)).
		OrderBy("start_date ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetBlockingByStockUnitIDs - build select query: %v", ErrBuildQuery, err)
	}

	return r.queryWithItems(ctx, "GetBlockingByStockUnitIDs", query, args)
}

// List получает бронирования для офиса с фильтрацией.
// Фильтр по датам выбирает бронирования, пересекающиеся с окном [From, To].
func (r *Repository) List(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error) {
	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		OrderBy("start_date DESC", "id DESC")

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.ProductID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Expr(
			"EXISTS (SELECT 1 FROM reservation_items i WHERE i.reservation_id = reservations.id AND i.product_id = ?)",
			*filter.ProductID,
		))
	}
	if filter.StockUnitID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Expr(
			"EXISTS (SELECT 1 FROM reservation_items i WHERE i.reservation_id = reservations.id AND i.stock_unit_id = ?)",
			*filter.StockUnitID,
		))
	}
	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"end_date": *filter.From})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"start_date": *filter.To})
	}

	limit := filter.Limit
	if limit == 0 {
		limit = defaultListLimit
	}
	selectBuilder = selectBuilder.Limit(limit).Offset(filter.Offset)

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	return r.queryWithItems(ctx, "List", query, args)
}

// UpdateStatus обновляет статус бронирования
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execSingle(ctx, executor, "UpdateStatus", query, args)
}

// SetPaymentSession сохраняет идентификатор платежной сессии
func (r *Repository) SetPaymentSession(ctx context.Context, id int64, sessionID string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("payment_session_id", sessionID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetPaymentSession - build update query: %v", ErrBuildQuery, err)
	}

	return r.execSingle(ctx, executor, "SetPaymentSession", query, args)
}

func (r *Repository) execSingle(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrReservationNotFound
	}

	return nil
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Eq) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(where)

	// Если используется транзакция, добавляем FOR UPDATE для блокировки
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	reservation, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan reservation: %w", ErrScanRow, op, err)
	}

	items, err := r.getItems(ctx, []int64{reservation.ID})
	if err != nil {
		return nil, err
	}
	reservation.Items = items[reservation.ID]

	return reservation, nil
}

func (r *Repository) queryWithItems(ctx context.Context, op, query string, args []interface{}) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	reservations := make([]*domain.Reservation, 0)
	ids := make([]int64, 0)
	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %w", ErrScanRow, op, err)
		}
		reservations = append(reservations, reservation)
		ids = append(ids, reservation.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %w", ErrScanRow, op, err)
	}

	if len(ids) == 0 {
		return reservations, nil
	}

	items, err := r.getItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, reservation := range reservations {
		reservation.Items = items[reservation.ID]
	}

	return reservations, nil
}

// getItems загружает позиции для набора бронирований
func (r *Repository) getItems(ctx context.Context, reservationIDs []int64) (map[int64][]domain.LineItem, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"reservation_id",
		"product_id",
		"stock_unit_id",
		"daily_rate",
		"days",
		"rental_subtotal",
		"deposit",
	).
		From("reservation_items").
		Where(squirrel.Eq{"reservation_id": reservationIDs}).
		OrderBy("reservation_id ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getItems - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getItems - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make(map[int64][]domain.LineItem, len(reservationIDs))
	for rows.Next() {
		var item domain.LineItem
		var dailyRate, subtotal, deposit decimal.Decimal

		err := rows.Scan(
			&item.ID,
			&item.ReservationID,
			&item.ProductID,
			&item.StockUnitID,
			&dailyRate,
			&item.Days,
			&subtotal,
			&deposit,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: getItems - scan item: %w", ErrScanRow, err)
		}

		item.DailyRateCents = money.ToMinor(dailyRate)
		item.RentalSubtotalCents = money.ToMinor(subtotal)
		item.DepositCents = money.ToMinor(deposit)
		result[item.ReservationID] = append(result[item.ReservationID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getItems - rows error: %w", ErrScanRow, err)
	}

	return result, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var reservation domain.Reservation
	var subtotal, deposit, total decimal.Decimal
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&reservation.ID,
		&reservation.Status,
		&reservation.StartDate,
		&reservation.EndDate,
		&reservation.CustomerName,
		&reservation.CustomerEmail,
		&reservation.CustomerPhone,
		&reservation.Notes,
		&reservation.CreatedBy,
		&subtotal,
		&deposit,
		&total,
		&reservation.PaymentSessionID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	reservation.RentalSubtotalCents = money.ToMinor(subtotal)
	reservation.DepositCents = money.ToMinor(deposit)
	reservation.TotalCents = money.ToMinor(total)
	reservation.CreatedAt = createdAt.Time
	reservation.UpdatedAt = updatedAt.Time

	return &reservation, nil
}

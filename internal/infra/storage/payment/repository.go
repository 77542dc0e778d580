package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/m04kA/SMC-TutoringService/internal/domain"
	"github.com/m04kA/SMC-TutoringService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TutoringService/pkg/psqlbuilder"
)

const pgUniqueViolation = "23505"

var attemptColumns = []string{
	"id",
	"booking_id",
	"external_order_id",
	"external_payment_id",
	"signature",
	"status",
	"created_at",
	"updated_at",
}

// Repository репозиторий попыток оплаты
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория попыток оплаты
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает попытку оплаты для бронирования
// На бронирование допускается одна попытка (уникальный индекс booking_id)
func (r *Repository) Create(ctx context.Context, attempt *domain.PaymentAttempt) (*domain.PaymentAttempt, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("payment_attempts").
		Columns("booking_id", "status").
		Values(attempt.BookingID, attempt.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&attempt.ID, &createdAt, &updatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			return nil, ErrAttemptExists
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	attempt.CreatedAt = createdAt.Time
	attempt.UpdatedAt = updatedAt.Time

	return attempt, nil
}

// GetByBookingID получает попытку оплаты бронирования
func (r *Repository) GetByBookingID(ctx context.Context, bookingID int64) (*domain.PaymentAttempt, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(attemptColumns...).
		From("payment_attempts").
		Where(squirrel.Eq{"booking_id": bookingID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByBookingID - build select query: %v", ErrBuildQuery, err)
	}

	var attempt domain.PaymentAttempt
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&attempt.ID,
		&attempt.BookingID,
		&attempt.ExternalOrderID,
		&attempt.ExternalPaymentID,
		&attempt.Signature,
		&attempt.Status,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrAttemptNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBookingID - scan attempt: %v", ErrScanRow, err)
	}

	attempt.CreatedAt = createdAt.Time
	attempt.UpdatedAt = updatedAt.Time

	return &attempt, nil
}

// SetOrder сохраняет идентификатор заказа внешнего шлюза
// и переводит попытку в awaiting_confirmation
func (r *Repository) SetOrder(ctx context.Context, id int64, externalOrderID string) error {
	return r.update(ctx, "SetOrder", psqlbuilder.Update("payment_attempts").
		Set("external_order_id", externalOrderID).
		Set("status", domain.PaymentAwaitingConfirmation).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}))
}

// UpdateStatus обновляет статус попытки оплаты
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.PaymentStatus) error {
	return r.update(ctx, "UpdateStatus", psqlbuilder.Update("payment_attempts").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}))
}

// MarkSucceeded фиксирует успешную верификацию платежа
func (r *Repository) MarkSucceeded(ctx context.Context, id int64, externalPaymentID, signature string) error {
	return r.update(ctx, "MarkSucceeded", psqlbuilder.Update("payment_attempts").
		Set("external_payment_id", externalPaymentID).
		Set("signature", signature).
		Set("status", domain.PaymentSucceeded).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}))
}

func (r *Repository) update(ctx context.Context, op string, builder squirrel.UpdateBuilder) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrAttemptNotFound
	}

	return nil
}

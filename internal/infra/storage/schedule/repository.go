package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/m04kA/SMC-TutoringService/internal/domain"
	"github.com/m04kA/SMC-TutoringService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TutoringService/pkg/psqlbuilder"
)

// pgUniqueViolation код ошибки unique_violation в PostgreSQL
const pgUniqueViolation = "23505"

// Repository репозиторий расписаний и блокировок дат
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetWeeklySchedule получает недельное расписание тьютора
// Интервалы внутри дня возвращаются отсортированными по времени начала
func (r *Repository) GetWeeklySchedule(ctx context.Context, tutorID int64) (domain.WeeklySchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("day_of_week", "start_time", "end_time").
		From("weekly_slots").
		Where(squirrel.Eq{"tutor_id": tutorID}).
		OrderBy("day_of_week ASC, start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetWeeklySchedule - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWeeklySchedule - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	schedule := make(domain.WeeklySchedule)
	for rows.Next() {
		var day int
		var rng domain.TimeRange
		if err := rows.Scan(&day, &rng.StartTime, &rng.EndTime); err != nil {
			return nil, fmt.Errorf("%w: GetWeeklySchedule - scan row: %v", ErrScanRow, err)
		}
		weekday := time.Weekday(day)
		schedule[weekday] = append(schedule[weekday], rng)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetWeeklySchedule - rows error: %v", ErrScanRow, err)
	}

	return schedule, nil
}

// ReplaceWeeklySchedule полностью заменяет недельное расписание тьютора
// Вызывается внутри транзакции (см. service/schedule), чтобы читатели
// не увидели наполовину обновленное расписание
func (r *Repository) ReplaceWeeklySchedule(ctx context.Context, tutorID int64, schedule domain.WeeklySchedule) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("weekly_slots").
		Where(squirrel.Eq{"tutor_id": tutorID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceWeeklySchedule - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceWeeklySchedule - execute delete: %v", ErrExecQuery, err)
	}

	insertBuilder := psqlbuilder.Insert("weekly_slots").
		Columns("tutor_id", "day_of_week", "start_time", "end_time")

	empty := true
	for day, ranges := range schedule {
		for _, rng := range ranges {
			insertBuilder = insertBuilder.Values(tutorID, int(day), rng.StartTime, rng.EndTime)
			empty = false
		}
	}

	if empty {
		return nil
	}

	query, args, err = insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceWeeklySchedule - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceWeeklySchedule - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetBlockedDates получает блокировки тьютора в периоде [from, to)
func (r *Repository) GetBlockedDates(ctx context.Context, tutorID int64, from, to time.Time) ([]*domain.BlockedDate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "tutor_id", "date", "reason", "created_at").
		From("blocked_dates").
		Where(squirrel.Eq{"tutor_id": tutorID}).
		Where(squirrel.GtOrEq{"date": from}).
		Where(squirrel.Lt{"date": to}).
		OrderBy("date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBlockedDates - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetBlockedDates - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	blocked := make([]*domain.BlockedDate, 0)
	for rows.Next() {
		var bd domain.BlockedDate
		var createdAt sql.NullTime
		if err := rows.Scan(&bd.ID, &bd.TutorID, &bd.Date, &bd.Reason, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: GetBlockedDates - scan row: %v", ErrScanRow, err)
		}
		bd.CreatedAt = createdAt.Time
		blocked = append(blocked, &bd)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetBlockedDates - rows error: %v", ErrScanRow, err)
	}

	return blocked, nil
}

// AddBlockedDate добавляет блокировку даты
// Повторная блокировка той же даты возвращает ErrDateAlreadyBlocked
// (уникальный индекс tutor_id+date)
func (r *Repository) AddBlockedDate(ctx context.Context, blocked *domain.BlockedDate) (*domain.BlockedDate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("blocked_dates").
		Columns("tutor_id", "date", "reason").
		Values(blocked.TutorID, blocked.Date, blocked.Reason).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: AddBlockedDate - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&blocked.ID, &createdAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			return nil, ErrDateAlreadyBlocked
		}
		return nil, fmt.Errorf("%w: AddBlockedDate - execute insert: %v", ErrExecQuery, err)
	}

	blocked.CreatedAt = createdAt.Time
	return blocked, nil
}

// RemoveBlockedDate удаляет блокировку даты
func (r *Repository) RemoveBlockedDate(ctx context.Context, tutorID int64, date time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("blocked_dates").
		Where(squirrel.Eq{"tutor_id": tutorID, "date": date}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: RemoveBlockedDate - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: RemoveBlockedDate - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: RemoveBlockedDate - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBlockedDateNotFound
	}

	return nil
}

// GetSlotDuration получает длительность слота тьютора
func (r *Repository) GetSlotDuration(ctx context.Context, tutorID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("slot_duration_minutes").
		From("tutor_availability").
		Where(squirrel.Eq{"tutor_id": tutorID}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: GetSlotDuration - build select query: %v", ErrBuildQuery, err)
	}

	var duration int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&duration)
	if err == sql.ErrNoRows {
		return 0, ErrAvailabilityNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("%w: GetSlotDuration - scan row: %v", ErrScanRow, err)
	}

	return duration, nil
}

// UpsertSlotDuration сохраняет длительность слота тьютора
func (r *Repository) UpsertSlotDuration(ctx context.Context, tutorID int64, minutes int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("tutor_availability").
		Columns("tutor_id", "slot_duration_minutes").
		Values(tutorID, minutes).
		Suffix("ON CONFLICT (tutor_id) DO UPDATE SET slot_duration_minutes = EXCLUDED.slot_duration_minutes, updated_at = NOW()").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpsertSlotDuration - build upsert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: UpsertSlotDuration - execute upsert: %v", ErrExecQuery, err)
	}

	return nil
}

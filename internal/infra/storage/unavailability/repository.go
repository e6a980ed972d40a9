package unavailability

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-CarWashService/internal/domain"
	"github.com/m04kA/SMC-CarWashService/pkg/dbmetrics"
	"github.com/m04kA/SMC-CarWashService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-CarWashService/pkg/types"
)

type DBExecutor = dbmetrics.DBExecutor

type rowScanner interface {
	Scan(dest ...interface{}) error
}

var columns = []string{
	"id",
	"date",
	"type",
	"time_slots",
	"unavailable_count",
	"reason",
	"created_at",
	"updated_at",
}

// Repository репозиторий записей о недоступности персонала
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новую запись
func (r *Repository) Create(ctx context.Context, u *domain.StaffUnavailability) (*domain.StaffUnavailability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("staff_unavailability").
		Columns("date", "type", "time_slots", "unavailable_count", "reason").
		Values(domain.DateOnly(u.Date), u.Type, pq.Array(slotStrings(u.TimeSlots)), u.UnavailableCount, u.Reason).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&u.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}
	u.CreatedAt = createdAt.Time
	u.UpdatedAt = updatedAt.Time

	return u, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.StaffUnavailability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("staff_unavailability").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	u, err := scanEntry(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan entry: %v", ErrScanRow, err)
	}
	return u, nil
}

// GetByDate получает все записи на дату
func (r *Repository) GetByDate(ctx context.Context, date time.Time) ([]*domain.StaffUnavailability, error) {
	return r.query(ctx, "GetByDate", squirrel.Eq{"date": domain.DateOnly(date)})
}

// List получает записи в диапазоне дат (границы включительно, любая может быть nil)
func (r *Repository) List(ctx context.Context, start, end *time.Time) ([]*domain.StaffUnavailability, error) {
	return r.query(ctx, "List", dateRange(start, end))
}

// HasFullDay проверяет, есть ли на дату запись full_day (кроме excludeID)
func (r *Repository) HasFullDay(ctx context.Context, date time.Time, excludeID *int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select("COUNT(*)").
		From("staff_unavailability").
		Where(squirrel.Eq{"date": domain.DateOnly(date), "type": string(domain.UnavailabilityFullDay)})
	if excludeID != nil {
		builder = builder.Where(squirrel.NotEq{"id": *excludeID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: HasFullDay - build count query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("%w: HasFullDay - scan count: %v", ErrScanRow, err)
	}
	return count > 0, nil
}

// DistinctDates возвращает отсортированный список дат, на которые есть хотя бы одна запись
func (r *Repository) DistinctDates(ctx context.Context, start, end time.Time) ([]time.Time, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("DISTINCT date").
		From("staff_unavailability").
		Where(dateRange(&start, &end)).
		OrderBy("date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: DistinctDates - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: DistinctDates - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	dates := make([]time.Time, 0)
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("%w: DistinctDates - scan date: %v", ErrScanRow, err)
		}
		dates = append(dates, domain.DateOnly(d))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: DistinctDates - rows error: %v", ErrScanRow, err)
	}
	return dates, nil
}

// Update сохраняет все изменяемые поля записи
func (r *Repository) Update(ctx context.Context, u *domain.StaffUnavailability) (*domain.StaffUnavailability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("staff_unavailability").
		Set("date", domain.DateOnly(u.Date)).
		Set("type", u.Type).
		Set("time_slots", pq.Array(slotStrings(u.TimeSlots))).
		Set("unavailable_count", u.UnavailableCount).
		Set("reason", u.Reason).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": u.ID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return nil, fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	} else if n == 0 {
		return nil, ErrNotFound
	}

	return r.GetByID(ctx, u.ID)
}

// Delete удаляет запись
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("staff_unavailability").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) query(ctx context.Context, op string, where squirrel.Sqlizer) ([]*domain.StaffUnavailability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("staff_unavailability").
		Where(where).
		OrderBy("date ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	entries := make([]*domain.StaffUnavailability, 0)
	for rows.Next() {
		u, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
		}
		entries = append(entries, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}
	return entries, nil
}

func scanEntry(row rowScanner) (*domain.StaffUnavailability, error) {
	var (
		u                    domain.StaffUnavailability
		slots                []string
		createdAt, updatedAt sql.NullTime
	)

	if err := row.Scan(
		&u.ID,
		&u.Date,
		&u.Type,
		pq.Array(&slots),
		&u.UnavailableCount,
		&u.Reason,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	u.Date = domain.DateOnly(u.Date)
	u.TimeSlots = make([]types.TimeString, 0, len(slots))
	for _, s := range slots {
		ts, err := types.NewTimeStringFromString(s)
		if err != nil {
			return nil, err
		}
		u.TimeSlots = append(u.TimeSlots, ts)
	}
	if len(u.TimeSlots) == 0 {
		u.TimeSlots = nil
	}
	u.CreatedAt = createdAt.Time
	u.UpdatedAt = updatedAt.Time

	return &u, nil
}

func dateRange(start, end *time.Time) squirrel.Sqlizer {
	where := squirrel.And{}
	if start != nil {
		where = append(where, squirrel.GtOrEq{"date": domain.DateOnly(*start)})
	}
	if end != nil {
		where = append(where, squirrel.LtOrEq{"date": domain.DateOnly(*end)})
	}
	return where
}

func slotStrings(slots []types.TimeString) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.String()
	}
	return out
}

package booking

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

var bookingColumns = []string{
	"b.id",
	"b.booking_number",
	"b.user_id",
	"b.vehicle_id",
	"b.service_id",
	"b.service_name",
	"b.duration_minutes",
	"b.scheduled_date",
	"b.scheduled_time",
	"b.slot_start",
	"b.slot_end",
	"b.location_address",
	"b.location_city",
	"b.location_state",
	"b.location_zip_code",
	"b.location_latitude",
	"b.location_longitude",
	"b.status",
	"b.subtotal",
	"b.service_fee",
	"b.tax",
	"b.total",
	"b.notes",
	"b.cancellation_reason",
	"b.cancelled_at",
	"b.completed_at",
	"b.created_at",
	"b.updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция, использует её.
// При коллизии booking_number возвращает ErrDuplicateBookingNumber, чтобы вызывающий мог сгенерировать новый номер.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var lat, lng *float64
	if c := booking.Location.Coordinates; c != nil {
		lat, lng = &c.Latitude, &c.Longitude
	}

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"booking_number",
			"user_id",
			"vehicle_id",
			"service_id",
			"service_name",
			"duration_minutes",
			"scheduled_date",
			"scheduled_time",
			"slot_start",
			"slot_end",
			"location_address",
			"location_city",
			"location_state",
			"location_zip_code",
			"location_latitude",
			"location_longitude",
			"status",
			"subtotal",
			"service_fee",
			"tax",
			"total",
			"notes",
		).
		Values(
			booking.BookingNumber,
			booking.UserID,
			booking.VehicleID,
			booking.ServiceID,
			booking.ServiceName,
			booking.DurationMinutes,
			booking.ScheduledDate,
			booking.ScheduledTime,
			booking.TimeSlot.Start,
			booking.TimeSlot.End,
			booking.Location.Address,
			booking.Location.City,
			booking.Location.State,
			booking.Location.ZipCode,
			lat,
			lng,
			booking.Status,
			booking.Subtotal,
			booking.ServiceFee,
			booking.Tax,
			booking.Total,
			booking.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode && pqErr.Constraint == bookingNumberConstraint {
			return nil, ErrDuplicateBookingNumber
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings b").
		Where(squirrel.Eq{"b.id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// ListByUser получает страницу бронирований пользователя и общее количество
// Сортировка: сначала новые (по дате и времени)
func (r *Repository) ListByUser(ctx context.Context, filter domain.UserBookingsFilter) ([]*domain.Booking, int, error) {
	where := squirrel.And{squirrel.Eq{"b.user_id": filter.UserID}}
	if len(filter.Statuses) > 0 {
		where = append(where, squirrel.Eq{"b.status": statusStrings(filter.Statuses)})
	}

	return r.list(ctx, "ListByUser", where, filter.Page)
}

// ListForAdmin получает страницу бронирований для админки
// Поддерживает фильтрацию по статусам, конкретной дате, нижней границе даты и номеру бронирования
func (r *Repository) ListForAdmin(ctx context.Context, filter domain.AdminBookingsFilter) ([]*domain.Booking, int, error) {
	where := squirrel.And{}
	if len(filter.Statuses) > 0 {
		where = append(where, squirrel.Eq{"b.status": statusStrings(filter.Statuses)})
	}
	if filter.Date != nil {
		where = append(where, squirrel.Eq{"b.scheduled_date": domain.DateOnly(*filter.Date)})
	}
	if filter.FromDate != nil {
		where = append(where, squirrel.GtOrEq{"b.scheduled_date": domain.DateOnly(*filter.FromDate)})
	}
	if filter.Search != nil && *filter.Search != "" {
		where = append(where, squirrel.ILike{"b.booking_number": "%" + *filter.Search + "%"})
	}

	return r.list(ctx, "ListForAdmin", where, filter.Page)
}

func (r *Repository) list(ctx context.Context, op string, where squirrel.And, page domain.Page) ([]*domain.Booking, int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	// 1. Общее количество
	countQuery, countArgs, err := psqlbuilder.Select("COUNT(*)").
		From("bookings b").
		Where(where).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s - build count query: %v", ErrBuildQuery, op, err)
	}

	var total int
	if err := executor.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%w: %s - count: %v", ErrScanRow, op, err)
	}

	// 2. Страница
	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings b").
		Where(where).
		OrderBy("b.scheduled_date DESC", "b.scheduled_time DESC").
		Limit(uint64(page.Limit)).
		Offset(uint64(page.Offset())).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	bookings, err := scanBookings(rows)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// CountActiveBySlot считает неотменённые бронирования, начинающиеся в слоте (date, time)
// Внутри транзакции строки блокируются через FOR UPDATE (агрегаты с FOR UPDATE несовместимы,
// поэтому считаем выбранные id)
func (r *Repository) CountActiveBySlot(ctx context.Context, date time.Time, t types.TimeString) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	where := squirrel.And{
		squirrel.Eq{"scheduled_date": domain.DateOnly(date)},
		squirrel.Eq{"scheduled_time": t},
		squirrel.NotEq{"status": string(domain.StatusCancelled)},
	}

	if !dbmetrics.IsInTransaction(ctx) {
		query, args, err := psqlbuilder.Select("COUNT(*)").From("bookings").Where(where).ToSql()
		if err != nil {
			return 0, fmt.Errorf("%w: CountActiveBySlot - build count query: %v", ErrBuildQuery, err)
		}

		var count int
		if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
			return 0, fmt.Errorf("%w: CountActiveBySlot - scan count: %v", ErrScanRow, err)
		}
		return count, nil
	}

	query, args, err := psqlbuilder.Select("id").From("bookings").Where(where).Suffix("FOR UPDATE").ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountActiveBySlot - build locking query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: CountActiveBySlot - execute locking query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		count++
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("%w: CountActiveBySlot - rows error: %v", ErrScanRow, err)
	}
	return count, nil
}

// CountActiveByDate возвращает количество неотменённых бронирований по времени начала за день
func (r *Repository) CountActiveByDate(ctx context.Context, date time.Time) (map[types.TimeString]int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("scheduled_time", "COUNT(*)").
		From("bookings").
		Where(squirrel.Eq{"scheduled_date": domain.DateOnly(date)}).
		Where(squirrel.NotEq{"status": string(domain.StatusCancelled)}).
		GroupBy("scheduled_time").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CountActiveByDate - build query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CountActiveByDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	counts := make(map[types.TimeString]int)
	for rows.Next() {
		var (
			t     types.TimeString
			count int
		)
		if err := rows.Scan(&t, &count); err != nil {
			return nil, fmt.Errorf("%w: CountActiveByDate - scan row: %v", ErrScanRow, err)
		}
		counts[t] += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CountActiveByDate - rows error: %v", ErrScanRow, err)
	}

	return counts, nil
}

// GetScheduleByDate получает неотменённые бронирования дня вместе с именем клиента и автомобиля
// Сортировка по времени начала
func (r *Repository) GetScheduleByDate(ctx context.Context, date time.Time) ([]*domain.ScheduledBooking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	columns := append(append([]string{}, bookingColumns...), "COALESCE(u.name, '')", "COALESCE(v.name, '')")
	query, args, err := psqlbuilder.Select(columns...).
		From("bookings b").
		LeftJoin("users u ON u.id = b.user_id").
		LeftJoin("vehicles v ON v.id = b.vehicle_id").
		Where(squirrel.Eq{"b.scheduled_date": domain.DateOnly(date)}).
		Where(squirrel.NotEq{"b.status": string(domain.StatusCancelled)}).
		OrderBy("b.scheduled_time ASC", "b.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetScheduleByDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetScheduleByDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.ScheduledBooking, 0)
	for rows.Next() {
		var sb domain.ScheduledBooking
		if err := scanInto(rows, &sb.Booking, &sb.CustomerName, &sb.VehicleName); err != nil {
			return nil, fmt.Errorf("%w: GetScheduleByDate - scan row: %v", ErrScanRow, err)
		}
		result = append(result, &sb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetScheduleByDate - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// Reschedule переносит бронирование на новые дату и время и (опционально) обновляет заметки
func (r *Repository) Reschedule(ctx context.Context, id int64, date time.Time, slot domain.TimeSlot, notes *string) error {
	update := psqlbuilder.Update("bookings").
		Set("scheduled_date", domain.DateOnly(date)).
		Set("scheduled_time", slot.Start).
		Set("slot_start", slot.Start).
		Set("slot_end", slot.End).
		Set("updated_at", squirrel.Expr("NOW()"))
	if notes != nil {
		update = update.Set("notes", *notes)
	}

	return r.execUpdate(ctx, "Reschedule", update.Where(squirrel.Eq{"id": id}))
}

// Cancel отменяет бронирование с указанием причины
func (r *Repository) Cancel(ctx context.Context, id int64, reason *string, at time.Time) error {
	update := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", at).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	return r.execUpdate(ctx, "Cancel", update)
}

// ApplyStatusChange устанавливает новый статус и сопутствующие поля
// cancelled -> cancellation_reason + cancelled_at, completed -> completed_at
func (r *Repository) ApplyStatusChange(ctx context.Context, id int64, change domain.StatusChange) error {
	update := psqlbuilder.Update("bookings").
		Set("status", change.Status).
		Set("updated_at", squirrel.Expr("NOW()"))

	switch change.Status {
	case domain.StatusCancelled:
		update = update.Set("cancellation_reason", change.Reason).Set("cancelled_at", change.At)
	case domain.StatusCompleted:
		update = update.Set("completed_at", change.At)
	}

	return r.execUpdate(ctx, "ApplyStatusChange", update.Where(squirrel.Eq{"id": id}))
}

func (r *Repository) execUpdate(ctx context.Context, op string, update squirrel.UpdateBuilder) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := update.ToSql()
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
		return ErrBookingNotFound
	}

	return nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var b domain.Booking
	if err := scanInto(row, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// scanInto сканирует колонки bookingColumns в b, extra добавляются в конец
func scanInto(row rowScanner, b *domain.Booking, extra ...interface{}) error {
	var (
		lat, lng             sql.NullFloat64
		createdAt, updatedAt sql.NullTime
	)

	dest := []interface{}{
		&b.ID,
		&b.BookingNumber,
		&b.UserID,
		&b.VehicleID,
		&b.ServiceID,
		&b.ServiceName,
		&b.DurationMinutes,
		&b.ScheduledDate,
		&b.ScheduledTime,
		&b.TimeSlot.Start,
		&b.TimeSlot.End,
		&b.Location.Address,
		&b.Location.City,
		&b.Location.State,
		&b.Location.ZipCode,
		&lat,
		&lng,
		&b.Status,
		&b.Subtotal,
		&b.ServiceFee,
		&b.Tax,
		&b.Total,
		&b.Notes,
		&b.CancellationReason,
		&b.CancelledAt,
		&b.CompletedAt,
		&createdAt,
		&updatedAt,
	}

	if err := row.Scan(append(dest, extra...)...); err != nil {
		return err
	}

	b.ScheduledDate = domain.DateOnly(b.ScheduledDate)
	if lat.Valid && lng.Valid {
		b.Location.Coordinates = &domain.Coordinates{Latitude: lat.Float64, Longitude: lng.Float64}
	}
	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return nil
}

func statusStrings(statuses []domain.BookingStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

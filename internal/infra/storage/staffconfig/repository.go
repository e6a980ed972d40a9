package staffconfig

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-CarWashService/internal/domain"
	"github.com/m04kA/SMC-CarWashService/pkg/dbmetrics"
	"github.com/m04kA/SMC-CarWashService/pkg/psqlbuilder"
)

type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий единственной записи конфигурации персонала
// Таблица staff_config ограничена одной строкой (PRIMARY KEY singleton = TRUE)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория конфигурации персонала
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Get получает конфигурацию
func (r *Repository) Get(ctx context.Context) (*domain.StaffConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"total_staff",
		"service_duration_minutes",
		"operating_start_time",
		"operating_end_time",
		"booking_window_days",
		"created_at",
		"updated_at",
	).
		From("staff_config").
		Where(squirrel.Eq{"singleton": true}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	var cfg domain.StaffConfig
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&cfg.ID,
		&cfg.TotalStaff,
		&cfg.ServiceDurationMinutes,
		&cfg.OperatingStartTime,
		&cfg.OperatingEndTime,
		&cfg.BookingWindowDays,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan config: %v", ErrScanRow, err)
	}

	cfg.CreatedAt = createdAt.Time
	cfg.UpdatedAt = updatedAt.Time

	return &cfg, nil
}

// CreateIfMissing вставляет конфигурацию, если её ещё нет, и возвращает актуальную запись
// Параллельные вызовы безопасны: проигравший INSERT игнорируется через ON CONFLICT
func (r *Repository) CreateIfMissing(ctx context.Context, cfg *domain.StaffConfig) (*domain.StaffConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("staff_config").
		Columns(
			"singleton",
			"total_staff",
			"service_duration_minutes",
			"operating_start_time",
			"operating_end_time",
			"booking_window_days",
		).
		Values(
			true,
			cfg.TotalStaff,
			cfg.ServiceDurationMinutes,
			cfg.OperatingStartTime,
			cfg.OperatingEndTime,
			cfg.BookingWindowDays,
		).
		Suffix("ON CONFLICT (singleton) DO NOTHING").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateIfMissing - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: CreateIfMissing - execute insert: %v", ErrExecQuery, err)
	}

	return r.Get(ctx)
}

// Update сохраняет все поля конфигурации
func (r *Repository) Update(ctx context.Context, cfg *domain.StaffConfig) (*domain.StaffConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("staff_config").
		Set("total_staff", cfg.TotalStaff).
		Set("service_duration_minutes", cfg.ServiceDurationMinutes).
		Set("operating_start_time", cfg.OperatingStartTime).
		Set("operating_end_time", cfg.OperatingEndTime).
		Set("booking_window_days", cfg.BookingWindowDays).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"singleton": true}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return nil, ErrConfigNotFound
	}

	return r.Get(ctx)
}

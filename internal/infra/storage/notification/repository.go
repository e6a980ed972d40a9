package notification

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-CarWashService/internal/domain"
	"github.com/m04kA/SMC-CarWashService/pkg/dbmetrics"
	"github.com/m04kA/SMC-CarWashService/pkg/psqlbuilder"
)

type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий уведомлений администратора
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория уведомлений
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет уведомление
func (r *Repository) Create(ctx context.Context, n *domain.AdminNotification) (*domain.AdminNotification, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var data interface{}
	if len(n.Data) > 0 {
		data = []byte(n.Data)
	}

	query, args, err := psqlbuilder.Insert("admin_notifications").
		Columns("type", "title", "message", "data").
		Values(n.Type, n.Title, n.Message, data).
		Suffix("RETURNING id, is_read, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&n.ID, &n.IsRead, &n.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}
	return n, nil
}

// List получает страницу уведомлений (новые сверху) и общее количество
func (r *Repository) List(ctx context.Context, filter domain.AdminNotificationsFilter) ([]*domain.AdminNotification, int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	where := squirrel.And{}
	if filter.Type != nil {
		where = append(where, squirrel.Eq{"type": string(*filter.Type)})
	}

	countQuery, countArgs, err := psqlbuilder.Select("COUNT(*)").From("admin_notifications").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: List - build count query: %v", ErrBuildQuery, err)
	}
	var total int
	if err := executor.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%w: List - count: %v", ErrScanRow, err)
	}

	query, args, err := psqlbuilder.Select("id", "type", "title", "message", "data", "is_read", "created_at").
		From("admin_notifications").
		Where(where).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(filter.Page.Limit)).
		Offset(uint64(filter.Page.Offset())).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	items := make([]*domain.AdminNotification, 0)
	for rows.Next() {
		var (
			n    domain.AdminNotification
			data []byte
		)
		if err := rows.Scan(&n.ID, &n.Type, &n.Title, &n.Message, &data, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		if len(data) > 0 {
			n.Data = append([]byte(nil), data...)
		}
		items = append(items, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return items, total, nil
}

// CountUnread возвращает количество непрочитанных уведомлений
func (r *Repository) CountUnread(ctx context.Context) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("admin_notifications").
		Where(squirrel.Eq{"is_read": false}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountUnread - build count query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountUnread - scan count: %v", ErrScanRow, err)
	}
	return count, nil
}

// MarkAsRead помечает уведомление прочитанным
func (r *Repository) MarkAsRead(ctx context.Context, id int64) error {
	n, err := r.markRead(ctx, "MarkAsRead", squirrel.Eq{"id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllAsRead помечает все уведомления прочитанными и возвращает количество изменённых
func (r *Repository) MarkAllAsRead(ctx context.Context) (int64, error) {
	return r.markRead(ctx, "MarkAllAsRead", squirrel.Eq{"is_read": false})
}

func (r *Repository) markRead(ctx context.Context, op string, where squirrel.Sqlizer) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("admin_notifications").
		Set("is_read", true).
		Where(where).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	var result sql.Result
	if result, err = executor.ExecContext(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	return n, nil
}

package vehicle

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

var (
	// ErrVehicleNotFound возвращается, когда автомобиль не найден, неактивен или принадлежит другому пользователю
	ErrVehicleNotFound = errors.New("vehicle.repository: vehicle not found")

	// ErrQuery возвращается при ошибке построения или выполнения запроса
	ErrQuery = errors.New("vehicle.repository: query failed")
)

// Repository чтение автомобилей пользователей (CRUD автомобилей живёт в другом сервисе)
type Repository struct {
	db dbmetrics.DBExecutor
}

func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetActiveByIDAndUser получает активный автомобиль, принадлежащий пользователю
func (r *Repository) GetActiveByIDAndUser(ctx context.Context, id, userID int64) (*domain.Vehicle, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "user_id", "name", "license_plate", "is_active", "is_default").
		From("vehicles").
		Where(squirrel.Eq{"id": id, "user_id": userID, "is_active": true}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByIDAndUser - build select query: %v", ErrQuery, err)
	}

	var v domain.Vehicle
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&v.ID, &v.UserID, &v.Name, &v.LicensePlate, &v.IsActive, &v.IsDefault,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVehicleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByIDAndUser - scan vehicle: %v", ErrQuery, err)
	}
	return &v, nil
}

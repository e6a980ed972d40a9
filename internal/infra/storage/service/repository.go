package service

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
	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("service.repository: service not found")

	// ErrQuery возвращается при ошибке построения или выполнения запроса
	ErrQuery = errors.New("service.repository: query failed")
)

// Repository чтение каталога услуг
type Repository struct {
	db dbmetrics.DBExecutor
}

func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает услугу независимо от активности
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	return r.get(ctx, "GetByID", squirrel.Eq{"id": id})
}

// GetActiveByID получает только активную услугу
func (r *Repository) GetActiveByID(ctx context.Context, id int64) (*domain.Service, error) {
	return r.get(ctx, "GetActiveByID", squirrel.Eq{"id": id, "is_active": true})
}

func (r *Repository) get(ctx context.Context, op string, where squirrel.Eq) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "price", "duration_minutes", "is_active").
		From("services").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrQuery, op, err)
	}

	var s domain.Service
	err = executor.QueryRowContext(ctx, query, args...).Scan(&s.ID, &s.Name, &s.Price, &s.DurationMinutes, &s.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan service: %v", ErrQuery, op, err)
	}
	return &s, nil
}

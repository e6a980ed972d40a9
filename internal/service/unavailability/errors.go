package unavailability

import "errors"

var (
	// ErrNotFound возвращается, когда запись не найдена
	ErrNotFound = errors.New("unavailability entry not found")

	// ErrFullDayExists возвращается при повторной записи full_day на ту же дату
	ErrFullDayExists = errors.New("full day unavailability already exists for this date")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)

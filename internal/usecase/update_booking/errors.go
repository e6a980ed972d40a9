package update_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено или принадлежит другому пользователю
	ErrBookingNotFound = errors.New("update_booking: booking not found")

	// ErrCannotUpdate возвращается, когда бронирование уже нельзя переносить
	ErrCannotUpdate = errors.New("update_booking: booking cannot be updated")

	// ErrInvalidDate возвращается, когда новая дата в прошлом или за пределами окна бронирования
	ErrInvalidDate = errors.New("update_booking: invalid booking date")

	// ErrSlotNotAvailable возвращается, когда в новом слоте нет свободного персонала
	ErrSlotNotAvailable = errors.New("update_booking: slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("update_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_booking: internal error")
)

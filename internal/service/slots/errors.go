package slots

import "errors"

var (
	// ErrSlotUnavailable возвращается, когда в слоте не осталось свободного персонала
	ErrSlotUnavailable = errors.New("slots: slot is not available")

	// ErrUnknownAdmissionMode возвращается при неизвестном режиме допуска
	ErrUnknownAdmissionMode = errors.New("slots: unknown admission mode")

	// ErrInternal возвращается при внутренних ошибках движка
	ErrInternal = errors.New("slots: internal error")
)

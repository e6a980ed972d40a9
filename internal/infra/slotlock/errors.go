package slotlock

import "errors"

var (
	// ErrLockTimeout возвращается, если блокировку не удалось получить за время ожидания
	ErrLockTimeout = errors.New("slotlock: lock wait timeout")

	// ErrLockBackend возвращается при ошибке хранилища блокировок
	ErrLockBackend = errors.New("slotlock: backend error")
)

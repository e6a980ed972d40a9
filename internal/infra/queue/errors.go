package queue

import "errors"

var (
	// ErrQueueFull возвращается, когда буфер in-memory очереди заполнен
	ErrQueueFull = errors.New("queue: queue is full")

	// ErrEncode возвращается при ошибке сериализации задачи
	ErrEncode = errors.New("queue: failed to encode job")

	// ErrDecode возвращается при ошибке десериализации задачи
	ErrDecode = errors.New("queue: failed to decode job")

	// ErrBackend возвращается при ошибке Redis
	ErrBackend = errors.New("queue: backend error")
)

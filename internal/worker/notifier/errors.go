package notifier

import (
	"errors"
	"strings"
)

var (
	// ErrPermanent задача не может быть доставлена, повтор бессмысленен
	ErrPermanent = errors.New("notifier: permanent delivery failure")

	// ErrUnknownKind неизвестный тип задачи
	ErrUnknownKind = errors.New("notifier: unknown notification kind")

	// ErrInvalidSchedule некорректное расписание повторов
	ErrInvalidSchedule = errors.New("notifier: invalid retry schedule")
)

// ChannelError часть каналов клиентской задачи не доставлена
type ChannelError struct {
	Channels []string
	Err      error
}

func (e *ChannelError) Error() string {
	return "notifier: channels " + strings.Join(e.Channels, ",") + " failed: " + e.Err.Error()
}

func (e *ChannelError) Unwrap() error {
	return e.Err
}

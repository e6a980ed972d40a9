package update_booking

import (
	"time"

	"github.com/m04kA/SMC-CarWashService/pkg/types"
)

// Request модель запроса на перенос бронирования. nil поля остаются без изменений.
type Request struct {
	BookingID     int64
	UserID        int64
	ScheduledDate *time.Time
	ScheduledTime *types.TimeString
	Notes         *string
}

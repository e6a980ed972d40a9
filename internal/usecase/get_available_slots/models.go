package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-CarWashService/internal/domain"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	UserID    int64     // ID пользователя (для логирования, не влияет на результат)
	ServiceID int64     // ID услуги
	Date      time.Time // Дата (без времени)
}

// Response модель ответа со слотами по частям дня
type Response struct {
	Date              time.Time
	ServiceDuration   int // длительность услуги в минутах
	BookingWindowDays int
	Slots             map[domain.DayPart][]domain.SlotAvailability
}

package create_booking

import (
	"time"

	"github.com/m04kA/SMC-CarWashService/internal/domain"
	"github.com/m04kA/SMC-CarWashService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	UserID        int64            // ID пользователя из токена
	VehicleID     int64            // ID автомобиля пользователя
	ServiceID     int64            // ID услуги
	ScheduledDate time.Time        // Дата бронирования (без времени)
	ScheduledTime types.TimeString // Начало слота, например "09:30"
	Location      domain.Location  // Адрес мойки
	Notes         *string          // Заметки (опционально)
}

// Options параметры ценообразования
type Options struct {
	ServiceFee float64 // фиксированный сбор
	TaxRate    float64 // доля от стоимости услуги
}

package slots

import (
	"github.com/m04kA/SMC-CarWashService/internal/domain"
	"github.com/m04kA/SMC-CarWashService/pkg/types"
)

// Фиксированный каталог публичных слотов. Не зависит от длительности услуги
// и от рабочих часов в конфигурации.
var fixedCatalog = map[domain.DayPart][]types.TimeString{
	domain.DayPartMorning:   {"08:00", "08:30", "09:00", "09:30", "10:00", "10:30", "11:00", "11:30"},
	domain.DayPartAfternoon: {"12:00", "12:30", "13:00", "13:30", "14:00", "14:30", "15:00", "15:30", "16:00", "16:30"},
	domain.DayPartEvening:   {"17:00", "17:30", "18:00", "18:30", "19:00", "19:30"},
	domain.DayPartNight:     {"20:00", "20:30", "21:00"},
}

// FixedCatalog источник слотов для публичного списка
type FixedCatalog struct{}

// Slots возвращает каталог в порядке частей дня. Конфигурация не используется.
func (FixedCatalog) Slots(_ *domain.StaffConfig) []domain.SlotMark {
	marks := make([]domain.SlotMark, 0, 27)
	for _, part := range domain.DayParts {
		for _, t := range fixedCatalog[part] {
			marks = append(marks, domain.SlotMark{Time: t, DayPart: part})
		}
	}
	return marks
}

// OperatingHours источник слотов для админского дневного вида:
// от начала рабочего дня с шагом serviceDurationMinutes, пока слот начинается до конца дня
type OperatingHours struct{}

// Slots генерирует непрерывную сетку из конфигурации
func (OperatingHours) Slots(cfg *domain.StaffConfig) []domain.SlotMark {
	if cfg == nil || cfg.ServiceDurationMinutes <= 0 {
		return []domain.SlotMark{}
	}

	start := cfg.OperatingStartTime.Minutes()
	end := cfg.OperatingEndTime.Minutes()

	marks := make([]domain.SlotMark, 0)
	for cur := start; cur < end; cur += cfg.ServiceDurationMinutes {
		marks = append(marks, domain.SlotMark{Time: types.FromMinutes(cur)})
	}
	return marks
}

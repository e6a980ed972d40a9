package models

import (
	"time"

	"github.com/m04kA/SMC-CarWashService/internal/domain"
	"github.com/m04kA/SMC-CarWashService/pkg/types"
)

// Request модели

// UpdateConfigRequest частичное обновление конфигурации
// Все поля опциональны - обновляются только переданные значения
type UpdateConfigRequest struct {
	TotalStaff             *int    `json:"totalStaff,omitempty"`
	ServiceDurationMinutes *int    `json:"serviceDurationMinutes,omitempty"`
	OperatingStartTime     *string `json:"operatingStartTime,omitempty"`
	OperatingEndTime       *string `json:"operatingEndTime,omitempty"`
	BookingWindowDays      *int    `json:"bookingWindowDays,omitempty"`
}

// Response модели

// ConfigResponse ответ с конфигурацией персонала
type ConfigResponse struct {
	TotalStaff             int       `json:"totalStaff"`
	ServiceDurationMinutes int       `json:"serviceDurationMinutes"`
	OperatingStartTime     string    `json:"operatingStartTime"`
	OperatingEndTime       string    `json:"operatingEndTime"`
	BookingWindowDays      int       `json:"bookingWindowDays"`
	UpdatedAt              time.Time `json:"updatedAt"`
}

// StaffBooking бронирование в дневном виде
type StaffBooking struct {
	ID            int64  `json:"id"`
	BookingNumber string `json:"bookingNumber"`
	CustomerName  string `json:"customerName"`
	VehicleName   string `json:"vehicleName"`
	ServiceName   string `json:"serviceName"`
	Status        string `json:"status"`
	StartTime     string `json:"startTime"` // RFC3339 в рабочем часовом поясе
	EndTime       string `json:"endTime"`
	StaffAssigned int    `json:"staffAssigned"`
}

// SlotStaff свободный персонал в слоте
type SlotStaff struct {
	Time           types.TimeString `json:"time"`
	AvailableStaff int              `json:"availableStaff"`
}

// DailyAvailabilityResponse админский вид дня
type DailyAvailabilityResponse struct {
	Date           string         `json:"date"`
	Bookings       []StaffBooking `json:"bookings"`
	AvailableSlots []SlotStaff    `json:"availableSlots"`
}

// FromDomainConfig конвертирует domain.StaffConfig в ConfigResponse
func FromDomainConfig(cfg *domain.StaffConfig) *ConfigResponse {
	return &ConfigResponse{
		TotalStaff:             cfg.TotalStaff,
		ServiceDurationMinutes: cfg.ServiceDurationMinutes,
		OperatingStartTime:     cfg.OperatingStartTime.String(),
		OperatingEndTime:       cfg.OperatingEndTime.String(),
		BookingWindowDays:      cfg.BookingWindowDays,
		UpdatedAt:              cfg.UpdatedAt,
	}
}

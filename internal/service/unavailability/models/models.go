package models

import (
	"time"

	"github.com/m04kA/SMC-CarWashService/internal/domain"
)

// CreateRequest запрос на создание записи о недоступности
type CreateRequest struct {
	Date             string   `json:"date"`
	Type             string   `json:"type"`
	TimeSlots        []string `json:"timeSlots,omitempty"`
	UnavailableCount *int     `json:"unavailableCount,omitempty"` // по умолчанию 1
	Reason           *string  `json:"reason,omitempty"`
}

// UpdateRequest частичное обновление записи
type UpdateRequest struct {
	Date             *string   `json:"date,omitempty"`
	Type             *string   `json:"type,omitempty"`
	TimeSlots        *[]string `json:"timeSlots,omitempty"`
	UnavailableCount *int      `json:"unavailableCount,omitempty"`
	Reason           *string   `json:"reason,omitempty"`
}

// UnavailabilityResponse запись о недоступности
type UnavailabilityResponse struct {
	ID               int64     `json:"id"`
	Date             string    `json:"date"`
	Type             string    `json:"type"`
	TimeSlots        []string  `json:"timeSlots"`
	UnavailableCount int       `json:"unavailableCount"`
	Reason           *string   `json:"reason,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// FromDomain конвертирует domain.StaffUnavailability в ответ
func FromDomain(u *domain.StaffUnavailability) *UnavailabilityResponse {
	slots := make([]string, len(u.TimeSlots))
	for i, s := range u.TimeSlots {
		slots[i] = s.String()
	}
	return &UnavailabilityResponse{
		ID:               u.ID,
		Date:             u.Date.Format(domain.DateFormat),
		Type:             string(u.Type),
		TimeSlots:        slots,
		UnavailableCount: u.UnavailableCount,
		Reason:           u.Reason,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}

// FromDomainList конвертирует список записей
func FromDomainList(entries []*domain.StaffUnavailability) []*UnavailabilityResponse {
	result := make([]*UnavailabilityResponse, len(entries))
	for i, u := range entries {
		result[i] = FromDomain(u)
	}
	return result
}

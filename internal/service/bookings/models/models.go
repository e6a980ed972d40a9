package models

import (
	"time"

	"github.com/m04kA/SMC-CarWashService/internal/domain"
)

// Request модели

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	UserID int64
	Status *string // upcoming | completed | cancelled
	Page   int
	Limit  int
}

// CancelBookingRequest запрос клиента на отмену бронирования
type CancelBookingRequest struct {
	UserID int64
	Reason *string
}

// AdminListRequest запрос списка бронирований в админке
type AdminListRequest struct {
	Status *string // статус или "upcoming"
	Date   *string // YYYY-MM-DD
	Search *string // номер бронирования
	Page   int
	Limit  int
}

// UpdateStatusRequest запрос администратора на смену статуса
type UpdateStatusRequest struct {
	Status string
	Reason *string
}

// Response модели

// TimeSlotResponse интервал бронирования
type TimeSlotResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// PricingResponse денежный снимок бронирования
type PricingResponse struct {
	Subtotal   float64 `json:"subtotal"`
	ServiceFee float64 `json:"serviceFee"`
	Tax        float64 `json:"tax"`
	Total      float64 `json:"total"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              int64            `json:"id"`
	BookingNumber   string           `json:"bookingNumber"`
	UserID          int64            `json:"userId"`
	VehicleID       int64            `json:"vehicleId"`
	ServiceID       int64            `json:"serviceId"`
	ServiceName     string           `json:"serviceName"`
	DurationMinutes int              `json:"durationMinutes"`
	ScheduledDate   string           `json:"scheduledDate"` // "2024-06-10"
	ScheduledTime   string           `json:"scheduledTime"` // "09:00"
	TimeSlot        TimeSlotResponse `json:"timeSlot"`
	Location        domain.Location  `json:"location"`
	Status          string           `json:"status"`
	Pricing         PricingResponse  `json:"pricing"`

	Notes              *string    `json:"notes,omitempty"`
	CancellationReason *string    `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`
	CompletedAt        *time.Time `json:"completedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse страница бронирований
type BookingListResponse struct {
	Bookings   []*BookingResponse `json:"bookings"`
	Pagination domain.Pagination  `json:"pagination"`
}

// FromDomainBooking конвертирует domain.Booking в BookingResponse
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	return &BookingResponse{
		ID:              b.ID,
		BookingNumber:   b.BookingNumber,
		UserID:          b.UserID,
		VehicleID:       b.VehicleID,
		ServiceID:       b.ServiceID,
		ServiceName:     b.ServiceName,
		DurationMinutes: b.DurationMinutes,
		ScheduledDate:   b.ScheduledDate.Format(domain.DateFormat),
		ScheduledTime:   b.ScheduledTime.String(),
		TimeSlot: TimeSlotResponse{
			Start: b.TimeSlot.Start.String(),
			End:   b.TimeSlot.End.String(),
		},
		Location: b.Location,
		Status:   string(b.Status),
		Pricing: PricingResponse{
			Subtotal:   b.Subtotal,
			ServiceFee: b.ServiceFee,
			Tax:        b.Tax,
			Total:      b.Total,
		},
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		CancelledAt:        b.CancelledAt,
		CompletedAt:        b.CompletedAt,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует страницу бронирований
func FromDomainBookingList(bookings []*domain.Booking, page domain.Page, total int) *BookingListResponse {
	result := make([]*BookingResponse, len(bookings))
	for i, b := range bookings {
		result[i] = FromDomainBooking(b)
	}
	return &BookingListResponse{
		Bookings:   result,
		Pagination: domain.NewPagination(page, total),
	}
}

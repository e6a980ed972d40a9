package get_available_slots

import (
	"github.com/m04kA/SMC-CarWashService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-CarWashService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date              string                     `json:"date"`
	ServiceDuration   int                        `json:"serviceDuration"`
	BookingWindowDays int                        `json:"bookingWindowDays"`
	Slots             map[string][]AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	Time       string `json:"time"`
	Display    string `json:"display"`
	Available  bool   `json:"available"`
	StaffCount int    `json:"staffCount"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response.
// Все части дня присутствуют в ответе, даже пустые.
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make(map[string][]AvailableSlot, len(domain.DayParts))
	for _, part := range domain.DayParts {
		list := resp.Slots[part]
		out := make([]AvailableSlot, len(list))
		for i, s := range list {
			out[i] = AvailableSlot{
				Time:       s.Time.String(),
				Display:    s.Display,
				Available:  s.Available,
				StaffCount: s.StaffCount,
			}
		}
		slots[string(part)] = out
	}

	return &AvailableSlotsResponse{
		Date:              resp.Date.Format(domain.DateFormat),
		ServiceDuration:   resp.ServiceDuration,
		BookingWindowDays: resp.BookingWindowDays,
		Slots:             slots,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(userID, serviceID int64, dateStr string) (*getAvailableSlots.Request, error) {
	date, err := domain.ParseDate(dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		UserID:    userID,
		ServiceID: serviceID,
		Date:      date,
	}, nil
}

package models

import "github.com/m04kA/SMC-CarWashService/internal/domain"

// ListRequest запрос ленты уведомлений
type ListRequest struct {
	Type  *string
	Page  int
	Limit int
}

// ListResponse страница уведомлений и количество непрочитанных
type ListResponse struct {
	Notifications []*domain.AdminNotification `json:"notifications"`
	UnreadCount   int                         `json:"unreadCount"`
	Pagination    domain.Pagination           `json:"pagination"`
}

// MarkAllResponse результат массовой отметки
type MarkAllResponse struct {
	Updated int64 `json:"updated"`
}

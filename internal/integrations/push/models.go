package push

// Message push-уведомление пользователю
type Message struct {
	UserID int64             `json:"userId"`
	Title  string            `json:"title"`
	Body   string            `json:"body"`
	Data   map[string]string `json:"data,omitempty"`
}

// ErrorResponse модель ошибки от шлюза
type ErrorResponse struct {
	Message string `json:"message"`
}

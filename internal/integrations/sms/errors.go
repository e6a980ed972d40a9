package sms

import "errors"

var (
	// ErrInvalidPhone возвращается, когда номер получателя пуст
	ErrInvalidPhone = errors.New("sms client: empty recipient phone")

	// ErrSendFailed возвращается при ошибке Twilio
	ErrSendFailed = errors.New("sms client: send failed")
)

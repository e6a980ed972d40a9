package sms

import (
	"context"
	"fmt"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// messageCreator часть Twilio API, которой пользуется клиент
type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// Client отправка SMS через Twilio.
// Без реквизитов работает в режиме "только лог".
type Client struct {
	api  messageCreator
	from string
	log  Logger
}

// NewClient создает клиент. Пустые реквизиты включают режим "только лог".
func NewClient(accountSID, authToken, from string, log Logger) *Client {
	c := &Client{from: from, log: log}
	if accountSID == "" || authToken == "" || from == "" {
		log.Info("SMS: Twilio credentials not configured, messages will be logged only")
		return c
	}

	rest := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	c.api = rest.Api
	return c
}

// Enabled true, если сообщения реально уходят в Twilio
func (c *Client) Enabled() bool {
	return c.api != nil
}

// Send отправляет сообщение на номер countryCode+phone
func (c *Client) Send(ctx context.Context, countryCode, phone, body string) error {
	to := FullPhone(countryCode, phone)
	if to == "" {
		return ErrInvalidPhone
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if c.api == nil {
		c.log.Info("[SMS] To: %s | Message: %s", to, body)
		return nil
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(c.from)
	params.SetBody(body)

	resp, err := c.api.CreateMessage(params)
	if err != nil {
		c.log.Error("SMS: failed to send to %s: %v", to, err)
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	if resp.Sid != nil {
		c.log.Info("SMS: sent to %s, sid=%s", to, *resp.Sid)
	}
	return nil
}

// FullPhone склеивает код страны и номер
func FullPhone(countryCode, phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}
	if strings.HasPrefix(phone, "+") {
		return phone
	}
	return strings.TrimSpace(countryCode) + phone
}

package notifier

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/m04kA/SMC-CarWashService/internal/domain"
	"github.com/m04kA/SMC-CarWashService/internal/infra/queue"
	userRepo "github.com/m04kA/SMC-CarWashService/internal/infra/storage/user"
	"github.com/m04kA/SMC-CarWashService/internal/integrations/sms"
)

const (
	dequeueErrorBackoff = time.Second
	deliveryTimeout     = 30 * time.Second
)

// Config параметры пула воркеров
type Config struct {
	Workers            int
	MaxAttempts        int
	BrandName          string
	DefaultCountryCode string
}

// Dispatcher пул воркеров, доставляющих уведомления из очереди
type Dispatcher struct {
	queue   Queue
	users   UserRepository
	sms     SMSSender
	push    PushSender
	feed    AdminFeed
	metrics Metrics
	cfg     Config
	logger  Logger

	wg sync.WaitGroup
}

// NewDispatcher создает пул. metrics может быть nil.
func NewDispatcher(
	queue Queue,
	users UserRepository,
	smsSender SMSSender,
	pushSender PushSender,
	feed AdminFeed,
	metrics Metrics,
	cfg Config,
	logger Logger,
) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	return &Dispatcher{
		queue:   queue,
		users:   users,
		sms:     smsSender,
		push:    pushSender,
		feed:    feed,
		metrics: metrics,
		cfg:     cfg,
		logger:  logger,
	}
}

// Start запускает воркеры; они завершаются при отмене ctx
func (d *Dispatcher) Start(ctx context.Context) {
	for i := 0; i < d.cfg.Workers; i++ {
		d.wg.Add(1)
		go d.run(ctx, i+1)
	}
	d.logger.Info("Dispatcher: started %d notification workers", d.cfg.Workers)
}

// Wait ждёт завершения всех воркеров
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) run(ctx context.Context, id int) {
	defer d.wg.Done()

	for {
		job, err := d.queue.Dequeue(ctx)
		if ctx.Err() != nil {
			d.logger.Info("Dispatcher: worker %d stopped", id)
			return
		}
		if err != nil {
			if errors.Is(err, queue.ErrDecode) {
				d.logger.Error("Dispatcher: worker %d dropped malformed job: %v", id, err)
				continue
			}
			d.logger.Error("Dispatcher: worker %d dequeue failed: %v", id, err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(dequeueErrorBackoff):
			}
			continue
		}

		d.Process(ctx, job)
	}
}

// Process доставляет одну задачу и при неудаче откладывает её на повтор
func (d *Dispatcher) Process(ctx context.Context, job *domain.NotificationJob) {
	// начатую доставку доводим до конца даже при остановке
	deliverCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), deliveryTimeout)
	defer cancel()

	err := d.deliver(deliverCtx, job)
	if err == nil {
		d.record(job, "sent")
		return
	}

	if errors.Is(err, ErrPermanent) || errors.Is(err, ErrUnknownKind) {
		d.logger.Warn("Process: job=%s (%s) dropped: %v", job.ID, job.Kind, err)
		d.record(job, "dropped")
		return
	}

	d.logger.Warn("Process: job=%s (%s) attempt %d failed: %v", job.ID, job.Kind, job.Attempts+1, err)

	var chErr *ChannelError
	if errors.As(err, &chErr) {
		// повторяем только недоставленные каналы
		for _, ch := range chErr.Channels {
			retry := *job
			retry.Channel = ch
			d.retry(deliverCtx, &retry)
		}
		return
	}
	d.retry(deliverCtx, job)
}

func (d *Dispatcher) retry(ctx context.Context, job *domain.NotificationJob) {
	job.Attempts++
	if job.Attempts >= d.cfg.MaxAttempts {
		d.logger.Error("retry: job=%s (%s) for booking=%s exhausted %d attempts, dropping",
			job.ID, job.Kind, job.BookingNumber, job.Attempts)
		d.record(job, "dropped")
		return
	}

	if err := d.queue.Retry(ctx, job); err != nil {
		d.logger.Error("retry: failed to park job=%s: %v", job.ID, err)
		d.record(job, "dropped")
		return
	}
	d.record(job, "retry")
}

func (d *Dispatcher) deliver(ctx context.Context, job *domain.NotificationJob) error {
	if job.Kind.IsCustomerFacing() {
		return d.deliverCustomer(ctx, job)
	}
	return d.deliverAdmin(ctx, job)
}

func (d *Dispatcher) deliverAdmin(ctx context.Context, job *domain.NotificationJob) error {
	n, err := buildAdminNotification(job)
	if err != nil {
		return err
	}
	if _, err := d.feed.Create(ctx, n); err != nil {
		return fmt.Errorf("admin feed: %w", err)
	}
	return nil
}

func (d *Dispatcher) deliverCustomer(ctx context.Context, job *domain.NotificationJob) error {
	msg, err := buildCustomerMessage(job, d.cfg.BrandName)
	if err != nil {
		return err
	}

	// 1. Контакты клиента
	user, err := d.users.GetByID(ctx, job.UserID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			return fmt.Errorf("%w: user=%d not found", ErrPermanent, job.UserID)
		}
		return fmt.Errorf("user lookup: %w", err)
	}

	var (
		failed []string
		errs   []error
	)

	// 2. SMS
	if msg.SMS != "" && wants(job, domain.ChannelSMS) {
		if err := d.sendSMS(ctx, user, msg.SMS); err != nil {
			failed = append(failed, domain.ChannelSMS)
			errs = append(errs, err)
		}
	}

	// 3. Push
	if wants(job, domain.ChannelPush) {
		if err := d.push.Send(ctx, msg.Push); err != nil {
			failed = append(failed, domain.ChannelPush)
			errs = append(errs, err)
		}
	}

	if len(failed) > 0 {
		return &ChannelError{Channels: failed, Err: errors.Join(errs...)}
	}
	return nil
}

func (d *Dispatcher) sendSMS(ctx context.Context, user *domain.User, body string) error {
	if user.Phone == nil || *user.Phone == "" {
		d.logger.Info("sendSMS: user=%d has no phone, skipping SMS", user.ID)
		return nil
	}

	countryCode := d.cfg.DefaultCountryCode
	if user.CountryCode != nil && *user.CountryCode != "" {
		countryCode = *user.CountryCode
	}

	err := d.sms.Send(ctx, countryCode, *user.Phone, body)
	if errors.Is(err, sms.ErrInvalidPhone) {
		d.logger.Warn("sendSMS: user=%d has invalid phone, skipping SMS", user.ID)
		return nil
	}
	return err
}

func wants(job *domain.NotificationJob, channel string) bool {
	return job.Channel == "" || job.Channel == channel
}

func (d *Dispatcher) record(job *domain.NotificationJob, outcome string) {
	if d.metrics != nil {
		d.metrics.RecordNotification(string(job.Kind), outcome)
	}
}

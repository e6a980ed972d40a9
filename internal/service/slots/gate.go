package slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/m04kA/SMC-CarWashService/internal/domain"
	"github.com/m04kA/SMC-CarWashService/pkg/types"
)

// AdmissionMode режим допуска бронирования в слот
type AdmissionMode string

const (
	// AdmissionRelaxed проверка и запись выполняются отдельно (check-then-act)
	AdmissionRelaxed AdmissionMode = "relaxed"
	// AdmissionStrict проверка и запись под блокировкой слота в сериализуемой транзакции
	AdmissionStrict AdmissionMode = "strict"
)

const serializationFailureCode = "40001"

// Gate допускает запись бронирования только при наличии свободного персонала в слоте
type Gate struct {
	checker   AvailabilityChecker
	mode      AdmissionMode
	locker    SlotLocker
	txManager TransactionManager
	logger    Logger
}

// NewGate создает gate. Для строгого режима нужны locker и txManager.
func NewGate(
	checker AvailabilityChecker,
	mode AdmissionMode,
	locker SlotLocker,
	txManager TransactionManager,
	logger Logger,
) (*Gate, error) {
	switch mode {
	case AdmissionRelaxed:
	case AdmissionStrict:
		if locker == nil || txManager == nil {
			return nil, fmt.Errorf("%w: strict mode requires a slot locker and a transaction manager", ErrUnknownAdmissionMode)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAdmissionMode, mode)
	}

	return &Gate{
		checker:   checker,
		mode:      mode,
		locker:    locker,
		txManager: txManager,
		logger:    logger,
	}, nil
}

// Mode возвращает режим допуска
func (g *Gate) Mode() AdmissionMode {
	return g.mode
}

// Admit проверяет слот и выполняет write, если место есть.
// Возвращает ErrSlotUnavailable, если слот занят.
func (g *Gate) Admit(ctx context.Context, date time.Time, t types.TimeString, write func(ctx context.Context) error) error {
	if g.mode == AdmissionRelaxed {
		return g.checkAndWrite(ctx, date, t, write)
	}

	key := LockKey(date, t)
	unlock, err := g.locker.Lock(ctx, key)
	if err != nil {
		g.logger.Warn("Admit: failed to lock slot %s: %v", key, err)
		return fmt.Errorf("%w: slot %s is busy: %v", ErrSlotUnavailable, key, err)
	}
	defer unlock()

	err = g.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		return g.checkAndWrite(txCtx, date, t, write)
	})
	if isSerializationFailure(err) {
		g.logger.Warn("Admit: serialization failure on slot %s: %v", key, err)
		return fmt.Errorf("%w: concurrent admission on slot %s", ErrSlotUnavailable, key)
	}
	return err
}

func (g *Gate) checkAndWrite(ctx context.Context, date time.Time, t types.TimeString, write func(ctx context.Context) error) error {
	available, err := g.checker.IsSlotAvailable(ctx, date, t)
	if err != nil {
		return err
	}
	if !available {
		return ErrSlotUnavailable
	}
	return write(ctx)
}

// LockKey ключ блокировки слота
func LockKey(date time.Time, t types.TimeString) string {
	return "slot:" + domain.DateOnly(date).Format(domain.DateFormat) + ":" + t.String()
}

func isSerializationFailure(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == serializationFailureCode
}

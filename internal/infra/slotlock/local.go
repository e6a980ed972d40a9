package slotlock

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// LocalLocker блокировка слота в пределах одного процесса
type LocalLocker struct {
	mu    sync.Mutex
	slots map[string]*slot
	wait  time.Duration
}

type slot struct {
	ch      chan struct{}
	holders int
}

// NewLocalLocker создает блокировщик. wait <= 0 означает ожидание до отмены контекста.
func NewLocalLocker(wait time.Duration) *LocalLocker {
	return &LocalLocker{slots: make(map[string]*slot), wait: wait}
}

// Lock захватывает слот key
func (l *LocalLocker) Lock(ctx context.Context, key string) (func(), error) {
	s := l.acquire(key)

	var timeout <-chan time.Time
	if l.wait > 0 {
		timer := time.NewTimer(l.wait)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case s.ch <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-s.ch
				l.release(key)
			})
		}, nil
	case <-ctx.Done():
		l.release(key)
		return nil, ctx.Err()
	case <-timeout:
		l.release(key)
		return nil, fmt.Errorf("%w: %s", ErrLockTimeout, key)
	}
}

// acquire регистрирует интерес к ключу, чтобы запись не удалили, пока кто-то ждёт
func (l *LocalLocker) acquire(key string) *slot {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.holders++
	return s
}

func (l *LocalLocker) release(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.slots[key]
	if !ok {
		return
	}
	s.holders--
	if s.holders == 0 {
		delete(l.slots, key)
	}
}

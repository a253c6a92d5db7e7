package workerpool

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// Ошибки пула
var (
	ErrPoolClosed = errors.New("worker pool is closed")
)

// TaskFunc представляет блокирующую функцию, выполняемую в пуле
type TaskFunc func(ctx context.Context) (interface{}, error)

// Pool ограничивает количество одновременно выполняемых блокирующих вызовов.
// Обработчик HTTP отдает вызов пулу и ждет результат, поэтому зависший
// внешний провайдер занимает слот пула, а не планировщик запросов.
type Pool struct {
	slots   chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	closed  bool
	closing chan struct{}
}

// New создает пул с указанным количеством слотов
func New(size int) *Pool {
	if size <= 0 {
		size = 1
	}
	return &Pool{
		slots:   make(chan struct{}, size),
		closing: make(chan struct{}),
	}
}

// result — внутренняя пара результата задачи
type result struct {
	value interface{}
	err   error
}

// Submit выполняет fn в горутине пула и синхронно ждет результат.
// Ожидание слота отменяется ctx вызывающего; уже запущенная задача
// выполняется до конца — механизм отмены для нее не предусмотрен.
func (p *Pool) Submit(ctx context.Context, fn TaskFunc) (interface{}, error) {
	select {
	case <-p.closing:
		return nil, ErrPoolClosed
	default:
	}

	select {
	case p.slots <- struct{}{}:
	case <-p.closing:
		return nil, ErrPoolClosed
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for worker slot: %w", ctx.Err())
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		<-p.slots
		return nil, ErrPoolClosed
	}
	p.wg.Add(1)
	p.mu.Unlock()

	resultCh := make(chan result, 1)
	go func() {
		defer p.wg.Done()
		defer func() { <-p.slots }()
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Msg("worker pool task panicked")
				resultCh <- result{err: fmt.Errorf("task panicked: %v", r)}
			}
		}()

		// Задача получает свой контекст: отключение клиента не должно
		// обрывать уже отправленный внешний вызов.
		value, err := fn(context.Background())
		resultCh <- result{value: value, err: err}
	}()

	res := <-resultCh
	return res.value, res.err
}

// Shutdown запрещает новые задачи и ждет завершения запущенных
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.closing)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info().Msg("worker pool drained")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("worker pool shutdown: %w", ctx.Err())
	}
}

package worker

import (
	"context"
	"net"
	"sync"

	"github.com/trsv-dev/simple-web-server/internal/logger"
)

// QueueFactor Во сколько раз очередь по умолчанию больше числа воркеров.
const QueueFactor = 20

type WorkerPool interface {
	Start(ctx context.Context)
	Stop()
	Submit(conn net.Conn) bool
}

// ConnWorkerPool Пул воркеров, обрабатывающих принятые соединения.
// Очередь ограничена: Submit не блокируется и возвращает false, если места нет.
type ConnWorkerPool struct {
	tasks      chan net.Conn
	workerFunc func(ctx context.Context, conn net.Conn)
	poolSize   int
	wg         sync.WaitGroup
	stopOnce   sync.Once
}

// NewConnWorkerPool Конструктор. queueSize <= 0 - poolSize*QueueFactor.
func NewConnWorkerPool(poolSize, queueSize int, workerFunc func(ctx context.Context, conn net.Conn)) *ConnWorkerPool {
	if poolSize <= 0 {
		poolSize = 1
	}

	if queueSize <= 0 {
		queueSize = poolSize * QueueFactor
	}

	return &ConnWorkerPool{
		tasks:      make(chan net.Conn, queueSize),
		poolSize:   poolSize,
		workerFunc: workerFunc,
	}
}

func (wp *ConnWorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.poolSize; i++ {
		wp.wg.Add(1)
		go wp.worker(ctx, i)
	}
}

// Stop Закрывает очередь и ждёт воркеров. Соединения, которые остались в очереди
// после отмены контекста, закрываются без обработки. Повторный вызов ничего не делает.
func (wp *ConnWorkerPool) Stop() {
	wp.stopOnce.Do(func() {
		close(wp.tasks)
		wp.wg.Wait()

		for conn := range wp.tasks {
			_ = conn.Close()
		}
	})
}

// Submit Ставит соединение в очередь. Вызывать Submit после Stop нельзя.
func (wp *ConnWorkerPool) Submit(conn net.Conn) bool {
	select {
	case wp.tasks <- conn:
		return true
	default:
		// очередь переполнена
		return false
	}
}

func (wp *ConnWorkerPool) worker(ctx context.Context, id int) {
	defer wp.wg.Done()

	for {
		// после отмены контекста новые соединения из очереди не берутся
		if ctx.Err() != nil {
			logger.Log.Debug("Завершение работы воркера по контексту", logger.Int("conn_worker_id", id))
			return
		}

		select {
		case <-ctx.Done():
			logger.Log.Debug("Завершение работы воркера по контексту", logger.Int("conn_worker_id", id))
			return
		case conn, ok := <-wp.tasks:
			if !ok {
				logger.Log.Debug("Очередь соединений закрыта. Завершение работы воркера", logger.Int("conn_worker_id", id))
				return
			}

			wp.workerFunc(ctx, conn)
		}
	}
}

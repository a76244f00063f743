package worker

import (
	"context"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/trsv-dev/simple-web-server/internal/logger"
)

func init() {
	logger.InitLogger("error", "stdout")
}

// trackingConn Соединение-заглушка с номером, которое запоминает вызов Close.
type trackingConn struct {
	net.Conn
	id     int
	closed atomic.Bool
}

func (c *trackingConn) Close() error {
	c.closed.Store(true)
	return nil
}

func newConn(id int) *trackingConn {
	return &trackingConn{id: id}
}

// TestConnWorkerPool_Start_Stop Проверяет корректный запуск и остановку пула воркеров.
func TestConnWorkerPool_Start_Stop(t *testing.T) {
	tests := []struct {
		name     string
		poolSize int
		expected int
	}{
		{name: "Один воркер", poolSize: 1, expected: 1},
		{name: "Несколько воркеров", poolSize: 5, expected: 5},
		{name: "Нулевой размер превращается в одного воркера", poolSize: 0, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := NewConnWorkerPool(tt.poolSize, 0, func(ctx context.Context, conn net.Conn) {})

			pool.Start(context.Background())
			pool.Stop()

			assert.Equal(t, tt.expected, pool.poolSize)
			assert.Equal(t, tt.expected*QueueFactor, cap(pool.tasks))
		})
	}
}

// TestConnWorkerPool_Submit_Success Проверяет что все принятые соединения обрабатываются.
func TestConnWorkerPool_Submit_Success(t *testing.T) {
	tests := []struct {
		name       string
		tasksCount int
		poolSize   int
	}{
		{name: "Одно соединение", tasksCount: 1, poolSize: 2},
		{name: "Много соединений", tasksCount: 30, poolSize: 2},
		{name: "Соединений меньше, чем воркеров", tasksCount: 2, poolSize: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			processedCount := atomic.Int32{}
			wg := sync.WaitGroup{}
			wg.Add(tt.tasksCount)

			pool := NewConnWorkerPool(tt.poolSize, 0, func(ctx context.Context, conn net.Conn) {
				defer wg.Done()
				processedCount.Add(1)
				time.Sleep(5 * time.Millisecond)
			})
			pool.Start(context.Background())

			for i := 0; i < tt.tasksCount; i++ {
				assert.True(t, pool.Submit(newConn(i)))
			}

			wg.Wait()
			pool.Stop()

			assert.Equal(t, int32(tt.tasksCount), processedCount.Load())
		})
	}
}

// TestConnWorkerPool_Submit_QueueFull Проверяет отказ в приёме при переполнении очереди.
func TestConnWorkerPool_Submit_QueueFull(t *testing.T) {
	blockCh := make(chan struct{})
	// обработчик вызывается для всех пяти принятых соединений
	started := make(chan struct{}, 5)

	pool := NewConnWorkerPool(2, 3, func(ctx context.Context, conn net.Conn) {
		started <- struct{}{}
		<-blockCh
	})
	pool.Start(context.Background())

	// два соединения заняли воркеров
	assert.True(t, pool.Submit(newConn(0)))
	assert.True(t, pool.Submit(newConn(1)))
	<-started
	<-started

	successCount := 0
	failCount := 0
	for i := 2; i < 10; i++ {
		if pool.Submit(newConn(i)) {
			successCount++
		} else {
			failCount++
		}
	}

	assert.Equal(t, 3, successCount)
	assert.Equal(t, 5, failCount)

	close(blockCh)
	pool.Stop()
}

// TestConnWorkerPool_ContextCancellation Проверяет что после отмены контекста
// оставшиеся в очереди соединения закрываются без обработки.
func TestConnWorkerPool_ContextCancellation(t *testing.T) {
	blockCh := make(chan struct{})
	started := make(chan struct{}, 1)
	processed := atomic.Int32{}

	pool := NewConnWorkerPool(1, 10, func(ctx context.Context, conn net.Conn) {
		processed.Add(1)
		started <- struct{}{}
		<-blockCh
		_ = conn.Close()
	})

	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)

	conns := make([]*trackingConn, 5)
	for i := range conns {
		conns[i] = newConn(i)
		assert.True(t, pool.Submit(conns[i]))
	}

	<-started
	cancel()
	close(blockCh)

	pool.Stop()

	assert.Equal(t, int32(1), processed.Load())
	for _, conn := range conns {
		assert.True(t, conn.closed.Load(), "соединение %d не закрыто", conn.id)
	}
}

// TestConnWorkerPool_ProcessingOrder Проверяет обработку в порядке приёма (FIFO).
func TestConnWorkerPool_ProcessingOrder(t *testing.T) {
	var processedIDs []int
	var mu sync.Mutex

	pool := NewConnWorkerPool(1, 0, func(ctx context.Context, conn net.Conn) {
		mu.Lock()
		defer mu.Unlock()
		processedIDs = append(processedIDs, conn.(*trackingConn).id)
	})
	pool.Start(context.Background())

	expectedIDs := []int{1, 2, 3, 4, 5}
	for _, id := range expectedIDs {
		pool.Submit(newConn(id))
	}

	pool.Stop()

	assert.Equal(t, expectedIDs, processedIDs)
}

// TestConnWorkerPool_ConcurrentSubmit Проверяет безопасность конкурентной отправки.
func TestConnWorkerPool_ConcurrentSubmit(t *testing.T) {
	processedCount := atomic.Int32{}
	acceptedCount := atomic.Int32{}

	pool := NewConnWorkerPool(8, 1000, func(ctx context.Context, conn net.Conn) {
		processedCount.Add(1)
	})
	pool.Start(context.Background())

	wg := sync.WaitGroup{}
	for g := 0; g < 10; g++ {
		wg.Add(1)
		go func(goroutineID int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				if pool.Submit(newConn(goroutineID*50 + i)) {
					acceptedCount.Add(1)
				}
			}
		}(g)
	}

	wg.Wait()
	pool.Stop()

	assert.Equal(t, int32(500), acceptedCount.Load())
	assert.Equal(t, acceptedCount.Load(), processedCount.Load())
}

// TestConnWorkerPool_StopWithoutStart Проверяет остановку незапущенного пула и повторный Stop.
func TestConnWorkerPool_StopWithoutStart(t *testing.T) {
	pool := NewConnWorkerPool(3, 0, func(ctx context.Context, conn net.Conn) {})

	conn := newConn(1)
	assert.True(t, pool.Submit(conn))

	assert.NotPanics(t, pool.Stop)
	assert.NotPanics(t, pool.Stop)

	assert.True(t, conn.closed.Load())
}

package server

import (
	"context"
	"errors"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/trsv-dev/simple-web-server/internal/content"
	"github.com/trsv-dev/simple-web-server/internal/errs"
	"github.com/trsv-dev/simple-web-server/internal/handler"
	"github.com/trsv-dev/simple-web-server/internal/logger"
	"github.com/trsv-dev/simple-web-server/internal/mimetypes"
	"github.com/trsv-dev/simple-web-server/internal/worker"
	"golang.org/x/sync/errgroup"
)

//go:generate mockgen -destination=mocks/conn_handler_mock.go -package=mocks . ConnHandler

const (
	DefaultBacklog  = 10
	DefaultPoolSize = 64

	acceptRetryDelay = 50 * time.Millisecond
)

// ConnHandler Обработчик одного принятого соединения. Serve обязан закрыть соединение.
type ConnHandler interface {
	Serve(ctx context.Context, conn net.Conn)
}

// Config Параметры сервера, неизменные после запуска.
type Config struct {
	Timeout             time.Duration
	PoolSize            int
	QueueSize           int
	SilentOnMissingFile bool
	Types               mimetypes.Table
}

// Server Принимает соединения и раздаёт их пулу обработчиков.
type Server struct {
	cfg        Config
	newHandler func(root *content.Root) ConnHandler

	mu             sync.Mutex
	running        bool
	listener       net.Listener
	stopAccept     context.CancelFunc
	cancelHandlers context.CancelFunc
	group          *errgroup.Group
	drained        chan struct{}
}

// NewServer Создание нового сервера.
func NewServer(cfg Config) *Server {
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = DefaultPoolSize
	}

	if cfg.Types == nil {
		cfg.Types = mimetypes.Default()
	}

	s := &Server{cfg: cfg}
	s.newHandler = func(root *content.Root) ConnHandler {
		return handler.New(root, handler.Options{
			Timeout:             cfg.Timeout,
			SilentOnMissingFile: cfg.SilentOnMissingFile,
			Types:               cfg.Types,
		})
	}

	return s
}

// Start Открывает сокет и запускает цикл приёма соединений в отдельной горутине.
// При ошибке ничего не запускается и состояние сервера не меняется.
func (s *Server) Start(address string, port, backlog int, contentRoot string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errs.ErrAlreadyRunning
	}

	if backlog <= 0 {
		backlog = DefaultBacklog
	}

	root, err := content.NewRoot(contentRoot)
	if err != nil {
		return err
	}

	ln, err := listen(address, port, backlog)
	if err != nil {
		return errs.NewErrListen(net.JoinHostPort(address, strconv.Itoa(port)), err)
	}

	// обработчики не отменяются при Stop, только при истечении Shutdown
	handlersCtx, cancelHandlers := context.WithCancel(context.Background())
	pool := worker.NewConnWorkerPool(s.cfg.PoolSize, s.cfg.QueueSize, s.newHandler(root).Serve)
	pool.Start(handlersCtx)

	acceptCtx, stopAccept := context.WithCancel(context.Background())
	group, groupCtx := errgroup.WithContext(acceptCtx)

	group.Go(func() error {
		return acceptLoop(groupCtx, ln, pool)
	})
	group.Go(func() error {
		<-groupCtx.Done()
		if err := ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			return err
		}
		return nil
	})

	drained := make(chan struct{})
	go func() {
		// пул останавливается после выхода цикла приёма, чтобы Submit не попал в закрытую очередь
		_ = group.Wait()
		pool.Stop()
		cancelHandlers()
		close(drained)
	}()

	s.running = true
	s.listener = ln
	s.stopAccept = stopAccept
	s.cancelHandlers = cancelHandlers
	s.group = group
	s.drained = drained

	logger.Log.Info("Сервер запущен",
		logger.String("address", ln.Addr().String()),
		logger.String("content_root", root.Dir()),
		logger.Int("backlog", backlog),
		logger.Int("workers", s.cfg.PoolSize),
		logger.String("extensions", strings.Join(s.cfg.Types.Extensions(), ",")),
	)

	return nil
}

// Stop Прекращает приём соединений и закрывает сокет. Обработчики, уже получившие
// соединение, не прерываются и не ожидаются. Повторный вызов ничего не делает.
func (s *Server) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
}

func (s *Server) stopLocked() {
	if !s.running {
		return
	}

	s.running = false
	s.stopAccept()

	if err := s.group.Wait(); err != nil {
		logger.Log.Warn("Ошибка закрытия сокета", logger.Err(err))
	}

	s.listener = nil
	logger.Log.Info("Сервер остановлен, новые соединения не принимаются")
}

// Shutdown Останавливает приём и ждёт завершения обработчиков. Если ctx истёк раньше,
// незавершённые обработчики прерываются и возвращается ошибка контекста.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.stopLocked()
	drained, cancelHandlers := s.drained, s.cancelHandlers
	s.mu.Unlock()

	if drained == nil {
		return nil
	}

	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		logger.Log.Warn("Таймаут ожидания обработчиков, соединения прерываются")
		cancelHandlers()
		<-drained
		return ctx.Err()
	}
}

// Addr Адрес, на котором слушает сервер, или nil если он остановлен.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return nil
	}

	return s.listener.Addr()
}

// acceptLoop Принимает соединения, пока не отменён ctx. Соединение, которому
// не хватило места в очереди пула, сразу закрывается.
func acceptLoop(ctx context.Context, ln net.Listener, pool worker.WorkerPool) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}

			logger.Log.Warn("Ошибка приёма соединения", logger.Err(err))

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(acceptRetryDelay):
			}

			continue
		}

		if !pool.Submit(conn) {
			logger.Log.Warn("Очередь соединений переполнена, соединение закрыто",
				logger.String("remote_addr", conn.RemoteAddr().String()))
			_ = conn.Close()
		}
	}
}

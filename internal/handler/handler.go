package handler

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/trsv-dev/simple-web-server/internal/content"
	"github.com/trsv-dev/simple-web-server/internal/errs"
	"github.com/trsv-dev/simple-web-server/internal/logger"
	"github.com/trsv-dev/simple-web-server/internal/mimetypes"
	"github.com/trsv-dev/simple-web-server/internal/request"
	"github.com/trsv-dev/simple-web-server/internal/response"
)

// DefaultTimeout Таймаут чтения и записи соединения по умолчанию.
const DefaultTimeout = 8000 * time.Millisecond

var supportedMethods = []string{"GET", "POST"}

// errSilentClose Ответ не отправляется, соединение просто закрывается.
var errSilentClose = errors.New("соединение закрыто без ответа")

// Options Параметры обработки соединений.
type Options struct {
	// Timeout Дедлайн на чтение запроса и на запись ответа. <= 0 - DefaultTimeout.
	Timeout time.Duration
	// SilentOnMissingFile Закрывать соединение без ответа, если файла с известным расширением нет,
	// вместо ответа 404.
	SilentOnMissingFile bool
	// Types Таблица MIME-типов. nil - mimetypes.Default().
	Types mimetypes.Table
}

// Handler Обрабатывает ровно один запрос на соединение и закрывает его.
type Handler struct {
	root    *content.Root
	types   mimetypes.Table
	timeout time.Duration
	silent  bool
}

// New Конструктор.
func New(root *content.Root, opts Options) *Handler {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	if opts.Types == nil {
		opts.Types = mimetypes.Default()
	}

	return &Handler{
		root:    root,
		types:   opts.Types,
		timeout: opts.Timeout,
		silent:  opts.SilentOnMissingFile,
	}
}

// Serve Читает запрос, отправляет один ответ и закрывает соединение.
// Отмена ctx прерывает незавершённые чтение и запись.
func (h *Handler) Serve(ctx context.Context, conn net.Conn) {
	start := time.Now()
	connID := uuid.NewString()

	defer func() {
		if err := conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			logger.Log.Debug("Ошибка закрытия соединения", logger.String("conn_id", connID), logger.Err(err))
		}
	}()

	dl := &deadlines{conn: conn, timeout: h.timeout}
	stop := context.AfterFunc(ctx, dl.cancel)
	defer stop()

	req, resp, written, err := h.serve(conn, dl)

	fields := []logger.Field{
		logger.String("conn_id", connID),
		logger.String("remote_addr", remoteAddr(conn)),
		logger.Duration("duration", time.Since(start)),
	}
	if req != nil {
		fields = append(fields, logger.String("method", req.Method), logger.String("path", req.Path))
	}

	var malformed *errs.ErrMalformedRequest

	switch {
	case err == nil:
		fields = append(fields, logger.Int("status", resp.Status.Code), logger.Int64("bytes_written", written))
		logger.Log.Debug("Запрос обработан", fields...)
	case errors.As(err, &malformed):
		logger.Log.Debug("Некорректный запрос, соединение закрыто без ответа", append(fields, logger.Err(err))...)
	default:
		logger.Log.Warn("Ошибка обработки соединения", append(fields, logger.Err(err))...)
	}
}

// serve Полный цикл одного соединения. Возвращает число отправленных байт.
// Ошибка означает что ответ не был отправлен целиком.
func (h *Handler) serve(conn net.Conn, dl *deadlines) (*request.Request, *response.Response, int64, error) {
	if err := dl.setRead(); err != nil {
		return nil, nil, 0, fmt.Errorf("установка дедлайна чтения: %w", err)
	}

	buf := make([]byte, request.MaxSize)

	n, err := conn.Read(buf)
	if n == 0 && err != nil {
		return nil, nil, 0, errs.NewErrMalformedRequest("ошибка чтения запроса", err)
	}

	req, err := request.Parse(buf[:n])
	if err != nil {
		return nil, nil, 0, err
	}

	resp, err := h.Respond(req)
	if err != nil {
		return req, nil, 0, err
	}

	if err = dl.setWrite(); err != nil {
		return req, nil, 0, fmt.Errorf("установка дедлайна записи: %w", err)
	}

	written, err := resp.WriteTo(conn)
	if err != nil {
		return req, nil, written, fmt.Errorf("отправка ответа: %w", err)
	}

	return req, resp, written, nil
}

// Respond Выбирает ответ на разобранный запрос. Ошибка означает что соединение
// закрывается без ответа.
func (h *Handler) Respond(req *request.Request) (*response.Response, error) {
	if !lo.Contains(supportedMethods, req.Method) {
		return response.NotImplemented(), nil
	}

	cleanPath, err := content.Clean(req.Path)
	if err != nil {
		return h.notFound(req, err), nil
	}

	ext, hasExt := content.Extension(cleanPath)
	if !hasExt {
		_, body, err := h.root.ReadIndex(cleanPath)
		if err != nil {
			return h.readFailed(req, err, false)
		}

		return response.OK(body, "text/html"), nil
	}

	mimeType, ok := h.types.Lookup(ext)
	if !ok {
		return response.NotFound(), nil
	}

	body, err := h.root.ReadFile(cleanPath)
	if err != nil {
		return h.readFailed(req, err, h.silent)
	}

	return response.OK(body, mimeType), nil
}

// readFailed Отсутствующий файл - 404 или закрытие без ответа; прочие ошибки чтения - закрытие без ответа.
func (h *Handler) readFailed(req *request.Request, err error, silent bool) (*response.Response, error) {
	var escape *errs.ErrPathEscapesRoot

	switch {
	case errors.As(err, &escape):
		return h.notFound(req, err), nil
	case content.IsNotExist(err) && !silent:
		return response.NotFound(), nil
	case content.IsNotExist(err):
		return nil, fmt.Errorf("%w: файл %s не найден", errSilentClose, req.Path)
	default:
		return nil, fmt.Errorf("%w: чтение %s: %w", errSilentClose, req.Path, err)
	}
}

// notFound 404 на путь, который не удалось безопасно разрешить.
func (h *Handler) notFound(req *request.Request, err error) *response.Response {
	logger.Log.Warn("Отклонён путь запроса", logger.String("target", req.Target), logger.Err(err))

	return response.NotFound()
}

// deadlines Дедлайны соединения. После cancel новые дедлайны не выставляются,
// чтобы не перезаписать уже прерванное ожидание.
type deadlines struct {
	mu        sync.Mutex
	conn      net.Conn
	timeout   time.Duration
	cancelled bool
}

func (d *deadlines) cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.cancelled = true
	_ = d.conn.SetDeadline(time.Now())
}

func (d *deadlines) setRead() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cancelled {
		return context.Canceled
	}

	return d.conn.SetReadDeadline(time.Now().Add(d.timeout))
}

func (d *deadlines) setWrite() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cancelled {
		return context.Canceled
	}

	return d.conn.SetWriteDeadline(time.Now().Add(d.timeout))
}

func remoteAddr(conn net.Conn) string {
	if addr := conn.RemoteAddr(); addr != nil {
		return addr.String()
	}

	return ""
}

package errs

import "fmt"

// ErrMalformedRequest Кастомная ошибка, сообщающая о том, что строку запроса не удалось разобрать.
// Соединение с таким запросом закрывается без ответа.
type ErrMalformedRequest struct {
	Reason string
	Err    error
}

func (mr *ErrMalformedRequest) Error() string {
	if mr.Err == nil {
		return fmt.Sprintf("Некорректный запрос: %s", mr.Reason)
	}

	return fmt.Sprintf("Некорректный запрос: %s. Ошибка: %v", mr.Reason, mr.Err)
}

func (mr *ErrMalformedRequest) Unwrap() error {
	return mr.Err
}

func NewErrMalformedRequest(reason string, err error) *ErrMalformedRequest {
	return &ErrMalformedRequest{
		Reason: reason,
		Err:    err,
	}
}

// ErrPathEscapesRoot Кастомная ошибка, сообщающая о попытке выйти за пределы каталога контента.
type ErrPathEscapesRoot struct {
	Path string
}

func (pe *ErrPathEscapesRoot) Error() string {
	return fmt.Sprintf("Путь `%s` выходит за пределы каталога контента", pe.Path)
}

func NewErrPathEscapesRoot(path string) *ErrPathEscapesRoot {
	return &ErrPathEscapesRoot{
		Path: path,
	}
}

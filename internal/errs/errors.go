package errs

import (
	"errors"
	"fmt"
)

// ErrAlreadyRunning Сервер уже запущен, повторный Start не выполняется.
var ErrAlreadyRunning = errors.New("сервер уже запущен")

// ErrListen Кастомная ошибка, сообщающая о том, что не удалось открыть, привязать или слушать сокет.
type ErrListen struct {
	Address string
	Err     error
}

func (le *ErrListen) Error() string {
	return fmt.Sprintf("Не удалось начать прослушивание %s. Ошибка: %v", le.Address, le.Err)
}

func (le *ErrListen) Unwrap() error {
	return le.Err
}

func NewErrListen(address string, err error) *ErrListen {
	return &ErrListen{
		Address: address,
		Err:     err,
	}
}

// ErrContentRoot Кастомная ошибка, сообщающая о том, что корневой каталог контента недоступен.
type ErrContentRoot struct {
	Path string
	Err  error
}

func (cr *ErrContentRoot) Error() string {
	return fmt.Sprintf("Каталог контента %s недоступен. Ошибка: %v", cr.Path, cr.Err)
}

func (cr *ErrContentRoot) Unwrap() error {
	return cr.Err
}

func NewErrContentRoot(path string, err error) *ErrContentRoot {
	if err == nil {
		err = fmt.Errorf("не является каталогом")
	}

	return &ErrContentRoot{
		Path: path,
		Err:  err,
	}
}

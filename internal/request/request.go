// Package request Разбор строки HTTP-запроса.
package request

import (
	"bytes"
	"strings"

	"github.com/trsv-dev/simple-web-server/internal/errs"
)

// MaxSize Размер буфера, который читается из соединения одним вызовом Read (10 КиБ).
const MaxSize = 10 * 1024

// Request Разобранная строка запроса. Заголовки и тело не разбираются.
type Request struct {
	Method string
	Target string
	Path   string
	Query  string
	Proto  string
}

// Parse Разбирает первую строку запроса вида "METHOD TARGET HTTP/x.y".
// Невалидный UTF-8 заменяется на U+FFFD. Строка делится на токены по пробельным символам,
// токенов должно быть ровно три, лишние пробелы между ними и по краям допускаются.
func Parse(raw []byte) (*Request, error) {
	if len(raw) == 0 {
		return nil, errs.NewErrMalformedRequest("пустой запрос", nil)
	}

	line := raw
	if i := bytes.IndexByte(raw, '\n'); i >= 0 {
		line = raw[:i]
	}

	text := strings.ToValidUTF8(strings.TrimSuffix(string(line), "\r"), "�")

	parts := strings.Fields(text)
	if len(parts) != 3 {
		return nil, errs.NewErrMalformedRequest("строка запроса должна состоять из трёх частей", nil)
	}

	method, target, proto := parts[0], parts[1], parts[2]

	if !strings.HasPrefix(proto, "HTTP/") {
		return nil, errs.NewErrMalformedRequest("неизвестная версия протокола `"+proto+"`", nil)
	}

	path, query, _ := strings.Cut(target, "?")

	return &Request{
		Method: method,
		Target: target,
		Path:   path,
		Query:  query,
		Proto:  proto,
	}, nil
}

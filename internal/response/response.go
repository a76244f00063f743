package response

import (
	"io"
	"net"
	"strconv"
)

const ServerName = "Simple Web Server"

// Status Код ответа и строка статуса, которая уходит в первой строке ответа.
type Status struct {
	Code int
	Text string
}

func (s Status) String() string {
	return strconv.Itoa(s.Code) + " " + s.Text
}

var (
	StatusOK             = Status{Code: 200, Text: "OK"}
	StatusNotFound       = Status{Code: 404, Text: "Not Found"}
	StatusNotImplemented = Status{Code: 501, Text: "Not Implemented"}
)

const (
	notFoundPage       = `<html><head><meta http-equiv="Content-Type" content="text/html; charset=utf-8"></head><body><h2>Simple Web Server</h2><div>404 - Not Found</div></body></html>`
	notImplementedPage = `<html><head><meta http-equiv="Content-Type" content="text/html; charset=utf-8"></head><body><h2>Simple Web Server</h2><div>501 - Method Not Implemented</div></body></html>`
)

// Response Единственный ответ, который получает соединение.
type Response struct {
	Status      Status
	ContentType string
	Body        []byte
}

// OK Шаблон успешного ответа с содержимым файла.
func OK(body []byte, contentType string) *Response {
	return &Response{Status: StatusOK, ContentType: contentType, Body: body}
}

// NotFound Шаблон ответа 404 с фиксированной HTML-страницей.
func NotFound() *Response {
	return &Response{Status: StatusNotFound, ContentType: "text/html", Body: []byte(notFoundPage)}
}

// NotImplemented Шаблон ответа 501 с фиксированной HTML-страницей.
func NotImplemented() *Response {
	return &Response{Status: StatusNotImplemented, ContentType: "text/html", Body: []byte(notImplementedPage)}
}

// Header Заголовок ответа. Порядок и набор заголовков фиксированы.
func (r *Response) Header() []byte {
	header := make([]byte, 0, 128)
	header = append(header, "HTTP/1.1 "...)
	header = append(header, r.Status.String()...)
	header = append(header, "\r\nServer: "+ServerName+"\r\nContent-Length: "...)
	header = strconv.AppendInt(header, int64(len(r.Body)), 10)
	header = append(header, "\r\nConnection: close\r\nContent-Type: "...)
	header = append(header, r.ContentType...)
	header = append(header, "\r\n\r\n"...)

	return header
}

// WriteTo Пишет заголовок и тело. Для net.Conn это один writev.
func (r *Response) WriteTo(w io.Writer) (int64, error) {
	buffers := net.Buffers{r.Header(), r.Body}
	return buffers.WriteTo(w)
}

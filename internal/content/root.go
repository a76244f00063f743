// Package content Отображение путей запроса на файлы внутри каталога контента.
//
// Любой путь сначала очищается лексически относительно "/", затем присоединяется
// к каноническому корню и проверяется: результат, в том числе после раскрытия
// символических ссылок, обязан остаться внутри корня.
package content

import (
	"errors"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/trsv-dev/simple-web-server/internal/errs"
)

// IndexFiles Имена индексных файлов каталога в порядке проверки.
var IndexFiles = []string{"index.htm", "index.html"}

// Root Канонический (абсолютный, без символических ссылок) каталог контента.
type Root struct {
	dir string
}

// NewRoot Проверяет что каталог существует и приводит его путь к каноническому виду.
func NewRoot(dir string) (*Root, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errs.NewErrContentRoot(dir, err)
	}

	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, errs.NewErrContentRoot(dir, err)
	}

	info, err := os.Stat(canonical)
	if err != nil {
		return nil, errs.NewErrContentRoot(dir, err)
	}
	if !info.IsDir() {
		return nil, errs.NewErrContentRoot(dir, nil)
	}

	return &Root{dir: canonical}, nil
}

// Dir Канонический путь корня.
func (r *Root) Dir() string {
	return r.dir
}

// Clean Декодирует percent-encoding и приводит путь запроса к виду "/a/b".
// Обратный слеш считается разделителем, ".." не может подняться выше "/".
func Clean(requestPath string) (string, error) {
	decoded, err := url.PathUnescape(requestPath)
	if err != nil {
		return "", err
	}

	if strings.IndexByte(decoded, 0) >= 0 {
		return "", errs.NewErrPathEscapesRoot(requestPath)
	}

	decoded = strings.ReplaceAll(decoded, `\`, "/")

	return path.Clean("/" + decoded), nil
}

// Extension Текст после последней точки в последнем элементе пути.
// Второй результат false, если точки нет: такой путь считается каталогом.
func Extension(cleanPath string) (string, bool) {
	base := path.Base(cleanPath)

	i := strings.LastIndexByte(base, '.')
	if i < 0 {
		return "", false
	}

	return base[i+1:], true
}

// Resolve Путь в файловой системе для очищенного пути запроса.
func (r *Root) Resolve(cleanPath string) (string, error) {
	full := filepath.Join(r.dir, filepath.FromSlash(cleanPath))
	if !r.contains(full) {
		return "", errs.NewErrPathEscapesRoot(cleanPath)
	}

	resolved, err := filepath.EvalSymlinks(full)
	switch {
	case err == nil:
		if !r.contains(resolved) {
			return "", errs.NewErrPathEscapesRoot(cleanPath)
		}
		return resolved, nil
	case IsNotExist(err):
		// файла нет, чтение вернёт ErrNotExist
		return full, nil
	default:
		return "", err
	}
}

// ReadFile Читает файл целиком. Каталог вместо файла считается отсутствующим файлом.
func (r *Root) ReadFile(cleanPath string) ([]byte, error) {
	full, err := r.Resolve(cleanPath)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(full)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, &fs.PathError{Op: "read", Path: cleanPath, Err: fs.ErrNotExist}
	}

	return os.ReadFile(full)
}

// ReadIndex Ищет index.htm, затем index.html в каталоге и возвращает первый найденный.
func (r *Root) ReadIndex(cleanDir string) (string, []byte, error) {
	for _, name := range IndexFiles {
		body, err := r.ReadFile(path.Join(cleanDir, name))
		if err == nil {
			return name, body, nil
		}
		if !IsNotExist(err) {
			return "", nil, err
		}
	}

	return "", nil, &fs.PathError{Op: "index", Path: cleanDir, Err: fs.ErrNotExist}
}

// IsNotExist Файл отсутствует, или один из элементов пути не является каталогом.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}

func (r *Root) contains(p string) bool {
	rel, err := filepath.Rel(r.dir, p)
	if err != nil {
		return false
	}

	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

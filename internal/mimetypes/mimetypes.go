// Package mimetypes Таблица соответствия расширений файлов и MIME-типов.
package mimetypes

import (
	"slices"

	"github.com/samber/lo"
)

// Table Расширение в нижнем регистре без точки -> MIME-тип.
type Table map[string]string

var defaultTable = Table{
	"htm":  "text/html",
	"html": "text/html",
	"xml":  "text/xml",
	"txt":  "text/plain",
	"css":  "text/css",
	"png":  "image/png",
	"gif":  "image/gif",
	"jpg":  "image/jpg",
	"jpeg": "image/jpeg",
	"zip":  "application/zip",
}

// Default Возвращает копию стандартной таблицы из десяти расширений.
func Default() Table {
	return lo.Assign(defaultTable)
}

// Lookup Ищет MIME-тип по расширению. Поиск чувствителен к регистру: "HTML" не найдётся.
func (t Table) Lookup(ext string) (string, bool) {
	mimeType, ok := t[ext]
	return mimeType, ok
}

// Extensions Отсортированный список поддерживаемых расширений.
func (t Table) Extensions() []string {
	exts := lo.Keys(t)
	slices.Sort(exts)

	return exts
}

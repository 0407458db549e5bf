// Package upload сохраняет файлы из multipart-формы во временный каталог.
// Вызывающий обязан удалить файлы через Files.Cleanup на любом пути выполнения.
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sort"
)

// ErrTooLarge тело запроса превышает допустимый размер.
var ErrTooLarge = errors.New("request body too large")

// Config каталог для временных файлов и максимальный размер тела запроса.
type Config struct {
	Dir     string
	MaxSize int64
}

// Files сохраненные файлы формы по именам полей.
type Files struct {
	paths map[string]string
	form  *multipart.Form
}

// Path возвращает путь к файлу поля или пустую строку.
func (f *Files) Path(field string) string {
	if f == nil {
		return ""
	}
	return f.paths[field]
}

// Cleanup удаляет все временные файлы и возвращает ошибки удаления.
func (f *Files) Cleanup() error {
	if f == nil {
		return nil
	}
	var errs []error
	if f.form != nil {
		if err := f.form.RemoveAll(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, p := range f.paths {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Parse разбирает multipart-форму и сохраняет первый файл каждого из fields.
// Если fallback не пуст и поле fallback отсутствует, берется первый файл формы
// из полей, упорядоченных по имени.
func Parse(w http.ResponseWriter, r *http.Request, cfg Config, fallback string, fields ...string) (*Files, error) {
	const op = "upload.Parse"

	if cfg.MaxSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxSize)
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("%s: %w", op, ErrTooLarge)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := os.MkdirAll(cfg.Dir, 0o750); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	files := &Files{paths: make(map[string]string), form: r.MultipartForm}
	for _, field := range fields {
		headers := r.MultipartForm.File[field]
		if len(headers) == 0 {
			continue
		}
		p, err := save(headers[0], cfg.Dir)
		if err != nil {
			_ = files.Cleanup()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		files.paths[field] = p
	}

	if fallback != "" && files.paths[fallback] == "" {
		names := make([]string, 0, len(r.MultipartForm.File))
		for name := range r.MultipartForm.File {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			headers := r.MultipartForm.File[name]
			if len(headers) == 0 {
				continue
			}
			p, err := save(headers[0], cfg.Dir)
			if err != nil {
				_ = files.Cleanup()
				return nil, fmt.Errorf("%s: %w", op, err)
			}
			files.paths[fallback] = p
			break
		}
	}
	return files, nil
}

func save(fh *multipart.FileHeader, dir string) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.CreateTemp(dir, "upload-*"+filepath.Ext(fh.Filename))
	if err != nil {
		return "", err
	}
	if _, err = io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", err
	}
	if err = dst.Close(); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return dst.Name(), nil
}

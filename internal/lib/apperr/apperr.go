// Package apperr описывает классы ошибок бизнес-уровня и их отображение
// в HTTP-статусы. Сервисы возвращают *Error с человекочитаемым сообщением,
// а граница HTTP (response.Fail) превращает их в единый JSON-ответ.
package apperr

import (
	"errors"
	"net/http"
)

// Классы ошибок. Сравнивать через errors.Is.
var (
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInternal     = errors.New("internal error")
)

// Error ошибка с классом и сообщением, которое можно показать клиенту.
// Err хранит исходную причину и в ответ не попадает.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Is позволяет errors.Is(err, apperr.ErrNotFound) и т.п.
func (e *Error) Is(target error) bool {
	return e.Kind == target
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation создает ошибку незаполненного или некорректного поля.
func Validation(msg string) error {
	return &Error{Kind: ErrValidation, Message: msg}
}

// Conflict создает ошибку нарушения уникальности username или email.
func Conflict(msg string) error {
	return &Error{Kind: ErrConflict, Message: msg}
}

// NotFound создает ошибку отсутствующего пользователя или канала.
func NotFound(msg string) error {
	return &Error{Kind: ErrNotFound, Message: msg}
}

// Unauthorized создает ошибку отсутствующего или невалидного токена.
func Unauthorized(msg string) error {
	return &Error{Kind: ErrUnauthorized, Message: msg}
}

// Internal создает внутреннюю ошибку. cause не показывается клиенту.
func Internal(msg string, cause error) error {
	return &Error{Kind: ErrInternal, Message: msg, Err: cause}
}

// StatusCode возвращает HTTP-статус для ошибки. Для неизвестных ошибок 500.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Message возвращает текст для клиента. Для *Error любого класса это его Message,
// причина (Err) не раскрывается. Для прочих ошибок общий текст.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}

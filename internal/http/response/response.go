// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков. Успешные ответы имеют вид
// {status, message, data}, ошибки {status, message} с соответствующим кодом.
package response

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/videotube/internal/lib/apperr"
)

// Response описывает стандартную структуру JSON‑ответа сервера.
// Поле Status содержит статус запроса ("OK" или "Error").
// Поле Message содержит человекочитаемое описание результата.
// Поле Data содержит данные ответа (только при успехе).
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ErrorResponse структура ошибки для Swagger-документации.
type ErrorResponse struct {
	Status  string `json:"status" example:"Error"`
	Message string `json:"message" example:"all fields are required"`
}

const (
	// StatusOK значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError значение статуса для ответа с ошибкой.
	StatusError = "Error"
)

// OK отвечает 200 с данными и сообщением.
func OK(w http.ResponseWriter, r *http.Request, data any, msg string) {
	JSON(w, r, http.StatusOK, data, msg)
}

// Created отвечает 201 с данными и сообщением.
func Created(w http.ResponseWriter, r *http.Request, data any, msg string) {
	JSON(w, r, http.StatusCreated, data, msg)
}

// JSON отвечает успешным конвертом с заданным статусом.
func JSON(w http.ResponseWriter, r *http.Request, status int, data any, msg string) {
	render.Status(r, status)
	render.JSON(w, r, Response{
		Status:  StatusOK,
		Message: msg,
		Data:    data,
	})
}

// Fail превращает ошибку в ответ с HTTP-статусом её класса.
// Для внутренних ошибок клиент получает только общее сообщение.
func Fail(w http.ResponseWriter, r *http.Request, err error) {
	render.Status(r, apperr.StatusCode(err))
	render.JSON(w, r, Error(apperr.Message(err)))
}

// Error возвращает ErrorResponse с переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status:  StatusError,
		Message: msg,
	}
}

// ValidationError формирует apperr-ошибку валидации из ошибок validator.
// Каждое нарушение формируется в человеко‑читаемый текст, объединённый через запятую.
func ValidationError(errs validator.ValidationErrors) error {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "required_without":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is required when %s is empty", err.Field(), err.Param()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not valid", err.Field()))
		}
	}
	return apperr.Validation(strings.Join(errsMsgs, ", "))
}

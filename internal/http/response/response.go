// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков. Пакет упрощает возврат
// успешных ответов, ошибок и сообщений валидации в едином формате.
package response

import (
	"fmt"

	"github.com/go-playground/validator"
)

// Response описывает стандартную структуру JSON‑ответа сервера.
// Поле Status — статус запроса ("OK" или "Error").
// Поле Error — текст ошибки (опционально, при неуспехе).
// Поле Fields — список нарушений валидации по полям (опционально).
// Поле Data — данные ответа (опционально, при успехе).
type Response struct {
	Status string       `json:"status"`
	Error  string       `json:"error,omitempty"`
	Fields []FieldError `json:"fields,omitempty"`
	Data   any          `json:"data,omitempty"`
}

// FieldError одно нарушение валидации: имя поля и человеко‑читаемое сообщение.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse — структура ошибки для Swagger-документации.
// Используется в аннотациях @Failure как возвращаемый тип ошибки.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"invalid request body"`
}

const (
	// StatusOK — значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError — значение статуса для ответа с ошибкой.
	StatusError = "Error"
)

// OK возвращает успешный Response без данных.
func OK() Response {
	return Response{Status: StatusOK}
}

// OKWithData возвращает успешный Response с переданными данными.
func OKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Error возвращает Response с ошибкой и переданным сообщением.
func Error(msg string) Response {
	return Response{
		Status: StatusError,
		Error:  msg,
	}
}

// ValidationError формирует Response со статусом Error на основе ошибок валидации.
// Каждое нарушение попадает в список Fields отдельной записью, чтобы клиент
// мог подсветить конкретные поля формы. Запись в хранилище при этом не выполняется.
func ValidationError(errs validator.ValidationErrors) Response {
	fields := make([]FieldError, 0, len(errs))

	for _, err := range errs {
		var msg string
		switch err.ActualTag() {
		case "required":
			msg = fmt.Sprintf("field %s is a required field", err.Field())
		case "email":
			msg = fmt.Sprintf("field %s must be a valid email address", err.Field())
		case "min":
			msg = fmt.Sprintf("field %s must be at least %s characters", err.Field(), err.Param())
		case "max":
			msg = fmt.Sprintf("field %s must be at most %s characters", err.Field(), err.Param())
		case "oneof":
			msg = fmt.Sprintf("field %s must be one of: %s", err.Field(), err.Param())
		case "numeric":
			msg = fmt.Sprintf("field %s can contain only numbers", err.Field())
		case "uuid":
			msg = fmt.Sprintf("field %s can contain only uuid", err.Field())
		case "gt":
			msg = fmt.Sprintf("field %s must be greater than %s", err.Field(), err.Param())
		case "gte":
			msg = fmt.Sprintf("field %s must be at least %s", err.Field(), err.Param())
		case "lte":
			msg = fmt.Sprintf("field %s must be at most %s", err.Field(), err.Param())
		default:
			msg = fmt.Sprintf("field %s is not a valid", err.Field())
		}
		fields = append(fields, FieldError{Field: err.Field(), Message: msg})
	}
	return Response{
		Status: StatusError,
		Error:  "validation failed",
		Fields: fields,
	}
}

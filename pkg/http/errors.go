package http

import (
	"fmt"
	"net/http"
)

// AppError is an error rendered into the response envelope. Status is the
// HTTP status written; Err is kept for logs only.
type AppError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Field   string                 `json:"field,omitempty"`
	Params  map[string]interface{} `json:"params,omitempty"`
	Status  int                    `json:"-"`
	Err     error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// statusCodes names the error code sent for each status.
var statusCodes = map[int]string{
	http.StatusBadRequest:          "ERR_BAD_REQUEST",
	http.StatusNotFound:            "ERR_NOT_FOUND",
	http.StatusTooManyRequests:     "ERR_RATE_LIMITED",
	http.StatusInternalServerError: "ERR_INTERNAL",
	http.StatusServiceUnavailable:  "ERR_UNAVAILABLE",
}

func NewAppError(code, field, message string, status int) *AppError {
	return &AppError{Code: code, Message: message, Field: field, Status: status}
}

// StatusError builds an AppError whose code follows from status.
func StatusError(status int, message string) *AppError {
	code, ok := statusCodes[status]
	if !ok {
		code = "ERR_" + fmt.Sprint(status)
	}
	return NewAppError(code, "", message, status)
}

// WithParam sets a single error param.
func (e *AppError) WithParam(key string, value interface{}) *AppError {
	if e.Params == nil {
		e.Params = make(map[string]interface{})
	}
	e.Params[key] = value
	return e
}

// WithError attaches the cause.
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

func NotFoundError(message string) *AppError {
	return StatusError(http.StatusNotFound, message)
}

func BadRequestError(message string) *AppError {
	return StatusError(http.StatusBadRequest, message)
}

func ServiceUnavailableError(message string) *AppError {
	return StatusError(http.StatusServiceUnavailable, message)
}

func InternalError(message string) *AppError {
	return StatusError(http.StatusInternalServerError, message)
}

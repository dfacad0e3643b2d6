package httpx

import (
	"errors"
	"fmt"
	"net/http"
)

// Fallback messages used whenever the upstream gives no usable detail.
const (
	GenericMessage = "Erro interno"
	GenericDetail  = "Erro desconhecido"
)

// Error is the normalized error every handler surfaces. Raw upstream or
// transport failures are always coerced into this shape before leaving a
// handler.
type Error struct {
	StatusCode    int    `json:"statusCode"`
	StatusMessage string `json:"statusMessage"`
	Data          any    `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d %s", e.StatusCode, e.StatusMessage)
}

// NewError builds a normalized error, applying the generic fallbacks for a
// missing status or message.
func NewError(status int, message string, data any) *Error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	if message == "" {
		message = GenericMessage
	}
	return &Error{StatusCode: status, StatusMessage: message, Data: data}
}

// Unauthorized is the error for requests missing the session credential.
func Unauthorized() *Error {
	return &Error{StatusCode: http.StatusUnauthorized, StatusMessage: "Não autenticado"}
}

// Normalize coerces any error into the normalized shape. An *Error passes
// through untouched.
func Normalize(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return NewError(0, "", GenericDetail)
}

// RespondError writes the normalized error as JSON with its status code.
func RespondError(w http.ResponseWriter, err error) {
	e := Normalize(err)
	JSON(w, e.StatusCode, e)
}

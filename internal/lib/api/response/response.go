package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"reservation_service/internal/storage"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"
)

const (
	StatusOK    = "OK"
	StatusError = "Error"
)

type Response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Details string `json:"details,omitempty"`
}

func OK() Response {
	return Response{
		Status: StatusOK,
	}
}

func OKWithMessage(msg string) Response {
	return Response{
		Status:  StatusOK,
		Message: msg,
	}
}

func Error(msg string) Response {
	return Response{
		Status: StatusError,
		Error:  msg,
	}
}

func ErrorWithDetails(msg, details string) Response {
	return Response{
		Status:  StatusError,
		Error:   msg,
		Details: details,
	}
}

// ServerError hides err from the caller except for storage timeouts, which
// are reported in details.
func ServerError(msg string, err error) Response {
	if errors.Is(err, storage.ErrTimeout) {
		return ErrorWithDetails(msg, storage.ErrTimeout.Error())
	}

	return Error(msg)
}

// ValidationError lists every failed field.
func ValidationError(errs validator.ValidationErrors) Response {
	var errMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errMsgs = append(errMsgs, fmt.Sprintf("Field %s is a required field", err.Field()))
		case "min":
			errMsgs = append(errMsgs, fmt.Sprintf("Field %s must be at least %s characters long", err.Field(), err.Param()))
		case "oneof":
			errMsgs = append(errMsgs, fmt.Sprintf("Field %s must be one of: %s", err.Field(), err.Param()))
		default:
			errMsgs = append(errMsgs, fmt.Sprintf("Field %s is not valid", err.Field()))
		}
	}

	return Response{
		Status:  StatusError,
		Error:   "Validation failed",
		Details: strings.Join(errMsgs, ", "),
	}
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

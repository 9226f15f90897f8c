package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/0x6d61/mustwatch/internal/dispatch"
)

// Generic response messages.
const (
	MsgNotFound         = "Not Found"
	MsgMethodNotAllowed = "Method Not Allowed"
	MsgInvalid          = "Invalid"
	MsgTooManyRequests  = "Too Many Requests"
	MsgInternal         = "Erro interno"
	MsgUnavailable      = "Service Unavailable"
)

// messageBody is the shape of every non-data response.
type messageBody struct {
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeMessage(w http.ResponseWriter, status int, message, detail string) {
	writeJSON(w, status, messageBody{Message: message, Detail: detail})
}

func writeMethodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	writeMessage(w, http.StatusMethodNotAllowed, MsgMethodNotAllowed, "")
}

// writeError maps dispatcher errors to status codes.
func writeError(w http.ResponseWriter, err error) {
	var (
		notFound  *dispatch.NotFoundError
		invalid   *dispatch.ValidationError
		execution *dispatch.ExecutionError
	)
	switch {
	case errors.As(err, &notFound):
		writeMessage(w, http.StatusNotFound, notFound.Message, "")
	case errors.As(err, &invalid):
		detail := invalid.Reason
		if invalid.Field != "" {
			detail = fmt.Sprintf("%s: %s", invalid.Field, invalid.Reason)
		}
		writeMessage(w, http.StatusUnprocessableEntity, MsgInvalid, detail)
	case errors.As(err, &execution):
		writeMessage(w, http.StatusInternalServerError, MsgInternal, rootCause(execution.Err).Error())
	default:
		writeMessage(w, http.StatusInternalServerError, MsgInternal, err.Error())
	}
}

// rootCause returns the innermost wrapped error: the driver's own message,
// without the package prefixes added on the way up.
func rootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

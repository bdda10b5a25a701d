package server

import (
	"encoding/json"
	"net/http"
	"strings"

	apperrors "github.com/matzehuels/arcdiff/pkg/errors"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes a failure.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func errorBody(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}

func errNotFound(format string, args ...any) error {
	return apperrors.New(apperrors.ErrCodeNotFound, format, args...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// writeError maps err to a status code and JSON body. Errors without a
// code are reported as internal errors without their message.
func writeError(w http.ResponseWriter, err error) {
	code := apperrors.GetCode(err)
	if code == "" {
		writeJSON(w, http.StatusInternalServerError, errorBody(string(apperrors.ErrCodeInternal), "internal error"))
		return
	}
	writeJSON(w, apperrors.HTTPStatus(err), errorBody(string(code), message(err, code)))
}

// message is the error text without its code prefix, causes included.
func message(err error, code apperrors.Code) string {
	return strings.TrimPrefix(err.Error(), string(code)+": ")
}

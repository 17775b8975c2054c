// internal/app/system/httpjson/httpjson.go

// Package httpjson holds the JSON request/response helpers shared by
// every feature handler, including the single place where fault kinds
// are mapped to HTTP status codes.
package httpjson

import (
	"encoding/json"
	"net/http"

	"github.com/jowpereira/mcp-server/internal/domain/fault"
)

// detailBody matches the {"detail": "..."} error shape the frontend
// has always consumed.
type detailBody struct {
	Detail string `json:"detail"`
}

// Respond writes v as JSON with the given status.
func Respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// Message writes a {"message": ...} body, the success shape of the
// mutation endpoints.
func Message(w http.ResponseWriter, status int, msg string) {
	Respond(w, status, map[string]string{"message": msg})
}

// Fail writes a {"detail": ...} body with an explicit status.
func Fail(w http.ResponseWriter, status int, detail string) {
	Respond(w, status, detailBody{Detail: detail})
}

// Error maps a fault error onto its HTTP status. Non-fault errors are
// treated as internal and never leak their message.
func Error(w http.ResponseWriter, err error) {
	switch fault.KindOf(err) {
	case fault.KindNotFound:
		Fail(w, http.StatusNotFound, err.Error())
	case fault.KindConflict:
		Fail(w, http.StatusConflict, err.Error())
	case fault.KindForbidden:
		Fail(w, http.StatusForbidden, err.Error())
	case fault.KindPrecondition:
		Fail(w, http.StatusPreconditionFailed, err.Error())
	case fault.KindInvalid:
		Fail(w, http.StatusBadRequest, err.Error())
	default:
		Fail(w, http.StatusInternalServerError, "erro interno no servidor")
	}
}

// Decode parses a JSON request body into dst, reporting malformed
// bodies as validation errors.
func Decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fault.Invalid("corpo da requisição inválido: %v", err)
	}
	return nil
}

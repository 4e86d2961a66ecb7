// Package httpx renders the uniform response envelope used by every handler.
//
// Success:  {"_meta": {"status_code", "message"?, "success": true, "pagination"?, "token"?}, "data": ...}
// Failure:  {"_meta": {"status_code", "error": {"message", "messages"?}}}
//
// Successful creates respond with HTTP 200 while _meta.status_code may carry
// 201; that asymmetry is the documented contract of this API.
package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/nondefyde/coderealm-api/internal/apperr"
	"github.com/nondefyde/coderealm-api/internal/contextx"
	"github.com/nondefyde/coderealm-api/internal/query"
)

// Meta is the _meta block of the envelope.
type Meta struct {
	StatusCode int             `json:"status_code"`
	Message    string          `json:"message,omitempty"`
	Success    bool            `json:"success,omitempty"`
	Pagination *query.PageMeta `json:"pagination,omitempty"`
	Token      string          `json:"token,omitempty"`
	Error      *ErrorBody      `json:"error,omitempty"`
}

// ErrorBody is the error block of a failure envelope.
type ErrorBody struct {
	Message  string               `json:"message"`
	Messages apperr.FieldMessages `json:"messages,omitempty"`
}

// Envelope is the top-level response shape.
type Envelope struct {
	Meta Meta `json:"_meta"`
	Data any  `json:"data,omitempty"`
}

// SuccessMeta returns the default success metadata block.
func SuccessMeta() Meta {
	return Meta{StatusCode: http.StatusOK, Success: true}
}

// OK writes an HTTP 200 success envelope around data.
func OK(w http.ResponseWriter, data any) {
	meta := SuccessMeta()
	Success(w, meta, data)
}

// OKWithMessage writes an HTTP 200 success envelope with a human message.
func OKWithMessage(w http.ResponseWriter, message string, data any) {
	meta := SuccessMeta()
	meta.Message = message
	Success(w, meta, data)
}

// Success writes the given metadata and data as an HTTP 200 response. The
// transport status is always 200; meta.StatusCode carries the semantic code.
func Success(w http.ResponseWriter, meta Meta, data any) {
	if meta.StatusCode == 0 {
		meta.StatusCode = http.StatusOK
	}
	meta.Success = true
	writeJSON(w, http.StatusOK, Envelope{Meta: meta, Data: data})
}

// Fail converts any error into a failure envelope. Domain errors keep their
// status, message and field detail; everything else becomes an opaque 500.
func Fail(w http.ResponseWriter, r *http.Request, err error) {
	ae := apperr.As(err)
	if ae == nil {
		contextx.Logger(r.Context()).Error("unhandled error", "error", err, "path", r.URL.Path)
		ae = apperr.Internal(err)
	}
	if ae.Status >= http.StatusInternalServerError {
		contextx.Logger(r.Context()).Error("server error", "error", err, "path", r.URL.Path)
	}

	writeJSON(w, ae.Status, Envelope{
		Meta: Meta{
			StatusCode: ae.Status,
			Error: &ErrorBody{
				Message:  publicMessage(ae),
				Messages: ae.Messages,
			},
		},
	})
}

// publicMessage hides internal causes: 5xx failures expose no detail.
func publicMessage(ae *apperr.Error) string {
	if ae.Status >= http.StatusInternalServerError {
		return "internal server error"
	}
	return ae.Message
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

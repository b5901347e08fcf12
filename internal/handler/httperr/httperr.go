// Package httperr renders the public error envelope:
//
//	{"error":{"code":"payment_required","message":"Insufficient funds"},"detail":...}
package httperr

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status int  `json:"-"`
	Error  Body `json:"error"`
	Detail any  `json:"detail,omitempty"`
}

// Body carries a stable code derived from the status and a message for people.
type Body struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func New(status int, msg string, detail any) Response {
	return Response{
		Status: status,
		Error:  Body{Code: CodeFor(status), Message: msg},
		Detail: detail,
	}
}

var codeReplacer = strings.NewReplacer(" ", "_", "-", "_", "'", "")

// CodeFor turns a status into a snake_case slug, e.g. 429 -> too_many_requests.
func CodeFor(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "error"
	}
	return strings.ToLower(codeReplacer.Replace(text))
}

// AbortWithError records err on the context for logging and writes the
// envelope. err never reaches the client.
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := New(status, msg, detail)
	// A pointer keeps gin from re-wrapping it as a private error without Meta.
	_ = c.Error(&gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

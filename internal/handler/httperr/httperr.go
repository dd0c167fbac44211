package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	MsgInternal       = "Internal server error"
	MsgInvalidRequest = "Invalid request"
)

// Response is the body of every error returned under /api.
type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// FieldDetail names the offending request field of a rejected mutation,
// so the calendar can highlight it.
type FieldDetail struct {
	Field string `json:"field"`
}

func newResponse(status int, msg string, detail any) Response {
	resp := Response{Status: status, Detail: detail}
	resp.Error.Message = msg
	return resp
}

// AbortWithError records err on the context for the logger and writes the
// public response. err must not be nil.
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("httperr: AbortWithError called with nil error")
	}

	resp := newResponse(status, msg, detail)
	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

func BadRequest(c *gin.Context, err error, msg string) {
	AbortWithError(c, http.StatusBadRequest, err, msg, nil)
}

func InvalidField(c *gin.Context, err error, field, msg string) {
	AbortWithError(c, http.StatusBadRequest, err, msg, FieldDetail{Field: field})
}

func Internal(c *gin.Context, err error) {
	AbortWithError(c, http.StatusInternalServerError, err, MsgInternal, nil)
}

// Panic builds the response for a recovered panic; there is no error to record.
func Panic() Response {
	return newResponse(http.StatusInternalServerError, MsgInternal, nil)
}

package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"kilnbook/internal/handler/httperr"

	"github.com/gin-gonic/gin"
)

// ErrorHandler writes the last public error recorded by a handler when the
// handler itself left the response unwritten.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}
		if resp, ok := lastPublicError(c); ok {
			c.JSON(resp.Status, resp)
			return
		}
		if status := c.Writer.Status(); status != http.StatusOK {
			c.Status(status)
			c.Writer.WriteHeaderNow()
			return
		}
		// a handler that returned without responding
		resp := httperr.Panic()
		c.JSON(resp.Status, resp)
	}
}

func lastPublicError(c *gin.Context) (httperr.Response, bool) {
	for i := len(c.Errors) - 1; i >= 0; i-- {
		if !c.Errors[i].IsType(gin.ErrorTypePublic) {
			continue
		}
		if resp, ok := c.Errors[i].Meta.(httperr.Response); ok {
			return resp, true
		}
	}
	return httperr.Response{}, false
}

func CustomRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			attrs := []any{
				"panic", rec,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"request_id", GetRequestID(c),
			}
			if actor, ok := GetActor(c); ok {
				attrs = append(attrs, "member_id", actor.UserID())
			}
			slog.Error("recovered from panic", append(attrs, "stack", string(debug.Stack()))...)

			resp := httperr.Panic()
			c.AbortWithStatusJSON(resp.Status, resp)
		}()
		c.Next()
	}
}

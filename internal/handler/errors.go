package handler

import (
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"mesto_service/internal/apperr"
)

type errorResponse struct {
	Message string `json:"message"`
}

// stageFunc is one step of a request pipeline: nil lets the request go on,
// an error short-circuits it into the error pipeline.
type stageFunc func(c *gin.Context) error

func handle(fn stageFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := fn(c); err != nil {
			_ = c.Error(err)
			c.Abort()
		}
	}
}

// ErrorPipeline must be registered before every stage that can fail. After
// the chain returns it logs each collected error and writes exactly one
// {"message": ...} body for the last one.
func ErrorPipeline(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		for _, ginErr := range c.Errors {
			logError(log, c, ginErr.Err)
		}

		if c.Writer.Written() {
			return
		}

		status, message := apperr.Response(c.Errors.Last().Err)
		c.AbortWithStatusJSON(status, errorResponse{Message: message})
	}
}

func logError(log *slog.Logger, c *gin.Context, err error) {
	status, _ := apperr.Response(err)

	attrs := []any{
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.Int("status", status),
		slog.String("request_id", c.GetString(requestIDKey)),
		slog.Any("error", err),
	}

	if status >= 500 {
		log.ErrorContext(c.Request.Context(), "request failed", attrs...)
		return
	}
	log.WarnContext(c.Request.Context(), "request rejected", attrs...)
}

// Recovery turns a panic in a later stage into an internal error.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, rec any) {
		_ = c.Error(apperr.Internal(fmt.Errorf("panic: %v\n%s", rec, debug.Stack())))
		c.Abort()
	})
}

func routeNotFound(*gin.Context) error {
	return apperr.NotFound(apperr.MsgRouteNotFound)
}

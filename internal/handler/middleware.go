package handler

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"mesto_service/internal/apperr"
)

const (
	userIDKey    = "UserID"
	requestIDKey = "RequestID"

	requestIDHeader = "X-Request-ID"
)

var (
	errEmptyHeader = errors.New("empty authorization header")
	errInvalidAuth = errors.New("invalid authorization header")
	errEmptyToken  = errors.New("empty bearer token")
	errNoIdentity  = errors.New("no user id in request context")
)

type TokenVerifier interface {
	Verify(token string) (string, error)
}

func AuthMiddleware(tokens TokenVerifier) gin.HandlerFunc {
	return handle(func(c *gin.Context) error {
		tokenStr, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			return err
		}

		userID, err := tokens.Verify(tokenStr)
		if err != nil {
			if apperr.Is(err, apperr.KindAuthentication) {
				return err
			}
			return apperr.Authentication(apperr.MsgUnauthorized, err)
		}

		c.Set(userIDKey, userID)

		return nil
	})
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", apperr.Authentication(apperr.MsgUnauthorized, errEmptyHeader)
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", apperr.Authentication(apperr.MsgUnauthorized, errInvalidAuth)
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", apperr.Authentication(apperr.MsgUnauthorized, errEmptyToken)
	}

	return token, nil
}

// currentUserID returns the identity stored by AuthMiddleware.
func currentUserID(c *gin.Context) (string, error) {
	userID := c.GetString(userIDKey)
	if userID == "" {
		return "", apperr.Authentication(apperr.MsgUnauthorized, errNoIdentity)
	}
	return userID, nil
}

// RequestLogger tags the request with an id and logs it once the whole
// chain, error pipeline included, has finished.
func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Header(requestIDHeader, requestID)

		c.Next()

		log.InfoContext(c.Request.Context(), "request",
			slog.String("request_id", requestID),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		)
	}
}

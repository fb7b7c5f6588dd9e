package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/deskchat/internal/middleware"
	"github.com/lalith-99/deskchat/internal/service"
	"go.uber.org/zap"
)

// msgBadLogin is shared by "no such user" and "wrong password" so a
// caller cannot probe which usernames exist.
const msgBadLogin = "invalid username or password"

// respondError translates a service error into a status and JSON body.
// Anything that is not a domain error is a store failure: it is logged
// and the client only sees fallback.
func respondError(c *gin.Context, logger *zap.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrEmptyBody),
		errors.Is(err, service.ErrDuplicateUsername):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"error": msgBadLogin})
	case errors.Is(err, service.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "request not found"})
	default:
		logger.Error(fallback,
			zap.Error(err),
			zap.String("request_id", middleware.GetRequestID(c)),
		)
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// badJSON answers a body that could not be decoded.
func badJSON(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
}

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/deskchat/internal/models"
	"github.com/lalith-99/deskchat/internal/service"
	"go.uber.org/zap"
)

// ContextKeyUser is the gin context key holding the resolved *models.User.
//
// Why a constant instead of the literal "user" in handlers?
//   - c.Get("usr") compiles fine and silently returns nothing. Going
//     through the constant (or GetUser below) lets the compiler catch it.
const ContextKeyUser = "user"

// TokenResolver turns a raw token into its user. service.AuthService
// implements it.
type TokenResolver interface {
	ResolveToken(ctx context.Context, token string) (*models.User, error)
}

// TokenAuth returns a Gin middleware that authenticates every request in
// its group.
//
// How it fits the chain:
//   - It runs before the handler. On failure it aborts, so the handler
//     never runs and the client gets the error JSON.
//   - On success it stores the user with c.Set and calls c.Next.
//
// Why take a TokenResolver instead of *service.AuthService?
//   - The middleware only needs one method. Tests pass a stub resolver
//     and never touch a store or bcrypt.
//
// The token travels as the whole Authorization header value. It is an
// opaque key, not a JWT; a "Bearer " prefix is stripped if a client adds
// one. The token is looked up in the store on every request, so there is
// no cached identity to go stale.
//
//   - no header           → 401 "authorization required"
//   - unknown token       → 403 "invalid token"
//   - store failure       → 500
func TokenAuth(resolver TokenResolver, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c.GetHeader("Authorization"))

		user, err := resolver.ResolveToken(c.Request.Context(), token)
		switch {
		case errors.Is(err, service.ErrUnauthenticated):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": service.ErrUnauthenticated.Error()})
			return
		case errors.Is(err, service.ErrUnauthorized):
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": service.ErrUnauthorized.Error()})
			return
		case err != nil:
			logger.Error("failed to resolve token", zap.Error(err), zap.String("request_id", GetRequestID(c)))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		c.Set(ContextKeyUser, user)
		c.Next()
	}
}

// extractToken returns the token part of the header. "Bearer" with
// nothing after it is no token at all, so it gets the 401 path rather
// than being looked up as a token named "Bearer".
func extractToken(header string) string {
	header = strings.TrimSpace(header)
	const scheme = "Bearer"
	if len(header) < len(scheme) || !strings.EqualFold(header[:len(scheme)], scheme) {
		return header
	}
	rest := header[len(scheme):]
	if rest == "" {
		return ""
	}
	if rest[0] != ' ' && rest[0] != '\t' {
		// A token that merely starts with "bearer", e.g. "bearerish".
		return header
	}
	return strings.TrimSpace(rest)
}

// GetUser returns the identity TokenAuth attached to the request, or nil
// outside an authenticated group.
func GetUser(c *gin.Context) *models.User {
	val, exists := c.Get(ContextKeyUser)
	if !exists {
		return nil
	}
	user, ok := val.(*models.User)
	if !ok {
		return nil
	}
	return user
}

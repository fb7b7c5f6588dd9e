package middleware

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS lets browser pages served from other origins call the API.
//
// allowed may contain "*" (or be empty) to accept any origin. Otherwise
// each entry must be a full origin such as "https://desk.example";
// config.Validate checks that at startup, because cors.New panics on a
// malformed origin.
//
// Requests from an origin that is not allowed are answered 403 by the
// cors package before they reach a handler.
func CORS(allowed []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Authorization", "Content-Type", HeaderRequestID},
		ExposeHeaders: []string{HeaderRequestID},
		MaxAge:        10 * time.Minute,
	}
	if len(allowed) == 0 || slices.Contains(allowed, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowed
	}
	return cors.New(cfg)
}

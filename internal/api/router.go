package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/deskchat/internal/middleware"
	"github.com/lalith-99/deskchat/internal/ratelimit"
	"github.com/lalith-99/deskchat/internal/service"
	"go.uber.org/zap"
)

// Deps is everything the router needs. Limiter may be nil to disable
// rate limiting of the public endpoints.
type Deps struct {
	Auth     *service.AuthService
	Messages *service.MessageService
	Requests *service.RequestService

	Limiter      ratelimit.Limiter
	CORSOrigins  []string
	HealthChecks []HealthCheck
	Logger       *zap.Logger
}

// NewRouter wires every route of the API.
//
//	POST   /api/register            public
//	POST   /api/login               public
//	GET    /api/health              public
//	GET    /api/user                token
//	GET    /api/messages            token
//	POST   /api/messages            token
//	POST   /api/migrate             token
//	GET    /api/requests            token
//	POST   /api/requests            token
//	GET    /api/my-requests         token
//	DELETE /api/requests/:id        token
//	PATCH  /api/requests/:id/status token
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(d.Logger),
		middleware.Recovery(d.Logger),
		middleware.CORS(d.CORSOrigins),
	)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	authHandler := NewAuthHandler(d.Auth, d.Logger)
	messageHandler := NewMessageHandler(d.Messages, d.Logger)
	requestHandler := NewRequestHandler(d.Requests, d.Logger)

	apiGroup := r.Group("/api")

	public := apiGroup.Group("")
	if d.Limiter != nil {
		public.Use(middleware.RateLimit(d.Limiter, d.Logger))
	}
	public.POST("/register", authHandler.Register)
	public.POST("/login", authHandler.Login)

	apiGroup.GET("/health", Health(d.HealthChecks, d.Logger))

	protected := apiGroup.Group("")
	protected.Use(middleware.TokenAuth(d.Auth, d.Logger))

	protected.GET("/user", GetMe)

	protected.GET("/messages", messageHandler.List)
	protected.POST("/messages", messageHandler.Create)
	protected.POST("/migrate", messageHandler.Import)

	protected.GET("/requests", requestHandler.List)
	protected.POST("/requests", requestHandler.Create)
	protected.GET("/my-requests", requestHandler.ListMine)
	protected.DELETE("/requests/:id", requestHandler.Delete)
	protected.PATCH("/requests/:id/status", requestHandler.UpdateStatus)

	return r
}

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/deskchat/internal/service"
	"go.uber.org/zap"
)

// AuthHandler serves register and login, the only public endpoints.
// They produce the token every other endpoint requires.
type AuthHandler struct {
	auth   *service.AuthService
	logger *zap.Logger
}

func NewAuthHandler(auth *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

// Field presence and length are checked by the service, so the request
// structs carry no binding tags.
type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerResponse struct {
	Token string `json:"token"`
}

type loginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// Register handles POST /api/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}

	token, err := h.auth.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, h.logger, err, "registration failed")
		return
	}

	c.JSON(http.StatusCreated, registerResponse{Token: token})
}

// Login handles POST /api/login
//
// Returns the account's existing token; logging in twice yields the same
// token both times.
func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}

	user, err := h.auth.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, h.logger, err, "login failed")
		return
	}

	c.JSON(http.StatusOK, loginResponse{Token: user.Token, Username: user.Username})
}

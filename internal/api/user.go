package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/deskchat/internal/middleware"
)

type whoamiResponse struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}

// GetMe handles GET /api/user
//
// TokenAuth has already loaded the user from the store, so there is
// nothing left to query.
func GetMe(c *gin.Context) {
	user := middleware.GetUser(c)
	c.JSON(http.StatusOK, whoamiResponse{Username: user.Username, Token: user.Token})
}

package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/teamkrews/krews-chat/internal/apperr"
	"github.com/teamkrews/krews-chat/internal/handlers/dto"
	"github.com/teamkrews/krews-chat/internal/middleware"
	"github.com/teamkrews/krews-chat/internal/services"
	"github.com/teamkrews/krews-chat/pkg/auth"
)

type AuthHandler struct {
	users      *services.UserService
	jwtManager *auth.JWTManager
	redis      *redis.Client
}

func NewAuthHandler(users *services.UserService, jwtMgr *auth.JWTManager, rdb *redis.Client) *AuthHandler {
	return &AuthHandler{users: users, jwtManager: jwtMgr, redis: rdb}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.users.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.users.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Logout blacklists the bearer token in Redis until it expires.
func (h *AuthHandler) Logout(c *gin.Context) {
	rawToken, err := auth.ExtractTokenFromHeader(c.Request)
	if err != nil {
		respondError(c, apperr.New(apperr.Unauthorized))
		return
	}

	exp, err := h.jwtManager.Expiry(rawToken)
	if err != nil {
		// An expired token is already unusable.
		c.Status(http.StatusNoContent)
		return
	}

	if err := middleware.RevokeToken(c.Request.Context(), h.redis, rawToken, time.Until(exp)); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

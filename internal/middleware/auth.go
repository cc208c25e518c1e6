package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/teamkrews/krews-chat/internal/apperr"
	"github.com/teamkrews/krews-chat/pkg/auth"
)

const (
	UserIDKey = "userID"
	TokenKey  = "accessToken"

	blacklistPrefix = "blacklist:"
)

func blacklistKey(token string) string {
	return blacklistPrefix + token
}

// RevokeToken blacklists token until it would have expired anyway.
func RevokeToken(ctx context.Context, rdb *redis.Client, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return rdb.Set(ctx, blacklistKey(token), "1", ttl).Err()
}

// AuthMiddleware requires a bearer token in the Authorization header.
func AuthMiddleware(jwtManager *auth.JWTManager, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractTokenFromHeader(c.Request)
		if err != nil {
			abort(c, apperr.Unauthorized)
			return
		}
		authenticate(c, jwtManager, rdb, token)
	}
}

// WSAuthMiddleware accepts the token as a ?token= query parameter, since browsers
// cannot set headers on a websocket upgrade, and falls back to the header.
func WSAuthMiddleware(jwtManager *auth.JWTManager, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			var err error
			if token, err = auth.ExtractTokenFromHeader(c.Request); err != nil {
				abort(c, apperr.Unauthorized)
				return
			}
		}
		authenticate(c, jwtManager, rdb, token)
	}
}

func authenticate(c *gin.Context, jwtManager *auth.JWTManager, rdb *redis.Client, token string) {
	ctx := c.Request.Context()

	exists, err := rdb.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		slog.ErrorContext(ctx, "token blacklist lookup failed", "error", err)
		abort(c, apperr.InternalError)
		return
	}
	if exists > 0 {
		abort(c, apperr.Unauthorized)
		return
	}

	userID, err := jwtManager.UserID(token)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			abort(c, apperr.TokenExpired)
			return
		}
		abort(c, apperr.Unauthorized)
		return
	}

	c.Set(UserIDKey, userID)
	c.Set(TokenKey, token)
	c.Next()
}

func abort(c *gin.Context, code apperr.ErrorCode) {
	c.AbortWithStatusJSON(code.Status, code.Response())
}

// CurrentUserID returns the id stored by the auth middleware.
func CurrentUserID(c *gin.Context) (uint64, bool) {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint64)
	return id, ok && id != 0
}

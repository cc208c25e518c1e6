package handlers

import (
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/teamkrews/krews-chat/internal/apperr"
	"github.com/teamkrews/krews-chat/internal/middleware"
)

// respondError writes the error body for err. Unclassified errors are logged and
// reported as InternalError.
func respondError(c *gin.Context, err error) {
	code := apperr.CodeOf(err)
	if code.Code == apperr.InternalError.Code {
		slog.ErrorContext(c.Request.Context(), "request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
	}
	c.AbortWithStatusJSON(code.Status, code.Response())
}

func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.AbortWithStatusJSON(apperr.InvalidRequest.Status, apperr.InvalidRequest.Response())
		return false
	}
	return true
}

func pathID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.AbortWithStatusJSON(apperr.InvalidRequest.Status, apperr.InvalidRequest.Response())
		return 0, false
	}
	return id, true
}

func currentUser(c *gin.Context) (uint64, bool) {
	id, ok := middleware.CurrentUserID(c)
	if !ok {
		c.AbortWithStatusJSON(apperr.Unauthorized.Status, apperr.Unauthorized.Response())
	}
	return id, ok
}

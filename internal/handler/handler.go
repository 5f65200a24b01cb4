// Package handler holds helpers shared by the per-area gin handlers.
// Handlers report failures with c.Error and let middleware.ErrorHandler
// render them.
package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/cancerguard-api/internal/session"
	apperrors "github.com/jwalitptl/cancerguard-api/pkg/errors"
)

// Routes is implemented by every area handler.
type Routes interface {
	RegisterRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc)
}

// UserID returns the session user set by the auth middleware.
func UserID(c *gin.Context) (int64, error) {
	id, ok := session.UserID(c)
	if !ok {
		return 0, apperrors.Unauthorized("")
	}
	return id, nil
}

// ParamID parses a positive integer path parameter.
func ParamID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewBadRequest("Invalid "+name, err)
	}
	return id, nil
}

// Abort attaches err for the error middleware and stops the chain.
func Abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

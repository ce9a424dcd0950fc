package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/grenades-backend-go/internal/repository"
	"github.com/jengzang/grenades-backend-go/internal/service"
	"github.com/jengzang/grenades-backend-go/pkg/response"
)

// fail maps service and repository errors to a status code.
// Unexpected errors are hidden from the client and left for the access log.
func fail(c *gin.Context, err error, message string) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, message, err)
	case errors.Is(err, service.ErrUnauthorized):
		response.Unauthorized(c, message)
	case errors.Is(err, repository.ErrNotFound):
		response.Error(c, http.StatusNotFound, message, err)
	case errors.Is(err, repository.ErrConflict):
		response.Error(c, http.StatusConflict, message, err)
	default:
		response.InternalError(c, message)
	}
}

// mapQuery is shared by every read endpoint scoped to one map and viewer
type mapQuery struct {
	Map    string `form:"map_name" binding:"required"`
	UserID int64  `form:"user_id,default=-1"`
}

package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/grenades-backend-go/internal/models"
	"github.com/jengzang/grenades-backend-go/internal/service"
	"github.com/jengzang/grenades-backend-go/pkg/response"
)

// UserHandler handles mini app login and filter preferences
type UserHandler struct {
	users *service.UserService
	prefs *service.PreferenceService
}

// NewUserHandler creates a new user handler
func NewUserHandler(users *service.UserService, prefs *service.PreferenceService) *UserHandler {
	return &UserHandler{users: users, prefs: prefs}
}

type initDataRequest struct {
	Data string `json:"data" binding:"required"`
}

// Update handles POST /api/user/update
func (h *UserHandler) Update(c *gin.Context) {
	var req initDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err)
		return
	}

	tok, err := h.users.Authenticate(c.Request.Context(), req.Data)
	if err != nil {
		fail(c, err, "Unauthorized access")
		return
	}
	response.Created(c, tok)
}

type userQuery struct {
	UserID int64 `form:"user_id" binding:"required"`
}

// GetPreferences handles GET /api/user/preferences
func (h *UserHandler) GetPreferences(c *gin.Context) {
	var q userQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters", err)
		return
	}

	f, err := h.prefs.Load(c.Request.Context(), q.UserID)
	if err != nil {
		fail(c, err, "Failed to load preferences")
		return
	}
	response.Success(c, f)
}

type preferencesRequest struct {
	UserID int64              `json:"user_id" binding:"required"`
	Filter models.FilterState `json:"filter"`
}

// PutPreferences handles PUT /api/user/preferences
func (h *UserHandler) PutPreferences(c *gin.Context) {
	var req preferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err)
		return
	}

	f, err := h.prefs.Save(c.Request.Context(), req.UserID, req.Filter)
	if err != nil {
		fail(c, err, "Failed to save preferences")
		return
	}
	response.Success(c, f)
}

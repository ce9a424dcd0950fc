package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/grenades-backend-go/internal/models"
	"github.com/jengzang/grenades-backend-go/internal/service"
	"github.com/jengzang/grenades-backend-go/pkg/response"
)

// AdminHandler serves the setup editor
type AdminHandler struct {
	service *service.AdminService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(service *service.AdminService) *AdminHandler {
	return &AdminHandler{service: service}
}

// loginForm is an OAuth2 password grant form
type loginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// GetToken handles POST /api/admin/get_token
func (h *AdminHandler) GetToken(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		response.BadRequest(c, "Username and password are required", err)
		return
	}

	tok, err := h.service.Login(form.Username, form.Password)
	if err != nil {
		fail(c, err, "Incorrect username or password")
		return
	}
	response.Success(c, tok)
}

// GetData handles GET /api/admin/get_data
func (h *AdminHandler) GetData(c *gin.Context) {
	var q mapQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters", err)
		return
	}

	data, err := h.service.Data(c.Request.Context(), models.CsMap(q.Map))
	if err != nil {
		fail(c, err, "Failed to get admin data")
		return
	}
	response.Success(c, data)
}

// Enums handles GET /api/admin/enums
func (h *AdminHandler) Enums(c *gin.Context) {
	response.Success(c, h.service.Enums())
}

// SuggestPosition handles POST /api/admin/position/suggest
func (h *AdminHandler) SuggestPosition(c *gin.Context) {
	var req service.SuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err)
		return
	}

	s, err := h.service.SuggestPosition(c.Request.Context(), req)
	if err != nil {
		fail(c, err, "Failed to suggest position")
		return
	}
	response.Success(c, s)
}

// EditPosition handles POST /api/admin/position/edit
func (h *AdminHandler) EditPosition(c *gin.Context) {
	var p models.MapPosition
	if err := c.ShouldBindJSON(&p); err != nil {
		response.BadRequest(c, "Invalid request body", err)
		return
	}

	saved, err := h.service.UpdatePosition(c.Request.Context(), p)
	if err != nil {
		fail(c, err, "Failed to edit position")
		return
	}
	response.Success(c, saved)
}

type idQuery struct {
	ID int64 `form:"id" binding:"required"`
}

// DeletePosition handles DELETE /api/admin/position/delete
func (h *AdminHandler) DeletePosition(c *gin.Context) {
	var q idQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters", err)
		return
	}

	if err := h.service.DeletePosition(c.Request.Context(), q.ID); err != nil {
		fail(c, err, "Failed to delete position")
		return
	}
	response.Success(c, gin.H{"id": q.ID})
}

// EditKeyCombo handles POST /api/admin/key_combo/edit
func (h *AdminHandler) EditKeyCombo(c *gin.Context) {
	var k models.KeyCombo
	if err := c.ShouldBindJSON(&k); err != nil {
		response.BadRequest(c, "Invalid request body", err)
		return
	}

	if err := h.service.UpdateKeyCombo(c.Request.Context(), k); err != nil {
		fail(c, err, "Failed to edit key combo")
		return
	}
	response.Success(c, k)
}

// DeleteKeyCombo handles DELETE /api/admin/key_combo/delete
func (h *AdminHandler) DeleteKeyCombo(c *gin.Context) {
	var q idQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters", err)
		return
	}

	if err := h.service.DeleteKeyCombo(c.Request.Context(), q.ID); err != nil {
		fail(c, err, "Failed to delete key combo")
		return
	}
	response.Success(c, gin.H{"id": q.ID})
}

type subscriptionRequest struct {
	UserID       int64 `json:"user_id" binding:"required"`
	IsSubscribed bool  `json:"is_subscribed"`
}

// SetSubscribed handles POST /api/admin/user/subscription
func (h *AdminHandler) SetSubscribed(c *gin.Context) {
	var req subscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err)
		return
	}

	if err := h.service.SetSubscribed(c.Request.Context(), req.UserID, req.IsSubscribed); err != nil {
		fail(c, err, "Failed to update subscription")
		return
	}
	response.Success(c, req)
}

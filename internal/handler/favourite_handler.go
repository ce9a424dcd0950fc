package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/grenades-backend-go/internal/models"
	"github.com/jengzang/grenades-backend-go/internal/service"
	"github.com/jengzang/grenades-backend-go/pkg/response"
)

// FavouriteHandler handles favourite marks of mini app users
type FavouriteHandler struct {
	service *service.FavouriteService
}

// NewFavouriteHandler creates a new favourite handler
func NewFavouriteHandler(service *service.FavouriteService) *FavouriteHandler {
	return &FavouriteHandler{service: service}
}

// favouriteState is the stored state returned by every favourite endpoint
type favouriteState struct {
	GrenadeID   int64 `json:"grenade_id"`
	IsFavourite bool  `json:"is_favourite"`
}

// Add handles POST /api/grenade/add_to_favourite
func (h *FavouriteHandler) Add(c *gin.Context) {
	var req models.FavouriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err)
		return
	}

	fav, err := h.service.Add(c.Request.Context(), req.UserID, req.GrenadeID)
	if err != nil {
		fail(c, err, "Failed to add favourite")
		return
	}
	response.Created(c, favouriteState{GrenadeID: req.GrenadeID, IsFavourite: fav})
}

// Remove handles DELETE /api/grenade/remove_from_favourite
func (h *FavouriteHandler) Remove(c *gin.Context) {
	var req models.FavouriteRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters", err)
		return
	}

	fav, err := h.service.Remove(c.Request.Context(), req.UserID, req.GrenadeID)
	if err != nil {
		fail(c, err, "Failed to remove favourite")
		return
	}
	response.Success(c, favouriteState{GrenadeID: req.GrenadeID, IsFavourite: fav})
}

type toggleRequest struct {
	models.FavouriteRequest
	IsFavourite bool `json:"is_favourite"`
}

// Toggle handles POST /api/grenade/toggle_favourite.
// is_favourite is the state the client currently shows.
func (h *FavouriteHandler) Toggle(c *gin.Context) {
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err)
		return
	}

	fav, err := h.service.Toggle(c.Request.Context(), req.UserID, req.GrenadeID, req.IsFavourite)
	if err != nil {
		fail(c, err, "Failed to toggle favourite")
		return
	}
	response.Success(c, favouriteState{GrenadeID: req.GrenadeID, IsFavourite: fav})
}

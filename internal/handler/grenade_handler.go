package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/grenades-backend-go/internal/models"
	"github.com/jengzang/grenades-backend-go/internal/service"
	"github.com/jengzang/grenades-backend-go/pkg/response"
)

// GrenadeHandler serves the catalog and the filter engine, and the admin setup editor
type GrenadeHandler struct {
	catalog  *service.CatalogService
	grenades *service.GrenadeService
	prefs    *service.PreferenceService
}

// NewGrenadeHandler creates a new grenade handler
func NewGrenadeHandler(catalog *service.CatalogService, grenades *service.GrenadeService, prefs *service.PreferenceService) *GrenadeHandler {
	return &GrenadeHandler{catalog: catalog, grenades: grenades, prefs: prefs}
}

// List handles GET /api/grenade/get
func (h *GrenadeHandler) List(c *gin.Context) {
	var q mapQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters", err)
		return
	}

	grenades, err := h.catalog.Grenades(c.Request.Context(), models.CsMap(q.Map), q.UserID)
	if err != nil {
		fail(c, err, "Failed to get grenades")
		return
	}
	response.Success(c, grenades)
}

// Grouped handles GET /api/grenade/get_grouped
func (h *GrenadeHandler) Grouped(c *gin.Context) {
	var q mapQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters", err)
		return
	}

	catalog, err := h.catalog.Catalog(c.Request.Context(), models.CsMap(q.Map), q.UserID)
	if err != nil {
		fail(c, err, "Failed to get grenades")
		return
	}
	response.Success(c, catalog)
}

// Visible handles POST /api/grenade/visible.
// Without a filter the viewer's saved preferences are used.
func (h *GrenadeHandler) Visible(c *gin.Context) {
	var req models.VisibleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err)
		return
	}

	ctx := c.Request.Context()
	f := models.DefaultFilterState()
	switch {
	case req.Filter != nil:
		f = *req.Filter
	case req.UserID > 0:
		saved, err := h.prefs.Load(ctx, req.UserID)
		if err != nil {
			fail(c, err, "Failed to load preferences")
			return
		}
		f = saved
	}
	f = f.WithDefaults()
	if err := f.Validate(); err != nil {
		response.BadRequest(c, "Invalid filter", err)
		return
	}

	res, err := h.catalog.Visible(ctx, req.Map, req.UserID, f)
	if err != nil {
		fail(c, err, "Failed to compute visible grenades")
		return
	}
	response.Success(c, res)
}

// Add handles POST /api/grenade/add
func (h *GrenadeHandler) Add(c *gin.Context) {
	var ng models.NewGrenade
	if err := c.ShouldBindJSON(&ng); err != nil {
		response.BadRequest(c, "Invalid request body", err)
		return
	}
	ng.ID = 0

	res, err := h.grenades.Save(c.Request.Context(), ng)
	if err != nil {
		fail(c, err, "Failed to add grenade")
		return
	}
	response.Created(c, res)
}

// Edit handles POST /api/grenade/edit
func (h *GrenadeHandler) Edit(c *gin.Context) {
	var ng models.NewGrenade
	if err := c.ShouldBindJSON(&ng); err != nil {
		response.BadRequest(c, "Invalid request body", err)
		return
	}
	if ng.ID <= 0 {
		response.BadRequest(c, "Grenade id is required", nil)
		return
	}

	res, err := h.grenades.Save(c.Request.Context(), ng)
	if err != nil {
		fail(c, err, fmt.Sprintf("Failed to edit grenade %d", ng.ID))
		return
	}
	response.Success(c, res)
}

type grenadeQuery struct {
	GrenadeID int64 `form:"grenade_id" binding:"required"`
}

// Delete handles DELETE /api/grenade/delete
func (h *GrenadeHandler) Delete(c *gin.Context) {
	var q grenadeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters", err)
		return
	}

	if err := h.grenades.Delete(c.Request.Context(), q.GrenadeID); err != nil {
		fail(c, err, "Failed to delete grenade")
		return
	}
	response.Success(c, gin.H{"grenade_id": q.GrenadeID})
}

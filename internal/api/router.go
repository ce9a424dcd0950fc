package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jengzang/grenades-backend-go/internal/auth"
	"github.com/jengzang/grenades-backend-go/internal/config"
	"github.com/jengzang/grenades-backend-go/internal/handler"
	"github.com/jengzang/grenades-backend-go/internal/middleware"
)

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, svc *Services, limiter *middleware.RateLimiter, log zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Grenades Backend API is running",
		})
	})

	userH := handler.NewUserHandler(svc.Users, svc.Preferences)
	grenadeH := handler.NewGrenadeHandler(svc.Catalog, svc.Grenades, svc.Preferences)
	favH := handler.NewFavouriteHandler(svc.Favourites)
	adminH := handler.NewAdminHandler(svc.Admin)

	regular := middleware.RequireToken(svc.UserIssuer, auth.RegularKeyword)
	admin := middleware.RequireToken(svc.AdminIssuer, cfg.AdminUsername)

	// API 路由组
	api := r.Group("/api")
	api.Use(middleware.RateLimit(limiter))
	{
		user := api.Group("/user")
		{
			user.POST("/update", userH.Update)
			user.GET("/preferences", regular, userH.GetPreferences)
			user.PUT("/preferences", regular, userH.PutPreferences)
		}

		grenade := api.Group("/grenade")
		{
			grenade.GET("/get_grouped", regular, grenadeH.Grouped)
			grenade.POST("/visible", regular, grenadeH.Visible)
			grenade.POST("/add_to_favourite", regular, favH.Add)
			grenade.DELETE("/remove_from_favourite", regular, favH.Remove)
			grenade.POST("/toggle_favourite", regular, favH.Toggle)

			grenade.GET("/get", admin, grenadeH.List)
			grenade.POST("/add", admin, grenadeH.Add)
			grenade.POST("/edit", admin, grenadeH.Edit)
			grenade.DELETE("/delete", admin, grenadeH.Delete)
		}

		adm := api.Group("/admin")
		{
			adm.POST("/get_token", adminH.GetToken)
			adm.GET("/get_data", admin, adminH.GetData)
			adm.GET("/enums", admin, adminH.Enums)
			adm.POST("/position/suggest", admin, adminH.SuggestPosition)
			adm.POST("/position/edit", admin, adminH.EditPosition)
			adm.DELETE("/position/delete", admin, adminH.DeletePosition)
			adm.POST("/key_combo/edit", admin, adminH.EditKeyCombo)
			adm.DELETE("/key_combo/delete", admin, adminH.DeleteKeyCombo)
			adm.POST("/user/subscription", admin, adminH.SetSubscribed)
		}
	}

	return r
}

package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/nmatss/prova-modelagem-app/src/controllers"
	"github.com/nmatss/prova-modelagem-app/src/middleware"
	"github.com/nmatss/prova-modelagem-app/src/services"
)

func SetupUsuarioRoutes(router *gin.Engine, service *services.UsuarioService, limiter *middleware.RateLimiter) {
	usuarioController := controllers.NewUsuarioController(service)

	// Public routes
	router.POST("/login", middleware.RateLimitMiddleware(limiter), usuarioController.Authenticate)

	router.POST("/logout", middleware.AuthMiddleware(), usuarioController.Logout)

	// Admin routes
	admin := router.Group("/admin/users")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.GET("", usuarioController.GetAllUsuarios)
		admin.POST("", usuarioController.CreateUsuario)
		admin.GET("/:id", usuarioController.GetUsuarioByID)
		admin.PUT("/:id", usuarioController.UpdateUsuario)
		admin.DELETE("/:id", usuarioController.DeleteUsuario)
		admin.POST("/:id/toggle_active", usuarioController.ToggleActive)
		admin.POST("/:id/toggle_admin", usuarioController.ToggleAdmin)
		admin.POST("/:id/reset_password", usuarioController.ResetPassword)
	}
}

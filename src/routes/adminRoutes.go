package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/nmatss/prova-modelagem-app/src/controllers"
	"github.com/nmatss/prova-modelagem-app/src/middleware"
	"github.com/nmatss/prova-modelagem-app/src/services"
)

func SetupAdminRoutes(router *gin.Engine, usuarios *services.UsuarioService, relatorios *services.RelatorioService) {
	adminController := controllers.NewAdminController(usuarios, relatorios)

	admin := router.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.GET("/stats", adminController.Dashboard)
	}
}

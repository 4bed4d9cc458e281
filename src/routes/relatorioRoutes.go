package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/nmatss/prova-modelagem-app/src/config"
	"github.com/nmatss/prova-modelagem-app/src/controllers"
	"github.com/nmatss/prova-modelagem-app/src/middleware"
	"github.com/nmatss/prova-modelagem-app/src/services"
)

func SetupRelatorioRoutes(router *gin.Engine, service *services.RelatorioService, export *services.ExportService, cfg *config.Config) {
	relatorioController := controllers.NewRelatorioController(service, export, cfg)

	auth := router.Group("/")
	auth.Use(middleware.AuthMiddleware())
	{
		auth.GET("/relatorios", relatorioController.ListRelatorios)
		auth.GET("/relatorios/:id", relatorioController.GetRelatorioDetalhes)
		auth.POST("/relatorios", relatorioController.CreateRelatorio)
		auth.PUT("/relatorios/:id", relatorioController.UpdateRelatorio)
		auth.GET("/export/relatorios/excel", relatorioController.ExportRelatoriosExcel)
		auth.GET("/relatorios/:id/export/excel", relatorioController.ExportDetalhesExcel)

		auth.POST("/referencias/:id/provas", relatorioController.AddProva)
		auth.PUT("/provas/status", relatorioController.UpdateStatusProva)

		auth.GET("/uploads/*filepath", relatorioController.ServeUpload)
	}

	// Hard deletion of a report cascades to every descendant; admins only.
	admin := router.Group("/relatorios")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.DELETE("/:id", relatorioController.DeleteRelatorio)
	}
}

package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/nmatss/prova-modelagem-app/src/controllers"
	"github.com/nmatss/prova-modelagem-app/src/middleware"
	"github.com/nmatss/prova-modelagem-app/src/services"
)

func SetupAuditRoutes(router *gin.Engine, service *services.AuditService) {
	auditController := controllers.NewAuditController(service)

	audit := router.Group("/admin/audit")
	audit.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		audit.GET("", auditController.Index)
		audit.GET("/estatisticas", auditController.Estatisticas)
		audit.GET("/export/csv", auditController.ExportarCSV)
		audit.GET("/detalhes/:id", auditController.Detalhes)
		audit.GET("/timeline/:entidade/:id", auditController.Timeline)
		audit.GET("/usuario/:id", auditController.PorUsuario)
	}
}

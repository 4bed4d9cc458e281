package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nmatss/prova-modelagem-app/src/middleware"
	"github.com/nmatss/prova-modelagem-app/src/models"
	"github.com/nmatss/prova-modelagem-app/src/services"
)

type AuditController struct {
	service *services.AuditService
}

func NewAuditController(service *services.AuditService) *AuditController {
	return &AuditController{service: service}
}

func filtrosFromQuery(c *gin.Context) services.AuditFiltros {
	f := services.AuditFiltros{
		Categoria:  c.Query("categoria"),
		Acao:       c.Query("acao"),
		Severidade: c.Query("severidade"),
		DataInicio: c.Query("data_inicio"),
		DataFim:    c.Query("data_fim"),
		Busca:      c.Query("busca"),
	}
	if raw := c.Query("usuario_id"); raw != "" {
		if id, err := strconv.Atoi(raw); err == nil {
			f.UsuarioID = &id
		}
	}
	return f
}

func (ac *AuditController) Index(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	logs, total, err := ac.service.Listar(filtrosFromQuery(c), page, 50)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, gin.H{
		"logs":  logs,
		"total": total,
		"page":  page,
	})
}

func (ac *AuditController) Detalhes(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid ID format"})
		return
	}
	entry, err := ac.service.Detalhes(id)
	if err != nil {
		c.JSON(404, gin.H{"error": "Log not found"})
		return
	}
	c.JSON(200, gin.H{
		"log":              entry,
		"acaoDisplay":      models.AcaoDisplay(entry.Acao),
		"categoriaDisplay": models.CategoriaDisplay(entry.Categoria),
	})
}

func (ac *AuditController) Timeline(c *gin.Context) {
	entidadeID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid ID format"})
		return
	}
	logs, err := ac.service.Timeline(c.Param("entidade"), entidadeID)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, logs)
}

func (ac *AuditController) PorUsuario(c *gin.Context) {
	usuarioID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid ID format"})
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	logs, total, err := ac.service.PorUsuario(usuarioID, page, 50)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, gin.H{"logs": logs, "total": total, "page": page})
}

func (ac *AuditController) Estatisticas(c *gin.Context) {
	stats, err := ac.service.Estatisticas()
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, stats)
}

func (ac *AuditController) ExportarCSV(c *gin.Context) {
	payload, filename, err := ac.service.ExportarCSV(filtrosFromQuery(c))
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}

	actor, _ := middleware.CurrentActor(c)
	ac.service.Registrar(actor, models.AcaoExportCSV, models.EntidadeSistema, nil,
		"Exportação em CSV do log de auditoria", nil, nil,
		models.CategoriaExportacoes, models.SeveridadeInfo)

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(200, "text/csv; charset=utf-8", payload)
}

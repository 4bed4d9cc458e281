package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/nmatss/prova-modelagem-app/src/services"
)

// AdminController serves the admin dashboard counters.
type AdminController struct {
	usuarios   *services.UsuarioService
	relatorios *services.RelatorioService
}

func NewAdminController(usuarios *services.UsuarioService, relatorios *services.RelatorioService) *AdminController {
	return &AdminController{usuarios: usuarios, relatorios: relatorios}
}

func (ac *AdminController) Dashboard(c *gin.Context) {
	contagens, err := ac.relatorios.Contagens()
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	totalUsuarios, err := ac.usuarios.Count()
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, gin.H{
		"usuarios":    totalUsuarios,
		"relatorios":  contagens.Relatorios,
		"referencias": contagens.Referencias,
		"provas":      contagens.Provas,
		"fotos":       contagens.Fotos,
	})
}

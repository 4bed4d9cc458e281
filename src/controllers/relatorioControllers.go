package controllers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nmatss/prova-modelagem-app/src/config"
	"github.com/nmatss/prova-modelagem-app/src/dtos"
	"github.com/nmatss/prova-modelagem-app/src/middleware"
	"github.com/nmatss/prova-modelagem-app/src/services"
)

type RelatorioController struct {
	service *services.RelatorioService
	export  *services.ExportService
	cfg     *config.Config
}

func NewRelatorioController(service *services.RelatorioService, export *services.ExportService, cfg *config.Config) *RelatorioController {
	return &RelatorioController{service: service, export: export, cfg: cfg}
}

func (rc *RelatorioController) ListRelatorios(c *gin.Context) {
	relatorios, err := rc.service.ListRelatorios()
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, relatorios)
}

func (rc *RelatorioController) GetRelatorioDetalhes(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid ID format"})
		return
	}
	detalhes, err := rc.service.GetRelatorioDetalhes(id)
	if err != nil {
		if errors.Is(err, services.ErrRelatorioNaoEncontrado) {
			c.JSON(404, gin.H{"error": "Relatório not found"})
			return
		}
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, detalhes)
}

func (rc *RelatorioController) CreateRelatorio(c *gin.Context) {
	form, ok := rc.multipart(c)
	if !ok {
		return
	}
	parsed := dtos.ParseRelatorioForm(form)
	if parsed.DescricaoGeral == "" {
		c.JSON(400, gin.H{"error": "A descrição geral é obrigatória"})
		return
	}

	actor, _ := middleware.CurrentActor(c)
	relatorio, avisos, err := rc.service.CreateRelatorio(actor, parsed)
	if err != nil {
		c.JSON(500, gin.H{"error": "Ocorreu um erro ao salvar o relatório: " + err.Error(), "avisos": avisos})
		return
	}
	c.JSON(201, gin.H{"relatorio": relatorio, "avisos": avisos})
}

func (rc *RelatorioController) UpdateRelatorio(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid ID format"})
		return
	}
	form, ok := rc.multipart(c)
	if !ok {
		return
	}
	parsed := dtos.ParseRelatorioForm(form)
	if parsed.DescricaoGeral == "" {
		c.JSON(400, gin.H{"error": "A descrição geral é obrigatória"})
		return
	}

	actor, _ := middleware.CurrentActor(c)
	avisos, err := rc.service.UpdateRelatorio(actor, id, parsed)
	if err != nil {
		if errors.Is(err, services.ErrRelatorioNaoEncontrado) {
			c.JSON(404, gin.H{"error": "Relatório not found"})
			return
		}
		c.JSON(500, gin.H{"error": "Erro ao atualizar o relatório: " + err.Error(), "avisos": avisos})
		return
	}
	c.JSON(200, gin.H{"message": "Relatório atualizado com sucesso", "avisos": avisos})
}

func (rc *RelatorioController) DeleteRelatorio(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid ID format"})
		return
	}

	actor, _ := middleware.CurrentActor(c)
	if err := rc.service.DeleteRelatorio(actor, id); err != nil {
		if errors.Is(err, services.ErrRelatorioNaoEncontrado) {
			c.JSON(404, gin.H{"error": "Relatório not found"})
			return
		}
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, gin.H{"message": "Relatório excluído com sucesso"})
}

// AddProva appends a new sample round to a reference. The form fields are
// suffixed by the reference's category.
func (rc *RelatorioController) AddProva(c *gin.Context) {
	referenciaID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid ID format"})
		return
	}
	form, ok := rc.multipart(c)
	if !ok {
		return
	}
	tipo := strings.TrimSpace(c.PostForm("tipo"))
	if tipo == "" {
		c.JSON(400, gin.H{"error": "O campo tipo é obrigatório"})
		return
	}
	parsed := dtos.ParseProvaForm(form, tipo)

	actor, _ := middleware.CurrentActor(c)
	prova, avisos, err := rc.service.AddProva(actor, referenciaID, parsed)
	if err != nil {
		if errors.Is(err, services.ErrReferenciaNaoEncontrada) {
			c.JSON(404, gin.H{"error": "Referência not found"})
			return
		}
		c.JSON(500, gin.H{"error": "Erro ao salvar a nova prova: " + err.Error(), "avisos": avisos})
		return
	}
	c.JSON(201, gin.H{"prova": prova, "avisos": avisos})
}

type updateStatusRequest struct {
	ProvaID    int    `json:"provaId" form:"prova_id"`
	NovoStatus string `json:"novoStatus" form:"novo_status"`
	Motivo     string `json:"motivo" form:"motivo"`
}

func (rc *RelatorioController) UpdateStatusProva(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if req.NovoStatus == "" {
		c.JSON(400, gin.H{"error": "O novo status é obrigatório"})
		return
	}

	actor, _ := middleware.CurrentActor(c)
	relatorioID, err := rc.service.UpdateStatusProva(actor, req.ProvaID, req.NovoStatus, req.Motivo)
	if err != nil {
		if errors.Is(err, services.ErrProvaNaoEncontrada) {
			c.JSON(404, gin.H{"error": "Prova not found"})
			return
		}
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, gin.H{
		"message":     "Status da prova atualizado para '" + req.NovoStatus + "' com sucesso",
		"relatorioId": relatorioID,
	})
}

// ServeUpload streams a stored file back to an authenticated client.
func (rc *RelatorioController) ServeUpload(c *gin.Context) {
	nome := filepath.Base(strings.TrimPrefix(c.Param("filepath"), "/"))
	if nome == "" || nome == "." {
		c.JSON(404, gin.H{"error": "Arquivo não encontrado"})
		return
	}
	c.File(filepath.Join(rc.cfg.UploadFolder, nome))
}

func (rc *RelatorioController) ExportRelatoriosExcel(c *gin.Context) {
	actor, _ := middleware.CurrentActor(c)
	filename, err := rc.export.ExportRelatorios(actor)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.FileAttachment(filepath.Join(rc.cfg.ExportFolder, filename), filename)
}

func (rc *RelatorioController) ExportDetalhesExcel(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid ID format"})
		return
	}

	actor, _ := middleware.CurrentActor(c)
	filename, err := rc.export.ExportDetalhes(actor, id)
	if err != nil {
		if errors.Is(err, services.ErrRelatorioNaoEncontrado) {
			c.JSON(404, gin.H{"error": "Relatório not found"})
			return
		}
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.FileAttachment(filepath.Join(rc.cfg.ExportFolder, filename), filename)
}

// multipart parses the submission, answering 413 when the body exceeds the
// configured ceiling.
func (rc *RelatorioController) multipart(c *gin.Context) (*multipart.Form, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, rc.cfg.MaxContentLength)
	mf, err := c.MultipartForm()
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(413, gin.H{"error": "Requisição excede o tamanho máximo permitido"})
			return nil, false
		}
		c.JSON(400, gin.H{"error": "Formulário multipart inválido: " + err.Error()})
		return nil, false
	}
	return mf, true
}

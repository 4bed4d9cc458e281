package controllers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nmatss/prova-modelagem-app/src/middleware"
	"github.com/nmatss/prova-modelagem-app/src/models"
	"github.com/nmatss/prova-modelagem-app/src/services"
)

type UsuarioController struct {
	service *services.UsuarioService
}

func NewUsuarioController(service *services.UsuarioService) *UsuarioController {
	return &UsuarioController{service: service}
}

func (uc *UsuarioController) Authenticate(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	token, usuario, err := uc.service.Authenticate(req.Username, req.Password, c.ClientIP())
	if err != nil {
		if errors.Is(err, services.ErrCredenciaisInvalidas) || errors.Is(err, services.ErrUsuarioInativo) {
			c.JSON(401, gin.H{"error": err.Error()})
			return
		}
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, gin.H{
		"token":           token,
		"usuario":         usuario,
		"senhaTemporaria": usuario.SenhaTemporaria,
	})
}

func (uc *UsuarioController) Logout(c *gin.Context) {
	actor, _ := middleware.CurrentActor(c)
	uc.service.Logout(actor)
	c.JSON(200, gin.H{"message": "Logout realizado com sucesso"})
}

func (uc *UsuarioController) GetAllUsuarios(c *gin.Context) {
	usuarios, err := uc.service.GetAllUsuarios()
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, usuarios)
}

func (uc *UsuarioController) GetUsuarioByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid ID format"})
		return
	}
	usuario, err := uc.service.GetUsuarioByID(id)
	if err != nil {
		c.JSON(404, gin.H{"error": "Usuário not found"})
		return
	}
	c.JSON(200, usuario)
}

type createUsuarioRequest struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	NomeCompleto string `json:"nomeCompleto"`
	Role         string `json:"role"`
	Senha        string `json:"senha"`
}

func (uc *UsuarioController) CreateUsuario(c *gin.Context) {
	var req createUsuarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	actor, _ := middleware.CurrentActor(c)
	usuario := &models.UsuarioModel{
		Username:     req.Username,
		Email:        req.Email,
		NomeCompleto: req.NomeCompleto,
		Role:         req.Role,
	}
	created, err := uc.service.CreateUsuario(actor, usuario, req.Senha)
	if err != nil {
		if errors.Is(err, services.ErrUsernameEmUso) || errors.Is(err, services.ErrEmailEmUso) {
			c.JSON(409, gin.H{"error": err.Error()})
			return
		}
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	c.JSON(201, created)
}

type updateUsuarioRequest struct {
	Email        string `json:"email"`
	NomeCompleto string `json:"nomeCompleto"`
	Role         string `json:"role"`
}

func (uc *UsuarioController) UpdateUsuario(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid ID format"})
		return
	}
	var req updateUsuarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	actor, _ := middleware.CurrentActor(c)
	usuario, err := uc.service.UpdateUsuario(actor, id, req.Email, req.NomeCompleto, req.Role)
	if err != nil {
		if errors.Is(err, services.ErrUsuarioNaoEncontrado) {
			c.JSON(404, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, services.ErrEmailEmUso) {
			c.JSON(409, gin.H{"error": err.Error()})
			return
		}
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, usuario)
}

func (uc *UsuarioController) DeleteUsuario(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid ID format"})
		return
	}

	actor, _ := middleware.CurrentActor(c)
	if err := uc.service.DeleteUsuario(actor, id); err != nil {
		switch {
		case errors.Is(err, services.ErrAutoOperacao):
			c.JSON(400, gin.H{"error": "Você não pode excluir a si mesmo."})
		case errors.Is(err, services.ErrUsuarioNaoEncontrado):
			c.JSON(404, gin.H{"error": err.Error()})
		default:
			c.JSON(500, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(200, gin.H{"message": "Usuário excluído com sucesso"})
}

func (uc *UsuarioController) ToggleActive(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid ID format"})
		return
	}

	actor, _ := middleware.CurrentActor(c)
	usuario, err := uc.service.ToggleActive(actor, id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAutoOperacao):
			c.JSON(400, gin.H{"error": "Você não pode desativar a si mesmo."})
		case errors.Is(err, services.ErrUsuarioNaoEncontrado):
			c.JSON(404, gin.H{"error": err.Error()})
		default:
			c.JSON(500, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(200, usuario)
}

func (uc *UsuarioController) ToggleAdmin(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid ID format"})
		return
	}

	actor, _ := middleware.CurrentActor(c)
	usuario, err := uc.service.ToggleAdmin(actor, id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAutoOperacao):
			c.JSON(400, gin.H{"error": "Você não pode alterar seu próprio status de admin."})
		case errors.Is(err, services.ErrUsuarioNaoEncontrado):
			c.JSON(404, gin.H{"error": err.Error()})
		default:
			c.JSON(500, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(200, usuario)
}

type resetSenhaRequest struct {
	NovaSenha string `json:"novaSenha"`
}

func (uc *UsuarioController) ResetPassword(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid ID format"})
		return
	}
	var req resetSenhaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	actor, _ := middleware.CurrentActor(c)
	if err := uc.service.ResetPassword(actor, id, req.NovaSenha); err != nil {
		if errors.Is(err, services.ErrUsuarioNaoEncontrado) {
			c.JSON(404, gin.H{"error": err.Error()})
			return
		}
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, gin.H{"message": "Senha resetada com sucesso"})
}

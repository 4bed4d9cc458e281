package services

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/nmatss/prova-modelagem-app/src/logger"
	"github.com/nmatss/prova-modelagem-app/src/models"
)

var ErrUsuarioNaoEncontrado = errors.New("usuário não encontrado")
var ErrCredenciaisInvalidas = errors.New("usuário ou senha inválidos")
var ErrUsuarioInativo = errors.New("usuário desativado")
var ErrUsernameEmUso = errors.New("nome de usuário já está em uso")
var ErrEmailEmUso = errors.New("email já está em uso")
var ErrAutoOperacao = errors.New("operação não permitida sobre a própria conta")

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,50}$`)
var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

type UsuarioService struct {
	db        *gorm.DB
	secretKey string
	audit     *AuditService
	log       *logger.Logger
}

func NewUsuarioService(db *gorm.DB, secretKey string, audit *AuditService, log *logger.Logger) *UsuarioService {
	return &UsuarioService{db: db, secretKey: secretKey, audit: audit, log: log}
}

// GetAllUsuarios retrieves every account, admins first by username.
func (s *UsuarioService) GetAllUsuarios() ([]models.UsuarioModel, error) {
	var usuarios []models.UsuarioModel
	result := s.db.Order("username").Find(&usuarios)
	if result.Error != nil {
		return nil, result.Error
	}
	return usuarios, nil
}

func (s *UsuarioService) GetUsuarioByID(id int) (*models.UsuarioModel, error) {
	var usuario models.UsuarioModel
	if err := s.db.First(&usuario, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUsuarioNaoEncontrado
		}
		return nil, err
	}
	return &usuario, nil
}

// CreateUsuario validates and creates a new account. The password is hashed
// before saving; duplicate usernames and emails come back as friendly errors.
func (s *UsuarioService) CreateUsuario(actor *Actor, usuario *models.UsuarioModel, senha string) (*models.UsuarioModel, error) {
	if !usernameRe.MatchString(usuario.Username) {
		return nil, errors.New("username inválido: use 3 a 50 caracteres alfanuméricos, _ ou -")
	}
	if !emailRe.MatchString(usuario.Email) {
		return nil, errors.New("email inválido")
	}
	if err := ValidarForcaSenha(senha); err != nil {
		return nil, err
	}
	if usuario.Role == "" {
		usuario.Role = models.RoleUsuario
	}
	if usuario.Role != models.RoleAdmin && usuario.Role != models.RoleGestor && usuario.Role != models.RoleUsuario {
		return nil, fmt.Errorf("role inválida: %s", usuario.Role)
	}

	if err := s.checkUnico(usuario.Username, usuario.Email, 0); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(senha), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	usuario.PasswordHash = string(hashed)
	usuario.IsActive = true

	if err := s.db.Create(usuario).Error; err != nil {
		return nil, err
	}

	s.audit.Registrar(actor, models.AcaoCreate, models.EntidadeUsuario, &usuario.ID,
		fmt.Sprintf("Usuário '%s' criado com role '%s'", usuario.Username, usuario.Role),
		nil, map[string]string{"username": usuario.Username, "role": usuario.Role},
		models.CategoriaUsuarios, models.SeveridadeInfo)

	return usuario, nil
}

// UpdateUsuario changes name, email and role of an account.
func (s *UsuarioService) UpdateUsuario(actor *Actor, id int, email, nomeCompleto, role string) (*models.UsuarioModel, error) {
	usuario, err := s.GetUsuarioByID(id)
	if err != nil {
		return nil, err
	}
	if email != "" && !emailRe.MatchString(email) {
		return nil, errors.New("email inválido")
	}
	if email != "" {
		if err := s.checkUnico("", email, id); err != nil {
			return nil, err
		}
		usuario.Email = email
	}
	if nomeCompleto != "" {
		usuario.NomeCompleto = nomeCompleto
	}
	roleAntiga := usuario.Role
	if role != "" {
		if role != models.RoleAdmin && role != models.RoleGestor && role != models.RoleUsuario {
			return nil, fmt.Errorf("role inválida: %s", role)
		}
		usuario.Role = role
	}

	if err := s.db.Save(usuario).Error; err != nil {
		return nil, err
	}

	if role != "" && role != roleAntiga {
		s.audit.Registrar(actor, models.AcaoRoleChange, models.EntidadeUsuario, &id,
			fmt.Sprintf("Nível de acesso de '%s' alterado de '%s' para '%s'", usuario.Username, roleAntiga, role),
			map[string]string{"role": roleAntiga}, map[string]string{"role": role},
			models.CategoriaUsuarios, models.SeveridadeWarning)
	} else {
		s.audit.Registrar(actor, models.AcaoUpdate, models.EntidadeUsuario, &id,
			fmt.Sprintf("Usuário '%s' atualizado", usuario.Username),
			nil, nil, models.CategoriaUsuarios, models.SeveridadeInfo)
	}

	return usuario, nil
}

// DeleteUsuario removes an account. Deleting the acting admin's own account is
// refused.
func (s *UsuarioService) DeleteUsuario(actor *Actor, id int) error {
	if actor != nil && actor.ID == id {
		return ErrAutoOperacao
	}
	usuario, err := s.GetUsuarioByID(id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(&models.UsuarioModel{}, id).Error; err != nil {
		return err
	}

	s.audit.Registrar(actor, models.AcaoDelete, models.EntidadeUsuario, &id,
		fmt.Sprintf("Usuário '%s' excluído", usuario.Username),
		usuario, nil, models.CategoriaUsuarios, models.SeveridadeWarning)
	return nil
}

// ToggleActive flips the active flag (soft enable/disable).
func (s *UsuarioService) ToggleActive(actor *Actor, id int) (*models.UsuarioModel, error) {
	if actor != nil && actor.ID == id {
		return nil, ErrAutoOperacao
	}
	usuario, err := s.GetUsuarioByID(id)
	if err != nil {
		return nil, err
	}
	usuario.IsActive = !usuario.IsActive
	if err := s.db.Save(usuario).Error; err != nil {
		return nil, err
	}

	acao := models.AcaoUserDeactivate
	if usuario.IsActive {
		acao = models.AcaoUserActivate
	}
	s.audit.Registrar(actor, acao, models.EntidadeUsuario, &id,
		fmt.Sprintf("Usuário '%s' %s", usuario.Username, map[bool]string{true: "ativado", false: "desativado"}[usuario.IsActive]),
		nil, map[string]bool{"isActive": usuario.IsActive},
		models.CategoriaUsuarios, models.SeveridadeWarning)
	return usuario, nil
}

// ToggleAdmin promotes a plain account to admin or demotes an admin back to
// usuario. Changing one's own role is refused.
func (s *UsuarioService) ToggleAdmin(actor *Actor, id int) (*models.UsuarioModel, error) {
	if actor != nil && actor.ID == id {
		return nil, ErrAutoOperacao
	}
	usuario, err := s.GetUsuarioByID(id)
	if err != nil {
		return nil, err
	}
	roleAntiga := usuario.Role
	if usuario.IsAdmin() {
		usuario.Role = models.RoleUsuario
	} else {
		usuario.Role = models.RoleAdmin
	}
	if err := s.db.Save(usuario).Error; err != nil {
		return nil, err
	}

	s.audit.Registrar(actor, models.AcaoRoleChange, models.EntidadeUsuario, &id,
		fmt.Sprintf("Nível de acesso de '%s' alterado de '%s' para '%s'", usuario.Username, roleAntiga, usuario.Role),
		map[string]string{"role": roleAntiga}, map[string]string{"role": usuario.Role},
		models.CategoriaUsuarios, models.SeveridadeWarning)
	return usuario, nil
}

// ResetPassword sets a new password and marks it temporary so the user is
// asked to change it.
func (s *UsuarioService) ResetPassword(actor *Actor, id int, novaSenha string) error {
	usuario, err := s.GetUsuarioByID(id)
	if err != nil {
		return err
	}
	if err := ValidarForcaSenha(novaSenha); err != nil {
		return err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(novaSenha), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	usuario.PasswordHash = string(hashed)
	usuario.SenhaTemporaria = true
	if err := s.db.Save(usuario).Error; err != nil {
		return err
	}

	s.audit.Registrar(actor, models.AcaoPasswordReset, models.EntidadeUsuario, &id,
		fmt.Sprintf("Senha resetada para o usuário '%s'", usuario.Username),
		nil, nil, models.CategoriaUsuarios, models.SeveridadeWarning)
	return nil
}

// Authenticate checks the credentials and returns a signed JWT on success.
// Failed attempts against existing accounts are audited.
func (s *UsuarioService) Authenticate(username, password, ip string) (string, *models.UsuarioModel, error) {
	var usuario models.UsuarioModel
	result := s.db.Where("username = ?", username).First(&usuario)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", nil, ErrCredenciaisInvalidas
		}
		return "", nil, result.Error
	}

	if err := bcrypt.CompareHashAndPassword([]byte(usuario.PasswordHash), []byte(password)); err != nil {
		s.audit.Registrar(&Actor{ID: usuario.ID, Nome: usuario.Username, IP: ip},
			models.AcaoLoginFailed, models.EntidadeSistema, nil,
			"Tentativa de login falhou", nil, nil,
			models.CategoriaAutenticacao, models.SeveridadeWarning)
		return "", nil, ErrCredenciaisInvalidas
	}

	if !usuario.IsActive {
		return "", nil, ErrUsuarioInativo
	}

	claims := jwt.MapClaims{
		"id":       usuario.ID,
		"username": usuario.Username,
		"role":     usuario.Role,
		"exp":      time.Now().Add(time.Hour * 12).Unix(), // Token expires in 12 hours
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.secretKey))
	if err != nil {
		return "", nil, err
	}

	s.audit.Registrar(&Actor{ID: usuario.ID, Nome: usuario.Username, Role: usuario.Role, IP: ip},
		models.AcaoLogin, models.EntidadeSistema, nil,
		"Login realizado com sucesso", nil, nil,
		models.CategoriaAutenticacao, models.SeveridadeInfo)

	return tokenString, &usuario, nil
}

// Logout records the logout event. Token discard happens on the client; the
// audit entry is what the server keeps.
func (s *UsuarioService) Logout(actor *Actor) {
	s.audit.Registrar(actor, models.AcaoLogout, models.EntidadeSistema, nil,
		"Logout realizado", nil, nil,
		models.CategoriaAutenticacao, models.SeveridadeInfo)
}

func (s *UsuarioService) Count() (int64, error) {
	var total int64
	err := s.db.Model(&models.UsuarioModel{}).Count(&total).Error
	return total, err
}

func (s *UsuarioService) checkUnico(username, email string, ignorarID int) error {
	var count int64
	if username != "" {
		s.db.Model(&models.UsuarioModel{}).Where("username = ? AND id <> ?", username, ignorarID).Count(&count)
		if count > 0 {
			return ErrUsernameEmUso
		}
	}
	if email != "" {
		s.db.Model(&models.UsuarioModel{}).Where("email = ? AND id <> ?", email, ignorarID).Count(&count)
		if count > 0 {
			return ErrEmailEmUso
		}
	}
	return nil
}

// ValidarForcaSenha enforces the minimum password rules: length, upper and
// lower case letters, a digit and a special character.
func ValidarForcaSenha(senha string) error {
	if len(senha) < 8 {
		return errors.New("senha deve ter no mínimo 8 caracteres")
	}
	checks := []struct {
		re  string
		msg string
	}{
		{`[a-z]`, "senha deve conter pelo menos uma letra minúscula"},
		{`[A-Z]`, "senha deve conter pelo menos uma letra maiúscula"},
		{`[0-9]`, "senha deve conter pelo menos um número"},
		{`[!@#$%^&*(),.?":{}|<>]`, "senha deve conter pelo menos um caractere especial"},
	}
	for _, c := range checks {
		if matched, _ := regexp.MatchString(c.re, senha); !matched {
			return errors.New(c.msg)
		}
	}
	return nil
}

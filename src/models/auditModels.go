package models

import (
	"time"

	"gorm.io/datatypes"
)

// Ações registradas no log de auditoria.
const (
	AcaoLogin          = "LOGIN"
	AcaoLoginFailed    = "LOGIN_FAILED"
	AcaoLogout         = "LOGOUT"
	AcaoCreate         = "CREATE"
	AcaoUpdate         = "UPDATE"
	AcaoDelete         = "DELETE"
	AcaoApprove        = "APPROVE"
	AcaoReject         = "REJECT"
	AcaoPasswordReset  = "PASSWORD_RESET"
	AcaoPasswordChange = "PASSWORD_CHANGE"
	AcaoRoleChange     = "ROLE_CHANGE"
	AcaoUserActivate   = "USER_ACTIVATE"
	AcaoUserDeactivate = "USER_DEACTIVATE"
	AcaoFileUpload     = "FILE_UPLOAD"
	AcaoExportCSV      = "EXPORT_CSV"
	AcaoExportExcel    = "EXPORT_EXCEL"
)

// Entidades auditadas.
const (
	EntidadeUsuario    = "Usuario"
	EntidadeRelatorio  = "Relatorio"
	EntidadeReferencia = "Referencia"
	EntidadeProva      = "Prova"
	EntidadeFoto       = "Foto"
	EntidadeSistema    = "Sistema"
)

// Categorias de auditoria.
const (
	CategoriaAutenticacao = "AUTENTICACAO"
	CategoriaUsuarios     = "USUARIOS"
	CategoriaRelatorios   = "RELATORIOS"
	CategoriaProvas       = "PROVAS"
	CategoriaAprovacoes   = "APROVACOES"
	CategoriaArquivos     = "ARQUIVOS"
	CategoriaSistema      = "SISTEMA"
	CategoriaExportacoes  = "EXPORTACOES"
)

// Severidades.
const (
	SeveridadeInfo     = "INFO"
	SeveridadeWarning  = "WARNING"
	SeveridadeCritical = "CRITICAL"
)

type AuditLogModel struct {
	ID          int            `json:"id" gorm:"primaryKey;autoIncrement"`
	UsuarioID   int            `json:"usuarioId" gorm:"column:usuario_id;not null;index:idx_audit_usuario"`
	UsuarioNome string         `json:"usuarioNome" gorm:"type:varchar(150)"`
	Acao        string         `json:"acao" gorm:"type:varchar(50);not null;index:idx_audit_acao"`
	Entidade    string         `json:"entidade" gorm:"type:varchar(50);not null;index:idx_audit_entidade"`
	EntidadeID  *int           `json:"entidadeId" gorm:"column:entidade_id;index:idx_audit_entidade_id"`
	Descricao   string         `json:"descricao" gorm:"type:text"`
	DadosAntes  datatypes.JSON `json:"dadosAntes" gorm:"column:dados_antes"`
	DadosDepois datatypes.JSON `json:"dadosDepois" gorm:"column:dados_depois"`
	Categoria   string         `json:"categoria" gorm:"type:varchar(50);index:idx_audit_categoria"`
	Severidade  string         `json:"severidade" gorm:"type:varchar(20);default:INFO"`
	IPAddress   *string        `json:"ipAddress" gorm:"column:ip_address;type:varchar(45)"`
	CreatedAt   time.Time      `json:"createdAt" gorm:"index:idx_audit_created_at"`
}

func (AuditLogModel) TableName() string {
	return "audit_logs"
}

// AcaoDisplay returns the localized label for an action code.
func AcaoDisplay(acao string) string {
	labels := map[string]string{
		AcaoLogin:          "Login",
		AcaoLogout:         "Logout",
		AcaoLoginFailed:    "Login Falhou",
		AcaoCreate:         "Criação",
		AcaoUpdate:         "Atualização",
		AcaoDelete:         "Exclusão",
		AcaoApprove:        "Aprovação",
		AcaoReject:         "Rejeição",
		AcaoPasswordReset:  "Reset de Senha",
		AcaoRoleChange:     "Mudança de Permissão",
		AcaoUserActivate:   "Usuário Ativado",
		AcaoUserDeactivate: "Usuário Desativado",
		AcaoFileUpload:     "Upload de Arquivo",
		AcaoExportCSV:      "Exportação CSV",
		AcaoExportExcel:    "Exportação Excel",
	}
	if label, ok := labels[acao]; ok {
		return label
	}
	return acao
}

// CategoriaDisplay returns the localized label for a category code.
func CategoriaDisplay(categoria string) string {
	labels := map[string]string{
		CategoriaAutenticacao: "Autenticação",
		CategoriaUsuarios:     "Usuários",
		CategoriaRelatorios:   "Relatórios",
		CategoriaProvas:       "Provas",
		CategoriaAprovacoes:   "Aprovações",
		CategoriaArquivos:     "Arquivos",
		CategoriaSistema:      "Sistema",
		CategoriaExportacoes:  "Exportações",
	}
	if label, ok := labels[categoria]; ok {
		return label
	}
	return categoria
}

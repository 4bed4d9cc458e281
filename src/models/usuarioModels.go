package models

import "time"

// Roles de acesso.
const (
	RoleAdmin   = "admin"
	RoleGestor  = "gestor"
	RoleUsuario = "usuario"
)

type UsuarioModel struct {
	ID              int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Username        string    `json:"username" gorm:"type:varchar(150);uniqueIndex;not null"`
	Email           string    `json:"email" gorm:"type:varchar(150);uniqueIndex;not null"`
	NomeCompleto    string    `json:"nomeCompleto" gorm:"type:varchar(200)"`
	PasswordHash    string    `json:"-" gorm:"type:varchar(200);not null"`
	Role            string    `json:"role" gorm:"type:varchar(50);default:usuario;not null"`
	IsActive        bool      `json:"isActive" gorm:"type:boolean;default:true;not null"`
	SenhaTemporaria bool      `json:"senhaTemporaria" gorm:"type:boolean;default:false;not null"`
	CreatedAt       time.Time `json:"createdAt"`
}

func (UsuarioModel) TableName() string {
	return "usuarios"
}

// IsAdmin is derived from the role; there is no separate flag column.
func (u *UsuarioModel) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

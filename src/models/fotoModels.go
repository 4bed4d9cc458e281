package models

// Contextos de foto. O tamanho só tem significado para amostra e prova_modelo.
const (
	ContextoDesenho     = "desenho"
	ContextoQualidade   = "qualidade"
	ContextoEstilo      = "estilo"
	ContextoAmostra     = "amostra"
	ContextoProvaModelo = "prova_modelo"
)

// ContextosGerais are the photo groups attached directly to a prova.
var ContextosGerais = []string{ContextoDesenho, ContextoQualidade, ContextoEstilo}

// ContextosPorTamanho are the photo groups attached per received size.
var ContextosPorTamanho = []string{ContextoAmostra, ContextoProvaModelo}

type FotoModel struct {
	ID       int     `json:"id" gorm:"primaryKey;autoIncrement"`
	ProvaID  int     `json:"provaId" gorm:"column:prova_id;not null;index"`
	Contexto string  `json:"contexto" gorm:"type:varchar(50);not null"`
	Tamanho  *string `json:"tamanho" gorm:"type:varchar(20)"`
	FilePath string  `json:"filePath" gorm:"type:varchar(200);not null"`
}

func (FotoModel) TableName() string {
	return "fotos"
}

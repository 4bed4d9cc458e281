package models

// Categorias de produto reconhecidas pelo fluxo de relatórios.
var CategoriasProduto = []string{"baby", "kids", "teen", "adulto"}

type ReferenciaModel struct {
	ID           int          `json:"id" gorm:"primaryKey;autoIncrement"`
	RelatorioID  int          `json:"relatorioId" gorm:"column:relatorio_id;not null;index"`
	Tipo         string       `json:"tipo" gorm:"type:varchar(50);not null"`
	NumeroRef    *string      `json:"numeroRef" gorm:"type:varchar(100)"`
	Origem       *string      `json:"origem" gorm:"type:varchar(100)"`
	Fornecedor   *string      `json:"fornecedor" gorm:"type:varchar(100)"`
	MateriaPrima *string      `json:"materiaPrima" gorm:"type:varchar(100)"`
	Composicao   *string      `json:"composicao" gorm:"type:varchar(100)"`
	Gramatura    *string      `json:"gramatura" gorm:"type:varchar(100)"`
	Aviamentos   *string      `json:"aviamentos" gorm:"type:varchar(200)"`
	Provas       []ProvaModel `json:"provas,omitempty" gorm:"foreignKey:ReferenciaID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (ReferenciaModel) TableName() string {
	return "referencias"
}

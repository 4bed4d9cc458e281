package models

import "time"

type RelatorioModel struct {
	ID             int               `json:"id" gorm:"primaryKey;autoIncrement"`
	DescricaoGeral string            `json:"descricaoGeral" gorm:"type:varchar(200);uniqueIndex;not null"`
	Colecao        *string           `json:"colecao" gorm:"type:varchar(100)"`
	Estacao        *string           `json:"estacao" gorm:"type:varchar(50)"`
	Ano            *string           `json:"ano" gorm:"type:varchar(10)"`
	StatusGeral    *string           `json:"statusGeral" gorm:"type:varchar(50)"`
	PptPath        *string           `json:"pptPath" gorm:"type:varchar(200)"`
	CreatedAt      time.Time         `json:"createdAt"`
	Referencias    []ReferenciaModel `json:"referencias,omitempty" gorm:"foreignKey:RelatorioID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (RelatorioModel) TableName() string {
	return "relatorios"
}

package models

// StatusEmAndamento is the default state of a freshly created prova. The status
// column is free text: any string may follow any string.
const StatusEmAndamento = "Em Andamento"

type ProvaModel struct {
	ID           int    `json:"id" gorm:"primaryKey;autoIncrement"`
	ReferenciaID int    `json:"referenciaId" gorm:"column:referencia_id;not null;index"`
	NumeroProva  int    `json:"numeroProva" gorm:"not null"`
	Status       string `json:"status" gorm:"type:varchar(50);default:Em Andamento"`

	MotivoUltimaAlteracao *string `json:"motivoUltimaAlteracao" gorm:"type:varchar(200)"`
	TabelaMedidasPath     *string `json:"tabelaMedidasPath" gorm:"type:varchar(200)"`

	DataRecebimento   *string `json:"dataRecebimento" gorm:"type:varchar(50)"`
	TamanhosRecebidos *string `json:"tamanhosRecebidos" gorm:"type:varchar(100)"`
	InfoMedidas       *string `json:"infoMedidas" gorm:"type:text"`
	DataProva         *string `json:"dataProva" gorm:"type:varchar(50)"`

	TimeQualidade        *string `json:"timeQualidade" gorm:"type:varchar(50)"`
	ComentariosQualidade *string `json:"comentariosQualidade" gorm:"type:text"`
	ObsQualidade         *string `json:"obsQualidade" gorm:"type:text"`

	TimeEstilo        *string `json:"timeEstilo" gorm:"type:varchar(50)"`
	ComentariosEstilo *string `json:"comentariosEstilo" gorm:"type:text"`
	ObsEstilo         *string `json:"obsEstilo" gorm:"type:text"`

	TimeModelagem        *string `json:"timeModelagem" gorm:"type:varchar(50)"`
	ComentariosModelagem *string `json:"comentariosModelagem" gorm:"type:text"`
	ObsModelagem         *string `json:"obsModelagem" gorm:"type:text"`

	DataLacre      *string `json:"dataLacre" gorm:"type:varchar(50)"`
	NumeroLacre    *string `json:"numeroLacre" gorm:"type:varchar(50)"`
	InfoAdicionais *string `json:"infoAdicionais" gorm:"type:text"`

	Fotos []FotoModel `json:"fotos,omitempty" gorm:"foreignKey:ProvaID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (ProvaModel) TableName() string {
	return "provas"
}

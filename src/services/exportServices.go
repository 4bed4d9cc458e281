package services

import (
	"fmt"
	"path/filepath"
	"time"

	excelize "github.com/xuri/excelize/v2"

	"github.com/nmatss/prova-modelagem-app/src/config"
	"github.com/nmatss/prova-modelagem-app/src/logger"
	"github.com/nmatss/prova-modelagem-app/src/models"
)

// ExportService renders reports as xlsx workbooks into the export directory.
type ExportService struct {
	relatorios *RelatorioService
	cfg        *config.Config
	audit      *AuditService
	log        *logger.Logger
}

func NewExportService(relatorios *RelatorioService, cfg *config.Config, audit *AuditService, log *logger.Logger) *ExportService {
	return &ExportService{relatorios: relatorios, cfg: cfg, audit: audit, log: log}
}

// ExportRelatorios writes the flat report listing workbook and returns the
// generated filename.
func (s *ExportService) ExportRelatorios(actor *Actor) (string, error) {
	resumos, err := s.relatorios.ListRelatorios()
	if err != nil {
		return "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Relatórios"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"E6007E"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return "", err
	}

	headers := []string{"ID", "Coleção", "Descrição", "Referências", "Status Geral", "Data Criação"}
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, header)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for i, r := range resumos {
		row := i + 2
		setRow(f, sheet, row,
			r.ID,
			deref(r.Colecao),
			r.DescricaoGeral,
			r.NumReferencias,
			r.StatusAtual,
			r.CreatedAt.Format("02/01/2006 15:04"),
		)
	}
	f.SetColWidth(sheet, "A", "F", 24)

	filename := fmt.Sprintf("relatorios_export_%s.xlsx", time.Now().Format("20060102_150405"))
	if err := f.SaveAs(filepath.Join(s.cfg.ExportFolder, filename)); err != nil {
		return "", err
	}

	s.audit.Registrar(actor, models.AcaoExportExcel, models.EntidadeRelatorio, nil,
		"Exportação em Excel da listagem de relatórios", nil, nil,
		models.CategoriaExportacoes, models.SeveridadeInfo)
	return filename, nil
}

// ExportDetalhes writes the two-sheet breakdown (general info + one row per
// prova) of one report and returns the generated filename.
func (s *ExportService) ExportDetalhes(actor *Actor, relatorioID int) (string, error) {
	detalhes, err := s.relatorios.GetRelatorioDetalhes(relatorioID)
	if err != nil {
		return "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const geral = "Informações Gerais"
	f.SetSheetName("Sheet1", geral)

	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return "", err
	}

	f.SetCellValue(geral, "A1", "Campo")
	f.SetCellValue(geral, "B1", "Valor")
	f.SetCellStyle(geral, "A1", "B1", boldStyle)
	setRow(f, geral, 2, "ID", detalhes.ID)
	setRow(f, geral, 3, "Coleção", deref(detalhes.Colecao))
	setRow(f, geral, 4, "Descrição", detalhes.DescricaoGeral)
	setRow(f, geral, 5, "Estação", deref(detalhes.Estacao))
	setRow(f, geral, 6, "Ano", deref(detalhes.Ano))
	f.SetColWidth(geral, "A", "B", 32)

	const provas = "Provas"
	if _, err := f.NewSheet(provas); err != nil {
		return "", err
	}
	headers := []string{"Referência", "Tipo", "Nº Prova", "Status", "Data Recebimento", "Data Prova", "Tamanhos"}
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(provas, cell, header)
		f.SetCellStyle(provas, cell, cell, boldStyle)
	}

	row := 2
	for _, ref := range detalhes.Referencias {
		for _, prova := range ref.Provas {
			setRow(f, provas, row,
				deref(ref.NumeroRef),
				ref.Tipo,
				prova.NumeroProva,
				prova.Status,
				deref(prova.DataRecebimento),
				deref(prova.DataProva),
				deref(prova.TamanhosRecebidos),
			)
			row++
		}
	}
	f.SetColWidth(provas, "A", "G", 22)

	filename := fmt.Sprintf("relatorio_%d_detalhes_%s.xlsx", relatorioID, time.Now().Format("20060102_150405"))
	if err := f.SaveAs(filepath.Join(s.cfg.ExportFolder, filename)); err != nil {
		return "", err
	}

	s.audit.Registrar(actor, models.AcaoExportExcel, models.EntidadeRelatorio, &relatorioID,
		fmt.Sprintf("Exportação em Excel do relatório %d", relatorioID), nil, nil,
		models.CategoriaExportacoes, models.SeveridadeInfo)
	return filename, nil
}

func setRow(f *excelize.File, sheet string, row int, values ...interface{}) {
	for col, v := range values {
		cell, _ := excelize.CoordinatesToCellName(col+1, row)
		f.SetCellValue(sheet, cell, v)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

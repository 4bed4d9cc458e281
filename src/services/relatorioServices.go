package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/nmatss/prova-modelagem-app/src/dtos"
	"github.com/nmatss/prova-modelagem-app/src/logger"
	"github.com/nmatss/prova-modelagem-app/src/models"
)

var ErrRelatorioNaoEncontrado = errors.New("relatório não encontrado")
var ErrReferenciaNaoEncontrada = errors.New("referência não encontrada")
var ErrProvaNaoEncontrada = errors.New("prova não encontrada")

// RelatorioService owns the report aggregate: references per category, their
// provas and attached photos. Every mutation runs inside one transaction; the
// file staging batch is promoted only after commit.
type RelatorioService struct {
	db     *gorm.DB
	intake *FileIntake
	audit  *AuditService
	log    *logger.Logger
}

func NewRelatorioService(db *gorm.DB, intake *FileIntake, audit *AuditService, log *logger.Logger) *RelatorioService {
	return &RelatorioService{db: db, intake: intake, audit: audit, log: log}
}

// ListRelatorios returns the dashboard rows, newest first. The displayed
// status is the one of the highest-numbered prova across all references, or
// "Novo" when the report has none yet.
func (s *RelatorioService) ListRelatorios() ([]dtos.RelatorioResumo, error) {
	var relatorios []models.RelatorioModel
	if err := s.db.Order("created_at DESC").Find(&relatorios).Error; err != nil {
		return nil, err
	}

	resumos := make([]dtos.RelatorioResumo, 0, len(relatorios))
	for _, r := range relatorios {
		resumo := dtos.RelatorioResumo{
			ID:             r.ID,
			DescricaoGeral: r.DescricaoGeral,
			Colecao:        r.Colecao,
			Estacao:        r.Estacao,
			Ano:            r.Ano,
			StatusAtual:    "Novo",
			CreatedAt:      r.CreatedAt,
		}

		var numRefs int64
		if err := s.db.Model(&models.ReferenciaModel{}).Where("relatorio_id = ?", r.ID).Count(&numRefs).Error; err != nil {
			return nil, err
		}
		resumo.NumReferencias = int(numRefs)

		var ultima models.ProvaModel
		err := s.db.
			Joins("JOIN referencias ON referencias.id = provas.referencia_id").
			Where("referencias.relatorio_id = ?", r.ID).
			Order("provas.numero_prova DESC").
			First(&ultima).Error
		switch {
		case err == nil:
			resumo.StatusAtual = ultima.Status
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, err
		}

		resumos = append(resumos, resumo)
	}
	return resumos, nil
}

// GetRelatorioDetalhes returns the full nested view: references with their
// provas ordered by number and photos grouped by contexto.
func (s *RelatorioService) GetRelatorioDetalhes(id int) (*dtos.RelatorioDetalhes, error) {
	var relatorio models.RelatorioModel
	err := s.db.Preload("Referencias.Provas.Fotos").First(&relatorio, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRelatorioNaoEncontrado
		}
		return nil, err
	}

	detalhes := &dtos.RelatorioDetalhes{RelatorioModel: relatorio}
	for _, ref := range relatorio.Referencias {
		refDet := dtos.ReferenciaDetalhes{ReferenciaModel: ref}

		provas := append([]models.ProvaModel(nil), ref.Provas...)
		sort.Slice(provas, func(i, j int) bool { return provas[i].NumeroProva < provas[j].NumeroProva })

		for _, prova := range provas {
			provaDet := dtos.ProvaDetalhes{
				ProvaModel:       prova,
				TamanhosLista:    splitTamanhos(prova.TamanhosRecebidos),
				FotosPorContexto: make(map[string][]models.FotoModel),
			}
			for _, foto := range prova.Fotos {
				provaDet.FotosPorContexto[foto.Contexto] = append(provaDet.FotosPorContexto[foto.Contexto], foto)
			}
			refDet.Provas = append(refDet.Provas, provaDet)
		}
		detalhes.Referencias = append(detalhes.Referencias, refDet)
	}
	return detalhes, nil
}

// CreateRelatorio builds a report from a parsed submission: one reference per
// populated category, each with its first prova (numero 1) and photos. The
// returned notices carry per-file rejections that did not abort the save.
func (s *RelatorioService) CreateRelatorio(actor *Actor, form *dtos.RelatorioForm) (*models.RelatorioModel, []string, error) {
	staging := s.intake.NewStaging()

	relatorio := models.RelatorioModel{
		DescricaoGeral: form.DescricaoGeral,
		Colecao:        ptr(form.Colecao),
		Estacao:        ptr(form.Estacao),
		Ano:            ptr(form.Ano),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if name := staging.Save(form.Ppt); name != "" {
			relatorio.PptPath = &name
		}
		if err := tx.Create(&relatorio).Error; err != nil {
			return err
		}
		for _, tipo := range models.CategoriasProduto {
			refForm, ok := form.Referencias[tipo]
			if !ok {
				continue
			}
			if err := s.createReferencia(tx, staging, relatorio.ID, tipo, refForm); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		staging.Discard()
		return nil, staging.Avisos, err
	}
	s.promote(staging)

	s.audit.Registrar(actor, models.AcaoCreate, models.EntidadeRelatorio, &relatorio.ID,
		fmt.Sprintf("Relatório '%s' criado", relatorio.DescricaoGeral),
		nil, relatorio, models.CategoriaRelatorios, models.SeveridadeInfo)

	return &relatorio, staging.Avisos, nil
}

// UpdateRelatorio reconciles the submission against the stored aggregate: for
// each populated category it updates the existing reference and its submitted
// provas in place (appending any new photos), or creates the reference with
// its first prova when the category is new. Photos are never removed here.
func (s *RelatorioService) UpdateRelatorio(actor *Actor, id int, form *dtos.RelatorioForm) ([]string, error) {
	staging := s.intake.NewStaging()

	var antes models.RelatorioModel
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&antes, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRelatorioNaoEncontrado
			}
			return err
		}

		updates := map[string]interface{}{
			"descricao_geral": form.DescricaoGeral,
			"colecao":         ptr(form.Colecao),
			"estacao":         ptr(form.Estacao),
			"ano":             ptr(form.Ano),
		}
		if err := tx.Model(&models.RelatorioModel{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}

		for _, tipo := range models.CategoriasProduto {
			refForm, ok := form.Referencias[tipo]
			if !ok {
				continue
			}

			var existente models.ReferenciaModel
			err := tx.Where("relatorio_id = ? AND tipo = ?", id, tipo).First(&existente).Error
			switch {
			case err == nil:
				if err := s.updateReferencia(tx, staging, &existente, refForm); err != nil {
					return err
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				if err := s.createReferencia(tx, staging, id, tipo, refForm); err != nil {
					return err
				}
			default:
				return err
			}
		}
		return nil
	})
	if err != nil {
		staging.Discard()
		return staging.Avisos, err
	}
	s.promote(staging)

	s.audit.Registrar(actor, models.AcaoUpdate, models.EntidadeRelatorio, &id,
		fmt.Sprintf("Relatório '%s' atualizado", form.DescricaoGeral),
		antes, form.DescricaoGeral, models.CategoriaRelatorios, models.SeveridadeInfo)

	return staging.Avisos, nil
}

// AddProva appends one prova to a reference, numbered one past the current
// maximum (1 when none exist), and attaches its photos.
func (s *RelatorioService) AddProva(actor *Actor, referenciaID int, pf dtos.ProvaForm) (*models.ProvaModel, []string, error) {
	staging := s.intake.NewStaging()

	var prova *models.ProvaModel
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var referencia models.ReferenciaModel
		if err := tx.First(&referencia, referenciaID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReferenciaNaoEncontrada
			}
			return err
		}

		var maxNumero int
		row := tx.Model(&models.ProvaModel{}).
			Where("referencia_id = ?", referenciaID).
			Select("COALESCE(MAX(numero_prova), 0)").
			Row()
		if err := row.Scan(&maxNumero); err != nil {
			return err
		}

		var err error
		prova, err = s.createProva(tx, staging, referenciaID, maxNumero+1, pf)
		return err
	})
	if err != nil {
		staging.Discard()
		return nil, staging.Avisos, err
	}
	s.promote(staging)

	s.audit.Registrar(actor, models.AcaoCreate, models.EntidadeProva, &prova.ID,
		fmt.Sprintf("%dª prova adicionada à referência %d", prova.NumeroProva, referenciaID),
		nil, prova, models.CategoriaProvas, models.SeveridadeInfo)

	return prova, staging.Avisos, nil
}

// UpdateStatusProva sets the status and change reason of a single prova. This
// is the only place a status transition is recorded; no transition graph is
// enforced. It returns the owning report id for redirection.
func (s *RelatorioService) UpdateStatusProva(actor *Actor, provaID int, novoStatus, motivo string) (int, error) {
	var prova models.ProvaModel
	if err := s.db.First(&prova, provaID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrProvaNaoEncontrada
		}
		return 0, err
	}
	statusAntes := prova.Status

	updates := map[string]interface{}{
		"status":                  novoStatus,
		"motivo_ultima_alteracao": ptr(motivo),
	}
	if err := s.db.Model(&models.ProvaModel{}).Where("id = ?", provaID).Updates(updates).Error; err != nil {
		return 0, err
	}

	var referencia models.ReferenciaModel
	if err := s.db.First(&referencia, prova.ReferenciaID).Error; err != nil {
		return 0, err
	}

	acao := models.AcaoUpdate
	switch novoStatus {
	case "Aprovada":
		acao = models.AcaoApprove
	case "Reprovada":
		acao = models.AcaoReject
	}
	s.audit.Registrar(actor, acao, models.EntidadeProva, &provaID,
		fmt.Sprintf("Status da prova alterado para '%s'", novoStatus),
		map[string]string{"status": statusAntes},
		map[string]string{"status": novoStatus, "motivo": motivo},
		models.CategoriaAprovacoes, models.SeveridadeInfo)

	return referencia.RelatorioID, nil
}

// DeleteRelatorio removes the report and every descendant row. Children are
// deleted explicitly inside the transaction rather than relying on database
// cascade support.
func (s *RelatorioService) DeleteRelatorio(actor *Actor, id int) error {
	var relatorio models.RelatorioModel
	if err := s.db.First(&relatorio, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRelatorioNaoEncontrado
		}
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var refIDs []int
		if err := tx.Model(&models.ReferenciaModel{}).Where("relatorio_id = ?", id).Pluck("id", &refIDs).Error; err != nil {
			return err
		}
		if len(refIDs) > 0 {
			var provaIDs []int
			if err := tx.Model(&models.ProvaModel{}).Where("referencia_id IN ?", refIDs).Pluck("id", &provaIDs).Error; err != nil {
				return err
			}
			if len(provaIDs) > 0 {
				if err := tx.Where("prova_id IN ?", provaIDs).Delete(&models.FotoModel{}).Error; err != nil {
					return err
				}
				if err := tx.Where("id IN ?", provaIDs).Delete(&models.ProvaModel{}).Error; err != nil {
					return err
				}
			}
			if err := tx.Where("id IN ?", refIDs).Delete(&models.ReferenciaModel{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.RelatorioModel{}, id).Error
	})
	if err != nil {
		return err
	}

	s.audit.Registrar(actor, models.AcaoDelete, models.EntidadeRelatorio, &id,
		fmt.Sprintf("Relatório '%s' excluído", relatorio.DescricaoGeral),
		relatorio, nil, models.CategoriaRelatorios, models.SeveridadeWarning)
	return nil
}

// Contagens returns the entity totals shown on the admin dashboard.
type Contagens struct {
	Relatorios  int64 `json:"relatorios"`
	Referencias int64 `json:"referencias"`
	Provas      int64 `json:"provas"`
	Fotos       int64 `json:"fotos"`
}

func (s *RelatorioService) Contagens() (*Contagens, error) {
	c := &Contagens{}
	if err := s.db.Model(&models.RelatorioModel{}).Count(&c.Relatorios).Error; err != nil {
		return nil, err
	}
	s.db.Model(&models.ReferenciaModel{}).Count(&c.Referencias)
	s.db.Model(&models.ProvaModel{}).Count(&c.Provas)
	s.db.Model(&models.FotoModel{}).Count(&c.Fotos)
	return c, nil
}

// ---------------------------------------------------------------------------

func (s *RelatorioService) createReferencia(tx *gorm.DB, staging *Staging, relatorioID int, tipo string, refForm *dtos.ReferenciaForm) error {
	referencia := models.ReferenciaModel{
		RelatorioID:  relatorioID,
		Tipo:         tipo,
		NumeroRef:    ptr(refForm.NumeroRef),
		Origem:       ptr(refForm.Origem),
		Fornecedor:   ptr(refForm.Fornecedor),
		MateriaPrima: ptr(refForm.MateriaPrima),
		Composicao:   ptr(refForm.Composicao),
		Gramatura:    ptr(refForm.Gramatura),
		Aviamentos:   ptr(refForm.Aviamentos),
	}
	if err := tx.Create(&referencia).Error; err != nil {
		return err
	}

	_, err := s.createProva(tx, staging, referencia.ID, 1, refForm.NovaProva)
	return err
}

func (s *RelatorioService) updateReferencia(tx *gorm.DB, staging *Staging, referencia *models.ReferenciaModel, refForm *dtos.ReferenciaForm) error {
	updates := map[string]interface{}{
		"numero_ref":    ptr(refForm.NumeroRef),
		"origem":        ptr(refForm.Origem),
		"fornecedor":    ptr(refForm.Fornecedor),
		"materia_prima": ptr(refForm.MateriaPrima),
		"composicao":    ptr(refForm.Composicao),
		"gramatura":     ptr(refForm.Gramatura),
		"aviamentos":    ptr(refForm.Aviamentos),
	}
	if err := tx.Model(&models.ReferenciaModel{}).Where("id = ?", referencia.ID).Updates(updates).Error; err != nil {
		return err
	}

	for provaID, pf := range refForm.ProvasExistentes {
		var prova models.ProvaModel
		err := tx.First(&prova, provaID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return err
		}

		provaUpdates := map[string]interface{}{
			"data_recebimento":      ptr(pf.DataRecebimento),
			"tamanhos_recebidos":    ptr(strings.Join(pf.TamanhosRecebidos, ", ")),
			"info_medidas":          ptr(pf.InfoMedidas),
			"data_prova":            ptr(pf.DataProva),
			"time_qualidade":        ptr(pf.TimeQualidade),
			"comentarios_qualidade": ptr(pf.ComentariosQualidade),
			"time_estilo":           ptr(pf.TimeEstilo),
			"comentarios_estilo":    ptr(pf.ComentariosEstilo),
			"time_modelagem":        ptr(pf.TimeModelagem),
			"comentarios_modelagem": ptr(pf.ComentariosModelagem),
			"data_lacre":            ptr(pf.DataLacre),
			"numero_lacre":          ptr(pf.NumeroLacre),
			"info_adicionais":       ptr(pf.InfoAdicionais),
		}
		if err := tx.Model(&models.ProvaModel{}).Where("id = ?", provaID).Updates(provaUpdates).Error; err != nil {
			return err
		}

		if err := s.createFotos(tx, staging, provaID, pf); err != nil {
			return err
		}
	}
	return nil
}

func (s *RelatorioService) createProva(tx *gorm.DB, staging *Staging, referenciaID, numero int, pf dtos.ProvaForm) (*models.ProvaModel, error) {
	prova := models.ProvaModel{
		ReferenciaID:         referenciaID,
		NumeroProva:          numero,
		Status:               models.StatusEmAndamento,
		DataRecebimento:      ptr(pf.DataRecebimento),
		TamanhosRecebidos:    ptr(strings.Join(pf.TamanhosRecebidos, ", ")),
		InfoMedidas:          ptr(pf.InfoMedidas),
		DataProva:            ptr(pf.DataProva),
		TimeQualidade:        ptr(pf.TimeQualidade),
		ComentariosQualidade: ptr(pf.ComentariosQualidade),
		TimeEstilo:           ptr(pf.TimeEstilo),
		ComentariosEstilo:    ptr(pf.ComentariosEstilo),
		TimeModelagem:        ptr(pf.TimeModelagem),
		ComentariosModelagem: ptr(pf.ComentariosModelagem),
		DataLacre:            ptr(pf.DataLacre),
		NumeroLacre:          ptr(pf.NumeroLacre),
		InfoAdicionais:       ptr(pf.InfoAdicionais),
	}
	if name := staging.Save(pf.TabelaMedidas); name != "" {
		prova.TabelaMedidasPath = &name
	}
	if err := tx.Create(&prova).Error; err != nil {
		return nil, err
	}

	if err := s.createFotos(tx, staging, prova.ID, pf); err != nil {
		return nil, err
	}
	return &prova, nil
}

func (s *RelatorioService) createFotos(tx *gorm.DB, staging *Staging, provaID int, pf dtos.ProvaForm) error {
	for _, contexto := range models.ContextosGerais {
		for _, fh := range pf.FotosPorContexto[contexto] {
			name := staging.Save(fh)
			if name == "" {
				continue
			}
			foto := models.FotoModel{ProvaID: provaID, Contexto: contexto, FilePath: name}
			if err := tx.Create(&foto).Error; err != nil {
				return err
			}
		}
	}

	for _, contexto := range models.ContextosPorTamanho {
		for tamanho, fhs := range pf.FotosPorTamanho[contexto] {
			for _, fh := range fhs {
				name := staging.Save(fh)
				if name == "" {
					continue
				}
				t := tamanho
				foto := models.FotoModel{ProvaID: provaID, Contexto: contexto, Tamanho: &t, FilePath: name}
				if err := tx.Create(&foto).Error; err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (s *RelatorioService) promote(staging *Staging) {
	if err := staging.Promote(); err != nil {
		// A linha já está gravada; registrar e seguir.
		s.log.Error("falha ao promover arquivos do staging", "erro", err)
		staging.Avisos = append(staging.Avisos, "Alguns arquivos não puderam ser movidos para o diretório de uploads")
	}
}

func splitTamanhos(raw *string) []string {
	if raw == nil {
		return nil
	}
	var out []string
	for _, t := range strings.Split(*raw, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

func ptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

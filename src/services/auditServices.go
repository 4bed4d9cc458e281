package services

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/nmatss/prova-modelagem-app/src/logger"
	"github.com/nmatss/prova-modelagem-app/src/models"
)

// ExportCSVLimite caps how many rows a CSV export may carry.
const ExportCSVLimite = 10000

// Actor is the request-scoped authenticated user attributed to audit entries.
type Actor struct {
	ID   int
	Nome string
	Role string
	IP   string
}

func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == models.RoleAdmin
}

// AuditService records audit entries through a pluggable sink and serves the
// admin read surface (listing, timeline, statistics, CSV export).
type AuditService struct {
	db   *gorm.DB
	sink AuditSink
	log  *logger.Logger
}

func NewAuditService(db *gorm.DB, sink AuditSink, log *logger.Logger) *AuditService {
	return &AuditService{db: db, sink: sink, log: log}
}

// Registrar records one audit entry attributed to the actor. It never returns
// an error: auditing must not fail the primary operation it accompanies.
func (s *AuditService) Registrar(actor *Actor, acao, entidade string, entidadeID *int, descricao string, dadosAntes, dadosDepois interface{}, categoria, severidade string) {
	entry := &models.AuditLogModel{
		Acao:       acao,
		Entidade:   entidade,
		EntidadeID: entidadeID,
		Descricao:  descricao,
		Categoria:  categoria,
		Severidade: severidade,
		CreatedAt:  time.Now(),
	}
	if actor != nil {
		entry.UsuarioID = actor.ID
		entry.UsuarioNome = actor.Nome
		if actor.IP != "" {
			ip := actor.IP
			entry.IPAddress = &ip
		}
	}
	if severidade == "" {
		entry.Severidade = models.SeveridadeInfo
	}
	if dadosAntes != nil {
		if raw, err := json.Marshal(dadosAntes); err == nil {
			entry.DadosAntes = raw
		}
	}
	if dadosDepois != nil {
		if raw, err := json.Marshal(dadosDepois); err == nil {
			entry.DadosDepois = raw
		}
	}

	if err := s.sink.Record(entry); err != nil {
		s.log.Warn("falha ao registrar auditoria", "acao", acao, "entidade", entidade, "erro", err)
	}
}

// AuditFiltros narrows listings and exports. DataInicio is inclusive;
// DataFim covers the whole named day (entries strictly before fim+1d).
type AuditFiltros struct {
	UsuarioID  *int
	Categoria  string
	Acao       string
	Severidade string
	DataInicio string // 2006-01-02
	DataFim    string // 2006-01-02
	Busca      string
}

func (s *AuditService) filtered(f AuditFiltros) *gorm.DB {
	query := s.db.Model(&models.AuditLogModel{})
	if f.UsuarioID != nil {
		query = query.Where("usuario_id = ?", *f.UsuarioID)
	}
	if f.Categoria != "" {
		query = query.Where("categoria = ?", f.Categoria)
	}
	if f.Acao != "" {
		query = query.Where("acao = ?", f.Acao)
	}
	if f.Severidade != "" {
		query = query.Where("severidade = ?", f.Severidade)
	}
	if f.DataInicio != "" {
		if inicio, err := time.ParseInLocation("2006-01-02", f.DataInicio, time.Local); err == nil {
			query = query.Where("created_at >= ?", inicio)
		}
	}
	if f.DataFim != "" {
		if fim, err := time.ParseInLocation("2006-01-02", f.DataFim, time.Local); err == nil {
			query = query.Where("created_at < ?", fim.AddDate(0, 0, 1))
		}
	}
	if f.Busca != "" {
		like := "%" + f.Busca + "%"
		query = query.Where("descricao LIKE ? OR usuario_nome LIKE ? OR entidade LIKE ?", like, like, like)
	}
	return query
}

// Listar returns one page of entries, newest first, plus the filtered total.
func (s *AuditService) Listar(f AuditFiltros, page, perPage int) ([]models.AuditLogModel, int64, error) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 50
	}

	var total int64
	if err := s.filtered(f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.AuditLogModel
	err := s.filtered(f).
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&logs).Error
	return logs, total, err
}

// Detalhes returns one entry by id.
func (s *AuditService) Detalhes(id int) (*models.AuditLogModel, error) {
	var entry models.AuditLogModel
	if err := s.db.First(&entry, id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// Timeline returns every entry touching one entity, newest first.
func (s *AuditService) Timeline(entidade string, entidadeID int) ([]models.AuditLogModel, error) {
	var logs []models.AuditLogModel
	err := s.db.
		Where("entidade = ? AND entidade_id = ?", entidade, entidadeID).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, err
}

// PorUsuario returns one page of a user's activity plus their total.
func (s *AuditService) PorUsuario(usuarioID, page, perPage int) ([]models.AuditLogModel, int64, error) {
	return s.Listar(AuditFiltros{UsuarioID: &usuarioID}, page, perPage)
}

type ContagemCampo struct {
	Campo string `json:"campo"`
	Total int64  `json:"total"`
}

type ContagemDia struct {
	Dia   string `json:"dia"`
	Total int64  `json:"total"`
}

// AuditEstatisticas aggregates counts across the whole log.
type AuditEstatisticas struct {
	Total         int64           `json:"total"`
	Hoje          int64           `json:"hoje"`
	Semana        int64           `json:"semana"`
	Mes           int64           `json:"mes"`
	PorCategoria  []ContagemCampo `json:"porCategoria"`
	PorAcao       []ContagemCampo `json:"porAcao"`
	PorSeveridade []ContagemCampo `json:"porSeveridade"`
	PorDia        []ContagemDia   `json:"porDia"`
}

// Estatisticas computes the aggregate counters for the audit dashboard.
func (s *AuditService) Estatisticas() (*AuditEstatisticas, error) {
	stats := &AuditEstatisticas{}

	if err := s.db.Model(&models.AuditLogModel{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	agora := time.Now()
	hoje := time.Date(agora.Year(), agora.Month(), agora.Day(), 0, 0, 0, 0, time.Local)
	s.db.Model(&models.AuditLogModel{}).Where("created_at >= ?", hoje).Count(&stats.Hoje)
	s.db.Model(&models.AuditLogModel{}).Where("created_at >= ?", hoje.AddDate(0, 0, -7)).Count(&stats.Semana)
	s.db.Model(&models.AuditLogModel{}).Where("created_at >= ?", hoje.AddDate(0, 0, -30)).Count(&stats.Mes)

	var err error
	if stats.PorCategoria, err = s.groupCount("categoria"); err != nil {
		return nil, err
	}
	if stats.PorAcao, err = s.groupCount("acao"); err != nil {
		return nil, err
	}
	if stats.PorSeveridade, err = s.groupCount("severidade"); err != nil {
		return nil, err
	}

	err = s.db.Model(&models.AuditLogModel{}).
		Select("DATE(created_at) AS dia, COUNT(id) AS total").
		Where("created_at >= ?", hoje.AddDate(0, 0, -30)).
		Group("dia").
		Order("dia").
		Scan(&stats.PorDia).Error
	if err != nil {
		return nil, err
	}

	return stats, nil
}

func (s *AuditService) groupCount(coluna string) ([]ContagemCampo, error) {
	var rows []ContagemCampo
	err := s.db.Model(&models.AuditLogModel{}).
		Select(coluna + " AS campo, COUNT(id) AS total").
		Group(coluna).
		Order("total DESC").
		Scan(&rows).Error
	return rows, err
}

// ExportarCSV renders the filtered entries as CSV, capped at ExportCSVLimite
// rows, and returns the payload plus the timestamped download filename.
func (s *AuditService) ExportarCSV(f AuditFiltros) ([]byte, string, error) {
	var logs []models.AuditLogModel
	err := s.filtered(f).
		Order("created_at DESC").
		Limit(ExportCSVLimite).
		Find(&logs).Error
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"ID", "Data/Hora", "Usuário", "Ação", "Entidade", "Entidade ID", "Categoria", "Severidade", "Descrição", "IP Address"}
	if err := w.Write(header); err != nil {
		return nil, "", err
	}

	for _, entry := range logs {
		entidadeID := ""
		if entry.EntidadeID != nil {
			entidadeID = fmt.Sprintf("%d", *entry.EntidadeID)
		}
		ip := ""
		if entry.IPAddress != nil {
			ip = *entry.IPAddress
		}
		row := []string{
			fmt.Sprintf("%d", entry.ID),
			entry.CreatedAt.Format("02/01/2006 15:04:05"),
			entry.UsuarioNome,
			models.AcaoDisplay(entry.Acao),
			entry.Entidade,
			entidadeID,
			models.CategoriaDisplay(entry.Categoria),
			entry.Severidade,
			entry.Descricao,
			ip,
		}
		if err := w.Write(row); err != nil {
			return nil, "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("audit_log_%s.csv", time.Now().Format("20060102_150405"))
	return buf.Bytes(), filename, nil
}

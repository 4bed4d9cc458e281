package services

import (
	"bytes"
	"image"
	"image/png"
	"mime/multipart"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/nmatss/prova-modelagem-app/src/config"
	"github.com/nmatss/prova-modelagem-app/src/logger"
	"github.com/nmatss/prova-modelagem-app/src/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.UsuarioModel{},
		&models.RelatorioModel{},
		&models.ReferenciaModel{},
		&models.ProvaModel{},
		&models.FotoModel{},
		&models.AuditLogModel{},
	))
	return db
}

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	cfg := &config.Config{
		UploadFolder:      filepath.Join(root, "uploads"),
		StagingFolder:     filepath.Join(root, "staging"),
		ExportFolder:      filepath.Join(root, "exports"),
		MaxContentLength:  16 * 1024 * 1024,
		AllowedExtensions: map[string]bool{"png": true, "jpg": true, "jpeg": true, "gif": true, "pdf": true, "xlsx": true, "ppt": true, "pptx": true},
		ImageExtensions:   map[string]bool{"png": true, "jpg": true, "jpeg": true, "gif": true},
	}
	require.NoError(t, cfg.EnsureDirs())
	return cfg
}

func newTestAudit(db *gorm.DB) *AuditService {
	return NewAuditService(db, NewGormSink(db), logger.NewNop())
}

func newTestRelatorioService(t *testing.T) (*RelatorioService, *gorm.DB, *config.Config) {
	t.Helper()
	db := newTestDB(t)
	cfg := newTestConfig(t)
	intake := NewFileIntake(cfg, logger.NewNop())
	return NewRelatorioService(db, intake, newTestAudit(db), logger.NewNop()), db, cfg
}

// fileHeader builds a real multipart.FileHeader by writing and re-reading a
// multipart body.
func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	require.Len(t, form.File["file"], 1)
	return form.File["file"][0]
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func testActor() *Actor {
	return &Actor{ID: 1, Nome: "admin", Role: models.RoleAdmin, IP: "127.0.0.1"}
}

func auditRows(t *testing.T, db *gorm.DB, acao string) []models.AuditLogModel {
	t.Helper()
	var rows []models.AuditLogModel
	require.NoError(t, db.Where("acao = ?", acao).Find(&rows).Error)
	return rows
}

func criarEntradaAuditoria(t *testing.T, db *gorm.DB, quando time.Time, descricao string) {
	t.Helper()
	require.NoError(t, db.Create(&models.AuditLogModel{
		UsuarioID:   1,
		UsuarioNome: "admin",
		Acao:        models.AcaoCreate,
		Entidade:    models.EntidadeRelatorio,
		Descricao:   descricao,
		Categoria:   models.CategoriaRelatorios,
		Severidade:  models.SeveridadeInfo,
		CreatedAt:   quando,
	}).Error)
}

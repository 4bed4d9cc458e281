package services

import (
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/nmatss/prova-modelagem-app/src/config"
	"github.com/nmatss/prova-modelagem-app/src/logger"
)

// FileIntake validates and persists uploaded files. Files are first written to
// a staging directory and only moved into the upload directory once the
// database transaction that references them has committed, so a rollback never
// leaves orphaned files behind.
type FileIntake struct {
	cfg *config.Config
	log *logger.Logger
}

func NewFileIntake(cfg *config.Config, log *logger.Logger) *FileIntake {
	return &FileIntake{cfg: cfg, log: log}
}

// NewStaging starts a staging batch for one request.
func (fi *FileIntake) NewStaging() *Staging {
	return &Staging{
		intake:   fi,
		reserved: make(map[string]bool),
	}
}

type stagedFile struct {
	filename   string
	stagedPath string
	finalPath  string
}

// Staging accumulates the files of a single submission. Rejections never
// surface as errors; they are collected as user-facing notices and the file is
// simply skipped, matching the intake contract.
type Staging struct {
	intake   *FileIntake
	files    []stagedFile
	reserved map[string]bool
	Avisos   []string
}

// Save validates and stages one uploaded file. It returns the final stored
// filename, or the empty string when the file is absent or rejected.
func (st *Staging) Save(fh *multipart.FileHeader) string {
	if fh == nil || fh.Filename == "" {
		return ""
	}
	cfg := st.intake.cfg

	if !cfg.IsAllowed(fh.Filename) {
		st.aviso("Tipo de arquivo não permitido: %s", fh.Filename)
		return ""
	}

	filename := SanitizeFilename(fh.Filename)
	if filename == "" || config.Extension(filename) == "" {
		st.aviso("Nome de arquivo inválido: %s", fh.Filename)
		return ""
	}

	if fh.Size > cfg.MaxContentLength {
		st.aviso("Arquivo muito grande: %s (máximo %dMB)", filename, cfg.MaxContentLength/(1024*1024))
		return ""
	}

	filename = st.uniqueName(filename)
	stagedPath := filepath.Join(cfg.StagingFolder, filename)

	if err := st.writeStaged(fh, stagedPath); err != nil {
		st.intake.log.Warn("falha ao gravar arquivo em staging", "arquivo", filename, "erro", err)
		st.aviso("Erro ao salvar arquivo: %s", filename)
		return ""
	}

	// Anexos com extensão de imagem precisam decodificar de verdade.
	if cfg.IsImage(filename) {
		if err := verifyImage(stagedPath); err != nil {
			os.Remove(stagedPath)
			st.aviso("Arquivo de imagem inválido: %s", filename)
			return ""
		}
	}

	st.reserved[filename] = true
	st.files = append(st.files, stagedFile{
		filename:   filename,
		stagedPath: stagedPath,
		finalPath:  filepath.Join(cfg.UploadFolder, filename),
	})
	return filename
}

// Promote moves every staged file into the upload directory. Call it only
// after the surrounding transaction commits.
func (st *Staging) Promote() error {
	for _, f := range st.files {
		if err := os.Rename(f.stagedPath, f.finalPath); err != nil {
			return fmt.Errorf("promovendo %s: %w", f.filename, err)
		}
	}
	st.files = nil
	return nil
}

// Discard deletes every staged file. Safe to call after Promote.
func (st *Staging) Discard() {
	for _, f := range st.files {
		if err := os.Remove(f.stagedPath); err != nil && !os.IsNotExist(err) {
			st.intake.log.Warn("falha ao descartar arquivo em staging", "arquivo", f.filename, "erro", err)
		}
	}
	st.files = nil
}

func (st *Staging) aviso(format string, args ...interface{}) {
	st.Avisos = append(st.Avisos, fmt.Sprintf(format, args...))
}

// uniqueName appends _1, _2, ... until the name collides neither with a stored
// file nor with another file staged in this batch.
func (st *Staging) uniqueName(filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)
	candidate := filename
	counter := 1
	for {
		if !st.reserved[candidate] {
			if _, err := os.Stat(filepath.Join(st.intake.cfg.UploadFolder, candidate)); os.IsNotExist(err) {
				return candidate
			}
		}
		candidate = fmt.Sprintf("%s_%d%s", base, counter, ext)
		counter++
	}
}

func (st *Staging) writeStaged(fh *multipart.FileHeader, stagedPath string) error {
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(stagedPath)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}

func verifyImage(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, _, err = image.Decode(f)
	return err
}

// SanitizeFilename strips path components and unsafe characters from an
// uploaded filename.
func SanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, " ", "_")

	var b strings.Builder
	for _, r := range name {
		if r == '_' || r == '-' || r == '.' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	clean := b.String()
	for strings.Contains(clean, "..") {
		clean = strings.ReplaceAll(clean, "..", ".")
	}
	return strings.Trim(clean, "._")
}

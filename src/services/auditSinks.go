package services

import (
	"sync"

	"gorm.io/gorm"

	"github.com/nmatss/prova-modelagem-app/src/logger"
	"github.com/nmatss/prova-modelagem-app/src/models"
)

// AuditSink persists one audit entry. Implementations must never block the
// caller for long; failures are swallowed by the recorder.
type AuditSink interface {
	Record(entry *models.AuditLogModel) error
}

// NoopSink keeps the recorder call contract while persisting nothing. Used
// when auditing is disabled.
type NoopSink struct{}

func (NoopSink) Record(*models.AuditLogModel) error { return nil }

// GormSink writes entries synchronously to the audit_logs table.
type GormSink struct {
	db *gorm.DB
}

func NewGormSink(db *gorm.DB) *GormSink {
	return &GormSink{db: db}
}

func (s *GormSink) Record(entry *models.AuditLogModel) error {
	return s.db.Create(entry).Error
}

// AsyncSink queues entries and writes them from a single background worker, so
// the primary operation never waits on the audit write. Entries are dropped
// when the queue is full.
type AsyncSink struct {
	queue chan *models.AuditLogModel
	inner AuditSink
	log   *logger.Logger
	wg    sync.WaitGroup
	once  sync.Once
}

func NewAsyncSink(inner AuditSink, log *logger.Logger, buffer int) *AsyncSink {
	if buffer <= 0 {
		buffer = 256
	}
	s := &AsyncSink{
		queue: make(chan *models.AuditLogModel, buffer),
		inner: inner,
		log:   log,
	}
	s.wg.Add(1)
	go s.worker()
	return s
}

func (s *AsyncSink) Record(entry *models.AuditLogModel) error {
	select {
	case s.queue <- entry:
	default:
		s.log.Warn("fila de auditoria cheia, entrada descartada", "acao", entry.Acao)
	}
	return nil
}

// Close drains the queue and stops the worker.
func (s *AsyncSink) Close() {
	s.once.Do(func() {
		close(s.queue)
		s.wg.Wait()
	})
}

func (s *AsyncSink) worker() {
	defer s.wg.Done()
	for entry := range s.queue {
		if err := s.inner.Record(entry); err != nil {
			s.log.Warn("falha ao gravar log de auditoria", "acao", entry.Acao, "erro", err)
		}
	}
}

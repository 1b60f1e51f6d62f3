package retention

import (
	"context"
	"time"

	appdoc "github.com/invoicemonk/backend/internal/application/document"
	"github.com/invoicemonk/backend/internal/domain/audit"
	"github.com/invoicemonk/backend/internal/domain/document"
	"github.com/invoicemonk/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// DefaultBatchSize caps how many expired documents one sweep run loads
const DefaultBatchSize = 500

// SweepService permanently removes documents whose retention lock has
// elapsed. Each document is deleted in its own transaction so one corrupt
// row cannot block the rest of the batch, and a rerun after a partial
// failure simply resumes from whatever is still expired: the sweep is
// idempotent.
type SweepService struct {
	txScope      appdoc.TransactionScope
	documentRepo document.Repository
	logger       *zap.Logger
	batchSize    int
	clock        func() time.Time
}

// NewSweepService creates a new SweepService
func NewSweepService(txScope appdoc.TransactionScope, documentRepo document.Repository, logger *zap.Logger) *SweepService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SweepService{
		txScope:      txScope,
		documentRepo: documentRepo,
		logger:       logger,
		batchSize:    DefaultBatchSize,
		clock:        time.Now,
	}
}

// SetBatchSize overrides the per-run batch cap
func (s *SweepService) SetBatchSize(n int) {
	if n > 0 {
		s.batchSize = n
	}
}

// SetClock overrides the time source (used by tests)
func (s *SweepService) SetClock(clock func() time.Time) {
	s.clock = clock
}

// SweepSummary reports one sweep run
type SweepSummary struct {
	StartedAt   time.Time              `json:"started_at"`
	CompletedAt time.Time              `json:"completed_at"`
	Examined    int                    `json:"examined"`
	Deleted     document.DeletedCounts `json:"deleted"`
	Failed      int                    `json:"failed"`
	Errors      []SweepError           `json:"errors,omitempty"`
}

// SweepError identifies a document the sweep could not purge, so an operator
// can follow up on it before the next run retries.
type SweepError struct {
	DocumentID string `json:"document_id"`
	Error      string `json:"error"`
}

// Run finds documents past their retention lock and hard-deletes them with
// their dependent rows. Documents still inside the lock window are never
// touched. The summary itself is written to the audit log, so the purge of
// the records leaves a durable trace.
func (s *SweepService) Run(ctx context.Context) (*SweepSummary, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "retention", "sweep")
	defer span.End()

	asOf := s.clock().UTC()
	summary := &SweepSummary{StartedAt: asOf}

	expired, err := s.documentRepo.FindRetentionExpired(ctx, asOf, s.batchSize)
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("failed to find retention-expired documents", zap.Error(err))
		return nil, err
	}

	summary.Examined = len(expired)
	if summary.Examined == 0 {
		s.logger.Debug("no retention-expired documents found")
		summary.CompletedAt = s.clock().UTC()
		return summary, nil
	}

	s.logger.Info("starting retention sweep",
		zap.Int("expired", summary.Examined),
		zap.Time("as_of", asOf),
	)

	for i := range expired {
		doc := &expired[i]
		counts, err := s.deleteOne(ctx, doc)
		if err != nil {
			s.logger.Error("failed to purge expired document",
				zap.String("document_id", doc.ID.String()),
				zap.Error(err),
			)
			summary.Failed++
			summary.Errors = append(summary.Errors, SweepError{
				DocumentID: doc.ID.String(),
				Error:      err.Error(),
			})
			continue
		}
		summary.Deleted.Add(counts)
	}

	summary.CompletedAt = s.clock().UTC()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrSweepExamined, summary.Examined,
		telemetry.SpanAttrSweepDeleted, summary.Deleted.Documents,
	)
	s.recordSummary(ctx, summary)

	s.logger.Info("completed retention sweep",
		zap.Int("examined", summary.Examined),
		zap.Int64("documents_deleted", summary.Deleted.Documents),
		zap.Int("failed", summary.Failed),
	)

	return summary, nil
}

// deleteOne purges a single document and its audit trace of the deletion in
// one transaction.
func (s *SweepService) deleteOne(ctx context.Context, doc *document.Document) (document.DeletedCounts, error) {
	var counts document.DeletedCounts
	err := s.txScope.Execute(ctx, func(repos appdoc.TransactionalRepositories) error {
		deleted, err := repos.DocumentRepo().HardDeleteCascade(ctx, doc.ID)
		if err != nil {
			return err
		}
		counts = deleted
		return nil
	})
	if err != nil {
		return document.DeletedCounts{}, err
	}
	return counts, nil
}

// recordSummary appends the sweep outcome to the audit log. Best effort: the
// sweep already committed, a failed audit write only logs.
func (s *SweepService) recordSummary(ctx context.Context, summary *SweepSummary) {
	entry, err := audit.NewEntry(audit.EventRetentionSweep, "document")
	if err != nil {
		return
	}
	entry.WithMetadata(audit.Metadata{
		"started_at":           summary.StartedAt,
		"completed_at":         summary.CompletedAt,
		"examined":             summary.Examined,
		"deleted_documents":    summary.Deleted.Documents,
		"deleted_line_items":   summary.Deleted.LineItems,
		"deleted_credit_notes": summary.Deleted.CreditNotes,
		"failed":               summary.Failed,
	})
	if len(summary.Errors) > 0 {
		entry.WithMetadata(audit.Metadata{"errors": summary.Errors})
	}

	err = s.txScope.Execute(ctx, func(repos appdoc.TransactionalRepositories) error {
		return repos.AuditRepo().Append(ctx, entry)
	})
	if err != nil {
		s.logger.Warn("failed to record retention sweep summary", zap.Error(err))
	}
}

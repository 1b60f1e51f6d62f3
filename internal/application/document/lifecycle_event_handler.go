package document

import (
	"context"

	"github.com/invoicemonk/backend/internal/domain/document"
	"github.com/invoicemonk/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LifecycleEventHandler mirrors document lifecycle events into the structured
// log stream. The authoritative audit trail lives in the audit_log table and
// is written inside the issuing transaction; this handler only provides an
// operational view for log-based alerting and debugging.
type LifecycleEventHandler struct {
	logger *zap.Logger
}

// NewLifecycleEventHandler creates a handler that logs document lifecycle events.
func NewLifecycleEventHandler(logger *zap.Logger) *LifecycleEventHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LifecycleEventHandler{logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *LifecycleEventHandler) EventTypes() []string {
	return []string{
		"DocumentCreated",
		"DocumentIssued",
		"DocumentVoided",
		"DocumentCredited",
	}
}

// Handle logs the event with its type-specific fields.
func (h *LifecycleEventHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *document.DocumentCreatedEvent:
		h.logger.Info("Document created",
			zap.String("tenant_id", e.TenantID().String()),
			zap.String("document_id", e.DocumentID.String()),
			zap.String("document_type", string(e.DocumentType)),
			zap.String("client_id", e.ClientID.String()),
		)
	case *document.DocumentIssuedEvent:
		h.logger.Info("Document issued",
			zap.String("tenant_id", e.TenantID().String()),
			zap.String("document_id", e.DocumentID.String()),
			zap.String("document_number", e.DocumentNumber),
			zap.String("total", e.Total.String()),
			zap.String("currency", e.Currency),
			zap.String("document_hash", e.DocumentHash),
			zap.String("issued_by", e.IssuedBy.String()),
		)
	case *document.DocumentVoidedEvent:
		h.logger.Info("Document voided",
			zap.String("tenant_id", e.TenantID().String()),
			zap.String("document_id", e.DocumentID.String()),
			zap.String("document_number", e.DocumentNumber),
			zap.String("voided_by", e.VoidedBy.String()),
			zap.String("void_reason", e.VoidReason),
		)
	case *document.DocumentCreditedEvent:
		h.logger.Info("Document credited",
			zap.String("tenant_id", e.TenantID().String()),
			zap.String("document_id", e.DocumentID.String()),
			zap.String("document_number", e.DocumentNumber),
			zap.String("credit_note_id", e.CreditNoteID.String()),
		)
	default:
		h.logger.Debug("Unhandled document event",
			zap.String("event_type", event.EventType()),
		)
	}
	return nil
}

var _ shared.EventHandler = (*LifecycleEventHandler)(nil)

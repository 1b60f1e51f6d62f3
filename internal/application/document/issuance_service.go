package document

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/invoicemonk/backend/internal/domain/audit"
	"github.com/invoicemonk/backend/internal/domain/directory"
	"github.com/invoicemonk/backend/internal/domain/document"
	"github.com/invoicemonk/backend/internal/domain/retention"
	"github.com/invoicemonk/backend/internal/domain/shared"
	"github.com/invoicemonk/backend/internal/infrastructure/telemetry"
)

// IssuanceService performs the one-way draft→issued transition. Everything
// that must hold together — sequence allocation, snapshot, hash, verification
// id, retention lock, audit entry and the document save — happens inside a
// single transaction, so a failure anywhere rolls back the allocated number.
type IssuanceService struct {
	txScope        TransactionScope
	profileRepo    directory.BusinessProfileRepository
	clientRepo     directory.ClientRepository
	retentionRepo  retention.Repository
	snapshots      *SnapshotBuilder
	eventPublisher shared.EventPublisher
	clock          func() time.Time
}

// NewIssuanceService creates a new IssuanceService
func NewIssuanceService(
	txScope TransactionScope,
	profileRepo directory.BusinessProfileRepository,
	clientRepo directory.ClientRepository,
	retentionRepo retention.Repository,
) *IssuanceService {
	return &IssuanceService{
		txScope:       txScope,
		profileRepo:   profileRepo,
		clientRepo:    clientRepo,
		retentionRepo: retentionRepo,
		snapshots:     NewSnapshotBuilder(),
		clock:         time.Now,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *IssuanceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetClock overrides the time source (used by tests)
func (s *IssuanceService) SetClock(clock func() time.Time) {
	s.clock = clock
}

// Issue converts a draft into an immutable issued document.
//
// Preconditions checked before the transaction opens: the tenant has a
// business profile with a verified email, the document exists, belongs to the
// tenant and is still a draft with at least one line item, and the client it
// references still exists. Inside the transaction the sequence value is
// allocated with the row locked, so concurrent issuance of two drafts can
// never yield the same document number.
func (s *IssuanceService) Issue(ctx context.Context, tenantID, documentID, actor uuid.UUID) (*DocumentResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "issuance", "issue")
	defer span.End()
	telemetry.SetAttribute(span, telemetry.SpanAttrDocumentID, documentID.String())

	profile, err := s.profileRepo.FindForTenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("MISSING_BUSINESS_PROFILE", "Complete your business profile before issuing documents")
		}
		return nil, fmt.Errorf("load business profile: %w", err)
	}
	if !profile.EmailVerified {
		return nil, shared.NewDomainError("EMAIL_NOT_VERIFIED", "Verify your business email before issuing documents")
	}

	var issued *document.Document
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		doc, err := repos.DocumentRepo().FindByIDForTenant(ctx, tenantID, documentID)
		if err != nil {
			return err
		}
		if !doc.IsDraft() {
			return shared.NewDomainError("ALREADY_ISSUED", fmt.Sprintf("Document is already in %s status", doc.Status))
		}

		client, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, doc.ClientID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("MISSING_CLIENT", "The document's client no longer exists")
			}
			return fmt.Errorf("load client: %w", err)
		}

		issuedAt := s.clock().UTC()

		seq, err := repos.SequenceRepo().NextValue(ctx, tenantID, doc.Type, issuedAt.Year())
		if err != nil {
			return fmt.Errorf("allocate document number: %w", err)
		}
		number := document.FormatNumber(doc.Type, issuedAt.Year(), seq)

		verificationID, err := document.NewVerificationID()
		if err != nil {
			return fmt.Errorf("generate verification id: %w", err)
		}

		snapshot, err := s.snapshots.Build(profile, client, doc, issuedAt)
		if err != nil {
			return err
		}

		lockedUntil, err := s.retentionLockUntil(ctx, profile.Jurisdiction, issuedAt)
		if err != nil {
			return err
		}

		if err := doc.Issue(number, verificationID, snapshot, lockedUntil, issuedAt, actor); err != nil {
			return err
		}

		entry, err := audit.NewEntry(audit.EventDocumentIssued, "document")
		if err != nil {
			return err
		}
		entry.WithTenant(tenantID).
			WithEntity(doc.ID).
			WithActor(actor).
			WithTransition(string(document.StatusDraft), string(document.StatusIssued)).
			WithMetadata(audit.Metadata{
				"document_number": number,
				"document_type":   string(doc.Type),
				"document_hash":   doc.DocumentHash,
			})
		if err := repos.AuditRepo().Append(ctx, entry); err != nil {
			return fmt.Errorf("append audit entry: %w", err)
		}

		if err := repos.DocumentRepo().SaveWithLock(ctx, doc); err != nil {
			return err
		}

		issued = doc
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrDocumentNumber, issued.DocumentNumber,
		telemetry.SpanAttrDocumentType, string(issued.Type),
	)

	s.publishDomainEvents(ctx, issued)

	return ToDocumentResponse(issued), nil
}

// retentionLockUntil computes the retention lock for a document issued under
// the given jurisdiction, falling back to the default window when no policy
// is configured.
func (s *IssuanceService) retentionLockUntil(ctx context.Context, jurisdiction string, issuedAt time.Time) (time.Time, error) {
	policy, err := s.retentionRepo.FindForScope(ctx, jurisdiction, "document")
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return retention.DefaultLockUntil(issuedAt), nil
		}
		return time.Time{}, fmt.Errorf("load retention policy: %w", err)
	}
	return policy.LockUntil(issuedAt), nil
}

func (s *IssuanceService) publishDomainEvents(ctx context.Context, doc *document.Document) {
	if s.eventPublisher == nil || doc == nil {
		return
	}
	events := doc.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	doc.ClearDomainEvents()
}

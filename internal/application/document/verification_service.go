package document

import (
	"context"
	"errors"
	"time"

	"github.com/invoicemonk/backend/internal/domain/audit"
	"github.com/invoicemonk/backend/internal/domain/directory"
	"github.com/invoicemonk/backend/internal/domain/document"
	"github.com/invoicemonk/backend/internal/domain/shared"
	"github.com/invoicemonk/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ErrMalformedVerificationID is returned when the supplied token does not
// match the verification id shape. Callers map it to a 400 so that malformed
// probes are distinguishable from unknown-token probes only by shape, never
// by lookup.
var ErrMalformedVerificationID = shared.NewDomainError("MALFORMED_VERIFICATION_ID", "Verification ID is malformed")

// VerificationService serves the public, unauthenticated verification lookup.
//
// It reads exclusively from the embedded snapshot, recomputes the document
// hash to report tampering, and leaks nothing that would let a caller
// enumerate documents: unknown tokens and drafts are indistinguishable.
type VerificationService struct {
	documentRepo document.Repository
	profileRepo  directory.BusinessProfileRepository
	clientRepo   directory.ClientRepository
	auditRepo    audit.Repository
	logger       *zap.Logger
	clock        func() time.Time
}

// NewVerificationService creates a new VerificationService. The directory
// repositories are only consulted for documents issued before snapshots
// existed.
func NewVerificationService(
	documentRepo document.Repository,
	profileRepo directory.BusinessProfileRepository,
	clientRepo directory.ClientRepository,
	auditRepo audit.Repository,
	logger *zap.Logger,
) *VerificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VerificationService{
		documentRepo: documentRepo,
		profileRepo:  profileRepo,
		clientRepo:   clientRepo,
		auditRepo:    auditRepo,
		logger:       logger,
		clock:        time.Now,
	}
}

// SetClock overrides the time source (used by tests)
func (s *VerificationService) SetClock(clock func() time.Time) {
	s.clock = clock
}

// Verify resolves a verification token to the public projection of its
// document. The token shape is checked before any storage access; drafts and
// unknown tokens both surface as shared.ErrNotFound.
func (s *VerificationService) Verify(ctx context.Context, verificationID string) (*VerificationResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "verification", "verify")
	defer span.End()

	if !document.IsValidVerificationID(verificationID) {
		telemetry.RecordError(span, ErrMalformedVerificationID)
		return nil, ErrMalformedVerificationID
	}

	doc, err := s.documentRepo.FindByVerificationID(ctx, verificationID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		telemetry.RecordError(span, err)
		return nil, err
	}
	if !doc.Status.IsVerifiable() {
		// A draft with a verification id should not exist; treat it as absent.
		return nil, shared.ErrNotFound
	}

	resp := s.buildResponse(ctx, doc)
	telemetry.SetAttributes(span,
		telemetry.SpanAttrDocumentType, resp.Type,
		telemetry.SpanAttrIntegrityValid, resp.IntegrityValid,
	)
	s.recordView(ctx, doc)

	return resp, nil
}

func (s *VerificationService) buildResponse(ctx context.Context, doc *document.Document) *VerificationResponse {
	resp := &VerificationResponse{
		DocumentNumber: doc.DocumentNumber,
		Type:           doc.Type.String(),
		Status:         doc.Status.String(),
		Currency:       string(doc.Currency),
		Total:          doc.Total,
		IntegrityValid: doc.VerifyIntegrity(),
		VerifiedAt:     s.clock().UTC(),
	}
	if doc.IssuedAt != nil {
		resp.IssuedAt = *doc.IssuedAt
	}

	if doc.Snapshot != nil && doc.Snapshot.Version > 0 {
		resp.Issuer = VerifiedPartyResponse{
			Name:    issuerDisplayName(doc.Snapshot.Issuer),
			TaxID:   doc.Snapshot.Issuer.TaxID,
			Country: doc.Snapshot.Issuer.Country,
		}
		resp.Client = VerifiedPartyResponse{
			Name:    doc.Snapshot.Client.Name,
			TaxID:   doc.Snapshot.Client.TaxID,
			Country: doc.Snapshot.Client.Country,
		}
		resp.Lines = make([]VerifiedLineResponse, len(doc.Snapshot.Lines))
		for i, l := range doc.Snapshot.Lines {
			resp.Lines[i] = VerifiedLineResponse{
				Description: l.Description,
				Quantity:    l.Quantity,
				UnitPrice:   l.UnitPrice,
				TaxRate:     l.TaxRate,
				LineTotal:   l.LineTotal,
			}
		}
		return resp
	}

	// Documents issued before snapshots were introduced have no embedded
	// copy; serve the live line items and a live directory read so
	// verification keeps working.
	s.logger.Warn("document issued without snapshot, serving live fields",
		zap.String("document_number", doc.DocumentNumber),
	)
	resp.Lines = make([]VerifiedLineResponse, len(doc.LineItems))
	for i, li := range doc.LineItems {
		resp.Lines[i] = VerifiedLineResponse{
			Description: li.Description,
			Quantity:    li.Quantity,
			UnitPrice:   li.UnitPrice,
			TaxRate:     li.TaxRate,
			LineTotal:   li.LineTotal,
		}
	}
	s.populateLiveParties(ctx, doc, resp)
	return resp
}

// populateLiveParties fills issuer and client from the directory for legacy
// documents. A directory miss leaves the party empty rather than failing the
// lookup; the response is already WARN-logged as degraded.
func (s *VerificationService) populateLiveParties(ctx context.Context, doc *document.Document, resp *VerificationResponse) {
	if s.profileRepo != nil {
		profile, err := s.profileRepo.FindForTenant(ctx, doc.TenantID)
		if err != nil {
			s.logger.Warn("live issuer read failed for legacy document",
				zap.String("document_number", doc.DocumentNumber),
				zap.Error(err),
			)
		} else {
			resp.Issuer = VerifiedPartyResponse{
				Name:    profile.DisplayName(),
				TaxID:   profile.TaxID,
				Country: profile.Country,
			}
		}
	}
	if s.clientRepo != nil {
		client, err := s.clientRepo.FindByIDForTenant(ctx, doc.TenantID, doc.ClientID)
		if err != nil {
			s.logger.Warn("live client read failed for legacy document",
				zap.String("document_number", doc.DocumentNumber),
				zap.Error(err),
			)
		} else {
			resp.Client = VerifiedPartyResponse{
				Name:    client.Name,
				TaxID:   client.TaxID,
				Country: client.Country,
			}
		}
	}
}

func issuerDisplayName(issuer document.IssuerSnapshot) string {
	if issuer.TradeName != "" {
		return issuer.TradeName
	}
	return issuer.LegalName
}

// recordView appends the verification access to the audit log. The append is
// best effort: a full audit store must not take the public endpoint down.
func (s *VerificationService) recordView(ctx context.Context, doc *document.Document) {
	entry, err := audit.NewEntry(audit.EventVerificationView, "document")
	if err != nil {
		return
	}
	entry.WithTenant(doc.TenantID).
		WithEntity(doc.ID).
		WithMetadata(audit.Metadata{
			"document_number": doc.DocumentNumber,
			"integrity_valid": doc.VerifyIntegrity(),
		})
	if err := s.auditRepo.Append(ctx, entry); err != nil {
		s.logger.Warn("failed to record verification view",
			zap.String("document_number", doc.DocumentNumber),
			zap.Error(err),
		)
	}
}

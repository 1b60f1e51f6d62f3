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
	"github.com/invoicemonk/backend/internal/domain/shared"
	"github.com/invoicemonk/backend/internal/domain/shared/valueobject"
)

// DocumentService handles the draft lifecycle and post-issuance operational
// transitions. Issuance itself lives in IssuanceService.
type DocumentService struct {
	txScope        TransactionScope
	documentRepo   document.Repository
	profileRepo    directory.BusinessProfileRepository
	clientRepo     directory.ClientRepository
	eventPublisher shared.EventPublisher
	clock          func() time.Time
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(
	txScope TransactionScope,
	documentRepo document.Repository,
	profileRepo directory.BusinessProfileRepository,
	clientRepo directory.ClientRepository,
) *DocumentService {
	return &DocumentService{
		txScope:      txScope,
		documentRepo: documentRepo,
		profileRepo:  profileRepo,
		clientRepo:   clientRepo,
		clock:        time.Now,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *DocumentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetClock overrides the time source (used by tests)
func (s *DocumentService) SetClock(clock func() time.Time) {
	s.clock = clock
}

// CreateDraft creates a new draft document for the tenant
func (s *DocumentService) CreateDraft(ctx context.Context, tenantID uuid.UUID, req *CreateDocumentRequest) (*DocumentResponse, error) {
	profile, err := s.profileRepo.FindForTenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("MISSING_BUSINESS_PROFILE", "Complete your business profile before creating documents")
		}
		return nil, fmt.Errorf("load business profile: %w", err)
	}

	client, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, req.ClientID)
	if err != nil {
		return nil, err
	}
	if !client.IsActive() {
		return nil, shared.NewDomainError("CLIENT_ARCHIVED", "Cannot create a document for an archived client")
	}

	currency := valueobject.DefaultCurrency
	if req.Currency != "" {
		currency = valueobject.Currency(req.Currency)
	}

	createdBy := uuid.Nil
	if req.CreatedBy != nil {
		createdBy = *req.CreatedBy
	}

	doc, err := document.NewDocument(tenantID, document.Type(req.Type), profile.ID, client.ID, currency, createdBy)
	if err != nil {
		return nil, err
	}

	items, err := buildLineItems(req.LineItems)
	if err != nil {
		return nil, err
	}
	if len(items) > 0 {
		if err := doc.ReplaceLineItems(items); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		if err := doc.SetNotes(req.Notes); err != nil {
			return nil, err
		}
	}

	if err := s.documentRepo.Save(ctx, doc); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, doc)

	return ToDocumentResponse(doc), nil
}

// GetByID retrieves a document scoped to the tenant
func (s *DocumentService) GetByID(ctx context.Context, tenantID, documentID uuid.UUID) (*DocumentResponse, error) {
	doc, err := s.documentRepo.FindByIDForTenant(ctx, tenantID, documentID)
	if err != nil {
		return nil, err
	}
	return ToDocumentResponse(doc), nil
}

// List returns a paginated list of the tenant's documents
func (s *DocumentService) List(ctx context.Context, tenantID uuid.UUID, query *ListDocumentsQuery) (*shared.Paginated[*DocumentListResponse], error) {
	filter := document.Filter{
		SortBy:    query.SortBy,
		SortOrder: query.SortOrder,
		Page:      query.Page,
		PageSize:  query.PageSize,
	}
	if query.Type != "" {
		t := document.Type(query.Type)
		filter.Type = &t
	}
	if query.Status != "" {
		st := document.Status(query.Status)
		filter.Status = &st
	}
	if query.ClientID != "" {
		clientID, err := uuid.Parse(query.ClientID)
		if err != nil {
			return nil, shared.ErrInvalidInput
		}
		filter.ClientID = &clientID
	}

	docs, err := s.documentRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.documentRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*DocumentListResponse, len(docs))
	for i := range docs {
		items[i] = ToDocumentListResponse(&docs[i])
	}

	result := shared.NewPaginated(items, total, query.Page, query.PageSize)
	return &result, nil
}

// UpdateDraft updates a draft document. Issued documents reject every field.
func (s *DocumentService) UpdateDraft(ctx context.Context, tenantID, documentID uuid.UUID, req *UpdateDraftRequest) (*DocumentResponse, error) {
	doc, err := s.documentRepo.FindByIDForTenant(ctx, tenantID, documentID)
	if err != nil {
		return nil, err
	}

	if req.LineItems != nil {
		items, err := buildLineItems(*req.LineItems)
		if err != nil {
			return nil, err
		}
		if err := doc.ReplaceLineItems(items); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		if err := doc.SetNotes(*req.Notes); err != nil {
			return nil, err
		}
	}

	if err := s.documentRepo.SaveWithLock(ctx, doc); err != nil {
		return nil, err
	}

	return ToDocumentResponse(doc), nil
}

// DeleteDraft removes a draft document. Issued documents are voided, not deleted.
func (s *DocumentService) DeleteDraft(ctx context.Context, tenantID, documentID uuid.UUID) error {
	doc, err := s.documentRepo.FindByIDForTenant(ctx, tenantID, documentID)
	if err != nil {
		return err
	}
	if !doc.IsDraft() {
		return shared.NewDomainError("DOCUMENT_NOT_DRAFT", "Issued documents cannot be deleted, void them instead")
	}
	return s.documentRepo.Delete(ctx, tenantID, documentID)
}

// MarkSent records delivery of an issued document
func (s *DocumentService) MarkSent(ctx context.Context, tenantID, documentID uuid.UUID) (*DocumentResponse, error) {
	return s.transition(ctx, tenantID, documentID, func(doc *document.Document) error {
		return doc.MarkSent(s.clock())
	})
}

// MarkViewed records that the counterparty opened the document
func (s *DocumentService) MarkViewed(ctx context.Context, tenantID, documentID uuid.UUID) (*DocumentResponse, error) {
	return s.transition(ctx, tenantID, documentID, func(doc *document.Document) error {
		return doc.MarkViewed(s.clock())
	})
}

// RecordPayment records a payment against an issued invoice
func (s *DocumentService) RecordPayment(ctx context.Context, tenantID, documentID uuid.UUID, req *RecordPaymentRequest) (*DocumentResponse, error) {
	return s.transition(ctx, tenantID, documentID, func(doc *document.Document) error {
		amount, err := valueobject.NewMoney(req.Amount, doc.Currency)
		if err != nil {
			return err
		}
		return doc.RecordPayment(amount, s.clock())
	})
}

func (s *DocumentService) transition(ctx context.Context, tenantID, documentID uuid.UUID, apply func(*document.Document) error) (*DocumentResponse, error) {
	doc, err := s.documentRepo.FindByIDForTenant(ctx, tenantID, documentID)
	if err != nil {
		return nil, err
	}
	if err := apply(doc); err != nil {
		return nil, err
	}
	if err := s.documentRepo.SaveWithLock(ctx, doc); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, doc)
	return ToDocumentResponse(doc), nil
}

// Void cancels an issued document. The integrity fields stay intact so the
// voided record remains verifiable; the transition is audited atomically with
// the save.
func (s *DocumentService) Void(ctx context.Context, tenantID, documentID, actor uuid.UUID, req *VoidDocumentRequest) (*DocumentResponse, error) {
	var voided *document.Document
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		doc, err := repos.DocumentRepo().FindByIDForTenant(ctx, tenantID, documentID)
		if err != nil {
			return err
		}

		previousStatus := doc.Status
		if err := doc.Void(actor, req.Reason, s.clock()); err != nil {
			return err
		}

		entry, err := audit.NewEntry(audit.EventDocumentVoided, "document")
		if err != nil {
			return err
		}
		entry.WithTenant(tenantID).
			WithEntity(doc.ID).
			WithActor(actor).
			WithTransition(string(previousStatus), string(document.StatusVoided)).
			WithMetadata(audit.Metadata{
				"document_number": doc.DocumentNumber,
				"reason":          req.Reason,
			})
		if err := repos.AuditRepo().Append(ctx, entry); err != nil {
			return fmt.Errorf("append audit entry: %w", err)
		}

		if err := repos.DocumentRepo().SaveWithLock(ctx, doc); err != nil {
			return err
		}

		voided = doc
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, voided)

	return ToDocumentResponse(voided), nil
}

// CreateCreditNote corrects an issued invoice by creating a linked credit
// note draft and marking the invoice credited. The invoice is never reset to
// draft; the correction is a new document that goes through regular issuance.
func (s *DocumentService) CreateCreditNote(ctx context.Context, tenantID, invoiceID, actor uuid.UUID) (*DocumentResponse, error) {
	var creditNote *document.Document
	var invoice *document.Document
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		doc, err := repos.DocumentRepo().FindByIDForTenant(ctx, tenantID, invoiceID)
		if err != nil {
			return err
		}

		note, err := document.NewDocument(tenantID, document.TypeCreditNote, doc.BusinessID, doc.ClientID, doc.Currency, actor)
		if err != nil {
			return err
		}
		note.CreditedDocumentID = &doc.ID

		items := make([]document.LineItem, 0, len(doc.LineItems))
		for _, li := range doc.LineItems {
			item, err := document.NewLineItem(li.Description, li.Quantity, li.UnitPrice, li.TaxRate)
			if err != nil {
				return err
			}
			items = append(items, item)
		}
		if err := note.ReplaceLineItems(items); err != nil {
			return err
		}

		previousStatus := doc.Status
		if err := doc.MarkCredited(note.ID); err != nil {
			return err
		}

		entry, err := audit.NewEntry(audit.EventDocumentCredited, "document")
		if err != nil {
			return err
		}
		entry.WithTenant(tenantID).
			WithEntity(doc.ID).
			WithActor(actor).
			WithTransition(string(previousStatus), string(document.StatusCredited)).
			WithMetadata(audit.Metadata{
				"document_number": doc.DocumentNumber,
				"credit_note_id":  note.ID.String(),
			})
		if err := repos.AuditRepo().Append(ctx, entry); err != nil {
			return fmt.Errorf("append audit entry: %w", err)
		}

		if err := repos.DocumentRepo().Save(ctx, note); err != nil {
			return err
		}
		if err := repos.DocumentRepo().SaveWithLock(ctx, doc); err != nil {
			return err
		}

		creditNote = note
		invoice = doc
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, invoice)
	s.publishDomainEvents(ctx, creditNote)

	return ToDocumentResponse(creditNote), nil
}

func (s *DocumentService) publishDomainEvents(ctx context.Context, doc *document.Document) {
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

func buildLineItems(reqs []LineItemRequest) ([]document.LineItem, error) {
	items := make([]document.LineItem, 0, len(reqs))
	for _, r := range reqs {
		item, err := document.NewLineItem(r.Description, r.Quantity, r.UnitPrice, r.TaxRate)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

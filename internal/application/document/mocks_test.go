package document

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/invoicemonk/backend/internal/domain/audit"
	"github.com/invoicemonk/backend/internal/domain/directory"
	"github.com/invoicemonk/backend/internal/domain/document"
	"github.com/invoicemonk/backend/internal/domain/retention"
	"github.com/invoicemonk/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockEventPublisher records published domain events
type MockEventPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{events: make([]shared.DomainEvent, 0)}
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	return nil
}

func (m *MockEventPublisher) GetEventsByType(eventType string) []shared.DomainEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]shared.DomainEvent, 0)
	for _, e := range m.events {
		if e.EventType() == eventType {
			result = append(result, e)
		}
	}
	return result
}

// MockDocumentRepository is a mock implementation of document.Repository
type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*document.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*document.Document, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindByVerificationID(ctx context.Context, verificationID string) (*document.Document, error) {
	args := m.Called(ctx, verificationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter document.Filter) ([]document.Document, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]document.Document), args.Error(1)
}

func (m *MockDocumentRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter document.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDocumentRepository) FindRetentionExpired(ctx context.Context, asOf time.Time, limit int) ([]document.Document, error) {
	args := m.Called(ctx, asOf, limit)
	return args.Get(0).([]document.Document), args.Error(1)
}

func (m *MockDocumentRepository) Save(ctx context.Context, doc *document.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) SaveWithLock(ctx context.Context, doc *document.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockDocumentRepository) HardDeleteCascade(ctx context.Context, id uuid.UUID) (document.DeletedCounts, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(document.DeletedCounts), args.Error(1)
}

// MockSequenceRepository is a mock implementation of document.SequenceRepository
type MockSequenceRepository struct {
	mock.Mock
}

func (m *MockSequenceRepository) NextValue(ctx context.Context, tenantID uuid.UUID, docType document.Type, year int) (int64, error) {
	args := m.Called(ctx, tenantID, docType, year)
	return args.Get(0).(int64), args.Error(1)
}

// MockAuditRepository is a mock implementation of audit.Repository
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Append(ctx context.Context, entry *audit.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditRepository) FindByID(ctx context.Context, id uuid.UUID) (*audit.Entry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*audit.Entry), args.Error(1)
}

func (m *MockAuditRepository) FindAll(ctx context.Context, filter audit.Filter) ([]*audit.Entry, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*audit.Entry), args.Error(1)
}

func (m *MockAuditRepository) Count(ctx context.Context, filter audit.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockBusinessProfileRepository is a mock implementation of directory.BusinessProfileRepository
type MockBusinessProfileRepository struct {
	mock.Mock
}

func (m *MockBusinessProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*directory.BusinessProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*directory.BusinessProfile), args.Error(1)
}

func (m *MockBusinessProfileRepository) FindForTenant(ctx context.Context, tenantID uuid.UUID) (*directory.BusinessProfile, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*directory.BusinessProfile), args.Error(1)
}

func (m *MockBusinessProfileRepository) Save(ctx context.Context, profile *directory.BusinessProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockBusinessProfileRepository) SaveWithLock(ctx context.Context, profile *directory.BusinessProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

// MockClientRepository is a mock implementation of directory.ClientRepository
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*directory.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*directory.Client), args.Error(1)
}

func (m *MockClientRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*directory.Client, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*directory.Client), args.Error(1)
}

func (m *MockClientRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter directory.ClientFilter) ([]*directory.Client, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]*directory.Client), args.Error(1)
}

func (m *MockClientRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter directory.ClientFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockClientRepository) Save(ctx context.Context, client *directory.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) SaveWithLock(ctx context.Context, client *directory.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockRetentionRepository is a mock implementation of retention.Repository
type MockRetentionRepository struct {
	mock.Mock
}

func (m *MockRetentionRepository) FindByID(ctx context.Context, id uuid.UUID) (*retention.Policy, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*retention.Policy), args.Error(1)
}

func (m *MockRetentionRepository) FindForScope(ctx context.Context, jurisdiction, entityType string) (*retention.Policy, error) {
	args := m.Called(ctx, jurisdiction, entityType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*retention.Policy), args.Error(1)
}

func (m *MockRetentionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*retention.Policy, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*retention.Policy), args.Error(1)
}

func (m *MockRetentionRepository) Save(ctx context.Context, policy *retention.Policy) error {
	args := m.Called(ctx, policy)
	return args.Error(0)
}

func (m *MockRetentionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

package handler

import (
	"context"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/invoicemonk/backend/internal/domain/audit"
	"github.com/invoicemonk/backend/internal/domain/directory"
	"github.com/invoicemonk/backend/internal/domain/document"
	"github.com/invoicemonk/backend/internal/domain/retention"
	"github.com/invoicemonk/backend/internal/domain/shared"
	"github.com/invoicemonk/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// identityHeaders stamps the development identity headers that getTenantID
// and getUserID fall back to when no JWT claims are present.
func identityHeaders(tenantID, userID uuid.UUID) map[string]string {
	return map[string]string{
		"X-Tenant-ID": tenantID.String(),
		"X-User-ID":   userID.String(),
	}
}

func newVerifiedProfile(t *testing.T, tenantID uuid.UUID) *directory.BusinessProfile {
	t.Helper()
	profile, err := directory.NewBusinessProfile(tenantID, "Acme GmbH", "DE123456789", "billing@acme.example", "DE")
	require.NoError(t, err)
	profile.MarkEmailVerified()
	return profile
}

func newActiveClient(t *testing.T, tenantID uuid.UUID) *directory.Client {
	t.Helper()
	client, err := directory.NewClient(tenantID, "Globex Corp")
	require.NoError(t, err)
	return client
}

func newDraftInvoice(t *testing.T, tenantID uuid.UUID, profile *directory.BusinessProfile, client *directory.Client) *document.Document {
	t.Helper()
	doc, err := document.NewDocument(tenantID, document.TypeInvoice, profile.ID, client.ID, valueobject.USD, uuid.New())
	require.NoError(t, err)
	item, err := document.NewLineItem("Consulting", decimal.NewFromInt(10), decimal.NewFromInt(150), decimal.NewFromInt(19))
	require.NoError(t, err)
	require.NoError(t, doc.AddLineItem(item))
	return doc
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

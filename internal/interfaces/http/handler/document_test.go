package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	appdoc "github.com/invoicemonk/backend/internal/application/document"
	"github.com/invoicemonk/backend/internal/domain/document"
	"github.com/invoicemonk/backend/internal/domain/retention"
	"github.com/invoicemonk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type documentHandlerFixture struct {
	handler      *DocumentHandler
	documentRepo *MockDocumentRepository
	sequenceRepo *MockSequenceRepository
	auditRepo    *MockAuditRepository
	profileRepo  *MockBusinessProfileRepository
	clientRepo   *MockClientRepository
	retention    *MockRetentionRepository
}

func newDocumentHandlerFixture() *documentHandlerFixture {
	f := &documentHandlerFixture{
		documentRepo: new(MockDocumentRepository),
		sequenceRepo: new(MockSequenceRepository),
		auditRepo:    new(MockAuditRepository),
		profileRepo:  new(MockBusinessProfileRepository),
		clientRepo:   new(MockClientRepository),
		retention:    new(MockRetentionRepository),
	}
	scope := appdoc.NewNoOpTransactionScope(f.documentRepo, f.sequenceRepo, f.auditRepo)
	documentService := appdoc.NewDocumentService(scope, f.documentRepo, f.profileRepo, f.clientRepo)
	issuanceService := appdoc.NewIssuanceService(scope, f.profileRepo, f.clientRepo, f.retention)
	f.handler = NewDocumentHandler(documentService, issuanceService)
	return f
}

func (f *documentHandlerFixture) serve(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	router := setupTestRouter()
	router.POST("/documents", f.handler.Create)
	router.GET("/documents/:id", f.handler.Get)
	router.DELETE("/documents/:id", f.handler.DeleteDraft)
	router.POST("/documents/:id/issue", f.handler.Issue)
	router.POST("/documents/:id/void", f.handler.Void)

	var reader *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(raw)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestDocumentHandler_Create_Success(t *testing.T) {
	f := newDocumentHandlerFixture()
	tenantID := uuid.New()
	userID := uuid.New()
	profile := newVerifiedProfile(t, tenantID)
	client := newActiveClient(t, tenantID)

	f.profileRepo.On("FindForTenant", mock.Anything, tenantID).Return(profile, nil)
	f.clientRepo.On("FindByIDForTenant", mock.Anything, tenantID, client.ID).Return(client, nil)
	f.documentRepo.On("Save", mock.Anything, mock.AnythingOfType("*document.Document")).Return(nil)

	body := map[string]any{
		"type":      "INVOICE",
		"client_id": client.ID.String(),
		"line_items": []map[string]any{
			{"description": "Consulting", "quantity": "10", "unit_price": "150", "tax_rate": "19"},
		},
	}

	w := f.serve(t, http.MethodPost, "/documents", body, identityHeaders(tenantID, userID))

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "DRAFT", resp.Data.Status)
	f.documentRepo.AssertExpectations(t)
}

func TestDocumentHandler_Create_MissingTenant(t *testing.T) {
	f := newDocumentHandlerFixture()

	w := f.serve(t, http.MethodPost, "/documents", map[string]any{"type": "INVOICE"}, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	f.profileRepo.AssertNotCalled(t, "FindForTenant")
}

func TestDocumentHandler_Create_ArchivedClient(t *testing.T) {
	f := newDocumentHandlerFixture()
	tenantID := uuid.New()
	profile := newVerifiedProfile(t, tenantID)
	client := newActiveClient(t, tenantID)
	require.NoError(t, client.Archive())

	f.profileRepo.On("FindForTenant", mock.Anything, tenantID).Return(profile, nil)
	f.clientRepo.On("FindByIDForTenant", mock.Anything, tenantID, client.ID).Return(client, nil)

	body := map[string]any{"type": "INVOICE", "client_id": client.ID.String()}
	w := f.serve(t, http.MethodPost, "/documents", body, identityHeaders(tenantID, uuid.New()))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	f.documentRepo.AssertNotCalled(t, "Save")
}

func TestDocumentHandler_Get_NotFound(t *testing.T) {
	f := newDocumentHandlerFixture()
	tenantID := uuid.New()
	documentID := uuid.New()

	f.documentRepo.On("FindByIDForTenant", mock.Anything, tenantID, documentID).Return(nil, shared.ErrNotFound)

	w := f.serve(t, http.MethodGet, "/documents/"+documentID.String(), nil, identityHeaders(tenantID, uuid.New()))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDocumentHandler_Get_InvalidID(t *testing.T) {
	f := newDocumentHandlerFixture()

	w := f.serve(t, http.MethodGet, "/documents/not-a-uuid", nil, identityHeaders(uuid.New(), uuid.New()))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	f.documentRepo.AssertNotCalled(t, "FindByIDForTenant")
}

func TestDocumentHandler_DeleteDraft_Success(t *testing.T) {
	f := newDocumentHandlerFixture()
	tenantID := uuid.New()
	profile := newVerifiedProfile(t, tenantID)
	client := newActiveClient(t, tenantID)
	doc := newDraftInvoice(t, tenantID, profile, client)

	f.documentRepo.On("FindByIDForTenant", mock.Anything, tenantID, doc.ID).Return(doc, nil)
	f.documentRepo.On("Delete", mock.Anything, tenantID, doc.ID).Return(nil)

	w := f.serve(t, http.MethodDelete, "/documents/"+doc.ID.String(), nil, identityHeaders(tenantID, uuid.New()))

	assert.Equal(t, http.StatusNoContent, w.Code)
	f.documentRepo.AssertExpectations(t)
}

func TestDocumentHandler_DeleteIssued_Rejected(t *testing.T) {
	f := newDocumentHandlerFixture()
	doc := newIssuedInvoice(t)

	f.documentRepo.On("FindByIDForTenant", mock.Anything, doc.TenantID, doc.ID).Return(doc, nil)

	w := f.serve(t, http.MethodDelete, "/documents/"+doc.ID.String(), nil, identityHeaders(doc.TenantID, uuid.New()))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	f.documentRepo.AssertNotCalled(t, "Delete")
}

func TestDocumentHandler_Issue_Success(t *testing.T) {
	f := newDocumentHandlerFixture()
	tenantID := uuid.New()
	actor := uuid.New()
	profile := newVerifiedProfile(t, tenantID)
	client := newActiveClient(t, tenantID)
	doc := newDraftInvoice(t, tenantID, profile, client)

	policy, err := retention.NewPolicy("DE", "document", 7)
	require.NoError(t, err)

	f.profileRepo.On("FindForTenant", mock.Anything, tenantID).Return(profile, nil)
	f.documentRepo.On("FindByIDForTenant", mock.Anything, tenantID, doc.ID).Return(doc, nil)
	f.clientRepo.On("FindByIDForTenant", mock.Anything, tenantID, client.ID).Return(client, nil)
	f.sequenceRepo.On("NextValue", mock.Anything, tenantID, document.TypeInvoice, mock.AnythingOfType("int")).Return(int64(42), nil)
	f.retention.On("FindForScope", mock.Anything, "DE", "document").Return(policy, nil)
	f.auditRepo.On("Append", mock.Anything, mock.AnythingOfType("*audit.Entry")).Return(nil)
	f.documentRepo.On("SaveWithLock", mock.Anything, doc).Return(nil)

	w := f.serve(t, http.MethodPost, "/documents/"+doc.ID.String()+"/issue", nil, identityHeaders(tenantID, actor))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Status         string `json:"status"`
			DocumentNumber string `json:"document_number"`
			DocumentHash   string `json:"document_hash"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ISSUED", resp.Data.Status)
	assert.Contains(t, resp.Data.DocumentNumber, "INV-")
	assert.Len(t, resp.Data.DocumentHash, 64)
	f.documentRepo.AssertExpectations(t)
	f.sequenceRepo.AssertExpectations(t)
}

func TestDocumentHandler_Issue_AlreadyIssuedConflicts(t *testing.T) {
	f := newDocumentHandlerFixture()
	doc := newIssuedInvoice(t)
	tenantID := doc.TenantID
	profile := newVerifiedProfile(t, tenantID)

	f.profileRepo.On("FindForTenant", mock.Anything, tenantID).Return(profile, nil)
	f.documentRepo.On("FindByIDForTenant", mock.Anything, tenantID, doc.ID).Return(doc, nil)

	w := f.serve(t, http.MethodPost, "/documents/"+doc.ID.String()+"/issue", nil, identityHeaders(tenantID, uuid.New()))

	assert.Equal(t, http.StatusConflict, w.Code)
	f.documentRepo.AssertNotCalled(t, "SaveWithLock")
}

func TestDocumentHandler_Void_Success(t *testing.T) {
	f := newDocumentHandlerFixture()
	doc := newIssuedInvoice(t)
	tenantID := doc.TenantID

	f.documentRepo.On("FindByIDForTenant", mock.Anything, tenantID, doc.ID).Return(doc, nil)
	f.auditRepo.On("Append", mock.Anything, mock.AnythingOfType("*audit.Entry")).Return(nil)
	f.documentRepo.On("SaveWithLock", mock.Anything, doc).Return(nil)

	body := map[string]any{"reason": "duplicate billing"}
	w := f.serve(t, http.MethodPost, "/documents/"+doc.ID.String()+"/void", body, identityHeaders(tenantID, uuid.New()))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "VOIDED", resp.Data.Status)
	f.auditRepo.AssertExpectations(t)
}

func TestDocumentHandler_Void_MissingReason(t *testing.T) {
	f := newDocumentHandlerFixture()
	doc := newIssuedInvoice(t)

	w := f.serve(t, http.MethodPost, "/documents/"+doc.ID.String()+"/void", map[string]any{}, identityHeaders(doc.TenantID, uuid.New()))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	f.documentRepo.AssertNotCalled(t, "FindByIDForTenant")
}

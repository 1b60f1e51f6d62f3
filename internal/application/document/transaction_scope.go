package document

import (
	"context"

	"github.com/invoicemonk/backend/internal/domain/audit"
	"github.com/invoicemonk/backend/internal/domain/document"
)

// TransactionScope provides transactional access to the repositories touched
// by issuance and retention. When a function is executed within a scope, all
// repository operations share one database transaction and are committed or
// rolled back atomically — a failed save must also roll back the sequence
// allocation and the audit entry.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the document-side repositories
// within a transaction. All repositories returned share the same underlying
// database transaction.
type TransactionalRepositories interface {
	// DocumentRepo returns the document repository scoped to the current transaction
	DocumentRepo() document.Repository
	// SequenceRepo returns the number sequence repository scoped to the current transaction
	SequenceRepo() document.SequenceRepository
	// AuditRepo returns the audit log repository scoped to the current transaction
	AuditRepo() audit.Repository
}

// NoOpTransactionScope runs the function without a real transaction.
// Useful for tests and for stores without transaction support.
type NoOpTransactionScope struct {
	documentRepo document.Repository
	sequenceRepo document.SequenceRepository
	auditRepo    audit.Repository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	documentRepo document.Repository,
	sequenceRepo document.SequenceRepository,
	auditRepo audit.Repository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		documentRepo: documentRepo,
		sequenceRepo: sequenceRepo,
		auditRepo:    auditRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// DocumentRepo returns the document repository.
func (s *NoOpTransactionScope) DocumentRepo() document.Repository {
	return s.documentRepo
}

// SequenceRepo returns the sequence repository.
func (s *NoOpTransactionScope) SequenceRepo() document.SequenceRepository {
	return s.sequenceRepo
}

// AuditRepo returns the audit repository.
func (s *NoOpTransactionScope) AuditRepo() audit.Repository {
	return s.auditRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)

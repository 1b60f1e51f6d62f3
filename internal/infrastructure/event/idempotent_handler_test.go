package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/invoicemonk/backend/internal/domain/shared"
	"github.com/invoicemonk/backend/internal/infrastructure/cache"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// countingHandler records how many times it was invoked
type countingHandler struct {
	calls int
	err   error
}

func (h *countingHandler) Handle(ctx context.Context, evt shared.DomainEvent) error {
	h.calls++
	return h.err
}

func (h *countingHandler) EventTypes() []string {
	return []string{"test.event"}
}

func TestIdempotentHandler_SuppressesDuplicates(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()

	inner := &countingHandler{}
	handler := NewIdempotentHandler(inner, store, zap.NewNop())

	evt := newTestEvent("test.event", uuid.New())

	require.NoError(t, handler.Handle(context.Background(), evt))
	require.NoError(t, handler.Handle(context.Background(), evt))

	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, int64(1), handler.Metrics().Stats().EventsProcessed)
	assert.Equal(t, int64(1), handler.Metrics().Stats().EventsDuplicate)
}

func TestIdempotentHandler_DistinctEventsAllProcessed(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()

	inner := &countingHandler{}
	handler := NewIdempotentHandler(inner, store, zap.NewNop())

	require.NoError(t, handler.Handle(context.Background(), newTestEvent("test.event", uuid.New())))
	require.NoError(t, handler.Handle(context.Background(), newTestEvent("test.event", uuid.New())))

	assert.Equal(t, 2, inner.calls)
}

func TestIdempotentHandler_KeyStaysOnFailure(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()

	inner := &countingHandler{err: errors.New("handler failed")}
	handler := NewIdempotentHandler(inner, store, zap.NewNop())

	evt := newTestEvent("test.event", uuid.New())

	err := handler.Handle(context.Background(), evt)
	require.Error(t, err)

	// The key survives the failure, so an immediate redelivery is skipped.
	require.NoError(t, handler.Handle(context.Background(), evt))
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, int64(1), handler.Metrics().Stats().EventsFailed)
}

func TestIdempotentHandler_DisabledPassesThrough(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()

	inner := &countingHandler{}
	handler := NewIdempotentHandler(inner, store, zap.NewNop())
	handler.SetConfig(shared.IdempotencyConfig{Enabled: false, TTL: time.Hour})

	evt := newTestEvent("test.event", uuid.New())

	require.NoError(t, handler.Handle(context.Background(), evt))
	require.NoError(t, handler.Handle(context.Background(), evt))

	assert.Equal(t, 2, inner.calls)
}

func TestIdempotentHandler_EventTypesDelegates(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()

	handler := NewIdempotentHandler(&countingHandler{}, store, nil)
	assert.Equal(t, []string{"test.event"}, handler.EventTypes())
}

package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techvibe/backoffice/internal/application/dispatcher"
	"github.com/techvibe/backoffice/internal/domain/billing"
	"github.com/techvibe/backoffice/internal/domain/entity"
	"github.com/techvibe/backoffice/internal/domain/event"
)

// memoryDocs backs the func-field mocks with a map so Save can be followed by Get
type memoryDocs struct {
	docs   map[int64]*entity.Document
	items  map[int64][]entity.LineItem
	nextID int64
}

func newMemoryDocs() *memoryDocs {
	return &memoryDocs{docs: map[int64]*entity.Document{}, items: map[int64][]entity.LineItem{}}
}

func (m *memoryDocs) repos() (*mockDocumentRepo, *mockLineItemRepo) {
	docRepo := &mockDocumentRepo{
		createFunc: func(ctx context.Context, doc *entity.Document) error {
			m.nextID++
			doc.ID = m.nextID
			doc.Version = 1
			cp := *doc
			m.docs[doc.ID] = &cp
			return nil
		},
		updateFunc: func(ctx context.Context, doc *entity.Document) error {
			stored, ok := m.docs[doc.ID]
			if !ok {
				return entity.ErrNotFound
			}
			if stored.Version != doc.Version {
				return entity.ErrVersionConflict
			}
			doc.Version++
			cp := *doc
			m.docs[doc.ID] = &cp
			return nil
		},
		getByIDFunc: func(ctx context.Context, kind entity.DocumentKind, id int64) (*entity.Document, error) {
			stored, ok := m.docs[id]
			if !ok || stored.Kind != kind {
				return nil, entity.ErrNotFound
			}
			cp := *stored
			cp.Items = nil
			return &cp, nil
		},
		updateStatusFunc: func(ctx context.Context, kind entity.DocumentKind, id int64, status entity.DocumentStatus) error {
			stored, ok := m.docs[id]
			if !ok || stored.Kind != kind {
				return entity.ErrNotFound
			}
			stored.Status = status
			return nil
		},
	}
	itemRepo := &mockLineItemRepo{
		replaceAllFunc: func(ctx context.Context, kind entity.DocumentKind, documentID int64, items []entity.LineItem) error {
			m.items[documentID] = append([]entity.LineItem(nil), items...)
			return nil
		},
		listByDocumentFunc: func(ctx context.Context, kind entity.DocumentKind, documentID int64) ([]entity.LineItem, error) {
			return append([]entity.LineItem{}, m.items[documentID]...), nil
		},
	}
	return docRepo, itemRepo
}

func newTestDocumentService(docRepo *mockDocumentRepo, itemRepo *mockLineItemRepo, d dispatcher.Dispatcher) (DocumentService, *mockSequence) {
	seq := &mockSequence{}
	return NewDocumentService(docRepo, itemRepo, seq, &mockTxManager{}, d, &mockLogger{}), seq
}

func sampleQuotation() *entity.Document {
	return &entity.Document{
		Kind:           entity.KindQuotation,
		ClientSnapshot: entity.ClientSnapshot{Name: "Acme"},
		IssueDate:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		TaxRatePercent: 5,
		DiscountAmount: 100,
		Items: []entity.LineItem{
			{Description: "Website", Quantity: 1, UnitPrice: 2000},
			{Description: "Hosting", Quantity: 2, UnitPrice: 250},
		},
	}
}

func TestDocumentService_SaveCreate(t *testing.T) {
	store := newMemoryDocs()
	docRepo, itemRepo := store.repos()
	svc, _ := newTestDocumentService(docRepo, itemRepo, nil)

	saved, err := svc.Save(context.Background(), sampleQuotation())

	require.NoError(t, err)
	assert.Equal(t, "QUO-0001", saved.Number)
	assert.Equal(t, entity.StatusPending, saved.Status)
	assert.InDelta(t, 2500, saved.Subtotal, 1e-9)
	assert.InDelta(t, 125, saved.TaxAmount, 1e-9)
	assert.InDelta(t, 2525, saved.Total, 1e-9)
	assert.Len(t, saved.Items, 2)
	assert.InDelta(t, 2525, store.docs[saved.ID].Total, 1e-9, "totals snapshot persisted with the header")
}

func TestDocumentService_SaveUpdate(t *testing.T) {
	store := newMemoryDocs()
	docRepo, itemRepo := store.repos()
	svc, seq := newTestDocumentService(docRepo, itemRepo, nil)
	ctx := context.Background()

	saved, err := svc.Save(ctx, sampleQuotation())
	require.NoError(t, err)

	saved.Items = saved.Items[:1]
	updated, err := svc.Save(ctx, saved)
	require.NoError(t, err)

	assert.Equal(t, saved.ID, updated.ID)
	assert.Equal(t, 2, updated.Version)
	assert.Len(t, updated.Items, 1)
	assert.Equal(t, 1, seq.calls[entity.KindQuotation], "update does not consume a number")
}

func TestDocumentService_SaveVersionConflict(t *testing.T) {
	store := newMemoryDocs()
	docRepo, itemRepo := store.repos()
	svc, _ := newTestDocumentService(docRepo, itemRepo, nil)
	ctx := context.Background()

	saved, err := svc.Save(ctx, sampleQuotation())
	require.NoError(t, err)

	first := *saved
	second := *saved
	first.Notes = "first"
	second.Notes = "second"

	_, err = svc.Save(ctx, &first)
	require.NoError(t, err)

	_, err = svc.Save(ctx, &second)
	assert.ErrorIs(t, err, entity.ErrVersionConflict)
	assert.Equal(t, 1, second.Version, "failed save leaves the caller's version alone")
	assert.Equal(t, "first", store.docs[saved.ID].Notes)
}

func TestDocumentService_SaveItemFailureRollsBack(t *testing.T) {
	store := newMemoryDocs()
	docRepo, itemRepo := store.repos()
	boom := errors.New("disk full")
	itemRepo.replaceAllFunc = func(ctx context.Context, kind entity.DocumentKind, documentID int64, items []entity.LineItem) error {
		return boom
	}

	rolledBack := false
	tx := &mockTxManager{
		withTransactionFunc: func(ctx context.Context, fn func(ctx context.Context) error) error {
			err := fn(ctx)
			if err != nil {
				rolledBack = true
			}
			return err
		},
	}
	svc := NewDocumentService(docRepo, itemRepo, &mockSequence{}, tx, nil, &mockLogger{})

	doc := sampleQuotation()
	_, err := svc.Save(context.Background(), doc)

	require.ErrorIs(t, err, boom)
	assert.True(t, rolledBack)
	assert.Zero(t, doc.ID)
	assert.Empty(t, doc.Number)
}

type txMarker struct{}

// inTxManager tags the context handed to fn so repos can tell whether they run inside it
func inTxManager(committed *bool) *mockTxManager {
	return &mockTxManager{
		withTransactionFunc: func(ctx context.Context, fn func(ctx context.Context) error) error {
			if err := fn(context.WithValue(ctx, txMarker{}, true)); err != nil {
				return err
			}
			*committed = true
			return nil
		},
	}
}

func TestDocumentService_SaveReloadsInsideTransaction(t *testing.T) {
	store := newMemoryDocs()
	docRepo, itemRepo := store.repos()
	get := docRepo.getByIDFunc
	outside := 0
	docRepo.getByIDFunc = func(ctx context.Context, kind entity.DocumentKind, id int64) (*entity.Document, error) {
		if ctx.Value(txMarker{}) == nil {
			outside++
		}
		return get(ctx, kind, id)
	}

	committed := false
	svc := NewDocumentService(docRepo, itemRepo, &mockSequence{}, inTxManager(&committed), nil, &mockLogger{})
	ctx := context.Background()

	quote, err := svc.Save(ctx, sampleQuotation())
	require.NoError(t, err)
	assert.True(t, committed)
	assert.Equal(t, "QUO-0001", quote.Number)
	assert.Len(t, quote.Items, 2)

	invoice, err := svc.ConvertQuotation(ctx, quote.ID)
	require.NoError(t, err)
	assert.Equal(t, "INV-0001", invoice.Number)
	assert.Len(t, invoice.Items, 2)

	assert.Zero(t, outside, "no read runs after commit")
}

func TestDocumentService_SaveReloadFailureIsNotCommitted(t *testing.T) {
	store := newMemoryDocs()
	docRepo, itemRepo := store.repos()
	itemRepo.listByDocumentFunc = func(ctx context.Context, kind entity.DocumentKind, documentID int64) ([]entity.LineItem, error) {
		return nil, context.Canceled
	}

	var published atomic.Int32
	d := dispatcher.NewDispatcher()
	d.Subscribe(event.TypeDocumentSaved, func(ctx context.Context, evt *event.Event) error {
		published.Add(1)
		return nil
	})

	committed := false
	svc := NewDocumentService(docRepo, itemRepo, &mockSequence{}, inTxManager(&committed), d, &mockLogger{})

	doc := sampleQuotation()
	_, err := svc.Save(context.Background(), doc)

	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, committed)
	assert.Zero(t, doc.ID, "a failed save never hands back an id to retry against")
	assert.Zero(t, published.Load())
}

func TestDocumentService_SaveRejectsForeignStatus(t *testing.T) {
	svc, _ := newTestDocumentService(&mockDocumentRepo{}, &mockLineItemRepo{}, nil)

	doc := sampleQuotation()
	doc.Status = entity.StatusPaid

	_, err := svc.Save(context.Background(), doc)
	assert.ErrorIs(t, err, entity.ErrInvalidStatus)
}

func TestDocumentService_FormSubmitFailureNotifiesOnce(t *testing.T) {
	docRepo := &mockDocumentRepo{
		createFunc: func(ctx context.Context, doc *entity.Document) error {
			return errors.New("permission denied for table quotations")
		},
	}
	svc, _ := newTestDocumentService(docRepo, &mockLineItemRepo{}, nil)

	var notified []string
	form := billing.NewForm(entity.KindQuotation, notifierFunc(func(msg string) { notified = append(notified, msg) }))
	form.SetClientName("Acme")
	require.NoError(t, form.UpdateItem(0, billing.FieldUnitPrice, "100"))

	_, err := form.Submit(context.Background(), svc)

	require.Error(t, err)
	require.Len(t, notified, 1)
	assert.Contains(t, notified[0], "permission denied for table quotations")
	assert.Equal(t, billing.FormFailed, form.State())
	assert.Equal(t, "Acme", form.Document().Name)
	assert.InDelta(t, 100, form.Totals().Subtotal, 1e-9)
}

type notifierFunc func(string)

func (f notifierFunc) NotifyFailure(message string) { f(message) }

func TestDocumentService_SetStatus(t *testing.T) {
	var dispatched atomic.Int32
	d := dispatcher.NewDispatcher()
	d.Subscribe(event.TypeDocumentStatus, func(ctx context.Context, evt *event.Event) error {
		dispatched.Add(1)
		return nil
	})

	var got entity.DocumentStatus
	docRepo := &mockDocumentRepo{
		updateStatusFunc: func(ctx context.Context, kind entity.DocumentKind, id int64, status entity.DocumentStatus) error {
			got = status
			return nil
		},
	}
	svc, _ := newTestDocumentService(docRepo, &mockLineItemRepo{}, d)
	ctx := context.Background()

	require.NoError(t, svc.SetStatus(ctx, entity.KindInvoice, 1, entity.StatusCancelled))
	assert.Equal(t, entity.StatusCancelled, got)
	assert.Equal(t, int32(1), dispatched.Load())

	// paid back to draft is allowed; there is no transition table
	require.NoError(t, svc.SetStatus(ctx, entity.KindInvoice, 1, entity.StatusDraft))

	err := svc.SetStatus(ctx, entity.KindInvoice, 1, entity.StatusApproved)
	assert.ErrorIs(t, err, entity.ErrInvalidStatus)
	assert.Equal(t, entity.StatusDraft, got)
}

func TestDocumentService_ConvertQuotation(t *testing.T) {
	store := newMemoryDocs()
	docRepo, itemRepo := store.repos()
	svc, _ := newTestDocumentService(docRepo, itemRepo, nil)
	ctx := context.Background()

	quote, err := svc.Save(ctx, sampleQuotation())
	require.NoError(t, err)

	invoice, err := svc.ConvertQuotation(ctx, quote.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.KindInvoice, invoice.Kind)
	assert.Equal(t, "INV-0001", invoice.Number)
	assert.Equal(t, entity.StatusDraft, invoice.Status)
	assert.Equal(t, "Acme", invoice.Name)
	assert.InDelta(t, quote.Total, invoice.Total, 1e-9)
	assert.Len(t, invoice.Items, 2)
	assert.Equal(t, entity.StatusConverted, store.docs[quote.ID].Status)

	_, err = svc.ConvertQuotation(ctx, quote.ID)
	assert.ErrorIs(t, err, entity.ErrInvalidStatus)
}

func TestDocumentService_SweepOverdue(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	var marked []int64
	docRepo := &mockDocumentRepo{
		listFunc: func(ctx context.Context, kind entity.DocumentKind, filter entity.DocumentFilter) ([]*entity.Document, error) {
			assert.Equal(t, entity.StatusSent, filter.Status)
			require.NotNil(t, filter.DueBefore)
			assert.True(t, filter.DueBefore.Equal(now))
			return []*entity.Document{{ID: 3}, {ID: 7}}, nil
		},
		updateStatusFunc: func(ctx context.Context, kind entity.DocumentKind, id int64, status entity.DocumentStatus) error {
			assert.Equal(t, entity.StatusOverdue, status)
			marked = append(marked, id)
			return nil
		},
	}
	svc, _ := newTestDocumentService(docRepo, &mockLineItemRepo{}, nil)

	n, err := svc.SweepOverdue(context.Background(), now)

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []int64{3, 7}, marked)
}

func TestDocumentService_NextNumber(t *testing.T) {
	svc, _ := newTestDocumentService(&mockDocumentRepo{}, &mockLineItemRepo{}, nil)

	n, err := svc.NextNumber(context.Background(), entity.KindInvoice)
	require.NoError(t, err)
	assert.Equal(t, "INV-0001", n)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/techvibe/backoffice/internal/application/dispatcher"
	"github.com/techvibe/backoffice/internal/application/port"
	"github.com/techvibe/backoffice/internal/domain/billing"
	"github.com/techvibe/backoffice/internal/domain/entity"
	"github.com/techvibe/backoffice/internal/domain/event"
)

// DocumentService persists invoices and quotations with their line items
type DocumentService interface {
	// Save creates the document when it has no ID and updates it otherwise.
	// It satisfies billing.Submitter.
	Save(ctx context.Context, doc *entity.Document) (*entity.Document, error)
	Get(ctx context.Context, kind entity.DocumentKind, id int64) (*entity.Document, error)
	List(ctx context.Context, kind entity.DocumentKind, filter entity.DocumentFilter) ([]*entity.Document, error)
	Delete(ctx context.Context, kind entity.DocumentKind, id int64) error
	SetStatus(ctx context.Context, kind entity.DocumentKind, id int64, status entity.DocumentStatus) error
	ConvertQuotation(ctx context.Context, quotationID int64) (*entity.Document, error)
	NextNumber(ctx context.Context, kind entity.DocumentKind) (string, error)
	SweepOverdue(ctx context.Context, now time.Time) (int, error)
}

type documentServiceImpl struct {
	docRepo    port.DocumentRepository
	itemRepo   port.LineItemRepository
	sequence   port.SequenceGenerator
	txManager  port.TransactionManager
	dispatcher dispatcher.Dispatcher
	logger     Logger
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(
	docRepo port.DocumentRepository,
	itemRepo port.LineItemRepository,
	sequence port.SequenceGenerator,
	txManager port.TransactionManager,
	dispatcher dispatcher.Dispatcher,
	logger Logger,
) DocumentService {
	return &documentServiceImpl{
		docRepo:    docRepo,
		itemRepo:   itemRepo,
		sequence:   sequence,
		txManager:  txManager,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

var _ billing.Submitter = (DocumentService)(nil)

// Save writes the header, the number and the items in one transaction
func (s *documentServiceImpl) Save(ctx context.Context, doc *entity.Document) (*entity.Document, error) {
	if !doc.Kind.IsValid() {
		return nil, entity.ErrInvalidKind
	}
	if doc.Status == "" {
		doc.Status = doc.Kind.DefaultStatus()
	}
	if !doc.Kind.AllowsStatus(doc.Status) {
		return nil, fmt.Errorf("%w: %q for %s", entity.ErrInvalidStatus, doc.Status, doc.Kind)
	}

	billing.ApplyTotals(doc)
	created := doc.IsNew()
	version := doc.Version
	var saved *entity.Document

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if created {
			number, err := s.sequence.Next(txCtx, doc.Kind)
			if err != nil {
				return fmt.Errorf("next number: %w", err)
			}
			doc.Number = number
			if err := s.docRepo.Create(txCtx, doc); err != nil {
				return fmt.Errorf("create document: %w", err)
			}
		} else {
			if err := s.docRepo.Update(txCtx, doc); err != nil {
				return fmt.Errorf("update document: %w", err)
			}
		}

		if err := s.itemRepo.ReplaceAll(txCtx, doc.Kind, doc.ID, doc.Items); err != nil {
			return fmt.Errorf("save items: %w", err)
		}

		// reload before commit so an error always means nothing was written
		reloaded, err := s.Get(txCtx, doc.Kind, doc.ID)
		if err != nil {
			return fmt.Errorf("reload document: %w", err)
		}
		saved = reloaded
		return nil
	})
	if err != nil {
		if created {
			// the aborted insert must not leak an ID into the caller's form
			doc.ID = 0
			doc.Number = ""
		}
		doc.Version = version
		s.logger.Error("Failed to save document", "kind", doc.Kind, "id", doc.ID, "error", err)
		return nil, err
	}

	s.logger.Info("Document saved", "kind", doc.Kind, "id", doc.ID, "number", doc.Number, "created", created)
	s.publish(ctx, event.NewEvent(event.TypeDocumentSaved, string(doc.Kind), doc.ID, map[string]interface{}{
		"number":  doc.Number,
		"created": created,
		"total":   doc.Total,
	}))

	return saved, nil
}

// Get loads the header and items and recomputes totals from the items
func (s *documentServiceImpl) Get(ctx context.Context, kind entity.DocumentKind, id int64) (*entity.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	items, err := s.itemRepo.ListByDocument(ctx, kind, id)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	doc.Items = items
	billing.ApplyTotals(doc)
	return doc, nil
}

// List returns headers with their stored totals snapshot
func (s *documentServiceImpl) List(ctx context.Context, kind entity.DocumentKind, filter entity.DocumentFilter) ([]*entity.Document, error) {
	if !kind.IsValid() {
		return nil, entity.ErrInvalidKind
	}
	if filter.Status != "" && !kind.AllowsStatus(filter.Status) {
		return nil, fmt.Errorf("%w: %q for %s", entity.ErrInvalidStatus, filter.Status, kind)
	}
	return s.docRepo.List(ctx, kind, filter)
}

func (s *documentServiceImpl) Delete(ctx context.Context, kind entity.DocumentKind, id int64) error {
	if err := s.docRepo.Delete(ctx, kind, id); err != nil {
		s.logger.Error("Failed to delete document", "kind", kind, "id", id, "error", err)
		return err
	}

	s.logger.Info("Document deleted", "kind", kind, "id", id)
	s.publish(ctx, event.NewEvent(event.TypeDocumentDeleted, string(kind), id, nil))
	return nil
}

// SetStatus accepts any member of the kind's status set; there is no transition table
func (s *documentServiceImpl) SetStatus(ctx context.Context, kind entity.DocumentKind, id int64, status entity.DocumentStatus) error {
	if !kind.IsValid() {
		return entity.ErrInvalidKind
	}
	if !kind.AllowsStatus(status) {
		return fmt.Errorf("%w: %q for %s", entity.ErrInvalidStatus, status, kind)
	}

	if err := s.docRepo.UpdateStatus(ctx, kind, id, status); err != nil {
		return err
	}

	s.logger.Info("Document status changed", "kind", kind, "id", id, "status", status)
	s.publish(ctx, event.NewEvent(event.TypeDocumentStatus, string(kind), id, map[string]interface{}{
		"status": string(status),
	}))
	return nil
}

// ConvertQuotation creates an invoice from the quotation and marks the quotation converted
func (s *documentServiceImpl) ConvertQuotation(ctx context.Context, quotationID int64) (*entity.Document, error) {
	var invoice, saved *entity.Document

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		quote, err := s.Get(txCtx, entity.KindQuotation, quotationID)
		if err != nil {
			return err
		}
		if quote.Status == entity.StatusConverted {
			return fmt.Errorf("%w: quotation %s is already converted", entity.ErrInvalidStatus, quote.Number)
		}

		items := make([]entity.LineItem, len(quote.Items))
		for i, item := range quote.Items {
			items[i] = entity.LineItem{
				Description: item.Description,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
			}
		}

		invoice = &entity.Document{
			Kind:           entity.KindInvoice,
			ClientID:       quote.ClientID,
			ClientSnapshot: quote.ClientSnapshot,
			IssueDate:      time.Now().UTC().Truncate(24 * time.Hour),
			Status:         entity.StatusDraft,
			TaxRatePercent: quote.TaxRatePercent,
			DiscountAmount: quote.DiscountAmount,
			Notes:          quote.Notes,
			Terms:          quote.Terms,
			Items:          items,
		}
		billing.ApplyTotals(invoice)

		number, err := s.sequence.Next(txCtx, entity.KindInvoice)
		if err != nil {
			return fmt.Errorf("next number: %w", err)
		}
		invoice.Number = number

		if err := s.docRepo.Create(txCtx, invoice); err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}
		if err := s.itemRepo.ReplaceAll(txCtx, entity.KindInvoice, invoice.ID, invoice.Items); err != nil {
			return fmt.Errorf("save items: %w", err)
		}
		if err := s.docRepo.UpdateStatus(txCtx, entity.KindQuotation, quotationID, entity.StatusConverted); err != nil {
			return err
		}

		reloaded, err := s.Get(txCtx, entity.KindInvoice, invoice.ID)
		if err != nil {
			return fmt.Errorf("reload invoice: %w", err)
		}
		saved = reloaded
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to convert quotation", "quotation_id", quotationID, "error", err)
		return nil, err
	}

	s.logger.Info("Quotation converted", "quotation_id", quotationID, "invoice_id", invoice.ID, "number", invoice.Number)
	s.publish(ctx, event.NewEvent(event.TypeQuotationConverted, string(entity.KindQuotation), quotationID, map[string]interface{}{
		"invoice_id":     invoice.ID,
		"invoice_number": invoice.Number,
	}))

	return saved, nil
}

// NextNumber previews the number the next created document of the kind will get
func (s *documentServiceImpl) NextNumber(ctx context.Context, kind entity.DocumentKind) (string, error) {
	return s.sequence.Peek(ctx, kind)
}

// SweepOverdue marks sent invoices whose due date is before now as overdue
func (s *documentServiceImpl) SweepOverdue(ctx context.Context, now time.Time) (int, error) {
	due := now.UTC()
	sent, err := s.docRepo.List(ctx, entity.KindInvoice, entity.DocumentFilter{
		Status:    entity.StatusSent,
		DueBefore: &due,
	})
	if err != nil {
		return 0, fmt.Errorf("list sent invoices: %w", err)
	}

	marked := 0
	for _, doc := range sent {
		if err := s.SetStatus(ctx, entity.KindInvoice, doc.ID, entity.StatusOverdue); err != nil {
			if errors.Is(err, entity.ErrNotFound) {
				continue
			}
			return marked, err
		}
		marked++
	}

	if marked > 0 {
		s.logger.Info("Overdue sweep finished", "marked", marked)
	}
	return marked, nil
}

func (s *documentServiceImpl) publish(ctx context.Context, evt *event.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Dispatch(ctx, evt); err != nil {
		s.logger.Error("Event handler failed", "event", evt.Type, "error", err)
	}
}

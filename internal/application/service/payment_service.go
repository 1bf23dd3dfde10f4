package service

import (
	"context"
	"fmt"

	"github.com/techvibe/backoffice/internal/application/dispatcher"
	"github.com/techvibe/backoffice/internal/application/port"
	"github.com/techvibe/backoffice/internal/domain/entity"
	"github.com/techvibe/backoffice/internal/domain/event"
)

// PaymentService records money received against invoices.
// Recording a payment never changes the invoice status.
type PaymentService interface {
	Record(ctx context.Context, p *entity.Payment) error
	ListByInvoice(ctx context.Context, invoiceID int64) ([]*entity.Payment, error)
	Delete(ctx context.Context, id int64) error
	Balance(ctx context.Context, invoiceID int64) (*entity.InvoiceBalance, error)
}

type paymentServiceImpl struct {
	repo       port.PaymentRepository
	documents  DocumentService
	dispatcher dispatcher.Dispatcher
	logger     Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(repo port.PaymentRepository, documents DocumentService, dispatcher dispatcher.Dispatcher, logger Logger) PaymentService {
	return &paymentServiceImpl{
		repo:       repo,
		documents:  documents,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

func (s *paymentServiceImpl) Record(ctx context.Context, p *entity.Payment) error {
	if p.Amount <= 0 {
		return fmt.Errorf("%w: payment amount must be positive", entity.ErrInvalidInput)
	}
	if p.Method == "" {
		p.Method = entity.PaymentMethodOther
	}
	if !entity.IsValidPaymentMethod(p.Method) {
		return fmt.Errorf("%w: unknown payment method %q", entity.ErrInvalidInput, p.Method)
	}

	if _, err := s.documents.Get(ctx, entity.KindInvoice, p.InvoiceID); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.Error("Failed to record payment", "invoice_id", p.InvoiceID, "error", err)
		return err
	}

	s.logger.Info("Payment recorded", "invoice_id", p.InvoiceID, "payment_id", p.ID, "amount", p.Amount)
	if s.dispatcher != nil {
		s.dispatcher.DispatchAsync(ctx, event.NewEvent(event.TypePaymentRecorded, string(entity.KindInvoice), p.InvoiceID, map[string]interface{}{
			"payment_id": p.ID,
			"amount":     p.Amount,
			"method":     p.Method,
		}))
	}
	return nil
}

func (s *paymentServiceImpl) ListByInvoice(ctx context.Context, invoiceID int64) ([]*entity.Payment, error) {
	return s.repo.ListByInvoice(ctx, invoiceID)
}

func (s *paymentServiceImpl) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Balance is the recomputed invoice total minus everything received
func (s *paymentServiceImpl) Balance(ctx context.Context, invoiceID int64) (*entity.InvoiceBalance, error) {
	invoice, err := s.documents.Get(ctx, entity.KindInvoice, invoiceID)
	if err != nil {
		return nil, err
	}

	paid, err := s.repo.SumByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	return &entity.InvoiceBalance{
		InvoiceID:   invoiceID,
		Total:       invoice.Total,
		Paid:        paid,
		Outstanding: invoice.Total - paid,
	}, nil
}

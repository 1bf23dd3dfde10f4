package port

import (
	"context"

	"github.com/techvibe/backoffice/internal/domain/entity"
)

// DocumentRepository persists invoice and quotation header rows.
// Both kinds share one contract; the kind selects the table.
type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.Document) error
	// Update writes the header when the stored version equals doc.Version,
	// increments doc.Version, and returns entity.ErrVersionConflict otherwise
	Update(ctx context.Context, doc *entity.Document) error
	GetByID(ctx context.Context, kind entity.DocumentKind, id int64) (*entity.Document, error)
	List(ctx context.Context, kind entity.DocumentKind, filter entity.DocumentFilter) ([]*entity.Document, error)
	UpdateStatus(ctx context.Context, kind entity.DocumentKind, id int64, status entity.DocumentStatus) error
	Delete(ctx context.Context, kind entity.DocumentKind, id int64) error
}

// LineItemRepository persists the ordered rows of a document
type LineItemRepository interface {
	// ReplaceAll deletes every row of the document and inserts items in order
	ReplaceAll(ctx context.Context, kind entity.DocumentKind, documentID int64, items []entity.LineItem) error
	ListByDocument(ctx context.Context, kind entity.DocumentKind, documentID int64) ([]entity.LineItem, error)
}

// SequenceGenerator hands out human-readable document numbers
type SequenceGenerator interface {
	Next(ctx context.Context, kind entity.DocumentKind) (string, error)
	Peek(ctx context.Context, kind entity.DocumentKind) (string, error)
}

// ClientRepository persists clients
type ClientRepository interface {
	Create(ctx context.Context, c *entity.Client) error
	Update(ctx context.Context, c *entity.Client) error
	GetByID(ctx context.Context, id int64) (*entity.Client, error)
	List(ctx context.Context) ([]*entity.Client, error)
	Delete(ctx context.Context, id int64) error
}

// LeadRepository persists public form submissions
type LeadRepository interface {
	CreateContact(ctx context.Context, s *entity.ContactSubmission) error
	CreateQuoteRequest(ctx context.Context, r *entity.QuoteRequest) error
	CreateMeetingRequest(ctx context.Context, r *entity.MeetingRequest) error
	ListContacts(ctx context.Context) ([]*entity.ContactSubmission, error)
	ListQuoteRequests(ctx context.Context) ([]*entity.QuoteRequest, error)
	ListMeetingRequests(ctx context.Context) ([]*entity.MeetingRequest, error)
	UpdateStatus(ctx context.Context, kind entity.LeadKind, id int64, status string) error
	Delete(ctx context.Context, kind entity.LeadKind, id int64) error
}

// ProductRepository persists catalog products
type ProductRepository interface {
	Create(ctx context.Context, p *entity.Product) error
	Update(ctx context.Context, p *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	List(ctx context.Context, activeOnly bool) ([]*entity.Product, error)
	Delete(ctx context.Context, id int64) error
}

// ServiceRepository persists offered services
type ServiceRepository interface {
	Create(ctx context.Context, s *entity.Service) error
	Update(ctx context.Context, s *entity.Service) error
	GetByID(ctx context.Context, id int64) (*entity.Service, error)
	List(ctx context.Context, activeOnly bool) ([]*entity.Service, error)
	Delete(ctx context.Context, id int64) error
}

// PaymentRepository persists payments against invoices
type PaymentRepository interface {
	Create(ctx context.Context, p *entity.Payment) error
	ListByInvoice(ctx context.Context, invoiceID int64) ([]*entity.Payment, error)
	SumByInvoice(ctx context.Context, invoiceID int64) (float64, error)
	Delete(ctx context.Context, id int64) error
}

// BusinessInfoRepository reads and writes the single settings row
type BusinessInfoRepository interface {
	Get(ctx context.Context) (*entity.BusinessInfo, error)
	Save(ctx context.Context, info *entity.BusinessInfo) error
}

// TransactionManager handles database transactions
type TransactionManager interface {
	// WithTransaction runs fn inside a transaction carried by the context.
	// Nested calls join the outer transaction.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

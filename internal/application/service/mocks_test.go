package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/techvibe/backoffice/internal/application/port"
	"github.com/techvibe/backoffice/internal/domain/entity"
)

type mockTxManager struct {
	withTransactionFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *mockTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.withTransactionFunc != nil {
		return m.withTransactionFunc(ctx, fn)
	}
	return fn(ctx)
}

type mockLogger struct{}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {}

type logEntry struct {
	msg string
	kv  []interface{}
}

// recordingLogger keeps Info lines for assertions
type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *recordingLogger) Info(msg string, keysAndValues ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{msg: msg, kv: keysAndValues})
}

func (l *recordingLogger) Error(msg string, keysAndValues ...interface{}) {}

func (l *recordingLogger) snapshot() []logEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]logEntry(nil), l.entries...)
}

type mockDocumentRepo struct {
	createFunc       func(ctx context.Context, doc *entity.Document) error
	updateFunc       func(ctx context.Context, doc *entity.Document) error
	getByIDFunc      func(ctx context.Context, kind entity.DocumentKind, id int64) (*entity.Document, error)
	listFunc         func(ctx context.Context, kind entity.DocumentKind, filter entity.DocumentFilter) ([]*entity.Document, error)
	updateStatusFunc func(ctx context.Context, kind entity.DocumentKind, id int64, status entity.DocumentStatus) error
	deleteFunc       func(ctx context.Context, kind entity.DocumentKind, id int64) error
}

func (m *mockDocumentRepo) Create(ctx context.Context, doc *entity.Document) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, doc)
	}
	doc.ID = 1
	doc.Version = 1
	return nil
}

func (m *mockDocumentRepo) Update(ctx context.Context, doc *entity.Document) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, doc)
	}
	doc.Version++
	return nil
}

func (m *mockDocumentRepo) GetByID(ctx context.Context, kind entity.DocumentKind, id int64) (*entity.Document, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, kind, id)
	}
	return &entity.Document{ID: id, Kind: kind, Status: kind.DefaultStatus(), Version: 1}, nil
}

func (m *mockDocumentRepo) List(ctx context.Context, kind entity.DocumentKind, filter entity.DocumentFilter) ([]*entity.Document, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, kind, filter)
	}
	return nil, nil
}

func (m *mockDocumentRepo) UpdateStatus(ctx context.Context, kind entity.DocumentKind, id int64, status entity.DocumentStatus) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, kind, id, status)
	}
	return nil
}

func (m *mockDocumentRepo) Delete(ctx context.Context, kind entity.DocumentKind, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, kind, id)
	}
	return nil
}

type mockLineItemRepo struct {
	replaceAllFunc     func(ctx context.Context, kind entity.DocumentKind, documentID int64, items []entity.LineItem) error
	listByDocumentFunc func(ctx context.Context, kind entity.DocumentKind, documentID int64) ([]entity.LineItem, error)
}

func (m *mockLineItemRepo) ReplaceAll(ctx context.Context, kind entity.DocumentKind, documentID int64, items []entity.LineItem) error {
	if m.replaceAllFunc != nil {
		return m.replaceAllFunc(ctx, kind, documentID, items)
	}
	return nil
}

func (m *mockLineItemRepo) ListByDocument(ctx context.Context, kind entity.DocumentKind, documentID int64) ([]entity.LineItem, error) {
	if m.listByDocumentFunc != nil {
		return m.listByDocumentFunc(ctx, kind, documentID)
	}
	return []entity.LineItem{}, nil
}

type mockSequence struct {
	mu    sync.Mutex
	calls map[entity.DocumentKind]int
}

func (m *mockSequence) Next(ctx context.Context, kind entity.DocumentKind) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = map[entity.DocumentKind]int{}
	}
	m.calls[kind]++
	return formatTestNumber(kind, m.calls[kind]), nil
}

func (m *mockSequence) Peek(ctx context.Context, kind entity.DocumentKind) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return formatTestNumber(kind, m.calls[kind]+1), nil
}

func formatTestNumber(kind entity.DocumentKind, n int) string {
	return fmt.Sprintf("%s-%04d", kind.NumberPrefix(), n)
}

type mockClientRepo struct {
	clients []*entity.Client
}

func (m *mockClientRepo) Create(ctx context.Context, c *entity.Client) error {
	c.ID = int64(len(m.clients) + 1)
	m.clients = append(m.clients, c)
	return nil
}

func (m *mockClientRepo) Update(ctx context.Context, c *entity.Client) error {
	for i, existing := range m.clients {
		if existing.ID == c.ID {
			m.clients[i] = c
			return nil
		}
	}
	return entity.ErrNotFound
}

func (m *mockClientRepo) GetByID(ctx context.Context, id int64) (*entity.Client, error) {
	for _, c := range m.clients {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, entity.ErrNotFound
}

func (m *mockClientRepo) List(ctx context.Context) ([]*entity.Client, error) {
	return m.clients, nil
}

func (m *mockClientRepo) Delete(ctx context.Context, id int64) error {
	return nil
}

type mockLeadRepo struct {
	contacts []*entity.ContactSubmission
	quotes   []*entity.QuoteRequest
	meetings []*entity.MeetingRequest
	statuses map[int64]string
}

func (m *mockLeadRepo) CreateContact(ctx context.Context, s *entity.ContactSubmission) error {
	s.ID = int64(len(m.contacts) + 1)
	m.contacts = append(m.contacts, s)
	return nil
}

func (m *mockLeadRepo) CreateQuoteRequest(ctx context.Context, r *entity.QuoteRequest) error {
	r.ID = int64(len(m.quotes) + 1)
	m.quotes = append(m.quotes, r)
	return nil
}

func (m *mockLeadRepo) CreateMeetingRequest(ctx context.Context, r *entity.MeetingRequest) error {
	r.ID = int64(len(m.meetings) + 1)
	m.meetings = append(m.meetings, r)
	return nil
}

func (m *mockLeadRepo) ListContacts(ctx context.Context) ([]*entity.ContactSubmission, error) {
	return m.contacts, nil
}

func (m *mockLeadRepo) ListQuoteRequests(ctx context.Context) ([]*entity.QuoteRequest, error) {
	return m.quotes, nil
}

func (m *mockLeadRepo) ListMeetingRequests(ctx context.Context) ([]*entity.MeetingRequest, error) {
	return m.meetings, nil
}

func (m *mockLeadRepo) UpdateStatus(ctx context.Context, kind entity.LeadKind, id int64, status string) error {
	if m.statuses == nil {
		m.statuses = map[int64]string{}
	}
	m.statuses[id] = status
	return nil
}

func (m *mockLeadRepo) Delete(ctx context.Context, kind entity.LeadKind, id int64) error {
	return nil
}

type mockLeadNotifier struct {
	notifyFunc func(ctx context.Context, kind entity.LeadKind, summary port.LeadSummary) error
}

func (m *mockLeadNotifier) NotifyLead(ctx context.Context, kind entity.LeadKind, summary port.LeadSummary) error {
	if m.notifyFunc != nil {
		return m.notifyFunc(ctx, kind, summary)
	}
	return nil
}

type mockBusinessInfoRepo struct {
	mu       sync.Mutex
	info     *entity.BusinessInfo
	getCalls int
	getErr   error
	// afterGet runs once the row is read, outside the mock's lock
	afterGet func()
}

func (m *mockBusinessInfoRepo) Get(ctx context.Context) (*entity.BusinessInfo, error) {
	m.mu.Lock()
	m.getCalls++
	if m.getErr != nil {
		m.mu.Unlock()
		return nil, m.getErr
	}
	cp := *m.info
	m.mu.Unlock()

	if m.afterGet != nil {
		m.afterGet()
	}
	return &cp, nil
}

func (m *mockBusinessInfoRepo) Save(ctx context.Context, info *entity.BusinessInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *info
	m.info = &cp
	return nil
}

func (m *mockBusinessInfoRepo) GetCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getCalls
}

type mockPaymentRepo struct {
	payments []*entity.Payment
}

func (m *mockPaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	p.ID = int64(len(m.payments) + 1)
	m.payments = append(m.payments, p)
	return nil
}

func (m *mockPaymentRepo) ListByInvoice(ctx context.Context, invoiceID int64) ([]*entity.Payment, error) {
	var out []*entity.Payment
	for _, p := range m.payments {
		if p.InvoiceID == invoiceID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockPaymentRepo) SumByInvoice(ctx context.Context, invoiceID int64) (float64, error) {
	var sum float64
	for _, p := range m.payments {
		if p.InvoiceID == invoiceID {
			sum += p.Amount
		}
	}
	return sum, nil
}

func (m *mockPaymentRepo) Delete(ctx context.Context, id int64) error {
	return nil
}

type mockTranslator struct {
	translateFunc func(ctx context.Context, text string, from, to entity.Lang) (string, error)
}

func (m *mockTranslator) Translate(ctx context.Context, text string, from, to entity.Lang) (string, error) {
	if m.translateFunc != nil {
		return m.translateFunc(ctx, text, from, to)
	}
	return "[" + string(to) + "] " + text, nil
}

type mockExporter struct {
	format      port.ExportFormat
	lastPayload *port.ExportPayload
}

func (m *mockExporter) Format() port.ExportFormat {
	return m.format
}

func (m *mockExporter) Export(ctx context.Context, payload *port.ExportPayload) ([]byte, error) {
	m.lastPayload = payload
	return []byte("rendered " + payload.DocumentNumber), nil
}

type mockStorage struct {
	saved map[string][]byte
}

func (m *mockStorage) Save(ctx context.Context, path string, content []byte) error {
	if m.saved == nil {
		m.saved = map[string][]byte{}
	}
	m.saved[path] = content
	return nil
}

func (m *mockStorage) Read(ctx context.Context, path string) ([]byte, error) {
	data, ok := m.saved[path]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return data, nil
}

func (m *mockStorage) Exists(ctx context.Context, path string) bool {
	_, ok := m.saved[path]
	return ok
}

func (m *mockStorage) Delete(ctx context.Context, path string) error {
	delete(m.saved, path)
	return nil
}

func (m *mockStorage) GetFullPath(relativePath string) string {
	return "/tmp/" + relativePath
}

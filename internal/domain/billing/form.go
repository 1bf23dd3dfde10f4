package billing

import (
	"context"
	"sync"
	"time"

	"github.com/techvibe/backoffice/internal/domain/entity"
)

// FormState is the lifecycle position of a document form
type FormState string

const (
	FormNew        FormState = "new"
	FormEditing    FormState = "editing"
	FormSubmitting FormState = "submitting"
	FormPersisted  FormState = "persisted"
	FormFailed     FormState = "failed"
)

// Submitter persists the document built from a form and returns the stored version
type Submitter interface {
	Save(ctx context.Context, doc *entity.Document) (*entity.Document, error)
}

// SubmitterFunc adapts a function to Submitter
type SubmitterFunc func(ctx context.Context, doc *entity.Document) (*entity.Document, error)

// Save calls f
func (f SubmitterFunc) Save(ctx context.Context, doc *entity.Document) (*entity.Document, error) {
	return f(ctx, doc)
}

// Notifier receives the user-facing message of a failed submission
type Notifier interface {
	NotifyFailure(message string)
}

// Form holds the editable state of one invoice or quotation
type Form struct {
	mu       sync.Mutex
	state    FormState
	notifier Notifier

	kind     entity.DocumentKind
	id       int64
	number   string
	version  int
	clientID *int64
	snapshot entity.ClientSnapshot

	issueDate time.Time
	dueDate   *time.Time
	status    entity.DocumentStatus
	taxRate   float64
	discount  float64
	notes     string
	terms     string

	editor *Editor
}

// NewForm starts an empty form with one default line item
func NewForm(kind entity.DocumentKind, notifier Notifier) *Form {
	return &Form{
		state:     FormNew,
		notifier:  notifier,
		kind:      kind,
		issueDate: time.Now().UTC().Truncate(24 * time.Hour),
		status:    kind.DefaultStatus(),
		editor:    NewEditor(nil),
	}
}

// LoadForm starts a form in editing state from a stored document
func LoadForm(doc *entity.Document, notifier Notifier) *Form {
	f := &Form{
		state:     FormEditing,
		notifier:  notifier,
		kind:      doc.Kind,
		id:        doc.ID,
		number:    doc.Number,
		version:   doc.Version,
		clientID:  doc.ClientID,
		snapshot:  doc.ClientSnapshot,
		issueDate: doc.IssueDate,
		dueDate:   doc.DueDate,
		status:    doc.Status,
		taxRate:   doc.TaxRatePercent,
		discount:  doc.DiscountAmount,
		notes:     doc.Notes,
		terms:     doc.Terms,
		editor:    NewEditor(doc.Items),
	}
	if f.status == "" {
		f.status = f.kind.DefaultStatus()
	}
	return f
}

// State returns the current lifecycle state
func (f *Form) State() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// touch records a user edit; must be called with mu held
func (f *Form) touch() {
	if f.state != FormSubmitting {
		f.state = FormEditing
	}
}

// SelectClient copies the client's contact data over the four snapshot fields.
// Line items and other fields are left alone.
func (f *Form) SelectClient(c *entity.Client) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := c.ID
	f.clientID = &id
	f.snapshot = c.Snapshot()
	f.touch()
}

// ClearClient detaches the client reference but keeps the snapshot text
func (f *Form) ClearClient() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clientID = nil
	f.touch()
}

func (f *Form) SetClientName(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshot.Name = v
	f.touch()
}

func (f *Form) SetClientEmail(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshot.Email = v
	f.touch()
}

func (f *Form) SetClientPhone(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshot.Phone = v
	f.touch()
}

func (f *Form) SetClientAddress(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshot.Address = v
	f.touch()
}

func (f *Form) SetIssueDate(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.issueDate = t
	f.touch()
}

// SetDueDate sets the due date (invoices) or valid-until date (quotations)
func (f *Form) SetDueDate(t *time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dueDate = t
	f.touch()
}

// SetStatus accepts any status of the form's kind, from any current status
func (f *Form) SetStatus(status entity.DocumentStatus) error {
	if !f.kind.AllowsStatus(status) {
		return entity.ErrInvalidStatus
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
	f.touch()
	return nil
}

func (f *Form) SetTaxRate(percent float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.taxRate = percent
	f.touch()
}

func (f *Form) SetDiscount(amount float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.discount = amount
	f.touch()
}

func (f *Form) SetNotes(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notes = v
	f.touch()
}

func (f *Form) SetTerms(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.terms = v
	f.touch()
}

// SetVersion overrides the optimistic lock version the next save is checked against
func (f *Form) SetVersion(v int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.version = v
}

// AddItem appends a default line item
func (f *Form) AddItem() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.editor.AddItem()
	f.touch()
}

// RemoveItem removes a line item, keeping at least one
func (f *Form) RemoveItem(index int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.editor.RemoveItem(index); err != nil {
		return err
	}
	f.touch()
	return nil
}

// UpdateItem edits one field of a line item
func (f *Form) UpdateItem(index int, field ItemField, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.editor.UpdateItem(index, field, value); err != nil {
		return err
	}
	f.touch()
	return nil
}

// SetItems replaces every line item
func (f *Form) SetItems(items []entity.LineItem) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.editor.SetItems(items)
	f.touch()
}

// Items returns the current line items
func (f *Form) Items() []entity.LineItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.editor.Items()
}

// Totals recomputes the totals from the current items
func (f *Form) Totals() entity.Totals {
	f.mu.Lock()
	defer f.mu.Unlock()
	return CalculateTotals(f.editor.Items(), f.taxRate, f.discount)
}

// Document builds the document the form currently describes
func (f *Form) Document() *entity.Document {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.buildDocument()
}

func (f *Form) buildDocument() *entity.Document {
	items := append([]entity.LineItem(nil), f.editor.Items()...)
	doc := &entity.Document{
		ID:             f.id,
		Kind:           f.kind,
		Number:         f.number,
		ClientID:       f.clientID,
		ClientSnapshot: f.snapshot,
		IssueDate:      f.issueDate,
		DueDate:        f.dueDate,
		Status:         f.status,
		TaxRatePercent: f.taxRate,
		DiscountAmount: f.discount,
		Notes:          f.notes,
		Terms:          f.terms,
		Items:          items,
		Version:        f.version,
	}
	ApplyTotals(doc)
	return doc
}

// Submit saves the form through the submitter.
// A second call while a save is running returns ErrSubmitInProgress.
// On failure every entered value is kept and the notifier receives the raw error message once.
func (f *Form) Submit(ctx context.Context, submitter Submitter) (*entity.Document, error) {
	f.mu.Lock()
	if f.state == FormSubmitting {
		f.mu.Unlock()
		return nil, ErrSubmitInProgress
	}
	f.state = FormSubmitting
	doc := f.buildDocument()
	f.mu.Unlock()

	saved, err := submitter.Save(ctx, doc)

	f.mu.Lock()
	if err != nil {
		f.state = FormFailed
		f.mu.Unlock()
		if f.notifier != nil {
			f.notifier.NotifyFailure(err.Error())
		}
		return nil, err
	}

	f.state = FormPersisted
	f.id = saved.ID
	f.number = saved.Number
	f.version = saved.Version
	f.mu.Unlock()

	return saved, nil
}

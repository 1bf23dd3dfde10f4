package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techvibe/backoffice/internal/application/port"
	"github.com/techvibe/backoffice/internal/domain/entity"
)

func TestClientService_CreateAndSearch(t *testing.T) {
	repo := &mockClientRepo{}
	svc := NewClientService(repo, &mockLogger{})
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, &entity.Client{Name: "Acme", Email: "ap@acme.test", Company: "Acme Ltd"}))
	require.NoError(t, svc.Create(ctx, &entity.Client{Name: "Globex", Company: "Globex Corp"}))

	assert.ErrorIs(t, svc.Create(ctx, &entity.Client{Name: ""}), entity.ErrInvalidInput)
	assert.ErrorIs(t, svc.Create(ctx, &entity.Client{Name: "Bad", Email: "bad"}), entity.ErrInvalidInput)

	res, err := svc.Search(ctx, "CORP")
	require.NoError(t, err)
	require.Len(t, res.Matches, 1)
	assert.Equal(t, "Globex", res.Matches[0].Name)
	assert.False(t, res.CanCreate)

	res, err = svc.Search(ctx, "initech")
	require.NoError(t, err)
	assert.Empty(t, res.Matches)
	assert.True(t, res.CanCreate)
}

func TestPaymentService_RecordAndBalance(t *testing.T) {
	docRepo := &mockDocumentRepo{
		getByIDFunc: func(ctx context.Context, kind entity.DocumentKind, id int64) (*entity.Document, error) {
			if id != 1 {
				return nil, entity.ErrNotFound
			}
			return &entity.Document{ID: 1, Kind: kind, Status: entity.StatusSent, TaxRatePercent: 10}, nil
		},
	}
	itemRepo := &mockLineItemRepo{
		listByDocumentFunc: func(ctx context.Context, kind entity.DocumentKind, documentID int64) ([]entity.LineItem, error) {
			return []entity.LineItem{{Quantity: 2, UnitPrice: 500}}, nil
		},
	}
	docs, _ := newTestDocumentService(docRepo, itemRepo, nil)
	repo := &mockPaymentRepo{}
	svc := NewPaymentService(repo, docs, nil, &mockLogger{})
	ctx := context.Background()

	require.NoError(t, svc.Record(ctx, &entity.Payment{InvoiceID: 1, Amount: 300, Method: entity.PaymentMethodBkash}))
	require.NoError(t, svc.Record(ctx, &entity.Payment{InvoiceID: 1, Amount: 200}))
	assert.Equal(t, entity.PaymentMethodOther, repo.payments[1].Method)

	bal, err := svc.Balance(ctx, 1)
	require.NoError(t, err)
	assert.InDelta(t, 1100, bal.Total, 1e-9)
	assert.InDelta(t, 500, bal.Paid, 1e-9)
	assert.InDelta(t, 600, bal.Outstanding, 1e-9)

	assert.ErrorIs(t, svc.Record(ctx, &entity.Payment{InvoiceID: 1, Amount: 0}), entity.ErrInvalidInput)
	assert.ErrorIs(t, svc.Record(ctx, &entity.Payment{InvoiceID: 1, Amount: 5, Method: "cheque"}), entity.ErrInvalidInput)
	assert.ErrorIs(t, svc.Record(ctx, &entity.Payment{InvoiceID: 9, Amount: 5}), entity.ErrNotFound)
}

func TestTranslationService(t *testing.T) {
	ctx := context.Background()

	disabled := NewTranslationService(nil, &mockLogger{})
	assert.False(t, disabled.Enabled())
	_, err := disabled.Translate(ctx, "Hello", entity.LangEnglish, entity.LangBengali)
	assert.ErrorIs(t, err, entity.ErrTranslatorDisabled)

	svc := NewTranslationService(&mockTranslator{}, &mockLogger{})
	en, bn, err := svc.FillMissing(ctx, "Web development", "")
	require.NoError(t, err)
	assert.Equal(t, "Web development", en)
	assert.Equal(t, "[bn] Web development", bn)

	en, bn, err = svc.FillMissing(ctx, "", "ওয়েব")
	require.NoError(t, err)
	assert.Equal(t, "[en] ওয়েব", en)
	assert.Equal(t, "ওয়েব", bn)

	en, bn, err = svc.FillMissing(ctx, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, "a", en)
	assert.Equal(t, "b", bn)

	failing := NewTranslationService(&mockTranslator{
		translateFunc: func(ctx context.Context, text string, from, to entity.Lang) (string, error) {
			return "", errors.New("rate limited")
		},
	}, &mockLogger{})
	_, err = failing.Translate(ctx, "Hello", entity.LangEnglish, entity.LangBengali)
	assert.ErrorContains(t, err, "rate limited")
}

func TestCatalogService_PublicProjections(t *testing.T) {
	products := &mockProductRepo{items: []*entity.Product{
		{ID: 1, NameEN: "Hosting", NameBN: "হোস্টিং", Price: 50, Active: true},
	}}
	services := &mockServiceRepo{items: []*entity.Service{
		{ID: 2, TitleEN: "Apps", Icon: "hologram", Active: true},
	}}
	svc := NewCatalogService(products, services, &mockLogger{})
	ctx := context.Background()

	ps, err := svc.PublicProducts(ctx, entity.LangBengali)
	require.NoError(t, err)
	require.Len(t, ps, 1)
	assert.Equal(t, "হোস্টিং", ps[0].Name)
	assert.True(t, products.lastActiveOnly)

	ss, err := svc.PublicServices(ctx, entity.LangBengali)
	require.NoError(t, err)
	require.Len(t, ss, 1)
	assert.Equal(t, "Apps", ss[0].Title, "falls back to English")
	assert.Equal(t, entity.IconDefault, ss[0].Icon)

	assert.ErrorIs(t, svc.CreateProduct(ctx, &entity.Product{NameEN: "x", Price: -1}), entity.ErrInvalidInput)
	assert.ErrorIs(t, svc.CreateService(ctx, &entity.Service{}), entity.ErrInvalidInput)
}

type mockProductRepo struct {
	items          []*entity.Product
	lastActiveOnly bool
}

func (m *mockProductRepo) Create(ctx context.Context, p *entity.Product) error {
	m.items = append(m.items, p)
	return nil
}
func (m *mockProductRepo) Update(ctx context.Context, p *entity.Product) error { return nil }
func (m *mockProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	return nil, entity.ErrNotFound
}
func (m *mockProductRepo) List(ctx context.Context, activeOnly bool) ([]*entity.Product, error) {
	m.lastActiveOnly = activeOnly
	return m.items, nil
}
func (m *mockProductRepo) Delete(ctx context.Context, id int64) error { return nil }

type mockServiceRepo struct {
	items []*entity.Service
}

func (m *mockServiceRepo) Create(ctx context.Context, s *entity.Service) error {
	m.items = append(m.items, s)
	return nil
}
func (m *mockServiceRepo) Update(ctx context.Context, s *entity.Service) error { return nil }
func (m *mockServiceRepo) GetByID(ctx context.Context, id int64) (*entity.Service, error) {
	return nil, entity.ErrNotFound
}
func (m *mockServiceRepo) List(ctx context.Context, activeOnly bool) ([]*entity.Service, error) {
	return m.items, nil
}
func (m *mockServiceRepo) Delete(ctx context.Context, id int64) error { return nil }

func TestExportService_Export(t *testing.T) {
	store := newMemoryDocs()
	docRepo, itemRepo := store.repos()
	docs, _ := newTestDocumentService(docRepo, itemRepo, nil)
	ctx := context.Background()

	saved, err := docs.Save(ctx, sampleQuotation())
	require.NoError(t, err)

	pdf := &mockExporter{format: port.ExportPDF}
	storage := &mockStorage{}
	info := NewBusinessInfoService(newBusinessInfoRepo(), nil, &mockLogger{})
	svc := NewExportService(docs, info, []port.DocumentExporter{pdf}, storage, "https://techvibe.test/verify/", &mockLogger{})

	assert.Equal(t, []port.ExportFormat{port.ExportPDF}, svc.Formats())

	res, err := svc.Export(ctx, entity.KindQuotation, saved.ID, port.ExportPDF)
	require.NoError(t, err)

	assert.Equal(t, "QUO-0001.pdf", res.Filename)
	assert.Equal(t, "application/pdf", res.ContentType)
	assert.Equal(t, "exports/quotation/QUO-0001.pdf", res.ArchivePath)
	assert.Equal(t, []byte("rendered QUO-0001"), storage.saved[res.ArchivePath])

	p := pdf.lastPayload
	require.NotNil(t, p)
	assert.Equal(t, "quotation", p.DocumentType)
	assert.Equal(t, "Acme", p.ClientName)
	assert.Equal(t, "TechVibe", p.CompanyName)
	assert.Equal(t, "https://techvibe.test/verify/quotation/QUO-0001", p.VerifyURL)
	assert.InDelta(t, 2525, p.Total, 1e-9)
	require.Len(t, p.Items, 2)
	assert.InDelta(t, 500, p.Items[1].Amount, 1e-9)

	_, err = svc.Export(ctx, entity.KindQuotation, saved.ID, port.ExportXLSX)
	assert.ErrorIs(t, err, entity.ErrInvalidInput)
}

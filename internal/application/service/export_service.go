package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/techvibe/backoffice/internal/application/port"
	"github.com/techvibe/backoffice/internal/domain/entity"
)

// ExportResult is a rendered document file
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
	// ArchivePath is relative to the storage root; empty when archiving is off or failed
	ArchivePath string
}

// ExportService renders documents through the registered exporters
type ExportService interface {
	Export(ctx context.Context, kind entity.DocumentKind, id int64, format port.ExportFormat) (*ExportResult, error)
	Formats() []port.ExportFormat
}

type exportServiceImpl struct {
	documents     DocumentService
	businessInfo  BusinessInfoService
	exporters     map[port.ExportFormat]port.DocumentExporter
	storage       port.FileStorage
	verifyBaseURL string
	logger        Logger
}

// NewExportService creates a new ExportService. storage may be nil to skip archiving.
func NewExportService(
	documents DocumentService,
	businessInfo BusinessInfoService,
	exporters []port.DocumentExporter,
	storage port.FileStorage,
	verifyBaseURL string,
	logger Logger,
) ExportService {
	byFormat := make(map[port.ExportFormat]port.DocumentExporter, len(exporters))
	for _, e := range exporters {
		byFormat[e.Format()] = e
	}
	return &exportServiceImpl{
		documents:     documents,
		businessInfo:  businessInfo,
		exporters:     byFormat,
		storage:       storage,
		verifyBaseURL: strings.TrimRight(verifyBaseURL, "/"),
		logger:        logger,
	}
}

func (s *exportServiceImpl) Formats() []port.ExportFormat {
	out := make([]port.ExportFormat, 0, len(s.exporters))
	for _, f := range []port.ExportFormat{port.ExportPDF, port.ExportXLSX} {
		if _, ok := s.exporters[f]; ok {
			out = append(out, f)
		}
	}
	return out
}

// Export flattens the stored document, renders it and archives the file under
// exports/<kind>/<number>.<ext>
func (s *exportServiceImpl) Export(ctx context.Context, kind entity.DocumentKind, id int64, format port.ExportFormat) (*ExportResult, error) {
	exporter, ok := s.exporters[format]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported export format %q", entity.ErrInvalidInput, format)
	}

	doc, err := s.documents.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	var info *entity.BusinessInfo
	if s.businessInfo != nil {
		info, err = s.businessInfo.Get(ctx)
		if err != nil {
			s.logger.Error("Business info unavailable for export header", "error", err)
		}
	}

	payload := BuildExportPayload(doc, info)
	if s.verifyBaseURL != "" {
		payload.VerifyURL = fmt.Sprintf("%s/%s/%s", s.verifyBaseURL, doc.Kind, doc.Number)
	}

	data, err := exporter.Export(ctx, payload)
	if err != nil {
		s.logger.Error("Export failed", "kind", kind, "id", id, "format", format, "error", err)
		return nil, fmt.Errorf("export %s: %w", format, err)
	}

	result := &ExportResult{
		Filename:    fmt.Sprintf("%s.%s", doc.Number, format.Extension()),
		ContentType: format.ContentType(),
		Data:        data,
	}

	if s.storage != nil {
		path := fmt.Sprintf("exports/%s/%s", doc.Kind, result.Filename)
		if err := s.storage.Save(ctx, path, data); err != nil {
			s.logger.Error("Failed to archive export", "path", path, "error", err)
		} else {
			result.ArchivePath = path
		}
	}

	s.logger.Info("Document exported", "kind", kind, "number", doc.Number, "format", format, "bytes", len(data))
	return result, nil
}

// BuildExportPayload flattens a document and the issuer header into the exporter input
func BuildExportPayload(doc *entity.Document, info *entity.BusinessInfo) *port.ExportPayload {
	items := make([]port.ExportItem, len(doc.Items))
	for i, item := range doc.Items {
		items[i] = port.ExportItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount(),
		}
	}

	payload := &port.ExportPayload{
		DocumentNumber: doc.Number,
		DocumentType:   string(doc.Kind),
		ClientName:     doc.Name,
		ClientEmail:    doc.Email,
		ClientPhone:    doc.Phone,
		ClientAddress:  doc.Address,
		IssueDate:      doc.IssueDate,
		DueDate:        doc.DueDate,
		Items:          items,
		Subtotal:       doc.Subtotal,
		TaxRate:        doc.TaxRatePercent,
		TaxAmount:      doc.TaxAmount,
		DiscountAmount: doc.DiscountAmount,
		Total:          doc.Total,
		Notes:          doc.Notes,
		Terms:          doc.Terms,
		Status:         string(doc.Status),
	}

	if info != nil {
		payload.CompanyName = info.CompanyNameEN
		payload.CompanyEmail = info.Email
		payload.CompanyPhone = info.Phone
		payload.CompanyAddress = info.AddressEN
	}
	return payload
}

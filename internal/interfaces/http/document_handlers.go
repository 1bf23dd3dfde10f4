package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/techvibe/backoffice/internal/application/port"
	"github.com/techvibe/backoffice/internal/domain/billing"
	"github.com/techvibe/backoffice/internal/domain/entity"
)

const dateLayout = "2006-01-02"

// documentRequest is the full-document body for create and update.
// Pointer fields are optional; on update an absent field keeps its stored value.
type documentRequest struct {
	ClientID      *int64            `json:"client_id"`
	ClientName    *string           `json:"client_name"`
	ClientEmail   *string           `json:"client_email"`
	ClientPhone   *string           `json:"client_phone"`
	ClientAddress *string           `json:"client_address"`
	IssueDate     *string           `json:"issue_date"`
	DueDate       *string           `json:"due_date"`
	Status        *string           `json:"status"`
	TaxRate       *float64          `json:"tax_rate"`
	Discount      *float64          `json:"discount_amount"`
	Notes         *string           `json:"notes"`
	Terms         *string           `json:"terms"`
	Items         []entity.LineItem `json:"items"`
	Version       *int              `json:"version"`
}

type itemEditRequest struct {
	Field   string `json:"field" binding:"required"`
	Value   string `json:"value"`
	Version *int   `json:"version"`
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// documentHandlers serves one document kind
type documentHandlers struct {
	h    *Handlers
	kind entity.DocumentKind
}

func (h *Handlers) documentHandlers(kind entity.DocumentKind) documentHandlers {
	return documentHandlers{h: h, kind: kind}
}

// formNotifier receives the single failure message of a form submission
type formNotifier struct {
	logger Logger
	kind   entity.DocumentKind
}

func (n formNotifier) NotifyFailure(message string) {
	n.logger.Error("Document save failed", "kind", n.kind, "message", message)
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", entity.ErrInvalidInput, s)
	}
	return t.UTC(), nil
}

// apply copies the request onto the form: client selection first, then
// manual snapshot edits so they win over the selected client's data.
func (d documentHandlers) apply(c *gin.Context, form *billing.Form, current *int64, req *documentRequest) error {
	if req.ClientID != nil {
		switch {
		case *req.ClientID == 0:
			form.ClearClient()
		case current == nil || *current != *req.ClientID:
			client, err := d.h.Clients.Get(c.Request.Context(), *req.ClientID)
			if err != nil {
				return err
			}
			form.SelectClient(client)
		}
	}

	if req.ClientName != nil {
		form.SetClientName(*req.ClientName)
	}
	if req.ClientEmail != nil {
		form.SetClientEmail(*req.ClientEmail)
	}
	if req.ClientPhone != nil {
		form.SetClientPhone(*req.ClientPhone)
	}
	if req.ClientAddress != nil {
		form.SetClientAddress(*req.ClientAddress)
	}

	if req.IssueDate != nil {
		t, err := parseDate(*req.IssueDate)
		if err != nil {
			return err
		}
		form.SetIssueDate(t)
	}
	if req.DueDate != nil {
		if *req.DueDate == "" {
			form.SetDueDate(nil)
		} else {
			t, err := parseDate(*req.DueDate)
			if err != nil {
				return err
			}
			form.SetDueDate(&t)
		}
	}
	if req.Status != nil {
		if err := form.SetStatus(entity.DocumentStatus(*req.Status)); err != nil {
			return err
		}
	}
	if req.TaxRate != nil {
		form.SetTaxRate(*req.TaxRate)
	}
	if req.Discount != nil {
		form.SetDiscount(*req.Discount)
	}
	if req.Notes != nil {
		form.SetNotes(*req.Notes)
	}
	if req.Terms != nil {
		form.SetTerms(*req.Terms)
	}
	if req.Items != nil {
		form.SetItems(req.Items)
	}
	if req.Version != nil {
		form.SetVersion(*req.Version)
	}
	return nil
}

func (d documentHandlers) list(c *gin.Context) {
	filter := entity.DocumentFilter{
		Status: entity.DocumentStatus(c.Query("status")),
	}
	if v := c.Query("client_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			respondBadRequest(c, "invalid client_id")
			return
		}
		filter.ClientID = &id
	}
	if v := c.Query("due_before"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			respondError(c, err)
			return
		}
		filter.DueBefore = &t
	}
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	docs, err := d.h.Documents.List(c.Request.Context(), d.kind, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, docs)
}

func (d documentHandlers) get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	doc, err := d.h.Documents.Get(c.Request.Context(), d.kind, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, doc)
}

func (d documentHandlers) nextNumber(c *gin.Context) {
	number, err := d.h.Documents.NextNumber(c.Request.Context(), d.kind)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"number": number})
}

func (d documentHandlers) create(c *gin.Context) {
	var req documentRequest
	if !bindJSON(c, &req) {
		return
	}

	form := billing.NewForm(d.kind, formNotifier{logger: d.h.logger, kind: d.kind})
	if err := d.apply(c, form, nil, &req); err != nil {
		respondError(c, err)
		return
	}

	saved, err := form.Submit(c.Request.Context(), d.h.Documents)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, saved)
}

func (d documentHandlers) update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req documentRequest
	if !bindJSON(c, &req) {
		return
	}

	stored, err := d.h.Documents.Get(c.Request.Context(), d.kind, id)
	if err != nil {
		respondError(c, err)
		return
	}

	form := billing.LoadForm(stored, formNotifier{logger: d.h.logger, kind: d.kind})
	if err := d.apply(c, form, stored.ClientID, &req); err != nil {
		respondError(c, err)
		return
	}

	saved, err := form.Submit(c.Request.Context(), d.h.Documents)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, saved)
}

// updateItem edits one field of one line item and saves the document
func (d documentHandlers) updateItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		respondBadRequest(c, "invalid index")
		return
	}
	var req itemEditRequest
	if !bindJSON(c, &req) {
		return
	}
	field, err := billing.ParseItemField(req.Field)
	if err != nil {
		respondError(c, err)
		return
	}

	stored, err := d.h.Documents.Get(c.Request.Context(), d.kind, id)
	if err != nil {
		respondError(c, err)
		return
	}

	form := billing.LoadForm(stored, formNotifier{logger: d.h.logger, kind: d.kind})
	if req.Version != nil {
		form.SetVersion(*req.Version)
	}
	if err := form.UpdateItem(index, field, req.Value); err != nil {
		respondError(c, err)
		return
	}

	saved, err := form.Submit(c.Request.Context(), d.h.Documents)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, saved)
}

func (d documentHandlers) setStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req statusRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := d.h.Documents.SetStatus(c.Request.Context(), d.kind, id, entity.DocumentStatus(req.Status)); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"id": id, "status": req.Status})
}

func (d documentHandlers) delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := d.h.Documents.Delete(c.Request.Context(), d.kind, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// export streams the rendered file as an attachment
func (d documentHandlers) export(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	format := port.ExportFormat(c.DefaultQuery("format", string(port.ExportPDF)))

	res, err := d.h.Exports.Export(c.Request.Context(), d.kind, id, format)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, res.Filename))
	c.Data(http.StatusOK, res.ContentType, res.Data)
}

// ConvertQuotation handles POST /api/v1/admin/quotations/:id/convert
func (h *Handlers) ConvertQuotation(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	invoice, err := h.Documents.ConvertQuotation(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, invoice)
}

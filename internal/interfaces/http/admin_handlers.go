package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/techvibe/backoffice/internal/domain/entity"
)

// --- Clients ---

func (h *Handlers) ListClients(c *gin.Context) {
	clients, err := h.Clients.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, clients)
}

// SearchClients runs the client picker over all clients
func (h *Handlers) SearchClients(c *gin.Context) {
	res, err := h.Clients.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"matches": res.Matches, "can_create": res.CanCreate})
}

func (h *Handlers) GetClient(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	client, err := h.Clients.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, client)
}

func (h *Handlers) CreateClient(c *gin.Context) {
	var client entity.Client
	if !bindJSON(c, &client) {
		return
	}
	client.ID = 0
	if err := h.Clients.Create(c.Request.Context(), &client); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, client)
}

func (h *Handlers) UpdateClient(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var client entity.Client
	if !bindJSON(c, &client) {
		return
	}
	client.ID = id
	if err := h.Clients.Update(c.Request.Context(), &client); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, client)
}

func (h *Handlers) DeleteClient(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Clients.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Payments ---

func (h *Handlers) ListPayments(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	payments, err := h.Payments.ListByInvoice(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, payments)
}

func (h *Handlers) RecordPayment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var p entity.Payment
	if !bindJSON(c, &p) {
		return
	}
	p.ID = 0
	p.InvoiceID = id
	if err := h.Payments.Record(c.Request.Context(), &p); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, p)
}

func (h *Handlers) InvoiceBalance(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	bal, err := h.Payments.Balance(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, bal)
}

func (h *Handlers) DeletePayment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Payments.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Leads ---

// leadKindFromRoute accepts the route segment or the stored kind name
func leadKindFromRoute(s string) (entity.LeadKind, error) {
	switch s {
	case "contacts", "contact":
		return entity.LeadContact, nil
	case "quote-requests", "quote_request":
		return entity.LeadQuote, nil
	case "meeting-requests", "meeting_request":
		return entity.LeadMeeting, nil
	}
	return "", fmt.Errorf("%w: unknown lead kind %q", entity.ErrInvalidInput, s)
}

func (h *Handlers) ListLeads(c *gin.Context) {
	kind, err := leadKindFromRoute(c.Param("kind"))
	if err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	var out interface{}
	switch kind {
	case entity.LeadContact:
		out, err = h.Leads.ListContacts(ctx)
	case entity.LeadQuote:
		out, err = h.Leads.ListQuoteRequests(ctx)
	case entity.LeadMeeting:
		out, err = h.Leads.ListMeetingRequests(ctx)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, out)
}

func (h *Handlers) SetLeadStatus(c *gin.Context) {
	kind, err := leadKindFromRoute(c.Param("kind"))
	if err != nil {
		respondError(c, err)
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req statusRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.Leads.SetStatus(c.Request.Context(), kind, id, req.Status); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"id": id, "status": req.Status})
}

func (h *Handlers) DeleteLead(c *gin.Context) {
	kind, err := leadKindFromRoute(c.Param("kind"))
	if err != nil {
		respondError(c, err)
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Leads.Delete(c.Request.Context(), kind, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Catalog ---

func activeOnly(c *gin.Context) bool {
	v, _ := strconv.ParseBool(c.DefaultQuery("active", "false"))
	return v
}

func (h *Handlers) ListProducts(c *gin.Context) {
	products, err := h.Catalog.ListProducts(c.Request.Context(), activeOnly(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, products)
}

func (h *Handlers) GetProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	p, err := h.Catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, p)
}

func (h *Handlers) CreateProduct(c *gin.Context) {
	var p entity.Product
	if !bindJSON(c, &p) {
		return
	}
	p.ID = 0
	if err := h.Catalog.CreateProduct(c.Request.Context(), &p); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, p)
}

func (h *Handlers) UpdateProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var p entity.Product
	if !bindJSON(c, &p) {
		return
	}
	p.ID = id
	if err := h.Catalog.UpdateProduct(c.Request.Context(), &p); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, p)
}

func (h *Handlers) DeleteProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Catalog.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handlers) ListServices(c *gin.Context) {
	services, err := h.Catalog.ListServices(c.Request.Context(), activeOnly(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, services)
}

func (h *Handlers) GetService(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	s, err := h.Catalog.GetService(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, s)
}

func (h *Handlers) CreateService(c *gin.Context) {
	var s entity.Service
	if !bindJSON(c, &s) {
		return
	}
	s.ID = 0
	if err := h.Catalog.CreateService(c.Request.Context(), &s); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, s)
}

func (h *Handlers) UpdateService(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var s entity.Service
	if !bindJSON(c, &s) {
		return
	}
	s.ID = id
	if err := h.Catalog.UpdateService(c.Request.Context(), &s); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, s)
}

func (h *Handlers) DeleteService(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Catalog.DeleteService(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Business info ---

func (h *Handlers) GetBusinessInfo(c *gin.Context) {
	info, err := h.BusinessInfo.Get(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, info)
}

func (h *Handlers) UpdateBusinessInfo(c *gin.Context) {
	var info entity.BusinessInfo
	if !bindJSON(c, &info) {
		return
	}
	if err := h.BusinessInfo.Update(c.Request.Context(), &info); err != nil {
		respondError(c, err)
		return
	}
	h.GetBusinessInfo(c)
}

// --- Translation ---

// translateRequest either translates Text between From and To, or fills
// whichever of EN/BN is empty from the other.
type translateRequest struct {
	Text string `json:"text"`
	From string `json:"from"`
	To   string `json:"to"`
	EN   string `json:"en"`
	BN   string `json:"bn"`
}

func (h *Handlers) Translate(c *gin.Context) {
	var req translateRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()

	if req.Text != "" {
		from, okFrom := parseLang(req.From)
		to, okTo := parseLang(req.To)
		if !okFrom || !okTo {
			respondBadRequest(c, "from and to must be en or bn")
			return
		}
		out, err := h.Translation.Translate(ctx, req.Text, from, to)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusOK, gin.H{"text": out, "lang": to})
		return
	}

	en, bn, err := h.Translation.FillMissing(ctx, req.EN, req.BN)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"en": en, "bn": bn})
}

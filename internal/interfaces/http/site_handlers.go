package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/techvibe/backoffice/internal/domain/entity"
)

func (h *Handlers) SiteBusinessInfo(c *gin.Context) {
	info, err := h.BusinessInfo.Localized(c.Request.Context(), langFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, info)
}

func (h *Handlers) SiteServices(c *gin.Context) {
	services, err := h.Catalog.PublicServices(c.Request.Context(), langFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, services)
}

func (h *Handlers) SiteProducts(c *gin.Context) {
	products, err := h.Catalog.PublicProducts(c.Request.Context(), langFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, products)
}

// Public form submissions return only the new id

func (h *Handlers) SubmitContact(c *gin.Context) {
	var s entity.ContactSubmission
	if !bindJSON(c, &s) {
		return
	}
	s.ID = 0
	if err := h.Leads.SubmitContact(c.Request.Context(), &s); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, gin.H{"id": s.ID})
}

func (h *Handlers) SubmitQuoteRequest(c *gin.Context) {
	var r entity.QuoteRequest
	if !bindJSON(c, &r) {
		return
	}
	r.ID = 0
	if err := h.Leads.SubmitQuoteRequest(c.Request.Context(), &r); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, gin.H{"id": r.ID})
}

func (h *Handlers) SubmitMeetingRequest(c *gin.Context) {
	var r entity.MeetingRequest
	if !bindJSON(c, &r) {
		return
	}
	r.ID = 0
	if err := h.Leads.SubmitMeetingRequest(c.Request.Context(), &r); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, gin.H{"id": r.ID})
}

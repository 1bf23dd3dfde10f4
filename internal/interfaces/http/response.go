package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/techvibe/backoffice/internal/domain/billing"
	"github.com/techvibe/backoffice/internal/domain/entity"
)

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func respondOK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{Success: true, Data: data})
}

// respondError writes the raw error message so the admin UI can show it as-is
func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), Response{Success: false, Error: err.Error()})
}

func respondBadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{Success: false, Error: msg})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrVersionConflict),
		errors.Is(err, billing.ErrSubmitInProgress):
		return http.StatusConflict
	case errors.Is(err, entity.ErrInvalidInput),
		errors.Is(err, entity.ErrInvalidStatus),
		errors.Is(err, entity.ErrInvalidKind),
		errors.Is(err, billing.ErrItemIndexOutOfRange),
		errors.Is(err, billing.ErrUnknownItemField),
		errors.Is(err, billing.ErrInvalidNumber):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrTranslatorDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// paramID parses a positive integer path parameter, writing a 400 on failure
func paramID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respondBadRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}

// bindJSON decodes the body, writing a 400 on failure
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return false
	}
	return true
}

package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/jwhitmore/portfolio-backend/errors"
	"github.com/jwhitmore/portfolio-backend/internal/store"
	"github.com/jwhitmore/portfolio-backend/logger"
	"github.com/jwhitmore/portfolio-backend/types"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

// AdminHandler serves the authenticated message-listing endpoint.
type AdminHandler struct {
	messageStore store.MessageStore
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(messageStore store.MessageStore) *AdminHandler {
	return &AdminHandler{messageStore: messageStore}
}

// ListMessages godoc
// @Summary      List stored contact messages
// @Description  Paginated, newest-first listing of contact submissions
// @Tags         admin
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Page size (default 20, max 100)"
// @Success      200    {object}  types.MessagePage
// @Failure      401    {object}  types.ErrorResponse
// @Failure      403    {object}  types.ErrorResponse
// @Failure      500    {object}  types.ErrorResponse
// @Router       /api/admin/messages [get]
func (h *AdminHandler) ListMessages(c *gin.Context) {
	page := parsePositiveInt(c.Query("page"), defaultPage)
	limit := parsePositiveInt(c.Query("limit"), defaultLimit)
	if limit > maxLimit {
		limit = maxLimit
	}

	offset := (page - 1) * limit

	messages, err := h.messageStore.ListMessages(c.Request.Context(), limit, offset)
	if err != nil {
		logger.Event(logger.EventError, "context", "admin_fetch", "error", err.Error())
		_ = c.Error(apperrors.InternalServerError("Failed to fetch messages"))
		return
	}

	total, err := h.messageStore.CountMessages(c.Request.Context())
	if err != nil {
		logger.Event(logger.EventError, "context", "admin_fetch", "error", err.Error())
		_ = c.Error(apperrors.InternalServerError("Failed to fetch messages"))
		return
	}

	if messages == nil {
		messages = []types.Message{}
	}

	c.JSON(http.StatusOK, types.MessagePage{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + limit - 1) / limit,
		Messages:   messages,
	})
}

// parsePositiveInt parses s as a positive integer, falling back to def for
// missing, non-numeric, or non-positive values so pagination never produces
// an invalid SQL offset.
func parsePositiveInt(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

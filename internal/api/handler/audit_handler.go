package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/storehouse/access-api/internal/core/domain"
	"github.com/storehouse/access-api/internal/core/ports"
)

const defaultTrailLimit = 100

// AuditHandler serves the admin-only read side of the audit trail.
type AuditHandler struct {
	auditService ports.AuditService
}

func NewAuditHandler(auditService ports.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// Trail handles GET /users/:username/audit.
//
// @Summary      List a user's audit trail
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string  true   "Username"
// @Param        limit     query     int     false  "Maximum events returned"
// @Success      200       {array}   domain.AuditEvent
// @Failure      401       {object}  errorResponse
// @Failure      403       {object}  errorResponse
// @Router       /users/{username}/audit [get]
func (h *AuditHandler) Trail(c echo.Context) error {
	limit := defaultTrailLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = n
	}

	events, err := h.auditService.Trail(c.Request().Context(), c.Param("username"), limit)
	if err != nil {
		return err
	}
	if events == nil {
		events = []*domain.AuditEvent{}
	}
	return c.JSON(http.StatusOK, events)
}

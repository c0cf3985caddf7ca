package handler

import (
	"time"

	"payment-gateway-core/internal/adapter/http/dto"
	"payment-gateway-core/internal/admin"
	"payment-gateway-core/internal/adapter/http/middleware"
	"payment-gateway-core/pkg/apperror"
	"payment-gateway-core/pkg/response"

	"github.com/gin-gonic/gin"
)

// AdminHandler exposes the operator-only bulk maintenance surface.
type AdminHandler struct {
	ops *admin.Ops
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(ops *admin.Ops) *AdminHandler {
	return &AdminHandler{ops: ops}
}

// BulkDelete handles POST /api/v1/admin/bulk-delete. The caller must be
// an authenticated operator (middleware.OperatorAuth); the operator ID
// is recorded on the resulting audit entry.
func (h *AdminHandler) BulkDelete(c *gin.Context) {
	operatorIDVal, _ := c.Get(middleware.CtxOperatorID)
	operatorID, _ := operatorIDVal.(string)

	var req dto.BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrValidation(err.Error()))
		return
	}

	olderThan, err := time.Parse(time.RFC3339, req.OlderThan)
	if err != nil {
		response.Error(c, apperror.ErrValidation("olderThan must be RFC3339"))
		return
	}

	result, err := h.ops.BulkDelete(c.Request.Context(), admin.BulkDeleteRequest{
		TeamID:     req.TeamId,
		OlderThan:  olderThan,
		OperatorID: operatorID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.BulkDeleteResponse{DeletedCount: result.DeletedCount})
}

// RegisterTeam handles POST /api/v1/admin/teams. The caller must be an
// authenticated operator; the response carries the new team's signing
// secret in plain text exactly once.
func (h *AdminHandler) RegisterTeam(c *gin.Context) {
	var req dto.RegisterTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrValidation(err.Error()))
		return
	}

	result, err := h.ops.RegisterTeam(c.Request.Context(), admin.RegisterTeamRequest{
		Slug:              req.Slug,
		DashboardPassword: req.DashboardPassword,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.RegisterTeamResponse{
		TeamId:        result.TeamID,
		Slug:          result.Slug,
		SigningSecret: result.SigningSecret,
	})
}

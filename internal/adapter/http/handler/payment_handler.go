package handler

import (
	"context"

	"payment-gateway-core/internal/adapter/http/dto"
	"payment-gateway-core/internal/dispatcher"
	"payment-gateway-core/internal/lifecycle"
	"payment-gateway-core/pkg/apperror"
	"payment-gateway-core/pkg/response"

	"github.com/gin-gonic/gin"
)

// PaymentHandler wires the HTTP surface to the lifecycle engine, routing
// every mutating command through the dispatcher's bounded worker pool
// and leaving the read-only state lookup ungated (lifecycle.Engine.Get
// is not admission-gated either).
type PaymentHandler struct {
	lifecycle *lifecycle.Engine
	dispatch  *dispatcher.Dispatcher
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(lifecycleEngine *lifecycle.Engine, dispatch *dispatcher.Dispatcher) *PaymentHandler {
	return &PaymentHandler{lifecycle: lifecycleEngine, dispatch: dispatch}
}

// enqueueAndWait submits execute to the dispatcher under (teamSlug,
// trackingID) and blocks for the request's context until it completes,
// returning the lifecycle result execute populated.
func (h *PaymentHandler) enqueueAndWait(c *gin.Context, teamSlug, trackingID string, execute func(ctx context.Context) (*lifecycle.Result, error)) (*lifecycle.Result, error) {
	var result *lifecycle.Result
	future, err := h.dispatch.Enqueue(c.Request.Context(), teamSlug, trackingID, func(ctx context.Context) error {
		r, err := execute(ctx)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := future.Wait(c.Request.Context()); err != nil {
		return nil, apperror.ErrInternal(err)
	}
	return result, nil
}

// Init handles POST /api/v1/payments/init.
func (h *PaymentHandler) Init(c *gin.Context) {
	var req dto.InitPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrValidation(err.Error()))
		return
	}

	// No PaymentID exists yet; the external request ID (falling back to
	// the team-scoped order ID) tracks this job in the dispatcher.
	trackingID := req.ExternalRequestId
	if trackingID == "" {
		trackingID = req.TeamSlug + ":" + req.OrderId
	}

	result, err := h.enqueueAndWait(c, req.TeamSlug, trackingID, func(ctx context.Context) (*lifecycle.Result, error) {
		return h.lifecycle.Initialize(ctx, lifecycle.InitializeRequest{
			TeamSlug:          req.TeamSlug,
			OrderID:           req.OrderId,
			Amount:            req.Amount,
			Currency:          req.Currency,
			ExternalRequestID: req.ExternalRequestId,
		})
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.PaymentResponse{
		Success:   true,
		TeamSlug:  req.TeamSlug,
		PaymentId: result.PaymentID,
		OrderId:   req.OrderId,
		Amount:    req.Amount,
		Currency:  req.Currency,
		Status:    string(result.Status),
	})
}

// ShowForm handles POST /api/v1/payments/showform.
func (h *PaymentHandler) ShowForm(c *gin.Context) {
	var req dto.ShowFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrValidation(err.Error()))
		return
	}

	result, err := h.enqueueAndWait(c, req.TeamSlug, req.PaymentId, func(ctx context.Context) (*lifecycle.Result, error) {
		return h.lifecycle.ShowForm(ctx, lifecycle.ShowFormRequest{
			PaymentID:         req.PaymentId,
			TeamSlug:          req.TeamSlug,
			ExternalRequestID: req.ExternalRequestId,
		})
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.PaymentResponse{Success: true, TeamSlug: req.TeamSlug, PaymentId: result.PaymentID, Status: string(result.Status)})
}

// Authorize handles POST /api/v1/payments/authorize.
func (h *PaymentHandler) Authorize(c *gin.Context) {
	var req dto.AuthorizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrValidation(err.Error()))
		return
	}

	result, err := h.enqueueAndWait(c, req.TeamSlug, req.PaymentId, func(ctx context.Context) (*lifecycle.Result, error) {
		return h.lifecycle.Authorize(ctx, lifecycle.AuthorizeRequest{
			PaymentID:         req.PaymentId,
			TeamSlug:          req.TeamSlug,
			CardFingerprint:   req.CardFingerprint,
			ExternalRequestID: req.ExternalRequestId,
		})
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.PaymentResponse{Success: true, TeamSlug: req.TeamSlug, PaymentId: result.PaymentID, Status: string(result.Status)})
}

// Confirm handles POST /api/v1/payments/confirm.
func (h *PaymentHandler) Confirm(c *gin.Context) {
	var req dto.ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrValidation(err.Error()))
		return
	}

	result, err := h.enqueueAndWait(c, req.TeamSlug, req.PaymentId, func(ctx context.Context) (*lifecycle.Result, error) {
		return h.lifecycle.Confirm(ctx, lifecycle.ConfirmRequest{
			PaymentID:         req.PaymentId,
			TeamSlug:          req.TeamSlug,
			ExternalRequestID: req.ExternalRequestId,
		})
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.PaymentResponse{Success: true, TeamSlug: req.TeamSlug, PaymentId: result.PaymentID, Status: string(result.Status)})
}

// Cancel handles POST /api/v1/payments/cancel.
func (h *PaymentHandler) Cancel(c *gin.Context) {
	var req dto.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrValidation(err.Error()))
		return
	}

	result, err := h.enqueueAndWait(c, req.TeamSlug, req.PaymentId, func(ctx context.Context) (*lifecycle.Result, error) {
		return h.lifecycle.Cancel(ctx, lifecycle.CancelRequest{
			PaymentID:         req.PaymentId,
			TeamSlug:          req.TeamSlug,
			Amount:            req.Amount,
			Reason:            req.Reason,
			ExternalRequestID: req.ExternalRequestId,
		})
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.PaymentResponse{Success: true, TeamSlug: req.TeamSlug, PaymentId: result.PaymentID, Status: string(result.Status)})
}

// GetState handles POST /api/v1/payments/state — the PaymentCheck
// signature-quirk call. It is read-only, so it bypasses the dispatcher
// entirely and calls lifecycle.Engine.Get directly.
func (h *PaymentHandler) GetState(c *gin.Context) {
	var req dto.GetStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrValidation(err.Error()))
		return
	}

	payment, err := h.lifecycle.Get(c.Request.Context(), req.PaymentId, req.TeamSlug)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.PaymentResponse{
		Success:   true,
		TeamSlug:  payment.TeamSlug,
		PaymentId: payment.PaymentID,
		OrderId:   payment.OrderID,
		Amount:    payment.Amount,
		Currency:  payment.Currency,
		Status:    string(payment.Status),
	})
}

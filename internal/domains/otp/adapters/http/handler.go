// Package http exposes the one-time code endpoints over gin.
package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/husnhira/storefront/internal/domains/otp/application"
	apierrors "github.com/husnhira/storefront/internal/shared/errors"
)

// Handler serves /send-otp and /verify-otp.
type Handler struct {
	service   *application.Service
	responder *apierrors.ChainedResponder
}

func NewHandler(service *application.Service) *Handler {
	return &Handler{service: service, responder: apierrors.NewChainedResponder(mapError)}
}

func mapError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, application.ErrInvalidMobile):
		return apierrors.ErrBadRequest.WithMsg("Invalid mobile number"), true
	case errors.Is(err, application.ErrInvalidCode):
		return apierrors.ErrBadRequest.WithMsg("Invalid mobile number or OTP"), true
	case errors.Is(err, application.ErrNotRequested):
		return apierrors.ErrBadRequest.WithMsg("OTP not requested"), true
	case errors.Is(err, application.ErrExpired):
		return apierrors.ErrBadRequest.WithMsg("OTP expired"), true
	case errors.Is(err, application.ErrIncorrect):
		return apierrors.ErrUnauthorized.WithMsg("Incorrect OTP"), true
	case errors.Is(err, application.ErrDelivery):
		return apierrors.ErrInternal.WithMsg("Failed to send OTP"), true
	default:
		return apierrors.ProblemDetail{}, false
	}
}

// Register mounts the routes on group.
func (h *Handler) Register(group gin.IRoutes) {
	group.POST("/send-otp", h.SendOTP)
	group.POST("/verify-otp", h.VerifyOTP)
}

type sendRequest struct {
	Mobile string `json:"mobile" form:"mobile"`
}

type verifyRequest struct {
	Mobile string `json:"mobile" form:"mobile"`
	OTP    string `json:"otp" form:"otp"`
}

func (h *Handler) SendOTP(c *gin.Context) {
	var req sendRequest
	if err := c.ShouldBind(&req); err != nil {
		h.responder.RespondError(c, application.ErrInvalidMobile)
		return
	}
	if err := h.service.SendOTP(c.Request.Context(), req.Mobile); err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "OTP sent successfully"})
}

func (h *Handler) VerifyOTP(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBind(&req); err != nil {
		h.responder.RespondError(c, application.ErrInvalidCode)
		return
	}
	if err := h.service.VerifyOTP(c.Request.Context(), req.Mobile, req.OTP); err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "OTP verified successfully"})
}

package controllers

import (
	"io"
	"net/http"

	apperrors "github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/errors"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/logger"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/middleware"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/models"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/services"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/session"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxWebhookBody is the largest event body Stripe sends.
const maxWebhookBody = 65536

type CheckoutController struct {
	checkout services.CheckoutService
}

func NewCheckoutController(checkout services.CheckoutService) *CheckoutController {
	return &CheckoutController{checkout: checkout}
}

// Checkout handles GET /checkout.
func (cc *CheckoutController) Checkout(c *gin.Context) {
	page, svcErr := cc.checkout.Prepare(c.Request.Context(), session.ID(c), middleware.CurrentUser(c))
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, page)
}

// CacheCheckoutData handles POST /checkout/cache_checkout_data.
func (cc *CheckoutController) CacheCheckoutData(c *gin.Context) {
	var req models.CacheCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": apperrors.ErrPaymentUnavailable.Message})
		return
	}
	if svcErr := cc.checkout.CacheCheckoutData(c.Request.Context(), session.ID(c), middleware.CurrentUser(c), req); svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.Status(http.StatusOK)
}

// PlaceOrder handles POST /checkout.
func (cc *CheckoutController) PlaceOrder(c *gin.Context) {
	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	order, svcErr := cc.checkout.PlaceOrder(c.Request.Context(), session.ID(c), req)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order_number": order.OrderNumber})
}

// Success handles GET /checkout/success/:order_number.
func (cc *CheckoutController) Success(c *gin.Context) {
	order, msg, svcErr := cc.checkout.Success(c.Request.Context(), session.ID(c), middleware.CurrentUser(c), c.Param("order_number"))
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order, "message": msg})
}

// Webhook handles POST /checkout/wh. The body must be read raw so the
// signature can be checked.
func (cc *CheckoutController) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody))
	if err != nil {
		logger.Warn(c.Request.Context(), "Failed to read webhook body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid webhook"})
		return
	}

	msg, svcErr := cc.checkout.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/dojo-api/internal/dto"
	"github.com/noah-isme/dojo-api/internal/models"
	"github.com/noah-isme/dojo-api/pkg/response"
)

type paymentService interface {
	CreatePaymentIntent(ctx context.Context, user *models.User, req dto.CreatePaymentIntentRequest) (*models.PaymentIntent, error)
	CreateSubscription(ctx context.Context, user *models.User, req dto.CreateSubscriptionRequest) (*models.SubscriptionCheckout, error)
	PaymentMethods(ctx context.Context, user *models.User) ([]models.PaymentMethod, error)
	Subscription(ctx context.Context, user *models.User) (*models.Subscription, error)
}

// PaymentHandler exposes the payment gateway endpoints.
type PaymentHandler struct {
	service paymentService
}

// NewPaymentHandler constructs a payment handler.
func NewPaymentHandler(svc paymentService) *PaymentHandler {
	return &PaymentHandler{service: svc}
}

// CreatePaymentIntent godoc
// @Summary Start a card payment
// @Tags Payments
// @Accept json
// @Produce json
// @Param payload body dto.CreatePaymentIntentRequest true "Amount in major units"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /create-payment-intent [post]
func (h *PaymentHandler) CreatePaymentIntent(c *gin.Context) {
	user, ok := userFromContext(c)
	if !ok {
		return
	}
	var req dto.CreatePaymentIntentRequest
	if !bindJSON(c, &req) {
		return
	}
	intent, err := h.service.CreatePaymentIntent(c.Request.Context(), user, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, intent)
}

// CreateSubscription godoc
// @Summary Start a membership subscription
// @Tags Payments
// @Accept json
// @Produce json
// @Param payload body dto.CreateSubscriptionRequest true "Price to subscribe to"
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /create-subscription [post]
func (h *PaymentHandler) CreateSubscription(c *gin.Context) {
	user, ok := userFromContext(c)
	if !ok {
		return
	}
	var req dto.CreateSubscriptionRequest
	if !bindJSON(c, &req) {
		return
	}
	checkout, err := h.service.CreateSubscription(c.Request.Context(), user, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, checkout)
}

// PaymentMethods godoc
// @Summary Stored cards of the caller
// @Tags Payments
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /payment-methods [get]
func (h *PaymentHandler) PaymentMethods(c *gin.Context) {
	user, ok := userFromContext(c)
	if !ok {
		return
	}
	methods, err := h.service.PaymentMethods(c.Request.Context(), user)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, methods)
}

// Subscription godoc
// @Summary Active subscription of the caller
// @Description The subscription field is null when the caller has none
// @Tags Payments
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /subscription [get]
func (h *PaymentHandler) Subscription(c *gin.Context) {
	user, ok := userFromContext(c)
	if !ok {
		return
	}
	sub, err := h.service.Subscription(c.Request.Context(), user)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"subscription": sub})
}

package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/dojo-api/internal/dto"
	"github.com/noah-isme/dojo-api/internal/models"
	"github.com/noah-isme/dojo-api/internal/service"
)

type paymentServiceStub struct {
	sub      *models.Subscription
	methods  []models.PaymentMethod
	lastUser *models.User
	lastReq  dto.CreatePaymentIntentRequest
}

func (s *paymentServiceStub) CreatePaymentIntent(_ context.Context, user *models.User, req dto.CreatePaymentIntentRequest) (*models.PaymentIntent, error) {
	s.lastUser = user
	s.lastReq = req
	return &models.PaymentIntent{ClientSecret: "pi_secret"}, nil
}

func (s *paymentServiceStub) CreateSubscription(context.Context, *models.User, dto.CreateSubscriptionRequest) (*models.SubscriptionCheckout, error) {
	return &models.SubscriptionCheckout{SubscriptionID: "sub_1", ClientSecret: "sub_secret"}, nil
}

func (s *paymentServiceStub) PaymentMethods(context.Context, *models.User) ([]models.PaymentMethod, error) {
	return s.methods, nil
}

func (s *paymentServiceStub) Subscription(context.Context, *models.User) (*models.Subscription, error) {
	return s.sub, nil
}

func TestPaymentHandlerCreatePaymentIntent(t *testing.T) {
	svc := &paymentServiceStub{}
	h := NewPaymentHandler(svc)

	c, w := newGinContext(http.MethodPost, "/api/create-payment-intent", []byte(`{"amount":49.99}`))
	withUser(c, &models.User{ID: "user-1"})
	h.CreatePaymentIntent(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"clientSecret":"pi_secret"`)
	assert.Equal(t, "user-1", svc.lastUser.ID)
	assert.InDelta(t, 49.99, svc.lastReq.Amount, 0.0001)
}

func TestPaymentHandlerRequiresUser(t *testing.T) {
	h := NewPaymentHandler(&paymentServiceStub{})

	c, w := newGinContext(http.MethodGet, "/api/payment-methods", nil)
	h.PaymentMethods(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPaymentHandlerEmptyResults(t *testing.T) {
	h := NewPaymentHandler(&paymentServiceStub{methods: []models.PaymentMethod{}})

	c, w := newGinContext(http.MethodGet, "/api/payment-methods", nil)
	withUser(c, &models.User{ID: "user-1"})
	h.PaymentMethods(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[]}`, w.Body.String())

	c, w = newGinContext(http.MethodGet, "/api/subscription", nil)
	withUser(c, &models.User{ID: "user-1"})
	h.Subscription(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":{"subscription":null}}`, w.Body.String())
}

func TestPaymentHandlerUnavailableGateway(t *testing.T) {
	svc := service.NewPaymentService(nil, nil, "usd", nil, nil)
	h := NewPaymentHandler(svc)

	c, w := newGinContext(http.MethodPost, "/api/create-subscription", []byte(`{"priceId":"price_1"}`))
	withUser(c, &models.User{ID: "user-1"})
	h.CreateSubscription(c)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, "PAYMENTS_UNAVAILABLE", env.Error.Code)
}

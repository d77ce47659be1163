package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/dojo-api/internal/dto"
	"github.com/noah-isme/dojo-api/internal/models"
	appErrors "github.com/noah-isme/dojo-api/pkg/errors"
	"github.com/noah-isme/dojo-api/pkg/payments"
)

type fakeGateway struct {
	amount        int64
	currency      string
	metadata      map[string]string
	customers     int
	subscriptions map[string]*payments.SubscriptionInfo
	cards         []payments.Card
}

func (f *fakeGateway) CreatePaymentIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (string, error) {
	f.amount, f.currency, f.metadata = amount, currency, metadata
	return "pi_secret", nil
}

func (f *fakeGateway) CreateCustomer(ctx context.Context, name, email string, metadata map[string]string) (string, error) {
	f.customers++
	return "cus_123", nil
}

func (f *fakeGateway) CreateSubscription(ctx context.Context, customerID, priceID string) (*payments.SubscriptionInfo, error) {
	return &payments.SubscriptionInfo{ID: "sub_1", ClientSecret: "sub_secret", PriceID: priceID}, nil
}

func (f *fakeGateway) ListCards(ctx context.Context, customerID string) ([]payments.Card, error) {
	return f.cards, nil
}

func (f *fakeGateway) ActiveSubscription(ctx context.Context, customerID string) (*payments.SubscriptionInfo, error) {
	return f.subscriptions[customerID], nil
}

type customerRecorder map[string]string

func (c customerRecorder) SetStripeCustomerID(ctx context.Context, id, customerID string) error {
	c[id] = customerID
	return nil
}

func TestPaymentServiceUnavailableWithoutGateway(t *testing.T) {
	svc := NewPaymentService(nil, customerRecorder{}, "", nil, nil)
	user := &models.User{ID: "u1", Username: "alice"}
	ctx := context.Background()

	_, err := svc.CreatePaymentIntent(ctx, user, dto.CreatePaymentIntentRequest{Amount: 10})
	assert.Equal(t, appErrors.ErrPaymentsUnavailable.Status, appErrors.FromError(err).Status)
	_, err = svc.CreateSubscription(ctx, user, dto.CreateSubscriptionRequest{PriceID: "price_1"})
	assert.Equal(t, appErrors.ErrPaymentsUnavailable.Status, appErrors.FromError(err).Status)
	_, err = svc.PaymentMethods(ctx, user)
	assert.Equal(t, appErrors.ErrPaymentsUnavailable.Status, appErrors.FromError(err).Status)
	_, err = svc.Subscription(ctx, user)
	assert.Equal(t, appErrors.ErrPaymentsUnavailable.Status, appErrors.FromError(err).Status)
}

func TestPaymentServiceCreatePaymentIntent(t *testing.T) {
	gateway := &fakeGateway{}
	svc := NewPaymentService(gateway, customerRecorder{}, "USD", nil, nil)
	user := &models.User{ID: "u1", Username: "alice"}

	intent, err := svc.CreatePaymentIntent(context.Background(), user, dto.CreatePaymentIntentRequest{Amount: 19.99})
	require.NoError(t, err)
	assert.Equal(t, "pi_secret", intent.ClientSecret)
	assert.Equal(t, int64(1999), gateway.amount)
	assert.Equal(t, "usd", gateway.currency)
	assert.Equal(t, "alice", gateway.metadata["username"])

	_, err = svc.CreatePaymentIntent(context.Background(), user, dto.CreatePaymentIntentRequest{Amount: 0})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestPaymentServiceSubscriptionFlow(t *testing.T) {
	gateway := &fakeGateway{subscriptions: map[string]*payments.SubscriptionInfo{
		"cus_123": {ID: "sub_1", Status: "active", PriceID: "price_1", CurrentPeriodEnd: 1700000000},
	}}
	customers := customerRecorder{}
	svc := NewPaymentService(gateway, customers, "usd", nil, nil)
	user := &models.User{ID: "u1", Username: "alice"}
	ctx := context.Background()

	methods, err := svc.PaymentMethods(ctx, user)
	require.NoError(t, err)
	assert.NotNil(t, methods)
	assert.Empty(t, methods)

	sub, err := svc.Subscription(ctx, user)
	require.NoError(t, err)
	assert.Nil(t, sub)

	_, err = svc.CreateSubscription(ctx, user, dto.CreateSubscriptionRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	checkout, err := svc.CreateSubscription(ctx, user, dto.CreateSubscriptionRequest{PriceID: "price_1"})
	require.NoError(t, err)
	assert.Equal(t, "sub_1", checkout.SubscriptionID)
	assert.Equal(t, "sub_secret", checkout.ClientSecret)
	assert.Equal(t, "cus_123", customers["u1"])

	_, err = svc.CreateSubscription(ctx, user, dto.CreateSubscriptionRequest{PriceID: "price_1"})
	require.NoError(t, err)
	assert.Equal(t, 1, gateway.customers)

	gateway.cards = []payments.Card{{ID: "pm_1", Brand: "visa", Last4: "4242", ExpMonth: 12, ExpYear: 2030}}
	methods, err = svc.PaymentMethods(ctx, user)
	require.NoError(t, err)
	require.Len(t, methods, 1)
	assert.Equal(t, "4242", methods[0].Last4)

	sub, err = svc.Subscription(ctx, user)
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Equal(t, "active", sub.Status)
}

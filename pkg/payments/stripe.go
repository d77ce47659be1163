// Package payments wraps the Stripe API behind a small gateway used by the payment service.
package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// ErrMissingKey is returned when a gateway is built without a secret key.
var ErrMissingKey = errors.New("stripe secret key is empty")

// Card is a stored card payment method.
type Card struct {
	ID       string
	Brand    string
	Last4    string
	ExpMonth int64
	ExpYear  int64
}

// SubscriptionInfo summarises a gateway subscription.
type SubscriptionInfo struct {
	ID               string
	Status           string
	PriceID          string
	CurrentPeriodEnd int64
	ClientSecret     string
}

// StripeGateway issues calls with its own client instance, no package-level key is set.
type StripeGateway struct {
	api *client.API
}

// NewStripeGateway builds a gateway bound to secretKey.
func NewStripeGateway(secretKey string) (*StripeGateway, error) {
	secretKey = strings.TrimSpace(secretKey)
	if secretKey == "" {
		return nil, ErrMissingKey
	}
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeGateway{api: api}, nil
}

// CreatePaymentIntent creates an intent for amount minor units and returns its client secret.
func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	intent, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return "", fmt.Errorf("create payment intent: %w", err)
	}
	return intent.ClientSecret, nil
}

// CreateCustomer registers a gateway customer and returns its id.
func (g *StripeGateway) CreateCustomer(ctx context.Context, name, email string, metadata map[string]string) (string, error) {
	params := &stripe.CustomerParams{Name: stripe.String(name)}
	if email != "" {
		params.Email = stripe.String(email)
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	customer, err := g.api.Customers.New(params)
	if err != nil {
		return "", fmt.Errorf("create customer: %w", err)
	}
	return customer.ID, nil
}

// CreateSubscription starts an incomplete subscription whose first invoice is paid client side.
func (g *StripeGateway) CreateSubscription(ctx context.Context, customerID, priceID string) (*SubscriptionInfo, error) {
	params := &stripe.SubscriptionParams{
		Customer: stripe.String(customerID),
		Items: []*stripe.SubscriptionItemsParams{
			{Price: stripe.String(priceID)},
		},
		PaymentBehavior: stripe.String("default_incomplete"),
	}
	params.Context = ctx
	params.AddExpand("latest_invoice.payment_intent")

	sub, err := g.api.Subscriptions.New(params)
	if err != nil {
		return nil, fmt.Errorf("create subscription: %w", err)
	}

	info := toSubscriptionInfo(sub)
	if sub.LatestInvoice != nil && sub.LatestInvoice.PaymentIntent != nil {
		info.ClientSecret = sub.LatestInvoice.PaymentIntent.ClientSecret
	}
	return info, nil
}

// ListCards returns the card payment methods attached to a customer.
func (g *StripeGateway) ListCards(ctx context.Context, customerID string) ([]Card, error) {
	params := &stripe.PaymentMethodListParams{
		Customer: stripe.String(customerID),
		Type:     stripe.String(string(stripe.PaymentMethodTypeCard)),
	}
	params.Context = ctx

	cards := []Card{}
	iter := g.api.PaymentMethods.List(params)
	for iter.Next() {
		pm := iter.PaymentMethod()
		card := Card{ID: pm.ID}
		if pm.Card != nil {
			card.Brand = string(pm.Card.Brand)
			card.Last4 = pm.Card.Last4
			card.ExpMonth = pm.Card.ExpMonth
			card.ExpYear = pm.Card.ExpYear
		}
		cards = append(cards, card)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("list payment methods: %w", err)
	}
	return cards, nil
}

// ActiveSubscription returns the first active subscription of a customer, or nil.
func (g *StripeGateway) ActiveSubscription(ctx context.Context, customerID string) (*SubscriptionInfo, error) {
	params := &stripe.SubscriptionListParams{
		Customer: stripe.String(customerID),
		Status:   stripe.String(string(stripe.SubscriptionStatusActive)),
	}
	params.Context = ctx
	params.Limit = stripe.Int64(1)

	iter := g.api.Subscriptions.List(params)
	if iter.Next() {
		return toSubscriptionInfo(iter.Subscription()), nil
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	return nil, nil
}

func toSubscriptionInfo(sub *stripe.Subscription) *SubscriptionInfo {
	info := &SubscriptionInfo{
		ID:               sub.ID,
		Status:           string(sub.Status),
		CurrentPeriodEnd: sub.CurrentPeriodEnd,
	}
	if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		info.PriceID = sub.Items.Data[0].Price.ID
	}
	return info
}

package models

// PaymentIntent is the client-side handle of a one-off payment.
type PaymentIntent struct {
	ClientSecret string `json:"clientSecret"`
}

// SubscriptionCheckout is returned when a subscription is started.
type SubscriptionCheckout struct {
	SubscriptionID string `json:"subscriptionId"`
	ClientSecret   string `json:"clientSecret"`
}

// PaymentMethod is a stored card of a member.
type PaymentMethod struct {
	ID       string `json:"id"`
	Brand    string `json:"brand"`
	Last4    string `json:"last4"`
	ExpMonth int64  `json:"expMonth"`
	ExpYear  int64  `json:"expYear"`
}

// Subscription is the active membership subscription of a member.
type Subscription struct {
	ID               string `json:"id"`
	Status           string `json:"status"`
	PriceID          string `json:"priceId,omitempty"`
	CurrentPeriodEnd int64  `json:"currentPeriodEnd"`
}

package dto

// CreatePaymentIntentRequest starts a one-off card payment. Amount is in major units.
type CreatePaymentIntentRequest struct {
	Amount   float64 `json:"amount" validate:"gt=0"`
	Currency *string `json:"currency" validate:"omitempty,len=3,alpha"`
}

// CreateSubscriptionRequest subscribes the caller to a gateway price.
type CreateSubscriptionRequest struct {
	PriceID string `json:"priceId" validate:"required"`
}

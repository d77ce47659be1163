package service

import (
	"context"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/dojo-api/internal/dto"
	"github.com/noah-isme/dojo-api/internal/models"
	appValidator "github.com/noah-isme/dojo-api/internal/validator"
	appErrors "github.com/noah-isme/dojo-api/pkg/errors"
	"github.com/noah-isme/dojo-api/pkg/payments"
)

// PaymentGateway is the subset of the payment provider used by the API.
type PaymentGateway interface {
	CreatePaymentIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (string, error)
	CreateCustomer(ctx context.Context, name, email string, metadata map[string]string) (string, error)
	CreateSubscription(ctx context.Context, customerID, priceID string) (*payments.SubscriptionInfo, error)
	ListCards(ctx context.Context, customerID string) ([]payments.Card, error)
	ActiveSubscription(ctx context.Context, customerID string) (*payments.SubscriptionInfo, error)
}

type customerStore interface {
	SetStripeCustomerID(ctx context.Context, id, customerID string) error
}

// PaymentService starts payments and subscriptions for members. Without a gateway
// every call fails with 503.
type PaymentService struct {
	gateway   PaymentGateway
	customers customerStore
	currency  string
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPaymentService constructs a PaymentService. Pass a nil gateway when payments are
// not configured.
func NewPaymentService(gateway PaymentGateway, customers customerStore, currency string, validate *validator.Validate, logger *zap.Logger) *PaymentService {
	if validate == nil {
		validate = appValidator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	currency = strings.ToLower(strings.TrimSpace(currency))
	if currency == "" {
		currency = "usd"
	}
	return &PaymentService{gateway: gateway, customers: customers, currency: currency, validator: validate, logger: logger}
}

// Enabled reports whether a gateway is configured.
func (s *PaymentService) Enabled() bool {
	return s != nil && s.gateway != nil
}

// CreatePaymentIntent starts a one-off payment. Amount is given in major units and
// charged in minor units.
func (s *PaymentService) CreatePaymentIntent(ctx context.Context, user *models.User, req dto.CreatePaymentIntentRequest) (*models.PaymentIntent, error) {
	if !s.Enabled() {
		return nil, appErrors.ErrPaymentsUnavailable
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appValidator.ToAppError(err, "invalid payment payload")
	}

	currency := s.currency
	if req.Currency != nil {
		currency = strings.ToLower(*req.Currency)
	}
	secret, err := s.gateway.CreatePaymentIntent(ctx, minorUnits(req.Amount), currency, map[string]string{
		"userId":   user.ID,
		"username": user.Username,
	})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to create payment intent")
	}
	return &models.PaymentIntent{ClientSecret: secret}, nil
}

// CreateSubscription subscribes the member to a price, creating the gateway customer
// on first use.
func (s *PaymentService) CreateSubscription(ctx context.Context, user *models.User, req dto.CreateSubscriptionRequest) (*models.SubscriptionCheckout, error) {
	if !s.Enabled() {
		return nil, appErrors.ErrPaymentsUnavailable
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appValidator.ToAppError(err, "invalid subscription payload")
	}

	customerID, err := s.ensureCustomer(ctx, user)
	if err != nil {
		return nil, err
	}
	sub, err := s.gateway.CreateSubscription(ctx, customerID, req.PriceID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to create subscription")
	}
	return &models.SubscriptionCheckout{SubscriptionID: sub.ID, ClientSecret: sub.ClientSecret}, nil
}

// PaymentMethods lists the stored cards of the member. Members that never paid have none.
func (s *PaymentService) PaymentMethods(ctx context.Context, user *models.User) ([]models.PaymentMethod, error) {
	if !s.Enabled() {
		return nil, appErrors.ErrPaymentsUnavailable
	}
	methods := []models.PaymentMethod{}
	if user.StripeCustomerID == nil || *user.StripeCustomerID == "" {
		return methods, nil
	}

	cards, err := s.gateway.ListCards(ctx, *user.StripeCustomerID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list payment methods")
	}
	for _, card := range cards {
		methods = append(methods, models.PaymentMethod{
			ID:       card.ID,
			Brand:    card.Brand,
			Last4:    card.Last4,
			ExpMonth: card.ExpMonth,
			ExpYear:  card.ExpYear,
		})
	}
	return methods, nil
}

// Subscription returns the active subscription of the member, or nil.
func (s *PaymentService) Subscription(ctx context.Context, user *models.User) (*models.Subscription, error) {
	if !s.Enabled() {
		return nil, appErrors.ErrPaymentsUnavailable
	}
	if user.StripeCustomerID == nil || *user.StripeCustomerID == "" {
		return nil, nil
	}

	sub, err := s.gateway.ActiveSubscription(ctx, *user.StripeCustomerID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load subscription")
	}
	if sub == nil {
		return nil, nil
	}
	return &models.Subscription{
		ID:               sub.ID,
		Status:           sub.Status,
		PriceID:          sub.PriceID,
		CurrentPeriodEnd: sub.CurrentPeriodEnd,
	}, nil
}

func (s *PaymentService) ensureCustomer(ctx context.Context, user *models.User) (string, error) {
	if user.StripeCustomerID != nil && *user.StripeCustomerID != "" {
		return *user.StripeCustomerID, nil
	}

	name := user.Username
	if user.DisplayName != nil && *user.DisplayName != "" {
		name = *user.DisplayName
	}
	customerID, err := s.gateway.CreateCustomer(ctx, name, stringValue(user.Email), map[string]string{"userId": user.ID})
	if err != nil {
		return "", appErrors.Internal(err, "failed to create payment customer")
	}
	if err := s.customers.SetStripeCustomerID(ctx, user.ID, customerID); err != nil {
		return "", appErrors.Internal(err, "failed to store payment customer")
	}
	user.StripeCustomerID = &customerID
	return customerID, nil
}

func minorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

package payments

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStripeGatewayRequiresKey(t *testing.T) {
	_, err := NewStripeGateway("   ")
	assert.ErrorIs(t, err, ErrMissingKey)

	gw, err := NewStripeGateway("sk_test_123")
	require.NoError(t, err)
	assert.NotNil(t, gw.api)
}

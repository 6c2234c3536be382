package billing

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidTier(t *testing.T) {
	for _, tier := range []string{
		TierTrial, TierBasic, TierPackage1, TierPackage2,
		TierPackage3, TierPackage4, TierPlatinum,
	} {
		assert.True(t, ValidTier(tier), tier)
	}

	assert.False(t, ValidTier("gold"))
	assert.False(t, ValidTier(""))
	assert.False(t, ValidTier("Basic"), "tier names are case sensitive")
}

func TestMockCheckoutProvider(t *testing.T) {
	provider := NewMockCheckoutProvider("https://billing.test")
	ctx := context.Background()

	url, err := provider.CreateCheckout(ctx, "user-1", "a@b.test", TierBasic)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://billing.test/checkout/"))
	assert.Contains(t, url, "tier=basic")

	url, err = provider.CreateAgencyCheckout(ctx, "agency-1", "a@b.test", TierPlatinum, 10)
	require.NoError(t, err)
	assert.Contains(t, url, "seats=10")

	url, err = provider.CustomerPortal(ctx, "cus_123")
	require.NoError(t, err)
	assert.Equal(t, "https://billing.test/portal/cus_123", url)
}

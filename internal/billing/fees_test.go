package billing

import (
	"testing"

	"github.com/kawojue/phrednetwork/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestWithdrawalFee(t *testing.T) {
	tests := []struct {
		name       string
		amount     float64
		processing float64
		gateway    float64
	}{
		{"above 5k gets flat gateway fee", 6_000, 50, 10},
		{"mid amount", 1_000, 50, 25},
		{"processing uncapped below 1k", 500, 25, 25},
		{"large amount still flat 10", 100_000, 50, 10},
		{"boundary 5000 stays on 25 tier", 5_000, 50, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fee := WithdrawalFee(tt.amount)
			assert.Equal(t, tt.processing, fee.ProcessingFee)
			assert.Equal(t, tt.gateway, fee.GatewayFee)
			assert.Equal(t, tt.processing+tt.gateway, fee.TotalFee)
		})
	}
}

// A withdrawal just above 5000 pays less gateway fee than one just below.
// Known quirk of the fee schedule, kept on purpose.
func TestWithdrawalFeeBranchOrder(t *testing.T) {
	assert.Equal(t, 10.0, WithdrawalFee(5_001).GatewayFee)
	assert.Equal(t, 25.0, WithdrawalFee(4_999).GatewayFee)
}

func TestBoostingPrice(t *testing.T) {
	assert.Equal(t, 500.0, BoostingPrice(7))
	assert.Equal(t, 1000.0, BoostingPrice(14))
	assert.InDelta(t, 214.29, BoostingPrice(3), 0.01)
}

func TestMembershipLookups(t *testing.T) {
	assert.Equal(t, 1, MembershipMonths(domain.TierMonthly))
	assert.Equal(t, 3, MembershipMonths(domain.TierQuarterly))
	assert.Equal(t, 6, MembershipMonths(domain.TierSemiAnnual))
	assert.Equal(t, 12, MembershipMonths(domain.TierYearly))
	assert.Equal(t, 0, MembershipMonths(domain.MembershipTier("Weekly")))

	assert.Equal(t, 1_200.0, MembershipAmount(domain.TierMonthly))
	assert.Equal(t, 3_200.0, MembershipAmount(domain.TierQuarterly))
	assert.Equal(t, 6_200.0, MembershipAmount(domain.TierSemiAnnual))
	assert.Equal(t, 12_200.0, MembershipAmount(domain.TierYearly))
	assert.Equal(t, 0.0, MembershipAmount(domain.MembershipTier("")))
}

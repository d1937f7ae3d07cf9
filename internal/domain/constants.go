package domain

// Role is the account role carried in JWT claims and stored on users.
type Role string

const (
	RoleUser    Role = "user"
	RoleAdmin   Role = "admin"
	RoleAuditor Role = "auditor"
)

// IsModerator reports whether the role has elevated content-management rights.
func (r Role) IsModerator() bool {
	return r == RoleAdmin || r == RoleAuditor
}

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleAuditor:
		return true
	}
	return false
}

// UserStatus gates login and content actions for suspended accounts.
type UserStatus string

const (
	StatusActive    UserStatus = "Active"
	StatusSuspended UserStatus = "Suspended"
)

// MembershipTier maps to a duration in months and a price.
type MembershipTier string

const (
	TierMonthly    MembershipTier = "Monthly"
	TierQuarterly  MembershipTier = "Quarterly"
	TierSemiAnnual MembershipTier = "SemiAnnual"
	TierYearly     MembershipTier = "Yearly"
)

// Ledger entry types.
const (
	TxDeposit    = "DEPOSIT"
	TxWithdrawal = "WITHDRAWAL"
	TxResource   = "RESOURCE"
)

// Ledger entry sources.
const (
	TxSourceWallet   = "wallet"
	TxSourceExternal = "external"
)

// Ledger entry statuses (uppercase on the wire and in storage).
const (
	TxSuccess  = "SUCCESS"
	TxPending  = "PENDING"
	TxFailed   = "FAILED"
	TxReversed = "REVERSED"
)

// Feed tabs.
const (
	TabForYou    = "for_you"
	TabFollowing = "following"
)

// Validation token purposes.
const (
	TokenEmail    = "email"
	TokenPassword = "password"
)

const (
	// ViewMilestone is the counted-view interval that triggers an author payout.
	ViewMilestone = 100
	// MilestonePayout is the amount credited to the author per milestone.
	MilestonePayout = 10.0

	// MinWithdrawal is the smallest amount a user may request.
	MinWithdrawal = 50.0

	// AdvertPrice is the flat cost of posting an advert.
	AdvertPrice = 1200.0
	// AdvertLifetimeDays is how long a posted advert stays eligible.
	AdvertLifetimeDays = 14

	// Read quotas enforced by the article access gate.
	QuotaAnonymous = 2
	QuotaFreeUser  = 4

	// Boost ranking points.
	BoostPointPurchase = 15
	BoostPointAuto     = 10
	AutoBoostDays      = 7

	// FreeArticlesPerDay is the daily publish limit for non-members.
	FreeArticlesPerDay = 2

	// MaxBookmarks is the per-user bookmark cap.
	MaxBookmarks = 5
)

package service

import (
	"errors"
	"time"

	"github.com/kawojue/phrednetwork/internal/billing"
	"github.com/kawojue/phrednetwork/internal/domain"
	"github.com/kawojue/phrednetwork/internal/models"
)

var (
	ErrUnknownTier      = errors.New("unknown membership tier")
	ErrMembershipActive = errors.New("membership still active")
)

// MembershipStore is the slice of the user repository membership needs.
type MembershipStore interface {
	GetMembership(userID uint) (*models.Membership, error)
	SaveMembership(m *models.Membership) error
	DeleteMembership(userID uint) error
}

// MembershipActive reports whether the membership window is still open.
func MembershipActive(m *models.Membership, now time.Time) bool {
	if m == nil {
		return false
	}
	months := billing.MembershipMonths(m.Tier)
	if months == 0 {
		return false
	}
	return now.Before(m.MemberedAt.AddDate(0, months, 0))
}

// MembershipService sells and renews memberships out of the wallet.
type MembershipService struct {
	store    MembershipStore
	ledger   *LedgerService
	notifier *Notifier
}

func NewMembershipService(store MembershipStore, ledger *LedgerService, notifier *Notifier) *MembershipService {
	return &MembershipService{store: store, ledger: ledger, notifier: notifier}
}

// Purchase charges the tier price from the wallet and opens the
// membership window from now. Buying while a window is still open is
// rejected; a lapsed membership restarts cleanly.
func (s *MembershipService) Purchase(userID uint, tier domain.MembershipTier) (*models.Membership, error) {
	amount := billing.MembershipAmount(tier)
	if amount == 0 {
		return nil, ErrUnknownTier
	}
	if existing, err := s.store.GetMembership(userID); err == nil && MembershipActive(existing, time.Now()) {
		return nil, ErrMembershipActive
	}
	if _, err := s.ledger.PurchaseResource(userID, amount, "membership"); err != nil {
		return nil, err
	}
	m := &models.Membership{
		UserID:     userID,
		Tier:       tier,
		AmountPaid: amount,
		MemberedAt: time.Now(),
	}
	if err := s.store.SaveMembership(m); err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.MembershipActivated(userID, string(tier))
	}
	return m, nil
}

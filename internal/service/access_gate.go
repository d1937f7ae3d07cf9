package service

import (
	"fmt"
	"time"

	"github.com/kawojue/phrednetwork/internal/cache"
	"github.com/kawojue/phrednetwork/internal/domain"
	"github.com/kawojue/phrednetwork/internal/models"
)

// Unlimited disables the quota for a viewer class.
const Unlimited = -1

// AccessGate meters article reads over a rolling day. Each (viewer,
// article) pair gets its own counter and every read increments it, so
// re-reading the same article burns quota too. State lives in the TTL
// cache and resets when the window closes.
type AccessGate struct {
	cache cache.TTLStore
}

func NewAccessGate(c cache.TTLStore) *AccessGate {
	return &AccessGate{cache: c}
}

// ViewerKey identifies the quota bucket. Signed-in users get their own
// bucket; everyone else shares the anonymous one.
func ViewerKey(userID uint) string {
	if userID == 0 {
		return "anonymous"
	}
	return fmt.Sprintf("%d", userID)
}

// QuotaFor maps a viewer to their daily read allowance. Members,
// moderators and the article's own author read without limit.
func QuotaFor(user *models.User, article *models.Article, now time.Time) int {
	if user == nil {
		return domain.QuotaAnonymous
	}
	if user.IsModerator() || (article != nil && article.AuthorID == user.ID) {
		return Unlimited
	}
	if MembershipActive(user.Membership, now) {
		return Unlimited
	}
	return domain.QuotaFreeUser
}

// Allow reports whether the viewer may open the article, consuming one
// unit of quota on every read of that article.
func (g *AccessGate) Allow(viewer string, articleID uint, quota int) bool {
	if quota == Unlimited {
		return true
	}
	key := fmt.Sprintf("%s-%d", viewer, articleID)
	used, _ := g.cache.Get(key)
	if used >= quota {
		return false
	}
	g.cache.Set(key, used+1)
	return true
}

package service

import (
	"fmt"
	"log"
	"time"

	"github.com/kawojue/phrednetwork/internal/models"
	"github.com/kawojue/phrednetwork/internal/repository"
	"github.com/kawojue/phrednetwork/internal/tasks"

	"github.com/hibiken/asynq"
)

// Notifier writes in-app notification rows and queues the matching
// emails. Delivery failures are logged, never surfaced to the caller;
// a missed notification must not fail the operation that caused it.
type Notifier struct {
	repo     *repository.NotificationRepository
	userRepo *repository.UserRepository
	queue    *asynq.Client
}

func NewNotifier(repo *repository.NotificationRepository, userRepo *repository.UserRepository, queue *asynq.Client) *Notifier {
	return &Notifier{repo: repo, userRepo: userRepo, queue: queue}
}

func (n *Notifier) notify(userID uint, title, description string, email bool) {
	if n == nil || n.repo == nil {
		return
	}
	err := n.repo.Create(&models.Notification{
		UserID:      userID,
		Title:       title,
		Description: description,
		NotifiedAt:  time.Now(),
	})
	if err != nil {
		log.Printf("[Notify] save for user %d failed: %v", userID, err)
		return
	}
	if email {
		n.enqueueEmail(userID, title, description)
	}
}

func (n *Notifier) enqueueEmail(userID uint, subject, body string) {
	if n.queue == nil || n.userRepo == nil {
		return
	}
	u, err := n.userRepo.GetByID(userID)
	if err != nil {
		return
	}
	task, err := tasks.NewEmailTask(u.Email, subject, body)
	if err != nil {
		return
	}
	if _, err := n.queue.Enqueue(task); err != nil {
		log.Printf("[Notify] enqueue email for user %d failed: %v", userID, err)
	}
}

func (n *Notifier) WithdrawalRequested(userID uint, amount float64) {
	n.notify(userID, "Withdrawal requested", fmt.Sprintf("Your withdrawal request of %.2f is awaiting review.", amount), false)
}

func (n *Notifier) AccountDetailNeeded(userID uint) {
	n.notify(userID, "Account details", "Add your account details to withdraw.", false)
}

func (n *Notifier) WithdrawalApproved(userID uint, amount float64) {
	n.notify(userID, "Withdrawal approved", fmt.Sprintf("Your withdrawal of %.2f has been approved and is on its way.", amount), true)
}

func (n *Notifier) WithdrawalSettled(userID uint, amount float64) {
	n.notify(userID, "Withdrawal sent", fmt.Sprintf("Your withdrawal of %.2f has been paid out.", amount), true)
}

func (n *Notifier) WithdrawalReturned(userID uint, amount float64) {
	n.notify(userID, "Withdrawal returned", fmt.Sprintf("Your withdrawal could not be completed. %.2f has been returned to your wallet.", amount), true)
}

func (n *Notifier) WalletFunded(userID uint, amount float64) {
	n.notify(userID, "Wallet funded", fmt.Sprintf("Your wallet has been credited with %.2f.", amount), false)
}

func (n *Notifier) MilestoneEarning(userID uint, amount float64, articleTitle string) {
	n.notify(userID, "Reader milestone", fmt.Sprintf("Your article %q crossed a view milestone. %.2f has been added to your wallet.", articleTitle, amount), false)
}

func (n *Notifier) ArticleApproved(userID uint, articleTitle string) {
	n.notify(userID, "Article published", fmt.Sprintf("Your article %q has been approved and is now live.", articleTitle), true)
}

func (n *Notifier) ArticleRejected(userID uint, articleTitle string) {
	n.notify(userID, "Article rejected", fmt.Sprintf("Your article %q was not approved.", articleTitle), true)
}

func (n *Notifier) AdvertApproved(userID uint, productName string) {
	n.notify(userID, "Advert approved", fmt.Sprintf("Your advert for %q is now running.", productName), true)
}

func (n *Notifier) AdvertRejected(userID uint, productName string, refund float64) {
	n.notify(userID, "Advert rejected", fmt.Sprintf("Your advert for %q was not approved. %.2f has been refunded to your wallet.", productName, refund), true)
}

func (n *Notifier) NewFollower(userID uint, followerName string) {
	n.notify(userID, "New follower", followerName+" started following you.", false)
}

func (n *Notifier) NewComment(userID uint, commenterName, articleTitle string) {
	n.notify(userID, "New comment", fmt.Sprintf("%s commented on %q.", commenterName, articleTitle), false)
}

func (n *Notifier) ForumRequestApproved(userID uint, forumTitle string) {
	n.notify(userID, "Forum request approved", fmt.Sprintf("You are now a member of %q.", forumTitle), false)
}

func (n *Notifier) MembershipActivated(userID uint, tier string) {
	n.notify(userID, "Membership active", fmt.Sprintf("Your %s membership is now active.", tier), true)
}

func (n *Notifier) LicenseReviewed(userID uint, approved bool) {
	if approved {
		n.notify(userID, "License verified", "Your author license has been verified.", true)
		return
	}
	n.notify(userID, "License declined", "Your author license could not be verified.", true)
}

package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kawojue/phrednetwork/config"
	"github.com/kawojue/phrednetwork/internal/auth"
	"github.com/kawojue/phrednetwork/internal/domain"
	"github.com/kawojue/phrednetwork/internal/models"
	"github.com/kawojue/phrednetwork/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailExists        = errors.New("email already registered")
	ErrUsernameExists     = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountSuspended   = errors.New("account suspended")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenNotFound      = errors.New("token not found")
)

const validationTokenTTL = 30 * time.Minute

// AuthService owns signup, login and the email token flows.
type AuthService struct {
	users    *repository.UserRepository
	wallets  *repository.WalletRepository
	notifier *Notifier
	cfg      *config.JWTConfig
}

func NewAuthService(users *repository.UserRepository, wallets *repository.WalletRepository, notifier *Notifier, cfg *config.JWTConfig) *AuthService {
	return &AuthService{users: users, wallets: wallets, notifier: notifier, cfg: cfg}
}

// Register creates the account with its wallet and verification shell
// and queues the email confirmation token.
func (s *AuthService) Register(email, username, fullname, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.ToLower(strings.TrimSpace(username))

	if _, err := s.users.GetByEmail(email); err == nil {
		return nil, "", ErrEmailExists
	}
	if _, err := s.users.GetByUsername(username); err == nil {
		return nil, "", ErrUsernameExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}
	u := &models.User{
		Email:        email,
		Username:     username,
		Fullname:     fullname,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		Status:       domain.StatusActive,
	}
	if err := s.users.Create(u); err != nil {
		return nil, "", err
	}
	if _, err := s.wallets.GetOrCreate(u.ID); err != nil {
		return nil, "", err
	}
	if err := s.users.SaveVerification(&models.Verification{UserID: u.ID}); err != nil {
		return nil, "", err
	}
	if err := s.sendEmailToken(u); err != nil {
		return nil, "", err
	}

	token, err := auth.GenerateToken(s.cfg, u.ID, u.Username, u.Role, u.Status)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Login checks the password and issues a session token. Suspended
// accounts cannot sign in.
func (s *AuthService) Login(email, password string) (*models.User, string, error) {
	u, err := s.users.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if u.IsSuspended() {
		return nil, "", ErrAccountSuspended
	}
	token, err := auth.GenerateToken(s.cfg, u.ID, u.Username, u.Role, u.Status)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *AuthService) sendEmailToken(u *models.User) error {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	err := s.users.CreateValidation(&models.Validation{
		UserID:      u.ID,
		Token:       token,
		Purpose:     domain.TokenEmail,
		TokenExpiry: time.Now().Add(validationTokenTTL),
	})
	if err != nil {
		return err
	}
	if s.notifier != nil {
		s.notifier.enqueueEmail(u.ID, "Verify your email",
			fmt.Sprintf("Welcome to Phrednetwork. Use the code %s to verify your email. It expires in 30 minutes.", token))
	}
	return nil
}

// ResendEmailToken issues a fresh confirmation token, replacing any
// live one.
func (s *AuthService) ResendEmailToken(userID uint) error {
	u, err := s.users.GetByID(userID)
	if err != nil {
		return err
	}
	return s.sendEmailToken(u)
}

// VerifyEmail consumes an email token and flips the verification flag.
func (s *AuthService) VerifyEmail(token string) error {
	v, err := s.users.GetValidationByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTokenNotFound
		}
		return err
	}
	if v.Purpose != domain.TokenEmail {
		return ErrTokenNotFound
	}
	if v.Expired(time.Now()) {
		return ErrTokenExpired
	}
	ver, err := s.users.GetVerification(v.UserID)
	if err != nil {
		ver = &models.Verification{UserID: v.UserID}
	}
	ver.EmailVerified = true
	if err := s.users.SaveVerification(ver); err != nil {
		return err
	}
	return s.users.DeleteValidation(v.ID)
}

// RequestPasswordReset emails a reset token. No error leaks whether the
// address exists.
func (s *AuthService) RequestPasswordReset(email string) error {
	u, err := s.users.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil
	}
	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	err = s.users.CreateValidation(&models.Validation{
		UserID:      u.ID,
		Token:       token,
		Purpose:     domain.TokenPassword,
		TokenExpiry: time.Now().Add(validationTokenTTL),
	})
	if err != nil {
		return err
	}
	if s.notifier != nil {
		s.notifier.enqueueEmail(u.ID, "Reset your password",
			fmt.Sprintf("Use the code %s to reset your password. It expires in 30 minutes.", token))
	}
	return nil
}

// ResetPassword consumes a reset token and stores the new password.
func (s *AuthService) ResetPassword(token, newPassword string) error {
	v, err := s.users.GetValidationByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTokenNotFound
		}
		return err
	}
	if v.Purpose != domain.TokenPassword {
		return ErrTokenNotFound
	}
	if v.Expired(time.Now()) {
		return ErrTokenExpired
	}
	u, err := s.users.GetByID(v.UserID)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	if err := s.users.Update(u); err != nil {
		return err
	}
	return s.users.DeleteValidation(v.ID)
}

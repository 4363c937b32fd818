package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/authgate/internal/config"
	"github.com/example/authgate/internal/models"
	"github.com/example/authgate/internal/utils"
)

// CredentialStore is the persistence surface the auth flows need. Each
// method is atomic at the store layer.
type CredentialStore interface {
	FindUserByPhone(phone string) (*models.User, error)
	FindUserByID(id uuid.UUID) (*models.User, error)
	FindUserByEmailExcluding(email string, excludeID uuid.UUID) (*models.User, error)
	UserExists(email, phone string) (bool, error)
	UpsertPending(pending *models.PendingSignup) error
	FindPending(phone string) (*models.PendingSignup, error)
	DeletePending(phone string) error
	PromoteToUser(pending *models.PendingSignup) (*models.User, error)
	UpdateUser(id uuid.UUID, name, email string) (bool, error)
}

// OTPClient relays code requests and checks to the external gateway.
type OTPClient interface {
	RequestCode(phone string) (bool, error)
	CheckCode(phone, code string) (bool, error)
}

// AuthService implements the signup state machine, the login flow and the
// profile mutation guard.
type AuthService struct {
	store      CredentialStore
	otp        OTPClient
	secret     string
	tokenTTL   time.Duration
	pendingTTL time.Duration
}

// NewAuthService constructs an AuthService.
func NewAuthService(store CredentialStore, otp OTPClient, cfg *config.Config) *AuthService {
	return &AuthService{
		store:      store,
		otp:        otp,
		secret:     cfg.JWTSecret,
		tokenTTL:   cfg.TokenExpires,
		pendingTTL: cfg.PendingTTL,
	}
}

// SignupInput carries the fields of a signup request.
type SignupInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// Session bundles a freshly minted token with the account it belongs to.
type Session struct {
	Token string
	User  *models.User
}

// InitiateSignup stages a new registration and asks the gateway to send a
// code. Nothing is staged unless the gateway accepts; a repeated signup for
// the same phone overwrites the earlier pending record.
func (s *AuthService) InitiateSignup(in SignupInput) error {
	if in.Name == "" || in.Email == "" || in.Phone == "" || in.Password == "" {
		return ErrFieldsRequired
	}

	exists, err := s.store.UserExists(in.Email, in.Phone)
	if err != nil {
		return err
	}
	if exists {
		return ErrUserExists
	}

	passwordHash, err := utils.HashPassword(in.Password)
	if err != nil {
		return err
	}

	accepted, err := s.otp.RequestCode(in.Phone)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGateway, err)
	}
	if !accepted {
		return ErrGateway
	}

	return s.store.UpsertPending(&models.PendingSignup{
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: passwordHash,
	})
}

// ConfirmSignup promotes a pending signup to a confirmed account once the
// gateway validates the code, deletes the pending record and issues a
// session. The absence of the pending record is the sole guard against a
// replayed confirmation creating a second account.
func (s *AuthService) ConfirmSignup(phone, code string) (*Session, error) {
	if phone == "" || code == "" {
		return nil, ErrFieldsRequired
	}

	valid, err := s.otp.CheckCode(phone, code)
	if err != nil {
		return nil, err
	}
	if !valid {
		return nil, ErrInvalidCode
	}

	pending, err := s.store.FindPending(phone)
	if err != nil {
		return nil, err
	}
	if pending == nil {
		return nil, ErrSignupExpired
	}
	if s.pendingTTL > 0 && time.Since(pending.CreatedAt) > s.pendingTTL {
		if err := s.store.DeletePending(phone); err != nil {
			return nil, err
		}
		return nil, ErrSignupExpired
	}

	user, err := s.store.PromoteToUser(pending)
	if err != nil {
		return nil, err
	}

	return s.newSession(user)
}

// LoginChallenge asks the gateway to send a code to an existing account's
// phone. Login never creates an account.
func (s *AuthService) LoginChallenge(phone string) error {
	if phone == "" {
		return ErrFieldsRequired
	}

	user, err := s.store.FindUserByPhone(phone)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	accepted, err := s.otp.RequestCode(phone)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGateway, err)
	}
	if !accepted {
		return ErrGateway
	}

	return nil
}

// VerifyLogin checks the code and issues a session for the account. The
// user is re-fetched after the code check in case the account vanished
// between challenge and verify.
func (s *AuthService) VerifyLogin(phone, code string) (*Session, error) {
	if phone == "" || code == "" {
		return nil, ErrFieldsRequired
	}

	valid, err := s.otp.CheckCode(phone, code)
	if err != nil {
		return nil, err
	}
	if !valid {
		return nil, ErrInvalidCode
	}

	user, err := s.store.FindUserByPhone(phone)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return s.newSession(user)
}

// GetUser resolves an authenticated user ID to the current account state.
func (s *AuthService) GetUser(id uuid.UUID) (*models.User, error) {
	user, err := s.store.FindUserByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile changes name and email on the authenticated account only.
// Phone and password are immutable through this path.
func (s *AuthService) UpdateProfile(id uuid.UUID, name, email string) (*models.User, error) {
	if name == "" || email == "" {
		return nil, ErrFieldsRequired
	}

	other, err := s.store.FindUserByEmailExcluding(email, id)
	if err != nil {
		return nil, err
	}
	if other != nil {
		return nil, ErrEmailTaken
	}

	matched, err := s.store.UpdateUser(id, name, email)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, ErrUserNotFound
	}

	return s.GetUser(id)
}

func (s *AuthService) newSession(user *models.User) (*Session, error) {
	token, err := utils.GenerateToken(s.secret, user.ID, user.Phone, s.tokenTTL)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: user}, nil
}

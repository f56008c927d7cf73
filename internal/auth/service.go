package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rogerio-castellano/algamoney-api/internal/models"
	"github.com/rogerio-castellano/algamoney-api/internal/repo"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidGrant       = errors.New("invalid refresh token")
)

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration
}

// AuthService implements the password and refresh token grants.
type AuthService struct {
	users   repo.UserRepository
	issuer  *TokenIssuer
	refresh *RefreshTokenStore
}

func NewAuthService(users repo.UserRepository, issuer *TokenIssuer, refresh *RefreshTokenStore) *AuthService {
	return &AuthService{
		users:   users,
		issuer:  issuer,
		refresh: refresh,
	}
}

func (a *AuthService) Issuer() *TokenIssuer {
	return a.issuer
}

func (a *AuthService) RefreshTTL() time.Duration {
	return a.refresh.TTL()
}

func (a *AuthService) PasswordGrant(ctx context.Context, username, password string) (TokenPair, error) {
	user, err := a.users.GetByUsername(ctx, username)
	if errors.Is(err, repo.ErrUserNotFound) {
		return TokenPair{}, ErrInvalidCredentials
	}
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to load user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return TokenPair{}, ErrInvalidCredentials
	}

	return a.issue(ctx, user)
}

// RefreshGrant exchanges a refresh token for a new pair. The presented
// token is consumed atomically, so each refresh token is good for one exchange.
func (a *AuthService) RefreshGrant(ctx context.Context, refreshToken string) (TokenPair, error) {
	userID, err := a.refresh.Consume(ctx, refreshToken)
	if errors.Is(err, ErrRefreshTokenNotFound) {
		return TokenPair{}, ErrInvalidGrant
	}
	if err != nil {
		return TokenPair{}, err
	}

	user, err := a.users.GetByID(ctx, userID)
	if errors.Is(err, repo.ErrUserNotFound) {
		return TokenPair{}, ErrInvalidGrant
	}
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to load user: %w", err)
	}

	return a.issue(ctx, user)
}

func (a *AuthService) Revoke(ctx context.Context, refreshToken string) error {
	return a.refresh.Revoke(ctx, refreshToken)
}

// EnsureUser creates the user with the given password unless the username
// is already taken.
func (a *AuthService) EnsureUser(ctx context.Context, username, password, role string) error {
	_, err := a.users.GetByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repo.ErrUserNotFound) {
		return fmt.Errorf("failed to look up user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	_, err = a.users.CreateUser(ctx, models.User{Username: username, PasswordHash: string(hash), Role: role})
	if err != nil && !errors.Is(err, repo.ErrDuplicatedValueUnique) {
		return fmt.Errorf("failed to create user: %w", err)
	}

	logrus.WithField("username", username).Info("bootstrap user ready")
	return nil
}

func (a *AuthService) issue(ctx context.Context, user models.User) (TokenPair, error) {
	access, err := a.issuer.Generate(user)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to sign access token: %w", err)
	}

	refresh, err := a.refresh.Issue(ctx, user.ID)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh, ExpiresIn: a.issuer.TTL()}, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/josebdo/Cristal-Event-Planner/app/models"
	"github.com/josebdo/Cristal-Event-Planner/app/repositories"
	"github.com/josebdo/Cristal-Event-Planner/app/utils/metrics"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const tokenIssuer = "cristal-storefront"

// AccessClaims is the session credential kept in the cookie. It only names
// the principal; role and metadata are reloaded on every request.
type AccessClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type Session struct {
	AccessToken string
	ExpiresAt   time.Time
	User        *models.AuthUser
}

// IdentityService works with the end-user session credential.
type IdentityService struct {
	users  repositories.AuthUserRepositoryImpl
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIdentityService(users repositories.AuthUserRepositoryImpl, secret string, ttl time.Duration) *IdentityService {
	return &IdentityService{
		users:  users,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *IdentityService) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		metrics.SignInAttemptsTotal.WithLabelValues("rejected").Inc()
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		metrics.SignInAttemptsTotal.WithLabelValues("error").Inc()
		return nil, storeError(err)
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.SignInAttemptsTotal.WithLabelValues("rejected").Inc()
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	if err := s.users.TouchLastSignIn(ctx, user.ID, now); err != nil {
		zap.S().Warnw("IdentityService.SignIn: failed to stamp last sign-in", "user_id", user.ID, "error", err)
	} else {
		user.LastSignInAt = &now
	}

	token, expiresAt, err := s.issue(user, now)
	if err != nil {
		metrics.SignInAttemptsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	metrics.SignInAttemptsTotal.WithLabelValues("ok").Inc()
	return &Session{AccessToken: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *IdentityService) issue(user *models.AuthUser, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(s.ttl)
	claims := AccessClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

func (s *IdentityService) parse(token string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(s.now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// CurrentPrincipal validates the access token and reloads its principal.
// Any invalid or stale token yields ErrUnauthorized.
func (s *IdentityService) CurrentPrincipal(ctx context.Context, token string) (*models.AuthUser, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	claims, err := s.parse(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	user, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil {
		return nil, storeError(err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: principal %s no longer exists", ErrUnauthorized, claims.Subject)
	}
	return user, nil
}

// SignOut ends the session. Tokens are stateless, so this only records the
// event; the caller drops the cookie.
func (s *IdentityService) SignOut(ctx context.Context, token string) {
	if claims, err := s.parse(token); err == nil {
		zap.S().Infow("IdentityService.SignOut: signed out", "user_id", claims.Subject)
	}
}

package auth

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"fitsocial/backend/internal/config"
	"fitsocial/backend/pkg/jwt"
)

// ErrInvalidToken is returned for malformed, expired, revoked or mistyped tokens.
var ErrInvalidToken = jwt.ErrInvalidToken

// Blacklist remembers revoked refresh tokens by their jti until they expire.
type Blacklist interface {
	Add(ctx context.Context, jti string, ttl time.Duration) error
	Contains(ctx context.Context, jti string) (bool, error)
}

// Pair is what a successful login returns.
type Pair struct {
	Access  string
	Refresh string
}

// Tokens issues, refreshes and revokes JWTs.
type Tokens struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	blacklist  Blacklist
	logger     *zap.SugaredLogger
	now        func() time.Time
}

func NewTokens(cfg *config.Config, blacklist Blacklist, l *zap.SugaredLogger) *Tokens {
	return &Tokens{
		secret:     []byte(cfg.JWTSecret),
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
		blacklist:  blacklist,
		logger:     l,
		now:        time.Now,
	}
}

// Issue creates an access/refresh pair for userID.
func (t *Tokens) Issue(userID uint) (*Pair, error) {
	now := t.now()
	access, _, err := jwt.GenerateToken(t.secret, userID, jwt.TypeAccess, t.accessTTL, now)
	if err != nil {
		return nil, err
	}
	refresh, _, err := jwt.GenerateToken(t.secret, userID, jwt.TypeRefresh, t.refreshTTL, now)
	if err != nil {
		return nil, err
	}
	return &Pair{Access: access, Refresh: refresh}, nil
}

// Refresh exchanges a live refresh token for a new access token.
func (t *Tokens) Refresh(ctx context.Context, refresh string) (string, error) {
	claims, err := t.parseRefresh(ctx, refresh)
	if err != nil {
		return "", err
	}
	userID, err := claims.UserID()
	if err != nil {
		return "", err
	}

	access, _, err := jwt.GenerateToken(t.secret, userID, jwt.TypeAccess, t.accessTTL, t.now())
	return access, err
}

// Revoke blacklists a refresh token for the rest of its lifetime.
func (t *Tokens) Revoke(ctx context.Context, refresh string) error {
	claims, err := t.parseRefresh(ctx, refresh)
	if err != nil {
		return err
	}

	ttl := claims.ExpiresAt.Sub(t.now())
	if ttl <= 0 {
		return ErrInvalidToken
	}
	if err := t.blacklist.Add(ctx, claims.ID, ttl); err != nil {
		return errors.Wrap(err, "blacklist refresh token")
	}
	t.logger.Infow("refresh token revoked", "jti", claims.ID, "sub", claims.Subject)
	return nil
}

// Authenticate returns the user id carried by a valid access token.
func (t *Tokens) Authenticate(access string) (uint, error) {
	claims, err := jwt.ParseToken(t.secret, access, jwt.TypeAccess)
	if err != nil {
		return 0, err
	}
	return claims.UserID()
}

func (t *Tokens) parseRefresh(ctx context.Context, refresh string) (*jwt.Claims, error) {
	claims, err := jwt.ParseToken(t.secret, refresh, jwt.TypeRefresh)
	if err != nil {
		return nil, err
	}

	revoked, err := t.blacklist.Contains(ctx, claims.ID)
	if err != nil {
		return nil, errors.Wrap(err, "check blacklist")
	}
	if revoked {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

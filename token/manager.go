package token

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/go-session-service/internal/config"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Claims are the identity attributes embedded in an access credential at
// mint time. They are trusted only as far as the signature and expiry; no
// store lookup happens on verification.
type Claims struct {
	Email string  `json:"email"`
	Name  *string `json:"name,omitempty"`
	jwtlib.RegisteredClaims
}

// Manager mints and verifies signed access credentials. Verification is
// stateless: only the signing secret is required.
type Manager struct {
	secret []byte
	expiry time.Duration
}

func NewManager(secret string, cfg config.OAuthConfig) *Manager {
	return &Manager{
		secret: []byte(secret),
		expiry: cfg.GetAccessTokenExpiry(),
	}
}

// Mint creates a signed access credential carrying the user's identity
// claims.
func (m *Manager) Mint(email string, name *string) (string, error) {
	now := NowTimeFunc()
	claims := Claims{
		Email: email,
		Name:  name,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(m.expiry)),
			ID:        uuid.New().String(),
		},
	}
	return jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify checks signature and expiry and returns the embedded claims.
func (m *Manager) Verify(raw string) (*Claims, error) {
	if raw == "" {
		return nil, ErrMissingToken
	}
	parsed, err := jwtlib.ParseWithClaims(raw, &Claims{}, func(t *jwtlib.Token) (any, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	}, jwtlib.WithTimeFunc(func() time.Time { return NowTimeFunc() }))
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

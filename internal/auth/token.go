package auth

import (
	"context"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/shoplist/api/internal/models"
	appErr "github.com/shoplist/api/pkg/errors"
)

// TokenTTL is how long an issued token stays valid.
const TokenTTL = time.Hour

// Identity is the authenticated caller, derived once from a verified token.
type Identity struct {
	UserID   int64
	Username string
}

// Claims defines the JWT claims structure.
type Claims struct {
	Username string `json:"username"`
	UserID   int64  `json:"userId"`
	jwt.RegisteredClaims
}

// Token is a signed token and the instant it stops being accepted.
type Token struct {
	Value     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// TokenService issues and verifies HS256 tokens.
type TokenService struct {
	key      []byte
	issuer   string
	audience string
	now      func() time.Time
}

// NewTokenService builds a TokenService. An empty key is accepted here and
// reported as a configuration error on first use.
func NewTokenService(signingKey []byte, issuer, audience string) *TokenService {
	if audience == "" {
		audience = issuer
	}
	return &TokenService{key: signingKey, issuer: issuer, audience: audience, now: time.Now}
}

// WithClock replaces the time source. Used by tests.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

// Issue signs a token for user that expires TokenTTL from now.
func (s *TokenService) Issue(user models.User) (Token, error) {
	if len(s.key) == 0 {
		return Token{}, appErr.New(appErr.CodeMisconfigured, "token signing key is not configured")
	}

	issuedAt := s.now().UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(TokenTTL)
	claims := &Claims{
		Username: user.Username,
		UserID:   user.UserID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.UserID, 10),
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return Token{}, appErr.Wrap(err, appErr.CodeMisconfigured, "sign token failed")
	}
	return Token{Value: signed, ExpiresAt: expiresAt}, nil
}

// Parse verifies tokenStr and returns the identity it carries. Every failure
// (bad signature, wrong algorithm, issuer or audience, missing or past expiry)
// is reported as unauthorized.
func (s *TokenService) Parse(tokenStr string) (Identity, error) {
	if tokenStr == "" || len(s.key) == 0 {
		return Identity{}, appErr.New(appErr.CodeUnauthorized, "token is missing")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims,
		func(t *jwt.Token) (interface{}, error) { return s.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return Identity{}, appErr.Wrap(err, appErr.CodeUnauthorized, "token is invalid")
	}
	if claims.UserID <= 0 {
		return Identity{}, appErr.New(appErr.CodeUnauthorized, "token carries no user id")
	}
	return Identity{UserID: claims.UserID, Username: claims.Username}, nil
}

type identityKey struct{}

// NewContext returns ctx carrying id.
func NewContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext returns the identity stored by NewContext.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

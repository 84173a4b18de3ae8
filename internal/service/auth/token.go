package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	wrap "github.com/Temutjin2k/dispatch-engine/pkg/logger/wrapper"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const roleAdmin = "admin"

// Claims is what dispatch reads from an access token.
type Claims struct {
	TokenID   string
	Email     string
	Role      string
	ExpiresAt time.Time
}

func (c Claims) IsAdmin() bool {
	return c.Role == roleAdmin
}

// TokenService signs and validates HS256 access tokens.
type TokenService struct {
	secret string
	now    func() time.Time
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: secret, now: time.Now}
}

// Issue signs an access token for email. It backs operator tooling and tests;
// clients normally bring tokens minted by the identity provider.
func (s *TokenService) Issue(email, role string, ttl time.Duration) (string, error) {
	issuedAt := s.now().UTC()
	claims := jwt.MapClaims{
		"jti":   uuid.NewString(),
		"email": email,
		"role":  role,
		"iat":   issuedAt.Unix(),
		"exp":   issuedAt.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.secret))
}

// Validate parses token and returns its claims. The email claim is required.
func (s *TokenService) Validate(ctx context.Context, token string) (*Claims, error) {
	ctx = wrap.WithAction(ctx, "validate_token")

	parsed, err := jwt.ParseWithClaims(token, jwt.MapClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return []byte(s.secret), nil
	}, jwt.WithTimeFunc(s.now))
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, wrap.Error(ctx, ErrExpToken)
	}
	if err != nil || !parsed.Valid {
		return nil, wrap.Error(ctx, ErrInvalidToken)
	}

	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, wrap.Error(ctx, ErrInvalidToken)
	}

	email, _ := mc["email"].(string)
	if email == "" {
		return nil, wrap.Error(ctx, fmt.Errorf("%w: missing 'email' claim", ErrInvalidToken))
	}

	exp, err := mc.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%w: missing 'exp' claim", ErrInvalidToken))
	}

	tokenID, _ := mc["jti"].(string)
	role, _ := mc["role"].(string)

	return &Claims{
		TokenID:   tokenID,
		Email:     email,
		Role:      role,
		ExpiresAt: exp.Time,
	}, nil
}

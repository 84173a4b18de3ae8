package auth

import (
	"context"
	"strings"
	"sync"

	"github.com/Temutjin2k/dispatch-engine/internal/domain/models"
	"github.com/Temutjin2k/dispatch-engine/internal/domain/types"
	"github.com/Temutjin2k/dispatch-engine/pkg/hasher"
	"github.com/Temutjin2k/dispatch-engine/pkg/logger"
	"github.com/Temutjin2k/dispatch-engine/pkg/passhash"
)

const adminCacheSize = 64

// Authenticator resolves request credentials into a Caller.
type Authenticator struct {
	tokens    *TokenService
	adminHash string

	mu       sync.Mutex
	verified *hasher.Set

	log logger.Logger
}

// NewAuthenticator builds an authenticator. An empty adminHash disables X-Admin-Token.
func NewAuthenticator(tokens *TokenService, adminHash string, log logger.Logger) *Authenticator {
	return &Authenticator{
		tokens:    tokens,
		adminHash: adminHash,
		verified:  hasher.NewSet(adminCacheSize),
		log:       log,
	}
}

// Authenticate checks the admin token first, then the bearer token. With no
// credentials at all it returns an anonymous caller and no error; operations
// decide for themselves whether that is enough.
func (a *Authenticator) Authenticate(ctx context.Context, authorization, adminToken string) (models.Caller, error) {
	if adminToken != "" {
		if a.verifyAdmin(ctx, adminToken) {
			return models.Caller{Authenticated: true, Identity: types.AdminIdentity, Admin: true}, nil
		}
		return models.Caller{}, ErrInvalidToken
	}

	token, ok := strings.CutPrefix(authorization, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return models.Caller{}, nil
	}

	claims, err := a.tokens.Validate(ctx, strings.TrimSpace(token))
	if err != nil {
		return models.Caller{}, err
	}

	return models.Caller{
		Authenticated: true,
		Identity:      claims.Email,
		Admin:         claims.IsAdmin(),
	}, nil
}

func (a *Authenticator) verifyAdmin(ctx context.Context, token string) bool {
	if a.adminHash == "" {
		return false
	}

	a.mu.Lock()
	cached := a.verified.Contains(token)
	a.mu.Unlock()
	if cached {
		return true
	}

	ok, err := passhash.Verify(token, a.adminHash)
	if err != nil {
		a.log.Warn(ctx, "admin token hash is misconfigured", "error", err.Error())
		return false
	}
	if !ok {
		return false
	}

	a.mu.Lock()
	a.verified.Add(token)
	a.mu.Unlock()
	return true
}

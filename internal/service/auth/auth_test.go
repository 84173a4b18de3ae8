package auth

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/Temutjin2k/dispatch-engine/internal/domain/types"
	"github.com/Temutjin2k/dispatch-engine/pkg/logger"
	"github.com/Temutjin2k/dispatch-engine/pkg/passhash"
)

const testSecret = "test-secret"

func newTestAuthenticator(t *testing.T, adminToken string) *Authenticator {
	t.Helper()
	var hash string
	if adminToken != "" {
		var err error
		hash, err = passhash.HashWithIters(adminToken, 1000)
		if err != nil {
			t.Fatalf("hash: %v", err)
		}
	}
	return NewAuthenticator(NewTokenService(testSecret), hash, logger.New(io.Discard, "test", logger.LevelError))
}

func TestAuthenticateBearer(t *testing.T) {
	a := newTestAuthenticator(t, "")

	token, err := a.tokens.Issue("ops@example.com", "admin", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	c, err := a.Authenticate(t.Context(), "Bearer "+token, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.Authenticated || c.Identity != "ops@example.com" || !c.Admin {
		t.Errorf("unexpected caller %+v", c)
	}
}

func TestAuthenticateRejects(t *testing.T) {
	a := newTestAuthenticator(t, "")

	other := NewTokenService("another-secret")
	foreign, _ := other.Issue("x@example.com", "", time.Hour)

	expiredSvc := NewTokenService(testSecret)
	expiredSvc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _ := expiredSvc.Issue("x@example.com", "", time.Hour)

	noEmail, _ := a.tokens.Issue("", "", time.Hour)

	tests := []struct {
		name    string
		header  string
		wantErr error
	}{
		{name: "wrong signature", header: "Bearer " + foreign, wantErr: ErrInvalidToken},
		{name: "expired", header: "Bearer " + expired, wantErr: ErrExpToken},
		{name: "missing email", header: "Bearer " + noEmail, wantErr: ErrInvalidToken},
		{name: "garbage", header: "Bearer not-a-jwt", wantErr: ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := a.Authenticate(t.Context(), tt.header, "")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if c.Authenticated {
				t.Errorf("caller must not be authenticated")
			}
		})
	}
}

func TestAuthenticateAnonymous(t *testing.T) {
	a := newTestAuthenticator(t, "")

	for _, header := range []string{"", "Basic abc", "Bearer  "} {
		c, err := a.Authenticate(t.Context(), header, "")
		if err != nil || c.Authenticated {
			t.Errorf("header %q: got %+v %v, want anonymous", header, c, err)
		}
	}
}

func TestAuthenticateAdminToken(t *testing.T) {
	a := newTestAuthenticator(t, "root-token")

	for range 2 {
		c, err := a.Authenticate(t.Context(), "", "root-token")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !c.Authenticated || !c.Admin || c.Identity != types.AdminIdentity {
			t.Errorf("unexpected caller %+v", c)
		}
	}
	if !a.verified.Contains("root-token") {
		t.Error("verified admin token must be cached")
	}

	if _, err := a.Authenticate(t.Context(), "", "wrong"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("error = %v, want ErrInvalidToken", err)
	}
	if a.verified.Contains("wrong") {
		t.Error("rejected tokens must not be cached")
	}
}

func TestAdminTokenDisabledWithoutHash(t *testing.T) {
	a := newTestAuthenticator(t, "")

	if _, err := a.Authenticate(t.Context(), "", "anything"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("error = %v, want ErrInvalidToken", err)
	}
}

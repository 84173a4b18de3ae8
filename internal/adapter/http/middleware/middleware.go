package middleware

import (
	"context"

	"github.com/Temutjin2k/dispatch-engine/internal/domain/models"
	"github.com/Temutjin2k/dispatch-engine/pkg/logger"
)

type (
	Authenticator interface {
		Authenticate(ctx context.Context, authorization, adminToken string) (models.Caller, error)
	}

	Middleware struct {
		auth Authenticator
		log  logger.Logger
	}
)

func NewMiddleware(auth Authenticator, log logger.Logger) *Middleware {
	return &Middleware{
		auth: auth,
		log:  log,
	}
}

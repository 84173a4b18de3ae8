package handler

import (
	"context"
	"net/http"

	"github.com/Temutjin2k/dispatch-engine/internal/domain/models"
	"github.com/Temutjin2k/dispatch-engine/internal/domain/types"
	"github.com/Temutjin2k/dispatch-engine/pkg/logger"
	wrap "github.com/Temutjin2k/dispatch-engine/pkg/logger/wrapper"
)

type CreditService interface {
	RecoverMissed(ctx context.Context, caller models.Caller) (*models.RecoveryReport, error)
	AuditDuplicates(ctx context.Context, caller models.Caller) (*models.DuplicateReport, error)
}

type Admin struct {
	credits CreditService
	l       logger.Logger
}

func NewAdmin(credits CreditService, l logger.Logger) *Admin {
	return &Admin{
		credits: credits,
		l:       l,
	}
}

// RecoverCredits godoc
// @Summary      Recover missed credits
// @Description  Settles completed, paid reservations whose driver was never credited
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.RecoveryReport
// @Failure      401  {object}  map[string]any
// @Router       /admin/credits/recover [post]
func (h *Admin) RecoverCredits(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), types.ActionCreditRecovery)

	report, err := h.credits.RecoverMissed(ctx, models.CallerFromContext(ctx))
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "credit recovery failed", err)
		serviceErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{
		"success": report.Success,
		"message": report.Message,
		"count":   report.Count,
		"details": report.Details,
	}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w)
	}
}

// DuplicateCredits godoc
// @Summary      Audit duplicate credits
// @Description  Lists reservations credited more than once in the recent credit ledger
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.DuplicateReport
// @Failure      401  {object}  map[string]any
// @Router       /admin/credits/duplicates [get]
func (h *Admin) DuplicateCredits(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), types.ActionDuplicateAudit)

	report, err := h.credits.AuditDuplicates(ctx, models.CallerFromContext(ctx))
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "duplicate credit audit failed", err)
		serviceErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{
		"success":         report.Success,
		"message":         report.Message,
		"duplicate_count": report.DuplicateCount,
		"duplicates":      report.Duplicates,
	}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w)
	}
}

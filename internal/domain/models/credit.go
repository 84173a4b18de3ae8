package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditLogEntry is one successful settlement in the append-only ledger.
type CreditLogEntry struct {
	ID             string          `json:"id"`
	ReservationID  string          `json:"reservation_id"`
	DriverID       string          `json:"driver_id"`
	OperationID    string          `json:"operation_id"`
	Price          decimal.Decimal `json:"price"`
	DriverAmount   decimal.Decimal `json:"driver_amount"`
	PlatformAmount decimal.Decimal `json:"platform_amount"`
	BalanceBefore  decimal.Decimal `json:"balance_before"`
	BalanceAfter   decimal.Decimal `json:"balance_after"`
	Version        string          `json:"version"`
	Success        bool            `json:"success"`
	CreatedAt      time.Time       `json:"created_at"`
}

// CreditErrorEntry records a failed settlement attempt.
type CreditErrorEntry struct {
	ID            string    `json:"id"`
	ReservationID string    `json:"reservation_id"`
	DriverID      string    `json:"driver_id,omitempty"`
	OperationID   string    `json:"operation_id,omitempty"`
	Error         string    `json:"error"`
	CreatedAt     time.Time `json:"created_at"`
}

type RecoveryItem struct {
	ReservationID string           `json:"reservation_id"`
	Success       bool             `json:"success"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	Skipped       string           `json:"skipped,omitempty"`
	Error         string           `json:"error,omitempty"`
}

type RecoveryReport struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Count   int            `json:"count"`
	Details []RecoveryItem `json:"details"`
}

type DuplicateCredit struct {
	ReservationID string           `json:"reservation_id"`
	Count         int              `json:"count"`
	Total         decimal.Decimal  `json:"total"`
	Details       []CreditLogEntry `json:"details"`
}

type DuplicateReport struct {
	Success        bool              `json:"success"`
	Message        string            `json:"message"`
	DuplicateCount int               `json:"duplicate_count"`
	Duplicates     []DuplicateCredit `json:"duplicates"`
}

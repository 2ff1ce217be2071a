package model

import (
	"errors"
	"time"
)

const (
	AskStatusOpen       = "open"
	AskStatusInProgress = "in_progress"
	AskStatusFulfilled  = "fulfilled"
	AskStatusClosed     = "closed"
)

type Ask struct {
	ID             int64                  `json:"-"`
	AskID          string                 `json:"ask_id"`
	CreatorID      string                 `json:"creator_id"`
	Title          string                 `json:"title"`
	Description    string                 `json:"description"`
	AskType        string                 `json:"ask_type"`
	BudgetMinCents *int64                 `json:"budget_min_cents,omitempty"`
	BudgetMaxCents *int64                 `json:"budget_max_cents,omitempty"`
	Status         string                 `json:"status"`
	ResponseCount  int64                  `json:"response_count"`
	CreatedAt      time.Time              `json:"created_at"`
	MetaData       map[string]interface{} `json:"meta_data,omitempty"`
}

// IsValidAskStatus reports whether status belongs to the ask lifecycle.
func IsValidAskStatus(status string) bool {
	switch status {
	case AskStatusOpen, AskStatusInProgress, AskStatusFulfilled, AskStatusClosed:
		return true
	}
	return false
}

// ValidateBudget enforces budget ordering when both bounds are present.
func (a *Ask) ValidateBudget() error {
	if a.BudgetMinCents != nil && a.BudgetMaxCents != nil && *a.BudgetMinCents > *a.BudgetMaxCents {
		return errors.New("budget_min_cents cannot exceed budget_max_cents")
	}
	if a.BudgetMinCents != nil && *a.BudgetMinCents < 0 {
		return errors.New("budget_min_cents cannot be negative")
	}
	if a.BudgetMaxCents != nil && *a.BudgetMaxCents < 0 {
		return errors.New("budget_max_cents cannot be negative")
	}
	return nil
}

package summary

import (
	"context"
	"time"
)

type OverrideRepository interface {
	// GetWinning returns the override for (user, month) with the latest
	// approved_at, falling back to created_at, or nil when none exists.
	GetWinning(ctx context.Context, userID string, year int, month time.Month, orgID string) (*MonthlyOverride, error)
	Create(ctx context.Context, o MonthlyOverride) (MonthlyOverride, error)
}

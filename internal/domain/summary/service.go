package summary

import (
	"context"
	"time"
)

type SummaryService interface {
	// Monthly returns the merged monthly row for one user: system totals from
	// daily records, replaced field-by-field by the winning override.
	Monthly(ctx context.Context, userID string, year int, month time.Month, orgID string) (MonthlySummary, error)
}

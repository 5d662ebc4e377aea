package interfaces

import (
	"context"

	"trading-journal-stats/internal/types"
)

// MessageSource returns the journal messages inside any of the intervals,
// ordered by date.
type MessageSource interface {
	Fetch(ctx context.Context, intervals []types.DateInterval) ([]types.Message, error)
}

package interfaces

import "trading-journal-stats/internal/types"

type ReportRenderer interface {
	Render(r *types.Report) (string, error)
}

package interfaces

import "trading-journal-stats/internal/types"

type DealParser interface {
	Parse(raw string) (types.Deal, error)
}

package interfaces

import "trading-journal-stats/internal/types"

type Aggregator interface {
	Aggregate(deals []types.Deal, in types.AggregationInput) (*types.Report, error)
}

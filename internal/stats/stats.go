package stats

import (
	"trading-journal-stats/internal/interfaces"
	"trading-journal-stats/internal/types"
)

// Config holds the risk-result thresholds that classify a deal.
type Config struct {
	// ProfitThreshold is the smallest risk result counted as profitable.
	ProfitThreshold float64 `yaml:"profit_threshold"`
	// LossThreshold is the bound below which a deal is losing.
	LossThreshold float64 `yaml:"loss_threshold"`
}

func DefaultConfig() Config {
	return Config{
		ProfitThreshold: 0.4,
		LossThreshold:   -0.2,
	}
}

// Aggregator builds statistics reports from parsed deals.
type Aggregator struct {
	cfg Config
}

var _ interfaces.Aggregator = (*Aggregator)(nil)

func New(cfg Config) *Aggregator {
	return &Aggregator{cfg: cfg}
}

// NewTally returns an empty tally using the aggregator's thresholds.
func (a *Aggregator) NewTally() *Tally {
	return NewTally(a.cfg)
}

// Aggregate computes the report for deals in a single pass.
func (a *Aggregator) Aggregate(deals []types.Deal, in types.AggregationInput) (*types.Report, error) {
	t := NewTally(a.cfg)
	for _, d := range deals {
		t.Add(d)
	}
	return t.Finalize(in)
}

// ClassifyInterval names the shape of the reporting period. Several intervals are
// Custom. A single interval is judged by the difference of the days of month of
// its bounds: 7 is a Week and 30 a Month. The months themselves are ignored, so
// 25.01-01.02 is Custom even though it spans a week.
func ClassifyInterval(intervals []types.DateInterval) types.TimeInterval {
	if len(intervals) != 1 {
		return types.Custom
	}
	switch intervals[0].End.Day() - intervals[0].Start.Day() {
	case 7:
		return types.Week
	case 30:
		return types.Month
	default:
		return types.Custom
	}
}

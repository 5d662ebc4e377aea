package statsobs

import (
	"context"

	"trading-journal-stats/internal/interfaces"
	"trading-journal-stats/internal/logger"
	"trading-journal-stats/internal/trace"
	"trading-journal-stats/internal/types"
)

type observableAggregator struct {
	aggregator interfaces.Aggregator
}

var _ interfaces.Aggregator = (*observableAggregator)(nil)

func Wrap(aggregator interfaces.Aggregator) interfaces.Aggregator {
	return &observableAggregator{
		aggregator: aggregator,
	}
}

func (oa *observableAggregator) Aggregate(deals []types.Deal, in types.AggregationInput) (*types.Report, error) {
	ctx := context.Background()
	ctx, span := trace.StartSpan(ctx, "stats.Aggregate")
	defer span.End()

	logger.InfoSkip(ctx, 1, "Aggregating deal statistics",
		"deals", len(deals),
		"predictions_overall", in.PredictionsOverall,
		"intervals", len(in.DateIntervals),
	)

	report, err := oa.aggregator.Aggregate(deals, in)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Statistics aggregation failed", err,
			"deals", len(deals),
		)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "Statistics aggregated",
		"time_interval", report.TimeInterval.String(),
		"real_deals", report.DealsAndPredictions.DealsOverallCount,
		"net_profit", report.Finance.NetProfitTotal,
		"deposit_final", report.Finance.DepositFinal,
	)

	return report, nil
}

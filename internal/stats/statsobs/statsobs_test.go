package statsobs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"trading-journal-stats/internal/logger"
	"trading-journal-stats/internal/stats"
	"trading-journal-stats/internal/types"
)

func TestWrapLogsAggregation(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger.SetCore(core)

	a := Wrap(stats.New(stats.DefaultConfig()))
	in := types.AggregationInput{
		PredictionsOverall: 2,
		StartDeposit:       500,
		DateIntervals: []types.DateInterval{{
			Start: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC),
		}},
	}
	deals := []types.Deal{{ResultType: types.Real, RiskResult: 1, FinancialResult: 25}}

	r, err := a.Aggregate(deals, in)
	require.NoError(t, err)
	assert.Equal(t, types.Month, r.TimeInterval)

	done := logs.FilterMessage("Statistics aggregated").All()
	require.Len(t, done, 1)
	assert.Equal(t, "Month", done[0].ContextMap()["time_interval"])
	assert.Equal(t, 525.0, done[0].ContextMap()["deposit_final"])
}

func TestWrapLogsInvalidInput(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger.SetCore(core)

	_, err := Wrap(stats.New(stats.DefaultConfig())).Aggregate(nil, types.AggregationInput{})

	var invalid *stats.InvalidAggregationInputError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, 1, logs.FilterMessage("Statistics aggregation failed").Len())
}

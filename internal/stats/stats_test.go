package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading-journal-stats/internal/types"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func week() []types.DateInterval {
	return []types.DateInterval{{Start: day(2024, 3, 5), End: day(2024, 3, 12)}}
}

func input(predictions, successful int, deposit float64) types.AggregationInput {
	return types.AggregationInput{
		PredictionsOverall:    predictions,
		PredictionsSuccessful: successful,
		StartDeposit:          deposit,
		DateIntervals:         week(),
	}
}

func realDeal(m types.Market, s types.Scenario, rr, fin, commission float64) types.Deal {
	return types.Deal{
		Market:          m,
		Scenario:        s,
		ResultType:      types.Real,
		RiskResult:      rr,
		FinancialResult: fin,
		CommissionValue: commission,
	}
}

func TestAggregateSingleRealDeal(t *testing.T) {
	deals := []types.Deal{realDeal(types.Forex, types.Breakout, 0.5, 120, -2)}

	r, err := New(DefaultConfig()).Aggregate(deals, input(1, 1, 1000))
	require.NoError(t, err)

	assert.Equal(t, 1120.0, r.Finance.DepositFinal)
	assert.Equal(t, 12.0, r.Finance.DepositDifferencePercent)
	assert.Equal(t, 1000.0, r.Finance.DepositPrevious)
	assert.Equal(t, 120.0, r.Finance.NetProfitTotal)
	assert.Equal(t, -2.0, r.Finance.CommissionTotal)
	assert.Equal(t, 122.0, r.Finance.ProfitWithoutCommissionTotal)
	assert.Equal(t, -2.0, r.Finance.MoneyLossTotal)

	dp := r.DealsAndPredictions
	assert.Equal(t, 1, dp.DealsOverallCount)
	assert.Equal(t, 100.0, dp.DealsOverallPercent)
	assert.Equal(t, 1, dp.DealsProfitableCount)
	assert.Equal(t, 100.0, dp.DealsProfitablePercent)
	assert.Equal(t, 0.5, dp.TakeProfitPerDealAverage)
	assert.Zero(t, dp.StopLossPerDealAverage)
	assert.Equal(t, 0.5, dp.RisksEarnedTotal)
	assert.Equal(t, 0.5, dp.RisksProfitTotal)

	assert.Equal(t, types.Week, r.TimeInterval)
}

func TestAggregateAllIdeas(t *testing.T) {
	deals := []types.Deal{
		{Market: types.Crypto, Scenario: types.Rebound, ResultType: types.Idea, RiskResult: 3, FinancialResult: 500, CommissionValue: -5, RiskMoneyValue: 50},
		{Market: types.Moex, Scenario: types.Breakout, ResultType: types.Idea, RiskResult: -1, FinancialResult: -100, IsScenarioSuccessful: true},
	}

	r, err := New(DefaultConfig()).Aggregate(deals, input(5, 2, 1000))
	require.NoError(t, err)

	dp := r.DealsAndPredictions
	assert.Equal(t, 5, dp.PredictionsOverallCount)
	assert.Equal(t, 40.0, dp.PredictionsSuccessfulPercent)
	assert.Zero(t, dp.DealsOverallCount)
	assert.Zero(t, dp.DealsOverallPercent)
	assert.Zero(t, dp.DealsProfitablePercent)
	assert.Zero(t, dp.DealsLosingPercent)
	assert.Zero(t, dp.DealsBreakevenPercent)
	assert.Zero(t, dp.TakeProfitPerDealAverage)
	assert.Zero(t, dp.StopLossPerDealAverage)
	assert.Zero(t, dp.RisksEarnedTotal)
	assert.Zero(t, dp.RisksLostTotal)

	assert.Equal(t, types.Finance{DepositPrevious: 1000, DepositFinal: 1000}, r.Finance)

	crypto := r.Market(types.Crypto)
	assert.Equal(t, 1, crypto.PredictionsOverallCount)
	assert.Equal(t, 20.0, crypto.PredictionsShareOfTotalPercent)
	assert.Zero(t, crypto.DealsOverallCount)
	assert.Zero(t, crypto.DealsProfitablePercent)

	breakout := r.TradingStyle(types.Breakout)
	assert.Equal(t, 1, breakout.PredictionsSuccessfulCount)
	assert.Equal(t, 100.0, breakout.PredictionsSuccessfulPercent)
}

func TestAggregateMixedBatch(t *testing.T) {
	deals := []types.Deal{
		realDeal(types.Forex, types.Breakout, 2, 200, -3),
		realDeal(types.Forex, types.Rebound, -1, -100, -2),
		realDeal(types.Crypto, types.Breakout, 0.1, 5, -1),
		{Market: types.America, Scenario: types.FalseBreakout, ResultType: types.Demo, RiskResult: 1, FinancialResult: 0, CommissionValue: -1},
		{Market: types.America, Scenario: types.FalseBreakout, ResultType: types.Idea, RiskResult: 4},
	}
	deals[0].RiskMoneyValue = 100
	deals[1].RiskMoneyValue = 100
	deals[2].RiskMoneyValue = 50
	deals[3].RiskMoneyValue = 0

	r, err := New(DefaultConfig()).Aggregate(deals, input(8, 3, 2000))
	require.NoError(t, err)

	dp := r.DealsAndPredictions
	assert.Equal(t, 4, dp.DealsOverallCount)
	assert.Equal(t, 50.0, dp.DealsOverallPercent)
	assert.Equal(t, 2, dp.DealsProfitableCount)
	assert.Equal(t, 1, dp.DealsLosingCount)
	assert.Equal(t, 1, dp.DealsBreakevenCount)
	assert.Equal(t, 50.0, dp.DealsProfitablePercent)
	assert.Equal(t, 25.0, dp.DealsLosingPercent)
	assert.Equal(t, 25.0, dp.DealsBreakevenPercent)
	assert.Equal(t, 1.5, dp.TakeProfitPerDealAverage)
	assert.Equal(t, -1.0, dp.StopLossPerDealAverage)
	assert.Equal(t, 3.0, dp.RisksEarnedTotal)
	assert.Equal(t, -1.0, dp.RisksLostTotal)
	assert.Equal(t, 2.0, dp.RisksProfitTotal)

	f := r.Finance
	assert.Equal(t, 105.0, f.NetProfitTotal)
	assert.Equal(t, -7.0, f.CommissionTotal)
	assert.Equal(t, 112.0, f.ProfitWithoutCommissionTotal)
	// -3 (commission) -100 (loss) -1 (commission) -1 (commission, zero result)
	assert.Equal(t, -105.0, f.MoneyLossTotal)
	assert.Equal(t, 62.5, f.RiskMoneyPerDealAverage)
	assert.Equal(t, 2105.0, f.DepositFinal)
	// 5.25 rounds half to even.
	assert.Equal(t, 5.2, f.DepositDifferencePercent)

	forex := r.Market(types.Forex)
	assert.Equal(t, 2, forex.PredictionsOverallCount)
	assert.Equal(t, 25.0, forex.PredictionsShareOfTotalPercent)
	assert.Equal(t, 2, forex.DealsOverallCount)
	assert.Equal(t, 100.0, forex.DealsOverallPercent)
	assert.Equal(t, 50.0, forex.DealsProfitablePercent)
	assert.Equal(t, 50.0, forex.DealsLosingPercent)

	america := r.Market(types.America)
	assert.Equal(t, 2, america.PredictionsOverallCount)
	assert.Equal(t, 1, america.DealsOverallCount)
	assert.Equal(t, 50.0, america.DealsOverallPercent)

	assert.Equal(t, types.SubStatistics{}, r.Market(types.Moex))
}

func TestCountsPartitionDeals(t *testing.T) {
	var deals []types.Deal
	results := []float64{-2, -0.2, -0.21, 0, 0.39, 0.4, 1, 5}
	for i, rr := range results {
		d := realDeal(types.Market(i%types.MarketCount), types.Scenario(i%types.ScenarioCount), rr, 10, -1)
		if i%3 == 0 {
			d.ResultType = types.Demo
		}
		deals = append(deals, d)
	}
	deals = append(deals, types.Deal{ResultType: types.Idea, RiskResult: 10, FinancialResult: 1000})

	r, err := New(DefaultConfig()).Aggregate(deals, input(len(deals), 0, 100))
	require.NoError(t, err)

	dp := r.DealsAndPredictions
	assert.Equal(t, len(results), dp.DealsOverallCount)
	assert.Equal(t, dp.DealsOverallCount, dp.DealsProfitableCount+dp.DealsLosingCount+dp.DealsBreakevenCount)
	assert.Equal(t, 3, dp.DealsProfitableCount)
	assert.Equal(t, 2, dp.DealsLosingCount)
	assert.Equal(t, 3, dp.DealsBreakevenCount)

	for _, sub := range append(r.Markets[:], r.Scenarios[:]...) {
		assert.Equal(t, sub.DealsOverallCount, sub.DealsProfitableCount+sub.DealsLosingCount+sub.DealsBreakevenCount)
	}

	// The Idea deal's 1000 never reaches the finance block.
	assert.Equal(t, 80.0, r.Finance.NetProfitTotal)
}

func TestCustomThresholds(t *testing.T) {
	deals := []types.Deal{realDeal(types.Forex, types.Breakout, 0.5, 0, 0)}

	r, err := New(Config{ProfitThreshold: 1, LossThreshold: -1}).Aggregate(deals, input(1, 0, 100))
	require.NoError(t, err)
	assert.Equal(t, 1, r.DealsAndPredictions.DealsBreakevenCount)
	assert.Zero(t, r.DealsAndPredictions.DealsProfitableCount)
}

func TestRoundingIsHalfToEven(t *testing.T) {
	deals := []types.Deal{
		realDeal(types.Forex, types.Breakout, 0.5, 0.25, 0),
		realDeal(types.Forex, types.Breakout, 0.5, 0.1, 0),
	}

	r, err := New(DefaultConfig()).Aggregate(deals, input(3, 0, 100))
	require.NoError(t, err)
	// 0.35 -> 0.4 and 100.35 -> 100.4 but 0.25 -> 0.2 below
	assert.Equal(t, 0.4, r.Finance.NetProfitTotal)
	assert.Equal(t, 66.7, r.DealsAndPredictions.DealsOverallPercent)
	assert.Equal(t, 100.4, r.Finance.DepositFinal)

	r, err = New(DefaultConfig()).Aggregate(deals[:1], input(3, 1, 100))
	require.NoError(t, err)
	assert.Equal(t, 0.2, r.Finance.NetProfitTotal)
	assert.Equal(t, 33.3, r.DealsAndPredictions.PredictionsSuccessfulPercent)
}

func TestAggregateRejectsInvalidInput(t *testing.T) {
	good := input(1, 0, 100)

	tests := []struct {
		name   string
		mutate func(in *types.AggregationInput)
	}{
		{"zero predictions", func(in *types.AggregationInput) { in.PredictionsOverall = 0 }},
		{"negative successful", func(in *types.AggregationInput) { in.PredictionsSuccessful = -1 }},
		{"zero deposit", func(in *types.AggregationInput) { in.StartDeposit = 0 }},
		{"no intervals", func(in *types.AggregationInput) { in.DateIntervals = nil }},
		{"reversed interval", func(in *types.AggregationInput) {
			in.DateIntervals = []types.DateInterval{{Start: day(2024, 3, 12), End: day(2024, 3, 5)}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := good
			in.DateIntervals = week()
			tt.mutate(&in)

			r, err := New(DefaultConfig()).Aggregate(nil, in)
			assert.Nil(t, r)

			var invalid *InvalidAggregationInputError
			require.ErrorAs(t, err, &invalid)
			assert.NotEmpty(t, invalid.Reasons)
		})
	}
}

func TestClassifyInterval(t *testing.T) {
	tests := []struct {
		name      string
		intervals []types.DateInterval
		want      types.TimeInterval
	}{
		{"week", []types.DateInterval{{Start: day(2024, 3, 5), End: day(2024, 3, 12)}}, types.Week},
		{"month", []types.DateInterval{{Start: day(2024, 1, 1), End: day(2024, 1, 31)}}, types.Month},
		{"thirty-day february is custom", []types.DateInterval{{Start: day(2024, 2, 1), End: day(2024, 3, 2)}}, types.Custom},
		{"week across month boundary is custom", []types.DateInterval{{Start: day(2024, 1, 28), End: day(2024, 2, 4)}}, types.Custom},
		{"day-of-month difference of 7 across months", []types.DateInterval{{Start: day(2024, 1, 3), End: day(2024, 2, 10)}}, types.Week},
		{"single day", []types.DateInterval{{Start: day(2024, 3, 5), End: day(2024, 3, 5)}}, types.Custom},
		{"several intervals", append(week(), week()...), types.Custom},
		{"none", nil, types.Custom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyInterval(tt.intervals))
		})
	}
}

package stats

import (
	"github.com/shopspring/decimal"

	"trading-journal-stats/internal/types"
)

// bucket counts predictions and deals for the whole batch or one market/style.
type bucket struct {
	predictions           int
	predictionsSuccessful int
	deals                 int
	profitable            int
	losing                int
	breakeven             int
}

func (b *bucket) merge(o bucket) {
	b.predictions += o.predictions
	b.predictionsSuccessful += o.predictionsSuccessful
	b.deals += o.deals
	b.profitable += o.profitable
	b.losing += o.losing
	b.breakeven += o.breakeven
}

type outcome uint8

const (
	outcomeBreakeven outcome = iota
	outcomeProfitable
	outcomeLosing
)

func (b *bucket) addDeal(o outcome) {
	b.deals++
	switch o {
	case outcomeProfitable:
		b.profitable++
	case outcomeLosing:
		b.losing++
	default:
		b.breakeven++
	}
}

// Tally is a partial aggregate over a subset of deals. Tallies built over
// disjoint partitions can be merged in any order; sums are kept as decimals so
// the merged result does not depend on that order.
type Tally struct {
	cfg Config

	overall   bucket
	markets   [types.MarketCount]bucket
	scenarios [types.ScenarioCount]bucket

	netProfit   decimal.Decimal
	commission  decimal.Decimal
	riskMoney   decimal.Decimal
	moneyLoss   decimal.Decimal
	risksEarned decimal.Decimal
	risksLost   decimal.Decimal
}

func NewTally(cfg Config) *Tally {
	return &Tally{cfg: cfg}
}

func (t *Tally) classify(riskResult float64) outcome {
	switch {
	case riskResult >= t.cfg.ProfitThreshold:
		return outcomeProfitable
	case riskResult < t.cfg.LossThreshold:
		return outcomeLosing
	default:
		return outcomeBreakeven
	}
}

// Add folds one deal into the tally. Every deal is a prediction of its market
// and style; only Real and Demo deals reach the deal and money figures. A market
// or scenario outside the known variants counts toward the overall figures only.
func (t *Tally) Add(d types.Deal) {
	buckets := []*bucket{&t.overall}
	if int(d.Market) < types.MarketCount {
		buckets = append(buckets, &t.markets[d.Market])
	}
	if int(d.Scenario) < types.ScenarioCount {
		buckets = append(buckets, &t.scenarios[d.Scenario])
	}

	for _, b := range buckets {
		b.predictions++
		if d.IsScenarioSuccessful {
			b.predictionsSuccessful++
		}
	}

	if !d.IsReal() {
		return
	}

	o := t.classify(d.RiskResult)
	for _, b := range buckets {
		b.addDeal(o)
	}

	financial := decimal.NewFromFloat(d.FinancialResult)
	commission := decimal.NewFromFloat(d.CommissionValue)

	t.netProfit = t.netProfit.Add(financial)
	t.commission = t.commission.Add(commission)
	t.riskMoney = t.riskMoney.Add(decimal.NewFromFloat(d.RiskMoneyValue))
	if financial.IsNegative() {
		t.moneyLoss = t.moneyLoss.Add(financial)
	} else {
		t.moneyLoss = t.moneyLoss.Add(commission)
	}

	switch o {
	case outcomeProfitable:
		t.risksEarned = t.risksEarned.Add(decimal.NewFromFloat(d.RiskResult))
	case outcomeLosing:
		t.risksLost = t.risksLost.Add(decimal.NewFromFloat(d.RiskResult))
	}
}

// Merge adds o into t. o is left unchanged.
func (t *Tally) Merge(o *Tally) {
	t.overall.merge(o.overall)
	for i := range t.markets {
		t.markets[i].merge(o.markets[i])
	}
	for i := range t.scenarios {
		t.scenarios[i].merge(o.scenarios[i])
	}

	t.netProfit = t.netProfit.Add(o.netProfit)
	t.commission = t.commission.Add(o.commission)
	t.riskMoney = t.riskMoney.Add(o.riskMoney)
	t.moneyLoss = t.moneyLoss.Add(o.moneyLoss)
	t.risksEarned = t.risksEarned.Add(o.risksEarned)
	t.risksLost = t.risksLost.Add(o.risksLost)
}

// Deals returns the number of Real and Demo deals folded in so far.
func (t *Tally) Deals() int { return t.overall.deals }

// Predictions returns the number of deals of any result type folded in so far.
func (t *Tally) Predictions() int { return t.overall.predictions }

// Finalize turns the tally into a report. Prediction totals come from in, not
// from the deals: the trader counts predictions that never became journal entries.
func (t *Tally) Finalize(in types.AggregationInput) (*types.Report, error) {
	if err := in.Validate(); err != nil {
		return nil, newInvalidInputError(err)
	}

	r := &types.Report{
		TimeInterval:  ClassifyInterval(in.DateIntervals),
		DateIntervals: append([]types.DateInterval(nil), in.DateIntervals...),
	}

	dp := &r.DealsAndPredictions
	dp.PredictionsOverallCount = in.PredictionsOverall
	dp.PredictionsSuccessfulCount = in.PredictionsSuccessful
	dp.PredictionsSuccessfulPercent = percent(in.PredictionsSuccessful, in.PredictionsOverall)
	dp.DealsOverallCount = t.overall.deals
	dp.DealsOverallPercent = percent(t.overall.deals, in.PredictionsOverall)
	fillDealShares(&dp.DealCounts, t.overall)
	dp.TakeProfitPerDealAverage = average(t.risksEarned, t.overall.profitable)
	dp.StopLossPerDealAverage = average(t.risksLost, t.overall.losing)
	dp.RisksEarnedTotal = round(t.risksEarned, riskPlaces)
	dp.RisksLostTotal = round(t.risksLost, riskPlaces)
	dp.RisksProfitTotal = round(t.risksEarned.Sub(t.risksLost.Abs()), riskPlaces)

	start := decimal.NewFromFloat(in.StartDeposit)
	final := t.netProfit.Add(start).RoundBank(moneyPlaces)

	f := &r.Finance
	f.DepositPrevious = in.StartDeposit
	f.DepositFinal = final.InexactFloat64()
	f.DepositDifferencePercent = round(final.Sub(start).Div(start).Mul(hundred), percentPlaces)
	f.RiskMoneyPerDealAverage = average(t.riskMoney, t.overall.deals)
	f.CommissionTotal = round(t.commission, moneyPlaces)
	f.MoneyLossTotal = round(t.moneyLoss, moneyPlaces)
	f.ProfitWithoutCommissionTotal = round(t.netProfit.Add(t.commission.Abs()), moneyPlaces)
	f.NetProfitTotal = round(t.netProfit, moneyPlaces)

	for i, b := range t.markets {
		r.Markets[i] = subStatistics(b, in.PredictionsOverall)
	}
	for i, b := range t.scenarios {
		r.Scenarios[i] = subStatistics(b, in.PredictionsOverall)
	}

	return r, nil
}

func subStatistics(b bucket, predictionsOverall int) types.SubStatistics {
	s := types.SubStatistics{}
	s.PredictionsOverallCount = b.predictions
	s.PredictionsSuccessfulCount = b.predictionsSuccessful
	s.DealsOverallCount = b.deals
	fillDealShares(&s.DealCounts, b)

	// An empty bucket keeps zero percentages.
	if b.predictions == 0 {
		return s
	}
	s.PredictionsShareOfTotalPercent = percent(b.predictions, predictionsOverall)
	s.PredictionsSuccessfulPercent = percent(b.predictionsSuccessful, b.predictions)
	s.DealsOverallPercent = percent(b.deals, b.predictions)
	return s
}

func fillDealShares(c *types.DealCounts, b bucket) {
	c.DealsProfitableCount = b.profitable
	c.DealsLosingCount = b.losing
	c.DealsBreakevenCount = b.breakeven
	c.DealsProfitablePercent = percent(b.profitable, b.deals)
	c.DealsLosingPercent = percent(b.losing, b.deals)
	c.DealsBreakevenPercent = percent(b.breakeven, b.deals)
}

package types

import "github.com/go-playground/validator/v10"

// AggregationInput holds the figures the trader supplies by hand for one report.
type AggregationInput struct {
	PredictionsOverall    int            `json:"predictions_overall" validate:"gt=0"`
	PredictionsSuccessful int            `json:"predictions_successful" validate:"gte=0"`
	StartDeposit          float64        `json:"start_deposit" validate:"gt=0"`
	DateIntervals         []DateInterval `json:"date_intervals" validate:"min=1,dive"`
}

var inputValidator = validator.New()

// Validate checks the preconditions the aggregation divides by.
// Returns validator.ValidationErrors when a field is out of range.
func (in *AggregationInput) Validate() error {
	return inputValidator.Struct(in)
}

// DealCounts is the prediction/deal block shared by the overall and per-bucket statistics.
type DealCounts struct {
	PredictionsOverallCount      int     `json:"predictions_overall_count" yaml:"predictions_overall_count"`
	PredictionsSuccessfulCount   int     `json:"predictions_successful_count" yaml:"predictions_successful_count"`
	PredictionsSuccessfulPercent float64 `json:"predictions_successful_percent" yaml:"predictions_successful_percent"`
	DealsOverallCount            int     `json:"deals_overall_count" yaml:"deals_overall_count"`
	DealsOverallPercent          float64 `json:"deals_overall_percent" yaml:"deals_overall_percent"`
	DealsProfitableCount         int     `json:"deals_profitable_count" yaml:"deals_profitable_count"`
	DealsProfitablePercent       float64 `json:"deals_profitable_percent" yaml:"deals_profitable_percent"`
	DealsLosingCount             int     `json:"deals_losing_count" yaml:"deals_losing_count"`
	DealsLosingPercent           float64 `json:"deals_losing_percent" yaml:"deals_losing_percent"`
	DealsBreakevenCount          int     `json:"deals_breakeven_count" yaml:"deals_breakeven_count"`
	DealsBreakevenPercent        float64 `json:"deals_breakeven_percent" yaml:"deals_breakeven_percent"`
}

// DealsAndPredictions is the overall block of the report. Risk figures are in R.
type DealsAndPredictions struct {
	DealCounts `yaml:",inline"`

	TakeProfitPerDealAverage float64 `json:"take_profit_per_deal_average" yaml:"take_profit_per_deal_average"`
	StopLossPerDealAverage   float64 `json:"stop_loss_per_deal_average" yaml:"stop_loss_per_deal_average"`
	RisksEarnedTotal         float64 `json:"risks_earned_total" yaml:"risks_earned_total"`
	RisksLostTotal           float64 `json:"risks_lost_total" yaml:"risks_lost_total"`
	RisksProfitTotal         float64 `json:"risks_profit_total" yaml:"risks_profit_total"`
}

// SubStatistics is the block reported per market and per trading style.
type SubStatistics struct {
	DealCounts `yaml:",inline"`

	// PredictionsShareOfTotalPercent is this bucket's share of all predictions.
	PredictionsShareOfTotalPercent float64 `json:"predictions_share_of_total_percent" yaml:"predictions_share_of_total_percent"`
}

// Finance holds the money figures, in deposit currency.
type Finance struct {
	DepositPrevious              float64 `json:"deposit_previous" yaml:"deposit_previous"`
	DepositFinal                 float64 `json:"deposit_final" yaml:"deposit_final"`
	DepositDifferencePercent     float64 `json:"deposit_difference_percent" yaml:"deposit_difference_percent"`
	RiskMoneyPerDealAverage      float64 `json:"risk_money_per_deal_average" yaml:"risk_money_per_deal_average"`
	CommissionTotal              float64 `json:"commission_total" yaml:"commission_total"`
	MoneyLossTotal               float64 `json:"money_loss_total" yaml:"money_loss_total"`
	ProfitWithoutCommissionTotal float64 `json:"profit_without_commission_total" yaml:"profit_without_commission_total"`
	NetProfitTotal               float64 `json:"net_profit_total" yaml:"net_profit_total"`
}

// Report is the statistics report for one reporting request. It is built once and
// not modified afterwards.
type Report struct {
	TimeInterval        TimeInterval        `json:"time_interval" yaml:"time_interval"`
	DateIntervals       []DateInterval      `json:"date_intervals" yaml:"date_intervals"`
	DealsAndPredictions DealsAndPredictions `json:"deals_and_predictions" yaml:"deals_and_predictions"`
	Finance             Finance             `json:"finance" yaml:"finance"`

	Markets   [MarketCount]SubStatistics   `json:"markets" yaml:"markets"`
	Scenarios [ScenarioCount]SubStatistics `json:"trading_styles" yaml:"trading_styles"`
}

// Market returns the sub-statistics of m.
func (r *Report) Market(m Market) SubStatistics { return r.Markets[m] }

// TradingStyle returns the sub-statistics of s.
func (r *Report) TradingStyle(s Scenario) SubStatistics { return r.Scenarios[s] }

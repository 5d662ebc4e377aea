package types

import "time"

// Deal is one trading event extracted from a journal message.
// Fields absent from the message keep their zero value.
type Deal struct {
	Asset                  string        `json:"asset" yaml:"asset"`
	Market                 Market        `json:"market" yaml:"market"`
	Datetime               time.Time     `json:"datetime" yaml:"datetime"`
	Scenario               Scenario      `json:"scenario" yaml:"scenario"`
	ScenarioAdditionalInfo string        `json:"scenario_additional_info,omitempty" yaml:"scenario_additional_info,omitempty"`
	Direction              Direction     `json:"direction" yaml:"direction"`
	DealType               DealType      `json:"deal_type" yaml:"deal_type"`
	InfoSource             string        `json:"info_source,omitempty" yaml:"info_source,omitempty"`
	PriceLevel             string        `json:"price_level,omitempty" yaml:"price_level,omitempty"`
	MoveEnergy             string        `json:"move_energy,omitempty" yaml:"move_energy,omitempty"`
	DayTradingVolume       string        `json:"day_trading_volume,omitempty" yaml:"day_trading_volume,omitempty"`
	GlobalTrendDirection   Direction     `json:"global_trend_direction" yaml:"global_trend_direction"`
	LocalTrendDirection    Direction     `json:"local_trend_direction" yaml:"local_trend_direction"`
	EntryPoint             string        `json:"entry_point,omitempty" yaml:"entry_point,omitempty"`
	StopLoss               string        `json:"stop_loss,omitempty" yaml:"stop_loss,omitempty"`
	Preconditions          []string      `json:"preconditions,omitempty" yaml:"preconditions,omitempty"`
	IsScenarioSuccessful   bool          `json:"is_scenario_successful" yaml:"is_scenario_successful"`
	IsScenarioSystemic     bool          `json:"is_scenario_systemic" yaml:"is_scenario_systemic"`
	Duration               time.Duration `json:"duration" yaml:"duration"`
	ResultType             ResultType    `json:"result_type" yaml:"result_type"`
	RiskResult             float64       `json:"risk_result" yaml:"risk_result"`
	RiskPotential          float64       `json:"risk_potential" yaml:"risk_potential"`
	ReEntriesCount         int           `json:"re_entries_count" yaml:"re_entries_count"`
	RiskMoneyValue         float64       `json:"risk_money_value" yaml:"risk_money_value"`
	AssetVolume            float64       `json:"asset_volume" yaml:"asset_volume"`
	AssetMoneyVolume       float64       `json:"asset_money_volume" yaml:"asset_money_volume"`
	CommissionValue        float64       `json:"commission_value" yaml:"commission_value"`
	FinancialResult        float64       `json:"financial_result" yaml:"financial_result"`
	MistakesText           string        `json:"mistakes_text,omitempty" yaml:"mistakes_text,omitempty"`
	CommentText            string        `json:"comment_text,omitempty" yaml:"comment_text,omitempty"`
}

// IsReal reports whether the deal was traded (Real or Demo).
func (d Deal) IsReal() bool { return d.ResultType.IsReal() }

// Message is a raw journal message as delivered by a message source.
type Message struct {
	ID   int64     `json:"id"`
	Date time.Time `json:"date"`
	Text string    `json:"text"`
}

// DateInterval is a closed reporting period.
type DateInterval struct {
	Start time.Time `json:"start" yaml:"start" validate:"required"`
	End   time.Time `json:"end" yaml:"end" validate:"required,gtefield=Start"`
}

// Contains reports whether t lies inside the interval, bounds included.
func (i DateInterval) Contains(t time.Time) bool {
	return !t.Before(i.Start) && !t.After(i.End)
}

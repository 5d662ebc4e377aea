package parser

import "strings"

type field uint8

const (
	fieldDate field = iota
	fieldScenarioInfo
	fieldInfoSource
	fieldPriceLevel
	fieldMoveEnergy
	fieldDayTradingVolume
	fieldGlobalTrend
	fieldLocalTrend
	fieldEntryPoint
	fieldStopLoss
	fieldPreconditions
	fieldScenarioSuccessful
	fieldScenarioSystemic
	fieldDuration
	fieldTradeResult
	fieldPotential
	fieldReEntries
	fieldRisk
	fieldVolume
	fieldCommission
	fieldFinancialResult
	fieldMistakes
	fieldComment
)

// Journal labels in match order; the first label found in a line wins.
const (
	labelDate               = "Дата:"
	labelScenarioInfo       = "Сценарий:"
	labelInfoSource         = "Источник:"
	labelPriceLevel         = "Уровень:"
	labelMoveEnergy         = "Энергия:"
	labelDayTradingVolume   = "Объем торгов:"
	labelGlobalTrend        = "Глобал. тренд:"
	labelLocalTrend         = "Локал. тренд:"
	labelEntryPoint         = "ТВХ:"
	labelStopLoss           = "СЛ:"
	labelPreconditions      = "Предпосылки"
	labelScenarioSuccessful = "Отработка сценария:"
	labelScenarioSystemic   = "Системная сделка:"
	labelDuration           = "Продолжительность:"
	labelTradeResult        = "Торговый результат:"
	labelPotential          = "Потенциал:"
	labelReEntries          = "Перезаходы:"
	labelRisk               = "Риск:"
	labelVolume             = "Объем:"
	labelCommission         = "Комиссия:"
	labelFinancialResult    = "Фин.рез:"
	labelMistakes           = "Ошибки:"
	labelComment            = "Коммент:"
)

var lineLabels = []struct {
	label string
	field field
}{
	{labelDate, fieldDate},
	{labelScenarioInfo, fieldScenarioInfo},
	{labelInfoSource, fieldInfoSource},
	{labelPriceLevel, fieldPriceLevel},
	{labelMoveEnergy, fieldMoveEnergy},
	{labelDayTradingVolume, fieldDayTradingVolume},
	{labelGlobalTrend, fieldGlobalTrend},
	{labelLocalTrend, fieldLocalTrend},
	{labelEntryPoint, fieldEntryPoint},
	{labelStopLoss, fieldStopLoss},
	{labelPreconditions, fieldPreconditions},
	{labelScenarioSuccessful, fieldScenarioSuccessful},
	{labelScenarioSystemic, fieldScenarioSystemic},
	{labelDuration, fieldDuration},
	{labelTradeResult, fieldTradeResult},
	{labelPotential, fieldPotential},
	{labelReEntries, fieldReEntries},
	{labelRisk, fieldRisk},
	{labelVolume, fieldVolume},
	{labelCommission, fieldCommission},
	{labelFinancialResult, fieldFinancialResult},
	{labelMistakes, fieldMistakes},
	{labelComment, fieldComment},
}

func matchLabel(line string) (field, bool) {
	for _, l := range lineLabels {
		if strings.Contains(line, l.label) {
			return l.field, true
		}
	}
	return 0, false
}

// skippedForIdea lists the lines that carry money figures an Idea does not have.
func skippedForIdea(f field) bool {
	switch f {
	case fieldReEntries, fieldRisk, fieldVolume, fieldCommission, fieldFinancialResult:
		return true
	}
	return false
}

// lineValue returns the text after the first colon without trailing "." and ";".
func lineValue(line string) string {
	_, v, ok := strings.Cut(line, ":")
	if !ok {
		return ""
	}
	return strings.TrimSpace(strings.TrimRight(strings.TrimSpace(v), ".;"))
}

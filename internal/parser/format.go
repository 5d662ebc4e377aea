package parser

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"trading-journal-stats/internal/types"
)

const formatDateLayout = "02.01.2006 15:04"

// Format writes d back as a journal message in the layout Parse reads. Dates are
// written to the minute. Money lines are left out for Idea deals.
func Format(d types.Deal) string {
	var b strings.Builder

	fmt.Fprintf(&b, "#%s %s #%s #%s #%s\n", d.Market, d.Asset, d.Scenario, d.Direction, d.DealType)
	if !d.Datetime.IsZero() {
		writeLine(&b, labelDate, d.Datetime.Format(formatDateLayout))
	}
	writeLine(&b, labelScenarioInfo, d.ScenarioAdditionalInfo)
	writeLine(&b, labelInfoSource, d.InfoSource)
	writeLine(&b, labelPriceLevel, d.PriceLevel)
	writeLine(&b, labelMoveEnergy, d.MoveEnergy)
	writeLine(&b, labelDayTradingVolume, d.DayTradingVolume)
	writeLine(&b, labelGlobalTrend, trendWord(d.GlobalTrendDirection))
	writeLine(&b, labelLocalTrend, trendWord(d.LocalTrendDirection))
	writeLine(&b, labelEntryPoint, d.EntryPoint)
	writeLine(&b, labelStopLoss, d.StopLoss)

	if len(d.Preconditions) > 0 {
		b.WriteString(labelPreconditions + ":\n")
		for _, p := range d.Preconditions {
			b.WriteString(p + ";\n")
		}
		b.WriteString("\n")
	}

	writeLine(&b, labelScenarioSuccessful, yesNo(d.IsScenarioSuccessful))
	writeLine(&b, labelScenarioSystemic, yesNo(d.IsScenarioSystemic))
	writeLine(&b, labelDuration, formatDuration(d.Duration))
	writeLine(&b, labelTradeResult, fmt.Sprintf("#%s %sR", d.ResultType, formatNumber(d.RiskResult)))
	writeLine(&b, labelPotential, formatNumber(d.RiskPotential)+"R")

	if d.ResultType != types.Idea {
		writeLine(&b, labelReEntries, strconv.Itoa(d.ReEntriesCount))
		writeLine(&b, labelRisk, formatNumber(d.RiskMoneyValue)+"$")
		writeLine(&b, labelVolume, fmt.Sprintf("%s (%s$)", formatNumber(d.AssetVolume), formatNumber(d.AssetMoneyVolume)))
		writeLine(&b, labelCommission, formatNumber(d.CommissionValue)+"$")
		writeLine(&b, labelFinancialResult, formatNumber(d.FinancialResult)+"$")
	}

	writeLine(&b, labelMistakes, d.MistakesText)
	if d.CommentText != "" {
		b.WriteString(labelComment + " " + d.CommentText + "\n")
	}

	return b.String()
}

func writeLine(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	b.WriteString(label + " " + value + ".\n")
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)
	switch {
	case h == 0:
		return fmt.Sprintf("%dм", m)
	case m == 0:
		return fmt.Sprintf("%dч", h)
	default:
		return fmt.Sprintf("%dч %dм", h, m)
	}
}

func trendWord(d types.Direction) string {
	switch d {
	case types.Long:
		return "лонг"
	case types.Short:
		return "шорт"
	default:
		return "флэт"
	}
}

func yesNo(v bool) string {
	if v {
		return "да"
	}
	return "нет"
}

package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"

	"trading-journal-stats/internal/interfaces"
	"trading-journal-stats/internal/types"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Format specifies the output format of a statistics report
type Format string

const (
	FormatHTML     Format = "html"
	FormatTerminal Format = "terminal"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

const dateLayout = "02.01.2006"

// Options are the trader-supplied parts of the text report.
type Options struct {
	Comment   string
	Signature string
}

// Renderer turns a statistics report into text
type Renderer struct {
	format Format
	opts   Options
	markup markup
}

var _ interfaces.ReportRenderer = (*Renderer)(nil)

// New creates a renderer for format
func New(format Format, opts Options) (*Renderer, error) {
	r := &Renderer{format: format, opts: opts}
	switch format {
	case FormatHTML:
		r.markup = htmlMarkup{}
	case FormatTerminal:
		r.markup = newTerminalMarkup()
	case FormatJSON, FormatYAML:
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
	return r, nil
}

// Render serializes the report in the renderer's format
func (r *Renderer) Render(rep *types.Report) (string, error) {
	switch r.format {
	case FormatJSON:
		data, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data), nil
	case FormatYAML:
		data, err := yaml.Marshal(rep)
		if err != nil {
			return "", err
		}
		return string(data), nil
	default:
		return r.renderText(rep), nil
	}
}

// Save renders the report and writes it to path, creating the directory if needed
func (r *Renderer) Save(rep *types.Report, path string) error {
	content, err := r.Render(rep)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

func (r *Renderer) renderText(rep *types.Report) string {
	m := r.markup
	dp := rep.DealsAndPredictions
	f := rep.Finance

	var sb strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&sb, format, args...)
		sb.WriteString("\n")
	}

	line("Итог %s", intervalName(rep.TimeInterval))
	for _, di := range rep.DateIntervals {
		line("%s - %s", di.Start.Format(dateLayout), di.End.Format(dateLayout))
	}
	line("• Фин.рез: %s$", signed(f.NetProfitTotal))
	line("• Депо: %s$ => %s$ (%s%%)", num(f.DepositPrevious), num(f.DepositFinal), signed(f.DepositDifferencePercent))
	line("")

	line("%s", m.Bold(m.Underline("Общая статистика по сделкам")))
	line("")
	line("• Всего прогнозов: %d", dp.PredictionsOverallCount)
	line("• Успешные прогнозы: %s", ratio(dp.PredictionsSuccessfulCount, dp.PredictionsOverallCount, dp.PredictionsSuccessfulPercent))
	line("")
	line("• Всего сделок: %s", ratio(dp.DealsOverallCount, dp.PredictionsOverallCount, dp.DealsOverallPercent))
	line("• Прибыльные сделки: %s", ratio(dp.DealsProfitableCount, dp.DealsOverallCount, dp.DealsProfitablePercent))
	line("• Убыточные сделки: %s", ratio(dp.DealsLosingCount, dp.DealsOverallCount, dp.DealsLosingPercent))
	line("• Безубыточные сделки: %s", ratio(dp.DealsBreakevenCount, dp.DealsOverallCount, dp.DealsBreakevenPercent))
	line("• Средний тейк на сделку: %sR", num(dp.TakeProfitPerDealAverage))
	line("• Средний лосс на сделку: %sR", num(dp.StopLossPerDealAverage))
	line("• Всего заработано рисков: %sR", signed(dp.RisksEarnedTotal))
	line("• Убыток в рисках: %sR", num(dp.RisksLostTotal))
	line("• Прибыль в рисках: %sR", signed(dp.RisksProfitTotal))
	line("")

	line("%s", m.Bold(m.Underline("Финансовый результат")))
	line("")
	line("• Риск на сделку (средний): %s$", num(f.RiskMoneyPerDealAverage))
	line("• Общая комиссия: %s$", num(f.CommissionTotal))
	line("• Общий убыток: %s$", num(f.MoneyLossTotal))
	line("• Прибыль (без комиссии): %s$", signed(f.ProfitWithoutCommissionTotal))
	line("• Прибыль (чистая): %s$", signed(f.NetProfitTotal))
	line("")
	line("• Депо: %s => %s (%s%%)", num(f.DepositPrevious), num(f.DepositFinal), signed(f.DepositDifferencePercent))
	line("")

	line("%s", m.Bold(m.Underline("Статистика по рынкам")))
	line("")
	for _, mk := range types.Markets() {
		r.writeSub(&sb, strings.ToUpper(mk.String()), rep.Market(mk), dp.PredictionsOverallCount)
		line("")
	}

	line("%s", m.Bold(m.Underline("Статистика по стилям торговли")))
	line("")
	for _, s := range types.Scenarios() {
		r.writeSub(&sb, s.String(), rep.TradingStyle(s), dp.PredictionsOverallCount)
		line("")
	}

	line("%s:", m.Bold(m.Underline("Коммент")))
	line("")
	if c := strings.TrimSpace(r.opts.Comment); c != "" {
		line("%s", m.Escape(c))
		line("")
	}
	if r.opts.Signature != "" {
		line("%s", m.Italic(m.Escape(r.opts.Signature)))
	}
	line("#%s", strings.ToUpper(rep.TimeInterval.String()))

	return sb.String()
}

func (r *Renderer) writeSub(sb *strings.Builder, label string, s types.SubStatistics, allPredictions int) {
	m := r.markup
	fmt.Fprintf(sb, "%s:\n", m.Italic(m.Underline(label)))
	fmt.Fprintf(sb, "• Всего прогнозов: %s\n", ratio(s.PredictionsOverallCount, allPredictions, s.PredictionsShareOfTotalPercent))
	fmt.Fprintf(sb, "• Успешные прогнозы: %s\n", ratio(s.PredictionsSuccessfulCount, s.PredictionsOverallCount, s.PredictionsSuccessfulPercent))
	fmt.Fprintf(sb, "• Всего сделок: %s\n", ratio(s.DealsOverallCount, s.PredictionsOverallCount, s.DealsOverallPercent))
	fmt.Fprintf(sb, "• Успешные сделки: %s\n", ratio(s.DealsProfitableCount, s.DealsOverallCount, s.DealsProfitablePercent))
	fmt.Fprintf(sb, "• Убыточные сделки: %s\n", ratio(s.DealsLosingCount, s.DealsOverallCount, s.DealsLosingPercent))
	fmt.Fprintf(sb, "• Безубыточные сделки: %s\n", ratio(s.DealsBreakevenCount, s.DealsOverallCount, s.DealsBreakevenPercent))
}

func intervalName(t types.TimeInterval) string {
	switch t {
	case types.Week:
		return "недели"
	case types.Month:
		return "месяца"
	default:
		return "за период"
	}
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// signed prints +x for positive, -x for negative and 0 for zero.
func signed(v float64) string {
	switch {
	case v > 0:
		return "+" + num(v)
	case v < 0:
		return num(v)
	default:
		return "0"
	}
}

func ratio(part, whole int, pct float64) string {
	return fmt.Sprintf("%d/%d (%s%%)", part, whole, num(pct))
}

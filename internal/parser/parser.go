package parser

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"trading-journal-stats/internal/types"
)

// Config controls the locale-dependent parts of parsing.
type Config struct {
	// DateLayouts are tried in order against the value of the date line.
	DateLayouts []string
	// Location is used for dates without an explicit zone.
	Location *time.Location
}

// DefaultDateLayouts covers the formats seen in journal entries. Day and month
// accept one or two digits.
var DefaultDateLayouts = []string{
	"2.1.2006 15:04",
	"2.1.2006 15:04:05",
	"2.1.2006, 15:04",
	"2.1.2006",
	"2.1.06 15:04",
	"2.1.06",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02",
}

func DefaultConfig() Config {
	return Config{DateLayouts: DefaultDateLayouts, Location: time.UTC}
}

// Parser turns journal message bodies into deals. It holds no state between calls
// and is safe for concurrent use.
type Parser struct {
	cfg Config
}

func New(cfg Config) *Parser {
	if len(cfg.DateLayouts) == 0 {
		cfg.DateLayouts = DefaultDateLayouts
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Parser{cfg: cfg}
}

// parseState is the per-message context. Lines are handled in document order, so
// resultType is whatever the "Торговый результат" line has set so far.
type parseState struct {
	deal       types.Deal
	lines      []string
	pos        int
	resultSeen bool

	// Casers are stateful, one pair per message.
	title cases.Caser
	lower cases.Caser
}

func (s *parseState) next() (string, bool) {
	if s.pos >= len(s.lines) {
		return "", false
	}
	line := s.lines[s.pos]
	s.pos++
	return line, true
}

// Parse extracts a deal from one message body. Unknown lines are ignored; the first
// line that cannot be interpreted aborts the whole message.
func (p *Parser) Parse(raw string) (types.Deal, error) {
	st := &parseState{
		lines: splitLines(raw),
		title: cases.Title(language.Und),
		lower: cases.Lower(language.Russian),
	}

	header, _ := st.next()
	if err := st.parseFirstLine(header); err != nil {
		return types.Deal{}, &MalformedRecordError{LineNo: 1, Line: header, Cause: err}
	}

	for {
		line, ok := st.next()
		if !ok {
			break
		}
		f, ok := matchLabel(line)
		if !ok {
			continue
		}
		if f == fieldComment {
			st.parseComment(line)
			break
		}
		if err := p.apply(st, f, line); err != nil {
			return types.Deal{}, &MalformedRecordError{LineNo: st.pos, Line: line, Cause: err}
		}
	}

	return st.deal, nil
}

func splitLines(raw string) []string {
	if raw == "" {
		return nil
	}
	lines := strings.Split(raw, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, "\r")
	}
	return lines
}

// parseFirstLine reads "#<market> <asset> #<scenario> #<direction> [#<deal-type>]".
func (s *parseState) parseFirstLine(line string) error {
	words := strings.Fields(line)
	if len(words) == 0 {
		return ErrMissingFirstLine
	}
	if len(words) < 4 {
		return fmt.Errorf("%w: want at least 4 header tokens, got %d", ErrMissingToken, len(words))
	}

	market, err := types.ParseMarketName(s.title.String(stripHash(words[0])))
	if err != nil {
		return err
	}
	scenario, err := types.ParseScenario(stripHash(words[2]))
	if err != nil {
		return err
	}
	direction, err := types.ParseDirection(stripHash(words[3]))
	if err != nil {
		return err
	}
	dealType := types.OneDayRegular
	if len(words) >= 5 && stripHash(words[4]) != "" {
		if dealType, err = types.ParseDealType(stripHash(words[4])); err != nil {
			return err
		}
	}

	s.deal.Market = market
	s.deal.Asset = words[1]
	s.deal.Scenario = scenario
	s.deal.Direction = direction
	s.deal.DealType = dealType
	return nil
}

func (p *Parser) apply(s *parseState, f field, line string) error {
	if skippedForIdea(f) && s.resultSeen && s.deal.ResultType == types.Idea {
		return nil
	}

	v := lineValue(line)
	d := &s.deal

	switch f {
	case fieldDate:
		t, err := p.parseDate(v)
		if err != nil {
			return err
		}
		d.Datetime = t
	case fieldScenarioInfo:
		d.ScenarioAdditionalInfo = v
	case fieldInfoSource:
		d.InfoSource = v
	case fieldPriceLevel:
		d.PriceLevel = v
	case fieldMoveEnergy:
		d.MoveEnergy = v
	case fieldDayTradingVolume:
		d.DayTradingVolume = v
	case fieldGlobalTrend:
		d.GlobalTrendDirection = s.trendDirection(v)
	case fieldLocalTrend:
		d.LocalTrendDirection = s.trendDirection(v)
	case fieldEntryPoint:
		d.EntryPoint = v
	case fieldStopLoss:
		d.StopLoss = v
	case fieldPreconditions:
		d.Preconditions = s.readPreconditions()
	case fieldScenarioSuccessful:
		d.IsScenarioSuccessful = s.isYes(v)
	case fieldScenarioSystemic:
		d.IsScenarioSystemic = s.isYes(v)
	case fieldDuration:
		dur, err := parseDuration(v)
		if err != nil {
			return err
		}
		d.Duration = dur
	case fieldTradeResult:
		rt, rr, err := parseTradeResult(v)
		if err != nil {
			return err
		}
		d.ResultType, d.RiskResult = rt, rr
		s.resultSeen = true
	case fieldPotential:
		rp, err := parsePotential(v)
		if err != nil {
			return err
		}
		d.RiskPotential = rp
	case fieldReEntries:
		n, err := parseReEntries(v)
		if err != nil {
			return err
		}
		d.ReEntriesCount = n
	case fieldRisk:
		d.RiskMoneyValue = ParseTolerant(v)
	case fieldVolume:
		d.AssetVolume, d.AssetMoneyVolume = parseVolume(v)
	case fieldCommission:
		d.CommissionValue = parseLeadingAmount(v)
	case fieldFinancialResult:
		d.FinancialResult = parseLeadingAmount(v)
	case fieldMistakes:
		d.MistakesText = v
	}
	return nil
}

func (p *Parser) parseDate(v string) (time.Time, error) {
	for _, layout := range p.cfg.DateLayouts {
		if t, err := time.ParseInLocation(layout, v, p.cfg.Location); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrBadDate, v)
}

func (s *parseState) trendDirection(v string) types.Direction {
	lv := s.lower.String(v)
	switch {
	case strings.Contains(lv, "лонг"):
		return types.Long
	case strings.Contains(lv, "шорт"):
		return types.Short
	default:
		return types.Flat
	}
}

func (s *parseState) isYes(v string) bool {
	return strings.Contains(s.lower.String(v), "да")
}

// readPreconditions consumes lines up to the next blank line or the end of input.
func (s *parseState) readPreconditions() []string {
	var out []string
	for {
		line, ok := s.next()
		if !ok || strings.TrimSpace(line) == "" {
			return out
		}
		out = append(out, strings.TrimSpace(strings.TrimRight(strings.TrimSpace(line), ";.")))
	}
}

// parseComment takes the rest of the message verbatim; it is always the last section.
func (s *parseState) parseComment(line string) {
	_, first, _ := strings.Cut(line, ":")
	parts := []string{first}
	for {
		l, ok := s.next()
		if !ok {
			break
		}
		parts = append(parts, l)
	}
	s.deal.CommentText = strings.TrimSpace(strings.Join(parts, "\n"))
}

// parseDuration reads values such as "1ч 30м", "45м" or "2ч".
func parseDuration(v string) (time.Duration, error) {
	var hours, minutes int
	for _, w := range strings.Fields(v) {
		if h, rest, ok := strings.Cut(w, "ч"); ok {
			n, err := strconv.Atoi(h)
			if err != nil {
				return 0, fmt.Errorf("%w: hours %q", ErrBadNumber, w)
			}
			hours = n
			w = rest
		}
		if m, _, ok := strings.Cut(w, "м"); ok {
			n, err := strconv.Atoi(m)
			if err != nil {
				return 0, fmt.Errorf("%w: minutes %q", ErrBadNumber, w)
			}
			minutes = n
		}
	}
	return time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute, nil
}

// parseTradeResult reads "#Real 0.5R": the result type and the result in R.
func parseTradeResult(v string) (types.ResultType, float64, error) {
	words := strings.Fields(v)
	if len(words) < 2 {
		return 0, 0, fmt.Errorf("%w: want result type and risk result, got %q", ErrMissingToken, v)
	}
	rt, err := types.ParseResultType(strings.TrimRight(stripHash(words[0]), "."))
	if err != nil {
		return 0, 0, err
	}
	rr, err := ParseStrict(strings.TrimSuffix(strings.TrimRight(words[1], "."), "R"))
	if err != nil {
		return 0, 0, err
	}
	return rt, rr, nil
}

// parsePotential reads "3R" or a range "2-3R"; a range keeps its lower bound.
func parsePotential(v string) (float64, error) {
	text, _, _ := strings.Cut(v, "R")
	text = strings.ReplaceAll(text, " ", "")
	if lo, _, ok := strings.Cut(text, "-"); ok {
		text = lo
	} else if lo, _, ok := strings.Cut(text, "–"); ok {
		text = lo
	}
	if text == "" {
		return 0, nil
	}
	return ParseStrict(text)
}

func parseReEntries(v string) (int, error) {
	text := strings.ReplaceAll(v, " ", "")
	if text == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("%w: re-entries %q", ErrBadNumber, v)
	}
	return n, nil
}

// parseVolume reads "0.5 лот (5 000$)": the position size, then the first
// amount marked with "$" as the notional.
func parseVolume(v string) (size, notional float64) {
	first, rest, _ := strings.Cut(strings.TrimSpace(v), " ")
	size = ParseTolerant(first)

	amount, _, ok := strings.Cut(rest, "$")
	if !ok {
		return size, 0
	}
	if open := strings.LastIndex(amount, "("); open >= 0 {
		amount = amount[open+1:]
	} else if words := strings.Fields(amount); len(words) > 0 {
		amount = words[len(words)-1]
	}
	return size, ParseTolerant(amount)
}

func stripHash(s string) string {
	return strings.ReplaceAll(s, "#", "")
}

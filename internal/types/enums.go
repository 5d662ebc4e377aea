package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownLabel is the cause of every failed enum lookup.
var ErrUnknownLabel = errors.New("unknown label")

// UnknownLabelError reports a token that does not name any variant of Kind.
type UnknownLabelError struct {
	Kind  string
	Label string
}

func (e *UnknownLabelError) Error() string {
	return fmt.Sprintf("unknown %s label %q", e.Kind, e.Label)
}

func (e *UnknownLabelError) Unwrap() error { return ErrUnknownLabel }

// labelTable maps each variant to its canonical label plus accepted aliases.
// Lookup is case-insensitive.
type labelTable[T ~uint8] struct {
	kind    string
	names   []string
	aliases map[string]T
}

func newLabelTable[T ~uint8](kind string, names []string, aliases map[string]T) labelTable[T] {
	t := labelTable[T]{kind: kind, names: names, aliases: make(map[string]T, len(names)+len(aliases))}
	for i, n := range names {
		t.aliases[strings.ToLower(n)] = T(i)
	}
	for a, v := range aliases {
		t.aliases[strings.ToLower(a)] = v
	}
	return t
}

func (t labelTable[T]) name(v T) string {
	if int(v) < len(t.names) {
		return t.names[v]
	}
	return fmt.Sprintf("%s(%d)", t.kind, v)
}

func (t labelTable[T]) parse(label string) (T, error) {
	if v, ok := t.aliases[strings.ToLower(strings.TrimSpace(label))]; ok {
		return v, nil
	}
	return 0, &UnknownLabelError{Kind: t.kind, Label: label}
}

// parseName matches label against the canonical names only, case included.
func (t labelTable[T]) parseName(label string) (T, error) {
	for i, n := range t.names {
		if n == label {
			return T(i), nil
		}
	}
	return 0, &UnknownLabelError{Kind: t.kind, Label: label}
}

// Market is the venue category of the traded instrument.
type Market uint8

const (
	Forex Market = iota
	Crypto
	America
	Moex
)

// MarketCount is the number of Market variants.
const MarketCount = 4

var marketLabels = newLabelTable[Market]("market", []string{"Forex", "Crypto", "America", "Moex"}, nil)

func (m Market) String() string { return marketLabels.name(m) }

// ParseMarket resolves a market label such as "Forex".
func ParseMarket(s string) (Market, error) { return marketLabels.parse(s) }

// ParseMarketName accepts only the canonical spelling, e.g. "Forex" but not "FOREX".
func ParseMarketName(s string) (Market, error) { return marketLabels.parseName(s) }

// Markets lists every market in report order.
func Markets() []Market { return []Market{Forex, Crypto, America, Moex} }

// Scenario is the trading style of the setup.
type Scenario uint8

const (
	Breakout Scenario = iota
	FalseBreakout
	Rebound
)

// ScenarioCount is the number of Scenario variants.
const ScenarioCount = 3

var scenarioLabels = newLabelTable[Scenario]("scenario", []string{"Breakout", "FalseBreakout", "Rebound"}, nil)

func (s Scenario) String() string { return scenarioLabels.name(s) }

func ParseScenario(s string) (Scenario, error) { return scenarioLabels.parse(s) }

// Scenarios lists every trading style in report order.
func Scenarios() []Scenario { return []Scenario{Breakout, FalseBreakout, Rebound} }

// Direction is a trade or trend direction. Flat is the zero value.
type Direction uint8

const (
	Flat Direction = iota
	Long
	Short
)

var directionLabels = newLabelTable[Direction]("direction", []string{"Flat", "Long", "Short"}, nil)

func (d Direction) String() string { return directionLabels.name(d) }

func ParseDirection(s string) (Direction, error) { return directionLabels.parse(s) }

type DealType uint8

const (
	OneDayRegular DealType = iota
	InPlay
	Investment
)

var dealTypeLabels = newLabelTable[DealType]("deal type", []string{"OneDayRegular", "InPlay", "Investment"}, nil)

func (d DealType) String() string { return dealTypeLabels.name(d) }

func ParseDealType(s string) (DealType, error) { return dealTypeLabels.parse(s) }

// ResultType tells whether the deal was traded with money, on demo, or only called.
type ResultType uint8

const (
	Real ResultType = iota
	Demo
	Idea
)

var resultTypeLabels = newLabelTable[ResultType]("result type",
	[]string{"Real", "Demo", "Idea"},
	map[string]ResultType{"Реал": Real, "Демо": Demo, "Идея": Idea},
)

func (r ResultType) String() string { return resultTypeLabels.name(r) }

func ParseResultType(s string) (ResultType, error) { return resultTypeLabels.parse(s) }

// IsReal reports whether the result counts toward deal and finance totals.
func (r ResultType) IsReal() bool { return r == Real || r == Demo }

// TimeInterval is the derived shape of the reporting period.
type TimeInterval uint8

const (
	Week TimeInterval = iota
	Month
	Custom
)

var timeIntervalLabels = newLabelTable[TimeInterval]("time interval", []string{"Week", "Month", "Custom"}, nil)

func (t TimeInterval) String() string { return timeIntervalLabels.name(t) }

func ParseTimeInterval(s string) (TimeInterval, error) { return timeIntervalLabels.parse(s) }

// Text marshalling keeps JSON and YAML output readable.

func (m Market) MarshalText() ([]byte, error) { return []byte(m.String()), nil }
func (m *Market) UnmarshalText(b []byte) (err error) {
	*m, err = ParseMarket(string(b))
	return err
}

func (s Scenario) MarshalText() ([]byte, error) { return []byte(s.String()), nil }
func (s *Scenario) UnmarshalText(b []byte) (err error) {
	*s, err = ParseScenario(string(b))
	return err
}

func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }
func (d *Direction) UnmarshalText(b []byte) (err error) {
	*d, err = ParseDirection(string(b))
	return err
}

func (d DealType) MarshalText() ([]byte, error) { return []byte(d.String()), nil }
func (d *DealType) UnmarshalText(b []byte) (err error) {
	*d, err = ParseDealType(string(b))
	return err
}

func (r ResultType) MarshalText() ([]byte, error) { return []byte(r.String()), nil }
func (r *ResultType) UnmarshalText(b []byte) (err error) {
	*r, err = ParseResultType(string(b))
	return err
}

func (t TimeInterval) MarshalText() ([]byte, error) { return []byte(t.String()), nil }
func (t *TimeInterval) UnmarshalText(b []byte) (err error) {
	*t, err = ParseTimeInterval(string(b))
	return err
}

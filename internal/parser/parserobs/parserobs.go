package parserobs

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/codes"

	"trading-journal-stats/internal/interfaces"
	"trading-journal-stats/internal/logger"
	"trading-journal-stats/internal/trace"
	"trading-journal-stats/internal/types"
)

type observableDealParser struct {
	parser interfaces.DealParser
}

var _ interfaces.DealParser = (*observableDealParser)(nil)

func Wrap(parser interfaces.DealParser) interfaces.DealParser {
	return &observableDealParser{
		parser: parser,
	}
}

func (odp *observableDealParser) Parse(raw string) (types.Deal, error) {
	ctx := context.Background()
	ctx, span := trace.StartSpan(ctx, "parser.Parse")
	defer span.End()

	header, _, _ := strings.Cut(raw, "\n")

	deal, err := odp.parser.Parse(raw)
	if err != nil {
		// Callers report the malformed message with its full text.
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.DebugSkip(ctx, 1, "Deal parsing failed",
			"header", header,
			"error", err,
		)
		return types.Deal{}, err
	}

	logger.DebugSkip(ctx, 1, "Deal parsed",
		"asset", deal.Asset,
		"market", deal.Market.String(),
		"scenario", deal.Scenario.String(),
		"result_type", deal.ResultType.String(),
		"risk_result", deal.RiskResult,
	)

	return deal, nil
}

// Package pipeline drives a report run: fetch journal messages, parse them into
// deals, aggregate statistics and render the report.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"trading-journal-stats/internal/interfaces"
	"trading-journal-stats/internal/logger"
	"trading-journal-stats/internal/stats"
	"trading-journal-stats/internal/types"
)

// Request is what the trader supplies for one report.
type Request struct {
	Intervals             []types.DateInterval
	PredictionsOverall    int
	PredictionsSuccessful int
	StartDeposit          float64
}

func (r Request) input() types.AggregationInput {
	return types.AggregationInput{
		PredictionsOverall:    r.PredictionsOverall,
		PredictionsSuccessful: r.PredictionsSuccessful,
		StartDeposit:          r.StartDeposit,
		DateIntervals:         r.Intervals,
	}
}

// Result is the outcome of a report run.
type Result struct {
	// Messages is the number of journal messages parsed into deals.
	Messages int
	Report   *types.Report
	// Text is the rendered report; empty when the runner has no renderer.
	Text string
}

// Options tune a Runner. Zero values fall back to defaults.
type Options struct {
	Workers int
	Stats   stats.Config
	Metrics *Metrics
}

type Runner struct {
	source     interfaces.MessageSource
	parser     interfaces.DealParser
	aggregator interfaces.Aggregator
	renderer   interfaces.ReportRenderer

	workers int
	stats   stats.Config
	metrics *Metrics
}

// New creates a runner. With one worker deals are aggregated in a single pass by
// aggregator; with more, each worker folds its share of messages into its own
// tally and the tallies are merged.
func New(src interfaces.MessageSource, parser interfaces.DealParser, aggregator interfaces.Aggregator,
	renderer interfaces.ReportRenderer, opts Options) *Runner {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Stats == (stats.Config{}) {
		opts.Stats = stats.DefaultConfig()
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics()
	}
	return &Runner{
		source:     src,
		parser:     parser,
		aggregator: aggregator,
		renderer:   renderer,
		workers:    opts.Workers,
		stats:      opts.Stats,
		metrics:    opts.Metrics,
	}
}

func (r *Runner) Metrics() *Metrics {
	return r.metrics
}

// CollectDeals fetches the journal messages inside intervals and parses each into a
// deal, keeping message order. The first message that fails to parse stops the run;
// its full text is logged.
func (r *Runner) CollectDeals(ctx context.Context, intervals []types.DateInterval) ([]types.Deal, error) {
	msgs, err := r.fetch(ctx, intervals)
	if err != nil {
		return nil, err
	}

	deals := make([]types.Deal, len(msgs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, m := range msgs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			d, err := r.parse(gctx, m)
			if err != nil {
				return err
			}
			deals[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return deals, nil
}

// Run produces the report for req.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	defer func() { r.metrics.RunDuration.Observe(time.Since(start).Seconds()) }()

	op := logger.StartOperation(ctx, "pipeline.Run",
		"intervals", len(req.Intervals),
		"workers", r.workers,
	)

	res, err := r.run(op.GetContext(), req)
	if err != nil {
		op.EndWithError(err)
		return nil, err
	}
	op.End("messages", res.Messages, "real_deals", res.Report.DealsAndPredictions.DealsOverallCount)
	return res, nil
}

func (r *Runner) run(ctx context.Context, req Request) (*Result, error) {
	var (
		rep      *types.Report
		messages int
		err      error
	)
	if r.workers == 1 {
		rep, messages, err = r.aggregateSequential(ctx, req)
	} else {
		rep, messages, err = r.aggregatePartitioned(ctx, req)
	}
	if err != nil {
		return nil, err
	}

	res := &Result{
		Messages: messages,
		Report:   rep,
	}
	if r.renderer != nil {
		text, err := r.renderer.Render(rep)
		if err != nil {
			return nil, fmt.Errorf("render report: %w", err)
		}
		res.Text = text
	}
	return res, nil
}

func (r *Runner) aggregateSequential(ctx context.Context, req Request) (*types.Report, int, error) {
	if r.aggregator == nil {
		return nil, 0, errors.New("pipeline: no aggregator configured")
	}
	deals, err := r.CollectDeals(ctx, req.Intervals)
	if err != nil {
		return nil, 0, err
	}
	rep, err := r.aggregator.Aggregate(deals, req.input())
	if err != nil {
		return nil, 0, err
	}
	return rep, len(deals), nil
}

func (r *Runner) aggregatePartitioned(ctx context.Context, req Request) (*types.Report, int, error) {
	msgs, err := r.fetch(ctx, req.Intervals)
	if err != nil {
		return nil, 0, err
	}

	parts := partition(msgs, r.workers)
	tallies := make([]*stats.Tally, len(parts))
	g, gctx := errgroup.WithContext(ctx)
	for i, part := range parts {
		tallies[i] = stats.NewTally(r.stats)
		g.Go(func() error {
			for _, m := range part {
				if err := gctx.Err(); err != nil {
					return err
				}
				d, err := r.parse(gctx, m)
				if err != nil {
					return err
				}
				tallies[i].Add(d)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	merged := stats.NewTally(r.stats)
	for _, t := range tallies {
		merged.Merge(t)
	}
	logger.Debug(ctx, "Tallies merged", "partitions", len(tallies), "predictions", merged.Predictions(), "deals", merged.Deals())

	rep, err := merged.Finalize(req.input())
	if err != nil {
		logger.ErrorWithErr(ctx, "Statistics aggregation failed", err)
		return nil, 0, err
	}
	return rep, len(msgs), nil
}

func (r *Runner) fetch(ctx context.Context, intervals []types.DateInterval) ([]types.Message, error) {
	msgs, err := r.source.Fetch(ctx, intervals)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to fetch journal messages", err, "intervals", len(intervals))
		return nil, fmt.Errorf("fetch messages: %w", err)
	}
	r.metrics.MessagesFetched.Add(float64(len(msgs)))
	logger.Info(ctx, "Journal messages fetched", "count", len(msgs))
	return msgs, nil
}

func (r *Runner) parse(ctx context.Context, m types.Message) (types.Deal, error) {
	d, err := r.parser.Parse(m.Text)
	if err != nil {
		r.metrics.ParseFailures.Inc()
		logger.MalformedMessage(ctx, m.ID, m.Text, err)
		return types.Deal{}, fmt.Errorf("message %d: %w", m.ID, err)
	}
	r.metrics.DealsParsed.WithLabelValues(d.ResultType.String()).Inc()
	return d, nil
}

// partition splits msgs into at most n contiguous, non-empty chunks.
func partition(msgs []types.Message, n int) [][]types.Message {
	if len(msgs) == 0 {
		return nil
	}
	if n > len(msgs) {
		n = len(msgs)
	}
	size := (len(msgs) + n - 1) / n
	parts := make([][]types.Message, 0, n)
	for start := 0; start < len(msgs); start += size {
		end := min(start+size, len(msgs))
		parts = append(parts, msgs[start:end])
	}
	return parts
}

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"trading-journal-stats/internal/logger"
	"trading-journal-stats/internal/parser"
	"trading-journal-stats/internal/parser/parserobs"
	"trading-journal-stats/internal/report"
	"trading-journal-stats/internal/stats"
	"trading-journal-stats/internal/types"
)

type sliceSource struct {
	msgs []types.Message
	err  error
}

func (s *sliceSource) Fetch(_ context.Context, _ []types.DateInterval) ([]types.Message, error) {
	return s.msgs, s.err
}

func week() []types.DateInterval {
	return []types.DateInterval{{
		Start: time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.July, 8, 23, 59, 59, 0, time.UTC),
	}}
}

func journal() []types.Message {
	deals := []types.Deal{
		{Asset: "EURUSD", Market: types.Forex, Scenario: types.Breakout, Direction: types.Long,
			ResultType: types.Real, RiskResult: 1.5, RiskMoneyValue: 20, CommissionValue: -1, FinancialResult: 29},
		{Asset: "BTCUSDT", Market: types.Crypto, Scenario: types.Rebound, Direction: types.Short,
			ResultType: types.Demo, RiskResult: -1, RiskMoneyValue: 20, CommissionValue: -0.5, FinancialResult: -20.5},
		{Asset: "SBER", Market: types.Moex, Scenario: types.Rebound, Direction: types.Long,
			ResultType: types.Idea, RiskResult: 2, RiskPotential: 3},
		{Asset: "AAPL", Market: types.America, Scenario: types.FalseBreakout, Direction: types.Short,
			ResultType: types.Real, RiskResult: 0.1, RiskMoneyValue: 30, CommissionValue: -1.2, FinancialResult: 1.8},
		{Asset: "GBPUSD", Market: types.Forex, Scenario: types.FalseBreakout, Direction: types.Long,
			ResultType: types.Real, RiskResult: 0.6, RiskMoneyValue: 25, CommissionValue: -0.8, FinancialResult: 14.2},
	}
	msgs := make([]types.Message, len(deals))
	for i, d := range deals {
		msgs[i] = types.Message{
			ID:   int64(100 + i),
			Date: time.Date(2024, time.July, 1+i, 12, 0, 0, 0, time.UTC),
			Text: parser.Format(d) + "#Deal\n",
		}
	}
	return msgs
}

func request() Request {
	return Request{
		Intervals:             week(),
		PredictionsOverall:    9,
		PredictionsSuccessful: 5,
		StartDeposit:          1000,
	}
}

func newRunner(src *sliceSource, workers int) *Runner {
	renderer, _ := report.New(report.FormatHTML, report.Options{})
	return New(src, parser.New(parser.DefaultConfig()), stats.New(stats.DefaultConfig()), renderer,
		Options{Workers: workers})
}

func TestCollectDealsKeepsOrder(t *testing.T) {
	r := newRunner(&sliceSource{msgs: journal()}, 3)

	deals, err := r.CollectDeals(context.Background(), week())
	require.NoError(t, err)
	require.Len(t, deals, 5)

	var assets []string
	for _, d := range deals {
		assets = append(assets, d.Asset)
	}
	assert.Equal(t, []string{"EURUSD", "BTCUSDT", "SBER", "AAPL", "GBPUSD"}, assets)
	assert.Equal(t, 5.0, testutil.ToFloat64(r.Metrics().MessagesFetched))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.Metrics().DealsParsed.WithLabelValues("Real")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Metrics().DealsParsed.WithLabelValues("Idea")))
}

func TestRunSequentialAndPartitionedAgree(t *testing.T) {
	seq, err := newRunner(&sliceSource{msgs: journal()}, 1).Run(context.Background(), request())
	require.NoError(t, err)

	for _, workers := range []int{2, 3, 8} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			par, err := newRunner(&sliceSource{msgs: journal()}, workers).Run(context.Background(), request())
			require.NoError(t, err)
			assert.Equal(t, seq.Report, par.Report)
			assert.Equal(t, seq.Text, par.Text)
			assert.Equal(t, 5, par.Messages)
		})
	}

	rep := seq.Report
	assert.Equal(t, types.Week, rep.TimeInterval)
	assert.Equal(t, 4, rep.DealsAndPredictions.DealsOverallCount)
	assert.Equal(t, 24.5, rep.Finance.NetProfitTotal)
	assert.Equal(t, 1024.5, rep.Finance.DepositFinal)
	assert.Equal(t, 2, rep.Market(types.Forex).DealsOverallCount)
	assert.Contains(t, seq.Text, "Итог недели")
}

func TestRunEmptyJournal(t *testing.T) {
	for _, workers := range []int{1, 4} {
		res, err := newRunner(&sliceSource{}, workers).Run(context.Background(), request())
		require.NoError(t, err)
		assert.Zero(t, res.Messages)
		assert.Zero(t, res.Report.DealsAndPredictions.DealsOverallCount)
		assert.Equal(t, 1000.0, res.Report.Finance.DepositFinal)
	}
}

func TestRunStopsOnMalformedMessage(t *testing.T) {
	for _, workers := range []int{1, 3} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			msgs := journal()
			msgs[3].Text = "#Deal"

			r := newRunner(&sliceSource{msgs: msgs}, workers)
			_, err := r.Run(context.Background(), request())
			require.Error(t, err)

			var malformed *parser.MalformedRecordError
			require.ErrorAs(t, err, &malformed)
			assert.ErrorIs(t, err, parser.ErrMissingToken)
			assert.Contains(t, err.Error(), "message 103")
			assert.Equal(t, 1.0, testutil.ToFloat64(r.Metrics().ParseFailures))
		})
	}
}

func TestMalformedMessageLoggedOnce(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger.SetCore(core)

	msgs := journal()
	msgs[2].Text = "#Moex SBER\n#Deal"
	renderer, _ := report.New(report.FormatHTML, report.Options{})
	r := New(&sliceSource{msgs: msgs}, parserobs.Wrap(parser.New(parser.DefaultConfig())),
		stats.New(stats.DefaultConfig()), renderer, Options{Workers: 1})

	_, err := r.Run(context.Background(), request())
	require.Error(t, err)

	malformed := logs.FilterMessage("Malformed journal message").All()
	require.Len(t, malformed, 1)
	assert.Equal(t, msgs[2].Text, malformed[0].ContextMap()["text"])
	assert.Equal(t, zapcore.ErrorLevel, malformed[0].Level)
	assert.Zero(t, logs.FilterMessage("Deal parsing failed").Len())
}

func TestRunSourceError(t *testing.T) {
	boom := errors.New("export missing")
	_, err := newRunner(&sliceSource{err: boom}, 2).Run(context.Background(), request())
	assert.ErrorIs(t, err, boom)
}

func TestRunInvalidInput(t *testing.T) {
	req := request()
	req.StartDeposit = 0

	for _, workers := range []int{1, 2} {
		_, err := newRunner(&sliceSource{msgs: journal()}, workers).Run(context.Background(), req)
		var invalid *stats.InvalidAggregationInputError
		assert.ErrorAs(t, err, &invalid)
	}
}

func TestRunRecordsDurationAndWritesTextfile(t *testing.T) {
	r := newRunner(&sliceSource{msgs: journal()}, 2)
	_, err := r.Run(context.Background(), request())
	require.NoError(t, err)

	assert.Equal(t, 1, testutil.CollectAndCount(r.Metrics().RunDuration))

	path := filepath.Join(t.TempDir(), "journal.prom")
	require.NoError(t, r.Metrics().WriteTextfile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "journal_messages_fetched_total 5")
	assert.Contains(t, string(data), `journal_deals_parsed_total{result_type="Demo"} 1`)
}

func TestPartition(t *testing.T) {
	msgs := make([]types.Message, 7)
	for i := range msgs {
		msgs[i].ID = int64(i)
	}

	assert.Nil(t, partition(nil, 3))
	assert.Len(t, partition(msgs, 1), 1)
	assert.Len(t, partition(msgs, 20), 7)

	parts := partition(msgs, 3)
	require.Len(t, parts, 3)
	assert.Len(t, parts[0], 3)
	assert.Len(t, parts[1], 3)
	assert.Len(t, parts[2], 1)
	assert.Equal(t, int64(6), parts[2][0].ID)
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"trading-journal-stats/internal/logger"
	"trading-journal-stats/internal/parser"
	"trading-journal-stats/internal/parser/parserobs"
	"trading-journal-stats/internal/pipeline"
	"trading-journal-stats/internal/store"
	"trading-journal-stats/internal/types"
)

var version = "dev"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const intervalLayout = "2.1.2006"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		cfg        *store.Config
	)

	rootCmd := &cobra.Command{
		Use:   "journalstats",
		Short: "Trading journal statistics",
		Long: `journalstats reads #Deal messages from a Telegram chat export, parses them into
deals and prints the weekly, monthly or custom-period statistics report.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			loaded, err := initializeSystem(configPath)
			if err != nil {
				return err
			}
			*cfg = *loaded
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			shutdownSystem()
		},
	}
	cfg = store.DefaultConfig()

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Configuration file path (YAML)")

	rootCmd.AddCommand(newReportCmd(cfg))
	rootCmd.AddCommand(newParseCmd(cfg))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

type reportFlags struct {
	intervals   []string
	predictions int
	successful  int
	deposit     float64
	format      string
	output      string
	workers     int
}

func newReportCmd(cfg *store.Config) *cobra.Command {
	var f reportFlags

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Build the statistics report for one or more date intervals",
		Example: `  journalstats report --interval 01.07.2024-08.07.2024 --predictions 12 --successful 7 --deposit 1500
  journalstats report --interval 01.07.2024-03.07.2024 --interval 10.07.2024-12.07.2024 \
      --predictions 5 --successful 2 --deposit 900 --format terminal`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd.Context(), cmd.OutOrStdout(), cfg, f)
		},
	}

	cmd.Flags().StringArrayVar(&f.intervals, "interval", nil, "Date interval DD.MM.YYYY-DD.MM.YYYY (repeatable)")
	cmd.Flags().IntVar(&f.predictions, "predictions", 0, "Number of predictions made in the period")
	cmd.Flags().IntVar(&f.successful, "successful", 0, "Number of successful predictions")
	cmd.Flags().Float64Var(&f.deposit, "deposit", 0, "Deposit at the start of the period")
	cmd.Flags().StringVar(&f.format, "format", "", "Report format: html, terminal, json or yaml (default from config)")
	cmd.Flags().StringVar(&f.output, "output", "", "Write the report to this file instead of stdout")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "Parser workers (default from config)")
	_ = cmd.MarkFlagRequired("interval")
	_ = cmd.MarkFlagRequired("predictions")
	_ = cmd.MarkFlagRequired("deposit")

	return cmd
}

func runReport(ctx context.Context, out io.Writer, cfg *store.Config, f reportFlags) error {
	if f.format != "" {
		cfg.Report.Format = f.format
	}
	if f.workers > 0 {
		cfg.Pipeline.Workers = f.workers
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	intervals, err := parseIntervals(f.intervals, cfg.SourceLocation())
	if err != nil {
		return err
	}

	app, err := buildApp(cfg)
	if err != nil {
		return err
	}

	res, err := app.runner.Run(ctx, pipeline.Request{
		Intervals:             intervals,
		PredictionsOverall:    f.predictions,
		PredictionsSuccessful: f.successful,
		StartDeposit:          f.deposit,
	})
	if err != nil {
		return err
	}

	if cfg.Metrics.Enabled {
		if err := app.metrics.WriteTextfile(cfg.Metrics.TextfilePath); err != nil {
			logger.ErrorWithErr(ctx, "Failed to write metrics textfile", err, "path", cfg.Metrics.TextfilePath)
		}
	}

	if f.output != "" {
		if err := app.renderer.Save(res.Report, f.output); err != nil {
			return fmt.Errorf("save report: %w", err)
		}
		logger.Info(ctx, "Report saved", "path", f.output, "format", cfg.Report.Format)
		return nil
	}
	_, err = fmt.Fprintln(out, res.Text)
	return err
}

func newParseCmd(cfg *store.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "parse [FILE]",
		Short: "Parse one journal message and print the deal as JSON",
		Long:  "Parse one journal message read from FILE, or from stdin when FILE is omitted or '-'.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				file, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer file.Close()
				in = file
			}
			return runParse(cmd.OutOrStdout(), in, cfg)
		},
	}
}

func runParse(out io.Writer, in io.Reader, cfg *store.Config) error {
	raw, err := io.ReadAll(in)
	if err != nil {
		return err
	}

	p := parserobs.Wrap(parser.New(parser.Config{
		DateLayouts: cfg.Parser.DateLayouts,
		Location:    cfg.ParserLocation(),
	}))
	deal, err := p.Parse(strings.TrimSpace(string(raw)))
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(deal)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "journalstats %s\n", version)
		},
	}
}

// parseIntervals reads "DD.MM.YYYY-DD.MM.YYYY" values. The end day is included in full.
func parseIntervals(values []string, loc *time.Location) ([]types.DateInterval, error) {
	intervals := make([]types.DateInterval, 0, len(values))
	for _, v := range values {
		from, to, ok := strings.Cut(strings.TrimSpace(v), "-")
		if !ok {
			return nil, fmt.Errorf("invalid interval '%s': want DD.MM.YYYY-DD.MM.YYYY", v)
		}
		start, err := time.ParseInLocation(intervalLayout, strings.TrimSpace(from), loc)
		if err != nil {
			return nil, fmt.Errorf("invalid interval '%s': %w", v, err)
		}
		end, err := time.ParseInLocation(intervalLayout, strings.TrimSpace(to), loc)
		if err != nil {
			return nil, fmt.Errorf("invalid interval '%s': %w", v, err)
		}
		if end.Before(start) {
			return nil, fmt.Errorf("invalid interval '%s': end is before start", v)
		}
		intervals = append(intervals, types.DateInterval{
			Start: start,
			End:   end.Add(24*time.Hour - time.Nanosecond),
		})
	}
	return intervals, nil
}

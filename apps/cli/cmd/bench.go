package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/abdul-hamid-achik/hitreq/packages/bench"
	"github.com/abdul-hamid-achik/hitreq/packages/core/request"
	"github.com/spf13/cobra"
)

var (
	benchRequests    int
	benchDuration    string
	benchConcurrency int
	benchRate        float64
	benchThreshold   string
	benchMethod      string
	benchFile        string
	benchInputs      []string
)

var benchCmd = &cobra.Command{
	Use:   "bench <url|endpoint>",
	Short: "Fire repeated requests and report latency percentiles",
	Long: `Run an endpoint repeatedly through the engine's worker pool and report
latency percentiles, outcome counts and how often the pool was saturated.

Examples:
  hitreq bench https://api.example.com/health -n 500 --concurrency 20
  hitreq bench https://api.example.com/users/{id} -p id=1 -d 30s --rate 100
  hitreq bench getUser --file api.yaml -p id=1 -n 200 --threshold "p95<200ms,errors<1%"`,
	Args: cobra.ExactArgs(1),
	RunE: runBench,
}

func init() {
	benchCmd.Flags().IntVarP(&benchRequests, "requests", "n", getEnvInt("HITREQ_BENCH_REQUESTS", 0), "Number of requests (env: HITREQ_BENCH_REQUESTS)")
	benchCmd.Flags().StringVarP(&benchDuration, "duration", "d", getEnvString("HITREQ_BENCH_DURATION", ""), "Run for this long (e.g., 30s, 1m) (env: HITREQ_BENCH_DURATION)")
	benchCmd.Flags().IntVar(&benchConcurrency, "concurrency", getEnvInt("HITREQ_BENCH_CONCURRENCY", 10), "Concurrent executions (env: HITREQ_BENCH_CONCURRENCY)")
	benchCmd.Flags().Float64VarP(&benchRate, "rate", "r", 0, "Requests per second, 0 is unpaced")
	benchCmd.Flags().StringVar(&benchThreshold, "threshold", "", "Pass/fail thresholds (e.g., \"p95<200ms,errors<0.1%\")")
	benchCmd.Flags().StringVarP(&benchMethod, "method", "X", http.MethodGet, "HTTP method for URL targets")
	benchCmd.Flags().StringVarP(&benchFile, "file", "f", "", "Declaration file; the argument is then an endpoint name")
	benchCmd.Flags().StringArrayVarP(&benchInputs, "param", "p", nil, "Input as name=value (repeatable)")
	declarationFlags(benchCmd)
}

func buildBenchConfig() (bench.Config, bench.Thresholds, error) {
	cfg := bench.Config{
		Requests:    benchRequests,
		Concurrency: benchConcurrency,
		Rate:        benchRate,
	}
	if benchDuration != "" {
		d, err := time.ParseDuration(benchDuration)
		if err != nil {
			return cfg, bench.Thresholds{}, fmt.Errorf("invalid duration: %w", err)
		}
		cfg.Duration = d
	}
	if cfg.Requests == 0 && cfg.Duration == 0 {
		cfg.Requests = 100
	}
	if err := cfg.Validate(); err != nil {
		return cfg, bench.Thresholds{}, err
	}
	t, err := bench.ParseThresholds(benchThreshold)
	if err != nil {
		return cfg, t, err
	}
	return cfg, t, nil
}

func benchTarget(cmd *cobra.Command, arg string) (*request.Endpoint, error) {
	if benchFile == "" {
		return &request.Endpoint{
			Name:   "bench " + arg,
			URL:    arg,
			Method: benchMethod,
		}, nil
	}
	catalog, err := loadCatalog(cmd, benchFile)
	if err != nil {
		return nil, err
	}
	ep, err := catalog.Get(arg)
	if err != nil {
		return nil, withExitCode(ExitUsageError, err)
	}
	return ep, nil
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, thresholds, err := buildBenchConfig()
	if err != nil {
		return withExitCode(ExitUsageError, err)
	}
	ep, err := benchTarget(cmd, args[0])
	if err != nil {
		return err
	}
	inputs, err := parsePairs(benchInputs, "=")
	if err != nil {
		return withExitCode(ExitUsageError, err)
	}

	s, err := newSession(cmd, true)
	if err != nil {
		return err
	}
	defer s.Close()

	s.logger.Debug("bench starting", "endpoint", ep.Name, "requests", cfg.Requests, "duration", cfg.Duration, "concurrency", cfg.Concurrency)
	summary, err := bench.Run(cmd.Context(), s.engine, ep, inputs, cfg)
	if err != nil {
		return withExitCode(ExitUsageError, err)
	}

	results := bench.Evaluate(summary, thresholds)
	s.formatter.FormatBench(summary, results)

	for _, r := range results {
		if !r.Passed {
			return withExitCode(ExitRequestFailure, fmt.Errorf("threshold %s failed: %s (expected %s)", r.Name, r.Actual, r.Expected))
		}
	}
	return nil
}

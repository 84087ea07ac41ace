package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/abdul-hamid-achik/hitreq/packages/bench"
	"github.com/abdul-hamid-achik/hitreq/packages/core/engine"
	"github.com/abdul-hamid-achik/hitreq/packages/core/request"
	"github.com/fatih/color"
)

// formatValue formats a value for display, truncating long values
func formatValue(v any, maxLen int) string {
	str := fmt.Sprintf("%v", v)
	if len(str) > maxLen {
		return str[:maxLen] + "..."
	}
	return str
}

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		if w != nil {
			f.writer = w
		}
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func statusColor(status int, failed bool) *color.Color {
	switch {
	case failed || status >= 500:
		return color.New(color.FgRed)
	case status >= 400:
		return color.New(color.FgYellow)
	case status >= 300:
		return color.New(color.FgCyan)
	default:
		return color.New(color.FgGreen)
	}
}

func (f *ConsoleFormatter) FormatResult(name string, res *request.Result) {
	bold := color.New(color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	status := statusColor(res.Status, res.Failed()).SprintFunc()

	elapsed := "n/a"
	if res.ElapsedMs != request.ElapsedUnknown {
		elapsed = fmt.Sprintf("%dms", res.ElapsedMs)
	}
	fmt.Fprintf(f.writer, "%s %s %s\n", bold(name), status(res.Status), cyan("("+elapsed+")"))

	if f.verbose {
		for _, k := range sortedKeys(res.Headers) {
			fmt.Fprintf(f.writer, "  %s: %s\n", k, res.Headers[k])
		}
		for _, k := range sortedKeys(res.Cookies) {
			fmt.Fprintf(f.writer, "  %s %s=%s\n", cyan("cookie"), k, formatValue(res.Cookies[k], 60))
		}
		fmt.Fprintln(f.writer)
	}

	switch body := res.Body.(type) {
	case nil:
	case []byte:
		_, _ = f.writer.Write(body)
		if len(body) > 0 && body[len(body)-1] != '\n' {
			fmt.Fprintln(f.writer)
		}
	case string:
		fmt.Fprintln(f.writer, body)
	default:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(body); err != nil {
			fmt.Fprintf(f.writer, "%v\n", body)
			return
		}
		_, _ = f.writer.Write(buf.Bytes())
	}
}

func (f *ConsoleFormatter) FormatBench(s *bench.Summary, thresholds []bench.ThresholdResult) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(f.writer, "\n%s\n\n", bold("Bench: "+s.Endpoint))
	fmt.Fprintf(f.writer, "  Executions: %d in %s (%.1f/s)\n", s.Total, s.Duration.Round(1e6), s.RPS)
	fmt.Fprintf(f.writer, "  Outcomes:   %s, %s, %s\n",
		green(fmt.Sprintf("%d ok", s.OK)),
		yellow(fmt.Sprintf("%d aborted", s.Aborted)),
		red(fmt.Sprintf("%d failed", s.Failed)))

	codes := make([]int, 0, len(s.Statuses))
	for code := range s.Statuses {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	for _, code := range codes {
		fmt.Fprintf(f.writer, "    %s %d\n", statusColor(code, code == request.StatusValidationFailed).Sprint(code), s.Statuses[code])
	}

	fmt.Fprintf(f.writer, "  Latency:    min %s  mean %s  max %s\n", s.Min, s.Mean, s.Max)
	fmt.Fprintf(f.writer, "              p50 %s  p90 %s  p95 %s  p99 %s\n", s.P50, s.P90, s.P95, s.P99)
	if f.verbose || s.CallerRuns > 0 {
		fmt.Fprintf(f.writer, "  Dispatcher: %d caller-runs, peak queue %d\n", s.CallerRuns, s.PeakQueued)
	}

	if len(thresholds) > 0 {
		fmt.Fprintf(f.writer, "\n  Thresholds:\n")
		for _, t := range thresholds {
			symbol := green("✓")
			if !t.Passed {
				symbol = red("✗")
			}
			fmt.Fprintf(f.writer, "    %s %s: %s (expected %s)\n", symbol, t.Name, t.Actual, t.Expected)
		}
	}
	fmt.Fprintln(f.writer)
}

func (f *ConsoleFormatter) FormatHistory(entries []engine.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(f.writer, "No executions recorded")
		return
	}
	for _, e := range entries {
		fmt.Fprintf(f.writer, "%s  %-7s %s %s %s %s\n",
			e.At.Local().Format("2006-01-02 15:04:05"),
			e.Outcome,
			statusColor(e.Status, e.Outcome != engine.OutcomeOK).Sprint(e.Status),
			e.Method,
			formatValue(e.URL, 80),
			color.New(color.FgCyan).Sprintf("%dms", e.ElapsedMs))
	}
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}

// FormatHeader prints the program banner
func (f *ConsoleFormatter) FormatHeader(version string) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n", bold("hitreq"), version)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

package bench

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var thresholdPattern = regexp.MustCompile(`^(\w+)\s*(<=?)\s*(.+)$`)

// ParseThresholds reads a comma separated list such as
// "p95<200ms,p99<500ms,errors<1%"
func ParseThresholds(s string) (Thresholds, error) {
	var t Thresholds
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		m := thresholdPattern.FindStringSubmatch(part)
		if m == nil {
			return t, fmt.Errorf("invalid threshold %q (want metric<value)", part)
		}
		metric, value := strings.ToLower(m[1]), strings.TrimSpace(m[3])

		switch metric {
		case "p95", "p99":
			d, err := time.ParseDuration(value)
			if err != nil || d <= 0 {
				return t, fmt.Errorf("invalid duration for %s: %s", metric, value)
			}
			if metric == "p95" {
				t.P95 = d
			} else {
				t.P99 = d
			}
		case "errors", "error_rate":
			rate, err := parseRate(value)
			if err != nil {
				return t, fmt.Errorf("invalid error rate: %s", value)
			}
			t.ErrorRate = rate
		default:
			return t, fmt.Errorf("unknown threshold metric %q", metric)
		}
	}
	return t, nil
}

// parseRate accepts "0.5%" or a plain fraction like "0.005"
func parseRate(s string) (float64, error) {
	pct := strings.HasSuffix(s, "%")
	f, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return 0, err
	}
	if pct {
		f /= 100
	}
	if f < 0 || f > 1 {
		return 0, fmt.Errorf("rate out of range")
	}
	return f, nil
}

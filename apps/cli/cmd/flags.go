package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/abdul-hamid-achik/hitreq/packages/core/request"
)

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// parsePairs splits "key<sep>value" flag values. A repeated key collects
// its values into a slice.
func parsePairs(items []string, sep string) (map[string]any, error) {
	out := make(map[string]any, len(items))
	for _, item := range items {
		k, v, ok := strings.Cut(item, sep)
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid value %q (want key%svalue)", item, sep)
		}
		switch prev := out[k].(type) {
		case nil:
			out[k] = v
		case string:
			out[k] = []string{prev, v}
		case []string:
			out[k] = append(prev, v)
		}
	}
	return out, nil
}

// parseStringPairs is parsePairs for single-valued maps such as headers
func parseStringPairs(items []string, sep string) (map[string]string, error) {
	out := make(map[string]string, len(items))
	for _, item := range items {
		k, v, ok := strings.Cut(item, sep)
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid value %q (want key%svalue)", item, sep)
		}
		out[k] = strings.TrimSpace(v)
	}
	return out, nil
}

// fileParams turns "name=@path" values into file parameters
func fileParams(params map[string]any) {
	for k, v := range params {
		if s, ok := v.(string); ok && strings.HasPrefix(s, "@") && len(s) > 1 {
			params[k] = request.File{Path: s[1:]}
		}
	}
}

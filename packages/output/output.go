package output

import (
	"fmt"
	"io"

	"github.com/abdul-hamid-achik/hitreq/packages/bench"
	"github.com/abdul-hamid-achik/hitreq/packages/core/engine"
	"github.com/abdul-hamid-achik/hitreq/packages/core/request"
)

// Formatter renders command results
type Formatter interface {
	FormatResult(name string, res *request.Result)
	FormatBench(s *bench.Summary, thresholds []bench.ThresholdResult)
	FormatHistory(entries []engine.Entry)
	FormatError(err error)
}

// Formats lists the accepted --output values
var Formats = []string{"console", "json"}

// NewFormatter returns the formatter registered under name
func NewFormatter(name string, w io.Writer, verbose, noColor bool) (Formatter, error) {
	switch name {
	case "", "console":
		return NewConsoleFormatter(WithWriter(w), WithVerbose(verbose), WithNoColor(noColor)), nil
	case "json":
		return NewJSONFormatter(JSONWithWriter(w)), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use one of %v)", name, Formats)
	}
}

package handlers

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/abdul-hamid-achik/hitreq/packages/core/pipeline"
	"github.com/abdul-hamid-achik/hitreq/packages/core/request"
)

var tokenPattern = regexp.MustCompile(`\{([^{}]+)\}`)

// URLTemplate substitutes {name} tokens in the URL with resolved parameter
// values. Parameters consumed by the template are removed from the assembled
// transport parameters.
type URLTemplate struct {
	// Strict makes an unresolved token an error that aborts the pipeline.
	// Otherwise the token is left in place and a warning is logged.
	Strict bool
	Logger *slog.Logger
}

func NewURLTemplate(strict bool, logger *slog.Logger) *URLTemplate {
	return &URLTemplate{Strict: strict, Logger: logger}
}

func (u *URLTemplate) Stage() pipeline.PreStage { return pipeline.StageURL }

func (u *URLTemplate) Handle(c *request.Context) bool {
	consumed := make(map[string]bool)
	var unresolved []string

	c.URL = tokenPattern.ReplaceAllStringFunc(c.URL, func(match string) string {
		name := strings.TrimSpace(match[1 : len(match)-1])
		v, ok := c.Inputs[name]
		if !ok || missing(v) || isFile(v) || isMulti(v) {
			unresolved = append(unresolved, match)
			return match
		}
		consumed[name] = true
		return scalarString(v)
	})

	if len(consumed) > 0 {
		kept := c.Assembled[:0]
		for _, p := range c.Assembled {
			if !consumed[p.Name] {
				kept = append(kept, p)
			}
		}
		c.Assembled = kept
	}

	if len(unresolved) == 0 {
		return true
	}
	if u.Strict {
		for _, tok := range unresolved {
			c.AddError("", fmt.Sprintf("url has unresolved token %s", tok))
		}
		return false
	}
	if u.Logger != nil {
		u.Logger.Warn("url has unresolved tokens", "request", c.Name, "tokens", unresolved)
	}
	return true
}

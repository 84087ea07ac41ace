package handlers

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/abdul-hamid-achik/hitreq/packages/core/pipeline"
	"github.com/abdul-hamid-achik/hitreq/packages/core/request"
)

// Validation checks every declared parameter for presence, type and
// pattern. All parameters are checked before it reports failure, so every
// problem is returned at once.
type Validation struct {
	patterns sync.Map // pattern -> *regexp.Regexp
}

func NewValidation() *Validation {
	return &Validation{}
}

func (v *Validation) Stage() pipeline.PreStage { return pipeline.StageValidation }

func (v *Validation) Handle(c *request.Context) bool {
	ok := true
	for _, p := range c.Parameters {
		if !v.check(c, p) {
			ok = false
		}
	}
	return ok
}

func (v *Validation) check(c *request.Context, p request.ParameterDefine) bool {
	value, present := c.Inputs[p.Name]
	if !present || missing(value) {
		if p.Required {
			c.AddError(p.Name, "is required")
			return false
		}
		return true
	}

	if !convertible(value, p.Type) {
		c.AddError(p.Name, fmt.Sprintf("value %v (%T) is not a valid %s", value, value, p.Type))
		return false
	}

	if p.Pattern == "" || isFile(value) {
		return true
	}

	re, err := v.compile(p.Pattern)
	if err != nil {
		c.AddError(p.Name, fmt.Sprintf("invalid pattern %q: %v", p.Pattern, err))
		return false
	}

	values := []any{value}
	if isMulti(value) {
		values = elements(value)
	}
	for _, el := range values {
		s := scalarString(el)
		if !re.MatchString(s) {
			c.AddError(p.Name, fmt.Sprintf("value %q does not match pattern %q", s, p.Pattern))
			return false
		}
	}
	return true
}

func (v *Validation) compile(pattern string) (*regexp.Regexp, error) {
	if cached, ok := v.patterns.Load(pattern); ok {
		return cached.(*regexp.Regexp), nil
	}
	// patterns match the whole value
	re, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		return nil, err
	}
	v.patterns.Store(pattern, re)
	return re, nil
}

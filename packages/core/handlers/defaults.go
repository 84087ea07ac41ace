package handlers

import (
	"github.com/abdul-hamid-achik/hitreq/packages/core/pipeline"
	"github.com/abdul-hamid-achik/hitreq/packages/core/request"
)

// Defaults fills absent inputs from declared default values
type Defaults struct{}

func (Defaults) Stage() pipeline.PreStage { return pipeline.StageDefaults }

func (Defaults) Handle(c *request.Context) bool {
	for _, p := range c.Parameters {
		if !p.HasDefault() {
			continue
		}
		if v, ok := c.Inputs[p.Name]; ok && !isEmpty(v) {
			continue
		}
		c.Inputs[p.Name] = p.Default
	}
	return true
}

// isEmpty treats nil and the empty string as absent values
func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok && s == "" {
		return true
	}
	return false
}

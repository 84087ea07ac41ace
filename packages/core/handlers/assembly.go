package handlers

import (
	"os"
	"path/filepath"

	"github.com/abdul-hamid-achik/hitreq/packages/core/pipeline"
	"github.com/abdul-hamid-achik/hitreq/packages/core/request"
)

// Assembly merges declared and ad-hoc parameter values into the uniform
// parameter list the transport sends. Declared parameters come first in
// declaration order, then ad-hoc ones in insertion order.
type Assembly struct{}

func (Assembly) Stage() pipeline.PreStage { return pipeline.StageAssembly }

func (Assembly) Handle(c *request.Context) bool {
	params := make([]request.Param, 0, len(c.Inputs))
	for _, p := range c.Parameters {
		if v, ok := c.Inputs[p.Name]; ok && !isEmpty(v) {
			params = append(params, assemble(p.Name, v))
		}
	}
	for _, name := range c.AdhocNames() {
		if v, ok := c.Inputs[name]; ok && v != nil {
			params = append(params, assemble(name, v))
		}
	}
	c.Assembled = params
	return true
}

func assemble(name string, v any) request.Param {
	switch classify(v) {
	case request.KindFile:
		return request.Param{Name: name, Kind: request.KindFile, File: toFile(v)}
	case request.KindMulti:
		els := elements(v)
		values := make([]string, len(els))
		for i, el := range els {
			values[i] = scalarString(el)
		}
		return request.Param{Name: name, Kind: request.KindMulti, Values: values}
	default:
		return request.Param{Name: name, Kind: request.KindScalar, Values: []string{scalarString(v)}}
	}
}

func toFile(v any) *request.File {
	switch f := v.(type) {
	case request.File:
		return &f
	case *request.File:
		return f
	case *os.File:
		return &request.File{Filename: filepath.Base(f.Name()), Path: f.Name()}
	}
	return nil
}

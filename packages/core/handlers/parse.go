package handlers

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/abdul-hamid-achik/hitreq/packages/charset"
	"github.com/abdul-hamid-achik/hitreq/packages/core/pipeline"
	"github.com/abdul-hamid-achik/hitreq/packages/core/request"
	"github.com/xeipuuv/gojsonschema"
)

// Decoder turns a raw structured body into a value of the target type
type Decoder interface {
	Decode(raw []byte, target reflect.Type) (any, error)
}

// JSONDecoder decodes with encoding/json
type JSONDecoder struct{}

func (JSONDecoder) Decode(raw []byte, target reflect.Type) (any, error) {
	if target == nil {
		return nil, request.ErrMissingResultType
	}
	ptr := reflect.New(target)
	if err := json.Unmarshal(raw, ptr.Interface()); err != nil {
		return nil, err
	}
	return ptr.Elem().Interface(), nil
}

// ResultParse converts the raw body into the declared response kind. Parse
// failures become the result body; they never escape the pipeline.
type ResultParse struct {
	Decoder Decoder
}

func NewResultParse(d Decoder) *ResultParse {
	if d == nil {
		d = JSONDecoder{}
	}
	return &ResultParse{Decoder: d}
}

func (p *ResultParse) Stage() pipeline.PostStage { return pipeline.StageParse }

func (p *ResultParse) Handle(c *request.Context, r *request.Result) *request.Result {
	if r == nil || r.Failed() {
		return r
	}
	raw, ok := r.Body.([]byte)
	if !ok {
		return r
	}

	switch c.ResponseKind {
	case request.ResponseBytes:
		return r
	case request.ResponseJSON:
		r.Body = p.decodeJSON(c, r, raw)
		return r
	default:
		text, err := charset.Decode(raw, bodyCharset(c, r))
		if err != nil {
			r.Body = err.Error()
			return r
		}
		r.Body = text
		return r
	}
}

func (p *ResultParse) decodeJSON(c *request.Context, r *request.Result, raw []byte) any {
	if cs := bodyCharset(c, r); cs != "" {
		text, err := charset.Decode(raw, cs)
		if err != nil {
			return err.Error()
		}
		raw = []byte(text)
	}

	if c.ResponseSchema != "" {
		if err := validateSchema(c.ResponseSchema, raw); err != nil {
			return err.Error()
		}
	}

	v, err := p.Decoder.Decode(raw, c.ResultType)
	if err != nil {
		return fmt.Sprintf("decoding %s response into %v: %v", c.Name, c.ResultType, err)
	}
	return v
}

// bodyCharset prefers the charset the server announced over the declared one
func bodyCharset(c *request.Context, r *request.Result) string {
	if cs := charset.FromContentType(r.Header("Content-Type")); cs != "" {
		return cs
	}
	return c.Charset
}

func validateSchema(schema string, raw []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return fmt.Errorf("schema validation error: %v", err)
	}
	if result.Valid() {
		return nil
	}
	var errs []string
	for _, desc := range result.Errors() {
		errs = append(errs, desc.String())
	}
	return fmt.Errorf("schema validation failed: %s", strings.Join(errs, "; "))
}

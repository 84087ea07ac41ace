package request

import "fmt"

// ParamType is the declared type of a parameter value
type ParamType int

const (
	TypeAny ParamType = iota
	TypeString
	TypeInt
	TypeFloat
	TypeBool
	TypeArray
	TypeFile
)

var paramTypeNames = map[ParamType]string{
	TypeAny:    "any",
	TypeString: "string",
	TypeInt:    "int",
	TypeFloat:  "float",
	TypeBool:   "bool",
	TypeArray:  "array",
	TypeFile:   "file",
}

func (t ParamType) String() string {
	if name, ok := paramTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ParamType(%d)", int(t))
}

// ParseParamType maps a declaration keyword to a ParamType
func ParseParamType(s string) (ParamType, error) {
	if s == "" {
		return TypeAny, nil
	}
	for t, name := range paramTypeNames {
		if name == s {
			return t, nil
		}
	}
	return TypeAny, fmt.Errorf("unknown parameter type %q", s)
}

// ParameterDefine is the declared shape of a parameter. The runtime value
// lives in Context.Inputs under the same name, so one declaration serves
// many executions.
type ParameterDefine struct {
	Name        string
	Description string
	Default     any
	Example     string
	Required    bool
	Type        ParamType
	Pattern     string
}

// HasDefault reports whether a non-empty default is declared
func (p ParameterDefine) HasDefault() bool {
	if p.Default == nil {
		return false
	}
	if s, ok := p.Default.(string); ok && s == "" {
		return false
	}
	return true
}

type ParameterOption func(*ParameterDefine)

func NewParameter(name string, opts ...ParameterOption) ParameterDefine {
	p := ParameterDefine{Name: name}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

func WithDescription(d string) ParameterOption {
	return func(p *ParameterDefine) {
		p.Description = d
	}
}

func WithDefault(v any) ParameterOption {
	return func(p *ParameterDefine) {
		p.Default = v
	}
}

func WithExample(e string) ParameterOption {
	return func(p *ParameterDefine) {
		p.Example = e
	}
}

func Required() ParameterOption {
	return func(p *ParameterDefine) {
		p.Required = true
	}
}

func WithType(t ParamType) ParameterOption {
	return func(p *ParameterDefine) {
		p.Type = t
	}
}

// WithPattern sets a regular expression the value must match
func WithPattern(re string) ParameterOption {
	return func(p *ParameterDefine) {
		p.Pattern = re
	}
}

// ParamKind classifies an assembled parameter by the shape of its value
type ParamKind int

const (
	KindScalar ParamKind = iota
	KindMulti
	KindFile
)

// File is a file payload sent as a multipart part. Content wins over Path.
type File struct {
	Filename string
	Path     string
	Content  []byte
}

// Param is one assembled transport parameter
type Param struct {
	Name   string
	Kind   ParamKind
	Values []string
	File   *File
}

package pipeline

import (
	"fmt"

	"github.com/abdul-hamid-achik/hitreq/packages/core/request"
)

// PreStage orders pre-handlers. Stages run in ascending order and each one
// sees the values the previous stages produced.
type PreStage int

const (
	StageDefaults PreStage = iota
	StageValidation
	StageAssembly
	StageURL
	StageUser

	numPreStages
)

func (s PreStage) String() string {
	switch s {
	case StageDefaults:
		return "defaults"
	case StageValidation:
		return "validation"
	case StageAssembly:
		return "assembly"
	case StageURL:
		return "url"
	case StageUser:
		return "user"
	default:
		return fmt.Sprintf("PreStage(%d)", int(s))
	}
}

// PostStage orders post-handlers
type PostStage int

const (
	StageParse PostStage = iota
	StagePostUser

	numPostStages
)

func (s PostStage) String() string {
	switch s {
	case StageParse:
		return "parse"
	case StagePostUser:
		return "user"
	default:
		return fmt.Sprintf("PostStage(%d)", int(s))
	}
}

// PreHandler runs before dispatch. Returning false aborts the pipeline.
type PreHandler interface {
	Stage() PreStage
	Handle(c *request.Context) bool
}

// PostHandler transforms the result after dispatch. It cannot abort.
type PostHandler interface {
	Stage() PostStage
	Handle(c *request.Context, r *request.Result) *request.Result
}

type preFunc struct {
	stage PreStage
	fn    func(*request.Context) bool
}

func (p preFunc) Stage() PreStage { return p.stage }
func (p preFunc) Handle(c *request.Context) bool { return p.fn(c) }

// PreFunc adapts a function to a PreHandler at the given stage
func PreFunc(stage PreStage, fn func(*request.Context) bool) PreHandler {
	return preFunc{stage: stage, fn: fn}
}

type postFunc struct {
	stage PostStage
	fn    func(*request.Context, *request.Result) *request.Result
}

func (p postFunc) Stage() PostStage { return p.stage }
func (p postFunc) Handle(c *request.Context, r *request.Result) *request.Result {
	return p.fn(c, r)
}

// PostFunc adapts a function to a PostHandler at the given stage
func PostFunc(stage PostStage, fn func(*request.Context, *request.Result) *request.Result) PostHandler {
	return postFunc{stage: stage, fn: fn}
}

// Callback wraps a completion callback as a user-stage post-handler so it
// observes the fully parsed result
func Callback(fn func(*request.Result) *request.Result) PostHandler {
	return PostFunc(StagePostUser, func(_ *request.Context, r *request.Result) *request.Result {
		return fn(r)
	})
}

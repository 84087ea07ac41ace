package pipeline

import (
	"fmt"

	"github.com/abdul-hamid-achik/hitreq/packages/core/request"
)

// Pipeline holds the pre- and post-handlers registered for one execution
type Pipeline struct {
	pre  [numPreStages][]PreHandler
	post [numPostStages][]PostHandler
}

func New() *Pipeline {
	return &Pipeline{}
}

// RegisterPre adds a pre-handler to its stage. Handlers sharing a stage run
// in registration order. Handlers with an out-of-range stage land in the
// user stage.
func (p *Pipeline) RegisterPre(h PreHandler) {
	if h == nil {
		return
	}
	stage := h.Stage()
	if stage < 0 || stage >= numPreStages {
		stage = StageUser
	}
	p.pre[stage] = append(p.pre[stage], h)
}

// RegisterPost adds a post-handler to its stage
func (p *Pipeline) RegisterPost(h PostHandler) {
	if h == nil {
		return
	}
	stage := h.Stage()
	if stage < 0 || stage >= numPostStages {
		stage = StagePostUser
	}
	p.post[stage] = append(p.post[stage], h)
}

// RunPre executes pre-handlers stage by stage and stops at the first one
// that returns false. A panicking handler is recorded as an error and aborts.
func (p *Pipeline) RunPre(c *request.Context) bool {
	for stage := PreStage(0); stage < numPreStages; stage++ {
		for _, h := range p.pre[stage] {
			if !runPre(h, c) {
				return false
			}
		}
	}
	return true
}

func runPre(h PreHandler, c *request.Context) (ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			c.AddError("", fmt.Sprintf("%s handler panicked: %v", h.Stage(), rec))
			ok = false
		}
	}()
	return h.Handle(c)
}

// RunPost threads the result through every post-handler in stage order
func (p *Pipeline) RunPost(c *request.Context, r *request.Result) *request.Result {
	for stage := PostStage(0); stage < numPostStages; stage++ {
		for _, h := range p.post[stage] {
			r = runPost(h, c, r)
		}
	}
	return r
}

func runPost(h PostHandler, c *request.Context, in *request.Result) (out *request.Result) {
	defer func() {
		if rec := recover(); rec != nil {
			out = in
			if out == nil {
				out = &request.Result{Status: request.StatusDispatchFailed}
			}
			out.Body = fmt.Sprintf("%s handler panicked: %v", h.Stage(), rec)
		}
	}()
	out = h.Handle(c, in)
	if out == nil {
		out = in
	}
	return out
}

// Len returns the number of registered pre- and post-handlers
func (p *Pipeline) Len() (pre, post int) {
	for _, hs := range p.pre {
		pre += len(hs)
	}
	for _, hs := range p.post {
		post += len(hs)
	}
	return pre, post
}

package http

import (
	"strings"
	"time"

	"github.com/abdul-hamid-achik/hitreq/packages/core/request"
)

type Response struct {
	StatusCode int
	Headers    map[string]string
	Cookies    map[string]string
	Body       []byte
	Duration   time.Duration
}

func (r *Response) Header(key string) string {
	for k, v := range r.Headers {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

func (r *Response) DurationMs() int64 {
	return r.Duration.Milliseconds()
}

// Result converts the response into an undecoded pipeline result
func (r *Response) Result() *request.Result {
	return &request.Result{
		Status:    r.StatusCode,
		ElapsedMs: r.DurationMs(),
		Headers:   r.Headers,
		Cookies:   r.Cookies,
		Body:      r.Body,
	}
}

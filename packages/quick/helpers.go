package quick

import (
	"context"
	"net/http"

	"github.com/abdul-hamid-achik/hitreq/packages/core/request"
)

// GetHTML fetches url and returns the body decoded as text
func GetHTML(ctx context.Context, url string, opts ...Option) (string, error) {
	return text(Do(ctx, http.MethodGet, url, request.ResponseHTML, nil, opts...))
}

// GetBytes fetches url and returns the raw body
func GetBytes(ctx context.Context, url string, opts ...Option) ([]byte, error) {
	return raw(Do(ctx, http.MethodGet, url, request.ResponseBytes, nil, opts...))
}

// GetMap fetches url and decodes a JSON object body
func GetMap(ctx context.Context, url string, opts ...Option) (map[string]any, error) {
	return GetJSON[map[string]any](ctx, url, opts...)
}

// GetJSON fetches url and decodes the JSON body into T
func GetJSON[T any](ctx context.Context, url string, opts ...Option) (T, error) {
	return typed[T](Do(ctx, http.MethodGet, url, request.ResponseJSON, request.TypeOf[T](), opts...))
}

// PostHTML posts the parameters as a form and returns the body as text
func PostHTML(ctx context.Context, url string, opts ...Option) (string, error) {
	return text(Do(ctx, http.MethodPost, url, request.ResponseHTML, nil, opts...))
}

func PostBytes(ctx context.Context, url string, opts ...Option) ([]byte, error) {
	return raw(Do(ctx, http.MethodPost, url, request.ResponseBytes, nil, opts...))
}

func PostMap(ctx context.Context, url string, opts ...Option) (map[string]any, error) {
	return PostJSON[map[string]any](ctx, url, opts...)
}

func PostJSON[T any](ctx context.Context, url string, opts ...Option) (T, error) {
	return typed[T](Do(ctx, http.MethodPost, url, request.ResponseJSON, request.TypeOf[T](), opts...))
}

func text(res *request.Result, err error) (string, error) {
	if err != nil {
		return "", err
	}
	return res.Text(), nil
}

func raw(res *request.Result, err error) ([]byte, error) {
	if err != nil {
		return nil, err
	}
	return res.Bytes(), nil
}

func typed[T any](res *request.Result, err error) (T, error) {
	if err != nil {
		var zero T
		return zero, err
	}
	return request.BodyAs[T](res)
}

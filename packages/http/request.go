package http

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/abdul-hamid-achik/hitreq/packages/charset"
	"github.com/abdul-hamid-achik/hitreq/packages/core/request"
)

// Request is a fully encoded wire request
type Request struct {
	Method      string
	URL         string
	Headers     map[string]string
	Body        []byte
	ContentType string
}

// queryMethods carry their parameters in the URL query
var queryMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodDelete:  true,
	http.MethodOptions: true,
}

// BuildRequest encodes an assembled context. Query methods put parameters
// in the URL; the others send a form body, or multipart when a file
// parameter is present. Values are transcoded into the context charset.
func BuildRequest(rc *request.Context) (*Request, error) {
	method := strings.ToUpper(rc.Method)
	if method == "" {
		method = http.MethodGet
	}
	cs := rc.Charset
	if cs == "" {
		cs = charset.Default
	}

	req := &Request{
		Method:  method,
		URL:     rc.URL,
		Headers: make(map[string]string, len(rc.Headers)+1),
	}
	for k, v := range rc.Headers {
		req.Headers[k] = v
	}
	if cookie := cookieHeader(rc.Cookies); cookie != "" && !rc.HasHeader("Cookie") {
		req.Headers["Cookie"] = cookie
	}

	if len(rc.Assembled) == 0 {
		return req, nil
	}

	if queryMethods[method] {
		values, err := encodeValues(rc.Assembled, cs, method)
		if err != nil {
			return nil, err
		}
		u, err := url.Parse(rc.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid URL: %v", err)
		}
		q := u.Query()
		for k, vs := range values {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
		req.URL = u.String()
		return req, nil
	}

	if hasFile(rc.Assembled) {
		body, ct, err := BuildMultipartBody(rc.Assembled, cs)
		if err != nil {
			return nil, err
		}
		req.Body = body.Bytes()
		req.ContentType = ct
		return req, nil
	}

	values, err := encodeValues(rc.Assembled, cs, method)
	if err != nil {
		return nil, err
	}
	req.Body = []byte(values.Encode())
	if !rc.HasHeader("Content-Type") {
		req.ContentType = "application/x-www-form-urlencoded; charset=" + cs
	}
	return req, nil
}

func encodeValues(params []request.Param, cs, method string) (url.Values, error) {
	values := url.Values{}
	for _, p := range params {
		if p.Kind == request.KindFile {
			return nil, fmt.Errorf("file parameter %q cannot be sent with %s", p.Name, method)
		}
		for _, v := range p.Values {
			encoded, err := charset.Encode(v, cs)
			if err != nil {
				return nil, fmt.Errorf("parameter %q: %w", p.Name, err)
			}
			values.Add(p.Name, encoded)
		}
	}
	return values, nil
}

func hasFile(params []request.Param) bool {
	for _, p := range params {
		if p.Kind == request.KindFile {
			return true
		}
	}
	return false
}

func cookieHeader(cookies map[string]string) string {
	if len(cookies) == 0 {
		return ""
	}
	names := make([]string, 0, len(cookies))
	for name := range cookies {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = (&http.Cookie{Name: name, Value: cookies[name]}).String()
	}
	return strings.Join(parts, "; ")
}

// BuildMultipartBody creates a multipart form data body from assembled parameters
func BuildMultipartBody(params []request.Param, cs string) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for _, p := range params {
		if p.Kind == request.KindFile {
			if err := writeFilePart(writer, p); err != nil {
				return nil, "", err
			}
			continue
		}
		// Regular form field
		for _, v := range p.Values {
			encoded, err := charset.Encode(v, cs)
			if err != nil {
				return nil, "", fmt.Errorf("parameter %q: %w", p.Name, err)
			}
			if err := writer.WriteField(p.Name, encoded); err != nil {
				return nil, "", err
			}
		}
	}

	err := writer.Close()
	if err != nil {
		return nil, "", err
	}

	return body, writer.FormDataContentType(), nil
}

func writeFilePart(writer *multipart.Writer, p request.Param) error {
	f := p.File
	if f == nil {
		return fmt.Errorf("file parameter %q has no file", p.Name)
	}
	filename := f.Filename
	if filename == "" && f.Path != "" {
		filename = filepath.Base(f.Path)
	}

	part, err := writer.CreateFormFile(p.Name, filename)
	if err != nil {
		return err
	}

	if f.Content != nil {
		_, err = part.Write(f.Content)
		return err
	}

	file, err := os.Open(f.Path)
	if err != nil {
		return fmt.Errorf("file parameter %q: %w", p.Name, err)
	}
	defer file.Close()

	_, err = io.Copy(part, file)
	return err
}

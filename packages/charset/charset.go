// Package charset transcodes between UTF-8 and the character encodings
// named in request declarations and response Content-Type headers.
package charset

import (
	"fmt"
	"mime"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// Default is used when neither the declaration nor the configuration names
// a charset
const Default = "UTF-8"

func lookup(name string) (encoding.Encoding, error) {
	if name == "" || isUTF8(name) {
		return unicode.UTF8, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %w", name, err)
	}
	return enc, nil
}

func isUTF8(name string) bool {
	n := strings.ToLower(strings.TrimSpace(name))
	return n == "utf-8" || n == "utf8"
}

// Supported reports whether name is a known charset
func Supported(name string) bool {
	_, err := lookup(name)
	return err == nil
}

// Encode converts a UTF-8 string into the named charset
func Encode(s, name string) (string, error) {
	if name == "" || isUTF8(name) {
		return s, nil
	}
	enc, err := lookup(name)
	if err != nil {
		return "", err
	}
	out, err := enc.NewEncoder().String(s)
	if err != nil {
		return "", fmt.Errorf("encoding to %s: %w", name, err)
	}
	return out, nil
}

// Decode converts bytes in the named charset to a UTF-8 string
func Decode(b []byte, name string) (string, error) {
	if name == "" || isUTF8(name) {
		return string(b), nil
	}
	enc, err := lookup(name)
	if err != nil {
		return "", err
	}
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("decoding from %s: %w", name, err)
	}
	return string(out), nil
}

// FromContentType returns the charset parameter of a Content-Type header,
// or "" when there is none
func FromContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return params["charset"]
}

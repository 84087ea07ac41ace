package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/hitreq/packages/charset"
	"gopkg.in/yaml.v3"
)

// Config represents the hitreq configuration
type Config struct {
	ConnectionTimeout int               `json:"connectionTimeout,omitempty" yaml:"connectionTimeout,omitempty"` // milliseconds
	SocketTimeout     int               `json:"socketTimeout,omitempty" yaml:"socketTimeout,omitempty"`         // milliseconds
	Charset           string            `json:"charset,omitempty" yaml:"charset,omitempty"`
	Pool              Pool              `json:"pool,omitempty" yaml:"pool,omitempty"`
	StrictURLTemplate *bool             `json:"strictUrlTemplate,omitempty" yaml:"strictUrlTemplate,omitempty"`
	FollowRedirects   *bool             `json:"followRedirects,omitempty" yaml:"followRedirects,omitempty"`
	MaxRedirects      int               `json:"maxRedirects,omitempty" yaml:"maxRedirects,omitempty"`
	UserAgent         string            `json:"userAgent,omitempty" yaml:"userAgent,omitempty"`
	Headers           map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"` // Default headers for all requests
	Handlers          Handlers          `json:"handlers,omitempty" yaml:"handlers,omitempty"`
	History           string            `json:"history,omitempty" yaml:"history,omitempty"` // SQLite path, empty disables
	NoColor           *bool             `json:"noColor,omitempty" yaml:"noColor,omitempty"`
}

// Pool is the dispatcher worker pool shape
type Pool struct {
	CoreSize         int `json:"coreSize,omitempty" yaml:"coreSize,omitempty"`
	MaxSize          int `json:"maxSize,omitempty" yaml:"maxSize,omitempty"`
	KeepAliveSeconds int `json:"keepAliveSeconds,omitempty" yaml:"keepAliveSeconds,omitempty"`
	QueueCapacity    int `json:"queueCapacity,omitempty" yaml:"queueCapacity,omitempty"`
}

// Handlers names the registered handler to use for each replaceable slot.
// Empty names select the built-in handler.
type Handlers struct {
	Defaults   string `json:"defaults,omitempty" yaml:"defaults,omitempty"`
	Validation string `json:"validation,omitempty" yaml:"validation,omitempty"`
	Assembly   string `json:"assembly,omitempty" yaml:"assembly,omitempty"`
	URL        string `json:"url,omitempty" yaml:"url,omitempty"`
	Parse      string `json:"parse,omitempty" yaml:"parse,omitempty"`
}

// Slots returns the non-empty handler names keyed by slot name
func (h Handlers) Slots() map[string]string {
	out := make(map[string]string)
	for slot, name := range map[string]string{
		"defaults":   h.Defaults,
		"validation": h.Validation,
		"assembly":   h.Assembly,
		"url":        h.URL,
		"parse":      h.Parse,
	} {
		if name != "" {
			out[slot] = name
		}
	}
	return out
}

// BoolPtr returns a pointer to a bool value
func BoolPtr(b bool) *bool {
	return &b
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetStrictURLTemplate returns the strict URL template setting, defaulting to true
func (c *Config) GetStrictURLTemplate() bool {
	return getBool(c.StrictURLTemplate, true)
}

// GetFollowRedirects returns the follow redirects setting, defaulting to true
func (c *Config) GetFollowRedirects() bool {
	return getBool(c.FollowRedirects, true)
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

func (c *Config) ConnectTimeoutDuration() time.Duration {
	return time.Duration(c.ConnectionTimeout) * time.Millisecond
}

func (c *Config) SocketTimeoutDuration() time.Duration {
	return time.Duration(c.SocketTimeout) * time.Millisecond
}

func (c *Config) KeepAliveDuration() time.Duration {
	return time.Duration(c.Pool.KeepAliveSeconds) * time.Second
}

// Validate checks values that would otherwise fail at first use
func (c *Config) Validate() error {
	if c.ConnectionTimeout < 0 {
		return fmt.Errorf("connectionTimeout cannot be negative")
	}
	if c.SocketTimeout < 0 {
		return fmt.Errorf("socketTimeout cannot be negative")
	}
	if c.Charset != "" && !charset.Supported(c.Charset) {
		return fmt.Errorf("unsupported charset %q", c.Charset)
	}
	p := c.Pool
	if p.CoreSize < 0 || p.MaxSize < 0 || p.QueueCapacity < 0 || p.KeepAliveSeconds < 0 {
		return fmt.Errorf("pool sizes cannot be negative")
	}
	if p.MaxSize > 0 && p.CoreSize > p.MaxSize {
		return fmt.Errorf("pool coreSize %d exceeds maxSize %d", p.CoreSize, p.MaxSize)
	}
	return nil
}

// ConfigFilenames contains the possible config file names
var ConfigFilenames = []string{
	".hitreq.json",
	"hitreq.json",
	".hitreq.yaml",
	"hitreq.yaml",
	".hitreq.yml",
	".hitreqrc",
}

// LoadConfig loads configuration from the specified path or searches for config files
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}

	// Search for config file in current directory
	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}

	// Return defaults if no config file found
	return DefaultConfig(), nil
}

// loadConfigFromFile loads configuration from a JSON or YAML file, chosen
// by extension. Values not present in the file keep their defaults.
func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	fileCfg := &Config{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, fileCfg)
	default:
		err = json.Unmarshal(data, fileCfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	config := DefaultConfig().Merge(fileCfg)
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c // Copy

	if other.ConnectionTimeout > 0 {
		result.ConnectionTimeout = other.ConnectionTimeout
	}
	if other.SocketTimeout > 0 {
		result.SocketTimeout = other.SocketTimeout
	}
	if other.Charset != "" {
		result.Charset = other.Charset
	}
	if other.MaxRedirects > 0 {
		result.MaxRedirects = other.MaxRedirects
	}
	if other.UserAgent != "" {
		result.UserAgent = other.UserAgent
	}
	if other.History != "" {
		result.History = other.History
	}

	if other.Pool.CoreSize > 0 {
		result.Pool.CoreSize = other.Pool.CoreSize
	}
	if other.Pool.MaxSize > 0 {
		result.Pool.MaxSize = other.Pool.MaxSize
	}
	if other.Pool.KeepAliveSeconds > 0 {
		result.Pool.KeepAliveSeconds = other.Pool.KeepAliveSeconds
	}
	if other.Pool.QueueCapacity > 0 {
		result.Pool.QueueCapacity = other.Pool.QueueCapacity
	}
	// a bound other leaves unset yields to the one it sets
	if p := &result.Pool; p.MaxSize > 0 && p.CoreSize > p.MaxSize {
		switch {
		case other.Pool.CoreSize == 0:
			p.CoreSize = p.MaxSize
		case other.Pool.MaxSize == 0:
			p.MaxSize = p.CoreSize
		}
	}

	// Boolean flags - only override if explicitly set in other config
	if other.StrictURLTemplate != nil {
		result.StrictURLTemplate = other.StrictURLTemplate
	}
	if other.FollowRedirects != nil {
		result.FollowRedirects = other.FollowRedirects
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}

	// Merge headers
	if len(other.Headers) > 0 {
		headers := make(map[string]string, len(result.Headers)+len(other.Headers))
		for k, v := range result.Headers {
			headers[k] = v
		}
		for k, v := range other.Headers {
			headers[k] = v
		}
		result.Headers = headers
	}

	for slot, name := range other.Handlers.Slots() {
		switch slot {
		case "defaults":
			result.Handlers.Defaults = name
		case "validation":
			result.Handlers.Validation = name
		case "assembly":
			result.Handlers.Assembly = name
		case "url":
			result.Handlers.URL = name
		case "parse":
			result.Handlers.Parse = name
		}
	}

	return &result
}

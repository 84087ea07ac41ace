package config

import "github.com/abdul-hamid-achik/hitreq/packages/charset"

// DefaultUserAgent is sent when no User-Agent header is configured
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		ConnectionTimeout: 10000, // 10 seconds
		SocketTimeout:     30000, // 30 seconds
		Charset:           charset.Default,
		Pool: Pool{
			CoreSize:         4,
			MaxSize:          16,
			KeepAliveSeconds: 60,
			QueueCapacity:    64,
		},
		StrictURLTemplate: BoolPtr(true),
		FollowRedirects:   BoolPtr(true),
		MaxRedirects:      10,
		UserAgent:         "",
		Headers:           nil,
	}
}

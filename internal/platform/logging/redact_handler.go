package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

// SensitiveHeaders lists the lowercase HTTP header names whose values never
// reach a log line. The HTTP middleware's RedactHeaders reads the same set.
var SensitiveHeaders = map[string]bool{
	"authorization":       true,
	"proxy-authorization": true,
	"x-api-key":           true,
	"cookie":              true,
	"set-cookie":          true,
}

// sensitiveFields are attribute keys redacted wherever they appear.
var sensitiveFields = []string{"password", "secret", "token", "dsn"}

// sensitivePrefixes catch variants such as "secret_key" or "api_key_v2".
var sensitivePrefixes = []string{"secret_", "api_key"}

// sensitiveValues match credentials that end up inside otherwise harmless
// attributes, e.g. a driver error that quotes its DSN.
var sensitiveValues = []*regexp.Regexp{
	// Bearer tokens.
	regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9\-._~+/]+=*`),
	// Raw JWTs. Ten characters per segment keeps version strings out.
	regexp.MustCompile(`[a-zA-Z0-9\-_]{10,}\.[a-zA-Z0-9\-_]{10,}\.[a-zA-Z0-9\-_]{10,}`),
	// Inline api_key=... / apikey: ...
	regexp.MustCompile(`(?i)(api[_\-]?key|apikey)\s*[:=]\s*\S+`),
	// user:password@tcp( in MySQL DSNs.
	regexp.MustCompile(`[^\s:/@]+:[^\s@]+@(tcp|unix)\(`),
}

// newRedactAttr builds the masq ReplaceAttr hook installed on every handler
// returned by New.
func newRedactAttr() func([]string, slog.Attr) slog.Attr {
	opts := make([]masq.Option, 0, len(SensitiveHeaders)+len(sensitiveFields)+len(sensitivePrefixes)+len(sensitiveValues))

	for name := range SensitiveHeaders {
		opts = append(opts, masq.WithFieldName(name))
	}
	for _, name := range sensitiveFields {
		opts = append(opts, masq.WithFieldName(name))
	}
	for _, prefix := range sensitivePrefixes {
		opts = append(opts, masq.WithFieldPrefix(prefix))
	}
	for _, re := range sensitiveValues {
		opts = append(opts, masq.WithRegex(re))
	}

	return masq.New(opts...)
}

package middleware

import (
	"log/slog"
	"maps"
	"net/http"
	"slices"
	"strings"

	"github.com/jsamuelsen11/go-todo-service/internal/platform/logging"
)

const redacted = "[REDACTED]"

// RedactHeaders renders headers as slog attributes sorted by name. Values of
// headers listed in logging.SensitiveHeaders are replaced with "[REDACTED]";
// multi-value headers are joined with a comma.
func RedactHeaders(headers http.Header) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(headers))
	for _, name := range slices.Sorted(maps.Keys(headers)) {
		value := redacted
		if !logging.SensitiveHeaders[strings.ToLower(name)] {
			value = strings.Join(headers[name], ",")
		}
		attrs = append(attrs, slog.String(name, value))
	}
	return attrs
}

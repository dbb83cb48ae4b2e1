package log

import (
	"context"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
)

// Mask replaces redacted attribute values.
const Mask = "***REDACTED***"

// urlUser replaces the userinfo of a URL, which cannot hold Mask unescaped.
const urlUser = "redacted"

// secretHeaders are request headers whose values are credentials.
var secretHeaders = map[string]bool{
	"authorization":       true,
	"proxy-authorization": true,
	"cookie":              true,
	"set-cookie":          true,
	"x-api-key":           true,
	"x-auth-token":        true,
	"x-csrf-token":        true,
}

// secretWords mark a key as a credential wherever they appear in it.
var secretWords = []string{
	"password", "passwd", "secret", "token", "auth",
	"credential", "session", "cookie", "apikey", "api_key", "api-key",
}

// countKeys are numeric fields that happen to contain a secret word.
var countKeys = map[string]bool{
	"tokens":     true,
	"est_tokens": true,
}

// credentialValue matches values that are credentials whatever their key:
// Authorization schemes and JWTs.
var credentialValue = regexp.MustCompile(`(?i)^(bearer|basic|token)\s+\S+$|^eyJ[\w-]*\.eyJ[\w-]*\.[\w-]*$`)

// RedactHandler masks credentials in log attributes before handing the
// record to the next handler.
//
// Site configs put cookies and auth headers on every request, and targets
// may be given as URLs with embedded user info. The handler masks:
//   - attributes whose key names a credential ("cookie", "auth_token", ...)
//   - header maps (map[string]string), entry by entry
//   - bearer/basic values and JWTs under any key
//   - the user info of URL strings
type RedactHandler struct {
	next slog.Handler
}

// NewRedactHandler wraps next. A nil next uses slog.Default's handler.
func NewRedactHandler(next slog.Handler) *RedactHandler {
	if next == nil {
		next = slog.Default().Handler()
	}
	return &RedactHandler{next: next}
}

// Enabled implements slog.Handler.
func (h *RedactHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *RedactHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(redactAttr(a))
		return true
	})
	return h.next.Handle(ctx, out)
}

// WithAttrs implements slog.Handler.
func (h *RedactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &RedactHandler{next: h.next.WithAttrs(redactAttrs(attrs))}
}

// WithGroup implements slog.Handler.
func (h *RedactHandler) WithGroup(name string) slog.Handler {
	return &RedactHandler{next: h.next.WithGroup(name)}
}

func redactAttrs(attrs []slog.Attr) []slog.Attr {
	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = redactAttr(a)
	}
	return out
}

func redactAttr(a slog.Attr) slog.Attr {
	v := a.Value.Resolve()
	key := strings.ToLower(a.Key)

	switch {
	case v.Kind() == slog.KindGroup:
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(redactAttrs(v.Group())...)}
	case countKeys[key]:
		return slog.Attr{Key: a.Key, Value: v}
	case secretKey(key):
		// An unset cookie logs as empty, not as a masked secret.
		if v.Kind() == slog.KindString && v.String() == "" {
			return slog.Attr{Key: a.Key, Value: v}
		}
		return slog.String(a.Key, Mask)
	}

	switch v.Kind() {
	case slog.KindString:
		return slog.String(a.Key, redactString(v.String()))
	case slog.KindAny:
		if headers, ok := v.Any().(map[string]string); ok {
			return slog.Any(a.Key, redactHeaders(headers))
		}
	}
	return slog.Attr{Key: a.Key, Value: v}
}

func secretKey(key string) bool {
	if secretHeaders[key] {
		return true
	}
	for _, word := range secretWords {
		if strings.Contains(key, word) {
			return true
		}
	}
	return false
}

func redactString(s string) string {
	if credentialValue.MatchString(s) {
		return Mask
	}
	if !strings.Contains(s, "@") || !strings.Contains(s, "://") {
		return s
	}
	u, err := url.Parse(s)
	if err != nil || u.User == nil {
		return s
	}
	u.User = url.User(urlUser)
	return u.String()
}

// redactHeaders returns a copy of headers with credential values masked.
func redactHeaders(headers map[string]string) map[string]string {
	out := make(map[string]string, len(headers))
	for name, value := range headers {
		if secretKey(strings.ToLower(name)) || credentialValue.MatchString(value) {
			value = Mask
		}
		out[name] = value
	}
	return out
}

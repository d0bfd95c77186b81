package domain

import "log/slog"

// Token is an opaque session token.
//
// Its format is owned by the token store that generated it; callers must
// treat it as an uninterpreted string.
type Token string

// String returns the raw token value.
func (t Token) String() string {
	return string(t)
}

// IsZero reports whether the token is empty.
func (t Token) IsZero() bool {
	return t == ""
}

// Masked returns a form of the token safe to log.
// Example: 3f2a...9c1e
func (t Token) Masked() string {
	s := string(t)
	if len(s) < 12 {
		return "***REDACTED***"
	}
	return s[:4] + "..." + s[len(s)-4:]
}

// LogValue implements slog.LogValuer.
func (t Token) LogValue() slog.Value {
	return slog.StringValue(t.Masked())
}

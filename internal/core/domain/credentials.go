package domain

import "log/slog"

// Credentials is a username/password pair.
//
// Values are compared with ==. No normalization is applied: usernames are
// case-sensitive and surrounding whitespace is significant.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// NewCredentials returns Credentials for the given username and password.
func NewCredentials(username, password string) Credentials {
	return Credentials{Username: username, Password: password}
}

// String renders the credentials without the password.
func (c Credentials) String() string {
	return "Credentials{Username: " + c.Username + ", Password: " + redactedPassword + "}"
}

// LogValue implements slog.LogValuer so that logging a Credentials value
// never emits the password.
func (c Credentials) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("username", c.Username),
		slog.String("password", redactedPassword),
	)
}

const redactedPassword = "[REDACTED]"

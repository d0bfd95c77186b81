package command

import (
	"context"
	"errors"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/tokauth/internal/cli/connection"
)

// ServerStatus is printed by status.
type ServerStatus struct {
	Server  string `json:"server" yaml:"server"`
	Health  string `json:"health" yaml:"health"`
	Ready   string `json:"ready" yaml:"ready"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
	Backend string `json:"backend,omitempty" yaml:"backend,omitempty"`
	Reason  string `json:"reason,omitempty" yaml:"reason,omitempty" table:"wide"`
}

type healthData struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Backend string `json:"backend"`
}

// StatusCommand returns the status command.
func StatusCommand() *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Check server health and readiness",
		Action: status,
	}
}

func status(c *cli.Context) error {
	s, err := sessionFrom(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Context, s.Timeout)
	defer cancel()

	result := ServerStatus{Server: s.Client.BaseURL()}

	var health healthData
	if err := s.Client.Get(ctx, "/health", "", &health); err != nil {
		return cli.Exit("server unreachable: "+err.Error(), 1)
	}
	result.Health = health.Status
	result.Version = health.Version
	result.Backend = health.Backend

	var ready healthData
	err = s.Client.Get(ctx, "/ready", "", &ready)
	var apiErr *connection.APIError
	switch {
	case err == nil:
		result.Ready = ready.Status
	case errors.As(err, &apiErr):
		result.Ready = "not ready"
		result.Reason = apiErr.Error()
	default:
		return err
	}
	return s.Render(result)
}

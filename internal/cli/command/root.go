package command

import (
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/tokauth/internal/cli/config"
	"github.com/yndnr/tokauth/internal/cli/connection"
	"github.com/yndnr/tokauth/internal/cli/output"
	"github.com/yndnr/tokauth/internal/infra/buildinfo"
)

const metaSession = "session"

// App creates the CLI application.
func App() *cli.App {
	info := buildinfo.Get()
	return &cli.App{
		Name:    "tokauth-cli",
		Usage:   "Register, log in and check tokens against a tokauth server",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.BuildTime),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			RegisterCommand(),
			LoginCommand(),
			WhoamiCommand(),
			LogoutCommand(),
			StatusCommand(),
			ConfigCommand(),
		},
		Before: setup,
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "tokauth server address (e.g., localhost:5080)",
			EnvVars: []string{"TOKAUTH_SERVER"},
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "CLI config file",
			EnvVars: []string{"TOKAUTH_CLI_CONFIG"},
			Value:   config.DefaultConfigPath(),
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more columns)",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Request timeout",
			Value: connection.DefaultTimeout,
		},
	}
}

// Session is the per-invocation state shared by all commands.
type Session struct {
	Config     *config.CLIConfig
	ConfigPath string
	Client     *connection.HTTPClient
	Formatter  output.Formatter
	Out        io.Writer
	Timeout    time.Duration
}

// Render writes data with the selected formatter.
func (s *Session) Render(data any) error {
	return s.Formatter.Format(s.Out, data)
}

// SaveConfig persists the CLI config.
func (s *Session) SaveConfig() error {
	return config.Save(s.Config, s.ConfigPath)
}

// setup loads the CLI config and resolves flags over it: an explicit flag
// wins, then the config file, then the built-in default.
func setup(c *cli.Context) error {
	path := c.String("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	server := cfg.Server
	if c.IsSet("server") {
		server = c.String("server")
	}
	outName := cfg.Output
	if c.IsSet("output") {
		outName = c.String("output")
	}
	format, err := output.ParseFormat(outName)
	if err != nil {
		return err
	}

	if c.App.Metadata == nil {
		c.App.Metadata = make(map[string]any)
	}
	c.App.Metadata[metaSession] = &Session{
		Config:     cfg,
		ConfigPath: path,
		Client: connection.NewHTTPClient(server,
			connection.WithTimeout(c.Duration("timeout")),
			connection.WithUserAgent("tokauth-cli/"+buildinfo.Get().Version)),
		Formatter: output.NewFormatter(format, c.Bool("wide")),
		Out:       c.App.Writer,
		Timeout:   c.Duration("timeout"),
	}
	return nil
}

// sessionFrom returns the Session prepared by setup.
func sessionFrom(c *cli.Context) (*Session, error) {
	s, ok := c.App.Metadata[metaSession].(*Session)
	if !ok {
		return nil, fmt.Errorf("cli session not initialized")
	}
	return s, nil
}

package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/tokauth/internal/cli/output"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "CLI local configuration",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the CLI configuration (token masked unless --wide)",
				Action: configShow,
			},
			{
				Name:   "path",
				Usage:  "Print the CLI config file path",
				Action: configPath,
			},
			{
				Name:      "set",
				Usage:     "Set a CLI config value (server, output)",
				ArgsUsage: "KEY VALUE",
				Action:    configSet,
			},
		},
	}
}

func configShow(c *cli.Context) error {
	s, err := sessionFrom(c)
	if err != nil {
		return err
	}
	shown := *s.Config
	if !c.Bool("wide") && len(shown.Token) > 8 {
		shown.Token = shown.Token[:4] + "..." + shown.Token[len(shown.Token)-4:]
	}
	return s.Render(shown)
}

func configPath(c *cli.Context) error {
	s, err := sessionFrom(c)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(s.Out, s.ConfigPath)
	return err
}

func configSet(c *cli.Context) error {
	s, err := sessionFrom(c)
	if err != nil {
		return err
	}
	if c.NArg() != 2 {
		return cli.Exit("usage: config set KEY VALUE", 2)
	}
	key, value := c.Args().Get(0), c.Args().Get(1)

	switch key {
	case "server":
		s.Config.Server = value
	case "output":
		if _, err := output.ParseFormat(value); err != nil {
			return err
		}
		s.Config.Output = value
	default:
		return cli.Exit(fmt.Sprintf("unknown config key %q (want server or output)", key), 2)
	}
	if err := s.SaveConfig(); err != nil {
		return err
	}
	_, err = fmt.Fprintf(s.Out, "%s = %s\n", key, value)
	return err
}

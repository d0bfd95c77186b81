package command

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/tokauth/internal/cli/connection"
)

// Server error codes the CLI reacts to.
const (
	codeRegistrationRejected = "TA-AUTH-4090"
	codeInvalidCredentials   = "TA-AUTH-4011"
	codeTokenInvalid         = "TA-TOKN-4010"
)

// ErrNoToken is returned by whoami when neither an argument nor a saved
// token is available.
var ErrNoToken = errors.New("no token given and none saved; run 'login --save' first")

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterResult is printed by register.
type RegisterResult struct {
	Username   string `json:"username" yaml:"username"`
	Registered bool   `json:"registered" yaml:"registered"`
}

// LoginResult is printed by login.
type LoginResult struct {
	Username string `json:"username" yaml:"username"`
	Token    string `json:"token" yaml:"token"`
	Saved    bool   `json:"saved" yaml:"saved" table:"wide"`
}

// Identity is printed by whoami.
type Identity struct {
	Username      string `json:"username" yaml:"username"`
	Authenticated bool   `json:"authenticated" yaml:"authenticated"`
}

func credentialFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "username",
			Aliases:  []string{"u"},
			Usage:    "Username",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "password",
			Aliases: []string{"p"},
			Usage:   "Password",
			EnvVars: []string{"TOKAUTH_PASSWORD"},
		},
		&cli.BoolFlag{
			Name:  "password-stdin",
			Usage: "Read the password from the first line of stdin",
		},
	}
}

// readCredentials collects the username and password flags. Empty values
// are passed through: the server decides what it accepts.
func readCredentials(c *cli.Context) (credentials, error) {
	creds := credentials{Username: c.String("username"), Password: c.String("password")}
	if !c.Bool("password-stdin") {
		return creds, nil
	}
	if c.IsSet("password") {
		return creds, fmt.Errorf("--password and --password-stdin are mutually exclusive")
	}
	line, err := bufio.NewReader(c.App.Reader).ReadString('\n')
	if err != nil && line == "" {
		return creds, fmt.Errorf("read password from stdin: %w", err)
	}
	creds.Password = strings.TrimRight(line, "\r\n")
	return creds, nil
}

// RegisterCommand returns the register command.
func RegisterCommand() *cli.Command {
	return &cli.Command{
		Name:   "register",
		Usage:  "Create an account",
		Flags:  credentialFlags(),
		Action: register,
	}
}

func register(c *cli.Context) error {
	s, err := sessionFrom(c)
	if err != nil {
		return err
	}
	creds, err := readCredentials(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Context, s.Timeout)
	defer cancel()

	var resp struct {
		Registered bool `json:"registered"`
	}
	if err := s.Client.Post(ctx, "/v1/register", creds, &resp); err != nil {
		if connection.IsCode(err, codeRegistrationRejected) {
			return cli.Exit(fmt.Sprintf("registration of %q rejected", creds.Username), 1)
		}
		return err
	}
	return s.Render(RegisterResult{Username: creds.Username, Registered: resp.Registered})
}

// LoginCommand returns the login command.
func LoginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Log in and print a session token",
		Flags: append(credentialFlags(), &cli.BoolFlag{
			Name:  "save",
			Usage: "Save the token to the CLI config for later commands",
		}),
		Action: login,
	}
}

func login(c *cli.Context) error {
	s, err := sessionFrom(c)
	if err != nil {
		return err
	}
	creds, err := readCredentials(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Context, s.Timeout)
	defer cancel()

	var resp struct {
		Token string `json:"token"`
	}
	if err := s.Client.Post(ctx, "/v1/login", creds, &resp); err != nil {
		if connection.IsCode(err, codeInvalidCredentials) {
			return cli.Exit("invalid username or password", 1)
		}
		return err
	}

	result := LoginResult{Username: creds.Username, Token: resp.Token}
	if c.Bool("save") {
		s.Config.Token = resp.Token
		s.Config.Username = creds.Username
		if err := s.SaveConfig(); err != nil {
			return err
		}
		result.Saved = true
	}
	return s.Render(result)
}

// WhoamiCommand returns the whoami command.
func WhoamiCommand() *cli.Command {
	return &cli.Command{
		Name:      "whoami",
		Usage:     "Show the user a token belongs to",
		ArgsUsage: "[TOKEN]",
		Action:    whoami,
	}
}

func whoami(c *cli.Context) error {
	s, err := sessionFrom(c)
	if err != nil {
		return err
	}
	token := c.Args().First()
	if token == "" {
		token = s.Config.Token
	}
	if token == "" {
		return ErrNoToken
	}

	ctx, cancel := context.WithTimeout(c.Context, s.Timeout)
	defer cancel()

	var resp struct {
		Username string `json:"username"`
	}
	if err := s.Client.Post(ctx, "/v1/authenticate", map[string]string{"token": token}, &resp); err != nil {
		if connection.IsCode(err, codeTokenInvalid) {
			return cli.Exit("token is not valid", 1)
		}
		return err
	}
	return s.Render(Identity{Username: resp.Username, Authenticated: true})
}

// LogoutCommand returns the logout command. Tokens never expire on the
// server, so logging out only forgets the saved token.
func LogoutCommand() *cli.Command {
	return &cli.Command{
		Name:   "logout",
		Usage:  "Forget the saved session token",
		Action: logout,
	}
}

func logout(c *cli.Context) error {
	s, err := sessionFrom(c)
	if err != nil {
		return err
	}
	if s.Config.Token == "" {
		fmt.Fprintln(s.Out, "no saved token")
		return nil
	}
	s.Config.Token = ""
	s.Config.Username = ""
	if err := s.SaveConfig(); err != nil {
		return err
	}
	fmt.Fprintln(s.Out, "saved token removed")
	return nil
}

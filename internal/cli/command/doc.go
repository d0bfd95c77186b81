// Package command defines the tokauth-cli commands.
//
// Every command talks to tokauth-server over its JSON API through
// connection.HTTPClient and renders results with the output package.
// A session token obtained with "login --save" is kept in the CLI config
// file and used by "whoami" when no token argument is given.
package command

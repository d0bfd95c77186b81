// Package output renders tokauth-cli results as a table, JSON or YAML.
package output

// Package output renders nsremover-cli results as a table, JSON or YAML.
package output

// Package command defines the nsremover-cli commands.
//
// Remote commands (ping, health, sweep) talk to a running nsremover-server.
// The local subcommands open a ledger directory directly and must not be
// pointed at a ledger a server currently holds open.
package command

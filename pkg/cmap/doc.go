// Package cmap provides a string-keyed map split into independently locked
// shards.
package cmap

// Package cmd contains the command-line utilities of lacuna. The lacuna
// tool runs a benchmark sweep and writes the resulting records to a file or
// to the durable result store.
package cmd

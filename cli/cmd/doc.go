// Package cmd provides the convert and check subcommands for processing
// MAD-X sequence files.
package cmd

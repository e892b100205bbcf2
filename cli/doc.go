// Package cli contains the command line interface for madseq.
//
// # Usage
//
// The default command parses a MAD-X input file, slices its sequences
// according to an optional slicing definition file, and writes the result:
//
//	madseq convert --slice=rules.yml input.madx output.madx
//
// Logging and profiling flags apply to every command:
//
//	madseq --log-level=debug --pprof-mode=cpu convert input.madx
package cli

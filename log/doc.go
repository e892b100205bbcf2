// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// The package offers configurable time formatting, caller information,
// and output formats that are applied at logger creation time using
// functional options.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("document parsed", slog.Int("nodes", n))
//
// # Configuration
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText),
//		log.WithCaller(true))
//
// # Default Logger
//
// A package-level default logger writes to stderr. It is reconfigured by the
// CLI flag group via [Config] and used by the package-level functions
// ([Trace], [Debug], [Info], [Warn], [Error] and their Context variants).
//
// # Supported Levels
//
// The package supports five log levels: [LevelTrace], [LevelDebug],
// [LevelInfo], [LevelWarn], and [LevelError]. Messages below the configured
// level are discarded. Zero-valued [Logger] instances discard everything,
// which lets library packages accept a logger without requiring one.
package log

// Package logging builds the structured loggers used by the loader, on top of
// the standard library log/slog. Loggers write JSON by default and text on
// request, filtered by a case-insensitive level name.
package logging

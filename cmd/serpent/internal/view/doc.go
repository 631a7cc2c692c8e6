// Package view provides output formatting and logging for the serpent CLI.
//
// The package uses a layered architecture: CLI → Viewer → Stream → io.Writer.
// Viewers handle format-specific rendering (human/json), while Stream
// provides basic output operations. Diagnostics are rendered here; the
// analysis packages never format or colour them.
package view

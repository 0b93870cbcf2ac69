//go:build go1.24

package pulsesim

import "log/slog"

var discardHandler slog.Handler = slog.DiscardHandler

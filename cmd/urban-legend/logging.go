package main

import (
	"go.uber.org/zap"
)

// newLogger writes to urban-legend.log rather than stdout: both clients own
// the terminal or the window, so console logging would tear the display.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"urban-legend.log"}
	cfg.ErrorOutputPaths = []string{"urban-legend.log"}
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

//go:build !cgo
// +build !cgo

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/appengine-ltd/urban-legend/internal/ui"
)

// version, commit, date are injected at build time (see .goreleaser.yaml).
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Without cgo there is no raylib client, so this build always runs the
// terminal one.
func main() {
	var (
		showVersion bool
		verbose     bool
		seed        int64
		mapID       string
		savePath    string
	)

	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.BoolVar(&verbose, "verbose", false, "enable debug logging")
	flag.Int64Var(&seed, "seed", 0, "simulation seed (0 = random)")
	flag.StringVar(&mapID, "map", "", "starting map id")
	flag.StringVar(&savePath, "save", "", "save file path")
	flag.Parse()

	if showVersion {
		fmt.Printf("Urban Legend %s (%s) %s\n", version, commit, date)
		return
	}

	logger, err := newLogger(verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	app := ui.NewApp(ui.AppConfig{
		Version:   version,
		Commit:    commit,
		BuildDate: date,
		Seed:      seed,
		MapID:     mapID,
		SavePath:  savePath,
	}, logger)
	if err := app.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// Command termplay plays tilepush stages in a terminal.
package main

import (
	"flag"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/milk9111/tilepush/levels"
	"github.com/milk9111/tilepush/prefabs"
)

func main() {
	levelName := flag.String("level", "1", "built-in level to start on")
	code := flag.String("code", "", "play an encoded stage instead")
	tuningFile := flag.String("tuning", prefabs.TuningFile, "tuning spec in prefabs/")
	logFile := flag.String("log", "", "write logs to this file")
	pick := flag.Bool("pick", false, "choose the stage from a list first")
	flag.Parse()

	// The screen owns the terminal, so logs go to a file or nowhere.
	log.SetOutput(nopWriter{})
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(f)
		log.SetLevel(log.DebugLevel)
	}

	tuning, err := prefabs.LoadTuning(*tuningFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	names := levels.Names()
	if *pick && *code == "" {
		chosen, err := pickLevel(names)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if chosen == "" {
			return
		}
		*levelName = chosen
	}

	p, err := newPlayer(tuning, names, *levelName, *code)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := p.run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

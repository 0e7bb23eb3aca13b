// Command halctl is an interactive console for exploring the interrupt
// core outside a real kernel: raise/lower IRQL by hand, inject a
// synthetic hardware IRQ, and dump the current IRQL, the synthetic
// replays so far and the PIC mask (the IRR/IDR/IrrActive bitmaps are not
// shown). It drives a Controller wired to a FakeBus, the same one the
// package's own tests use, since there is no real kernel here to supply
// one.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/peterh/liner"
	getopt "github.com/pborman/getopt/v2"

	"halcore/cmd/halctl/console"
)

func main() {
	optTrace := getopt.BoolLong("trace", 't', "Log every console command")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	programLevel := new(slog.LevelVar)
	if *optTrace {
		programLevel.Set(slog.LevelDebug)
	} else {
		programLevel.Set(slog.LevelWarn)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: programLevel}))
	slog.SetDefault(logger)

	session := console.NewSession()

	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(func(partial string) []string {
		return session.Complete(partial)
	})

	for {
		input, err := line.Prompt("halctl> ")
		if err == nil {
			line.AppendHistory(input)
			quit, runErr := session.Run(input)
			if runErr != nil {
				fmt.Println("error: " + runErr.Error())
			}
			if *optTrace {
				slog.Debug("command", "input", input)
			}
			if quit {
				return
			}
			continue
		}

		if errors.Is(err, liner.ErrPromptAborted) {
			return
		}
		slog.Error("error reading line", "err", err)
		return
	}
}

// Command web serves the picking analytics API: report uploads,
// analysis runs, settings, health, Prometheus metrics, and WebSocket
// refresh events.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"pickpulse/internal/app"
	"pickpulse/pkg/contracts"
)

func main() {
	showVersion := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(contracts.GetFullVersionString())
		return
	}

	application, err := app.NewApplication()
	if err != nil {
		slog.Error("failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bmeyers/taskflow/internal/api"
	"github.com/bmeyers/taskflow/internal/auth"
	"github.com/bmeyers/taskflow/internal/cache"
	"github.com/bmeyers/taskflow/internal/config"
	"github.com/bmeyers/taskflow/internal/service"
	"github.com/bmeyers/taskflow/internal/ui"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Handle version flag
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Printf("taskflow %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	storePath, err := auth.DefaultPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error locating data directory: %v\n", err)
		os.Exit(1)
	}
	creds, err := auth.Open(storePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening credential store: %v\n", err)
		os.Exit(1)
	}
	defer creds.Close()

	client := api.New(cfg.Server.URL, creds, cfg.RequestTimeout())
	queryCache := cache.New(cfg.CacheStaleness())
	svc := service.New(client, queryCache)

	app := ui.NewApp(svc, creds)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ragtail-dev/ragtail/internal/api"
	"github.com/ragtail-dev/ragtail/internal/cache"
	"github.com/ragtail-dev/ragtail/internal/config"
	"github.com/ragtail-dev/ragtail/internal/tui"
)

var version = "dev"

func init() {
	if version != "dev" {
		return
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		version = info.Main.Version
	}
}

func main() {
	server := flag.String("server", "", "Pipeline server URL (overrides config)")
	configPath := flag.String("config", "", "Path to a config file (skips discovery)")
	workflow := flag.String("workflow", "", "Workflow id for submitted queries")
	debugLog := flag.Bool("debug", false, "Write debug logs to ragtail-debug.log")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("ragtail", version)
		os.Exit(0)
	}

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Flags win over file and environment.
	if *server != "" {
		cfg.Server = *server
	}
	if *workflow != "" {
		cfg.WorkflowID = *workflow
	}
	if *debugLog {
		cfg.Debug = true
	}

	if cfg.Debug {
		f, err := tea.LogToFile("ragtail-debug.log", "ragtail")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Debug log error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
	}

	client, err := api.NewClient(cfg.Server)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}

	artCache, err := cache.NewArtifactCache(cfg.Cache.Dir, int(cfg.Cache.MaxSize), cfg.Cache.TTL())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cache error: %v\n", err)
		os.Exit(1)
	}
	// Old entries go first so the session starts within budget.
	if err := artCache.Evict(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cache eviction failed: %v\n", err)
	}

	app := tui.NewApp(cfg, client, artCache)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/netip"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/rs/zerolog"

	"zonectl.app/zonectl/discovery"
	"zonectl.app/zonectl/internal/buildinfo"
	"zonectl.app/zonectl/internal/cli"
	"zonectl.app/zonectl/internal/config"
	"zonectl.app/zonectl/internal/diagnostics"
	"zonectl.app/zonectl/speaker"
)

type selfTestOutput struct {
	Client struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"client"`
	Config struct {
		Path          string `json:"path"`
		SearchSeconds int    `json:"search_seconds"`
		Aliases       int    `json:"aliases"`
	} `json:"config"`
	Environment diagnostics.Report `json:"environment"`
}

func main() {
	selfTest := flag.Bool("self-test", false, "check the environment and config then exit")
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config.toml (default: the user config dir)")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, cli.Usage)
		fmt.Fprintln(os.Stderr, "\nflags:")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Println(buildinfo.Version)
		return
	}

	path := *configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *selfTest {
		out := selfTestOutput{
			Environment: diagnostics.Detect(path),
		}
		out.Client.Name = "zonectl"
		out.Client.Version = buildinfo.Version
		out.Config.Path = path
		out.Config.SearchSeconds = cfg.SearchSeconds
		out.Config.Aliases = len(cfg.Aliases)

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(out); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	runCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(parseLogLevel(os.Getenv("ZONECTL_LOG_LEVEL"))).
		With().Timestamp().Logger()

	client := cleanhttp.DefaultPooledClient()
	app := &cli.App{
		Out:    os.Stdout,
		Log:    log,
		Config: cfg,
		Lister: discovery.NewScanner(client, log),
		Connect: func(ctx context.Context, addr netip.Addr) (cli.Controller, error) {
			return speaker.ConnectWith(ctx, addr, client, log)
		},
	}

	if err := app.Run(runCtx, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseLogLevel(raw string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "info":
		return zerolog.InfoLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		fmt.Fprintf(os.Stderr, "invalid ZONECTL_LOG_LEVEL=%q; defaulting to info\n", raw)
		return zerolog.InfoLevel
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/germanamz/transmitter/pkg/appdir"
	"github.com/germanamz/transmitter/pkg/remote"
)

func main() {
	// Handle subcommands before flag parsing.
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "init":
			initCmd := flag.NewFlagSet("init", flag.ExitOnError)
			initCmd.Usage = func() {
				fmt.Fprintf(os.Stderr, "Usage: transmitter init [flags]\n\nInitialize a .transmitter directory with a config file.\n\nFlags:\n")
				initCmd.PrintDefaults()
			}
			dir := initCmd.String("dir", appdir.DefaultRoot, "path to .transmitter directory")
			defaults := initCmd.Bool("defaults", false, "write the default config without prompting")
			_ = initCmd.Parse(os.Args[2:])

			exitOnErr(runInit(*dir, *defaults))
			return

		case "serve":
			serveCmd := flag.NewFlagSet("serve", flag.ExitOnError)
			serveCmd.Usage = func() {
				fmt.Fprintf(os.Stderr, "Usage: transmitter serve [flags]\n\nServe the number transmitter API.\n\nFlags:\n")
				serveCmd.PrintDefaults()
			}
			common := addCommonFlags(serveCmd)
			listen := serveCmd.String("listen", "", "listen address (overrides listen in config)")
			_ = serveCmd.Parse(os.Args[2:])

			exitOnErr(withSignals(func(ctx context.Context) error {
				return runServe(ctx, *common, *listen)
			}, common.envFile))
			return

		case "client":
			clientCmd := flag.NewFlagSet("client", flag.ExitOnError)
			clientCmd.Usage = func() {
				fmt.Fprintf(os.Stderr, "Usage: transmitter client [flags]\n\nQuery a number transmitter API.\n\nFlags:\n")
				clientCmd.PrintDefaults()
				fmt.Fprintf(os.Stderr, "\nExamples:\n  transmitter client --current\n  transmitter client --monitor --duration 30s\n  transmitter client --server http://192.168.1.100:5001 --status\n")
			}
			common := addCommonFlags(clientCmd)
			var opts clientOptions
			clientCmd.BoolVar(&opts.current, "current", false, "get the current number")
			clientCmd.BoolVar(&opts.status, "status", false, "get API status")
			clientCmd.BoolVar(&opts.sequence, "sequence", false, "get sequence information")
			clientCmd.BoolVar(&opts.monitor, "monitor", false, "monitor number changes continuously")
			clientCmd.DurationVar(&opts.duration, "duration", 10*time.Second, "monitoring duration")
			clientCmd.DurationVar(&opts.interval, "interval", time.Second, "monitoring check interval")
			_ = clientCmd.Parse(os.Args[2:])

			if !opts.any() {
				clientCmd.Usage()
				os.Exit(1)
			}

			exitOnErr(withSignals(func(ctx context.Context) error {
				cfg, logger, err := loadRuntime(*common, os.Stderr)
				if err != nil {
					return err
				}
				api, err := remote.New(cfg.ServerURL, remote.Options{Logger: logger})
				if err != nil {
					return err
				}
				logger.Info("API client initialized", "base_url", api.BaseURL())
				return runClient(ctx, os.Stdout, api, nil, opts)
			}, common.envFile))
			return
		}
	}

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: transmitter [flags]\n       transmitter <command> [flags]\n\nFlags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nCommands:\n  init    Initialize a .transmitter directory with a config file\n  serve   Serve the number transmitter API\n  client  Query a number transmitter API\n")
	}

	common := addCommonFlags(flag.CommandLine)
	metricsAddr := flag.String("metrics-addr", "", "serve widget metrics on this address (disabled when empty)")
	flag.Parse()

	exitOnErr(withSignals(func(ctx context.Context) error {
		return runWidget(ctx, *common, *metricsAddr)
	}, common.envFile))
}

// commonFlags are shared by the widget and every subcommand that reads the
// config.
type commonFlags struct {
	configPath string
	dir        string
	envFile    string
	mode       string
	server     string
	verbose    bool
}

func addCommonFlags(fs *flag.FlagSet) *commonFlags {
	var c commonFlags
	fs.StringVar(&c.configPath, "config", "", "path to configuration file (default: .transmitter/config.yaml or transmitter.yaml)")
	fs.StringVar(&c.dir, "dir", appdir.DefaultRoot, "path to .transmitter directory")
	fs.StringVar(&c.envFile, "env", ".env", "path to .env file (ignored if missing)")
	fs.StringVar(&c.mode, "mode", "", "start-up mode: local or sync (overrides mode in config)")
	fs.StringVar(&c.server, "server", "", "transmitter API base URL (overrides server_url in config)")
	fs.BoolVar(&c.verbose, "verbose", false, "log at debug level")
	return &c
}

// withSignals loads the .env file and runs fn with a context cancelled on
// SIGINT or SIGTERM.
func withSignals(fn func(ctx context.Context) error, envFile string) error {
	if err := loadDotEnv(envFile); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return fn(ctx)
}

func exitOnErr(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MarcinKonowalczyk/bfc/driver"

	"github.com/containerd/log"
	"github.com/tebeka/atexit"
)

// comptime override for debug flag
// set with `-ldflags="-X 'main.debug=true'"`
var debug string

type config struct {
	opts      driver.Options
	run       bool
	logLevel  string
	logFormat string
	debug     bool
}

var errUsage = errors.New("usage")

func parseFlags(args []string) (*config, error) {
	cfg := &config{}
	flags := flag.NewFlagSet("bfc", flag.ContinueOnError)
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "Usage: bfc [flags] <file.bf>\n\nTranspiles brainfuck to C.\n\n")
		flags.PrintDefaults()
	}
	flags.StringVar(&cfg.opts.Input, "file", "", "brainfuck source file (or pass it as an argument)")
	flags.StringVar(&cfg.opts.Output, "o", "", "output file, '-' for stdout (default: input with a .c extension)")
	flags.BoolVar(&cfg.opts.Strict, "strict", false, "fail on unbalanced loops instead of emitting invalid C")
	flags.BoolVar(&cfg.run, "run", false, "interpret the program instead of transpiling it")
	flags.StringVar(&cfg.logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	flags.StringVar(&cfg.logFormat, "log-format", string(log.TextFormat), "log format (text, json)")
	flags.BoolVar(&cfg.debug, "debug", debug != "", "shorthand for -log-level=debug")

	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	positional := flags.NArg()
	if cfg.opts.Input == "" && positional == 1 {
		cfg.opts.Input = flags.Arg(0)
	} else if positional > 0 {
		fmt.Fprintln(flags.Output(), "unexpected arguments:", flags.Args())
		return nil, errUsage
	}
	if cfg.opts.Input == "" {
		flags.Usage()
		return nil, errUsage
	}
	if cfg.debug {
		cfg.logLevel = "debug"
	}
	return cfg, nil
}

func setupLogging(cfg *config) error {
	if err := log.SetLevel(cfg.logLevel); err != nil {
		return fmt.Errorf("invalid -log-level: %w", err)
	}
	if err := log.SetFormat(log.OutputFormat(cfg.logFormat)); err != nil {
		return fmt.Errorf("invalid -log-format: %w", err)
	}
	return nil
}

func run(ctx context.Context, cfg *config) error {
	if cfg.run {
		return driver.Execute(ctx, cfg.opts)
	}
	_, err := driver.Transpile(ctx, cfg.opts)
	return err
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	atexit.Register(cancel)

	cfg, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		atexit.Exit(0)
	} else if err != nil {
		atexit.Exit(2)
	}
	if err := setupLogging(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(2)
	}

	if err := run(ctx, cfg); err != nil {
		log.G(ctx).WithError(err).Error("bfc failed")
		atexit.Exit(1)
	}
	atexit.Exit(0)
}

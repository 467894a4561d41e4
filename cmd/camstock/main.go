package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/vbonduro/camstock/internal/config"
	"github.com/vbonduro/camstock/internal/logging"
	"github.com/vbonduro/camstock/internal/metrics"
	"github.com/vbonduro/camstock/internal/seed"
	"github.com/vbonduro/camstock/internal/service"
	"github.com/vbonduro/camstock/internal/web"
)

const usage = `usage:
  camstock serve
  camstock list <kind> [conditions] [-full]
  camstock seed <file.yaml>

kinds: cameras, flashes, lenses, stock`

var errUsage = errors.New(usage)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, usage)
		} else {
			logger.Error("camstock failed", "error", err)
		}
		stop()
		cleanup()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	reg := prometheus.NewRegistry()
	rec, err := metrics.NewRecorder(reg)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	b, err := openBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer b.close()

	catalog := service.NewCatalog(b.stores, logger, rec)

	switch args[0] {
	case "serve":
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		return web.NewServer(catalog, reg, logger).ListenAndServe(ctx, cfg.ListenAddr)
	case "list":
		return list(ctx, catalog, args[1:], stdout)
	case "seed":
		return seedCatalog(ctx, catalog, args[1:], stdout)
	default:
		return errUsage
	}
}

func list(ctx context.Context, catalog *service.Catalog, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	full := fs.Bool("full", false, "print one labelled line per field")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	pos := fs.Args()
	if len(pos) == 0 {
		return errUsage
	}
	kind, pos := pos[0], pos[1:]

	var conditions string
	if len(pos) > 0 && !strings.HasPrefix(pos[0], "-") {
		conditions, pos = pos[0], pos[1:]
	}
	// Flags may also follow the positional arguments.
	if err := fs.Parse(pos); err != nil || fs.NArg() > 0 {
		return errUsage
	}

	out, err := catalog.Render(ctx, kind, conditions, !*full)
	if err != nil {
		return err
	}
	if out != "" {
		_, err = fmt.Fprintln(stdout, out)
	}
	return err
}

func seedCatalog(ctx context.Context, catalog *service.Catalog, args []string, stdout io.Writer) error {
	if len(args) != 1 {
		return errUsage
	}

	f, err := seed.Load(args[0])
	if err != nil {
		return err
	}

	report, err := catalog.Seed(ctx, f)
	for _, kind := range service.Kinds {
		if r, ok := report[kind]; ok {
			fmt.Fprintf(stdout, "%s: %d inserted\n", kind, r.Inserted)
		}
	}
	return err
}

// Command deskbridge runs host processes on behalf of the desktop front end.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rediacc/deskbridge"
	"github.com/rediacc/deskbridge/internal/config"
	bridgemcp "github.com/rediacc/deskbridge/internal/mcp"
	"github.com/rediacc/deskbridge/internal/probe"
	"github.com/rediacc/deskbridge/internal/runner"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("deskbridge: ")

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "mcp":
		err = mcpMain(args)
	case "probe":
		err = probeMain(args)
	case "version":
		fmt.Println(deskbridge.Version)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "deskbridge: unknown command %q\n", cmd)
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatal(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: deskbridge <command> [flags]

Commands:
  mcp         Start the MCP server (stdio by default)
  probe       Report interpreter, CLI and platform capabilities
  version     Print the version
  help        Show this help

Use "deskbridge <command> -h" for command-specific flags.`)
}

// --- mcp ---

func mcpMain(args []string) error {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	configPath := fs.String("config", "", "config file (default: user config dir)")
	instructions := fs.Bool("instructions", false, "print client instructions and exit")
	httpAddr := fs.String("http", "", "start HTTP server on address (e.g. :9090)")
	verbose := fs.Bool("v", false, "debug logging")
	_ = fs.Parse(args)

	if *instructions {
		fmt.Print(bridgemcp.Instructions)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := newLogger(*verbose)

	server := bridgemcp.NewServer(cfg, newRunner(cfg, logger), bridgemcp.WithLogger(logger))

	if *httpAddr != "" {
		return serveHTTP(ctx, server, *httpAddr)
	}
	return server.Run(ctx, &mcpsdk.StdioTransport{})
}

func serveHTTP(ctx context.Context, server *mcpsdk.Server, addr string) error {
	handler := mcpsdk.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcpsdk.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		<-ctx.Done()
		_ = httpServer.Close()
	}()

	log.Printf("listening on %s", addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// --- probe ---

// probeReport is what "deskbridge probe" prints.
type probeReport struct {
	probe.EnvironmentInfo
	Distro        string `json:"distro,omitempty"`
	Python        bool   `json:"python"`
	PythonVersion string `json:"python_version,omitempty"`
	CLI           bool   `json:"cli"`
}

func probeMain(args []string) error {
	fs := flag.NewFlagSet("probe", flag.ExitOnError)
	configPath := fs.String("config", "", "config file (default: user config dir)")
	jsonFlag := fs.Bool("json", false, "output results as JSON")
	verbose := fs.Bool("v", false, "debug logging")
	_ = fs.Parse(args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := newLogger(*verbose)
	p := &probe.Probe{Config: cfg, Runner: newRunner(cfg, logger), Logger: logger}

	rep := probeReport{
		EnvironmentInfo: probe.Info(),
		Python:          p.InterpreterPresent(ctx),
		CLI:             p.ToolPresent(ctx),
	}
	if rep.Python {
		if v, err := p.InterpreterVersion(ctx); err == nil {
			rep.PythonVersion = v
		}
	}
	if runtime.GOOS == "linux" {
		rep.Distro = p.Distro(ctx)
	}

	if *jsonFlag {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}

	fmt.Print(formatProbeCLI(rep))
	return nil
}

func formatProbeCLI(rep probeReport) string {
	var b []byte
	w := func(format string, args ...any) {
		b = fmt.Appendf(b, format, args...)
	}

	w("  %-10s %s/%s (%s)\n", "platform", rep.Platform, rep.Architecture, rep.Family)
	if rep.Distro != "" {
		w("  %-10s %s\n", "distro", rep.Distro)
	}
	if rep.Python {
		w("  %-10s %s\n", "python", rep.PythonVersion)
	} else {
		w("  %-10s not installed\n", "python")
	}
	if rep.CLI {
		w("  %-10s ok\n", "cli")
	} else {
		w("  %-10s not installed\n", "cli")
	}

	return string(b)
}

// --- shared ---

// newLogger logs to stderr; stdout belongs to the stdio transport.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func newRunner(cfg *config.Config, logger *slog.Logger) *runner.Runner {
	return &runner.Runner{
		Timeout:   cfg.Timeout(),
		MaxOutput: cfg.MaxOutputBytes(),
		Logger:    logger,
	}
}

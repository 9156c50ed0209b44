package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/trialsum"
	"github.com/fwojciec/trialsum/chart"
	"github.com/fwojciec/trialsum/etree"
	"github.com/fwojciec/trialsum/extract"
	"github.com/fwojciec/trialsum/fetch"
	"github.com/fwojciec/trialsum/goquery"
	"github.com/fwojciec/trialsum/htmltomarkdown"
	tshttp "github.com/fwojciec/trialsum/http"
	"github.com/fwojciec/trialsum/pipeline"
	"github.com/fwojciec/trialsum/readability"
	"github.com/fwojciec/trialsum/rod"
	tsslog "github.com/fwojciec/trialsum/slog"
	"github.com/fwojciec/trialsum/sqlite"
	"github.com/fwojciec/trialsum/trafilatura"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run(); --db overrides it.
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("trialsum"),
		kong.Description("Extract structured summaries from clinical trial articles"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'trialsum --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg := cli.Config()
	if err := cfg.Validate(); err != nil {
		if cfg.UseAIExtraction && cfg.APIKey == "" {
			fmt.Fprintln(stderr, "Hint: pass --api-key or set TRIALSUM_API_KEY")
		}
		return err
	}

	deps.Logger = newLogger(stderr, cfg.Verbose)
	if cfg.UseAIExtraction {
		deps.Logger.Warn("AI extraction is not available, using pattern extraction")
	}

	if cli.DB != "" {
		m.DBPath = cli.DB
	}
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set TRIALSUM_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	deps.Runs = tsslog.NewLoggingRunService(sqlite.NewRunService(m.DB), deps.Logger)

	command := kongCtx.Command()
	if strings.HasPrefix(command, "extract") || strings.HasPrefix(command, "batch") {
		strategies, err := buildStrategies(cli.Strategies, cfg)
		if err != nil {
			return err
		}
		deps.Pipeline = buildPipeline(strategies, cfg, deps.Runs, deps.Logger)
	}

	return kongCtx.Run(deps)
}

// newLogger logs warnings to stderr, or everything when verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// buildStrategies creates fetch strategies in the given order.
func buildStrategies(ids []string, cfg trialsum.Config) ([]trialsum.Strategy, error) {
	if len(ids) == 0 {
		return nil, trialsum.Errorf(trialsum.EINVALID, "at least one fetch strategy required")
	}

	var strategies []trialsum.Strategy
	for _, id := range ids {
		switch trialsum.StrategyID(strings.TrimSpace(id)) {
		case trialsum.StrategyHTTP:
			strategies = append(strategies, tshttp.NewStrategy(tshttp.WithTimeout(cfg.Timeout())))
		case trialsum.StrategyHeadless:
			strategies = append(strategies, rod.NewHeadlessStrategy())
		case trialsum.StrategyBrowser:
			strategies = append(strategies, rod.NewBrowserStrategy(rod.WithDisplay(os.Getenv("DISPLAY"))))
		default:
			return nil, trialsum.Errorf(trialsum.EINVALID, "unknown fetch strategy %q (want http, headless or browser)", id)
		}
	}
	return strategies, nil
}

// buildPipeline wires the fetch chain, readers, extractor and normalizer.
func buildPipeline(strategies []trialsum.Strategy, cfg trialsum.Config, runs trialsum.RunService, logger *slog.Logger) *pipeline.Pipeline {
	chain := fetch.NewChain(
		tsslog.WrapStrategies(strategies, logger),
		fetch.WithTimeout(cfg.Timeout()),
		fetch.WithValidator(tsslog.NewLoggingValidator(goquery.NewValidator(), logger)),
		fetch.WithLogger(logger),
	)

	converter := htmltomarkdown.NewConverter()
	reader := extract.ReaderChain{
		etree.NewArticleReader(),
		goquery.NewArticleReader(),
		&extract.MainContentReader{Extractor: trafilatura.NewExtractor(), Converter: converter},
		&extract.MainContentReader{Extractor: readability.NewExtractor(), Converter: converter},
	}

	return &pipeline.Pipeline{
		Fetcher:   chain,
		Reader:    tsslog.NewLoggingReader(reader, logger),
		Extractor: extract.NewExtractor(),
		Charts:    chart.NewNormalizer(),
		Runs:      runs,
		Logger:    logger,
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "trialsum.db"
	}
	dir := filepath.Join(home, ".trialsum")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "trialsum.db")
}

// Command edh-deckbuilder assembles a 100-card Commander deck from a
// collection file and an EDHREC recommendation feed, then prints the deck
// and a list of priced upgrade suggestions. With -watch it rebuilds whenever
// the collection file changes.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/ramonehamilton/EDH-Deckbuilder/internal/builder"
	"github.com/ramonehamilton/EDH-Deckbuilder/internal/cards"
	"github.com/ramonehamilton/EDH-Deckbuilder/internal/cards/scryfall"
	"github.com/ramonehamilton/EDH-Deckbuilder/internal/charts"
	"github.com/ramonehamilton/EDH-Deckbuilder/internal/config"
	"github.com/ramonehamilton/EDH-Deckbuilder/internal/deck"
	"github.com/ramonehamilton/EDH-Deckbuilder/internal/edhrec"
	"github.com/ramonehamilton/EDH-Deckbuilder/internal/export"
	"github.com/ramonehamilton/EDH-Deckbuilder/internal/version"
)

var (
	// Build inputs
	commanderName  = flag.String("commander", "", "Commander card name (required)")
	collectionPath = flag.String("collection", "", "Path to collection file, .csv or .txt (required)")

	// Build tuning flags
	curveTarget = flag.Float64("curve", 0, "Target mana curve, 1.0-7.0 (default from config)")
	maxPrice    = flag.Float64("max-price", -1, "Suggestion price ceiling, 0 disables (default from config)")
	currency    = flag.String("currency", "", "Preferred price currency, eur or usd (default from config)")
	workers     = flag.Int("workers", 0, "Concurrent card lookup workers (default from config)")

	// Output flags
	sortOrder  = flag.String("sort", "", "Deck sort order: none, type, or function (default from config)")
	format     = flag.String("format", "", "Export format: csv or json (default from config)")
	deckOut    = flag.String("deck-out", "", "Write the deck table to this file")
	suggestOut = flag.String("suggest-out", "", "Write the suggestion table to this file")
	chartOut   = flag.String("chart-out", "", "Write a mana-curve chart (HTML) to this file")
	overwrite  = flag.Bool("overwrite", false, "Overwrite existing output files")

	// Application mode flags
	watch          = flag.Bool("watch", false, "Watch the collection file and rebuild on change")
	debugMode      = flag.Bool("debug-mode", false, "Enable verbose debug logging")
	debugModeShort = flag.Bool("d", false, "Enable debug logging (shorthand for -debug-mode)")
	configPath     = flag.String("config", "", "Path to TOML config file (default ~/.edh-deckbuilder/config.toml)")
	showVersion    = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("edh-deckbuilder %s\n", version.GetVersion())
		return
	}

	if *debugModeShort {
		*debugMode = true
	}

	level := slog.LevelInfo
	if *debugMode {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	applyFlagOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	if *commanderName == "" || *collectionPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -commander and -collection are required")
		fmt.Fprintln(os.Stderr)
		flag.Usage()
		os.Exit(2)
	}

	app := newApp(cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.runOnce(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Build failed: %v\n", err)
		os.Exit(1)
	}

	if *watch {
		if err := app.watchLoop(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Watch failed: %v\n", err)
			os.Exit(1)
		}
	}
}

// loadConfig reads the config file named by -config, or the default path
// when the flag is unset. A missing file yields defaults.
func loadConfig() (*config.Config, error) {
	path := *configPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return config.Load(path)
}

// applyFlagOverrides lets explicitly-set flags win over config file values.
func applyFlagOverrides(cfg *config.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "curve":
			cfg.Build.CurveTarget = *curveTarget
		case "max-price":
			cfg.Build.MaxPrice = *maxPrice
		case "currency":
			cfg.Build.Currency = *currency
		case "workers":
			cfg.HTTP.Workers = *workers
		case "sort":
			cfg.Output.SortAfter = *sortOrder
		case "format":
			cfg.Output.Format = *format
		case "chart-out":
			cfg.Output.Chart = true
		}
	})
}

// app holds the wired clients and settings for one or more builds.
type app struct {
	builder *builder.Builder
	cfg     *config.Config
	logger  *slog.Logger
}

func newApp(cfg *config.Config, logger *slog.Logger) *app {
	var scryfallOpts []scryfall.Option
	if cfg.HTTP.ScryfallURL != "" {
		scryfallOpts = append(scryfallOpts, scryfall.WithBaseURL(cfg.HTTP.ScryfallURL))
	}
	resolver := cards.NewResolver(scryfall.NewClient(scryfallOpts...))

	recs := edhrec.NewClient(
		edhrec.WithLogger(logger),
		edhrec.WithBaseURLs(cfg.HTTP.EdhrecJSONURL, cfg.HTTP.EdhrecHTMLURL),
	)

	return &app{
		builder: builder.New(resolver, recs, logger),
		cfg:     cfg,
		logger:  logger,
	}
}

func (a *app) runOnce(ctx context.Context) error {
	result, err := a.builder.Build(ctx, builder.Request{
		CommanderName:  *commanderName,
		CollectionPath: *collectionPath,
		Options: deck.Options{
			CurveTarget:   a.cfg.Build.CurveTarget,
			MaxPrice:      a.cfg.Build.MaxPrice,
			Currency:      a.cfg.Build.Currency,
			Staples:       a.cfg.Build.Staples,
			SuggestionCap: a.cfg.Build.SuggestionCap,
		},
		Workers: a.cfg.HTTP.Workers,
	})
	if err != nil {
		return err
	}

	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}

	order := deck.SortOrder(a.cfg.Output.SortAfter)
	if order == "" {
		order = deck.SortNone
	}
	deckRows := result.Deck.Rows(order)
	suggestionRows := deck.SuggestionRows(result.Suggestions)

	printResult(os.Stdout, result, deckRows, suggestionRows)

	exportFormat := export.Format(a.cfg.Output.Format)
	if *deckOut != "" {
		if err := export.ToFile(deckRows, export.Options{
			Format:     exportFormat,
			FilePath:   *deckOut,
			PrettyJSON: true,
			Overwrite:  *overwrite || *watch,
		}); err != nil {
			return fmt.Errorf("failed to export deck: %w", err)
		}
		a.logger.Info("Deck exported", "path", *deckOut, "format", exportFormat)
	}
	if *suggestOut != "" && len(suggestionRows) == 0 {
		a.logger.Info("No suggestions to export", "path", *suggestOut)
	} else if *suggestOut != "" {
		if err := export.ToFile(suggestionRows, export.Options{
			Format:     exportFormat,
			FilePath:   *suggestOut,
			PrettyJSON: true,
			Overwrite:  *overwrite || *watch,
		}); err != nil {
			return fmt.Errorf("failed to export suggestions: %w", err)
		}
		a.logger.Info("Suggestions exported", "path", *suggestOut, "format", exportFormat)
	}
	if *chartOut != "" {
		chartCfg := charts.DefaultConfig()
		chartCfg.Subtitle = result.Commander.Name
		if err := charts.RenderCurve(deckRows, chartCfg, *chartOut); err != nil {
			return fmt.Errorf("failed to render chart: %w", err)
		}
		a.logger.Info("Chart rendered", "path", *chartOut)
	}
	return nil
}

func printResult(w *os.File, result *builder.Result, deckRows []deck.Row, suggestionRows []deck.SuggestionRow) {
	fmt.Fprintf(w, "\nCommander: %s [%s]\n", result.Commander.Name, result.Commander.IdentityString())
	fmt.Fprintf(w, "Deck: %d cards (%d recommendation hits from your collection)\n\n", result.Deck.Len(), result.OwnedHits)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tMV\tTYPE\tFUNCTION\tIDENTITY")
	for _, r := range deckRows {
		fmt.Fprintf(tw, "%s\t%.0f\t%s\t%s\t%s\n", r.Name, r.ManaValue, r.Type, r.Function, r.ColorIdentity)
	}
	tw.Flush()

	if len(result.NotFound) > 0 {
		fmt.Fprintf(w, "\nUnmatched collection entries (%d): %s\n", len(result.NotFound), strings.Join(result.NotFound, ", "))
	}

	if len(suggestionRows) > 0 {
		fmt.Fprintf(w, "\nSuggested additions (%d):\n\n", len(suggestionRows))
		tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tPRICE\tMV\tTYPE\tFUNCTION")
		for _, r := range suggestionRows {
			fmt.Fprintf(tw, "%s\t%.2f\t%.0f\t%s\t%s\n", r.Name, r.Price, r.ManaValue, r.Type, r.Function)
		}
		tw.Flush()
	}
	fmt.Fprintln(w)
}

// debounceDelay coalesces editor save bursts into a single rebuild.
const debounceDelay = 500 * time.Millisecond

// watchLoop rebuilds the deck whenever the collection file changes. Some
// editors replace the file on save, which drops the watch, so the path is
// re-added after rename and remove events.
func (a *app) watchLoop(ctx context.Context) (err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		if closeErr := watcher.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if err := watcher.Add(*collectionPath); err != nil {
		return fmt.Errorf("failed to watch collection file: %w", err)
	}

	a.logger.Info("Watching collection for changes", "path", *collectionPath)

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()
	rebuild := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("Shutting down")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if event.Op&(fsnotify.Rename|fsnotify.Remove) != 0 {
				// Wait for the replacement file to land before re-adding.
				time.Sleep(100 * time.Millisecond)
				if err := watcher.Add(*collectionPath); err != nil {
					a.logger.Warn("Collection file gone, waiting for it to return", "path", *collectionPath, "error", err)
					continue
				}
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDelay, func() {
				select {
				case rebuild <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.logger.Warn("File watcher error", "error", err)
		case <-rebuild:
			a.logger.Info("Collection changed, rebuilding")
			if err := a.runOnce(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "Rebuild failed: %v\n", err)
			}
		}
	}
}

package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/enoch85/receiptor/internal/category"
	"github.com/enoch85/receiptor/internal/household"
	"github.com/enoch85/receiptor/internal/ingest"
	"github.com/enoch85/receiptor/internal/llm"
	"github.com/enoch85/receiptor/internal/scanning"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	// A missing .env file is fine
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		slog.Error("Command failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	a := &app{out: os.Stdout}
	root := a.command()

	if err := root.Parse(args, ff.WithEnvVarPrefix("RECEIPTOR")); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Command(root.GetSelected()))
		if errors.Is(err, ff.ErrHelp) {
			return nil
		}
		return err
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(*a.logLevel)); err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if selected := root.GetSelected(); selected.Exec == nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Command(selected))
		return nil
	}
	return root.Run(ctx)
}

// app holds the root flags and the resources opened for a command
type app struct {
	out io.Writer

	dbPath      *string
	storagePath *string
	householdID *string
	scannerType *string
	geminiKey   *string
	geminiModel *string
	ollamaURL   *string
	ollamaModel *string
	country     *string
	workers     *int
	logLevel    *string
}

func (a *app) command() *ff.Command {
	fs := ff.NewFlagSet("receiptor")
	a.dbPath = fs.StringLong("db", "receiptor.db", "Database file path")
	a.storagePath = fs.StringLong("storage", "./receipts", "Receipt image directory")
	a.householdID = fs.StringLong("household", "default", "Household the receipts belong to")
	a.scannerType = fs.StringLong("scanner", "mock", "Model backend: 'gemini', 'ollama' or 'mock'")
	a.geminiKey = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
	a.geminiModel = fs.StringLong("gemini-model", "gemini-2.5-flash", "Google Gemini model name")
	a.ollamaURL = fs.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL")
	a.ollamaModel = fs.StringLong("ollama-model", "llava", "Ollama model name (e.g., llava, qwen2-vl)")
	a.country = fs.StringLong("country", "Sweden", "Country the receipts come from, used in categorization prompts")
	a.workers = fs.IntLong("workers", 4, "Receipts ingested concurrently")
	a.logLevel = fs.StringLong("log-level", "info", "Log level: debug, info, warn or error")

	return &ff.Command{
		Name:      "receiptor",
		Usage:     "receiptor [FLAGS] <SUBCOMMAND> ...",
		ShortHelp: "household grocery receipt ingestion and analytics",
		Flags:     fs,
		Subcommands: []*ff.Command{
			a.ingestCommand(fs),
			a.scanCommand(fs),
			a.manualCommand(fs),
			a.validateCommand(fs),
			a.receiptsCommand(fs),
			a.budgetCommand(fs),
			a.trendCommand(fs),
			a.categoriesCommand(fs),
			a.healthCommand(fs),
			a.pricesCommand(fs),
			a.insightsCommand(fs),
			a.summaryCommand(fs),
		},
	}
}

// model connects to the configured language model, or returns nil for the mock backend
func (a *app) model(ctx context.Context) (llm.Client, error) {
	switch *a.scannerType {
	case "gemini":
		// Get Gemini API key from flag or environment
		apiKey := *a.geminiKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			return nil, errors.New("gemini api key is required: set --gemini-key or GEMINI_API_KEY")
		}
		slog.Debug("Initializing Gemini...", "model", *a.geminiModel)
		return llm.NewGemini(ctx, apiKey, *a.geminiModel)
	case "ollama":
		slog.Debug("Initializing Ollama...", "url", *a.ollamaURL, "model", *a.ollamaModel)
		return llm.NewOllama(*a.ollamaURL, *a.ollamaModel), nil
	case "mock":
		return nil, nil
	default:
		return nil, fmt.Errorf("invalid scanner type %q: want gemini, ollama or mock", *a.scannerType)
	}
}

// service opens the database, storage and model and builds the ingestion service.
// cleanup releases everything it opened.
func (a *app) service(ctx context.Context) (svc *ingest.Service, cleanup func(), err error) {
	db, err := household.NewBoltDB(*a.dbPath)
	if err != nil {
		return nil, nil, err
	}

	store, err := household.NewLocalStorage(*a.storagePath)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	client, err := a.model(ctx)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	var (
		predictor category.Predictor
		primary   scanning.Scanner
	)
	if client != nil {
		predictor = category.NewLLMPredictor(client, llm.DefaultRetry)
		primary = scanning.NewVision(client, llm.DefaultRetry)
	}

	svc = ingest.NewService(ingest.Config{
		DB:          db,
		Storage:     store,
		Scanner:     scanning.WithFallback(primary),
		Classifier:  category.NewClassifier(predictor, *a.country),
		HouseholdID: *a.householdID,
		Workers:     *a.workers,
	})

	cleanup = func() {
		if client != nil {
			if err := client.Close(); err != nil {
				slog.Warn("Failed to close model client", "error", err)
			}
		}
		if err := db.Close(); err != nil {
			slog.Warn("Failed to close database", "error", err)
		}
	}
	return svc, cleanup, nil
}

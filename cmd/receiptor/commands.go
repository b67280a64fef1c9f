package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/peterbourgon/ff/v4"

	"github.com/enoch85/receiptor/internal/analytics"
	"github.com/enoch85/receiptor/internal/category"
	"github.com/enoch85/receiptor/internal/household"
	"github.com/enoch85/receiptor/internal/ingest"
	"github.com/enoch85/receiptor/internal/receipt"
)

// withService runs fn with a freshly opened service
func (a *app) withService(ctx context.Context, fn func(*ingest.Service) (any, error)) error {
	svc, cleanup, err := a.service(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	v, err := fn(svc)
	if err != nil {
		return err
	}
	return a.print(v)
}

func (a *app) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseFormat(s string) (ingest.Format, error) {
	switch f := ingest.Format(s); f {
	case ingest.FormatVeryfi, ingest.FormatOCR:
		return f, nil
	default:
		return "", fmt.Errorf("unknown payload format %q", s)
	}
}

func parseDateFlag(name, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, ok := receipt.ParseDate(s)
	if !ok {
		return time.Time{}, fmt.Errorf("invalid --%s date %q", name, s)
	}
	return t, nil
}

// parseAmount reads a finite decimal number
func parseAmount(what, s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", what, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("parsing %s: %q is not a number", what, s)
	}
	return v, nil
}

func contentType(filename string, data []byte) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); t != "" {
		return t
	}
	return http.DetectContentType(data)
}

func requireArgs(args []string, n int, what string) error {
	if len(args) < n {
		return fmt.Errorf("%s required", what)
	}
	return nil
}

func (a *app) ingestCommand(parent *ff.FlagSet) *ff.Command {
	fs := ff.NewFlagSet("ingest").SetParent(parent)
	format := fs.StringLong("format", string(ingest.FormatVeryfi), "Payload format: 'veryfi' or 'ocr'")

	return &ff.Command{
		Name:      "ingest",
		Usage:     "receiptor ingest [FLAGS] <FILE>...",
		ShortHelp: "store OCR payloads read from JSON files",
		Flags:     fs,
		Exec: func(ctx context.Context, args []string) error {
			if err := requireArgs(args, 1, "at least one payload file"); err != nil {
				return err
			}
			f, err := parseFormat(*format)
			if err != nil {
				return err
			}

			payloads := make([][]byte, len(args))
			for i, name := range args {
				payloads[i], err = os.ReadFile(name)
				if err != nil {
					return fmt.Errorf("reading payload: %w", err)
				}
			}

			return a.withService(ctx, func(svc *ingest.Service) (any, error) {
				return svc.IngestBatch(ctx, f, payloads)
			})
		},
	}
}

func (a *app) scanCommand(parent *ff.FlagSet) *ff.Command {
	fs := ff.NewFlagSet("scan").SetParent(parent)

	return &ff.Command{
		Name:      "scan",
		Usage:     "receiptor scan [FLAGS] <IMAGE>...",
		ShortHelp: "scan receipt images or PDFs and store them",
		Flags:     fs,
		Exec: func(ctx context.Context, args []string) error {
			if err := requireArgs(args, 1, "at least one image"); err != nil {
				return err
			}
			return a.withService(ctx, func(svc *ingest.Service) (any, error) {
				results := make([]*ingest.Result, 0, len(args))
				for _, name := range args {
					data, err := os.ReadFile(name)
					if err != nil {
						return nil, fmt.Errorf("reading image: %w", err)
					}
					res, err := svc.Scan(ctx, filepath.Base(name), data, contentType(name, data))
					if err != nil {
						return nil, fmt.Errorf("%s: %w", name, err)
					}
					results = append(results, res)
				}
				return results, nil
			})
		},
	}
}

// parseItems reads NAME=PRICE[xQTY] arguments
func parseItems(args []string) ([]receipt.ParsedItem, error) {
	items := make([]receipt.ParsedItem, 0, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("item %q: want NAME=PRICE", arg)
		}
		qty := 1.0
		if p, q, found := strings.Cut(value, "x"); found {
			n, err := parseAmount("quantity of "+strconv.Quote(arg), q)
			if err != nil {
				return nil, err
			}
			value, qty = p, n
		}
		price, err := parseAmount("price of "+strconv.Quote(arg), value)
		if err != nil {
			return nil, err
		}
		items = append(items, receipt.ParsedItem{
			Name:       strings.TrimSpace(name),
			Quantity:   qty,
			UnitPrice:  price,
			TotalPrice: price * qty,
		})
	}
	return items, nil
}

func (a *app) manualCommand(parent *ff.FlagSet) *ff.Command {
	fs := ff.NewFlagSet("manual").SetParent(parent)
	store := fs.StringLong("store", "", "Store name")
	total := fs.StringLong("total", "", "Receipt total")
	date := fs.StringLong("date", "", "Purchase date (default today)")

	return &ff.Command{
		Name:      "manual",
		Usage:     "receiptor manual [FLAGS] [NAME=PRICE[xQTY]]...",
		ShortHelp: "store a receipt entered by hand",
		Flags:     fs,
		Exec: func(ctx context.Context, args []string) error {
			amount, err := parseAmount("--total", *total)
			if err != nil {
				return err
			}
			purchased, err := parseDateFlag("date", *date)
			if err != nil {
				return err
			}
			if purchased.IsZero() {
				y, m, d := time.Now().UTC().Date()
				purchased = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
			}
			items, err := parseItems(args)
			if err != nil {
				return err
			}

			return a.withService(ctx, func(svc *ingest.Service) (any, error) {
				return svc.Ingest(ctx, receipt.ManualEntry(*store, amount, purchased, items), household.SourceManual, "")
			})
		},
	}
}

func (a *app) validateCommand(parent *ff.FlagSet) *ff.Command {
	fs := ff.NewFlagSet("validate").SetParent(parent)
	format := fs.StringLong("format", string(ingest.FormatVeryfi), "Payload format: 'veryfi' or 'ocr'")

	type report struct {
		File       string                 `json:"file"`
		Receipt    *receipt.ParsedReceipt `json:"receipt,omitempty"`
		Validation *receipt.Validation    `json:"validation,omitempty"`
		Error      string                 `json:"error,omitempty"`
	}

	return &ff.Command{
		Name:      "validate",
		Usage:     "receiptor validate [FLAGS] <FILE>...",
		ShortHelp: "normalize and check OCR payloads without storing them",
		Flags:     fs,
		Exec: func(ctx context.Context, args []string) error {
			if err := requireArgs(args, 1, "at least one payload file"); err != nil {
				return err
			}
			f, err := parseFormat(*format)
			if err != nil {
				return err
			}

			reports := make([]report, 0, len(args))
			for _, name := range args {
				data, err := os.ReadFile(name)
				if err != nil {
					return fmt.Errorf("reading payload: %w", err)
				}
				parsed, err := ingest.Decode(f, data)
				if err != nil {
					reports = append(reports, report{File: name, Error: err.Error()})
					continue
				}
				v := receipt.Validate(parsed)
				reports = append(reports, report{File: name, Receipt: parsed, Validation: &v})
			}
			return a.print(reports)
		},
	}
}

func (a *app) receiptsCommand(parent *ff.FlagSet) *ff.Command {
	fs := ff.NewFlagSet("receipts").SetParent(parent)

	list := &ff.Command{
		Name:      "list",
		Usage:     "receiptor receipts list",
		ShortHelp: "list the household's receipts, oldest first",
		Flags:     ff.NewFlagSet("list").SetParent(fs),
		Exec: func(ctx context.Context, args []string) error {
			return a.withService(ctx, func(svc *ingest.Service) (any, error) {
				return svc.ListReceipts()
			})
		},
	}
	show := &ff.Command{
		Name:      "show",
		Usage:     "receiptor receipts show <ID>",
		ShortHelp: "print one receipt",
		Flags:     ff.NewFlagSet("show").SetParent(fs),
		Exec: func(ctx context.Context, args []string) error {
			if err := requireArgs(args, 1, "receipt id"); err != nil {
				return err
			}
			return a.withService(ctx, func(svc *ingest.Service) (any, error) {
				return svc.GetReceipt(args[0])
			})
		},
	}
	del := &ff.Command{
		Name:      "delete",
		Usage:     "receiptor receipts delete <ID>",
		ShortHelp: "remove a receipt and its image",
		Flags:     ff.NewFlagSet("delete").SetParent(fs),
		Exec: func(ctx context.Context, args []string) error {
			if err := requireArgs(args, 1, "receipt id"); err != nil {
				return err
			}
			return a.withService(ctx, func(svc *ingest.Service) (any, error) {
				if err := svc.DeleteReceipt(args[0]); err != nil {
					return nil, err
				}
				return map[string]string{"deleted": args[0]}, nil
			})
		},
	}

	return &ff.Command{
		Name:        "receipts",
		Usage:       "receiptor receipts <SUBCOMMAND> ...",
		ShortHelp:   "list, show or delete stored receipts",
		Flags:       fs,
		Subcommands: []*ff.Command{list, show, del},
	}
}

func (a *app) budgetCommand(parent *ff.FlagSet) *ff.Command {
	fs := ff.NewFlagSet("budget").SetParent(parent)

	setFlags := ff.NewFlagSet("set").SetParent(fs)
	name := setFlags.StringLong("name", "Groceries", "Budget name")
	amount := setFlags.StringLong("amount", "", "Amount per period")
	period := setFlags.StringLong("period", string(household.Monthly), "Period: weekly, monthly or yearly")
	start := setFlags.StringLong("start", "", "Start date (default today)")
	cat := setFlags.StringLong("category", "", "Only count items of this category")

	set := &ff.Command{
		Name:      "set",
		Usage:     "receiptor budget set [FLAGS]",
		ShortHelp: "create a budget",
		Flags:     setFlags,
		Exec: func(ctx context.Context, args []string) error {
			value, err := parseAmount("--amount", *amount)
			if err != nil {
				return err
			}
			p, err := household.ParseBudgetPeriod(*period)
			if err != nil {
				return err
			}
			startDate, err := parseDateFlag("start", *start)
			if err != nil {
				return err
			}
			var c *category.Category
			if *cat != "" {
				parsed, err := category.Parse(*cat)
				if err != nil {
					return err
				}
				c = &parsed
			}

			return a.withService(ctx, func(svc *ingest.Service) (any, error) {
				return svc.SetBudget(*name, value, p, startDate, c)
			})
		},
	}
	list := &ff.Command{
		Name:      "list",
		Usage:     "receiptor budget list",
		ShortHelp: "list the household's budgets",
		Flags:     ff.NewFlagSet("list").SetParent(fs),
		Exec: func(ctx context.Context, args []string) error {
			return a.withService(ctx, func(svc *ingest.Service) (any, error) {
				return svc.ListBudgets()
			})
		},
	}

	return &ff.Command{
		Name:        "budget",
		Usage:       "receiptor budget <SUBCOMMAND> ...",
		ShortHelp:   "manage budgets",
		Flags:       fs,
		Subcommands: []*ff.Command{set, list},
	}
}

func (a *app) trendCommand(parent *ff.FlagSet) *ff.Command {
	fs := ff.NewFlagSet("trend").SetParent(parent)
	period := fs.StringLong("period", string(analytics.Weekly), "Bucket: daily, weekly or monthly")

	return &ff.Command{
		Name:      "trend",
		Usage:     "receiptor trend [FLAGS]",
		ShortHelp: "show the spending trend",
		Flags:     fs,
		Exec: func(ctx context.Context, args []string) error {
			p, ok := analytics.ParsePeriod(*period)
			if !ok {
				return fmt.Errorf("unknown trend period %q", *period)
			}
			return a.withService(ctx, func(svc *ingest.Service) (any, error) {
				return svc.Trend(p)
			})
		},
	}
}

func (a *app) categoriesCommand(parent *ff.FlagSet) *ff.Command {
	fs := ff.NewFlagSet("categories").SetParent(parent)
	from := fs.StringLong("from", "", "First purchase date to include")
	to := fs.StringLong("to", "", "Last purchase date to include")

	return &ff.Command{
		Name:      "categories",
		Usage:     "receiptor categories [FLAGS]",
		ShortHelp: "break spending down by category",
		Flags:     fs,
		Exec: func(ctx context.Context, args []string) error {
			fromDate, err := parseDateFlag("from", *from)
			if err != nil {
				return err
			}
			toDate, err := parseDateFlag("to", *to)
			if err != nil {
				return err
			}
			if !toDate.IsZero() {
				// Include the whole last day
				toDate = toDate.Add(24*time.Hour - time.Nanosecond)
			}
			return a.withService(ctx, func(svc *ingest.Service) (any, error) {
				return svc.Categories(fromDate, toDate)
			})
		},
	}
}

func (a *app) healthCommand(parent *ff.FlagSet) *ff.Command {
	fs := ff.NewFlagSet("health").SetParent(parent)

	return &ff.Command{
		Name:      "health",
		Usage:     "receiptor health <BUDGET_ID>",
		ShortHelp: "grade a budget's current period",
		Flags:     fs,
		Exec: func(ctx context.Context, args []string) error {
			if err := requireArgs(args, 1, "budget id"); err != nil {
				return err
			}
			return a.withService(ctx, func(svc *ingest.Service) (any, error) {
				return svc.Health(args[0])
			})
		},
	}
}

func (a *app) pricesCommand(parent *ff.FlagSet) *ff.Command {
	fs := ff.NewFlagSet("prices").SetParent(parent)

	return &ff.Command{
		Name:      "prices",
		Usage:     "receiptor prices <ITEM>",
		ShortHelp: "compare what was paid for an item",
		Flags:     fs,
		Exec: func(ctx context.Context, args []string) error {
			if err := requireArgs(args, 1, "item name"); err != nil {
				return err
			}
			return a.withService(ctx, func(svc *ingest.Service) (any, error) {
				cmp, err := svc.Prices(strings.Join(args, " "))
				if err != nil {
					return nil, err
				}
				if cmp == nil {
					return nil, errors.New("no purchases match that item")
				}
				return cmp, nil
			})
		},
	}
}

func (a *app) insightsCommand(parent *ff.FlagSet) *ff.Command {
	fs := ff.NewFlagSet("insights").SetParent(parent)

	return &ff.Command{
		Name:      "insights",
		Usage:     "receiptor insights <BUDGET_ID>",
		ShortHelp: "suggest savings for a budget's current period",
		Flags:     fs,
		Exec: func(ctx context.Context, args []string) error {
			if err := requireArgs(args, 1, "budget id"); err != nil {
				return err
			}
			return a.withService(ctx, func(svc *ingest.Service) (any, error) {
				return svc.Insights(args[0])
			})
		},
	}
}

func (a *app) summaryCommand(parent *ff.FlagSet) *ff.Command {
	fs := ff.NewFlagSet("summary").SetParent(parent)
	period := fs.StringLong("period", string(household.Monthly), "Period: weekly, monthly or yearly")

	return &ff.Command{
		Name:      "summary",
		Usage:     "receiptor summary [FLAGS]",
		ShortHelp: "summarize the current period",
		Flags:     fs,
		Exec: func(ctx context.Context, args []string) error {
			p, err := household.ParseBudgetPeriod(*period)
			if err != nil {
				return err
			}
			return a.withService(ctx, func(svc *ingest.Service) (any, error) {
				return svc.Summary(p)
			})
		},
	}
}

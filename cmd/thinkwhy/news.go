package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"ThinkWhy/internal/config"
	"ThinkWhy/internal/news"
)

type newsFlags struct {
	category string
	keywords string
	region   string
	time     string
	max      int
	format   string
}

func newNewsCmd() *cobra.Command {
	var f newsFlags
	var interactive bool
	cmd := &cobra.Command{
		Use:   "news",
		Short: "Search recent news by category",
		Long: "Search recent news by category. With --interactive, searches repeat until /quit " +
			"and identical searches within the cache TTL are answered from the cache.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if _, _, _, err := f.query(); err != nil {
				return err
			}

			rt, err := setup(ctx)
			if err != nil {
				return err
			}
			defer rt.cleanup()

			ddg, err := news.NewDuckDuckGo(rt.cfg.News.BaseURL, rt.cfg.News.Timeout, rt.logger, rt.tracer)
			if err != nil {
				return fmt.Errorf("failed to initialize news client: %w", err)
			}
			r := &newsRunner{
				svc:    news.NewService(ddg, rt.cfg.News.CacheTTL, rt.logger),
				out:    cmd.OutOrStdout(),
				errOut: cmd.ErrOrStderr(),
			}
			if interactive {
				return r.loop(ctx, cmd.InOrStdin(), f)
			}
			return r.search(ctx, f)
		},
	}

	cmd.Flags().StringVar(&f.category, "category", config.NewsCategories[0], "News category")
	cmd.Flags().StringVar(&f.keywords, "keywords", "", "Optional keywords to narrow the search")
	cmd.Flags().StringVar(&f.region, "region", config.DefaultRegion, "Region name or code (e.g. 'United States' or us-en)")
	cmd.Flags().StringVar(&f.time, "time", config.DefaultTimeFilter, "Time filter label or code (d, w, m)")
	cmd.Flags().IntVar(&f.max, "max", config.DefaultNewsResults, fmt.Sprintf("Number of results (%d-%d)", config.MinNewsResults, config.MaxNewsResults))
	cmd.Flags().StringVar(&f.format, "format", news.FormatText, "Output format: text, markdown or html")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Read searches from stdin until /quit")
	return cmd
}

// newsRunner runs searches against one Service so its cache spans a session
type newsRunner struct {
	svc    *news.Service
	out    io.Writer
	errOut io.Writer
}

func (r *newsRunner) search(ctx context.Context, f newsFlags) error {
	q, regionName, timeLabel, err := f.query()
	if err != nil {
		return err
	}
	articles, err := r.svc.Search(ctx, q)
	if err != nil {
		if errors.Is(err, news.ErrInvalidQuery) {
			return err
		}
		printFetchError(r.errOut, err)
	}
	report, err := news.Report(f.format, q, regionName, timeLabel, articles)
	if err != nil {
		return err
	}
	fmt.Fprint(r.out, report)
	return nil
}

// loop reads "<category>" or "<category>: <keywords>" lines and searches
// each one. Slash commands change the remaining filters.
func (r *newsRunner) loop(ctx context.Context, in io.Reader, f newsFlags) error {
	fmt.Fprintln(r.out, "=== ThinkWhy News ===")
	fmt.Fprintln(r.out, `Enter a category, optionally followed by ": keywords". Type /help for commands, /quit to exit`)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(r.out, "News: ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			next, quit, err := r.handleCommand(input, f)
			if err != nil {
				fmt.Fprintf(r.out, "Error: %v\n", err)
			} else {
				f = next
			}
			if quit {
				break
			}
			continue
		}

		next := f
		category, keywords, _ := strings.Cut(input, ":")
		next.category = strings.TrimSpace(category)
		next.keywords = strings.TrimSpace(keywords)
		if err := r.search(ctx, next); err != nil {
			fmt.Fprintf(r.out, "Error: %v\n", err)
			continue
		}
		f = next
	}

	fmt.Fprintln(r.out, "Goodbye!")
	return nil
}

// handleCommand returns the updated flags; they are only kept when they resolve
func (r *newsRunner) handleCommand(input string, f newsFlags) (newsFlags, bool, error) {
	parts := strings.Fields(input)
	arg := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))

	switch parts[0] {
	case "/quit", "/exit":
		return f, true, nil
	case "/region":
		f.region = arg
	case "/time":
		f.time = arg
	case "/max":
		n, err := strconv.Atoi(arg)
		if err != nil || n < config.MinNewsResults || n > config.MaxNewsResults {
			return f, false, fmt.Errorf("usage: /max <%d-%d>", config.MinNewsResults, config.MaxNewsResults)
		}
		f.max = n
	case "/format":
		switch arg {
		case news.FormatText, news.FormatMarkdown, news.FormatHTML:
			f.format = arg
		default:
			return f, false, fmt.Errorf("unknown format %q (want %s, %s or %s)", arg, news.FormatText, news.FormatMarkdown, news.FormatHTML)
		}
	case "/options":
		fmt.Fprintf(r.out, "Categories: %s\n", strings.Join(config.NewsCategories, ", "))
		fmt.Fprintf(r.out, "Regions:    %s\n", strings.Join(config.RegionNames, ", "))
		fmt.Fprintf(r.out, "Time:       %s\n", strings.Join(config.TimeFilterNames, ", "))
		return f, false, nil
	case "/help":
		fmt.Fprintln(r.out, "Available commands:")
		fmt.Fprintln(r.out, "  /region <name|code>  - Set the region")
		fmt.Fprintln(r.out, "  /time <label|code>   - Set the time filter (d, w, m)")
		fmt.Fprintf(r.out, "  /max <n>             - Set the number of results (%d-%d)\n", config.MinNewsResults, config.MaxNewsResults)
		fmt.Fprintln(r.out, "  /format <format>     - text, markdown or html")
		fmt.Fprintln(r.out, "  /options             - List categories, regions and time filters")
		fmt.Fprintln(r.out, "  /quit, /exit         - Exit")
		return f, false, nil
	default:
		return f, false, fmt.Errorf("unknown command: %s (try /help)", parts[0])
	}

	_, regionName, timeLabel, err := f.query()
	if err != nil {
		return f, false, err
	}
	fmt.Fprintf(r.out, "Region: %s | Time: %s | Results: %d | Format: %s\n", regionName, timeLabel, f.max, f.format)
	return f, false, nil
}

// query resolves the flag values against the option catalogues
func (f newsFlags) query() (news.Query, string, string, error) {
	category, err := config.Match(config.NewsCategories, f.category)
	if err != nil {
		return news.Query{}, "", "", err
	}
	regionName, regionCode, err := config.ResolveRegion(f.region)
	if err != nil {
		return news.Query{}, "", "", err
	}
	timeLabel, timeCode, err := config.ResolveTimeFilter(f.time)
	if err != nil {
		return news.Query{}, "", "", err
	}
	q := news.Query{
		Topic:      category,
		Keywords:   f.keywords,
		Region:     regionCode,
		TimeLimit:  timeCode,
		MaxResults: f.max,
	}
	return q, regionName, timeLabel, nil
}

func printFetchError(w io.Writer, err error) {
	if cause := errors.Unwrap(err); cause != nil {
		err = cause
	}
	fmt.Fprintf(w, "Error fetching news: %v\n", err)
}

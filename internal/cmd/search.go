package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"

	"github.com/jimezsa/jobmailer/internal/aggregate"
	"github.com/jimezsa/jobmailer/internal/export"
	"github.com/jimezsa/jobmailer/internal/search"
)

type SearchCmd struct {
	Query     string `arg:"" optional:"" help:"Search query (comma-separated). Defaults to the configured queries."`
	QueryFile string `help:"Path to a JSON file with queries (string array or object with a queries array)."`
	Max       int    `help:"Maximum results after deduplication (default: configured max_results)."`
	Format    string `help:"Output format: table, csv, tsv, json, md, html." enum:",table,csv,tsv,json,md,html" default:""`
	Links     string `help:"Table link display: short or full." enum:"short,full" default:"full"`
	Output    string `name:"output" short:"o" help:"Write output to a file."`
	Proxies   string `help:"Comma-separated proxy URLs." env:"JOBMAILER_PROXIES"`
}

func (s *SearchCmd) Run(ctx *Context) error {
	if strings.TrimSpace(ctx.Config.SerpAPIKey) == "" {
		return fmt.Errorf("SERPAPI_KEY is not set")
	}

	queries := configuredQueries(ctx.Config.Queries, ctx.Logger)
	if strings.TrimSpace(s.Query) != "" || strings.TrimSpace(s.QueryFile) != "" {
		resolved, err := resolveQueries(s.Query, s.QueryFile, queries)
		if err != nil {
			return err
		}
		queries = resolved
	}

	provider, err := ctx.provider(s.Proxies)
	if err != nil {
		return fmt.Errorf("search provider: %w", err)
	}

	stopIndicator := startSearchIndicator(ctx)
	outcome := search.RunQueries(context.Background(), provider, searchParams(ctx.Config), queries, ctx.Logger)
	if stopIndicator != nil {
		stopIndicator()
	}

	limit := s.Max
	if limit <= 0 {
		limit = ctx.Config.MaxResults
	}
	results := aggregate.Dedup(outcome.Results, limit)

	reportQueryFailures(ctx, outcome.Failures)

	format, err := resolveFormat(ctx, s.Format, s.Output)
	if err != nil {
		return err
	}

	writer := ctx.Out
	if s.Output != "" {
		file, err := os.Create(s.Output)
		if err != nil {
			return err
		}
		defer file.Close()
		writer = file
	}

	colorEnabled := ctx.UI != nil && ctx.UI.ColorEnabled
	linkStyle := export.LinkStyleShort
	if strings.EqualFold(s.Links, string(export.LinkStyleFull)) {
		linkStyle = export.LinkStyleFull
	}
	if err := export.WriteResults(writer, results, format, export.WriteOptions{
		ColorEnabled: colorEnabled,
		Hyperlinks:   colorEnabled && isTTY(writer),
		LinkStyle:    linkStyle,
		CollectedAt:  ctx.now().In(ctx.Config.Location()),
		HTML:         export.HTMLOptions{Verbatim: ctx.Config.VerbatimHTML},
	}); err != nil {
		return err
	}

	printSearchSummary(ctx, len(results), outcome)
	return nil
}

func resolveFormat(ctx *Context, format string, outputPath string) (export.Format, error) {
	if ctx.JSONOutput {
		return export.FormatJSON, nil
	}
	if ctx.PlainText {
		return export.FormatTSV, nil
	}
	if format != "" {
		return export.ParseFormat(format)
	}
	if outputPath != "" {
		return export.FormatCSV, nil
	}
	if isTTY(ctx.Out) {
		return export.FormatTable, nil
	}
	return export.FormatCSV, nil
}

func reportQueryFailures(ctx *Context, failures []search.QueryFailure) {
	if ctx == nil || ctx.UI == nil || len(failures) == 0 {
		return
	}
	if !ctx.Verbose {
		return
	}

	ctx.UI.Warnf("\nQuery errors:")
	for _, failure := range failures {
		ctx.UI.Warnf("  %s: %v", failure.Query, failure.Err)
	}
}

func printSearchSummary(ctx *Context, kept int, outcome search.Outcome) {
	if ctx == nil || ctx.Err == nil {
		return
	}
	_, _ = fmt.Fprintln(ctx.Err, formatSearchSummary(kept, outcome))
}

func formatSearchSummary(kept int, outcome search.Outcome) string {
	return fmt.Sprintf("summary: results=%d collected=%d queries=%d failed=%d",
		kept, len(outcome.Results), outcome.Attempted, len(outcome.Failures))
}

func isTTY(out io.Writer) bool {
	output := termenv.NewOutput(out)
	return output.ColorProfile() != termenv.Ascii
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jimezsa/jobmailer/internal/aggregate"
	"github.com/jimezsa/jobmailer/internal/models"
	"github.com/jimezsa/jobmailer/internal/search"
)

const subjectPrefix = "[Daily] Entry-level AI Jobs — "

type RunCmd struct {
	DryRun    bool   `help:"Print the digest HTML instead of sending it."`
	Output    string `name:"output" short:"o" help:"With --dry-run, write the HTML to a file."`
	Strict    bool   `help:"Exit 3 when the email cannot be sent and 4 when every query fails." env:"JOBMAILER_STRICT"`
	QueryFile string `help:"Path to a JSON file with queries (string array or object with a queries array)."`
	Proxies   string `help:"Comma-separated proxy URLs." env:"JOBMAILER_PROXIES"`
}

// runReport is what one digest run produced.
type runReport struct {
	SearchSkipped bool
	Outcome       search.Outcome
	Stats         aggregate.Stats
	Results       models.ResultSet
	Message       models.Message
	SendErr       error
}

func (r *RunCmd) Run(ctx *Context) error {
	queries := r.queries(ctx)
	report := runDigest(context.Background(), ctx, queries, r.Proxies, !r.DryRun)

	if r.DryRun {
		return writeDigest(ctx, r.Output, report.Message.HTMLBody)
	}

	if !r.Strict {
		return nil
	}
	if report.SendErr != nil {
		return &ExitError{Code: ExitSendFailed, Err: report.SendErr}
	}
	if report.Outcome.AllFailed() {
		return &ExitError{Code: ExitSearchFailed, Err: errors.New("every search query failed")}
	}
	return nil
}

// queries picks the query list for a digest run. A bad --query-file is
// logged and the configured queries are used, so the daily mail still goes
// out.
func (r *RunCmd) queries(ctx *Context) []string {
	if strings.TrimSpace(r.QueryFile) != "" {
		fromFile, err := resolveQueries("", r.QueryFile, nil)
		if err == nil {
			return fromFile
		}
		ctx.Logger.Error().Err(err).Str("file", r.QueryFile).Msg("query file ignored; using configured queries")
	}
	return configuredQueries(ctx.Config.Queries, ctx.Logger)
}

// runDigest runs search, dedup, format and (when send is set) delivery.
// Nothing here is fatal: provider, query and send failures are logged and
// recorded in the report.
func runDigest(ctx context.Context, cctx *Context, queries []string, proxies string, send bool) runReport {
	cfg := cctx.Config
	logger := cctx.Logger

	var report runReport
	if strings.TrimSpace(cfg.SerpAPIKey) == "" {
		report.SearchSkipped = true
		logger.Warn().Msg("no SERPAPI_KEY provided; skipping search, set SERPAPI_KEY to collect results")
	} else {
		provider, err := cctx.provider(proxies)
		if err != nil {
			logger.Error().Err(err).Int("queries", len(queries)).Msg("search provider unavailable; sending digest without results")
			report.Outcome = search.FailAll(queries, fmt.Errorf("search provider: %w", err))
		} else {
			report.Outcome = search.RunQueries(ctx, provider, searchParams(cfg), queries, logger)
		}
	}

	report.Results, report.Stats = aggregate.DedupWithStats(report.Outcome.Results, cfg.MaxResults)
	logger.Debug().
		Int("scanned", report.Stats.Scanned).
		Int("kept", report.Stats.Kept).
		Int("duplicates", report.Stats.Duplicates).
		Int("empty_links", report.Stats.EmptyLinks).
		Bool("capped", report.Stats.Capped).
		Msg("results aggregated")

	collectedAt := cctx.now().In(cfg.Location())
	report.Message = buildDigest(cfg.SMTP.Sender, cfg.SMTP.Recipient, report.Results, collectedAt, cfg.VerbatimHTML, logger)

	if !send {
		return report
	}

	if err := cctx.sender().Send(ctx, report.Message); err != nil {
		report.SendErr = err
		logger.Error().Err(err).Msg("failed to send email")
		return report
	}
	logger.Info().Int("items", len(report.Results)).Str("to", cfg.SMTP.Recipient).Msg("email sent")
	return report
}

func writeDigest(ctx *Context, path string, body string) error {
	if strings.TrimSpace(path) == "" {
		_, err := fmt.Fprintln(ctx.Out, body)
		return err
	}
	if err := os.WriteFile(path, []byte(body+"\n"), 0o644); err != nil {
		return err
	}
	if ctx.UI != nil {
		ctx.UI.Infof("Digest written to %s", path)
	}
	return nil
}

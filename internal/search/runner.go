package search

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jimezsa/jobmailer/internal/models"
	"github.com/jimezsa/jobmailer/internal/network"
)

// QueryFailure records one query the provider could not answer.
type QueryFailure struct {
	Query string
	Err   error
}

// Outcome is what RunQueries hands to the aggregator: every result in query
// order, then provider order, plus the queries that failed.
type Outcome struct {
	Results   []models.Result
	Failures  []QueryFailure
	Attempted int
}

// AllFailed reports whether queries were attempted and none succeeded.
func (o Outcome) AllFailed() bool {
	return o.Attempted > 0 && len(o.Failures) == o.Attempted
}

// RunQueries issues one request per query, one at a time. A failed query is
// logged and skipped; it never stops the remaining ones.
func RunQueries(ctx context.Context, provider Provider, base models.SearchParams, queries []string, logger zerolog.Logger) Outcome {
	var out Outcome
	for _, query := range queries {
		if ctx.Err() != nil {
			break
		}
		out.Attempted++

		params := base
		params.Query = query

		results, err := searchOne(ctx, provider, params)
		if err != nil {
			logger.Warn().Err(err).Str("provider", provider.Name()).Str("query", query).Msg("search query failed")
			out.Failures = append(out.Failures, QueryFailure{Query: query, Err: err})
			continue
		}

		logger.Debug().Str("query", query).Int("results", len(results)).Msg("search query done")
		out.Results = append(out.Results, results...)
	}
	return out
}

func searchOne(ctx context.Context, provider Provider, params models.SearchParams) ([]models.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, network.DefaultTimeout)
	defer cancel()
	return provider.Search(ctx, params)
}

// FailAll is the Outcome of a run where no query could be attempted at all,
// for example because the provider could not be built.
func FailAll(queries []string, err error) Outcome {
	out := Outcome{Attempted: len(queries)}
	for _, query := range queries {
		out.Failures = append(out.Failures, QueryFailure{Query: query, Err: err})
	}
	return out
}

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yosuke-furukawa/json5/encoding/json5"

	"github.com/jimezsa/jobmailer/internal/config"
)

const maxQueries = 10

// resolveQueries merges positional and --query-file queries. When neither
// yields anything the configured list is used as-is.
func resolveQueries(raw string, queryFile string, configured []string) ([]string, error) {
	positional := splitQueries(raw)
	var fromFile []string
	if strings.TrimSpace(queryFile) != "" {
		var err error
		fromFile, err = loadQueriesFile(queryFile)
		if err != nil {
			return nil, err
		}
	}
	if len(positional) == 0 && len(fromFile) == 0 {
		return mergeAndNormalizeQueries(configured, nil)
	}
	return mergeAndNormalizeQueries(positional, fromFile)
}

func splitQueries(raw string) []string {
	parts := strings.Split(raw, ",")
	queries := make([]string, 0, len(parts))
	for _, part := range parts {
		if query := strings.TrimSpace(part); query != "" {
			queries = append(queries, query)
		}
	}
	return queries
}

// configuredQueries normalizes the configured list for a digest run. Entries
// past maxQueries are dropped with a warning instead of failing the run.
func configuredQueries(configured []string, logger zerolog.Logger) []string {
	queries := normalizeQueries(configured, nil)
	if len(queries) == 0 {
		return append([]string(nil), config.DefaultQueries...)
	}
	if len(queries) > maxQueries {
		logger.Warn().
			Int("configured", len(queries)).
			Int("kept", maxQueries).
			Msg("too many configured queries; extra ones ignored")
		queries = queries[:maxQueries]
	}
	return queries
}

func mergeAndNormalizeQueries(primary []string, secondary []string) ([]string, error) {
	queries := normalizeQueries(primary, secondary)
	if len(queries) == 0 {
		return nil, fmt.Errorf("at least one non-empty query is required")
	}
	if len(queries) > maxQueries {
		return nil, fmt.Errorf("too many queries: max %d", maxQueries)
	}
	return queries, nil
}

// normalizeQueries trims and merges both lists, dropping repeats that differ
// only in case or spacing.
func normalizeQueries(primary []string, secondary []string) []string {
	queries := make([]string, 0, len(primary)+len(secondary))
	seenQueries := make(map[string]struct{}, len(primary)+len(secondary))

	appendUnique := func(rawQuery string) {
		query := strings.TrimSpace(rawQuery)
		if query == "" {
			return
		}
		normalized := strings.ToLower(strings.Join(strings.Fields(query), " "))
		if _, exists := seenQueries[normalized]; exists {
			return
		}
		seenQueries[normalized] = struct{}{}
		queries = append(queries, query)
	}

	for _, query := range primary {
		appendUnique(query)
	}
	for _, query := range secondary {
		appendUnique(query)
	}
	return queries
}

// loadQueriesFile accepts a top-level string array or an object with a
// "queries" string array.
func loadQueriesFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read --query-file %q: %w", path, err)
	}

	var decoded any
	if err := json5.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("parse --query-file %q: %w", path, err)
	}

	switch value := decoded.(type) {
	case []any:
		return parseStringArray(value, path, "root array")
	case map[string]any:
		raw, ok := value["queries"]
		if !ok {
			return nil, fmt.Errorf("invalid --query-file %q: expected top-level string array or object with \"queries\" string array", path)
		}
		list, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("invalid --query-file %q: field \"queries\" must be an array of strings", path)
		}
		return parseStringArray(list, path, "queries")
	default:
		return nil, fmt.Errorf("invalid --query-file %q: expected top-level string array or object with \"queries\" string array", path)
	}
}

func parseStringArray(values []any, path string, fieldName string) ([]string, error) {
	queries := make([]string, 0, len(values))
	for idx, rawValue := range values {
		query, ok := rawValue.(string)
		if !ok {
			return nil, fmt.Errorf("invalid --query-file %q: %s[%d] must be a string", path, fieldName, idx)
		}
		if query = strings.TrimSpace(query); query != "" {
			queries = append(queries, query)
		}
	}
	return queries, nil
}

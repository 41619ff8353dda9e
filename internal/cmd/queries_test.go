package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/jimezsa/jobmailer/internal/config"
)

func TestResolveQueries(t *testing.T) {
	configured := []string{"default one", "default two"}

	t.Run("falls back to configured", func(t *testing.T) {
		got, err := resolveQueries(" , ", "", configured)
		if err != nil {
			t.Fatalf("resolveQueries() error = %v", err)
		}
		if !reflect.DeepEqual(got, configured) {
			t.Fatalf("resolveQueries() = %#v, want %#v", got, configured)
		}
	})

	t.Run("positional replaces configured", func(t *testing.T) {
		got, err := resolveQueries("golang, sre", "", configured)
		if err != nil {
			t.Fatalf("resolveQueries() error = %v", err)
		}
		if want := []string{"golang", "sre"}; !reflect.DeepEqual(got, want) {
			t.Fatalf("resolveQueries() = %#v, want %#v", got, want)
		}
	})

	t.Run("positional plus file dedupes case-insensitively", func(t *testing.T) {
		path := writeQueryFile(t, `["SRE", "ml   engineer", "backend"]`)
		got, err := resolveQueries("sre,ML Engineer", path, configured)
		if err != nil {
			t.Fatalf("resolveQueries() error = %v", err)
		}
		if want := []string{"sre", "ML Engineer", "backend"}; !reflect.DeepEqual(got, want) {
			t.Fatalf("resolveQueries() = %#v, want %#v", got, want)
		}
	})

	t.Run("too many queries", func(t *testing.T) {
		_, err := resolveQueries("q1,q2,q3,q4,q5,q6,q7,q8,q9,q10,q11", "", configured)
		if err == nil || err.Error() != "too many queries: max 10" {
			t.Fatalf("resolveQueries() error = %v, want max error", err)
		}
	})

	t.Run("nothing anywhere", func(t *testing.T) {
		_, err := resolveQueries("", "", nil)
		if err == nil || err.Error() != "at least one non-empty query is required" {
			t.Fatalf("resolveQueries() error = %v", err)
		}
	})
}

func TestLoadQueriesFile(t *testing.T) {
	t.Run("object with queries and comments", func(t *testing.T) {
		path := writeQueryFile(t, `{
  // weekly rotation
  queries: ["ml engineer", "  ", "data scientist"],
}`)
		got, err := loadQueriesFile(path)
		if err != nil {
			t.Fatalf("loadQueriesFile() error = %v", err)
		}
		if want := []string{"ml engineer", "data scientist"}; !reflect.DeepEqual(got, want) {
			t.Fatalf("loadQueriesFile() = %#v, want %#v", got, want)
		}
	})

	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"invalid json", `{"queries": [`, "parse --query-file"},
		{"unsupported schema", `{"job_titles": ["x"]}`, `object with "queries" string array`},
		{"queries not an array", `{"queries": "x"}`, `field "queries" must be an array of strings`},
		{"non-string entry", `["ok", 12]`, "root array[1] must be a string"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := loadQueriesFile(writeQueryFile(t, tc.content))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("loadQueriesFile() error = %v, want %q", err, tc.want)
			}
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := loadQueriesFile(filepath.Join(t.TempDir(), "nope.json"))
		if err == nil || !strings.Contains(err.Error(), "read --query-file") {
			t.Fatalf("loadQueriesFile() error = %v", err)
		}
	})
}

func writeQueryFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "queries.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestConfiguredQueries(t *testing.T) {
	var logs bytes.Buffer
	logger := zerolog.New(&logs)

	configured := []string{" a ", "A", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"}
	got := configuredQueries(configured, logger)
	if want := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("configuredQueries() = %#v, want %#v", got, want)
	}
	if !strings.Contains(logs.String(), `"kept":10`) {
		t.Fatalf("expected cap warning, got %s", logs.String())
	}

	logs.Reset()
	if got := configuredQueries([]string{"  "}, logger); !reflect.DeepEqual(got, config.DefaultQueries) {
		t.Fatalf("configuredQueries(blank) = %#v, want defaults", got)
	}
	if logs.Len() != 0 {
		t.Fatalf("unexpected log output: %s", logs.String())
	}
}

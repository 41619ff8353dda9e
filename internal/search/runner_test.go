package search

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/jimezsa/jobmailer/internal/models"
)

type stubProvider struct {
	responses map[string][]models.Result
	failures  map[string]error
	calls     []models.SearchParams
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Search(ctx context.Context, params models.SearchParams) ([]models.Result, error) {
	s.calls = append(s.calls, params)
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("expected a bounded context")
	}
	if err := s.failures[params.Query]; err != nil {
		return nil, err
	}
	return s.responses[params.Query], nil
}

func TestRunQueriesContinuesAfterFailure(t *testing.T) {
	provider := &stubProvider{
		responses: map[string][]models.Result{
			"a": {{Title: "A1", Link: "x"}},
			"c": {{Title: "C1", Link: "y"}, {Title: "C2", Link: "z"}},
		},
		failures: map[string]error{
			"b": &ProviderError{Provider: "stub", Query: "b", StatusCode: 500},
		},
	}

	var logs strings.Builder
	logger := zerolog.New(&logs)

	out := RunQueries(context.Background(), provider, models.SearchParams{Num: 10, Country: "in"}, []string{"a", "b", "c"}, logger)

	if out.Attempted != 3 {
		t.Fatalf("Attempted = %d, want 3", out.Attempted)
	}
	if len(out.Failures) != 1 || out.Failures[0].Query != "b" {
		t.Fatalf("Failures = %+v, want single failure for b", out.Failures)
	}
	if out.AllFailed() {
		t.Fatalf("AllFailed() = true, want false")
	}

	gotTitles := make([]string, 0, len(out.Results))
	for _, result := range out.Results {
		gotTitles = append(gotTitles, result.Title)
	}
	if strings.Join(gotTitles, ",") != "A1,C1,C2" {
		t.Fatalf("results in wrong order: %v", gotTitles)
	}

	if len(provider.calls) != 3 {
		t.Fatalf("provider calls = %d, want 3", len(provider.calls))
	}
	for _, call := range provider.calls {
		if call.Num != 10 || call.Country != "in" {
			t.Fatalf("base params not propagated: %+v", call)
		}
	}

	if !strings.Contains(logs.String(), `"query":"b"`) {
		t.Fatalf("expected failed query to be logged, got %s", logs.String())
	}
}

func TestRunQueriesAllFailed(t *testing.T) {
	provider := &stubProvider{failures: map[string]error{
		"a": errors.New("boom"),
		"b": errors.New("boom"),
	}}

	out := RunQueries(context.Background(), provider, models.SearchParams{}, []string{"a", "b"}, zerolog.Nop())
	if !out.AllFailed() {
		t.Fatalf("AllFailed() = false, want true")
	}
	if len(out.Results) != 0 {
		t.Fatalf("expected no results, got %d", len(out.Results))
	}
}

func TestRunQueriesStopsOnCanceledContext(t *testing.T) {
	provider := &stubProvider{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := RunQueries(ctx, provider, models.SearchParams{}, []string{"a", "b"}, zerolog.Nop())
	if out.Attempted != 0 || len(provider.calls) != 0 {
		t.Fatalf("expected no calls after cancel, got attempted=%d calls=%d", out.Attempted, len(provider.calls))
	}
	if out.AllFailed() {
		t.Fatalf("AllFailed() = true with nothing attempted")
	}
}

func TestFailAll(t *testing.T) {
	cause := errors.New("no client")
	out := FailAll([]string{"q1", "q2"}, cause)
	if out.Attempted != 2 || len(out.Failures) != 2 || len(out.Results) != 0 {
		t.Fatalf("FailAll() = %+v", out)
	}
	if !out.AllFailed() || !errors.Is(out.Failures[1].Err, cause) || out.Failures[1].Query != "q2" {
		t.Fatalf("FailAll() failures = %+v", out.Failures)
	}
	if FailAll(nil, cause).AllFailed() {
		t.Fatalf("FailAll(nil).AllFailed() = true, want false")
	}
}

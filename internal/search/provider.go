package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/jimezsa/jobmailer/internal/models"
)

const ProviderSerpAPI = "serpapi"

var ErrMissingAPIKey = errors.New("search provider api key is not configured")

type Provider interface {
	Name() string
	Search(ctx context.Context, params models.SearchParams) ([]models.Result, error)
}

// ProviderError is returned for any failed provider call: transport errors,
// non-2xx responses, and bodies that do not decode.
type ProviderError struct {
	Provider   string
	Query      string
	StatusCode int
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("%s: http %d: %s", e.Provider, e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: http %d", e.Provider, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Provider, e.Err)
	default:
		return fmt.Sprintf("%s: request failed", e.Provider)
	}
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	fhttp "github.com/bogdanfinn/fhttp"

	"github.com/jimezsa/jobmailer/internal/models"
	"github.com/jimezsa/jobmailer/internal/network"
)

const DefaultSerpAPIURL = "https://serpapi.com/search.json"

// maxBodyBytes caps how much of a response is read.
const maxBodyBytes = 8 << 20

type SerpAPI struct {
	client  network.Doer
	apiKey  string
	baseURL string
}

func NewSerpAPI(client network.Doer, apiKey string) *SerpAPI {
	return &SerpAPI{client: client, apiKey: apiKey, baseURL: DefaultSerpAPIURL}
}

// WithBaseURL points the provider at a different endpoint.
func (s *SerpAPI) WithBaseURL(base string) *SerpAPI {
	if strings.TrimSpace(base) != "" {
		s.baseURL = base
	}
	return s
}

func (s *SerpAPI) Name() string {
	return ProviderSerpAPI
}

func (s *SerpAPI) Search(ctx context.Context, params models.SearchParams) ([]models.Result, error) {
	if strings.TrimSpace(s.apiKey) == "" {
		return nil, s.fail(params.Query, 0, "", ErrMissingAPIKey)
	}

	req, err := fhttp.NewRequestWithContext(ctx, fhttp.MethodGet, buildSerpAPIURL(s.baseURL, s.apiKey, params), nil)
	if err != nil {
		return nil, s.fail(params.Query, 0, "", err)
	}
	req.Header.Set("accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, s.fail(params.Query, 0, "", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, s.fail(params.Query, 0, "", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, s.fail(params.Query, resp.StatusCode, serpAPIErrorMessage(body), nil)
	}

	results, err := parseOrganicResults(body)
	if err != nil {
		return nil, s.fail(params.Query, 0, "", fmt.Errorf("decode response: %w", err))
	}
	return results, nil
}

func (s *SerpAPI) fail(query string, status int, message string, err error) error {
	return &ProviderError{
		Provider:   s.Name(),
		Query:      query,
		StatusCode: status,
		Message:    message,
		Err:        err,
	}
}

func buildSerpAPIURL(base string, apiKey string, params models.SearchParams) string {
	values := url.Values{}
	values.Set("engine", "google")
	values.Set("q", params.Query)
	values.Set("num", strconv.Itoa(defaultInt(params.Num, 10)))
	values.Set("google_domain", firstNonEmpty(params.GoogleDomain, "google.com"))
	values.Set("gl", firstNonEmpty(params.Country, "in"))
	values.Set("hl", firstNonEmpty(params.Language, "en"))
	values.Set("api_key", apiKey)

	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + values.Encode()
}

type serpAPIResponse struct {
	OrganicResults []map[string]any `json:"organic_results"`
	Error          string           `json:"error"`
}

func parseOrganicResults(body []byte) ([]models.Result, error) {
	var decoded serpAPIResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, err
	}

	results := make([]models.Result, 0, len(decoded.OrganicResults))
	for _, entry := range decoded.OrganicResults {
		results = append(results, models.Result{
			Title:   stringField(entry, "title"),
			Link:    stringField(entry, "link"),
			Snippet: stringField(entry, "snippet"),
		})
	}
	return results, nil
}

func serpAPIErrorMessage(body []byte) string {
	var decoded serpAPIResponse
	if err := json.Unmarshal(body, &decoded); err == nil && decoded.Error != "" {
		return decoded.Error
	}
	text := strings.Join(strings.Fields(string(body)), " ")
	if len(text) > 200 {
		text = text[:200] + "..."
	}
	return text
}

// stringField reads key as a string; anything else counts as absent.
func stringField(entry map[string]any, key string) string {
	value, ok := entry[key].(string)
	if !ok {
		return ""
	}
	return value
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func defaultInt(value, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return value
}

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/yosuke-furukawa/json5/encoding/json5"
)

const (
	DirName         = "jobmailer"
	ConfigFileName  = "config.json"
	ProxiesFileName = "proxies.txt"

	DefaultMaxResults      = 20
	DefaultResultsPerQuery = 10
	DefaultSMTPHost        = "smtp.gmail.com"
	DefaultSMTPPort        = 587
	DefaultTimezone        = "Asia/Kolkata"
)

// DefaultQueries is the built-in query list used when neither config.json nor
// --query-file provides one.
var DefaultQueries = []string{
	`site:linkedin.com "entry level" "machine learning engineer" OR "AI engineer"`,
	`site:indeed.com "entry level" "machine learning" "engineer"`,
	`site:angel.co "machine learning engineer" "junior"`,
	`"entry level" "AI Engineer" "new grad"`,
}

// Config is built once at startup and handed to every command.
// Secrets come from the environment only and are never serialized.
type Config struct {
	Queries         []string `json:"queries"`
	MaxResults      int      `json:"max_results"`
	ResultsPerQuery int      `json:"results_per_query"`
	GoogleDomain    string   `json:"google_domain"`
	Country         string   `json:"gl"`
	Language        string   `json:"hl"`
	Timezone        string   `json:"timezone"`
	VerbatimHTML    bool     `json:"verbatim_html"`
	SearchURL       string   `json:"search_url,omitempty"`

	SerpAPIKey string     `json:"-"`
	SMTP       SMTPConfig `json:"-"`
}

// SMTPConfig holds the mail transport settings. Nothing here is validated
// until a message is actually sent.
type SMTPConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	Sender    string
	Recipient string
}

func DefaultConfig() Config {
	return Config{
		Queries:         append([]string(nil), DefaultQueries...),
		MaxResults:      DefaultMaxResults,
		ResultsPerQuery: DefaultResultsPerQuery,
		GoogleDomain:    "google.com",
		Country:         "in",
		Language:        "en",
		Timezone:        DefaultTimezone,
		SMTP: SMTPConfig{
			Host: DefaultSMTPHost,
			Port: DefaultSMTPPort,
		},
	}
}

func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, DirName), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

func ProxiesPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ProxiesFileName), nil
}

// Load reads config.json from the user config dir (if any) and then applies
// the environment on top of it.
func Load() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return finish(DefaultConfig()), err
	}
	return LoadFile(path)
}

// LoadFile is Load with an explicit config.json path. A missing or empty file
// is not an error.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return finish(cfg), err
	case len(strings.TrimSpace(string(data))) > 0:
		if err := json5.Unmarshal(data, &cfg); err != nil {
			return finish(DefaultConfig()), fmt.Errorf("parse %s: %w", path, err)
		}
	}

	return finish(cfg), nil
}

func finish(cfg Config) Config {
	applyEnv(&cfg)
	cfg.normalize()
	return cfg
}

func applyEnv(cfg *Config) {
	cfg.SerpAPIKey = envString("SERPAPI_KEY", "")
	cfg.SMTP.Host = envString("SMTP_HOST", cfg.SMTP.Host)
	cfg.SMTP.Port = envInt("SMTP_PORT", cfg.SMTP.Port)
	cfg.SMTP.User = envString("SMTP_USER", "")
	cfg.SMTP.Password = envSecret("SMTP_PASS")
	cfg.SMTP.Sender = envString("SENDER_EMAIL", "")
	cfg.SMTP.Recipient = envString("RECIPIENT_EMAIL", "")

	cfg.MaxResults = envInt("JOBMAILER_MAX_RESULTS", cfg.MaxResults)
	cfg.ResultsPerQuery = envInt("JOBMAILER_RESULTS_PER_QUERY", cfg.ResultsPerQuery)
	cfg.GoogleDomain = envString("JOBMAILER_GOOGLE_DOMAIN", cfg.GoogleDomain)
	cfg.Country = envString("JOBMAILER_GL", cfg.Country)
	cfg.Language = envString("JOBMAILER_HL", cfg.Language)
	cfg.Timezone = envString("JOBMAILER_TIMEZONE", cfg.Timezone)
	cfg.SearchURL = envString("JOBMAILER_SEARCH_URL", cfg.SearchURL)
}

func (c *Config) normalize() {
	queries := make([]string, 0, len(c.Queries))
	for _, query := range c.Queries {
		if query = strings.TrimSpace(query); query != "" {
			queries = append(queries, query)
		}
	}
	if len(queries) == 0 {
		queries = append(queries, DefaultQueries...)
	}
	c.Queries = queries

	if c.MaxResults <= 0 {
		c.MaxResults = DefaultMaxResults
	}
	if c.ResultsPerQuery <= 0 {
		c.ResultsPerQuery = DefaultResultsPerQuery
	}
}

// Location resolves Timezone. The digest heading always carries a zone
// label, so an unknown name falls back to a fixed IST offset.
func (c Config) Location() *time.Location {
	if loc, err := time.LoadLocation(strings.TrimSpace(c.Timezone)); err == nil && c.Timezone != "" {
		return loc
	}
	return time.FixedZone("IST", 5*60*60+30*60)
}

// Masked returns a copy safe to print.
func (c Config) Masked() map[string]any {
	return map[string]any{
		"queries":           c.Queries,
		"max_results":       c.MaxResults,
		"results_per_query": c.ResultsPerQuery,
		"google_domain":     c.GoogleDomain,
		"gl":                c.Country,
		"hl":                c.Language,
		"timezone":          c.Timezone,
		"verbatim_html":     c.VerbatimHTML,
		"search_url":        c.SearchURL,
		"serpapi_key":       mask(c.SerpAPIKey),
		"smtp_host":         c.SMTP.Host,
		"smtp_port":         c.SMTP.Port,
		"smtp_user":         c.SMTP.User,
		"smtp_pass":         mask(c.SMTP.Password),
		"sender_email":      c.SMTP.Sender,
		"recipient_email":   c.SMTP.Recipient,
	}
}

func mask(value string) string {
	if value == "" {
		return ""
	}
	if len(value) <= 4 {
		return "****"
	}
	return value[:2] + strings.Repeat("*", len(value)-4) + value[len(value)-2:]
}

// Init writes default config.json and proxies.txt if they don't already exist.
func Init() ([]string, error) {
	var created []string

	dir, err := ConfigDir()
	if err != nil {
		return created, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return created, err
	}

	configPath := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		if err := writeConfig(configPath, DefaultConfig()); err != nil {
			return created, err
		}
		created = append(created, configPath)
	}

	proxiesPath := filepath.Join(dir, ProxiesFileName)
	if _, err := os.Stat(proxiesPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(proxiesPath, []byte(""), 0o644); err != nil {
			return created, err
		}
		created = append(created, proxiesPath)
	}

	return created, nil
}

func writeConfig(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func LoadProxies(flagValue string) ([]string, error) {
	if strings.TrimSpace(flagValue) != "" {
		return splitCSV(flagValue), nil
	}

	if env := strings.TrimSpace(os.Getenv("JOBMAILER_PROXIES")); env != "" {
		return splitCSV(env), nil
	}

	path, err := ProxiesPath()
	if err != nil {
		return nil, err
	}
	return readProxiesFile(path)
}

func readProxiesFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var proxies []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		proxies = append(proxies, line)
	}
	return proxies, nil
}

func envString(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

// envSecret keeps surrounding whitespace; passwords may legitimately contain it.
func envSecret(key string) string {
	return os.Getenv(key)
}

func envInt(key string, fallback int) int {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

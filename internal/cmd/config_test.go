package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/jimezsa/jobmailer/internal/config"
)

func TestShowConfigMasksSecrets(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.SerpAPIKey = "serp-secret-key"
	cfg.SMTP.Password = "hunter22"

	var out bytes.Buffer
	ctx := &Context{Out: &out, Config: cfg, JSONOutput: true}
	if err := (&ShowConfigCmd{}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if strings.Contains(out.String(), "serp-secret-key") || strings.Contains(out.String(), "hunter22") {
		t.Fatalf("secrets leaked: %s", out.String())
	}

	var decoded map[string]any
	if err := json.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if decoded["smtp_host"] != config.DefaultSMTPHost {
		t.Fatalf("smtp_host = %v", decoded["smtp_host"])
	}

	out.Reset()
	ctx.JSONOutput = false
	if err := (&ShowConfigCmd{}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "max_results") || !strings.Contains(out.String(), " | ") {
		t.Fatalf("table output = %s", out.String())
	}
}

func TestWriteProxyResults(t *testing.T) {
	results := []ProxyCheckResult{
		{Proxy: "http://p1:8080", Status: "401", LatencyMS: 120},
		{Proxy: "http://p2:8080", Status: "error", Error: "timeout"},
	}

	var out bytes.Buffer
	if err := writeProxyResults(&Context{Out: &out, PlainText: true}, results); err != nil {
		t.Fatalf("writeProxyResults() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 || lines[0] != "http://p1:8080\t401\t120\t" || lines[1] != "http://p2:8080\terror\t0\ttimeout" {
		t.Fatalf("plain output = %q", out.String())
	}

	out.Reset()
	if err := writeProxyResults(&Context{Out: &out, JSONOutput: true}, results); err != nil {
		t.Fatalf("writeProxyResults() error = %v", err)
	}
	var decoded []ProxyCheckResult
	if err := json.Unmarshal(out.Bytes(), &decoded); err != nil || len(decoded) != 2 || decoded[1].Error != "timeout" {
		t.Fatalf("json output = %s (err %v)", out.String(), err)
	}
}

func TestCheckProxyRejectsInvalidURL(t *testing.T) {
	got := checkProxy("not a proxy", "https://example.com", 0)
	if got.Status != "error" || got.Error == "" {
		t.Fatalf("checkProxy() = %+v, want error result", got)
	}
}

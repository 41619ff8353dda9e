package export

import (
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jimezsa/jobmailer/internal/models"
)

var collected = time.Date(2024, 3, 5, 9, 7, 0, 0, time.FixedZone("IST", 19800))

func TestFormatHTMLEmpty(t *testing.T) {
	got := FormatHTML(nil, collected, HTMLOptions{})
	want := "<h2>Daily Jobs — Entry-level AI (Collected 2024-03-05 09:07 IST)</h2><p>No results found.</p>"
	if got != want {
		t.Fatalf("FormatHTML() = %q, want %q", got, want)
	}
}

func TestFormatHTMLRowsAndDefaults(t *testing.T) {
	results := models.ResultSet{
		{Title: "ML Engineer", Link: "https://example.com/1", Snippet: "Acme - entry level"},
		{Link: "https://example.com/2"},
		{Title: "No link"},
	}

	doc := mustDoc(t, FormatHTML(results, collected, HTMLOptions{}))

	if heading := doc.Find("h2").Text(); !strings.Contains(heading, "2024-03-05 09:07 IST") {
		t.Fatalf("heading = %q, want collection timestamp", heading)
	}
	if doc.Find("p").Length() != 0 {
		t.Fatalf("no-results message rendered alongside a table")
	}

	headers := doc.Find("th").Map(func(_ int, s *goquery.Selection) string { return s.Text() })
	if strings.Join(headers, "|") != "Title|Company / Snippet|Link" {
		t.Fatalf("headers = %v", headers)
	}

	rows := doc.Find("tr").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.Find("td").Length() > 0
	})
	if rows.Length() != 3 {
		t.Fatalf("rows = %d, want 3", rows.Length())
	}

	cases := []struct {
		title   string
		snippet string
		href    string
	}{
		{"ML Engineer", "Acme - entry level", "https://example.com/1"},
		{"No title", "", "https://example.com/2"},
		{"No link", "", ""},
	}
	rows.Each(func(i int, s *goquery.Selection) {
		cells := s.Find("td")
		if got := cells.Eq(0).Text(); got != cases[i].title {
			t.Fatalf("row %d title = %q, want %q", i, got, cases[i].title)
		}
		if got := cells.Eq(1).Text(); got != cases[i].snippet {
			t.Fatalf("row %d snippet = %q, want %q", i, got, cases[i].snippet)
		}
		anchor := cells.Eq(2).Find("a")
		href, ok := anchor.Attr("href")
		if !ok || href != cases[i].href {
			t.Fatalf("row %d href = %q (present=%v), want %q", i, href, ok, cases[i].href)
		}
		if anchor.Text() != "link" {
			t.Fatalf("row %d anchor text = %q", i, anchor.Text())
		}
	})
}

func TestFormatHTMLEscapesByDefault(t *testing.T) {
	results := models.ResultSet{{
		Title:   "<b>Lead</b>",
		Snippet: "Pay > $100k & <script>alert(1)</script>",
		Link:    "https://example.com/?a=1&b='x'",
	}}

	got := FormatHTML(results, collected, HTMLOptions{})
	if strings.Contains(got, "<script>") || strings.Contains(got, "<b>") {
		t.Fatalf("expected markup to be escaped: %s", got)
	}

	doc := mustDoc(t, got)
	if text := doc.Find("td").Eq(1).Text(); text != results[0].Snippet {
		t.Fatalf("snippet text = %q, want %q", text, results[0].Snippet)
	}
	if href, _ := doc.Find("a").Attr("href"); href != results[0].Link {
		t.Fatalf("href = %q, want %q", href, results[0].Link)
	}
}

func TestFormatHTMLVerbatim(t *testing.T) {
	results := models.ResultSet{{Title: "<b>Lead</b>", Snippet: "a & b", Link: "x"}}

	got := FormatHTML(results, collected, HTMLOptions{Verbatim: true})
	want := "<tr><td><b>Lead</b></td><td>a & b</td><td><a href='x'>link</a></td></tr>"
	if !strings.Contains(got, want) {
		t.Fatalf("FormatHTML() = %s, want row %s", got, want)
	}
}

func TestPlainText(t *testing.T) {
	results := models.ResultSet{
		{Title: "ML Engineer", Link: "https://example.com/1", Snippet: "Acme  \n entry level"},
		{Link: "https://example.com/2"},
	}

	got, err := PlainText(FormatHTML(results, collected, HTMLOptions{}))
	if err != nil {
		t.Fatalf("PlainText() error = %v", err)
	}
	want := strings.Join([]string{
		"Daily Jobs — Entry-level AI (Collected 2024-03-05 09:07 IST)",
		"",
		"ML Engineer",
		"Acme entry level",
		"https://example.com/1",
		"",
		"No title",
		"https://example.com/2",
	}, "\n") + "\n"
	if got != want {
		t.Fatalf("PlainText() = %q, want %q", got, want)
	}
}

func TestPlainTextNoResults(t *testing.T) {
	got, err := PlainText(FormatHTML(nil, collected, HTMLOptions{}))
	if err != nil {
		t.Fatalf("PlainText() error = %v", err)
	}
	if !strings.HasSuffix(got, "No results found.\n") {
		t.Fatalf("PlainText() = %q, want no-results line", got)
	}
}

func mustDoc(t *testing.T, body string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		t.Fatalf("failed to parse document: %v", err)
	}
	return doc
}

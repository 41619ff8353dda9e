package export

import (
	"html"
	"strings"
	"time"

	"github.com/jimezsa/jobmailer/internal/models"
)

const (
	DigestTitle     = "Daily Jobs — Entry-level AI"
	CollectedLayout = "2006-01-02 15:04 MST"
	NoResultsText   = "No results found."
	NoTitleText     = "No title"
)

// HTMLOptions controls FormatHTML.
type HTMLOptions struct {
	// Verbatim inserts titles, snippets and links unescaped. Search snippets
	// are untrusted, so only set this when the raw markup is wanted.
	Verbatim bool
}

// FormatHTML renders the digest body. collectedAt is printed as-is, so pass
// it already converted to the zone the reader expects.
func FormatHTML(results models.ResultSet, collectedAt time.Time, opts HTMLOptions) string {
	esc := html.EscapeString
	if opts.Verbatim {
		esc = func(value string) string { return value }
	}

	var b strings.Builder
	b.WriteString("<h2>")
	b.WriteString(DigestTitle)
	b.WriteString(" (Collected ")
	b.WriteString(collectedAt.Format(CollectedLayout))
	b.WriteString(")</h2>")

	if len(results) == 0 {
		b.WriteString("<p>" + NoResultsText + "</p>")
		return b.String()
	}

	b.WriteString("<table border='0' cellpadding='6' cellspacing='0'>")
	b.WriteString("<tr><th align='left'>Title</th><th align='left'>Company / Snippet</th><th align='left'>Link</th></tr>")
	for _, result := range results {
		title := result.Title
		if title == "" {
			title = NoTitleText
		}
		b.WriteString("<tr><td>")
		b.WriteString(esc(title))
		b.WriteString("</td><td>")
		b.WriteString(esc(result.Snippet))
		b.WriteString("</td><td><a href='")
		b.WriteString(esc(result.Link))
		b.WriteString("'>link</a></td></tr>")
	}
	b.WriteString("</table>")
	return b.String()
}

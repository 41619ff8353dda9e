package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/muesli/termenv"

	"github.com/jimezsa/jobmailer/internal/models"
)

type Format string

const (
	FormatTable    Format = "table"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "md"
	FormatTSV      Format = "tsv"
	FormatDigest   Format = "html"
)

type WriteOptions struct {
	ColorEnabled bool
	Hyperlinks   bool
	LinkStyle    LinkStyle
	CollectedAt  time.Time
	HTML         HTMLOptions
}

type LinkStyle string

const (
	LinkStyleShort LinkStyle = "short"
	LinkStyleFull  LinkStyle = "full"
)

func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "tsv":
		return FormatTSV, nil
	case "html":
		return FormatDigest, nil
	case "table", "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unknown format: %s", value)
	}
}

func WriteResults(w io.Writer, results models.ResultSet, format Format, opts WriteOptions) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, results)
	case FormatCSV:
		return writeCSV(w, results, ',')
	case FormatTSV:
		return writeCSV(w, results, '\t')
	case FormatMarkdown:
		return writeMarkdown(w, results)
	case FormatDigest:
		collectedAt := opts.CollectedAt
		if collectedAt.IsZero() {
			collectedAt = time.Now()
		}
		_, err := fmt.Fprintln(w, FormatHTML(results, collectedAt, opts.HTML))
		return err
	default:
		return writeTable(w, results, opts)
	}
}

func writeJSON(w io.Writer, results models.ResultSet) error {
	if results == nil {
		results = models.ResultSet{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func writeCSV(w io.Writer, results models.ResultSet, delim rune) error {
	writer := csv.NewWriter(w)
	writer.Comma = delim
	if err := writer.Write([]string{"title", "snippet", "link"}); err != nil {
		return err
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Title, result.Snippet, result.Link}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeTable(w io.Writer, results models.ResultSet, opts WriteOptions) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "title\tlink")
	output := termenv.NewOutput(w)
	for _, result := range results {
		fmt.Fprintln(tw, strings.Join(tableRow(result, output, opts), "\t"))
	}
	return tw.Flush()
}

func writeMarkdown(w io.Writer, results models.ResultSet) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, NoResultsText)
		return err
	}
	for _, result := range results {
		title := safe(result.Title)
		if title == "" {
			title = NoTitleText
		}
		lines := []string{fmt.Sprintf("- **%s**", title)}
		if link := safe(result.Link); link != "" {
			lines = append(lines, fmt.Sprintf("  Link: [Open listing](<%s>)", link))
		}
		if snippet := safe(result.Snippet); snippet != "" {
			lines = append(lines, fmt.Sprintf("  Summary: %s", cleanText(snippet)))
		}
		for _, line := range lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

func safe(value string) string {
	return strings.TrimSpace(value)
}

func tableRow(result models.Result, output *termenv.Output, opts WriteOptions) []string {
	const linkColor = "#87CEEB"

	link := safe(result.Link)
	displayURL := "-"
	if link != "" {
		displayURL = link
		if opts.LinkStyle == LinkStyleShort && opts.Hyperlinks {
			displayURL = shortURLLabel(link)
		}
		if opts.ColorEnabled {
			displayURL = output.String(displayURL).Foreground(output.Color(linkColor)).String()
		}
		if opts.Hyperlinks {
			displayURL = hyperlink(link, displayURL)
		}
	}

	title := safe(result.Title)
	if title == "" {
		title = NoTitleText
	}
	return []string{title, displayURL}
}

func hyperlink(url string, text string) string {
	const esc = "\x1b"
	return esc + "]8;;" + url + esc + "\\" + text + esc + "]8;;" + esc + "\\"
}

func shortURLLabel(raw string) string {
	const maxLen = 60
	label := strings.TrimSpace(raw)
	if parsed, err := url.Parse(raw); err == nil {
		host := strings.TrimPrefix(parsed.Host, "www.")
		if host != "" {
			label = host + parsed.Path
		}
	}
	label = strings.TrimSpace(label)
	if label == "" {
		label = raw
	}
	if len(label) > maxLen {
		label = label[:maxLen-3] + "..."
	}
	return label
}

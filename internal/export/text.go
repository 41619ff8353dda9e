package export

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PlainText flattens a rendered digest into the text/plain alternative:
// the heading, then one block per table row with title, snippet and link.
func PlainText(body string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return "", err
	}

	var lines []string
	if heading := cleanText(doc.Find("h2").First().Text()); heading != "" {
		lines = append(lines, heading, "")
	}

	rows := doc.Find("tr").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.Find("td").Length() > 0
	})
	if rows.Length() == 0 {
		doc.Find("p").Each(func(_ int, s *goquery.Selection) {
			if text := cleanText(s.Text()); text != "" {
				lines = append(lines, text)
			}
		})
		return strings.Join(lines, "\n") + "\n", nil
	}

	rows.Each(func(i int, s *goquery.Selection) {
		cells := s.Find("td")
		title := cleanText(cells.Eq(0).Text())
		snippet := cleanText(cells.Eq(1).Text())
		href, _ := cells.Eq(2).Find("a").First().Attr("href")

		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, title)
		if snippet != "" {
			lines = append(lines, snippet)
		}
		if href = strings.TrimSpace(href); href != "" {
			lines = append(lines, href)
		}
	})
	return strings.Join(lines, "\n") + "\n", nil
}

func cleanText(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

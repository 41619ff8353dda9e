package cmd

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/jimezsa/jobmailer/internal/export"
	"github.com/jimezsa/jobmailer/internal/models"
)

func digestSubject(collectedAt time.Time) string {
	return subjectPrefix + collectedAt.Format("2006-01-02")
}

func buildDigest(from, to string, results models.ResultSet, collectedAt time.Time, verbatim bool, logger zerolog.Logger) models.Message {
	body := export.FormatHTML(results, collectedAt, export.HTMLOptions{Verbatim: verbatim})

	text, err := export.PlainText(body)
	if err != nil {
		logger.Warn().Err(err).Msg("plain text alternative unavailable; sending html only")
		text = ""
	}

	return models.Message{
		From:     from,
		To:       to,
		Subject:  digestSubject(collectedAt),
		HTMLBody: body,
		TextBody: text,
	}
}

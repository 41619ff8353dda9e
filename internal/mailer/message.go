package mailer

import (
	"bytes"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	gomail "github.com/wneessen/go-mail"

	"github.com/jimezsa/jobmailer/internal/models"
)

// BuildMessage renders msg the way Send puts it on the wire: a
// multipart/alternative body when msg.TextBody is set, HTML only otherwise.
func BuildMessage(msg models.Message) ([]byte, error) {
	m, err := newMsg(msg, time.Now())
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if _, err := m.WriteTo(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func newMsg(msg models.Message, date time.Time) (*gomail.Msg, error) {
	m := gomail.NewMsg()
	if err := m.From(strings.TrimSpace(msg.From)); err != nil {
		return nil, fmt.Errorf("sender %q: %w", msg.From, err)
	}
	if err := m.To(strings.TrimSpace(msg.To)); err != nil {
		return nil, fmt.Errorf("recipient %q: %w", msg.To, err)
	}
	m.Subject(msg.Subject)
	m.SetDateWithValue(date)
	m.SetMessageIDWithValue(messageID(msg.From))

	if msg.TextBody != "" {
		m.SetBodyString(gomail.TypeTextPlain, msg.TextBody)
		m.AddAlternativeString(gomail.TypeTextHTML, msg.HTMLBody)
	} else {
		m.SetBodyString(gomail.TypeTextHTML, msg.HTMLBody)
	}
	return m, nil
}

// messageID is the bare id; go-mail adds the angle brackets.
func messageID(from string) string {
	domain := "localhost"
	if addr, err := mail.ParseAddress(from); err == nil {
		if at := strings.LastIndex(addr.Address, "@"); at >= 0 && at < len(addr.Address)-1 {
			domain = addr.Address[at+1:]
		}
	}
	return uuid.NewString() + "@" + domain
}

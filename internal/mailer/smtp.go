package mailer

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/rs/zerolog"
	gomail "github.com/wneessen/go-mail"

	"github.com/jimezsa/jobmailer/internal/config"
	"github.com/jimezsa/jobmailer/internal/models"
)

const (
	StageConfig   = "config"
	StageDial     = "dial"
	StageStartTLS = "starttls"
	StageAuth     = "auth"
	StageMail     = "mail"
	StageRcpt     = "rcpt"
	StageData     = "data"
)

const defaultDialTimeout = 30 * time.Second

var ErrMissingSetting = errors.New("missing smtp setting")

// EmailError wraps any failure to deliver the digest.
type EmailError struct {
	Stage string
	Err   error
}

func (e *EmailError) Error() string {
	return fmt.Sprintf("smtp %s: %v", e.Stage, e.Err)
}

func (e *EmailError) Unwrap() error {
	return e.Err
}

type Sender interface {
	Send(ctx context.Context, msg models.Message) error
}

// DialFunc opens the TCP connection the SMTP session runs over.
type DialFunc func(ctx context.Context, network string, addr string) (net.Conn, error)

type SMTPSender struct {
	cfg    config.SMTPConfig
	dial   DialFunc
	extra  []gomail.Option
	logger zerolog.Logger
}

func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	dialer := &net.Dialer{Timeout: defaultDialTimeout}
	return &SMTPSender{cfg: cfg, dial: dialer.DialContext, logger: zerolog.Nop()}
}

// WithDialer replaces the network dialer.
func (s *SMTPSender) WithDialer(dial DialFunc) *SMTPSender {
	if dial != nil {
		s.dial = dial
	}
	return s
}

// WithOptions appends go-mail client options after the defaults, so they win.
func (s *SMTPSender) WithOptions(opts ...gomail.Option) *SMTPSender {
	s.extra = append(s.extra, opts...)
	return s
}

func (s *SMTPSender) WithLogger(logger zerolog.Logger) *SMTPSender {
	s.logger = logger
	return s
}

// Send delivers msg over a fresh session that must upgrade with STARTTLS.
// The connection is closed before Send returns, whatever happened; a failed
// QUIT after the server accepted DATA still counts as delivered.
func (s *SMTPSender) Send(ctx context.Context, msg models.Message) error {
	if err := s.validate(msg); err != nil {
		return &EmailError{Stage: StageConfig, Err: err}
	}

	m, err := newMsg(msg, time.Now())
	if err != nil {
		return &EmailError{Stage: StageConfig, Err: err}
	}

	var conn net.Conn
	dial := func(ctx context.Context, network string, addr string) (net.Conn, error) {
		c, err := s.dial(ctx, network, addr)
		if err == nil {
			conn = c
		}
		return c, err
	}

	client, err := gomail.NewClient(strings.TrimSpace(s.cfg.Host), s.clientOptions(dial)...)
	if err != nil {
		return &EmailError{Stage: StageConfig, Err: err}
	}

	if err := client.DialWithContext(ctx); err != nil {
		if conn != nil {
			_ = conn.Close()
		}
		return &EmailError{Stage: sessionStage(err, conn != nil), Err: err}
	}
	// QUIT leaves the socket open when the server rejects it.
	defer func() {
		_ = client.Close()
		_ = conn.Close()
	}()

	if err := client.Send(m); err != nil {
		return &EmailError{Stage: sendStage(err), Err: err}
	}
	return nil
}

func (s *SMTPSender) clientOptions(dial DialFunc) []gomail.Option {
	host := strings.TrimSpace(s.cfg.Host)
	opts := []gomail.Option{
		gomail.WithPort(s.cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSMandatory),
		gomail.WithTLSConfig(&tls.Config{ServerName: host, MinVersion: tls.VersionTLS12}),
		gomail.WithTimeout(defaultDialTimeout),
		gomail.WithDialContextFunc(gomail.DialContextFunc(dial)),
	}

	if s.cfg.User != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.cfg.User),
			gomail.WithPassword(s.cfg.Password),
		)
	} else {
		s.logger.Debug().Str("host", host).Msg("SMTP_USER not set; sending without AUTH")
	}
	return append(opts, s.extra...)
}

func (s *SMTPSender) validate(msg models.Message) error {
	switch {
	case strings.TrimSpace(s.cfg.Host) == "":
		return fmt.Errorf("%w: SMTP_HOST", ErrMissingSetting)
	case s.cfg.Port <= 0:
		return fmt.Errorf("%w: SMTP_PORT", ErrMissingSetting)
	case strings.TrimSpace(msg.From) == "":
		return fmt.Errorf("%w: SENDER_EMAIL", ErrMissingSetting)
	case strings.TrimSpace(msg.To) == "":
		return fmt.Errorf("%w: RECIPIENT_EMAIL", ErrMissingSetting)
	}
	return nil
}

// sessionStage attributes a DialWithContext failure. go-mail runs connect,
// EHLO, STARTTLS and AUTH in that one call and reports the later steps as
// plain wrapped errors.
func sessionStage(err error, connected bool) string {
	if !connected {
		return StageDial
	}
	text := strings.ToLower(err.Error())
	switch {
	case strings.Contains(text, "auth"):
		return StageAuth
	case strings.Contains(text, "starttls"), strings.Contains(text, "tls:"):
		return StageStartTLS
	default:
		return StageDial
	}
}

func sendStage(err error) string {
	var sendErr *gomail.SendError
	if !errors.As(err, &sendErr) {
		return StageData
	}
	switch sendErr.Reason {
	case gomail.ErrGetSender, gomail.ErrSMTPMailFrom:
		return StageMail
	case gomail.ErrGetRcpts, gomail.ErrSMTPRcptTo:
		return StageRcpt
	default:
		return StageData
	}
}

package cmd

import (
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/jimezsa/jobmailer/internal/config"
	"github.com/jimezsa/jobmailer/internal/mailer"
	"github.com/jimezsa/jobmailer/internal/search"
	"github.com/jimezsa/jobmailer/internal/ui"
)

// ProviderFactory builds the search provider for one invocation.
type ProviderFactory func(cfg config.Config, proxies string) (search.Provider, error)

// SenderFactory builds the mail transport for one invocation.
type SenderFactory func(cfg config.SMTPConfig) mailer.Sender

type Context struct {
	Out        io.Writer
	Err        io.Writer
	UI         *ui.UI
	Config     config.Config
	ConfigDir  string
	Logger     zerolog.Logger
	Verbose    bool
	JSONOutput bool
	PlainText  bool
	Version    string
	ColorMode  ui.ColorMode

	// Left nil in production; tests swap in fakes.
	NewProvider ProviderFactory
	NewSender   SenderFactory
	Now         func() time.Time
}

func (c *Context) provider(proxies string) (search.Provider, error) {
	if c.NewProvider != nil {
		return c.NewProvider(c.Config, proxies)
	}
	return defaultProvider(c.Config, proxies)
}

func (c *Context) sender() mailer.Sender {
	if c.NewSender != nil {
		return c.NewSender(c.Config.SMTP)
	}
	return mailer.NewSMTPSender(c.Config.SMTP).WithLogger(c.Logger)
}

func (c *Context) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

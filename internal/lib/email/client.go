// Package email provides an email sending client.
//
// It uses Resend (resend-go) as the email provider and renders
// HTML bodies from templates embedded in the binary.
package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/dhchicaiza/registros/internal/config"
	"github.com/dhchicaiza/registros/web"
	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

// Client wraps the Resend client and a logger.
type Client struct {
	client    *resend.Client
	from      string
	notify    string
	templates *template.Template
	logger    *zerolog.Logger
}

// NewClient creates an email Client and parses the embedded templates.
//
// Sending is disabled, and every Send call a no-op, until both
// integration.resend_api_key and integration.notify_email are set.
func NewClient(cfg *config.Config, logger *zerolog.Logger) (*Client, error) {
	tmpl, err := template.ParseFS(web.FS, "templates/emails/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse email templates")
	}

	c := &Client{
		from:      cfg.Integration.EmailFrom,
		notify:    cfg.Integration.NotifyEmail,
		templates: tmpl,
		logger:    logger,
	}
	if cfg.Integration.ResendAPIKey != "" {
		c.client = resend.NewClient(cfg.Integration.ResendAPIKey)
	}
	return c, nil
}

// Enabled reports whether e-mails are actually sent.
func (c *Client) Enabled() bool {
	return c.client != nil && c.notify != ""
}

// Render executes templateName with data.
func (c *Client) Render(templateName Template, data any) (string, error) {
	var body bytes.Buffer
	if err := c.templates.ExecuteTemplate(&body, templateName.file(), data); err != nil {
		return "", errors.Wrapf(err, "failed to execute email template %s", templateName)
	}
	return body.String(), nil
}

// SendEmail renders templateName with data and sends it to the notification address.
func (c *Client) SendEmail(ctx context.Context, subject string, templateName Template, data any) error {
	if !c.Enabled() {
		c.logger.Debug().
			Str("template", string(templateName)).
			Msg("email integration not configured, skipping send")
		return nil
	}

	html, err := c.Render(templateName, data)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{c.notify},
		Subject: subject,
		Html:    html,
	}

	if _, err := c.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

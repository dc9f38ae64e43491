package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/aurangzeb-bilal/update-username/internal/application"
	"github.com/aurangzeb-bilal/update-username/pkg/helpers"
	"github.com/aurangzeb-bilal/update-username/pkg/mailer"
	mailtpl "github.com/aurangzeb-bilal/update-username/pkg/mailer/templates"
)

// Dispatcher renders the localized username-change message and hands it to
// the mail transport. Preferred path is the RabbitMQ queue consumed by the
// email worker; when no publisher is configured it falls back to sending
// directly through Mailgun.
type Dispatcher struct {
	Pub           *helpers.RabbitPublisher
	MG            *mailer.Mailgun
	AppName       string
	DefaultLocale string
	Enabled       bool
	Logger        *logrus.Logger
}

func NewDispatcher(pub *helpers.RabbitPublisher, mg *mailer.Mailgun, appName, defaultLocale string, enabled bool, logger *logrus.Logger) *Dispatcher {
	return &Dispatcher{
		Pub:           pub,
		MG:            mg,
		AppName:       appName,
		DefaultLocale: defaultLocale,
		Enabled:       enabled,
		Logger:        logger,
	}
}

// NotifyUsernameChanged renders subject/text/html from the locale bundle and
// delivers the message. Errors are returned to the orchestrator's logging
// path only; delivery is advisory.
func (d *Dispatcher) NotifyUsernameChanged(ctx context.Context, job application.NotificationJob) error {
	if !d.Enabled {
		if d.Logger != nil {
			d.Logger.WithField("to", job.To).Debug("mail sending disabled; dropping notification")
		}
		return nil
	}

	bundle := mailer.BundleFor(job.Language, d.DefaultLocale)
	data := mailtpl.EmailData{
		Name:        job.RecipientName,
		Email:       job.To,
		OldUsername: job.OldUsername,
		NewUsername: job.NewUsername,
		Subject:     bundle.Subject,
		Body:        bundle.Body,
		Footer:      bundle.Footer,
		AppName:     d.AppName,
	}

	subject, text, html, err := mailtpl.Render(mailtpl.UsernameUpdated, data)
	if err != nil {
		// Plain-text fallback keeps the notification usable if a template
		// ships broken.
		subject = bundle.Subject
		text = fmt.Sprintf("%s: %s (previously %s)\n\n%s", bundle.Body, job.NewUsername, job.OldUsername, bundle.Footer)
		html = ""
		if d.Logger != nil {
			d.Logger.WithError(err).Warn("username_updated template render failed")
		}
	}

	email := mailer.EmailJob{To: job.To, Subject: subject, Text: text, HTML: html}

	if d.Pub != nil {
		return d.Pub.PublishJSON(ctx, email)
	}
	if d.MG != nil {
		return d.MG.Send(ctx, email.To, email.Subject, email.Text, email.HTML)
	}
	return errors.New("no mail transport configured")
}

var _ application.Notifier = (*Dispatcher)(nil)

package senders

import (
	"context"
	"net/http"
	"time"

	"github.com/fiffu/billwatch/senders/email"
	"github.com/mailgun/mailgun-go/v4"
)

type mailgunSender struct {
	base
}

func (e *mailgunSender) Send(ctx context.Context, recipient, text string) (string, error) {
	mg := mailgun.NewMailgun(e.cfg.Mailgun.Domain, e.cfg.Mailgun.APIKey)
	mg.SetClient(&http.Client{Transport: e.transport})

	f := &email.UpdateEmailFormat{Subject: e.cfg.Mailgun.Subject, Text: text}

	// Plain text body first, then the HTML alternative.
	message := mg.NewMessage(e.cfg.Mailgun.SenderFrom, f.Subject, f.Text, recipient)
	message.SetHtml(f.Body())

	timeout := time.Duration(e.cfg.Mailgun.TimeoutSecs) * time.Second
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	_, id, err := mg.Send(ctx, message)
	return id, err
}

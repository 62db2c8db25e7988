package senders

import (
	"context"
	"net/http"
	"os"

	"github.com/fiffu/billwatch/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Sender delivers one text message to a platform-specific address and
// returns the platform's message id when it has one.
type Sender interface {
	Send(ctx context.Context, target, text string) (string, error)
}

// Registry maps a tenant's platform name to its sender.
type Registry map[string]Sender

func NewSenderRegistry(lc fx.Lifecycle, log *zap.Logger, cfg *config.Config, transport http.RoundTripper) (Registry, error) {
	base := base{log, cfg, transport}
	registry := Registry{
		"discord": &discordSender{base},
		"console": &consoleSender{out: os.Stdout},
	}

	if cfg.Mailgun.Domain != "" {
		registry["email"] = &mailgunSender{base}
	}

	if cfg.NATS.URL != "" {
		pub, err := newNATSSender(base)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				pub.Close()
				return nil
			},
		})
		registry["nats"] = pub
	}

	return registry, nil
}

type base struct {
	log       *zap.Logger
	cfg       *config.Config
	transport http.RoundTripper
}

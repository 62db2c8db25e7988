package senders

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

const flushTimeout = 5 * time.Second

// natsSender publishes each message to the subject named by the target.
type natsSender struct {
	base
	conn *nats.Conn
}

func newNATSSender(b base) (*natsSender, error) {
	log := b.log.Sugar()
	opts := []nats.Option{
		nats.MaxReconnects(b.cfg.NATS.MaxReconnect),
		nats.ReconnectWait(b.cfg.NATS.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				log.Warnw("NATS disconnected", "err", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Infow("NATS reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Warn("NATS connection closed")
		}),
	}

	conn, err := nats.Connect(b.cfg.NATS.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	log.Infow("Connected to NATS", "url", b.cfg.NATS.URL)

	return &natsSender{b, conn}, nil
}

func (n *natsSender) Send(ctx context.Context, subject, text string) (string, error) {
	if err := n.conn.Publish(subject, []byte(text)); err != nil {
		return "", fmt.Errorf("failed to publish to NATS: %w", err)
	}
	return "", n.conn.FlushTimeout(flushTimeout)
}

func (n *natsSender) Close() {
	if n.conn != nil {
		n.conn.Close()
	}
}

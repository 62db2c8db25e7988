package senders

import (
	"context"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/fiffu/billwatch/config"
	"github.com/fiffu/billwatch/lib/models"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const truncationMarker = "\n… (message truncated)"

// Dispatcher delivers ordered messages to a target, keeping at least the
// cooldown between any two sends it makes.
type Dispatcher struct {
	senders   Registry
	log       *zap.Logger
	cooldown  time.Duration
	maxLength int

	mu       sync.Mutex
	lastSend time.Time
	now      func() time.Time
	sleep    func(context.Context, time.Duration) error
}

func NewDispatcher(cfg *config.Config, log *zap.Logger, senders Registry) *Dispatcher {
	return New(senders, log, cfg.Dispatch.Cooldown, cfg.Dispatch.MaxMessageLength)
}

func New(senders Registry, log *zap.Logger, cooldown time.Duration, maxLength int) *Dispatcher {
	return &Dispatcher{
		senders:   senders,
		log:       log,
		cooldown:  cooldown,
		maxLength: maxLength,
		now:       time.Now,
		sleep:     wait,
	}
}

// Deliver sends messages in order. A failed message does not stop the
// remaining ones; all failures are returned together.
func (d *Dispatcher) Deliver(ctx context.Context, target models.Target, messages []string) error {
	sender, ok := d.senders[target.Platform]
	if !ok {
		return fmt.Errorf("unsupported notifier platform: %s", target.Platform)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	var errs error
	for i, msg := range messages {
		if err := d.pace(ctx); err != nil {
			return multierr.Append(errs, err)
		}

		id, err := sender.Send(ctx, target.Address, Fit(msg, d.maxLength))
		d.lastSend = d.now()
		if err != nil {
			d.log.Sugar().Warnw("Failed to send message",
				"platform", target.Platform, "target", target.Address, "message", i+1, "of", len(messages), "err", err)
			errs = multierr.Append(errs, fmt.Errorf("message %d of %d: %w", i+1, len(messages), err))
			continue
		}
		d.log.Sugar().Debugw("Sent message", "platform", target.Platform, "target", target.Address, "message_id", id)
	}
	return errs
}

func (d *Dispatcher) pace(ctx context.Context) error {
	if d.lastSend.IsZero() {
		return nil
	}
	if remaining := d.cooldown - d.now().Sub(d.lastSend); remaining > 0 {
		return d.sleep(ctx, remaining)
	}
	return nil
}

// Fit cuts msg to at most limit characters, ending it with a truncation
// marker when anything was removed and the marker fits.
func Fit(msg string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(msg) <= limit {
		return msg
	}
	runes := []rune(msg)
	keep := limit - utf8.RuneCountInString(truncationMarker)
	if keep <= 0 {
		return string(runes[:limit])
	}
	return string(runes[:keep]) + truncationMarker
}

func wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

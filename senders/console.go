package senders

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// consoleSender prints messages instead of delivering them.
type consoleSender struct {
	mu  sync.Mutex
	out io.Writer
}

func NewConsoleSender(out io.Writer) Sender {
	return &consoleSender{out: out}
}

func (c *consoleSender) Send(ctx context.Context, target, text string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if target != "" {
		if _, err := fmt.Fprintf(c.out, "[%s]\n", target); err != nil {
			return "", err
		}
	}
	_, err := fmt.Fprintf(c.out, "%s\n---\n", text)
	return "", err
}

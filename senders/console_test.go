package senders

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleSender(t *testing.T) {
	buf := new(bytes.Buffer)
	s := NewConsoleSender(buf)

	_, err := s.Send(context.Background(), "", "# New Bill")
	require.NoError(t, err)
	_, err = s.Send(context.Background(), "1001", "# Changed Bill")
	require.NoError(t, err)

	assert.Equal(t, "# New Bill\n---\n[1001]\n# Changed Bill\n---\n", buf.String())
}

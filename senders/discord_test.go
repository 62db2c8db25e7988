package senders

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fiffu/billwatch/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestDiscord(t *testing.T, token string, handler http.HandlerFunc) *discordSender {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.Discord.Token = token
	cfg.Discord.APIBase = srv.URL + "/api/v10/"
	return &discordSender{base{zaptest.NewLogger(t), cfg, http.DefaultTransport}}
}

func TestDiscordSend(t *testing.T) {
	d := newTestDiscord(t, "secret", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v10/channels/1001/messages", r.URL.Path)
		assert.Equal(t, "Bot secret", r.Header.Get("Authorization"))

		var msg discordMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&msg))
		assert.Equal(t, "# New Bill", msg.Content)
		assert.Empty(t, msg.AllowedMentions.Parse)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"123456"}`))
	})

	id, err := d.Send(context.Background(), "1001", "# New Bill")
	require.NoError(t, err)
	assert.Equal(t, "123456", id)
}

func TestDiscordSendFailure(t *testing.T) {
	d := newTestDiscord(t, "secret", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	_, err := d.Send(context.Background(), "1001", "hello")
	assert.Error(t, err)
}

func TestDiscordSendWithoutToken(t *testing.T) {
	d := newTestDiscord(t, "", func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})
	_, err := d.Send(context.Background(), "1001", "hello")
	assert.ErrorContains(t, err, "DISCORD_TOKEN")
}

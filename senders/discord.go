package senders

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/carlmjohnson/requests"
)

type discordSender struct {
	base
}

type discordMessage struct {
	Content         string          `json:"content"`
	AllowedMentions allowedMentions `json:"allowed_mentions"`
}

type allowedMentions struct {
	Parse []string `json:"parse"`
}

// Send posts to a channel through the bot REST API. Mentions are disabled so
// upstream text can never ping anyone.
func (d *discordSender) Send(ctx context.Context, channelID, text string) (string, error) {
	if d.cfg.Discord.Token == "" {
		return "", errors.New("DISCORD_TOKEN is not configured")
	}

	endpoint := fmt.Sprintf("%s/channels/%s/messages", strings.TrimRight(d.cfg.Discord.APIBase, "/"), url.PathEscape(channelID))

	var created struct {
		ID string `json:"id"`
	}
	err := requests.URL(endpoint).
		Transport(d.transport).
		Post().
		Header("Authorization", "Bot "+d.cfg.Discord.Token).
		BodyJSON(&discordMessage{Content: text, AllowedMentions: allowedMentions{Parse: []string{}}}).
		ToJSON(&created).
		Fetch(ctx)
	if err != nil {
		return "", err
	}
	return created.ID, nil
}

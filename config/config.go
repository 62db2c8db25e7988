package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"
)

type Config struct {
	Env               string `env:"ENVIRONMENT" envDefault:"development"`
	ServerPort        int    `env:"SERVER_PORT" envDefault:"8080"`
	BasicAuthCreds    string `env:"BASIC_AUTH_CREDS"`
	SubscriptionsFile string `env:"SUBSCRIPTIONS_FILE" envDefault:"servers.json"`

	Snapshots struct {
		Backend     string `env:"BACKEND" envDefault:"json"` // json or sqlite
		BillFile    string `env:"BILL_FILE" envDefault:"bill-database.json"`
		MeetingFile string `env:"MEETING_FILE" envDefault:"meeting-database.json"`
		SQLitePath  string `env:"SQLITE_PATH" envDefault:"billwatch.sqlite"`
	} `envPrefix:"SNAPSHOT_"`

	Upstream struct {
		Endpoint     string        `env:"ENDPOINT" envDefault:"https://gql.api.alison.legislature.state.al.us/graphql"`
		Origin       string        `env:"ORIGIN" envDefault:"https://alison.legislature.state.al.us"`
		SessionYear  string        `env:"SESSION_YEAR" envDefault:"2024"`
		SessionType  string        `env:"SESSION_TYPE" envDefault:"2024 Regular Session"`
		PageSize     int           `env:"PAGE_SIZE" envDefault:"25"`
		PageInterval time.Duration `env:"PAGE_INTERVAL" envDefault:"5s"`
		Timeout      time.Duration `env:"TIMEOUT" envDefault:"30s"`
		Retries      int           `env:"RETRIES" envDefault:"3"` // after the first attempt
	} `envPrefix:"UPSTREAM_"`

	Poll struct {
		Interval time.Duration `env:"INTERVAL" envDefault:"30m"`
	} `envPrefix:"POLL_"`

	Render struct {
		Session          string `env:"SESSION" envDefault:"2024RS"`
		BillLinkTemplate string `env:"BILL_LINK_TEMPLATE" envDefault:"https://www.legislature.state.al.us/pdf/SearchableInstruments/{session}/{bill}-int.pdf"`
		Timezone         string `env:"TIMEZONE" envDefault:"America/Chicago"`
		TruncateAt       int    `env:"TRUNCATE_AT" envDefault:"300"`
	} `envPrefix:"RENDER_"`

	Dispatch struct {
		Cooldown         time.Duration `env:"COOLDOWN" envDefault:"15s"`
		MaxMessageLength int           `env:"MAX_LENGTH" envDefault:"2000"`
	} `envPrefix:"DISPATCH_"`

	MOTD struct {
		Version int    `env:"VERSION" envDefault:"0"`
		Text    string `env:"TEXT"`
	} `envPrefix:"MOTD_"`

	Discord struct {
		Token   string `env:"TOKEN"`
		APIBase string `env:"API_BASE" envDefault:"https://discord.com/api/v10"`
	} `envPrefix:"DISCORD_"`

	Mailgun struct {
		Domain      string `env:"DOMAIN"`
		APIKey      string `env:"API_KEY"`
		SenderFrom  string `env:"SENDER_FROM"`
		Subject     string `env:"SUBJECT" envDefault:"Legislation update"`
		TimeoutSecs int    `env:"TIMEOUT_SECS" envDefault:"10"`
	} `envPrefix:"MAILGUN_"`

	NATS struct {
		URL           string        `env:"URL"`
		MaxReconnect  int           `env:"MAX_RECONNECT" envDefault:"10"`
		ReconnectWait time.Duration `env:"RECONNECT_WAIT" envDefault:"2s"`
	} `envPrefix:"NATS_"`

	log   *zap.Logger
	creds map[string]string
}

func NewConfig(log *zap.Logger) (*Config, error) {
	cfg := &Config{log: log}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	creds, err := cfg.parseCreds()
	if err != nil {
		if cfg.IsDevelopment() {
			cfg.log.Sugar().Infof("%s (api auth is disabled in development env)", err)
		} else {
			return nil, err
		}
	}
	cfg.creds = creds

	return cfg, nil
}

func (cfg *Config) IsDevelopment() bool {
	return cfg.Env == "development"
}

func (cfg *Config) GetCreds() map[string]string {
	return cfg.creds
}

func (cfg *Config) parseCreds() (map[string]string, error) {
	if cfg.BasicAuthCreds == "" {
		return nil, errors.New("BASIC_AUTH_CREDS envvar must be populated")
	}

	creds := strings.Split(cfg.BasicAuthCreds, ",")
	if len(creds) == 0 {
		return nil, errors.New("BASIC_AUTH_CREDS envvar should be filled with comma-separated values -- user1:pass1,user2:pass2")
	}

	result := make(map[string]string)
	for _, cred := range creds {
		userPass := strings.Split(cred, ":")
		if len(userPass) != 2 {
			return nil, fmt.Errorf("failed to parse '%s', each credential should be delimited by a colon -- user1:pass1,user2:pass2", cred)
		}

		user, pass := userPass[0], userPass[1]
		result[strings.Trim(user, " ")] = strings.Trim(pass, " ")
	}

	return result, nil
}

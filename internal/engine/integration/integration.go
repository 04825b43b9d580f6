package integration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-concord/concord/pkg/log"
	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"
)

// Conf carries the credentials the integration bootstraps need. Values come
// from the service configuration, not from tenant settings.
type Conf struct {
	GoogleClientID     string `mapstructure:"googleClientId"`
	GoogleClientSecret string `mapstructure:"googleClientSecret"`
	GoogleRedirectURL  string `mapstructure:"googleRedirectUrl"`
	SlackBotToken      string `mapstructure:"slackBotToken"`
	ZapierHookURL      string `mapstructure:"zapierHookUrl"`
	RequestTimeout     int    `mapstructure:"requestTimeout"`
}

var (
	ErrMissingCredentials = errors.New("integration credentials are missing")
)

// Bootstrapper prepares third-party integrations when their enabling flag
// turns on. Each bootstrap fails fast when credentials are absent; callers
// log and move on, they never retry here.
type Bootstrapper struct {
	conf   Conf
	client *resty.Client
}

func NewBootstrapper(conf Conf) *Bootstrapper {
	timeout := time.Duration(conf.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Bootstrapper{
		conf:   conf,
		client: resty.New().SetTimeout(timeout),
	}
}

// googleOAuthEndpoint is fixed; only the client credentials vary.
var googleOAuthEndpoint = oauth2.Endpoint{
	AuthURL:  "https://accounts.google.com/o/oauth2/auth",
	TokenURL: "https://oauth2.googleapis.com/token",
}

// GoogleCalendar builds the OAuth config for the calendar scope. No network
// call is made; the consent URL is produced lazily by the OAuth flow.
func (b *Bootstrapper) GoogleCalendar(ctx context.Context) error {
	if b.conf.GoogleClientID == "" || b.conf.GoogleClientSecret == "" {
		return fmt.Errorf("google calendar: %w", ErrMissingCredentials)
	}

	cfg := &oauth2.Config{
		ClientID:     b.conf.GoogleClientID,
		ClientSecret: b.conf.GoogleClientSecret,
		RedirectURL:  b.conf.GoogleRedirectURL,
		Scopes:       []string{"https://www.googleapis.com/auth/calendar.events"},
		Endpoint:     googleOAuthEndpoint,
	}

	log.Infow("google calendar integration ready",
		"clientId", cfg.ClientID,
		"redirectUrl", cfg.RedirectURL,
	)
	return nil
}

// Slack verifies the bot token against auth.test.
func (b *Bootstrapper) Slack(ctx context.Context) error {
	if b.conf.SlackBotToken == "" {
		return fmt.Errorf("slack: %w", ErrMissingCredentials)
	}

	resp, err := b.client.R().
		SetContext(ctx).
		SetAuthToken(b.conf.SlackBotToken).
		Post("https://slack.com/api/auth.test")
	if err != nil {
		return fmt.Errorf("slack auth.test: %w", err)
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("slack auth.test returned status %d", resp.StatusCode())
	}

	log.Info("slack integration ready")
	return nil
}

// Zapier only requires a hook URL to be configured.
func (b *Bootstrapper) Zapier(ctx context.Context) error {
	if b.conf.ZapierHookURL == "" {
		return fmt.Errorf("zapier: %w", ErrMissingCredentials)
	}

	log.Infow("zapier integration ready", "hookUrl", b.conf.ZapierHookURL)
	return nil
}
